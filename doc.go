/*
Package lrgen is a grammar-driven lexer and LR(0) parser generator.

Clients declare token rules and production rules, and lrgen constructs
a deterministic shift-reduce parse table for them. The table is built once and
then drives any number of parses, invoking client-supplied reducer functions
to build a result value. Package structure is as follows:

■ lr: Package lr holds grammars, the characteristic finite state machine (CFSM)
and the ACTION/GOTO tables derived from it.

■ lr/scanner: Package scanner implements token rules and a rule-driven lexer.

■ lr/lr0: Package lr0 executes parse tables against input text.

■ lr/loader: Package loader reads grammars from YAML files and EBNF sources.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lrgen
