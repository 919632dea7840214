/*
Command lrepl provides an interactive command line tool (LREPL) for experiments
with LR(0) grammars. It reads input lines, parses them with a parser generated
for a grammar and prints the result.

Without arguments, LREPL uses a small calculator grammar:

    Start      ➞ Expression EOF
    Expression ➞ Expression + Term  |  Expression * Term  |  Term
    Term       ➞ NUMBER

Operators have no precedence and associate to the left, i.e. "1+2*3" evaluates to 9.

Other grammars are read from YAML files (see package loader):

    lrepl -grammar expr.yaml -tables

For these, LREPL prints parse trees. Flag -tables prints the parse tables,
flag -dot writes the CFSM in Graphviz format, flag -lexmach switches to a
lexmachine-generated scanner.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrgen.lr'
func tracer() tracing.Trace {
	return tracing.Select("lrgen.lr")
}
