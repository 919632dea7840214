/*
Package lr implements grammars and LR(0) parse tables.

Building a Grammar

Grammars hold token rules and production rules. Token rules are set first, in order
of lexing priority, and exactly one of them has to denote end of input.
The first production rule is the start rule. It must have a single alternative,
ending with the end-of-input token.

Example:

    g := lr.NewGrammar("Sums")
    err := g.SetTokens(
        scanner.Match("WS", `\s+`).Ignore(),
        scanner.Literal("+", "+"),
        scanner.Pattern("NUMBER", `\d+`),
        scanner.EOF("EOF"),
    )
    err = g.SetRules(
        lr.Rule("Start").Is("Sum", "EOF"),
        lr.Rule("Sum").Is("Sum", "+", "NUMBER").Do(add).
                       Is("NUMBER").Do(number),
    )

Reducers receive the values of the symbols of an alternative, left to right:
tokens for terminals, reducer results for non-terminals. Alternatives without a
reducer pass their first value through.

Parser Construction

From a grammar, a characteristic finite state machine (CFSM) is built. States are
closed item sets, numbered in order of discovery. The CFSM will then be transformed
into a GOTO table and an ACTION table. Reduce actions are entered into every
column of a state's row, independent of lookahead (this is LR(0)). Table cells are
lists of actions: conflicts are reported, but never resolved, other than by the
first action entered into a cell taking precedence.

Example:

    lrgen := lr.NewTableGenerator(g)
    table, err := lrgen.CreateTables()   // construct LR parser tables
    if lrgen.HasConflicts { ... }        // first action of a cell wins

The CFSM will not be thrown away, but is made available to the client.
This is intended for debugging purposes. It can be exported to Graphviz's Dot-format.

Parse tables are immutable and may be shared between concurrent parsers,
see package lr0.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrgen.lr'.
func tracer() tracing.Trace {
	return tracing.Select("lrgen.lr")
}
