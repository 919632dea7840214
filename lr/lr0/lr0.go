/*
Package lr0 provides an LR(0)-parser. The parser uses the tables of package lr
to drive a shift-reduce parse of an input text, tokenized by a scanner.Tokenizer,
calling the reducers of the grammar to compute a single result value.

This parser is intended for small grammars, e.g. for configuration input or small
domain-specific languages. It reduces without consulting lookahead. Grammars which
need lookahead to decide between shifting and reducing will produce conflicting
table entries; the parser always follows the first action entered into a table cell.

The main focus for this implementation is adaptability and on-the-fly usage.
Clients are able to construct the parse tables from a grammar and use the
parser directly, without a code-generation or compile step.

Usage

Clients construct a grammar and then create a parser for it:

	g := lr.NewGrammar("Sums")
	g.SetTokens(…)
	g.SetRules(…)
	parser, err := lr0.NewParser(g)
	if err != nil { … }          // grammar not complete
	if parser.HasConflicts() { … } // table cells with more than one action

Finally parse some input:

	value, err := parser.Parse("1 + 2 + 3")

A parser holds the parse tables, which are immutable. Parse may be called
concurrently: every call creates its own scanner and its own parse path.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lr0

import (
	"errors"
	"fmt"

	"github.com/npillmayer/lrgen"
	"github.com/npillmayer/lrgen/lr"
	"github.com/npillmayer/lrgen/lr/scanner"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrgen.lr'.
func tracer() tracing.Trace {
	return tracing.Select("lrgen.lr")
}

// ErrUnexpectedEOF is wrapped by parse errors occuring at the end of input.
var ErrUnexpectedEOF = errors.New("unexpected end of input")

// ParseError is returned if the parse tables do not hold an action for the current
// state and lookahead token.
type ParseError struct {
	Line   int
	Column int
	Token  lrgen.Token // lookahead, nil if input has been exhausted
	State  int         // state of the parser
	Msg    string
	err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %d:%d", e.Msg, e.Line, e.Column)
}

// Unwrap returns ErrUnexpectedEOF for errors at the end of input.
func (e *ParseError) Unwrap() error {
	return e.err
}

// TokenizerFactory creates a tokenizer for an input text.
type TokenizerFactory func(input string) (scanner.Tokenizer, error)

// Option configures a parser.
type Option func(p *Parser)

// WithTokenizer replaces the default scanner, which is a scanner.Lexer for the
// token rules of the grammar.
func WithTokenizer(factory TokenizerFactory) Option {
	return func(p *Parser) {
		p.tokenizer = factory
	}
}

// Parser is an LR(0)-parser type. Create and initialize one with lr0.NewParser(...)
type Parser struct {
	G         *lr.Grammar
	table     *lr.ParseTable
	tokenizer TokenizerFactory
}

// NewParser creates an LR(0) parser. It constructs the parse tables for g, which
// must have its tokens and rules set. Conflicts in the tables are not an error.
func NewParser(g *lr.Grammar, opts ...Option) (*Parser, error) {
	if g == nil {
		return nil, errors.New("cannot create parser without grammar")
	}
	lrgen := lr.NewTableGenerator(g)
	table, err := lrgen.CreateTables()
	if err != nil {
		return nil, err
	}
	parser := &Parser{
		G:     g,
		table: table,
	}
	parser.tokenizer = func(input string) (scanner.Tokenizer, error) {
		return scanner.NewLexer(input, g.TokenRules()), nil
	}
	for _, opt := range opts {
		opt(parser)
	}
	return parser, nil
}

// Table returns the parse tables of a parser.
func (p *Parser) Table() *lr.ParseTable {
	return p.table
}

// HasConflicts is true if any cell of the parse tables holds more than one action.
func (p *Parser) HasConflicts() bool {
	return len(p.table.Conflicts) > 0
}

// Parse parses an input text and returns the value computed by the reducer of the
// start rule. Lex errors, parse errors and errors returned from reducers abort
// the parse.
func (p *Parser) Parse(input string) (interface{}, error) {
	tracer().Debugf("~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~")
	scan, err := p.tokenizer(input)
	if err != nil {
		return nil, err
	}
	path := newPath(p.table, scan)
	return path.run()
}
