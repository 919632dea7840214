/*
Package scanner implements token rules and a lexer driven by them, to be used with
parsers of package lr.

Token rules are applied in declaration order, the first rule matching at the current
position wins (even if a later rule would match a longer run of input). A token rule
may carry keyword sub-rules, which re-classify a token whose complete text they match.

An alternative implementation of the Tokenizer interface, backed by lexmachine, lives in
sub-package `lexmach`.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scanner

import (
	"github.com/npillmayer/lrgen"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrgen.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("lrgen.scanner")
}

// Tokenizer is a scanner interface. Next returns nil after the end-of-input
// token has been delivered.
type Tokenizer interface {
	Next() (lrgen.Token, error)
	Save() Checkpoint
	Load(Checkpoint) error
	Cursor() (line, column int)
}

// Checkpoint is a saved scanner position, see Tokenizer.Save and Tokenizer.Load.
type Checkpoint struct {
	Position   uint64
	Line       int
	PrevLine   int
	Column     int
	PrevColumn int
	Done       bool
}

// --- Default tokens --------------------------------------------------------

// DefaultToken is a very unsophisticated token type, used by the rule lexer as well
// as by the lexmachine adapter.
type DefaultToken struct {
	kind   string
	lexeme string
	loc    lrgen.Location
}

var _ lrgen.Token = DefaultToken{}

// MakeDefaultToken creates a token.
func MakeDefaultToken(typ string, lexeme string, loc lrgen.Location) DefaultToken {
	return DefaultToken{
		kind:   typ,
		lexeme: lexeme,
		loc:    loc,
	}
}

// TokType is part of interface lrgen.Token.
func (t DefaultToken) TokType() string {
	return t.kind
}

// Lexeme is part of interface lrgen.Token.
func (t DefaultToken) Lexeme() string {
	return t.lexeme
}

// Location is part of interface lrgen.Token.
func (t DefaultToken) Location() lrgen.Location {
	return t.loc
}

func (t DefaultToken) String() string {
	return t.kind + "(" + t.lexeme + ")@" + t.loc.String()
}
