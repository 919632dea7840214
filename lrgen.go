package lrgen

import "fmt"

// --- A general purpose interface for tokens --------------------------------

// Token represents an input token. Tokens are produced by a scanner and
// reflect terminals of a grammar.
//
// An example would be a token for a number:
//
//    TokType  = "NUMBER"   // name of the token rule which matched
//    Lexeme   = "3141"     // lexeme as it appeared in the input text
//    Location = 1:4-1:8    // where it occured in the input text
//
// The end-of-input token has an empty lexeme.
type Token interface {
	TokType() string
	Lexeme() string
	Location() Location
}

// --- Locations --------------------------------------------------------

// Location captures the input run a token covers. Positions are byte offsets,
// PosEnd being the position just behind the token. Lines are 1-based,
// columns are 0-based.
type Location struct {
	PosStart  uint64
	PosEnd    uint64
	LineStart int
	LineEnd   int
	ColStart  int
	ColEnd    int
}

// Len returns the length of the location in bytes.
func (l Location) Len() uint64 {
	return l.PosEnd - l.PosStart
}

// IsNull is true for an empty location at the start of input.
func (l Location) IsNull() bool {
	return l == Location{}
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", l.LineStart, l.ColStart, l.LineEnd, l.ColEnd)
}
