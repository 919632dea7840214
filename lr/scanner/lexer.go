package scanner

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/lrgen"
)

// LexError is returned by a lexer if no token rule matches at the current position.
type LexError struct {
	Line   int
	Column int
	Char   rune // offending character, utf8.RuneError at end of input
	Msg    string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s at %d:%d", e.Msg, e.Line, e.Column)
}

// Lexer scans immutable input text from left to right, applying token rules in
// order. Create one with NewLexer.
//
// A lexer tracks the current line and column, as well as line and column at the end
// of the previous token, which is where the next token will start.
type Lexer struct {
	input      string
	rules      []*TokenRule
	rest       string // remaining input
	pos        uint64
	line       int
	prevLine   int
	column     int
	prevColumn int
	done       bool
}

var _ Tokenizer = (*Lexer)(nil)

// NewLexer creates a lexer for input, using token rules in order of priority.
func NewLexer(input string, rules []*TokenRule) *Lexer {
	return &Lexer{
		input:    input,
		rules:    rules,
		rest:     input,
		line:     1,
		prevLine: 1,
	}
}

// Next returns the next significant token. After the end-of-input token has been
// delivered, Next returns (nil, nil).
func (lx *Lexer) Next() (lrgen.Token, error) {
	for !lx.done {
		token, rule, err := lx.next()
		if err != nil {
			return nil, err
		}
		if rule.Ignore {
			tracer().Debugf("ignoring %v", token)
			continue
		}
		return token, nil
	}
	return nil, nil
}

func (lx *Lexer) next() (lrgen.Token, *TokenRule, error) {
	if lx.rest == "" {
		lx.done = true
		for _, rule := range lx.rules {
			if rule.EOF {
				lx.prevLine, lx.prevColumn = lx.line, lx.column
				return lx.makeToken(rule.Type, ""), rule, nil
			}
		}
		return nil, nil, lx.error("unexpected end of input")
	}
	for _, rule := range lx.rules {
		n := rule.Match(lx.rest)
		if n < 0 {
			continue
		}
		text := lx.rest[:n]
		lx.advance(text)
		resolved := rule.Classify(text)
		return lx.makeToken(resolved.Type, text), resolved, nil
	}
	return nil, nil, lx.error("unexpected character")
}

// advance moves the cursor over text, recomputing line and column.
func (lx *Lexer) advance(text string) {
	lx.rest = lx.rest[len(text):]
	lx.pos += uint64(len(text))
	lx.prevLine, lx.prevColumn = lx.line, lx.column
	lx.line, lx.column = Advance(lx.line, lx.column, text)
}

// Advance returns line and column after moving from (line, column) over text.
// Columns count bytes, starting at 0.
func Advance(line, column int, text string) (int, int) {
	if breaks, tail := lineBreaks(text); breaks > 0 {
		return line + breaks, tail
	}
	return line, column + len(text)
}

// lineBreaks counts line breaks (\n, \r\n or \r) in text and returns the length of
// the partial line following the last break.
func lineBreaks(text string) (int, int) {
	breaks, tail := 0, len(text)
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
		case '\n':
		default:
			continue
		}
		breaks++
		tail = len(text) - i - 1
	}
	return breaks, tail
}

func (lx *Lexer) makeToken(typ string, text string) DefaultToken {
	return MakeDefaultToken(typ, text, lrgen.Location{
		PosStart:  lx.pos - uint64(len(text)),
		PosEnd:    lx.pos,
		LineStart: lx.prevLine,
		LineEnd:   lx.line,
		ColStart:  lx.prevColumn,
		ColEnd:    lx.column,
	})
}

func (lx *Lexer) error(msg string) *LexError {
	r := utf8.RuneError
	if lx.rest != "" {
		r, _ = utf8.DecodeRuneInString(lx.rest)
		msg = fmt.Sprintf("%s %q", msg, r)
	}
	return &LexError{Line: lx.line, Column: lx.column, Char: r, Msg: msg}
}

// Cursor returns the current line and column.
func (lx *Lexer) Cursor() (int, int) {
	return lx.line, lx.column
}

// Save captures the current state of the lexer.
func (lx *Lexer) Save() Checkpoint {
	return Checkpoint{
		Position:   lx.pos,
		Line:       lx.line,
		PrevLine:   lx.prevLine,
		Column:     lx.column,
		PrevColumn: lx.prevColumn,
		Done:       lx.done,
	}
}

// Load restores a state previously captured by Save. It fails for checkpoints
// beyond the end of the lexer's input.
func (lx *Lexer) Load(cp Checkpoint) error {
	if cp.Position > uint64(len(lx.input)) {
		return fmt.Errorf("checkpoint at %d is beyond end of input (%d)", cp.Position, len(lx.input))
	}
	lx.pos = cp.Position
	lx.line = cp.Line
	lx.prevLine = cp.PrevLine
	lx.column = cp.Column
	lx.prevColumn = cp.PrevColumn
	lx.done = cp.Done
	lx.rest = lx.input[lx.pos:]
	return nil
}

// Tokens scans the remaining input and returns all significant tokens, including
// the end-of-input token. On error the tokens scanned so far are returned.
func (lx *Lexer) Tokens() ([]lrgen.Token, error) {
	var tokens []lrgen.Token
	for {
		token, err := lx.Next()
		if err != nil || token == nil {
			return tokens, err
		}
		tokens = append(tokens, token)
	}
}

// String returns the remaining input, abbreviated.
func (lx *Lexer) String() string {
	rest := lx.rest
	if len(rest) > 20 {
		rest = rest[:20] + "…"
	}
	return fmt.Sprintf("lexer@%d:%d %q", lx.line, lx.column, strings.TrimSpace(rest))
}
