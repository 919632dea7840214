package lexmach

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/lrgen"
	"github.com/npillmayer/lrgen/lr/scanner"
	"github.com/npillmayer/schuko/tracing"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// lexmachine adapter

// tracer traces with key 'lrgen.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("lrgen.scanner")
}

// LMAdapter is a lexmachine adapter to use lexmachine as a scanner.
type LMAdapter struct {
	Lexer *lexmachine.Lexer
	eof   *scanner.TokenRule
}

// NewLMAdapter creates a new lexmachine adapter from token rules, usually taken from
// a grammar. Literal rules are added as escaped literals, pattern rules with their
// pattern source, which therefore has to conform to lexmachine's regular expression
// syntax. Ignored rules are skipped and keyword sub-rules re-classify matched text.
//
// NewLMAdapter will return an error if compiling the DFA failed.
func NewLMAdapter(rules []*scanner.TokenRule) (*LMAdapter, error) {
	adapter := &LMAdapter{}
	adapter.Lexer = lexmachine.NewLexer()
	for i, rule := range rules {
		if rule.EOF {
			adapter.eof = rule
		}
		var r string
		if lit := rule.LiteralText(); lit != "" {
			r = escape(lit)
		} else if r = rule.Source(); r == "" {
			continue // rule never matches
		}
		tracer().Debugf("lexmachine: adding %s = %s", rule.Type, r)
		if rule.Ignore && len(rule.Keywords) == 0 {
			adapter.Lexer.Add([]byte(r), Skip)
		} else {
			adapter.Lexer.Add([]byte(r), MakeToken(rule, i))
		}
	}
	if err := adapter.Lexer.Compile(); err != nil {
		tracer().Errorf("Error compiling DFA: %v", err)
		return nil, err
	}
	return adapter, nil
}

// escape quotes all characters of a literal which are not letters or digits.
func escape(lit string) string {
	var b strings.Builder
	for _, r := range lit {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Scanner creates a scanner for a given input. The scanner will implement the
// Tokenizer interface.
func (lm *LMAdapter) Scanner(input string) (*LMScanner, error) {
	s, err := lm.Lexer.Scanner([]byte(input))
	if err != nil {
		return nil, err
	}
	return &LMScanner{scanner: s, eof: lm.eof, input: input, line: 1}, nil
}

// Tokenizer is a shortcut to create scanners for the parsers of package lr0.
func (lm *LMAdapter) Tokenizer(input string) (scanner.Tokenizer, error) {
	s, err := lm.Scanner(input)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// LMScanner is a scanner type for lexmachine scanners, implementing the
// Tokenizer interface.
//
// lexmachine prefers the longest match, breaking ties by order of rules. This
// differs from scanner.Lexer, where the first rule matching wins.
type LMScanner struct {
	scanner *lexmachine.Scanner
	eof     *scanner.TokenRule
	input   string
	pos     int // byte offset we computed line and column for
	line    int
	column  int
	done    bool
}

var _ scanner.Tokenizer = (*LMScanner)(nil)

// Next is part of the Tokenizer interface.
func (lms *LMScanner) Next() (lrgen.Token, error) {
	if lms.done {
		return nil, nil
	}
	tok, err, eos := lms.scanner.Next()
	if err != nil {
		if ui, is := err.(*machines.UnconsumedInput); is {
			return nil, lms.error(ui.StartTC)
		}
		return nil, err
	}
	if eos {
		lms.done = true
		lms.moveTo(len(lms.input))
		if lms.eof == nil {
			return nil, &scanner.LexError{Line: lms.line, Column: lms.column,
				Char: utf8.RuneError, Msg: "unexpected end of input"}
		}
		return lms.makeToken(lms.eof.Type, "", len(lms.input)), nil
	}
	tracer().Debugf("tok is %T | %v", tok, tok)
	token := tok.(*lexmachine.Token)
	return lms.makeToken(token.Value.(string), string(token.Lexeme), token.TC), nil
}

func (lms *LMScanner) makeToken(typ string, lexeme string, tc int) scanner.DefaultToken {
	lms.moveTo(tc)
	loc := lrgen.Location{
		PosStart:  uint64(tc),
		LineStart: lms.line,
		ColStart:  lms.column,
	}
	lms.moveTo(tc + len(lexeme))
	loc.PosEnd = uint64(lms.pos)
	loc.LineEnd, loc.ColEnd = lms.line, lms.column
	return scanner.MakeDefaultToken(typ, lexeme, loc)
}

// moveTo advances line and column to byte offset tc, which must not be
// behind the current position.
func (lms *LMScanner) moveTo(tc int) {
	if tc > lms.pos {
		lms.line, lms.column = scanner.Advance(lms.line, lms.column, lms.input[lms.pos:tc])
		lms.pos = tc
	}
}

func (lms *LMScanner) error(tc int) *scanner.LexError {
	lms.moveTo(tc)
	r, _ := utf8.DecodeRuneInString(lms.input[tc:])
	return &scanner.LexError{
		Line:   lms.line,
		Column: lms.column,
		Char:   r,
		Msg:    fmt.Sprintf("unexpected character %q", r),
	}
}

// Cursor is part of the Tokenizer interface.
func (lms *LMScanner) Cursor() (int, int) {
	return lms.line, lms.column
}

// Save is part of the Tokenizer interface.
func (lms *LMScanner) Save() scanner.Checkpoint {
	return scanner.Checkpoint{
		Position: uint64(lms.pos),
		Line:     lms.line,
		Column:   lms.column,
		Done:     lms.done,
	}
}

// Load is part of the Tokenizer interface.
func (lms *LMScanner) Load(cp scanner.Checkpoint) error {
	if cp.Position > uint64(len(lms.input)) {
		return fmt.Errorf("checkpoint at %d is beyond end of input (%d)", cp.Position, len(lms.input))
	}
	lms.scanner.TC = int(cp.Position)
	lms.pos = int(cp.Position)
	lms.line, lms.column = cp.Line, cp.Column
	lms.done = cp.Done
	return nil
}

// ---------------------------------------------------------------------------

// Skip is a pre-defined action which ignores the scanned match.
func Skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// MakeToken is a pre-defined action which wraps a scanned match into a token.
// The token's value is the type of the rule or the type of its keyword sub-rule
// matching the text. Ignored keywords will be skipped.
func MakeToken(rule *scanner.TokenRule, id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		resolved := rule.Classify(string(m.Bytes))
		if resolved.Ignore {
			return nil, nil
		}
		return s.Token(id, resolved.Type, m), nil
	}
}
