package scanner

import (
	"fmt"
	"regexp"
)

// --- Token definitions -----------------------------------------------------

// TokenDef describes one lexical category of a grammar. Create one with Literal,
// Pattern, Match or EOF:
//
//    scanner.Match("WS", `\s+`).Ignore()                  // skipped whitespace
//    scanner.Literal("+", "+")                            // literal text
//    scanner.Pattern("NUMBER", `\d+`)                     // raw pattern
//    scanner.Pattern("ID", `[a-z]+`).Keywords(
//        scanner.Literal("IF", "if"))                     // keyword re-classification
//    scanner.EOF("EOF")                                   // end of input
//
// Literals are matched with a trailing word boundary if they consist of word
// characters only, so that "if" will not match a prefix of "iffy".
type TokenDef struct {
	Type      string
	text      string // literal text or pattern source
	isLiteral bool
	eof       bool
	ignore    bool
	keywords  []TokenDef
}

// Literal creates a token definition matching text literally.
func Literal(typ string, text string) TokenDef {
	return TokenDef{Type: typ, text: text, isLiteral: true}
}

// Pattern creates a token definition matching a regular expression
// at the current input position.
func Pattern(typ string, re string) TokenDef {
	return TokenDef{Type: typ, text: re}
}

// Match is a synonym for Pattern, reading well together with flags:
//
//    scanner.Match("COMMENT", `//[^\n]*`).Ignore()
//
func Match(typ string, re string) TokenDef {
	return Pattern(typ, re)
}

// EOF creates the end-of-input token definition. A grammar must have exactly one.
func EOF(typ string) TokenDef {
	return TokenDef{Type: typ, eof: true}
}

// Ignore flags a token definition as insignificant. Tokens of this kind will never
// be handed to a parser.
func (def TokenDef) Ignore() TokenDef {
	def.ignore = true
	return def
}

// AtEOF flags a token definition as the end-of-input definition.
func (def TokenDef) AtEOF() TokenDef {
	def.eof = true
	return def
}

// Keywords adds keyword sub-rules to a token definition. Keyword rules are tested in
// order against the text matched by def.
func (def TokenDef) Keywords(kw ...TokenDef) TokenDef {
	def.keywords = append(append([]TokenDef(nil), def.keywords...), kw...)
	return def
}

// --- Token rules -----------------------------------------------------------

// TokenRule is a compiled token definition.
type TokenRule struct {
	Type     string
	EOF      bool
	Ignore   bool
	Keywords []*TokenRule
	literal  string
	source   string         // pattern source as given by the client, or escaped literal
	re       *regexp.Regexp // nil for rules never matching
}

var wordOnly = regexp.MustCompile(`^\w+$`)

// NewTokenRule compiles a token definition. It returns an error if def carries a
// malformed pattern or has no type.
//
// A definition without literal and pattern produces a rule which never matches. This
// is the normal case for the end-of-input rule, which is driven by exhaustion of input.
func NewTokenRule(def TokenDef) (*TokenRule, error) {
	if def.Type == "" {
		return nil, fmt.Errorf("token rule without type")
	}
	rule := &TokenRule{
		Type:   def.Type,
		EOF:    def.eof,
		Ignore: def.ignore,
	}
	var err error
	if def.isLiteral && def.text != "" {
		rule.literal = def.text
		rule.source = regexp.QuoteMeta(def.text)
		rule.re, err = enclose(rule.source, wordOnly.MatchString(def.text))
	} else if def.text != "" {
		rule.source = def.text
		rule.re, err = enclose(def.text, false)
	}
	if err != nil {
		return nil, fmt.Errorf("token rule %q: %w", def.Type, err)
	}
	for _, kwdef := range def.keywords {
		kw, err := NewTokenRule(kwdef)
		if err != nil {
			return nil, err
		}
		rule.Keywords = append(rule.Keywords, kw)
	}
	return rule, nil
}

// enclose anchors a pattern at the start of input.
func enclose(source string, boundary bool) (*regexp.Regexp, error) {
	if boundary {
		return regexp.Compile(`^(?:` + source + `\b)`)
	}
	return regexp.Compile(`^(?:` + source + `)`)
}

// Source returns the pattern source of a rule, or "" for rules never matching.
// Literal rules return their escaped text.
func (r *TokenRule) Source() string {
	return r.source
}

// LiteralText returns the text of a literal rule, or "" for pattern rules.
func (r *TokenRule) LiteralText() string {
	return r.literal
}

// Match returns the length of the match of r at the start of input, or -1.
// Rules never search past the first character; empty matches are no matches.
func (r *TokenRule) Match(input string) int {
	if r.re == nil {
		return -1
	}
	loc := r.re.FindStringIndex(input)
	if loc == nil || loc[1] == 0 {
		return -1
	}
	return loc[1]
}

// Classify returns the first keyword sub-rule matching the complete text,
// or r itself if no keyword matches.
func (r *TokenRule) Classify(text string) *TokenRule {
	for _, kw := range r.Keywords {
		if kw.Match(text) == len(text) {
			return kw
		}
	}
	return r
}

func (r *TokenRule) String() string {
	return fmt.Sprintf("<rule %s /%s/>", r.Type, r.source)
}
