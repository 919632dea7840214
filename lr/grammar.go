package lr

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/npillmayer/lrgen/lr/scanner"
)

// ValidationError is returned for grammars which cannot be used to build a parser.
type ValidationError struct {
	Grammar string
	Msg     string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("grammar %s: %s", e.Grammar, e.Msg)
}

func (g *Grammar) invalid(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Grammar: g.Name, Msg: fmt.Sprintf(format, args...)}
}

// --- Reducers and alternatives ---------------------------------------------

// Reducer is a semantic action for an alternative of a production rule. It receives
// the values of the alternative's symbols, left to right, and returns a single value.
// Terminals are represented by their tokens (of type lrgen.Token).
type Reducer func(values []interface{}) (interface{}, error)

// PassThrough is the default reducer. It returns the first value unchanged
// (nil for empty alternatives).
func PassThrough(values []interface{}) (interface{}, error) {
	if len(values) == 0 {
		return nil, nil
	}
	return values[0], nil
}

// Alternative is one of the symbol sequences of a production rule.
type Alternative struct {
	Serial  int         // position within all alternatives of the grammar
	LHS     *Production // rule this alternative belongs to
	Index   int         // position within the rule's alternatives
	Symbols []string    // right hand side
	reducer Reducer
}

// Reducer returns the semantic action of the alternative, never nil.
func (alt *Alternative) Reducer() Reducer {
	if alt.reducer == nil {
		return PassThrough
	}
	return alt.reducer
}

// Len returns the number of symbols of the alternative.
func (alt *Alternative) Len() int {
	return len(alt.Symbols)
}

func (alt *Alternative) String() string {
	return fmt.Sprintf("%d: [%s] ::= %v", alt.Serial, alt.LHS.Name, alt.Symbols)
}

// Production is a production rule: a non-terminal together with its alternatives.
type Production struct {
	Name         string
	Serial       int
	Alternatives []*Alternative
}

func (r *Production) String() string {
	return r.Name
}

// --- Rule definitions ------------------------------------------------------

// RuleDef is a builder for production rules. Use it as
//
//    lr.Rule("Expr").Is("Expr", "+", "Term").Do(add).
//                    Is("Term")
//
// Do attaches a reducer to the alternative defined last.
type RuleDef struct {
	name string
	alts []altDef
	err  error
}

type altDef struct {
	symbols []string
	reducer Reducer
}

// Rule starts the definition of a production rule.
func Rule(name string) *RuleDef {
	return &RuleDef{name: name}
}

// Is adds an alternative. Calling Is without symbols defines an epsilon alternative.
func (d *RuleDef) Is(symbols ...string) *RuleDef {
	d.alts = append(d.alts, altDef{symbols: append([]string(nil), symbols...)})
	return d
}

// Do sets the reducer of the alternative defined last.
func (d *RuleDef) Do(r Reducer) *RuleDef {
	if len(d.alts) == 0 {
		d.err = fmt.Errorf("rule %s: reducer without alternative", d.name)
		return d
	}
	d.alts[len(d.alts)-1].reducer = r
	return d
}

// Name returns the name of the rule under definition.
func (d *RuleDef) Name() string {
	return d.name
}

// --- Grammar ---------------------------------------------------------------

// Grammar holds token rules and production rules. Create one with NewGrammar,
// then call SetTokens and SetRules. Grammars are immutable after SetRules has
// succeeded.
type Grammar struct {
	Name             string
	tokenRules       []*scanner.TokenRule
	eofRule          *scanner.TokenRule
	terminals        []string      // token types, including keywords
	rules            []*Production // in order of declaration
	rulesByName      map[string]*Production
	alternatives     []*Alternative
	symbols          map[string]int // terminals first, then non-terminals
	suppressWarnings bool
}

// Option configures a grammar.
type Option func(g *Grammar)

// SuppressWarnings switches off reporting of conflicts during table construction.
func SuppressWarnings(b bool) Option {
	return func(g *Grammar) {
		g.suppressWarnings = b
	}
}

// NewGrammar creates an empty grammar.
func NewGrammar(name string, opts ...Option) *Grammar {
	g := &Grammar{Name: name}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SetTokens sets the token rules of a grammar. The order of the definitions is the
// lexer's order of priority. Exactly one definition has to denote end of input.
func (g *Grammar) SetTokens(defs ...scanner.TokenDef) error {
	if g.tokenRules != nil {
		return g.invalid("token rules already set")
	}
	var rules []*scanner.TokenRule
	var eof []*scanner.TokenRule
	seen := make(map[string]bool)
	var terminals []string
	for _, def := range defs {
		rule, err := scanner.NewTokenRule(def)
		if err != nil {
			return g.invalid("%s", err.Error())
		}
		if seen[rule.Type] {
			return g.invalid("duplicate token type %q", rule.Type)
		}
		seen[rule.Type] = true
		terminals = append(terminals, rule.Type)
		for _, kw := range rule.Keywords {
			if !seen[kw.Type] {
				seen[kw.Type] = true
				terminals = append(terminals, kw.Type)
			}
		}
		if rule.EOF {
			eof = append(eof, rule)
		}
		rules = append(rules, rule)
	}
	if len(eof) != 1 {
		return g.invalid("there must be exactly one EOF token rule, have %d", len(eof))
	}
	g.tokenRules = rules
	g.eofRule = eof[0]
	g.terminals = terminals
	g.symbols = make(map[string]int, len(terminals))
	for i, t := range terminals {
		g.symbols[t] = i
	}
	tracer().Debugf("grammar %s: %d token rules, EOF = %s", g.Name, len(rules), g.eofRule.Type)
	return nil
}

// SetRules sets the production rules of a grammar. Token rules have to be set
// beforehand. The first rule is the start rule, which must have exactly one
// alternative, ending with the EOF token.
func (g *Grammar) SetRules(defs ...*RuleDef) error {
	if g.tokenRules == nil {
		return g.invalid("token rules must be set before production rules")
	}
	if g.rules != nil {
		return g.invalid("production rules already set")
	}
	if len(defs) == 0 {
		return g.invalid("no production rules")
	}
	isTerminal := make(map[string]bool, len(g.terminals))
	for _, t := range g.terminals {
		isTerminal[t] = true
	}
	var rules []*Production
	var alternatives []*Alternative
	byName := make(map[string]*Production, len(defs))
	for _, def := range defs {
		if def.err != nil {
			return g.invalid("%s", def.err.Error())
		}
		if def.name == "" {
			return g.invalid("production rule without name")
		}
		if _, dup := byName[def.name]; dup {
			return g.invalid("duplicate production rule %s", def.name)
		}
		if isTerminal[def.name] {
			return g.invalid("production rule %s has the name of a token type", def.name)
		}
		if len(def.alts) == 0 {
			return g.invalid("production rule %s has no alternatives", def.name)
		}
		rule := &Production{Name: def.name, Serial: len(rules)}
		for i, a := range def.alts {
			alt := &Alternative{
				Serial:  len(alternatives),
				LHS:     rule,
				Index:   i,
				Symbols: a.symbols,
				reducer: a.reducer,
			}
			rule.Alternatives = append(rule.Alternatives, alt)
			alternatives = append(alternatives, alt)
		}
		byName[def.name] = rule
		rules = append(rules, rule)
	}
	for _, alt := range alternatives {
		for _, sym := range alt.Symbols {
			if _, ok := byName[sym]; !ok && !isTerminal[sym] {
				return g.invalid("symbol %q in rule %s is neither a token nor a rule", sym, alt.LHS.Name)
			}
		}
	}
	start := rules[0]
	if len(start.Alternatives) != 1 {
		return g.invalid("start rule %s must have exactly one alternative ending with %s",
			start.Name, g.eofRule.Type)
	}
	if rhs := start.Alternatives[0].Symbols; len(rhs) == 0 || rhs[len(rhs)-1] != g.eofRule.Type {
		return g.invalid("start rule %s must end with %s", start.Name, g.eofRule.Type)
	}
	g.rules = rules
	g.rulesByName = byName
	g.alternatives = alternatives
	for i, r := range rules {
		g.symbols[r.Name] = len(g.terminals) + i
	}
	return nil
}

// --- Accessors ---------------------------------------------------------------

// IsComplete is true if tokens and production rules have been set successfully.
func (g *Grammar) IsComplete() bool {
	return g.tokenRules != nil && g.rules != nil
}

// TokenRules returns the token rules of the grammar, in order of priority.
func (g *Grammar) TokenRules() []*scanner.TokenRule {
	return g.tokenRules
}

// EOF returns the end-of-input token rule.
func (g *Grammar) EOF() *scanner.TokenRule {
	return g.eofRule
}

// StartRule returns the first production rule.
func (g *Grammar) StartRule() *Production {
	if len(g.rules) == 0 {
		return nil
	}
	return g.rules[0]
}

// Rules returns the production rules, in order of declaration.
func (g *Grammar) Rules() []*Production {
	return g.rules
}

// FindRule returns the production rule for a non-terminal, or nil for terminals.
func (g *Grammar) FindRule(name string) *Production {
	return g.rulesByName[name]
}

// Alternative returns an alternative by serial number.
func (g *Grammar) Alternative(serial int) *Alternative {
	if serial < 0 || serial >= len(g.alternatives) {
		return nil
	}
	return g.alternatives[serial]
}

// Terminals returns all token types, including keywords, in order of declaration.
func (g *Grammar) Terminals() []string {
	return g.terminals
}

// IsTerminal is true for token types, including keywords.
func (g *Grammar) IsTerminal(sym string) bool {
	inx, ok := g.symbols[sym]
	return ok && inx < len(g.terminals)
}

// SymbolCount returns the number of terminals plus the number of non-terminals.
// Before production rules are set, only terminals are counted.
func (g *Grammar) SymbolCount() int {
	return len(g.symbols)
}

// SymbolIndex returns the table column of a symbol.
func (g *Grammar) SymbolIndex(sym string) (int, bool) {
	inx, ok := g.symbols[sym]
	return inx, ok
}

// Symbol returns the symbol for a table column.
func (g *Grammar) Symbol(inx int) string {
	if inx < len(g.terminals) {
		return g.terminals[inx]
	}
	return g.rules[inx-len(g.terminals)].Name
}

// EachSymbol calls mapper for every symbol in order of table columns.
func (g *Grammar) EachSymbol(mapper func(sym string, inx int)) {
	for i := 0; i < len(g.symbols); i++ {
		mapper(g.Symbol(i), i)
	}
}

// Dump is a debugging helper.
func (g *Grammar) Dump() {
	tracer().Debugf("--- grammar %s ------------------------", g.Name)
	for _, rule := range g.tokenRules {
		tracer().Debugf("    %v", rule)
	}
	for _, alt := range g.alternatives {
		tracer().Debugf("%v", alt)
	}
	tracer().Debugf("----------------------------------------")
}

func (g *Grammar) String() string {
	var b bytes.Buffer
	for _, alt := range g.alternatives {
		b.WriteString(fmt.Sprintf("%s ::= %s\n", alt.LHS.Name, strings.Join(alt.Symbols, " ")))
	}
	return b.String()
}
