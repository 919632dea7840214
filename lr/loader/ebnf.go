package loader

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/npillmayer/lrgen/lr"
	"golang.org/x/exp/ebnf"
)

// RulesFromEBNF reads production rules in EBNF. Names not defined by a production
// and quoted tokens are taken as token types. Rules are returned in order of
// appearance, except for the start rule, which is moved to the front. If start is
// empty, the first production is the start rule.
//
// Options, groups and repetitions are replaced by helper rules, named after the
// rule they appear in:
//
//    A = x [ y ] .     ⇒    A = x A_1 .      A_1 = y | .
//    A = x { y } .     ⇒    A = x A_1 .      A_1 = A_1 y | .
//
// Ranges are not supported.
func RulesFromEBNF(src io.Reader, start string, reducers ReducerFactory) ([]*lr.RuleDef, error) {
	grammar, err := ebnf.Parse("ebnf", src)
	if err != nil {
		return nil, err
	}
	if len(grammar) == 0 {
		return nil, errors.New("no productions")
	}
	prods := make([]*ebnf.Production, 0, len(grammar))
	for _, p := range grammar {
		prods = append(prods, p)
	}
	sort.Slice(prods, func(i, j int) bool {
		return prods[i].Pos().Offset < prods[j].Pos().Offset
	})
	if start != "" {
		p, ok := grammar[start]
		if !ok {
			return nil, fmt.Errorf("start rule %s not defined", start)
		}
		for i, q := range prods {
			if q == p {
				copy(prods[1:i+1], prods[:i])
				prods[0] = p
				break
			}
		}
	}
	d := &desugarer{reducers: reducers, helpers: make(map[string]int)}
	var defs []*lr.RuleDef
	for _, p := range prods {
		alts, err := d.alternatives(p.Name.String, p.Expr)
		if err != nil {
			return nil, err
		}
		defs = append(defs, d.ruleDef(p.Name.String, alts))
	}
	return append(defs, d.extra...), nil
}

// desugarer flattens EBNF expressions into alternatives of symbols.
type desugarer struct {
	reducers ReducerFactory
	helpers  map[string]int // count of helper rules per rule
	extra    []*lr.RuleDef  // helper rules
}

func (d *desugarer) ruleDef(name string, alts [][]string) *lr.RuleDef {
	def := lr.Rule(name)
	for n, symbols := range alts {
		def.Is(symbols...)
		attachReducer(def, d.reducers, n)
	}
	return def
}

// alternatives returns the alternatives of an expression within rule lhs.
func (d *desugarer) alternatives(lhs string, expr ebnf.Expression) ([][]string, error) {
	if alt, ok := expr.(ebnf.Alternative); ok {
		var alts [][]string
		for _, x := range alt {
			symbols, err := d.sequence(lhs, x)
			if err != nil {
				return nil, err
			}
			alts = append(alts, symbols)
		}
		return alts, nil
	}
	symbols, err := d.sequence(lhs, expr)
	if err != nil {
		return nil, err
	}
	return [][]string{symbols}, nil
}

// sequence returns the symbols of an expression which is not an alternative.
func (d *desugarer) sequence(lhs string, expr ebnf.Expression) ([]string, error) {
	switch x := expr.(type) {
	case nil:
		return []string{}, nil
	case ebnf.Sequence:
		var symbols []string
		for _, e := range x {
			s, err := d.sequence(lhs, e)
			if err != nil {
				return nil, err
			}
			symbols = append(symbols, s...)
		}
		return symbols, nil
	case *ebnf.Name:
		return []string{x.String}, nil
	case *ebnf.Token:
		return []string{x.String}, nil
	case *ebnf.Group:
		alts, err := d.alternatives(lhs, x.Body)
		if err != nil {
			return nil, err
		}
		if len(alts) == 1 {
			return alts[0], nil
		}
		return []string{d.helper(lhs, alts)}, nil
	case *ebnf.Option:
		alts, err := d.alternatives(lhs, x.Body)
		if err != nil {
			return nil, err
		}
		return []string{d.helper(lhs, append(alts, []string{}))}, nil
	case *ebnf.Repetition:
		alts, err := d.alternatives(lhs, x.Body)
		if err != nil {
			return nil, err
		}
		name := d.helperName(lhs)
		var rec [][]string
		for _, alt := range alts {
			rec = append(rec, append([]string{name}, alt...))
		}
		d.extra = append(d.extra, d.ruleDef(name, append(rec, []string{})))
		return []string{name}, nil
	case *ebnf.Range:
		return nil, fmt.Errorf("rule %s: ranges are not supported", lhs)
	case ebnf.Alternative:
		alts, err := d.alternatives(lhs, x)
		if err != nil {
			return nil, err
		}
		return []string{d.helper(lhs, alts)}, nil
	}
	return nil, fmt.Errorf("rule %s: cannot understand %T", lhs, expr)
}

func (d *desugarer) helperName(lhs string) string {
	d.helpers[lhs]++
	return fmt.Sprintf("%s_%d", lhs, d.helpers[lhs])
}

func (d *desugarer) helper(lhs string, alts [][]string) string {
	name := d.helperName(lhs)
	d.extra = append(d.extra, d.ruleDef(name, alts))
	return name
}
