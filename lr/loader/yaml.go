/*
Package loader reads grammars from text: token and production rules from YAML
documents, production rules from EBNF.

A grammar file lists tokens in order of lexing priority and rules with the start
rule first:

    name: Expressions
    tokens:
      WS:     { match: '\s+', ignore: true }
      "+":    "+"                        # a literal
      NUMBER: !pattern '\d+'             # a pattern
      ID:     { match: '[a-z]+', keywords: { IF: if } }
      EOF:    { eof: true }
    rules:
      Start:      [ [Expression, EOF] ]
      Expression: [ "Expression + NUMBER", [NUMBER] ]

Alternatives are either lists of symbols or strings of symbols separated by blanks.
An empty list denotes an empty alternative. Instead of `rules`, a grammar file may
carry production rules in EBNF (see package golang.org/x/exp/ebnf):

    ebnf: |
      Start      = Expression EOF .
      Expression = Expression "+" NUMBER | NUMBER .

Semantic actions cannot be expressed in grammar files. Clients provide them by a
ReducerFactory, which is called for every alternative.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package loader

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/lrgen/lr"
	"github.com/npillmayer/lrgen/lr/scanner"
	"github.com/npillmayer/schuko/tracing"
	"gopkg.in/yaml.v3"
)

// tracer traces with key 'lrgen.lr'.
func tracer() tracing.Trace {
	return tracing.Select("lrgen.lr")
}

// ReducerFactory returns the reducer for alternative number alt of rule lhs. It may
// return nil, leaving the alternative with the default reducer.
type ReducerFactory func(lhs string, alt int) lr.Reducer

type grammarDoc struct {
	Name   string    `yaml:"name"`
	Tokens yaml.Node `yaml:"tokens"`
	Rules  yaml.Node `yaml:"rules"`
	EBNF   string    `yaml:"ebnf"`
	Start  string    `yaml:"start"`
}

type tokenDoc struct {
	Match    string    `yaml:"match"`
	Literal  string    `yaml:"literal"`
	EOF      bool      `yaml:"eof"`
	Ignore   bool      `yaml:"ignore"`
	Keywords yaml.Node `yaml:"keywords"`
}

// FromFile reads a grammar from a YAML file.
func FromFile(path string, reducers ReducerFactory, opts ...lr.Option) (*lr.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return FromYAML(f, reducers, opts...)
}

// FromYAML reads a grammar from a YAML document.
func FromYAML(r io.Reader, reducers ReducerFactory, opts ...lr.Option) (*lr.Grammar, error) {
	var doc grammarDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("cannot read grammar: %w", err)
	}
	if doc.Name == "" {
		doc.Name = "G"
	}
	tracer().Debugf("loading grammar %s", doc.Name)
	tokens, err := tokenDefs(&doc.Tokens)
	if err != nil {
		return nil, fmt.Errorf("grammar %s: %w", doc.Name, err)
	}
	var rules []*lr.RuleDef
	if doc.EBNF != "" {
		if doc.Rules.Kind != 0 {
			return nil, fmt.Errorf("grammar %s: either rules or ebnf may be given, not both", doc.Name)
		}
		rules, err = RulesFromEBNF(strings.NewReader(doc.EBNF), doc.Start, reducers)
	} else {
		rules, err = ruleDefs(&doc.Rules, reducers)
	}
	if err != nil {
		return nil, fmt.Errorf("grammar %s: %w", doc.Name, err)
	}
	g := lr.NewGrammar(doc.Name, opts...)
	if err = g.SetTokens(tokens...); err != nil {
		return nil, err
	}
	if err = g.SetRules(rules...); err != nil {
		return nil, err
	}
	return g, nil
}

// tokenDefs reads a mapping of token types to token definitions, preserving order.
func tokenDefs(node *yaml.Node) ([]scanner.TokenDef, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: tokens have to be a mapping", node.Line)
	}
	var defs []scanner.TokenDef
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		def, err := tokenDef(key.Value, value)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func tokenDef(typ string, node *yaml.Node) (scanner.TokenDef, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!pattern" {
			return scanner.Pattern(typ, node.Value), nil
		}
		if node.Tag == "!!null" {
			return scanner.TokenDef{}, fmt.Errorf("line %d: token %s has no definition", node.Line, typ)
		}
		return scanner.Literal(typ, node.Value), nil
	case yaml.MappingNode:
		var desc tokenDoc
		if err := node.Decode(&desc); err != nil {
			return scanner.TokenDef{}, err
		}
		var def scanner.TokenDef
		switch {
		case desc.Match != "" && desc.Literal != "":
			return def, fmt.Errorf("line %d: token %s has match and literal", node.Line, typ)
		case desc.Literal != "":
			def = scanner.Literal(typ, desc.Literal)
		case desc.Match != "":
			def = scanner.Match(typ, desc.Match)
		case desc.EOF:
			def = scanner.EOF(typ)
		default:
			return def, fmt.Errorf("line %d: token %s matches nothing", node.Line, typ)
		}
		if desc.EOF {
			def = def.AtEOF()
		}
		if desc.Ignore {
			def = def.Ignore()
		}
		if desc.Keywords.Kind != 0 {
			keywords, err := tokenDefs(&desc.Keywords)
			if err != nil {
				return def, err
			}
			def = def.Keywords(keywords...)
		}
		return def, nil
	}
	return scanner.TokenDef{}, fmt.Errorf("line %d: cannot understand token %s", node.Line, typ)
}

// ruleDefs reads a mapping of rule names to lists of alternatives, preserving order.
func ruleDefs(node *yaml.Node, reducers ReducerFactory) ([]*lr.RuleDef, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: rules have to be a mapping", node.Line)
	}
	var defs []*lr.RuleDef
	for i := 0; i+1 < len(node.Content); i += 2 {
		name, alts := node.Content[i].Value, node.Content[i+1]
		if alts.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("line %d: rule %s has to be a list of alternatives", alts.Line, name)
		}
		def := lr.Rule(name)
		for n, alt := range alts.Content {
			symbols, err := alternative(alt)
			if err != nil {
				return nil, fmt.Errorf("rule %s: %w", name, err)
			}
			def.Is(symbols...)
			attachReducer(def, reducers, n)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func alternative(node *yaml.Node) ([]string, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return strings.Fields(node.Value), nil
	case yaml.SequenceNode:
		var symbols []string
		if err := node.Decode(&symbols); err != nil {
			return nil, err
		}
		return symbols, nil
	}
	return nil, fmt.Errorf("line %d: alternative has to be a list of symbols", node.Line)
}

func attachReducer(def *lr.RuleDef, reducers ReducerFactory, alt int) {
	if reducers == nil {
		return
	}
	if r := reducers(def.Name(), alt); r != nil {
		def.Do(r)
	}
}
