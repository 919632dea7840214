package loader

import (
	"bytes"
	"fmt"

	"github.com/npillmayer/lrgen"
	"github.com/npillmayer/lrgen/lr"
)

// Node is a node of a generic parse tree, as built by TreeReducers.
// Leafs carry a token.
type Node struct {
	Symbol   string
	Token    lrgen.Token // for terminals only
	Children []*Node
}

// TreeReducers is a ReducerFactory for grammars without semantic actions.
// Every alternative builds a Node for its rule, with nodes for the values of
// its symbols as children.
func TreeReducers(lhs string, alt int) lr.Reducer {
	return func(values []interface{}) (interface{}, error) {
		node := &Node{Symbol: lhs, Children: make([]*Node, 0, len(values))}
		for _, v := range values {
			switch x := v.(type) {
			case *Node:
				node.Children = append(node.Children, x)
			case lrgen.Token:
				node.Children = append(node.Children, &Node{Symbol: x.TokType(), Token: x})
			default:
				return nil, fmt.Errorf("unexpected value %v (%T) reducing %s", v, v, lhs)
			}
		}
		return node, nil
	}
}

// Walk calls f for n and all of its descendents, depth first. depth is 0 for n.
func (n *Node) Walk(f func(node *Node, depth int)) {
	n.walk(f, 0)
}

func (n *Node) walk(f func(node *Node, depth int), depth int) {
	f(n, depth)
	for _, ch := range n.Children {
		ch.walk(f, depth+1)
	}
}

func (n *Node) String() string {
	if n.Token != nil {
		return fmt.Sprintf("%s %q", n.Symbol, n.Token.Lexeme())
	}
	var b bytes.Buffer
	b.WriteString("(" + n.Symbol)
	for _, ch := range n.Children {
		b.WriteString(" ")
		b.WriteString(ch.String())
	}
	b.WriteString(")")
	return b.String()
}
