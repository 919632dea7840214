package lr

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/lists/arraylist"
)

// Item is an LR(0) item: an alternative of a rule, together with a position of
// progress (the dot). Items are comparable and equal if rule, alternative and
// dot position are identical.
type Item struct {
	rule *Production
	alt  int // index of alternative within rule
	dot  int
}

// StartItem returns the item for the first alternative of a rule, with the dot
// at position 0.
func StartItem(r *Production) Item {
	return Item{rule: r}
}

// Rule returns the rule of an item.
func (i Item) Rule() *Production {
	return i.rule
}

// Alternative returns the alternative of an item.
func (i Item) Alternative() *Alternative {
	return i.rule.Alternatives[i.alt]
}

// Dot returns the dot position of an item.
func (i Item) Dot() int {
	return i.dot
}

// PeekSymbol returns the symbol after the dot, or "" if the dot is at the end.
func (i Item) PeekSymbol() string {
	rhs := i.Alternative().Symbols
	if i.dot >= len(rhs) {
		return ""
	}
	return rhs[i.dot]
}

// Advance returns a copy of the item with the dot moved one position to the right.
func (i Item) Advance() Item {
	i.dot++
	return i
}

func (i Item) String() string {
	var b bytes.Buffer
	b.WriteString("[")
	b.WriteString(i.rule.Name)
	b.WriteString("] ::= [")
	rhs := i.Alternative().Symbols
	for k, sym := range rhs {
		if k == i.dot {
			b.WriteString("• ")
		}
		b.WriteString(sym)
		if k < len(rhs)-1 {
			b.WriteString(" ")
		}
	}
	if i.dot == len(rhs) {
		if len(rhs) > 0 {
			b.WriteString(" ")
		}
		b.WriteString("•")
	}
	b.WriteString("]")
	return b.String()
}

// --- Item sets ---------------------------------------------------------------

// Item sets are ordered lists of items, free of duplicates.
func newItemSet(items ...Item) *arraylist.List {
	S := arraylist.New()
	for _, i := range items {
		S.Add(i)
	}
	return S
}

func asItem(x interface{}) Item {
	return x.(Item)
}

// itemSetsEqual compares item sets pairwise. Order is significant.
func itemSetsEqual(S1, S2 *arraylist.List) bool {
	if S1.Size() != S2.Size() {
		return false
	}
	for k := 0; k < S1.Size(); k++ {
		x1, _ := S1.Get(k)
		x2, _ := S2.Get(k)
		if asItem(x1) != asItem(x2) {
			return false
		}
	}
	return true
}

// itemKey is the hashable representation of an item.
type itemKey struct {
	Rule int
	Alt  int
	Dot  int
}

// itemSetHash computes a hash for an item set. Equal item sets have equal hashes.
func itemSetHash(S *arraylist.List) string {
	keys := make([]itemKey, 0, S.Size())
	for _, x := range S.Values() {
		i := asItem(x)
		keys = append(keys, itemKey{Rule: i.rule.Serial, Alt: i.alt, Dot: i.dot})
	}
	h, err := structhash.Hash(keys, 1)
	if err != nil {
		tracer().Errorf("cannot hash item set: %v", err)
		return fmt.Sprintf("%v", keys)
	}
	return h
}

func itemSetString(S *arraylist.List) string {
	var b bytes.Buffer
	b.WriteString("{")
	for k, x := range S.Values() {
		if k == 0 {
			b.WriteString(" ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(asItem(x).String())
	}
	b.WriteString(" }")
	return b.String()
}

// dumpItems is a debugging helper
func dumpItems(S *arraylist.List) {
	for k, x := range S.Values() {
		tracer().Debugf("[%2d] %s", k, asItem(x))
	}
}

func forGraphviz(S *arraylist.List) string {
	var b bytes.Buffer
	for k, x := range S.Values() {
		if k > 0 {
			b.WriteString("\\l")
		}
		s := asItem(x).String()
		for _, c := range []string{"\\", "\"", "{", "}", "<", ">", "|"} {
			s = strings.ReplaceAll(s, c, "\\"+c)
		}
		b.WriteString(s)
	}
	b.WriteString("\\l")
	return b.String()
}
