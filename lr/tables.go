package lr

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/hashset"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/lrgen/lr/sparse"
	"github.com/npillmayer/schuko/gconf"
)

// === Closure and Goto-Set Operations =======================================

// Refer to "Crafting A Compiler" by Charles N. Fisher & Richard J. LeBlanc, Jr.
// Section 6.2.1 LR(0) Parsing

// closure computes the closure of a kernel of items. Items are added in depth-first
// order of expansion, every alternative at most once. Expansion uses an explicit
// stack, as left recursive grammars would otherwise recurse without bound.
func (lrgen *TableGenerator) closure(kernel *arraylist.List) *arraylist.List {
	C := newItemSet()
	expanded := hashset.New() // serials of alternatives already represented
	for _, x := range kernel.Values() {
		i := asItem(x)
		C.Add(i)
		if i.dot == 0 {
			expanded.Add(i.Alternative().Serial)
		}
	}
	for _, x := range kernel.Values() {
		lrgen.expand(asItem(x).PeekSymbol(), C, expanded)
	}
	return C
}

// expand adds items for all alternatives of non-terminal A, recursing into the
// first symbol of every new item.
func (lrgen *TableGenerator) expand(A string, C *arraylist.List, expanded *hashset.Set) {
	type frame struct {
		rule *Production
		next int // next alternative to consider
	}
	var stack []frame
	push := func(sym string) {
		if rule := lrgen.g.FindRule(sym); rule != nil {
			stack = append(stack, frame{rule: rule})
		}
	}
	push(A)
	for len(stack) > 0 {
		top := len(stack) - 1
		if stack[top].next >= len(stack[top].rule.Alternatives) {
			stack = stack[:top]
			continue
		}
		alt := stack[top].rule.Alternatives[stack[top].next]
		stack[top].next++
		if expanded.Contains(alt.Serial) {
			continue
		}
		expanded.Add(alt.Serial)
		i := Item{rule: alt.LHS, alt: alt.Index}
		C.Add(i)
		push(i.PeekSymbol())
	}
}

// gotoSet advances all items of a closure with A after the dot.
func (lrgen *TableGenerator) gotoSet(closure *arraylist.List, A string) *arraylist.List {
	// for every item in closure C
	// if item in C:  N -> ... *A ...
	//     advance N -> ... A * ...
	gotoset := newItemSet()
	for _, x := range closure.Values() {
		i := asItem(x)
		if i.PeekSymbol() == A {
			ii := i.Advance()
			tracer().Debugf("goto(%s) -%s-> %s", i, A, ii)
			gotoset.Add(ii)
		}
	}
	return gotoset
}

func (lrgen *TableGenerator) gotoSetClosure(i *arraylist.List, A string) *arraylist.List {
	gotoset := lrgen.gotoSet(i, A)
	gclosure := lrgen.closure(gotoset)
	tracer().Debugf("goto(%s) --%s--> %s", itemSetString(i), A, itemSetString(gclosure))
	return gclosure
}

// transitionSymbols returns the symbols after the dot, in order of first occurence.
// Items with the dot at the end or before the EOF symbol do not take part in transitions.
func (lrgen *TableGenerator) transitionSymbols(S *arraylist.List) []string {
	var syms []string
	seen := make(map[string]bool)
	eof := lrgen.g.EOF().Type
	for _, x := range S.Values() {
		A := asItem(x).PeekSymbol()
		if A == "" || A == eof || seen[A] {
			continue
		}
		seen[A] = true
		syms = append(syms, A)
	}
	return syms
}

// === CFSM Construction =====================================================

// CFSMState is a state within the CFSM for a grammar.
type CFSMState struct {
	ID     int             // serial ID of this state
	items  *arraylist.List // configuration items within this state
	Accept bool            // is this an accepting state?
}

// CFSM edge between 2 states, directed and with a symbol
type cfsmEdge struct {
	from  *CFSMState
	to    *CFSMState
	label string
}

// Dump is a debugging helper
func (s *CFSMState) Dump() {
	tracer().Debugf("--- state %03d -----------", s.ID)
	dumpItems(s.items)
	tracer().Debugf("-------------------------")
}

// Items returns the items of a state, in order.
func (s *CFSMState) Items() []Item {
	items := make([]Item, s.items.Size())
	for k, x := range s.items.Values() {
		items[k] = asItem(x)
	}
	return items
}

// Create a state from an item set
func state(id int, iset *arraylist.List) *CFSMState {
	s := &CFSMState{ID: id}
	if iset == nil {
		s.items = newItemSet()
	} else {
		s.items = iset
	}
	return s
}

func (s *CFSMState) String() string {
	return fmt.Sprintf("(state %d | [%d])", s.ID, s.items.Size())
}

// containsAcceptItem is true if s contains an item with the dot before a
// terminating EOF.
func (s *CFSMState) containsAcceptItem(eof string) bool {
	for _, x := range s.items.Values() {
		i := asItem(x)
		rhs := i.Alternative().Symbols
		if n := len(rhs); n > 0 && rhs[n-1] == eof && i.dot == n-1 {
			return true
		}
	}
	return false
}

// Create an edge
func edge(from, to *CFSMState, label string) *cfsmEdge {
	return &cfsmEdge{
		from:  from,
		to:    to,
		label: label,
	}
}

// We need this for the set of states. It sorts states by serial ID.
func stateComparator(s1, s2 interface{}) int {
	c1 := s1.(*CFSMState)
	c2 := s2.(*CFSMState)
	return utils.IntComparator(c1.ID, c2.ID)
}

// CFSM is the characteristic finite state machine for a LR grammar, i.e. the
// LR(0) state diagram. Will be constructed by a TableGenerator.
// Clients normally do not use it directly. Nevertheless, there are some methods
// defined on it, e.g, for debugging purposes.
type CFSM struct {
	g       *Grammar
	states  *treeset.Set            // all the states
	edges   *arraylist.List         // all the edges between states
	index   map[string][]*CFSMState // states by hash of item set
	S0      *CFSMState              // start state
	cfsmIds int                     // serial IDs for CFSM states
}

// create an empty (initial) CFSM automata.
func emptyCFSM(g *Grammar) *CFSM {
	c := &CFSM{g: g}
	c.states = treeset.NewWith(stateComparator)
	c.edges = arraylist.New()
	c.index = make(map[string][]*CFSMState)
	return c
}

// Add a new state to the CFSM. IDs are assigned in order of creation.
func (c *CFSM) addState(iset *arraylist.List) *CFSMState {
	s := state(c.cfsmIds, iset)
	c.cfsmIds++
	c.states.Add(s)
	h := itemSetHash(iset)
	c.index[h] = append(c.index[h], s)
	if s.containsAcceptItem(c.g.EOF().Type) {
		s.Accept = true
	}
	return s
}

// Find a CFSM state by the contained item set. Item sets are compared pairwise.
func (c *CFSM) findStateByItems(iset *arraylist.List) *CFSMState {
	for _, s := range c.index[itemSetHash(iset)] {
		if itemSetsEqual(s.items, iset) {
			return s
		}
	}
	return nil
}

func (c *CFSM) addEdge(s0, s1 *CFSMState, sym string) *cfsmEdge {
	e := edge(s0, s1, sym)
	c.edges.Add(e)
	return e
}

func (c *CFSM) allEdges(s *CFSMState) []*cfsmEdge {
	it := c.edges.Iterator()
	r := make([]*cfsmEdge, 0, 2)
	for it.Next() {
		e := it.Value().(*cfsmEdge)
		if e.from == s {
			r = append(r, e)
		}
	}
	return r
}

// States returns all the states, ordered by ID.
func (c *CFSM) States() []*CFSMState {
	r := make([]*CFSMState, 0, c.states.Size())
	for _, x := range c.states.Values() {
		r = append(r, x.(*CFSMState))
	}
	return r
}

// Transition returns the target state of the edge from s labeled with sym, or nil.
func (c *CFSM) Transition(s *CFSMState, sym string) *CFSMState {
	for _, e := range c.allEdges(s) {
		if e.label == sym {
			return e.to
		}
	}
	return nil
}

// CFSM2GraphViz exports a CFSM to the Graphviz Dot format.
func (c *CFSM) CFSM2GraphViz(w io.Writer) error {
	var b bytes.Buffer
	b.WriteString(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	for _, s := range c.States() {
		b.WriteString(fmt.Sprintf("s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			s.ID, nodecolor(s), s.ID, forGraphviz(s.items)))
	}
	it := c.edges.Iterator()
	for it.Next() {
		edge := it.Value().(*cfsmEdge)
		b.WriteString(fmt.Sprintf("s%03d -> s%03d [label=\"%s\"]\n", edge.from.ID, edge.to.ID,
			strings.ReplaceAll(edge.label, "\"", "\\\"")))
	}
	b.WriteString("}\n")
	_, err := w.Write(b.Bytes())
	return err
}

func nodecolor(state *CFSMState) string {
	if state.Accept {
		return "lightgray"
	}
	return "white"
}

// TableGenerator is a generator object to construct LR parser tables.
// Clients usually create a Grammar G, then a table generator.
// TableGenerator.CreateTables() constructs the CFSM and parser tables for an
// LR(0)-parser recognizing grammar G.
type TableGenerator struct {
	g            *Grammar
	dfa          *CFSM
	table        *ParseTable
	HasConflicts bool
}

// NewTableGenerator creates a new TableGenerator for a grammar.
func NewTableGenerator(g *Grammar) *TableGenerator {
	return &TableGenerator{g: g}
}

// CFSM returns the characteristic finite state machine (CFSM) for a grammar.
// Usually clients call lrgen.CreateTables() beforehand, but it is possible
// to call lrgen.CFSM() directly. The CFSM will be created, if it has not
// been constructed previously. Returns nil for incomplete grammars.
func (lrgen *TableGenerator) CFSM() *CFSM {
	if lrgen.dfa == nil && lrgen.g != nil && lrgen.g.IsComplete() {
		lrgen.dfa = lrgen.buildCFSM()
	}
	return lrgen.dfa
}

// Table returns the parse table. The table has to be built by calling
// CreateTables() previously.
func (lrgen *TableGenerator) Table() *ParseTable {
	if lrgen.table == nil {
		tracer().P("lr", "gen").Errorf("tables not yet initialized")
	}
	return lrgen.table
}

// CreateTables creates the CFSM and the ACTION and GOTO tables. Conflicts do not
// result in an error; they are reported and recorded in the table.
func (lrgen *TableGenerator) CreateTables() (*ParseTable, error) {
	if lrgen.g == nil || !lrgen.g.IsComplete() {
		name := ""
		if lrgen.g != nil {
			name = lrgen.g.Name
		}
		return nil, &ValidationError{Grammar: name, Msg: "tokens and rules have to be set before creating tables"}
	}
	lrgen.dfa = lrgen.buildCFSM()
	lrgen.table = lrgen.buildTables()
	lrgen.HasConflicts = len(lrgen.table.Conflicts) > 0
	return lrgen.table, nil
}

// Construct the characteristic finite state machine CFSM for a grammar.
// A state's successors are created in order of the transition symbols, then
// explored depth-first. State IDs therefore are deterministic.
func (lrgen *TableGenerator) buildCFSM() *CFSM {
	tracer().Debugf("=== build CFSM ==================================================")
	G := lrgen.g
	cfsm := emptyCFSM(G)
	item := StartItem(G.StartRule())
	tracer().Debugf("Start item=%v", item)
	closure0 := lrgen.closure(newItemSet(item))
	cfsm.S0 = cfsm.addState(closure0)
	cfsm.S0.Dump()
	work := []*CFSMState{cfsm.S0} // states with outgoing edges yet to compute
	for len(work) > 0 {
		s := work[len(work)-1]
		work = work[:len(work)-1]
		var created []*CFSMState
		for _, A := range lrgen.transitionSymbols(s.items) {
			tracer().Debugf("checking goto-set for symbol = %v", A)
			gotoset := lrgen.gotoSetClosure(s.items, A)
			snew := cfsm.findStateByItems(gotoset)
			if snew == nil {
				snew = cfsm.addState(gotoset)
				created = append(created, snew)
				snew.Dump()
			}
			cfsm.addEdge(s, snew, A)
		}
		for k := len(created) - 1; k >= 0; k-- {
			work = append(work, created[k])
		}
		tracer().Debugf("-----------------------------------------------------------------")
	}
	tracer().Infof("CFSM for grammar %s has %d states", G.Name, cfsm.states.Size())
	return cfsm
}

// ===========================================================================

// ConflictKind classifies conflicts of parse table entries.
type ConflictKind int

// Kinds of conflicts
const (
	ShiftReduce ConflictKind = iota
	ReduceReduce
)

func (k ConflictKind) String() string {
	if k == ShiftReduce {
		return "shift-reduce"
	}
	return "reduce-reduce"
}

// Conflict is a table cell with more than one action.
type Conflict struct {
	State  int
	Symbol string
	Kind   ConflictKind
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s conflict at state %d on symbol %s", c.Kind, c.State, c.Symbol)
}

// For building the tables we first transfer the edges of the CFSM: terminal labels
// produce shift entries in the ACTION table, non-terminal labels produce GOTO
// entries. Then we iterate over all the items of all the states.
// If an item's dot is immediately before a terminating EOF, we produce an accept
// entry. If an item's dot is behind the complete RHS of an alternative, we produce
// a reduce entry in every column of the state's row (this is LR(0)), except for
// the start state.
func (lrgen *TableGenerator) buildTables() *ParseTable {
	g := lrgen.g
	statescnt := lrgen.dfa.states.Size()
	tracer().Infof("ACTION and GOTO tables of size %d x %d", statescnt, g.SymbolCount())
	table := &ParseTable{
		G:      g,
		action: sparse.NewIntMatrix(statescnt, g.SymbolCount(), sparse.DefaultNullValue),
		gotoT:  sparse.NewIntMatrix(statescnt, g.SymbolCount(), sparse.DefaultNullValue),
		states: statescnt,
	}
	it := lrgen.dfa.edges.Iterator()
	for it.Next() {
		e := it.Value().(*cfsmEdge)
		if g.IsTerminal(e.label) {
			lrgen.addAction(table, e.from.ID, e.label, ShiftAction(e.to.ID))
		} else {
			col, _ := g.SymbolIndex(e.label)
			table.gotoT.Add(e.from.ID, col, int32(e.to.ID))
		}
	}
	eof := g.EOF().Type
	states := lrgen.dfa.states.Iterator()
	for states.Next() {
		state := states.Value().(*CFSMState)
		tracer().Debugf("--- state %d --------------------------------", state.ID)
		for _, x := range state.items.Values() {
			i := asItem(x)
			alt := i.Alternative()
			if n := alt.Len(); n > 0 && alt.Symbols[n-1] == eof && i.dot == n-1 {
				tracer().Debugf("    creating accept entry for %v", i)
				lrgen.addAction(table, state.ID, eof, AcceptAction)
			}
			if state.ID > 0 && i.PeekSymbol() == "" {
				tracer().Debugf("    creating reduce_%d action entries for %v", alt.Serial, alt)
				reduce := reduceAction(alt)
				g.EachSymbol(func(sym string, _ int) {
					lrgen.addAction(table, state.ID, sym, reduce)
				})
			}
		}
	}
	return table
}

// addAction appends an action to a cell of the ACTION table, reporting a conflict
// if the cell is already occupied by a shift or reduce action.
func (lrgen *TableGenerator) addAction(table *ParseTable, stateID int, sym string, a Action) {
	col, _ := lrgen.g.SymbolIndex(sym)
	if present := table.action.Values(stateID, col); len(present) > 0 {
		head := Action(present[0])
		if head.IsShift() || head.IsReduce() {
			c := Conflict{State: stateID, Symbol: sym, Kind: ReduceReduce}
			if head.IsShift() {
				c.Kind = ShiftReduce
			}
			table.Conflicts = append(table.Conflicts, c)
			if !lrgen.warningsSuppressed() {
				tracer().Infof("%s", c)
			}
		}
	}
	table.action.Add(stateID, col, int32(a))
}

// warningsSuppressed checks the grammar option first, then the global configuration
// key "suppress-conflict-warnings". Clients need not have initialized gconf.
func (lrgen *TableGenerator) warningsSuppressed() (suppress bool) {
	if lrgen.g.suppressWarnings {
		return true
	}
	defer func() {
		if recover() != nil {
			suppress = false
		}
	}()
	return gconf.GetBool("suppress-conflict-warnings")
}

// === Parse Tables ==========================================================

// Action is an entry of the ACTION table: shift (to a state), reduce (by an
// alternative) or accept.
type Action int32

// AcceptAction is the action for accepting the input.
const AcceptAction Action = -1

// ShiftAction returns the action for shifting to a state.
func ShiftAction(state int) Action {
	return Action(state)
}

// Reduce actions are encoded as -(serial+2) of an alternative.
func reduceAction(alt *Alternative) Action {
	return Action(-alt.Serial - 2)
}

// IsShift is true for shift actions.
func (a Action) IsShift() bool {
	return a >= 0
}

// IsReduce is true for reduce actions.
func (a Action) IsReduce() bool {
	return a <= -2
}

// IsAccept is true for the accept action.
func (a Action) IsAccept() bool {
	return a == AcceptAction
}

// State returns the target state of a shift action.
func (a Action) State() int {
	return int(a)
}

// AlternativeSerial returns the serial of the alternative of a reduce action.
func (a Action) AlternativeSerial() int {
	return -int(a) - 2
}

func (a Action) String() string {
	switch {
	case a.IsShift():
		return fmt.Sprintf("s%d", a.State())
	case a.IsAccept():
		return "acc"
	}
	return fmt.Sprintf("r%d", a.AlternativeSerial())
}

// ParseTable holds the ACTION and GOTO tables for a grammar. Every cell of the tables
// is a list of entries; if it holds more than one, there is a conflict, and the
// first entry is the authoritative one.
//
// Parse tables are immutable and may be shared between parsers.
type ParseTable struct {
	G         *Grammar
	action    *sparse.IntMatrix
	gotoT     *sparse.IntMatrix
	states    int
	Conflicts []Conflict // conflicts in order of detection
}

// StateCount returns the number of states, i.e. rows of the tables.
func (t *ParseTable) StateCount() int {
	return t.states
}

// Actions returns all actions in the ACTION table for a state and a symbol.
func (t *ParseTable) Actions(state int, sym string) []Action {
	col, ok := t.G.SymbolIndex(sym)
	if !ok || state < 0 || state >= t.states {
		return nil
	}
	values := t.action.Values(state, col)
	actions := make([]Action, len(values))
	for k, v := range values {
		actions[k] = Action(v)
	}
	return actions
}

// Action returns the authoritative action for a state and a symbol.
func (t *ParseTable) Action(state int, sym string) (Action, bool) {
	col, ok := t.G.SymbolIndex(sym)
	if !ok || state < 0 || state >= t.states {
		return 0, false
	}
	v := t.action.Value(state, col)
	if v == t.action.NullValue() {
		return 0, false
	}
	return Action(v), true
}

// Gotos returns all the entries of the GOTO table for a state and a non-terminal.
func (t *ParseTable) Gotos(state int, lhs string) []int {
	col, ok := t.G.SymbolIndex(lhs)
	if !ok || state < 0 || state >= t.states {
		return nil
	}
	values := t.gotoT.Values(state, col)
	targets := make([]int, len(values))
	for k, v := range values {
		targets[k] = int(v)
	}
	return targets
}

// Goto returns the authoritative GOTO entry for a state and a non-terminal.
func (t *ParseTable) Goto(state int, lhs string) (int, bool) {
	col, ok := t.G.SymbolIndex(lhs)
	if !ok || state < 0 || state >= t.states {
		return 0, false
	}
	v := t.gotoT.Value(state, col)
	if v == t.gotoT.NullValue() {
		return 0, false
	}
	return int(v), true
}

// Reduction returns the alternative to reduce for a reduce action.
func (t *ParseTable) Reduction(a Action) *Alternative {
	if !a.IsReduce() {
		return nil
	}
	return t.G.Alternative(a.AlternativeSerial())
}

// Equals is true if both tables have the same number of states and identical
// entries, including the order of entries within cells.
func (t *ParseTable) Equals(other *ParseTable) bool {
	if other == nil || t.states != other.states {
		return false
	}
	return t.action.Equals(other.action) && t.gotoT.Equals(other.gotoT)
}

// ActionString returns a cell of the ACTION table as a string, e.g. "s4/r2".
func (t *ParseTable) ActionString(state int, sym string) string {
	actions := t.Actions(state, sym)
	s := make([]string, len(actions))
	for k, a := range actions {
		s[k] = a.String()
	}
	return strings.Join(s, "/")
}

// GotoString returns a cell of the GOTO table as a string.
func (t *ParseTable) GotoString(state int, lhs string) string {
	targets := t.Gotos(state, lhs)
	s := make([]string, len(targets))
	for k, target := range targets {
		s[k] = fmt.Sprintf("%d", target)
	}
	return strings.Join(s, "/")
}

// Dump writes the tables in a tab-separated format.
func (t *ParseTable) Dump(w io.Writer) error {
	var b bytes.Buffer
	b.WriteString("state")
	t.G.EachSymbol(func(sym string, _ int) {
		b.WriteString("\t" + sym)
	})
	b.WriteString("\n")
	for state := 0; state < t.states; state++ {
		b.WriteString(fmt.Sprintf("%d", state))
		t.G.EachSymbol(func(sym string, _ int) {
			cell := t.ActionString(state, sym)
			if gotos := t.GotoString(state, sym); gotos != "" {
				if cell != "" {
					cell += "/"
				}
				cell += "g" + gotos
			}
			b.WriteString("\t" + cell)
		})
		b.WriteString("\n")
	}
	_, err := w.Write(b.Bytes())
	return err
}
