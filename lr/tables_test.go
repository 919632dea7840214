package lr

import (
	"bytes"
	"strings"
	"testing"

	"github.com/npillmayer/lrgen/lr/scanner"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestClosure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgen.lr")
	defer teardown()
	//
	g := makeExprGrammar(t)
	lrgen := NewTableGenerator(g)
	C := lrgen.closure(newItemSet(StartItem(g.StartRule())))
	dumpItems(C)
	expected := []string{
		"[Start] ::= [• Expression EOF]",
		"[Expression] ::= [• Expression + Term]",
		"[Expression] ::= [• Expression * Term]",
		"[Expression] ::= [• Term]",
		"[Term] ::= [• NUMBER]",
	}
	if C.Size() != len(expected) {
		t.Fatalf("expected closure to have %d items, has %d", len(expected), C.Size())
	}
	for k, x := range C.Values() {
		if s := asItem(x).String(); s != expected[k] {
			t.Errorf("expected item #%d to be %s, is %s", k, expected[k], s)
		}
	}
}

func TestItemSetIdentity(t *testing.T) {
	g := makeExprGrammar(t)
	r := g.FindRule("Expression")
	i1 := StartItem(r)
	i2 := Item{rule: r, alt: 1}
	S1 := newItemSet(i1, i2)
	S2 := newItemSet(i1, i2)
	S3 := newItemSet(i2, i1)
	if !itemSetsEqual(S1, S2) || itemSetHash(S1) != itemSetHash(S2) {
		t.Errorf("expected equal item sets to be equal and to have equal hashes")
	}
	if itemSetsEqual(S1, S3) {
		t.Errorf("expected item sets to be compared in order")
	}
}

func TestCFSM(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgen.lr")
	defer teardown()
	//
	g := makeExprGrammar(t)
	lrgen := NewTableGenerator(g)
	cfsm := lrgen.CFSM()
	if cfsm == nil {
		t.Fatalf("expected CFSM to be built")
	}
	states := cfsm.States()
	if len(states) != 8 {
		t.Fatalf("expected CFSM to have 8 states, has %d", len(states))
	}
	// state numbering is in order of discovery, depth-first
	S0 := cfsm.S0
	S1 := cfsm.Transition(S0, "Expression")
	if S1 == nil || S1.ID != 1 || !S1.Accept {
		t.Errorf("expected goto(S0, Expression) to be accepting state 1, is %v", S1)
	}
	if s := cfsm.Transition(S0, "NUMBER"); s == nil || s.ID != 3 {
		t.Errorf("expected goto(S0, NUMBER) to be state 3, is %v", s)
	}
	S4 := cfsm.Transition(S1, "+")
	S5 := cfsm.Transition(S1, "*")
	if S4 == nil || S4.ID != 4 || S5 == nil || S5.ID != 5 {
		t.Fatalf("expected successors of state 1 to be states 4 and 5")
	}
	if s := cfsm.Transition(S4, "NUMBER"); s == nil || s.ID != 3 {
		t.Errorf("expected state 3 to be re-used from state 4, have %v", s)
	}
	if s := cfsm.Transition(S5, "Term"); s == nil || s.ID != 7 {
		t.Errorf("expected goto(S5, Term) to be state 7, is %v", s)
	}
	if cfsm.Transition(S1, "EOF") != nil {
		t.Errorf("expected no transition on EOF")
	}
	if items := S4.Items(); len(items) != 2 || items[0].Dot() != 2 {
		t.Errorf("expected state 4 to have kernel item with dot at 2, has %v", items)
	}
}

func TestCFSM2GraphViz(t *testing.T) {
	g := makeExprGrammar(t)
	lrgen := NewTableGenerator(g)
	var b bytes.Buffer
	if err := lrgen.CFSM().CFSM2GraphViz(&b); err != nil {
		t.Fatal(err)
	}
	dot := b.String()
	if !strings.HasPrefix(dot, "digraph {") || !strings.Contains(dot, `s001 -> s004 [label="+"]`) {
		t.Errorf("unexpected graphviz output:\n%s", dot)
	}
}

func TestTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgen.lr")
	defer teardown()
	//
	g := makeExprGrammar(t)
	lrgen := NewTableGenerator(g)
	table, err := lrgen.CreateTables()
	if err != nil {
		t.Fatal(err)
	}
	if lrgen.HasConflicts || len(table.Conflicts) != 0 {
		t.Errorf("expected expression grammar to be free of conflicts, have %v", table.Conflicts)
	}
	if table.StateCount() != 8 {
		t.Errorf("expected 8 states, have %d", table.StateCount())
	}
	if a, ok := table.Action(0, "NUMBER"); !ok || !a.IsShift() || a.State() != 3 {
		t.Errorf("expected action(0, NUMBER) to be s3, is %v", a)
	}
	if a, ok := table.Action(1, "EOF"); !ok || !a.IsAccept() {
		t.Errorf("expected action(1, EOF) to be accept, is %v", a)
	}
	if _, ok := table.Action(0, "EOF"); ok {
		t.Errorf("expected no action for state 0 at EOF")
	}
	// reduce entries are present in every column, including non-terminals
	a, ok := table.Action(3, "Expression")
	if !ok || !a.IsReduce() {
		t.Fatalf("expected action(3, Expression) to be a reduction, is %v", a)
	}
	if alt := table.Reduction(a); alt == nil || alt.LHS.Name != "Term" {
		t.Errorf("expected reduction by Term, is %v", alt)
	}
	if s, ok := table.Goto(0, "Term"); !ok || s != 2 {
		t.Errorf("expected goto(0, Term) to be 2, is %d", s)
	}
	if _, ok := table.Goto(2, "Term"); ok {
		t.Errorf("expected no goto for state 2 with Term")
	}
	if s := table.ActionString(6, "+"); s != "r1" {
		t.Errorf("expected action(6, +) to be r1, is %q", s)
	}
	var b bytes.Buffer
	if err := table.Dump(&b); err != nil {
		t.Fatal(err)
	}
	t.Logf("\n%s", b.String())
}

func TestTablesDeterministic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgen.lr")
	defer teardown()
	//
	t1, err := NewTableGenerator(makeExprGrammar(t)).CreateTables()
	if err != nil {
		t.Fatal(err)
	}
	t2, err := NewTableGenerator(makeExprGrammar(t)).CreateTables()
	if err != nil {
		t.Fatal(err)
	}
	if !t1.Equals(t2) {
		t.Errorf("expected tables for identical grammars to be identical")
	}
}

func TestTablesIncompleteGrammar(t *testing.T) {
	g := NewGrammar("Incomplete")
	if _, err := NewTableGenerator(g).CreateTables(); err == nil {
		t.Errorf("expected error for incomplete grammar")
	}
	if NewTableGenerator(g).CFSM() != nil {
		t.Errorf("expected no CFSM for incomplete grammar")
	}
}

func TestShiftReduceConflict(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgen.lr")
	defer teardown()
	//
	g := NewGrammar("SR", SuppressWarnings(true))
	if err := g.SetTokens(
		scanner.Literal("x", "x"),
		scanner.Literal("y", "y"),
		scanner.EOF("EOF"),
	); err != nil {
		t.Fatal(err)
	}
	if err := g.SetRules(
		Rule("Start").Is("A", "EOF"),
		Rule("A").Is("x").Is("x", "y"),
	); err != nil {
		t.Fatal(err)
	}
	lrgen := NewTableGenerator(g)
	table, err := lrgen.CreateTables()
	if err != nil {
		t.Fatal(err)
	}
	if !lrgen.HasConflicts || len(table.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, have %v", table.Conflicts)
	}
	c := table.Conflicts[0]
	if c.Kind != ShiftReduce || c.State != 2 || c.Symbol != "y" {
		t.Errorf("expected shift-reduce conflict at state 2 on y, is %v", c)
	}
	actions := table.Actions(2, "y")
	if len(actions) != 2 || !actions[0].IsShift() || !actions[1].IsReduce() {
		t.Errorf("expected shift to be registered before reduce, have %v", actions)
	}
	if a, _ := table.Action(2, "y"); !a.IsShift() {
		t.Errorf("expected authoritative action to be shift, is %v", a)
	}
}

func TestReduceReduceConflict(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgen.lr")
	defer teardown()
	//
	g := NewGrammar("RR", SuppressWarnings(true))
	if err := g.SetTokens(
		scanner.Literal("x", "x"),
		scanner.EOF("EOF"),
	); err != nil {
		t.Fatal(err)
	}
	if err := g.SetRules(
		Rule("Start").Is("X", "EOF"),
		Rule("X").Is("A").Is("B"),
		Rule("A").Is("x"),
		Rule("B").Is("x"),
	); err != nil {
		t.Fatal(err)
	}
	lrgen := NewTableGenerator(g)
	table, err := lrgen.CreateTables()
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Conflicts) != g.SymbolCount() {
		t.Fatalf("expected a conflict in every column of state 3, have %v", table.Conflicts)
	}
	for _, c := range table.Conflicts {
		if c.Kind != ReduceReduce || c.State != 3 {
			t.Errorf("expected reduce-reduce conflict at state 3, is %v", c)
		}
	}
	a, _ := table.Action(3, "EOF")
	if alt := table.Reduction(a); alt == nil || alt.LHS.Name != "A" {
		t.Errorf("expected authoritative reduction to be by A, is %v", alt)
	}
}

func TestActionEncoding(t *testing.T) {
	if a := ShiftAction(0); !a.IsShift() || a.String() != "s0" {
		t.Errorf("expected shift to state 0, is %v", a)
	}
	if !AcceptAction.IsAccept() || AcceptAction.IsReduce() || AcceptAction.IsShift() {
		t.Errorf("accept action misclassified")
	}
	alt := &Alternative{Serial: 0}
	if a := reduceAction(alt); !a.IsReduce() || a.AlternativeSerial() != 0 || a.String() != "r0" {
		t.Errorf("expected reduce by alternative 0, is %v", a)
	}
}
