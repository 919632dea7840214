package main

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestCalculator(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgen.lr")
	defer teardown()
	//
	for _, lm := range []bool{false, true} {
		intp, err := newIntp("", lm)
		if err != nil {
			t.Fatal(err)
		}
		v, err := intp.parser.Parse("1 + 2 * 3")
		if err != nil {
			t.Fatal(err)
		}
		if v != int64(9) {
			t.Errorf("expected 1+2*3 to be 9 (no precedence), is %v", v)
		}
	}
}

func TestTreeGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgen.lr")
	defer teardown()
	//
	intp, err := newIntp("../../lr/loader/testdata/expr.yaml", false)
	if err != nil {
		t.Fatal(err)
	}
	if err := intp.Eval("(1+2)*3"); err != nil {
		t.Error(err)
	}
	if err := intp.Eval("(1+2"); err == nil {
		t.Errorf("expected error for incomplete input")
	}
}

func TestMarker(t *testing.T) {
	if m := marker("1 & 2", 1, 2); m != "1 & 2\n  ^" {
		t.Errorf("unexpected marker %q", m)
	}
	if m := marker("1", 2, 0); m != "" {
		t.Errorf("expected no marker for other lines, have %q", m)
	}
}
