package lr0

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/npillmayer/lrgen"
	"github.com/npillmayer/lrgen/lr"
	"github.com/npillmayer/lrgen/lr/scanner"
	"github.com/npillmayer/lrgen/lr/scanner/lexmach"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func add(values []interface{}) (interface{}, error) {
	return values[0].(int) + values[2].(int), nil
}

func number(values []interface{}) (interface{}, error) {
	return strconv.Atoi(values[0].(lrgen.Token).Lexeme())
}

// We use a small expression grammar for testing. Both binary operators add.
//
//     Start      = Expression EOF
//     Expression = Expression '+' Term
//                | Expression '*' Term
//                | Term
//     Term       = NUMBER
//
func makeParser(t *testing.T, opts ...Option) *Parser {
	g := lr.NewGrammar("Expressions")
	err := g.SetTokens(
		scanner.Match("WS", `\s+`).Ignore(),
		scanner.Literal("+", "+"),
		scanner.Literal("*", "*"),
		scanner.Pattern("NUMBER", `\d+`),
		scanner.EOF("EOF"),
	)
	if err != nil {
		t.Fatal(err)
	}
	err = g.SetRules(
		lr.Rule("Start").Is("Expression", "EOF"),
		lr.Rule("Expression").Is("Expression", "+", "Term").Do(add).
			Is("Expression", "*", "Term").Do(add).
			Is("Term"),
		lr.Rule("Term").Is("NUMBER").Do(number),
	)
	if err != nil {
		t.Fatal(err)
	}
	parser, err := NewParser(g, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return parser
}

var inputStrings = []string{
	"1", "1 + 2 + 3", "1 * 2", "1+2*3", "\n  10 +\n 20\t",
}

var results = []int{1, 6, 3, 6, 30}

// --- the Tests -------------------------------------------------------------

func TestParser(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgen.lr")
	defer teardown()
	//
	parser := makeParser(t)
	if parser.HasConflicts() {
		t.Errorf("expected expression grammar to be free of conflicts")
	}
	for n, input := range inputStrings {
		value, err := parser.Parse(input)
		if err != nil {
			t.Errorf("input #%d: %v", n, err)
			continue
		}
		if value != results[n] {
			t.Errorf("expected %q to evaluate to %d, is %v", input, results[n], value)
		}
	}
}

func TestParseErrorAtEOF(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgen.lr")
	defer teardown()
	//
	_, err := makeParser(t).Parse("1 +")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected parse error, have %v", err)
	}
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Errorf("expected unexpected end of input, have %v", err)
	}
	if perr.Line != 1 || perr.Column != 3 {
		t.Errorf("expected error at 1:3, is %d:%d", perr.Line, perr.Column)
	}
	t.Logf("error = %v", err)
}

func TestParseErrorUnexpectedToken(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgen.lr")
	defer teardown()
	//
	_, err := makeParser(t).Parse("1 2")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected parse error, have %v", err)
	}
	if errors.Is(err, ErrUnexpectedEOF) {
		t.Errorf("expected error not to be at end of input")
	}
	if perr.Token == nil || perr.Token.Lexeme() != "2" || perr.State != 1 {
		t.Errorf("expected error for token '2' in state 1, is %v/%d", perr.Token, perr.State)
	}
}

func TestLexErrorPropagates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgen.lr")
	defer teardown()
	//
	_, err := makeParser(t).Parse("1 & 2")
	var lexerr *scanner.LexError
	if !errors.As(err, &lexerr) {
		t.Fatalf("expected lex error, have %v", err)
	}
	if lexerr.Line != 1 || lexerr.Column != 2 {
		t.Errorf("expected lex error at 1:2, is %d:%d", lexerr.Line, lexerr.Column)
	}
}

func TestParserIsReusable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgen.lr")
	defer teardown()
	//
	parser := makeParser(t)
	if _, err := parser.Parse("1 +"); err == nil {
		t.Fatalf("expected first parse to fail")
	}
	if v, err := parser.Parse("2 + 2"); err != nil || v != 4 {
		t.Errorf("expected parser to be usable after an error, have %v, %v", v, err)
	}
}

func TestConcurrentParses(t *testing.T) {
	parser := makeParser(t)
	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := parser.Parse(fmt.Sprintf("%d + %d", i, i))
			if err == nil && v != 2*i {
				err = fmt.Errorf("expected %d, have %v", 2*i, v)
			}
			if err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestReducerError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgen.lr")
	defer teardown()
	//
	_, err := makeParser(t).Parse("99999999999999999999999")
	var numerr *strconv.NumError
	if !errors.As(err, &numerr) {
		t.Errorf("expected reducer error to be wrapped, have %v", err)
	}
	t.Logf("error = %v", err)
}

func TestShiftWins(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgen.lr")
	defer teardown()
	//
	g := lr.NewGrammar("SR", lr.SuppressWarnings(true))
	if err := g.SetTokens(
		scanner.Match("WS", ` +`).Ignore(),
		scanner.Literal("x", "x"),
		scanner.Literal("y", "y"),
		scanner.EOF("EOF"),
	); err != nil {
		t.Fatal(err)
	}
	single := func([]interface{}) (interface{}, error) { return "x", nil }
	pair := func([]interface{}) (interface{}, error) { return "xy", nil }
	if err := g.SetRules(
		lr.Rule("Start").Is("A", "EOF"),
		lr.Rule("A").Is("x").Do(single).Is("x", "y").Do(pair),
	); err != nil {
		t.Fatal(err)
	}
	parser, err := NewParser(g)
	if err != nil {
		t.Fatal(err)
	}
	if !parser.HasConflicts() {
		t.Fatalf("expected a shift-reduce conflict")
	}
	if v, err := parser.Parse("x y"); err != nil || v != "xy" {
		t.Errorf("expected parser to shift y, have %v, %v", v, err)
	}
	// reduction on EOF is unaffected by the conflict
	if v, err := parser.Parse("x"); err != nil || v != "x" {
		t.Errorf("expected parser to reduce x, have %v, %v", v, err)
	}
}

func TestEpsilonAlternative(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgen.lr")
	defer teardown()
	//
	g := lr.NewGrammar("Epsilon")
	if err := g.SetTokens(
		scanner.Literal("(", "("),
		scanner.Literal(")", ")"),
		scanner.Literal(".", "."),
		scanner.EOF("EOF"),
	); err != nil {
		t.Fatal(err)
	}
	count := func(values []interface{}) (interface{}, error) {
		return values[0].(int) + 1, nil
	}
	zero := func([]interface{}) (interface{}, error) { return 0, nil }
	inner := func(values []interface{}) (interface{}, error) { return values[1], nil }
	if err := g.SetRules(
		lr.Rule("Start").Is("List", "EOF"),
		lr.Rule("List").Is("(", "Dots", ")").Do(inner),
		lr.Rule("Dots").Is("Dots", ".").Do(count).Is().Do(zero),
	); err != nil {
		t.Fatal(err)
	}
	parser, err := NewParser(g)
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range []int{0, 1, 3} {
		input := "(" + strings.Repeat(".", n) + ")"
		v, err := parser.Parse(input)
		if err != nil || v != n {
			t.Errorf("expected %q to count %d, have %v, %v", input, n, v, err)
		}
	}
}

func TestLexmachineTokenizer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgen.lr")
	defer teardown()
	//
	g := lr.NewGrammar("Sums")
	if err := g.SetTokens(
		scanner.Match("WS", `( |\t|\n|\r)+`).Ignore(),
		scanner.Literal("+", "+"),
		scanner.Pattern("NUMBER", `[0-9]+`),
		scanner.EOF("EOF"),
	); err != nil {
		t.Fatal(err)
	}
	if err := g.SetRules(
		lr.Rule("Start").Is("Sum", "EOF"),
		lr.Rule("Sum").Is("Sum", "+", "Term").Do(add).Is("Term"),
		lr.Rule("Term").Is("NUMBER").Do(number),
	); err != nil {
		t.Fatal(err)
	}
	LM, err := lexmach.NewLMAdapter(g.TokenRules())
	if err != nil {
		t.Fatal(err)
	}
	parser, err := NewParser(g, WithTokenizer(LM.Tokenizer))
	if err != nil {
		t.Fatal(err)
	}
	if v, err := parser.Parse("12 + 30"); err != nil || v != 42 {
		t.Errorf("expected 42, have %v, %v", v, err)
	}
}

func TestIncompleteGrammar(t *testing.T) {
	if _, err := NewParser(lr.NewGrammar("empty")); err == nil {
		t.Errorf("expected error for incomplete grammar")
	}
}

func TestPathRestart(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgen.lr")
	defer teardown()
	//
	parser := makeParser(t)
	scan, err := parser.tokenizer("1 + 2")
	if err != nil {
		t.Fatal(err)
	}
	if _, err = scan.Next(); err != nil { // path forks after the first token
		t.Fatal(err)
	}
	p := newPath(parser.table, scan)
	if _, err = p.run(); err == nil {
		t.Fatalf("expected input starting with '+' to be rejected")
	}
	if err = p.restart(); err != nil {
		t.Fatal(err)
	}
	if len(p.stack) != 1 || p.tos() != 0 || p.lookahead != nil {
		t.Errorf("expected restarted path to be in state 0, stack is %v", p.stack)
	}
	tok, err := p.scan.Next()
	if err != nil || tok == nil || tok.Lexeme() != "+" {
		t.Errorf("expected scanner to resume at '+', have %v, %v", tok, err)
	}
}
