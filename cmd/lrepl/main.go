package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/npillmayer/lrgen"
	"github.com/npillmayer/lrgen/lr"
	"github.com/npillmayer/lrgen/lr/loader"
	"github.com/npillmayer/lrgen/lr/lr0"
	"github.com/npillmayer/lrgen/lr/scanner"
	"github.com/npillmayer/lrgen/lr/scanner/lexmach"
)

// We provide a simple calculator grammar as a default.
//
//  Start      ➞ Expression EOF
//  Expression ➞ Expression + Term  |  Expression * Term  |  Term
//  Term       ➞ NUMBER
//
func makeCalcGrammar(opts ...lr.Option) (*lr.Grammar, error) {
	g := lr.NewGrammar("Calculator", opts...)
	err := g.SetTokens(
		scanner.Match("WS", `( |\t|\n|\r)+`).Ignore(),
		scanner.Literal("+", "+"),
		scanner.Literal("*", "*"),
		scanner.Pattern("NUMBER", `[0-9]+`),
		scanner.EOF("EOF"),
	)
	if err != nil {
		return nil, err
	}
	err = g.SetRules(
		lr.Rule("Start").Is("Expression", "EOF"),
		lr.Rule("Expression").Is("Expression", "+", "Term").Do(func(v []interface{}) (interface{}, error) {
			return v[0].(int64) + v[2].(int64), nil
		}).Is("Expression", "*", "Term").Do(func(v []interface{}) (interface{}, error) {
			return v[0].(int64) * v[2].(int64), nil
		}).Is("Term"),
		lr.Rule("Term").Is("NUMBER").Do(func(v []interface{}) (interface{}, error) {
			return strconv.ParseInt(v[0].(lrgen.Token).Lexeme(), 10, 64)
		}),
	)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// main() starts an interactive CLI ("LREPL"), where users may enter input
// for a grammar. LREPL will parse the input and print out the result.
func main() {
	// set up logging
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	gfile := flag.String("grammar", "", "Grammar file (YAML)")
	tables := flag.Bool("tables", false, "Print parse tables")
	dotfile := flag.String("dot", "", "Write CFSM to file in Graphviz format")
	lm := flag.Bool("lexmach", false, "Use lexmachine scanner")
	quiet := flag.Bool("quiet", false, "Suppress conflict warnings")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelInfo) // will set the correct level later
	pterm.Info.Println("Welcome to LREPL")     // colored welcome message
	tracer().Infof("Trace level is %s", *tlevel)
	//
	// set up grammar and parser
	intp, err := newIntp(*gfile, *lm, lr.SuppressWarnings(*quiet))
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(2)
	}
	tracer().SetTraceLevel(traceLevel(*tlevel)) // now set the user supplied level
	intp.parser.G.Dump()                        // only visible in debug mode
	if *tables {
		intp.printTables()
	}
	if *dotfile != "" {
		if err := intp.writeDot(*dotfile); err != nil {
			pterm.Error.Println(err.Error())
		}
	}
	input := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if input != "" { // evaluate command line input and quit
		if err := intp.Eval(input); err != nil {
			os.Exit(1)
		}
		return
	}
	//
	// set up REPL
	intp.repl, err = readline.New("lrepl> ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	tracer().Infof("Quit with <ctrl>D") // inform user how to stop the CLI
	intp.REPL()                         // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	parser *lr0.Parser
	trees  bool // print results as parse trees
	repl   *readline.Instance
}

func newIntp(gfile string, lm bool, opts ...lr.Option) (*Intp, error) {
	intp := &Intp{}
	var g *lr.Grammar
	var err error
	if gfile == "" {
		g, err = makeCalcGrammar(opts...)
	} else {
		g, err = loader.FromFile(gfile, loader.TreeReducers, opts...)
		intp.trees = true
	}
	if err != nil {
		return nil, err
	}
	var popts []lr0.Option
	if lm {
		LM, err := lexmach.NewLMAdapter(g.TokenRules())
		if err != nil {
			return nil, fmt.Errorf("cannot create lexmachine scanner: %w", err)
		}
		popts = append(popts, lr0.WithTokenizer(LM.Tokenizer))
	}
	if intp.parser, err = lr0.NewParser(g, popts...); err != nil {
		return nil, err
	}
	if intp.parser.HasConflicts() {
		pterm.Warning.Printf("grammar %s has %d conflicts, the first action of a table cell wins\n",
			g.Name, len(intp.parser.Table().Conflicts))
	}
	return intp, nil
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		switch line {
		case ":tables":
			intp.printTables()
			continue
		case ":grammar":
			pterm.Println(intp.parser.G.String())
			continue
		case ":quit", ":q":
			println("Good bye!")
			return
		}
		intp.Eval(line)
	}
	println("Good bye!")
}

// Eval parses a line of input and prints the result.
func (intp *Intp) Eval(line string) error {
	result, err := intp.parser.Parse(line)
	if err != nil {
		var lexerr *scanner.LexError
		var perr *lr0.ParseError
		switch {
		case errors.As(err, &lexerr):
			pterm.Error.Printf("%s\n%s\n", err.Error(), marker(line, lexerr.Line, lexerr.Column))
		case errors.As(err, &perr):
			pterm.Error.Printf("%s\n%s\n", err.Error(), marker(line, perr.Line, perr.Column))
		default:
			pterm.Error.Println(err.Error())
		}
		return err
	}
	if node, ok := result.(*loader.Node); ok && intp.trees {
		pterm.DefaultTree.WithRoot(treeFrom(node)).Render()
		return nil
	}
	pterm.Info.Println(fmt.Sprintf("%v", result))
	return nil
}

// marker underlines a position of a single line input.
func marker(line string, l, col int) string {
	if l != 1 || col > len(line) {
		return ""
	}
	return line + "\n" + strings.Repeat(" ", col) + "^"
}

func treeFrom(node *loader.Node) pterm.TreeNode {
	var ll pterm.LeveledList
	node.Walk(func(n *loader.Node, depth int) {
		ll = append(ll, pterm.LeveledListItem{
			Level: depth,
			Text:  n.Symbol + leafText(n),
		})
	})
	return pterm.NewTreeFromLeveledList(ll)
}

func leafText(n *loader.Node) string {
	if n.Token == nil {
		return ""
	}
	return fmt.Sprintf(" %q", n.Token.Lexeme())
}

// printTables prints ACTION and GOTO tables in a single table.
func (intp *Intp) printTables() {
	table := intp.parser.Table()
	g := intp.parser.G
	header := []string{"state"}
	g.EachSymbol(func(sym string, _ int) {
		header = append(header, sym)
	})
	data := pterm.TableData{header}
	for state := 0; state < table.StateCount(); state++ {
		row := []string{strconv.Itoa(state)}
		g.EachSymbol(func(sym string, _ int) {
			cell := table.ActionString(state, sym)
			if gotos := table.GotoString(state, sym); gotos != "" {
				cell = strings.TrimPrefix(cell+"/g"+gotos, "/")
			}
			row = append(row, cell)
		})
		data = append(data, row)
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	for _, c := range table.Conflicts {
		pterm.Warning.Println(c.String())
	}
}

func (intp *Intp) writeDot(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	cfsm := lr.NewTableGenerator(intp.parser.G).CFSM()
	if err = cfsm.CFSM2GraphViz(f); err != nil {
		return err
	}
	tracer().Infof("CFSM written to %s", filename)
	return nil
}

func traceLevel(l string) tracing.TraceLevel {
	return tracing.TraceLevelFromString(l)
}
