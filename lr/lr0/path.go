package lr0

import (
	"fmt"

	"github.com/npillmayer/lrgen"
	"github.com/npillmayer/lrgen/lr"
	"github.com/npillmayer/lrgen/lr/scanner"
)

// We store pairs of state-IDs and values on the parse stack. The bottom of the
// stack is the start state, carrying no value.
type stackitem struct {
	stateID int
	value   interface{} // token for terminals, reducer result for non-terminals
}

// path is a single deterministic run through the parse tables. It owns the
// parse stack, the scanner and the scanner checkpoint it started from; the tables
// are shared.
type path struct {
	table     *lr.ParseTable
	scan      scanner.Tokenizer
	origin    scanner.Checkpoint // where this path forked off the input
	stack     []stackitem
	lookahead lrgen.Token
}

func newPath(table *lr.ParseTable, scan scanner.Tokenizer) *path {
	p := &path{
		table:  table,
		scan:   scan,
		origin: scan.Save(),
		stack:  make([]stackitem, 0, 64),
	}
	p.stack = append(p.stack, stackitem{stateID: 0}) // push S0
	return p
}

// restart rewinds the scanner to the path's origin and clears the stack.
func (p *path) restart() error {
	if err := p.scan.Load(p.origin); err != nil {
		return err
	}
	p.stack = append(p.stack[:0], stackitem{stateID: 0})
	p.lookahead = nil
	return nil
}

func (p *path) tos() int {
	return p.stack[len(p.stack)-1].stateID
}

// run executes actions until the input is accepted or an error occurs.
func (p *path) run() (interface{}, error) {
	for {
		if p.lookahead == nil {
			token, err := p.scan.Next()
			if err != nil {
				return nil, err
			}
			if token == nil {
				return nil, p.error("unexpected end of input", ErrUnexpectedEOF)
			}
			tracer().Debugf("got token %v from scanner", token)
			p.lookahead = token
		}
		state := p.tos()
		action, ok := p.table.Action(state, p.lookahead.TokType())
		if !ok {
			if p.lookahead.TokType() == p.table.G.EOF().Type {
				return nil, p.error("unexpected end of input", ErrUnexpectedEOF)
			}
			return nil, p.error(fmt.Sprintf("unexpected token %q", p.lookahead.Lexeme()), nil)
		}
		tracer().Debugf("action(%d,%s)=%s", state, p.lookahead.TokType(), action)
		switch {
		case action.IsAccept():
			return p.accept()
		case action.IsShift():
			p.shift(action.State())
		default:
			if err := p.reduce(p.table.Reduction(action)); err != nil {
				return nil, err
			}
		}
	}
}

// shift pushes the lookahead token and moves to the next state. The lookahead is
// consumed.
func (p *path) shift(nextstate int) {
	tracer().Debugf("shifting, next state = %d", nextstate)
	p.stack = append(p.stack, stackitem{stateID: nextstate, value: p.lookahead})
	p.lookahead = nil
}

// reduce performs a reduce action for an alternative
//
//    LHS --> X1 ... Xn   (with X being terminals or non-terminals)
//
// Symbols X1 to Xn are represented on the stack as states and values
//
//    [TOS]  Sn(value_n) ... S1(value_1)  ...
//
// Values are handed to the reducer left to right, the result is pushed together
// with the goto state for LHS. The lookahead is not consumed.
func (p *path) reduce(alt *lr.Alternative) error {
	tracer().Debugf("reduce %v", alt)
	n := alt.Len()
	values := make([]interface{}, n)
	for i, item := range p.stack[len(p.stack)-n:] {
		values[i] = item.value
	}
	p.stack = p.stack[:len(p.stack)-n]
	result, err := alt.Reducer()(values)
	if err != nil {
		line, col := p.scan.Cursor()
		return fmt.Errorf("reducing %s at %d:%d: %w", alt.LHS.Name, line, col, err)
	}
	state := p.tos()
	nextstate, ok := p.table.Goto(state, alt.LHS.Name)
	if !ok {
		return p.error(fmt.Sprintf("no goto for %s", alt.LHS.Name), nil)
	}
	tracer().Debugf("reduced to next state = %d", nextstate)
	p.stack = append(p.stack, stackitem{stateID: nextstate, value: result})
	return nil
}

// accept returns the value at the bottom of the stack. For start rules of the
// usual form "Start = X EOF" this is the value for X.
func (p *path) accept() (interface{}, error) {
	tracer().Debugf("accept")
	if len(p.stack) < 2 {
		return nil, nil
	}
	return p.stack[1].value, nil
}

func (p *path) error(msg string, err error) *ParseError {
	line, col := p.scan.Cursor()
	return &ParseError{
		Line:   line,
		Column: col,
		Token:  p.lookahead,
		State:  p.tos(),
		Msg:    msg,
		err:    err,
	}
}
