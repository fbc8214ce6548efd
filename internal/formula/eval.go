package formula

import (
	"fmt"
	"math"
	"strings"
)

// Reader gives an evaluator read access to displayed cell text.
type Reader interface {
	CellText(row, col int) string
}

// Bounded is implemented by readers that know the addressable extent;
// references outside it evaluate to #REF!.
type Bounded interface {
	Bounds() (rows, cols int)
}

// Evaluator computes the value of a formula expression against a grid.
type Evaluator interface {
	Evaluate(expr string, r Reader) (Value, error)
}

// maxRangeCells caps how many cells a single range argument may read.
const maxRangeCells = 1 << 20

// Basic is the built-in evaluator: numbers, strings, A1 references, ranges
// as function arguments, + - * / ^ & and a handful of aggregate functions.
type Basic struct{}

func NewBasic() *Basic { return &Basic{} }

// Evaluate parses and evaluates expr. A leading marker is tolerated.
func (b *Basic) Evaluate(expr string, r Reader) (Value, error) {
	toks, err := lex(strings.TrimPrefix(strings.TrimSpace(expr), "="))
	if err != nil {
		return Value{}, err
	}
	p := &parser{toks: toks, reader: r}
	if rb, ok := r.(Bounded); ok {
		p.rows, p.cols = rb.Bounds()
		p.bounded = true
	}
	if p.peek().kind == tokEOF {
		return Value{}, fmt.Errorf("%w: empty formula", ErrSyntax)
	}
	v, err := p.expr()
	if err != nil {
		return Value{}, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return Value{}, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, t.text, t.pos)
	}
	if v.isRange && len(v.vals) != 1 {
		return Value{}, fmt.Errorf("%w: range used as a value", ErrValue)
	}
	return v.vals[0], nil
}

// operand is a scalar or the cells of a range.
type operand struct {
	vals    []Value
	isRange bool
}

func scalar(v Value) operand { return operand{vals: []Value{v}} }

type parser struct {
	toks    []token
	pos     int
	reader  Reader
	rows    int
	cols    int
	bounded bool
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

// expr := term (('+' | '-' | '&') term)*
func (p *parser) expr() (operand, error) {
	left, err := p.term()
	if err != nil {
		return operand{}, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "+" && t.text != "-" && t.text != "&") {
			return left, nil
		}
		p.next()
		right, err := p.term()
		if err != nil {
			return operand{}, err
		}
		if t.text == "&" {
			l, err := asText(left)
			if err != nil {
				return operand{}, err
			}
			r, err := asText(right)
			if err != nil {
				return operand{}, err
			}
			left = scalar(Text(l + r))
			continue
		}
		left, err = arith(t.text, left, right)
		if err != nil {
			return operand{}, err
		}
	}
}

// term := power (('*' | '/') power)*
func (p *parser) term() (operand, error) {
	left, err := p.power()
	if err != nil {
		return operand{}, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "*" && t.text != "/") {
			return left, nil
		}
		p.next()
		right, err := p.power()
		if err != nil {
			return operand{}, err
		}
		left, err = arith(t.text, left, right)
		if err != nil {
			return operand{}, err
		}
	}
}

// power := unary ('^' unary)*
func (p *parser) power() (operand, error) {
	left, err := p.unary()
	if err != nil {
		return operand{}, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || t.text != "^" {
			return left, nil
		}
		p.next()
		right, err := p.unary()
		if err != nil {
			return operand{}, err
		}
		left, err = arith("^", left, right)
		if err != nil {
			return operand{}, err
		}
	}
}

func (p *parser) unary() (operand, error) {
	t := p.peek()
	if t.kind == tokOp && (t.text == "-" || t.text == "+") {
		p.next()
		v, err := p.unary()
		if err != nil {
			return operand{}, err
		}
		n, err := asNumber(v)
		if err != nil {
			return operand{}, err
		}
		if t.text == "-" {
			n = -n
		}
		return scalar(Number(n)), nil
	}
	return p.primary()
}

func (p *parser) primary() (operand, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		f, ok := ParseNumber(t.text)
		if !ok {
			return operand{}, fmt.Errorf("%w: bad number %q", ErrSyntax, t.text)
		}
		return scalar(Number(f)), nil
	case tokString:
		return scalar(Text(t.text)), nil
	case tokLParen:
		v, err := p.expr()
		if err != nil {
			return operand{}, err
		}
		if p.next().kind != tokRParen {
			return operand{}, fmt.Errorf("%w: missing )", ErrSyntax)
		}
		return v, nil
	case tokIdent:
		if p.peek().kind == tokLParen {
			return p.call(t.text)
		}
		if !looksLikeRef(t.text) {
			switch strings.ToUpper(t.text) {
			case "TRUE":
				return scalar(Number(1)), nil
			case "FALSE":
				return scalar(Number(0)), nil
			}
			return operand{}, fmt.Errorf("%w: unknown name %q", ErrName, t.text)
		}
		from, err := ParseRef(t.text)
		if err != nil {
			return operand{}, err
		}
		if p.peek().kind == tokColon {
			p.next()
			end := p.next()
			if end.kind != tokIdent {
				return operand{}, fmt.Errorf("%w: incomplete range", ErrSyntax)
			}
			to, err := ParseRef(end.text)
			if err != nil {
				return operand{}, err
			}
			return p.readRange(Span{From: from, To: to})
		}
		v, err := p.readCell(from)
		if err != nil {
			return operand{}, err
		}
		return scalar(v), nil
	}
	if t.kind == tokEOF {
		return operand{}, fmt.Errorf("%w: unexpected end of formula", ErrSyntax)
	}
	return operand{}, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, t.text, t.pos)
}

func (p *parser) call(name string) (operand, error) {
	p.next() // (
	var args []operand
	if p.peek().kind == tokRParen {
		p.next()
	} else {
		for {
			a, err := p.expr()
			if err != nil {
				return operand{}, err
			}
			args = append(args, a)
			t := p.next()
			if t.kind == tokRParen {
				break
			}
			if t.kind != tokComma {
				return operand{}, fmt.Errorf("%w: expected , or ) in %s", ErrSyntax, name)
			}
		}
	}
	fn, ok := functions[strings.ToUpper(name)]
	if !ok {
		return operand{}, fmt.Errorf("%w: unknown function %q", ErrName, name)
	}
	v, err := fn(args)
	if err != nil {
		return operand{}, err
	}
	return scalar(v), nil
}

func (p *parser) inBounds(r Ref) bool {
	if r.Row < 0 || r.Col < 0 {
		return false
	}
	return !p.bounded || (r.Row < p.rows && r.Col < p.cols)
}

func (p *parser) readCell(r Ref) (Value, error) {
	if !p.inBounds(r) {
		return Value{}, fmt.Errorf("%w: %s is outside the grid", ErrRef, r)
	}
	return cellValue(p.reader.CellText(r.Row, r.Col))
}

func (p *parser) readRange(s Span) (operand, error) {
	n := s.Normalized()
	if !p.inBounds(n.From) || !p.inBounds(n.To) {
		return operand{}, fmt.Errorf("%w: %s is outside the grid", ErrRef, s)
	}
	count := (n.To.Row - n.From.Row + 1) * (n.To.Col - n.From.Col + 1)
	if count > maxRangeCells {
		return operand{}, fmt.Errorf("%w: range %s too large", ErrValue, s)
	}
	out := operand{isRange: true, vals: make([]Value, 0, count)}
	for row := n.From.Row; row <= n.To.Row; row++ {
		for col := n.From.Col; col <= n.To.Col; col++ {
			v, err := cellValue(p.reader.CellText(row, col))
			if err != nil {
				return operand{}, err
			}
			out.vals = append(out.vals, v)
		}
	}
	return out, nil
}

// cellValue interprets displayed cell text. Error sentinels propagate.
func cellValue(text string) (Value, error) {
	if err := sentinelError(text); err != nil {
		return Value{}, err
	}
	if f, ok := ParseNumber(text); ok {
		return Number(f), nil
	}
	return Text(text), nil
}

func asNumber(o operand) (float64, error) {
	if o.isRange && len(o.vals) != 1 {
		return 0, fmt.Errorf("%w: range used as a number", ErrValue)
	}
	v := o.vals[0]
	if v.IsNum {
		return v.Num, nil
	}
	if v.Text == "" {
		return 0, nil
	}
	if f, ok := ParseNumber(v.Text); ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q is not a number", ErrValue, v.Text)
}

func asText(o operand) (string, error) {
	if o.isRange && len(o.vals) != 1 {
		return "", fmt.Errorf("%w: range used as text", ErrValue)
	}
	return o.vals[0].String(), nil
}

func arith(op string, a, b operand) (operand, error) {
	x, err := asNumber(a)
	if err != nil {
		return operand{}, err
	}
	y, err := asNumber(b)
	if err != nil {
		return operand{}, err
	}
	var r float64
	switch op {
	case "+":
		r = x + y
	case "-":
		r = x - y
	case "*":
		r = x * y
	case "/":
		if y == 0 {
			return operand{}, ErrDivZero
		}
		r = x / y
	case "^":
		r = math.Pow(x, y)
	}
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return operand{}, fmt.Errorf("%w: result out of range", ErrValue)
	}
	return scalar(Number(r)), nil
}
