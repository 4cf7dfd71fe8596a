package finsight

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Row formulas are the small language attached to "calc" rows:
//
//	=1+2          row 1 plus row 2
//	=SUM(4;5;6)   sum of rows 4, 5 and 6
//	=SUM(1;2)-10.5
//
// Bare integer tokens are row ids and resolve to the aggregated value of
// that row (zero when the row was never aggregated). Literals with a decimal
// point are plain numbers. Both ';' and ',' separate SUM arguments. Anything
// else is rejected, which keeps the language a closed arithmetic surface.

// EvalFormula evaluates the formula of the given row against already
// aggregated values. A row whose formula does not start with '=' evaluates
// to zero; this is the defined value of a formula-less "calc" row, not an
// error.
func (t *Template) EvalFormula(id int, values map[int]decimal.Decimal) (decimal.Decimal, error) {
	row, ok := t.byID[id]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown row id %d", id)
	}
	f := strings.TrimSpace(row.Formula)
	if !strings.HasPrefix(f, "=") {
		return decimal.Zero, nil
	}
	p := &formulaParser{input: strings.TrimSpace(f[1:]), values: values}
	v, err := p.parseExpr()
	if err != nil {
		return decimal.Zero, fmt.Errorf("row %d formula %q: %w", id, row.Formula, err)
	}
	p.skipSpaces()
	if p.pos < len(p.input) {
		return decimal.Zero, fmt.Errorf("row %d formula %q: unexpected %q", id, row.Formula, p.input[p.pos:])
	}
	return v, nil
}

// formulaParser is a recursive-descent evaluator for the row formula
// language. It evaluates while parsing; there is no lazy branch in this
// language so no tree needs to be retained.
type formulaParser struct {
	input  string
	pos    int
	values map[int]decimal.Decimal
}

func (p *formulaParser) skipSpaces() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *formulaParser) peek() byte {
	if p.pos < len(p.input) {
		return p.input[p.pos]
	}
	return 0
}

// parseExpr handles '+' and '-'.
func (p *formulaParser) parseExpr() (decimal.Decimal, error) {
	left, err := p.parseTerm()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		p.skipSpaces()
		switch p.peek() {
		case '+':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return decimal.Zero, err
			}
			left = left.Add(right)
		case '-':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return decimal.Zero, err
			}
			left = left.Sub(right)
		default:
			return left, nil
		}
	}
}

// parseTerm handles '*' and '/'.
func (p *formulaParser) parseTerm() (decimal.Decimal, error) {
	left, err := p.parseFactor()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		p.skipSpaces()
		switch p.peek() {
		case '*':
			p.pos++
			right, err := p.parseFactor()
			if err != nil {
				return decimal.Zero, err
			}
			left = left.Mul(right)
		case '/':
			p.pos++
			right, err := p.parseFactor()
			if err != nil {
				return decimal.Zero, err
			}
			if right.IsZero() {
				return decimal.Zero, fmt.Errorf("division by zero")
			}
			left = left.Div(right)
		default:
			return left, nil
		}
	}
}

// parseFactor handles unary minus, parentheses, SUM and number/row tokens.
func (p *formulaParser) parseFactor() (decimal.Decimal, error) {
	p.skipSpaces()
	switch c := p.peek(); {
	case c == '-':
		p.pos++
		v, err := p.parseFactor()
		return v.Neg(), err
	case c == '+':
		p.pos++
		return p.parseFactor()
	case c == '(':
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return decimal.Zero, err
		}
		p.skipSpaces()
		if p.peek() != ')' {
			return decimal.Zero, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	case isLetter(c):
		return p.parseSum()
	case isDigit(c) || c == '.':
		return p.parseNumber()
	case c == 0:
		return decimal.Zero, fmt.Errorf("unexpected end of formula")
	default:
		return decimal.Zero, fmt.Errorf("unexpected character %q", string(c))
	}
}

// parseSum accepts SUM(expr; expr; ...). SUM is the only function of the
// language; any other identifier is rejected.
func (p *formulaParser) parseSum() (decimal.Decimal, error) {
	start := p.pos
	for p.pos < len(p.input) && isLetter(p.input[p.pos]) {
		p.pos++
	}
	name := p.input[start:p.pos]
	if !strings.EqualFold(name, "SUM") {
		return decimal.Zero, fmt.Errorf("unknown function %q", name)
	}
	p.skipSpaces()
	if p.peek() != '(' {
		return decimal.Zero, fmt.Errorf("expected '(' after SUM")
	}
	p.pos++

	total := decimal.Zero
	p.skipSpaces()
	if p.peek() == ')' { // SUM() is an empty sum
		p.pos++
		return total, nil
	}
	for {
		v, err := p.parseExpr()
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(v)
		p.skipSpaces()
		switch p.peek() {
		case ';', ',':
			p.pos++
		case ')':
			p.pos++
			return total, nil
		default:
			return decimal.Zero, fmt.Errorf("expected ';' or ')' in SUM arguments")
		}
	}
}

// parseNumber resolves a bare integer token as a row id (missing rows read
// zero) and a token containing '.' as a plain decimal literal.
func (p *formulaParser) parseNumber() (decimal.Decimal, error) {
	start := p.pos
	isLiteral := false
	for p.pos < len(p.input) && (isDigit(p.input[p.pos]) || p.input[p.pos] == '.') {
		if p.input[p.pos] == '.' {
			isLiteral = true
		}
		p.pos++
	}
	token := p.input[start:p.pos]
	if isLiteral {
		v, err := decimal.NewFromString(token)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid number %q", token)
		}
		return v, nil
	}
	var id int
	for i := 0; i < len(token); i++ {
		id = id*10 + int(token[i]-'0')
	}
	return p.values[id], nil
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
