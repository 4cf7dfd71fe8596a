package finsight

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Derived-measure and ratio formulas are arithmetic expressions over named
// measures, e.g. "(net_income / revenue) * 100". Definitions come from
// user-editable TOML files, so the language is a closed interpreter over a
// typed expression tree: numeric literals, variable names, + - * / % **,
// unary minus and parentheses. Nothing else evaluates.

// exprNode is a parsed expression. Evaluation is side-effect free.
type exprNode interface {
	eval(vars map[string]float64) (float64, error)
}

type literalNode float64

func (n literalNode) eval(map[string]float64) (float64, error) { return float64(n), nil }

type varNode string

func (n varNode) eval(vars map[string]float64) (float64, error) {
	v, ok := vars[string(n)]
	if !ok {
		return 0, fmt.Errorf("unknown variable %q", string(n))
	}
	return v, nil
}

type unaryNode struct {
	op      byte // '-'
	operand exprNode
}

func (n unaryNode) eval(vars map[string]float64) (float64, error) {
	v, err := n.operand.eval(vars)
	if err != nil {
		return 0, err
	}
	return -v, nil
}

type binaryNode struct {
	op          string // "+", "-", "*", "/", "%", "**"
	left, right exprNode
}

func (n binaryNode) eval(vars map[string]float64) (float64, error) {
	l, err := n.left.eval(vars)
	if err != nil {
		return 0, err
	}
	r, err := n.right.eval(vars)
	if err != nil {
		return 0, err
	}
	switch n.op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return l / r, nil
	case "%":
		if r == 0 {
			return 0, fmt.Errorf("modulo by zero")
		}
		return math.Mod(l, r), nil
	case "**":
		return math.Pow(l, r), nil
	default:
		return 0, fmt.Errorf("unsupported operator %q", n.op)
	}
}

// ParseExpr parses a measure expression into its tree form.
func ParseExpr(expr string) (exprNode, error) {
	p := &exprParser{input: expr}
	node, err := p.parseAdditive()
	if err != nil {
		return nil, fmt.Errorf("expression %q: %w", expr, err)
	}
	p.skipSpaces()
	if p.pos < len(p.input) {
		return nil, fmt.Errorf("expression %q: unexpected %q", expr, p.input[p.pos:])
	}
	return node, nil
}

// EvalExpr parses and evaluates a measure expression against the given
// variables. Any failure (syntax, unknown name, division by zero) is
// returned as an error; callers decide whether it is fatal.
func EvalExpr(expr string, vars map[string]float64) (float64, error) {
	node, err := ParseExpr(expr)
	if err != nil {
		return 0, err
	}
	v, err := node.eval(vars)
	if err != nil {
		return 0, fmt.Errorf("expression %q: %w", expr, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("expression %q: result is not a finite number", expr)
	}
	return v, nil
}

type exprParser struct {
	input string
	pos   int
}

func (p *exprParser) skipSpaces() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *exprParser) peek() byte {
	if p.pos < len(p.input) {
		return p.input[p.pos]
	}
	return 0
}

func (p *exprParser) parseAdditive() (exprNode, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpaces()
		c := p.peek()
		if c != '+' && c != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: string(c), left: left, right: right}
	}
}

func (p *exprParser) parseMultiplicative() (exprNode, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpaces()
		c := p.peek()
		// '**' belongs to parsePower, not to multiplication.
		if c == '*' && p.pos+1 < len(p.input) && p.input[p.pos+1] == '*' {
			return nil, fmt.Errorf("misplaced operator %q", "**")
		}
		if c != '*' && c != '/' && c != '%' {
			return left, nil
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: string(c), left: left, right: right}
	}
}

// parseUnary implements the usual exponentiation binding: unary minus binds
// looser than '**' (-x**2 is -(x**2)), and '**' is right-associative.
func (p *exprParser) parseUnary() (exprNode, error) {
	p.skipSpaces()
	switch p.peek() {
	case '-':
		p.pos++
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return unaryNode{op: '-', operand: operand}, nil
	case '+':
		p.pos++
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *exprParser) parsePower() (exprNode, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	p.skipSpaces()
	if p.peek() == '*' && p.pos+1 < len(p.input) && p.input[p.pos+1] == '*' {
		p.pos += 2
		exponent, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return binaryNode{op: "**", left: base, right: exponent}, nil
	}
	return base, nil
}

func (p *exprParser) parseAtom() (exprNode, error) {
	p.skipSpaces()
	switch c := p.peek(); {
	case c == '(':
		p.pos++
		node, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		p.skipSpaces()
		if p.peek() != ')' {
			return nil, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return node, nil
	case isDigit(c) || c == '.':
		return p.parseLiteral()
	case isNameStart(c):
		return p.parseName(), nil
	case c == 0:
		return nil, fmt.Errorf("unexpected end of expression")
	default:
		return nil, fmt.Errorf("unexpected character %q", string(c))
	}
}

func (p *exprParser) parseLiteral() (exprNode, error) {
	start := p.pos
	for p.pos < len(p.input) && (isDigit(p.input[p.pos]) || p.input[p.pos] == '.') {
		p.pos++
	}
	token := p.input[start:p.pos]
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", token)
	}
	return literalNode(v), nil
}

func (p *exprParser) parseName() exprNode {
	start := p.pos
	for p.pos < len(p.input) && isNamePart(p.input[p.pos]) {
		p.pos++
	}
	return varNode(strings.TrimSpace(p.input[start:p.pos]))
}

func isNameStart(c byte) bool { return isLetter(c) || c == '_' }
func isNamePart(c byte) bool  { return isLetter(c) || isDigit(c) || c == '_' }
