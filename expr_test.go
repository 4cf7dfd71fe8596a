package finsight

import (
	"math"
	"testing"
)

func TestEvalExpr(t *testing.T) {
	vars := map[string]float64{
		"revenue":    1000,
		"net_income": 150,
		"fte_count":  4,
		"x":          3,
	}

	tests := []struct {
		name     string
		expr     string
		expected float64
	}{
		{name: "literal", expr: "42", expected: 42},
		{name: "decimal literal", expr: "0.5", expected: 0.5},
		{name: "variable", expr: "revenue", expected: 1000},
		{name: "addition", expr: "revenue + net_income", expected: 1150},
		{name: "margin percentage", expr: "(net_income / revenue) * 100", expected: 15},
		{name: "precedence", expr: "2 + 3 * 4", expected: 14},
		{name: "modulo", expr: "7 % 4", expected: 3},
		{name: "power", expr: "x ** 2", expected: 9},
		{name: "power right associative", expr: "2 ** 3 ** 2", expected: 512},
		{name: "unary minus binds looser than power", expr: "-x ** 2", expected: -9},
		{name: "parenthesized base", expr: "(-x) ** 2", expected: 9},
		{name: "unary plus", expr: "+x", expected: 3},
		{name: "double negation", expr: "--x", expected: 3},
		{name: "underscored names", expr: "fte_count * 2", expected: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EvalExpr(tt.expr, vars)
			if err != nil {
				t.Fatalf("EvalExpr(%q) error: %v", tt.expr, err)
			}
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("EvalExpr(%q) = %v, want %v", tt.expr, got, tt.expected)
			}
		})
	}
}

func TestEvalExprErrors(t *testing.T) {
	vars := map[string]float64{"x": 3, "zero": 0}

	tests := []struct {
		name string
		expr string
	}{
		{name: "unknown variable", expr: "x + missing"},
		{name: "division by zero", expr: "x / zero"},
		{name: "modulo by zero", expr: "x % 0"},
		{name: "trailing garbage", expr: "x + 1)"},
		{name: "unbalanced parenthesis", expr: "(x + 1"},
		{name: "empty", expr: ""},
		{name: "bare operator", expr: "*x"},
		{name: "misplaced power", expr: "x * ** 2"},
		{name: "non-finite result", expr: "10 ** 10000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := EvalExpr(tt.expr, vars); err == nil {
				t.Errorf("EvalExpr(%q) expected an error", tt.expr)
			}
		})
	}
}
