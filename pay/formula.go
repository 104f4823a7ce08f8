/*
formula.go - Salary to hourly rate conversion

PURPOSE:
  Turns an annual basic salary into an hourly rate. The default path is the
  fixed formula salary * 12 / 52 / 40. Users may type their own formula,
  which is evaluated with the salary as its left operand:

    "*12/52/40"     -> salary * 12 / 52 / 40
    "/52/37.5"      -> salary / 52 / 37.5
    "x12÷52÷40"     -> same as the default, with the symbols of a keypad

GRAMMAR:
  expr   := term (('+' | '-') term)*
  term   := unary (('*' | 'x' | '×' | '/' | '÷') unary)*
  unary  := '-' unary | factor
  factor := number | '(' expr ')'

  The salary is prepended as a number before parsing, so the formula text
  can only ever combine numbers. There is no identifier, call or variable
  syntax to abuse.

ROUNDING:
  Rates are rounded half away from zero to 2 decimal places, after the
  whole formula has been evaluated.
*/
package pay

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// DefaultFormula is annual -> monthly -> weekly -> hourly over a 40 hour week.
const DefaultFormula = "*12/52/40"

var formulaProbe = decimal.NewFromInt(1000)

// DeriveHourlyRate applies DefaultFormula to an annual salary.
func DeriveHourlyRate(basicSalary int64) decimal.Decimal {
	return decimal.NewFromInt(basicSalary).
		Mul(decimal.NewFromInt(12)).
		Div(decimal.NewFromInt(52)).
		Div(decimal.NewFromInt(40)).
		Round(2)
}

// ValidateFormula evaluates the formula against a probe salary of 1000.
func ValidateFormula(formula string) error {
	_, err := EvaluateFormula(formula, formulaProbe)
	return err
}

// RateFromFormula evaluates the formula for a salary and rounds to 2dp.
// An empty formula means DefaultFormula.
func RateFromFormula(formula string, basicSalary int64) (decimal.Decimal, error) {
	if strings.TrimSpace(formula) == "" {
		return DeriveHourlyRate(basicSalary), nil
	}
	v, err := EvaluateFormula(formula, decimal.NewFromInt(basicSalary))
	if err != nil {
		return decimal.Zero, err
	}
	return v.Round(2), nil
}

// EvaluateFormula computes salary followed by the formula text.
func EvaluateFormula(formula string, salary decimal.Decimal) (decimal.Decimal, error) {
	if strings.TrimSpace(formula) == "" {
		return decimal.Zero, fmt.Errorf("%w: formula is empty", ErrInvalidFormula)
	}
	toks, err := tokenize(formula)
	if err != nil {
		return decimal.Zero, err
	}
	p := &parser{toks: append([]token{{kind: tokNumber, num: salary}}, toks...)}
	v, err := p.expr()
	if err != nil {
		return decimal.Zero, err
	}
	if !p.done() {
		return decimal.Zero, fmt.Errorf("%w: unexpected %q", ErrInvalidFormula, p.peek().text)
	}
	return v, nil
}

// =============================================================================
// TOKENIZER
// =============================================================================

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokOp
	tokOpen
	tokClose
	tokEOF
)

type token struct {
	kind tokenKind
	op   rune
	num  decimal.Decimal
	text string
}

func tokenize(s string) ([]token, error) {
	var toks []token
	rs := []rune(s)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r) || r == '.':
			j := i
			for j < len(rs) && (unicode.IsDigit(rs[j]) || rs[j] == '.') {
				j++
			}
			text := string(rs[i:j])
			n, err := decimal.NewFromString(text)
			if err != nil {
				return nil, fmt.Errorf("%w: bad number %q", ErrInvalidFormula, text)
			}
			toks = append(toks, token{kind: tokNumber, num: n, text: text})
			i = j
		case r == '+' || r == '-':
			toks = append(toks, token{kind: tokOp, op: r, text: string(r)})
			i++
		case r == '*' || r == 'x' || r == 'X' || r == '×':
			toks = append(toks, token{kind: tokOp, op: '*', text: string(r)})
			i++
		case r == '/' || r == '÷':
			toks = append(toks, token{kind: tokOp, op: '/', text: string(r)})
			i++
		case r == '(':
			toks = append(toks, token{kind: tokOpen, text: "("})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokClose, text: ")"})
			i++
		default:
			return nil, fmt.Errorf("%w: unexpected %q", ErrInvalidFormula, string(r))
		}
	}
	return toks, nil
}

// =============================================================================
// PARSER
// =============================================================================

var errDivisionByZero = errors.New("division by zero")

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token {
	if p.pos >= len(p.toks) {
		return token{kind: tokEOF, text: "end of formula"}
	}
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) done() bool { return p.pos >= len(p.toks) }

func (p *parser) expr() (decimal.Decimal, error) {
	left, err := p.term()
	if err != nil {
		return left, err
	}
	for t := p.peek(); t.kind == tokOp && (t.op == '+' || t.op == '-'); t = p.peek() {
		p.next()
		right, err := p.term()
		if err != nil {
			return left, err
		}
		if t.op == '+' {
			left = left.Add(right)
		} else {
			left = left.Sub(right)
		}
	}
	return left, nil
}

func (p *parser) term() (decimal.Decimal, error) {
	left, err := p.unary()
	if err != nil {
		return left, err
	}
	for t := p.peek(); t.kind == tokOp && (t.op == '*' || t.op == '/'); t = p.peek() {
		p.next()
		right, err := p.unary()
		if err != nil {
			return left, err
		}
		if t.op == '*' {
			left = left.Mul(right)
			continue
		}
		if right.IsZero() {
			return left, fmt.Errorf("%w: %v", ErrInvalidFormula, errDivisionByZero)
		}
		left = left.Div(right)
	}
	return left, nil
}

func (p *parser) unary() (decimal.Decimal, error) {
	if t := p.peek(); t.kind == tokOp && t.op == '-' {
		p.next()
		v, err := p.unary()
		return v.Neg(), err
	}
	return p.factor()
}

func (p *parser) factor() (decimal.Decimal, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return t.num, nil
	case tokOpen:
		v, err := p.expr()
		if err != nil {
			return v, err
		}
		if p.next().kind != tokClose {
			return v, fmt.Errorf("%w: missing )", ErrInvalidFormula)
		}
		return v, nil
	}
	return decimal.Zero, fmt.Errorf("%w: expected a number, got %q", ErrInvalidFormula, t.text)
}
