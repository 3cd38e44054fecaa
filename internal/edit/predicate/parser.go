// Package predicate implements the boolean row filter language used by
// "filter rows where": comparisons (== != < <= > >=) between column names and
// string or number literals, combined with and, or, not and parentheses.
// Column names containing spaces are written in backticks.
package predicate

import (
	"fmt"
	"strconv"

	"sheetops/internal/table"
)

// LogicalOperator combines conditions in a Group.
type LogicalOperator string

const (
	LogicalAnd LogicalOperator = "and"
	LogicalOr  LogicalOperator = "or"
	LogicalNot LogicalOperator = "not"
)

// CompareOperator is one of the six comparison operators.
type CompareOperator string

const (
	CompareEq  CompareOperator = "=="
	CompareNeq CompareOperator = "!="
	CompareLt  CompareOperator = "<"
	CompareLte CompareOperator = "<="
	CompareGt  CompareOperator = ">"
	CompareGte CompareOperator = ">="
)

// Operand is either a column reference or a literal.
type Operand struct {
	Column  string
	Literal table.Value
}

func (o Operand) IsColumn() bool { return o.Column != "" }

// Condition compares two operands.
type Condition struct {
	Left     Operand
	Operator CompareOperator
	Right    Operand
}

// Group applies a logical operator to its terms. Not has exactly one term.
type Group struct {
	Operator LogicalOperator
	Terms    []Expr
}

// Expr is a parsed filter: exactly one of Condition or Group is set.
type Expr struct {
	Condition *Condition
	Group     *Group
}

const (
	// MaxLength bounds the source text of one expression, in bytes.
	MaxLength = 64 << 10
	// MaxDepth bounds nesting of parentheses and not.
	MaxDepth = 256
)

// Parse compiles src into an Expr. Errors are *SyntaxError.
func Parse(src string) (Expr, error) {
	if len(src) > MaxLength {
		return Expr{}, &SyntaxError{Pos: MaxLength + 1, Msg: fmt.Sprintf("expression longer than %d bytes", MaxLength)}
	}
	toks, err := lex(src)
	if err != nil {
		return Expr{}, err
	}
	p := &parser{toks: toks}
	if p.peek().kind == tokEOF {
		return Expr{}, &SyntaxError{Pos: 1, Msg: "empty expression"}
	}
	e, err := p.parseOr()
	if err != nil {
		return Expr{}, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return Expr{}, p.unexpected(t)
	}
	return e, nil
}

// Columns lists the column names referenced by e, in first-seen order.
func (e Expr) Columns() []string {
	seen := map[string]bool{}
	var out []string
	var walk func(Expr)
	add := func(o Operand) {
		if o.IsColumn() && !seen[o.Column] {
			seen[o.Column] = true
			out = append(out, o.Column)
		}
	}
	walk = func(x Expr) {
		if x.Condition != nil {
			add(x.Condition.Left)
			add(x.Condition.Right)
		}
		if x.Group != nil {
			for _, t := range x.Group.Terms {
				walk(t)
			}
		}
	}
	walk(e)
	return out
}

type parser struct {
	toks  []token
	pos   int
	depth int
}

// enter guards the recursive productions against unbounded nesting.
func (p *parser) enter(t token) error {
	p.depth++
	if p.depth > MaxDepth {
		return &SyntaxError{Pos: t.pos + 1, Msg: "expression nested too deeply"}
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) unexpected(t token) error {
	if t.kind == tokEOF {
		return &SyntaxError{Pos: t.pos + 1, Msg: "unexpected end of expression"}
	}
	return &SyntaxError{Pos: t.pos + 1, Msg: fmt.Sprintf("unexpected %s %q", t.kind, t.text)}
}

func (p *parser) parseOr() (Expr, error) {
	return p.parseChain(tokOr, LogicalOr, p.parseAnd)
}

func (p *parser) parseAnd() (Expr, error) {
	return p.parseChain(tokAnd, LogicalAnd, p.parseNot)
}

func (p *parser) parseChain(sep tokenKind, op LogicalOperator, sub func() (Expr, error)) (Expr, error) {
	first, err := sub()
	if err != nil {
		return Expr{}, err
	}
	terms := []Expr{first}
	for p.peek().kind == sep {
		p.next()
		e, err := sub()
		if err != nil {
			return Expr{}, err
		}
		terms = append(terms, e)
	}
	if len(terms) == 1 {
		return first, nil
	}
	return Expr{Group: &Group{Operator: op, Terms: terms}}, nil
}

func (p *parser) parseNot() (Expr, error) {
	if p.peek().kind == tokNot {
		if err := p.enter(p.next()); err != nil {
			return Expr{}, err
		}
		defer p.leave()
		e, err := p.parseNot()
		if err != nil {
			return Expr{}, err
		}
		return Expr{Group: &Group{Operator: LogicalNot, Terms: []Expr{e}}}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	if p.peek().kind == tokLParen {
		if err := p.enter(p.next()); err != nil {
			return Expr{}, err
		}
		defer p.leave()
		e, err := p.parseOr()
		if err != nil {
			return Expr{}, err
		}
		if t := p.next(); t.kind != tokRParen {
			return Expr{}, p.unexpected(t)
		}
		return e, nil
	}

	left, err := p.parseOperand()
	if err != nil {
		return Expr{}, err
	}
	opTok := p.next()
	if opTok.kind != tokCompare {
		return Expr{}, p.unexpected(opTok)
	}
	right, err := p.parseOperand()
	if err != nil {
		return Expr{}, err
	}
	if !left.IsColumn() && !right.IsColumn() {
		return Expr{}, &SyntaxError{Pos: opTok.pos + 1, Msg: "comparison needs at least one column"}
	}
	return Expr{Condition: &Condition{Left: left, Operator: CompareOperator(opTok.text), Right: right}}, nil
}

func (p *parser) parseOperand() (Operand, error) {
	t := p.next()
	switch t.kind {
	case tokIdent:
		return Operand{Column: t.text}, nil
	case tokString:
		return Operand{Literal: table.Text(t.text)}, nil
	case tokNumber:
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return Operand{}, &SyntaxError{Pos: t.pos + 1, Msg: fmt.Sprintf("invalid number %q", t.text)}
		}
		return Operand{Literal: table.Number(f)}, nil
	default:
		return Operand{}, p.unexpected(t)
	}
}
