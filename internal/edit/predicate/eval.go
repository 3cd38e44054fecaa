package predicate

import (
	"fmt"
	"strings"

	"sheetops/internal/table"
)

// Resolver yields the value of a column for the row being evaluated.
type Resolver interface {
	Get(col string) (table.Value, bool)
}

// Eval evaluates e against one row.
func (e Expr) Eval(r Resolver) (bool, error) {
	switch {
	case e.Condition != nil:
		return e.Condition.eval(r)
	case e.Group != nil:
		return e.Group.eval(r)
	default:
		return false, fmt.Errorf("empty expression")
	}
}

func (g *Group) eval(r Resolver) (bool, error) {
	switch g.Operator {
	case LogicalNot:
		if len(g.Terms) != 1 {
			return false, fmt.Errorf("not takes one term, got %d", len(g.Terms))
		}
		ok, err := g.Terms[0].Eval(r)
		return !ok, err
	case LogicalAnd:
		for _, t := range g.Terms {
			ok, err := t.Eval(r)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case LogicalOr:
		for _, t := range g.Terms {
			ok, err := t.Eval(r)
			if err != nil || ok {
				return ok, err
			}
		}
		return false, nil
	default:
		return false, fmt.Errorf("unknown logical operator %q", g.Operator)
	}
}

func (c *Condition) eval(r Resolver) (bool, error) {
	a, err := resolve(c.Left, r)
	if err != nil {
		return false, err
	}
	b, err := resolve(c.Right, r)
	if err != nil {
		return false, err
	}
	return Compare(a, c.Operator, b)
}

func resolve(o Operand, r Resolver) (table.Value, error) {
	if !o.IsColumn() {
		return o.Literal, nil
	}
	v, ok := r.Get(o.Column)
	if !ok {
		return table.Value{}, fmt.Errorf("unknown column %q", o.Column)
	}
	return v, nil
}

// Compare applies op to a and b. Nulls behave like NaN: every comparison is
// false except !=. Values of different kinds are never equal and cannot be
// ordered, except that a date may be ordered against a date-formatted string.
func Compare(a table.Value, op CompareOperator, b table.Value) (bool, error) {
	if a.IsNull() || b.IsNull() {
		return op == CompareNeq, nil
	}
	if a.Kind() == table.KindDate && b.Kind() == table.KindString {
		if t, ok := table.ParseDate(strings.TrimSpace(b.Str())); ok {
			b = table.Date(t)
		}
	} else if b.Kind() == table.KindDate && a.Kind() == table.KindString {
		if t, ok := table.ParseDate(strings.TrimSpace(a.Str())); ok {
			a = table.Date(t)
		}
	}

	if a.Kind() != b.Kind() {
		switch op {
		case CompareEq:
			return false, nil
		case CompareNeq:
			return true, nil
		default:
			return false, fmt.Errorf("cannot compare %s with %s using %s", a.Kind(), b.Kind(), op)
		}
	}

	var cmp int
	switch a.Kind() {
	case table.KindNumber:
		switch {
		case a.Num() < b.Num():
			cmp = -1
		case a.Num() > b.Num():
			cmp = 1
		}
	case table.KindDate:
		cmp = a.Time().Compare(b.Time())
	default:
		cmp = strings.Compare(a.Str(), b.Str())
	}

	switch op {
	case CompareEq:
		return cmp == 0, nil
	case CompareNeq:
		return cmp != 0, nil
	case CompareLt:
		return cmp < 0, nil
	case CompareLte:
		return cmp <= 0, nil
	case CompareGt:
		return cmp > 0, nil
	case CompareGte:
		return cmp >= 0, nil
	default:
		return false, fmt.Errorf("unknown comparison operator %q", op)
	}
}
