package types

import (
	"errors"
	"fmt"
)

// Ordering is a single ORDER BY term.
type Ordering struct {
	Expr       Expression
	Descending bool
}

// Projection is a single projected expression with an optional alias.
type Projection struct {
	Expr  Expression
	Alias string
}

// Select is a dialect-neutral relational query.
// An empty projection with no StarOf projects the constant 1.
// A non-empty Alias marks the select as a derived table or subquery.
//
//nolint:govet // fieldalignment: clause order is preferred over memory layout
type Select struct {
	Distinct   bool
	Projection []Projection
	StarOf     string
	Tables     []Source
	Predicate  Expression
	GroupBy    []Expression
	Having     Expression
	Orderings  []Ordering
	Limit      Expression
	Offset     Expression
	Alias      string
}

// Type returns the kind of the single projected value for scalar subqueries.
func (s *Select) Type() Kind {
	if len(s.Projection) == 1 {
		return s.Projection[0].Expr.Type()
	}
	return KindUnknown
}

func (*Select) isExpression() {}

// Clone returns a shallow copy whose slices may be modified independently.
func (s *Select) Clone() *Select {
	c := *s
	c.Projection = append([]Projection(nil), s.Projection...)
	c.Tables = append([]Source(nil), s.Tables...)
	c.GroupBy = append([]Expression(nil), s.GroupBy...)
	c.Orderings = append([]Ordering(nil), s.Orderings...)
	return &c
}

// Validate performs structural validation on the select and its subqueries.
func (s *Select) Validate() error {
	if s.StarOf != "" && len(s.Projection) > 0 {
		return fmt.Errorf("select projects both %s.* and %d explicit expressions", s.StarOf, len(s.Projection))
	}
	for i, p := range s.Projection {
		if p.Expr == nil {
			return fmt.Errorf("projection %d has no expression", i)
		}
		if err := validateExpr(p.Expr); err != nil {
			return fmt.Errorf("projection %d: %w", i, err)
		}
	}
	for i, src := range s.Tables {
		if err := validateSource(src); err != nil {
			return fmt.Errorf("source %d: %w", i, err)
		}
	}
	if err := validateOptional(s.Predicate); err != nil {
		return fmt.Errorf("predicate: %w", err)
	}
	for i, g := range s.GroupBy {
		if g == nil {
			return fmt.Errorf("group by %d has no expression", i)
		}
		if err := validateExpr(g); err != nil {
			return fmt.Errorf("group by %d: %w", i, err)
		}
	}
	if s.Having != nil && len(s.GroupBy) == 0 {
		return errors.New("HAVING requires GROUP BY")
	}
	if err := validateOptional(s.Having); err != nil {
		return fmt.Errorf("having: %w", err)
	}
	if err := validateOrderings(s.Orderings); err != nil {
		return err
	}
	if err := validateOptional(s.Limit); err != nil {
		return fmt.Errorf("limit: %w", err)
	}
	if err := validateOptional(s.Offset); err != nil {
		return fmt.Errorf("offset: %w", err)
	}
	return nil
}

func validateOrderings(orderings []Ordering) error {
	for i, o := range orderings {
		if o.Expr == nil {
			return fmt.Errorf("ordering %d has no expression", i)
		}
		if err := validateExpr(o.Expr); err != nil {
			return fmt.Errorf("ordering %d: %w", i, err)
		}
	}
	return nil
}

// ValidateExpression reports missing operands in a standalone expression.
func ValidateExpression(e Expression) error {
	return validateExpr(e)
}

// validateOptional checks an expression slot that may be left empty.
func validateOptional(e Expression) error {
	if e == nil {
		return nil
	}
	return validateExpr(e)
}

// validateExpr rejects missing operands anywhere in the tree.
// Instances of member accesses and method calls may be nil for static members.
func validateExpr(e Expression) error {
	switch n := e.(type) {
	case nil:
		return errors.New("missing expression")
	case Column, Literal, Parameter, Fragment:
		return nil
	case Binary:
		if n.Left == nil || n.Right == nil {
			return fmt.Errorf("%s is missing an operand", n.Op)
		}
		if err := validateExpr(n.Left); err != nil {
			return err
		}
		return validateExpr(n.Right)
	case Unary:
		if n.Operand == nil {
			return fmt.Errorf("%s is missing its operand", n.Op)
		}
		return validateExpr(n.Operand)
	case FunctionCall:
		return validateArgs(n.Name, n.Args)
	case Cast:
		if n.Operand == nil {
			return fmt.Errorf("cast to %s is missing its operand", n.StoreType)
		}
		return validateExpr(n.Operand)
	case RowNumber:
		return validateOrderings(n.Orderings)
	case MemberAccess:
		return validateOptional(n.Instance)
	case MethodCall:
		if err := validateOptional(n.Instance); err != nil {
			return err
		}
		return validateArgs(n.Declaring+"."+n.Method, n.Args)
	case Exists:
		if n.Subquery == nil {
			return errors.New("EXISTS has no subquery")
		}
		return n.Subquery.Validate()
	case In:
		if n.Operand == nil {
			return errors.New("IN is missing its operand")
		}
		if err := validateExpr(n.Operand); err != nil {
			return err
		}
		if n.Subquery != nil {
			return n.Subquery.Validate()
		}
		return validateArgs("IN", n.Values)
	case Like:
		if n.Match == nil || n.Pattern == nil {
			return errors.New("LIKE is missing an operand")
		}
		if err := validateExpr(n.Match); err != nil {
			return err
		}
		if err := validateExpr(n.Pattern); err != nil {
			return err
		}
		return validateOptional(n.Escape)
	case Case:
		for i, w := range n.Whens {
			if w.Test == nil || w.Result == nil {
				return fmt.Errorf("CASE arm %d is incomplete", i)
			}
			if err := validateExpr(w.Test); err != nil {
				return err
			}
			if err := validateExpr(w.Result); err != nil {
				return err
			}
		}
		return validateOptional(n.Else)
	case *Select:
		if n == nil {
			return errors.New("missing subquery")
		}
		return n.Validate()
	default:
		return nil
	}
}

func validateArgs(name string, args []Expression) error {
	for i, a := range args {
		if a == nil {
			return fmt.Errorf("%s argument %d is missing", name, i)
		}
		if err := validateExpr(a); err != nil {
			return err
		}
	}
	return nil
}

func validateSource(src Source) error {
	switch t := src.(type) {
	case Table:
		if t.Name == "" {
			return errors.New("table name is required")
		}
	case Join:
		if t.Source == nil {
			return errors.New("join has no source")
		}
		if t.Kind != CrossJoin && t.On == nil {
			return fmt.Errorf("%s requires an ON condition", t.Kind)
		}
		if err := validateOptional(t.On); err != nil {
			return fmt.Errorf("join condition: %w", err)
		}
		return validateSource(t.Source)
	case *Select:
		if t.Alias == "" {
			return errors.New("derived table requires an alias")
		}
		return t.Validate()
	case nil:
		return errors.New("nil source")
	default:
		return fmt.Errorf("unknown source type %T", src)
	}
	return nil
}
