package schema

import (
	"fmt"
	"strconv"
	"strings"
)

type ConstraintKind int

const (
	ConstraintBetween ConstraintKind = iota + 1
	ConstraintAfter
	ConstraintBefore
)

func (k ConstraintKind) String() string {
	switch k {
	case ConstraintBetween:
		return "BETWEEN"
	case ConstraintAfter:
		return "AFTER"
	case ConstraintBefore:
		return "BEFORE"
	default:
		return "UNKNOWN"
	}
}

// CustomConstraint is a parsed post-generation rule. Min and Max are set for
// BETWEEN, Ref for AFTER and BEFORE.
type CustomConstraint struct {
	Kind ConstraintKind
	Min  int64
	Max  int64
	Ref  Reference
}

func (c CustomConstraint) String() string {
	if c.Kind == ConstraintBetween {
		return fmt.Sprintf("BETWEEN %d AND %d", c.Min, c.Max)
	}
	return c.Kind.String() + " " + c.Ref.String()
}

// ParseCustomConstraint matches the leading token of expr against BETWEEN,
// AFTER and BEFORE and parses the arguments that keyword takes.
func ParseCustomConstraint(expr string) (CustomConstraint, error) {
	tokens := strings.Fields(expr)
	if len(tokens) == 0 {
		return CustomConstraint{}, fmt.Errorf("%w: empty expression", ErrUnsupportedConstraint)
	}

	switch strings.ToUpper(tokens[0]) {
	case "BETWEEN":
		if len(tokens) != 4 || strings.ToUpper(tokens[2]) != "AND" {
			return CustomConstraint{}, fmt.Errorf("%w: expected BETWEEN <min> AND <max>, got %q", ErrUnsupportedConstraint, expr)
		}
		lo, err := strconv.ParseInt(tokens[1], 10, 64)
		if err != nil {
			return CustomConstraint{}, fmt.Errorf("%w: invalid lower bound %q", ErrUnsupportedConstraint, tokens[1])
		}
		hi, err := strconv.ParseInt(tokens[3], 10, 64)
		if err != nil {
			return CustomConstraint{}, fmt.Errorf("%w: invalid upper bound %q", ErrUnsupportedConstraint, tokens[3])
		}
		if lo > hi {
			return CustomConstraint{}, fmt.Errorf("%w: lower bound %d exceeds upper bound %d", ErrUnsupportedConstraint, lo, hi)
		}
		return CustomConstraint{Kind: ConstraintBetween, Min: lo, Max: hi}, nil

	case "AFTER", "BEFORE":
		kind := ConstraintAfter
		if strings.ToUpper(tokens[0]) == "BEFORE" {
			kind = ConstraintBefore
		}
		if len(tokens) != 2 {
			return CustomConstraint{}, fmt.Errorf("%w: expected %s <table>.<column>, got %q", ErrUnsupportedConstraint, kind, expr)
		}
		parts := strings.Split(tokens[1], ".")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return CustomConstraint{}, fmt.Errorf("%w: invalid column reference %q", ErrUnsupportedConstraint, tokens[1])
		}
		return CustomConstraint{Kind: kind, Ref: Reference{Table: parts[0], Column: parts[1]}}, nil
	}

	return CustomConstraint{}, fmt.Errorf("%w: %q", ErrUnsupportedConstraint, expr)
}

func ValidateCustomConstraint(expr string) error {
	_, err := ParseCustomConstraint(expr)
	return err
}
