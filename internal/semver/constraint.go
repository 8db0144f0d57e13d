package semver

import "fmt"

// Op identifies one comparison kind inside a version constraint.
type Op int

const (
	OpEqual Op = iota
	OpLess
	OpLessOrEqual
	OpGreater
	OpGreaterOrEqual
	OpCompatible
)

// ParseOp maps a pragma comparison symbol to its Op. The empty string means
// exact equality, matching how a bare version reads in a pragma line.
func ParseOp(symbol string) (Op, error) {
	switch symbol {
	case "":
		return OpEqual, nil
	case "<":
		return OpLess, nil
	case "<=":
		return OpLessOrEqual, nil
	case ">":
		return OpGreater, nil
	case ">=":
		return OpGreaterOrEqual, nil
	case "^":
		return OpCompatible, nil
	}
	return 0, fmt.Errorf("unknown version operator %q", symbol)
}

// String returns the pragma spelling of the operator. OpEqual renders as the
// empty string.
func (op Op) String() string {
	switch op {
	case OpEqual:
		return ""
	case OpLess:
		return "<"
	case OpLessOrEqual:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterOrEqual:
		return ">="
	case OpCompatible:
		return "^"
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// Constraint is a single comparison against a fixed version, e.g. ">=0.4.24".
type Constraint struct {
	Op      Op
	Version Version
}

// Matches reports whether candidate satisfies the constraint.
func (c Constraint) Matches(candidate Version) bool {
	switch c.Op {
	case OpEqual:
		return candidate.Compare(c.Version) == 0
	case OpLess:
		return candidate.Compare(c.Version) < 0
	case OpLessOrEqual:
		return candidate.Compare(c.Version) <= 0
	case OpGreater:
		return candidate.Compare(c.Version) > 0
	case OpGreaterOrEqual:
		return candidate.Compare(c.Version) >= 0
	case OpCompatible:
		return candidate.CompatibleWith(c.Version)
	}
	return false
}

// String renders the constraint in pragma form.
func (c Constraint) String() string {
	return c.Op.String() + c.Version.String()
}

// ConstraintSet holds every constraint a single source file declares. A nil
// or empty set means the file declared no requirement at all; callers must
// read that as "any known version", not "no version".
type ConstraintSet []Constraint

// Empty reports whether the set carries no constraints.
func (cs ConstraintSet) Empty() bool {
	return len(cs) == 0
}

// SatisfiedBy reports whether v meets every constraint in the set.
func (cs ConstraintSet) SatisfiedBy(v Version) bool {
	for _, c := range cs {
		if !c.Matches(v) {
			return false
		}
	}
	return true
}

// String joins the constraints with single spaces, matching pragma notation.
func (cs ConstraintSet) String() string {
	out := ""
	for i, c := range cs {
		if i > 0 {
			out += " "
		}
		out += c.String()
	}
	return out
}
