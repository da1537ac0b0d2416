package config

import (
	"fmt"

	"github.com/vulcand/predicate"
)

// Stats is a point-in-time snapshot of a run's counters.
type Stats struct {
	// Evaluations counts every pulled sample, including discarded ones.
	Evaluations int

	// Successes counts evaluations that completed without violation.
	Successes int

	// Failures counts genuine property violations.
	Failures int
}

// Discards returns the number of evaluations that were neither successes
// nor failures (assumption failures).
func (s Stats) Discards() int {
	return s.Evaluations - s.Successes - s.Failures
}

// Constraint is the stopping predicate of the generation loop: samples are
// pulled while it returns true.
type Constraint func(Stats) bool

// Iterations returns the standard constraint capping the number of
// evaluations.
func Iterations(n int) Constraint {
	return func(s Stats) bool {
		return s.Evaluations < n
	}
}

// statsPredicate is the closed predicate type expressions evaluate to.
type statsPredicate func(Stats) bool

// ParseConstraint parses a stopping predicate from an expression such as
//
//	EvaluationsBelow(500) && FailuresBelow(3)
//
// Supported functions: EvaluationsBelow, SuccessesBelow, FailuresBelow,
// DiscardsBelow. Supported operators: && (and), || (or), ! (not).
func ParseConstraint(expr string) (Constraint, error) {
	parser, err := predicate.NewParser(predicate.Def{
		Functions: map[string]any{
			"EvaluationsBelow": belowPredicate(func(s Stats) int { return s.Evaluations }),
			"SuccessesBelow":   belowPredicate(func(s Stats) int { return s.Successes }),
			"FailuresBelow":    belowPredicate(func(s Stats) int { return s.Failures }),
			"DiscardsBelow":    belowPredicate(func(s Stats) int { return s.Discards() }),
		},
		Operators: predicate.Operators{
			AND: andPredicate,
			OR:  orPredicate,
			NOT: notPredicate,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create constraint parser: %w", err)
	}

	parsed, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid constraint expression: %w", err)
	}

	fn, ok := parsed.(statsPredicate)
	if !ok {
		return nil, fmt.Errorf("constraint must evaluate to boolean, got %T", parsed)
	}
	return Constraint(fn), nil
}

func belowPredicate(field func(Stats) int) func(int) statsPredicate {
	return func(bound int) statsPredicate {
		return func(s Stats) bool {
			return field(s) < bound
		}
	}
}

func andPredicate(a, b statsPredicate) statsPredicate {
	return func(s Stats) bool {
		return a(s) && b(s)
	}
}

func orPredicate(a, b statsPredicate) statsPredicate {
	return func(s Stats) bool {
		return a(s) || b(s)
	}
}

func notPredicate(a statsPredicate) statsPredicate {
	return func(s Stats) bool {
		return !a(s)
	}
}

// WithConstraintExpr parses expr and installs the resulting constraint.
// Invalid expressions surface as a panic at configuration time; use
// ParseConstraint directly when the expression is not a literal.
func WithConstraintExpr(expr string) Option {
	constraint, err := ParseConstraint(expr)
	if err != nil {
		panic(fmt.Sprintf("propcheck: %v", err))
	}
	return WithConstraint(constraint)
}
