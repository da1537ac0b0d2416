package property

import (
	"github.com/nomagicln/propcheck/pkg/config"
	"github.com/nomagicln/propcheck/pkg/generator"
)

// ShrinkResult is the outcome of minimizing one property argument.
type ShrinkResult struct {
	// Initial is the original failing value.
	Initial any

	// Shrunk is the smallest failing value found. Equal to Initial when no
	// smaller candidate reproduced the failure.
	Shrunk any

	// Improved reports whether Shrunk differs from Initial.
	Improved bool

	// Cause is the error from re-evaluating Shrunk, when that evaluation
	// itself failed. The minimized reproduction is considered more
	// informative than the original, so a non-nil Cause overrides the
	// cause of the original failing run.
	Cause error
}

// argSearch is the per-argument view of the shrink search. The concrete
// type is generic; the search loop only needs this closed surface.
type argSearch interface {
	exhausted() bool
	tryNext(eval func() error)
	result() ShrinkResult
}

// shrinkState tracks the search for one argument: the best failing value
// found so far and the frontier of untried candidates from its shrink
// tree.
type shrinkState[A any] struct {
	initial  A
	best     A
	frontier []generator.Shrinkable[A]
	cause    error
	improved bool

	// install writes a candidate into the slot the property body reads the
	// argument from.
	install func(A)
}

// newShrinkState starts a search at the original failing value.
func newShrinkState[A any](original generator.Shrinkable[A], install func(A)) *shrinkState[A] {
	return &shrinkState[A]{
		initial:  original.Value,
		best:     original.Value,
		frontier: original.Children(),
		install:  install,
	}
}

func (s *shrinkState[A]) exhausted() bool {
	return len(s.frontier) == 0
}

// tryNext evaluates the next frontier candidate. A candidate that still
// fails becomes the new best and its own children replace the frontier; a
// passing or discarded candidate is dropped and the best value is
// reinstalled.
func (s *shrinkState[A]) tryNext(eval func() error) {
	candidate := s.frontier[0]
	s.frontier = s.frontier[1:]

	s.install(candidate.Value)
	err := eval()
	if err != nil && !isAssumption(err) {
		s.best = candidate.Value
		s.cause = err
		s.improved = true
		s.frontier = candidate.Children()
		return
	}
	s.install(s.best)
}

func (s *shrinkState[A]) result() ShrinkResult {
	return ShrinkResult{
		Initial:  s.initial,
		Shrunk:   s.best,
		Improved: s.improved,
		Cause:    s.cause,
	}
}

// runShrinkSearch minimizes a failing sample. Searches for the arguments
// proceed round-robin, so no argument starves another of the shared
// attempt budget. eval re-runs the property body against the currently
// installed argument values with the sample's contextual seed, keeping
// every replay deterministic.
func runShrinkSearch(mode config.ShrinkingMode, searches []argSearch, eval func() error) []ShrinkResult {
	attempts := 0
	for attempts < mode.MaxAttempts {
		progressed := false
		for _, s := range searches {
			if attempts >= mode.MaxAttempts {
				break
			}
			if s.exhausted() {
				continue
			}
			s.tryNext(eval)
			attempts++
			progressed = true
		}
		if !progressed {
			break
		}
	}

	results := make([]ShrinkResult, len(searches))
	for i, s := range searches {
		results[i] = s.result()
	}
	return results
}
