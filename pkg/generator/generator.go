// Package generator defines the sample and generator abstractions consumed
// by the property engine.
//
// A Generator draws one Sample at a time from a random source. Each Sample
// carries its value, an optional classifier for distribution reporting, and
// a lazy shrink tree of strictly smaller candidate values. The engine never
// inspects how values are produced; it only pulls samples and walks shrink
// trees.
package generator

import "github.com/nomagicln/propcheck/pkg/rng"

// Shrinkable is a value together with a lazy tree of smaller candidates.
// Shrinks returns the immediate children; it may be nil for values that
// cannot shrink. Children must be strictly smaller than their parent under
// the generator's ordering, otherwise the shrink search may not terminate
// before its attempt bound.
type Shrinkable[A any] struct {
	Value   A
	Shrinks func() []Shrinkable[A]
}

// Leaf wraps a value that cannot shrink.
func Leaf[A any](value A) Shrinkable[A] {
	return Shrinkable[A]{Value: value}
}

// Children returns the immediate shrink candidates, tolerating a nil
// Shrinks function.
func (s Shrinkable[A]) Children() []Shrinkable[A] {
	if s.Shrinks == nil {
		return nil
	}
	return s.Shrinks()
}

// Sample is one generated candidate: a shrinkable value plus an optional
// classifier used for distribution reporting.
type Sample[A any] struct {
	Shrinkable[A]

	// Classifier partitions values into labeled buckets. Nil means the
	// sample does not participate in classification.
	Classifier func(A) string
}

// Generator produces samples from a random source.
type Generator[A any] interface {
	// Sample draws the next sample from the stream.
	Sample(rs *rng.Source) Sample[A]

	// Edgecases returns known boundary values the engine may substitute
	// for a random draw. May be empty.
	Edgecases() []A
}

// funcGen adapts plain functions to the Generator interface.
type funcGen[A any] struct {
	sample func(rs *rng.Source) Sample[A]
	edges  []A
}

func (g *funcGen[A]) Sample(rs *rng.Source) Sample[A] {
	return g.sample(rs)
}

func (g *funcGen[A]) Edgecases() []A {
	return g.edges
}

// FromFunc builds a Generator from a sampling function and optional edge
// cases.
func FromFunc[A any](sample func(rs *rng.Source) Sample[A], edgecases ...A) Generator[A] {
	return &funcGen[A]{sample: sample, edges: edgecases}
}
