package generator

import "github.com/nomagicln/propcheck/pkg/rng"

// MapTree applies f to every value in a shrink tree, preserving its shape.
func MapTree[A, B any](s Shrinkable[A], f func(A) B) Shrinkable[B] {
	return Shrinkable[B]{
		Value: f(s.Value),
		Shrinks: func() []Shrinkable[B] {
			children := s.Children()
			if len(children) == 0 {
				return nil
			}
			mapped := make([]Shrinkable[B], len(children))
			for i, child := range children {
				mapped[i] = MapTree(child, f)
			}
			return mapped
		},
	}
}

// Map transforms generated values with f. Shrinking happens on the source
// values and the mapping is reapplied, so the shrink ordering of the source
// generator is preserved.
func Map[A, B any](g Generator[A], f func(A) B) Generator[B] {
	edges := g.Edgecases()
	mappedEdges := make([]B, len(edges))
	for i, e := range edges {
		mappedEdges[i] = f(e)
	}
	return FromFunc(func(rs *rng.Source) Sample[B] {
		s := g.Sample(rs)
		return Sample[B]{Shrinkable: MapTree(s.Shrinkable, f)}
	}, mappedEdges...)
}

// FlatMap chains generators: each drawn A selects the generator for B.
// The resulting shrink tree is B's own; shrinking back through the A draw
// would invalidate the dependency.
func FlatMap[A, B any](g Generator[A], f func(A) Generator[B]) Generator[B] {
	return FromFunc(func(rs *rng.Source) Sample[B] {
		a := g.Sample(rs)
		return f(a.Value).Sample(rs)
	})
}

// filterRetries bounds how many draws Filter makes before giving up and
// returning the last candidate unfiltered.
const filterRetries = 100

// Filter discards generated values failing pred by redrawing, up to a fixed
// retry bound. Shrink candidates failing pred are pruned from the tree so
// shrinking cannot escape the predicate.
func Filter[A any](g Generator[A], pred func(A) bool) Generator[A] {
	edges := g.Edgecases()
	var kept []A
	for _, e := range edges {
		if pred(e) {
			kept = append(kept, e)
		}
	}
	return FromFunc(func(rs *rng.Source) Sample[A] {
		var s Sample[A]
		for i := 0; i < filterRetries; i++ {
			s = g.Sample(rs)
			if pred(s.Value) {
				break
			}
		}
		s.Shrinkable = filterTree(s.Shrinkable, pred)
		return s
	}, kept...)
}

// filterTree prunes shrink candidates that fail pred.
func filterTree[A any](s Shrinkable[A], pred func(A) bool) Shrinkable[A] {
	return Shrinkable[A]{
		Value: s.Value,
		Shrinks: func() []Shrinkable[A] {
			var out []Shrinkable[A]
			for _, child := range s.Children() {
				if pred(child.Value) {
					out = append(out, filterTree(child, pred))
				}
			}
			return out
		},
	}
}

// Classify attaches a classifier to every sample the generator produces.
func Classify[A any](g Generator[A], classifier func(A) string) Generator[A] {
	return FromFunc(func(rs *rng.Source) Sample[A] {
		s := g.Sample(rs)
		s.Classifier = classifier
		return s
	}, g.Edgecases()...)
}

// WithEdgecases replaces the generator's edge cases.
func WithEdgecases[A any](g Generator[A], edgecases ...A) Generator[A] {
	return FromFunc(func(rs *rng.Source) Sample[A] {
		return g.Sample(rs)
	}, edgecases...)
}
