package gen

import (
	"github.com/nomagicln/propcheck/pkg/generator"
	"github.com/nomagicln/propcheck/pkg/rng"
)

const maxSliceLen = 50

// SliceOf generates slices of values from the element generator. Slices
// shrink by dropping elements first, then by shrinking elements in place.
func SliceOf[A any](element generator.Generator[A]) generator.Generator[[]A] {
	return generator.FromFunc(func(rs *rng.Source) generator.Sample[[]A] {
		n := rs.Intn(maxSliceLen + 1)
		elems := make([]generator.Shrinkable[A], n)
		for i := range elems {
			elems[i] = element.Sample(rs).Shrinkable
		}
		return generator.Sample[[]A]{Shrinkable: shrinkSlice(elems)}
	})
}

func shrinkSlice[A any](elems []generator.Shrinkable[A]) generator.Shrinkable[[]A] {
	values := make([]A, len(elems))
	for i, e := range elems {
		values[i] = e.Value
	}
	return generator.Shrinkable[[]A]{
		Value: values,
		Shrinks: func() []generator.Shrinkable[[]A] {
			var out []generator.Shrinkable[[]A]
			if len(elems) > 0 {
				out = append(out, shrinkSlice[A](nil))
				if half := elems[:len(elems)/2]; len(half) > 0 {
					out = append(out, shrinkSlice(half))
				}
				// Skip drop-last when it coincides with a candidate above.
				if len(elems)-1 != len(elems)/2 && len(elems) > 1 {
					out = append(out, shrinkSlice(elems[:len(elems)-1]))
				}
			}
			for i := range elems {
				for _, child := range elems[i].Children() {
					next := make([]generator.Shrinkable[A], len(elems))
					copy(next, elems)
					next[i] = child
					out = append(out, shrinkSlice(next))
				}
			}
			return out
		},
	}
}
