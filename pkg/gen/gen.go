// Package gen provides stock generators for common types.
//
// The engine treats generators as opaque; everything here is built on the
// generator package's public surface and can serve as a template for
// domain-specific generators.
package gen

import (
	"math"

	"github.com/nomagicln/propcheck/pkg/generator"
	"github.com/nomagicln/propcheck/pkg/rng"
)

// ShrinkInt64 builds the shrink tree for an integer: candidates move toward
// the origin, halving the distance each step.
func ShrinkInt64(v, origin int64) generator.Shrinkable[int64] {
	return generator.Shrinkable[int64]{
		Value: v,
		Shrinks: func() []generator.Shrinkable[int64] {
			if v == origin {
				return nil
			}
			seen := map[int64]bool{v: true}
			var out []generator.Shrinkable[int64]
			add := func(c int64) {
				if !seen[c] {
					seen[c] = true
					out = append(out, ShrinkInt64(c, origin))
				}
			}
			add(origin)
			add(origin + (v-origin)/2)
			if v > origin {
				add(v - 1)
			} else {
				add(v + 1)
			}
			return out
		},
	}
}

// Int64 generates integers over the full int64 range.
func Int64() generator.Generator[int64] {
	return generator.FromFunc(func(rs *rng.Source) generator.Sample[int64] {
		return generator.Sample[int64]{Shrinkable: ShrinkInt64(rs.Int64(), 0)}
	}, 0, 1, -1, math.MaxInt64, math.MinInt64)
}

// Int generates integers over the full int range.
func Int() generator.Generator[int] {
	return generator.Map(Int64(), func(v int64) int { return int(v) })
}

// IntRange generates integers in [min, max]. Values shrink toward the point
// of the range closest to zero.
func IntRange(min, max int) generator.Generator[int] {
	if min > max {
		min, max = max, min
	}
	origin := 0
	if min > 0 {
		origin = min
	} else if max < 0 {
		origin = max
	}
	edges := []int{min, max, origin}
	g := generator.FromFunc(func(rs *rng.Source) generator.Sample[int] {
		// The width is computed in uint64: it can exceed MaxInt64, and for
		// the full int range it wraps to zero, meaning any draw is in range.
		width := uint64(max) - uint64(min) + 1
		offset := rs.Uint64()
		if width != 0 {
			offset %= width
		}
		v := min + int(offset)
		shr := generator.MapTree(ShrinkInt64(int64(v), int64(origin)), func(x int64) int { return int(x) })
		return generator.Sample[int]{Shrinkable: shr}
	}, edges...)
	return g
}

// Bool generates random booleans. True shrinks to false.
func Bool() generator.Generator[bool] {
	return generator.FromFunc(func(rs *rng.Source) generator.Sample[bool] {
		v := rs.Bool()
		shr := generator.Shrinkable[bool]{Value: v}
		if v {
			shr.Shrinks = func() []generator.Shrinkable[bool] {
				return []generator.Shrinkable[bool]{generator.Leaf(false)}
			}
		}
		return generator.Sample[bool]{Shrinkable: shr}
	}, false, true)
}

// Float64 generates floats in (-1e9, 1e9), shrinking toward zero by halving.
func Float64() generator.Generator[float64] {
	return generator.FromFunc(func(rs *rng.Source) generator.Sample[float64] {
		v := (rs.Float64()*2 - 1) * 1e9
		return generator.Sample[float64]{Shrinkable: shrinkFloat64(v)}
	}, 0, 1, -1)
}

func shrinkFloat64(v float64) generator.Shrinkable[float64] {
	return generator.Shrinkable[float64]{
		Value: v,
		Shrinks: func() []generator.Shrinkable[float64] {
			if v == 0 {
				return nil
			}
			out := []generator.Shrinkable[float64]{generator.Leaf(0.0)}
			if half := v / 2; half != v && half != 0 {
				out = append(out, shrinkFloat64(half))
			}
			if trunc := math.Trunc(v); trunc != v {
				out = append(out, shrinkFloat64(trunc))
			}
			return out
		},
	}
}

// OneConstOf generates one of the given constant values. Values shrink
// toward earlier constants in the argument list.
func OneConstOf[A any](values ...A) generator.Generator[A] {
	if len(values) == 0 {
		panic("gen.OneConstOf requires at least one value")
	}
	shrinkAt := func(i int) generator.Shrinkable[A] {
		return generator.MapTree(ShrinkInt64(int64(i), 0), func(j int64) A { return values[j] })
	}
	return generator.FromFunc(func(rs *rng.Source) generator.Sample[A] {
		i := rs.Intn(len(values))
		return generator.Sample[A]{Shrinkable: shrinkAt(i)}
	}, values[0])
}
