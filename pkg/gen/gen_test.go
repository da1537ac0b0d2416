package gen

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomagicln/propcheck/pkg/generator"
	"github.com/nomagicln/propcheck/pkg/rng"
)

func childValues[A any](s generator.Shrinkable[A]) []A {
	children := s.Children()
	var out []A
	for _, c := range children {
		out = append(out, c.Value)
	}
	return out
}

func TestShrinkInt64Candidates(t *testing.T) {
	tests := []struct {
		name   string
		v      int64
		origin int64
		want   []int64
	}{
		{"positive", 8, 0, []int64{0, 4, 7}},
		{"negative", -3, 0, []int64{0, -1, -2}},
		{"adjacent to origin", 1, 0, []int64{0}},
		{"negative adjacent", -1, 0, []int64{0}},
		{"at origin", 0, 0, nil},
		{"nonzero origin", 10, 5, []int64{5, 7, 9}},
		{"origin above value", -10, -5, []int64{-5, -7, -9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, childValues(ShrinkInt64(tt.v, tt.origin)))
		})
	}
}

func TestShrinkInt64CandidatesShrinkFurther(t *testing.T) {
	children := ShrinkInt64(8, 0).Children()
	require.Len(t, children, 3)
	assert.Equal(t, []int64{0, 2, 3}, childValues(children[1]))
}

func TestInt64Edgecases(t *testing.T) {
	assert.Equal(t, []int64{0, 1, -1, math.MaxInt64, math.MinInt64}, Int64().Edgecases())
}

func TestInt64SamplesShrinkTowardZero(t *testing.T) {
	s := Int64().Sample(rng.Seeded(7))
	for _, c := range s.Children() {
		if s.Value > 0 {
			assert.GreaterOrEqual(t, c.Value, int64(0))
			assert.Less(t, c.Value, s.Value)
		} else {
			assert.LessOrEqual(t, c.Value, int64(0))
			assert.Greater(t, c.Value, s.Value)
		}
	}
}

func TestIntRangeBounds(t *testing.T) {
	g := IntRange(-5, 17)
	rs := rng.Seeded(99)
	for i := 0; i < 500; i++ {
		v := g.Sample(rs).Value
		assert.GreaterOrEqual(t, v, -5)
		assert.LessOrEqual(t, v, 17)
	}
}

func TestIntRangeWideRanges(t *testing.T) {
	// Ranges wider than int64 must not overflow the width computation.
	tests := []struct {
		name     string
		min, max int
	}{
		{"zero to max int", 0, math.MaxInt},
		{"full int range", math.MinInt, math.MaxInt},
		{"min int to zero", math.MinInt, 0},
		{"almost full range", math.MinInt + 1, math.MaxInt - 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := IntRange(tt.min, tt.max)
			rs := rng.Seeded(1)
			for i := 0; i < 500; i++ {
				v := g.Sample(rs).Value
				assert.GreaterOrEqual(t, v, tt.min)
				assert.LessOrEqual(t, v, tt.max)
			}
		})
	}
}

func TestIntRangeSwapsReversedBounds(t *testing.T) {
	g := IntRange(10, 3)
	rs := rng.Seeded(1)
	for i := 0; i < 100; i++ {
		v := g.Sample(rs).Value
		assert.GreaterOrEqual(t, v, 3)
		assert.LessOrEqual(t, v, 10)
	}
}

func TestIntRangeOriginClampedIntoRange(t *testing.T) {
	tests := []struct {
		min, max, origin int
	}{
		{5, 10, 5},
		{-10, -5, -5},
		{-5, 10, 0},
	}
	for _, tt := range tests {
		g := IntRange(tt.min, tt.max)
		assert.Equal(t, []int{tt.min, tt.max, tt.origin}, g.Edgecases())

		// Shrink candidates never leave the range.
		s := g.Sample(rng.Seeded(3))
		for _, c := range s.Children() {
			assert.GreaterOrEqual(t, c.Value, tt.min)
			assert.LessOrEqual(t, c.Value, tt.max)
		}
	}
}

func TestBoolShrinksTrueToFalse(t *testing.T) {
	g := Bool()
	rs := rng.Seeded(11)
	sawTrue, sawFalse := false, false
	for i := 0; i < 100; i++ {
		s := g.Sample(rs)
		if s.Value {
			sawTrue = true
			assert.Equal(t, []bool{false}, childValues(s.Shrinkable))
		} else {
			sawFalse = true
			assert.Empty(t, s.Children())
		}
	}
	assert.True(t, sawTrue)
	assert.True(t, sawFalse)
	assert.Equal(t, []bool{false, true}, g.Edgecases())
}

func TestFloat64BoundsAndShrink(t *testing.T) {
	g := Float64()
	rs := rng.Seeded(5)
	for i := 0; i < 200; i++ {
		s := g.Sample(rs)
		assert.Less(t, math.Abs(s.Value), 1e9)
		for _, c := range s.Children() {
			assert.LessOrEqual(t, math.Abs(c.Value), math.Abs(s.Value))
		}
	}
}

func TestShrinkFloat64Candidates(t *testing.T) {
	assert.Equal(t, []float64{0, 3.25, 6}, childValues(shrinkFloat64(6.5)))
	assert.Equal(t, []float64{0, 2}, childValues(shrinkFloat64(4)))
	assert.Empty(t, shrinkFloat64(0).Children())
}

func TestOneConstOf(t *testing.T) {
	g := OneConstOf("red", "green", "blue")
	rs := rng.Seeded(2)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		seen[g.Sample(rs).Value] = true
	}
	assert.Equal(t, map[string]bool{"red": true, "green": true, "blue": true}, seen)
	assert.Equal(t, []string{"red"}, g.Edgecases())
}

func TestOneConstOfShrinksTowardEarlierConstants(t *testing.T) {
	g := OneConstOf("red", "green", "blue")
	rs := rng.Seeded(2)
	for i := 0; i < 100; i++ {
		s := g.Sample(rs)
		if s.Value == "blue" {
			assert.Equal(t, []string{"red", "green"}, childValues(s.Shrinkable))
			return
		}
	}
	t.Fatal("never sampled the last constant")
}

func TestOneConstOfPanicsOnEmpty(t *testing.T) {
	assert.Panics(t, func() { OneConstOf[int]() })
}
