package property

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomagicln/propcheck/pkg/config"
	"github.com/nomagicln/propcheck/pkg/gen"
)

// intSearch builds a single-argument search over the standard integer
// shrink tree, with the current candidate installed into *slot.
func intSearch(initial int64, slot *int64) []argSearch {
	*slot = initial
	return []argSearch{
		newShrinkState(gen.ShrinkInt64(initial, 0), func(v int64) { *slot = v }),
	}
}

func TestShrinkFindsMinimalCounterexample(t *testing.T) {
	// Failing iff |v| >= 2: the search must land on 2, not 0 or 1.
	var current int64
	eval := func() error {
		if current >= 2 || current <= -2 {
			return fmt.Errorf("too large: %d", current)
		}
		return nil
	}

	results := runShrinkSearch(config.Bounded(1000), intSearch(8, &current), eval)

	require.Len(t, results, 1)
	assert.Equal(t, int64(8), results[0].Initial)
	assert.Equal(t, int64(2), results[0].Shrunk)
	assert.True(t, results[0].Improved)
	require.Error(t, results[0].Cause)
	assert.Contains(t, results[0].Cause.Error(), "too large: 2")
}

func TestShrinkKeepsInitialWhenNothingSmallerFails(t *testing.T) {
	// Only the original value fails, so every candidate passes and the
	// frontier exhausts without improvement.
	var current int64
	eval := func() error {
		if current == 7 {
			return errors.New("exactly seven")
		}
		return nil
	}

	results := runShrinkSearch(config.Bounded(1000), intSearch(7, &current), eval)

	require.Len(t, results, 1)
	assert.Equal(t, int64(7), results[0].Initial)
	assert.Equal(t, int64(7), results[0].Shrunk)
	assert.False(t, results[0].Improved)
	assert.Nil(t, results[0].Cause)
}

func TestShrinkRespectsAttemptBound(t *testing.T) {
	var current int64
	evaluations := 0
	eval := func() error {
		evaluations++
		if current < 0 {
			return errors.New("negative")
		}
		return nil
	}

	runShrinkSearch(config.Bounded(5), intSearch(-1_000_000, &current), eval)

	assert.LessOrEqual(t, evaluations, 5)
}

func TestShrinkZeroBudgetDisablesShrinking(t *testing.T) {
	var current int64
	eval := func() error {
		return errors.New("always fails")
	}

	results := runShrinkSearch(config.Bounded(0), intSearch(100, &current), eval)

	require.Len(t, results, 1)
	assert.Equal(t, int64(100), results[0].Shrunk)
	assert.False(t, results[0].Improved)
}

func TestShrinkDiscardedCandidateIsSkipped(t *testing.T) {
	// Candidates rejected by an assumption count as passing: they must not
	// become the new best.
	var current int64
	eval := func() error {
		if current == 0 {
			return ErrAssumption
		}
		if current != 0 {
			return errors.New("nonzero fails")
		}
		return nil
	}

	results := runShrinkSearch(config.Bounded(1000), intSearch(8, &current), eval)

	require.Len(t, results, 1)
	assert.Equal(t, int64(1), results[0].Shrunk, "search must stop at 1, skipping the discarded 0")
}

func TestShrinkRoundRobinAcrossArguments(t *testing.T) {
	// Two arguments, each shrinkable: both must be minimized, neither
	// starving the other.
	var a, b int64
	a, b = 40, 60
	searches := []argSearch{
		newShrinkState(gen.ShrinkInt64(40, 0), func(v int64) { a = v }),
		newShrinkState(gen.ShrinkInt64(60, 0), func(v int64) { b = v }),
	}
	eval := func() error {
		if a+b >= 10 {
			return errors.New("sum too large")
		}
		return nil
	}

	results := runShrinkSearch(config.Bounded(1000), searches, eval)

	require.Len(t, results, 2)
	assert.True(t, results[0].Improved)
	assert.True(t, results[1].Improved)
	sum := results[0].Shrunk.(int64) + results[1].Shrunk.(int64)
	assert.GreaterOrEqual(t, sum, int64(10), "shrunk pair must still fail")
	assert.Less(t, sum, int64(100), "shrunk pair must be smaller than the original")
}

func TestShrinkSoundness(t *testing.T) {
	// For any failing predicate, the reported shrunk value re-run against
	// the predicate must still fail, or equal the initial value.
	predicates := []func(int64) bool{
		func(v int64) bool { return v > 5 },
		func(v int64) bool { return v%7 == 3 },
		func(v int64) bool { return v < -100 },
	}
	initials := []int64{1000, 38, -4096}

	for i, failing := range predicates {
		var current int64
		eval := func() error {
			if failing(current) {
				return errors.New("violation")
			}
			return nil
		}
		results := runShrinkSearch(config.Bounded(1000), intSearch(initials[i], &current), eval)
		require.Len(t, results, 1)

		r := results[0]
		if r.Improved {
			assert.True(t, failing(r.Shrunk.(int64)),
				"predicate %d: shrunk value %v no longer fails", i, r.Shrunk)
		} else {
			assert.Equal(t, r.Initial, r.Shrunk)
		}
	}
}
