// Package testutil provides test-only infrastructure for exercising the
// property engine: a recording TestingT and deterministic scripted
// generators.
package testutil

import (
	"fmt"

	"github.com/nomagicln/propcheck/pkg/gen"
	"github.com/nomagicln/propcheck/pkg/generator"
	"github.com/nomagicln/propcheck/pkg/rng"
)

// RecordingT implements property.TestingT and records what the engine
// raises instead of failing a real test.
type RecordingT struct {
	TestName     string
	Failed       bool
	FatalMessage string
	Logs         []string
}

// Name returns the configured test name, defaulting to "RecordingT".
func (r *RecordingT) Name() string {
	if r.TestName == "" {
		return "RecordingT"
	}
	return r.TestName
}

// Helper is a no-op.
func (r *RecordingT) Helper() {}

// Logf records a log line.
func (r *RecordingT) Logf(format string, args ...any) {
	r.Logs = append(r.Logs, fmt.Sprintf(format, args...))
}

// Fatalf records the failure. Unlike testing.T it returns, so the engine's
// callers must not rely on Fatalf never returning.
func (r *RecordingT) Fatalf(format string, args ...any) {
	r.Failed = true
	r.FatalMessage = fmt.Sprintf(format, args...)
}

// ScriptedInts returns a generator replaying the given values in order,
// cycling when exhausted. Values carry the standard integer shrink tree,
// so shrink behavior is exercised against a known script. The random
// source is ignored; scripted draws are deterministic by construction.
func ScriptedInts(values ...int) generator.Generator[int] {
	if len(values) == 0 {
		panic("testutil.ScriptedInts requires at least one value")
	}
	i := 0
	return generator.FromFunc(func(_ *rng.Source) generator.Sample[int] {
		v := values[i%len(values)]
		i++
		shr := generator.MapTree(gen.ShrinkInt64(int64(v), 0), func(x int64) int { return int(x) })
		return generator.Sample[int]{Shrinkable: shr}
	})
}

// ConstInt returns a generator always producing v, with no shrink tree.
func ConstInt(v int) generator.Generator[int] {
	return generator.FromFunc(func(_ *rng.Source) generator.Sample[int] {
		return generator.Sample[int]{Shrinkable: generator.Leaf(v)}
	})
}
