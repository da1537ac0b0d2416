package config

import "time"

// TestListener observes sample execution. BeforeTest fires before each
// sample is executed, AfterTest after it, regardless of outcome.
type TestListener interface {
	BeforeTest()
	AfterTest()
}

// NoopListener is a TestListener with empty hooks, convenient for
// embedding.
type NoopListener struct{}

// BeforeTest implements TestListener.
func (NoopListener) BeforeTest() {}

// AfterTest implements TestListener.
func (NoopListener) AfterTest() {}

// Verdict is the final outcome of a run.
type Verdict string

const (
	// VerdictPassed means the property held for every evaluated sample
	// and the final thresholds were met.
	VerdictPassed Verdict = "passed"

	// VerdictFailed means the property was falsified.
	VerdictFailed Verdict = "failed"
)

// Result summarizes one completed run for result hooks.
type Result struct {
	// Test is the property's test name.
	Test string

	// Verdict is the final outcome.
	Verdict Verdict

	// Seed is the top-level seed of the run.
	Seed int64

	// Stats holds the final counters.
	Stats Stats

	// Duration is the wall-clock duration of the run.
	Duration time.Duration
}
