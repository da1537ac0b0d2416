package property

import (
	"fmt"
	"sort"

	"github.com/nomagicln/propcheck/pkg/config"
	"github.com/nomagicln/propcheck/pkg/rng"
)

// Context is the single mutable source of truth for one property run.
// It is created per invocation, mutated only from the run's goroutine, and
// discarded when the run ends.
type Context struct {
	name string
	cfg  config.Config

	evaluations int
	successes   int
	failures    int

	// classifications maps label -> rendered value -> count.
	classifications map[string]map[string]int

	// generated is the trace of values drawn inside the property body for
	// the current sample. Reset by SetupContextual.
	generated []string

	contextual *rng.Source

	before func()
	after  func()
}

// NewContext creates the run state for a named property.
func NewContext(name string, cfg config.Config) *Context {
	return &Context{
		name:            name,
		cfg:             cfg,
		classifications: make(map[string]map[string]int),
	}
}

// Name returns the property's test name.
func (c *Context) Name() string {
	return c.name
}

// MarkEvaluation records that a sample has been pulled for execution.
// Called exactly once per sample, before the body runs.
func (c *Context) MarkEvaluation() {
	c.evaluations++
}

// MarkSuccess records a successful evaluation.
func (c *Context) MarkSuccess() {
	c.successes++
}

// MarkFailure records a genuine property violation.
func (c *Context) MarkFailure() {
	c.failures++
}

// Stats returns a snapshot of the counters.
func (c *Context) Stats() config.Stats {
	return config.Stats{
		Evaluations: c.evaluations,
		Successes:   c.successes,
		Failures:    c.failures,
	}
}

// Classify increments the (label, value) bucket for distribution
// reporting. Classification is keyed by label; the same value may appear
// under several labels.
func (c *Context) Classify(label, value string) {
	bucket, ok := c.classifications[label]
	if !ok {
		bucket = make(map[string]int)
		c.classifications[label] = bucket
	}
	bucket[value]++
}

// SetupContextual resets the per-sample generated-value trace and installs
// the random source that in-body randomness and shrink replays draw from.
func (c *Context) SetupContextual(rs *rng.Source) {
	c.generated = nil
	c.contextual = rs
}

// Contextual returns the per-sample random source. It panics when called
// outside a running property.
func (c *Context) Contextual() *rng.Source {
	if c.contextual == nil {
		panic("propcheck: contextual random source accessed outside a property evaluation")
	}
	return c.contextual
}

// GeneratedSamples returns the values drawn inside the body for the
// current sample, in draw order.
func (c *Context) GeneratedSamples() []string {
	return c.generated
}

func (c *Context) recordGenerated(rendered string) {
	c.generated = append(c.generated, rendered)
}

// setHooks installs the per-evaluation hook slots.
func (c *Context) setHooks(before, after func()) {
	c.before = before
	c.after = after
}

// onSuccess runs the final acceptance checks once the generation loop ends
// without a terminal failure. A property whose assumptions filtered out
// nearly all samples fails here rather than passing on zero real
// evaluations.
func (c *Context) onSuccess(argCount int, rs *rng.Source) error {
	if c.cfg.OutputClassifications {
		fmt.Fprint(c.cfg.Output, c.renderClassifications())
	}

	attempts := c.successes + c.failures
	threshold := c.cfg.MinSuccess
	if c.cfg.Iterations < threshold {
		threshold = c.cfg.Iterations
	}
	if c.successes < threshold {
		return &ThresholdError{
			Reason: fmt.Sprintf("Property passed %d times (minSuccess rate was %d) after %d attempts",
				c.successes, threshold, attempts),
			Seed: rs.Seed(),
		}
	}

	if argCount > 1 && c.evaluations > 0 {
		discardPct := c.Stats().Discards() * 100 / c.evaluations
		if discardPct > c.cfg.MaxDiscardPercentage {
			return &ThresholdError{
				Reason: fmt.Sprintf("Property discarded %d%% of generated samples (maximum allowed: %d%%)",
					discardPct, c.cfg.MaxDiscardPercentage),
				Seed: rs.Seed(),
			}
		}
	}
	return nil
}

// Classifications returns the label -> value -> count buckets. The engine
// is single-threaded; callers must not retain the map past the run.
func (c *Context) Classifications() map[string]map[string]int {
	return c.classifications
}

// renderClassifications formats the classification table with a stable
// ordering. Each label line shows the label's total across all values; the
// per-value breakdown stays available through Classifications.
func (c *Context) renderClassifications() string {
	if len(c.classifications) == 0 {
		return ""
	}

	labels := make([]string, 0, len(c.classifications))
	for label := range c.classifications {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	out := fmt.Sprintf("Classifications (%d evaluations)\n", c.evaluations)
	for _, label := range labels {
		total := 0
		for _, count := range c.classifications[label] {
			total += count
		}
		out += fmt.Sprintf("  %s: %d (%.1f%%)\n", label, total,
			float64(total)*100/float64(c.evaluations))
	}
	return out
}
