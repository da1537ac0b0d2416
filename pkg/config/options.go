package config

import "io"

// Option adjusts a Config copy.
type Option func(*Config)

// With returns a copy of the config with the given options applied.
// The receiver is never mutated.
func (c Config) With(opts ...Option) Config {
	// Slices are replaced wholesale by options, never appended to, so a
	// shallow copy keeps the original immutable.
	out := c
	for _, opt := range opts {
		opt(&out)
	}
	return out
}

// WithIterations sets the sample ceiling.
func WithIterations(n int) Option {
	return func(c *Config) {
		c.Iterations = n
	}
}

// WithMinSuccess sets the minimum number of accepted successful
// evaluations.
func WithMinSuccess(n int) Option {
	return func(c *Config) {
		c.MinSuccess = n
	}
}

// WithMaxFailure sets the number of tolerated failures before raising.
func WithMaxFailure(n int) Option {
	return func(c *Config) {
		c.MaxFailure = n
	}
}

// WithShrinking sets the shrinking mode.
func WithShrinking(mode ShrinkingMode) Option {
	return func(c *Config) {
		c.Shrinking = mode
	}
}

// WithSeed pins the top-level seed.
func WithSeed(seed int64) Option {
	return func(c *Config) {
		c.Seed = &seed
	}
}

// WithListeners sets the per-sample listeners.
func WithListeners(listeners ...TestListener) Option {
	return func(c *Config) {
		c.Listeners = listeners
	}
}

// WithEdgeCaseProbability sets the edge case substitution probability.
func WithEdgeCaseProbability(p float64) Option {
	return func(c *Config) {
		c.EdgeCaseProbability = p
	}
}

// WithOutputClassifications toggles printing of the classification table.
func WithOutputClassifications(enabled bool) Option {
	return func(c *Config) {
		c.OutputClassifications = enabled
	}
}

// WithOutput redirects diagnostics and statistics.
func WithOutput(w io.Writer) Option {
	return func(c *Config) {
		c.Output = w
	}
}

// WithConstraint overrides the stopping predicate.
func WithConstraint(constraint Constraint) Option {
	return func(c *Config) {
		c.Constraint = constraint
	}
}

// WithResultHook registers a hook receiving the run summary.
func WithResultHook(hook func(Result)) Option {
	return func(c *Config) {
		hooks := make([]func(Result), len(c.ResultHooks), len(c.ResultHooks)+1)
		copy(hooks, c.ResultHooks)
		c.ResultHooks = append(hooks, hook)
	}
}

// WithMaxDiscardPercentage bounds the discard ratio for multi-argument
// properties.
func WithMaxDiscardPercentage(p int) Option {
	return func(c *Config) {
		c.MaxDiscardPercentage = p
	}
}

// WithFailOnSeed toggles the hygiene guard that fails any run with an
// active seed override.
func WithFailOnSeed(enabled bool) Option {
	return func(c *Config) {
		c.FailOnSeed = enabled
	}
}

// WithStackTrace sets the stack trace rendering mode.
func WithStackTrace(mode StackTraceMode) Option {
	return func(c *Config) {
		c.StackTrace = mode
	}
}
