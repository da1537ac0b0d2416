package property

import (
	"fmt"
	"runtime/debug"

	"github.com/nomagicln/propcheck/pkg/config"
	"github.com/nomagicln/propcheck/pkg/rng"
)

// execution bundles everything needed to run one sample: the drawn values,
// their classifiers, the body closure reading the installed argument
// slots, and the shrink search factory for those slots.
type execution struct {
	// inputs are the drawn argument values, for diagnostics.
	inputs []any

	// classifiers are parallel to inputs; nil entries mean the argument is
	// not classified. Each is pre-bound to its value and returns a label.
	classifiers []func() string

	// body runs the property against the currently installed arguments.
	body func() error

	// buildSearch creates the per-argument shrink searches.
	buildSearch func() []argSearch

	// contextualSeed seeds the per-sample random source, isolating
	// in-body randomness and shrink replays from the outer draw order.
	contextualSeed int64
}

// execute runs the property body once against one sample, classifies its
// inputs, and routes the outcome. A returned error is terminal: either a
// ConfigurationError or the minimized property failure.
func execute(ctx *Context, cfg config.Config, topSeed int64, ex execution) error {
	if len(ex.inputs) != len(ex.classifiers) {
		return &ConfigurationError{
			Reason: fmt.Sprintf("%d inputs with %d classifiers", len(ex.inputs), len(ex.classifiers)),
		}
	}

	ctx.MarkEvaluation()
	ctx.SetupContextual(rng.Seeded(ex.contextualSeed))

	for i, classify := range ex.classifiers {
		if classify != nil {
			ctx.Classify(classify(), renderValue(ex.inputs[i]))
		}
	}

	err := runProtected(ctx, ex.body)
	if err == nil {
		ctx.MarkSuccess()
		return nil
	}
	if isAssumption(err) {
		// Voluntary discard: neither success nor failure.
		return nil
	}

	ctx.MarkFailure()
	raising := ctx.Stats().Failures > cfg.MaxFailure
	if raising {
		printFailureDiagnostic(ctx, cfg, ex.inputs, err)
	} else {
		// Within the failure budget: note the violation and keep going.
		printViolationStat(ctx, cfg, err)
	}

	replay := func() error {
		ctx.SetupContextual(rng.Seeded(ex.contextualSeed))
		return runProtected(ctx, ex.body)
	}
	results := runShrinkSearch(cfg.Shrinking, ex.buildSearch(), replay)

	if raising {
		cause := rootCause(results, err)
		message := renderFailure(ctx.Stats().Evaluations, results, topSeed, cause)
		return newError(message, cause, results, topSeed)
	}
	return nil
}

// runProtected executes the before hook, the body, and the after hook,
// converting panics into errors. An Assume abort surfaces as
// ErrAssumption.
func runProtected(ctx *Context, body func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(assumptionAbort); ok {
				err = ErrAssumption
				return
			}
			err = &violation{value: r, stack: debug.Stack()}
		}
	}()

	if ctx.before != nil {
		ctx.before()
	}
	defer func() {
		if ctx.after != nil {
			ctx.after()
		}
	}()

	return body()
}
