// Package property implements the core property testing engine: the
// generation loop, per-sample execution, shrink search, and failure
// reporting.
//
// The entry points are CheckAll and CheckAll2, invoked from inside a test:
//
//	func TestAbsIsNonNegative(t *testing.T) {
//		property.CheckAll(t, gen.Int(), func(ctx *property.Context, x int) error {
//			if abs(x) < 0 {
//				return fmt.Errorf("abs(%d) = %d", x, abs(x))
//			}
//			return nil
//		})
//	}
//
// A failing property raises through the enclosing test after minimizing
// the counterexample, and records its seed so the next run replays the
// failure first.
package property

import (
	"fmt"
	"time"

	"github.com/nomagicln/propcheck/pkg/config"
	"github.com/nomagicln/propcheck/pkg/generator"
	"github.com/nomagicln/propcheck/pkg/rng"
	"github.com/nomagicln/propcheck/pkg/seed"
)

// TestingT is the subset of testing.T the engine needs. A property failure
// propagates as the enclosing test's failure via Fatalf.
type TestingT interface {
	Name() string
	Helper()
	Logf(format string, args ...any)
	Fatalf(format string, args ...any)
}

// runner holds the per-run plumbing shared by the entry points.
type runner struct {
	t          TestingT
	cfg        config.Config
	ctx        *Context
	top        *rng.Source
	secondary  *rng.Source
	cache      *seed.Cache
	constraint config.Constraint
	start      time.Time
}

// newRunner validates the fail-on-seed policy, resolves the seed, and
// builds the run state.
func newRunner(t TestingT, cfg config.Config) (*runner, error) {
	if cfg.FailOnSeed && cfg.Seed != nil {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("a fixed seed override (%d) is active while fail-on-seed is set", *cfg.Seed),
		}
	}

	cache, err := seed.NewCache()
	if err != nil {
		t.Logf("propcheck: seed cache unavailable: %v", err)
		cache = nil
	}

	resolved, err := resolveSeed(t.Name(), cfg, cache)
	if err != nil {
		return nil, err
	}

	ctx := NewContext(t.Name(), cfg)

	constraint := cfg.Constraint
	if constraint == nil {
		constraint = config.Iterations(cfg.Iterations)
	}

	return &runner{
		t:          t,
		cfg:        cfg,
		ctx:        ctx,
		top:        rng.Seeded(resolved),
		secondary:  rng.Seeded(resolved),
		cache:      cache,
		constraint: constraint,
		start:      time.Now(),
	}, nil
}

// resolveSeed picks the top-level seed: an explicit config value wins,
// then a previously recorded failing seed, then a fresh random one.
func resolveSeed(test string, cfg config.Config, cache *seed.Cache) (int64, error) {
	if cfg.Seed != nil {
		return *cfg.Seed, nil
	}
	if cache != nil {
		if cached, ok, err := cache.Load(test); err == nil && ok {
			return cached, nil
		}
	}
	fresh, err := rng.Fresh()
	if err != nil {
		return 0, err
	}
	return fresh.Seed(), nil
}

// finish persists or clears the seed, fires result hooks, and raises the
// failure through the enclosing test if there is one.
func (r *runner) finish(runErr error) {
	r.t.Helper()

	verdict := config.VerdictPassed
	if runErr != nil {
		verdict = config.VerdictFailed
	}

	if r.cache != nil {
		if runErr != nil {
			if err := r.cache.Save(r.t.Name(), r.top.Seed()); err != nil {
				r.t.Logf("propcheck: failed to record seed: %v", err)
			}
		} else {
			if err := r.cache.Clear(r.t.Name()); err != nil {
				r.t.Logf("propcheck: failed to clear seed: %v", err)
			}
		}
	}

	result := config.Result{
		Test:     r.t.Name(),
		Verdict:  verdict,
		Seed:     r.top.Seed(),
		Stats:    r.ctx.Stats(),
		Duration: time.Since(r.start),
	}
	for _, hook := range r.cfg.ResultHooks {
		hook(result)
	}

	if runErr != nil {
		r.t.Fatalf("%v", runErr)
	}
}

// fireBefore and fireAfter notify listeners once per pulled sample. Shrink
// replays of the same sample do not re-fire them.
func (r *runner) fireBefore() {
	for _, l := range r.cfg.Listeners {
		l.BeforeTest()
	}
}

func (r *runner) fireAfter() {
	for _, l := range r.cfg.Listeners {
		l.AfterTest()
	}
}

// drawSample pulls the next sample, substituting a known edge case for the
// random draw with the configured probability. Substituted edge cases
// carry no shrink tree; they are already minimal by construction.
func drawSample[A any](g generator.Generator[A], rs *rng.Source, cfg config.Config) generator.Sample[A] {
	if edges := g.Edgecases(); len(edges) > 0 && cfg.EdgeCaseProbability > 0 {
		if rs.Float64() < cfg.EdgeCaseProbability {
			return generator.Sample[A]{Shrinkable: generator.Leaf(edges[rs.Intn(len(edges))])}
		}
	}
	return g.Sample(rs)
}

// classifierFor binds a sample's classifier to its drawn value.
func classifierFor[A any](s generator.Sample[A]) func() string {
	if s.Classifier == nil {
		return nil
	}
	value := s.Value
	classify := s.Classifier
	return func() string {
		return classify(value)
	}
}

// CheckAll runs the property against samples from a single generator until
// the stopping constraint is met or the failure budget is exceeded.
func CheckAll[A any](t TestingT, g generator.Generator[A], body func(*Context, A) error, opts ...config.Option) {
	t.Helper()
	cfg := config.Defaults().With(opts...)

	r, err := newRunner(t, cfg)
	if err != nil {
		t.Fatalf("%v", err)
		return
	}

	var current A
	runErr := func() error {
		for r.constraint(r.ctx.Stats()) {
			s := drawSample(g, r.top, cfg)
			contextualSeed := r.secondary.Int63()
			current = s.Value

			ex := execution{
				inputs:      []any{s.Value},
				classifiers: []func() string{classifierFor(s)},
				body: func() error {
					return body(r.ctx, current)
				},
				buildSearch: func() []argSearch {
					return []argSearch{
						newShrinkState(s.Shrinkable, func(v A) { current = v }),
					}
				},
				contextualSeed: contextualSeed,
			}
			r.fireBefore()
			err := execute(r.ctx, cfg, r.top.Seed(), ex)
			r.fireAfter()
			if err != nil {
				return err
			}
		}
		return r.ctx.onSuccess(1, r.top)
	}()
	r.finish(runErr)
}

// CheckAll2 runs the property against pairs of samples from two
// independent generators. The arguments shrink independently, round-robin,
// against the same per-sample contextual seed.
func CheckAll2[A, B any](t TestingT, ga generator.Generator[A], gb generator.Generator[B], body func(*Context, A, B) error, opts ...config.Option) {
	t.Helper()
	cfg := config.Defaults().With(opts...)

	r, err := newRunner(t, cfg)
	if err != nil {
		t.Fatalf("%v", err)
		return
	}

	var currentA A
	var currentB B
	runErr := func() error {
		for r.constraint(r.ctx.Stats()) {
			sa := drawSample(ga, r.top, cfg)
			sb := drawSample(gb, r.top, cfg)
			contextualSeed := r.secondary.Int63()
			currentA = sa.Value
			currentB = sb.Value

			ex := execution{
				inputs:      []any{sa.Value, sb.Value},
				classifiers: []func() string{classifierFor(sa), classifierFor(sb)},
				body: func() error {
					return body(r.ctx, currentA, currentB)
				},
				buildSearch: func() []argSearch {
					return []argSearch{
						newShrinkState(sa.Shrinkable, func(v A) { currentA = v }),
						newShrinkState(sb.Shrinkable, func(v B) { currentB = v }),
					}
				},
				contextualSeed: contextualSeed,
			}
			r.fireBefore()
			err := execute(r.ctx, cfg, r.top.Seed(), ex)
			r.fireAfter()
			if err != nil {
				return err
			}
		}
		return r.ctx.onSuccess(2, r.top)
	}()
	r.finish(runErr)
}

// Draw generates a value inside a property body from the contextual random
// source, so in-body randomness replays deterministically during shrinking.
// The drawn value is recorded and included in failure diagnostics.
func Draw[A any](ctx *Context, g generator.Generator[A]) A {
	s := g.Sample(ctx.Contextual())
	ctx.recordGenerated(renderValue(s.Value))
	return s.Value
}
