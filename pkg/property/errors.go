package property

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// ErrAssumption signals a voluntary discard: the sample does not satisfy
// the property's preconditions and counts as neither success nor failure.
// Return it (or an error wrapping it) from the property body, or use
// Assume for an early abort.
var ErrAssumption = errors.New("assumption failed")

// assumptionAbort is the panic payload used by Assume.
type assumptionAbort struct{}

// Assume aborts the current evaluation as a discard when cond is false.
// It must only be called from inside a property body.
func Assume(cond bool) {
	if !cond {
		panic(assumptionAbort{})
	}
}

// AssumeThat is Assume with a deferred condition, for checks that are
// expensive or only valid to evaluate lazily.
func AssumeThat(cond func() bool) {
	Assume(cond())
}

// ConfigurationError reports an invalid engine setup, such as mismatched
// input and classifier counts or a forbidden seed override. It is raised
// immediately and never shrunk.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "property configuration error: " + e.Reason
}

// ThresholdError reports a run that finished its generation loop but failed
// a final acceptance check: too few successes, or too many discards.
type ThresholdError struct {
	// Reason is the human-readable check description.
	Reason string

	// Seed replays the run.
	Seed int64
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf("%s. Repeat this test by using seed %d", e.Reason, e.Seed)
}

// violation wraps a panic recovered from the property body, keeping the
// stack trace of the panicking goroutine for diagnostics.
type violation struct {
	value any
	stack []byte
}

func (v *violation) Error() string {
	return fmt.Sprintf("panic: %v", v.value)
}

// Error is the terminal failure of a property run. Its message is fully
// rendered at construction time so that formatting can never fail while
// the failure is being raised.
type Error struct {
	// Message is the deterministic diagnostic text.
	Message string

	// Cause is the authoritative root cause: the cause of the minimized
	// reproduction when the shrunk value itself failed, otherwise the
	// cause of the original failing run.
	Cause error

	// Shrinks holds one result per property argument.
	Shrinks []ShrinkResult

	// Seed replays the run exactly.
	Seed int64

	stack []byte
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// newError builds the terminal failure. Stack capture is guarded so that
// constructing the error can itself never panic.
func newError(message string, cause error, shrinks []ShrinkResult, seed int64) *Error {
	e := &Error{
		Message: message,
		Cause:   cause,
		Shrinks: shrinks,
		Seed:    seed,
	}
	func() {
		defer func() {
			_ = recover()
		}()
		e.stack = debug.Stack()
	}()
	return e
}

// isAssumption reports whether err marks a discarded sample.
func isAssumption(err error) bool {
	return errors.Is(err, ErrAssumption)
}
