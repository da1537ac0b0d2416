package property

import (
	"fmt"
	"strings"

	"github.com/nomagicln/propcheck/pkg/config"
)

// truncatedStackLines is how many lines of a cause's stack trace the
// truncated mode prints.
const truncatedStackLines = 8

// renderValue formats an argument value for diagnostics. Strings are
// quoted so that whitespace-only counterexamples stay visible.
func renderValue(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", v)
}

// rootCause picks the authoritative cause: the first shrink result
// carrying its own cause, else the originally supplied one.
func rootCause(results []ShrinkResult, original error) error {
	for _, r := range results {
		if r.Cause != nil {
			return r.Cause
		}
	}
	return original
}

// renderFailure builds the terminal failure message. The text depends only
// on the run's samples, seed and cause, so two runs with the same seed and
// config produce byte-identical messages.
func renderFailure(attempts int, results []ShrinkResult, seed int64, cause error) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Property failed after %d attempts\n\n", attempts)
	for i, r := range results {
		fmt.Fprintf(&sb, "Arg %d: %s", i, renderValue(r.Shrunk))
		if r.Improved {
			fmt.Fprintf(&sb, " (shrunk from %s)", renderValue(r.Initial))
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "\nRepeat this test by using seed %d\n", seed)
	if cause != nil {
		fmt.Fprintf(&sb, "\nCaused by: %T: %v", cause, cause)
	}
	return sb.String()
}

// printViolationStat emits the one-line note for a violation that stays
// within the failure budget.
func printViolationStat(ctx *Context, cfg config.Config, cause error) {
	fmt.Fprintf(cfg.Output, "Violation %d of %d allowed: %v\n",
		ctx.Stats().Failures, cfg.MaxFailure, cause)
}

// printFailureDiagnostic emits the per-sample failure diagnostic: the
// failing inputs, any values generated inside the body, and the root cause
// with its stack trace per the configured mode.
func printFailureDiagnostic(ctx *Context, cfg config.Config, inputs []any, cause error) {
	w := cfg.Output

	fmt.Fprintf(w, "Property test failed for inputs\n\n")
	for i, v := range inputs {
		fmt.Fprintf(w, "%d) %s\n", i, renderValue(v))
	}
	if generated := ctx.GeneratedSamples(); len(generated) > 0 {
		fmt.Fprintf(w, "\nValues generated inside the property:\n")
		for _, g := range generated {
			fmt.Fprintf(w, "  %s\n", g)
		}
	}
	fmt.Fprintf(w, "\nCaused by: %T: %v\n", cause, cause)

	if v, ok := cause.(*violation); ok && cfg.StackTrace != config.StackTraceNone {
		fmt.Fprint(w, formatStack(v.stack, cfg.StackTrace))
	}
	fmt.Fprintln(w)
}

// formatStack renders a captured stack trace according to the mode.
func formatStack(stack []byte, mode config.StackTraceMode) string {
	if len(stack) == 0 {
		return ""
	}
	text := string(stack)
	if mode == config.StackTraceFull {
		return text
	}
	lines := strings.SplitN(text, "\n", truncatedStackLines+1)
	if len(lines) > truncatedStackLines {
		lines = lines[:truncatedStackLines]
		return strings.Join(lines, "\n") + "\n\t...\n"
	}
	return text
}
