// Package main is the entry point for the propcheck CLI.
// The CLI inspects what the engine leaves behind between runs: persisted
// failing seeds and the local run history database.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nomagicln/propcheck/pkg/history"
	"github.com/nomagicln/propcheck/pkg/seed"
)

// Build information, set via ldflags
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	passedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func init() {
	level := slog.LevelWarn
	if os.Getenv("PROPCHECK_DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05",
		}),
	))
}

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Execute runs the root command.
func Execute() error {
	rootCmd := &cobra.Command{
		Use:   "propcheck",
		Short: "propcheck - property testing engine companion",
		Long: `propcheck inspects the state the property testing engine persists
between runs:

  - Failing seeds, saved per test so re-runs replay the failure first
  - The run history database of recent verdicts

The engine itself runs inside 'go test'; this CLI only reads and
maintains its on-disk state.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(
		newSeedsCmd(),
		newHistoryCmd(),
	)

	return rootCmd.Execute()
}

// isTTY reports whether stdout is a terminal; styling is disabled otherwise.
func isTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func styled(style lipgloss.Style, s string) string {
	if !isTTY() {
		return s
	}
	return style.Render(s)
}

// newSeedsCmd creates the seeds subcommand group.
func newSeedsCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "seeds",
		Short: "Inspect and maintain persisted failing seeds",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "Seed cache directory (defaults to the engine's cache dir)")

	openCache := func() (*seed.Cache, error) {
		var opts []seed.Option
		if dir != "" {
			opts = append(opts, seed.WithDir(dir))
		}
		return seed.NewCache(opts...)
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List persisted failing seeds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := openCache()
			if err != nil {
				return fmt.Errorf("failed to open seed cache: %w", err)
			}
			entries, err := cache.List()
			if err != nil {
				return fmt.Errorf("failed to list seeds: %w", err)
			}

			if len(entries) == 0 {
				fmt.Println("No failing seeds recorded.")
				fmt.Println(styled(dimStyle, "Seeds are saved when a property fails and cleared when it passes again."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, styled(headerStyle, "TEST\tSEED\tRECORDED"))
			for _, e := range entries {
				_, _ = fmt.Fprintf(w, "%s\t%d\t%s\n", e.Test, e.Seed, e.RecordedAt.Local().Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear [test]",
		Short: "Clear the persisted seed for a test, or all seeds",
		Long: `Clear the persisted failing seed for one test, so the next run draws
a fresh seed instead of replaying the failure.

Example:
  propcheck seeds clear TestReverseRoundTrip
  propcheck seeds clear --all`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			if all == (len(args) == 1) {
				return fmt.Errorf("specify either a test name or --all")
			}

			cache, err := openCache()
			if err != nil {
				return fmt.Errorf("failed to open seed cache: %w", err)
			}

			if all {
				entries, err := cache.List()
				if err != nil {
					return fmt.Errorf("failed to list seeds: %w", err)
				}
				if err := cache.ClearAll(); err != nil {
					return fmt.Errorf("failed to clear seeds: %w", err)
				}
				fmt.Printf("Cleared %d seed(s).\n", len(entries))
				return nil
			}

			test := args[0]
			if _, ok, err := cache.Load(test); err != nil {
				return fmt.Errorf("failed to read seed entry: %w", err)
			} else if !ok {
				fmt.Printf("No seed recorded for '%s'.\n", test)
				return nil
			}
			if err := cache.Clear(test); err != nil {
				return fmt.Errorf("failed to clear seed: %w", err)
			}
			fmt.Printf("Cleared seed for '%s'.\n", test)
			return nil
		},
	}
	clearCmd.Flags().Bool("all", false, "Clear every recorded seed")

	cmd.AddCommand(listCmd, clearCmd)
	return cmd
}

// newHistoryCmd creates the history subcommand.
func newHistoryCmd() *cobra.Command {
	var (
		limit  int
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent property run verdicts",
		Long: `Show the most recent property runs recorded in the history database.

History is recorded only for runs configured with the history result
hook; see the history package documentation.

Example:
  propcheck history
  propcheck history --limit 50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := dbPath
			if path == "" {
				var err error
				path, err = history.DefaultPath()
				if err != nil {
					return err
				}
			}
			if _, err := os.Stat(path); os.IsNotExist(err) {
				fmt.Println("No run history recorded.")
				return nil
			}

			rec, err := history.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open history: %w", err)
			}
			defer func() {
				if cerr := rec.Close(); cerr != nil {
					slog.Warn("failed to close history database", "error", cerr)
				}
			}()

			runs, err := rec.Recent(limit)
			if err != nil {
				return fmt.Errorf("failed to read history: %w", err)
			}
			if len(runs) == 0 {
				fmt.Println("No run history recorded.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, styled(headerStyle, "TEST\tVERDICT\tSEED\tEVALS\tPASS\tFAIL\tDISCARD\tRECORDED"))
			for _, run := range runs {
				verdict := run.Verdict
				switch verdict {
				case "passed":
					verdict = styled(passedStyle, verdict)
				case "failed":
					verdict = styled(failedStyle, verdict)
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
					run.Test, verdict, run.Seed,
					run.Evaluations, run.Successes, run.Failures, run.Discards,
					run.RecordedAt.Local().Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")
	cmd.Flags().StringVar(&dbPath, "db", "", "History database path (defaults to the engine's cache dir)")

	return cmd
}
