package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomagicln/propcheck/pkg/config"
)

func openTestRecorder(t *testing.T) *Recorder {
	t.Helper()
	r, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRecordAndRecent(t *testing.T) {
	r := openTestRecorder(t)

	require.NoError(t, r.Record(config.Result{
		Test:     "TestFoo",
		Verdict:  config.VerdictPassed,
		Seed:     42,
		Stats:    config.Stats{Evaluations: 100, Successes: 95, Failures: 0},
		Duration: time.Second,
	}))
	require.NoError(t, r.Record(config.Result{
		Test:    "TestBar",
		Verdict: config.VerdictFailed,
		Seed:    7,
		Stats:   config.Stats{Evaluations: 10, Successes: 4, Failures: 1},
	}))

	runs, err := r.Recent(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, "TestBar", runs[0].Test)
	assert.Equal(t, "failed", runs[0].Verdict)
	assert.Equal(t, int64(7), runs[0].Seed)
	assert.Equal(t, 5, runs[0].Discards)

	assert.Equal(t, "TestFoo", runs[1].Test)
	assert.Equal(t, "passed", runs[1].Verdict)
	assert.Equal(t, 5, runs[1].Discards)
}

func TestRecentLimit(t *testing.T) {
	r := openTestRecorder(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, r.Record(config.Result{
			Test:    "TestFoo",
			Verdict: config.VerdictPassed,
			Seed:    int64(i),
		}))
	}

	runs, err := r.Recent(3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
	assert.Equal(t, int64(4), runs[0].Seed)
}

func TestRecentEmpty(t *testing.T) {
	r := openTestRecorder(t)

	runs, err := r.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestHookSwallowsErrors(t *testing.T) {
	r := openTestRecorder(t)
	require.NoError(t, r.Close())

	// Recording through the hook after close must not panic.
	hook := r.Hook()
	assert.NotPanics(t, func() {
		hook(config.Result{Test: "TestFoo", Verdict: config.VerdictPassed})
	})
}

func TestDefaultPathFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PROPCHECK_CACHE_DIR", dir)

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "history.db"), path)
}
