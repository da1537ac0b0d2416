// Package seed persists failing seeds so that re-runs retry them first.
//
// The engine writes one entry per test name when a property fails and
// removes it again once the property passes. A re-run of a failing test
// therefore replays the exact failing sequence before trying new ones.
package seed

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Entry is the persisted record for one failing test.
type Entry struct {
	// Test is the full test name the seed belongs to.
	Test string `json:"test"`

	// Seed is the top-level seed of the failing run.
	Seed int64 `json:"seed"`

	// RecordedAt is when the failure was recorded.
	RecordedAt time.Time `json:"recorded_at"`
}

// Cache stores seed entries under a base directory, one JSON file per test.
type Cache struct {
	baseDir string
}

// Option configures a Cache.
type Option func(*Cache)

// WithDir overrides the cache directory. Used by tests and the CLI.
func WithDir(dir string) Option {
	return func(c *Cache) {
		c.baseDir = dir
	}
}

// NewCache creates a seed cache rooted at the default directory:
// $PROPCHECK_CACHE_DIR if set, otherwise the user cache dir.
func NewCache(opts ...Option) (*Cache, error) {
	c := &Cache{}
	for _, opt := range opts {
		opt(c)
	}
	if c.baseDir == "" {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		c.baseDir = dir
	}
	return c, nil
}

// defaultDir resolves the seed cache directory.
func defaultDir() (string, error) {
	if dir := os.Getenv("PROPCHECK_CACHE_DIR"); dir != "" {
		return filepath.Join(dir, "seeds"), nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user cache dir: %w", err)
	}
	return filepath.Join(base, "propcheck", "seeds"), nil
}

// Dir returns the directory entries are stored in.
func (c *Cache) Dir() string {
	return c.baseDir
}

// entryPath returns the file path for a test name. Test names may contain
// path separators and other hostile characters, so the file name is the
// SHA-256 hex of the name.
func (c *Cache) entryPath(test string) string {
	sum := sha256.Sum256([]byte(test))
	return filepath.Join(c.baseDir, hex.EncodeToString(sum[:])+".json")
}

// Save records the failing seed for a test, overwriting any previous entry.
func (c *Cache) Save(test string, seed int64) error {
	if err := os.MkdirAll(c.baseDir, 0o755); err != nil {
		return fmt.Errorf("failed to create seed cache dir: %w", err)
	}
	entry := Entry{
		Test:       test,
		Seed:       seed,
		RecordedAt: time.Now().UTC(),
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode seed entry: %w", err)
	}
	if err := os.WriteFile(c.entryPath(test), data, 0o644); err != nil {
		return fmt.Errorf("failed to write seed entry: %w", err)
	}
	return nil
}

// Load returns the recorded seed for a test. The boolean reports whether
// an entry exists; a missing entry is not an error.
func (c *Cache) Load(test string) (int64, bool, error) {
	data, err := os.ReadFile(c.entryPath(test))
	if errors.Is(err, fs.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read seed entry: %w", err)
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		// A corrupt entry is treated as absent rather than wedging the
		// test forever; the next failure rewrites it.
		return 0, false, nil
	}
	return entry.Seed, true, nil
}

// Clear removes the entry for a test. Clearing a missing entry is a no-op.
func (c *Cache) Clear(test string) error {
	err := os.Remove(c.entryPath(test))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear seed entry: %w", err)
	}
	return nil
}

// List returns all recorded entries sorted by test name.
func (c *Cache) List() ([]Entry, error) {
	files, err := os.ReadDir(c.baseDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read seed cache dir: %w", err)
	}

	var entries []Entry
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(c.baseDir, f.Name()))
		if err != nil {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Test < entries[j].Test
	})
	return entries, nil
}

// ClearAll removes every recorded entry.
func (c *Cache) ClearAll() error {
	entries, err := c.List()
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := c.Clear(entry.Test); err != nil {
			return err
		}
	}
	return nil
}
