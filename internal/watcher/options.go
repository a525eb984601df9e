package watcher

import (
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Options configures the file watcher behavior.
type Options struct {
	IgnorePatterns []string
	SettleDelay    time.Duration
	IgnoreHidden   bool

	// Extensions, when non-empty, limits events to files with one of these
	// extensions (".json"). Matching is case-insensitive.
	Extensions []string
}

// setDefaults applies default values to unset options.
func (o *Options) setDefaults() {
	if o.SettleDelay == 0 {
		o.SettleDelay = 100 * time.Millisecond
	}

	// Set default ignore patterns if none specified (nil, not just empty).
	if o.IgnorePatterns == nil {
		o.IgnorePatterns = []string{
			".DS_Store",
			"*.tmp",
			"*.temp",
			"*.part",
			"Thumbs.db",
		}
		// If patterns were explicitly set (even to empty slice), respect user's IgnoreHidden choice.
		o.IgnoreHidden = true
	}
}

// shouldIgnore checks if a path matches ignore patterns.
func (o *Options) shouldIgnore(path string) bool {
	base := filepath.Base(path)

	if o.IgnoreHidden && strings.HasPrefix(base, ".") && base != "." && base != ".." {
		return true
	}

	for _, pattern := range o.IgnorePatterns {
		matched, err := filepath.Match(pattern, base)
		if err == nil && matched {
			return true
		}
	}

	if len(o.Extensions) > 0 {
		ext := strings.ToLower(filepath.Ext(base))
		if !slices.ContainsFunc(o.Extensions, func(e string) bool { return strings.ToLower(e) == ext }) {
			return true
		}
	}

	return false
}
