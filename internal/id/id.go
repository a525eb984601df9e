// Package id generates post identifiers.
package id

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// suffixAlphabet keeps ids lowercase alphanumeric so they embed cleanly in a
// "post-<id>" URL fragment.
const suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// SuffixLength is the number of random characters appended to the time component.
const SuffixLength = 6

// Generator produces ids of the form base36(millis) + random suffix.
// The time component is strictly increasing for the lifetime of the generator,
// even when the wall clock stalls or steps backwards.
type Generator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewGenerator creates a Generator using the wall clock.
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// NewGeneratorWithClock creates a Generator reading time from now. Used in tests.
func NewGeneratorWithClock(now func() time.Time) *Generator {
	return &Generator{now: now}
}

// Generate returns a fresh id.
// Returns an error if the system has insufficient entropy for the random suffix.
func (g *Generator) Generate() (string, error) {
	g.mu.Lock()
	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	g.mu.Unlock()

	suffix, err := gonanoid.Generate(suffixAlphabet, SuffixLength)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return strconv.FormatInt(ms, 36) + suffix, nil
}

var defaultGenerator = NewGenerator()

// Generate creates an id with the process-wide generator.
func Generate() (string, error) {
	return defaultGenerator.Generate()
}

