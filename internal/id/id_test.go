package id

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	count := 1000

	for i := 0; i < count; i++ {
		id, err := Generate()
		require.NoError(t, err)
		assert.False(t, ids[id], "ID should be unique: %s", id)
		ids[id] = true
	}

	assert.Len(t, ids, count)
}

func TestGenerate_Format(t *testing.T) {
	fixed := time.UnixMilli(1_700_000_000_000)
	g := NewGeneratorWithClock(func() time.Time { return fixed })

	id, err := g.Generate()
	require.NoError(t, err)

	timePart := strconv.FormatInt(fixed.UnixMilli(), 36)
	assert.Equal(t, timePart, id[:len(timePart)])
	assert.Len(t, id, len(timePart)+SuffixLength)

	for _, char := range id {
		assert.True(t,
			(char >= 'a' && char <= 'z') || (char >= '0' && char <= '9'),
			"Character %c should be lowercase alphanumeric", char)
	}
}

func TestGenerate_TimeComponentStrictlyIncreases(t *testing.T) {
	// Clock stuck at one instant, then stepping backwards.
	times := []int64{5000, 5000, 5000, 4000}
	i := 0
	g := NewGeneratorWithClock(func() time.Time {
		ms := times[i]
		i++
		return time.UnixMilli(ms)
	})

	var prev int64
	for range times {
		id, err := g.Generate()
		require.NoError(t, err)

		ms, err := strconv.ParseInt(id[:len(id)-SuffixLength], 36, 64)
		require.NoError(t, err)
		assert.Greater(t, ms, prev)
		prev = ms
	}
}

func TestGenerate_Default(t *testing.T) {
	a, err := Generate()
	require.NoError(t, err)
	b, err := Generate()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "-")
}

func BenchmarkGenerate(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = Generate()
	}
}
