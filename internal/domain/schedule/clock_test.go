package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func losAngeles(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	return loc
}

func TestLocalMidnight(t *testing.T) {
	la := losAngeles(t)

	t.Run("same local date", func(t *testing.T) {
		now := time.Date(2024, 3, 5, 23, 59, 0, 0, la)
		got := LocalMidnight(now, la)
		assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, la), got)
	})

	t.Run("instant from another zone resolves to local date", func(t *testing.T) {
		// 2024-03-06 02:00 UTC is still 2024-03-05 18:00 in Los Angeles.
		now := time.Date(2024, 3, 6, 2, 0, 0, 0, time.UTC)
		got := LocalMidnight(now, la)
		assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, la), got)
	})

	t.Run("spring-forward day", func(t *testing.T) {
		// DST starts 2024-03-10 02:00 in Los Angeles; the local day is 23h.
		now := time.Date(2024, 3, 10, 15, 0, 0, 0, la)
		got := LocalMidnight(now, la)
		assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, la), got)
		assert.Equal(t, 0, got.Hour())
	})
}

func TestWeekStart(t *testing.T) {
	la := losAngeles(t)

	// 2024-03-05 is a Tuesday; its week starts Sunday 2024-03-03.
	now := time.Date(2024, 3, 5, 8, 0, 0, 0, la)
	assert.Equal(t, time.Date(2024, 3, 3, 0, 0, 0, 0, la), WeekStart(now, la))

	// A Sunday is its own week start.
	sunday := time.Date(2024, 3, 3, 20, 0, 0, 0, la)
	assert.Equal(t, time.Date(2024, 3, 3, 0, 0, 0, 0, la), WeekStart(sunday, la))
}

func TestLastDayOfMonth(t *testing.T) {
	la := losAngeles(t)

	assert.Equal(t, 29, LastDayOfMonth(time.Date(2024, 2, 10, 0, 0, 0, 0, la), la))
	assert.Equal(t, 28, LastDayOfMonth(time.Date(2025, 2, 10, 0, 0, 0, 0, la), la))
	assert.Equal(t, 30, LastDayOfMonth(time.Date(2024, 4, 1, 0, 0, 0, 0, la), la))
	assert.Equal(t, 31, LastDayOfMonth(time.Date(2024, 12, 31, 23, 0, 0, 0, la), la))
}

func TestWeeksBetween(t *testing.T) {
	la := losAngeles(t)

	a := time.Date(2024, 3, 5, 0, 0, 0, 0, la)

	t.Run("exact weeks", func(t *testing.T) {
		b := time.Date(2024, 3, 19, 0, 0, 0, 0, la)
		// DST starts 2024-03-10, so b - a is 13d23h of absolute time but
		// still 14 calendar days.
		assert.Equal(t, 2, WeeksBetween(a, b, la))
	})

	t.Run("partial week rounds down", func(t *testing.T) {
		b := time.Date(2024, 3, 12, 0, 0, 0, 0, la)
		assert.Equal(t, 1, WeeksBetween(a, b, la))
		assert.Equal(t, 0, WeeksBetween(a, time.Date(2024, 3, 11, 0, 0, 0, 0, la), la))
	})

	t.Run("reversed order is negative", func(t *testing.T) {
		b := time.Date(2024, 2, 20, 0, 0, 0, 0, la)
		assert.Negative(t, WeeksBetween(a, b, la))
	})
}
