package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateDaily(t *testing.T) {
	la := losAngeles(t)
	cadence := Cadence{Kind: KindDaily, Location: la}
	midnight := time.Date(2024, 3, 5, 0, 0, 0, 0, la)

	t.Run("due today when last send was yesterday", func(t *testing.T) {
		book := Bookkeeping{
			LastSentAt:      time.Date(2024, 3, 4, 9, 0, 0, 0, la),
			LastWindowStart: time.Date(2024, 3, 4, 0, 0, 0, 0, la),
		}
		eval := Evaluate(cadence, book, time.Date(2024, 3, 5, 0, 30, 0, 0, la))
		assert.True(t, eval.ShouldSend)
		assert.Equal(t, midnight, eval.WindowStart)
	})

	t.Run("not due again late the same day", func(t *testing.T) {
		book := Bookkeeping{LastSentAt: time.Date(2024, 3, 5, 9, 0, 0, 0, la), LastWindowStart: midnight}
		eval := Evaluate(cadence, book, time.Date(2024, 3, 5, 23, 45, 0, 0, la))
		assert.False(t, eval.ShouldSend)
		assert.Equal(t, midnight, eval.WindowStart)
	})

	t.Run("first send ever is due", func(t *testing.T) {
		eval := Evaluate(cadence, Bookkeeping{}, time.Date(2024, 3, 5, 8, 0, 0, 0, la))
		assert.True(t, eval.ShouldSend)
	})
}

func TestEvaluateWeekly(t *testing.T) {
	la := losAngeles(t)
	cadence := Cadence{Kind: KindWeekly, Weekday: time.Tuesday, Location: la}
	tuesdayMidnight := time.Date(2024, 3, 5, 0, 0, 0, 0, la)

	t.Run("due on the target weekday", func(t *testing.T) {
		eval := Evaluate(cadence, Bookkeeping{}, time.Date(2024, 3, 5, 8, 0, 0, 0, la))
		assert.True(t, eval.ShouldSend)
		assert.Equal(t, tuesdayMidnight, eval.WindowStart)
	})

	t.Run("off-day still reports the week's window start", func(t *testing.T) {
		eval := Evaluate(cadence, Bookkeeping{}, time.Date(2024, 3, 4, 8, 0, 0, 0, la)) // Monday
		assert.False(t, eval.ShouldSend)
		assert.Equal(t, tuesdayMidnight, eval.WindowStart)
	})

	t.Run("already sent this window", func(t *testing.T) {
		book := Bookkeeping{LastWindowStart: tuesdayMidnight}
		eval := Evaluate(cadence, book, time.Date(2024, 3, 5, 20, 0, 0, 0, la))
		assert.False(t, eval.ShouldSend)
	})

	t.Run("due again the following week", func(t *testing.T) {
		book := Bookkeeping{LastWindowStart: tuesdayMidnight}
		eval := Evaluate(cadence, book, time.Date(2024, 3, 12, 8, 0, 0, 0, la))
		assert.True(t, eval.ShouldSend)
		assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, la), eval.WindowStart)
	})
}

func TestEvaluateWeeklyMulti(t *testing.T) {
	la := losAngeles(t)
	cadence := Cadence{Kind: KindWeeklyMulti, Weekdays: weekdaySetOf(time.Monday, time.Thursday), Location: la}

	t.Run("due on a configured day", func(t *testing.T) {
		eval := Evaluate(cadence, Bookkeeping{}, time.Date(2024, 3, 4, 10, 0, 0, 0, la)) // Monday
		assert.True(t, eval.ShouldSend)
		assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, la), eval.WindowStart)
	})

	t.Run("not due on an unconfigured day", func(t *testing.T) {
		eval := Evaluate(cadence, Bookkeeping{}, time.Date(2024, 3, 5, 10, 0, 0, 0, la)) // Tuesday
		assert.False(t, eval.ShouldSend)
	})

	t.Run("each configured day is its own window", func(t *testing.T) {
		monday := time.Date(2024, 3, 4, 0, 0, 0, 0, la)
		book := Bookkeeping{LastWindowStart: monday}
		// Sent Monday; Thursday of the same week is a fresh window.
		eval := Evaluate(cadence, book, time.Date(2024, 3, 7, 10, 0, 0, 0, la))
		assert.True(t, eval.ShouldSend)
		assert.Equal(t, time.Date(2024, 3, 7, 0, 0, 0, 0, la), eval.WindowStart)
	})
}

func TestEvaluateEveryNWeeks(t *testing.T) {
	la := losAngeles(t)
	cadence := Cadence{Kind: KindEveryNWeeks, Weekday: time.Tuesday, IntervalWeeks: 2, Location: la}

	week0 := time.Date(2024, 3, 5, 0, 0, 0, 0, la)  // Tuesday
	week1 := time.Date(2024, 3, 12, 0, 0, 0, 0, la) // Tuesday, +1 week (crosses DST start)
	week2 := time.Date(2024, 3, 19, 0, 0, 0, 0, la) // Tuesday, +2 weeks

	t.Run("first occurrence is always eligible", func(t *testing.T) {
		eval := Evaluate(cadence, Bookkeeping{}, week0.Add(8*time.Hour))
		assert.True(t, eval.ShouldSend)
		assert.Equal(t, week0, eval.WindowStart)
	})

	t.Run("not due one week after a send", func(t *testing.T) {
		book := Bookkeeping{LastWindowStart: week0}
		eval := Evaluate(cadence, book, week1.Add(8*time.Hour))
		assert.False(t, eval.ShouldSend)
	})

	t.Run("due two weeks after a send", func(t *testing.T) {
		book := Bookkeeping{LastWindowStart: week0}
		eval := Evaluate(cadence, book, week2.Add(8*time.Hour))
		assert.True(t, eval.ShouldSend)
		assert.Equal(t, week2, eval.WindowStart)
	})

	t.Run("gate closed on non-target weekdays", func(t *testing.T) {
		eval := Evaluate(cadence, Bookkeeping{}, time.Date(2024, 3, 6, 8, 0, 0, 0, la)) // Wednesday
		assert.False(t, eval.ShouldSend)
	})
}

func TestEvaluateMonthly(t *testing.T) {
	la := losAngeles(t)

	t.Run("clamps day 31 in a 30-day month", func(t *testing.T) {
		cadence := Cadence{Kind: KindMonthly, DayOfMonth: 31, Location: la}
		eval := Evaluate(cadence, Bookkeeping{}, time.Date(2024, 4, 30, 9, 0, 0, 0, la))
		assert.True(t, eval.ShouldSend)
		assert.Equal(t, time.Date(2024, 4, 30, 0, 0, 0, 0, la), eval.WindowStart)
	})

	t.Run("clamps day 31 in February", func(t *testing.T) {
		cadence := Cadence{Kind: KindMonthly, DayOfMonth: 31, Location: la}
		eval := Evaluate(cadence, Bookkeeping{}, time.Date(2025, 2, 28, 9, 0, 0, 0, la))
		assert.True(t, eval.ShouldSend)
		assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, la), eval.WindowStart)
	})

	t.Run("not due before the target day", func(t *testing.T) {
		cadence := Cadence{Kind: KindMonthly, DayOfMonth: 15, Location: la}
		eval := Evaluate(cadence, Bookkeeping{}, time.Date(2024, 3, 14, 9, 0, 0, 0, la))
		assert.False(t, eval.ShouldSend)
	})

	t.Run("not due after the target day passed unsent", func(t *testing.T) {
		cadence := Cadence{Kind: KindMonthly, DayOfMonth: 15, Location: la}
		eval := Evaluate(cadence, Bookkeeping{}, time.Date(2024, 3, 16, 9, 0, 0, 0, la))
		assert.False(t, eval.ShouldSend)
	})

	t.Run("next month is a new window", func(t *testing.T) {
		cadence := Cadence{Kind: KindMonthly, DayOfMonth: 15, Location: la}
		book := Bookkeeping{LastWindowStart: time.Date(2024, 3, 15, 0, 0, 0, 0, la)}
		eval := Evaluate(cadence, book, time.Date(2024, 4, 15, 9, 0, 0, 0, la))
		assert.True(t, eval.ShouldSend)
		assert.Equal(t, time.Date(2024, 4, 15, 0, 0, 0, 0, la), eval.WindowStart)
	})
}

// TestEvaluateIdempotence replays a window after a recorded send: no matter
// how often the job re-runs with a non-decreasing now, the vendor stays not
// due until the window itself changes.
func TestEvaluateIdempotence(t *testing.T) {
	la := losAngeles(t)

	cadences := map[string]Cadence{
		"daily":         {Kind: KindDaily, Location: la},
		"weekly":        {Kind: KindWeekly, Weekday: time.Tuesday, Location: la},
		"every-2-weeks": {Kind: KindEveryNWeeks, Weekday: time.Tuesday, IntervalWeeks: 2, Location: la},
		"monthly":       {Kind: KindMonthly, DayOfMonth: 5, Location: la},
	}

	for name, cadence := range cadences {
		t.Run(name, func(t *testing.T) {
			start := time.Date(2024, 3, 5, 6, 0, 0, 0, la) // Tuesday the 5th: every gate open
			first := Evaluate(cadence, Bookkeeping{}, start)
			require.True(t, first.ShouldSend)

			book := Bookkeeping{LastSentAt: start, LastWindowStart: first.WindowStart}
			for now := start; now.Before(start.Add(18 * time.Hour)); now = now.Add(37 * time.Minute) {
				eval := Evaluate(cadence, book, now)
				assert.False(t, eval.ShouldSend, "unexpected re-send at %s", now)
				assert.Equal(t, first.WindowStart, eval.WindowStart)
			}
		})
	}
}

// Timezone correctness: the same instant can be "Tuesday" in one zone and
// "Wednesday" in another; the vendor's zone decides.
func TestEvaluateUsesVendorTimezone(t *testing.T) {
	la := losAngeles(t)
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 2024-03-05 23:00 LA == 2024-03-06 16:00 Tokyo.
	now := time.Date(2024, 3, 5, 23, 0, 0, 0, la)

	evalLA := Evaluate(Cadence{Kind: KindWeekly, Weekday: time.Tuesday, Location: la}, Bookkeeping{}, now)
	assert.True(t, evalLA.ShouldSend)

	evalTokyo := Evaluate(Cadence{Kind: KindWeekly, Weekday: time.Tuesday, Location: tokyo}, Bookkeeping{}, now)
	assert.False(t, evalTokyo.ShouldSend, "already Wednesday in Tokyo")
}

func TestEvaluateNoneNeverDue(t *testing.T) {
	la := losAngeles(t)
	eval := Evaluate(Cadence{Kind: KindNone, Location: la}, Bookkeeping{}, time.Date(2024, 3, 5, 8, 0, 0, 0, la))
	assert.False(t, eval.ShouldSend)
	assert.True(t, eval.WindowStart.IsZero())
}
