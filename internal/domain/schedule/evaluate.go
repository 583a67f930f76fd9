// internal/domain/schedule/evaluate.go
package schedule

import "time"

// Bookkeeping carries the per-vendor send history the evaluator deduplicates
// against. Zero times mean "never sent".
type Bookkeeping struct {
	LastSentAt      time.Time
	LastWindowStart time.Time
}

// Evaluation is the verdict for one vendor at one instant. WindowStart is
// the canonical local-midnight instant anchoring the current eligibility
// period; it is reported even when ShouldSend is false (a single-day weekly
// cadence evaluated on an off-day still names that week's target date), and
// is zero only for KindNone.
type Evaluation struct {
	ShouldSend  bool
	WindowStart time.Time
}

// Evaluate decides whether a vendor with the given cadence is due now.
//
// Every variant reduces to a canonical window start plus a calendar gate:
//
//	due = gate && now >= windowStart && lastWindowStart != windowStart
//
// The windowStart comparison is what makes re-evaluation idempotent: once a
// send is recorded for a window, every later call inside the same window
// sees the stored window start match and yields false, no matter how often
// the job runs.
func Evaluate(c Cadence, book Bookkeeping, now time.Time) Evaluation {
	loc := c.Location
	if loc == nil {
		loc, _ = time.LoadLocation(DefaultTimeZone)
	}

	var windowStart time.Time
	gate := false

	switch c.Kind {
	case KindDaily:
		windowStart = LocalMidnight(now, loc)
		gate = true

	case KindWeekly:
		windowStart = WeekStart(now, loc).AddDate(0, 0, int(c.Weekday))
		gate = now.In(loc).Weekday() == c.Weekday

	case KindWeeklyMulti:
		windowStart = LocalMidnight(now, loc)
		gate = c.Weekdays.Has(now.In(loc).Weekday())

	case KindEveryNWeeks:
		windowStart = WeekStart(now, loc).AddDate(0, 0, int(c.Weekday))
		interval := c.IntervalWeeks
		if interval < 1 {
			interval = DefaultWeekInterval
		}
		gate = now.In(loc).Weekday() == c.Weekday
		// A vendor with no prior send is eligible on the first occurrence;
		// afterwards at least interval whole weeks must separate windows.
		if gate && !book.LastWindowStart.IsZero() {
			gate = WeeksBetween(book.LastWindowStart, windowStart, loc) >= interval
		}

	case KindMonthly:
		// Day-of-month clamps to the last real day of the month: day 31 in
		// February fires on Feb 28/29, never rolls into March.
		target := clampDayOfMonth(c.DayOfMonth)
		if last := LastDayOfMonth(now, loc); target > last {
			target = last
		}
		lt := now.In(loc)
		windowStart = time.Date(lt.Year(), lt.Month(), target, 0, 0, 0, 0, loc)
		gate = lt.Day() == target

	default:
		return Evaluation{}
	}

	due := gate &&
		!now.Before(windowStart) &&
		!(sameInstant(book.LastWindowStart, windowStart))

	return Evaluation{ShouldSend: due, WindowStart: windowStart}
}

func sameInstant(a, b time.Time) bool {
	return !a.IsZero() && a.Equal(b)
}
