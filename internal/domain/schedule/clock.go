// internal/domain/schedule/clock.go
package schedule

import "time"

// DefaultTimeZone is applied when a vendor's cadence carries no timezone of
// its own. The business runs on Pacific time.
const DefaultTimeZone = "America/Los_Angeles"

// LocalMidnight returns the instant of 00:00:00 local wall-clock on the same
// local calendar date as t in loc. time.Date resolves DST transitions per the
// location's rules, so no offset arithmetic is done here.
func LocalMidnight(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// WeekStart returns local midnight of the Sunday that starts the local week
// containing t.
func WeekStart(t time.Time, loc *time.Location) time.Time {
	midnight := LocalMidnight(t, loc)
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}

// LastDayOfMonth returns the number of days in the local month containing t.
func LastDayOfMonth(t time.Time, loc *time.Location) int {
	lt := t.In(loc)
	firstOfNext := time.Date(lt.Year(), lt.Month()+1, 1, 0, 0, 0, 0, loc)
	return firstOfNext.AddDate(0, 0, -1).Day()
}

// civilDay maps an instant to a day count on the local calendar, so that
// distances between calendar dates are unaffected by DST (where a local day
// can be 23 or 25 hours long).
func civilDay(t time.Time, loc *time.Location) int {
	y, m, d := t.In(loc).Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// WeeksBetween returns the number of whole weeks from a to b on the local
// calendar of loc. Negative if b precedes a.
func WeeksBetween(a, b time.Time, loc *time.Location) int {
	return (civilDay(b, loc) - civilDay(a, loc)) / 7
}
