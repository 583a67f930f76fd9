// internal/domain/schedule/cadence.go
package schedule

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind discriminates the canonical cadence variants.
type Kind string

const (
	// KindNone is the defensive fallback for unrecognizable cadence data;
	// it always evaluates to "not due".
	KindNone        Kind = "NONE"
	KindDaily       Kind = "DAILY"
	KindWeekly      Kind = "WEEKLY"
	KindWeeklyMulti Kind = "WEEKLY_MULTI"
	KindEveryNWeeks Kind = "EVERY_N_WEEKS"
	KindMonthly     Kind = "MONTHLY"
)

// DefaultWeekInterval is used for every-N-weeks cadences whose interval is
// absent or non-positive.
const DefaultWeekInterval = 2

// WeekdaySet is a bitmask of weekdays (bit 0 = Sunday).
type WeekdaySet uint8

func (s WeekdaySet) Has(d time.Weekday) bool { return s&(1<<uint(d)) != 0 }

func (s *WeekdaySet) Add(d time.Weekday) { *s |= 1 << uint(d) }

func (s WeekdaySet) Empty() bool { return s == 0 }

// Cadence is the canonical recurring-schedule descriptor a vendor's raw
// cadence value normalizes to. Only the fields relevant to Kind are set.
type Cadence struct {
	Kind          Kind
	Weekday       time.Weekday // KindWeekly, KindEveryNWeeks
	Weekdays      WeekdaySet   // KindWeeklyMulti
	IntervalWeeks int          // KindEveryNWeeks
	DayOfMonth    int          // KindMonthly, clamped to [1,31]
	Location      *time.Location
}

// neverCadence is returned whenever raw cadence data cannot be understood.
func neverCadence() Cadence {
	loc, _ := time.LoadLocation(DefaultTimeZone)
	return Cadence{Kind: KindNone, Location: loc}
}

// dayNames maps every historically used day spelling to a weekday index.
// Lookup is case-insensitive (callers lower the input first).
var dayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tues": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// fieldAliases is the legacy-compatibility table: every key name that has
// ever been used in stored cadence records, grouped by concept. Keys are
// matched lowercased.
var fieldAliases = map[string][]string{
	"type":       {"type", "kind", "cadence", "frequency", "schedule"},
	"weekday":    {"dayofweek", "day_of_week", "weekday", "day"},
	"weekdays":   {"daysofweek", "days_of_week", "days", "weekdays"},
	"interval":   {"interval", "everynweeks", "every_n_weeks", "weeks", "weekinterval"},
	"dayofmonth": {"dayofmonth", "day_of_month", "date", "day"},
	"timezone":   {"timezone", "time_zone", "tz", "zone"},
}

// ParseCadence normalizes a raw stored cadence value into a canonical
// Cadence. Raw values come from partially validated, sometimes hand-edited
// records: a free-text phrase ("weekly on tuesday"), a structured object
// with any of the historical field spellings, or garbage. Unrecognizable
// input yields a never-due cadence together with a descriptive error the
// caller can log; the returned Cadence is always safe to evaluate.
func ParseCadence(raw json.RawMessage) (Cadence, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return neverCadence(), fmt.Errorf("cadence is empty")
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return parseCadencePhrase(text)
	}

	var record map[string]any
	if err := json.Unmarshal(raw, &record); err != nil {
		return neverCadence(), fmt.Errorf("cadence is neither a phrase nor an object: %w", err)
	}
	return parseCadenceRecord(record)
}

// parseCadenceRecord handles the structured shapes.
func parseCadenceRecord(record map[string]any) (Cadence, error) {
	lowered := make(map[string]any, len(record))
	for k, v := range record {
		lowered[strings.ToLower(k)] = v
	}

	loc, tzErr := lookupLocation(lowered)
	if tzErr != nil {
		return neverCadence(), tzErr
	}

	kindRaw, _ := lookupString(lowered, "type")
	switch normalizeKindWord(kindRaw) {
	case KindDaily:
		return Cadence{Kind: KindDaily, Location: loc}, nil
	case KindWeekly:
		if days, ok := lookupWeekdaySet(lowered); ok {
			return weeklyFromSet(days, loc), nil
		}
		if day, ok := lookupWeekday(lowered); ok {
			return Cadence{Kind: KindWeekly, Weekday: day, Location: loc}, nil
		}
		return neverCadence(), fmt.Errorf("weekly cadence has no usable day field")
	case KindEveryNWeeks:
		day, ok := lookupWeekday(lowered)
		if !ok {
			return neverCadence(), fmt.Errorf("every-n-weeks cadence has no usable day field")
		}
		interval := lookupInt(lowered, "interval")
		if interval < 1 {
			interval = DefaultWeekInterval
		}
		return Cadence{Kind: KindEveryNWeeks, Weekday: day, IntervalWeeks: interval, Location: loc}, nil
	case KindMonthly:
		dom := lookupInt(lowered, "dayofmonth")
		return Cadence{Kind: KindMonthly, DayOfMonth: clampDayOfMonth(dom), Location: loc}, nil
	}

	// Legacy records without a type field: a bare day-name array means
	// weekly on those days.
	if days, ok := lookupWeekdaySet(lowered); ok {
		return weeklyFromSet(days, loc), nil
	}
	return neverCadence(), fmt.Errorf("unrecognized cadence type %q", kindRaw)
}

// parseCadencePhrase handles free-text values like "weekly on tuesday",
// "every 2 weeks on monday", "monthly on the 15th" or "daily".
func parseCadencePhrase(text string) (Cadence, error) {
	loc, _ := time.LoadLocation(DefaultTimeZone)
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return neverCadence(), fmt.Errorf("cadence phrase is empty")
	}

	var days WeekdaySet
	var numbers []int
	kind := KindNone
	for i, w := range words {
		w = strings.Trim(w, ".,;:!")
		if d, ok := dayNames[w]; ok {
			days.Add(d)
			continue
		}
		if n, ok := parseOrdinal(w); ok {
			numbers = append(numbers, n)
			continue
		}
		switch normalizeKindWord(w) {
		case KindDaily:
			kind = KindDaily
		case KindWeekly:
			if kind == KindNone {
				kind = KindWeekly
			}
		case KindEveryNWeeks:
			kind = KindEveryNWeeks
		case KindMonthly:
			kind = KindMonthly
		}
		// "every day" reads as daily, "every other week" as biweekly.
		if w == "every" && i+1 < len(words) {
			switch strings.Trim(words[i+1], ".,;:!") {
			case "day":
				kind = KindDaily
			case "other":
				kind = KindEveryNWeeks
			}
		}
	}

	// "every 2 weeks on monday" tokenizes as weekly plus a count.
	if kind == KindWeekly && len(numbers) > 0 {
		kind = KindEveryNWeeks
	}

	switch kind {
	case KindDaily:
		return Cadence{Kind: KindDaily, Location: loc}, nil
	case KindEveryNWeeks:
		if days.Empty() {
			return neverCadence(), fmt.Errorf("phrase %q names no weekday", text)
		}
		interval := DefaultWeekInterval
		if len(numbers) > 0 && numbers[0] >= 1 {
			interval = numbers[0]
		}
		return Cadence{Kind: KindEveryNWeeks, Weekday: firstWeekday(days), IntervalWeeks: interval, Location: loc}, nil
	case KindMonthly:
		dom := 1
		if len(numbers) > 0 {
			dom = numbers[0]
		}
		return Cadence{Kind: KindMonthly, DayOfMonth: clampDayOfMonth(dom), Location: loc}, nil
	case KindWeekly:
		if days.Empty() {
			return neverCadence(), fmt.Errorf("phrase %q names no weekday", text)
		}
		return weeklyFromSet(days, loc), nil
	}

	// A bare day name ("tuesday") reads as weekly on that day.
	if !days.Empty() {
		return weeklyFromSet(days, loc), nil
	}
	return neverCadence(), fmt.Errorf("unrecognized cadence phrase %q", text)
}

func weeklyFromSet(days WeekdaySet, loc *time.Location) Cadence {
	if single, ok := soleWeekday(days); ok {
		return Cadence{Kind: KindWeekly, Weekday: single, Location: loc}
	}
	return Cadence{Kind: KindWeeklyMulti, Weekdays: days, Location: loc}
}

func normalizeKindWord(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "everyday", "each_day":
		return KindDaily
	case "weekly", "week", "weeks":
		return KindWeekly
	case "biweekly", "bi-weekly", "fortnightly", "everynweeks", "every_n_weeks", "interval":
		return KindEveryNWeeks
	case "monthly", "month":
		return KindMonthly
	}
	return KindNone
}

func clampDayOfMonth(dom int) int {
	if dom < 1 {
		return 1
	}
	if dom > 31 {
		return 31
	}
	return dom
}

// parseOrdinal reads "15", "15th", "1st", "2nd", "3rd".
func parseOrdinal(w string) (int, bool) {
	w = strings.TrimSuffix(strings.TrimSuffix(strings.TrimSuffix(strings.TrimSuffix(w, "st"), "nd"), "rd"), "th")
	n, err := strconv.Atoi(w)
	if err != nil {
		return 0, false
	}
	return n, true
}

func soleWeekday(days WeekdaySet) (time.Weekday, bool) {
	var found time.Weekday
	count := 0
	for d := time.Sunday; d <= time.Saturday; d++ {
		if days.Has(d) {
			found = d
			count++
		}
	}
	return found, count == 1
}

func firstWeekday(days WeekdaySet) time.Weekday {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if days.Has(d) {
			return d
		}
	}
	return time.Sunday
}

func lookupRaw(record map[string]any, concept string) (any, bool) {
	for _, alias := range fieldAliases[concept] {
		if v, ok := record[alias]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func lookupString(record map[string]any, concept string) (string, bool) {
	v, ok := lookupRaw(record, concept)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// lookupInt reads a numeric field that may be stored as a JSON number or as
// a numeric string.
func lookupInt(record map[string]any, concept string) int {
	v, ok := lookupRaw(record, concept)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0
		}
		return i
	}
	return 0
}

// lookupWeekday reads a single weekday stored as an index (0=Sunday) or a
// day name in any historical spelling.
func lookupWeekday(record map[string]any) (time.Weekday, bool) {
	v, ok := lookupRaw(record, "weekday")
	if !ok {
		return 0, false
	}
	return coerceWeekday(v)
}

// lookupWeekdaySet reads a day list; entries may be indices or names. A list
// with at least one recognizable entry counts.
func lookupWeekdaySet(record map[string]any) (WeekdaySet, bool) {
	v, ok := lookupRaw(record, "weekdays")
	if !ok {
		return 0, false
	}
	list, ok := v.([]any)
	if !ok {
		return 0, false
	}
	var days WeekdaySet
	for _, entry := range list {
		if d, ok := coerceWeekday(entry); ok {
			days.Add(d)
		}
	}
	return days, !days.Empty()
}

func coerceWeekday(v any) (time.Weekday, bool) {
	switch day := v.(type) {
	case float64:
		if day >= 0 && day <= 6 {
			return time.Weekday(int(day)), true
		}
	case string:
		s := strings.ToLower(strings.TrimSpace(day))
		if d, ok := dayNames[s]; ok {
			return d, true
		}
		if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 6 {
			return time.Weekday(n), true
		}
	}
	return 0, false
}

func lookupLocation(record map[string]any) (*time.Location, error) {
	name, ok := lookupString(record, "timezone")
	if !ok || strings.TrimSpace(name) == "" {
		loc, _ := time.LoadLocation(DefaultTimeZone)
		return loc, nil
	}
	loc, err := time.LoadLocation(strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return loc, nil
}
