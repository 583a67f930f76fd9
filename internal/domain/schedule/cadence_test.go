package schedule

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCadenceStructured(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Cadence
	}{
		{
			name: "daily",
			raw:  `{"type":"daily"}`,
			want: Cadence{Kind: KindDaily},
		},
		{
			name: "weekly with day index",
			raw:  `{"type":"weekly","dayOfWeek":2}`,
			want: Cadence{Kind: KindWeekly, Weekday: time.Tuesday},
		},
		{
			name: "weekly with day name",
			raw:  `{"type":"weekly","day":"Friday"}`,
			want: Cadence{Kind: KindWeekly, Weekday: time.Friday},
		},
		{
			name: "weekly legacy snake_case key",
			raw:  `{"type":"weekly","day_of_week":"wed"}`,
			want: Cadence{Kind: KindWeekly, Weekday: time.Wednesday},
		},
		{
			name: "weekly multi",
			raw:  `{"type":"weekly","days":["mon","thu"]}`,
			want: Cadence{Kind: KindWeeklyMulti, Weekdays: weekdaySetOf(time.Monday, time.Thursday)},
		},
		{
			name: "weekly multi collapses to single day",
			raw:  `{"type":"weekly","daysOfWeek":[3]}`,
			want: Cadence{Kind: KindWeekly, Weekday: time.Wednesday},
		},
		{
			name: "legacy day-name array without type",
			raw:  `{"days":["tue","sat"]}`,
			want: Cadence{Kind: KindWeeklyMulti, Weekdays: weekdaySetOf(time.Tuesday, time.Saturday)},
		},
		{
			name: "every n weeks",
			raw:  `{"type":"everyNWeeks","interval":3,"dayOfWeek":1}`,
			want: Cadence{Kind: KindEveryNWeeks, Weekday: time.Monday, IntervalWeeks: 3},
		},
		{
			name: "biweekly defaults interval",
			raw:  `{"type":"biweekly","day":"tues"}`,
			want: Cadence{Kind: KindEveryNWeeks, Weekday: time.Tuesday, IntervalWeeks: 2},
		},
		{
			name: "non-positive interval defaults",
			raw:  `{"type":"everyNWeeks","interval":0,"day":"thur"}`,
			want: Cadence{Kind: KindEveryNWeeks, Weekday: time.Thursday, IntervalWeeks: 2},
		},
		{
			name: "monthly",
			raw:  `{"type":"monthly","dayOfMonth":15}`,
			want: Cadence{Kind: KindMonthly, DayOfMonth: 15},
		},
		{
			name: "monthly legacy date key as string",
			raw:  `{"type":"monthly","date":"31"}`,
			want: Cadence{Kind: KindMonthly, DayOfMonth: 31},
		},
		{
			name: "monthly clamps out-of-range day",
			raw:  `{"type":"monthly","dayOfMonth":45}`,
			want: Cadence{Kind: KindMonthly, DayOfMonth: 31},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseCadence(json.RawMessage(tc.raw))
			require.NoError(t, err)
			assert.Equal(t, tc.want.Kind, got.Kind)
			assert.Equal(t, tc.want.Weekday, got.Weekday)
			assert.Equal(t, tc.want.Weekdays, got.Weekdays)
			assert.Equal(t, tc.want.IntervalWeeks, got.IntervalWeeks)
			assert.Equal(t, tc.want.DayOfMonth, got.DayOfMonth)
			require.NotNil(t, got.Location)
			assert.Equal(t, DefaultTimeZone, got.Location.String())
		})
	}
}

func TestParseCadencePhrases(t *testing.T) {
	tests := []struct {
		raw  string
		want Cadence
	}{
		{`"daily"`, Cadence{Kind: KindDaily}},
		{`"every day"`, Cadence{Kind: KindDaily}},
		{`"weekly on tuesday"`, Cadence{Kind: KindWeekly, Weekday: time.Tuesday}},
		{`"every thursday"`, Cadence{Kind: KindWeekly, Weekday: time.Thursday}},
		{`"Weekly on Mon, Wed"`, Cadence{Kind: KindWeeklyMulti, Weekdays: weekdaySetOf(time.Monday, time.Wednesday)}},
		{`"every 2 weeks on monday"`, Cadence{Kind: KindEveryNWeeks, Weekday: time.Monday, IntervalWeeks: 2}},
		{`"every 3 weeks on fri"`, Cadence{Kind: KindEveryNWeeks, Weekday: time.Friday, IntervalWeeks: 3}},
		{`"every other week on tue"`, Cadence{Kind: KindEveryNWeeks, Weekday: time.Tuesday, IntervalWeeks: 2}},
		{`"monthly on the 15th"`, Cadence{Kind: KindMonthly, DayOfMonth: 15}},
		{`"monthly on 31"`, Cadence{Kind: KindMonthly, DayOfMonth: 31}},
		{`"tuesday"`, Cadence{Kind: KindWeekly, Weekday: time.Tuesday}},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := ParseCadence(json.RawMessage(tc.raw))
			require.NoError(t, err)
			assert.Equal(t, tc.want.Kind, got.Kind)
			assert.Equal(t, tc.want.Weekday, got.Weekday)
			assert.Equal(t, tc.want.Weekdays, got.Weekdays)
			assert.Equal(t, tc.want.IntervalWeeks, got.IntervalWeeks)
			assert.Equal(t, tc.want.DayOfMonth, got.DayOfMonth)
		})
	}
}

func TestParseCadenceTimezone(t *testing.T) {
	t.Run("explicit timezone", func(t *testing.T) {
		got, err := ParseCadence(json.RawMessage(`{"type":"daily","timeZone":"America/New_York"}`))
		require.NoError(t, err)
		assert.Equal(t, "America/New_York", got.Location.String())
	})

	t.Run("legacy tz key", func(t *testing.T) {
		got, err := ParseCadence(json.RawMessage(`{"type":"daily","tz":"Europe/Berlin"}`))
		require.NoError(t, err)
		assert.Equal(t, "Europe/Berlin", got.Location.String())
	})

	t.Run("unknown timezone is a config error resolving to never due", func(t *testing.T) {
		got, err := ParseCadence(json.RawMessage(`{"type":"daily","timezone":"Mars/Olympus_Mons"}`))
		assert.Error(t, err)
		assert.Equal(t, KindNone, got.Kind)
	})
}

func TestParseCadenceUnrecognized(t *testing.T) {
	cases := []string{
		``,
		`null`,
		`"sometimes, when mercury is in retrograde"`,
		`{"type":"quarterly"}`,
		`{"frequency":"weekly"}`, // weekly but no day at all
		`42`,
	}
	for _, raw := range cases {
		t.Run(raw, func(t *testing.T) {
			got, err := ParseCadence(json.RawMessage(raw))
			assert.Error(t, err)
			assert.Equal(t, KindNone, got.Kind)
			require.NotNil(t, got.Location)

			// The fallback must still evaluate deterministically.
			eval := Evaluate(got, Bookkeeping{}, time.Now())
			assert.False(t, eval.ShouldSend)
		})
	}
}

func TestWeekdaySet(t *testing.T) {
	var s WeekdaySet
	assert.True(t, s.Empty())
	s.Add(time.Tuesday)
	s.Add(time.Saturday)
	assert.True(t, s.Has(time.Tuesday))
	assert.True(t, s.Has(time.Saturday))
	assert.False(t, s.Has(time.Sunday))
	assert.False(t, s.Empty())
}

func weekdaySetOf(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s.Add(d)
	}
	return s
}
