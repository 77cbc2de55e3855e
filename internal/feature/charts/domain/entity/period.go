package entity

import (
	"fmt"
	"strings"
	"time"
)

// Interval is the bar granularity requested from a market-data provider.
type Interval string

const (
	Interval1Day   Interval = "1day"
	Interval1Week  Interval = "1week"
	Interval1Month Interval = "1month"
)

// Lookback is a calendar span ending at the fetch time. Calendar units are
// kept separate because "3 months" is not a fixed duration.
type Lookback struct {
	Years  int
	Months int
}

// Since returns the start of the lookback window ending at now.
func (l Lookback) Since(now time.Time) time.Time {
	return now.AddDate(-l.Years, -l.Months, 0)
}

// String renders the lookback in the short form used in cache keys ("3mo", "10y").
func (l Lookback) String() string {
	switch {
	case l.Years > 0 && l.Months == 0:
		return fmt.Sprintf("%dy", l.Years)
	case l.Years == 0:
		return fmt.Sprintf("%dmo", l.Months)
	default:
		return fmt.Sprintf("%dy%dmo", l.Years, l.Months)
	}
}

// Period is one of the fixed chart presets offered to the user.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// Preset pairs a bar interval with its lookback window.
type Preset struct {
	Period   Period
	Interval Interval
	Lookback Lookback
	Label    string
}

// presets is the fixed period contract: the pairings are not independently configurable.
var presets = map[Period]Preset{
	PeriodDaily:   {Period: PeriodDaily, Interval: Interval1Day, Lookback: Lookback{Months: 3}, Label: "Daily (3 months)"},
	PeriodWeekly:  {Period: PeriodWeekly, Interval: Interval1Week, Lookback: Lookback{Months: 9}, Label: "Weekly (9 months)"},
	PeriodMonthly: {Period: PeriodMonthly, Interval: Interval1Month, Lookback: Lookback{Years: 10}, Label: "Monthly (10 years)"},
}

// Periods lists the presets in display order.
var Periods = []Period{PeriodDaily, PeriodWeekly, PeriodMonthly}

// ParsePeriod resolves a user-supplied period name. Matching is case-insensitive.
func ParsePeriod(s string) (Preset, error) {
	p, ok := presets[Period(strings.ToLower(strings.TrimSpace(s)))]
	if !ok {
		return Preset{}, fmt.Errorf("unknown period %q: want one of daily, weekly, monthly", s)
	}
	return p, nil
}

// MustPreset returns the preset for a known period and panics otherwise.
func MustPreset(p Period) Preset {
	preset, ok := presets[p]
	if !ok {
		panic(fmt.Sprintf("entity: unknown period %q", p))
	}
	return preset
}
