// Package recurrence builds RFC-5545 RRULE strings for repeating lessons and
// expands them into concrete dates.
package recurrence

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// Weekday is a bit-flag set of weekdays.
type Weekday uint8

const (
	Monday Weekday = 1 << iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// weekdayCodes maps flag order to the RFC-5545 two-letter codes.
var weekdayCodes = []struct {
	day  Weekday
	code string
}{
	{Monday, "MO"},
	{Tuesday, "TU"},
	{Wednesday, "WE"},
	{Thursday, "TH"},
	{Friday, "FR"},
	{Saturday, "SA"},
	{Sunday, "SU"},
}

const untilLayout = "20060102T150405Z"

// DailyRule builds a daily rule. count takes precedence over until when both
// are given; an interval of 1 is omitted.
func DailyRule(interval, count int, until time.Time) (string, error) {
	if err := checkInterval(interval); err != nil {
		return "", err
	}
	return build("DAILY", interval, count, until, ""), nil
}

// WeeklyRule builds a weekly rule on the given set of weekdays.
func WeeklyRule(days Weekday, interval, count int, until time.Time) (string, error) {
	if err := checkInterval(interval); err != nil {
		return "", err
	}
	if days == 0 {
		return "", errors.New("weekly rule requires at least one weekday")
	}
	var codes []string
	for _, wc := range weekdayCodes {
		if days&wc.day != 0 {
			codes = append(codes, wc.code)
		}
	}
	return build("WEEKLY", interval, count, until, "BYDAY="+strings.Join(codes, ",")), nil
}

// MonthlyByDayRule builds a monthly rule on a fixed day of the month (1-31).
func MonthlyByDayRule(dayOfMonth, interval, count int, until time.Time) (string, error) {
	if err := checkInterval(interval); err != nil {
		return "", err
	}
	if dayOfMonth < 1 || dayOfMonth > 31 {
		return "", fmt.Errorf("day of month out of range: %d", dayOfMonth)
	}
	return build("MONTHLY", interval, count, until, fmt.Sprintf("BYMONTHDAY=%d", dayOfMonth)), nil
}

// MonthlyByWeekdayRule builds a monthly rule on the Nth weekday of the month.
// position is 1-4, or -1 for the last occurrence; day must be a single flag.
func MonthlyByWeekdayRule(position int, day Weekday, interval, count int, until time.Time) (string, error) {
	if err := checkInterval(interval); err != nil {
		return "", err
	}
	if position < -1 || position == 0 || position > 4 {
		return "", fmt.Errorf("weekday position out of range: %d", position)
	}
	code, ok := singleCode(day)
	if !ok {
		return "", errors.New("monthly-by-weekday rule requires exactly one weekday")
	}
	return build("MONTHLY", interval, count, until, fmt.Sprintf("BYDAY=%d%s", position, code)), nil
}

// YearlyRule builds a yearly rule.
func YearlyRule(interval, count int, until time.Time) (string, error) {
	if err := checkInterval(interval); err != nil {
		return "", err
	}
	return build("YEARLY", interval, count, until, ""), nil
}

// Expand materializes a rule into occurrence instants within [from, to],
// anchored at start.
func Expand(rule string, start, from, to time.Time) ([]time.Time, error) {
	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, fmt.Errorf("parse rule %q: %w", rule, err)
	}
	r.DTStart(start)
	return r.Between(from, to, true), nil
}

func checkInterval(interval int) error {
	if interval < 0 {
		return fmt.Errorf("negative interval: %d", interval)
	}
	return nil
}

func singleCode(day Weekday) (string, bool) {
	for _, wc := range weekdayCodes {
		if day == wc.day {
			return wc.code, true
		}
	}
	return "", false
}

// build assembles the rule clauses: FREQ, then INTERVAL (omitted when 1),
// then COUNT or UNTIL (count wins when both are set), then the extra clause.
func build(freq string, interval, count int, until time.Time, extra string) string {
	parts := []string{"FREQ=" + freq}
	if interval > 1 {
		parts = append(parts, fmt.Sprintf("INTERVAL=%d", interval))
	}
	switch {
	case count > 0:
		parts = append(parts, fmt.Sprintf("COUNT=%d", count))
	case !until.IsZero():
		parts = append(parts, "UNTIL="+until.UTC().Format(untilLayout))
	}
	if extra != "" {
		parts = append(parts, extra)
	}
	return strings.Join(parts, ";")
}
