package recurrence

import (
	"strings"
	"testing"
	"time"

	"github.com/teambition/rrule-go"
)

func TestWeeklyRule_IntervalOneOmitted(t *testing.T) {
	t.Parallel()
	got, err := WeeklyRule(Monday|Wednesday|Friday, 1, 0, time.Time{})
	if err != nil {
		t.Fatalf("WeeklyRule: %v", err)
	}
	if got != "FREQ=WEEKLY;BYDAY=MO,WE,FR" {
		t.Fatalf("rule: %q", got)
	}
	if strings.Contains(got, "INTERVAL") {
		t.Fatalf("interval of 1 must be omitted: %q", got)
	}
}

func TestDailyRule_IntervalAndCount(t *testing.T) {
	t.Parallel()
	got, err := DailyRule(2, 5, time.Time{})
	if err != nil {
		t.Fatalf("DailyRule: %v", err)
	}
	if got != "FREQ=DAILY;INTERVAL=2;COUNT=5" {
		t.Fatalf("rule: %q", got)
	}
}

func TestCountTakesPrecedenceOverUntil(t *testing.T) {
	t.Parallel()
	until := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	got, err := DailyRule(1, 3, until)
	if err != nil {
		t.Fatalf("DailyRule: %v", err)
	}
	if got != "FREQ=DAILY;COUNT=3" {
		t.Fatalf("count must win over until: %q", got)
	}

	got, err = DailyRule(1, 0, until)
	if err != nil {
		t.Fatalf("DailyRule: %v", err)
	}
	if got != "FREQ=DAILY;UNTIL=20240630T000000Z" {
		t.Fatalf("until form: %q", got)
	}
}

func TestMonthlyRules(t *testing.T) {
	t.Parallel()
	got, err := MonthlyByDayRule(15, 1, 0, time.Time{})
	if err != nil {
		t.Fatalf("MonthlyByDayRule: %v", err)
	}
	if got != "FREQ=MONTHLY;BYMONTHDAY=15" {
		t.Fatalf("rule: %q", got)
	}

	got, err = MonthlyByWeekdayRule(2, Tuesday, 1, 0, time.Time{})
	if err != nil {
		t.Fatalf("MonthlyByWeekdayRule: %v", err)
	}
	if got != "FREQ=MONTHLY;BYDAY=2TU" {
		t.Fatalf("rule: %q", got)
	}

	got, err = MonthlyByWeekdayRule(-1, Friday, 1, 0, time.Time{})
	if err != nil {
		t.Fatalf("MonthlyByWeekdayRule: %v", err)
	}
	if got != "FREQ=MONTHLY;BYDAY=-1FR" {
		t.Fatalf("rule: %q", got)
	}
}

func TestValidationBeforeBuilding(t *testing.T) {
	t.Parallel()
	if _, err := WeeklyRule(0, 1, 0, time.Time{}); err == nil {
		t.Fatalf("want error on empty weekday set")
	}
	if _, err := MonthlyByDayRule(0, 1, 0, time.Time{}); err == nil {
		t.Fatalf("want error on day 0")
	}
	if _, err := MonthlyByDayRule(32, 1, 0, time.Time{}); err == nil {
		t.Fatalf("want error on day 32")
	}
	if _, err := MonthlyByWeekdayRule(5, Monday, 1, 0, time.Time{}); err == nil {
		t.Fatalf("want error on position 5")
	}
	if _, err := MonthlyByWeekdayRule(0, Monday, 1, 0, time.Time{}); err == nil {
		t.Fatalf("want error on position 0")
	}
	if _, err := MonthlyByWeekdayRule(2, Monday|Friday, 1, 0, time.Time{}); err == nil {
		t.Fatalf("want error on multi-day flag")
	}
	if _, err := DailyRule(-1, 0, time.Time{}); err == nil {
		t.Fatalf("want error on negative interval")
	}
}

// every built rule must be parseable by an independent RRULE implementation
func TestBuiltRulesRoundTrip(t *testing.T) {
	t.Parallel()
	until := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rules := []func() (string, error){
		func() (string, error) { return DailyRule(2, 5, time.Time{}) },
		func() (string, error) { return WeeklyRule(Monday|Wednesday|Friday, 1, 0, until) },
		func() (string, error) { return MonthlyByDayRule(31, 3, 0, time.Time{}) },
		func() (string, error) { return MonthlyByWeekdayRule(-1, Sunday, 1, 10, time.Time{}) },
		func() (string, error) { return YearlyRule(1, 0, until) },
	}
	for _, mk := range rules {
		rule, err := mk()
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		if _, err := rrule.StrToRRule(rule); err != nil {
			t.Fatalf("built rule %q does not parse: %v", rule, err)
		}
	}
}

func TestExpand(t *testing.T) {
	t.Parallel()
	rule, err := WeeklyRule(Monday|Wednesday|Friday, 1, 0, time.Time{})
	if err != nil {
		t.Fatalf("WeeklyRule: %v", err)
	}

	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC) // a Monday
	from := start
	to := time.Date(2024, 3, 8, 23, 0, 0, 0, time.UTC)

	got, err := Expand(rule, start, from, to)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	want := []time.Time{
		time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC),
	}
	if len(got) != len(want) {
		t.Fatalf("occurrences: %v", got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("occurrence %d: got %v want %v", i, got[i], want[i])
		}
	}

	if _, err := Expand("FREQ=BOGUS", start, from, to); err == nil {
		t.Fatalf("want parse error")
	}
}
