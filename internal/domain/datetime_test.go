package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseCalendarDate_FormatIndependence(t *testing.T) {
	want := CalendarDate{Year: 2026, Month: time.February, Day: 20}

	inputs := []string{
		"2026-02-20",
		"20.02.2026",
		"20.02.2026.",
		" 2026-02-20 ",
	}
	for _, in := range inputs {
		got, err := ParseCalendarDate(in)
		if err != nil {
			t.Fatalf("ParseCalendarDate(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseCalendarDate(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseCalendarDate_Idempotent(t *testing.T) {
	first, err := ParseCalendarDate("18.02.2026.")
	if err != nil {
		t.Fatalf("first parse: %v", err)
	}
	second, err := ParseCalendarDate(first.String())
	if err != nil {
		t.Fatalf("reparse of canonical form: %v", err)
	}
	if first != second {
		t.Fatalf("canonicalization not idempotent: %v != %v", first, second)
	}
	if first.String() != "2026-02-18" {
		t.Fatalf("canonical form = %q, want 2026-02-18", first.String())
	}
}

func TestParseCalendarDate_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "only dot", input: "."},
		{name: "garbage", input: "not-a-date-at-all"},
		{name: "two fields", input: "2026-02"},
		{name: "non numeric", input: "2026-xx-20"},
		{name: "month zero", input: "2026-00-20"},
		{name: "month thirteen", input: "13.13.2026"},
		{name: "day zero", input: "00.02.2026"},
		{name: "day too large", input: "32.02.2026"},
		{name: "no separator", input: "20260220"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCalendarDate(tc.input)
			if err == nil {
				t.Fatalf("ParseCalendarDate(%q): expected error", tc.input)
			}
			var malformedErr *MalformedDateError
			if !errors.As(err, &malformedErr) {
				t.Fatalf("ParseCalendarDate(%q): error %T is not *MalformedDateError", tc.input, err)
			}
			if malformedErr.Input != tc.input {
				t.Fatalf("error carries input %q, want %q", malformedErr.Input, tc.input)
			}
		})
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input   string
		want    TimeOfDay
		wantErr bool
	}{
		{input: "09:00", want: TimeOfDay{Hour: 9}},
		{input: "23:59", want: TimeOfDay{Hour: 23, Minute: 59}},
		{input: "10:30:15", want: TimeOfDay{Hour: 10, Minute: 30}},
		{input: "24:00", wantErr: true},
		{input: "12:60", wantErr: true},
		{input: "12:30:99", wantErr: true},
		{input: "12", wantErr: true},
		{input: "ab:cd", wantErr: true},
	}
	for _, tc := range tests {
		got, err := ParseTimeOfDay(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseTimeOfDay(%q): expected error", tc.input)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseTimeOfDay(%q): %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("ParseTimeOfDay(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestParseDateTime(t *testing.T) {
	wantDate := CalendarDate{Year: 2026, Month: time.February, Day: 18}
	wantTime := TimeOfDay{Hour: 10, Minute: 30}

	combined := []string{
		"2026-02-18 10:30",
		"2026-02-18T10:30",
		"18.02.2026 10:30",
		"2026-02-18T10:30:00",
	}
	for _, in := range combined {
		d, tod, err := ParseDateTime(in)
		if err != nil {
			t.Fatalf("ParseDateTime(%q): %v", in, err)
		}
		if d != wantDate {
			t.Fatalf("ParseDateTime(%q) date = %v, want %v", in, d, wantDate)
		}
		if tod == nil || *tod != wantTime {
			t.Fatalf("ParseDateTime(%q) time = %v, want %v", in, tod, wantTime)
		}
	}

	d, tod, err := ParseDateTime("20.02.2026.")
	if err != nil {
		t.Fatalf("bare date: %v", err)
	}
	if tod != nil {
		t.Fatalf("bare date produced a time-of-day: %v", tod)
	}
	if d != (CalendarDate{Year: 2026, Month: time.February, Day: 20}) {
		t.Fatalf("bare date = %v", d)
	}

	if _, _, err := ParseDateTime("2026-02-18 "); err == nil {
		t.Fatal("empty time segment: expected error")
	}
	if _, _, err := ParseDateTime("2026-02-18 25:00"); err == nil {
		t.Fatal("hour out of range: expected error")
	}
}

func TestCalendarDate_AddDays(t *testing.T) {
	d := CalendarDate{Year: 2026, Month: time.February, Day: 26}
	if got := d.AddDays(7); got != (CalendarDate{Year: 2026, Month: time.March, Day: 5}) {
		t.Fatalf("AddDays(7) = %v", got)
	}
	if got := d.AddDays(-30); got != (CalendarDate{Year: 2026, Month: time.January, Day: 27}) {
		t.Fatalf("AddDays(-30) = %v", got)
	}
	// Shifting across the late-March DST boundary must stay a whole-day move.
	d = CalendarDate{Year: 2026, Month: time.March, Day: 28}
	if got := d.AddDays(3); got != (CalendarDate{Year: 2026, Month: time.March, Day: 31}) {
		t.Fatalf("AddDays(3) across DST = %v", got)
	}
}

func TestCalendarDate_Queries(t *testing.T) {
	d := CalendarDate{Year: 2026, Month: time.February, Day: 18}
	if d.DayName() != "Wednesday" {
		t.Fatalf("DayName = %q", d.DayName())
	}
	now := time.Date(2026, 2, 18, 23, 15, 0, 0, time.Local)
	if !d.IsToday(now) {
		t.Fatal("IsToday should be true on the same calendar day")
	}
	if d.IsToday(now.AddDate(0, 0, 1)) {
		t.Fatal("IsToday should be false the next day")
	}
	if !d.Before(d.AddDays(1)) || !d.After(d.AddDays(-1)) {
		t.Fatal("Before/After ordering broken")
	}
}

func TestFormatAPIDateTime(t *testing.T) {
	d := CalendarDate{Year: 2026, Month: time.February, Day: 5}
	tod := TimeOfDay{Hour: 9, Minute: 5}
	if got := FormatAPIDate(d); got != "05.02.2026" {
		t.Fatalf("FormatAPIDate = %q", got)
	}
	if got := FormatAPIDateTime(d, tod); got != "05.02.2026 09:05" {
		t.Fatalf("FormatAPIDateTime = %q", got)
	}
}
