package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MalformedDateError reports a date or time string that does not match any
// format the backend is known to emit, or whose numeric fields are out of
// range. It marks a data-quality defect in an upstream record, not a bug in
// the caller.
type MalformedDateError struct {
	Input  string
	Reason string
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("malformed date/time %q: %s", e.Input, e.Reason)
}

func malformed(input, reason string) error {
	return &MalformedDateError{Input: input, Reason: reason}
}

// CalendarDate is a day with no time-of-day attached. The zero value is not a
// valid date. Equality is plain struct equality, so two dates parsed from
// "2026-02-18" and "18.02.2026" compare equal.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

func (d CalendarDate) IsZero() bool {
	return d == CalendarDate{}
}

// String returns the canonical form YYYY-MM-DD.
func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Time returns midnight of the date in UTC.
func (d CalendarDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// DateOf truncates t to its calendar day in t's location.
func DateOf(t time.Time) CalendarDate {
	return CalendarDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// AddDays shifts by whole calendar days. The arithmetic is done at UTC
// midnight, so a DST transition in the schedule's local zone can never skip
// or repeat a day.
func (d CalendarDate) AddDays(n int) CalendarDate {
	return DateOf(d.Time().AddDate(0, 0, n))
}

func (d CalendarDate) Before(other CalendarDate) bool {
	return d.Time().Before(other.Time())
}

func (d CalendarDate) After(other CalendarDate) bool {
	return d.Time().After(other.Time())
}

func (d CalendarDate) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// DayName returns the English weekday name, e.g. "Wednesday".
func (d CalendarDate) DayName() string {
	return d.Weekday().String()
}

func (d CalendarDate) IsToday(now time.Time) bool {
	return d == DateOf(now)
}

func (d CalendarDate) validate(input string) error {
	if d.Month < time.January || d.Month > time.December {
		return malformed(input, "month out of range")
	}
	if d.Day < 1 || d.Day > 31 {
		return malformed(input, "day out of range")
	}
	if d.Year < 1 || d.Year > 9999 {
		return malformed(input, "year out of range")
	}
	return nil
}

// TimeOfDay is a wall-clock time with minute precision. The whole schedule
// lives in one local timezone, so no zone is carried.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// String returns the canonical form HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Hour < other.Hour || (t.Hour == other.Hour && t.Minute < other.Minute)
}

func (t TimeOfDay) After(other TimeOfDay) bool {
	return other.Before(t)
}

func (t TimeOfDay) validate(input string) error {
	if t.Hour < 0 || t.Hour > 23 {
		return malformed(input, "hour out of range")
	}
	if t.Minute < 0 || t.Minute > 59 {
		return malformed(input, "minute out of range")
	}
	return nil
}

// ParseCalendarDate accepts ISO "YYYY-MM-DD" and local "DD.MM.YYYY" dates.
// A stray trailing "." after the year (a known backend artifact, e.g.
// "20.02.2026.") is stripped. Parsing the canonical form returns the
// identical value, so canonicalization is idempotent.
func ParseCalendarDate(s string) (CalendarDate, error) {
	input := s
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return CalendarDate{}, malformed(input, "empty")
	}

	var parts []string
	var iso bool
	switch {
	case strings.Contains(s, "-"):
		parts = strings.Split(s, "-")
		iso = true
	case strings.Contains(s, "."):
		parts = strings.Split(s, ".")
	default:
		return CalendarDate{}, malformed(input, "unrecognized date format")
	}
	if len(parts) != 3 {
		return CalendarDate{}, malformed(input, "expected three date fields")
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return CalendarDate{}, malformed(input, "non-numeric date field")
		}
		nums[i] = n
	}

	var d CalendarDate
	if iso {
		d = CalendarDate{Year: nums[0], Month: time.Month(nums[1]), Day: nums[2]}
	} else {
		d = CalendarDate{Year: nums[2], Month: time.Month(nums[1]), Day: nums[0]}
	}
	if err := d.validate(input); err != nil {
		return CalendarDate{}, err
	}
	return d, nil
}

// ParseTimeOfDay accepts "HH:MM" and "HH:MM:SS"; seconds are dropped.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	input := s
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeOfDay{}, malformed(input, "unrecognized time format")
	}
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return TimeOfDay{}, malformed(input, "non-numeric time field")
		}
		nums[i] = n
	}
	if len(nums) == 3 && (nums[2] < 0 || nums[2] > 59) {
		return TimeOfDay{}, malformed(input, "second out of range")
	}
	t := TimeOfDay{Hour: nums[0], Minute: nums[1]}
	if err := t.validate(input); err != nil {
		return TimeOfDay{}, err
	}
	return t, nil
}

// ParseDateTime splits a combined "<date> <time>" or "<date>T<time>" string
// and canonicalizes both halves. A bare date yields a nil TimeOfDay.
func ParseDateTime(s string) (CalendarDate, *TimeOfDay, error) {
	input := s
	s = strings.TrimSpace(s)

	sep := -1
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		sep = i
	} else if i := strings.IndexByte(s, ' '); i >= 0 {
		sep = i
	}

	if sep < 0 {
		d, err := ParseCalendarDate(s)
		if err != nil {
			return CalendarDate{}, nil, err
		}
		return d, nil, nil
	}

	d, err := ParseCalendarDate(s[:sep])
	if err != nil {
		return CalendarDate{}, nil, err
	}
	timePart := strings.TrimSpace(s[sep+1:])
	if timePart == "" {
		return CalendarDate{}, nil, malformed(input, "empty time segment")
	}
	t, err := ParseTimeOfDay(timePart)
	if err != nil {
		return CalendarDate{}, nil, err
	}
	return d, &t, nil
}

// FormatAPIDate renders the backend's query-parameter date form DD.MM.YYYY.
func FormatAPIDate(d CalendarDate) string {
	return fmt.Sprintf("%02d.%02d.%04d", d.Day, int(d.Month), d.Year)
}

// FormatAPIDateTime renders the backend's datetime form "DD.MM.YYYY HH:MM".
func FormatAPIDateTime(d CalendarDate, t TimeOfDay) string {
	return FormatAPIDate(d) + " " + t.String()
}
