package domain

import "fmt"

// DayWindow is one day's working-hours record. Start and End are present iff
// the day is a working day.
type DayWindow struct {
	ID           int64
	Date         CalendarDate
	IsWorkingDay bool
	Start        *TimeOfDay
	End          *TimeOfDay
	Notes        string
}

func (w DayWindow) Validate() error {
	if w.IsWorkingDay {
		if w.Start == nil || w.End == nil {
			return fmt.Errorf("day window %s: working day without hours", w.Date)
		}
		if !w.Start.Before(*w.End) {
			return fmt.Errorf("day window %s: work start %s not before end %s", w.Date, w.Start, w.End)
		}
		return nil
	}
	if w.Start != nil || w.End != nil {
		return fmt.Errorf("day window %s: hours set on non-working day", w.Date)
	}
	return nil
}

// BlockedInterval is an explicit closure within a day. Intervals for one day
// are not guaranteed disjoint by the backend and are never deduplicated here.
type BlockedInterval struct {
	ID     int64
	Date   CalendarDate
	Start  TimeOfDay
	End    TimeOfDay
	Reason string
	Notes  string
}

// DayDescriptor is the merged, render-ready view of one calendar day. It is
// rebuilt wholesale on every refresh and never mutated in place.
type DayDescriptor struct {
	Date         CalendarDate
	Window       DayWindow
	Appointments []Appointment
	Blocks       []BlockedInterval
}

// ValidSpans are the selectable timeline lengths in days.
var ValidSpans = []int{3, 7, 14, 30}

// TimelineWindow is the visible contiguous date range: SpanDays days starting
// at StartDate.
type TimelineWindow struct {
	StartDate CalendarDate
	SpanDays  int
}

func (w TimelineWindow) Validate() error {
	if w.StartDate.IsZero() {
		return fmt.Errorf("timeline window: start date is required")
	}
	for _, span := range ValidSpans {
		if w.SpanDays == span {
			return nil
		}
	}
	return fmt.Errorf("timeline window: unsupported span %d", w.SpanDays)
}

// EndDate is the last day inside the window (inclusive).
func (w TimelineWindow) EndDate() CalendarDate {
	return w.StartDate.AddDays(w.SpanDays - 1)
}

func (w TimelineWindow) Contains(d CalendarDate) bool {
	return !d.Before(w.StartDate) && !d.After(w.EndDate())
}

func (w TimelineWindow) Next() TimelineWindow {
	return TimelineWindow{StartDate: w.StartDate.AddDays(w.SpanDays), SpanDays: w.SpanDays}
}

func (w TimelineWindow) Previous() TimelineWindow {
	return TimelineWindow{StartDate: w.StartDate.AddDays(-w.SpanDays), SpanDays: w.SpanDays}
}

func (w TimelineWindow) WithSpan(span int) TimelineWindow {
	return TimelineWindow{StartDate: w.StartDate, SpanDays: span}
}

// TimelineStats summarizes one merged window for the header line.
type TimelineStats struct {
	TotalAppointments    int
	CreatedCount         int
	PendingCount         int
	ConfirmedCount       int
	CancelledCount       int
	CompletedCount       int
	WorkingDays          int
	DaysWithAppointments int
}
