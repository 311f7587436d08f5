package store

import (
	"context"

	"salon/timeline/internal/domain"
)

// ScheduleSource is the backend surface the timeline is composed from. All
// date/time fields in returned records are already canonicalized; records
// whose fields could not be canonicalized are skipped by the implementation,
// never returned half-parsed.
type ScheduleSource interface {
	AppointmentsByRange(ctx context.Context, start domain.CalendarDate, spanDays int) ([]domain.Appointment, error)
	AvailabilityByRange(ctx context.Context, start, end domain.CalendarDate) ([]domain.DayWindow, error)
	BlocksByRange(ctx context.Context, start, end domain.CalendarDate) ([]domain.BlockedInterval, error)

	MoveAppointment(ctx context.Context, appointmentID int64, date domain.CalendarDate, start domain.TimeOfDay) error
	CreateAvailableDay(ctx context.Context, date domain.CalendarDate, workStart, workEnd domain.TimeOfDay) error
}
