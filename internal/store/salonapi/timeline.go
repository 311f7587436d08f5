package salonapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"salon/timeline/internal/domain"
)

type appointmentDTO struct {
	ID        int64         `json:"id"`
	StartTime string        `json:"startTime"`
	EndTime   string        `json:"endTime"`
	Status    string        `json:"status"`
	Client    clientRefDTO  `json:"client"`
	Service   serviceRefDTO `json:"service"`
	Notes     string        `json:"clientNotes"`
}

type clientRefDTO struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

type serviceRefDTO struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	DurationMinutes int         `json:"durationMinutes"`
	Price           json.Number `json:"price"`
}

func (dto appointmentDTO) toDomain() (domain.Appointment, error) {
	startDate, startTime, err := domain.ParseDateTime(dto.StartTime)
	if err != nil {
		return domain.Appointment{}, err
	}
	if startTime == nil {
		return domain.Appointment{}, fmt.Errorf("startTime %q has no time of day", dto.StartTime)
	}
	endDate, endTime, err := domain.ParseDateTime(dto.EndTime)
	if err != nil {
		return domain.Appointment{}, err
	}
	if endTime == nil {
		return domain.Appointment{}, fmt.Errorf("endTime %q has no time of day", dto.EndTime)
	}
	if endDate != startDate {
		return domain.Appointment{}, fmt.Errorf("appointment spans days: %s to %s", startDate, endDate)
	}

	status := domain.AppointmentStatus(dto.Status)
	if !status.Valid() {
		return domain.Appointment{}, fmt.Errorf("unknown status %q", dto.Status)
	}

	price, err := kopecksFromNumber(dto.Service.Price)
	if err != nil {
		return domain.Appointment{}, err
	}

	return domain.Appointment{
		ID:     dto.ID,
		Date:   startDate,
		Start:  *startTime,
		End:    *endTime,
		Status: status,
		Client: domain.ClientRef{
			ID:        dto.Client.ID,
			FirstName: dto.Client.FirstName,
			LastName:  dto.Client.LastName,
			Phone:     dto.Client.Phone,
		},
		Service: domain.ServiceRef{
			ID:              dto.Service.ID,
			Name:            dto.Service.Name,
			DurationMinutes: dto.Service.DurationMinutes,
			PriceKopecks:    price,
		},
		Notes: dto.Notes,
	}, nil
}

func (c *Client) AppointmentsByRange(ctx context.Context, start domain.CalendarDate, spanDays int) ([]domain.Appointment, error) {
	query := url.Values{
		"startDate": {domain.FormatAPIDate(start)},
		"daysCount": {strconv.Itoa(spanDays)},
	}
	var data struct {
		AppointmentsByDay map[string][]appointmentDTO `json:"appointmentsByDay"`
	}
	if err := c.get(ctx, "appointments timeline", "/api/appointments/timeline", query, &data); err != nil {
		return nil, err
	}

	var out []domain.Appointment
	for _, day := range data.AppointmentsByDay {
		for _, dto := range day {
			appt, err := dto.toDomain()
			if err != nil {
				c.log.Warn("skipping appointment record",
					slog.Int64("appointment_id", dto.ID), slog.Any("err", err))
				continue
			}
			out = append(out, appt)
		}
	}
	return out, nil
}

// availableDayDTO uses pointers for required fields so that a renamed or
// missing field in the backend payload is detected instead of read as zero.
type availableDayDTO struct {
	ID            int64   `json:"id"`
	AvailableDate *string `json:"availableDate"`
	WorkStart     *string `json:"workStart"`
	WorkEnd       *string `json:"workEnd"`
	IsAvailable   *bool   `json:"isAvailable"`
	Notes         string  `json:"notes"`
}

func (dto availableDayDTO) toDomain() (domain.DayWindow, error) {
	if dto.AvailableDate == nil {
		return domain.DayWindow{}, fmt.Errorf("availableDate is missing")
	}
	if dto.IsAvailable == nil {
		return domain.DayWindow{}, fmt.Errorf("isAvailable is missing")
	}
	date, err := domain.ParseCalendarDate(*dto.AvailableDate)
	if err != nil {
		return domain.DayWindow{}, err
	}

	w := domain.DayWindow{ID: dto.ID, Date: date, Notes: dto.Notes}
	if !*dto.IsAvailable {
		return w, nil
	}

	if dto.WorkStart == nil || dto.WorkEnd == nil {
		return domain.DayWindow{}, fmt.Errorf("working day %s without workStart/workEnd", date)
	}
	start, err := domain.ParseTimeOfDay(*dto.WorkStart)
	if err != nil {
		return domain.DayWindow{}, err
	}
	end, err := domain.ParseTimeOfDay(*dto.WorkEnd)
	if err != nil {
		return domain.DayWindow{}, err
	}

	w.IsWorkingDay = true
	w.Start = &start
	w.End = &end
	if err := w.Validate(); err != nil {
		return domain.DayWindow{}, err
	}
	return w, nil
}

func (c *Client) AvailabilityByRange(ctx context.Context, start, end domain.CalendarDate) ([]domain.DayWindow, error) {
	query := url.Values{
		"startDate": {domain.FormatAPIDate(start)},
		"endDate":   {domain.FormatAPIDate(end)},
	}
	var data struct {
		Days []availableDayDTO `json:"days"`
	}
	if err := c.get(ctx, "available days", "/api/schedule/admin/available-days", query, &data); err != nil {
		return nil, err
	}

	out := make([]domain.DayWindow, 0, len(data.Days))
	for _, dto := range data.Days {
		w, err := dto.toDomain()
		if err != nil {
			c.log.Warn("skipping available-day record",
				slog.Int64("record_id", dto.ID), slog.Any("err", err))
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

type blockDTO struct {
	ID        int64  `json:"id"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Reason    string `json:"reason"`
	Notes     string `json:"notes"`
}

func (dto blockDTO) toDomain() (domain.BlockedInterval, error) {
	startDate, startTime, err := domain.ParseDateTime(dto.StartTime)
	if err != nil {
		return domain.BlockedInterval{}, err
	}
	if startTime == nil {
		return domain.BlockedInterval{}, fmt.Errorf("startTime %q has no time of day", dto.StartTime)
	}
	endDate, endTime, err := domain.ParseDateTime(dto.EndTime)
	if err != nil {
		return domain.BlockedInterval{}, err
	}
	if endTime == nil {
		return domain.BlockedInterval{}, fmt.Errorf("endTime %q has no time of day", dto.EndTime)
	}
	if endDate != startDate {
		return domain.BlockedInterval{}, fmt.Errorf("block spans days: %s to %s", startDate, endDate)
	}

	return domain.BlockedInterval{
		ID:     dto.ID,
		Date:   startDate,
		Start:  *startTime,
		End:    *endTime,
		Reason: dto.Reason,
		Notes:  dto.Notes,
	}, nil
}

func (c *Client) BlocksByRange(ctx context.Context, start, end domain.CalendarDate) ([]domain.BlockedInterval, error) {
	query := url.Values{
		"startDate": {domain.FormatAPIDate(start)},
		"endDate":   {domain.FormatAPIDate(end)},
	}
	var data struct {
		Blocks []blockDTO `json:"blocks"`
	}
	if err := c.get(ctx, "schedule blocks", "/api/schedule/blocks", query, &data); err != nil {
		return nil, err
	}

	out := make([]domain.BlockedInterval, 0, len(data.Blocks))
	for _, dto := range data.Blocks {
		b, err := dto.toDomain()
		if err != nil {
			c.log.Warn("skipping schedule-block record",
				slog.Int64("block_id", dto.ID), slog.Any("err", err))
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (c *Client) MoveAppointment(ctx context.Context, appointmentID int64, date domain.CalendarDate, start domain.TimeOfDay) error {
	path := fmt.Sprintf("/api/appointments/%d/move", appointmentID)
	query := url.Values{"newStartTime": {domain.FormatAPIDateTime(date, start)}}
	return c.mutate(ctx, "move appointment", http.MethodPatch, path, query, nil)
}

func (c *Client) CreateAvailableDay(ctx context.Context, date domain.CalendarDate, workStart, workEnd domain.TimeOfDay) error {
	query := url.Values{
		"date":      {date.String()},
		"workStart": {workStart.String()},
		"workEnd":   {workEnd.String()},
	}
	return c.mutate(ctx, "create available day", http.MethodPost, "/api/schedule/available-days", query, nil)
}
