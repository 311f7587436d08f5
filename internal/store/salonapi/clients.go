package salonapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"salon/timeline/internal/domain"
	"salon/timeline/internal/store"
)

type clientInfoDTO struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	BirthDate    string `json:"birthDate"`
	Notes        string `json:"notes"`
	RegisteredAt string `json:"registeredAt"`
	IsVip        bool   `json:"isVip"`
}

type clientStatsDTO struct {
	TotalVisits          int         `json:"totalVisits"`
	CancelledVisits      int         `json:"cancelledVisits"`
	NoShowVisits         int         `json:"noShowVisits"`
	TotalSpent           json.Number `json:"totalSpent"`
	AverageBill          json.Number `json:"averageBill"`
	FirstVisitDate       string      `json:"firstVisitDate"`
	LastVisitDate        string      `json:"lastVisitDate"`
	FavoriteService      string      `json:"favoriteService"`
	FavoriteServiceCount int         `json:"favoriteServiceCount"`
	AttendanceRate       float64     `json:"attendanceRate"`
}

type clientDetailsDTO struct {
	Client               clientInfoDTO    `json:"client"`
	Stats                clientStatsDTO   `json:"stats"`
	RecentAppointments   []appointmentDTO `json:"recentAppointments"`
	UpcomingAppointments []appointmentDTO `json:"upcomingAppointments"`
}

// parseOptionalDate canonicalizes a date field that the backend may omit.
// A malformed value is dropped with a log line; the profile as a whole is
// still usable.
func (c *Client) parseOptionalDate(field, value string, clientID int64) *domain.CalendarDate {
	if value == "" {
		return nil
	}
	d, err := domain.ParseCalendarDate(value)
	if err != nil {
		c.log.Warn("dropping malformed client date field",
			slog.String("field", field), slog.Int64("client_id", clientID), slog.Any("err", err))
		return nil
	}
	return &d
}

func (c *Client) ClientDetails(ctx context.Context, clientID int64) (store.ClientProfile, error) {
	var data clientDetailsDTO
	path := fmt.Sprintf("/api/clients/%d/details", clientID)
	if err := c.get(ctx, "client details", path, nil, &data); err != nil {
		return store.ClientProfile{}, err
	}

	totalSpent, err := kopecksFromNumber(data.Stats.TotalSpent)
	if err != nil {
		return store.ClientProfile{}, &store.FetchError{Op: "client details", Err: err}
	}
	averageBill, err := kopecksFromNumber(data.Stats.AverageBill)
	if err != nil {
		return store.ClientProfile{}, &store.FetchError{Op: "client details", Err: err}
	}

	profile := store.ClientProfile{
		Client: store.ClientInfo{
			ID:           data.Client.ID,
			FirstName:    data.Client.FirstName,
			LastName:     data.Client.LastName,
			Phone:        data.Client.Phone,
			Email:        data.Client.Email,
			BirthDate:    c.parseOptionalDate("birthDate", data.Client.BirthDate, clientID),
			Notes:        data.Client.Notes,
			RegisteredAt: c.parseOptionalDate("registeredAt", data.Client.RegisteredAt, clientID),
			VIP:          data.Client.IsVip,
		},
		Stats: store.ClientStats{
			TotalVisits:          data.Stats.TotalVisits,
			CancelledVisits:      data.Stats.CancelledVisits,
			NoShowVisits:         data.Stats.NoShowVisits,
			TotalSpentKopecks:    totalSpent,
			AverageBillKopecks:   averageBill,
			FirstVisit:           c.parseOptionalDate("firstVisitDate", data.Stats.FirstVisitDate, clientID),
			LastVisit:            c.parseOptionalDate("lastVisitDate", data.Stats.LastVisitDate, clientID),
			FavoriteService:      data.Stats.FavoriteService,
			FavoriteServiceCount: data.Stats.FavoriteServiceCount,
			AttendanceRate:       data.Stats.AttendanceRate,
		},
	}

	for _, dto := range data.RecentAppointments {
		appt, err := dto.toDomain()
		if err != nil {
			c.log.Warn("skipping recent appointment record",
				slog.Int64("appointment_id", dto.ID), slog.Any("err", err))
			continue
		}
		profile.Recent = append(profile.Recent, appt)
	}
	for _, dto := range data.UpcomingAppointments {
		appt, err := dto.toDomain()
		if err != nil {
			c.log.Warn("skipping upcoming appointment record",
				slog.Int64("appointment_id", dto.ID), slog.Any("err", err))
			continue
		}
		profile.Upcoming = append(profile.Upcoming, appt)
	}

	return profile, nil
}

type updateClientBody struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`
	BirthDate *string `json:"birthDate"`
	Notes     *string `json:"notes"`
}

func (c *Client) UpdateClient(ctx context.Context, clientID int64, update store.ClientUpdate) error {
	body := updateClientBody{
		FirstName: update.FirstName,
		LastName:  update.LastName,
		Phone:     update.Phone,
		Notes:     update.Notes,
	}
	if update.BirthDate != nil {
		formatted := domain.FormatAPIDate(*update.BirthDate)
		body.BirthDate = &formatted
	}
	path := fmt.Sprintf("/api/clients/%d", clientID)
	return c.mutate(ctx, "update client", http.MethodPut, path, nil, body)
}

type createAppointmentBody struct {
	ServiceID int64   `json:"serviceId"`
	StartTime string  `json:"startTime"`
	Notes     *string `json:"notes"`
}

func (c *Client) CreateAppointmentForClient(ctx context.Context, clientID, serviceID int64, date domain.CalendarDate, start domain.TimeOfDay, notes string) error {
	body := createAppointmentBody{
		ServiceID: serviceID,
		StartTime: domain.FormatAPIDateTime(date, start),
	}
	if notes != "" {
		body.Notes = &notes
	}
	path := fmt.Sprintf("/api/clients/%d/appointments", clientID)
	return c.mutate(ctx, "create appointment", http.MethodPost, path, nil, body)
}

type serviceDTO struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	DurationMinutes int         `json:"durationMinutes"`
	Price           json.Number `json:"price"`
	Category        string      `json:"category"`
	IsActive        *bool       `json:"isActive"`
}

func (c *Client) ServiceCatalog(ctx context.Context) ([]store.Service, error) {
	var data []serviceDTO
	if err := c.get(ctx, "service catalog", "/api/services", nil, &data); err != nil {
		return nil, err
	}

	out := make([]store.Service, 0, len(data))
	for _, dto := range data {
		price, err := kopecksFromNumber(dto.Price)
		if err != nil {
			c.log.Warn("skipping service record",
				slog.Int64("service_id", dto.ID), slog.Any("err", err))
			continue
		}
		active := true
		if dto.IsActive != nil {
			active = *dto.IsActive
		}
		out = append(out, store.Service{
			ID:              dto.ID,
			Name:            dto.Name,
			Description:     dto.Description,
			DurationMinutes: dto.DurationMinutes,
			PriceKopecks:    price,
			Category:        dto.Category,
			Active:          active,
		})
	}
	return out, nil
}
