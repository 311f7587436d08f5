package store

import (
	"context"

	"salon/timeline/internal/domain"
)

// Service is a catalog entry offered for booking.
type Service struct {
	ID              int64
	Name            string
	Description     string
	DurationMinutes int
	PriceKopecks    int64
	Category        string
	Active          bool
}

// ClientInfo is a client's identity as shown in the profile view.
type ClientInfo struct {
	ID           int64
	FirstName    string
	LastName     string
	Phone        string
	Email        string
	BirthDate    *domain.CalendarDate
	Notes        string
	RegisteredAt *domain.CalendarDate
	VIP          bool
}

// ClientStats are the server-computed visit statistics. Money values are
// integer kopecks, AttendanceRate is a percentage.
type ClientStats struct {
	TotalVisits          int
	CancelledVisits      int
	NoShowVisits         int
	TotalSpentKopecks    int64
	AverageBillKopecks   int64
	FirstVisit           *domain.CalendarDate
	LastVisit            *domain.CalendarDate
	FavoriteService      string
	FavoriteServiceCount int
	AttendanceRate       float64
}

// ClientProfile is one coherent snapshot of a client for the detail view.
// It is a value: a later failed fetch cannot corrupt an already-held profile.
type ClientProfile struct {
	Client   ClientInfo
	Stats    ClientStats
	Recent   []domain.Appointment
	Upcoming []domain.Appointment
}

// ClientUpdate carries edited profile fields. Nil means "clear the field",
// matching the backend contract where absent values null out the column.
type ClientUpdate struct {
	FirstName *string
	LastName  *string
	Phone     *string
	BirthDate *domain.CalendarDate
	Notes     *string
}

type ClientSource interface {
	ClientDetails(ctx context.Context, clientID int64) (ClientProfile, error)
	UpdateClient(ctx context.Context, clientID int64, update ClientUpdate) error
	CreateAppointmentForClient(ctx context.Context, clientID, serviceID int64, date domain.CalendarDate, start domain.TimeOfDay, notes string) error
	ServiceCatalog(ctx context.Context) ([]Service, error)
}
