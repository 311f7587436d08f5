package clients

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"salon/timeline/internal/domain"
	"salon/timeline/internal/store"
)

const defaultPhoneRegion = "RU"

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// Refresher re-fetches the timeline after a client mutation so the calendar
// reflects the change.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Aggregator assembles client-profile snapshots and runs the two profile
// mutations. Snapshots are values; a failed fetch can never corrupt a
// profile the caller already holds.
type Aggregator struct {
	src      store.ClientSource
	timeline Refresher
	log      *slog.Logger
}

func New(src store.ClientSource, timeline Refresher, log *slog.Logger) *Aggregator {
	if log == nil {
		log = slog.Default()
	}
	return &Aggregator{
		src:      src,
		timeline: timeline,
		log:      log.With(slog.String("component", "clients")),
	}
}

// Profile fetches one coherent snapshot: identity, computed statistics, and
// the past/upcoming appointment lists.
func (a *Aggregator) Profile(ctx context.Context, clientID int64) (store.ClientProfile, error) {
	if clientID <= 0 {
		return store.ClientProfile{}, validationError("client id is required")
	}
	profile, err := a.src.ClientDetails(ctx, clientID)
	if err != nil {
		a.log.Warn("profile fetch failed",
			slog.Int64("client_id", clientID), slog.Any("err", err))
		return store.ClientProfile{}, err
	}
	return profile, nil
}

// Services lists the catalog for the appointment-creation form.
func (a *Aggregator) Services(ctx context.Context) ([]store.Service, error) {
	return a.src.ServiceCatalog(ctx)
}

// UpdateClient normalizes the edited fields, submits them, and on success
// refreshes the timeline. On failure the caller keeps its form state; no
// local data was touched.
func (a *Aggregator) UpdateClient(ctx context.Context, clientID int64, update store.ClientUpdate) error {
	if clientID <= 0 {
		return validationError("client id is required")
	}
	if update.FirstName != nil && strings.TrimSpace(*update.FirstName) == "" {
		return validationError("first name cannot be blank")
	}
	if update.Phone != nil {
		normalized, err := normalizePhone(*update.Phone)
		if err != nil {
			return err
		}
		update.Phone = &normalized
	}

	if err := a.src.UpdateClient(ctx, clientID, update); err != nil {
		return err
	}

	a.refresh(ctx, "update client", clientID)
	return nil
}

// CreateAppointment books a service for the client and refreshes the
// timeline on success.
func (a *Aggregator) CreateAppointment(ctx context.Context, clientID, serviceID int64, date domain.CalendarDate, start domain.TimeOfDay, notes string) error {
	if clientID <= 0 {
		return validationError("client id is required")
	}
	if serviceID <= 0 {
		return validationError("service id is required")
	}
	if date.IsZero() {
		return validationError("date is required")
	}

	if err := a.src.CreateAppointmentForClient(ctx, clientID, serviceID, date, start, notes); err != nil {
		return err
	}

	a.refresh(ctx, "create appointment", clientID)
	return nil
}

// refresh is best-effort: the mutation already succeeded server-side, and a
// failed reload surfaces through the timeline store's own state.
func (a *Aggregator) refresh(ctx context.Context, op string, clientID int64) {
	if err := a.timeline.Refresh(ctx); err != nil {
		a.log.Warn("timeline refresh failed after mutation",
			slog.String("op", op), slog.Int64("client_id", clientID), slog.Any("err", err))
	}
}

func normalizePhone(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", validationError("phone cannot be blank")
	}
	num, err := phonenumbers.Parse(trimmed, defaultPhoneRegion)
	if err != nil {
		return "", validationError("invalid phone number")
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", validationError("invalid phone number")
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
