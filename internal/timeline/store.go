package timeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"salon/timeline/internal/domain"
	"salon/timeline/internal/store"
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateError
	StateLoggedOut
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	case StateLoggedOut:
		return "logged_out"
	default:
		return "unknown"
	}
}

// Snapshot is the surface handed to the rendering collaborator. It is a
// value; the store never mutates data a snapshot points at.
type Snapshot struct {
	State  State
	Window domain.TimelineWindow
	Days   []domain.DayDescriptor
	Stats  domain.TimelineStats
	Err    string
}

// Store owns the visible window, the last merged descriptor sequence, and
// the load state machine. There is no incremental update path: every change
// of window or server-side data leads to a full re-fetch and a wholesale
// rebuild of the descriptors.
type Store struct {
	src              store.ScheduleSource
	onSessionInvalid func()
	log              *slog.Logger
	now              func() time.Time

	mu         sync.Mutex
	generation uint64
	state      State
	window     domain.TimelineWindow
	days       []domain.DayDescriptor
	stats      domain.TimelineStats
	errMsg     string
}

// New builds a store around a schedule source. onSessionInvalid is invoked
// (outside the store's lock) when a fetch reports an invalid session; nil is
// allowed.
func New(src store.ScheduleSource, onSessionInvalid func(), log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		src:              src,
		onSessionInvalid: onSessionInvalid,
		log:              log.With(slog.String("component", "timeline.store")),
		now:              time.Now,
		state:            StateIdle,
	}
}

// SetWindow loads [start, start+span) from scratch. The three range fetches
// run concurrently and are joined before the merge; if any fails, no partial
// window is ever shown. A SetWindow issued while another is in flight
// supersedes it: the stale call's results are discarded on arrival, whatever
// order the responses land in.
func (s *Store) SetWindow(ctx context.Context, start domain.CalendarDate, spanDays int) error {
	window := domain.TimelineWindow{StartDate: start, SpanDays: spanDays}
	if err := window.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.state = StateLoading
	s.window = window
	s.mu.Unlock()

	s.log.Info("loading window",
		slog.String("start", window.StartDate.String()),
		slog.Int("span_days", window.SpanDays))

	var (
		appts   []domain.Appointment
		windows []domain.DayWindow
		blocks  []domain.BlockedInterval
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		appts, err = s.src.AppointmentsByRange(gctx, window.StartDate, window.SpanDays)
		return err
	})
	g.Go(func() error {
		var err error
		windows, err = s.src.AvailabilityByRange(gctx, window.StartDate, window.EndDate())
		return err
	})
	g.Go(func() error {
		var err error
		blocks, err = s.src.BlocksByRange(gctx, window.StartDate, window.EndDate())
		return err
	})
	err := g.Wait()

	var sessionInvalid bool

	s.mu.Lock()
	if gen != s.generation {
		// A newer SetWindow superseded this load; its result wins.
		s.mu.Unlock()
		s.log.Debug("discarding superseded window load",
			slog.String("start", window.StartDate.String()))
		return nil
	}
	if err != nil {
		s.days = nil
		s.stats = domain.TimelineStats{}
		if store.IsAuth(err) {
			s.state = StateLoggedOut
			s.errMsg = ""
			sessionInvalid = true
		} else {
			s.state = StateError
			s.errMsg = err.Error()
		}
		s.mu.Unlock()

		if sessionInvalid {
			s.log.Warn("session invalid; handing off to auth")
			if s.onSessionInvalid != nil {
				s.onSessionInvalid()
			}
		} else {
			s.log.Error("window load failed", slog.Any("err", err))
		}
		return err
	}

	s.days = domain.BuildDayDescriptors(window, appts, windows, blocks)
	s.stats = domain.ComputeStats(s.days)
	s.state = StateReady
	s.errMsg = ""
	total := s.stats.TotalAppointments
	s.mu.Unlock()

	s.log.Info("window ready",
		slog.String("start", window.StartDate.String()),
		slog.Int("appointments", total))
	return nil
}

// Refresh reloads the current window. It is the only consistency mechanism
// after a successful mutation: local derived state is never trusted.
func (s *Store) Refresh(ctx context.Context) error {
	w := s.Window()
	if w.StartDate.IsZero() {
		return errors.New("no window set")
	}
	return s.SetWindow(ctx, w.StartDate, w.SpanDays)
}

func (s *Store) NextPage(ctx context.Context) error {
	w := s.Window().Next()
	return s.SetWindow(ctx, w.StartDate, w.SpanDays)
}

func (s *Store) PreviousPage(ctx context.Context) error {
	w := s.Window().Previous()
	return s.SetWindow(ctx, w.StartDate, w.SpanDays)
}

func (s *Store) Today(ctx context.Context) error {
	w := s.Window()
	span := w.SpanDays
	if span == 0 {
		span = 7
	}
	return s.SetWindow(ctx, domain.DateOf(s.now()), span)
}

func (s *Store) SetSpan(ctx context.Context, spanDays int) error {
	w := s.Window()
	return s.SetWindow(ctx, w.StartDate, spanDays)
}

// CreateAvailableDay marks a day as working with the given hours, then does
// a full refresh so the new window record is merged server-side, not locally.
func (s *Store) CreateAvailableDay(ctx context.Context, date domain.CalendarDate, workStart, workEnd domain.TimeOfDay) error {
	if !workStart.Before(workEnd) {
		return errors.New("work start must be before work end")
	}
	if err := s.src.CreateAvailableDay(ctx, date, workStart, workEnd); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *Store) Window() domain.TimelineWindow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:  s.state,
		Window: s.window,
		Days:   s.days,
		Stats:  s.stats,
		Err:    s.errMsg,
	}
}
