package reschedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"salon/timeline/internal/domain"
	"salon/timeline/internal/store"
)

type State int

const (
	StateIdle State = iota
	StateDragging
	StateAwaitingTimeInput
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateAwaitingTimeInput:
		return "awaiting_time_input"
	case StateSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// Mover is the one mutation the coordinator issues.
type Mover interface {
	MoveAppointment(ctx context.Context, appointmentID int64, date domain.CalendarDate, start domain.TimeOfDay) error
}

// Refresher re-fetches the timeline window after a confirmed move.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// TimePrompt collects a target time-of-day from the user. ok=false means the
// input was abandoned; that is a cancellation, not an error.
type TimePrompt interface {
	RequestTime(ctx context.Context, appointmentID int64, targetDate domain.CalendarDate) (t domain.TimeOfDay, ok bool, err error)
}

// Coordinator drives the drag-to-reschedule interaction. Only the dragged
// appointment's id is carried between steps; at most one move is in flight
// at a time.
type Coordinator struct {
	mover    Mover
	timeline Refresher
	prompt   TimePrompt
	onError  func(message string)
	log      *slog.Logger

	mu         sync.Mutex
	state      State
	apptID     int64
	targetDate domain.CalendarDate
}

func New(mover Mover, timeline Refresher, prompt TimePrompt, onError func(string), log *slog.Logger) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{
		mover:    mover,
		timeline: timeline,
		prompt:   prompt,
		onError:  onError,
		log:      log.With(slog.String("component", "reschedule")),
	}
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dragged returns the appointment currently carried by the interaction, if
// any.
func (c *Coordinator) Dragged() (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateIdle {
		return 0, false
	}
	return c.apptID, true
}

// BeginDrag starts a drag from Idle. A drag begun while a move is still
// submitting (or another drag is active) is ignored so two moves can never
// race on the same appointment.
func (c *Coordinator) BeginDrag(appointmentID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		c.log.Debug("drag ignored",
			slog.Int64("appointment_id", appointmentID),
			slog.String("state", c.state.String()))
		return false
	}
	c.state = StateDragging
	c.apptID = appointmentID
	return true
}

// CancelDrag abandons an active drag without side effects.
func (c *Coordinator) CancelDrag() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateDragging {
		c.reset()
	}
}

// DropOnDay lands the drag on a target day and waits for a time input.
func (c *Coordinator) DropOnDay(targetDate domain.CalendarDate) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateDragging {
		return false
	}
	c.state = StateAwaitingTimeInput
	c.targetDate = targetDate
	return true
}

// CancelInput abandons the time input and returns to Idle, no side effects.
func (c *Coordinator) CancelInput() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateAwaitingTimeInput {
		c.reset()
	}
}

// ConfirmMove submits the move. On success the timeline is fully refreshed;
// on rejection the server's message is surfaced and nothing changes locally,
// because no optimistic mutation was ever applied.
func (c *Coordinator) ConfirmMove(ctx context.Context, targetDate domain.CalendarDate, targetTime domain.TimeOfDay) error {
	c.mu.Lock()
	if c.state != StateAwaitingTimeInput {
		c.mu.Unlock()
		return fmt.Errorf("no move awaiting confirmation")
	}
	apptID := c.apptID
	c.state = StateSubmitting
	c.mu.Unlock()

	err := c.mover.MoveAppointment(ctx, apptID, targetDate, targetTime)

	c.mu.Lock()
	c.reset()
	c.mu.Unlock()

	if err != nil {
		c.surface(apptID, err)
		return err
	}

	c.log.Info("appointment moved",
		slog.Int64("appointment_id", apptID),
		slog.String("date", targetDate.String()),
		slog.String("time", targetTime.String()))
	return c.timeline.Refresh(ctx)
}

// PromptAndConfirm runs the awaiting-input step through the injected prompt:
// a supplied value confirms the move, an abandoned prompt cancels it.
func (c *Coordinator) PromptAndConfirm(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateAwaitingTimeInput {
		c.mu.Unlock()
		return fmt.Errorf("no move awaiting time input")
	}
	apptID := c.apptID
	targetDate := c.targetDate
	c.mu.Unlock()

	t, ok, err := c.prompt.RequestTime(ctx, apptID, targetDate)
	if err != nil {
		c.mu.Lock()
		c.reset()
		c.mu.Unlock()
		return err
	}
	if !ok {
		c.CancelInput()
		return nil
	}
	return c.ConfirmMove(ctx, targetDate, t)
}

// reset must be called with the lock held.
func (c *Coordinator) reset() {
	c.state = StateIdle
	c.apptID = 0
	c.targetDate = domain.CalendarDate{}
}

func (c *Coordinator) surface(apptID int64, err error) {
	message := err.Error()
	var rejected *store.MutationRejected
	if errors.As(err, &rejected) {
		message = rejected.Message
	}
	c.log.Warn("move failed",
		slog.Int64("appointment_id", apptID), slog.Any("err", err))
	if c.onError != nil {
		c.onError(message)
	}
}
