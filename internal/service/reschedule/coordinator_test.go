package reschedule

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"salon/timeline/internal/domain"
	"salon/timeline/internal/store"
)

type fakeMover struct {
	fn    func(ctx context.Context, appointmentID int64, date domain.CalendarDate, start domain.TimeOfDay) error
	calls int
}

func (f *fakeMover) MoveAppointment(ctx context.Context, appointmentID int64, date domain.CalendarDate, start domain.TimeOfDay) error {
	f.calls++
	if f.fn == nil {
		return nil
	}
	return f.fn(ctx, appointmentID, date, start)
}

type fakeRefresher struct {
	calls int
	err   error
}

func (f *fakeRefresher) Refresh(ctx context.Context) error {
	f.calls++
	return f.err
}

type fakePrompt struct {
	fn func(ctx context.Context, appointmentID int64, targetDate domain.CalendarDate) (domain.TimeOfDay, bool, error)
}

func (f *fakePrompt) RequestTime(ctx context.Context, appointmentID int64, targetDate domain.CalendarDate) (domain.TimeOfDay, bool, error) {
	return f.fn(ctx, appointmentID, targetDate)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func date(y int, m time.Month, d int) domain.CalendarDate {
	return domain.CalendarDate{Year: y, Month: m, Day: d}
}

func tod(h, m int) domain.TimeOfDay {
	return domain.TimeOfDay{Hour: h, Minute: m}
}

func TestDragDropConfirm_Success(t *testing.T) {
	target := date(2026, time.February, 20)
	var gotID int64
	var gotDate domain.CalendarDate
	var gotTime domain.TimeOfDay

	mover := &fakeMover{fn: func(ctx context.Context, id int64, d domain.CalendarDate, start domain.TimeOfDay) error {
		gotID, gotDate, gotTime = id, d, start
		return nil
	}}
	refresher := &fakeRefresher{}
	c := New(mover, refresher, nil, nil, testLogger())

	if !c.BeginDrag(42) {
		t.Fatal("BeginDrag from idle refused")
	}
	if c.State() != StateDragging {
		t.Fatalf("state = %v", c.State())
	}
	if !c.DropOnDay(target) {
		t.Fatal("DropOnDay refused")
	}
	if c.State() != StateAwaitingTimeInput {
		t.Fatalf("state = %v", c.State())
	}

	if err := c.ConfirmMove(context.Background(), target, tod(15, 0)); err != nil {
		t.Fatalf("ConfirmMove: %v", err)
	}
	if gotID != 42 || gotDate != target || gotTime != tod(15, 0) {
		t.Fatalf("move args = %d %v %v", gotID, gotDate, gotTime)
	}
	if refresher.calls != 1 {
		t.Fatalf("refresh calls = %d, want 1", refresher.calls)
	}
	if c.State() != StateIdle {
		t.Fatalf("state after move = %v, want idle", c.State())
	}
}

func TestConfirmMove_RejectedSurfacesMessageWithoutRefresh(t *testing.T) {
	mover := &fakeMover{fn: func(ctx context.Context, id int64, d domain.CalendarDate, start domain.TimeOfDay) error {
		return &store.MutationRejected{Op: "move appointment", Message: "slot already taken"}
	}}
	refresher := &fakeRefresher{}

	var surfaced string
	c := New(mover, refresher, nil, func(msg string) { surfaced = msg }, testLogger())

	c.BeginDrag(42)
	c.DropOnDay(date(2026, time.February, 20))

	err := c.ConfirmMove(context.Background(), date(2026, time.February, 20), tod(15, 0))
	var rejected *store.MutationRejected
	if !errors.As(err, &rejected) {
		t.Fatalf("err = %v, want rejection", err)
	}
	if surfaced != "slot already taken" {
		t.Fatalf("surfaced = %q, want the server message verbatim", surfaced)
	}
	if refresher.calls != 0 {
		t.Fatal("rejected move must not refresh the timeline")
	}
	if c.State() != StateIdle {
		t.Fatalf("state = %v, want idle", c.State())
	}

	// The interaction is fully reusable after a rejection.
	if !c.BeginDrag(43) {
		t.Fatal("BeginDrag after rejection refused")
	}
}

func TestBeginDrag_IgnoredWhileActive(t *testing.T) {
	c := New(&fakeMover{}, &fakeRefresher{}, nil, nil, testLogger())

	if !c.BeginDrag(1) {
		t.Fatal("first drag refused")
	}
	if c.BeginDrag(2) {
		t.Fatal("second drag accepted while one is active")
	}
	if id, ok := c.Dragged(); !ok || id != 1 {
		t.Fatalf("dragged = %d/%v, want 1", id, ok)
	}
}

func TestBeginDrag_IgnoredWhileSubmitting(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	mover := &fakeMover{fn: func(ctx context.Context, id int64, d domain.CalendarDate, start domain.TimeOfDay) error {
		close(entered)
		<-release
		return nil
	}}
	c := New(mover, &fakeRefresher{}, nil, nil, testLogger())

	c.BeginDrag(42)
	c.DropOnDay(date(2026, time.February, 20))

	done := make(chan error, 1)
	go func() {
		done <- c.ConfirmMove(context.Background(), date(2026, time.February, 20), tod(15, 0))
	}()
	<-entered

	if c.State() != StateSubmitting {
		t.Fatalf("state = %v, want submitting", c.State())
	}
	if c.BeginDrag(7) {
		t.Fatal("drag accepted while a move is submitting")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("ConfirmMove: %v", err)
	}
}

func TestCancelDrag(t *testing.T) {
	mover := &fakeMover{}
	c := New(mover, &fakeRefresher{}, nil, nil, testLogger())

	c.BeginDrag(42)
	c.CancelDrag()
	if c.State() != StateIdle {
		t.Fatalf("state = %v, want idle", c.State())
	}
	if mover.calls != 0 {
		t.Fatal("cancelled drag issued a move")
	}
	if c.DropOnDay(date(2026, time.February, 20)) {
		t.Fatal("DropOnDay accepted without an active drag")
	}
}

func TestConfirmMove_RequiresAwaitingInput(t *testing.T) {
	c := New(&fakeMover{}, &fakeRefresher{}, nil, nil, testLogger())
	if err := c.ConfirmMove(context.Background(), date(2026, time.February, 20), tod(15, 0)); err == nil {
		t.Fatal("ConfirmMove from idle should fail")
	}

	c.BeginDrag(42)
	if err := c.ConfirmMove(context.Background(), date(2026, time.February, 20), tod(15, 0)); err == nil {
		t.Fatal("ConfirmMove while dragging should fail")
	}
}

func TestPromptAndConfirm(t *testing.T) {
	target := date(2026, time.February, 20)

	t.Run("supplied value confirms", func(t *testing.T) {
		var gotTime domain.TimeOfDay
		mover := &fakeMover{fn: func(ctx context.Context, id int64, d domain.CalendarDate, start domain.TimeOfDay) error {
			gotTime = start
			return nil
		}}
		refresher := &fakeRefresher{}
		prompt := &fakePrompt{fn: func(ctx context.Context, id int64, d domain.CalendarDate) (domain.TimeOfDay, bool, error) {
			if id != 42 || d != target {
				t.Fatalf("prompt args = %d %v", id, d)
			}
			return tod(16, 30), true, nil
		}}
		c := New(mover, refresher, prompt, nil, testLogger())

		c.BeginDrag(42)
		c.DropOnDay(target)
		if err := c.PromptAndConfirm(context.Background()); err != nil {
			t.Fatalf("PromptAndConfirm: %v", err)
		}
		if gotTime != tod(16, 30) {
			t.Fatalf("move time = %v", gotTime)
		}
		if refresher.calls != 1 {
			t.Fatalf("refresh calls = %d", refresher.calls)
		}
	})

	t.Run("abandoned prompt cancels", func(t *testing.T) {
		mover := &fakeMover{}
		prompt := &fakePrompt{fn: func(ctx context.Context, id int64, d domain.CalendarDate) (domain.TimeOfDay, bool, error) {
			return domain.TimeOfDay{}, false, nil
		}}
		c := New(mover, &fakeRefresher{}, prompt, nil, testLogger())

		c.BeginDrag(42)
		c.DropOnDay(target)
		if err := c.PromptAndConfirm(context.Background()); err != nil {
			t.Fatalf("abandoned prompt is not an error: %v", err)
		}
		if mover.calls != 0 {
			t.Fatal("abandoned prompt issued a move")
		}
		if c.State() != StateIdle {
			t.Fatalf("state = %v, want idle", c.State())
		}
	})

	t.Run("prompt failure resets", func(t *testing.T) {
		mover := &fakeMover{}
		prompt := &fakePrompt{fn: func(ctx context.Context, id int64, d domain.CalendarDate) (domain.TimeOfDay, bool, error) {
			return domain.TimeOfDay{}, false, errors.New("input closed")
		}}
		c := New(mover, &fakeRefresher{}, prompt, nil, testLogger())

		c.BeginDrag(42)
		c.DropOnDay(target)
		if err := c.PromptAndConfirm(context.Background()); err == nil {
			t.Fatal("prompt failure should propagate")
		}
		if mover.calls != 0 {
			t.Fatal("failed prompt issued a move")
		}
		if c.State() != StateIdle {
			t.Fatalf("state = %v, want idle", c.State())
		}
	})
}
