package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"salon/timeline/internal/config"
	"salon/timeline/internal/domain"
	"salon/timeline/internal/store/salonapi"
	"salon/timeline/internal/timeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})).With(
		slog.String("service", "salon-timeline"),
	)
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	log = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)})).With(
		slog.String("service", "salon-timeline"),
	)
	slog.SetDefault(log)

	start := domain.DateOf(time.Now())
	if cfg.StartDate != "" {
		start, err = domain.ParseCalendarDate(cfg.StartDate)
		if err != nil {
			log.Error("invalid start date", slog.String("start_date", cfg.StartDate), slog.Any("err", err))
			os.Exit(1)
		}
	}

	client, err := salonapi.New(salonapi.Config{
		BaseURL: cfg.APIBaseURL,
		Token:   func() string { return cfg.APIToken },
		Timeout: cfg.APITimeout,
	}, log)
	if err != nil {
		log.Error("api client setup failed", slog.Any("err", err))
		os.Exit(1)
	}

	onSessionInvalid := func() {
		log.Error("session invalid; set SALON_API_TOKEN to a fresh token")
	}
	tl := timeline.New(client, onSessionInvalid, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("loading timeline",
		slog.String("base_url", cfg.APIBaseURL),
		slog.String("start", start.String()),
		slog.Int("span_days", cfg.SpanDays))

	if err := tl.SetWindow(ctx, start, cfg.SpanDays); err != nil {
		os.Exit(1)
	}

	printSnapshot(os.Stdout, tl.Snapshot(), time.Now())
}

func printSnapshot(w *os.File, snap timeline.Snapshot, now time.Time) {
	window := snap.Window
	fmt.Fprintf(w, "Schedule %s — %s (%d days)\n",
		domain.FormatAPIDate(window.StartDate), domain.FormatAPIDate(window.EndDate()), window.SpanDays)
	fmt.Fprintf(w, "Appointments: %d total | %d confirmed | %d pending | %d completed | %d cancelled\n\n",
		snap.Stats.TotalAppointments, snap.Stats.ConfirmedCount, snap.Stats.PendingCount,
		snap.Stats.CompletedCount, snap.Stats.CancelledCount)

	for _, day := range snap.Days {
		marker := ""
		if day.Date.IsToday(now) {
			marker = "  <- today"
		}
		fmt.Fprintf(w, "%s %s%s\n", day.Date.DayName(), domain.FormatAPIDate(day.Date), marker)

		if day.Window.IsWorkingDay {
			fmt.Fprintf(w, "  working %s - %s\n", day.Window.Start, day.Window.End)
		} else {
			fmt.Fprintln(w, "  closed")
		}

		for _, b := range day.Blocks {
			reason := b.Reason
			if reason == "" {
				reason = "blocked"
			}
			fmt.Fprintf(w, "  [%s - %s] %s\n", b.Start, b.End, reason)
		}
		for _, a := range day.Appointments {
			fmt.Fprintf(w, "  %s - %s  %s, %s (%s, %s)\n",
				a.Start, a.End, a.Client.FirstName, a.Service.Name,
				strings.ToLower(string(a.Status)), formatRubles(a.Service.PriceKopecks))
		}
		if len(day.Blocks) == 0 && len(day.Appointments) == 0 {
			fmt.Fprintln(w, "  no entries")
		}
		fmt.Fprintln(w)
	}
}

func formatRubles(kopecks int64) string {
	if kopecks%100 == 0 {
		return fmt.Sprintf("%d rub", kopecks/100)
	}
	return fmt.Sprintf("%d.%02d rub", kopecks/100, kopecks%100)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
