// Command reminders sends reminders for confirmed bookings starting in the
// hour before the lead time elapses. Run it hourly from cron.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kickoff-academy/field-booking-backend/app"
	"github.com/kickoff-academy/field-booking-backend/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

func main() {
	hours := flag.Int("hours", 24, "send reminders for bookings starting this many hours ahead")
	dryRun := flag.Bool("dry-run", false, "list due bookings without sending")
	flag.Parse()

	if err := run(*hours, *dryRun); err != nil {
		zerolog.New(os.Stderr).With().Timestamp().Str("component", "reminders").Logger().
			Error().Err(err).Msg("exiting")
		os.Exit(1)
	}
}

func run(hours int, dryRun bool) error {
	cfg, err := config.Load()

	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := app.NewLogger(cfg).With().Str("component", "reminders").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger, prometheus.NewRegistry())

	if err != nil {
		return fmt.Errorf("start: %w", err)
	}

	defer a.Close()

	report, err := a.Bookings.SendDueReminders(ctx, hours, dryRun)

	if err != nil {
		return fmt.Errorf("send reminders: %w", err)
	}

	logger.Info().
		Time("window_start", report.WindowStart).
		Time("window_end", report.WindowEnd).
		Bool("dry_run", report.DryRun).
		Int("sent", report.Sent).
		Int("failed", report.Failed).
		Strs("bookings", report.Bookings).
		Msg("reminders processed")

	return nil
}
