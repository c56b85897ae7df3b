package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/kickoff-academy/field-booking-backend/account"
	"github.com/kickoff-academy/field-booking-backend/field"
	"github.com/kickoff-academy/field-booking-backend/notify"
)

type ReminderReport struct {
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
	DryRun      bool      `json:"dry_run"`
	Sent        int       `json:"sent"`
	Failed      int       `json:"failed"`
	Bookings    []string  `json:"bookings"`
}

// SendReminder sends a reminder for a confirmed upcoming booking on demand.
// Unlike lifecycle notifications a delivery failure is returned.
func (s *Service) SendReminder(ctx context.Context, caller account.User, id string) error {
	b, f, err := s.load(ctx, id)

	if err != nil {
		return err
	}

	if !s.canAct(caller, b, f) {
		return ErrNotAllowed
	}

	if b.Status != StatusConfirmed {
		return invalid("Can only send reminders for confirmed bookings.")
	}

	if !b.StartTime.After(s.now()) {
		return invalid("Cannot send reminder for past bookings.")
	}

	if err := s.sendReminder(ctx, b, f); err != nil {
		s.logger.Error().Err(err).Str("booking_id", b.ID).Msg("failed to send reminder")
		return fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}

	s.logger.Info().Str("booking_id", b.ID).Str("user_id", caller.ID).Msg("reminder sent")

	return nil
}

// SendDueReminders reminds the customers of confirmed bookings starting
// within the hour that ends hoursAhead hours from now. With dryRun the
// matching bookings are only reported.
func (s *Service) SendDueReminders(ctx context.Context, hoursAhead int, dryRun bool) (ReminderReport, error) {
	if hoursAhead < 1 {
		return ReminderReport{}, invalid("Reminder lead time must be at least 1 hour.")
	}

	now := s.now()
	report := ReminderReport{
		WindowStart: now.Add(time.Duration(hoursAhead-1) * time.Hour),
		WindowEnd:   now.Add(time.Duration(hoursAhead) * time.Hour),
		DryRun:      dryRun,
		Bookings:    []string{},
	}

	due, err := s.repo.ListBookings(ctx, Query{
		Statuses:    []Status{StatusConfirmed},
		StartFrom:   report.WindowStart,
		StartBefore: report.WindowEnd,
	})

	if err != nil {
		return ReminderReport{}, err
	}

	s.logger.Info().Int("count", len(due)).Bool("dry_run", dryRun).Msg("bookings due for reminder")

	for _, b := range due {
		report.Bookings = append(report.Bookings, b.ID)

		if dryRun {
			continue
		}

		f, err := s.fields.GetField(ctx, b.FieldID)

		if err == nil {
			err = s.sendReminder(ctx, b, f)
		}

		if err != nil {
			report.Failed++
			s.metrics.ReminderProcessed(false)
			s.logger.Error().Err(err).Str("booking_id", b.ID).Msg("failed to send reminder")
			continue
		}

		report.Sent++
		s.metrics.ReminderProcessed(true)
	}

	return report, nil
}

func (s *Service) sendReminder(ctx context.Context, b Booking, f field.Field) error {
	if s.notifier == nil {
		return nil
	}

	customer := s.customer(ctx, b)
	return s.notifier.Notify(ctx, s.event(notify.EventBookingReminder, b, f, customer, customer, "Booking Reminder - "+f.Name))
}
