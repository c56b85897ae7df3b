package booking

import (
	"context"
	"errors"

	"github.com/kickoff-academy/field-booking-backend/account"
	"github.com/kickoff-academy/field-booking-backend/field"
	"github.com/kickoff-academy/field-booking-backend/notify"
)

func (s *Service) event(t notify.EventType, b Booking, f field.Field, recipient, customer account.User, subject string) notify.Event {
	return notify.Event{
		Type:    t,
		Subject: subject,
		Recipient: notify.Recipient{
			ID:    recipient.ID,
			Email: recipient.Email,
			Name:  recipient.DisplayName(),
		},
		BookingID:  b.ID,
		BookedBy:   customer.DisplayName(),
		FieldID:    f.ID,
		FieldName:  f.Name,
		AcademyID:  f.AcademyID,
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
		TotalCost:  b.TotalCost.StringFixed(2),
		Status:     string(b.Status),
		OccurredAt: s.now(),
	}
}

// notify delivers best-effort: failures are counted and logged, never returned.
func (s *Service) notify(ctx context.Context, e notify.Event) {
	if s.notifier == nil {
		return
	}

	if err := s.notifier.Notify(ctx, e); err != nil {
		s.metrics.NotificationFailed(string(e.Type))
		s.logger.Error().
			Err(err).
			Str("type", string(e.Type)).
			Str("booking_id", e.BookingID).
			Msg("failed to send notification")
		return
	}

	s.logger.Debug().
		Str("type", string(e.Type)).
		Str("booking_id", e.BookingID).
		Str("recipient", e.Recipient.Email).
		Msg("notification sent")
}

func (s *Service) alertAcademyAdmin(ctx context.Context, b Booking, f field.Field, customer account.User) {
	admin, err := s.users.AcademyAdmin(ctx, f.AcademyID)

	if errors.Is(err, account.ErrUserNotFound) {
		s.logger.Warn().Str("academy_id", f.AcademyID).Str("booking_id", b.ID).Msg("no active academy admin to notify")
		return
	}

	if err != nil {
		s.logger.Error().Err(err).Str("academy_id", f.AcademyID).Msg("failed to look up academy admin")
		return
	}

	s.notify(ctx, s.event(notify.EventAdminAlert, b, f, admin, customer, "New Field Booking - "+f.Name))
}

// customer resolves the booking owner for notifications, falling back to the
// bare id when the directory cannot.
func (s *Service) customer(ctx context.Context, b Booking) account.User {
	u, err := s.users.GetUser(ctx, b.BookedBy)

	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", b.BookedBy).Msg("failed to resolve booking owner")
		return account.User{ID: b.BookedBy}
	}

	return u
}
