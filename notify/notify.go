package notify

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

//go:generate mockgen -source=notify.go -destination=mocks/notify_mock.go -package=mocks

type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventAdminAlert       EventType = "booking.admin_alert"
	EventBookingConfirmed EventType = "booking.confirmed"
	EventBookingCancelled EventType = "booking.cancelled"
	EventBookingCompleted EventType = "booking.completed"
	EventBookingReminder  EventType = "booking.reminder"
)

type Recipient struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Event describes a booking change to be delivered to a person. The mail
// service renders it from Type and the booking details.
type Event struct {
	Type             EventType `json:"type"`
	Subject          string    `json:"subject"`
	Recipient        Recipient `json:"recipient"`
	BookingID        string    `json:"booking_id"`
	BookedBy         string    `json:"booked_by"`
	FieldID          string    `json:"field_id"`
	FieldName        string    `json:"field_name"`
	AcademyID        string    `json:"academy_id"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	TotalCost        string    `json:"total_cost"`
	Status           string    `json:"status"`
	CancelledByAdmin bool      `json:"cancelled_by_admin,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}

type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Multi delivers to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, event Event) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "notify").Logger()}
}

func (l *LogNotifier) Notify(_ context.Context, event Event) error {
	l.logger.Info().
		Str("type", string(event.Type)).
		Str("booking_id", event.BookingID).
		Str("recipient", event.Recipient.Email).
		Msg(event.Subject)
	return nil
}
