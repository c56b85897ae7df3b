package booking

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var AllStatuses = []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}

// CompetingStatuses hold a field's time slot.
var CompetingStatuses = []Status{StatusPending, StatusConfirmed}

// BilledStatuses count towards utilization and revenue.
var BilledStatuses = []Status{StatusConfirmed, StatusCompleted}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Competes() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// Booking reserves a field for [StartTime, EndTime). IsActive is administrative
// visibility and is unrelated to the Status lifecycle.
type Booking struct {
	ID        string          `json:"id"`
	FieldID   string          `json:"field"`
	BookedBy  string          `json:"booked_by"`
	StartTime time.Time       `json:"start_time"`
	EndTime   time.Time       `json:"end_time"`
	TotalCost decimal.Decimal `json:"total_cost"`
	Status    Status          `json:"status"`
	Notes     string          `json:"notes"`
	MatchID   *string         `json:"match,omitempty"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (b Booking) Duration() time.Duration {
	return b.EndTime.Sub(b.StartTime)
}

func (b Booking) DurationHours() float64 {
	return b.Duration().Hours()
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
