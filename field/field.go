package field

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeFootball   Type = "football"
	TypeBasketball Type = "basketball"
	TypeVolleyball Type = "volleyball"
	TypeTennis     Type = "tennis"
)

func (t Type) Valid() bool {
	switch t {
	case TypeFootball, TypeBasketball, TypeVolleyball, TypeTennis:
		return true
	}
	return false
}

type Field struct {
	ID          string          `json:"id"`
	AcademyID   string          `json:"academy"`
	Name        string          `json:"name"`
	Type        Type            `json:"field_type"`
	Capacity    int             `json:"capacity"`
	HourlyRate  decimal.Decimal `json:"hourly_rate"`
	Facilities  map[string]any  `json:"facilities"`
	IsAvailable bool            `json:"is_available"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Bookable reports whether new bookings may be placed on the field.
// is_available marks temporary closures, is_active soft deletion.
func (f Field) Bookable() bool {
	return f.IsActive && f.IsAvailable
}
