package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

var microsPerHour = decimal.NewFromInt(int64(time.Hour / time.Microsecond))

// CalculateTotalCost prices [start, end) at the hourly rate, rounded to cents
// with banker's rounding.
func CalculateTotalCost(hourlyRate decimal.Decimal, start, end time.Time) decimal.Decimal {
	micros := decimal.NewFromInt(end.Sub(start).Microseconds())
	return hourlyRate.Mul(micros).Div(microsPerHour).RoundBank(2)
}
