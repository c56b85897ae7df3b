package booking

import (
	"strconv"
	"time"
)

const (
	msgEndBeforeStart   = "End time must be after start time."
	msgFieldUnavailable = "This field is not available for booking."
)

// Policy holds the booking rules. The cancel and modify windows are always
// reported through CanCancel and CanModify; they only reject actions when the
// matching Enforce flag is set.
type Policy struct {
	MinDuration         time.Duration
	MaxDuration         time.Duration
	AdvanceHorizon      time.Duration
	CancelCutoff        time.Duration
	ModifyCutoff        time.Duration
	EnforceCancelWindow bool
	EnforceModifyWindow bool
	OpeningHour         int
	ClosingHour         int
	MaxSuggestions      int
	Location            *time.Location
}

func DefaultPolicy() Policy {
	return Policy{
		MinDuration:    time.Hour,
		MaxDuration:    8 * time.Hour,
		AdvanceHorizon: 90 * 24 * time.Hour,
		CancelCutoff:   2 * time.Hour,
		ModifyCutoff:   4 * time.Hour,
		OpeningHour:    8,
		ClosingHour:    22,
		MaxSuggestions: 3,
		Location:       time.UTC,
	}
}

// ValidateWindow checks a proposed window against the duration and horizon rules.
func (p Policy) ValidateWindow(start, end, now time.Time) error {
	if !end.After(start) {
		return invalid(msgEndBeforeStart)
	}

	duration := end.Sub(start)

	if duration < p.MinDuration {
		return invalid("Minimum booking duration is %s.", humanize(p.MinDuration))
	}

	if duration > p.MaxDuration {
		return invalid("Maximum booking duration is %s.", humanize(p.MaxDuration))
	}

	if !start.After(now) {
		return invalid("Booking start time must be in the future.")
	}

	if start.After(now.Add(p.AdvanceHorizon)) {
		return invalid("Bookings can only be made up to %d days in advance.", int(p.AdvanceHorizon.Hours()/24))
	}

	return nil
}

func (p Policy) CanCancel(b Booking, now time.Time) bool {
	return !b.Status.Terminal() && now.Before(b.StartTime.Add(-p.CancelCutoff))
}

func (p Policy) CanModify(b Booking, now time.Time) bool {
	return b.Status == StatusPending && now.Before(b.StartTime.Add(-p.ModifyCutoff))
}

// HoursPerDay is the operating window length used as the available capacity of a field.
func (p Policy) HoursPerDay() float64 {
	return float64(p.ClosingHour - p.OpeningHour)
}

func (p Policy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

func humanize(d time.Duration) string {
	h := d.Hours()
	switch {
	case h == 1:
		return "1 hour"
	case h == float64(int(h)):
		return strconv.Itoa(int(h)) + " hours"
	}
	return d.String()
}
