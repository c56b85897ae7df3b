package booking

import (
	"context"
	"slices"
	"time"
)

const (
	ReasonFieldUnavailable = "Field is not available for booking"
	ReasonConflict         = "Time slot conflicts with existing bookings"
	ReasonAvailable        = "Field is available for the requested time"
)

type Suggestion struct {
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	DurationHours float64   `json:"duration_hours"`
}

type Availability struct {
	Available   bool         `json:"available"`
	Conflicts   []Booking    `json:"conflicts"`
	Suggestions []Suggestion `json:"suggestions"`
	Reason      string       `json:"reason"`
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// dayBounds returns midnight to midnight of t's calendar day in t's location.
func dayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// SuggestSlots walks the operating window of start's day and proposes free
// slots of the requested duration between the day's bookings. Bookings are
// expected to start on that day and may be in any order.
func (p Policy) SuggestSlots(start time.Time, duration time.Duration, dayBookings []Booking) []Suggestion {
	suggestions := []Suggestion{}
	if p.MaxSuggestions <= 0 || duration <= 0 {
		return suggestions
	}

	y, m, d := start.Date()
	loc := start.Location()
	open := time.Date(y, m, d, p.OpeningHour, 0, 0, 0, loc)
	closing := time.Date(y, m, d, p.ClosingHour, 0, 0, 0, loc)

	sorted := slices.Clone(dayBookings)
	slices.SortStableFunc(sorted, func(a, b Booking) int { return a.StartTime.Compare(b.StartTime) })

	slot := func(at time.Time) Suggestion {
		at = at.In(loc)
		return Suggestion{StartTime: at, EndTime: at.Add(duration), DurationHours: duration.Hours()}
	}

	cursor := open
	for _, b := range sorted {
		if b.StartTime.After(cursor) && b.StartTime.Sub(cursor) >= duration {
			suggestions = append(suggestions, slot(cursor))

			if len(suggestions) >= p.MaxSuggestions {
				break
			}
		}

		if b.EndTime.After(cursor) {
			cursor = b.EndTime
		}
	}

	if len(suggestions) < p.MaxSuggestions && !cursor.Add(duration).After(closing) {
		suggestions = append(suggestions, slot(cursor))
	}

	return suggestions
}

// CheckAvailability reports whether [start, end) is free on a field and, on
// conflict, suggests alternative slots the same day. The day and the operating
// hours are those of the policy location. It takes no locks.
func (s *Service) CheckAvailability(ctx context.Context, fieldID string, start, end time.Time, excludeID string) (Availability, error) {
	if !start.Before(end) {
		return Availability{}, invalid(msgEndBeforeStart)
	}

	loc := s.policy.location()
	start, end = start.In(loc), end.In(loc)

	f, err := s.fields.GetField(ctx, fieldID)

	if err != nil {
		return Availability{}, err
	}

	if !f.Bookable() {
		return Availability{
			Available:   false,
			Conflicts:   []Booking{},
			Suggestions: []Suggestion{},
			Reason:      ReasonFieldUnavailable,
		}, nil
	}

	conflicts, err := s.repo.FindOverlapping(ctx, f.ID, start, end, excludeID)

	if err != nil {
		return Availability{}, err
	}

	if len(conflicts) == 0 {
		return Availability{
			Available:   true,
			Conflicts:   []Booking{},
			Suggestions: []Suggestion{},
			Reason:      ReasonAvailable,
		}, nil
	}

	dayStart, dayEnd := dayBounds(start)
	day, err := s.repo.ListBookings(ctx, Query{
		FieldID:     f.ID,
		Statuses:    CompetingStatuses,
		StartFrom:   dayStart,
		StartBefore: dayEnd,
	})

	if err != nil {
		return Availability{}, err
	}

	day = slices.DeleteFunc(day, func(b Booking) bool { return b.ID == excludeID })

	return Availability{
		Available:   false,
		Conflicts:   conflicts,
		Suggestions: s.policy.SuggestSlots(start, end.Sub(start), day),
		Reason:      ReasonConflict,
	}, nil
}
