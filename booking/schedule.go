package booking

import (
	"context"
	"time"

	"github.com/kickoff-academy/field-booking-backend/field"
)

type DaySchedule struct {
	Date     string   `json:"date"`
	Bookings []Detail `json:"bookings"`
}

type NextSlot struct {
	AvailableFrom    time.Time  `json:"available_from"`
	AvailableUntil   *time.Time `json:"available_until"`
	NextBookingStart *time.Time `json:"next_booking_start"`
}

// Overview is the booking activity shown next to a field.
type Overview struct {
	BookingCount      int      `json:"booking_count"`
	NextAvailableSlot NextSlot `json:"next_available_slot"`
}

// Schedule lists the pending and confirmed bookings of a field for days
// consecutive days starting at from, one entry per day even when empty.
func (s *Service) Schedule(ctx context.Context, fieldID string, from time.Time, days int) ([]DaySchedule, error) {
	if days <= 0 {
		days = 7
	}

	if days > 31 {
		return nil, invalid("Schedule is limited to 31 days.")
	}

	f, err := s.fields.GetField(ctx, fieldID)

	if err != nil {
		return nil, err
	}

	first, _ := dayBounds(from)
	last := first.AddDate(0, 0, days)

	bookings, err := s.repo.ListBookingDetails(ctx, Query{
		FieldID:     f.ID,
		Statuses:    CompetingStatuses,
		StartFrom:   first,
		StartBefore: last,
	})

	if err != nil {
		return nil, err
	}

	schedule := make([]DaySchedule, days)
	index := make(map[string]int, days)

	for i := range days {
		date := first.AddDate(0, 0, i).Format(time.DateOnly)
		schedule[i] = DaySchedule{Date: date, Bookings: []Detail{}}
		index[date] = i
	}

	for _, b := range bookings {
		date := b.StartTime.In(first.Location()).Format(time.DateOnly)
		if i, ok := index[date]; ok {
			schedule[i].Bookings = append(schedule[i].Bookings, b)
		}
	}

	return schedule, nil
}

// Overview counts confirmed bookings and finds the free stretch from now
// until the next pending or confirmed booking.
func (s *Service) Overview(ctx context.Context, f field.Field) (Overview, error) {
	now := s.now()

	count, err := s.repo.CountBookings(ctx, Query{FieldID: f.ID, Statuses: []Status{StatusConfirmed}})

	if err != nil {
		return Overview{}, err
	}

	next, err := s.repo.ListBookings(ctx, Query{
		FieldID:   f.ID,
		Statuses:  CompetingStatuses,
		StartFrom: now.Add(time.Microsecond),
		Limit:     1,
	})

	if err != nil {
		return Overview{}, err
	}

	slot := NextSlot{AvailableFrom: now}
	if len(next) > 0 {
		start := next[0].StartTime
		slot.AvailableUntil = &start
		slot.NextBookingStart = &start
	}

	return Overview{BookingCount: count, NextAvailableSlot: slot}, nil
}
