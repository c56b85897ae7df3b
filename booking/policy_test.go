package booking_test

import (
	"testing"
	"time"

	bk "github.com/kickoff-academy/field-booking-backend/booking"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCalculateTotalCost(t *testing.T) {
	rate := decimal.RequireFromString("50.00")

	require.Equal(t, "100.00", bk.CalculateTotalCost(rate, at(4, 10), at(4, 12)).StringFixed(2))
	require.Equal(t, "75.00", bk.CalculateTotalCost(rate, at(4, 10), at(4, 11).Add(30*time.Minute)).StringFixed(2))
	require.Equal(t, "0.00", bk.CalculateTotalCost(decimal.Zero, at(4, 10), at(4, 12)).StringFixed(2))

	odd := decimal.RequireFromString("33.33")
	single := bk.CalculateTotalCost(odd, at(4, 10), at(4, 10).Add(20*time.Minute))
	double := bk.CalculateTotalCost(odd, at(4, 10), at(4, 10).Add(40*time.Minute))
	require.Equal(t, "11.11", single.StringFixed(2))
	require.Equal(t, "22.22", double.StringFixed(2))
}

func TestOverlaps(t *testing.T) {
	windows := [][2]time.Time{
		{at(4, 10), at(4, 12)},
		{at(4, 11), at(4, 13)},
		{at(4, 12), at(4, 13)},
		{at(4, 9), at(4, 14)},
		{at(4, 10), at(4, 11)},
		{at(5, 10), at(5, 12)},
	}

	for _, a := range windows {
		for _, b := range windows {
			require.Equal(t, bk.Overlaps(a[0], a[1], b[0], b[1]), bk.Overlaps(b[0], b[1], a[0], a[1]))
		}
	}

	require.True(t, bk.Overlaps(at(4, 10), at(4, 12), at(4, 11), at(4, 13)))
	require.True(t, bk.Overlaps(at(4, 10), at(4, 12), at(4, 9), at(4, 14)))
	require.False(t, bk.Overlaps(at(4, 10), at(4, 12), at(4, 12), at(4, 13)))
	require.False(t, bk.Overlaps(at(4, 10), at(4, 12), at(4, 8), at(4, 10)))
}

func TestCanCancelAndModify(t *testing.T) {
	policy := bk.DefaultPolicy()
	b := pending

	require.True(t, policy.CanCancel(b, b.StartTime.Add(-3*time.Hour)))
	require.False(t, policy.CanCancel(b, b.StartTime.Add(-2*time.Hour)))
	require.False(t, policy.CanCancel(withStatus(b, bk.StatusCompleted), now))

	require.True(t, policy.CanCancel(withStatus(b, bk.StatusConfirmed), now))
	require.False(t, policy.CanModify(withStatus(b, bk.StatusConfirmed), now))

	require.True(t, policy.CanModify(b, b.StartTime.Add(-5*time.Hour)))
	require.False(t, policy.CanModify(b, b.StartTime.Add(-4*time.Hour)))
}

func TestSuggestSlots(t *testing.T) {
	policy := bk.DefaultPolicy()
	booking := func(from, to int) bk.Booking {
		return bk.Booking{StartTime: at(4, from), EndTime: at(4, to), Status: bk.StatusConfirmed}
	}

	t.Run("gaps between bookings in any input order", func(t *testing.T) {
		got := policy.SuggestSlots(at(4, 12), 2*time.Hour, []bk.Booking{booking(16, 17), booking(10, 12)})

		require.Len(t, got, 3)
		require.Equal(t, at(4, 8), got[0].StartTime)
		require.Equal(t, at(4, 12), got[1].StartTime)
		require.Equal(t, at(4, 17), got[2].StartTime)
		require.Equal(t, at(4, 19), got[2].EndTime)
	})

	t.Run("stops at three", func(t *testing.T) {
		got := policy.SuggestSlots(at(4, 12), time.Hour, []bk.Booking{booking(9, 10), booking(11, 12), booking(13, 14), booking(15, 16)})

		require.Len(t, got, 3)
		require.Equal(t, at(4, 8), got[0].StartTime)
		require.Equal(t, at(4, 10), got[1].StartTime)
		require.Equal(t, at(4, 12), got[2].StartTime)
	})

	t.Run("nothing fits before closing", func(t *testing.T) {
		got := policy.SuggestSlots(at(4, 12), 4*time.Hour, []bk.Booking{booking(8, 11), booking(13, 19)})

		require.Empty(t, got)
	})

	t.Run("overlapping bookings keep the cursor", func(t *testing.T) {
		got := policy.SuggestSlots(at(4, 12), time.Hour, []bk.Booking{booking(8, 15), booking(9, 10)})

		require.Len(t, got, 1)
		require.Equal(t, at(4, 15), got[0].StartTime)
	})

	t.Run("deterministic", func(t *testing.T) {
		day := []bk.Booking{booking(9, 11), booking(14, 15)}
		require.Equal(t, policy.SuggestSlots(at(4, 9), time.Hour, day), policy.SuggestSlots(at(4, 9), time.Hour, day))
	})
}

func TestValidateWindow(t *testing.T) {
	policy := bk.DefaultPolicy()

	require.NoError(t, policy.ValidateWindow(at(4, 10), at(4, 11), now))

	err := policy.ValidateWindow(at(4, 10), at(4, 10), now)
	require.EqualError(t, err, "End time must be after start time.")

	// duration is checked before the start time
	err = policy.ValidateWindow(now.Add(-time.Hour), now.Add(-30*time.Minute), now)
	require.EqualError(t, err, "Minimum booking duration is 1 hour.")

	err = policy.ValidateWindow(now, now.Add(time.Hour), now)
	require.EqualError(t, err, "Booking start time must be in the future.")
}
