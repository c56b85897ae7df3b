package booking_test

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/kickoff-academy/field-booking-backend/account"
	bk "github.com/kickoff-academy/field-booking-backend/booking"
	"github.com/kickoff-academy/field-booking-backend/field"
	"github.com/kickoff-academy/field-booking-backend/notify"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// memoryRepo keeps bookings in memory. RunInTx holds a single lock for the
// whole callback, standing in for the field row lock.
type memoryRepo struct {
	tx     sync.Mutex
	mu     sync.Mutex
	fields map[string]field.Field
	rows   []bk.Booking
	seq    int
}

func newMemoryRepo(fields ...field.Field) *memoryRepo {
	r := &memoryRepo{fields: map[string]field.Field{}}
	for _, f := range fields {
		r.fields[f.ID] = f
	}
	return r
}

func (r *memoryRepo) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.tx.Lock()
	defer r.tx.Unlock()

	r.mu.Lock()
	snapshot := slices.Clone(r.rows)
	r.mu.Unlock()

	if err := fn(ctx); err != nil {
		r.mu.Lock()
		r.rows = snapshot
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *memoryRepo) GetField(_ context.Context, id string) (field.Field, error) {
	f, ok := r.fields[id]
	if !ok {
		return field.Field{}, field.ErrFieldNotFound
	}
	return f, nil
}

func (r *memoryRepo) LockField(ctx context.Context, id string) (field.Field, error) {
	return r.GetField(ctx, id)
}

func (r *memoryRepo) GetBookingByID(_ context.Context, id string) (bk.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.rows {
		if b.ID == id {
			return b, nil
		}
	}
	return bk.Booking{}, bk.ErrBookingNotFound
}

func (r *memoryRepo) FindOverlapping(_ context.Context, fieldID string, start, end time.Time, excludeID string) ([]bk.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []bk.Booking
	for _, b := range r.rows {
		if b.FieldID == fieldID && b.ID != excludeID && b.IsActive && b.Status.Competes() &&
			bk.Overlaps(start, end, b.StartTime, b.EndTime) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memoryRepo) match(b bk.Booking, q bk.Query) bool {
	switch {
	case q.FieldID != "" && b.FieldID != q.FieldID,
		q.AcademyID != "" && r.fields[b.FieldID].AcademyID != q.AcademyID,
		q.BookedBy != "" && b.BookedBy != q.BookedBy,
		len(q.Statuses) > 0 && !slices.Contains(q.Statuses, b.Status),
		!q.StartFrom.IsZero() && b.StartTime.Before(q.StartFrom),
		!q.StartBefore.IsZero() && !b.StartTime.Before(q.StartBefore),
		!q.IncludeInactive && !b.IsActive:
		return false
	}
	return true
}

func (r *memoryRepo) ListBookings(_ context.Context, q bk.Query) ([]bk.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []bk.Booking{}
	for _, b := range r.rows {
		if r.match(b, q) {
			out = append(out, b)
		}
	}
	slices.SortStableFunc(out, func(a, b bk.Booking) int { return a.StartTime.Compare(b.StartTime) })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *memoryRepo) ListBookingDetails(ctx context.Context, q bk.Query) ([]bk.Detail, error) {
	bookings, err := r.ListBookings(ctx, q)
	if err != nil {
		return nil, err
	}

	out := make([]bk.Detail, len(bookings))
	for i, b := range bookings {
		f := r.fields[b.FieldID]
		out[i] = bk.Detail{Booking: b, FieldName: f.Name, AcademyID: f.AcademyID}
	}
	return out, nil
}

func (r *memoryRepo) CountBookings(ctx context.Context, q bk.Query) (int, error) {
	bookings, err := r.ListBookings(ctx, q)
	return len(bookings), err
}

func (r *memoryRepo) InsertBooking(_ context.Context, b bk.Booking) (bk.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	b.ID = fmt.Sprintf("b%d", r.seq)
	r.rows = append(r.rows, b)
	return b, nil
}

func (r *memoryRepo) UpdateBooking(_ context.Context, b bk.Booking) (bk.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.rows {
		if r.rows[i].ID == b.ID {
			r.rows[i] = b
			return b, nil
		}
	}
	return bk.Booking{}, bk.ErrBookingNotFound
}

func (r *memoryRepo) SetBookingStatus(_ context.Context, id string, from []bk.Status, to bk.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.rows {
		if r.rows[i].ID == id && slices.Contains(from, r.rows[i].Status) {
			r.rows[i].Status = to
			return nil
		}
	}
	return bk.ErrInvalidBookingState
}

func (r *memoryRepo) SetBookingActive(_ context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows[i].IsActive = active
			return nil
		}
	}
	return bk.ErrBookingNotFound
}

type staticDirectory map[string]account.User

func (d staticDirectory) GetUser(_ context.Context, id string) (account.User, error) {
	if u, ok := d[id]; ok {
		return u, nil
	}
	return account.User{}, account.ErrUserNotFound
}

func (d staticDirectory) AcademyAdmin(_ context.Context, academyID string) (account.User, error) {
	for _, u := range d {
		if u.Role == account.RoleAcademyAdmin && u.InAcademy(academyID) {
			return u, nil
		}
	}
	return account.User{}, account.ErrUserNotFound
}

func newMemoryService(repo *memoryRepo) *bk.Service {
	users := staticDirectory{coach.ID: coach, player.ID: player, admin.ID: admin}
	return bk.NewService(repo, repo, users, notify.NewLogNotifier(zerolog.Nop()), bk.DefaultPolicy(), zerolog.Nop(),
		bk.WithClock(func() time.Time { return now }))
}

func TestBookingScenario(t *testing.T) {
	repo := newMemoryRepo(pitch)
	svc := newMemoryService(repo)
	ctx := context.Background()

	a, err := svc.CreateBooking(ctx, coach, bk.CreateRequest{FieldID: "f1", StartTime: at(4, 10), EndTime: at(4, 12)})
	require.NoError(t, err)
	require.Equal(t, "100.00", a.TotalCost.StringFixed(2))
	require.Equal(t, bk.StatusPending, a.Status)

	_, err = svc.CreateBooking(ctx, player, bk.CreateRequest{FieldID: "f1", StartTime: at(4, 11), EndTime: at(4, 13)})
	require.ErrorIs(t, err, bk.ErrBookingConflict)
	require.ErrorContains(t, err, "from 2026-05-04T10:00:00Z to 2026-05-04T12:00:00Z")

	c, err := svc.CreateBooking(ctx, player, bk.CreateRequest{FieldID: "f1", StartTime: at(4, 12), EndTime: at(4, 13)})
	require.NoError(t, err)
	require.Equal(t, "50.00", c.TotalCost.StringFixed(2))

	confirmed, err := svc.ConfirmBooking(ctx, admin, a.ID)
	require.NoError(t, err)
	require.Equal(t, bk.StatusConfirmed, confirmed.Status)

	_, err = svc.ConfirmBooking(ctx, admin, a.ID)
	require.EqualError(t, err, "Cannot confirm booking with status 'confirmed'")

	cancelled, err := svc.CancelBooking(ctx, coach, a.ID)
	require.NoError(t, err)
	require.Equal(t, bk.StatusCancelled, cancelled.Status)

	// the freed slot can be booked again
	_, err = svc.CreateBooking(ctx, player, bk.CreateRequest{FieldID: "f1", StartTime: at(4, 11), EndTime: at(4, 12)})
	require.NoError(t, err)
}

func TestBoundaries(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		span  time.Duration
		ok    bool
	}{
		{"exactly one hour", at(4, 10), time.Hour, true},
		{"fifty nine minutes", at(4, 10), 59 * time.Minute, false},
		{"exactly eight hours", at(4, 8), 8 * time.Hour, true},
		{"eight hours and a minute", at(4, 8), 8*time.Hour + time.Minute, false},
		{"exactly the horizon", now.AddDate(0, 0, 90), time.Hour, true},
		{"a day past the horizon", now.AddDate(0, 0, 91), time.Hour, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newMemoryService(newMemoryRepo(pitch))

			_, err := svc.CreateBooking(context.Background(), coach, bk.CreateRequest{
				FieldID: "f1", StartTime: tc.start, EndTime: tc.start.Add(tc.span),
			})

			if tc.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, bk.ErrInvalidBooking)
		})
	}
}

func TestConcurrentCreatesNeverOverlap(t *testing.T) {
	repo := newMemoryRepo(pitch)
	svc := newMemoryService(repo)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := at(6, 8).Add(time.Duration(i%6) * 30 * time.Minute)
			_, _ = svc.CreateBooking(context.Background(), coach, bk.CreateRequest{
				FieldID: "f1", StartTime: start, EndTime: start.Add(90 * time.Minute),
			})
		}()
	}
	wg.Wait()

	held, err := repo.ListBookings(context.Background(), bk.Query{FieldID: "f1", Statuses: bk.CompetingStatuses})
	require.NoError(t, err)
	require.NotEmpty(t, held)

	for i, a := range held {
		for _, b := range held[i+1:] {
			require.False(t, bk.Overlaps(a.StartTime, a.EndTime, b.StartTime, b.EndTime), "%v overlaps %v", a, b)
		}
	}
}

func TestUpdateExcludesItself(t *testing.T) {
	repo := newMemoryRepo(pitch)
	svc := newMemoryService(repo)
	ctx := context.Background()

	a, err := svc.CreateBooking(ctx, coach, bk.CreateRequest{FieldID: "f1", StartTime: at(4, 10), EndTime: at(4, 12)})
	require.NoError(t, err)

	end := at(4, 13)
	moved, err := svc.UpdateBooking(ctx, coach, a.ID, bk.UpdateRequest{EndTime: &end})
	require.NoError(t, err)
	require.Equal(t, "150.00", moved.TotalCost.StringFixed(2))

	avail, err := svc.CheckAvailability(ctx, "f1", at(4, 10), at(4, 13), a.ID)
	require.NoError(t, err)
	require.True(t, avail.Available)
}

func TestCheckAvailability(t *testing.T) {
	repo := newMemoryRepo(pitch)
	svc := newMemoryService(repo)
	ctx := context.Background()

	for _, h := range [][2]int{{9, 10}, {12, 14}} {
		_, err := svc.CreateBooking(ctx, coach, bk.CreateRequest{FieldID: "f1", StartTime: at(4, h[0]), EndTime: at(4, h[1])})
		require.NoError(t, err)
	}

	t.Run("free window", func(t *testing.T) {
		avail, err := svc.CheckAvailability(ctx, "f1", at(4, 10), at(4, 12), "")
		require.NoError(t, err)
		require.True(t, avail.Available)
		require.Equal(t, bk.ReasonAvailable, avail.Reason)
		require.Empty(t, avail.Suggestions)
	})

	t.Run("conflict suggests same day slots", func(t *testing.T) {
		avail, err := svc.CheckAvailability(ctx, "f1", at(4, 13), at(4, 15), "")
		require.NoError(t, err)
		require.False(t, avail.Available)
		require.Equal(t, bk.ReasonConflict, avail.Reason)
		require.Len(t, avail.Conflicts, 1)

		require.Len(t, avail.Suggestions, 2)
		require.Equal(t, at(4, 10), avail.Suggestions[0].StartTime)
		require.Equal(t, at(4, 12), avail.Suggestions[0].EndTime)
		require.Equal(t, at(4, 14), avail.Suggestions[1].StartTime)
		require.Equal(t, 2.0, avail.Suggestions[1].DurationHours)
	})

	t.Run("unavailable field", func(t *testing.T) {
		closed := pitch
		closed.ID = "f2"
		closed.IsAvailable = false
		repo.fields["f2"] = closed

		avail, err := svc.CheckAvailability(ctx, "f2", at(4, 13), at(4, 15), "")
		require.NoError(t, err)
		require.False(t, avail.Available)
		require.Equal(t, bk.ReasonFieldUnavailable, avail.Reason)
		require.Empty(t, avail.Conflicts)
		require.Empty(t, avail.Suggestions)
	})

	t.Run("inverted window", func(t *testing.T) {
		_, err := svc.CheckAvailability(ctx, "f1", at(4, 15), at(4, 13), "")
		require.ErrorIs(t, err, bk.ErrInvalidBooking)
	})
}

func TestSuggestionsFollowPolicyTimezone(t *testing.T) {
	repo := newMemoryRepo(pitch)
	svc := newMemoryService(repo)
	ctx := context.Background()

	_, err := svc.CreateBooking(ctx, coach, bk.CreateRequest{FieldID: "f1", StartTime: at(4, 10), EndTime: at(4, 12)})
	require.NoError(t, err)

	tashkent := time.FixedZone("+05:00", 5*60*60)

	inUTC, err := svc.CheckAvailability(ctx, "f1", at(4, 11), at(4, 13), "")
	require.NoError(t, err)

	inOffset, err := svc.CheckAvailability(ctx, "f1", at(4, 11).In(tashkent), at(4, 13).In(tashkent), "")
	require.NoError(t, err)

	require.Len(t, inUTC.Suggestions, 2)
	require.Equal(t, at(4, 8), inUTC.Suggestions[0].StartTime)
	require.Equal(t, at(4, 12), inUTC.Suggestions[1].StartTime)
	require.Equal(t, inUTC.Suggestions, inOffset.Suggestions)

	t.Run("operating day is the policy day", func(t *testing.T) {
		cairo := time.FixedZone("+02:00", 2*60*60)
		policy := bk.DefaultPolicy()
		policy.Location = cairo
		local := bk.NewService(repo, repo, staticDirectory{coach.ID: coach}, notify.NewLogNotifier(zerolog.Nop()), policy, zerolog.Nop(),
			bk.WithClock(func() time.Time { return now }))

		avail, err := local.CheckAvailability(ctx, "f1", at(4, 11), at(4, 13), "")
		require.NoError(t, err)

		require.Len(t, avail.Suggestions, 2)
		require.Equal(t, time.Date(2026, 5, 4, 8, 0, 0, 0, cairo), avail.Suggestions[0].StartTime)
		require.Equal(t, at(4, 12).In(cairo), avail.Suggestions[1].StartTime)
	})
}

func TestSoftDeletedField(t *testing.T) {
	repo := newMemoryRepo(pitch)
	svc := newMemoryService(repo)
	ctx := context.Background()

	existing, err := svc.CreateBooking(ctx, coach, bk.CreateRequest{FieldID: "f1", StartTime: at(4, 10), EndTime: at(4, 12)})
	require.NoError(t, err)

	retired := pitch
	retired.IsActive = false
	repo.fields["f1"] = retired

	t.Run("availability names the reason", func(t *testing.T) {
		avail, err := svc.CheckAvailability(ctx, "f1", at(5, 10), at(5, 12), "")
		require.NoError(t, err)
		require.False(t, avail.Available)
		require.Equal(t, bk.ReasonFieldUnavailable, avail.Reason)
		require.Empty(t, avail.Conflicts)
		require.Empty(t, avail.Suggestions)
	})

	t.Run("create is rejected as unavailable", func(t *testing.T) {
		_, err := svc.CreateBooking(ctx, coach, bk.CreateRequest{FieldID: "f1", StartTime: at(5, 10), EndTime: at(5, 12)})

		var validation *bk.ValidationError
		require.ErrorAs(t, err, &validation)
		require.EqualError(t, err, "This field is not available for booking.")
	})

	t.Run("existing bookings stay reachable", func(t *testing.T) {
		got, err := svc.GetBooking(ctx, coach, existing.ID)
		require.NoError(t, err)
		require.Equal(t, existing.ID, got.ID)

		cancelled, err := svc.CancelBooking(ctx, coach, existing.ID)
		require.NoError(t, err)
		require.Equal(t, bk.StatusCancelled, cancelled.Status)
	})
}

func TestScheduleAndOverview(t *testing.T) {
	repo := newMemoryRepo(pitch)
	svc := newMemoryService(repo)
	ctx := context.Background()

	a, err := svc.CreateBooking(ctx, coach, bk.CreateRequest{FieldID: "f1", StartTime: at(4, 10), EndTime: at(4, 12)})
	require.NoError(t, err)
	_, err = svc.CreateBooking(ctx, coach, bk.CreateRequest{FieldID: "f1", StartTime: at(6, 18), EndTime: at(6, 20)})
	require.NoError(t, err)

	schedule, err := svc.Schedule(ctx, "f1", at(4, 0), 3)
	require.NoError(t, err)
	require.Len(t, schedule, 3)
	require.Equal(t, "2026-05-04", schedule[0].Date)
	require.Len(t, schedule[0].Bookings, 1)
	require.Empty(t, schedule[1].Bookings)
	require.Len(t, schedule[2].Bookings, 1)

	_, err = svc.Schedule(ctx, "f1", at(4, 0), 32)
	require.ErrorIs(t, err, bk.ErrInvalidBooking)

	_, err = svc.ConfirmBooking(ctx, admin, a.ID)
	require.NoError(t, err)

	overview, err := svc.Overview(ctx, pitch)
	require.NoError(t, err)
	require.Equal(t, 1, overview.BookingCount)
	require.Equal(t, now, overview.NextAvailableSlot.AvailableFrom)
	require.Equal(t, at(4, 10), *overview.NextAvailableSlot.NextBookingStart)
}
