package booking

import (
	"context"

	"github.com/kickoff-academy/field-booking-backend/account"
	"github.com/kickoff-academy/field-booking-backend/metrics"
	"github.com/rs/zerolog"
)

//go:generate mockgen -source=statistics_service.go -destination=mocks/statistics_service_mock.go -package=mocks

type StatsRepository interface {
	ListBookingDetails(ctx context.Context, q Query) ([]Detail, error)
}

// ReportCache stores computed reports. Implementations treat failures as misses.
type ReportCache interface {
	Read(ctx context.Context, key string, out any) bool
	Write(ctx context.Context, key string, val any)
	InvalidatePrefix(ctx context.Context, prefix string)
}

// Statistics serves read-only reports over persisted bookings.
type Statistics struct {
	repo    StatsRepository
	fields  FieldCatalog
	cache   ReportCache
	policy  Policy
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func NewStatistics(repo StatsRepository, fields FieldCatalog, cache ReportCache, policy Policy, m *metrics.Metrics, logger zerolog.Logger) *Statistics {
	return &Statistics{
		repo:    repo,
		fields:  fields,
		cache:   cache,
		policy:  policy,
		metrics: m,
		logger:  logger.With().Str("component", "statistics").Logger(),
	}
}

func validateRange(r DateRange) error {
	if r.closed() && r.To.Before(*r.From) {
		return invalid("End date must be on or after start date.")
	}
	return nil
}

// FieldUtilization reports on a field for system admins and members of the
// field's academy.
func (s *Statistics) FieldUtilization(ctx context.Context, caller account.User, fieldID string, r DateRange, period string) (FieldReport, error) {
	if period == "" {
		period = PeriodMonthly
	}

	if period != PeriodMonthly && period != PeriodWeekly {
		return FieldReport{}, invalid("Period must be 'weekly' or 'monthly'.")
	}

	if err := validateRange(r); err != nil {
		return FieldReport{}, err
	}

	f, err := s.fields.GetField(ctx, fieldID)

	if err != nil {
		return FieldReport{}, err
	}

	if caller.Role != account.RoleSystemAdmin && !caller.InAcademy(f.AcademyID) {
		return FieldReport{}, ErrNotAllowed
	}

	key := "field:" + f.ID + ":" + r.key() + ":" + period

	var report FieldReport
	if s.lookup(ctx, key, &report) {
		return report, nil
	}

	from, before := r.Bounds()
	bookings, err := s.repo.ListBookingDetails(ctx, Query{
		FieldID:     f.ID,
		Statuses:    BilledStatuses,
		StartFrom:   from,
		StartBefore: before,
	})

	if err != nil {
		s.logger.Error().Err(err).Str("field_id", f.ID).Msg("failed to load bookings for utilization")
		return FieldReport{}, err
	}

	report = s.policy.BuildFieldReport(f, bookings, r, period)
	s.store(ctx, key, report)

	return report, nil
}

// AcademyStatistics summarises an academy's bookings. An empty academyID
// means the caller's own academy.
func (s *Statistics) AcademyStatistics(ctx context.Context, caller account.User, academyID string, r DateRange) (AcademyStats, error) {
	if academyID == "" && caller.AcademyID != nil {
		academyID = *caller.AcademyID
	}

	if academyID == "" {
		return AcademyStats{}, invalid("You are not associated with any academy.")
	}

	if !caller.CanManageAcademy(academyID) {
		return AcademyStats{}, ErrNotAllowed
	}

	if err := validateRange(r); err != nil {
		return AcademyStats{}, err
	}

	key := "academy:" + academyID + ":" + r.key()

	var stats AcademyStats
	if s.lookup(ctx, key, &stats) {
		return stats, nil
	}

	from, before := r.Bounds()
	bookings, err := s.repo.ListBookingDetails(ctx, Query{
		AcademyID:   academyID,
		StartFrom:   from,
		StartBefore: before,
	})

	if err != nil {
		s.logger.Error().Err(err).Str("academy_id", academyID).Msg("failed to load bookings for statistics")
		return AcademyStats{}, err
	}

	stats = BuildAcademyStats(bookings)
	s.store(ctx, key, stats)

	return stats, nil
}

// Invalidate drops cached reports touching the academy or the field.
func (s *Statistics) Invalidate(ctx context.Context, academyID, fieldID string) {
	if s.cache == nil {
		return
	}
	s.cache.InvalidatePrefix(ctx, "field:"+fieldID+":")
	s.cache.InvalidatePrefix(ctx, "academy:"+academyID+":")
}

func (s *Statistics) lookup(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}
	hit := s.cache.Read(ctx, key, out)
	s.metrics.CacheLookup(hit)
	return hit
}

func (s *Statistics) store(ctx context.Context, key string, val any) {
	if s.cache != nil {
		s.cache.Write(ctx, key, val)
	}
}
