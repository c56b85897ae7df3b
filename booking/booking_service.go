package booking

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/kickoff-academy/field-booking-backend/account"
	"github.com/kickoff-academy/field-booking-backend/field"
	"github.com/kickoff-academy/field-booking-backend/metrics"
	"github.com/kickoff-academy/field-booking-backend/notify"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

//go:generate mockgen -source=booking_service.go -destination=mocks/booking_service_mock.go -package=mocks

type BookingRepository interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	LockField(ctx context.Context, fieldID string) (field.Field, error)
	GetBookingByID(ctx context.Context, id string) (Booking, error)
	FindOverlapping(ctx context.Context, fieldID string, start, end time.Time, excludeID string) ([]Booking, error)
	ListBookings(ctx context.Context, q Query) ([]Booking, error)
	ListBookingDetails(ctx context.Context, q Query) ([]Detail, error)
	CountBookings(ctx context.Context, q Query) (int, error)
	InsertBooking(ctx context.Context, b Booking) (Booking, error)
	UpdateBooking(ctx context.Context, b Booking) (Booking, error)
	SetBookingStatus(ctx context.Context, id string, from []Status, to Status) error
	SetBookingActive(ctx context.Context, id string, active bool) error
}

type FieldCatalog interface {
	GetField(ctx context.Context, id string) (field.Field, error)
}

type UserDirectory interface {
	GetUser(ctx context.Context, id string) (account.User, error)
	AcademyAdmin(ctx context.Context, academyID string) (account.User, error)
}

type StatsInvalidator interface {
	Invalidate(ctx context.Context, academyID, fieldID string)
}

type Service struct {
	repo     BookingRepository
	fields   FieldCatalog
	users    UserDirectory
	notifier notify.Notifier
	policy   Policy
	logger   zerolog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	stats    StatsInvalidator
	now      func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

func WithStatsInvalidator(inv StatsInvalidator) Option {
	return func(s *Service) { s.stats = inv }
}

func NewService(repo BookingRepository, fields FieldCatalog, users UserDirectory, notifier notify.Notifier, policy Policy, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		fields:   fields,
		users:    users,
		notifier: notifier,
		policy:   policy,
		logger:   logger.With().Str("component", "booking").Logger(),
		tracer:   otel.Tracer("github.com/kickoff-academy/field-booking-backend/booking"),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) Policy() Policy {
	return s.policy
}

// Now is the service clock, used to derive can_cancel and can_modify.
func (s *Service) Now() time.Time {
	return s.now()
}

type CreateRequest struct {
	FieldID   string    `json:"field" binding:"required"`
	BookedBy  string    `json:"booked_by"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	Notes     string    `json:"notes"`
	MatchID   *string   `json:"match"`
}

type UpdateRequest struct {
	FieldID   *string    `json:"field"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Notes     *string    `json:"notes"`
}

type ListFilter struct {
	FieldID         string
	Status          Status
	Mine            bool
	IncludeInactive bool
}

// CreateBooking validates and stores a pending booking. The field row stays
// locked from the overlap check until the insert commits.
func (s *Service) CreateBooking(ctx context.Context, caller account.User, req CreateRequest) (Booking, error) {
	ctx, span := s.tracer.Start(ctx, "booking.Create", trace.WithAttributes(attribute.String("field.id", req.FieldID)))
	defer span.End()

	if err := s.policy.ValidateWindow(req.StartTime, req.EndTime, s.now()); err != nil {
		return Booking{}, err
	}

	var (
		created  Booking
		f        field.Field
		customer account.User
	)

	err := s.repo.RunInTx(ctx, func(ctx context.Context) error {
		var err error

		if f, err = s.repo.LockField(ctx, req.FieldID); err != nil {
			return err
		}

		if !f.Bookable() {
			return invalid(msgFieldUnavailable)
		}

		if err := s.ensureNoOverlap(ctx, f.ID, req.StartTime, req.EndTime, ""); err != nil {
			return err
		}

		if customer, err = s.resolveBookedBy(ctx, caller, req.BookedBy, f); err != nil {
			return err
		}

		created, err = s.repo.InsertBooking(ctx, Booking{
			FieldID:   f.ID,
			BookedBy:  customer.ID,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			TotalCost: CalculateTotalCost(f.HourlyRate, req.StartTime, req.EndTime),
			Status:    StatusPending,
			Notes:     req.Notes,
			MatchID:   req.MatchID,
			IsActive:  true,
		})

		return err
	})

	if err != nil {
		s.recordFailure(span, err, "create", req.FieldID, caller)
		return Booking{}, err
	}

	s.metrics.BookingCreated(f.AcademyID)
	s.logger.Info().
		Str("booking_id", created.ID).
		Str("field_id", f.ID).
		Str("user_id", caller.ID).
		Str("booked_by", customer.ID).
		Msg("booking created")

	s.invalidateStats(ctx, f)
	s.notify(ctx, s.event(notify.EventBookingCreated, created, f, customer, customer, "Booking Confirmation - "+f.Name))
	s.alertAcademyAdmin(ctx, created, f, customer)

	return created, nil
}

// UpdateBooking modifies a pending booking. Window, field and overlap rules
// are re-checked only when the field or the time window changes.
func (s *Service) UpdateBooking(ctx context.Context, caller account.User, id string, req UpdateRequest) (Booking, error) {
	ctx, span := s.tracer.Start(ctx, "booking.Update", trace.WithAttributes(attribute.String("booking.id", id)))
	defer span.End()

	now := s.now()

	var (
		updated Booking
		before  field.Field
		after   field.Field
	)

	err := s.repo.RunInTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetBookingByID(ctx, id)

		if err != nil {
			return err
		}

		target := current.FieldID
		if req.FieldID != nil {
			target = *req.FieldID
		}

		locked, err := s.lockFields(ctx, current.FieldID, target)

		if err != nil {
			return err
		}

		before, after = locked[current.FieldID], locked[target]

		if !s.canAct(caller, current, before) {
			return ErrNotAllowed
		}

		if current.Status != StatusPending {
			return &StateError{Action: "modify", Status: current.Status}
		}

		if s.policy.EnforceModifyWindow && !s.policy.CanModify(current, now) {
			return invalid("Bookings can only be modified more than %s before the start time.", humanize(s.policy.ModifyCutoff))
		}

		next := current
		if req.FieldID != nil {
			next.FieldID = *req.FieldID
		}
		if req.StartTime != nil {
			next.StartTime = *req.StartTime
		}
		if req.EndTime != nil {
			next.EndTime = *req.EndTime
		}
		if req.Notes != nil {
			next.Notes = *req.Notes
		}

		moved := next.FieldID != current.FieldID ||
			!next.StartTime.Equal(current.StartTime) ||
			!next.EndTime.Equal(current.EndTime)

		if moved {
			if err := s.policy.ValidateWindow(next.StartTime, next.EndTime, now); err != nil {
				return err
			}

			if next.FieldID != current.FieldID {
				if caller.ID != current.BookedBy && !caller.CanManageAcademy(after.AcademyID) {
					return ErrNotAllowed
				}
			}

			if !after.Bookable() {
				return invalid(msgFieldUnavailable)
			}

			if err := s.ensureNoOverlap(ctx, after.ID, next.StartTime, next.EndTime, current.ID); err != nil {
				return err
			}

			next.TotalCost = CalculateTotalCost(after.HourlyRate, next.StartTime, next.EndTime)
		}

		updated, err = s.repo.UpdateBooking(ctx, next)

		return err
	})

	if err != nil {
		s.recordFailure(span, err, "update", id, caller)
		return Booking{}, err
	}

	s.logger.Info().
		Str("booking_id", updated.ID).
		Str("field_id", updated.FieldID).
		Str("user_id", caller.ID).
		Msg("booking modified")

	s.invalidateStats(ctx, before)
	if after.ID != before.ID {
		s.invalidateStats(ctx, after)
	}

	return updated, nil
}

type transition struct {
	action       string
	from         []Status
	to           Status
	event        notify.EventType
	subject      string
	managersOnly bool
}

var (
	confirmTransition = transition{
		action:       "confirm",
		from:         []Status{StatusPending},
		to:           StatusConfirmed,
		event:        notify.EventBookingConfirmed,
		subject:      "Booking Confirmed - ",
		managersOnly: true,
	}
	completeTransition = transition{
		action:       "complete",
		from:         []Status{StatusConfirmed},
		to:           StatusCompleted,
		event:        notify.EventBookingCompleted,
		subject:      "Booking Completed - ",
		managersOnly: true,
	}
	cancelTransition = transition{
		action:  "cancel",
		from:    CompetingStatuses,
		to:      StatusCancelled,
		event:   notify.EventBookingCancelled,
		subject: "Booking Cancelled - ",
	}
)

func (s *Service) ConfirmBooking(ctx context.Context, caller account.User, id string) (Booking, error) {
	return s.apply(ctx, caller, id, confirmTransition)
}

func (s *Service) CompleteBooking(ctx context.Context, caller account.User, id string) (Booking, error) {
	return s.apply(ctx, caller, id, completeTransition)
}

// CancelBooking is open to the customer and the academy's admins. The cancel
// window is only enforced when the policy says so.
func (s *Service) CancelBooking(ctx context.Context, caller account.User, id string) (Booking, error) {
	return s.apply(ctx, caller, id, cancelTransition)
}

func (s *Service) apply(ctx context.Context, caller account.User, id string, t transition) (Booking, error) {
	ctx, span := s.tracer.Start(ctx, "booking."+t.action, trace.WithAttributes(attribute.String("booking.id", id)))
	defer span.End()

	b, f, err := s.load(ctx, id)

	if err != nil {
		s.recordFailure(span, err, t.action, id, caller)
		return Booking{}, err
	}

	allowed := s.canAct(caller, b, f)
	if t.managersOnly {
		allowed = caller.CanManageAcademy(f.AcademyID)
	}

	if !allowed {
		s.recordFailure(span, ErrNotAllowed, t.action, id, caller)
		return Booking{}, ErrNotAllowed
	}

	if !slices.Contains(t.from, b.Status) {
		err := &StateError{Action: t.action, Status: b.Status}
		s.recordFailure(span, err, t.action, id, caller)
		return Booking{}, err
	}

	if t.to == StatusCancelled && s.policy.EnforceCancelWindow && !s.policy.CanCancel(b, s.now()) {
		err := invalid("Bookings can only be cancelled more than %s before the start time.", humanize(s.policy.CancelCutoff))
		s.recordFailure(span, err, t.action, id, caller)
		return Booking{}, err
	}

	if err := s.repo.SetBookingStatus(ctx, b.ID, t.from, t.to); err != nil {
		s.recordFailure(span, err, t.action, id, caller)
		return Booking{}, err
	}

	previous := b.Status
	b.Status = t.to

	s.metrics.StatusChanged(string(t.to))
	s.logger.Info().
		Str("booking_id", b.ID).
		Str("user_id", caller.ID).
		Str("from", string(previous)).
		Str("to", string(t.to)).
		Msg("booking status changed")

	s.invalidateStats(ctx, f)

	customer := s.customer(ctx, b)
	subject := t.subject + f.Name
	byAdmin := t.to == StatusCancelled && caller.ID != b.BookedBy && caller.Role.Privileged()
	if byAdmin {
		subject = "Booking Cancelled by Academy - " + f.Name
	}

	e := s.event(t.event, b, f, customer, customer, subject)
	e.CancelledByAdmin = byAdmin
	s.notify(ctx, e)

	return b, nil
}

// GetBooking hides bookings the caller may not see behind ErrBookingNotFound.
func (s *Service) GetBooking(ctx context.Context, caller account.User, id string) (Booking, error) {
	b, f, err := s.load(ctx, id)

	if err != nil {
		return Booking{}, err
	}

	if !canView(caller, b, f) {
		return Booking{}, ErrBookingNotFound
	}

	return b, nil
}

// ListBookings scopes the listing by role: external clients and Mine see
// their own bookings, system admins everything, academy roles their academy.
func (s *Service) ListBookings(ctx context.Context, caller account.User, filter ListFilter) ([]Detail, error) {
	q := Query{FieldID: filter.FieldID}

	if filter.Status != "" {
		q.Statuses = []Status{filter.Status}
	}

	switch {
	case filter.Mine || caller.Role == account.RoleExternalClient:
		q.BookedBy = caller.ID
	case caller.Role == account.RoleSystemAdmin:
	default:
		if caller.AcademyID == nil {
			return []Detail{}, nil
		}
		q.AcademyID = *caller.AcademyID
	}

	q.IncludeInactive = filter.IncludeInactive && caller.Role.Privileged()

	return s.repo.ListBookingDetails(ctx, q)
}

// SetActive hides or restores a booking without touching its status.
func (s *Service) SetActive(ctx context.Context, caller account.User, id string, active bool) (Booking, error) {
	b, f, err := s.load(ctx, id)

	if err != nil {
		return Booking{}, err
	}

	if !caller.CanManageAcademy(f.AcademyID) {
		return Booking{}, ErrNotAllowed
	}

	if err := s.repo.SetBookingActive(ctx, b.ID, active); err != nil {
		s.logger.Error().Err(err).Str("booking_id", b.ID).Msg("failed to change booking visibility")
		return Booking{}, err
	}

	b.IsActive = active

	s.logger.Info().
		Str("booking_id", b.ID).
		Str("user_id", caller.ID).
		Bool("active", active).
		Msg("booking visibility changed")

	s.invalidateStats(ctx, f)

	return b, nil
}

func (s *Service) load(ctx context.Context, id string) (Booking, field.Field, error) {
	b, err := s.repo.GetBookingByID(ctx, id)

	if err != nil {
		return Booking{}, field.Field{}, err
	}

	f, err := s.fields.GetField(ctx, b.FieldID)

	if err != nil {
		return Booking{}, field.Field{}, err
	}

	return b, f, nil
}

// lockFields locks the distinct field rows in id order and returns them by id.
func (s *Service) lockFields(ctx context.Context, ids ...string) (map[string]field.Field, error) {
	ordered := slices.Clone(ids)
	slices.Sort(ordered)
	ordered = slices.Compact(ordered)

	locked := make(map[string]field.Field, len(ordered))
	for _, id := range ordered {
		f, err := s.repo.LockField(ctx, id)

		if err != nil {
			return nil, err
		}

		locked[id] = f
	}

	return locked, nil
}

func (s *Service) ensureNoOverlap(ctx context.Context, fieldID string, start, end time.Time, excludeID string) error {
	conflicts, err := s.repo.FindOverlapping(ctx, fieldID, start, end, excludeID)

	if err != nil {
		return err
	}

	if len(conflicts) > 0 {
		s.metrics.Conflict("check")
		return &ConflictError{Start: conflicts[0].StartTime, End: conflicts[0].EndTime}
	}

	return nil
}

// resolveBookedBy returns the customer of a new booking. Regular users book
// for themselves, academy admins for members of the field's academy and
// system admins for anyone.
func (s *Service) resolveBookedBy(ctx context.Context, caller account.User, bookedBy string, f field.Field) (account.User, error) {
	if bookedBy == "" || bookedBy == caller.ID {
		return caller, nil
	}

	switch caller.Role {
	case account.RoleSystemAdmin:
	case account.RoleAcademyAdmin:
		if caller.AcademyID == nil {
			return account.User{}, invalid("You are not associated with any academy.")
		}
	default:
		return account.User{}, invalid("You can only create bookings for yourself.")
	}

	target, err := s.users.GetUser(ctx, bookedBy)

	if errors.Is(err, account.ErrUserNotFound) {
		return account.User{}, invalid("The specified user does not exist.")
	}

	if err != nil {
		return account.User{}, err
	}

	if caller.Role == account.RoleAcademyAdmin {
		if target.AcademyID == nil {
			return account.User{}, invalid("The specified user does not belong to any academy.")
		}

		if !caller.InAcademy(f.AcademyID) || !target.InAcademy(f.AcademyID) {
			return account.User{}, invalid("You can only create bookings for users in your academy.")
		}
	}

	return target, nil
}

func (s *Service) canAct(caller account.User, b Booking, f field.Field) bool {
	return caller.ID == b.BookedBy || caller.CanManageAcademy(f.AcademyID)
}

func canView(caller account.User, b Booking, f field.Field) bool {
	if caller.ID == b.BookedBy || caller.Role == account.RoleSystemAdmin {
		return true
	}
	return caller.Role != account.RoleExternalClient && caller.InAcademy(f.AcademyID)
}

func (s *Service) invalidateStats(ctx context.Context, f field.Field) {
	if s.stats != nil {
		s.stats.Invalidate(ctx, f.AcademyID, f.ID)
	}
}

// recordFailure logs client errors at warn level and everything else at error.
func (s *Service) recordFailure(span trace.Span, err error, action, ref string, caller account.User) {
	span.RecordError(err)

	var ce *ConflictError
	if errors.As(err, &ce) && ce.Start.IsZero() {
		s.metrics.Conflict("constraint")
	}

	event := s.logger.Error()
	if isClientError(err) {
		event = s.logger.Warn()
	}

	event.Err(err).
		Str("action", action).
		Str("ref", ref).
		Str("user_id", caller.ID).
		Msg("booking operation rejected")
}

func isClientError(err error) bool {
	return errors.Is(err, ErrInvalidBooking) ||
		errors.Is(err, ErrInvalidBookingState) ||
		errors.Is(err, ErrNotAllowed) ||
		errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, field.ErrFieldNotFound)
}
