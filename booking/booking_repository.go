package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kickoff-academy/field-booking-backend/account"
	"github.com/kickoff-academy/field-booking-backend/field"
	"github.com/shopspring/decimal"
)

// Query filters booking listings. Zero values leave a criterion open;
// StartBefore is exclusive.
type Query struct {
	FieldID         string
	AcademyID       string
	BookedBy        string
	Statuses        []Status
	StartFrom       time.Time
	StartBefore     time.Time
	IncludeInactive bool
	Limit           int
}

// Detail is a booking joined with the names needed for listings and reports.
type Detail struct {
	Booking
	FieldName     string       `json:"field_name"`
	AcademyID     string       `json:"academy"`
	BookedByName  string       `json:"booked_by_name"`
	BookedByEmail string       `json:"booked_by_email"`
	BookedByRole  account.Role `json:"booked_by_role"`
}

type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

type Repository struct{ pool *pgxpool.Pool }

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) q(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return r.pool
}

// RunInTx runs fn in a transaction carried by the context. Nested calls join
// the outer transaction. Any error rolls everything back and is returned as is.
func (r *Repository) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// LockField loads a field, active or not, and holds its row lock until the
// surrounding transaction ends, serialising writers of the same field.
func (r *Repository) LockField(ctx context.Context, fieldID string) (field.Field, error) {
	if _, err := uuid.Parse(fieldID); err != nil {
		return field.Field{}, field.ErrFieldNotFound
	}

	sql := `
			SELECT id::text, academy_id, name, field_type, capacity, hourly_rate::text, facilities, is_available, is_active, created_at, updated_at
			FROM fields
			WHERE id=$1
			FOR UPDATE;
		`

	f, err := field.ScanField(r.q(ctx).QueryRow(ctx, sql, fieldID))

	if errors.Is(err, pgx.ErrNoRows) {
		return field.Field{}, field.ErrFieldNotFound
	}

	if err != nil {
		return field.Field{}, fmt.Errorf("failed to lock field %v: %w", fieldID, err)
	}

	return f, nil
}

const bookingColumns = `b.id::text, b.field_id::text, b.booked_by, b.start_time, b.end_time, b.total_cost::text, b.status, b.notes, b.match_id, b.is_active, b.created_at, b.updated_at`

func scanBooking(row pgx.Row, extra ...any) (Booking, error) {
	var (
		b    Booking
		cost string
	)

	dest := append([]any{
		&b.ID,
		&b.FieldID,
		&b.BookedBy,
		&b.StartTime,
		&b.EndTime,
		&cost,
		&b.Status,
		&b.Notes,
		&b.MatchID,
		&b.IsActive,
		&b.CreatedAt,
		&b.UpdatedAt,
	}, extra...)

	if err := row.Scan(dest...); err != nil {
		return Booking{}, err
	}

	var err error
	if b.TotalCost, err = decimal.NewFromString(cost); err != nil {
		return Booking{}, fmt.Errorf("invalid total cost '%v': %w", cost, err)
	}

	return b, nil
}

func (r *Repository) GetBookingByID(ctx context.Context, id string) (Booking, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Booking{}, ErrBookingNotFound
	}

	sql := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id=$1;`

	b, err := scanBooking(r.q(ctx).QueryRow(ctx, sql, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return Booking{}, ErrBookingNotFound
	}

	if err != nil {
		return Booking{}, fmt.Errorf("failed to fetch booking with id %v: %w", id, err)
	}

	return b, nil
}

// FindOverlapping returns the active pending or confirmed bookings of a field
// intersecting [start, end), ordered by start time.
func (r *Repository) FindOverlapping(ctx context.Context, fieldID string, start, end time.Time, excludeID string) ([]Booking, error) {
	sql := `
			SELECT ` + bookingColumns + `
			FROM bookings b
			WHERE b.field_id=$1
				AND b.is_active
				AND b.status IN ('pending', 'confirmed')
				AND b.start_time < $3
				AND b.end_time > $2
				AND ($4 = '' OR b.id::text <> $4)
			ORDER BY b.start_time;
		`

	rows, err := r.q(ctx).Query(ctx, sql, fieldID, start, end, excludeID)

	if err != nil {
		return nil, fmt.Errorf("failed to fetch overlapping bookings: %w", err)
	}

	defer rows.Close()

	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]Booking, error) {
	bookings := []Booking{}

	for rows.Next() {
		b, err := scanBooking(rows)

		if err != nil {
			return nil, fmt.Errorf("error scanning booking row: %w", err)
		}

		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings rows: %w", err)
	}

	return bookings, nil
}

func (q Query) where() (string, []any) {
	var (
		clauses []string
		args    []any
	)

	add := func(format string, v any) {
		args = append(args, v)
		clauses = append(clauses, fmt.Sprintf(format, len(args)))
	}

	if !q.IncludeInactive {
		clauses = append(clauses, "b.is_active")
	}
	if q.FieldID != "" {
		add("b.field_id::text=$%d", q.FieldID)
	}
	if q.AcademyID != "" {
		add("f.academy_id=$%d", q.AcademyID)
	}
	if q.BookedBy != "" {
		add("b.booked_by=$%d", q.BookedBy)
	}
	if len(q.Statuses) > 0 {
		statuses := make([]string, len(q.Statuses))
		for i, s := range q.Statuses {
			statuses[i] = string(s)
		}
		add("b.status = ANY($%d)", statuses)
	}
	if !q.StartFrom.IsZero() {
		add("b.start_time >= $%d", q.StartFrom)
	}
	if !q.StartBefore.IsZero() {
		add("b.start_time < $%d", q.StartBefore)
	}

	if len(clauses) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (q Query) limit() string {
	if q.Limit > 0 {
		return fmt.Sprintf(" LIMIT %d", q.Limit)
	}
	return ""
}

func (r *Repository) ListBookings(ctx context.Context, q Query) ([]Booking, error) {
	where, args := q.where()
	sql := `SELECT ` + bookingColumns + ` FROM bookings b JOIN fields f ON f.id = b.field_id` + where + ` ORDER BY b.start_time` + q.limit() + `;`

	rows, err := r.q(ctx).Query(ctx, sql, args...)

	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}

	defer rows.Close()

	return collectBookings(rows)
}

func (r *Repository) ListBookingDetails(ctx context.Context, q Query) ([]Detail, error) {
	where, args := q.where()
	sql := `
			SELECT ` + bookingColumns + `, f.name, f.academy_id, COALESCE(u.full_name, ''), COALESCE(u.email, ''), COALESCE(u.role, '')
			FROM bookings b
			JOIN fields f ON f.id = b.field_id
			LEFT JOIN users u ON u.id = b.booked_by` + where + `
			ORDER BY b.start_time` + q.limit() + `;`

	rows, err := r.q(ctx).Query(ctx, sql, args...)

	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking details: %w", err)
	}

	defer rows.Close()

	details := []Detail{}

	for rows.Next() {
		var d Detail
		b, err := scanBooking(rows, &d.FieldName, &d.AcademyID, &d.BookedByName, &d.BookedByEmail, &d.BookedByRole)

		if err != nil {
			return nil, fmt.Errorf("error scanning booking detail row: %w", err)
		}

		d.Booking = b
		details = append(details, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating booking detail rows: %w", err)
	}

	return details, nil
}

func (r *Repository) CountBookings(ctx context.Context, q Query) (int, error) {
	where, args := q.where()
	sql := `SELECT COUNT(*) FROM bookings b JOIN fields f ON f.id = b.field_id` + where + `;`

	var count int
	if err := r.q(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	return count, nil
}

func (r *Repository) InsertBooking(ctx context.Context, b Booking) (Booking, error) {
	sql := `
			INSERT INTO bookings(
			id, field_id, booked_by, start_time, end_time, total_cost, status, notes, match_id, is_active)
			VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8, $9, $10)
			RETURNING created_at, updated_at;
		`

	b.ID = uuid.NewString()

	err := r.q(ctx).QueryRow(ctx, sql,
		b.ID,
		b.FieldID,
		b.BookedBy,
		b.StartTime,
		b.EndTime,
		b.TotalCost.StringFixed(2),
		b.Status,
		b.Notes,
		b.MatchID,
		b.IsActive,
	).Scan(&b.CreatedAt, &b.UpdatedAt)

	if err != nil {
		if mapped := mapWriteError(err); mapped != nil {
			return Booking{}, mapped
		}
		return Booking{}, fmt.Errorf("failed to insert booking: %w", err)
	}

	return b, nil
}

func (r *Repository) UpdateBooking(ctx context.Context, b Booking) (Booking, error) {
	sql := `
			UPDATE bookings
			SET
				field_id=$1,
				start_time=$2,
				end_time=$3,
				total_cost=$4::numeric,
				notes=$5,
				updated_at=now()
			WHERE id=$6
			RETURNING updated_at;
		`

	err := r.q(ctx).QueryRow(ctx, sql,
		b.FieldID,
		b.StartTime,
		b.EndTime,
		b.TotalCost.StringFixed(2),
		b.Notes,
		b.ID,
	).Scan(&b.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return Booking{}, ErrBookingNotFound
	}

	if err != nil {
		if mapped := mapWriteError(err); mapped != nil {
			return Booking{}, mapped
		}
		return Booking{}, fmt.Errorf("failed to update booking: %w", err)
	}

	return b, nil
}

// SetBookingStatus moves a booking to status only if it is currently in one
// of the from statuses.
func (r *Repository) SetBookingStatus(ctx context.Context, id string, from []Status, status Status) error {
	sql := `
            UPDATE bookings
            SET status=$1, updated_at=now()
            WHERE id=$2 AND status = ANY($3);
        `

	allowed := make([]string, len(from))
	for i, s := range from {
		allowed[i] = string(s)
	}

	tag, err := r.q(ctx).Exec(ctx, sql, status, id, allowed)

	if err != nil {
		return fmt.Errorf("failed to update booking '%v' status: %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("booking '%v' changed concurrently: %w", id, ErrInvalidBookingState)
	}

	return nil
}

func (r *Repository) SetBookingActive(ctx context.Context, id string, active bool) error {
	sql := `
            UPDATE bookings
            SET is_active=$1, updated_at=now()
            WHERE id=$2;
        `

	tag, err := r.q(ctx).Exec(ctx, sql, active, id)

	if err != nil {
		if mapped := mapWriteError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to update booking '%v' visibility: %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// mapWriteError translates constraint violations into domain errors.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}

	switch pgErr.Code {
	case "23P01": // exclusion_violation
		return &ConflictError{}
	case "23514": // check_violation
		return invalid(msgEndBeforeStart)
	}

	return nil
}
