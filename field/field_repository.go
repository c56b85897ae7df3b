package field

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Filter struct {
	AcademyID     string
	Type          Type
	AvailableOnly bool
}

type Repository struct{ pool *pgxpool.Pool }

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectFields = `SELECT id::text, academy_id, name, field_type, capacity, hourly_rate::text, facilities, is_available, is_active, created_at, updated_at FROM fields`

func (r *Repository) GetFieldByID(ctx context.Context, id string) (Field, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Field{}, ErrFieldNotFound
	}

	sql := selectFields + ` WHERE id=$1;`

	f, err := ScanField(r.pool.QueryRow(ctx, sql, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return Field{}, ErrFieldNotFound
	}

	if err != nil {
		return Field{}, fmt.Errorf("failed to fetch field with id %v: %w", id, err)
	}

	return f, nil
}

func (r *Repository) ListFields(ctx context.Context, filter Filter) ([]Field, error) {
	where := []string{"is_active"}
	args := []any{}

	if filter.AcademyID != "" {
		args = append(args, filter.AcademyID)
		where = append(where, fmt.Sprintf("academy_id=$%d", len(args)))
	}

	if filter.Type != "" {
		args = append(args, filter.Type)
		where = append(where, fmt.Sprintf("field_type=$%d", len(args)))
	}

	if filter.AvailableOnly {
		where = append(where, "is_available")
	}

	sql := selectFields + " WHERE " + strings.Join(where, " AND ") + " ORDER BY name;"

	rows, err := r.pool.Query(ctx, sql, args...)

	if err != nil {
		return nil, fmt.Errorf("failed to fetch fields: %w", err)
	}

	defer rows.Close()

	fields := []Field{}

	for rows.Next() {
		f, err := ScanField(rows)

		if err != nil {
			return nil, fmt.Errorf("error scanning field row: %w", err)
		}

		fields = append(fields, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating field rows: %w", err)
	}

	return fields, nil
}

// ScanField reads a row selected with the column order of selectFields.
func ScanField(row pgx.Row) (Field, error) {
	var (
		f          Field
		rate       string
		facilities []byte
	)

	err := row.Scan(
		&f.ID,
		&f.AcademyID,
		&f.Name,
		&f.Type,
		&f.Capacity,
		&rate,
		&facilities,
		&f.IsAvailable,
		&f.IsActive,
		&f.CreatedAt,
		&f.UpdatedAt,
	)

	if err != nil {
		return Field{}, err
	}

	if f.HourlyRate, err = decimal.NewFromString(rate); err != nil {
		return Field{}, fmt.Errorf("invalid hourly rate '%v': %w", rate, err)
	}

	f.Facilities = map[string]any{}
	if len(facilities) > 0 {
		if err := json.Unmarshal(facilities, &f.Facilities); err != nil {
			return Field{}, fmt.Errorf("invalid facilities: %w", err)
		}
	}

	return f, nil
}
