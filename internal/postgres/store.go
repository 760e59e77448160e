// Package postgres implements the registration RecordStore on top of
// pgx/v5. One table, three statements; the reconciler upstream decides
// when each runs.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Jacklau9515AI/PPSR.Registration/internal/registration"
)

// DB is the subset of pgxpool.Pool the store needs. Satisfied by
// *pgxpool.Pool, pgx.Tx, and pgxmock pools in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the pgx-backed RecordStore.
type Store struct {
	db DB
}

// NewStore creates a Store on the given connection pool.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

const findByKeySQL = `
SELECT id, grantor_first_name, grantor_middle_names, grantor_last_name,
       vin, registration_start_date, duration, spg_acn, spg_organization_name
FROM registrations
WHERE grantor_first_name = $1
  AND grantor_last_name = $2
  AND vin = $3
  AND spg_acn = $4`

const insertSQL = `
INSERT INTO registrations (
	id, grantor_first_name, grantor_middle_names, grantor_last_name,
	vin, registration_start_date, duration, spg_acn, spg_organization_name
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const updateSQL = `
UPDATE registrations SET
	grantor_first_name = $2,
	grantor_middle_names = $3,
	grantor_last_name = $4,
	vin = $5,
	registration_start_date = $6,
	duration = $7,
	spg_acn = $8,
	spg_organization_name = $9
WHERE id = $1`

// FindByKey looks up a registration by its composite natural key.
// Returns (nil, nil) when no record matches; the key is unique, so at
// most one row can come back.
func (s *Store) FindByKey(ctx context.Context, key registration.RecordKey) (*registration.Registration, error) {
	row := s.db.QueryRow(ctx, findByKeySQL,
		key.GrantorFirstName, key.GrantorLastName, key.VIN, key.SpgACN)

	var (
		rec         registration.Registration
		id          pgtype.UUID
		middleNames pgtype.Text
		startDate   pgtype.Date
		duration    int32
	)
	err := row.Scan(
		&id,
		&rec.GrantorFirstName,
		&middleNames,
		&rec.GrantorLastName,
		&rec.VIN,
		&startDate,
		&duration,
		&rec.SpgACN,
		&rec.SpgOrganizationName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find registration: %w", err)
	}

	rec.ID = uuid.UUID(id.Bytes)
	rec.GrantorMiddleNames = middleNames.String
	rec.StartDate = startDate.Time
	rec.Duration = registration.DurationFromYears(int(duration))
	return &rec, nil
}

// Insert persists a new registration.
func (s *Store) Insert(ctx context.Context, rec *registration.Registration) error {
	_, err := s.db.Exec(ctx, insertSQL, insertArgs(rec)...)
	if err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

// Update overwrites an existing registration by id.
func (s *Store) Update(ctx context.Context, rec *registration.Registration) error {
	tag, err := s.db.Exec(ctx, updateSQL, insertArgs(rec)...)
	if err != nil {
		return fmt.Errorf("update registration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update registration: id %s not found", rec.ID)
	}
	return nil
}

// insertArgs renders a Registration as statement arguments; insert and
// update share the same column order.
func insertArgs(rec *registration.Registration) []any {
	return []any{
		pgtype.UUID{Bytes: rec.ID, Valid: true},
		rec.GrantorFirstName,
		toPgText(rec.GrantorMiddleNames),
		rec.GrantorLastName,
		rec.VIN,
		pgtype.Date{Time: rec.StartDate, Valid: true},
		int32(rec.Duration),
		rec.SpgACN,
		rec.SpgOrganizationName,
	}
}

// toPgText maps an empty string to NULL, matching the nullable
// grantor_middle_names column.
func toPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}
