package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stwalsh4118/househunt/internal/database"
	"github.com/stwalsh4118/househunt/internal/models"
)

// pgUniqueViolation is the SQLSTATE raised by a unique index conflict.
const pgUniqueViolation = "23505"

const lotColumns = `
	id, name, street, lot_number, postal_code, neighborhood,
	city, province, country, amenities, created_at, updated_at`

// lotRepository is the PostgreSQL implementation of LotRepository.
type lotRepository struct {
	db *database.Postgres
}

// NewLotRepository creates a PostgreSQL-backed LotRepository.
func NewLotRepository(db *database.Postgres) LotRepository {
	return &lotRepository{db: db}
}

// Create inserts the lot. The insert does nothing when the address unique
// index already holds a row; in that case the existing lot is read back.
func (r *lotRepository) Create(ctx context.Context, lot *models.Lot) (*models.Lot, error) {
	stored := *lot
	stamp(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	stored.Amenities = nonNil(stored.Amenities)

	query := `
		INSERT INTO lots (` + lotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT DO NOTHING
		RETURNING ` + lotColumns

	created, err := scanLot(r.db.Pool.QueryRow(ctx, query,
		stored.ID,
		stored.Name,
		stored.Street,
		stored.LotNumber,
		stored.PostalCode,
		stored.Neighborhood,
		stored.City,
		stored.Province,
		stored.Country,
		stored.Amenities,
		stored.CreatedAt,
		stored.UpdatedAt,
	))
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to insert lot: %w", err)
	}

	existing, err := r.FindByAddress(ctx, stored.Filter())
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return nil, fmt.Errorf("failed to insert lot %s: conflicting row not found", stored.ID)
	}
	return &existing[0], nil
}

// FindByAddress returns all lots with the given identity tuple.
// IS NOT DISTINCT FROM makes a NULL lot number match only NULL.
func (r *lotRepository) FindByAddress(ctx context.Context, filter models.LotFilter) ([]models.Lot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM lots
		WHERE street = $1
		  AND city = $2
		  AND province = $3
		  AND country = $4
		  AND lot_number IS NOT DISTINCT FROM $5
		ORDER BY created_at`

	rows, err := r.db.Pool.Query(ctx, query,
		filter.Street, filter.City, filter.Province, filter.Country, filter.LotNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to query lots by address (%s): %w", filter.Key(), err)
	}
	defer rows.Close()

	lots := []models.Lot{}
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lot row: %w", err)
		}
		lots = append(lots, *lot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lot rows: %w", err)
	}

	return lots, nil
}

// GetByID returns the lot with the given id, or nil, nil when absent.
func (r *lotRepository) GetByID(ctx context.Context, id string) (*models.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE id = $1`

	lot, err := scanLot(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query lot %s: %w", id, err)
	}
	return lot, nil
}

// Update replaces every editable column of the lot.
func (r *lotRepository) Update(ctx context.Context, lot *models.Lot) error {
	query := `
		UPDATE lots SET
			name = $2, street = $3, lot_number = $4, postal_code = $5,
			neighborhood = $6, city = $7, province = $8, country = $9,
			amenities = $10, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.db.Pool.Exec(ctx, query,
		lot.ID,
		lot.Name,
		lot.Street,
		lot.LotNumber,
		lot.PostalCode,
		lot.Neighborhood,
		lot.City,
		lot.Province,
		lot.Country,
		nonNil(lot.Amenities),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: lot address %s", ErrDuplicateKey, lot.Filter().Key())
		}
		return fmt.Errorf("failed to update lot %s: %w", lot.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the lot. Properties under it are left in place.
func (r *lotRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM lots WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete lot %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanLot(row pgx.Row) (*models.Lot, error) {
	var lot models.Lot
	err := row.Scan(
		&lot.ID,
		&lot.Name,
		&lot.Street,
		&lot.LotNumber,
		&lot.PostalCode,
		&lot.Neighborhood,
		&lot.City,
		&lot.Province,
		&lot.Country,
		&lot.Amenities,
		&lot.CreatedAt,
		&lot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lot, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
