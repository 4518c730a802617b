package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stwalsh4118/househunt/internal/database"
	"github.com/stwalsh4118/househunt/internal/models"
)

const propertyColumns = `
	id, lot_id, property_number, block, size, rooms, bathrooms, parking,
	frontage, sun, condo_fee, amenities, created_at, updated_at`

// propertyRepository is the PostgreSQL implementation of PropertyRepository.
type propertyRepository struct {
	db *database.Postgres
}

// NewPropertyRepository creates a PostgreSQL-backed PropertyRepository.
func NewPropertyRepository(db *database.Postgres) PropertyRepository {
	return &propertyRepository{db: db}
}

// Create inserts the property, falling back to the row already stored under
// (lot_id, property_number) when the unique index rejects the insert.
func (r *propertyRepository) Create(ctx context.Context, property *models.Property) (*models.Property, error) {
	stored := *property
	stamp(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	stored.Amenities = nonNil(stored.Amenities)

	query := `
		INSERT INTO properties (` + propertyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT DO NOTHING
		RETURNING ` + propertyColumns

	created, err := scanProperty(r.db.Pool.QueryRow(ctx, query,
		stored.ID,
		stored.LotID,
		stored.PropertyNumber,
		stored.Block,
		stored.Size,
		stored.Rooms,
		stored.Bathrooms,
		stored.Parking,
		stored.Frontage,
		sunToText(stored.Sun),
		stored.CondoFee,
		stored.Amenities,
		stored.CreatedAt,
		stored.UpdatedAt,
	))
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to insert property: %w", err)
	}

	existing, err := r.GetByLotAndNumber(ctx, stored.LotID, stored.PropertyNumber)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("failed to insert property %s: conflicting row not found", stored.ID)
	}
	return existing, nil
}

// FindByLot returns every property of the lot.
func (r *propertyRepository) FindByLot(ctx context.Context, lotID string) ([]models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE lot_id = $1 ORDER BY created_at`

	rows, err := r.db.Pool.Query(ctx, query, lotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties of lot %s: %w", lotID, err)
	}
	defer rows.Close()

	properties := []models.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}
		properties = append(properties, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property rows: %w", err)
	}

	return properties, nil
}

// GetByID returns nil, nil when the property does not exist.
func (r *propertyRepository) GetByID(ctx context.Context, id string) (*models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

// GetByLotAndNumber uses the (lot_id, property_number) unique index.
func (r *propertyRepository) GetByLotAndNumber(ctx context.Context, lotID, propertyNumber string) (*models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE lot_id = $1 AND property_number = $2`
	return r.queryOne(ctx, query, lotID, propertyNumber)
}

func (r *propertyRepository) queryOne(ctx context.Context, query string, args ...any) (*models.Property, error) {
	p, err := scanProperty(r.db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query property: %w", err)
	}
	return p, nil
}

// Update replaces the descriptive columns. lot_id and property_number are
// identity and are not touched.
func (r *propertyRepository) Update(ctx context.Context, property *models.Property) error {
	query := `
		UPDATE properties SET
			block = $2, size = $3, rooms = $4, bathrooms = $5, parking = $6,
			frontage = $7, sun = $8, condo_fee = $9, amenities = $10,
			updated_at = NOW()
		WHERE id = $1`

	tag, err := r.db.Pool.Exec(ctx, query,
		property.ID,
		property.Block,
		property.Size,
		property.Rooms,
		property.Bathrooms,
		property.Parking,
		property.Frontage,
		sunToText(property.Sun),
		property.CondoFee,
		nonNil(property.Amenities),
	)
	if err != nil {
		return fmt.Errorf("failed to update property %s: %w", property.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete reports whether the property was removed.
func (r *propertyRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete property %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanProperty(row pgx.Row) (*models.Property, error) {
	var p models.Property
	var sun *string
	err := row.Scan(
		&p.ID,
		&p.LotID,
		&p.PropertyNumber,
		&p.Block,
		&p.Size,
		&p.Rooms,
		&p.Bathrooms,
		&p.Parking,
		&p.Frontage,
		&sun,
		&p.CondoFee,
		&p.Amenities,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if sun != nil {
		s := models.SunExposure(*sun)
		p.Sun = &s
	}
	return &p, nil
}

func sunToText(s *models.SunExposure) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}
