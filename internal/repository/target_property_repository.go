package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stwalsh4118/househunt/internal/database"
	"github.com/stwalsh4118/househunt/internal/models"
)

// The address bag is stored as JSONB; pgx marshals models.Address with
// encoding/json on the way in and out.
const targetColumns = `
	id, hunt_id, active, lot_id, property_id, title, ad_url, price, notes,
	address, created_at, updated_at`

type targetPropertyRepository struct {
	db *database.Postgres
}

// NewTargetPropertyRepository creates a PostgreSQL-backed TargetPropertyRepository.
func NewTargetPropertyRepository(db *database.Postgres) TargetPropertyRepository {
	return &targetPropertyRepository{db: db}
}

func (r *targetPropertyRepository) Create(ctx context.Context, target *models.TargetProperty) error {
	stamp(&target.ID, &target.CreatedAt, &target.UpdatedAt)

	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO target_properties (`+targetColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		target.ID,
		target.HuntID,
		target.Active,
		target.LotID,
		target.PropertyID,
		target.Title,
		target.AdURL,
		target.Price,
		target.Notes,
		target.Address,
		target.CreatedAt,
		target.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert target property: %w", err)
	}
	return nil
}

func (r *targetPropertyRepository) GetByID(ctx context.Context, id string) (*models.TargetProperty, error) {
	target, err := scanTarget(r.db.Pool.QueryRow(ctx,
		`SELECT `+targetColumns+` FROM target_properties WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query target property %s: %w", id, err)
	}
	return target, nil
}

func (r *targetPropertyRepository) ListByHunt(ctx context.Context, huntID string) ([]models.TargetProperty, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+targetColumns+` FROM target_properties WHERE hunt_id = $1 ORDER BY created_at`, huntID)
	if err != nil {
		return nil, fmt.Errorf("failed to query targets of hunt %s: %w", huntID, err)
	}
	defer rows.Close()

	targets := []models.TargetProperty{}
	for rows.Next() {
		target, err := scanTarget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan target property row: %w", err)
		}
		targets = append(targets, *target)
	}
	return targets, rows.Err()
}

func (r *targetPropertyRepository) Update(ctx context.Context, target *models.TargetProperty) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE target_properties SET
			active = $2, lot_id = $3, property_id = $4, title = $5, ad_url = $6,
			price = $7, notes = $8, address = $9, updated_at = NOW()
		WHERE id = $1`,
		target.ID,
		target.Active,
		target.LotID,
		target.PropertyID,
		target.Title,
		target.AdURL,
		target.Price,
		target.Notes,
		target.Address,
	)
	if err != nil {
		return fmt.Errorf("failed to update target property %s: %w", target.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *targetPropertyRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM target_properties WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete target property %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanTarget(row pgx.Row) (*models.TargetProperty, error) {
	var t models.TargetProperty
	err := row.Scan(
		&t.ID,
		&t.HuntID,
		&t.Active,
		&t.LotID,
		&t.PropertyID,
		&t.Title,
		&t.AdURL,
		&t.Price,
		&t.Notes,
		&t.Address,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
