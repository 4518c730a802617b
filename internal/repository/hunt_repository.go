package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stwalsh4118/househunt/internal/database"
	"github.com/stwalsh4118/househunt/internal/models"
)

const huntColumns = `id, name, description, target_ids, created_at, updated_at`

type huntRepository struct {
	db *database.Postgres
}

// NewHuntRepository creates a PostgreSQL-backed HuntRepository.
func NewHuntRepository(db *database.Postgres) HuntRepository {
	return &huntRepository{db: db}
}

func (r *huntRepository) Create(ctx context.Context, hunt *models.Hunt) error {
	stamp(&hunt.ID, &hunt.CreatedAt, &hunt.UpdatedAt)
	hunt.TargetIDs = nonNil(hunt.TargetIDs)

	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO hunts (`+huntColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		hunt.ID, hunt.Name, hunt.Description, hunt.TargetIDs, hunt.CreatedAt, hunt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert hunt: %w", err)
	}
	return nil
}

func (r *huntRepository) GetByID(ctx context.Context, id string) (*models.Hunt, error) {
	hunt, err := scanHunt(r.db.Pool.QueryRow(ctx, `SELECT `+huntColumns+` FROM hunts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query hunt %s: %w", id, err)
	}
	return hunt, nil
}

func (r *huntRepository) List(ctx context.Context) ([]models.Hunt, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+huntColumns+` FROM hunts ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query hunts: %w", err)
	}
	defer rows.Close()

	hunts := []models.Hunt{}
	for rows.Next() {
		hunt, err := scanHunt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hunt row: %w", err)
		}
		hunts = append(hunts, *hunt)
	}
	return hunts, rows.Err()
}

func (r *huntRepository) Update(ctx context.Context, hunt *models.Hunt) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE hunts SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1`,
		hunt.ID, hunt.Name, hunt.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to update hunt %s: %w", hunt.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *huntRepository) AddTarget(ctx context.Context, huntID, targetID string) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE hunts SET target_ids = array_append(target_ids, $2), updated_at = NOW()
		WHERE id = $1 AND NOT ($2 = ANY(target_ids))`,
		huntID, targetID,
	)
	if err != nil {
		return fmt.Errorf("failed to add target %s to hunt %s: %w", targetID, huntID, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Either the hunt is missing or the target was already listed.
	hunt, err := r.GetByID(ctx, huntID)
	if err != nil {
		return err
	}
	if hunt == nil {
		return ErrNotFound
	}
	return nil
}

func (r *huntRepository) RemoveTarget(ctx context.Context, huntID, targetID string) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE hunts SET target_ids = array_remove(target_ids, $2), updated_at = NOW()
		WHERE id = $1 AND $2 = ANY(target_ids)`,
		huntID, targetID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to remove target %s from hunt %s: %w", targetID, huntID, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *huntRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM hunts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete hunt %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanHunt(row pgx.Row) (*models.Hunt, error) {
	var h models.Hunt
	if err := row.Scan(&h.ID, &h.Name, &h.Description, &h.TargetIDs, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return nil, err
	}
	return &h, nil
}
