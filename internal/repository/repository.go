package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/househunt/internal/models"
)

// Repository-level errors shared by every backend.
var (
	// ErrNotFound is returned by writes that target a record that does not exist.
	// Single-record reads return nil, nil instead.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when an update would violate a unique index.
	ErrDuplicateKey = errors.New("duplicate key")
)

// LotRepository defines the data access operations for lots.
type LotRepository interface {
	// Create stores a new lot and returns it. If another lot with the same
	// address identity already exists (a lost creation race), the existing
	// lot is returned instead of an error.
	Create(ctx context.Context, lot *models.Lot) (*models.Lot, error)

	// FindByAddress returns every lot matching the filter. The result is
	// never paginated; callers rely on seeing all matches.
	FindByAddress(ctx context.Context, filter models.LotFilter) ([]models.Lot, error)

	// GetByID returns nil, nil when the lot does not exist.
	GetByID(ctx context.Context, id string) (*models.Lot, error)

	// Update replaces the stored lot. Returns ErrNotFound or ErrDuplicateKey.
	Update(ctx context.Context, lot *models.Lot) error

	// Delete reports whether a lot was removed.
	Delete(ctx context.Context, id string) (bool, error)
}

// PropertyRepository defines the data access operations for properties.
type PropertyRepository interface {
	// Create stores a new property. If the lot already holds a property with
	// the same number, that property is returned instead of an error.
	Create(ctx context.Context, property *models.Property) (*models.Property, error)

	// FindByLot returns every property of the lot, unpaginated.
	FindByLot(ctx context.Context, lotID string) ([]models.Property, error)

	// GetByID returns nil, nil when the property does not exist.
	GetByID(ctx context.Context, id string) (*models.Property, error)

	// GetByLotAndNumber returns nil, nil when the lot has no such property.
	GetByLotAndNumber(ctx context.Context, lotID, propertyNumber string) (*models.Property, error)

	// Update replaces the stored property. Returns ErrNotFound.
	Update(ctx context.Context, property *models.Property) error

	// Delete reports whether a property was removed.
	Delete(ctx context.Context, id string) (bool, error)
}

// TargetPropertyRepository defines the data access operations for hunt targets.
type TargetPropertyRepository interface {
	Create(ctx context.Context, target *models.TargetProperty) error
	GetByID(ctx context.Context, id string) (*models.TargetProperty, error)
	ListByHunt(ctx context.Context, huntID string) ([]models.TargetProperty, error)
	Update(ctx context.Context, target *models.TargetProperty) error
	Delete(ctx context.Context, id string) (bool, error)
}

// HuntRepository defines the data access operations for hunts.
type HuntRepository interface {
	Create(ctx context.Context, hunt *models.Hunt) error
	GetByID(ctx context.Context, id string) (*models.Hunt, error)
	List(ctx context.Context) ([]models.Hunt, error)

	// Update stores name and description. Returns ErrNotFound.
	Update(ctx context.Context, hunt *models.Hunt) error

	// AddTarget appends targetID to the hunt's target list. Returns ErrNotFound.
	AddTarget(ctx context.Context, huntID, targetID string) error

	// RemoveTarget reports whether targetID was in the hunt's list.
	RemoveTarget(ctx context.Context, huntID, targetID string) (bool, error)

	Delete(ctx context.Context, id string) (bool, error)
}

// Stores groups the repositories of one backend.
type Stores struct {
	Lots       LotRepository
	Properties PropertyRepository
	Targets    TargetPropertyRepository
	Hunts      HuntRepository
}

// stamp assigns an id when missing and sets both timestamps for a new record.
func stamp(id *string, createdAt, updatedAt *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	now := nowUTC()
	*createdAt = now
	*updatedAt = now
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

// nonNil keeps NOT NULL array columns and documents from storing null.
func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
