package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stwalsh4118/househunt/internal/lock"
	"github.com/stwalsh4118/househunt/internal/logger"
	"github.com/stwalsh4118/househunt/internal/models"
	"github.com/stwalsh4118/househunt/internal/repository"
)

// LotService is the plain CRUD around lots and properties. Creation goes
// through the AddressResolver only.
type LotService interface {
	GetLot(ctx context.Context, id string) (*models.Lot, error)
	ListLotProperties(ctx context.Context, lotID string) ([]models.Property, error)
	GetProperty(ctx context.Context, id string) (*models.Property, error)

	// UpdateLot returns ErrLotAddressTaken when the new identity belongs to
	// another lot.
	UpdateLot(ctx context.Context, id string, patch models.LotPatch) (*models.Lot, error)
	UpdateProperty(ctx context.Context, id string, patch models.PropertyPatch) (*models.Property, error)

	// DeleteLot does not touch the lot's properties or the targets pointing
	// at it.
	DeleteLot(ctx context.Context, id string) bool
	DeleteProperty(ctx context.Context, id string) bool
}

type lotService struct {
	lots       repository.LotRepository
	properties repository.PropertyRepository
	locker     lock.Locker
	log        *logger.Logger
}

// NewLotService creates a LotService. Pass the resolver's locker so that
// identity changes serialize with resolutions of the same address.
func NewLotService(lots repository.LotRepository, properties repository.PropertyRepository, locker lock.Locker, log *logger.Logger) LotService {
	if locker == nil {
		locker = lock.NewLocal()
	}
	return &lotService{lots: lots, properties: properties, locker: locker, log: log}
}

func (s *lotService) GetLot(ctx context.Context, id string) (*models.Lot, error) {
	lot, err := s.lots.GetByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to query lot", err, map[string]interface{}{"lot_id": id})
		return nil, fmt.Errorf("failed to query lot: %w", err)
	}
	if lot == nil {
		return nil, fmt.Errorf("%w: %s", ErrLotNotFound, id)
	}
	return lot, nil
}

func (s *lotService) ListLotProperties(ctx context.Context, lotID string) ([]models.Property, error) {
	if _, err := s.GetLot(ctx, lotID); err != nil {
		return nil, err
	}
	properties, err := s.properties.FindByLot(ctx, lotID)
	if err != nil {
		s.log.Error("Failed to list properties", err, map[string]interface{}{"lot_id": lotID})
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return properties, nil
}

func (s *lotService) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	property, err := s.properties.GetByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to query property", err, map[string]interface{}{"property_id": id})
		return nil, fmt.Errorf("failed to query property: %w", err)
	}
	if property == nil {
		return nil, fmt.Errorf("%w: %s", ErrPropertyNotFound, id)
	}
	return property, nil
}

func (s *lotService) UpdateLot(ctx context.Context, id string, patch models.LotPatch) (*models.Lot, error) {
	current, err := s.GetLot(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := current.Apply(patch)
	updated.Street = strings.TrimSpace(updated.Street)
	updated.City = strings.TrimSpace(updated.City)
	updated.Province = strings.TrimSpace(updated.Province)
	updated.Country = strings.TrimSpace(updated.Country)
	if updated.Street == "" || updated.City == "" || updated.Province == "" || updated.Country == "" {
		return nil, validationError("street, city, province and country cannot be blank")
	}

	filter := updated.Filter()
	unlock, err := s.locker.Lock(ctx, "lot:"+filter.Key())
	if err != nil {
		return nil, fmt.Errorf("failed to lock lot %s: %w", filter.Key(), err)
	}
	defer unlock()

	matches, err := s.lots.FindByAddress(ctx, filter)
	if err != nil {
		s.log.Error("Failed to query lots by address", err, map[string]interface{}{"lot_key": filter.Key()})
		return nil, fmt.Errorf("failed to query lots: %w", err)
	}
	for _, m := range matches {
		if m.ID != id {
			return nil, fmt.Errorf("%w: address %s already belongs to lot %s", ErrLotAddressTaken, filter.Key(), m.ID)
		}
	}

	if err := s.lots.Update(ctx, &updated); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("%w: %s", ErrLotNotFound, id)
		case errors.Is(err, repository.ErrDuplicateKey):
			return nil, fmt.Errorf("%w: %v", ErrLotAddressTaken, err)
		}
		s.log.Error("Failed to update lot", err, map[string]interface{}{"lot_id": id})
		return nil, fmt.Errorf("failed to update lot: %w", err)
	}

	s.log.Info("Lot updated", map[string]interface{}{"lot_id": id})
	return s.GetLot(ctx, id)
}

func (s *lotService) UpdateProperty(ctx context.Context, id string, patch models.PropertyPatch) (*models.Property, error) {
	current, err := s.GetProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Sun != nil && !patch.Sun.Valid() {
		return nil, validationError("sun must be one of %s, %s, %s", models.SunMorning, models.SunAfternoon, models.SunNone)
	}

	updated := current.Apply(patch)
	if err := s.properties.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPropertyNotFound, id)
		}
		s.log.Error("Failed to update property", err, map[string]interface{}{"property_id": id})
		return nil, fmt.Errorf("failed to update property: %w", err)
	}
	return s.GetProperty(ctx, id)
}

func (s *lotService) DeleteLot(ctx context.Context, id string) bool {
	deleted, err := s.lots.Delete(ctx, id)
	if err != nil {
		s.log.Error("Failed to delete lot", err, map[string]interface{}{"lot_id": id})
		return false
	}
	return deleted
}

func (s *lotService) DeleteProperty(ctx context.Context, id string) bool {
	deleted, err := s.properties.Delete(ctx, id)
	if err != nil {
		s.log.Error("Failed to delete property", err, map[string]interface{}{"property_id": id})
		return false
	}
	return deleted
}
