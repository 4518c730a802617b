package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stwalsh4118/househunt/internal/logger"
	"github.com/stwalsh4118/househunt/internal/metrics"
	"github.com/stwalsh4118/househunt/internal/models"
	"github.com/stwalsh4118/househunt/internal/repository"
)

// HuntTargets is the part of HuntService the target service relies on.
type HuntTargets interface {
	GetOneHuntByID(ctx context.Context, id string) (*models.Hunt, error)
	AddTargetToHunt(ctx context.Context, huntID, targetID string) error
	RemoveTargetFromHunt(ctx context.Context, huntID, targetID string) bool
}

// TargetPropertyService manages the candidate listings of a hunt and keeps
// their lot and property references resolved.
type TargetPropertyService interface {
	// CreateTargetProperty validates the hunt, runs the duplicity guard,
	// resolves the address and stores the target as active.
	// Resolver errors are returned as they are.
	CreateTargetProperty(ctx context.Context, target models.TargetProperty) (*models.TargetProperty, error)

	GetTargetProperty(ctx context.Context, id string) (*models.TargetProperty, error)
	ListTargetPropertiesByHunt(ctx context.Context, huntID string) ([]models.TargetProperty, error)

	// UpdateTargetProperty merges patch into the stored target and resolves
	// the merged address again. The target may move to another lot or
	// property as a result.
	UpdateTargetProperty(ctx context.Context, id string, patch models.TargetPropertyPatch) (*models.TargetProperty, error)

	// DeleteTargetProperty reports whether the target was deleted.
	DeleteTargetProperty(ctx context.Context, id string) bool

	// PreventDuplicity returns a *DuplicityError when the hunt already holds
	// a target at the same or an overlapping address.
	PreventDuplicity(ctx context.Context, huntID string, address models.Address) error
}

type targetPropertyService struct {
	targets  repository.TargetPropertyRepository
	hunts    HuntTargets
	resolver AddressResolver
	metrics  *metrics.Metrics
	log      *logger.Logger
}

// NewTargetPropertyService creates a TargetPropertyService.
func NewTargetPropertyService(
	targets repository.TargetPropertyRepository,
	hunts HuntTargets,
	resolver AddressResolver,
	m *metrics.Metrics,
	log *logger.Logger,
) TargetPropertyService {
	return &targetPropertyService{
		targets:  targets,
		hunts:    hunts,
		resolver: resolver,
		metrics:  m,
		log:      log,
	}
}

func (s *targetPropertyService) CreateTargetProperty(ctx context.Context, target models.TargetProperty) (*models.TargetProperty, error) {
	target.HuntID = strings.TrimSpace(target.HuntID)
	if target.HuntID == "" {
		return nil, validationError("huntId is required")
	}
	if err := validateAddress(target.Address.Normalize()); err != nil {
		return nil, err
	}

	if _, err := s.hunts.GetOneHuntByID(ctx, target.HuntID); err != nil {
		return nil, err
	}

	if err := s.PreventDuplicity(ctx, target.HuntID, target.Address); err != nil {
		return nil, err
	}

	res, err := s.resolver.Resolve(ctx, target.Address)
	if err != nil {
		return nil, err
	}

	target.ID = ""
	target.Address = target.Address.Normalize().WithLot(res.Lot).WithProperty(res.Property)
	target.LotID = &res.Lot.ID
	target.PropertyID = &res.Property.ID
	target.Active = true

	if err := s.targets.Create(ctx, &target); err != nil {
		s.log.Error("Failed to create target property", err, map[string]interface{}{
			"hunt_id": target.HuntID,
		})
		return nil, fmt.Errorf("failed to create target property: %w", err)
	}

	if err := s.hunts.AddTargetToHunt(ctx, target.HuntID, target.ID); err != nil {
		// Without the hunt reference the target would be unreachable.
		if _, delErr := s.targets.Delete(ctx, target.ID); delErr != nil {
			s.log.Error("Failed to roll back orphan target", delErr, map[string]interface{}{
				"target_id": target.ID,
			})
		}
		return nil, err
	}

	s.log.Info("Target property created", map[string]interface{}{
		"target_id":   target.ID,
		"hunt_id":     target.HuntID,
		"lot_id":      res.Lot.ID,
		"property_id": res.Property.ID,
	})
	return &target, nil
}

func (s *targetPropertyService) GetTargetProperty(ctx context.Context, id string) (*models.TargetProperty, error) {
	target, err := s.targets.GetByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to query target property", err, map[string]interface{}{"target_id": id})
		return nil, fmt.Errorf("failed to query target property: %w", err)
	}
	if target == nil {
		return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, id)
	}
	return target, nil
}

func (s *targetPropertyService) ListTargetPropertiesByHunt(ctx context.Context, huntID string) ([]models.TargetProperty, error) {
	if _, err := s.hunts.GetOneHuntByID(ctx, huntID); err != nil {
		return nil, err
	}
	targets, err := s.targets.ListByHunt(ctx, huntID)
	if err != nil {
		s.log.Error("Failed to list target properties", err, map[string]interface{}{"hunt_id": huntID})
		return nil, fmt.Errorf("failed to list target properties: %w", err)
	}
	return targets, nil
}

func (s *targetPropertyService) UpdateTargetProperty(ctx context.Context, id string, patch models.TargetPropertyPatch) (*models.TargetProperty, error) {
	current, err := s.GetTargetProperty(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := current.Apply(patch)
	res, err := s.resolver.Resolve(ctx, updated.Address)
	if err != nil {
		return nil, err
	}

	updated.Address = updated.Address.Normalize()
	updated.LotID = &res.Lot.ID
	updated.PropertyID = &res.Property.ID

	if err := s.targets.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, id)
		}
		s.log.Error("Failed to update target property", err, map[string]interface{}{"target_id": id})
		return nil, fmt.Errorf("failed to update target property: %w", err)
	}

	if !models.SameString(current.LotID, updated.LotID) || !models.SameString(current.PropertyID, updated.PropertyID) {
		s.log.Info("Target property re-pointed", map[string]interface{}{
			"target_id":       id,
			"old_lot_id":      models.StringValue(current.LotID),
			"new_lot_id":      res.Lot.ID,
			"old_property_id": models.StringValue(current.PropertyID),
			"new_property_id": res.Property.ID,
		})
	}

	return s.GetTargetProperty(ctx, id)
}

func (s *targetPropertyService) DeleteTargetProperty(ctx context.Context, id string) bool {
	target, err := s.targets.GetByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to load target property for deletion", err, map[string]interface{}{"target_id": id})
		return false
	}
	if target == nil {
		return false
	}

	// The hunt keeps listing the target until its record is gone.
	deleted, err := s.targets.Delete(ctx, id)
	if err != nil {
		s.log.Error("Failed to delete target property", err, map[string]interface{}{"target_id": id})
		return false
	}
	if !deleted {
		return false
	}

	if !s.hunts.RemoveTargetFromHunt(ctx, target.HuntID, id) {
		s.log.Warn("Target was not listed in its hunt", map[string]interface{}{
			"target_id": id,
			"hunt_id":   target.HuntID,
		})
	}
	return true
}

// PreventDuplicity walks the ladder from the most specific match to the
// least specific one. Each rung is checked against every target of the hunt
// before moving to the next.
func (s *targetPropertyService) PreventDuplicity(ctx context.Context, huntID string, address models.Address) error {
	huntID = strings.TrimSpace(huntID)
	if huntID == "" {
		return validationError("huntId is required")
	}
	address = address.Normalize()

	existing, err := s.targets.ListByHunt(ctx, huntID)
	if err != nil {
		s.log.Error("Failed to list targets for duplicity check", err, map[string]interface{}{"hunt_id": huntID})
		return fmt.Errorf("failed to list target properties: %w", err)
	}

	if dup := findDuplicity(existing, address); dup != nil {
		s.metrics.DuplicityConflict(dup.Reason)
		s.log.Warn("Duplicate target refused", map[string]interface{}{
			"hunt_id":   huntID,
			"reason":    dup.Reason,
			"target_id": dup.TargetID,
		})
		return dup
	}
	return nil
}

func findDuplicity(existing []models.TargetProperty, a models.Address) *DuplicityError {
	type rung struct {
		reason  string
		matches func(t models.Address) bool
	}
	ladder := []rung{
		{ReasonAlreadyExists, func(t models.Address) bool {
			return a.PropertyNumber != nil &&
				t.Street == a.Street &&
				models.SameString(t.LotNumber, a.LotNumber) &&
				models.SameString(t.PropertyNumber, a.PropertyNumber)
		}},
		{ReasonByLot, func(t models.Address) bool {
			return a.PropertyNumber == nil && a.LotNumber != nil &&
				t.Street == a.Street &&
				models.SameString(t.LotNumber, a.LotNumber)
		}},
		{ReasonByStreet, func(t models.Address) bool {
			return a.LotNumber == nil && t.Street == a.Street
		}},
	}

	for _, r := range ladder {
		for i := range existing {
			if r.matches(existing[i].Address.Normalize()) {
				return &DuplicityError{Reason: r.reason, TargetID: existing[i].ID}
			}
		}
	}
	return nil
}
