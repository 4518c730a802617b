package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stwalsh4118/househunt/internal/logger"
	"github.com/stwalsh4118/househunt/internal/models"
	"github.com/stwalsh4118/househunt/internal/repository"
)

// HuntService owns hunts and the ordered list of targets each one holds.
type HuntService interface {
	CreateHunt(ctx context.Context, name, description string) (*models.Hunt, error)

	// GetOneHuntByID returns ErrHuntNotFound when the hunt does not exist.
	GetOneHuntByID(ctx context.Context, id string) (*models.Hunt, error)

	ListHunts(ctx context.Context) ([]models.Hunt, error)
	UpdateHunt(ctx context.Context, id string, patch models.HuntPatch) (*models.Hunt, error)

	// AddTargetToHunt appends targetID to the hunt's list.
	AddTargetToHunt(ctx context.Context, huntID, targetID string) error

	// RemoveTargetFromHunt reports whether targetID was removed.
	RemoveTargetFromHunt(ctx context.Context, huntID, targetID string) bool

	// DeleteHunt deletes the hunt and then, only if that succeeded, every
	// target that was in its list. It reports whether the hunt was deleted.
	DeleteHunt(ctx context.Context, id string) bool
}

type huntService struct {
	hunts   repository.HuntRepository
	targets repository.TargetPropertyRepository
	log     *logger.Logger
}

// NewHuntService creates a HuntService. The target repository is used by the
// delete cascade only.
func NewHuntService(hunts repository.HuntRepository, targets repository.TargetPropertyRepository, log *logger.Logger) HuntService {
	return &huntService{hunts: hunts, targets: targets, log: log}
}

func (s *huntService) CreateHunt(ctx context.Context, name, description string) (*models.Hunt, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("name is required")
	}

	hunt := &models.Hunt{Name: name, Description: strings.TrimSpace(description)}
	if err := s.hunts.Create(ctx, hunt); err != nil {
		s.log.Error("Failed to create hunt", err, map[string]interface{}{"name": name})
		return nil, fmt.Errorf("failed to create hunt: %w", err)
	}

	s.log.Info("Hunt created", map[string]interface{}{"hunt_id": hunt.ID})
	return hunt, nil
}

func (s *huntService) GetOneHuntByID(ctx context.Context, id string) (*models.Hunt, error) {
	hunt, err := s.hunts.GetByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to query hunt", err, map[string]interface{}{"hunt_id": id})
		return nil, fmt.Errorf("failed to query hunt: %w", err)
	}
	if hunt == nil {
		return nil, fmt.Errorf("%w: %s", ErrHuntNotFound, id)
	}
	return hunt, nil
}

func (s *huntService) ListHunts(ctx context.Context) ([]models.Hunt, error) {
	hunts, err := s.hunts.List(ctx)
	if err != nil {
		s.log.Error("Failed to list hunts", err, nil)
		return nil, fmt.Errorf("failed to list hunts: %w", err)
	}
	return hunts, nil
}

func (s *huntService) UpdateHunt(ctx context.Context, id string, patch models.HuntPatch) (*models.Hunt, error) {
	current, err := s.GetOneHuntByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := current.Apply(patch)
	updated.Name = strings.TrimSpace(updated.Name)
	if updated.Name == "" {
		return nil, validationError("name cannot be blank")
	}

	if err := s.hunts.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrHuntNotFound, id)
		}
		s.log.Error("Failed to update hunt", err, map[string]interface{}{"hunt_id": id})
		return nil, fmt.Errorf("failed to update hunt: %w", err)
	}
	return s.GetOneHuntByID(ctx, id)
}

func (s *huntService) AddTargetToHunt(ctx context.Context, huntID, targetID string) error {
	if err := s.hunts.AddTarget(ctx, huntID, targetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrHuntNotFound, huntID)
		}
		s.log.Error("Failed to add target to hunt", err, map[string]interface{}{
			"hunt_id":   huntID,
			"target_id": targetID,
		})
		return fmt.Errorf("failed to add target to hunt: %w", err)
	}
	return nil
}

func (s *huntService) RemoveTargetFromHunt(ctx context.Context, huntID, targetID string) bool {
	removed, err := s.hunts.RemoveTarget(ctx, huntID, targetID)
	if err != nil {
		s.log.Error("Failed to remove target from hunt", err, map[string]interface{}{
			"hunt_id":   huntID,
			"target_id": targetID,
		})
		return false
	}
	return removed
}

func (s *huntService) DeleteHunt(ctx context.Context, id string) bool {
	hunt, err := s.hunts.GetByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to load hunt for deletion", err, map[string]interface{}{"hunt_id": id})
		return false
	}
	if hunt == nil {
		s.log.Debug("Hunt to delete not found", map[string]interface{}{"hunt_id": id})
		return false
	}
	targetIDs := append([]string(nil), hunt.TargetIDs...)

	deleted, err := s.hunts.Delete(ctx, id)
	if err != nil || !deleted {
		s.log.Error("Failed to delete hunt, targets left untouched", err, map[string]interface{}{
			"hunt_id": id,
			"targets": len(targetIDs),
		})
		return false
	}

	removed := 0
	for _, targetID := range targetIDs {
		ok, err := s.targets.Delete(ctx, targetID)
		if err != nil {
			s.log.Error("Failed to delete target of deleted hunt", err, map[string]interface{}{
				"hunt_id":   id,
				"target_id": targetID,
			})
			continue
		}
		if ok {
			removed++
		}
	}

	s.log.Info("Hunt deleted", map[string]interface{}{
		"hunt_id":         id,
		"targets_deleted": removed,
		"targets_listed":  len(targetIDs),
	})
	return true
}
