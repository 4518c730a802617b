package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/stwalsh4118/househunt/internal/models"
)

// NewMemoryStores returns in-memory repositories that enforce the same
// unique keys as the database backends. They are safe for concurrent use and
// back STORE_DRIVER=memory as well as the tests.
func NewMemoryStores() Stores {
	return Stores{
		Lots:       NewMemoryLotRepository(),
		Properties: NewMemoryPropertyRepository(),
		Targets:    NewMemoryTargetPropertyRepository(),
		Hunts:      NewMemoryHuntRepository(),
	}
}

// MemoryLotRepository keeps lots in a map guarded by a mutex.
type MemoryLotRepository struct {
	mu   sync.RWMutex
	lots map[string]models.Lot
}

// NewMemoryLotRepository creates an empty in-memory lot store.
func NewMemoryLotRepository() *MemoryLotRepository {
	return &MemoryLotRepository{lots: make(map[string]models.Lot)}
}

// Create stores the lot or returns the one already holding its address.
func (r *MemoryLotRepository) Create(_ context.Context, lot *models.Lot) (*models.Lot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	filter := lot.Filter()
	for _, l := range r.lots {
		if filter.Matches(&l) {
			existing := copyLot(l)
			return &existing, nil
		}
	}

	stored := copyLot(*lot)
	stamp(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	stored.Amenities = nonNil(stored.Amenities)
	r.lots[stored.ID] = stored

	out := copyLot(stored)
	return &out, nil
}

// Insert stores lot as-is, bypassing the address check. Tests use it to
// seed the corrupted state a unique index would normally prevent.
func (r *MemoryLotRepository) Insert(lot models.Lot) models.Lot {
	r.mu.Lock()
	defer r.mu.Unlock()
	stamp(&lot.ID, &lot.CreatedAt, &lot.UpdatedAt)
	r.lots[lot.ID] = copyLot(lot)
	return lot
}

// Len returns the number of stored lots.
func (r *MemoryLotRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.lots)
}

func (r *MemoryLotRepository) FindByAddress(_ context.Context, filter models.LotFilter) ([]models.Lot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Lot{}
	for _, l := range r.lots {
		if filter.Matches(&l) {
			out = append(out, copyLot(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryLotRepository) GetByID(_ context.Context, id string) (*models.Lot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.lots[id]
	if !ok {
		return nil, nil
	}
	out := copyLot(l)
	return &out, nil
}

func (r *MemoryLotRepository) Update(_ context.Context, lot *models.Lot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.lots[lot.ID]
	if !ok {
		return ErrNotFound
	}
	filter := lot.Filter()
	for id, l := range r.lots {
		if id != lot.ID && filter.Matches(&l) {
			return ErrDuplicateKey
		}
	}

	updated := copyLot(*lot)
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = nowUTC()
	updated.Amenities = nonNil(updated.Amenities)
	r.lots[lot.ID] = updated
	return nil
}

func (r *MemoryLotRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.lots[id]; !ok {
		return false, nil
	}
	delete(r.lots, id)
	return true, nil
}

// MemoryPropertyRepository keeps properties in a map guarded by a mutex.
type MemoryPropertyRepository struct {
	mu         sync.RWMutex
	properties map[string]models.Property
}

// NewMemoryPropertyRepository creates an empty in-memory property store.
func NewMemoryPropertyRepository() *MemoryPropertyRepository {
	return &MemoryPropertyRepository{properties: make(map[string]models.Property)}
}

func (r *MemoryPropertyRepository) Create(_ context.Context, property *models.Property) (*models.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.properties {
		if p.LotID == property.LotID && p.PropertyNumber == property.PropertyNumber {
			existing := copyProperty(p)
			return &existing, nil
		}
	}

	stored := copyProperty(*property)
	stamp(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	stored.Amenities = nonNil(stored.Amenities)
	r.properties[stored.ID] = stored

	out := copyProperty(stored)
	return &out, nil
}

// Len returns the number of stored properties.
func (r *MemoryPropertyRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.properties)
}

func (r *MemoryPropertyRepository) FindByLot(_ context.Context, lotID string) ([]models.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Property{}
	for _, p := range r.properties {
		if p.LotID == lotID {
			out = append(out, copyProperty(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryPropertyRepository) GetByID(_ context.Context, id string) (*models.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.properties[id]
	if !ok {
		return nil, nil
	}
	out := copyProperty(p)
	return &out, nil
}

func (r *MemoryPropertyRepository) GetByLotAndNumber(_ context.Context, lotID, propertyNumber string) (*models.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.properties {
		if p.LotID == lotID && p.PropertyNumber == propertyNumber {
			out := copyProperty(p)
			return &out, nil
		}
	}
	return nil, nil
}

func (r *MemoryPropertyRepository) Update(_ context.Context, property *models.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.properties[property.ID]
	if !ok {
		return ErrNotFound
	}
	updated := copyProperty(*property)
	updated.LotID = current.LotID
	updated.PropertyNumber = current.PropertyNumber
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = nowUTC()
	updated.Amenities = nonNil(updated.Amenities)
	r.properties[property.ID] = updated
	return nil
}

func (r *MemoryPropertyRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.properties[id]; !ok {
		return false, nil
	}
	delete(r.properties, id)
	return true, nil
}

// MemoryTargetPropertyRepository keeps targets in a map guarded by a mutex.
type MemoryTargetPropertyRepository struct {
	mu      sync.RWMutex
	targets map[string]models.TargetProperty
}

// NewMemoryTargetPropertyRepository creates an empty in-memory target store.
func NewMemoryTargetPropertyRepository() *MemoryTargetPropertyRepository {
	return &MemoryTargetPropertyRepository{targets: make(map[string]models.TargetProperty)}
}

func (r *MemoryTargetPropertyRepository) Create(_ context.Context, target *models.TargetProperty) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stamp(&target.ID, &target.CreatedAt, &target.UpdatedAt)
	r.targets[target.ID] = *target
	return nil
}

func (r *MemoryTargetPropertyRepository) GetByID(_ context.Context, id string) (*models.TargetProperty, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.targets[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *MemoryTargetPropertyRepository) ListByHunt(_ context.Context, huntID string) ([]models.TargetProperty, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.TargetProperty{}
	for _, t := range r.targets {
		if t.HuntID == huntID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryTargetPropertyRepository) Update(_ context.Context, target *models.TargetProperty) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.targets[target.ID]
	if !ok {
		return ErrNotFound
	}
	updated := *target
	updated.HuntID = current.HuntID
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = nowUTC()
	r.targets[target.ID] = updated
	return nil
}

func (r *MemoryTargetPropertyRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.targets[id]; !ok {
		return false, nil
	}
	delete(r.targets, id)
	return true, nil
}

// MemoryHuntRepository keeps hunts in a map guarded by a mutex.
type MemoryHuntRepository struct {
	mu    sync.RWMutex
	hunts map[string]models.Hunt
}

// NewMemoryHuntRepository creates an empty in-memory hunt store.
func NewMemoryHuntRepository() *MemoryHuntRepository {
	return &MemoryHuntRepository{hunts: make(map[string]models.Hunt)}
}

func (r *MemoryHuntRepository) Create(_ context.Context, hunt *models.Hunt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stamp(&hunt.ID, &hunt.CreatedAt, &hunt.UpdatedAt)
	hunt.TargetIDs = nonNil(hunt.TargetIDs)
	r.hunts[hunt.ID] = copyHunt(*hunt)
	return nil
}

func (r *MemoryHuntRepository) GetByID(_ context.Context, id string) (*models.Hunt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.hunts[id]
	if !ok {
		return nil, nil
	}
	out := copyHunt(h)
	return &out, nil
}

func (r *MemoryHuntRepository) List(_ context.Context) ([]models.Hunt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Hunt, 0, len(r.hunts))
	for _, h := range r.hunts {
		out = append(out, copyHunt(h))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryHuntRepository) Update(_ context.Context, hunt *models.Hunt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.hunts[hunt.ID]
	if !ok {
		return ErrNotFound
	}
	current.Name = hunt.Name
	current.Description = hunt.Description
	current.UpdatedAt = nowUTC()
	r.hunts[hunt.ID] = current
	return nil
}

func (r *MemoryHuntRepository) AddTarget(_ context.Context, huntID, targetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.hunts[huntID]
	if !ok {
		return ErrNotFound
	}
	if h.HasTarget(targetID) {
		return nil
	}
	h = copyHunt(h)
	h.TargetIDs = append(h.TargetIDs, targetID)
	h.UpdatedAt = nowUTC()
	r.hunts[huntID] = h
	return nil
}

func (r *MemoryHuntRepository) RemoveTarget(_ context.Context, huntID, targetID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.hunts[huntID]
	if !ok || !h.HasTarget(targetID) {
		return false, nil
	}
	kept := make([]string, 0, len(h.TargetIDs))
	for _, id := range h.TargetIDs {
		if id != targetID {
			kept = append(kept, id)
		}
	}
	h.TargetIDs = kept
	h.UpdatedAt = nowUTC()
	r.hunts[huntID] = h
	return true, nil
}

func (r *MemoryHuntRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.hunts[id]; !ok {
		return false, nil
	}
	delete(r.hunts, id)
	return true, nil
}

func copyLot(l models.Lot) models.Lot {
	if l.LotNumber != nil {
		n := *l.LotNumber
		l.LotNumber = &n
	}
	l.Amenities = append([]string{}, l.Amenities...)
	return l
}

func copyProperty(p models.Property) models.Property {
	p.Amenities = append([]string{}, p.Amenities...)
	return p
}

func copyHunt(h models.Hunt) models.Hunt {
	h.TargetIDs = append([]string{}, h.TargetIDs...)
	return h
}
