package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/stwalsh4118/househunt/internal/models"
)

// MockLotRepository is a mock implementation of LotRepository for testing
type MockLotRepository struct {
	mock.Mock
}

func (m *MockLotRepository) Create(ctx context.Context, lot *models.Lot) (*models.Lot, error) {
	args := m.Called(ctx, lot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lot), args.Error(1)
}

func (m *MockLotRepository) FindByAddress(ctx context.Context, filter models.LotFilter) ([]models.Lot, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Lot), args.Error(1)
}

func (m *MockLotRepository) GetByID(ctx context.Context, id string) (*models.Lot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lot), args.Error(1)
}

func (m *MockLotRepository) Update(ctx context.Context, lot *models.Lot) error {
	return m.Called(ctx, lot).Error(0)
}

func (m *MockLotRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockPropertyRepository is a mock implementation of PropertyRepository for testing
type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) Create(ctx context.Context, property *models.Property) (*models.Property, error) {
	args := m.Called(ctx, property)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindByLot(ctx context.Context, lotID string) ([]models.Property, error) {
	args := m.Called(ctx, lotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

func (m *MockPropertyRepository) GetByID(ctx context.Context, id string) (*models.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) GetByLotAndNumber(ctx context.Context, lotID, propertyNumber string) (*models.Property, error) {
	args := m.Called(ctx, lotID, propertyNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) Update(ctx context.Context, property *models.Property) error {
	return m.Called(ctx, property).Error(0)
}

func (m *MockPropertyRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockTargetPropertyRepository is a mock implementation of TargetPropertyRepository for testing
type MockTargetPropertyRepository struct {
	mock.Mock
}

func (m *MockTargetPropertyRepository) Create(ctx context.Context, target *models.TargetProperty) error {
	return m.Called(ctx, target).Error(0)
}

func (m *MockTargetPropertyRepository) GetByID(ctx context.Context, id string) (*models.TargetProperty, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TargetProperty), args.Error(1)
}

func (m *MockTargetPropertyRepository) ListByHunt(ctx context.Context, huntID string) ([]models.TargetProperty, error) {
	args := m.Called(ctx, huntID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TargetProperty), args.Error(1)
}

func (m *MockTargetPropertyRepository) Update(ctx context.Context, target *models.TargetProperty) error {
	return m.Called(ctx, target).Error(0)
}

func (m *MockTargetPropertyRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockHuntRepository is a mock implementation of HuntRepository for testing
type MockHuntRepository struct {
	mock.Mock
}

func (m *MockHuntRepository) Create(ctx context.Context, hunt *models.Hunt) error {
	return m.Called(ctx, hunt).Error(0)
}

func (m *MockHuntRepository) GetByID(ctx context.Context, id string) (*models.Hunt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Hunt), args.Error(1)
}

func (m *MockHuntRepository) List(ctx context.Context) ([]models.Hunt, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Hunt), args.Error(1)
}

func (m *MockHuntRepository) Update(ctx context.Context, hunt *models.Hunt) error {
	return m.Called(ctx, hunt).Error(0)
}

func (m *MockHuntRepository) AddTarget(ctx context.Context, huntID, targetID string) error {
	return m.Called(ctx, huntID, targetID).Error(0)
}

func (m *MockHuntRepository) RemoveTarget(ctx context.Context, huntID, targetID string) (bool, error) {
	args := m.Called(ctx, huntID, targetID)
	return args.Bool(0), args.Error(1)
}

func (m *MockHuntRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

// ruaA is the reference address used across the resolver tests.
func ruaA() models.Address {
	return models.Address{
		Street:         "Rua A",
		City:           "Cidade C",
		Province:       "SP",
		Country:        "Brasil",
		LotNumber:      strPtr("123"),
		PropertyNumber: strPtr("456"),
	}
}
