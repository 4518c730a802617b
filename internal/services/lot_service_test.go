package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/househunt/internal/logger"
	"github.com/stwalsh4118/househunt/internal/models"
	"github.com/stwalsh4118/househunt/internal/repository"
)

func newLotFixture(t *testing.T) (LotService, AddressResolver) {
	t.Helper()
	log := logger.New("test")
	lots := repository.NewMemoryLotRepository()
	properties := repository.NewMemoryPropertyRepository()
	return NewLotService(lots, properties, nil, log), NewAddressResolver(lots, properties, nil, nil, log)
}

func TestLotService_GetAndList(t *testing.T) {
	svc, resolver := newLotFixture(t)
	ctx := context.Background()

	res, err := resolver.Resolve(ctx, ruaA())
	require.NoError(t, err)
	other := ruaA()
	other.PropertyNumber = strPtr("457")
	_, err = resolver.Resolve(ctx, other)
	require.NoError(t, err)

	lot, err := svc.GetLot(ctx, res.Lot.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rua A", lot.Street)

	properties, err := svc.ListLotProperties(ctx, res.Lot.ID)
	require.NoError(t, err)
	assert.Len(t, properties, 2)

	property, err := svc.GetProperty(ctx, res.Property.ID)
	require.NoError(t, err)
	assert.Equal(t, "456", property.PropertyNumber)

	_, err = svc.GetLot(ctx, "missing")
	assert.ErrorIs(t, err, ErrLotNotFound)
	_, err = svc.ListLotProperties(ctx, "missing")
	assert.ErrorIs(t, err, ErrLotNotFound)
	_, err = svc.GetProperty(ctx, "missing")
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestLotService_UpdateLot(t *testing.T) {
	svc, resolver := newLotFixture(t)
	ctx := context.Background()

	a, err := resolver.Resolve(ctx, ruaA())
	require.NoError(t, err)
	otherAddr := ruaA()
	otherAddr.LotNumber = strPtr("124")
	b, err := resolver.Resolve(ctx, otherAddr)
	require.NoError(t, err)

	updated, err := svc.UpdateLot(ctx, a.Lot.ID, models.LotPatch{
		Name:      strPtr("Edifício Azul"),
		Amenities: []string{"pool"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Edifício Azul", updated.Name)
	assert.Equal(t, []string{"pool"}, updated.Amenities)

	_, err = svc.UpdateLot(ctx, b.Lot.ID, models.LotPatch{LotNumber: strPtr("123")})
	assert.ErrorIs(t, err, ErrLotAddressTaken, "moving onto another lot's identity is refused")
	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrDataIntegrity, "a caller conflict is not stored corruption")

	_, err = svc.UpdateLot(ctx, a.Lot.ID, models.LotPatch{City: strPtr(" ")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateLot(ctx, "missing", models.LotPatch{})
	assert.ErrorIs(t, err, ErrLotNotFound)

	// Resolving the original address still finds the renamed lot.
	again, err := resolver.Resolve(ctx, ruaA())
	require.NoError(t, err)
	assert.Equal(t, a.Lot.ID, again.Lot.ID)
}

func TestLotService_UpdateLotStoreConflict(t *testing.T) {
	lots := new(MockLotRepository)
	svc := NewLotService(lots, nil, nil, logger.New("test"))
	ctx := context.Background()

	current := &models.Lot{ID: "l1", Street: "Rua A", City: "C", Province: "SP", Country: "BR"}
	lots.On("GetByID", ctx, "l1").Return(current, nil)
	lots.On("FindByAddress", ctx, mock.AnythingOfType("models.LotFilter")).Return([]models.Lot{}, nil)
	lots.On("Update", ctx, mock.AnythingOfType("*models.Lot")).Return(repository.ErrDuplicateKey)

	_, err := svc.UpdateLot(ctx, "l1", models.LotPatch{Street: strPtr("Rua B")})
	assert.ErrorIs(t, err, ErrLotAddressTaken)
}

func TestLotService_UpdateProperty(t *testing.T) {
	svc, resolver := newLotFixture(t)
	ctx := context.Background()

	res, err := resolver.Resolve(ctx, ruaA())
	require.NoError(t, err)

	sun := models.SunMorning
	updated, err := svc.UpdateProperty(ctx, res.Property.ID, models.PropertyPatch{
		Rooms: intPtr(3),
		Sun:   &sun,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, *updated.Rooms)
	assert.Equal(t, models.SunMorning, *updated.Sun)
	assert.Equal(t, res.Lot.ID, updated.LotID)
	assert.Equal(t, "456", updated.PropertyNumber)

	bad := models.SunExposure("evening")
	_, err = svc.UpdateProperty(ctx, res.Property.ID, models.PropertyPatch{Sun: &bad})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLotService_Delete(t *testing.T) {
	svc, resolver := newLotFixture(t)
	ctx := context.Background()

	res, err := resolver.Resolve(ctx, ruaA())
	require.NoError(t, err)

	assert.True(t, svc.DeleteProperty(ctx, res.Property.ID))
	assert.False(t, svc.DeleteProperty(ctx, res.Property.ID))
	assert.True(t, svc.DeleteLot(ctx, res.Lot.ID))
	assert.False(t, svc.DeleteLot(ctx, res.Lot.ID))
}

func TestLotService_DeleteStoreFailure(t *testing.T) {
	lots := new(MockLotRepository)
	properties := new(MockPropertyRepository)
	svc := NewLotService(lots, properties, nil, logger.New("test"))
	ctx := context.Background()

	lots.On("Delete", ctx, "l1").Return(false, errors.New("db down"))
	properties.On("Delete", ctx, "p1").Return(true, errors.New("db down"))

	assert.False(t, svc.DeleteLot(ctx, "l1"))
	assert.False(t, svc.DeleteProperty(ctx, "p1"))
}
