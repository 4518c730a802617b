package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/househunt/internal/logger"
	"github.com/stwalsh4118/househunt/internal/models"
	"github.com/stwalsh4118/househunt/internal/repository"
)

type targetFixture struct {
	stores  repository.Stores
	hunts   HuntService
	targets TargetPropertyService
	hunt    *models.Hunt
}

func newTargetFixture(t *testing.T) *targetFixture {
	t.Helper()
	log := logger.New("test")
	stores := repository.NewMemoryStores()
	resolver := NewAddressResolver(stores.Lots, stores.Properties, nil, nil, log)
	hunts := NewHuntService(stores.Hunts, stores.Targets, log)
	targets := NewTargetPropertyService(stores.Targets, hunts, resolver, nil, log)

	hunt, err := hunts.CreateHunt(context.Background(), "Apartamento SP", "")
	require.NoError(t, err)

	return &targetFixture{stores: stores, hunts: hunts, targets: targets, hunt: hunt}
}

func (f *targetFixture) create(t *testing.T, addr models.Address) *models.TargetProperty {
	t.Helper()
	target, err := f.targets.CreateTargetProperty(context.Background(), models.TargetProperty{
		HuntID:  f.hunt.ID,
		Title:   strPtr("Apartamento 2 quartos"),
		Address: addr,
	})
	require.NoError(t, err)
	return target
}

func TestCreateTargetProperty_ResolvesAndAttaches(t *testing.T) {
	f := newTargetFixture(t)
	ctx := context.Background()

	target := f.create(t, ruaA())

	require.NotNil(t, target.LotID)
	require.NotNil(t, target.PropertyID)
	assert.True(t, target.Active)
	assert.Equal(t, f.hunt.ID, target.HuntID)
	assert.Equal(t, "Apartamento 2 quartos", *target.Title)

	hunt, err := f.hunts.GetOneHuntByID(ctx, f.hunt.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{target.ID}, hunt.TargetIDs)

	stored, err := f.targets.GetTargetProperty(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, *target.LotID, *stored.LotID)
}

func TestCreateTargetProperty_MergesResolvedFields(t *testing.T) {
	f := newTargetFixture(t)
	ctx := context.Background()

	// Another hunt creates the lot and property first.
	other, err := f.hunts.CreateHunt(ctx, "Outra busca", "")
	require.NoError(t, err)
	first := ruaA()
	first.Neighborhood = strPtr("Centro")
	first.Rooms = intPtr(2)
	_, err = f.targets.CreateTargetProperty(ctx, models.TargetProperty{HuntID: other.ID, Address: first})
	require.NoError(t, err)

	second := ruaA()
	second.Neighborhood = strPtr("Digitado errado")
	target := f.create(t, second)

	assert.Equal(t, "Centro", *target.Address.Neighborhood, "resolved lot fields win over the payload")
	require.NotNil(t, target.Address.Rooms)
	assert.Equal(t, 2, *target.Address.Rooms, "resolved property fields win over the payload")
}

func TestCreateTargetProperty_Validation(t *testing.T) {
	f := newTargetFixture(t)
	ctx := context.Background()

	_, err := f.targets.CreateTargetProperty(ctx, models.TargetProperty{Address: ruaA()})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.targets.CreateTargetProperty(ctx, models.TargetProperty{HuntID: "missing", Address: ruaA()})
	assert.ErrorIs(t, err, ErrHuntNotFound)
	assert.ErrorIs(t, err, ErrNotFound)

	bad := ruaA()
	bad.City = ""
	_, err = f.targets.CreateTargetProperty(ctx, models.TargetProperty{HuntID: f.hunt.ID, Address: bad})
	assert.ErrorIs(t, err, ErrValidation)

	targets, err := f.targets.ListTargetPropertiesByHunt(ctx, f.hunt.ID)
	require.NoError(t, err)
	assert.Empty(t, targets)
}

func TestPreventDuplicity_Ladder(t *testing.T) {
	f := newTargetFixture(t)
	ctx := context.Background()
	f.create(t, ruaA())

	tests := []struct {
		name   string
		addr   models.Address
		reason string
	}{
		{
			name:   "same street, lot and property",
			addr:   ruaA(),
			reason: ReasonAlreadyExists,
		},
		{
			name: "same street and lot, no property number",
			addr: func() models.Address {
				a := ruaA()
				a.PropertyNumber = nil
				return a
			}(),
			reason: ReasonByLot,
		},
		{
			name: "same street only, no lot number",
			addr: func() models.Address {
				a := ruaA()
				a.LotNumber = nil
				a.PropertyNumber = nil
				return a
			}(),
			reason: ReasonByStreet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.targets.PreventDuplicity(ctx, f.hunt.ID, tt.addr)

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConflict)
			reason, ok := DuplicityReason(err)
			require.True(t, ok)
			assert.Equal(t, tt.reason, reason)

			_, err = f.targets.CreateTargetProperty(ctx, models.TargetProperty{HuntID: f.hunt.ID, Address: tt.addr})
			reason, _ = DuplicityReason(err)
			assert.Equal(t, tt.reason, reason, "create runs the same guard")
		})
	}
}

func TestPreventDuplicity_Allowed(t *testing.T) {
	f := newTargetFixture(t)
	ctx := context.Background()
	f.create(t, ruaA())

	otherUnit := ruaA()
	otherUnit.PropertyNumber = strPtr("789")
	assert.NoError(t, f.targets.PreventDuplicity(ctx, f.hunt.ID, otherUnit))

	otherLot := ruaA()
	otherLot.LotNumber = strPtr("500")
	otherLot.PropertyNumber = nil
	assert.NoError(t, f.targets.PreventDuplicity(ctx, f.hunt.ID, otherLot))

	otherStreet := ruaA()
	otherStreet.Street = "Rua B"
	otherStreet.LotNumber = nil
	assert.NoError(t, f.targets.PreventDuplicity(ctx, f.hunt.ID, otherStreet))

	other, err := f.hunts.CreateHunt(ctx, "Outra", "")
	require.NoError(t, err)
	assert.NoError(t, f.targets.PreventDuplicity(ctx, other.ID, ruaA()), "the guard is scoped to one hunt")

	assert.ErrorIs(t, f.targets.PreventDuplicity(ctx, " ", ruaA()), ErrValidation)
}

func TestUpdateTargetProperty_ReResolvesAndMayMove(t *testing.T) {
	f := newTargetFixture(t)
	ctx := context.Background()
	target := f.create(t, ruaA())
	oldLot := *target.LotID

	updated, err := f.targets.UpdateTargetProperty(ctx, target.ID, models.TargetPropertyPatch{
		Address: &models.AddressPatch{LotNumber: strPtr("999")},
	})

	require.NoError(t, err)
	assert.NotEqual(t, oldLot, *updated.LotID, "changing one address field moves the target")
	assert.Equal(t, "999", *updated.Address.LotNumber)
	assert.Equal(t, "Rua A", updated.Address.Street)

	lots, err := f.stores.Lots.FindByAddress(ctx, updated.Address.LotKey())
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.Equal(t, lots[0].ID, *updated.LotID)

	// The old lot is left in place.
	old, err := f.stores.Lots.GetByID(ctx, oldLot)
	require.NoError(t, err)
	assert.NotNil(t, old)
}

func TestUpdateTargetProperty_NonAddressFieldKeepsRefs(t *testing.T) {
	f := newTargetFixture(t)
	ctx := context.Background()
	target := f.create(t, ruaA())

	price := 450000.0
	updated, err := f.targets.UpdateTargetProperty(ctx, target.ID, models.TargetPropertyPatch{
		Price:  &price,
		Active: func() *bool { b := false; return &b }(),
	})

	require.NoError(t, err)
	assert.Equal(t, *target.LotID, *updated.LotID)
	assert.Equal(t, *target.PropertyID, *updated.PropertyID)
	assert.Equal(t, price, *updated.Price)
	assert.False(t, updated.Active)
	assert.Equal(t, f.hunt.ID, updated.HuntID)
}

func TestUpdateTargetProperty_Errors(t *testing.T) {
	f := newTargetFixture(t)
	ctx := context.Background()
	target := f.create(t, ruaA())

	_, err := f.targets.UpdateTargetProperty(ctx, "missing", models.TargetPropertyPatch{})
	assert.ErrorIs(t, err, ErrTargetNotFound)

	_, err = f.targets.UpdateTargetProperty(ctx, target.ID, models.TargetPropertyPatch{
		Address: &models.AddressPatch{Street: strPtr("")},
	})
	assert.ErrorIs(t, err, ErrValidation, "resolver errors reach the caller as they are")

	stored, err := f.targets.GetTargetProperty(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rua A", stored.Address.Street, "a failed update changes nothing")
}

func TestDeleteTargetProperty(t *testing.T) {
	f := newTargetFixture(t)
	ctx := context.Background()
	target := f.create(t, ruaA())

	assert.True(t, f.targets.DeleteTargetProperty(ctx, target.ID))
	assert.False(t, f.targets.DeleteTargetProperty(ctx, target.ID), "second delete reports false")

	hunt, err := f.hunts.GetOneHuntByID(ctx, f.hunt.ID)
	require.NoError(t, err)
	assert.Empty(t, hunt.TargetIDs)

	_, err = f.targets.GetTargetProperty(ctx, target.ID)
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestDeleteTargetProperty_StoreFailureReportsFalse(t *testing.T) {
	targets := new(MockTargetPropertyRepository)
	svc := NewTargetPropertyService(targets, nil, nil, nil, logger.New("test"))
	ctx := context.Background()

	targets.On("GetByID", ctx, "t1").Return(nil, errors.New("db down"))

	assert.False(t, svc.DeleteTargetProperty(ctx, "t1"))
	targets.AssertExpectations(t)
}

func TestDeleteTargetProperty_FailedDeleteKeepsHuntListing(t *testing.T) {
	log := logger.New("test")
	stores := repository.NewMemoryStores()
	targets := new(MockTargetPropertyRepository)
	hunts := NewHuntService(stores.Hunts, targets, log)
	svc := NewTargetPropertyService(targets, hunts, nil, nil, log)
	ctx := context.Background()

	hunt, err := hunts.CreateHunt(ctx, "Apartamento SP", "")
	require.NoError(t, err)
	require.NoError(t, hunts.AddTargetToHunt(ctx, hunt.ID, "t1"))

	targets.On("GetByID", ctx, "t1").Return(&models.TargetProperty{ID: "t1", HuntID: hunt.ID}, nil)
	targets.On("Delete", ctx, "t1").Return(false, errors.New("timeout"))

	assert.False(t, svc.DeleteTargetProperty(ctx, "t1"))

	stored, err := hunts.GetOneHuntByID(ctx, hunt.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, stored.TargetIDs, "the surviving record stays reachable from its hunt")
	targets.AssertExpectations(t)
}

func TestCreateTargetProperty_ValidatesBeforeDuplicityGuard(t *testing.T) {
	f := newTargetFixture(t)
	ctx := context.Background()
	f.create(t, ruaA())

	sameStreet := ruaA()
	sameStreet.City = ""
	sameStreet.PropertyNumber = strPtr("1")

	_, err := f.targets.CreateTargetProperty(ctx, models.TargetProperty{HuntID: f.hunt.ID, Address: sameStreet})
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrConflict)
}

func TestListTargetPropertiesByHunt(t *testing.T) {
	f := newTargetFixture(t)
	ctx := context.Background()

	a := f.create(t, ruaA())
	other := ruaA()
	other.PropertyNumber = strPtr("457")
	b := f.create(t, other)

	targets, err := f.targets.ListTargetPropertiesByHunt(ctx, f.hunt.ID)
	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, []string{targets[0].ID, targets[1].ID})
	assert.Equal(t, *a.LotID, *b.LotID, "both units share the lot")
	assert.NotEqual(t, *a.PropertyID, *b.PropertyID)

	_, err = f.targets.ListTargetPropertiesByHunt(ctx, "missing")
	assert.ErrorIs(t, err, ErrHuntNotFound)
}
