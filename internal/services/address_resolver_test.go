package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/househunt/internal/logger"
	"github.com/stwalsh4118/househunt/internal/metrics"
	"github.com/stwalsh4118/househunt/internal/models"
	"github.com/stwalsh4118/househunt/internal/repository"
)

func newMemoryResolver() (AddressResolver, *repository.MemoryLotRepository, *repository.MemoryPropertyRepository) {
	lots := repository.NewMemoryLotRepository()
	properties := repository.NewMemoryPropertyRepository()
	return NewAddressResolver(lots, properties, nil, nil, logger.New("test")), lots, properties
}

func TestResolve_RuaAScenario(t *testing.T) {
	resolver, lots, properties := newMemoryResolver()
	ctx := context.Background()

	first, err := resolver.Resolve(ctx, ruaA())
	require.NoError(t, err)
	require.NotNil(t, first.Lot)
	require.NotNil(t, first.Property)
	assert.NotEmpty(t, first.Lot.ID)
	assert.NotEmpty(t, first.Property.ID)
	assert.True(t, first.LotCreated)
	assert.True(t, first.PropertyCreated)
	assert.Equal(t, first.Lot.ID, first.Property.LotID)
	assert.Equal(t, 1, lots.Len())
	assert.Equal(t, 1, properties.Len())

	second, err := resolver.Resolve(ctx, ruaA())
	require.NoError(t, err)
	assert.Equal(t, first.Lot.ID, second.Lot.ID)
	assert.Equal(t, first.Property.ID, second.Property.ID)
	assert.False(t, second.LotCreated)
	assert.False(t, second.PropertyCreated)
	assert.Equal(t, 1, lots.Len(), "second resolution must not create a lot")
	assert.Equal(t, 1, properties.Len(), "second resolution must not create a property")
}

func TestResolve_IdempotentAcrossPayloadVariants(t *testing.T) {
	resolver, lots, _ := newMemoryResolver()
	ctx := context.Background()

	addr := ruaA()
	addr.Neighborhood = strPtr("Centro")
	addr.Rooms = intPtr(3)

	first, err := resolver.Resolve(ctx, addr)
	require.NoError(t, err)

	// Padded strings and different descriptive fields still hit the same records.
	again := ruaA()
	again.Street = "  Rua A "
	again.Neighborhood = strPtr("Outro bairro")
	again.Rooms = intPtr(5)

	second, err := resolver.Resolve(ctx, again)
	require.NoError(t, err)
	assert.Equal(t, first.Lot.ID, second.Lot.ID)
	assert.Equal(t, first.Property.ID, second.Property.ID)
	assert.Equal(t, "Centro", second.Lot.Neighborhood, "existing lot must not be updated")
	assert.Equal(t, 3, *second.Property.Rooms, "existing property must not be updated")
	assert.Equal(t, 1, lots.Len())
}

func TestResolve_NewLotDefaults(t *testing.T) {
	resolver, _, _ := newMemoryResolver()

	res, err := resolver.Resolve(context.Background(), ruaA())
	require.NoError(t, err)

	assert.Equal(t, "", res.Lot.Name)
	assert.Equal(t, "", res.Lot.PostalCode)
	assert.NotNil(t, res.Lot.Amenities)
	assert.Nil(t, res.Property.Block)
	assert.Nil(t, res.Property.Sun)
}

func TestResolve_DuplicateLots(t *testing.T) {
	resolver, lots, properties := newMemoryResolver()
	addr := ruaA()

	seed := models.Lot{
		Street:    addr.Street,
		City:      addr.City,
		Province:  addr.Province,
		Country:   addr.Country,
		LotNumber: addr.LotNumber,
	}
	lots.Insert(seed)
	lots.Insert(seed)

	res, err := resolver.Resolve(context.Background(), addr)

	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrDuplicateLot)
	assert.ErrorIs(t, err, ErrDataIntegrity)
	assert.Equal(t, 2, lots.Len(), "resolver must not pick or remove a duplicate")
	assert.Equal(t, 0, properties.Len())
}

func TestResolve_LotNumberPresenceIsPartOfIdentity(t *testing.T) {
	resolver, lots, _ := newMemoryResolver()
	ctx := context.Background()

	numbered, err := resolver.Resolve(ctx, ruaA())
	require.NoError(t, err)

	noNumber := ruaA()
	noNumber.LotNumber = nil
	unnumbered, err := resolver.Resolve(ctx, noNumber)
	require.NoError(t, err)

	blank := ruaA()
	blank.LotNumber = strPtr("   ")
	blankLot, err := resolver.Resolve(ctx, blank)
	require.NoError(t, err)

	assert.NotEqual(t, numbered.Lot.ID, unnumbered.Lot.ID)
	assert.Equal(t, unnumbered.Lot.ID, blankLot.Lot.ID, "a blank lot number means no number")
	assert.Equal(t, 2, lots.Len())
}

func TestResolve_PropertyScopedToLot(t *testing.T) {
	resolver, lots, properties := newMemoryResolver()
	ctx := context.Background()

	a := ruaA()
	b := ruaA()
	b.LotNumber = strPtr("124")

	resA, err := resolver.Resolve(ctx, a)
	require.NoError(t, err)
	resB, err := resolver.Resolve(ctx, b)
	require.NoError(t, err)

	assert.NotEqual(t, resA.Lot.ID, resB.Lot.ID)
	assert.NotEqual(t, resA.Property.ID, resB.Property.ID)
	assert.Equal(t, resA.Property.PropertyNumber, resB.Property.PropertyNumber)
	assert.Equal(t, 2, lots.Len())
	assert.Equal(t, 2, properties.Len())
}

func TestResolve_RequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(a *models.Address)
		field  string
	}{
		{"blank street", func(a *models.Address) { a.Street = " " }, "street"},
		{"blank city", func(a *models.Address) { a.City = "" }, "city"},
		{"blank province", func(a *models.Address) { a.Province = "" }, "province"},
		{"blank country", func(a *models.Address) { a.Country = "\t" }, "country"},
		{"missing property number", func(a *models.Address) { a.PropertyNumber = nil }, "propertyNumber"},
		{"blank property number", func(a *models.Address) { a.PropertyNumber = strPtr("") }, "propertyNumber"},
		{"unknown sun", func(a *models.Address) {
			sun := models.SunExposure("noon")
			a.Sun = &sun
		}, "sun"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver, lots, properties := newMemoryResolver()
			addr := ruaA()
			tt.mutate(&addr)

			res, err := resolver.Resolve(context.Background(), addr)

			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.field)
			assert.Equal(t, 0, lots.Len(), "validation failures must create nothing")
			assert.Equal(t, 0, properties.Len())
		})
	}
}

func TestResolve_NoNumberSentinel(t *testing.T) {
	resolver, _, _ := newMemoryResolver()
	addr := ruaA()
	addr.PropertyNumber = strPtr(models.NoNumber)

	res, err := resolver.Resolve(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, models.NoNumber, res.Property.PropertyNumber)
}

func TestResolve_LotSurvivesPropertyFailure(t *testing.T) {
	lots := repository.NewMemoryLotRepository()
	properties := new(MockPropertyRepository)
	resolver := NewAddressResolver(lots, properties, nil, nil, logger.New("test"))
	ctx := context.Background()

	storeErr := errors.New("connection reset")
	properties.On("FindByLot", ctx, mock.AnythingOfType("string")).Return([]models.Property{}, nil)
	properties.On("Create", ctx, mock.AnythingOfType("*models.Property")).Return(nil, storeErr)

	res, err := resolver.Resolve(ctx, ruaA())

	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrValidation)

	found, err := lots.FindByAddress(ctx, ruaA().LotKey())
	require.NoError(t, err)
	assert.Len(t, found, 1, "the lot created before the property failure is durable")
	properties.AssertExpectations(t)
}

func TestResolve_DuplicateProperties(t *testing.T) {
	lots := repository.NewMemoryLotRepository()
	properties := new(MockPropertyRepository)
	resolver := NewAddressResolver(lots, properties, nil, nil, logger.New("test"))
	ctx := context.Background()

	properties.On("FindByLot", ctx, mock.AnythingOfType("string")).Return([]models.Property{
		{ID: "p1", PropertyNumber: "456"},
		{ID: "p2", PropertyNumber: "789"},
		{ID: "p3", PropertyNumber: "456"},
	}, nil)

	_, err := resolver.Resolve(ctx, ruaA())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateProperty)
	assert.ErrorIs(t, err, ErrDataIntegrity)
	properties.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestResolve_LotQueryFailure(t *testing.T) {
	lots := new(MockLotRepository)
	properties := new(MockPropertyRepository)
	resolver := NewAddressResolver(lots, properties, nil, nil, logger.New("test"))
	ctx := context.Background()

	lots.On("FindByAddress", ctx, ruaA().LotKey()).Return(nil, errors.New("timeout"))

	_, err := resolver.Resolve(ctx, ruaA())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
	lots.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	properties.AssertNotCalled(t, "FindByLot", mock.Anything, mock.Anything)
}

func TestResolve_LostCreationRaceReturnsWinner(t *testing.T) {
	lots := new(MockLotRepository)
	properties := new(MockPropertyRepository)
	resolver := NewAddressResolver(lots, properties, nil, nil, logger.New("test"))
	ctx := context.Background()

	winner := &models.Lot{ID: "lot-winner", Street: "Rua A"}
	lots.On("FindByAddress", ctx, ruaA().LotKey()).Return([]models.Lot{}, nil)
	lots.On("Create", ctx, mock.AnythingOfType("*models.Lot")).Return(winner, nil)
	properties.On("FindByLot", ctx, "lot-winner").Return([]models.Property{
		{ID: "prop-1", LotID: "lot-winner", PropertyNumber: "456"},
	}, nil)

	res, err := resolver.Resolve(ctx, ruaA())

	require.NoError(t, err)
	assert.Equal(t, "lot-winner", res.Lot.ID)
	assert.False(t, res.LotCreated)
	assert.Equal(t, "prop-1", res.Property.ID)
	lots.AssertExpectations(t)
	properties.AssertExpectations(t)
}

func TestResolve_ConcurrentSameAddress(t *testing.T) {
	resolver, lots, properties := newMemoryResolver()
	ctx := context.Background()

	const workers = 16
	results := make([]*Resolution, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = resolver.Resolve(ctx, ruaA())
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0].Lot.ID, results[i].Lot.ID)
		assert.Equal(t, results[0].Property.ID, results[i].Property.ID)
	}
	assert.Equal(t, 1, lots.Len())
	assert.Equal(t, 1, properties.Len())
}

func TestResolve_Metrics(t *testing.T) {
	m := metrics.New()
	resolver := NewAddressResolver(
		repository.NewMemoryLotRepository(),
		repository.NewMemoryPropertyRepository(),
		nil, m, logger.New("test"),
	)
	ctx := context.Background()

	_, err := resolver.Resolve(ctx, ruaA())
	require.NoError(t, err)
	_, err = resolver.Resolve(ctx, ruaA())
	require.NoError(t, err)
	_, err = resolver.Resolve(ctx, models.Address{})
	require.Error(t, err)

	count, err := testutil.GatherAndCount(m.Registry(), "hunt_lots_created_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				key := f.GetName()
				for _, l := range metric.GetLabel() {
					key += "/" + l.GetValue()
				}
				values[key] = c.GetValue()
			}
		}
	}
	assert.Equal(t, 1.0, values["hunt_lots_created_total"])
	assert.Equal(t, 1.0, values["hunt_properties_created_total"])
	assert.Equal(t, 2.0, values["hunt_address_resolutions_total/"+metrics.OutcomeResolved])
	assert.Equal(t, 1.0, values["hunt_address_resolutions_total/"+metrics.OutcomeInvalid])
}
