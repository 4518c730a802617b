package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stwalsh4118/househunt/internal/lock"
	"github.com/stwalsh4118/househunt/internal/logger"
	"github.com/stwalsh4118/househunt/internal/metrics"
	"github.com/stwalsh4118/househunt/internal/models"
	"github.com/stwalsh4118/househunt/internal/repository"
)

// Resolution is the lot and property an address resolved to.
type Resolution struct {
	Lot             *models.Lot      `json:"lot"`
	Property        *models.Property `json:"property"`
	LotCreated      bool             `json:"lotCreated"`
	PropertyCreated bool             `json:"propertyCreated"`
}

// AddressResolver maps a raw address to its canonical Lot and Property,
// creating either one when no match exists.
type AddressResolver interface {
	// Resolve finds or creates the lot identified by (street, city, province,
	// country, lot number) and, inside it, the property identified by its
	// property number. Existing records are returned unchanged.
	//
	// Returns ErrValidation for a missing street, city, province, country or
	// property number; nothing is created in that case.
	// Returns ErrDuplicateLot or ErrDuplicateProperty when the stores hold
	// more than one match.
	// A lot created by this call stays even when the property step fails.
	Resolve(ctx context.Context, address models.Address) (*Resolution, error)
}

type addressResolver struct {
	lots       repository.LotRepository
	properties repository.PropertyRepository
	locker     lock.Locker
	metrics    *metrics.Metrics
	log        *logger.Logger
}

// NewAddressResolver creates an AddressResolver. A nil locker uses an
// in-process lock; a nil metrics records nothing.
func NewAddressResolver(
	lots repository.LotRepository,
	properties repository.PropertyRepository,
	locker lock.Locker,
	m *metrics.Metrics,
	log *logger.Logger,
) AddressResolver {
	if locker == nil {
		locker = lock.NewLocal()
	}
	return &addressResolver{
		lots:       lots,
		properties: properties,
		locker:     locker,
		metrics:    m,
		log:        log,
	}
}

func (r *addressResolver) Resolve(ctx context.Context, address models.Address) (*Resolution, error) {
	address = address.Normalize()

	if err := validateAddress(address); err != nil {
		r.log.Warn("Address rejected", map[string]interface{}{
			"street": address.Street,
			"city":   address.City,
			"error":  err.Error(),
		})
		r.metrics.Resolution(metrics.OutcomeInvalid)
		return nil, err
	}

	lot, lotCreated, err := r.resolveLot(ctx, address)
	if err != nil {
		r.recordFailure(err)
		return nil, err
	}

	property, propertyCreated, err := r.resolveProperty(ctx, lot, address)
	if err != nil {
		r.recordFailure(err)
		return nil, err
	}

	r.metrics.Resolution(metrics.OutcomeResolved)
	r.log.Debug("Address resolved", map[string]interface{}{
		"lot_id":           lot.ID,
		"property_id":      property.ID,
		"lot_created":      lotCreated,
		"property_created": propertyCreated,
	})

	return &Resolution{
		Lot:             lot,
		Property:        property,
		LotCreated:      lotCreated,
		PropertyCreated: propertyCreated,
	}, nil
}

// validateAddress checks every required field before any store is touched.
func validateAddress(a models.Address) error {
	switch {
	case a.Street == "":
		return validationError("street is required")
	case a.City == "":
		return validationError("city is required")
	case a.Province == "":
		return validationError("province is required")
	case a.Country == "":
		return validationError("country is required")
	case a.PropertyNumber == nil:
		return validationError("propertyNumber is required (use %q for a unit without number)", models.NoNumber)
	}
	if a.Sun != nil && !a.Sun.Valid() {
		return validationError("sun must be one of %s, %s, %s", models.SunMorning, models.SunAfternoon, models.SunNone)
	}
	return nil
}

func (r *addressResolver) resolveLot(ctx context.Context, address models.Address) (*models.Lot, bool, error) {
	filter := address.LotKey()

	unlock, err := r.locker.Lock(ctx, "lot:"+filter.Key())
	if err != nil {
		return nil, false, fmt.Errorf("failed to lock lot %s: %w", filter.Key(), err)
	}
	defer unlock()

	matches, err := r.lots.FindByAddress(ctx, filter)
	if err != nil {
		r.log.Error("Failed to query lots by address", err, map[string]interface{}{
			"lot_key": filter.Key(),
		})
		return nil, false, fmt.Errorf("failed to query lots: %w", err)
	}

	switch len(matches) {
	case 0:
	case 1:
		return &matches[0], false, nil
	default:
		ids := make([]string, len(matches))
		for i := range matches {
			ids[i] = matches[i].ID
		}
		r.log.Error("Duplicate lots for one address", ErrDuplicateLot, map[string]interface{}{
			"lot_key": filter.Key(),
			"lot_ids": ids,
		})
		return nil, false, fmt.Errorf("%w: %d lots match %s", ErrDuplicateLot, len(matches), filter.Key())
	}

	candidate := newLot(address)
	candidate.ID = uuid.NewString()
	lot, err := r.lots.Create(ctx, &candidate)
	if err != nil {
		r.log.Error("Failed to create lot", err, map[string]interface{}{
			"lot_key": filter.Key(),
		})
		return nil, false, fmt.Errorf("failed to create lot: %w", err)
	}

	// Create hands back the stored lot when another writer won the race.
	created := lot.ID == candidate.ID
	if created {
		r.metrics.LotCreated()
		r.log.Info("Lot created", map[string]interface{}{
			"lot_id":  lot.ID,
			"lot_key": filter.Key(),
		})
	}
	return lot, created, nil
}

func (r *addressResolver) resolveProperty(ctx context.Context, lot *models.Lot, address models.Address) (*models.Property, bool, error) {
	number := *address.PropertyNumber
	key := "property:" + lot.ID + "|" + number

	unlock, err := r.locker.Lock(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to lock property %s: %w", key, err)
	}
	defer unlock()

	existing, err := r.properties.FindByLot(ctx, lot.ID)
	if err != nil {
		r.log.Error("Failed to query properties of lot", err, map[string]interface{}{
			"lot_id": lot.ID,
		})
		return nil, false, fmt.Errorf("failed to query properties: %w", err)
	}

	var found *models.Property
	for i := range existing {
		if existing[i].PropertyNumber != number {
			continue
		}
		if found != nil {
			r.log.Error("Duplicate properties in one lot", ErrDuplicateProperty, map[string]interface{}{
				"lot_id":          lot.ID,
				"property_number": number,
			})
			return nil, false, fmt.Errorf("%w: lot %s holds property %q more than once", ErrDuplicateProperty, lot.ID, number)
		}
		found = &existing[i]
	}
	if found != nil {
		return found, false, nil
	}

	candidate := newProperty(lot.ID, address)
	candidate.ID = uuid.NewString()
	property, err := r.properties.Create(ctx, &candidate)
	if err != nil {
		r.log.Error("Failed to create property", err, map[string]interface{}{
			"lot_id":          lot.ID,
			"property_number": number,
		})
		return nil, false, fmt.Errorf("failed to create property: %w", err)
	}

	created := property.ID == candidate.ID
	if created {
		r.metrics.PropertyCreated()
		r.log.Info("Property created", map[string]interface{}{
			"lot_id":          lot.ID,
			"property_id":     property.ID,
			"property_number": number,
		})
	}
	return property, created, nil
}

func (r *addressResolver) recordFailure(err error) {
	switch {
	case errors.Is(err, ErrDuplicateLot):
		r.metrics.Resolution(metrics.OutcomeDuplicateLot)
	case errors.Is(err, ErrDuplicateProperty):
		r.metrics.Resolution(metrics.OutcomeDuplicateProperty)
	default:
		r.metrics.Resolution(metrics.OutcomeError)
	}
}

// newLot builds a lot from the lot-level fields of a normalized address.
// Name and postal code default to the empty string.
func newLot(a models.Address) models.Lot {
	return models.Lot{
		Name:         models.StringValue(a.LotName),
		Street:       a.Street,
		LotNumber:    a.LotNumber,
		PostalCode:   models.StringValue(a.PostalCode),
		Neighborhood: models.StringValue(a.Neighborhood),
		City:         a.City,
		Province:     a.Province,
		Country:      a.Country,
		Amenities:    append([]string{}, a.LotAmenities...),
	}
}

func newProperty(lotID string, a models.Address) models.Property {
	return models.Property{
		LotID:          lotID,
		PropertyNumber: *a.PropertyNumber,
		Block:          a.Block,
		Size:           a.Size,
		Rooms:          a.Rooms,
		Bathrooms:      a.Bathrooms,
		Parking:        a.Parking,
		Frontage:       a.Frontage,
		Sun:            a.Sun,
		CondoFee:       a.CondoFee,
		Amenities:      append([]string{}, a.PropertyAmenities...),
	}
}
