package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/stwalsh4118/househunt/internal/database"
	"github.com/stwalsh4118/househunt/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewMongoStores returns the MongoDB repositories of one database.
func NewMongoStores(m *database.Mongo) Stores {
	return Stores{
		Lots:       &mongoLotRepository{coll: m.DB.Collection(database.CollectionLots)},
		Properties: &mongoPropertyRepository{coll: m.DB.Collection(database.CollectionProperties)},
		Targets:    &mongoTargetPropertyRepository{coll: m.DB.Collection(database.CollectionTargetProperties)},
		Hunts:      &mongoHuntRepository{coll: m.DB.Collection(database.CollectionHunts)},
	}
}

var byCreatedAt = options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

func lotFilterDoc(f models.LotFilter) bson.M {
	return bson.M{
		"street":    f.Street,
		"city":      f.City,
		"province":  f.Province,
		"country":   f.Country,
		"lotNumber": f.LotNumber,
	}
}

// findOne decodes a single document into out. It reports false when no
// document matched.
func findOne(ctx context.Context, coll *mongo.Collection, filter any, out any) (bool, error) {
	err := coll.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id string) (bool, error) {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("failed to delete %s %s: %w", coll.Name(), id, err)
	}
	return res.DeletedCount > 0, nil
}

type mongoLotRepository struct {
	coll *mongo.Collection
}

func (r *mongoLotRepository) Create(ctx context.Context, lot *models.Lot) (*models.Lot, error) {
	stored := *lot
	stamp(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	stored.Amenities = nonNil(stored.Amenities)

	_, err := r.coll.InsertOne(ctx, stored)
	if err == nil {
		return &stored, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return nil, fmt.Errorf("failed to insert lot: %w", err)
	}

	var existing models.Lot
	found, err := findOne(ctx, r.coll, lotFilterDoc(stored.Filter()), &existing)
	if err != nil {
		return nil, fmt.Errorf("failed to read conflicting lot: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("failed to insert lot %s: conflicting document not found", stored.ID)
	}
	return &existing, nil
}

func (r *mongoLotRepository) FindByAddress(ctx context.Context, filter models.LotFilter) ([]models.Lot, error) {
	cur, err := r.coll.Find(ctx, lotFilterDoc(filter), byCreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to query lots by address (%s): %w", filter.Key(), err)
	}
	lots := []models.Lot{}
	if err := cur.All(ctx, &lots); err != nil {
		return nil, fmt.Errorf("failed to decode lots: %w", err)
	}
	return lots, nil
}

func (r *mongoLotRepository) GetByID(ctx context.Context, id string) (*models.Lot, error) {
	var lot models.Lot
	found, err := findOne(ctx, r.coll, bson.M{"_id": id}, &lot)
	if err != nil {
		return nil, fmt.Errorf("failed to query lot %s: %w", id, err)
	}
	if !found {
		return nil, nil
	}
	return &lot, nil
}

func (r *mongoLotRepository) Update(ctx context.Context, lot *models.Lot) error {
	update := bson.M{"$set": bson.M{
		"name":         lot.Name,
		"street":       lot.Street,
		"lotNumber":    lot.LotNumber,
		"postalCode":   lot.PostalCode,
		"neighborhood": lot.Neighborhood,
		"city":         lot.City,
		"province":     lot.Province,
		"country":      lot.Country,
		"amenities":    nonNil(lot.Amenities),
		"updatedAt":    nowUTC(),
	}}
	res, err := r.coll.UpdateByID(ctx, lot.ID, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: lot address %s", ErrDuplicateKey, lot.Filter().Key())
		}
		return fmt.Errorf("failed to update lot %s: %w", lot.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoLotRepository) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.coll, id)
}

type mongoPropertyRepository struct {
	coll *mongo.Collection
}

func (r *mongoPropertyRepository) Create(ctx context.Context, property *models.Property) (*models.Property, error) {
	stored := *property
	stamp(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	stored.Amenities = nonNil(stored.Amenities)

	_, err := r.coll.InsertOne(ctx, stored)
	if err == nil {
		return &stored, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return nil, fmt.Errorf("failed to insert property: %w", err)
	}

	existing, err := r.GetByLotAndNumber(ctx, stored.LotID, stored.PropertyNumber)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("failed to insert property %s: conflicting document not found", stored.ID)
	}
	return existing, nil
}

func (r *mongoPropertyRepository) FindByLot(ctx context.Context, lotID string) ([]models.Property, error) {
	cur, err := r.coll.Find(ctx, bson.M{"lotId": lotID}, byCreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties of lot %s: %w", lotID, err)
	}
	properties := []models.Property{}
	if err := cur.All(ctx, &properties); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %w", err)
	}
	return properties, nil
}

func (r *mongoPropertyRepository) GetByID(ctx context.Context, id string) (*models.Property, error) {
	return r.one(ctx, bson.M{"_id": id})
}

func (r *mongoPropertyRepository) GetByLotAndNumber(ctx context.Context, lotID, propertyNumber string) (*models.Property, error) {
	return r.one(ctx, bson.M{"lotId": lotID, "propertyNumber": propertyNumber})
}

func (r *mongoPropertyRepository) one(ctx context.Context, filter bson.M) (*models.Property, error) {
	var p models.Property
	found, err := findOne(ctx, r.coll, filter, &p)
	if err != nil {
		return nil, fmt.Errorf("failed to query property: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &p, nil
}

func (r *mongoPropertyRepository) Update(ctx context.Context, property *models.Property) error {
	update := bson.M{"$set": bson.M{
		"block":     property.Block,
		"size":      property.Size,
		"rooms":     property.Rooms,
		"bathrooms": property.Bathrooms,
		"parking":   property.Parking,
		"frontage":  property.Frontage,
		"sun":       property.Sun,
		"condoFee":  property.CondoFee,
		"amenities": nonNil(property.Amenities),
		"updatedAt": nowUTC(),
	}}
	res, err := r.coll.UpdateByID(ctx, property.ID, update)
	if err != nil {
		return fmt.Errorf("failed to update property %s: %w", property.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoPropertyRepository) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.coll, id)
}

type mongoTargetPropertyRepository struct {
	coll *mongo.Collection
}

func (r *mongoTargetPropertyRepository) Create(ctx context.Context, target *models.TargetProperty) error {
	stamp(&target.ID, &target.CreatedAt, &target.UpdatedAt)
	if _, err := r.coll.InsertOne(ctx, target); err != nil {
		return fmt.Errorf("failed to insert target property: %w", err)
	}
	return nil
}

func (r *mongoTargetPropertyRepository) GetByID(ctx context.Context, id string) (*models.TargetProperty, error) {
	var t models.TargetProperty
	found, err := findOne(ctx, r.coll, bson.M{"_id": id}, &t)
	if err != nil {
		return nil, fmt.Errorf("failed to query target property %s: %w", id, err)
	}
	if !found {
		return nil, nil
	}
	return &t, nil
}

func (r *mongoTargetPropertyRepository) ListByHunt(ctx context.Context, huntID string) ([]models.TargetProperty, error) {
	cur, err := r.coll.Find(ctx, bson.M{"huntId": huntID}, byCreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to query targets of hunt %s: %w", huntID, err)
	}
	targets := []models.TargetProperty{}
	if err := cur.All(ctx, &targets); err != nil {
		return nil, fmt.Errorf("failed to decode target properties: %w", err)
	}
	return targets, nil
}

func (r *mongoTargetPropertyRepository) Update(ctx context.Context, target *models.TargetProperty) error {
	update := bson.M{"$set": bson.M{
		"active":     target.Active,
		"lotId":      target.LotID,
		"propertyId": target.PropertyID,
		"title":      target.Title,
		"adUrl":      target.AdURL,
		"price":      target.Price,
		"notes":      target.Notes,
		"address":    target.Address,
		"updatedAt":  nowUTC(),
	}}
	res, err := r.coll.UpdateByID(ctx, target.ID, update)
	if err != nil {
		return fmt.Errorf("failed to update target property %s: %w", target.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoTargetPropertyRepository) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.coll, id)
}

type mongoHuntRepository struct {
	coll *mongo.Collection
}

func (r *mongoHuntRepository) Create(ctx context.Context, hunt *models.Hunt) error {
	stamp(&hunt.ID, &hunt.CreatedAt, &hunt.UpdatedAt)
	hunt.TargetIDs = nonNil(hunt.TargetIDs)
	if _, err := r.coll.InsertOne(ctx, hunt); err != nil {
		return fmt.Errorf("failed to insert hunt: %w", err)
	}
	return nil
}

func (r *mongoHuntRepository) GetByID(ctx context.Context, id string) (*models.Hunt, error) {
	var h models.Hunt
	found, err := findOne(ctx, r.coll, bson.M{"_id": id}, &h)
	if err != nil {
		return nil, fmt.Errorf("failed to query hunt %s: %w", id, err)
	}
	if !found {
		return nil, nil
	}
	return &h, nil
}

func (r *mongoHuntRepository) List(ctx context.Context) ([]models.Hunt, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, byCreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to query hunts: %w", err)
	}
	hunts := []models.Hunt{}
	if err := cur.All(ctx, &hunts); err != nil {
		return nil, fmt.Errorf("failed to decode hunts: %w", err)
	}
	return hunts, nil
}

func (r *mongoHuntRepository) Update(ctx context.Context, hunt *models.Hunt) error {
	res, err := r.coll.UpdateByID(ctx, hunt.ID, bson.M{"$set": bson.M{
		"name":        hunt.Name,
		"description": hunt.Description,
		"updatedAt":   nowUTC(),
	}})
	if err != nil {
		return fmt.Errorf("failed to update hunt %s: %w", hunt.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoHuntRepository) AddTarget(ctx context.Context, huntID, targetID string) error {
	res, err := r.coll.UpdateByID(ctx, huntID, bson.M{
		"$addToSet": bson.M{"targetIds": targetID},
		"$set":      bson.M{"updatedAt": nowUTC()},
	})
	if err != nil {
		return fmt.Errorf("failed to add target %s to hunt %s: %w", targetID, huntID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoHuntRepository) RemoveTarget(ctx context.Context, huntID, targetID string) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": huntID, "targetIds": targetID},
		bson.M{
			"$pull": bson.M{"targetIds": targetID},
			"$set":  bson.M{"updatedAt": nowUTC()},
		},
	)
	if err != nil {
		return false, fmt.Errorf("failed to remove target %s from hunt %s: %w", targetID, huntID, err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *mongoHuntRepository) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.coll, id)
}
