package handlers

import (
	"github.com/stwalsh4118/househunt/internal/models"
)

// AddressRequest is the address payload accepted by every endpoint that
// resolves addresses. "uf" is accepted as the legacy name of "province".
// Required fields are checked by the resolver so that the same rules hold
// for every caller.
type AddressRequest struct {
	models.Address
	UF string `json:"uf"`
}

// ToModel returns the address with the province alias applied.
func (r AddressRequest) ToModel() models.Address {
	a := r.Address
	if a.Province == "" && r.UF != "" {
		a.Province = r.UF
	}
	return a
}

// AddressPatchRequest is the partial address of an update.
type AddressPatchRequest struct {
	models.AddressPatch
	UF *string `json:"uf"`
}

// ToPatch returns the patch with the province alias applied.
func (r AddressPatchRequest) ToPatch() models.AddressPatch {
	p := r.AddressPatch
	if p.Province == nil && r.UF != nil {
		p.Province = r.UF
	}
	return p
}

// ResolveAddressResponse is returned by POST /addresses/resolve.
type ResolveAddressResponse struct {
	Lot             *models.Lot      `json:"lot"`
	Property        *models.Property `json:"property"`
	LotCreated      bool             `json:"lotCreated"`
	PropertyCreated bool             `json:"propertyCreated"`
}

// CreateHuntRequest is the body of POST /hunts.
type CreateHuntRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description" binding:"max=2000"`
}

// UpdateHuntRequest is the body of PUT /hunts/:id.
type UpdateHuntRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// HuntListResponse wraps a list of hunts.
type HuntListResponse struct {
	Hunts []models.Hunt `json:"hunts"`
	Count int           `json:"count"`
}

// CreateTargetPropertyRequest is the body of POST /target-property.
type CreateTargetPropertyRequest struct {
	Title   *string        `json:"title" binding:"omitempty,max=300"`
	AdURL   *string        `json:"adUrl" binding:"omitempty,url"`
	Price   *float64       `json:"price" binding:"omitempty,gte=0"`
	Notes   *string        `json:"notes"`
	HuntID  string         `json:"huntId" binding:"required"`
	Address AddressRequest `json:"address"`
}

// ToModel maps the request onto a new target property.
func (r CreateTargetPropertyRequest) ToModel() models.TargetProperty {
	return models.TargetProperty{
		HuntID:  r.HuntID,
		Title:   r.Title,
		AdURL:   r.AdURL,
		Price:   r.Price,
		Notes:   r.Notes,
		Address: r.Address.ToModel(),
	}
}

// UpdateTargetPropertyRequest is the body of PUT /target-property/:id.
// huntId is not accepted.
type UpdateTargetPropertyRequest struct {
	Title   *string              `json:"title" binding:"omitempty,max=300"`
	AdURL   *string              `json:"adUrl" binding:"omitempty,url"`
	Price   *float64             `json:"price" binding:"omitempty,gte=0"`
	Notes   *string              `json:"notes"`
	Active  *bool                `json:"active"`
	Address *AddressPatchRequest `json:"address"`
}

// ToPatch maps the request onto a target property patch.
func (r UpdateTargetPropertyRequest) ToPatch() models.TargetPropertyPatch {
	patch := models.TargetPropertyPatch{
		Title:  r.Title,
		AdURL:  r.AdURL,
		Price:  r.Price,
		Notes:  r.Notes,
		Active: r.Active,
	}
	if r.Address != nil {
		address := r.Address.ToPatch()
		patch.Address = &address
	}
	return patch
}

// DuplicityCheckRequest is the body of POST /target-property/duplicity-check.
type DuplicityCheckRequest struct {
	HuntID  string         `json:"huntId" binding:"required"`
	Address AddressRequest `json:"address"`
}

// DuplicityCheckResponse is returned when no duplicate was found.
type DuplicityCheckResponse struct {
	Duplicate bool `json:"duplicate"`
}

// TargetPropertyListResponse wraps the targets of a hunt.
type TargetPropertyListResponse struct {
	TargetProperties []models.TargetProperty `json:"targetProperties"`
	Count            int                     `json:"count"`
}

// UpdateLotRequest is the body of PUT /lots/:id.
type UpdateLotRequest struct {
	models.LotPatch
	UF *string `json:"uf"`
}

// ToPatch returns the lot patch with the province alias applied.
func (r UpdateLotRequest) ToPatch() models.LotPatch {
	p := r.LotPatch
	if p.Province == nil && r.UF != nil {
		p.Province = r.UF
	}
	return p
}

// UpdatePropertyRequest is the body of PUT /properties/:id.
type UpdatePropertyRequest struct {
	Block     *string             `json:"block"`
	Size      *float64            `json:"size" binding:"omitempty,gte=0"`
	Rooms     *int                `json:"rooms" binding:"omitempty,gte=0"`
	Bathrooms *int                `json:"bathrooms" binding:"omitempty,gte=0"`
	Parking   *int                `json:"parking" binding:"omitempty,gte=0"`
	Frontage  *bool               `json:"frontage"`
	Sun       *models.SunExposure `json:"sun" binding:"omitempty,oneof=morning afternoon none"`
	CondoFee  *float64            `json:"condoFee" binding:"omitempty,gte=0"`
	Amenities []string            `json:"amenities"`
}

// ToPatch maps the request onto a property patch.
func (r UpdatePropertyRequest) ToPatch() models.PropertyPatch {
	return models.PropertyPatch{
		Block:     r.Block,
		Size:      r.Size,
		Rooms:     r.Rooms,
		Bathrooms: r.Bathrooms,
		Parking:   r.Parking,
		Frontage:  r.Frontage,
		Sun:       r.Sun,
		CondoFee:  r.CondoFee,
		Amenities: r.Amenities,
	}
}

// PropertyListResponse wraps the properties of a lot.
type PropertyListResponse struct {
	Properties []models.Property `json:"properties"`
	Count      int               `json:"count"`
}

// DeleteResponse is the body of every DELETE endpoint.
type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}
