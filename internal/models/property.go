package models

import "time"

// Property is a unit inside a lot. PropertyNumber is unique within its lot
// only; the same number under another lot is a different property.
type Property struct {
	CreatedAt      time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt" bson:"updatedAt"`
	Block          *string      `json:"block" bson:"block"`
	Size           *float64     `json:"size" bson:"size"`
	Rooms          *int         `json:"rooms" bson:"rooms"`
	Bathrooms      *int         `json:"bathrooms" bson:"bathrooms"`
	Parking        *int         `json:"parking" bson:"parking"`
	Frontage       *bool        `json:"frontage" bson:"frontage"`
	Sun            *SunExposure `json:"sun" bson:"sun"`
	CondoFee       *float64     `json:"condoFee" bson:"condoFee"`
	ID             string       `json:"id" bson:"_id"`
	LotID          string       `json:"lotId" bson:"lotId"`
	PropertyNumber string       `json:"propertyNumber" bson:"propertyNumber"`
	Amenities      []string     `json:"amenities" bson:"amenities"`
}

// PropertyPatch holds the editable fields of a property. The owning lot and
// the property number are fixed once the property exists.
type PropertyPatch struct {
	Block     *string      `json:"block"`
	Size      *float64     `json:"size"`
	Rooms     *int         `json:"rooms"`
	Bathrooms *int         `json:"bathrooms"`
	Parking   *int         `json:"parking"`
	Frontage  *bool        `json:"frontage"`
	Sun       *SunExposure `json:"sun"`
	CondoFee  *float64     `json:"condoFee"`
	Amenities []string     `json:"amenities"`
}

// Apply merges p into a copy of prop.
func (prop Property) Apply(p PropertyPatch) Property {
	if p.Block != nil {
		prop.Block = cloneString(p.Block)
	}
	if p.Size != nil {
		prop.Size = p.Size
	}
	if p.Rooms != nil {
		prop.Rooms = p.Rooms
	}
	if p.Bathrooms != nil {
		prop.Bathrooms = p.Bathrooms
	}
	if p.Parking != nil {
		prop.Parking = p.Parking
	}
	if p.Frontage != nil {
		prop.Frontage = p.Frontage
	}
	if p.Sun != nil {
		prop.Sun = p.Sun
	}
	if p.CondoFee != nil {
		prop.CondoFee = p.CondoFee
	}
	if p.Amenities != nil {
		prop.Amenities = cloneStrings(p.Amenities)
	}
	return prop
}
