package models

import "strings"

// NoNumber is the canonical "sem número" complement used when a unit has no
// number of its own but still needs a property number to be told apart.
const NoNumber = "S/N"

// SunExposure describes which part of the day a unit receives direct sun.
type SunExposure string

const (
	SunMorning   SunExposure = "morning"
	SunAfternoon SunExposure = "afternoon"
	SunNone      SunExposure = "none"
)

// Valid reports whether s is one of the known exposures.
func (s SunExposure) Valid() bool {
	switch s {
	case SunMorning, SunAfternoon, SunNone:
		return true
	}
	return false
}

// Address is the flat payload resolved into a Lot and a Property.
// Lot-level fields come first, property-level fields after.
// Every optional field is a pointer (or a nil slice) so that "absent" and
// "zero" stay distinguishable when payloads are merged.
type Address struct {
	Street       string   `json:"street" bson:"street"`
	LotNumber    *string  `json:"lotNumber" bson:"lotNumber"`
	LotName      *string  `json:"lotName,omitempty" bson:"lotName,omitempty"`
	Neighborhood *string  `json:"neighborhood,omitempty" bson:"neighborhood,omitempty"`
	PostalCode   *string  `json:"postalCode,omitempty" bson:"postalCode,omitempty"`
	City         string   `json:"city" bson:"city"`
	Province     string   `json:"province" bson:"province"`
	Country      string   `json:"country" bson:"country"`
	LotAmenities []string `json:"lotAmenities,omitempty" bson:"lotAmenities,omitempty"`

	PropertyNumber    *string      `json:"propertyNumber" bson:"propertyNumber"`
	Block             *string      `json:"block,omitempty" bson:"block,omitempty"`
	Size              *float64     `json:"size,omitempty" bson:"size,omitempty"`
	Rooms             *int         `json:"rooms,omitempty" bson:"rooms,omitempty"`
	Bathrooms         *int         `json:"bathrooms,omitempty" bson:"bathrooms,omitempty"`
	Parking           *int         `json:"parking,omitempty" bson:"parking,omitempty"`
	Frontage          *bool        `json:"frontage,omitempty" bson:"frontage,omitempty"`
	Sun               *SunExposure `json:"sun,omitempty" bson:"sun,omitempty"`
	CondoFee          *float64     `json:"condoFee,omitempty" bson:"condoFee,omitempty"`
	PropertyAmenities []string     `json:"propertyAmenities,omitempty" bson:"propertyAmenities,omitempty"`
}

// Normalize trims the identity fields. A blank lot number means the lot has
// no number; a blank property number means none was given.
func (a Address) Normalize() Address {
	a.Street = strings.TrimSpace(a.Street)
	a.City = strings.TrimSpace(a.City)
	a.Province = strings.TrimSpace(a.Province)
	a.Country = strings.TrimSpace(a.Country)
	a.LotNumber = trimOptional(a.LotNumber)
	a.PropertyNumber = trimOptional(a.PropertyNumber)
	return a
}

// LotKey returns the lot identity tuple of a normalized address.
func (a Address) LotKey() LotFilter {
	return LotFilter{
		Street:    a.Street,
		City:      a.City,
		Province:  a.Province,
		Country:   a.Country,
		LotNumber: a.LotNumber,
	}
}

// WithLot overwrites the lot-level fields with the values of a resolved lot.
func (a Address) WithLot(l *Lot) Address {
	if l == nil {
		return a
	}
	a.Street = l.Street
	a.LotNumber = cloneString(l.LotNumber)
	a.City = l.City
	a.Province = l.Province
	a.Country = l.Country
	a.LotName = nonEmpty(l.Name)
	a.Neighborhood = nonEmpty(l.Neighborhood)
	a.PostalCode = nonEmpty(l.PostalCode)
	a.LotAmenities = cloneStrings(l.Amenities)
	return a
}

// WithProperty overwrites the property-level fields with the values of a
// resolved property. The property's own id, timestamps and lot reference are
// not part of an address and are never copied.
func (a Address) WithProperty(p *Property) Address {
	if p == nil {
		return a
	}
	number := p.PropertyNumber
	a.PropertyNumber = &number
	a.Block = cloneString(p.Block)
	a.Size = p.Size
	a.Rooms = p.Rooms
	a.Bathrooms = p.Bathrooms
	a.Parking = p.Parking
	a.Frontage = p.Frontage
	a.Sun = p.Sun
	a.CondoFee = p.CondoFee
	a.PropertyAmenities = cloneStrings(p.Amenities)
	return a
}

// AddressPatch carries the fields of an incoming update. A nil field keeps
// the current value. An empty LotNumber clears the lot number.
type AddressPatch struct {
	Street            *string      `json:"street"`
	LotNumber         *string      `json:"lotNumber"`
	LotName           *string      `json:"lotName"`
	Neighborhood      *string      `json:"neighborhood"`
	PostalCode        *string      `json:"postalCode"`
	City              *string      `json:"city"`
	Province          *string      `json:"province"`
	Country           *string      `json:"country"`
	LotAmenities      []string     `json:"lotAmenities"`
	PropertyNumber    *string      `json:"propertyNumber"`
	Block             *string      `json:"block"`
	Size              *float64     `json:"size"`
	Rooms             *int         `json:"rooms"`
	Bathrooms         *int         `json:"bathrooms"`
	Parking           *int         `json:"parking"`
	Frontage          *bool        `json:"frontage"`
	Sun               *SunExposure `json:"sun"`
	CondoFee          *float64     `json:"condoFee"`
	PropertyAmenities []string     `json:"propertyAmenities"`
}

// Apply merges p into a, field by field. Incoming values win.
func (a Address) Apply(p AddressPatch) Address {
	if p.Street != nil {
		a.Street = *p.Street
	}
	if p.LotNumber != nil {
		a.LotNumber = cloneString(p.LotNumber)
	}
	if p.LotName != nil {
		a.LotName = cloneString(p.LotName)
	}
	if p.Neighborhood != nil {
		a.Neighborhood = cloneString(p.Neighborhood)
	}
	if p.PostalCode != nil {
		a.PostalCode = cloneString(p.PostalCode)
	}
	if p.City != nil {
		a.City = *p.City
	}
	if p.Province != nil {
		a.Province = *p.Province
	}
	if p.Country != nil {
		a.Country = *p.Country
	}
	if p.LotAmenities != nil {
		a.LotAmenities = cloneStrings(p.LotAmenities)
	}
	if p.PropertyNumber != nil {
		a.PropertyNumber = cloneString(p.PropertyNumber)
	}
	if p.Block != nil {
		a.Block = cloneString(p.Block)
	}
	if p.Size != nil {
		a.Size = p.Size
	}
	if p.Rooms != nil {
		a.Rooms = p.Rooms
	}
	if p.Bathrooms != nil {
		a.Bathrooms = p.Bathrooms
	}
	if p.Parking != nil {
		a.Parking = p.Parking
	}
	if p.Frontage != nil {
		a.Frontage = p.Frontage
	}
	if p.Sun != nil {
		a.Sun = p.Sun
	}
	if p.CondoFee != nil {
		a.CondoFee = p.CondoFee
	}
	if p.PropertyAmenities != nil {
		a.PropertyAmenities = cloneStrings(p.PropertyAmenities)
	}
	return a
}

// SameString compares two optional strings; nil only equals nil.
func SameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// StringValue dereferences s, returning "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
