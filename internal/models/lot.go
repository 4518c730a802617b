package models

import (
	"fmt"
	"time"
)

// Lot represents a land parcel shared by every hunt that targets it.
// A lot is identified by street, city, province, country and lot number;
// a nil LotNumber is the "no number" lot and never matches a numbered one.
type Lot struct {
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
	LotNumber    *string   `json:"lotNumber" bson:"lotNumber"`
	ID           string    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Street       string    `json:"street" bson:"street"`
	PostalCode   string    `json:"postalCode" bson:"postalCode"`
	Neighborhood string    `json:"neighborhood" bson:"neighborhood"`
	City         string    `json:"city" bson:"city"`
	Province     string    `json:"province" bson:"province"`
	Country      string    `json:"country" bson:"country"`
	Amenities    []string  `json:"amenities" bson:"amenities"`
}

// Filter returns the identity tuple of the lot.
func (l *Lot) Filter() LotFilter {
	return LotFilter{
		Street:    l.Street,
		City:      l.City,
		Province:  l.Province,
		Country:   l.Country,
		LotNumber: l.LotNumber,
	}
}

// LotFilter is the match key used to look lots up by address.
type LotFilter struct {
	LotNumber *string
	Street    string
	City      string
	Province  string
	Country   string
}

// Matches reports whether l has exactly this identity.
func (f LotFilter) Matches(l *Lot) bool {
	return l.Street == f.Street &&
		l.City == f.City &&
		l.Province == f.Province &&
		l.Country == f.Country &&
		SameString(l.LotNumber, f.LotNumber)
}

// Key renders the filter as a stable string, used for lock names.
func (f LotFilter) Key() string {
	number := "-"
	if f.LotNumber != nil {
		number = "#" + *f.LotNumber
	}
	return fmt.Sprintf("%s|%s|%s|%s|%s", f.Street, f.City, f.Province, f.Country, number)
}

// LotPatch holds the editable fields of a lot.
type LotPatch struct {
	Name         *string  `json:"name"`
	Street       *string  `json:"street"`
	LotNumber    *string  `json:"lotNumber"`
	PostalCode   *string  `json:"postalCode"`
	Neighborhood *string  `json:"neighborhood"`
	City         *string  `json:"city"`
	Province     *string  `json:"province"`
	Country      *string  `json:"country"`
	Amenities    []string `json:"amenities"`
}

// Apply merges p into a copy of l.
func (l Lot) Apply(p LotPatch) Lot {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Street != nil {
		l.Street = *p.Street
	}
	if p.LotNumber != nil {
		l.LotNumber = trimOptional(p.LotNumber)
	}
	if p.PostalCode != nil {
		l.PostalCode = *p.PostalCode
	}
	if p.Neighborhood != nil {
		l.Neighborhood = *p.Neighborhood
	}
	if p.City != nil {
		l.City = *p.City
	}
	if p.Province != nil {
		l.Province = *p.Province
	}
	if p.Country != nil {
		l.Country = *p.Country
	}
	if p.Amenities != nil {
		l.Amenities = cloneStrings(p.Amenities)
	}
	return l
}
