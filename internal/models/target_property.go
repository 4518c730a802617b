package models

import "time"

// TargetProperty is a candidate listing attached to a hunt. It keeps its own
// copy of the address as entered, plus the ids of the lot and property the
// address resolved to.
type TargetProperty struct {
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
	LotID      *string   `json:"lotId" bson:"lotId"`
	PropertyID *string   `json:"propertyId" bson:"propertyId"`
	Title      *string   `json:"title,omitempty" bson:"title,omitempty"`
	AdURL      *string   `json:"adUrl,omitempty" bson:"adUrl,omitempty"`
	Price      *float64  `json:"price,omitempty" bson:"price,omitempty"`
	Notes      *string   `json:"notes,omitempty" bson:"notes,omitempty"`
	ID         string    `json:"id" bson:"_id"`
	HuntID     string    `json:"huntId" bson:"huntId"`
	Address    Address   `json:"address" bson:"address"`
	Active     bool      `json:"active" bson:"active"`
}

// TargetPropertyPatch is an incoming update. HuntID is not editable.
type TargetPropertyPatch struct {
	Title   *string       `json:"title"`
	AdURL   *string       `json:"adUrl"`
	Price   *float64      `json:"price"`
	Notes   *string       `json:"notes"`
	Active  *bool         `json:"active"`
	Address *AddressPatch `json:"address"`
}

// Apply merges p into a copy of t.
func (t TargetProperty) Apply(p TargetPropertyPatch) TargetProperty {
	if p.Title != nil {
		t.Title = cloneString(p.Title)
	}
	if p.AdURL != nil {
		t.AdURL = cloneString(p.AdURL)
	}
	if p.Price != nil {
		t.Price = p.Price
	}
	if p.Notes != nil {
		t.Notes = cloneString(p.Notes)
	}
	if p.Active != nil {
		t.Active = *p.Active
	}
	if p.Address != nil {
		t.Address = t.Address.Apply(*p.Address)
	}
	return t
}
