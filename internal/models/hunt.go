package models

import "time"

// Hunt is a user's organized search. TargetIDs keeps insertion order.
type Hunt struct {
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	TargetIDs   []string  `json:"targetIds" bson:"targetIds"`
}

// HasTarget reports whether id is in the hunt's target list.
func (h *Hunt) HasTarget(id string) bool {
	for _, t := range h.TargetIDs {
		if t == id {
			return true
		}
	}
	return false
}

// HuntPatch holds the editable fields of a hunt.
type HuntPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Apply merges p into a copy of h.
func (h Hunt) Apply(p HuntPatch) Hunt {
	if p.Name != nil {
		h.Name = *p.Name
	}
	if p.Description != nil {
		h.Description = *p.Description
	}
	h.TargetIDs = append([]string{}, h.TargetIDs...)
	return h
}
