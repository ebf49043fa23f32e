// Package model defines domain types used by the service.
package model

// Item represents one inventory record as stored in the sheet.
type Item struct {
	Code     string `json:"code"`
	Quantity int    `json:"quantity"`
	Location string `json:"location,omitempty"`
	Name     string `json:"name,omitempty"`
}

// NewItem carries the fields required to append a fresh record.
type NewItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Location string `json:"location"`
}

// ItemUpdate describes a partial update. Nil fields are left untouched.
type ItemUpdate struct {
	NewCode  *string `json:"newCode,omitempty"`
	Quantity *int    `json:"quantity,omitempty"`
	Location *string `json:"location,omitempty"`
}

// Empty reports whether the update would change nothing.
func (u ItemUpdate) Empty() bool {
	return u.NewCode == nil && u.Quantity == nil && u.Location == nil
}
