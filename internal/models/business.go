package models

import "github.com/otcheredev/membership-data-plane/internal/store"

// Business is a tenant. Prefix namespaces every entity id issued within it.
type Business struct {
	ID     string `firestore:"business_id" json:"id"`
	Name   string `firestore:"business_name" json:"name"`
	Prefix string `firestore:"business_prefix" json:"prefix"`
}

// ParseBusiness builds a typed view from a raw document.
func ParseBusiness(d store.Document) Business {
	return Business{
		ID:     d.ID,
		Name:   StringValue(d.Data[FieldBusinessName]),
		Prefix: StringValue(d.Data[FieldBusinessPrefix]),
	}
}
