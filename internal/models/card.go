package models

import "github.com/otcheredev/membership-data-plane/internal/store"

// Card is a typed view over a card document. DocID is the storage key;
// CardID is the business-facing credential id printed on the card and may
// differ from the storage key.
type Card struct {
	DocID        string `firestore:"-" json:"doc_id"`
	CardID       string `firestore:"card_id" json:"card_id"`
	AssignedTo   string `firestore:"card_assigned_to" json:"assigned_to"`
	AssignedType string `firestore:"card_assigned_type" json:"assigned_type"`
	Status       bool   `firestore:"card_status" json:"status"`
}

// ParseCard builds a typed view from a raw document.
func ParseCard(d store.Document) Card {
	return Card{
		DocID:        d.ID,
		CardID:       StringValue(d.Data[FieldCardID]),
		AssignedTo:   StringValue(d.Data[FieldCardAssignedTo]),
		AssignedType: StringValue(d.Data[FieldCardAssignedType]),
		Status:       BoolValue(d.Data[FieldCardStatus]),
	}
}

// Assigned reports whether the card currently belongs to a customer.
// A consistent card has Status == Assigned at all times.
func (c Card) Assigned() bool {
	return c.AssignedTo != ""
}
