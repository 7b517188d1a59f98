package models

import (
	"time"

	"github.com/otcheredev/membership-data-plane/internal/store"
)

// Customer is a typed view over a customer document. The four subscription
// slices are index-aligned: position i across all four describes one active
// shift assignment.
type Customer struct {
	ID                 string      `firestore:"-" json:"id"`
	Active             bool        `firestore:"customer_status" json:"active"`
	CurrentCardID      string      `firestore:"customer_current_card_id" json:"current_card_id"`
	PaymentRate        string      `firestore:"customer_current_payment_rate" json:"payment_rate"`
	ShiftIDs           []string    `firestore:"customer_current_shift_id" json:"shift_ids"`
	Seats              []string    `firestore:"customer_current_seat" json:"seats"`
	SubscriptionStarts []time.Time `firestore:"customer_subscription_start_date" json:"subscription_starts"`
	SubscriptionEnds   []time.Time `firestore:"customer_subscription_end_date" json:"subscription_ends"`
	LastPaymentDate    time.Time   `firestore:"customer_last_payment_date" json:"last_payment_date"`
}

// ParseCustomer builds a typed view from a raw document. Array entries of
// unexpected type are dropped, so a parsed view can be shorter than the raw
// arrays; use ArraysAligned on the raw document to check the invariant.
func ParseCustomer(d store.Document) Customer {
	c := Customer{
		ID:                 d.ID,
		Active:             BoolValue(d.Data[FieldCustomerStatus]),
		CurrentCardID:      StringValue(d.Data[FieldCustomerCurrentCardID]),
		PaymentRate:        StringValue(d.Data[FieldCustomerCurrentPaymentRate]),
		ShiftIDs:           StringSlice(d.Data[FieldCustomerCurrentShiftID]),
		Seats:              StringSlice(d.Data[FieldCustomerCurrentSeat]),
		SubscriptionStarts: TimeSlice(d.Data[FieldCustomerSubscriptionStart]),
		SubscriptionEnds:   TimeSlice(d.Data[FieldCustomerSubscriptionEnd]),
	}
	if t, ok := TimeValue(d.Data[FieldCustomerLastPaymentDate]); ok {
		c.LastPaymentDate = t
	}
	return c
}

// ArraysAligned reports whether the four subscription arrays of a raw customer
// document have equal length. The store enforces no such constraint; this is
// the invariant checker the tests run.
func ArraysAligned(d store.Document) bool {
	n := rawLen(d.Data[FieldCustomerCurrentShiftID])
	return rawLen(d.Data[FieldCustomerCurrentSeat]) == n &&
		rawLen(d.Data[FieldCustomerSubscriptionStart]) == n &&
		rawLen(d.Data[FieldCustomerSubscriptionEnd]) == n
}

func rawLen(v interface{}) int {
	arr, _ := v.([]interface{})
	return len(arr)
}
