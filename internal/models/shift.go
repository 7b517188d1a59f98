package models

import (
	"time"

	"github.com/otcheredev/membership-data-plane/internal/store"
)

// Shift is a typed view over a shift document. A shift belongs to at most one
// customer; its end time can be extended retroactively by leave adjustments.
type Shift struct {
	ID         string    `firestore:"-" json:"id"`
	CustomerID string    `firestore:"shift_customer_id" json:"customer_id"`
	Active     bool      `firestore:"shift_status" json:"active"`
	EndTime    time.Time `firestore:"shift_end_time" json:"end_time"`
	HasEndTime bool      `firestore:"-" json:"-"`
}

// ParseShift builds a typed view from a raw document. HasEndTime distinguishes
// an absent end timestamp from the zero time.
func ParseShift(d store.Document) Shift {
	s := Shift{
		ID:         d.ID,
		CustomerID: StringValue(d.Data[FieldShiftCustomerID]),
		Active:     BoolValue(d.Data[FieldShiftStatus]),
	}
	if t, ok := TimeValue(d.Data[FieldShiftEndTime]); ok {
		s.EndTime = t
		s.HasEndTime = true
	}
	return s
}
