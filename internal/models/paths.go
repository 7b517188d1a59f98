package models

// Collection names under each business document.
const (
	CollectionBusinesses = "businesses"
	CollectionCustomers  = "customers"
	CollectionCards      = "cards"
	CollectionShifts     = "shifts"
	CollectionPayments   = "payments"
	CollectionLeaves     = "leaves"
	CollectionComments   = "comments"
	CollectionDevices    = "devices"
)

// BusinessPath returns the document path of a business.
func BusinessPath(businessID string) string {
	return CollectionBusinesses + "/" + businessID
}

// CollectionPath returns the path of an entity collection owned by a business.
func CollectionPath(businessID, collection string) string {
	return BusinessPath(businessID) + "/" + collection
}

// CustomerPath returns the document path of a customer.
func CustomerPath(businessID, customerID string) string {
	return CollectionPath(businessID, CollectionCustomers) + "/" + customerID
}

// CardPath returns the document path of a card by its storage key.
func CardPath(businessID, cardDocID string) string {
	return CollectionPath(businessID, CollectionCards) + "/" + cardDocID
}

// ShiftPath returns the document path of a shift.
func ShiftPath(businessID, shiftID string) string {
	return CollectionPath(businessID, CollectionShifts) + "/" + shiftID
}

// LeavePath returns the document path of a leave record.
func LeavePath(businessID, leaveID string) string {
	return CollectionPath(businessID, CollectionLeaves) + "/" + leaveID
}

// CommentPath returns the document path of a comment.
func CommentPath(businessID, commentID string) string {
	return CollectionPath(businessID, CollectionComments) + "/" + commentID
}

// PaymentPath returns the document path of a payment.
func PaymentPath(businessID, paymentID string) string {
	return CollectionPath(businessID, CollectionPayments) + "/" + paymentID
}

// DevicePath returns the document path of a registered device.
func DevicePath(businessID, deviceID string) string {
	return CollectionPath(businessID, CollectionDevices) + "/" + deviceID
}
