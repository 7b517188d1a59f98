package models

// Document field keys. These are the wire contract with the stored data and
// must not change.
const (
	FieldCardAssignedTo   = "card_assigned_to"
	FieldCardAssignedType = "card_assigned_type"
	FieldCardStatus       = "card_status"
	FieldCardID           = "card_id"

	FieldCustomerCurrentCardID       = "customer_current_card_id"
	FieldCustomerStatus              = "customer_status"
	FieldCustomerCurrentPaymentRate  = "customer_current_payment_rate"
	FieldCustomerCurrentShiftID      = "customer_current_shift_id"
	FieldCustomerCurrentSeat         = "customer_current_seat"
	FieldCustomerSubscriptionStart   = "customer_subscription_start_date"
	FieldCustomerSubscriptionEnd     = "customer_subscription_end_date"
	FieldCustomerLastPaymentDate     = "customer_last_payment_date"

	FieldShiftID         = "shift_id"
	FieldShiftStatus     = "shift_status"
	FieldShiftEndTime    = "shift_end_time"
	FieldShiftCustomerID = "shift_customer_id"

	FieldBusinessID     = "business_id"
	FieldBusinessName   = "business_name"
	FieldBusinessPrefix = "business_prefix"

	FieldLeaveID         = "leave_id"
	FieldLeaveCustomerID = "leave_customer_id"
	FieldLeaveNumOfDays  = "leave_num_of_days"

	FieldCommentID         = "comment_id"
	FieldCommentCustomerID = "comment_customer_id"
	FieldCommentCreatedBy  = "comment_created_by"
	FieldCommentEntityType = "comment_entity_type"
	FieldCommentText       = "comment_text"

	FieldPaymentID         = "payment_id"
	FieldPaymentCustomerID = "payment_customer_id"
	FieldPaymentAmount     = "payment_amount"

	FieldUpdatedAt = "updated_at"
	FieldCreatedAt = "created_at"
)

// AssignedTypeCustomer is the only assignment type a card currently takes;
// an unassigned card carries the empty string.
const AssignedTypeCustomer = "customer"
