package models

import "time"

// Payment statuses as reported by the gateway. "successful" and "failed" are
// terminal; a payment is mutated at most once after creation.
const (
	PaymentStatusPending    = "pending"
	PaymentStatusSuccessful = "successful"
	PaymentStatusFailed     = "failed"
)

// Payment links a booking to one checkout attempt at the gateway.
type Payment struct {
	ID        string    `bson:"id" json:"id"`
	BookingID string    `bson:"booking_id" json:"bookingId"`
	Amount    int64     `bson:"amount" json:"amount"` // minor currency units
	Currency  string    `bson:"currency" json:"currency"`
	SessionID string    `bson:"session_id" json:"sessionId"`
	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// ConfirmResult is the outcome of processing a payment callback.
// AlreadyProcessed is true when the payment was already terminal and the
// callback was acknowledged without side effects.
type ConfirmResult struct {
	Status           string `json:"status"`
	AlreadyProcessed bool   `json:"alreadyProcessed"`
}
