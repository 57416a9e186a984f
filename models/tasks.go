package models

// ReminderPayload carries everything the reminder worker needs to send an
// appointment reminder without a store round trip.
type ReminderPayload struct {
	BookingID string `json:"bookingId"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	CarModel  string `json:"carModel"`
	WashType  string `json:"washType"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

// ReapOrphanPayload identifies a booking whose checkout session never
// materialized; the worker deletes it if no payment has appeared since.
type ReapOrphanPayload struct {
	BookingID string `json:"bookingId"`
}
