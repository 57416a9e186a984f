package models

import "time"

// Booking payment statuses. A booking starts Pending and is moved to Paid or
// Failed exactly once by the payment confirmation path.
const (
	BookingStatusPending = "Pending"
	BookingStatusPaid    = "Paid"
	BookingStatusFailed  = "Failed"
)

// WashType describes the selected wash package.
type WashType struct {
	Name    string  `bson:"name" json:"name"`
	Price   float64 `bson:"price" json:"price"`
	Details string  `bson:"details,omitempty" json:"details,omitempty"`
}

// AdditionalService is an optional add-on (e.g. interior vacuum, wax).
type AdditionalService struct {
	Name  string  `bson:"name" json:"name"`
	Price float64 `bson:"price" json:"price"`
}

// Booking represents a persisted car-wash appointment.
type Booking struct {
	ID                 string              `bson:"id" json:"id"`
	FirstName          string              `bson:"first_name" json:"firstName"`
	LastName           string              `bson:"last_name" json:"lastName"`
	Email              string              `bson:"email" json:"email"`
	CarModel           string              `bson:"car_model" json:"carModel"`
	WashType           WashType            `bson:"wash_type" json:"washType"`
	AdditionalServices []AdditionalService `bson:"additional_services,omitempty" json:"additionalServices,omitempty"`
	Date               string              `bson:"date" json:"date"` // "2006-01-02"
	Time               string              `bson:"time" json:"time"` // slot label, e.g. "10:00"
	ServiceLocation    string              `bson:"service_location,omitempty" json:"serviceLocation,omitempty"`
	Address            string              `bson:"address,omitempty" json:"address,omitempty"`
	Subscription       bool                `bson:"subscription" json:"subscription"`
	TotalPrice         float64             `bson:"total_price" json:"totalPrice"`
	PaymentStatus      string              `bson:"payment_status" json:"paymentStatus"`
	CreatedAt          time.Time           `bson:"created_at" json:"createdAt"`
}

// BookingRequest is the client-submitted payload for a new appointment.
type BookingRequest struct {
	FirstName          string              `json:"firstName"`
	LastName           string              `json:"lastName"`
	Email              string              `json:"email"`
	CarModel           string              `json:"carModel"`
	WashType           WashType            `json:"washType"`
	AdditionalServices []AdditionalService `json:"additionalServices,omitempty"`
	Date               string              `json:"date"`
	Time               string              `json:"time"`
	ServiceLocation    string              `json:"serviceLocation,omitempty"`
	Address            string              `json:"address,omitempty"`
	Subscription       bool                `json:"subscription"`
	TotalPrice         float64             `json:"totalPrice"`
}

// BookingResponse is returned once a booking is persisted and a checkout
// session has been created; the client is redirected to RedirectURL.
type BookingResponse struct {
	BookingID   string `json:"bookingId"`
	RedirectURL string `json:"redirectUrl"`
}
