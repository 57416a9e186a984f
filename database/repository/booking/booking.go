package bookingRepo

import (
	"context"
	"errors"

	"kiings/models"
)

// ErrNotFound is returned when no booking matches the given filter.
var ErrNotFound = errors.New("booking not found")

// ErrSlotTaken is returned when an insert collides with the unique
// (date, time) index, i.e. another booking already holds the slot.
var ErrSlotTaken = errors.New("slot already booked")

// BookingRepository defines the data access methods used by the booking engine.
type BookingRepository interface {
	// Create persists a new booking. Returns ErrSlotTaken if the (date, time)
	// pair is already held by another booking.
	Create(ctx context.Context, booking *models.Booking) error
	// GetByID retrieves a booking by its application-level ID.
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	// GetByEmail retrieves all bookings made with the given contact email.
	GetByEmail(ctx context.Context, email string) ([]models.Booking, error)
	// GetAll retrieves every booking record.
	GetAll(ctx context.Context) ([]models.Booking, error)
	// GetBookedSlots returns the slot labels already booked on a date.
	GetBookedSlots(ctx context.Context, date string) ([]string, error)
	// UpdatePaymentStatus sets the denormalized payment status on a booking.
	UpdatePaymentStatus(ctx context.Context, bookingID, status string) error
	// Delete removes a booking record entirely.
	Delete(ctx context.Context, bookingID string) error
}
