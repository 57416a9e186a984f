package paymentRepo

import (
	"context"
	"errors"

	"kiings/models"
)

// ErrNotFound is returned when no payment matches the given filter.
var ErrNotFound = errors.New("payment not found")

// PaymentRepository defines the data access methods for payment records.
type PaymentRepository interface {
	// Create persists a new payment record.
	Create(ctx context.Context, payment *models.Payment) error
	// GetBySessionID retrieves a payment by its gateway session identifier.
	GetBySessionID(ctx context.Context, sessionID string) (*models.Payment, error)
	// GetByBookingID retrieves the payment linked to a booking, if any.
	GetByBookingID(ctx context.Context, bookingID string) (*models.Payment, error)
	// MarkStatusIfPending atomically moves a payment from "pending" to the
	// given terminal status. Returns false when the payment was no longer
	// pending, i.e. another callback delivery won the race.
	MarkStatusIfPending(ctx context.Context, sessionID, status string) (bool, error)
	// DeleteByBookingID removes the payment linked to a booking.
	DeleteByBookingID(ctx context.Context, bookingID string) error
}
