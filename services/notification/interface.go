package notification

import (
	"context"

	"kiings/models"
)

// NotificationService sends booking-related emails. Callers treat every send
// as best-effort: failures are logged, never propagated into booking or
// payment state.
type NotificationService interface {
	// SendBookingConfirmation emails both the shop owner and the customer
	// after a payment succeeds.
	SendBookingConfirmation(ctx context.Context, booking *models.Booking) error
	// SendBookingReminder emails the customer ahead of the appointment.
	SendBookingReminder(ctx context.Context, p models.ReminderPayload) error
}
