package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	bookingRepo "kiings/database/repository/booking"
	"kiings/models"
)

// CancelBooking deletes a booking and its payment record entirely. Only
// Pending bookings can be cancelled, and only while the appointment is
// further away than the lead-time cutoff.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, bookingID string) error {
	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return &NotFoundError{Resource: "booking", ID: bookingID}
		}
		return &UpstreamError{Op: "looking up booking", Err: err}
	}

	if b.PaymentStatus != models.BookingStatusPending {
		return &ConflictError{Message: fmt.Sprintf("booking %s is %s and cannot be cancelled", bookingID, b.PaymentStatus)}
	}

	slotTime, err := s.Availability.SlotTime(b.Date, b.Time)
	if err != nil {
		return &UpstreamError{Op: "resolving appointment time", Err: err}
	}
	if time.Until(slotTime) < s.CancelCutoff {
		return &CutoffError{Message: fmt.Sprintf("booking %s can no longer be cancelled this close to the appointment", bookingID)}
	}

	if err := s.Payments.DeleteByBookingID(ctx, bookingID); err != nil {
		return &UpstreamError{Op: "deleting payment", Err: err}
	}
	if err := s.Repo.Delete(ctx, bookingID); err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return &NotFoundError{Resource: "booking", ID: bookingID}
		}
		return &UpstreamError{Op: "deleting booking", Err: err}
	}
	s.Availability.Invalidate(ctx, b.Date)

	s.Logger.Info("booking cancelled",
		zap.String("bookingId", bookingID), zap.String("date", b.Date), zap.String("slot", b.Time))
	return nil
}
