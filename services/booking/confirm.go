package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	bookingRepo "kiings/database/repository/booking"
	paymentRepo "kiings/database/repository/payment"
	"kiings/models"
	"kiings/services/tasks"
)

// ConfirmPayment processes an asynchronous status callback from the payment
// gateway. It is safe to invoke any number of times for the same session:
// the first terminal status wins, later deliveries are acknowledged without
// a second transition. A retry that finds the payment already terminal still
// re-checks the booking and repairs it if the mirror update was lost.
//
// Only the literal status "successful" confirms the payment; every other
// value, recognized or not, marks it failed.
func (s *DefaultBookingService) ConfirmPayment(ctx context.Context, sessionID, status string) (*models.ConfirmResult, error) {
	pmt, err := s.Payments.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrNotFound) {
			return nil, &NotFoundError{Resource: "payment session", ID: sessionID}
		}
		return nil, &UpstreamError{Op: "looking up payment session", Err: err}
	}

	if pmt.Status != models.PaymentStatusPending {
		s.Logger.Info("payment callback on terminal payment",
			zap.String("sessionId", sessionID),
			zap.String("currentStatus", pmt.Status), zap.String("reportedStatus", status))
		if err := s.repairBookingMirror(ctx, pmt); err != nil {
			return nil, err
		}
		return &models.ConfirmResult{Status: pmt.Status, AlreadyProcessed: true}, nil
	}

	newStatus := models.PaymentStatusFailed
	if status == models.PaymentStatusSuccessful {
		newStatus = models.PaymentStatusSuccessful
	}

	won, err := s.Payments.MarkStatusIfPending(ctx, sessionID, newStatus)
	if err != nil {
		return nil, &UpstreamError{Op: "updating payment status", Err: err}
	}
	if !won {
		// A concurrent delivery transitioned the payment first. Report the
		// status that delivery stored, not the one this one attempted.
		stored, err := s.Payments.GetBySessionID(ctx, sessionID)
		if err != nil {
			return nil, &UpstreamError{Op: "looking up payment session", Err: err}
		}
		s.Logger.Info("payment callback lost the status race, ignoring",
			zap.String("sessionId", sessionID),
			zap.String("storedStatus", stored.Status), zap.String("reportedStatus", status))
		return &models.ConfirmResult{Status: stored.Status, AlreadyProcessed: true}, nil
	}

	bookingStatus := models.BookingStatusFailed
	if newStatus == models.PaymentStatusSuccessful {
		bookingStatus = models.BookingStatusPaid
	}
	if err := s.Repo.UpdatePaymentStatus(ctx, pmt.BookingID, bookingStatus); err != nil {
		// The payment transition is authoritative and already committed.
		// Surface the failure so the gateway retries; the retry hits the
		// terminal-payment branch above and repairs the booking there.
		s.Logger.Error("failed to update booking after payment transition",
			zap.String("bookingId", pmt.BookingID), zap.String("status", bookingStatus), zap.Error(err))
		return nil, &UpstreamError{Op: "updating booking status", Err: err}
	}

	s.Logger.Info("payment confirmed",
		zap.String("sessionId", sessionID), zap.String("bookingId", pmt.BookingID),
		zap.String("status", newStatus))

	if newStatus == models.PaymentStatusSuccessful {
		s.dispatchConfirmation(ctx, pmt.BookingID)
	}

	return &models.ConfirmResult{Status: newStatus}, nil
}

// repairBookingMirror re-aligns a booking with its terminal payment. The two
// can disagree when the booking update failed after the payment transition
// committed; the next callback delivery lands here and completes the half-done
// work, including the confirmation that never went out.
func (s *DefaultBookingService) repairBookingMirror(ctx context.Context, pmt *models.Payment) error {
	want := models.BookingStatusFailed
	if pmt.Status == models.PaymentStatusSuccessful {
		want = models.BookingStatusPaid
	}

	b, err := s.Repo.GetByID(ctx, pmt.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil
		}
		return &UpstreamError{Op: "looking up booking", Err: err}
	}
	if b.PaymentStatus == want {
		return nil
	}

	if err := s.Repo.UpdatePaymentStatus(ctx, pmt.BookingID, want); err != nil {
		s.Logger.Error("failed to repair booking status from terminal payment",
			zap.String("bookingId", pmt.BookingID), zap.String("status", want), zap.Error(err))
		return &UpstreamError{Op: "updating booking status", Err: err}
	}
	s.Logger.Info("repaired booking status from terminal payment",
		zap.String("bookingId", pmt.BookingID), zap.String("status", want))

	if pmt.Status == models.PaymentStatusSuccessful {
		s.dispatchConfirmation(ctx, pmt.BookingID)
	}
	return nil
}

// dispatchConfirmation sends the confirmation emails and schedules the
// appointment reminder. Both are side effects of an already-committed state
// transition: failures are logged and never propagated.
func (s *DefaultBookingService) dispatchConfirmation(ctx context.Context, bookingID string) {
	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		s.Logger.Error("cannot load booking for confirmation emails",
			zap.String("bookingId", bookingID), zap.Error(err))
		return
	}

	if err := s.Notifier.SendBookingConfirmation(ctx, b); err != nil {
		s.Logger.Error("confirmation email dispatch failed",
			zap.String("bookingId", bookingID), zap.Error(err))
	}

	s.enqueueReminder(b)
}

func (s *DefaultBookingService) enqueueReminder(b *models.Booking) {
	if s.Tasks == nil {
		return
	}
	slotTime, err := s.Availability.SlotTime(b.Date, b.Time)
	if err != nil {
		s.Logger.Warn("cannot resolve slot time for reminder",
			zap.String("bookingId", b.ID), zap.Error(err))
		return
	}
	fireAt := slotTime.Add(-s.ReminderLead)
	if time.Until(fireAt) <= 0 {
		return
	}

	payload := models.ReminderPayload{
		BookingID: b.ID,
		Email:     b.Email,
		FirstName: b.FirstName,
		CarModel:  b.CarModel,
		WashType:  b.WashType.Name,
		Date:      b.Date,
		Time:      b.Time,
	}
	task, opts, err := tasks.NewReminderTask(payload, fireAt)
	if err != nil {
		s.Logger.Error("failed to build reminder task", zap.String("bookingId", b.ID), zap.Error(err))
		return
	}
	if _, err := s.Tasks.Enqueue(task, opts...); err != nil {
		s.Logger.Error("failed to enqueue reminder task", zap.String("bookingId", b.ID), zap.Error(err))
	}
}
