package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingRepo "kiings/database/repository/booking"
	"kiings/models"
	"kiings/services/scheduler"
	"kiings/services/tasks"
)

// CreateBooking validates the request, re-checks the slot against current
// bookings, persists the booking as Pending, obtains a checkout session from
// the gateway and records the pending payment.
//
// If the gateway call fails the booking is kept as an orphan (Pending, no
// payment) and a delayed reap task is enqueued; the caller sees an
// UpstreamError and can retry with a fresh request.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, req models.BookingRequest) (*models.BookingResponse, error) {
	if err := validateBookingRequest(req); err != nil {
		return nil, err
	}

	ok, err := s.Availability.IsSlotAvailable(ctx, req.Date, req.Time)
	if err != nil {
		if errors.Is(err, scheduler.ErrInvalidDate) {
			return nil, &ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD form"}
		}
		if errors.Is(err, scheduler.ErrUnknownSlot) {
			return nil, &ValidationError{Field: "time", Message: "time is not a bookable slot"}
		}
		return nil, &UpstreamError{Op: "checking slot availability", Err: err}
	}
	if !ok {
		return nil, &ConflictError{Message: fmt.Sprintf("slot %s on %s is no longer available", req.Time, req.Date)}
	}

	booking := &models.Booking{
		ID:                 uuid.New().String(),
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Email:              req.Email,
		CarModel:           req.CarModel,
		WashType:           req.WashType,
		AdditionalServices: req.AdditionalServices,
		Date:               req.Date,
		Time:               req.Time,
		ServiceLocation:    req.ServiceLocation,
		Address:            req.Address,
		Subscription:       req.Subscription,
		TotalPrice:         req.TotalPrice,
		PaymentStatus:      models.BookingStatusPending,
		CreatedAt:          time.Now(),
	}

	if err := s.Repo.Create(ctx, booking); err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			return nil, &ConflictError{Message: fmt.Sprintf("slot %s on %s is no longer available", req.Time, req.Date)}
		}
		return nil, &UpstreamError{Op: "persisting booking", Err: err}
	}
	s.Availability.Invalidate(ctx, booking.Date)

	amountMinor := int64(math.Round(req.TotalPrice * 100))
	session, err := s.Gateway.CreateCheckoutSession(ctx, amountMinor, checkoutDescription(booking), booking.ID)
	if err != nil {
		s.Logger.Error("checkout session creation failed, booking left pending",
			zap.String("bookingId", booking.ID), zap.Error(err))
		s.enqueueOrphanReap(booking.ID)
		return nil, &UpstreamError{Op: "creating checkout session", Err: err}
	}

	pmt := &models.Payment{
		ID:        uuid.New().String(),
		BookingID: booking.ID,
		Amount:    amountMinor,
		Currency:  session.Currency,
		SessionID: session.SessionID,
		Status:    models.PaymentStatusPending,
		CreatedAt: time.Now(),
	}
	if err := s.Payments.Create(ctx, pmt); err != nil {
		s.Logger.Error("payment record creation failed, booking left pending",
			zap.String("bookingId", booking.ID), zap.String("sessionId", session.SessionID), zap.Error(err))
		s.enqueueOrphanReap(booking.ID)
		return nil, &UpstreamError{Op: "persisting payment", Err: err}
	}

	s.Logger.Info("booking created",
		zap.String("bookingId", booking.ID),
		zap.String("date", booking.Date), zap.String("slot", booking.Time),
		zap.Int64("amountMinor", amountMinor))

	return &models.BookingResponse{BookingID: booking.ID, RedirectURL: session.RedirectURL}, nil
}

// ListBookings returns the customer's bookings when an email is given, or
// every booking otherwise. Read-only.
func (s *DefaultBookingService) ListBookings(ctx context.Context, email string) ([]models.Booking, error) {
	var (
		bookings []models.Booking
		err      error
	)
	if email != "" {
		bookings, err = s.Repo.GetByEmail(ctx, email)
	} else {
		bookings, err = s.Repo.GetAll(ctx)
	}
	if err != nil {
		return nil, &UpstreamError{Op: "listing bookings", Err: err}
	}
	return bookings, nil
}

func (s *DefaultBookingService) enqueueOrphanReap(bookingID string) {
	if s.Tasks == nil {
		return
	}
	task, opts, err := tasks.NewReapOrphanTask(bookingID, s.OrphanTTL)
	if err != nil {
		s.Logger.Error("failed to build orphan reap task", zap.String("bookingId", bookingID), zap.Error(err))
		return
	}
	if _, err := s.Tasks.Enqueue(task, opts...); err != nil {
		s.Logger.Error("failed to enqueue orphan reap task", zap.String("bookingId", bookingID), zap.Error(err))
	}
}

func validateBookingRequest(req models.BookingRequest) error {
	switch {
	case req.FirstName == "":
		return &ValidationError{Field: "firstName", Message: "first name is required"}
	case req.LastName == "":
		return &ValidationError{Field: "lastName", Message: "last name is required"}
	case req.Email == "":
		return &ValidationError{Field: "email", Message: "email is required"}
	case req.CarModel == "":
		return &ValidationError{Field: "carModel", Message: "car model is required"}
	case req.Date == "":
		return &ValidationError{Field: "date", Message: "date is required"}
	case req.Time == "":
		return &ValidationError{Field: "time", Message: "time slot is required"}
	}
	if req.TotalPrice <= 0 || math.IsNaN(req.TotalPrice) || math.IsInf(req.TotalPrice, 0) {
		return &ValidationError{Field: "totalPrice", Message: "total price must be a positive number"}
	}
	return nil
}

func checkoutDescription(b *models.Booking) string {
	if b.WashType.Name != "" {
		return fmt.Sprintf("Kiings Car Wash - %s (%s %s)", b.WashType.Name, b.Date, b.Time)
	}
	return fmt.Sprintf("Kiings Car Wash (%s %s)", b.Date, b.Time)
}
