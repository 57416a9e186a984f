package booking

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	bookingRepo "kiings/database/repository/booking"
	paymentRepo "kiings/database/repository/payment"
	"kiings/models"
	"kiings/services/notification"
	"kiings/services/payment"
)

// BookingService drives a booking through its lifecycle: validation,
// persistence, checkout session creation, payment confirmation, listing and
// cancellation.
type BookingService interface {
	CreateBooking(ctx context.Context, req models.BookingRequest) (*models.BookingResponse, error)
	ConfirmPayment(ctx context.Context, sessionID, status string) (*models.ConfirmResult, error)
	ListBookings(ctx context.Context, email string) ([]models.Booking, error)
	CancelBooking(ctx context.Context, bookingID string) error
}

// AvailabilityChecker is the slice of the scheduler the lifecycle manager
// needs: re-checking a slot at persistence time, resolving a slot to
// wall-clock time, and invalidating the cached slot list.
type AvailabilityChecker interface {
	IsSlotAvailable(ctx context.Context, date, slot string) (bool, error)
	SlotTime(date, slot string) (time.Time, error)
	Invalidate(ctx context.Context, date string)
}

// TaskEnqueuer submits background tasks. *asynq.Client satisfies it.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo         bookingRepo.BookingRepository
	Payments     paymentRepo.PaymentRepository
	Gateway      payment.Gateway
	Availability AvailabilityChecker
	Notifier     notification.NotificationService
	Tasks        TaskEnqueuer // optional; nil disables background tasks
	CancelCutoff time.Duration
	ReminderLead time.Duration
	OrphanTTL    time.Duration
	Logger       *zap.Logger
}
