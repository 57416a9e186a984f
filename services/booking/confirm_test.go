package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	paymentRepo "kiings/database/repository/payment"
	"kiings/models"
	"kiings/services/tasks"
)

func pendingPayment() *models.Payment {
	return &models.Payment{
		ID:        "p1",
		BookingID: "b1",
		Amount:    35000,
		Currency:  "zar",
		SessionID: "cs_123",
		Status:    models.PaymentStatusPending,
	}
}

func paidableBooking() *models.Booking {
	return &models.Booking{
		ID:            "b1",
		FirstName:     "Thabo",
		Email:         "thabo@example.com",
		CarModel:      "VW Polo",
		WashType:      models.WashType{Name: "Full Valet", Price: 350},
		Date:          time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		Time:          "10:00",
		TotalPrice:    350,
		PaymentStatus: models.BookingStatusPending,
	}
}

func TestConfirmPayment_SuccessDispatchesOneNotification(t *testing.T) {
	svc, m := newTestService()
	b := paidableBooking()

	m.payments.On("GetBySessionID", mock.Anything, "cs_123").Return(pendingPayment(), nil)
	m.payments.On("MarkStatusIfPending", mock.Anything, "cs_123", models.PaymentStatusSuccessful).Return(true, nil)
	m.repo.On("UpdatePaymentStatus", mock.Anything, "b1", models.BookingStatusPaid).Return(nil)
	m.repo.On("GetByID", mock.Anything, "b1").Return(b, nil)
	m.notifier.On("SendBookingConfirmation", mock.Anything, b).Return(nil).Once()
	m.avail.On("SlotTime", b.Date, "10:00").
		Return(time.Now().AddDate(0, 0, 7).Add(10*time.Hour), nil)
	m.enqueuer.On("Enqueue", mock.MatchedBy(func(task *asynq.Task) bool {
		return task.Type() == tasks.TypeSendReminder
	}), mock.Anything).Return(&asynq.TaskInfo{}, nil)

	result, err := svc.ConfirmPayment(context.Background(), "cs_123", "successful")

	require.NoError(t, err)
	assert.False(t, result.AlreadyProcessed)
	assert.Equal(t, models.PaymentStatusSuccessful, result.Status)
	m.notifier.AssertNumberOfCalls(t, "SendBookingConfirmation", 1)
	m.repo.AssertExpectations(t)
}

func TestConfirmPayment_UnknownSessionIsNotFound(t *testing.T) {
	svc, m := newTestService()

	m.payments.On("GetBySessionID", mock.Anything, "cs_missing").Return(nil, paymentRepo.ErrNotFound)

	_, err := svc.ConfirmPayment(context.Background(), "cs_missing", "successful")

	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	m.payments.AssertNotCalled(t, "MarkStatusIfPending", mock.Anything, mock.Anything, mock.Anything)
	m.repo.AssertNotCalled(t, "UpdatePaymentStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmPayment_SecondDeliveryIsIdempotent(t *testing.T) {
	svc, m := newTestService()

	terminal := pendingPayment()
	terminal.Status = models.PaymentStatusSuccessful
	m.payments.On("GetBySessionID", mock.Anything, "cs_123").Return(terminal, nil)
	paid := paidableBooking()
	paid.PaymentStatus = models.BookingStatusPaid
	m.repo.On("GetByID", mock.Anything, "b1").Return(paid, nil)

	result, err := svc.ConfirmPayment(context.Background(), "cs_123", "successful")

	require.NoError(t, err)
	assert.True(t, result.AlreadyProcessed)
	assert.Equal(t, models.PaymentStatusSuccessful, result.Status)
	m.payments.AssertNotCalled(t, "MarkStatusIfPending", mock.Anything, mock.Anything, mock.Anything)
	m.repo.AssertNotCalled(t, "UpdatePaymentStatus", mock.Anything, mock.Anything, mock.Anything)
	m.notifier.AssertNotCalled(t, "SendBookingConfirmation", mock.Anything, mock.Anything)
}

func TestConfirmPayment_RetryRepairsBookingAfterMirrorFailure(t *testing.T) {
	svc, m := newTestService()
	b := paidableBooking()

	// First delivery: the payment transition commits but the booking update
	// fails afterwards.
	m.payments.On("GetBySessionID", mock.Anything, "cs_123").Return(pendingPayment(), nil).Once()
	m.payments.On("MarkStatusIfPending", mock.Anything, "cs_123", models.PaymentStatusSuccessful).
		Return(true, nil).Once()
	m.repo.On("UpdatePaymentStatus", mock.Anything, "b1", models.BookingStatusPaid).
		Return(errors.New("write timeout")).Once()

	_, err := svc.ConfirmPayment(context.Background(), "cs_123", "successful")

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	m.notifier.AssertNotCalled(t, "SendBookingConfirmation", mock.Anything, mock.Anything)

	// The gateway retries: the payment is terminal now, the booking still
	// reads Pending. The retry must finish the half-done work.
	terminal := pendingPayment()
	terminal.Status = models.PaymentStatusSuccessful
	m.payments.On("GetBySessionID", mock.Anything, "cs_123").Return(terminal, nil).Once()
	m.repo.On("GetByID", mock.Anything, "b1").Return(b, nil)
	m.repo.On("UpdatePaymentStatus", mock.Anything, "b1", models.BookingStatusPaid).Return(nil).Once()
	m.notifier.On("SendBookingConfirmation", mock.Anything, b).Return(nil).Once()
	m.avail.On("SlotTime", b.Date, "10:00").
		Return(time.Now().AddDate(0, 0, 7).Add(10*time.Hour), nil)
	m.enqueuer.On("Enqueue", mock.Anything, mock.Anything).Return(&asynq.TaskInfo{}, nil)

	result, err := svc.ConfirmPayment(context.Background(), "cs_123", "successful")

	require.NoError(t, err)
	assert.True(t, result.AlreadyProcessed)
	assert.Equal(t, models.PaymentStatusSuccessful, result.Status)
	m.repo.AssertNumberOfCalls(t, "UpdatePaymentStatus", 2)
	m.notifier.AssertNumberOfCalls(t, "SendBookingConfirmation", 1)
}

func TestConfirmPayment_FirstCallbackWins(t *testing.T) {
	svc, m := newTestService()

	// A "successful" callback on an already-failed payment must not flip it.
	failed := pendingPayment()
	failed.Status = models.PaymentStatusFailed
	m.payments.On("GetBySessionID", mock.Anything, "cs_123").Return(failed, nil)
	failedBooking := paidableBooking()
	failedBooking.PaymentStatus = models.BookingStatusFailed
	m.repo.On("GetByID", mock.Anything, "b1").Return(failedBooking, nil)

	result, err := svc.ConfirmPayment(context.Background(), "cs_123", "successful")

	require.NoError(t, err)
	assert.True(t, result.AlreadyProcessed)
	assert.Equal(t, models.PaymentStatusFailed, result.Status)
	m.payments.AssertNotCalled(t, "MarkStatusIfPending", mock.Anything, mock.Anything, mock.Anything)
	m.notifier.AssertNotCalled(t, "SendBookingConfirmation", mock.Anything, mock.Anything)
}

func TestConfirmPayment_UnrecognizedStatusMapsToFailed(t *testing.T) {
	svc, m := newTestService()

	m.payments.On("GetBySessionID", mock.Anything, "cs_123").Return(pendingPayment(), nil)
	m.payments.On("MarkStatusIfPending", mock.Anything, "cs_123", models.PaymentStatusFailed).Return(true, nil)
	m.repo.On("UpdatePaymentStatus", mock.Anything, "b1", models.BookingStatusFailed).Return(nil)

	result, err := svc.ConfirmPayment(context.Background(), "cs_123", "SUCCESSFUL-ish")

	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, result.Status)
	m.notifier.AssertNotCalled(t, "SendBookingConfirmation", mock.Anything, mock.Anything)
}

func TestConfirmPayment_LostRaceReportsStoredStatus(t *testing.T) {
	svc, m := newTestService()

	// Another delivery marks the payment failed between this delivery's read
	// and its conditional update. The losing "successful" callback must be
	// answered with the status that actually stuck.
	m.payments.On("GetBySessionID", mock.Anything, "cs_123").Return(pendingPayment(), nil).Once()
	m.payments.On("MarkStatusIfPending", mock.Anything, "cs_123", models.PaymentStatusSuccessful).Return(false, nil)
	stored := pendingPayment()
	stored.Status = models.PaymentStatusFailed
	m.payments.On("GetBySessionID", mock.Anything, "cs_123").Return(stored, nil).Once()

	result, err := svc.ConfirmPayment(context.Background(), "cs_123", "successful")

	require.NoError(t, err)
	assert.True(t, result.AlreadyProcessed)
	assert.Equal(t, models.PaymentStatusFailed, result.Status)
	m.repo.AssertNotCalled(t, "UpdatePaymentStatus", mock.Anything, mock.Anything, mock.Anything)
	m.notifier.AssertNotCalled(t, "SendBookingConfirmation", mock.Anything, mock.Anything)
}

func TestConfirmPayment_NotificationFailureDoesNotFailConfirmation(t *testing.T) {
	svc, m := newTestService()
	b := paidableBooking()

	m.payments.On("GetBySessionID", mock.Anything, "cs_123").Return(pendingPayment(), nil)
	m.payments.On("MarkStatusIfPending", mock.Anything, "cs_123", models.PaymentStatusSuccessful).Return(true, nil)
	m.repo.On("UpdatePaymentStatus", mock.Anything, "b1", models.BookingStatusPaid).Return(nil)
	m.repo.On("GetByID", mock.Anything, "b1").Return(b, nil)
	m.notifier.On("SendBookingConfirmation", mock.Anything, b).Return(errors.New("smtp down"))
	m.avail.On("SlotTime", b.Date, "10:00").
		Return(time.Now().AddDate(0, 0, 7).Add(10*time.Hour), nil)
	m.enqueuer.On("Enqueue", mock.Anything, mock.Anything).Return(&asynq.TaskInfo{}, nil)

	result, err := svc.ConfirmPayment(context.Background(), "cs_123", "successful")

	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSuccessful, result.Status)
}

func TestConfirmPayment_FailedStatusSkipsNotificationAndReminder(t *testing.T) {
	svc, m := newTestService()

	m.payments.On("GetBySessionID", mock.Anything, "cs_123").Return(pendingPayment(), nil)
	m.payments.On("MarkStatusIfPending", mock.Anything, "cs_123", models.PaymentStatusFailed).Return(true, nil)
	m.repo.On("UpdatePaymentStatus", mock.Anything, "b1", models.BookingStatusFailed).Return(nil)

	result, err := svc.ConfirmPayment(context.Background(), "cs_123", "failed")

	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, result.Status)
	assert.False(t, result.AlreadyProcessed)
	m.notifier.AssertNotCalled(t, "SendBookingConfirmation", mock.Anything, mock.Anything)
	m.enqueuer.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
}
