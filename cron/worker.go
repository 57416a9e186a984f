package cron

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"

	"kiings/config"
	bookingRepo "kiings/database/repository/booking"
	paymentRepo "kiings/database/repository/payment"
	"kiings/models"
	"kiings/services/notification"
	"kiings/services/tasks"
)

// InitWorker runs the async worker in background. It handles appointment
// reminders and orphan-booking cleanup.
func InitWorker(notifSvc notification.NotificationService, bookings bookingRepo.BookingRepository, payments paymentRepo.PaymentRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(notifSvc))
	mux.HandleFunc(tasks.TypeReapOrphan, handleReapOrphanTask(bookings, payments))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[Worker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[Worker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[Worker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] Invalid payload: %v", err)
			return err
		}

		log.Printf("[ReminderHandler] Sending reminder for booking %s (%s %s)", p.BookingID, p.Date, p.Time)

		if err := notifSvc.SendBookingReminder(ctx, p); err != nil {
			log.Printf("[ReminderHandler] Failed to send reminder: %v", err)
			return err
		}
		return nil
	}
}

// handleReapOrphanTask deletes a Pending booking that never got a payment
// record. If a payment appeared since the task was enqueued, the booking is
// no longer an orphan and is left alone.
func handleReapOrphanTask(bookings bookingRepo.BookingRepository, payments paymentRepo.PaymentRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReapOrphanPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[OrphanReaper] Invalid payload: %v", err)
			return err
		}

		if _, err := payments.GetByBookingID(ctx, p.BookingID); err == nil {
			log.Printf("[OrphanReaper] Booking %s has a payment now, skipping", p.BookingID)
			return nil
		} else if !errors.Is(err, paymentRepo.ErrNotFound) {
			return err
		}

		b, err := bookings.GetByID(ctx, p.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrNotFound) {
				return nil
			}
			return err
		}
		if b.PaymentStatus != models.BookingStatusPending {
			return nil
		}

		log.Printf("[OrphanReaper] Deleting orphan booking %s (%s %s)", p.BookingID, b.Date, b.Time)
		if err := bookings.Delete(ctx, p.BookingID); err != nil && !errors.Is(err, bookingRepo.ErrNotFound) {
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[Worker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
