package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"

	"kiings/config"
	"kiings/cron"
	"kiings/database"
	bookingRepo "kiings/database/repository/booking"
	paymentRepo "kiings/database/repository/payment"
	"kiings/handlers"
	"kiings/middleware"
	"kiings/routes"
	"kiings/services/booking"
	"kiings/services/notification"
	"kiings/services/payment"
	"kiings/services/scheduler"
	"kiings/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	stripe.Key = config.AppConfig.StripeKey

	// Repositories.
	bookings := bookingRepo.NewMongoBookingRepo()
	payments := paymentRepo.NewMongoPaymentRepo()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := bookings.EnsureIndexes(ctx); err != nil {
		logger.Sugar().Fatalf("main: failed to create booking indexes: %v", err)
	}
	if err := payments.EnsureIndexes(ctx); err != nil {
		logger.Sugar().Fatalf("main: failed to create payment indexes: %v", err)
	}
	cancel()

	// Scheduler: slot calendar + availability resolver.
	slotCfg := scheduler.Config{
		OpenHour:    config.AppConfig.OpenHour,
		CloseHour:   config.AppConfig.CloseHour,
		Interval:    time.Duration(config.AppConfig.SlotIntervalMin) * time.Minute,
		MinGap:      time.Duration(config.AppConfig.MinGapMin) * time.Minute,
		LabelLayout: config.AppConfig.SlotLabelLayout,
	}
	availability := scheduler.NewAvailability(scheduler.NewCalendar(slotCfg), bookings, utils.GetCacheClient(), logger)

	// Collaborators.
	gateway := payment.NewStripeGateway(
		config.AppConfig.Currency,
		config.AppConfig.PaymentSuccessURL,
		config.AppConfig.PaymentCancelURL,
	)

	var notifier notification.NotificationService
	if config.AppConfig.SMTPHost != "" {
		notifier = notification.NewEmailNotificationService(
			config.AppConfig.SMTPHost,
			config.AppConfig.SMTPPort,
			config.AppConfig.SMTPUser,
			config.AppConfig.SMTPPass,
			config.AppConfig.OwnerEmail,
			logger,
		)
	} else {
		logger.Warn("main: no SMTP host configured, emails will only be logged")
		notifier = &notification.LogNotificationService{Logger: logger}
	}

	taskClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer taskClient.Close()

	// Booking lifecycle service.
	bookingService := &booking.DefaultBookingService{
		Repo:         bookings,
		Payments:     payments,
		Gateway:      gateway,
		Availability: availability,
		Notifier:     notifier,
		Tasks:        taskClient,
		CancelCutoff: time.Duration(config.AppConfig.CancelCutoffMin) * time.Minute,
		ReminderLead: time.Duration(config.AppConfig.ReminderLeadHours) * time.Hour,
		OrphanTTL:    time.Duration(config.AppConfig.OrphanTTLMin) * time.Minute,
		Logger:       logger,
	}

	// Background worker: reminders + orphan cleanup.
	cron.InitWorker(notifier, bookings, payments)
	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	handlerBundle := &routes.HandlerBundle{
		Availability: handlers.NewAvailabilityHandler(availability, logger),
		Booking:      handlers.NewBookingHandler(bookingService, logger),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
