package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"kiings/models"
)

// EmailNotificationService sends booking emails over SMTP.
type EmailNotificationService struct {
	Host       string
	Port       int
	Username   string
	Password   string
	OwnerEmail string
	Logger     *zap.Logger
}

// NewEmailNotificationService wires an SMTP-backed notifier.
func NewEmailNotificationService(host string, port int, username, password, ownerEmail string, logger *zap.Logger) *EmailNotificationService {
	return &EmailNotificationService{
		Host:       host,
		Port:       port,
		Username:   username,
		Password:   password,
		OwnerEmail: ownerEmail,
		Logger:     logger,
	}
}

// SendBookingConfirmation emails the owner and the customer. Both messages
// are sent in one dial; a failure on either fails the whole send, which the
// caller only logs.
func (s *EmailNotificationService) SendBookingConfirmation(ctx context.Context, b *models.Booking) error {
	ownerMsg := gomail.NewMessage()
	ownerMsg.SetHeader("From", s.Username)
	ownerMsg.SetHeader("To", s.OwnerEmail)
	ownerMsg.SetHeader("Subject", "New Car Wash Booking")
	ownerMsg.SetBody("text/html", fmt.Sprintf(
		`<h2>New Booking Received</h2>
<p><strong>Name:</strong> %s %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Car Model:</strong> %s</p>
<p><strong>Wash Type:</strong> %s</p>
<p><strong>Date:</strong> %s</p>
<p><strong>Time:</strong> %s</p>
<p><strong>Total Price:</strong> R%.2f</p>`,
		b.FirstName, b.LastName, b.Email, b.CarModel, b.WashType.Name, b.Date, b.Time, b.TotalPrice))

	customerMsg := gomail.NewMessage()
	customerMsg.SetHeader("From", s.Username)
	customerMsg.SetHeader("To", b.Email)
	customerMsg.SetHeader("Subject", "Booking Confirmation - Kiings Car Wash")
	customerMsg.SetBody("text/html", fmt.Sprintf(
		`<h2>Booking Confirmed</h2>
<p>Dear %s,</p>
<p>Your car wash appointment has been confirmed.</p>
<p><strong>Car Model:</strong> %s</p>
<p><strong>Wash Type:</strong> %s</p>
<p><strong>Date:</strong> %s</p>
<p><strong>Time:</strong> %s</p>
<p><strong>Total Price:</strong> R%.2f</p>
<p>Thank you for choosing Kiings Car Wash!</p>`,
		b.FirstName, b.CarModel, b.WashType.Name, b.Date, b.Time, b.TotalPrice))

	d := gomail.NewDialer(s.Host, s.Port, s.Username, s.Password)
	if err := d.DialAndSend(ownerMsg, customerMsg); err != nil {
		return fmt.Errorf("sending booking confirmation emails: %w", err)
	}

	s.Logger.Info("booking confirmation emails sent",
		zap.String("bookingId", b.ID), zap.String("customer", b.Email))
	return nil
}

// SendBookingReminder emails the customer ahead of their appointment.
func (s *EmailNotificationService) SendBookingReminder(ctx context.Context, p models.ReminderPayload) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.Username)
	msg.SetHeader("To", p.Email)
	msg.SetHeader("Subject", "Appointment Reminder - Kiings Car Wash")
	msg.SetBody("text/html", fmt.Sprintf(
		`<h2>Appointment Reminder</h2>
<p>Dear %s,</p>
<p>This is a reminder of your upcoming car wash appointment.</p>
<p><strong>Car Model:</strong> %s</p>
<p><strong>Wash Type:</strong> %s</p>
<p><strong>Date:</strong> %s</p>
<p><strong>Time:</strong> %s</p>
<p>See you soon!</p>`,
		p.FirstName, p.CarModel, p.WashType, p.Date, p.Time))

	d := gomail.NewDialer(s.Host, s.Port, s.Username, s.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending booking reminder email: %w", err)
	}

	s.Logger.Info("booking reminder email sent",
		zap.String("bookingId", p.BookingID), zap.String("customer", p.Email))
	return nil
}

// LogNotificationService writes notifications to the log instead of SMTP.
// Used in development when no SMTP host is configured.
type LogNotificationService struct {
	Logger *zap.Logger
}

func (s *LogNotificationService) SendBookingConfirmation(_ context.Context, b *models.Booking) error {
	s.Logger.Info("[DEV-EMAIL] booking confirmation",
		zap.String("bookingId", b.ID), zap.String("customer", b.Email),
		zap.String("date", b.Date), zap.String("time", b.Time))
	return nil
}

func (s *LogNotificationService) SendBookingReminder(_ context.Context, p models.ReminderPayload) error {
	s.Logger.Info("[DEV-EMAIL] booking reminder",
		zap.String("bookingId", p.BookingID), zap.String("customer", p.Email),
		zap.String("date", p.Date), zap.String("time", p.Time))
	return nil
}
