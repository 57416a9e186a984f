package paymentRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"kiings/database"
	"kiings/models"
)

const paymentCollection = "payments"

// MongoPaymentRepo is the MongoDB implementation of PaymentRepository.
type MongoPaymentRepo struct {
	coll *mongo.Collection
}

// NewMongoPaymentRepo returns a repository backed by the payments collection.
func NewMongoPaymentRepo() *MongoPaymentRepo {
	return &MongoPaymentRepo{coll: database.Collection(paymentCollection)}
}

// EnsureIndexes creates the unique indexes for payment lookups. The session
// id index guarantees one payment per checkout session.
func (repo *MongoPaymentRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "session_id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_session_id")},
		{Keys: bson.D{{Key: "booking_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create payment indexes: %w", err)
	}
	return nil
}

// Create inserts a new payment document.
func (repo *MongoPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, payment); err != nil {
		return fmt.Errorf("error creating payment: %w", err)
	}
	return nil
}

// GetBySessionID retrieves a payment by its gateway session identifier.
func (repo *MongoPaymentRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var payment models.Payment
	err := repo.coll.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&payment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching payment for session %s: %w", sessionID, err)
	}
	return &payment, nil
}

// GetByBookingID retrieves the payment linked to a booking.
func (repo *MongoPaymentRepo) GetByBookingID(ctx context.Context, bookingID string) (*models.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var payment models.Payment
	err := repo.coll.FindOne(ctx, bson.M{"booking_id": bookingID}).Decode(&payment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching payment for booking %s: %w", bookingID, err)
	}
	return &payment, nil
}

// MarkStatusIfPending performs a conditional update keyed on the current
// status. Two concurrent callback deliveries for the same session cannot
// both succeed: the filter only matches while the payment is pending.
func (repo *MongoPaymentRepo) MarkStatusIfPending(ctx context.Context, sessionID, status string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"session_id": sessionID, "status": models.PaymentStatusPending}
	update := bson.M{"$set": bson.M{"status": status}}
	res, err := repo.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("error updating payment for session %s: %w", sessionID, err)
	}
	return res.ModifiedCount == 1, nil
}

// DeleteByBookingID removes the payment linked to a booking. Missing
// payments are not an error; orphan bookings have none.
func (repo *MongoPaymentRepo) DeleteByBookingID(ctx context.Context, bookingID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.DeleteOne(ctx, bson.M{"booking_id": bookingID}); err != nil {
		return fmt.Errorf("error deleting payment for booking %s: %w", bookingID, err)
	}
	return nil
}
