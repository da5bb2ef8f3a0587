package mongodb

import (
	"context"
	"time"

	"github.com/winningticket/lottery-backend/internal/models"
	"github.com/winningticket/lottery-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repositories.PaymentRepository = (*PaymentRepository)(nil)

// PaymentRepository handles MongoDB operations for Payment
type PaymentRepository struct {
	collection *mongo.Collection
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{
		collection: db.Collection("payments"),
	}
}

// Create inserts a new payment record
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	payment.ID = primitive.NewObjectID()
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, payment)
	return err
}

// FindByTransactionID finds a payment by its public transaction ID
func (r *PaymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.collection.FindOne(ctx, bson.M{"transactionId": transactionID}).Decode(&payment)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// FindByUser lists a user's payments, newest first
func (r *PaymentRepository) FindByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]*models.Payment, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var payments []*models.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []*models.Payment{}
	}
	return payments, nil
}

// FindCompletedByGameAndType lists the completed payments of a game for
// one payment type. Reconciliation replays these to rebuild aggregates.
func (r *PaymentRepository) FindCompletedByGameAndType(ctx context.Context, gameID primitive.ObjectID, paymentType models.PaymentType) ([]*models.Payment, error) {
	filter := bson.M{
		"gameId":      gameID,
		"paymentType": paymentType,
		"status":      models.PaymentStatusCompleted,
	}
	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var payments []*models.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []*models.Payment{}
	}
	return payments, nil
}

// UpdateStatus moves a payment to a new status, stamping completedAt
// for terminal successful transitions
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus) error {
	set := bson.M{
		"status":    status,
		"updatedAt": time.Now(),
	}
	if status == models.PaymentStatusCompleted {
		set["completedAt"] = time.Now()
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNoMatch
	}
	return nil
}
