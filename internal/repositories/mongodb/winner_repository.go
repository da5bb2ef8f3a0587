package mongodb

import (
	"context"
	"time"

	"github.com/winningticket/lottery-backend/internal/models"
	"github.com/winningticket/lottery-backend/internal/repositories"
	"github.com/winningticket/lottery-backend/pkg/money"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repositories.WinnerRepository = (*WinnerRepository)(nil)

// WinnerRepository handles MongoDB operations for Winner
type WinnerRepository struct {
	collection *mongo.Collection
}

// NewWinnerRepository creates a new WinnerRepository
func NewWinnerRepository(db *mongo.Database) *WinnerRepository {
	return &WinnerRepository{
		collection: db.Collection("winners"),
	}
}

// Create inserts a new winner record. The unique index on ticketId
// enforces at most one win per ticket.
func (r *WinnerRepository) Create(ctx context.Context, winner *models.Winner) error {
	winner.ID = primitive.NewObjectID()
	winner.CreatedAt = time.Now()
	winner.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, winner)
	return err
}

// FindByID finds a winner by ID
func (r *WinnerRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Winner, error) {
	var winner models.Winner
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&winner)
	if err != nil {
		return nil, err
	}
	return &winner, nil
}

// FindByTicketID finds the winner record of a ticket, if any
func (r *WinnerRepository) FindByTicketID(ctx context.Context, ticketID primitive.ObjectID) (*models.Winner, error) {
	var winner models.Winner
	err := r.collection.FindOne(ctx, bson.M{"ticketId": ticketID}).Decode(&winner)
	if err != nil {
		return nil, err
	}
	return &winner, nil
}

// FindByDrawID lists the winners of a draw, largest prize first
func (r *WinnerRepository) FindByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.Winner, error) {
	opts := options.Find().SetSort(bson.M{"prizeAmount": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"drawId": drawID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var winners []*models.Winner
	if err := cursor.All(ctx, &winners); err != nil {
		return nil, err
	}
	if winners == nil {
		winners = []*models.Winner{}
	}
	return winners, nil
}

// FindByUserID lists a user's winner records
func (r *WinnerRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Winner, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var winners []*models.Winner
	if err := cursor.All(ctx, &winners); err != nil {
		return nil, err
	}
	if winners == nil {
		winners = []*models.Winner{}
	}
	return winners, nil
}

// MarkClaimed flips the claimed flag exactly once. The filter admits
// only an unclaimed winner, so two racing claims resolve to one winner
// and one repositories.ErrNoMatch.
func (r *WinnerRepository) MarkClaimed(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	filter := bson.M{"_id": id, "claimed": false}
	update := bson.M{
		"$set": bson.M{
			"claimed":   true,
			"claimedAt": at,
			"updatedAt": time.Now(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNoMatch
	}
	return nil
}

// MarkPaid records the payout details and flips the paid flag exactly
// once. The filter admits only a claimed, unpaid winner.
func (r *WinnerRepository) MarkPaid(ctx context.Context, id primitive.ObjectID, taxWithheld money.Amount, method, reference string, at time.Time) error {
	tax, err := taxWithheld.Decimal128()
	if err != nil {
		return err
	}
	filter := bson.M{"_id": id, "claimed": true, "paid": false}
	update := bson.M{
		"$set": bson.M{
			"paid":            true,
			"paidAt":          at,
			"taxWithheld":     tax,
			"payoutMethod":    method,
			"payoutReference": reference,
			"updatedAt":       time.Now(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNoMatch
	}
	return nil
}
