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

var _ repositories.TicketRepository = (*TicketRepository)(nil)

// TicketRepository handles MongoDB operations for Ticket
type TicketRepository struct {
	collection *mongo.Collection
}

// NewTicketRepository creates a new TicketRepository
func NewTicketRepository(db *mongo.Database) *TicketRepository {
	return &TicketRepository{
		collection: db.Collection("tickets"),
	}
}

// Create inserts a new ticket
func (r *TicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	ticket.ID = primitive.NewObjectID()
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, ticket)
	return err
}

// FindByID finds a ticket by ID
func (r *TicketRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&ticket)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// FindByTicketID finds a ticket by its public code
func (r *TicketRepository) FindByTicketID(ctx context.Context, ticketID string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.collection.FindOne(ctx, bson.M{"ticketId": ticketID}).Decode(&ticket)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// FindByUser lists a player's tickets, newest first
func (r *TicketRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Ticket, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tickets []*models.Ticket
	if err := cursor.All(ctx, &tickets); err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []*models.Ticket{}
	}
	return tickets, nil
}

// FindPendingByGame lists the unsettled tickets of a game
func (r *TicketRepository) FindPendingByGame(ctx context.Context, gameID primitive.ObjectID) ([]*models.Ticket, error) {
	filter := bson.M{"gameId": gameID, "status": models.TicketStatusPending}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tickets []*models.Ticket
	if err := cursor.All(ctx, &tickets); err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []*models.Ticket{}
	}
	return tickets, nil
}

// CountByGameAndNumbers counts tickets of the game holding any of the
// requested numbers. Every status counts: refunded tickets do not free
// their numbers.
func (r *TicketRepository) CountByGameAndNumbers(ctx context.Context, gameID primitive.ObjectID, numbers []int) (int64, error) {
	filter := bson.M{
		"gameId":  gameID,
		"numbers": bson.M{"$in": numbers},
	}
	return r.collection.CountDocuments(ctx, filter)
}

// MarkSettled writes the settlement outcome of one ticket
func (r *TicketRepository) MarkSettled(ctx context.Context, id primitive.ObjectID, status models.TicketStatus, winAmount money.Amount, matchCount int, drawID primitive.ObjectID, checkedAt time.Time) error {
	d, err := winAmount.Decimal128()
	if err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{
		"status":     status,
		"winAmount":  d,
		"matchCount": matchCount,
		"drawId":     drawID,
		"checked":    true,
		"checkedAt":  checkedAt,
		"updatedAt":  time.Now(),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
