package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/winningticket/lottery-backend/internal/models"
	"github.com/winningticket/lottery-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repositories.DrawRepository = (*DrawRepository)(nil)

// DrawRepository handles MongoDB operations for Draw
type DrawRepository struct {
	collection *mongo.Collection
}

// NewDrawRepository creates a new DrawRepository
func NewDrawRepository(db *mongo.Database) *DrawRepository {
	return &DrawRepository{
		collection: db.Collection("draws"),
	}
}

// Create inserts a new draw
func (r *DrawRepository) Create(ctx context.Context, draw *models.Draw) error {
	draw.ID = primitive.NewObjectID()
	draw.CreatedAt = time.Now()
	draw.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, draw)
	return err
}

// FindByID finds a draw by ID
func (r *DrawRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Draw, error) {
	var draw models.Draw
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&draw)
	if err != nil {
		return nil, err
	}
	return &draw, nil
}

// FindByGame lists the draws of a game, latest first
func (r *DrawRepository) FindByGame(ctx context.Context, gameID primitive.ObjectID) ([]*models.Draw, error) {
	opts := options.Find().SetSort(bson.M{"drawNumber": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"gameId": gameID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var draws []*models.Draw
	if err := cursor.All(ctx, &draws); err != nil {
		return nil, err
	}
	if draws == nil {
		draws = []*models.Draw{}
	}
	return draws, nil
}

// FindLatestByGame finds the highest-numbered draw of a game
func (r *DrawRepository) FindLatestByGame(ctx context.Context, gameID primitive.ObjectID) (*models.Draw, error) {
	opts := options.FindOne().SetSort(bson.M{"drawNumber": -1})
	var draw models.Draw
	err := r.collection.FindOne(ctx, bson.M{"gameId": gameID}, opts).Decode(&draw)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &draw, nil
}

// NextDrawNumber returns 1 + the highest draw number for the game
func (r *DrawRepository) NextDrawNumber(ctx context.Context, gameID primitive.ObjectID) (int, error) {
	latest, err := r.FindLatestByGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 1, nil
		}
		return 0, err
	}
	return latest.DrawNumber + 1, nil
}

// Update updates a draw
func (r *DrawRepository) Update(ctx context.Context, draw *models.Draw) error {
	draw.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": draw.ID}, draw)
	return err
}
