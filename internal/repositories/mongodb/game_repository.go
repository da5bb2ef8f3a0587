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

var _ repositories.GameRepository = (*GameRepository)(nil)

// GameRepository handles MongoDB operations for Game
type GameRepository struct {
	collection *mongo.Collection
}

// NewGameRepository creates a new GameRepository
func NewGameRepository(db *mongo.Database) *GameRepository {
	return &GameRepository{
		collection: db.Collection("games"),
	}
}

// Create inserts a new game
func (r *GameRepository) Create(ctx context.Context, game *models.Game) error {
	game.ID = primitive.NewObjectID()
	game.CreatedAt = time.Now()
	game.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, game)
	return err
}

// FindByID finds a game by ID
func (r *GameRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Game, error) {
	var game models.Game
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&game)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// FindBySlug finds a game by its URL slug
func (r *GameRepository) FindBySlug(ctx context.Context, slug string) (*models.Game, error) {
	var game models.Game
	err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&game)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// FindByStatus lists games in a given lifecycle state
func (r *GameRepository) FindByStatus(ctx context.Context, status models.GameStatus) ([]*models.Game, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"status": status}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var games []*models.Game
	if err := cursor.All(ctx, &games); err != nil {
		return nil, err
	}
	if games == nil {
		games = []*models.Game{}
	}
	return games, nil
}

// FindAll lists all games, newest first
func (r *GameRepository) FindAll(ctx context.Context) ([]*models.Game, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var games []*models.Game
	if err := cursor.All(ctx, &games); err != nil {
		return nil, err
	}
	if games == nil {
		games = []*models.Game{}
	}
	return games, nil
}

// Update updates a game
func (r *GameRepository) Update(ctx context.Context, game *models.Game) error {
	game.UpdatedAt = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": game.ID}, bson.M{"$set": game})
	return err
}

// TransitionStatus compare-and-sets the game status. Only a document
// still in the from state matches, so concurrent transitions cannot
// both succeed.
func (r *GameRepository) TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to models.GameStatus, publishedAt time.Time) error {
	set := bson.M{"status": to, "updatedAt": time.Now()}
	if !publishedAt.IsZero() {
		set["publishedAt"] = publishedAt
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "status": from}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNoMatch
	}
	return nil
}

// IncrementTicketsSold atomically bumps the monotone sales counter
func (r *GameRepository) IncrementTicketsSold(ctx context.Context, id primitive.ObjectID, n int) error {
	update := bson.M{
		"$inc": bson.M{"totalTicketsSold": n},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
