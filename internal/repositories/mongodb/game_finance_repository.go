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
)

var _ repositories.GameFinanceRepository = (*GameFinanceRepository)(nil)

// GameFinanceRepository handles MongoDB operations for GameFinance
type GameFinanceRepository struct {
	collection *mongo.Collection
}

// NewGameFinanceRepository creates a new GameFinanceRepository
func NewGameFinanceRepository(db *mongo.Database) *GameFinanceRepository {
	return &GameFinanceRepository{
		collection: db.Collection("game_finances"),
	}
}

// Create inserts the finance record for a game. The unique index on
// gameId keeps it one per game.
func (r *GameFinanceRepository) Create(ctx context.Context, finance *models.GameFinance) error {
	finance.ID = primitive.NewObjectID()
	finance.CreatedAt = time.Now()
	finance.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, finance)
	return err
}

// FindByGame finds the finance record of a game
func (r *GameFinanceRepository) FindByGame(ctx context.Context, gameID primitive.ObjectID) (*models.GameFinance, error) {
	var finance models.GameFinance
	err := r.collection.FindOne(ctx, bson.M{"gameId": gameID}).Decode(&finance)
	if err != nil {
		return nil, err
	}
	return &finance, nil
}

// ApplySale folds one ticket sale into the running aggregates. The
// increments run server side so concurrent sales never lose updates.
func (r *GameFinanceRepository) ApplySale(ctx context.Context, gameID primitive.ObjectID, sale, fee, profit money.Amount, at time.Time) error {
	saleD, err := sale.Decimal128()
	if err != nil {
		return err
	}
	feeD, err := fee.Decimal128()
	if err != nil {
		return err
	}
	profitD, err := profit.Decimal128()
	if err != nil {
		return err
	}
	update := bson.M{
		"$inc": bson.M{
			"totalSales":        saleD,
			"totalTickets":      1,
			"platformFeeAmount": feeD,
			"organizerProfit":   profitD,
		},
		"$set": bson.M{
			"lastSaleAt": at,
			"updatedAt":  time.Now(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"gameId": gameID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNoMatch
	}
	return nil
}

// ApplyPrizePayout moves prize money from remaining to paid out
func (r *GameFinanceRepository) ApplyPrizePayout(ctx context.Context, gameID primitive.ObjectID, amount money.Amount) error {
	paid, err := amount.Decimal128()
	if err != nil {
		return err
	}
	remaining, err := amount.Neg().Decimal128()
	if err != nil {
		return err
	}
	update := bson.M{
		"$inc": bson.M{
			"prizePaidOut":   paid,
			"prizeRemaining": remaining,
		},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"gameId": gameID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNoMatch
	}
	return nil
}

// SetPrizePaid flips the prize settlement flag exactly once
func (r *GameFinanceRepository) SetPrizePaid(ctx context.Context, gameID primitive.ObjectID, pool money.Amount, at time.Time) error {
	poolD, err := pool.Decimal128()
	if err != nil {
		return err
	}
	filter := bson.M{"gameId": gameID, "prizePaid": false}
	update := bson.M{"$set": bson.M{
		"prizePaid":      true,
		"totalPrizePool": poolD,
		"prizeSettledAt": at,
		"updatedAt":      time.Now(),
	}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNoMatch
	}
	return nil
}

// SetFeesSettled flips the fee settlement flag exactly once
func (r *GameFinanceRepository) SetFeesSettled(ctx context.Context, gameID primitive.ObjectID) error {
	filter := bson.M{"gameId": gameID, "feesSettled": false}
	update := bson.M{"$set": bson.M{
		"feesSettled": true,
		"updatedAt":   time.Now(),
	}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNoMatch
	}
	return nil
}

// SetProfitPaid flips the profit payout flag exactly once
func (r *GameFinanceRepository) SetProfitPaid(ctx context.Context, gameID primitive.ObjectID, at time.Time) error {
	filter := bson.M{"gameId": gameID, "profitPaid": false}
	update := bson.M{"$set": bson.M{
		"profitPaid":   true,
		"profitPaidAt": at,
		"updatedAt":    time.Now(),
	}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNoMatch
	}
	return nil
}

// SetSettled marks the record fully settled. It only matches once all
// three settlement legs have completed, so a premature call is a no-op
// reported as ErrNoMatch.
func (r *GameFinanceRepository) SetSettled(ctx context.Context, gameID primitive.ObjectID, at time.Time) error {
	filter := bson.M{
		"gameId":      gameID,
		"prizePaid":   true,
		"feesSettled": true,
		"profitPaid":  true,
		"settled":     false,
	}
	update := bson.M{"$set": bson.M{
		"settled":   true,
		"settledAt": at,
		"updatedAt": time.Now(),
	}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNoMatch
	}
	return nil
}

// Replace overwrites the whole finance record. Used by reconciliation,
// which recomputes every aggregate from payment history.
func (r *GameFinanceRepository) Replace(ctx context.Context, finance *models.GameFinance) error {
	finance.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"gameId": finance.GameID}, finance)
	return err
}
