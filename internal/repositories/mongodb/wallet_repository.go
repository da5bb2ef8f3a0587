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

// Compile-time check to ensure WalletRepository implements the interface
var _ repositories.WalletRepository = (*WalletRepository)(nil)

// WalletRepository handles MongoDB operations for Wallet
type WalletRepository struct {
	collection *mongo.Collection
}

// NewWalletRepository creates a new WalletRepository
func NewWalletRepository(db *mongo.Database) *WalletRepository {
	return &WalletRepository{
		collection: db.Collection("wallets"),
	}
}

// EnsureWallet returns the (user, type) wallet, creating it with a zero
// balance when it does not exist yet. The unique index on
// (userId, walletType) makes concurrent first access safe: the insert
// loser gets a duplicate-key error and re-reads the winner's document.
func (r *WalletRepository) EnsureWallet(ctx context.Context, userID primitive.ObjectID, walletType models.WalletType) (*models.Wallet, error) {
	filter := bson.M{"userId": userID, "walletType": walletType}

	var wallet models.Wallet
	err := r.collection.FindOne(ctx, filter).Decode(&wallet)
	if err == nil {
		return &wallet, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	fresh := &models.Wallet{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		WalletType: walletType,
		Balance:    money.Zero(),
		IsActive:   true,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	_, err = r.collection.InsertOne(ctx, fresh)
	if err == nil {
		return fresh, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return nil, err
	}

	// Lost the creation race; the other writer's wallet is authoritative.
	err = r.collection.FindOne(ctx, filter).Decode(&wallet)
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// FindByUserAndType finds one wallet by owner and purpose
func (r *WalletRepository) FindByUserAndType(ctx context.Context, userID primitive.ObjectID, walletType models.WalletType) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.collection.FindOne(ctx, bson.M{"userId": userID, "walletType": walletType}).Decode(&wallet)
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// FindByUser lists all wallets of a user
func (r *WalletRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Wallet, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var wallets []*models.Wallet
	if err := cursor.All(ctx, &wallets); err != nil {
		return nil, err
	}
	if wallets == nil {
		wallets = []*models.Wallet{}
	}
	return wallets, nil
}

// Debit decreases the balance with a conditional atomic update. The
// filter admits only an active wallet whose balance covers the amount,
// so a concurrent debit can never overdraw.
func (r *WalletRepository) Debit(ctx context.Context, userID primitive.ObjectID, walletType models.WalletType, amount money.Amount) error {
	d, err := amount.Decimal128()
	if err != nil {
		return err
	}
	neg, err := amount.Neg().Decimal128()
	if err != nil {
		return err
	}
	filter := bson.M{
		"userId":     userID,
		"walletType": walletType,
		"isActive":   true,
		"balance":    bson.M{"$gte": d},
	}
	update := bson.M{
		"$inc": bson.M{"balance": neg},
		"$set": bson.M{"updatedAt": time.Now()},
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

// Credit increases the balance of an active wallet atomically
func (r *WalletRepository) Credit(ctx context.Context, userID primitive.ObjectID, walletType models.WalletType, amount money.Amount) error {
	d, err := amount.Decimal128()
	if err != nil {
		return err
	}
	filter := bson.M{"userId": userID, "walletType": walletType, "isActive": true}
	update := bson.M{
		"$inc": bson.M{"balance": d},
		"$set": bson.M{"updatedAt": time.Now()},
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
