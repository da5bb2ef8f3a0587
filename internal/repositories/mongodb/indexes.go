package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the repositories rely on for
// correctness. Safe to call on every startup, index creation is
// idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	indexes := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		"wallets": {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "walletType", Value: 1}}, Options: unique},
		},
		"companies": {
			{Keys: bson.D{{Key: "registrationNumber", Value: 1}}, Options: unique},
		},
		"games": {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		"tickets": {
			{Keys: bson.D{{Key: "ticketId", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "gameId", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}}},
		},
		"draws": {
			{Keys: bson.D{{Key: "gameId", Value: 1}, {Key: "drawNumber", Value: 1}}, Options: unique},
		},
		"winners": {
			{Keys: bson.D{{Key: "ticketId", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "drawId", Value: 1}}},
		},
		"game_finances": {
			{Keys: bson.D{{Key: "gameId", Value: 1}}, Options: unique},
		},
		"payments": {
			{Keys: bson.D{{Key: "transactionId", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "gameId", Value: 1}, {Key: "paymentType", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}
