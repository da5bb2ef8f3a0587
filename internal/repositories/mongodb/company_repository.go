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

var _ repositories.CompanyRepository = (*CompanyRepository)(nil)

// CompanyRepository handles MongoDB operations for Company
type CompanyRepository struct {
	collection *mongo.Collection
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(db *mongo.Database) *CompanyRepository {
	return &CompanyRepository{
		collection: db.Collection("companies"),
	}
}

// Create inserts a new company
func (r *CompanyRepository) Create(ctx context.Context, company *models.Company) error {
	company.ID = primitive.NewObjectID()
	company.CreatedAt = time.Now()
	company.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, company)
	return err
}

// FindByID finds a company by ID
func (r *CompanyRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Company, error) {
	var company models.Company
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&company)
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// FindAll lists all companies, newest first
func (r *CompanyRepository) FindAll(ctx context.Context) ([]*models.Company, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var companies []*models.Company
	if err := cursor.All(ctx, &companies); err != nil {
		return nil, err
	}
	if companies == nil {
		companies = []*models.Company{}
	}
	return companies, nil
}

// Update updates a company
func (r *CompanyRepository) Update(ctx context.Context, company *models.Company) error {
	company.UpdatedAt = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": company.ID}, bson.M{"$set": company})
	return err
}
