package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ashrafosamaa/gym-management-sys/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBranchRepository implements domain.BranchRepository
type MongoBranchRepository struct {
	collection *mongo.Collection
}

func NewMongoBranchRepository(db *mongo.Database) *MongoBranchRepository {
	return &MongoBranchRepository{
		collection: db.Collection("branches"),
	}
}

type branchDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Address     string             `bson:"address"`
	IsActive    bool               `bson:"is_active"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *branchDoc) toDomain() *domain.Branch {
	return &domain.Branch{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Address:     d.Address,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (r *MongoBranchRepository) Create(ctx context.Context, branch *domain.Branch) error {
	now := time.Now().UTC()
	doc := branchDoc{
		ID:          primitive.NewObjectID(),
		Name:        branch.Name,
		Description: branch.Description,
		Address:     branch.Address,
		IsActive:    branch.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create branch: %w", err)
	}
	branch.ID = doc.ID.Hex()
	branch.CreatedAt = now
	branch.UpdatedAt = now
	return nil
}

func (r *MongoBranchRepository) GetByID(ctx context.Context, id string) (*domain.Branch, error) {
	oid, err := objectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var doc branchDoc
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrBranchNotFound
		}
		return nil, fmt.Errorf("failed to get branch: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoBranchRepository) GetAll(ctx context.Context) ([]*domain.Branch, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []branchDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	branches := make([]*domain.Branch, 0, len(docs))
	for i := range docs {
		branches = append(branches, docs[i].toDomain())
	}
	return branches, nil
}

func (r *MongoBranchRepository) Update(ctx context.Context, branch *domain.Branch) error {
	oid, err := objectIDFromHex(branch.ID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"name":        branch.Name,
		"description": branch.Description,
		"address":     branch.Address,
		"is_active":   branch.IsActive,
		"updated_at":  now,
	}}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update branch: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBranchNotFound
	}
	branch.UpdatedAt = now
	return nil
}

func (r *MongoBranchRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectIDFromHex(id)
	if err != nil {
		return err
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete branch: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBranchNotFound
	}
	return nil
}
