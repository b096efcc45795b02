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

// MongoAdminRepository implements domain.AdminRepository
type MongoAdminRepository struct {
	collection *mongo.Collection
}

func NewMongoAdminRepository(db *mongo.Database) *MongoAdminRepository {
	return &MongoAdminRepository{
		collection: db.Collection("admins"),
	}
}

type adminDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Password  string             `bson:"password"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *adminDoc) toDomain() *domain.Admin {
	return &domain.Admin{
		ID:        d.ID.Hex(),
		Username:  d.Username,
		Password:  d.Password,
		Role:      d.Role,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (r *MongoAdminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	now := time.Now().UTC()
	doc := adminDoc{
		ID:        primitive.NewObjectID(),
		Username:  admin.Username,
		Password:  admin.Password,
		Role:      admin.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	admin.ID = doc.ID.Hex()
	admin.CreatedAt = now
	admin.UpdatedAt = now
	return nil
}

func (r *MongoAdminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	oid, err := objectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoAdminRepository) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoAdminRepository) findOne(ctx context.Context, filter bson.M) (*domain.Admin, error) {
	var doc adminDoc
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoAdminRepository) GetAll(ctx context.Context) ([]*domain.Admin, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "username", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []adminDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	admins := make([]*domain.Admin, 0, len(docs))
	for i := range docs {
		admins = append(admins, docs[i].toDomain())
	}
	return admins, nil
}

func (r *MongoAdminRepository) UpdatePassword(ctx context.Context, id, hashedPassword string) error {
	oid, err := objectIDFromHex(id)
	if err != nil {
		return err
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"password": hashedPassword, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("failed to update admin password: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAdminNotFound
	}
	return nil
}

func (r *MongoAdminRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectIDFromHex(id)
	if err != nil {
		return err
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete admin: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAdminNotFound
	}
	return nil
}
