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

// MongoTrainerRepository implements domain.TrainerRepository
type MongoTrainerRepository struct {
	collection *mongo.Collection
}

func NewMongoTrainerRepository(db *mongo.Database) *MongoTrainerRepository {
	return &MongoTrainerRepository{
		collection: db.Collection("trainers"),
	}
}

type trainerDoc struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty"`
	UserName       string              `bson:"user_name"`
	Description    string              `bson:"description"`
	Experience     int                 `bson:"experience"`
	BranchID       primitive.ObjectID  `bson:"branch_id"`
	PhoneNumber    string              `bson:"phone_number"`
	Gender         string              `bson:"gender"`
	Specialization string              `bson:"specialization"`
	PricePerMonth  float64             `bson:"price_per_month"`
	Rate           float64             `bson:"rate"`
	RateCount      int64               `bson:"rate_count"`
	IsActive       bool                `bson:"is_active"`
	IsFirstTime    bool                `bson:"is_first_time"`
	Password       string              `bson:"password,omitempty"`
	PasswordOneUse string              `bson:"password_one_use,omitempty"`
	ProfileImage   domain.ProfileImage `bson:"profile_image,omitempty"`
	CreatedAt      time.Time           `bson:"created_at"`
	UpdatedAt      time.Time           `bson:"updated_at"`
}

func (d *trainerDoc) toDomain() *domain.Trainer {
	return &domain.Trainer{
		ID:             d.ID.Hex(),
		UserName:       d.UserName,
		Description:    d.Description,
		Experience:     d.Experience,
		BranchID:       d.BranchID.Hex(),
		PhoneNumber:    d.PhoneNumber,
		Gender:         d.Gender,
		Specialization: d.Specialization,
		PricePerMonth:  d.PricePerMonth,
		Rate:           d.Rate,
		RateCount:      d.RateCount,
		IsActive:       d.IsActive,
		IsFirstTime:    d.IsFirstTime,
		Password:       d.Password,
		PasswordOneUse: d.PasswordOneUse,
		ProfileImage:   d.ProfileImage,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func trainerToDoc(t *domain.Trainer) (*trainerDoc, error) {
	branchID, err := objectIDFromHex(t.BranchID)
	if err != nil {
		return nil, err
	}
	doc := &trainerDoc{
		UserName:       t.UserName,
		Description:    t.Description,
		Experience:     t.Experience,
		BranchID:       branchID,
		PhoneNumber:    t.PhoneNumber,
		Gender:         t.Gender,
		Specialization: t.Specialization,
		PricePerMonth:  t.PricePerMonth,
		Rate:           t.Rate,
		RateCount:      t.RateCount,
		IsActive:       t.IsActive,
		IsFirstTime:    t.IsFirstTime,
		Password:       t.Password,
		PasswordOneUse: t.PasswordOneUse,
		ProfileImage:   t.ProfileImage,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	if t.ID != "" {
		oid, err := objectIDFromHex(t.ID)
		if err != nil {
			return nil, err
		}
		doc.ID = oid
	}
	return doc, nil
}

func (r *MongoTrainerRepository) Create(ctx context.Context, trainer *domain.Trainer) error {
	doc, err := trainerToDoc(trainer)
	if err != nil {
		return err
	}
	doc.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create trainer: %w", err)
	}
	trainer.ID = doc.ID.Hex()
	trainer.CreatedAt = now
	trainer.UpdatedAt = now
	return nil
}

func (r *MongoTrainerRepository) GetByID(ctx context.Context, id string) (*domain.Trainer, error) {
	oid, err := objectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoTrainerRepository) GetByUserName(ctx context.Context, userName string) (*domain.Trainer, error) {
	return r.findOne(ctx, bson.M{"user_name": userName})
}

func (r *MongoTrainerRepository) GetByPhone(ctx context.Context, phone string) (*domain.Trainer, error) {
	return r.findOne(ctx, bson.M{"phone_number": phone})
}

func (r *MongoTrainerRepository) findOne(ctx context.Context, filter bson.M) (*domain.Trainer, error) {
	var doc trainerDoc
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTrainerNotFound
		}
		return nil, fmt.Errorf("failed to get trainer: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoTrainerRepository) ListActive(ctx context.Context, opts domain.ListOptions) ([]*domain.Trainer, error) {
	return r.find(ctx, bson.M{"is_active": true}, findOptions(opts, bson.D{{Key: "user_name", Value: 1}}))
}

func (r *MongoTrainerRepository) ListActiveByBranch(ctx context.Context, branchID string) ([]*domain.Trainer, error) {
	bid, err := objectIDFromHex(branchID)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, bson.M{"branch_id": bid, "is_active": true}, options.Find().SetSort(bson.D{{Key: "user_name", Value: 1}}))
}

func (r *MongoTrainerRepository) Search(ctx context.Context, f domain.TrainerSearch) ([]*domain.Trainer, error) {
	filter := bson.M{}
	regexFilter(filter, "user_name", f.UserName)
	regexFilter(filter, "specialization", f.Specialization)
	regexFilter(filter, "phone_number", f.PhoneNumber)
	if f.Experience > 0 {
		filter["experience"] = f.Experience
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "user_name", Value: 1}}))
}

func (r *MongoTrainerRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Trainer, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list trainers: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []trainerDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	trainers := make([]*domain.Trainer, 0, len(docs))
	for i := range docs {
		trainers = append(trainers, docs[i].toDomain())
	}
	return trainers, nil
}

func (r *MongoTrainerRepository) Update(ctx context.Context, trainer *domain.Trainer) error {
	doc, err := trainerToDoc(trainer)
	if err != nil {
		return err
	}
	doc.UpdatedAt = time.Now().UTC()

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return fmt.Errorf("failed to update trainer: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTrainerNotFound
	}
	trainer.UpdatedAt = doc.UpdatedAt
	return nil
}

// ApplyRating folds one rating into the running average server-side with an
// aggregation-pipeline update. Two concurrent ratings on the same trainer each
// see the other's committed rate/rate_count, never a stale read.
func (r *MongoTrainerRepository) ApplyRating(ctx context.Context, id string, rate float64) error {
	oid, err := objectIDFromHex(id)
	if err != nil {
		return err
	}

	update := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "rate", Value: bson.D{{Key: "$divide", Value: bson.A{
				bson.D{{Key: "$add", Value: bson.A{
					bson.D{{Key: "$multiply", Value: bson.A{"$rate", "$rate_count"}}},
					rate,
				}}},
				bson.D{{Key: "$add", Value: bson.A{"$rate_count", 1}}},
			}}}},
			{Key: "rate_count", Value: bson.D{{Key: "$add", Value: bson.A{"$rate_count", 1}}}},
			{Key: "updated_at", Value: "$$NOW"},
		}}},
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to apply rating: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTrainerNotFound
	}
	return nil
}

func (r *MongoTrainerRepository) DeactivateByBranch(ctx context.Context, branchID string) (int64, error) {
	bid, err := objectIDFromHex(branchID)
	if err != nil {
		return 0, err
	}

	res, err := r.collection.UpdateMany(ctx, bson.M{"branch_id": bid}, bson.M{
		"$set": bson.M{"is_active": false, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate trainers: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *MongoTrainerRepository) DeleteByBranch(ctx context.Context, branchID string) error {
	bid, err := objectIDFromHex(branchID)
	if err != nil {
		return err
	}
	if _, err := r.collection.DeleteMany(ctx, bson.M{"branch_id": bid}); err != nil {
		return fmt.Errorf("failed to delete trainers for branch: %w", err)
	}
	return nil
}

func (r *MongoTrainerRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectIDFromHex(id)
	if err != nil {
		return err
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete trainer: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTrainerNotFound
	}
	return nil
}
