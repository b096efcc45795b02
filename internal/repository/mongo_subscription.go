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

// MongoSubscriptionRepository implements domain.SubscriptionRepository
type MongoSubscriptionRepository struct {
	collection *mongo.Collection
}

func NewMongoSubscriptionRepository(db *mongo.Database) *MongoSubscriptionRepository {
	return &MongoSubscriptionRepository{
		collection: db.Collection("subscriptions"),
	}
}

type subscriptionDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Duration  int                `bson:"duration"`
	Price     float64            `bson:"price"`
	StartDate time.Time          `bson:"start_date"`
	EndDate   time.Time          `bson:"end_date"`
	UserID    primitive.ObjectID `bson:"user_id"`
	TrainerID primitive.ObjectID `bson:"trainer_id"`
	BranchID  primitive.ObjectID `bson:"branch_id"`
	IsActive  bool               `bson:"is_active"`
	IsPaid    bool               `bson:"is_paid"`
	Comment   string             `bson:"comment"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *subscriptionDoc) toDomain() *domain.Subscription {
	return &domain.Subscription{
		ID:        d.ID.Hex(),
		Duration:  d.Duration,
		Price:     d.Price,
		StartDate: d.StartDate,
		EndDate:   d.EndDate,
		UserID:    d.UserID.Hex(),
		TrainerID: d.TrainerID.Hex(),
		BranchID:  d.BranchID.Hex(),
		IsActive:  d.IsActive,
		IsPaid:    d.IsPaid,
		Comment:   d.Comment,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (r *MongoSubscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	userID, err := objectIDFromHex(sub.UserID)
	if err != nil {
		return err
	}
	trainerID, err := objectIDFromHex(sub.TrainerID)
	if err != nil {
		return err
	}
	branchID, err := objectIDFromHex(sub.BranchID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	doc := subscriptionDoc{
		ID:        primitive.NewObjectID(),
		Duration:  sub.Duration,
		Price:     sub.Price,
		StartDate: sub.StartDate,
		EndDate:   sub.EndDate,
		UserID:    userID,
		TrainerID: trainerID,
		BranchID:  branchID,
		IsActive:  sub.IsActive,
		IsPaid:    sub.IsPaid,
		Comment:   sub.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	sub.ID = doc.ID.Hex()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	return nil
}

func subscriptionFilter(id, userID string) (bson.M, error) {
	oid, err := objectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"_id": oid}
	if userID != "" {
		uid, err := objectIDFromHex(userID)
		if err != nil {
			return nil, err
		}
		filter["user_id"] = uid
	}
	return filter, nil
}

func (r *MongoSubscriptionRepository) GetByID(ctx context.Context, id, userID string) (*domain.Subscription, error) {
	filter, err := subscriptionFilter(id, userID)
	if err != nil {
		return nil, err
	}

	var doc subscriptionDoc
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoSubscriptionRepository) List(ctx context.Context, opts domain.ListOptions) ([]*domain.Subscription, error) {
	return r.find(ctx, bson.M{}, findOptions(opts, bson.D{{Key: "start_date", Value: 1}}))
}

func (r *MongoSubscriptionRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Subscription, error) {
	uid, err := objectIDFromHex(userID)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, bson.M{"user_id": uid}, options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}}))
}

func (r *MongoSubscriptionRepository) ListByTrainer(ctx context.Context, trainerID string) ([]*domain.Subscription, error) {
	tid, err := objectIDFromHex(trainerID)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, bson.M{"trainer_id": tid}, options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}}))
}

func (r *MongoSubscriptionRepository) ListByBranch(ctx context.Context, branchID string) ([]*domain.Subscription, error) {
	bid, err := objectIDFromHex(branchID)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, bson.M{"branch_id": bid}, options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}}))
}

func (r *MongoSubscriptionRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Subscription, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []subscriptionDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	subs := make([]*domain.Subscription, 0, len(docs))
	for i := range docs {
		subs = append(subs, docs[i].toDomain())
	}
	return subs, nil
}

func (r *MongoSubscriptionRepository) UpdateIfInactive(ctx context.Context, id, userID string, upd domain.MembershipUpdate) (bool, error) {
	filter, err := subscriptionFilter(id, userID)
	if err != nil {
		return false, err
	}
	filter["is_active"] = false

	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Duration != nil {
		set["duration"] = *upd.Duration
	}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}
	if upd.StartDate != nil {
		set["start_date"] = *upd.StartDate
	}
	if upd.EndDate != nil {
		set["end_date"] = *upd.EndDate
	}
	if upd.IsActive != nil {
		set["is_active"] = *upd.IsActive
	}
	if upd.IsPaid != nil {
		set["is_paid"] = *upd.IsPaid
	}

	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("failed to update subscription: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (r *MongoSubscriptionRepository) DeleteIfSettled(ctx context.Context, id, userID string) (bool, error) {
	filter, err := subscriptionFilter(id, userID)
	if err != nil {
		return false, err
	}
	filter["is_active"] = false
	filter["is_paid"] = false

	res, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to delete subscription: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// ClaimComment sets the write-once comment with a conditional update keyed on
// the comment still being empty. Only one of two concurrent raters can match.
func (r *MongoSubscriptionRepository) ClaimComment(ctx context.Context, id, userID, comment string) (*domain.Subscription, error) {
	filter, err := subscriptionFilter(id, userID)
	if err != nil {
		return nil, err
	}
	filter["comment"] = ""

	update := bson.M{"$set": bson.M{
		"comment":    comment,
		"updated_at": time.Now().UTC(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc subscriptionDoc
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to claim comment: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoSubscriptionRepository) CountByBranch(ctx context.Context, branchID string, activeOnly bool) (int64, error) {
	bid, err := objectIDFromHex(branchID)
	if err != nil {
		return 0, err
	}

	filter := bson.M{"branch_id": bid}
	if activeOnly {
		filter["is_active"] = true
	}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	return count, nil
}

func (r *MongoSubscriptionRepository) DeleteByUser(ctx context.Context, userID string) error {
	uid, err := objectIDFromHex(userID)
	if err != nil {
		return err
	}
	if _, err := r.collection.DeleteMany(ctx, bson.M{"user_id": uid}); err != nil {
		return fmt.Errorf("failed to delete subscriptions for user: %w", err)
	}
	return nil
}
