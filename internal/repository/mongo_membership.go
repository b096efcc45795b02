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

// MongoMembershipRepository implements domain.MembershipRepository
type MongoMembershipRepository struct {
	collection *mongo.Collection
}

func NewMongoMembershipRepository(db *mongo.Database) *MongoMembershipRepository {
	return &MongoMembershipRepository{
		collection: db.Collection("memberships"),
	}
}

type membershipDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Duration  int                `bson:"duration"`
	Price     float64            `bson:"price"`
	StartDate time.Time          `bson:"start_date"`
	EndDate   time.Time          `bson:"end_date"`
	UserID    primitive.ObjectID `bson:"user_id"`
	BranchID  primitive.ObjectID `bson:"branch_id"`
	IsActive  bool               `bson:"is_active"`
	IsPaid    bool               `bson:"is_paid"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *membershipDoc) toDomain() *domain.Membership {
	return &domain.Membership{
		ID:        d.ID.Hex(),
		Duration:  d.Duration,
		Price:     d.Price,
		StartDate: d.StartDate,
		EndDate:   d.EndDate,
		UserID:    d.UserID.Hex(),
		BranchID:  d.BranchID.Hex(),
		IsActive:  d.IsActive,
		IsPaid:    d.IsPaid,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (r *MongoMembershipRepository) Create(ctx context.Context, m *domain.Membership) error {
	userID, err := objectIDFromHex(m.UserID)
	if err != nil {
		return err
	}
	branchID, err := objectIDFromHex(m.BranchID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	doc := membershipDoc{
		ID:        primitive.NewObjectID(),
		Duration:  m.Duration,
		Price:     m.Price,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		UserID:    userID,
		BranchID:  branchID,
		IsActive:  m.IsActive,
		IsPaid:    m.IsPaid,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create membership: %w", err)
	}
	m.ID = doc.ID.Hex()
	m.CreatedAt = now
	m.UpdatedAt = now
	return nil
}

// membershipFilter builds an _id filter, optionally scoped to an owner.
func membershipFilter(id, userID string) (bson.M, error) {
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

func (r *MongoMembershipRepository) GetByID(ctx context.Context, id, userID string) (*domain.Membership, error) {
	filter, err := membershipFilter(id, userID)
	if err != nil {
		return nil, err
	}

	var doc membershipDoc
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoMembershipRepository) List(ctx context.Context, opts domain.ListOptions) ([]*domain.Membership, error) {
	return r.find(ctx, bson.M{}, findOptions(opts, bson.D{{Key: "start_date", Value: 1}}))
}

func (r *MongoMembershipRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Membership, error) {
	uid, err := objectIDFromHex(userID)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, bson.M{"user_id": uid}, options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}}))
}

func (r *MongoMembershipRepository) ListByBranch(ctx context.Context, branchID string) ([]*domain.Membership, error) {
	bid, err := objectIDFromHex(branchID)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, bson.M{"branch_id": bid}, options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}}))
}

func (r *MongoMembershipRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Membership, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []membershipDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	memberships := make([]*domain.Membership, 0, len(docs))
	for i := range docs {
		memberships = append(memberships, docs[i].toDomain())
	}
	return memberships, nil
}

// UpdateIfInactive performs the guarded mutation as a single conditional write:
// the is_active filter makes the immutability invariant hold even under
// concurrent requests targeting the same membership.
func (r *MongoMembershipRepository) UpdateIfInactive(ctx context.Context, id, userID string, upd domain.MembershipUpdate) (bool, error) {
	filter, err := membershipFilter(id, userID)
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
		return false, fmt.Errorf("failed to update membership: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (r *MongoMembershipRepository) DeleteIfSettled(ctx context.Context, id, userID string) (bool, error) {
	filter, err := membershipFilter(id, userID)
	if err != nil {
		return false, err
	}
	filter["is_active"] = false
	filter["is_paid"] = false

	res, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to delete membership: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoMembershipRepository) ExistsActivePaidByUser(ctx context.Context, userID string) (bool, error) {
	uid, err := objectIDFromHex(userID)
	if err != nil {
		return false, err
	}

	filter := bson.M{"user_id": uid, "is_active": true, "is_paid": true}
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return count > 0, nil
}

func (r *MongoMembershipRepository) CountByBranch(ctx context.Context, branchID string, activeOnly bool) (int64, error) {
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
		return 0, fmt.Errorf("failed to count memberships: %w", err)
	}
	return count, nil
}

func (r *MongoMembershipRepository) DeleteByUser(ctx context.Context, userID string) error {
	uid, err := objectIDFromHex(userID)
	if err != nil {
		return err
	}
	if _, err := r.collection.DeleteMany(ctx, bson.M{"user_id": uid}); err != nil {
		return fmt.Errorf("failed to delete memberships for user: %w", err)
	}
	return nil
}
