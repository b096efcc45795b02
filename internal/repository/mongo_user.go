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

// MongoUserRepository implements domain.UserRepository
type MongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		collection: db.Collection("users"),
	}
}

type userDoc struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty"`
	FirstName      string              `bson:"first_name"`
	LastName       string              `bson:"last_name"`
	Email          string              `bson:"email"`
	PhoneNumber    string              `bson:"phone_number"`
	Password       string              `bson:"password"`
	Gender         string              `bson:"gender"`
	MemberStatus   string              `bson:"member_status"`
	Weight         float64             `bson:"weight,omitempty"`
	Height         float64             `bson:"height,omitempty"`
	Activated      bool                `bson:"is_account_activated"`
	ActivationCode string              `bson:"activation_code,omitempty"`
	ProfileImage   domain.ProfileImage `bson:"profile_image,omitempty"`
	CreatedAt      time.Time           `bson:"created_at"`
	UpdatedAt      time.Time           `bson:"updated_at"`
}

func (d *userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:             d.ID.Hex(),
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		Email:          d.Email,
		PhoneNumber:    d.PhoneNumber,
		Password:       d.Password,
		Gender:         d.Gender,
		MemberStatus:   d.MemberStatus,
		Weight:         d.Weight,
		Height:         d.Height,
		Activated:      d.Activated,
		ActivationCode: d.ActivationCode,
		ProfileImage:   d.ProfileImage,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	doc := userDoc{
		ID:             primitive.NewObjectID(),
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Email:          user.Email,
		PhoneNumber:    user.PhoneNumber,
		Password:       user.Password,
		Gender:         user.Gender,
		MemberStatus:   user.MemberStatus,
		Weight:         user.Weight,
		Height:         user.Height,
		Activated:      user.Activated,
		ActivationCode: user.ActivationCode,
		ProfileImage:   user.ProfileImage,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = doc.ID.Hex()
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := objectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"phone_number": phone})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDoc
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoUserRepository) List(ctx context.Context, opts domain.ListOptions) ([]*domain.User, error) {
	return r.find(ctx, bson.M{}, findOptions(opts, bson.D{{Key: "first_name", Value: 1}}))
}

func (r *MongoUserRepository) Search(ctx context.Context, f domain.UserSearch) ([]*domain.User, error) {
	filter := bson.M{}
	regexFilter(filter, "first_name", f.FirstName)
	regexFilter(filter, "last_name", f.LastName)
	regexFilter(filter, "email", f.Email)
	regexFilter(filter, "phone_number", f.PhoneNumber)
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "first_name", Value: 1}}))
}

func (r *MongoUserRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.User, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	users := make([]*domain.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toDomain())
	}
	return users, nil
}

func (r *MongoUserRepository) Update(ctx context.Context, user *domain.User) error {
	oid, err := objectIDFromHex(user.ID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"first_name":           user.FirstName,
		"last_name":            user.LastName,
		"email":                user.Email,
		"phone_number":         user.PhoneNumber,
		"password":             user.Password,
		"gender":               user.Gender,
		"member_status":        user.MemberStatus,
		"weight":               user.Weight,
		"height":               user.Height,
		"is_account_activated": user.Activated,
		"activation_code":      user.ActivationCode,
		"profile_image":        user.ProfileImage,
		"updated_at":           now,
	}}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	user.UpdatedAt = now
	return nil
}

// Activate flips the account on when the email and code match an account that
// is not yet activated. Returns false when nothing matched.
func (r *MongoUserRepository) Activate(ctx context.Context, email, code string) (bool, error) {
	filter := bson.M{
		"email":                email,
		"activation_code":      code,
		"is_account_activated": false,
	}
	update := bson.M{
		"$set":   bson.M{"is_account_activated": true, "updated_at": time.Now().UTC()},
		"$unset": bson.M{"activation_code": ""},
	}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to activate user: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (r *MongoUserRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectIDFromHex(id)
	if err != nil {
		return err
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
