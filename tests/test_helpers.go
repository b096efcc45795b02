package tests

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/ashrafosamaa/gym-management-sys/internal/domain"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// SetupTestDB spins up a fresh MongoDB container and returns the database
// connection along with a cleanup function.
func SetupTestDB(t *testing.T) (*mongo.Database, func()) {
	ctx := context.Background()

	mongodbContainer, err := mongodb.Run(ctx, "mongo:latest")
	if err != nil {
		t.Fatalf("failed to start container: %s", err)
	}

	endpoint, err := mongodbContainer.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %s", err)
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(endpoint))
	if err != nil {
		t.Fatalf("failed to connect to mongo: %v", err)
	}

	return mongoClient.Database("test_db"), func() {
		if err := mongoClient.Disconnect(ctx); err != nil {
			log.Printf("failed to disconnect mongo: %v", err)
		}
		if err := mongodbContainer.Terminate(ctx); err != nil {
			log.Printf("failed to terminate container: %v", err)
		}
	}
}

// SeedKingAdmin inserts the root admin account directly, since the API offers
// no bootstrap endpoint for it.
func SeedKingAdmin(t *testing.T, db *mongo.Database, username, password string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	now := time.Now().UTC()
	_, err = db.Collection("admins").InsertOne(context.Background(), map[string]interface{}{
		"_id":        primitive.NewObjectID(),
		"username":   username,
		"password":   string(hashed),
		"role":       domain.RoleKing,
		"created_at": now,
		"updated_at": now,
	})
	if err != nil {
		t.Fatalf("failed to seed king admin: %v", err)
	}
}

// CapturingNotifier records outgoing notifications so tests can read the
// activation codes and trainer credentials the real mailer would deliver.
type CapturingNotifier struct {
	ActivationCodes    map[string]string // email -> code
	TrainerCredentials map[string]string // phone -> one-use password
}

func NewCapturingNotifier() *CapturingNotifier {
	return &CapturingNotifier{
		ActivationCodes:    make(map[string]string),
		TrainerCredentials: make(map[string]string),
	}
}

func (n *CapturingNotifier) SendActivationCode(_ context.Context, email, _ string, code string) error {
	n.ActivationCodes[email] = code
	return nil
}

func (n *CapturingNotifier) SendTrainerCredentials(_ context.Context, phone, _ string, password string) error {
	n.TrainerCredentials[phone] = password
	return nil
}

// MemoryMediaStore keeps uploads in memory, standing in for object storage.
type MemoryMediaStore struct {
	Objects map[string][]byte
}

func NewMemoryMediaStore() *MemoryMediaStore {
	return &MemoryMediaStore{Objects: make(map[string][]byte)}
}

func (m *MemoryMediaStore) Upload(_ context.Context, data []byte, key, _ string) (string, error) {
	m.Objects[key] = data
	return "http://media.test/" + key, nil
}

func (m *MemoryMediaStore) Delete(_ context.Context, key string) error {
	delete(m.Objects, key)
	return nil
}

var _ domain.Notifier = (*CapturingNotifier)(nil)
var _ domain.MediaStore = (*MemoryMediaStore)(nil)
