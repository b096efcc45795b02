package domain

import "context"

// MediaStore persists uploaded binary objects (profile images).
type MediaStore interface {
	// Upload stores the object under key and returns its public URL.
	Upload(ctx context.Context, data []byte, key, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Notifier delivers account emails. Implementations must be safe for
// concurrent use; callers treat delivery as best-effort.
type Notifier interface {
	SendActivationCode(ctx context.Context, email, name, code string) error
	SendTrainerCredentials(ctx context.Context, phone, userName, password string) error
}
