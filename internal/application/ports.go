package application

import "context"

// PasswordHasher is the one-way hash used for credentials passwords.
// Verify must compare in constant time.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// EventPublisher delivers lifecycle events to a message broker.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, body any) error
}

// UserIndexer keeps the user directory search index in sync.
type UserIndexer interface {
	IndexUser(ctx context.Context, v UserView) error
	DeleteUser(ctx context.Context, id string) error
	SearchUsers(ctx context.Context, q string, size int) ([]UserView, error)
}
