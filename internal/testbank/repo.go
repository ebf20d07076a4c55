package testbank

import (
	"context"
	"errors"
)

// ErrTestNotFound is returned when a test id does not exist.
var ErrTestNotFound = errors.New("test not found")

// Store is the authoring/attempt-log collaborator. Tests are written
// once by an admin and read by the session engine; finalized attempts
// are append-only.
type Store interface {
	PutTest(ctx context.Context, t Test) error
	GetTest(ctx context.Context, id string) (Test, error)
	DeleteTest(ctx context.Context, id string) error
	ListTests(ctx context.Context) ([]Test, error)

	AppendAttempt(ctx context.Context, a Attempt) error
	GetAttemptsByUser(ctx context.Context, userID string) ([]Attempt, error)
	ListAttemptsByTest(ctx context.Context, testID string) ([]Attempt, error)
}
