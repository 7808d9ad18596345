package auth

import (
	"context"

	"github.com/google/uuid"
)

// Storage defines the persistence operations for accounts and credentials.
// Implementations must return ErrUserNotFound when a lookup finds nothing and
// map unique-constraint violations from CreateUser to ErrEmailAlreadyExists or
// ErrPhoneAlreadyExists.
type Storage interface {
	// CreateUser persists the user row, its password hash, and an empty
	// dependent profile row in a single transaction.
	CreateUser(ctx context.Context, user *User, passwordHash []byte) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByPhone(ctx context.Context, phone string) (*User, error)
	GetPasswordHash(ctx context.Context, userID uuid.UUID) ([]byte, error)
	UpdatePasswordHash(ctx context.Context, userID uuid.UUID, hash []byte) error
}
