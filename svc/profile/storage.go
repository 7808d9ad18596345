package profile

import (
	"context"

	"github.com/google/uuid"
)

// Storage defines the persistence operations for tutor profiles.
// Implementations return ErrProfileNotFound for missing rows and map the
// user_id unique-constraint violation from CreateProfile to ErrProfileExists.
type Storage interface {
	CreateProfile(ctx context.Context, p *Profile) error
	GetProfileByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	UpdateProfile(ctx context.Context, p *Profile) error
	DeleteProfile(ctx context.Context, id uuid.UUID) error
	ListProfiles(ctx context.Context, filter Filter) ([]Profile, int64, error)
	SearchProfiles(ctx context.Context, term string, page, perPage int) ([]Profile, int64, error)
}
