package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorlyhq/tutorly/svc/auth"
	"github.com/tutorlyhq/tutorly/svc/profile"
	"github.com/tutorlyhq/tutorly/svc/user"
)

// Compile-time checks that Store satisfies every service storage interface.
var (
	_ auth.Storage    = (*Store)(nil)
	_ user.Storage    = (*Store)(nil)
	_ profile.Storage = (*Store)(nil)
)

// Store provides Postgres-backed persistence for users, credentials, and
// tutor profiles. Connection lifecycle belongs to the caller; the pool is
// created via pg.Connect and closed at shutdown.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store on top of an established pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Unique constraint names from the migrations, used to map duplicate-key
// violations to domain errors.
const (
	constraintUsersEmail   = "users_email_key"
	constraintUsersPhone   = "users_phone_number_key"
	constraintProfilesUser = "profiles_user_id_key"
)
