package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tutorlyhq/tutorly/pkg/pg"
	"github.com/tutorlyhq/tutorly/svc/auth"
	"github.com/tutorlyhq/tutorly/svc/profile"
)

const userColumns = `id, email, first_name, last_name, COALESCE(phone_number, ''), created_at`

func scanUser(row pgx.Row) (*auth.User, error) {
	var u auth.User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PhoneNumber, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// mapUserConstraint translates a unique violation into the matching domain
// error. Unrecognized constraints fall through unchanged.
func mapUserConstraint(err error) error {
	if !pg.IsDuplicateKeyError(err) {
		return err
	}
	switch pg.ConstraintName(err) {
	case constraintUsersEmail:
		return auth.ErrEmailAlreadyExists
	case constraintUsersPhone:
		return auth.ErrPhoneAlreadyExists
	case constraintProfilesUser:
		return profile.ErrProfileExists
	}
	return err
}

// CreateUser persists the user, its password hash, and an empty profile row
// in one transaction. Any unique violation rolls everything back.
func (s *Store) CreateUser(ctx context.Context, user *auth.User, passwordHash []byte) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO users (id, email, first_name, last_name, phone_number, created_at)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)`,
		user.ID, user.Email, user.FirstName, user.LastName, user.PhoneNumber, user.CreatedAt,
	)
	if err != nil {
		return mapUserConstraint(err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO user_credentials (user_id, password_hash) VALUES ($1, $2)`,
		user.ID, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("store password hash: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO profiles (id, user_id, created_at, updated_at) VALUES ($1, $2, $3, $3)`,
		uuid.New(), user.ID, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create empty profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by ID.
func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// GetUserByEmail retrieves a user by normalized email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// GetUserByPhone retrieves a user by phone number.
func (s *Store) GetUserByPhone(ctx context.Context, phone string) (*auth.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE phone_number = $1`, phone)
	u, err := scanUser(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by phone: %w", err)
	}
	return u, nil
}

// UpdateUser persists name and phone changes.
func (s *Store) UpdateUser(ctx context.Context, user *auth.User) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET first_name = $2, last_name = $3, phone_number = NULLIF($4, '') WHERE id = $1`,
		user.ID, user.FirstName, user.LastName, user.PhoneNumber,
	)
	if err != nil {
		return mapUserConstraint(err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

// GetPasswordHash retrieves the stored bcrypt hash for a user.
func (s *Store) GetPasswordHash(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	var hash []byte
	err := s.pool.QueryRow(ctx,
		`SELECT password_hash FROM user_credentials WHERE user_id = $1`, userID,
	).Scan(&hash)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("get password hash: %w", err)
	}
	return hash, nil
}

// UpdatePasswordHash replaces the stored bcrypt hash for a user.
func (s *Store) UpdatePasswordHash(ctx context.Context, userID uuid.UUID, hash []byte) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE user_credentials SET password_hash = $2, updated_at = now() WHERE user_id = $1`,
		userID, hash,
	)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}
