package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tutorlyhq/tutorly/pkg/pg"
	"github.com/tutorlyhq/tutorly/svc/profile"
)

const profileColumns = `id, user_id, bio, profile_picture, degrees, years_of_experience,
	subjects, levels, teaching_method, location, gender, hourly_rate, currency,
	languages, created_at, updated_at`

func scanProfile(row pgx.Row) (*profile.Profile, error) {
	var p profile.Profile
	err := row.Scan(
		&p.ID, &p.UserID, &p.Bio, &p.ProfilePicture, &p.Degrees, &p.YearsOfExperience,
		&p.Subjects, &p.Levels, &p.TeachingMethod, &p.Location, &p.Gender, &p.HourlyRate,
		&p.Currency, &p.Languages, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProfile inserts a profile row. A duplicate user_id maps to
// ErrProfileExists.
func (s *Store) CreateProfile(ctx context.Context, p *profile.Profile) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO profiles (id, user_id, bio, profile_picture, degrees, years_of_experience,
		  subjects, levels, teaching_method, location, gender, hourly_rate, currency,
		  languages, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		p.ID, p.UserID, p.Bio, p.ProfilePicture, p.Degrees, p.YearsOfExperience,
		p.Subjects, p.Levels, p.TeachingMethod, p.Location, p.Gender, p.HourlyRate,
		p.Currency, p.Languages, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) && pg.ConstraintName(err) == constraintProfilesUser {
			return profile.ErrProfileExists
		}
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

// GetProfileByID retrieves a profile by ID.
func (s *Store) GetProfileByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	p, err := scanProfile(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile by id: %w", err)
	}
	return p, nil
}

// GetProfileByUserID retrieves a user's profile.
func (s *Store) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID)
	p, err := scanProfile(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile by user id: %w", err)
	}
	return p, nil
}

// UpdateProfile persists all mutable profile fields.
func (s *Store) UpdateProfile(ctx context.Context, p *profile.Profile) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE profiles SET bio = $2, profile_picture = $3, degrees = $4,
		  years_of_experience = $5, subjects = $6, levels = $7, teaching_method = $8,
		  location = $9, gender = $10, hourly_rate = $11, currency = $12,
		  languages = $13, updated_at = $14
		 WHERE id = $1`,
		p.ID, p.Bio, p.ProfilePicture, p.Degrees, p.YearsOfExperience, p.Subjects,
		p.Levels, p.TeachingMethod, p.Location, p.Gender, p.HourlyRate, p.Currency,
		p.Languages, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return profile.ErrProfileNotFound
	}
	return nil
}

// DeleteProfile removes a profile row.
func (s *Store) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return profile.ErrProfileNotFound
	}
	return nil
}

// ListProfiles returns completed profiles matching the filter, newest first,
// with the total count of matches. The empty rows created at registration
// are excluded.
func (s *Store) ListProfiles(ctx context.Context, filter profile.Filter) ([]profile.Profile, int64, error) {
	where := []string{"teaching_method <> ''"}
	args := []any{}

	addArg := func(clause string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if filter.Subject != "" {
		addArg(`$%d ILIKE ANY (subjects)`, filter.Subject)
	}
	if filter.Level != "" {
		addArg(`$%d = ANY (levels)`, filter.Level)
	}
	if filter.TeachingMethod != "" {
		addArg(`teaching_method = $%d`, filter.TeachingMethod)
	}
	if filter.Location != "" {
		addArg(`location ILIKE '%%' || $%d || '%%'`, filter.Location)
	}
	if filter.Gender != "" {
		addArg(`gender = $%d`, filter.Gender)
	}

	cond := strings.Join(where, " AND ")

	var total int64
	if err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM profiles WHERE `+cond, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count profiles: %w", err)
	}

	args = append(args, filter.PerPage, (filter.Page-1)*filter.PerPage)
	query := fmt.Sprintf(
		`SELECT %s FROM profiles WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		profileColumns, cond, len(args)-1, len(args),
	)

	return s.queryProfiles(ctx, query, args, total)
}

// SearchProfiles matches a free-text term against bio, location, and subjects.
func (s *Store) SearchProfiles(ctx context.Context, term string, page, perPage int) ([]profile.Profile, int64, error) {
	cond := `teaching_method <> '' AND (
		bio ILIKE '%' || $1 || '%'
		OR location ILIKE '%' || $1 || '%'
		OR EXISTS (SELECT 1 FROM unnest(subjects) AS s WHERE s ILIKE '%' || $1 || '%')
	)`

	var total int64
	if err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM profiles WHERE `+cond, term,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count search results: %w", err)
	}

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE ` + cond +
		` ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	return s.queryProfiles(ctx, query, []any{term, perPage, (page - 1) * perPage}, total)
}

func (s *Store) queryProfiles(ctx context.Context, query string, args []any, total int64) ([]profile.Profile, int64, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	profiles := []profile.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate profiles: %w", err)
	}

	return profiles, total, nil
}
