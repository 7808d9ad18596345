package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tutorlyhq/tutorly/pkg/logger"
	"github.com/tutorlyhq/tutorly/pkg/sanitizer"
	"github.com/tutorlyhq/tutorly/pkg/validator"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// Service manages tutor profiles.
type Service struct {
	storage Storage
	files   FileStorage
	logger  *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithFileStorage sets the backend used for profile picture uploads. Without
// it UploadPicture returns an error.
func WithFileStorage(fs FileStorage) Option {
	return func(s *Service) {
		s.files = fs
	}
}

// WithLogger sets the logger for internal diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l.With(logger.Component("profile"))
		}
	}
}

// NewService creates a profile service.
func NewService(storage Storage, opts ...Option) *Service {
	s := &Service{
		storage: storage,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func validateParams(params Params) error {
	rules := []validator.Rule{
		validator.Required("teachingMethod", params.TeachingMethod),
		validator.ValidEnum("teachingMethod", params.TeachingMethod, TeachingMethods()),
		validator.MinNum("yearsOfExperience", params.YearsOfExperience, 0),
		validator.MinNum("hourlyRate", params.HourlyRate, 0),
	}
	if params.Gender != "" {
		rules = append(rules, validator.ValidEnum("gender", params.Gender, Genders()))
	}
	for _, level := range params.Levels {
		rules = append(rules, validator.ValidEnum("levels", level, EducationLevels()))
	}
	return validator.Apply(rules...)
}

func (p *Profile) apply(params Params) {
	p.Bio = sanitizer.StripHTML(sanitizer.Trim(params.Bio))
	p.Degrees = params.Degrees
	p.YearsOfExperience = params.YearsOfExperience
	p.Subjects = params.Subjects
	p.Levels = params.Levels
	p.TeachingMethod = params.TeachingMethod
	p.Location = sanitizer.Trim(params.Location)
	p.Gender = params.Gender
	p.HourlyRate = params.HourlyRate
	p.Currency = params.Currency
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	p.Languages = params.Languages
	p.UpdatedAt = time.Now()
}

// Create fills in the user's profile. Registration leaves an empty row behind,
// so Create completes that row when present; a user who already completed
// their profile gets ErrProfileExists.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, params Params) (*Profile, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	existing, err := s.storage.GetProfileByUserID(ctx, userID)
	switch {
	case err == nil && existing.IsComplete():
		return nil, ErrProfileExists
	case err == nil:
		existing.apply(params)
		if err := s.storage.UpdateProfile(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to complete profile: %w", err)
		}
		s.logger.InfoContext(ctx, "profile created", logger.ProfileID(existing.ID), logger.UserID(userID))
		return existing, nil
	case !errors.Is(err, ErrProfileNotFound):
		return nil, fmt.Errorf("failed to check for existing profile: %w", err)
	}

	p := &Profile{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	p.apply(params)

	if err := s.storage.CreateProfile(ctx, p); err != nil {
		if errors.Is(err, ErrProfileExists) {
			return nil, ErrProfileExists
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.logger.InfoContext(ctx, "profile created", logger.ProfileID(p.ID), logger.UserID(userID))

	return p, nil
}

// GetByID retrieves a profile by its ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	p, err := s.storage.GetProfileByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// GetByUserID retrieves the profile owned by the given user.
func (s *Service) GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	p, err := s.storage.GetProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// List returns a page of profiles matching the filter.
func (s *Service) List(ctx context.Context, filter Filter) (*Page, error) {
	filter.Page, filter.PerPage = normalizePage(filter.Page, filter.PerPage)

	if filter.Level != "" {
		if err := validator.Apply(validator.ValidEnum("level", filter.Level, EducationLevels())); err != nil {
			return nil, err
		}
	}
	if filter.TeachingMethod != "" {
		if err := validator.Apply(validator.ValidEnum("teachingMethod", filter.TeachingMethod, TeachingMethods())); err != nil {
			return nil, err
		}
	}
	if filter.Gender != "" {
		if err := validator.Apply(validator.ValidEnum("gender", filter.Gender, Genders())); err != nil {
			return nil, err
		}
	}

	items, total, err := s.storage.ListProfiles(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	return &Page{Items: items, Total: total, Page: filter.Page, PerPage: filter.PerPage}, nil
}

// Search returns a page of profiles matching a free-text term over bio,
// subjects, and location.
func (s *Service) Search(ctx context.Context, term string, page, perPage int) (*Page, error) {
	term = sanitizer.NormalizeWhitespace(term)
	if err := validator.Apply(validator.Required("q", term)); err != nil {
		return nil, err
	}

	page, perPage = normalizePage(page, perPage)

	items, total, err := s.storage.SearchProfiles(ctx, term, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to search profiles: %w", err)
	}

	return &Page{Items: items, Total: total, Page: page, PerPage: perPage}, nil
}

// Update mutates a profile after the ownership check. Existence is checked
// before ownership so a caller probing someone else's profile ID learns only
// whether it exists, the same as any public read.
func (s *Service) Update(ctx context.Context, id, actorID uuid.UUID, params Params) (*Profile, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	p, err := s.storage.GetProfileByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if p.UserID != actorID {
		return nil, ErrForbidden
	}

	p.apply(params)

	if err := s.storage.UpdateProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.InfoContext(ctx, "profile updated", logger.ProfileID(p.ID), logger.UserID(actorID))

	return p, nil
}

// Delete removes a profile after the ownership check.
func (s *Service) Delete(ctx context.Context, id, actorID uuid.UUID) error {
	p, err := s.storage.GetProfileByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("failed to get profile: %w", err)
	}

	if p.UserID != actorID {
		return ErrForbidden
	}

	if err := s.storage.DeleteProfile(ctx, id); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	if p.ProfilePicture != "" && s.files != nil {
		if err := s.files.Delete(ctx, picturePath(p)); err != nil {
			s.logger.WarnContext(ctx, "failed to delete profile picture", logger.Error(err), logger.ProfileID(p.ID))
		}
	}

	s.logger.InfoContext(ctx, "profile deleted", logger.ProfileID(p.ID), logger.UserID(actorID))

	return nil
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}
