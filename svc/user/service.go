package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tutorlyhq/tutorly/pkg/logger"
	"github.com/tutorlyhq/tutorly/pkg/sanitizer"
	"github.com/tutorlyhq/tutorly/pkg/validator"
	"github.com/tutorlyhq/tutorly/svc/auth"
)

// UpdateParams carries the account fields a user may change themselves.
// Email is immutable once registered.
type UpdateParams struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
}

// ChangePasswordParams carries a password change request.
type ChangePasswordParams struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Storage defines the persistence operations for account management.
// Implementations return auth.ErrUserNotFound for missing users and map the
// phone unique-constraint violation from UpdateUser to auth.ErrPhoneAlreadyExists.
type Storage interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*auth.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*auth.User, error)
	UpdateUser(ctx context.Context, user *auth.User) error
	GetPasswordHash(ctx context.Context, userID uuid.UUID) ([]byte, error)
	UpdatePasswordHash(ctx context.Context, userID uuid.UUID, hash []byte) error
}

// Service manages a user's own account.
type Service struct {
	storage          Storage
	bcryptCost       int
	passwordStrength validator.PasswordStrengthConfig
	logger           *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithBcryptCost sets the bcrypt cost factor for new password hashes.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			panic(fmt.Sprintf("user: bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
		}
		s.bcryptCost = cost
	}
}

// WithPasswordStrength overrides the password strength requirements.
func WithPasswordStrength(cfg validator.PasswordStrengthConfig) Option {
	return func(s *Service) {
		s.passwordStrength = cfg
	}
}

// WithLogger sets the logger for internal diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l.With(logger.Component("user"))
		}
	}
}

// NewService creates a user account service.
func NewService(storage Storage, opts ...Option) *Service {
	s := &Service{
		storage:          storage,
		bcryptCost:       bcrypt.DefaultCost,
		passwordStrength: validator.DefaultPasswordStrength(),
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// GetUser retrieves a user by ID.
func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*auth.User, error) {
	user, err := s.storage.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateUser changes the user's name and phone number. Phone uniqueness is
// pre-checked against other accounts; the DB constraint remains the final
// arbiter.
func (s *Service) UpdateUser(ctx context.Context, userID uuid.UUID, params UpdateParams) (*auth.User, error) {
	phone := sanitizer.NormalizePhone(params.PhoneNumber)

	rules := []validator.Rule{
		validator.Required("firstName", params.FirstName),
		validator.Required("lastName", params.LastName),
	}
	if phone != "" {
		rules = append(rules, validator.ValidPhone("phoneNumber", phone))
	}
	if err := validator.Apply(rules...); err != nil {
		return nil, err
	}

	user, err := s.storage.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if phone != "" && phone != user.PhoneNumber {
		if other, err := s.storage.GetUserByPhone(ctx, phone); err == nil && other != nil && other.ID != userID {
			return nil, auth.ErrPhoneAlreadyExists
		} else if err != nil && !errors.Is(err, auth.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to check phone availability: %w", err)
		}
	}

	user.FirstName = sanitizer.Trim(params.FirstName)
	user.LastName = sanitizer.Trim(params.LastName)
	user.PhoneNumber = phone

	if err := s.storage.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, auth.ErrPhoneAlreadyExists) {
			return nil, auth.ErrPhoneAlreadyExists
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.InfoContext(ctx, "user updated", logger.UserID(userID))

	return user, nil
}

// ChangePassword updates the user's password after verifying the current one.
// A confirmation mismatch fails before any storage access.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, params ChangePasswordParams) error {
	if params.NewPassword != params.ConfirmPassword {
		return auth.ErrPasswordMismatch
	}

	if err := validator.Apply(
		validator.StrongPassword("newPassword", params.NewPassword, s.passwordStrength),
		validator.NotCommonPassword("newPassword", params.NewPassword),
	); err != nil {
		return err
	}

	hash, err := s.storage.GetPasswordHash(ctx, userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return auth.ErrUserNotFound
		}
		return fmt.Errorf("failed to get password hash: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(params.CurrentPassword)); err != nil {
		return auth.ErrInvalidCurrentPassword
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(params.NewPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.storage.UpdatePasswordHash(ctx, userID, newHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.InfoContext(ctx, "password changed", logger.UserID(userID))

	return nil
}
