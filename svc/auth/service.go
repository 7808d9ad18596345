package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tutorlyhq/tutorly/pkg/jwt"
	"github.com/tutorlyhq/tutorly/pkg/logger"
	"github.com/tutorlyhq/tutorly/pkg/sanitizer"
	"github.com/tutorlyhq/tutorly/pkg/validator"
)

// SessionClaims are the claims embedded in issued session tokens.
type SessionClaims struct {
	Subject   string    `json:"sub"`
	UserID    uuid.UUID `json:"id"`
	ExpiresAt int64     `json:"exp"`
}

// Valid rejects the token at or after its expiry instant.
func (c SessionClaims) Valid() error {
	if c.ExpiresAt > 0 && time.Now().Unix() >= c.ExpiresAt {
		return jwt.ErrExpiredToken
	}
	return nil
}

// Service implements registration, login, and session token handling.
type Service struct {
	storage          Storage
	jwt              *jwt.Service
	sessionTTL       time.Duration
	bcryptCost       int
	passwordStrength validator.PasswordStrengthConfig
	logger           *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithSessionTTL sets the session token lifetime. Panics on non-positive
// values since that is a programming error, not a runtime condition.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl <= 0 {
			panic("auth: session TTL must be positive")
		}
		s.sessionTTL = ttl
	}
}

// WithBcryptCost sets the bcrypt cost factor for password hashing.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			panic(fmt.Sprintf("auth: bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
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
			s.logger = l.With(logger.Component("auth"))
		}
	}
}

// NewService creates an authentication service backed by the given storage and
// token signer.
func NewService(storage Storage, jwtService *jwt.Service, opts ...Option) *Service {
	s := &Service{
		storage:          storage,
		jwt:              jwtService,
		sessionTTL:       30 * time.Minute,
		bcryptCost:       bcrypt.DefaultCost,
		passwordStrength: validator.DefaultPasswordStrength(),
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Register creates a new account. Email and phone uniqueness are pre-checked
// for friendly errors; the storage layer's unique constraints remain the final
// arbiter, so a lost race still surfaces the same duplicate errors.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	email := sanitizer.NormalizeEmail(params.Email)
	phone := sanitizer.NormalizePhone(params.PhoneNumber)

	rules := []validator.Rule{
		validator.ValidEmail("email", email),
		validator.Required("firstName", params.FirstName),
		validator.Required("lastName", params.LastName),
		validator.StrongPassword("password", params.Password, s.passwordStrength),
		validator.NotCommonPassword("password", params.Password),
	}
	if phone != "" {
		rules = append(rules, validator.ValidPhone("phoneNumber", phone))
	}
	if err := validator.Apply(rules...); err != nil {
		return nil, err
	}

	if existing, err := s.storage.GetUserByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailAlreadyExists
	} else if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email availability: %w", err)
	}

	if phone != "" {
		if existing, err := s.storage.GetUserByPhone(ctx, phone); err == nil && existing != nil {
			return nil, ErrPhoneAlreadyExists
		} else if err != nil && !errors.Is(err, ErrUserNotFound) {
			return nil, fmt.Errorf("failed to check phone availability: %w", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		ID:          uuid.New(),
		Email:       email,
		FirstName:   sanitizer.Trim(params.FirstName),
		LastName:    sanitizer.Trim(params.LastName),
		PhoneNumber: phone,
		CreatedAt:   time.Now(),
	}

	if err := s.storage.CreateUser(ctx, user, hash); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) || errors.Is(err, ErrPhoneAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered",
		logger.UserID(user.ID),
		logger.Email(sanitizer.MaskEmail(user.Email)),
	)

	return user, nil
}

// Authenticate verifies email/password credentials. Every failure path
// returns ErrInvalidCredentials so callers cannot distinguish an unknown
// email from a wrong password.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = sanitizer.NormalizeEmail(email)

	user, err := s.storage.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	hash, err := s.storage.GetPasswordHash(ctx, user.ID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// IssueSession creates a signed bearer token for the user with the configured
// lifetime.
func (s *Service) IssueSession(user *User) (Session, error) {
	expiresAt := time.Now().Add(s.sessionTTL)

	token, err := s.jwt.Generate(SessionClaims{
		Subject:   user.Email,
		UserID:    user.ID,
		ExpiresAt: expiresAt.Unix(),
	})
	if err != nil {
		return Session{}, fmt.Errorf("failed to generate session token: %w", err)
	}

	return Session{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

// ResolveIdentity verifies a session token and extracts the user ID. Pure
// token verification; storage is never consulted. All failure modes collapse
// to ErrAuthentication with the reason logged only.
func (s *Service) ResolveIdentity(ctx context.Context, token string) (uuid.UUID, error) {
	var claims SessionClaims
	if err := s.jwt.Parse(token, &claims); err != nil {
		s.logger.DebugContext(ctx, "token verification failed", logger.Error(err))
		return uuid.Nil, ErrAuthentication
	}

	if claims.UserID == uuid.Nil {
		s.logger.DebugContext(ctx, "token carries no user id")
		return uuid.Nil, ErrAuthentication
	}

	return claims.UserID, nil
}

// ResolveUser verifies a session token and loads the referenced user. A valid
// token whose user no longer exists is an authentication failure, not a
// not-found condition.
func (s *Service) ResolveUser(ctx context.Context, token string) (*User, error) {
	userID, err := s.ResolveIdentity(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.storage.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.logger.DebugContext(ctx, "token references missing user", logger.UserID(userID))
			return nil, ErrAuthentication
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return user, nil
}
