package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tutorlyhq/tutorly/core"
	"github.com/tutorlyhq/tutorly/pkg/logger"
	"github.com/tutorlyhq/tutorly/pkg/ratelimit"
	authsvc "github.com/tutorlyhq/tutorly/svc/auth"
)

// Module exposes the registration and login endpoints.
type Module struct {
	svc             *authsvc.Service
	registerLimiter ratelimit.Limiter
	logger          *slog.Logger
}

// Option configures the Module.
type Option func(*Module)

// WithRegisterLimiter rate-limits POST / (registration) per client IP.
func WithRegisterLimiter(l ratelimit.Limiter) Option {
	return func(m *Module) {
		m.registerLimiter = l
	}
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(m *Module) {
		if l != nil {
			m.logger = l.With(logger.Component("modules.auth"))
		}
	}
}

// New creates the auth HTTP module.
func New(svc *authsvc.Service, opts ...Option) *Module {
	m := &Module{
		svc:    svc,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Router mounts the module's routes.
func (m *Module) Router() http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		if m.registerLimiter != nil {
			r.Use(ratelimit.MiddlewareWithOptions(m.registerLimiter, ratelimit.IPKey,
				ratelimit.WithOnLimitReached(func(w http.ResponseWriter, r *http.Request, result *ratelimit.Result) {
					core.Error(w, core.ErrTooManyRequests.WithMessage("too many registration attempts, try again later"))
				}),
			))
		}
		r.Post("/", m.register)
	})

	r.Post("/token", m.login)

	return r
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (m *Module) register(w http.ResponseWriter, r *http.Request) {
	var params authsvc.RegisterParams
	if err := core.DecodeJSON(w, r, &params); err != nil {
		core.Error(w, err)
		return
	}

	user, err := m.svc.Register(r.Context(), params)
	if err != nil {
		core.Error(w, mapError(err))
		return
	}

	core.Success(w, http.StatusCreated, "user registered successfully", user)
}

func (m *Module) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, err)
		return
	}

	user, err := m.svc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		core.Error(w, mapError(err))
		return
	}

	session, err := m.svc.IssueSession(user)
	if err != nil {
		m.logger.ErrorContext(r.Context(), "failed to issue session", logger.Error(err), logger.UserID(user.ID))
		core.Error(w, err)
		return
	}

	core.Success(w, http.StatusOK, "login successful", session)
}

// mapError translates domain errors to HTTP errors; anything unrecognized
// passes through and renders as an opaque 500.
func mapError(err error) error {
	switch {
	case errors.Is(err, authsvc.ErrEmailAlreadyExists), errors.Is(err, authsvc.ErrPhoneAlreadyExists):
		return core.ErrConflict.WithMessage(err.Error())
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		return core.ErrUnauthorized.WithMessage(err.Error())
	default:
		return err
	}
}
