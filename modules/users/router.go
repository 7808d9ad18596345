package users

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tutorlyhq/tutorly/core"
	authsvc "github.com/tutorlyhq/tutorly/svc/auth"
	usersvc "github.com/tutorlyhq/tutorly/svc/user"
)

// Module exposes the account management endpoints. All routes require a
// valid bearer token.
type Module struct {
	svc      *usersvc.Service
	sessions *authsvc.Service
}

// New creates the users HTTP module. The sessions service backs the
// authentication middleware.
func New(svc *usersvc.Service, sessions *authsvc.Service) *Module {
	return &Module{svc: svc, sessions: sessions}
}

// Router mounts the module's routes.
func (m *Module) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(authsvc.RequireUser(m.sessions))

	r.Get("/current", m.current)
	r.Put("/current", m.update)
	r.Put("/change-password", m.changePassword)

	return r
}

func (m *Module) current(w http.ResponseWriter, r *http.Request) {
	user, ok := authsvc.UserFromContext(r.Context())
	if !ok {
		core.Error(w, core.ErrUnauthorized)
		return
	}

	core.Success(w, http.StatusOK, "", user)
}

func (m *Module) update(w http.ResponseWriter, r *http.Request) {
	user, ok := authsvc.UserFromContext(r.Context())
	if !ok {
		core.Error(w, core.ErrUnauthorized)
		return
	}

	var params usersvc.UpdateParams
	if err := core.DecodeJSON(w, r, &params); err != nil {
		core.Error(w, err)
		return
	}

	updated, err := m.svc.UpdateUser(r.Context(), user.ID, params)
	if err != nil {
		core.Error(w, mapError(err))
		return
	}

	core.Success(w, http.StatusOK, "user updated successfully", updated)
}

func (m *Module) changePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := authsvc.UserFromContext(r.Context())
	if !ok {
		core.Error(w, core.ErrUnauthorized)
		return
	}

	var params usersvc.ChangePasswordParams
	if err := core.DecodeJSON(w, r, &params); err != nil {
		core.Error(w, err)
		return
	}

	if err := m.svc.ChangePassword(r.Context(), user.ID, params); err != nil {
		core.Error(w, mapError(err))
		return
	}

	core.Success(w, http.StatusOK, "password changed successfully", nil)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, authsvc.ErrUserNotFound):
		return core.ErrNotFound.WithMessage(err.Error())
	case errors.Is(err, authsvc.ErrPhoneAlreadyExists):
		return core.ErrConflict.WithMessage(err.Error())
	case errors.Is(err, authsvc.ErrInvalidCurrentPassword):
		return core.ErrUnauthorized.WithMessage(err.Error())
	case errors.Is(err, authsvc.ErrPasswordMismatch):
		return core.ErrBadRequest.WithMessage(err.Error())
	default:
		return err
	}
}
