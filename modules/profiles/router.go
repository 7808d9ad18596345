package profiles

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tutorlyhq/tutorly/core"
	authsvc "github.com/tutorlyhq/tutorly/svc/auth"
	profilesvc "github.com/tutorlyhq/tutorly/svc/profile"
)

// maxUploadBytes bounds the multipart form parse for picture uploads. Slightly
// above the service's 5MB picture cap to leave room for form overhead.
const maxUploadBytes = 6 << 20

// Module exposes the tutor profile endpoints. Reads are public; mutations
// require a valid bearer token and pass the ownership guard in the service.
type Module struct {
	svc      *profilesvc.Service
	sessions *authsvc.Service
}

// New creates the profiles HTTP module.
func New(svc *profilesvc.Service, sessions *authsvc.Service) *Module {
	return &Module{svc: svc, sessions: sessions}
}

// Router mounts the module's routes.
func (m *Module) Router() http.Handler {
	r := chi.NewRouter()

	// Public reads
	r.Get("/", m.list)
	r.Get("/search", m.search)
	r.Get("/{id}", m.getByID)
	r.Get("/user/{id}", m.getByUserID)

	// Authenticated mutations
	r.Group(func(r chi.Router) {
		r.Use(authsvc.RequireUser(m.sessions))

		r.Post("/", m.create)
		r.Get("/current", m.current)
		r.Put("/current", m.updateCurrent)
		r.Delete("/current", m.deleteCurrent)
		r.Post("/current/picture", m.uploadPicture)
		r.Put("/{id}", m.update)
		r.Delete("/{id}", m.delete)
	})

	return r
}

func (m *Module) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := profilesvc.Filter{
		Subject:        q.Get("subject"),
		Level:          q.Get("level"),
		TeachingMethod: q.Get("teachingMethod"),
		Location:       q.Get("location"),
		Gender:         q.Get("gender"),
		Page:           queryInt(q.Get("page")),
		PerPage:        queryInt(q.Get("perPage")),
	}

	page, err := m.svc.List(r.Context(), filter)
	if err != nil {
		core.Error(w, mapError(err))
		return
	}

	core.Success(w, http.StatusOK, "", page)
}

func (m *Module) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := m.svc.Search(r.Context(), q.Get("q"), queryInt(q.Get("page")), queryInt(q.Get("perPage")))
	if err != nil {
		core.Error(w, mapError(err))
		return
	}

	core.Success(w, http.StatusOK, "", page)
}

func (m *Module) getByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, core.ErrBadRequest.WithMessage("invalid profile id"))
		return
	}

	p, err := m.svc.GetByID(r.Context(), id)
	if err != nil {
		core.Error(w, mapError(err))
		return
	}

	core.Success(w, http.StatusOK, "", p)
}

func (m *Module) getByUserID(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, core.ErrBadRequest.WithMessage("invalid user id"))
		return
	}

	p, err := m.svc.GetByUserID(r.Context(), userID)
	if err != nil {
		core.Error(w, mapError(err))
		return
	}

	core.Success(w, http.StatusOK, "", p)
}

func (m *Module) current(w http.ResponseWriter, r *http.Request) {
	user, ok := authsvc.UserFromContext(r.Context())
	if !ok {
		core.Error(w, core.ErrUnauthorized)
		return
	}

	p, err := m.svc.GetByUserID(r.Context(), user.ID)
	if err != nil {
		core.Error(w, mapError(err))
		return
	}

	core.Success(w, http.StatusOK, "", p)
}

func (m *Module) create(w http.ResponseWriter, r *http.Request) {
	user, ok := authsvc.UserFromContext(r.Context())
	if !ok {
		core.Error(w, core.ErrUnauthorized)
		return
	}

	var params profilesvc.Params
	if err := core.DecodeJSON(w, r, &params); err != nil {
		core.Error(w, err)
		return
	}

	p, err := m.svc.Create(r.Context(), user.ID, params)
	if err != nil {
		core.Error(w, mapError(err))
		return
	}

	core.Success(w, http.StatusCreated, "profile created successfully", p)
}

func (m *Module) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, core.ErrBadRequest.WithMessage("invalid profile id"))
		return
	}
	m.updateByID(w, r, id)
}

func (m *Module) updateCurrent(w http.ResponseWriter, r *http.Request) {
	user, ok := authsvc.UserFromContext(r.Context())
	if !ok {
		core.Error(w, core.ErrUnauthorized)
		return
	}

	p, err := m.svc.GetByUserID(r.Context(), user.ID)
	if err != nil {
		core.Error(w, mapError(err))
		return
	}
	m.updateByID(w, r, p.ID)
}

func (m *Module) updateByID(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	user, ok := authsvc.UserFromContext(r.Context())
	if !ok {
		core.Error(w, core.ErrUnauthorized)
		return
	}

	var params profilesvc.Params
	if err := core.DecodeJSON(w, r, &params); err != nil {
		core.Error(w, err)
		return
	}

	p, err := m.svc.Update(r.Context(), id, user.ID, params)
	if err != nil {
		core.Error(w, mapError(err))
		return
	}

	core.Success(w, http.StatusOK, "profile updated successfully", p)
}

func (m *Module) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, core.ErrBadRequest.WithMessage("invalid profile id"))
		return
	}
	m.deleteByID(w, r, id)
}

func (m *Module) deleteCurrent(w http.ResponseWriter, r *http.Request) {
	user, ok := authsvc.UserFromContext(r.Context())
	if !ok {
		core.Error(w, core.ErrUnauthorized)
		return
	}

	p, err := m.svc.GetByUserID(r.Context(), user.ID)
	if err != nil {
		core.Error(w, mapError(err))
		return
	}
	m.deleteByID(w, r, p.ID)
}

func (m *Module) deleteByID(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	user, ok := authsvc.UserFromContext(r.Context())
	if !ok {
		core.Error(w, core.ErrUnauthorized)
		return
	}

	if err := m.svc.Delete(r.Context(), id, user.ID); err != nil {
		core.Error(w, mapError(err))
		return
	}

	core.Success(w, http.StatusOK, "profile deleted successfully", nil)
}

func (m *Module) uploadPicture(w http.ResponseWriter, r *http.Request) {
	user, ok := authsvc.UserFromContext(r.Context())
	if !ok {
		core.Error(w, core.ErrUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			core.Error(w, core.ErrRequestEntityTooLarge.WithMessage("picture must be at most 5MB"))
			return
		}
		core.Error(w, core.ErrBadRequest.WithMessage("invalid multipart form"))
		return
	}

	files := r.MultipartForm.File["picture"]
	if len(files) == 0 {
		core.Error(w, core.ErrBadRequest.WithMessage("picture file is required"))
		return
	}

	p, err := m.svc.UploadPicture(r.Context(), user.ID, files[0])
	if err != nil {
		core.Error(w, mapError(err))
		return
	}

	core.Success(w, http.StatusOK, "profile picture updated successfully", p)
}

func queryInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func mapError(err error) error {
	switch {
	case errors.Is(err, profilesvc.ErrProfileNotFound):
		return core.ErrNotFound.WithMessage(err.Error())
	case errors.Is(err, profilesvc.ErrProfileExists):
		return core.ErrConflict.WithMessage(err.Error())
	case errors.Is(err, profilesvc.ErrForbidden):
		return core.ErrForbidden.WithMessage("you do not own this profile")
	default:
		return err
	}
}
