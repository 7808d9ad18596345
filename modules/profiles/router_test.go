package profiles_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tutorlyhq/tutorly/core"
	"github.com/tutorlyhq/tutorly/modules/profiles"
	"github.com/tutorlyhq/tutorly/pkg/jwt"
	authsvc "github.com/tutorlyhq/tutorly/svc/auth"
	profilesvc "github.com/tutorlyhq/tutorly/svc/profile"
)

// memUsers backs the auth service with just enough storage for token checks.
type memUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*authsvc.User
}

func (s *memUsers) CreateUser(context.Context, *authsvc.User, []byte) error { return nil }

func (s *memUsers) GetUserByID(_ context.Context, id uuid.UUID) (*authsvc.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, authsvc.ErrUserNotFound
}

func (s *memUsers) GetUserByEmail(context.Context, string) (*authsvc.User, error) {
	return nil, authsvc.ErrUserNotFound
}

func (s *memUsers) GetUserByPhone(context.Context, string) (*authsvc.User, error) {
	return nil, authsvc.ErrUserNotFound
}

func (s *memUsers) GetPasswordHash(context.Context, uuid.UUID) ([]byte, error) {
	return nil, authsvc.ErrUserNotFound
}

func (s *memUsers) UpdatePasswordHash(context.Context, uuid.UUID, []byte) error { return nil }

// memProfiles is an in-memory profile storage for router-level tests.
type memProfiles struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*profilesvc.Profile
}

func newMemProfiles() *memProfiles {
	return &memProfiles{profiles: make(map[uuid.UUID]*profilesvc.Profile)}
}

func (s *memProfiles) CreateProfile(_ context.Context, p *profilesvc.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.profiles {
		if existing.UserID == p.UserID {
			return profilesvc.ErrProfileExists
		}
	}
	cp := *p
	s.profiles[p.ID] = &cp
	return nil
}

func (s *memProfiles) GetProfileByID(_ context.Context, id uuid.UUID) (*profilesvc.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.profiles[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, profilesvc.ErrProfileNotFound
}

func (s *memProfiles) GetProfileByUserID(_ context.Context, userID uuid.UUID) (*profilesvc.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, profilesvc.ErrProfileNotFound
}

func (s *memProfiles) UpdateProfile(_ context.Context, p *profilesvc.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[p.ID]; !ok {
		return profilesvc.ErrProfileNotFound
	}
	cp := *p
	s.profiles[p.ID] = &cp
	return nil
}

func (s *memProfiles) DeleteProfile(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[id]; !ok {
		return profilesvc.ErrProfileNotFound
	}
	delete(s.profiles, id)
	return nil
}

func (s *memProfiles) ListProfiles(_ context.Context, _ profilesvc.Filter) ([]profilesvc.Profile, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []profilesvc.Profile{}
	for _, p := range s.profiles {
		if p.IsComplete() {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (s *memProfiles) SearchProfiles(_ context.Context, _ string, _, _ int) ([]profilesvc.Profile, int64, error) {
	return []profilesvc.Profile{}, 0, nil
}

type fixture struct {
	router   http.Handler
	sessions *authsvc.Service
	users    *memUsers
	store    *memProfiles
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	jwtService, err := jwt.NewFromString("test-signing-key-at-least-32-bytes!!")
	require.NoError(t, err)

	users := &memUsers{users: make(map[uuid.UUID]*authsvc.User)}
	sessions := authsvc.NewService(users, jwtService, authsvc.WithBcryptCost(bcrypt.MinCost))
	store := newMemProfiles()
	svc := profilesvc.NewService(store)

	return &fixture{
		router:   profiles.New(svc, sessions).Router(),
		sessions: sessions,
		users:    users,
		store:    store,
	}
}

func (f *fixture) addUser(t *testing.T, email string) (*authsvc.User, string) {
	t.Helper()

	user := &authsvc.User{ID: uuid.New(), Email: email}
	f.users.mu.Lock()
	f.users.users[user.ID] = user
	f.users.mu.Unlock()

	session, err := f.sessions.IssueSession(user)
	require.NoError(t, err)
	return user, session.AccessToken
}

func (f *fixture) do(t *testing.T, method, target, token, body string) (*httptest.ResponseRecorder, core.JSONResponse) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var resp core.JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

const validProfileBody = `{"bio":"Math tutor","subjects":["math"],"levels":["university"],"teachingMethod":"online","location":"Tunis","hourlyRate":40}`

func TestProfileEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("create requires authentication", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		rec, _ := f.do(t, http.MethodPost, "/", "", validProfileBody)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("create, read, second create conflicts", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		user, token := f.addUser(t, "tutor@example.com")

		rec, resp := f.do(t, http.MethodPost, "/", token, validProfileBody)
		require.Equal(t, http.StatusCreated, rec.Code)
		profileID := resp.Data.(map[string]any)["id"].(string)

		// Public read by profile id and by user id
		rec, _ = f.do(t, http.MethodGet, "/"+profileID, "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		rec, _ = f.do(t, http.MethodGet, "/user/"+user.ID.String(), "", "")
		assert.Equal(t, http.StatusOK, rec.Code)

		// Own profile
		rec, _ = f.do(t, http.MethodGet, "/current", token, "")
		assert.Equal(t, http.StatusOK, rec.Code)

		rec, _ = f.do(t, http.MethodPost, "/", token, validProfileBody)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("cross-user update is forbidden, missing profile is not found", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		_, ownerToken := f.addUser(t, "owner@example.com")
		_, strangerToken := f.addUser(t, "stranger@example.com")

		rec, resp := f.do(t, http.MethodPost, "/", ownerToken, validProfileBody)
		require.Equal(t, http.StatusCreated, rec.Code)
		profileID := resp.Data.(map[string]any)["id"].(string)

		rec, _ = f.do(t, http.MethodPut, "/"+profileID, strangerToken, validProfileBody)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec, _ = f.do(t, http.MethodDelete, "/"+profileID, strangerToken, "")
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec, _ = f.do(t, http.MethodPut, "/"+uuid.NewString(), strangerToken, validProfileBody)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		// Owner can still mutate
		rec, _ = f.do(t, http.MethodPut, "/"+profileID, ownerToken, validProfileBody)
		assert.Equal(t, http.StatusOK, rec.Code)
		rec, _ = f.do(t, http.MethodDelete, "/"+profileID, ownerToken, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("oversized picture upload returns 413", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		_, token := f.addUser(t, "tutor@example.com")

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("picture", "huge.png")
		require.NoError(t, err)
		_, err = part.Write(bytes.Repeat([]byte("a"), 7<<20))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/current/picture", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("list rejects bad filter values", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		rec, _ := f.do(t, http.MethodGet, "/?teachingMethod=carrier+pigeon", "", "")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}
