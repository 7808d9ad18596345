package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tutorlyhq/tutorly/svc/auth"
)

func TestRequireUser(t *testing.T) {
	t.Parallel()

	user := &auth.User{ID: uuid.New(), Email: "tutor@example.com"}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := auth.UserFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, user.ID, got.ID)
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("valid bearer token passes with user in context", func(t *testing.T) {
		t.Parallel()

		storage := new(MockStorage)
		storage.On("GetUserByID", mock.Anything, user.ID).Return(user, nil)

		svc := newTestService(t, storage)
		session, err := svc.IssueSession(user)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/current", nil)
		req.Header.Set("Authorization", "Bearer "+session.AccessToken)

		auth.RequireUser(svc)(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("missing header is 401", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t, new(MockStorage))
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/current", nil)

		auth.RequireUser(svc)(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token is 401", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t, new(MockStorage))
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/current", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")

		auth.RequireUser(svc)(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
