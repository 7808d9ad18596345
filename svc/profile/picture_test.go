package profile_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tutorlyhq/tutorly/core"
	"github.com/tutorlyhq/tutorly/pkg/file"
	"github.com/tutorlyhq/tutorly/svc/profile"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

func multipartFile(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("picture", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["picture"][0]
}

func TestUploadPicture(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()

	t.Run("saves picture and updates profile", func(t *testing.T) {
		t.Parallel()

		p := completeProfile(userID)
		storage := new(MockStorage)
		storage.On("GetProfileByUserID", ctx, userID).Return(p, nil)
		storage.On("UpdateProfile", ctx, p).Return(nil)

		files := new(MockFileStorage)
		files.On("Save", ctx, mock.Anything, mock.MatchedBy(func(path string) bool {
			return assert.Contains(t, path, "profiles/"+userID.String()+"/")
		})).Return(&file.File{Filename: "avatar.png", Size: int64(len(pngHeader))}, nil)
		files.On("URL", mock.AnythingOfType("string")).Return("/media/avatar.png")

		svc := profile.NewService(storage, profile.WithFileStorage(files))
		updated, err := svc.UploadPicture(ctx, userID, multipartFile(t, "avatar.png", pngHeader))
		require.NoError(t, err)
		assert.Equal(t, "/media/avatar.png", updated.ProfilePicture)
		files.AssertExpectations(t)
	})

	t.Run("non-image rejected", func(t *testing.T) {
		t.Parallel()

		svc := profile.NewService(new(MockStorage), profile.WithFileStorage(new(MockFileStorage)))
		_, err := svc.UploadPicture(ctx, userID, multipartFile(t, "notes.txt", []byte("plain text content")))
		assert.ErrorIs(t, err, core.ErrUnsupportedMediaType)
	})

	t.Run("oversized upload rejected", func(t *testing.T) {
		t.Parallel()

		big := append([]byte{}, pngHeader...)
		big = append(big, bytes.Repeat([]byte{0}, 6<<20)...)

		svc := profile.NewService(new(MockStorage), profile.WithFileStorage(new(MockFileStorage)))
		_, err := svc.UploadPicture(ctx, userID, multipartFile(t, "avatar.png", big))
		assert.ErrorIs(t, err, core.ErrRequestEntityTooLarge)
	})

	t.Run("missing profile", func(t *testing.T) {
		t.Parallel()

		storage := new(MockStorage)
		storage.On("GetProfileByUserID", ctx, userID).Return(nil, profile.ErrProfileNotFound)

		svc := profile.NewService(storage, profile.WithFileStorage(new(MockFileStorage)))
		_, err := svc.UploadPicture(ctx, userID, multipartFile(t, "avatar.png", pngHeader))
		assert.ErrorIs(t, err, profile.ErrProfileNotFound)
	})
}
