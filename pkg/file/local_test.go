package file_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorlyhq/tutorly/pkg/file"
)

// pngHeader is a minimal valid PNG signature so MIME detection sees an image.
var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

func multipartFile(t *testing.T, fieldName, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(fieldName, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File[fieldName][0]
}

func TestLocalStorage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("save, exists, delete round trip", func(t *testing.T) {
		t.Parallel()

		storage, err := file.NewLocalStorage(t.TempDir(), "/media/")
		require.NoError(t, err)

		fh := multipartFile(t, "picture", "avatar.png", pngHeader)

		saved, err := storage.Save(ctx, fh, "profiles/abc/avatar.png")
		require.NoError(t, err)
		assert.Equal(t, "avatar.png", saved.Filename)
		assert.Equal(t, int64(len(pngHeader)), saved.Size)

		assert.True(t, storage.Exists(ctx, "profiles/abc/avatar.png"))

		require.NoError(t, storage.Delete(ctx, "profiles/abc/avatar.png"))
		assert.False(t, storage.Exists(ctx, "profiles/abc/avatar.png"))
	})

	t.Run("path traversal rejected", func(t *testing.T) {
		t.Parallel()

		storage, err := file.NewLocalStorage(t.TempDir(), "/media/")
		require.NoError(t, err)

		fh := multipartFile(t, "picture", "avatar.png", pngHeader)

		_, err = storage.Save(ctx, fh, "../../etc/passwd")
		assert.ErrorIs(t, err, file.ErrInvalidPath)
	})

	t.Run("delete missing file", func(t *testing.T) {
		t.Parallel()

		storage, err := file.NewLocalStorage(t.TempDir(), "/media/")
		require.NoError(t, err)

		err = storage.Delete(ctx, "does/not/exist.png")
		assert.ErrorIs(t, err, file.ErrFileNotFound)
	})

	t.Run("url", func(t *testing.T) {
		t.Parallel()

		storage, err := file.NewLocalStorage(t.TempDir(), "/media")
		require.NoError(t, err)

		assert.Equal(t, "/media/profiles/abc/avatar.png", storage.URL("profiles/abc/avatar.png"))
	})
}

func TestFileHelpers(t *testing.T) {
	t.Parallel()

	t.Run("is image", func(t *testing.T) {
		t.Parallel()

		assert.True(t, file.IsImage(multipartFile(t, "f", "avatar.png", pngHeader)))
		assert.False(t, file.IsImage(multipartFile(t, "f", "notes.txt", []byte("plain text content"))))
		assert.False(t, file.IsImage(nil))
	})

	t.Run("validate size", func(t *testing.T) {
		t.Parallel()

		fh := multipartFile(t, "f", "avatar.png", pngHeader)
		assert.NoError(t, file.ValidateSize(fh, 5<<20))
		assert.ErrorIs(t, file.ValidateSize(fh, 4), file.ErrFileTooLarge)
	})

	t.Run("sanitize filename", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "passwd", file.SanitizeFilename("../../../etc/passwd"))
		assert.Equal(t, "unnamed", file.SanitizeFilename(".."))
	})
}
