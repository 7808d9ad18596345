package file

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"slices"
	"strings"
)

// File represents stored file metadata.
type File struct {
	Filename     string
	Size         int64
	MIMEType     string
	Extension    string
	AbsolutePath string
	RelativePath string
}

// Storage interface for different backends.
type Storage interface {
	// Save stores a file and returns metadata.
	Save(ctx context.Context, fh *multipart.FileHeader, path string) (*File, error)
	// Delete removes a single file.
	Delete(ctx context.Context, path string) error
	// Exists checks if a file exists.
	Exists(ctx context.Context, path string) bool
	// URL returns the public URL for a file.
	URL(path string) string
}

var imageMIMETypes = map[string]bool{
	"image/jpeg":    true,
	"image/jpg":     true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
	"image/bmp":     true,
	"image/tiff":    true,
	"image/heic":    true,
	"image/heif":    true,
	"image/avif":    true,
}

// IsImage checks if the file is an image based on MIME type.
// Falls back to extension check if MIME type detection fails to handle cases
// where http.DetectContentType can't read the file or returns generic types.
// This dual validation prevents bypass attacks using renamed extensions.
func IsImage(fh *multipart.FileHeader) bool {
	if fh == nil {
		return false
	}

	mimeType, err := GetMIMEType(fh)
	if err == nil && mimeType != "" && imageMIMETypes[mimeType] {
		return true
	}

	// Fallback to extension check for files where MIME detection fails
	ext := strings.ToLower(GetExtension(fh))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".bmp", ".tiff", ".tif", ".heic", ".heif", ".avif":
		return true
	default:
		return false
	}
}

// GetExtension returns the file extension including the dot.
func GetExtension(fh *multipart.FileHeader) string {
	if fh == nil {
		return ""
	}
	return filepath.Ext(fh.Filename)
}

// GetMIMEType detects the MIME type by reading the file content.
// Uses http.DetectContentType which reads the first 512 bytes to identify file types
// based on magic bytes rather than trusting file extensions (prevents spoofing).
// Resets file position to allow subsequent reads of the same file.
func GetMIMEType(fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", ErrNilFileHeader
	}

	file, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToOpenFile, err)
	}
	defer func() { _ = file.Close() }()

	// 512 bytes is the maximum http.DetectContentType reads
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}

	// Reset file position for subsequent operations
	if seeker, ok := file.(io.Seeker); ok {
		_, _ = seeker.Seek(0, io.SeekStart)
	}

	return http.DetectContentType(buffer[:n]), nil
}

// ValidateSize checks if the file size is within the allowed limit.
// Note: For streamed uploads, FileHeader.Size may be 0. Storage implementations
// should perform actual size validation during upload to prevent DoS attacks
// from oversized files that bypass this check.
func ValidateSize(fh *multipart.FileHeader, maxBytes int64) error {
	if fh == nil {
		return ErrNilFileHeader
	}
	if fh.Size > maxBytes {
		return fmt.Errorf("file size %d bytes exceeds %d bytes limit: %w", fh.Size, maxBytes, ErrFileTooLarge)
	}
	return nil
}

// ValidateMIMEType checks if the file's MIME type is in the allowed list.
// Uses actual content detection to prevent MIME type spoofing attacks.
// Pass no types to allow all MIME types (useful for generic file storage).
func ValidateMIMEType(fh *multipart.FileHeader, allowedTypes ...string) error {
	if fh == nil {
		return ErrNilFileHeader
	}
	if len(allowedTypes) == 0 {
		return nil
	}

	mimeType, err := GetMIMEType(fh)
	if err != nil {
		return err
	}

	if slices.Contains(allowedTypes, mimeType) {
		return nil
	}

	return fmt.Errorf("MIME type %s not in allowed types %v: %w", mimeType, allowedTypes, ErrMIMETypeNotAllowed)
}

// SanitizeFilename removes any path components and dangerous characters from a filename
// to prevent path traversal attacks and other security issues.
// Returns "unnamed" for empty or special directory references.
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = filepath.Base(filename)
	filename = strings.ReplaceAll(filename, "\x00", "")

	if filename == "." || filename == ".." || filename == "" || filename == "/" {
		filename = "unnamed"
	}

	return filename
}
