package profile_test

import (
	"context"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/tutorlyhq/tutorly/pkg/file"
	"github.com/tutorlyhq/tutorly/svc/profile"
)

// MockStorage is a mock implementation of profile.Storage.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateProfile(ctx context.Context, p *profile.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockStorage) GetProfileByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

func (m *MockStorage) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

func (m *MockStorage) UpdateProfile(ctx context.Context, p *profile.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockStorage) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStorage) ListProfiles(ctx context.Context, filter profile.Filter) ([]profile.Profile, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]profile.Profile), args.Get(1).(int64), args.Error(2)
}

func (m *MockStorage) SearchProfiles(ctx context.Context, term string, page, perPage int) ([]profile.Profile, int64, error) {
	args := m.Called(ctx, term, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]profile.Profile), args.Get(1).(int64), args.Error(2)
}

// MockFileStorage is a mock implementation of profile.FileStorage.
type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) Save(ctx context.Context, fh *multipart.FileHeader, path string) (*file.File, error) {
	args := m.Called(ctx, fh, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*file.File), args.Error(1)
}

func (m *MockFileStorage) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *MockFileStorage) URL(path string) string {
	args := m.Called(path)
	return args.String(0)
}
