package profile_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tutorlyhq/tutorly/pkg/validator"
	"github.com/tutorlyhq/tutorly/svc/profile"
)

func validParams() profile.Params {
	return profile.Params{
		Bio:               "Math tutor with a focus on exam preparation.",
		Degrees:           []string{"MSc Mathematics"},
		YearsOfExperience: 5,
		Subjects:          []string{"math", "physics"},
		Levels:            []string{profile.LevelHighSchool, profile.LevelUniversity},
		TeachingMethod:    profile.MethodHybrid,
		Location:          "Tunis",
		Gender:            profile.GenderFemale,
		HourlyRate:        40,
		Languages:         []string{"arabic", "french"},
	}
}

func emptyProfile(userID uuid.UUID) *profile.Profile {
	return &profile.Profile{ID: uuid.New(), UserID: userID}
}

func completeProfile(userID uuid.UUID) *profile.Profile {
	p := emptyProfile(userID)
	p.TeachingMethod = profile.MethodOnline
	p.Bio = "Existing bio"
	return p
}

func TestCreate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()

	t.Run("completes the empty row left by registration", func(t *testing.T) {
		t.Parallel()

		empty := emptyProfile(userID)
		storage := new(MockStorage)
		storage.On("GetProfileByUserID", ctx, userID).Return(empty, nil)
		storage.On("UpdateProfile", ctx, empty).Return(nil)

		svc := profile.NewService(storage)
		p, err := svc.Create(ctx, userID, validParams())
		require.NoError(t, err)
		assert.Equal(t, empty.ID, p.ID)
		assert.Equal(t, profile.MethodHybrid, p.TeachingMethod)
		assert.Equal(t, profile.DefaultCurrency, p.Currency)
		storage.AssertNotCalled(t, "CreateProfile", mock.Anything, mock.Anything)
	})

	t.Run("inserts when no row exists", func(t *testing.T) {
		t.Parallel()

		storage := new(MockStorage)
		storage.On("GetProfileByUserID", ctx, userID).Return(nil, profile.ErrProfileNotFound)
		storage.On("CreateProfile", ctx, mock.AnythingOfType("*profile.Profile")).Return(nil)

		svc := profile.NewService(storage)
		p, err := svc.Create(ctx, userID, validParams())
		require.NoError(t, err)
		assert.Equal(t, userID, p.UserID)
		assert.NotEqual(t, uuid.Nil, p.ID)
	})

	t.Run("second create conflicts", func(t *testing.T) {
		t.Parallel()

		storage := new(MockStorage)
		storage.On("GetProfileByUserID", ctx, userID).Return(completeProfile(userID), nil)

		svc := profile.NewService(storage)
		_, err := svc.Create(ctx, userID, validParams())
		assert.ErrorIs(t, err, profile.ErrProfileExists)
	})

	t.Run("invalid teaching method rejected", func(t *testing.T) {
		t.Parallel()

		params := validParams()
		params.TeachingMethod = "telepathy"

		storage := new(MockStorage)
		svc := profile.NewService(storage)
		_, err := svc.Create(ctx, userID, params)
		assert.True(t, validator.IsValidationError(err))
		storage.AssertNotCalled(t, "GetProfileByUserID", mock.Anything, mock.Anything)
	})

	t.Run("invalid level rejected", func(t *testing.T) {
		t.Parallel()

		params := validParams()
		params.Levels = []string{"kindergarten"}

		svc := profile.NewService(new(MockStorage))
		_, err := svc.Create(ctx, userID, params)
		assert.True(t, validator.IsValidationError(err))
	})
}

func TestOwnershipGuard(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()

	t.Run("update by non-owner is forbidden", func(t *testing.T) {
		t.Parallel()

		p := completeProfile(owner)
		storage := new(MockStorage)
		storage.On("GetProfileByID", ctx, p.ID).Return(p, nil)

		svc := profile.NewService(storage)
		_, err := svc.Update(ctx, p.ID, stranger, validParams())
		assert.ErrorIs(t, err, profile.ErrForbidden)
		storage.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything)
	})

	t.Run("missing profile is not found, not forbidden", func(t *testing.T) {
		t.Parallel()

		id := uuid.New()
		storage := new(MockStorage)
		storage.On("GetProfileByID", ctx, id).Return(nil, profile.ErrProfileNotFound)

		svc := profile.NewService(storage)
		_, err := svc.Update(ctx, id, stranger, validParams())
		assert.ErrorIs(t, err, profile.ErrProfileNotFound)

		err = svc.Delete(ctx, id, stranger)
		assert.ErrorIs(t, err, profile.ErrProfileNotFound)
	})

	t.Run("owner updates succeed", func(t *testing.T) {
		t.Parallel()

		p := completeProfile(owner)
		storage := new(MockStorage)
		storage.On("GetProfileByID", ctx, p.ID).Return(p, nil)
		storage.On("UpdateProfile", ctx, p).Return(nil)

		svc := profile.NewService(storage)
		updated, err := svc.Update(ctx, p.ID, owner, validParams())
		require.NoError(t, err)
		assert.Equal(t, profile.MethodHybrid, updated.TeachingMethod)
	})

	t.Run("delete by non-owner is forbidden", func(t *testing.T) {
		t.Parallel()

		p := completeProfile(owner)
		storage := new(MockStorage)
		storage.On("GetProfileByID", ctx, p.ID).Return(p, nil)

		svc := profile.NewService(storage)
		err := svc.Delete(ctx, p.ID, stranger)
		assert.ErrorIs(t, err, profile.ErrForbidden)
		storage.AssertNotCalled(t, "DeleteProfile", mock.Anything, mock.Anything)
	})

	t.Run("owner deletes succeed", func(t *testing.T) {
		t.Parallel()

		p := completeProfile(owner)
		storage := new(MockStorage)
		storage.On("GetProfileByID", ctx, p.ID).Return(p, nil)
		storage.On("DeleteProfile", ctx, p.ID).Return(nil)

		svc := profile.NewService(storage)
		require.NoError(t, svc.Delete(ctx, p.ID, owner))
		storage.AssertExpectations(t)
	})
}

func TestListAndSearch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("list clamps pagination", func(t *testing.T) {
		t.Parallel()

		storage := new(MockStorage)
		storage.On("ListProfiles", ctx, profile.Filter{Subject: "math", Page: 1, PerPage: 100}).
			Return([]profile.Profile{}, int64(0), nil)

		svc := profile.NewService(storage)
		page, err := svc.List(ctx, profile.Filter{Subject: "math", Page: 0, PerPage: 9999})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 100, page.PerPage)
	})

	t.Run("list rejects invalid enum filter", func(t *testing.T) {
		t.Parallel()

		svc := profile.NewService(new(MockStorage))
		_, err := svc.List(ctx, profile.Filter{TeachingMethod: "carrier pigeon"})
		assert.True(t, validator.IsValidationError(err))
	})

	t.Run("search requires a term", func(t *testing.T) {
		t.Parallel()

		svc := profile.NewService(new(MockStorage))
		_, err := svc.Search(ctx, "   ", 1, 20)
		assert.True(t, validator.IsValidationError(err))
	})

	t.Run("search passes normalized term through", func(t *testing.T) {
		t.Parallel()

		storage := new(MockStorage)
		storage.On("SearchProfiles", ctx, "math tutor", 1, 20).
			Return([]profile.Profile{{}}, int64(1), nil)

		svc := profile.NewService(storage)
		page, err := svc.Search(ctx, "  math   tutor ", 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
	})
}
