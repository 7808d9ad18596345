package user_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tutorlyhq/tutorly/pkg/validator"
	"github.com/tutorlyhq/tutorly/svc/auth"
	"github.com/tutorlyhq/tutorly/svc/user"
)

func TestUpdateUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()
	existing := func() *auth.User {
		return &auth.User{
			ID:          userID,
			Email:       "tutor@example.com",
			FirstName:   "Amina",
			LastName:    "Ben Salah",
			PhoneNumber: "+21612345678",
		}
	}

	t.Run("updates name and phone", func(t *testing.T) {
		t.Parallel()

		storage := new(MockStorage)
		storage.On("GetUserByID", ctx, userID).Return(existing(), nil)
		storage.On("GetUserByPhone", ctx, "+21687654321").Return(nil, auth.ErrUserNotFound)
		storage.On("UpdateUser", ctx, mock.AnythingOfType("*auth.User")).Return(nil)

		svc := user.NewService(storage)
		updated, err := svc.UpdateUser(ctx, userID, user.UpdateParams{
			FirstName:   "Leila",
			LastName:    "Trabelsi",
			PhoneNumber: "+21687654321",
		})
		require.NoError(t, err)
		assert.Equal(t, "Leila", updated.FirstName)
		assert.Equal(t, "+21687654321", updated.PhoneNumber)
		assert.Equal(t, "tutor@example.com", updated.Email)
		storage.AssertExpectations(t)
	})

	t.Run("keeping own phone skips the uniqueness check", func(t *testing.T) {
		t.Parallel()

		storage := new(MockStorage)
		storage.On("GetUserByID", ctx, userID).Return(existing(), nil)
		storage.On("UpdateUser", ctx, mock.Anything).Return(nil)

		svc := user.NewService(storage)
		_, err := svc.UpdateUser(ctx, userID, user.UpdateParams{
			FirstName:   "Amina",
			LastName:    "Ben Salah",
			PhoneNumber: "+21612345678",
		})
		require.NoError(t, err)
		storage.AssertNotCalled(t, "GetUserByPhone", mock.Anything, mock.Anything)
	})

	t.Run("phone taken by another account", func(t *testing.T) {
		t.Parallel()

		storage := new(MockStorage)
		storage.On("GetUserByID", ctx, userID).Return(existing(), nil)
		storage.On("GetUserByPhone", ctx, "+21687654321").
			Return(&auth.User{ID: uuid.New()}, nil)

		svc := user.NewService(storage)
		_, err := svc.UpdateUser(ctx, userID, user.UpdateParams{
			FirstName:   "Amina",
			LastName:    "Ben Salah",
			PhoneNumber: "+21687654321",
		})
		assert.ErrorIs(t, err, auth.ErrPhoneAlreadyExists)
		storage.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
	})

	t.Run("missing names rejected", func(t *testing.T) {
		t.Parallel()

		storage := new(MockStorage)
		svc := user.NewService(storage)
		_, err := svc.UpdateUser(ctx, userID, user.UpdateParams{})
		assert.True(t, validator.IsValidationError(err))
		storage.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
	})
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("old-Passw0rd"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		storage := new(MockStorage)
		storage.On("GetPasswordHash", ctx, userID).Return(hash, nil)
		storage.On("UpdatePasswordHash", ctx, userID, mock.AnythingOfType("[]uint8")).
			Run(func(args mock.Arguments) {
				newHash := args.Get(2).([]byte)
				assert.NoError(t, bcrypt.CompareHashAndPassword(newHash, []byte("new-Passw0rd")))
			}).
			Return(nil)

		svc := user.NewService(storage, user.WithBcryptCost(bcrypt.MinCost))
		err := svc.ChangePassword(ctx, userID, user.ChangePasswordParams{
			CurrentPassword: "old-Passw0rd",
			NewPassword:     "new-Passw0rd",
			ConfirmPassword: "new-Passw0rd",
		})
		require.NoError(t, err)
		storage.AssertExpectations(t)
	})

	t.Run("confirmation mismatch fails before storage", func(t *testing.T) {
		t.Parallel()

		storage := new(MockStorage)
		svc := user.NewService(storage)
		err := svc.ChangePassword(ctx, userID, user.ChangePasswordParams{
			CurrentPassword: "old-Passw0rd",
			NewPassword:     "new-Passw0rd",
			ConfirmPassword: "different-Passw0rd",
		})
		assert.ErrorIs(t, err, auth.ErrPasswordMismatch)
		storage.AssertNotCalled(t, "GetPasswordHash", mock.Anything, mock.Anything)
	})

	t.Run("wrong current password", func(t *testing.T) {
		t.Parallel()

		storage := new(MockStorage)
		storage.On("GetPasswordHash", ctx, userID).Return(hash, nil)

		svc := user.NewService(storage)
		err := svc.ChangePassword(ctx, userID, user.ChangePasswordParams{
			CurrentPassword: "not-the-0ld-one",
			NewPassword:     "new-Passw0rd",
			ConfirmPassword: "new-Passw0rd",
		})
		assert.ErrorIs(t, err, auth.ErrInvalidCurrentPassword)
		storage.AssertNotCalled(t, "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("weak new password rejected", func(t *testing.T) {
		t.Parallel()

		storage := new(MockStorage)
		svc := user.NewService(storage)
		err := svc.ChangePassword(ctx, userID, user.ChangePasswordParams{
			CurrentPassword: "old-Passw0rd",
			NewPassword:     "short",
			ConfirmPassword: "short",
		})
		assert.True(t, validator.IsValidationError(err))
	})
}
