package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorlyhq/tutorly/pkg/validator"
)

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("all rules pass", func(t *testing.T) {
		t.Parallel()

		err := validator.Apply(
			validator.Required("email", "tutor@example.com"),
			validator.MinLen("password", "supersecret", 8),
		)
		assert.NoError(t, err)
	})

	t.Run("collects all failures", func(t *testing.T) {
		t.Parallel()

		err := validator.Apply(
			validator.Required("email", ""),
			validator.MinLen("password", "abc", 8),
		)
		require.Error(t, err)

		ve := validator.ExtractValidationErrors(err)
		require.Len(t, ve, 2)
		assert.True(t, ve.Has("email"))
		assert.True(t, ve.Has("password"))
		assert.Equal(t, []string{"field is required"}, ve.Get("email"))
	})

	t.Run("IsValidationError", func(t *testing.T) {
		t.Parallel()

		err := validator.Apply(validator.Required("email", ""))
		assert.True(t, validator.IsValidationError(err))
		assert.False(t, validator.IsValidationError(validator.ErrValidationFailed))
		assert.False(t, validator.IsValidationError(nil))
	})
}

func TestFormatRules(t *testing.T) {
	t.Parallel()

	t.Run("email", func(t *testing.T) {
		t.Parallel()

		valid := []string{"tutor@example.com", "first.last@sub.domain.org"}
		for _, v := range valid {
			assert.NoError(t, validator.Apply(validator.ValidEmail("email", v)), v)
		}

		invalid := []string{"", "not-an-email", "missing@domain", "@example.com", "a@.com"}
		for _, v := range invalid {
			assert.Error(t, validator.Apply(validator.ValidEmail("email", v)), v)
		}
	})

	t.Run("phone", func(t *testing.T) {
		t.Parallel()

		valid := []string{"+21612345678", "+1 415 555 0100", "12345678"}
		for _, v := range valid {
			assert.NoError(t, validator.Apply(validator.ValidPhone("phoneNumber", v)), v)
		}

		invalid := []string{"", "123", "phone", "+0123456"}
		for _, v := range invalid {
			assert.Error(t, validator.Apply(validator.ValidPhone("phoneNumber", v)), v)
		}
	})
}

func TestPasswordRules(t *testing.T) {
	t.Parallel()

	cfg := validator.DefaultPasswordStrength()

	t.Run("strong password accepted", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, validator.Apply(validator.StrongPassword("password", "Sup3rSecret!", cfg)))
	})

	t.Run("too short rejected", func(t *testing.T) {
		t.Parallel()

		assert.Error(t, validator.Apply(validator.StrongPassword("password", "Ab1", cfg)))
	})

	t.Run("over bcrypt limit rejected", func(t *testing.T) {
		t.Parallel()

		long := make([]byte, 80)
		for i := range long {
			long[i] = 'a'
		}
		assert.Error(t, validator.Apply(validator.StrongPassword("password", "A1"+string(long), cfg)))
	})

	t.Run("common password rejected", func(t *testing.T) {
		t.Parallel()

		assert.Error(t, validator.Apply(validator.NotCommonPassword("password", "Password123")))
		assert.NoError(t, validator.Apply(validator.NotCommonPassword("password", "xK9#mQ2$vL5p")))
	})
}

func TestChoiceAndUUIDRules(t *testing.T) {
	t.Parallel()

	t.Run("enum", func(t *testing.T) {
		t.Parallel()

		methods := []string{"online", "in person", "hybrid"}
		assert.NoError(t, validator.Apply(validator.ValidEnum("teachingMethod", "online", methods)))
		assert.Error(t, validator.Apply(validator.ValidEnum("teachingMethod", "telepathy", methods)))
	})

	t.Run("uuid", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, validator.Apply(validator.ValidUUID("id", "0f8fad5b-d9cb-469f-a165-70867728950e")))
		assert.Error(t, validator.Apply(validator.ValidUUID("id", "not-a-uuid")))
		assert.Error(t, validator.Apply(validator.ValidUUID("id", "")))
	})

	t.Run("numeric bounds", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, validator.Apply(validator.Min("hourlyRate", 25.0, 0.0)))
		assert.Error(t, validator.Apply(validator.Min("hourlyRate", -5.0, 0.0)))
		assert.NoError(t, validator.Apply(validator.Max("yearsOfExperience", 12, 80)))
	})
}
