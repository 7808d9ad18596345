package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorlyhq/tutorly/pkg/config"
)

type serverTestConfig struct {
	Addr    string `env:"TEST_SERVER_ADDR" envDefault:":8080"`
	Workers int    `env:"TEST_SERVER_WORKERS" envDefault:"4"`
}

type authTestConfig struct {
	Secret string `env:"TEST_AUTH_SECRET,required"`
	TTL    int    `env:"TEST_AUTH_TTL" envDefault:"30"`
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults when variables are unset", func(t *testing.T) {
		var cfg serverTestConfig
		err := config.Load(&cfg)
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, 4, cfg.Workers)
	})

	t.Run("returns cached value on repeated load", func(t *testing.T) {
		var first serverTestConfig
		require.NoError(t, config.Load(&first))

		// Changing the environment after the first load must not change the result.
		t.Setenv("TEST_SERVER_ADDR", ":9999")

		var second serverTestConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, first, second)
	})

	t.Run("fails on missing required variable", func(t *testing.T) {
		var cfg authTestConfig
		err := config.Load(&cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("rejects nil pointer", func(t *testing.T) {
		err := config.Load[serverTestConfig](nil)
		assert.ErrorIs(t, err, config.ErrNilPointer)
	})
}

func TestMustLoadPanics(t *testing.T) {
	assert.Panics(t, func() {
		var cfg authTestConfig
		config.MustLoad(&cfg)
	})
}
