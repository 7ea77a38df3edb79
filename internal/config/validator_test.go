package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAPIKey(t *testing.T) {
	v := NewValidator()

	t.Run("valid anthropic key", func(t *testing.T) {
		err := v.ValidateAPIKey("sk-ant-test123", "anthropic")
		assert.NoError(t, err)
	})

	t.Run("invalid anthropic key", func(t *testing.T) {
		err := v.ValidateAPIKey("invalid-key", "anthropic")
		assert.Error(t, err)
	})

	t.Run("valid openai key", func(t *testing.T) {
		err := v.ValidateAPIKey("sk-test123", "openai")
		assert.NoError(t, err)
	})

	t.Run("invalid openai key", func(t *testing.T) {
		err := v.ValidateAPIKey("invalid-key", "openai")
		assert.Error(t, err)
	})

	t.Run("empty key", func(t *testing.T) {
		err := v.ValidateAPIKey("", "anthropic")
		assert.Error(t, err)
	})
}

func TestValidateModel(t *testing.T) {
	v := NewValidator()

	t.Run("any model name", func(t *testing.T) {
		err := v.ValidateModel("claude-3-5-haiku-20241022")
		assert.NoError(t, err)
	})

	t.Run("empty model", func(t *testing.T) {
		err := v.ValidateModel("")
		assert.Error(t, err)
	})
}

func TestValidateTemperature(t *testing.T) {
	v := NewValidator()

	t.Run("valid temperature", func(t *testing.T) {
		err := v.ValidateTemperature(0.7)
		assert.NoError(t, err)
	})

	t.Run("too low", func(t *testing.T) {
		err := v.ValidateTemperature(-0.1)
		assert.Error(t, err)
	})

	t.Run("too high", func(t *testing.T) {
		err := v.ValidateTemperature(1.1)
		assert.Error(t, err)
	})
}

func TestValidateMaxTokens(t *testing.T) {
	v := NewValidator()

	t.Run("valid tokens", func(t *testing.T) {
		err := v.ValidateMaxTokens(4096)
		assert.NoError(t, err)
	})

	t.Run("zero tokens", func(t *testing.T) {
		err := v.ValidateMaxTokens(0)
		assert.Error(t, err)
	})

	t.Run("negative tokens", func(t *testing.T) {
		err := v.ValidateMaxTokens(-100)
		assert.Error(t, err)
	})

	t.Run("too many tokens", func(t *testing.T) {
		err := v.ValidateMaxTokens(300000)
		assert.Error(t, err)
	})
}

func TestValidateConfidence(t *testing.T) {
	v := NewValidator()

	t.Run("valid confidence", func(t *testing.T) {
		err := v.ValidateConfidence(0.6)
		assert.NoError(t, err)
	})

	t.Run("out of range", func(t *testing.T) {
		assert.Error(t, v.ValidateConfidence(-0.1))
		assert.Error(t, v.ValidateConfidence(1.1))
	})
}

func TestValidateLogLevel(t *testing.T) {
	v := NewValidator()

	t.Run("valid levels", func(t *testing.T) {
		levels := []string{"debug", "info", "warn", "error"}
		for _, level := range levels {
			err := v.ValidateLogLevel(level)
			assert.NoError(t, err, "level %s should be valid", level)
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		err := v.ValidateLogLevel("invalid")
		assert.Error(t, err)
	})
}

func TestValidateConfig(t *testing.T) {
	v := NewValidator()

	t.Run("valid config", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.AI.Profiles = []AIProfile{testProfile()}

		errors := v.ValidateConfig(cfg)
		assert.Empty(t, errors)
	})

	t.Run("multiple errors", func(t *testing.T) {
		cfg := DefaultConfig()
		profile := testProfile()
		profile.APIKey = "invalid-key"
		cfg.AI.Profiles = []AIProfile{profile}
		cfg.Classifier.MinConfidence = 2
		cfg.Logging.Level = "invalid"

		errors := v.ValidateConfig(cfg)
		assert.NotEmpty(t, errors)
		assert.GreaterOrEqual(t, len(errors), 3)
	})
}
