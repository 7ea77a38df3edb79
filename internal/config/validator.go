package config

import (
	"fmt"
	"strings"
)

// Validator validates configuration values
type Validator struct{}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAPIKey validates an API key format
func (v *Validator) ValidateAPIKey(key string, provider string) error {
	if key == "" {
		return fmt.Errorf("%s API key cannot be empty", provider)
	}

	switch provider {
	case "anthropic":
		if !strings.HasPrefix(key, "sk-ant-") {
			return fmt.Errorf("invalid Anthropic API key format (should start with sk-ant-)")
		}
	case "openai":
		if !strings.HasPrefix(key, "sk-") {
			return fmt.Errorf("invalid OpenAI API key format (should start with sk-)")
		}
	}

	return nil
}

// ValidateModel validates a model name
func (v *Validator) ValidateModel(model string) error {
	if model == "" {
		return fmt.Errorf("model name cannot be empty")
	}
	return nil
}

// ValidateTemperature validates temperature value
func (v *Validator) ValidateTemperature(temp float64) error {
	if temp < 0 || temp > 1 {
		return fmt.Errorf("temperature must be between 0 and 1, got %f", temp)
	}
	return nil
}

// ValidateMaxTokens validates max tokens value
func (v *Validator) ValidateMaxTokens(tokens int) error {
	if tokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", tokens)
	}
	if tokens > 200000 {
		return fmt.Errorf("max tokens too large (max 200000), got %d", tokens)
	}
	return nil
}

// ValidateConfidence validates a confidence threshold
func (v *Validator) ValidateConfidence(confidence float64) error {
	if confidence < 0 || confidence > 1 {
		return fmt.Errorf("confidence must be between 0 and 1, got %f", confidence)
	}
	return nil
}

// ValidateLogLevel validates log level
func (v *Validator) ValidateLogLevel(level string) error {
	validLevels := []string{"debug", "info", "warn", "error"}
	for _, valid := range validLevels {
		if level == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid log level: %s (must be one of: %s)", level, strings.Join(validLevels, ", "))
}

// ValidateConfig performs comprehensive validation
func (v *Validator) ValidateConfig(cfg *Config) []error {
	var errors []error

	// Validate AI profiles (canonical source)
	for i, profile := range cfg.AI.Profiles {
		if profile.Provider != "" {
			if err := v.ValidateAPIKey(profile.APIKey, profile.Provider); err != nil {
				errors = append(errors, fmt.Errorf("AI profile %d (%s): %w", i, profile.ID, err))
			}
		}
	}

	// Validate classifier
	if err := v.ValidateModel(cfg.Classifier.Model); err != nil {
		errors = append(errors, fmt.Errorf("classifier: %w", err))
	}
	if err := v.ValidateConfidence(cfg.Classifier.MinConfidence); err != nil {
		errors = append(errors, fmt.Errorf("classifier: %w", err))
	}
	if cfg.Classifier.Temperature != 0 {
		if err := v.ValidateTemperature(cfg.Classifier.Temperature); err != nil {
			errors = append(errors, fmt.Errorf("classifier: %w", err))
		}
	}
	if cfg.Classifier.MaxTokens != 0 {
		if err := v.ValidateMaxTokens(cfg.Classifier.MaxTokens); err != nil {
			errors = append(errors, fmt.Errorf("classifier: %w", err))
		}
	}

	// Validate extractor
	if err := v.ValidateModel(cfg.Extractor.Model); err != nil {
		errors = append(errors, fmt.Errorf("extractor: %w", err))
	}
	if cfg.Extractor.MaxTokens != 0 {
		if err := v.ValidateMaxTokens(cfg.Extractor.MaxTokens); err != nil {
			errors = append(errors, fmt.Errorf("extractor: %w", err))
		}
	}

	// Validate history
	if cfg.History.MaxTurns < 0 {
		errors = append(errors, fmt.Errorf("history max_turns must be >= 0"))
	}

	// Validate metrics
	if cfg.Metrics.Enabled && cfg.Metrics.Addr == "" {
		errors = append(errors, fmt.Errorf("metrics addr is required when metrics are enabled"))
	}

	// Validate logging
	if err := v.ValidateLogLevel(cfg.Logging.Level); err != nil {
		errors = append(errors, err)
	}

	return errors
}
