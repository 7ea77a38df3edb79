package config

import (
	"encoding/json"
	"fmt"
)

// Config represents the main Aria configuration
type Config struct {
	// AI provider credentials
	AI AIConfig `json:"ai" mapstructure:"ai"`

	// Intent classifier
	Classifier ClassifierConfig `json:"classifier" mapstructure:"classifier"`

	// Missing-info extractor
	Extractor ExtractorConfig `json:"extractor" mapstructure:"extractor"`

	// Dispatch pipeline
	Dispatch DispatchConfig `json:"dispatch" mapstructure:"dispatch"`

	// Conversation history store
	History HistoryConfig `json:"history" mapstructure:"history"`

	// Metrics endpoint
	Metrics MetricsConfig `json:"metrics" mapstructure:"metrics"`

	// Handlers
	Handlers HandlersConfig `json:"handlers" mapstructure:"handlers"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Data directory
	DataDir string `json:"data_dir" mapstructure:"data_dir"`
}

// AIConfig holds AI provider configuration
type AIConfig struct {
	Profiles []AIProfile `json:"profiles" mapstructure:"profiles"`
}

// AIProfile represents an AI provider profile
type AIProfile struct {
	ID       string `json:"id" mapstructure:"id"`
	Provider string `json:"provider" mapstructure:"provider"` // anthropic, openai
	APIKey   string `json:"api_key" mapstructure:"api_key"`
	Priority int    `json:"priority" mapstructure:"priority"`
}

// ClassifierConfig holds intent classifier configuration
type ClassifierConfig struct {
	Model          string  `json:"model" mapstructure:"model"`
	Temperature    float64 `json:"temperature" mapstructure:"temperature"`
	MaxTokens      int     `json:"max_tokens" mapstructure:"max_tokens"`
	MinConfidence  float64 `json:"min_confidence" mapstructure:"min_confidence"`
	ContextWindow  int     `json:"context_window" mapstructure:"context_window"`
	TimeoutSeconds int     `json:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// ExtractorConfig holds missing-info extractor configuration
type ExtractorConfig struct {
	Model       string  `json:"model" mapstructure:"model"`
	Temperature float64 `json:"temperature" mapstructure:"temperature"`
	MaxTokens   int     `json:"max_tokens" mapstructure:"max_tokens"`
}

// DispatchConfig holds dispatch pipeline configuration
type DispatchConfig struct {
	HandlerTimeoutSeconds int `json:"handler_timeout_seconds" mapstructure:"handler_timeout_seconds"`
	ContextWindow         int `json:"context_window" mapstructure:"context_window"`
}

// HistoryConfig holds conversation history configuration
type HistoryConfig struct {
	Path     string `json:"path" mapstructure:"path"`
	MaxTurns int    `json:"max_turns" mapstructure:"max_turns"`
}

// MetricsConfig holds metrics endpoint configuration
type MetricsConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Addr    string `json:"addr" mapstructure:"addr"`
}

// HandlersConfig holds per-handler configuration
type HandlersConfig struct {
	Music    MusicConfig    `json:"music" mapstructure:"music"`
	Reminder ReminderConfig `json:"reminder" mapstructure:"reminder"`
}

// MusicConfig holds music handler configuration
type MusicConfig struct {
	LibraryPath string `json:"library_path" mapstructure:"library_path"`
}

// ReminderConfig holds reminder handler configuration
type ReminderConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level     string `json:"level" mapstructure:"level"`
	File      string `json:"file" mapstructure:"file"`
	Console   bool   `json:"console" mapstructure:"console"`
	Pretty    bool   `json:"pretty" mapstructure:"pretty"`
	Redaction bool   `json:"redaction" mapstructure:"redaction"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		AI: AIConfig{
			Profiles: []AIProfile{},
		},
		Classifier: ClassifierConfig{
			Model:          "claude-3-5-haiku-20241022",
			Temperature:    0.1,
			MaxTokens:      512,
			MinConfidence:  0.6,
			ContextWindow:  10,
			TimeoutSeconds: 15,
		},
		Extractor: ExtractorConfig{
			Model:     "claude-3-5-haiku-20241022",
			MaxTokens: 256,
		},
		Dispatch: DispatchConfig{
			HandlerTimeoutSeconds: 60,
			ContextWindow:         30,
		},
		History: HistoryConfig{
			MaxTurns: 200,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    "127.0.0.1:9091",
		},
		Handlers: HandlersConfig{
			Reminder: ReminderConfig{Enabled: true},
		},
		Logging: LoggingConfig{
			Level:     "info",
			Console:   true,
			Pretty:    true,
			Redaction: true,
		},
		DataDir: "",
	}
}

// String returns a JSON representation of the config
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Require at least one AI profile
	if len(c.AI.Profiles) == 0 {
		return fmt.Errorf("no AI credentials configured: at least one AI profile is required")
	}

	// Validate AI profiles
	for i, profile := range c.AI.Profiles {
		if profile.ID == "" {
			return fmt.Errorf("AI profile %d: ID is required", i)
		}
		if profile.Provider == "" {
			return fmt.Errorf("AI profile %s: provider is required", profile.ID)
		}
		if profile.APIKey == "" {
			return fmt.Errorf("AI profile %s: api_key is required", profile.ID)
		}
		validProviders := []string{"anthropic", "openai"}
		valid := false
		for _, vp := range validProviders {
			if profile.Provider == vp {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("AI profile %s: invalid provider %s (must be: anthropic, openai)", profile.ID, profile.Provider)
		}
	}

	// Validate classifier
	if c.Classifier.MinConfidence < 0 || c.Classifier.MinConfidence > 1 {
		return fmt.Errorf("classifier min_confidence must be between 0 and 1, got %f", c.Classifier.MinConfidence)
	}
	if c.Classifier.ContextWindow < 0 {
		return fmt.Errorf("classifier context_window must be >= 0")
	}
	if c.Classifier.TimeoutSeconds <= 0 {
		return fmt.Errorf("classifier timeout_seconds must be positive")
	}

	// Validate dispatch
	if c.Dispatch.HandlerTimeoutSeconds <= 0 {
		return fmt.Errorf("dispatch handler_timeout_seconds must be positive")
	}
	if c.Dispatch.ContextWindow < 0 {
		return fmt.Errorf("dispatch context_window must be >= 0")
	}

	// Validate history
	if c.History.MaxTurns < 0 {
		return fmt.Errorf("history max_turns must be >= 0")
	}

	return nil
}
