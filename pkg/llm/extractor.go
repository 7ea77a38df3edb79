package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/junyi/aria/pkg/dispatch"
)

// ExtractorConfig configures the missing-info extractor.
type ExtractorConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// DefaultExtractorConfig returns default extractor configuration.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		Model:       "claude-3-5-haiku-20241022",
		Temperature: 0,
		MaxTokens:   256,
	}
}

// Extractor mines recent conversation turns for the parameter values a
// handler declared as missing. It implements dispatch.InfoExtractor.
type Extractor struct {
	provider Provider
	config   ExtractorConfig
	logger   zerolog.Logger
}

// NewExtractor creates an extractor backed by the given provider.
func NewExtractor(provider Provider, config ExtractorConfig, logger zerolog.Logger) *Extractor {
	if config.Model == "" {
		config = DefaultExtractorConfig()
	}
	return &Extractor{
		provider: provider,
		config:   config,
		logger:   logger,
	}
}

// Extract returns values for the missing keys that the conversation actually
// supports. Keys the context cannot answer are left out of the result; the
// extractor must never invent values.
func (e *Extractor) Extract(ctx context.Context, original string, turns dispatch.Conversation, missing map[string]string) (map[string]string, error) {
	if len(missing) == 0 {
		return nil, nil
	}

	resp, err := completeWithRetry(ctx, e.provider, Request{
		Model:        e.config.Model,
		SystemPrompt: e.systemPrompt(missing),
		Messages:     e.messages(original, turns),
		Temperature:  e.config.Temperature,
		MaxTokens:    e.config.MaxTokens,
	}, e.logger)
	if err != nil {
		return nil, fmt.Errorf("extraction call failed: %w", err)
	}

	payload := extractJSON(resp.Content)
	if payload == "" {
		e.logger.Debug().Str("content", resp.Content).Msg("Extractor returned no JSON")
		return nil, nil
	}

	var raw map[string]string
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		e.logger.Debug().Str("payload", payload).Msg("Extractor output was not a string map")
		return nil, nil
	}

	// Keep only declared keys with non-empty values.
	filled := make(map[string]string)
	for key := range missing {
		if v, ok := raw[key]; ok && strings.TrimSpace(v) != "" {
			filled[key] = strings.TrimSpace(v)
		}
	}
	return filled, nil
}

func (e *Extractor) systemPrompt(missing map[string]string) string {
	keys := make([]string, 0, len(missing))
	for k := range missing {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("A handler needs the following information to finish the user's request:\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %s\n", k, missing[k])
	}
	b.WriteString("\nRead the conversation and reply with a JSON object mapping each key to the value\n")
	b.WriteString("stated or clearly implied by the conversation. Omit any key the conversation does\n")
	b.WriteString("not answer. Never guess. JSON only, no prose.\n")
	return b.String()
}

func (e *Extractor) messages(original string, turns dispatch.Conversation) []Message {
	msgs := make([]Message, 0, len(turns)+1)
	for _, t := range turns {
		role := t.Role
		if role != "assistant" {
			role = "user"
		}
		msgs = append(msgs, Message{Role: role, Content: t.Text})
	}
	msgs = append(msgs, Message{Role: "user", Content: original})
	return msgs
}
