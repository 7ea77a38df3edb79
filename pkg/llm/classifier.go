package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"

	"github.com/junyi/aria/pkg/dispatch"
)

// classificationSchema validates the model's routing verdict before it is
// trusted. Anything that fails validation is treated as "no match".
const classificationSchema = `{
	"type": "object",
	"required": ["handler", "confidence"],
	"properties": {
		"handler": {"type": "string"},
		"task_type": {"type": "string"},
		"params": {"type": "object"},
		"confidence": {"type": "number", "minimum": 0, "maximum": 1},
		"reason": {"type": "string"}
	}
}`

// noMatchHandler is the sentinel the model uses when nothing fits.
const noMatchHandler = "none"

// ClassifierConfig configures the LLM-backed intent classifier.
type ClassifierConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// DefaultClassifierConfig returns default classifier configuration.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		Model:       "claude-3-5-haiku-20241022",
		Temperature: 0.1,
		MaxTokens:   512,
	}
}

// Classifier asks an LLM provider to pick a handler for free text that missed
// every keyword table. It implements dispatch.Classifier.
type Classifier struct {
	provider Provider
	config   ClassifierConfig
	logger   zerolog.Logger
	schema   *gojsonschema.Schema
}

// NewClassifier creates a classifier backed by the given provider.
func NewClassifier(provider Provider, config ClassifierConfig, logger zerolog.Logger) (*Classifier, error) {
	if config.Model == "" {
		config = DefaultClassifierConfig()
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(classificationSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile classification schema: %w", err)
	}
	return &Classifier{
		provider: provider,
		config:   config,
		logger:   logger,
		schema:   schema,
	}, nil
}

// Classify asks the model to select a handler and task type for the request.
// A nil classification with nil error means the model found no confident match.
func (c *Classifier) Classify(ctx context.Context, raw string, turns dispatch.Conversation, catalog []dispatch.Descriptor) (*dispatch.Classification, error) {
	resp, err := completeWithRetry(ctx, c.provider, Request{
		Model:        c.config.Model,
		SystemPrompt: c.systemPrompt(catalog),
		Messages:     c.messages(raw, turns),
		Temperature:  c.config.Temperature,
		MaxTokens:    c.config.MaxTokens,
	}, c.logger)
	if err != nil {
		return nil, fmt.Errorf("classifier call failed: %w", err)
	}

	payload := extractJSON(resp.Content)
	if payload == "" {
		c.logger.Warn().Str("content", resp.Content).Msg("Classifier returned no JSON")
		return nil, nil
	}

	result, err := c.schema.Validate(gojsonschema.NewStringLoader(payload))
	if err != nil || !result.Valid() {
		c.logger.Warn().Str("payload", payload).Msg("Classifier output failed schema validation")
		return nil, nil
	}

	var verdict dispatch.Classification
	if err := json.Unmarshal([]byte(payload), &verdict); err != nil {
		return nil, nil
	}
	if verdict.Handler == noMatchHandler || verdict.Handler == "" {
		return nil, nil
	}
	return &verdict, nil
}

// systemPrompt renders the handler catalog into classification instructions.
func (c *Classifier) systemPrompt(catalog []dispatch.Descriptor) string {
	var b strings.Builder
	b.WriteString("You route requests for a personal desktop assistant.\n")
	b.WriteString("Pick the single best handler for the user's latest message.\n\n")
	b.WriteString("Available handlers:\n")
	for _, d := range catalog {
		fmt.Fprintf(&b, "- %s (task types: %s", d.Name, strings.Join(d.TaskTypes, ", "))
		if len(d.Capabilities) > 0 {
			fmt.Fprintf(&b, "; capabilities: %s", strings.Join(d.Capabilities, ", "))
		}
		b.WriteString(")\n")
	}
	b.WriteString("\nReply with JSON only, no prose:\n")
	b.WriteString(`{"handler": "<name>", "task_type": "<type>", "params": {}, "confidence": 0.0-1.0, "reason": "<short>"}` + "\n")
	fmt.Fprintf(&b, "If no handler fits, reply %q as the handler with confidence 0.\n", noMatchHandler)
	return b.String()
}

func (c *Classifier) messages(raw string, turns dispatch.Conversation) []Message {
	msgs := make([]Message, 0, len(turns)+1)
	for _, t := range turns {
		role := t.Role
		if role != "assistant" {
			role = "user"
		}
		msgs = append(msgs, Message{Role: role, Content: t.Text})
	}
	msgs = append(msgs, Message{Role: "user", Content: raw})
	return msgs
}

// extractJSON pulls the first JSON object out of a model reply, tolerating
// markdown code fences and surrounding prose.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	if i := strings.Index(content, "```"); i >= 0 {
		content = content[i+3:]
		content = strings.TrimPrefix(content, "json")
		if j := strings.Index(content, "```"); j >= 0 {
			content = content[:j]
		}
	}
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return ""
	}
	return strings.TrimSpace(content[start : end+1])
}
