package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junyi/aria/pkg/dispatch"
)

// fakeProvider returns a scripted reply and records the last request.
type fakeProvider struct {
	reply string
	err   error
	last  Request
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Complete(ctx context.Context, request Request) (*Response, error) {
	p.last = request
	if p.err != nil {
		return nil, p.err
	}
	return &Response{Content: p.reply, Usage: &TokenUsage{InputTokens: 10, OutputTokens: 5}}, nil
}

func testCatalog() []dispatch.Descriptor {
	return []dispatch.Descriptor{
		{
			Name:         "music",
			Priority:     3,
			Capabilities: []string{"play_audio"},
			TaskTypes:    []string{"play", "pause"},
		},
		{
			Name:      "weather",
			Priority:  4,
			TaskTypes: []string{"current_weather"},
		},
	}
}

func newTestClassifier(t *testing.T, p Provider) *Classifier {
	t.Helper()
	c, err := NewClassifier(p, DefaultClassifierConfig(), zerolog.Nop())
	require.NoError(t, err)
	return c
}

func TestClassifierParsesVerdict(t *testing.T) {
	p := &fakeProvider{reply: `{"handler": "music", "task_type": "play", "params": {"query": "好听的歌"}, "confidence": 0.92, "reason": "asks for music"}`}
	c := newTestClassifier(t, p)

	verdict, err := c.Classify(context.Background(), "播放一首好听的歌", nil, testCatalog())
	require.NoError(t, err)
	require.NotNil(t, verdict)
	assert.Equal(t, "music", verdict.Handler)
	assert.Equal(t, "play", verdict.TaskType)
	assert.Equal(t, "好听的歌", verdict.Params["query"])
	assert.InDelta(t, 0.92, verdict.Confidence, 0.001)
}

func TestClassifierHandlesCodeFence(t *testing.T) {
	p := &fakeProvider{reply: "Sure, here is the routing:\n```json\n{\"handler\": \"weather\", \"task_type\": \"current_weather\", \"confidence\": 0.8}\n```"}
	c := newTestClassifier(t, p)

	verdict, err := c.Classify(context.Background(), "今天冷不冷", nil, testCatalog())
	require.NoError(t, err)
	require.NotNil(t, verdict)
	assert.Equal(t, "weather", verdict.Handler)
}

func TestClassifierNoMatchSentinel(t *testing.T) {
	p := &fakeProvider{reply: `{"handler": "none", "confidence": 0}`}
	c := newTestClassifier(t, p)

	verdict, err := c.Classify(context.Background(), "呃呃呃", nil, testCatalog())
	require.NoError(t, err)
	assert.Nil(t, verdict)
}

func TestClassifierRejectsInvalidOutput(t *testing.T) {
	cases := map[string]string{
		"prose only":        "I think this is about music.",
		"missing handler":   `{"confidence": 0.9}`,
		"confidence string": `{"handler": "music", "confidence": "high"}`,
		"out of range":      `{"handler": "music", "confidence": 1.5}`,
	}

	for name, reply := range cases {
		t.Run(name, func(t *testing.T) {
			c := newTestClassifier(t, &fakeProvider{reply: reply})

			verdict, err := c.Classify(context.Background(), "test", nil, testCatalog())
			require.NoError(t, err)
			assert.Nil(t, verdict)
		})
	}
}

func TestClassifierPropagatesProviderError(t *testing.T) {
	c := newTestClassifier(t, &fakeProvider{err: errors.New("connection refused")})

	_, err := c.Classify(context.Background(), "test", nil, testCatalog())
	assert.Error(t, err)
}

func TestClassifierPromptIncludesCatalogAndContext(t *testing.T) {
	p := &fakeProvider{reply: `{"handler": "none", "confidence": 0}`}
	c := newTestClassifier(t, p)

	turns := dispatch.Conversation{
		{Role: "user", Text: "我想放松一下"},
		{Role: "assistant", Text: "听点音乐怎么样？"},
	}
	_, err := c.Classify(context.Background(), "好啊来一首", turns, testCatalog())
	require.NoError(t, err)

	assert.Contains(t, p.last.SystemPrompt, "music")
	assert.Contains(t, p.last.SystemPrompt, "weather")
	assert.Contains(t, p.last.SystemPrompt, "play_audio")

	require.Len(t, p.last.Messages, 3)
	assert.Equal(t, "assistant", p.last.Messages[1].Role)
	assert.Equal(t, "好啊来一首", p.last.Messages[2].Content)
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"with prose", "Here you go: {\"a\": 1} hope it helps", `{"a": 1}`},
		{"no json", "sorry, I cannot help", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractJSON(tc.in))
		})
	}
}
