package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver(registry *Registry, c Classifier) *Resolver {
	return NewResolver(registry, c, DefaultResolverConfig(), zerolog.Nop())
}

func TestResolverSuccess(t *testing.T) {
	registry := newTestRegistry(musicStub(2))
	classifier := &stubClassifier{result: &Classification{
		Handler:    "music",
		TaskType:   "play",
		Params:     map[string]interface{}{"query": "好听的歌"},
		Confidence: 0.9,
	}}

	r := newResolver(registry, classifier)

	match, err := r.Resolve(context.Background(), "播放一首好听的歌", nil)
	require.NoError(t, err)
	assert.Equal(t, "music", match.Handler.Descriptor().Name)
	assert.Equal(t, "play", match.TaskType)
	assert.Equal(t, "好听的歌", match.Params["query"])
}

func TestResolverLowConfidence(t *testing.T) {
	registry := newTestRegistry(musicStub(2))
	classifier := &stubClassifier{result: &Classification{
		Handler:    "music",
		TaskType:   "play",
		Confidence: 0.3,
	}}

	_, err := newResolver(registry, classifier).Resolve(context.Background(), "嗯", nil)
	assert.ErrorIs(t, err, ErrUnresolvable)
}

func TestResolverNoMatch(t *testing.T) {
	registry := newTestRegistry(musicStub(2))
	classifier := &stubClassifier{result: nil}

	_, err := newResolver(registry, classifier).Resolve(context.Background(), "呃", nil)
	assert.ErrorIs(t, err, ErrUnresolvable)
}

func TestResolverUnknownHandler(t *testing.T) {
	registry := newTestRegistry(musicStub(2))
	classifier := &stubClassifier{result: &Classification{
		Handler:    "ghost",
		TaskType:   "haunt",
		Confidence: 0.99,
	}}

	_, err := newResolver(registry, classifier).Resolve(context.Background(), "test", nil)
	assert.ErrorIs(t, err, ErrUnresolvable)
}

func TestResolverUndeclaredTaskType(t *testing.T) {
	registry := newTestRegistry(musicStub(2))
	classifier := &stubClassifier{result: &Classification{
		Handler:    "music",
		TaskType:   "burn_cd",
		Confidence: 0.95,
	}}

	_, err := newResolver(registry, classifier).Resolve(context.Background(), "test", nil)
	assert.ErrorIs(t, err, ErrUnresolvable)
}

func TestResolverClassifierFailure(t *testing.T) {
	registry := newTestRegistry(musicStub(2))
	classifier := &stubClassifier{err: errors.New("connection refused")}

	_, err := newResolver(registry, classifier).Resolve(context.Background(), "test", nil)
	assert.ErrorIs(t, err, ErrClassifierUnavailable)
	assert.NotErrorIs(t, err, ErrUnresolvable)
}

func TestResolverNilClassifier(t *testing.T) {
	registry := newTestRegistry(musicStub(2))

	_, err := newResolver(registry, nil).Resolve(context.Background(), "test", nil)
	assert.ErrorIs(t, err, ErrUnresolvable)
}

func TestResolverBoundsContextWindow(t *testing.T) {
	registry := newTestRegistry(musicStub(2))

	var got Conversation
	classifier := classifierFunc(func(ctx context.Context, raw string, turns Conversation, catalog []Descriptor) (*Classification, error) {
		got = turns
		return nil, nil
	})

	cfg := ResolverConfig{MinConfidence: 0.6, ContextWindow: 2, Timeout: time.Second}
	r := NewResolver(registry, classifier, cfg, zerolog.Nop())

	convo := Conversation{
		{Role: "user", Text: "a"},
		{Role: "assistant", Text: "b"},
		{Role: "user", Text: "c"},
	}
	_, err := r.Resolve(context.Background(), "test", convo)
	assert.ErrorIs(t, err, ErrUnresolvable)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Text)
}

// classifierFunc adapts a function to the Classifier interface.
type classifierFunc func(ctx context.Context, raw string, turns Conversation, catalog []Descriptor) (*Classification, error)

func (f classifierFunc) Classify(ctx context.Context, raw string, turns Conversation, catalog []Descriptor) (*Classification, error) {
	return f(ctx, raw, turns, catalog)
}
