package dispatch

import (
	"context"

	"github.com/rs/zerolog"
)

// stubHandler is a scriptable handler for tests.
type stubHandler struct {
	desc  Descriptor
	fn    func(ctx context.Context, t Task) Outcome
	calls []Task
}

func (h *stubHandler) Descriptor() Descriptor { return h.desc }

func (h *stubHandler) Execute(ctx context.Context, t Task) Outcome {
	h.calls = append(h.calls, t)
	if h.fn == nil {
		return Success("ok", nil)
	}
	return h.fn(ctx, t)
}

// stubClassifier returns a fixed classification or error and records inputs.
type stubClassifier struct {
	result *Classification
	err    error
	calls  int
	lastIn string
}

func (c *stubClassifier) Classify(ctx context.Context, raw string, turns Conversation, catalog []Descriptor) (*Classification, error) {
	c.calls++
	c.lastIn = raw
	return c.result, c.err
}

// stubExtractor fills missing info from a fixed map.
type stubExtractor struct {
	values map[string]string
	err    error
	calls  int
}

func (e *stubExtractor) Extract(ctx context.Context, original string, turns Conversation, missing map[string]string) (map[string]string, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	out := make(map[string]string)
	for key := range missing {
		if v, ok := e.values[key]; ok {
			out[key] = v
		}
	}
	return out, nil
}

func newTestRegistry(handlers ...Handler) *Registry {
	r := NewRegistry(DefaultRegistryConfig())
	for _, h := range handlers {
		if err := r.Register(h); err != nil {
			panic(err)
		}
	}
	return r
}

func newTestDispatcher(registry *Registry, classifier Classifier, extractor InfoExtractor) *Dispatcher {
	resolver := NewResolver(registry, classifier, DefaultResolverConfig(), zerolog.Nop())
	return NewDispatcher(registry, resolver, extractor, DefaultConfig(), zerolog.Nop(), nil)
}
