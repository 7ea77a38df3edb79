package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/junyi/aria/internal/metrics"
)

// ResponseKind tags the two terminal shapes a dispatch can produce.
type ResponseKind string

const (
	ResponseSuccess ResponseKind = "success"
	ResponseClarify ResponseKind = "clarify"
)

// Response is the caller-facing result: either a completed handler result or
// a structured request for the information still needed. Nothing else escapes
// the dispatcher; faults are folded into clarify responses.
type Response struct {
	Kind    ResponseKind           `json:"kind"`
	Message string                 `json:"message"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	Missing map[string]string      `json:"missing,omitempty"`
}

// routeSource labels where a routing decision came from, for logs and metrics.
const (
	sourceKeyword    = "keyword"
	sourceClassifier = "classifier"
)

// InfoExtractor derives values for handler-declared missing params from the
// original request and recent conversation turns. Implementations return only
// the keys they could fill.
type InfoExtractor interface {
	Extract(ctx context.Context, original string, turns Conversation, missing map[string]string) (map[string]string, error)
}

// Config holds dispatcher tunables.
type Config struct {
	// HandlerTimeout bounds a single handler execution.
	HandlerTimeout time.Duration
	// ContextWindow bounds the turns given to the missing-info extractor.
	ContextWindow int
}

// DefaultConfig returns default dispatcher configuration.
func DefaultConfig() Config {
	return Config{
		HandlerTimeout: 60 * time.Second,
		ContextWindow:  30,
	}
}

// Dispatcher composes the keyword router, the intent resolver and the
// missing-info loop into the per-request state machine:
// NORMALIZE -> KEYWORD_MATCH -> (INTENT_RESOLVE) -> EXECUTE -> INTERPRET ->
// (RESOLVE_MISSING -> EXECUTE once) -> terminal success or clarify.
type Dispatcher struct {
	registry  *Registry
	router    *Router
	resolver  *Resolver
	extractor InfoExtractor
	config    Config
	logger    zerolog.Logger
	metrics   *metrics.Metrics
}

// NewDispatcher wires the dispatch pipeline. extractor and m may be nil;
// without an extractor, missing-info resolution goes straight to clarify
// unless the outcome names an alternate handler.
func NewDispatcher(registry *Registry, resolver *Resolver, extractor InfoExtractor, config Config, logger zerolog.Logger, m *metrics.Metrics) *Dispatcher {
	if config.HandlerTimeout <= 0 {
		config.HandlerTimeout = DefaultConfig().HandlerTimeout
	}
	if config.ContextWindow <= 0 {
		config.ContextWindow = DefaultConfig().ContextWindow
	}
	registry.Freeze()
	return &Dispatcher{
		registry:  registry,
		router:    NewRouter(registry),
		resolver:  resolver,
		extractor: extractor,
		config:    config,
		logger:    logger,
		metrics:   m,
	}
}

// Dispatch routes one request and runs it to a terminal response. The only
// returned error is the caller's own context cancellation; every internal
// failure becomes a clarify response.
func (d *Dispatcher) Dispatch(ctx context.Context, raw string, convo Conversation) (Response, error) {
	started := time.Now()

	// NORMALIZE + KEYWORD_MATCH
	normalized := Normalize(raw)
	match, hit := d.router.Route(normalized)
	source := sourceKeyword

	// INTENT_RESOLVE
	if !hit {
		var err error
		match, err = d.resolver.Resolve(ctx, raw, convo)
		if err != nil {
			if ctx.Err() != nil {
				return Response{}, ctx.Err()
			}
			return d.finish(started, "", d.clarifyForResolveError(err)), nil
		}
		source = sourceClassifier
	}

	name := match.Handler.Descriptor().Name
	d.metrics.ObserveRoute(source, name)
	d.logger.Info().
		Str("handler", name).
		Str("taskType", match.TaskType).
		Str("source", source).
		Msg("Request routed")

	// EXECUTE + INTERPRET
	task := NewTask(match.TaskType, raw, match.Params)
	outcome := d.execute(ctx, match.Handler, task)
	if ctx.Err() != nil {
		return Response{}, ctx.Err()
	}
	if outcome.IsSuccess() {
		return d.finish(started, name, Response{
			Kind:    ResponseSuccess,
			Message: outcome.Message,
			Payload: outcome.Payload,
		}), nil
	}

	// RESOLVE_MISSING: one retry, then clarify.
	resp, err := d.resolveMissing(ctx, match.Handler, task, outcome, convo)
	if err != nil {
		return Response{}, err
	}
	return d.finish(started, name, resp), nil
}

// execute runs the handler under the configured timeout, converting panics
// and timeouts into cannot-handle outcomes. One faulting handler must never
// take down the dispatcher.
func (d *Dispatcher) execute(ctx context.Context, h Handler, t Task) (outcome Outcome) {
	name := h.Descriptor().Name

	execCtx, cancel := context.WithTimeout(ctx, d.config.HandlerTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().
				Str("handler", name).
				Interface("panic", r).
				Msg("Handler panicked during execution")
			d.metrics.ObserveHandlerFault(name)
			outcome = CannotHandle(fmt.Sprintf("handler %s fault: %v", name, r), "", nil)
		}
	}()

	started := time.Now()
	outcome = h.Execute(execCtx, t)
	d.metrics.ObserveHandlerExecution(name, string(outcome.Kind), time.Since(started))

	if execCtx.Err() != nil && ctx.Err() == nil {
		d.logger.Warn().
			Str("handler", name).
			Dur("timeout", d.config.HandlerTimeout).
			Msg("Handler execution timed out")
		return CannotHandle(fmt.Sprintf("handler %s timed out after %s", name, d.config.HandlerTimeout), "", nil)
	}
	return outcome
}

// resolveMissing attempts to fill the declared missing params from
// conversation context, or to re-route to a suggested alternate handler, and
// re-executes exactly once. Anything still unresolved becomes a clarify
// response naming the outstanding fields.
func (d *Dispatcher) resolveMissing(ctx context.Context, h Handler, t Task, outcome Outcome, convo Conversation) (Response, error) {
	name := h.Descriptor().Name
	d.logger.Info().
		Str("handler", name).
		Str("reason", outcome.Reason).
		Int("missing", len(outcome.MissingInfo)).
		Str("suggestion", outcome.Suggestion).
		Msg("Handler cannot handle, resolving")

	if len(outcome.MissingInfo) > 0 && d.extractor != nil {
		filled, err := d.extractor.Extract(ctx, t.Content, convo.Window(d.config.ContextWindow), outcome.MissingInfo)
		if err != nil {
			if ctx.Err() != nil {
				return Response{}, ctx.Err()
			}
			d.logger.Warn().Err(err).Msg("Missing-info extraction failed")
			filled = nil
		}

		unresolved := make(map[string]string)
		augment := make(map[string]interface{})
		for key, desc := range outcome.MissingInfo {
			if v, ok := filled[key]; ok && v != "" {
				augment[key] = v
			} else {
				unresolved[key] = desc
			}
		}

		if len(unresolved) == 0 {
			retried := d.execute(ctx, h, t.WithParams(augment))
			if ctx.Err() != nil {
				return Response{}, ctx.Err()
			}
			if retried.IsSuccess() {
				return Response{
					Kind:    ResponseSuccess,
					Message: retried.Message,
					Payload: retried.Payload,
				}, nil
			}
			// Single retry budget spent.
			return clarify(retried.Reason, retried.MissingInfo), nil
		}
		return clarify(outcome.Reason, unresolved), nil
	}

	if len(outcome.MissingInfo) == 0 && outcome.Suggestion != "" {
		alt, err := d.registry.Get(outcome.Suggestion)
		if err != nil {
			d.logger.Warn().
				Str("suggestion", outcome.Suggestion).
				Msg("Suggested handler is not registered")
			return clarify(outcome.Reason, nil), nil
		}
		if !alt.Descriptor().AcceptsTaskType(t.Type) {
			return clarify(outcome.Reason, nil), nil
		}
		retried := d.execute(ctx, alt, t)
		if ctx.Err() != nil {
			return Response{}, ctx.Err()
		}
		if retried.IsSuccess() {
			return Response{
				Kind:    ResponseSuccess,
				Message: retried.Message,
				Payload: retried.Payload,
			}, nil
		}
		return clarify(retried.Reason, retried.MissingInfo), nil
	}

	return clarify(outcome.Reason, outcome.MissingInfo), nil
}

// clarifyForResolveError maps resolver failures onto clarify responses with
// distinguishable messages.
func (d *Dispatcher) clarifyForResolveError(err error) Response {
	switch {
	case errors.Is(err, ErrClassifierUnavailable):
		d.metrics.ObserveClassifierError()
		return clarify("the language model service could not be reached, please try again", nil)
	default:
		return clarify("I could not work out what you need, please give me more detail", nil)
	}
}

func (d *Dispatcher) finish(started time.Time, handler string, resp Response) Response {
	d.metrics.ObserveDispatch(string(resp.Kind), time.Since(started))
	d.logger.Info().
		Str("kind", string(resp.Kind)).
		Str("handler", handler).
		Dur("elapsed", time.Since(started)).
		Msg("Dispatch finished")
	return resp
}

func clarify(reason string, missing map[string]string) Response {
	if reason == "" {
		reason = "more information is needed"
	}
	return Response{
		Kind:    ResponseClarify,
		Message: reason,
		Missing: missing,
	}
}
