package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Classification is the structured selection the external classifier returns
// for free text that missed the keyword tables.
type Classification struct {
	Handler    string                 `json:"handler"`
	TaskType   string                 `json:"task_type"`
	Params     map[string]interface{} `json:"params,omitempty"`
	Confidence float64                `json:"confidence"`
	Reason     string                 `json:"reason,omitempty"`
}

// Classifier selects a handler and task for free text, given the catalog of
// registered handlers and a bounded window of conversation context. A nil
// result with nil error means "no confident match".
type Classifier interface {
	Classify(ctx context.Context, raw string, turns Conversation, catalog []Descriptor) (*Classification, error)
}

// ResolverConfig configures the intent resolver.
type ResolverConfig struct {
	// MinConfidence below which a classification is treated as unresolvable.
	MinConfidence float64
	// ContextWindow bounds how many recent turns are sent to the classifier.
	ContextWindow int
	// Timeout bounds the external classifier call.
	Timeout time.Duration
}

// DefaultResolverConfig returns default configuration.
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		MinConfidence: 0.6,
		ContextWindow: 10,
		Timeout:       15 * time.Second,
	}
}

// Resolver is the classifier-backed fallback for input that matched no
// keyword. It validates the classifier's selection against the registry
// before trusting it.
type Resolver struct {
	registry   *Registry
	classifier Classifier
	config     ResolverConfig
	logger     zerolog.Logger
}

// NewResolver creates a resolver. classifier may be nil, in which case every
// resolution fails with ErrUnresolvable.
func NewResolver(registry *Registry, classifier Classifier, config ResolverConfig, logger zerolog.Logger) *Resolver {
	if config.MinConfidence <= 0 {
		config.MinConfidence = DefaultResolverConfig().MinConfidence
	}
	if config.ContextWindow <= 0 {
		config.ContextWindow = DefaultResolverConfig().ContextWindow
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultResolverConfig().Timeout
	}
	return &Resolver{
		registry:   registry,
		classifier: classifier,
		config:     config,
		logger:     logger,
	}
}

// Resolve asks the classifier for a handler selection. It returns
// ErrUnresolvable for low confidence, no match or an unknown handler or task
// type, and ErrClassifierUnavailable (wrapping the cause) when the external
// call itself fails. Both are expected outcomes, not faults.
func (r *Resolver) Resolve(ctx context.Context, raw string, convo Conversation) (Match, error) {
	if r.classifier == nil {
		return Match{}, fmt.Errorf("%w: no classifier configured", ErrUnresolvable)
	}

	callCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	classification, err := r.classifier.Classify(callCtx, raw, convo.Window(r.config.ContextWindow), r.registry.Catalog())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return Match{}, err
		}
		r.logger.Warn().Err(err).Msg("Classifier call failed")
		return Match{}, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}
	if classification == nil {
		return Match{}, fmt.Errorf("%w: classifier found no match", ErrUnresolvable)
	}
	if classification.Confidence < r.config.MinConfidence {
		r.logger.Debug().
			Float64("confidence", classification.Confidence).
			Float64("min", r.config.MinConfidence).
			Msg("Classification below confidence threshold")
		return Match{}, fmt.Errorf("%w: confidence %.2f below %.2f",
			ErrUnresolvable, classification.Confidence, r.config.MinConfidence)
	}

	h, err := r.registry.Get(classification.Handler)
	if err != nil {
		r.logger.Warn().
			Str("handler", classification.Handler).
			Msg("Classifier named an unregistered handler")
		return Match{}, fmt.Errorf("%w: %v", ErrUnresolvable, err)
	}
	if !h.Descriptor().AcceptsTaskType(classification.TaskType) {
		return Match{}, fmt.Errorf("%w: handler %s does not accept task type %q",
			ErrUnresolvable, classification.Handler, classification.TaskType)
	}

	r.logger.Debug().
		Str("handler", classification.Handler).
		Str("taskType", classification.TaskType).
		Float64("confidence", classification.Confidence).
		Msg("Intent resolved by classifier")

	return Match{
		Handler:  h,
		TaskType: classification.TaskType,
		Params:   copyParams(classification.Params),
	}, nil
}
