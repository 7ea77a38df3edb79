package dispatch

import (
	"github.com/rs/zerolog/log"
)

// Match is a routing decision: which handler runs, with what task type and
// which default params.
type Match struct {
	Handler  Handler
	TaskType string
	Params   map[string]interface{}
}

// Router performs the keyword fast path: exact lookup of the normalized input
// against every registered handler's keyword table.
type Router struct {
	registry *Registry
}

// NewRouter creates a router over the given registry.
func NewRouter(registry *Registry) *Router {
	return &Router{registry: registry}
}

// Route looks up normalized text as an exact key, iterating handlers in
// ascending priority order (registration order breaks ties) and returning the
// first hit. Substring containment is deliberately not matched: a literal
// "play" keyword must not swallow "play a cheerful song", which belongs to
// the intent resolver. A miss is the normal trigger for classification, not
// an error.
func (r *Router) Route(normalized string) (Match, bool) {
	if normalized == "" {
		return Match{}, false
	}

	for _, h := range r.registry.Ordered() {
		binding, ok := h.Descriptor().Keywords[normalized]
		if !ok {
			continue
		}
		log.Debug().
			Str("phrase", normalized).
			Str("handler", h.Descriptor().Name).
			Str("taskType", binding.TaskType).
			Msg("Keyword fast path hit")
		return Match{
			Handler:  h,
			TaskType: binding.TaskType,
			Params:   copyParams(binding.Params),
		}, true
	}
	return Match{}, false
}
