package dispatch

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

// RegistryConfig holds registration-time limits.
type RegistryConfig struct {
	MinPriority int
	MaxPriority int
}

// DefaultRegistryConfig returns default configuration.
func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{
		MinPriority: 0,
		MaxPriority: 100,
	}
}

// Registry holds the process-wide handler set. Registration happens during
// startup only; Freeze marks the transition to dispatch time, after which the
// set is read-only and concurrent reads need no coordination.
type Registry struct {
	handlers map[string]Handler
	order    []string  // registration order, the collision tie-break
	sorted   []Handler // priority order, snapshotted by Freeze
	frozen   bool
	mu       sync.RWMutex
	config   RegistryConfig
}

// NewRegistry creates an empty registry.
func NewRegistry(config RegistryConfig) *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
		config:   config,
	}
}

// Register validates and adds a handler. It rejects duplicate names,
// out-of-range priorities and keyword bindings referencing task types the
// handler did not declare. Keyword collisions across handlers are legal; the
// deterministic winner (lower priority value, then earlier registration) is
// logged here so the tie-break is visible at startup.
func (r *Registry) Register(h Handler) error {
	if h == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	d := h.Descriptor()
	if d.Name == "" {
		return fmt.Errorf("handler name cannot be empty")
	}
	if d.Priority < r.config.MinPriority || d.Priority > r.config.MaxPriority {
		return fmt.Errorf("handler %s: priority %d outside [%d, %d]",
			d.Name, d.Priority, r.config.MinPriority, r.config.MaxPriority)
	}
	for phrase, binding := range d.Keywords {
		if binding.TaskType == "" {
			return fmt.Errorf("handler %s: keyword %q has empty task type", d.Name, phrase)
		}
		if !d.AcceptsTaskType(binding.TaskType) {
			return fmt.Errorf("handler %s: keyword %q references undeclared task type %q",
				d.Name, phrase, binding.TaskType)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrRegistryFrozen
	}
	if _, exists := r.handlers[d.Name]; exists {
		return fmt.Errorf("handler %s already registered", d.Name)
	}

	for phrase := range d.Keywords {
		if winner, ok := r.keywordWinnerLocked(phrase); ok {
			wd := winner.Descriptor()
			if wd.Priority <= d.Priority {
				log.Debug().
					Str("phrase", phrase).
					Str("winner", wd.Name).
					Str("loser", d.Name).
					Msg("Keyword collision, earlier/lower-priority handler wins")
			} else {
				log.Debug().
					Str("phrase", phrase).
					Str("winner", d.Name).
					Str("loser", wd.Name).
					Msg("Keyword collision, new handler takes precedence")
			}
		}
	}

	r.handlers[d.Name] = h
	r.order = append(r.order, d.Name)

	log.Debug().
		Str("handler", d.Name).
		Int("priority", d.Priority).
		Int("keywords", len(d.Keywords)).
		Msg("Handler registered")

	return nil
}

// Freeze ends the registration phase. Further Register calls fail with
// ErrRegistryFrozen, and the priority order is snapshotted so dispatch-time
// reads never re-sort. Idempotent.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return
	}
	r.frozen = true
	r.sorted = r.orderedLocked()
}

// Get returns the handler registered under name.
func (r *Registry) Get(name string) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, exists := r.handlers[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHandler, name)
	}
	return h, nil
}

// Ordered returns all handlers sorted by ascending priority, registration
// order breaking ties. This is the iteration order of the keyword router.
func (r *Registry) Ordered() []Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.frozen {
		out := make([]Handler, len(r.sorted))
		copy(out, r.sorted)
		return out
	}
	return r.orderedLocked()
}

// orderedLocked sorts handlers by ascending priority, registration order
// breaking ties. Caller holds the lock.
func (r *Registry) orderedLocked() []Handler {
	out := make([]Handler, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.handlers[name])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Descriptor().Priority < out[j].Descriptor().Priority
	})
	return out
}

// Catalog returns the descriptors in priority order, for the classifier
// prompt and the handlers listing.
func (r *Registry) Catalog() []Descriptor {
	handlers := r.Ordered()
	out := make([]Descriptor, 0, len(handlers))
	for _, h := range handlers {
		out = append(out, h.Descriptor())
	}
	return out
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

// keywordWinnerLocked finds the current winner for phrase among registered
// handlers. Caller holds the lock.
func (r *Registry) keywordWinnerLocked(phrase string) (Handler, bool) {
	var winner Handler
	for _, name := range r.order {
		h := r.handlers[name]
		if _, ok := h.Descriptor().Keywords[phrase]; !ok {
			continue
		}
		if winner == nil || h.Descriptor().Priority < winner.Descriptor().Priority {
			winner = h
		}
	}
	return winner, winner != nil
}
