package dispatch

import (
	"context"
)

// Binding maps a keyword phrase to the task it triggers.
type Binding struct {
	TaskType string                 `json:"task_type"`
	Params   map[string]interface{} `json:"params,omitempty"`
}

// Descriptor declares a handler to the registry: identity, precedence, the
// capability set advertised to the intent classifier, the exact-match keyword
// table, and the closed set of task types the handler accepts. Descriptors
// are registered once at startup and read-only afterwards.
type Descriptor struct {
	// Name uniquely identifies the handler.
	Name string `json:"name"`

	// Version is informational, surfaced in the handlers listing.
	Version string `json:"version,omitempty"`

	// Priority orders handlers during keyword lookup. Lower value wins;
	// equal priorities fall back to registration order.
	Priority int `json:"priority"`

	// Capabilities describe what the handler can do, in the short
	// "verb_noun" form the classifier catalog is built from.
	Capabilities []string `json:"capabilities,omitempty"`

	// Keywords maps normalized phrases to task bindings. Lookup is exact;
	// containment matching is deliberately not performed.
	Keywords map[string]Binding `json:"keywords,omitempty"`

	// TaskTypes is the closed set of task types Execute accepts. Every
	// keyword binding must reference one of these; the registry enforces
	// completeness at registration time.
	TaskTypes []string `json:"task_types"`
}

// AcceptsTaskType reports whether taskType is in the declared set.
func (d Descriptor) AcceptsTaskType(taskType string) bool {
	for _, t := range d.TaskTypes {
		if t == taskType {
			return true
		}
	}
	return false
}

// Handler is a registered unit implementing one capability domain.
// Execute must not panic to signal failure; a panic is still recovered by the
// dispatcher and converted to a cannot-handle outcome, but handlers should
// return CannotHandle with a reason instead.
type Handler interface {
	Descriptor() Descriptor
	Execute(ctx context.Context, t Task) Outcome
}
