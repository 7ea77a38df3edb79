package dispatch

// OutcomeKind tags the two result shapes a handler may return.
type OutcomeKind string

const (
	OutcomeSuccess      OutcomeKind = "success"
	OutcomeCannotHandle OutcomeKind = "cannot_handle"
)

// Outcome is the tagged result of a handler execution. Callers branch on Kind
// instead of sniffing strings: a success carries Message and optional Payload,
// a cannot-handle carries the reason, an optional alternate handler suggestion
// and the params the handler is missing (param name -> human description).
type Outcome struct {
	Kind        OutcomeKind            `json:"kind"`
	Message     string                 `json:"message,omitempty"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
	Reason      string                 `json:"reason,omitempty"`
	Suggestion  string                 `json:"suggestion,omitempty"`
	MissingInfo map[string]string      `json:"missing_info,omitempty"`
}

// Success builds a success outcome.
func Success(message string, payload map[string]interface{}) Outcome {
	return Outcome{
		Kind:    OutcomeSuccess,
		Message: message,
		Payload: payload,
	}
}

// CannotHandle builds an explicit inability outcome. missingInfo maps param
// names to human-readable descriptions the dispatcher can try to fill from
// conversation context.
func CannotHandle(reason string, suggestion string, missingInfo map[string]string) Outcome {
	return Outcome{
		Kind:        OutcomeCannotHandle,
		Reason:      reason,
		Suggestion:  suggestion,
		MissingInfo: missingInfo,
	}
}

// IsSuccess reports whether the outcome is a success.
func (o Outcome) IsSuccess() bool {
	return o.Kind == OutcomeSuccess
}
