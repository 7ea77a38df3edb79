package dispatch

import (
	"github.com/google/uuid"
)

// Task is one unit of work handed to a handler. A Task is never mutated after
// construction; augmenting params during missing-info resolution produces a
// new Task via WithParams.
type Task struct {
	ID      uuid.UUID              `json:"id"`
	Type    string                 `json:"type"`
	Content string                 `json:"content"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// NewTask creates a task with a fresh ID and a defensive copy of params.
func NewTask(taskType, content string, params map[string]interface{}) Task {
	return Task{
		ID:      uuid.New(),
		Type:    taskType,
		Content: content,
		Params:  copyParams(params),
	}
}

// WithParams returns a new Task (new ID) carrying the original params
// overlaid with extra. The receiver is left untouched.
func (t Task) WithParams(extra map[string]interface{}) Task {
	merged := copyParams(t.Params)
	if merged == nil {
		merged = make(map[string]interface{}, len(extra))
	}
	for k, v := range extra {
		merged[k] = v
	}
	return Task{
		ID:      uuid.New(),
		Type:    t.Type,
		Content: t.Content,
		Params:  merged,
	}
}

// Param returns a string param value, or "" if absent or not a string.
func (t Task) Param(key string) string {
	if t.Params == nil {
		return ""
	}
	if v, ok := t.Params[key].(string); ok {
		return v
	}
	return ""
}

func copyParams(params map[string]interface{}) map[string]interface{} {
	if params == nil {
		return nil
	}
	out := make(map[string]interface{}, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}
