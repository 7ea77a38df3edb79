package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/junyi/aria/pkg/dispatch"
)

// CatalogSource supplies the current handler catalog. *dispatch.Registry
// satisfies it.
type CatalogSource interface {
	Catalog() []dispatch.Descriptor
}

// HelpHandler answers "what can you do" by describing the registered
// handlers.
type HelpHandler struct {
	source CatalogSource
	logger zerolog.Logger
}

// NewHelpHandler creates a new help handler
func NewHelpHandler(source CatalogSource, logger zerolog.Logger) *HelpHandler {
	return &HelpHandler{
		source: source,
		logger: logger,
	}
}

// Descriptor returns the handler's routing contract.
func (h *HelpHandler) Descriptor() dispatch.Descriptor {
	return dispatch.Descriptor{
		Name:         "help",
		Version:      "1.0.0",
		Priority:     2,
		Capabilities: []string{"introspection"},
		TaskTypes:    []string{"show"},
		Keywords: map[string]dispatch.Binding{
			"帮助":     {TaskType: "show"},
			"help":   {TaskType: "show"},
			"你能做什么": {TaskType: "show"},
			"你会什么":  {TaskType: "show"},
		},
	}
}

// Execute lists every registered handler with its capabilities.
func (h *HelpHandler) Execute(ctx context.Context, task dispatch.Task) dispatch.Outcome {
	if task.Type != "show" {
		return dispatch.CannotHandle(fmt.Sprintf("unknown task type: %s", task.Type), "", nil)
	}

	var b strings.Builder
	b.WriteString("我可以帮你做这些事：\n")
	names := make([]string, 0)
	for _, desc := range h.source.Catalog() {
		if desc.Name == "help" {
			continue
		}
		names = append(names, desc.Name)
		b.WriteString(fmt.Sprintf("- %s：%s\n", desc.Name, strings.Join(desc.Capabilities, ", ")))
	}

	return dispatch.Success(b.String(), map[string]interface{}{"handlers": names})
}
