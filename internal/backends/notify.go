package backends

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// ConsoleNotifier prints reminders to the terminal.
type ConsoleNotifier struct {
	out    io.Writer
	logger zerolog.Logger
}

// NewConsoleNotifier creates a notifier writing to out.
func NewConsoleNotifier(out io.Writer, logger zerolog.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{
		out:    out,
		logger: logger,
	}
}

// Notify prints one reminder.
func (n *ConsoleNotifier) Notify(message string) {
	fmt.Fprintf(n.out, "\n🔔 提醒：%s\n", message)
}
