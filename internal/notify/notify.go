// Package notify delivers reminders and celebration messages. Delivery
// is fire-and-forget; callers never wait on a notification and a
// failed send is logged, not returned up the mutation path.
package notify

import (
	"fmt"
	"io"
	"os"
)

// Notifier sends a single message to the user.
type Notifier interface {
	Notify(title, body string) error
}

// ConsoleNotifier writes notifications to a terminal stream.
type ConsoleNotifier struct {
	Out io.Writer
}

func NewConsoleNotifier() *ConsoleNotifier {
	return &ConsoleNotifier{Out: os.Stdout}
}

func (n *ConsoleNotifier) Notify(title, body string) error {
	if _, err := fmt.Fprintf(n.Out, "\n🔔 %s\n   %s\n", title, body); err != nil {
		return fmt.Errorf("failed to write notification: %w", err)
	}
	return nil
}
