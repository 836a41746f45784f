// Package notify delivers user-facing messages for classified failures.
// The HTTP client emits exactly one notification per classified failure;
// nothing else in the core talks to the user directly.
package notify

import (
	"fmt"
	"os"
	"sync"

	"github.com/amirx1991/crm-sub001/internal/logger"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type Notifier interface {
	Notify(severity Severity, message string)
}

// ConsoleNotifier writes notifications to stderr and mirrors them to the
// structured log.
type ConsoleNotifier struct {
	Logger logger.Logger
}

func (n *ConsoleNotifier) Notify(severity Severity, message string) {
	fmt.Fprintf(os.Stderr, "[%s] %s\n", severity, message)

	if n.Logger == nil {
		return
	}
	switch severity {
	case SeverityError:
		n.Logger.Error(message)
	case SeverityWarning:
		n.Logger.Warn(message)
	default:
		n.Logger.Info(message)
	}
}

// Notification is a single recorded message.
type Notification struct {
	Severity Severity
	Message  string
}

// Recorder collects notifications for assertions in tests.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

func (r *Recorder) Notify(severity Severity, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, Notification{Severity: severity, Message: message})
}

func (r *Recorder) Sent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}
