package cartsync

import "log"

// Severity classifies a user-facing notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is the outcome message surfaced to the UI collaborator after
// every mutation.
type Notification struct {
	Severity Severity
	Message  string
}

// Notifier receives mutation outcomes. Implementations must not block.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// NopNotifier discards notifications.
func NopNotifier() Notifier {
	return NotifierFunc(func(Notification) {})
}

// NewLogNotifier writes notifications to logger.
func NewLogNotifier(logger *log.Logger) Notifier {
	return NotifierFunc(func(n Notification) {
		logger.Printf("notify [%s]: %s", n.Severity, n.Message)
	})
}
