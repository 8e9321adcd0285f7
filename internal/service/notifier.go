package service

import "go.uber.org/zap"

// Notification is a transient user-facing message emitted by store operations.
type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	// Destructive marks failures so the view can style them differently.
	Destructive bool `json:"destructive,omitempty"`
}

// Notifier receives notifications from the Store.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts an ordinary function to Notifier.
type NotifierFunc func(Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notification) { f(n) }

// LogNotifier writes notifications to a zap logger.
type LogNotifier struct {
	log *zap.Logger
}

// NewLogNotifier returns a Notifier that logs through log.
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify logs n at Warn when destructive and at Info otherwise.
func (n *LogNotifier) Notify(nt Notification) {
	fields := []zap.Field{zap.String("title", nt.Title), zap.String("description", nt.Description)}
	if nt.Destructive {
		n.log.Warn("notification", fields...)
		return
	}
	n.log.Info("notification", fields...)
}

// fanout delivers to every notifier in order.
type fanout []Notifier

func (f fanout) Notify(n Notification) {
	for _, x := range f {
		x.Notify(n)
	}
}
