package session

import "github.com/safedep/dry/log"

// NotificationKind classifies a user-visible message.
type NotificationKind string

// Notification kinds.
const (
	NotifyAchievement NotificationKind = "achievement"
	NotifyLevelUp     NotificationKind = "level_up"
	NotifyError       NotificationKind = "error"
)

// Notification is a best-effort toast for the user.
type Notification struct {
	Kind    NotificationKind
	Message string
}

// Notifier displays notifications. Implementations must not block.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notification)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// LogNotifier writes notifications to the application log.
type LogNotifier struct{}

// Notify implements Notifier.
func (LogNotifier) Notify(n Notification) {
	if n.Kind == NotifyError {
		log.Warnf("notification: %s", n.Message)
		return
	}
	log.Infof("notification (%s): %s", n.Kind, n.Message)
}
