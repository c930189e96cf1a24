package store

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is a user-facing toast.
type Notification struct {
	Level   Level
	Title   string
	Message string
}

type Notifier interface {
	Notify(Notification)
}

type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

type discardNotifier struct{}

func (discardNotifier) Notify(Notification) {}

// FailurePolicy decides what a failed operation shows the user.
type FailurePolicy int

const (
	// NotifyOnFailure records the error in state and raises a failure toast.
	NotifyOnFailure FailurePolicy = iota
	// LogOnFailure only logs. Used by toggles, which users fire in quick bursts.
	LogOnFailure
)
