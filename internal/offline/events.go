// Package offline keeps the agent useful without a network: writes queue
// locally, connectivity transitions are watched, and queued work is
// replayed to the server once it is reachable again.
package offline

// EventType names a user-facing notification.
type EventType string

const (
	EventWentOnline    EventType = "went_online"
	EventWentOffline   EventType = "went_offline"
	EventSyncStarted   EventType = "sync_started"
	EventSyncCompleted EventType = "sync_completed"
	EventSyncFailed    EventType = "sync_failed"
)

// Event is a single notification. PendingChanges carries the queue total at
// the moment the event fired; Reason is set only on EventSyncFailed.
type Event struct {
	Type           EventType
	PendingChanges int
	Reason         string
}

// Notifier receives events. Implementations must not block: events fire
// from the monitor's goroutines.
type Notifier interface {
	Notify(event Event)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(event Event)

func (f NotifierFunc) Notify(event Event) { f(event) }
