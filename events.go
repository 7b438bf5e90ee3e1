package easyapi

// Observer receives orchestrator lifecycle events. Implementations must be
// safe for concurrent use: events are emitted from whichever goroutine runs
// the call.
type Observer interface {
	On(eventData EventData)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(EventData)

// On calls f(eventData).
func (f ObserverFunc) On(eventData EventData) { f(eventData) }

// Event represents an orchestrator event type.
type Event int

const (
	// EventHit is emitted when a call is answered from the cache.
	EventHit Event = iota
	// EventMiss is emitted when a call invokes the operation.
	EventMiss
	// EventExpired is emitted when a cached entry is found past its TTL
	// and removed.
	EventExpired
	// EventStored is emitted when a successful result is written to the cache.
	EventStored
	// EventSuperseded is emitted when a new call cancels a live one.
	EventSuperseded
	// EventAborted is emitted when Abort cancels a live call.
	EventAborted
	// EventDiscarded is emitted when a cancelled call settles and its
	// outcome is dropped.
	EventDiscarded
)

var eventNames = [...]string{
	EventHit:        "hit",
	EventMiss:       "miss",
	EventExpired:    "expired",
	EventStored:     "stored",
	EventSuperseded: "superseded",
	EventAborted:    "aborted",
	EventDiscarded:  "discarded",
}

func (e Event) String() string {
	if e < 0 || int(e) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[e]
}

// EventData carries the details of an event. Key is empty when the cache is
// disabled; TokenID is empty when cancellation is disabled or the event is
// not tied to a call.
type EventData struct {
	Event   Event
	Key     string
	TokenID string
}
