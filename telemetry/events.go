// Package telemetry records throw and capture outcomes and aggregates them
// into per-window statistics.
package telemetry

// EventType identifies telemetry events.
type EventType uint8

const (
	EventThrow EventType = iota
	EventDrop
	EventHit
	EventBounce
	EventExpire
	EventMaterialize
	EventCombatStart
	EventCaptureAttempt
	EventCaptureSuccess
	EventCaptureFail
	EventRecall
)

var eventNames = [...]string{
	EventThrow:          "throw",
	EventDrop:           "drop",
	EventHit:            "hit",
	EventBounce:         "bounce",
	EventExpire:         "expire",
	EventMaterialize:    "materialize",
	EventCombatStart:    "combat_start",
	EventCaptureAttempt: "capture_attempt",
	EventCaptureSuccess: "capture_success",
	EventCaptureFail:    "capture_fail",
	EventRecall:         "recall",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event is a single telemetry event.
type Event struct {
	Type EventType
	Tick int32

	// Optional fields depending on event type
	Subject string  // projectile id, species or companion name
	Capture bool    // the projectile was an empty capture device
	First   bool    // first ground contact (bounce)
	Amount  float64 // force (throw), speed (drop), seconds in flight (hit/expire), catch rate (capture)
}

// NewThrowEvent creates a throw event.
func NewThrowEvent(tick int32, capture bool, force float64) Event {
	return Event{Type: EventThrow, Tick: tick, Capture: capture, Amount: force}
}

// NewDropEvent creates an event for a hand release too slow to throw.
func NewDropEvent(tick int32, speed float64) Event {
	return Event{Type: EventDrop, Tick: tick, Amount: speed}
}

// NewHitEvent creates a creature hit event.
func NewHitEvent(tick int32, id string, capture bool, flightSec float64) Event {
	return Event{Type: EventHit, Tick: tick, Subject: id, Capture: capture, Amount: flightSec}
}

// NewBounceEvent creates a ground bounce event.
func NewBounceEvent(tick int32, id string, capture, first bool) Event {
	return Event{Type: EventBounce, Tick: tick, Subject: id, Capture: capture, First: first}
}

// NewExpireEvent creates a lifetime expiry event.
func NewExpireEvent(tick int32, id string, capture bool, flightSec float64) Event {
	return Event{Type: EventExpire, Tick: tick, Subject: id, Capture: capture, Amount: flightSec}
}

// NewMaterializeEvent creates a companion release event.
func NewMaterializeEvent(tick int32, name string) Event {
	return Event{Type: EventMaterialize, Tick: tick, Subject: name}
}

// NewCombatStartEvent creates a combat start event.
func NewCombatStartEvent(tick int32, species string) Event {
	return Event{Type: EventCombatStart, Tick: tick, Subject: species}
}

// NewCaptureEvent creates a capture attempt event and its outcome.
func NewCaptureEvent(tick int32, species string, catchRate float64, success bool) (attempt, outcome Event) {
	attempt = Event{Type: EventCaptureAttempt, Tick: tick, Subject: species, Amount: catchRate}
	outcome = attempt
	outcome.Type = EventCaptureFail
	if success {
		outcome.Type = EventCaptureSuccess
	}
	return attempt, outcome
}

// NewRecallEvent creates a companion recall event.
func NewRecallEvent(tick int32, name string) Event {
	return Event{Type: EventRecall, Tick: tick, Subject: name}
}
