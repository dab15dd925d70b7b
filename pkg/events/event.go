package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SESSION_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Session lifecycle event codes.
const (
	TypeSessionCreated = "SESSION_CREATED"
	TypeClientJoined   = "CLIENT_JOINED"
	TypeClientLeft     = "CLIENT_LEFT"
)

func SessionCreated(sessionID, movieID string, participants int) BaseEvent {
	return BaseEvent{
		Type: TypeSessionCreated,
		Data: map[string]interface{}{
			"session_id":   sessionID,
			"movie_id":     movieID,
			"participants": participants,
		},
		OccurredAt: time.Now(),
	}
}

func ClientJoined(sessionID string, connections int) BaseEvent {
	return BaseEvent{
		Type: TypeClientJoined,
		Data: map[string]interface{}{
			"session_id":  sessionID,
			"connections": connections,
		},
		OccurredAt: time.Now(),
	}
}

func ClientLeft(sessionID string, connections int) BaseEvent {
	return BaseEvent{
		Type: TypeClientLeft,
		Data: map[string]interface{}{
			"session_id":  sessionID,
			"connections": connections,
		},
		OccurredAt: time.Now(),
	}
}
