// Package voice manages realtime voice assistant sessions. Each user gets
// at most one session, driven by a websocket connection to the provider.
package voice

// EventType identifies a provider event on an active call.
type EventType string

const (
	EventCallStart   EventType = "call-start"
	EventCallEnd     EventType = "call-end"
	EventSpeechStart EventType = "speech-start"
	EventSpeechEnd   EventType = "speech-end"
	EventError       EventType = "error"
)

// Event is a single provider event. Message is set for error events.
type Event struct {
	Type    EventType `json:"type"`
	Message string    `json:"message,omitempty"`
}
