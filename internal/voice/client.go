package voice

import "context"

// StartOptions carries per-call configuration for the provider.
type StartOptions struct {
	AssistantID    string            `json:"assistantId"`
	VariableValues map[string]string `json:"variableValues,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// Client is a single-call connection to the voice provider. Start may be
// called once; after Stop or a call-end event the client is done.
type Client interface {
	// Start opens the connection and begins the call.
	Start(ctx context.Context, opts StartOptions) error
	// Stop ends the call and closes the connection. Safe to call twice.
	Stop() error
	// SetMuted toggles the user's microphone on the active call.
	SetMuted(muted bool) error
	// Events streams provider events. The channel closes when the
	// connection ends.
	Events() <-chan Event
}
