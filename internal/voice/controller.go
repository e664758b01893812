package voice

import (
	"context"
	"sync"

	"nayidisha/internal/logger"
)

// State is the lifecycle state of a session.
type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateActive     State = "active"
)

// Controller drives a single user's voice session through its lifecycle.
// Calls transition Idle -> Connecting -> Active and back to Idle on
// call-end or error.
type Controller struct {
	newClient func() Client

	mu                sync.Mutex
	client            Client
	state             State
	muted             bool
	assistantSpeaking bool
	lastError         string
	done              chan struct{}
}

// NewController creates a Controller that builds a fresh Client per call.
func NewController(newClient func() Client) *Controller {
	return &Controller{
		newClient: newClient,
		state:     StateIdle,
	}
}

// Start begins a call. Starting while a call is connecting or active is a
// warned no-op rather than an error, so a double-tap in the UI cannot kill
// an ongoing call.
func (c *Controller) Start(ctx context.Context, opts StartOptions) error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		logger.Get().Warnw("voice: start requested while session active", "state", string(c.state))
		return nil
	}
	client := c.newClient()
	c.client = client
	c.state = StateConnecting
	c.muted = false
	c.assistantSpeaking = false
	c.lastError = ""
	done := make(chan struct{})
	c.done = done
	c.mu.Unlock()

	if err := client.Start(ctx, opts); err != nil {
		c.mu.Lock()
		c.state = StateIdle
		c.client = nil
		c.lastError = err.Error()
		c.mu.Unlock()
		close(done)
		return err
	}

	go c.eventLoop(client, done)
	return nil
}

func (c *Controller) eventLoop(client Client, done chan struct{}) {
	defer close(done)
	log := logger.Get()

	for event := range client.Events() {
		switch event.Type {
		case EventCallStart:
			c.mu.Lock()
			c.state = StateActive
			c.mu.Unlock()
			log.Infow("voice: call started")
		case EventSpeechStart:
			c.mu.Lock()
			c.assistantSpeaking = true
			c.mu.Unlock()
		case EventSpeechEnd:
			c.mu.Lock()
			c.assistantSpeaking = false
			c.mu.Unlock()
		case EventCallEnd:
			log.Infow("voice: call ended")
			c.reset("")
			return
		case EventError:
			log.Warnw("voice: call error", "error", event.Message)
			client.Stop()
			c.reset(event.Message)
			return
		}
	}
	c.reset("")
}

// Stop ends the active call. Stopping an idle controller is a warned no-op.
func (c *Controller) Stop() {
	c.mu.Lock()
	client := c.client
	done := c.done
	c.mu.Unlock()
	if client == nil {
		logger.Get().Warnw("voice: stop requested with no active session")
		return
	}
	client.Stop()
	if done != nil {
		<-done
	}
}

// SetMuted toggles the microphone. Muting without an active call is a
// warned no-op.
func (c *Controller) SetMuted(muted bool) error {
	c.mu.Lock()
	client := c.client
	state := c.state
	c.mu.Unlock()
	if state != StateActive || client == nil {
		logger.Get().Warnw("voice: mute requested with no active call", "state", string(state))
		return nil
	}
	if err := client.SetMuted(muted); err != nil {
		return err
	}
	c.mu.Lock()
	// Only record the toggle if the same call is still live.
	if c.client == client {
		c.muted = muted
	}
	c.mu.Unlock()
	return nil
}

// Status is a point-in-time snapshot of the session.
type Status struct {
	State             State  `json:"state"`
	Muted             bool   `json:"muted"`
	AssistantSpeaking bool   `json:"assistant_speaking"`
	LastError         string `json:"last_error,omitempty"`
}

// Status reports the current session state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		State:             c.state,
		Muted:             c.muted,
		AssistantSpeaking: c.assistantSpeaking,
		LastError:         c.lastError,
	}
}

func (c *Controller) reset(errMsg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateIdle
	c.client = nil
	c.muted = false
	c.assistantSpeaking = false
	if errMsg != "" {
		c.lastError = errMsg
	}
}
