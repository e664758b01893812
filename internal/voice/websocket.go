package voice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"nayidisha/internal/logger"
)

const (
	dialTimeout  = 10 * time.Second
	writeTimeout = 5 * time.Second
)

// wsClient is the websocket-backed Client implementation.
type wsClient struct {
	baseURL   string
	publicKey string

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool

	events chan Event
}

// NewWebsocketClient creates a Client that connects to the provider's
// realtime endpoint, authenticating with the workspace public key.
func NewWebsocketClient(baseURL, publicKey string) Client {
	return &wsClient{
		baseURL:   baseURL,
		publicKey: publicKey,
		events:    make(chan Event, 16),
	}
}

func (c *wsClient) Start(ctx context.Context, opts StartOptions) error {
	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.publicKey)

	conn, _, err := dialer.DialContext(ctx, c.baseURL, header)
	if err != nil {
		return fmt.Errorf("voice: dial %s: %w", c.baseURL, err)
	}

	c.mu.Lock()
	// A Stop that raced the dial wins: never start a call nobody wants.
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return fmt.Errorf("voice: session stopped before connect completed")
	}
	c.conn = conn
	c.mu.Unlock()

	start := struct {
		Type string `json:"type"`
		StartOptions
	}{Type: "start", StartOptions: opts}
	if err := c.writeJSON(start); err != nil {
		c.Stop()
		return fmt.Errorf("voice: start call: %w", err)
	}

	go c.readLoop(conn)
	return nil
}

func (c *wsClient) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.conn == nil {
		return nil
	}

	deadline := time.Now().Add(writeTimeout)
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "call ended"), deadline)
	return c.conn.Close()
}

func (c *wsClient) SetMuted(muted bool) error {
	control := "unmute"
	if muted {
		control = "mute"
	}
	msg := struct {
		Type    string `json:"type"`
		Control string `json:"control"`
	}{Type: "control", Control: control}
	return c.writeJSON(msg)
}

func (c *wsClient) Events() <-chan Event {
	return c.events
}

func (c *wsClient) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.conn == nil {
		return fmt.Errorf("voice: connection closed")
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(v)
}

// readLoop decodes provider frames into Events until the connection drops.
// Unknown frame types are ignored.
func (c *wsClient) readLoop(conn *websocket.Conn) {
	defer close(c.events)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			wasClosed := c.closed
			c.mu.Unlock()
			if !wasClosed {
				logger.Get().Warnw("voice: connection dropped", "error", err.Error())
				c.events <- Event{Type: EventError, Message: err.Error()}
			}
			return
		}

		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			logger.Get().Debugw("voice: unreadable frame", "error", err.Error())
			continue
		}
		switch event.Type {
		case EventCallStart, EventCallEnd, EventSpeechStart, EventSpeechEnd, EventError:
			c.events <- event
			if event.Type == EventCallEnd {
				c.Stop()
				return
			}
		}
	}
}
