package voice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// newFrameServer runs an in-process provider endpoint that records every
// frame it receives.
func newFrameServer(t *testing.T) (*httptest.Server, chan []byte) {
	t.Helper()
	frames := make(chan []byte, 4)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			frames <- data
		}
	}))
	t.Cleanup(srv.Close)
	return srv, frames
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWebsocketClient(t *testing.T) {
	t.Run("start_sends_start_frame", func(t *testing.T) {
		srv, frames := newFrameServer(t)
		client := NewWebsocketClient(wsURL(srv), "pk-test")

		if err := client.Start(context.Background(), StartOptions{AssistantID: "asst-1"}); err != nil {
			t.Fatalf("start failed: %v", err)
		}
		defer client.Stop()

		select {
		case data := <-frames:
			frame := string(data)
			if !strings.Contains(frame, `"type":"start"`) {
				t.Errorf("expected a start frame, got %s", frame)
			}
			if !strings.Contains(frame, `"assistantId":"asst-1"`) {
				t.Errorf("expected the assistant id at the top level, got %s", frame)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("provider never received the start frame")
		}
	})

	t.Run("stop_before_connect_aborts_the_call", func(t *testing.T) {
		srv, frames := newFrameServer(t)
		client := NewWebsocketClient(wsURL(srv), "pk-test")

		if err := client.Stop(); err != nil {
			t.Fatalf("stop failed: %v", err)
		}
		if err := client.Start(context.Background(), StartOptions{AssistantID: "asst-1"}); err == nil {
			t.Fatal("expected start after stop to fail")
		}

		select {
		case data := <-frames:
			t.Fatalf("provider received a frame after stop was requested: %s", data)
		case <-time.After(200 * time.Millisecond):
		}
	})

	t.Run("stop_is_idempotent", func(t *testing.T) {
		srv, _ := newFrameServer(t)
		client := NewWebsocketClient(wsURL(srv), "pk-test")

		if err := client.Start(context.Background(), StartOptions{AssistantID: "asst-1"}); err != nil {
			t.Fatalf("start failed: %v", err)
		}
		if err := client.Stop(); err != nil {
			t.Fatalf("first stop failed: %v", err)
		}
		if err := client.Stop(); err != nil {
			t.Fatalf("second stop failed: %v", err)
		}
	})
}
