package transport_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/arayel/squrl/internal/builder"
	"github.com/arayel/squrl/internal/objectmodel"
	"github.com/arayel/squrl/internal/transport"
	"github.com/gorilla/websocket"
)

func TestDialWebSocket_UpgradesAndEchoes(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("server upgrade: %v", err)
			return
		}
		defer conn.Close()
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		conn.WriteMessage(websocket.TextMessage, msg)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	u, _ := url.Parse(wsURL)
	call := &builder.PreparedCall{Method: "GET", URL: u, Headers: &builder.OrderedHeader{}}

	conn, err := transport.DialWebSocket(context.Background(), call)
	if err != nil {
		t.Fatalf("DialWebSocket: %v", err)
	}
	defer conn.Close()

	req, _ := objectmodel.NewRequest("ws", objectmodel.ProtocolWebSocket)
	if err := transport.SendWebSocketMessage(conn, req, objectmodel.MessageText, "ping"); err != nil {
		t.Fatalf("SendWebSocketMessage: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	var once sync.Once
	go func() {
		transport.RunReaderTask(ctx, conn, req, func() { once.Do(func() { close(done) }) })
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for echoed message")
	}

	if len(req.MessageLog) < 2 {
		t.Fatalf("expected at least 2 messages (sent + received), got %d", len(req.MessageLog))
	}
	if req.MessageLog[0].Sender != objectmodel.SenderYou || req.MessageLog[0].Content != "ping" {
		t.Errorf("first message: got %+v", req.MessageLog[0])
	}
	if req.MessageLog[1].Sender != objectmodel.SenderServer || req.MessageLog[1].Content != "ping" {
		t.Errorf("second message: got %+v", req.MessageLog[1])
	}
}

func TestDialWebSocket_ConnectionRefusedFails(t *testing.T) {
	u, _ := url.Parse("ws://127.0.0.1:1")
	call := &builder.PreparedCall{Method: "GET", URL: u, Headers: &builder.OrderedHeader{}}

	_, err := transport.DialWebSocket(context.Background(), call)
	if err == nil {
		t.Fatal("expected dial error")
	}
}
