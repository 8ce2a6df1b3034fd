package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/arayel/squrl/internal/builder"
	"github.com/arayel/squrl/internal/objectmodel"
	"github.com/gorilla/websocket"
)

// dialTimeout bounds the WebSocket upgrade handshake, mirroring the HTTP
// path's defaultTimeout.
const dialTimeout = 30 * time.Second

// DialWebSocket performs the upgrade under the same cancel/timeout select as
// SendHTTP (spec.md §4.6 "Perform the upgrade under the same select"),
// returning the established connection on a 101 Switching Protocols
// response. The caller is responsible for storing conn on the owning
// Request (via Request.SetWSConnected) and spawning the reader task
// (RunReaderTask).
func DialWebSocket(ctx context.Context, call *builder.PreparedCall) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}

	header := make(map[string][]string)
	for _, kv := range call.Headers.Entries() {
		header[kv.Key] = append(header[kv.Key], kv.Value)
	}

	type result struct {
		conn *websocket.Conn
		err  error
	}
	done := make(chan result, 1)
	go func() {
		conn, _, err := dialer.DialContext(ctx, wsURL(call), header)
		done <- result{conn: conn, err: err}
	}()

	timer := time.NewTimer(dialTimeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, fmt.Errorf("%w: websocket handshake timed out", ErrHTTP)
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("%w: %v", ErrHTTP, r.err)
		}
		return r.conn, nil
	}
}

// wsURL rewrites call.URL's scheme to ws/wss if the builder left it as
// http/https (a request may be authored with an http:// URL and only
// Protocol=websocket distinguishes it).
func wsURL(call *builder.PreparedCall) string {
	u := *call.URL
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	return u.String()
}

// RunReaderTask loops reading frames from conn until cancellation or a
// socket error, classifying each into a Message appended to req's message
// log, matching spec.md §4.6's reader-task description. It returns when the
// connection closes; callers spawn it with `go RunReaderTask(...)`.
func RunReaderTask(ctx context.Context, conn *websocket.Conn, req *objectmodel.Request, onMessage func()) {
	defer req.ClearWSConnected()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	// gorilla/websocket's default Ping/Pong handlers consume control
	// frames internally before ReadMessage ever returns them (replying to
	// a Ping with a Pong automatically), so without these overrides a
	// server-sent Ping/Pong never reaches the message log below. These
	// log the frame and then perform the same default behavior the
	// library would have (SetPingHandler's zero value auto-replies; here
	// that reply is done explicitly since installing a handler disables
	// it).
	conn.SetPingHandler(func(data string) error {
		req.AppendMessage(objectmodel.Message{
			Timestamp: time.Now(),
			Type:      objectmodel.MessagePing,
			Content:   data,
			Sender:    objectmodel.SenderServer,
		})
		if onMessage != nil {
			onMessage()
		}
		err := conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
		if err == websocket.ErrCloseSent {
			return nil
		}
		return err
	})
	conn.SetPongHandler(func(data string) error {
		req.AppendMessage(objectmodel.Message{
			Timestamp: time.Now(),
			Type:      objectmodel.MessagePong,
			Content:   data,
			Sender:    objectmodel.SenderServer,
		})
		if onMessage != nil {
			onMessage()
		}
		return nil
	})

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			code, reason := closeInfoFromError(err)
			req.AppendMessage(objectmodel.Message{
				Timestamp:   time.Now(),
				Type:        objectmodel.MessageClose,
				Sender:      objectmodel.SenderServer,
				CloseCode:   code,
				CloseReason: reason,
			})
			if onMessage != nil {
				onMessage()
			}
			return
		}

		req.AppendMessage(objectmodel.Message{
			Timestamp: time.Now(),
			Type:      messageTypeFromWire(messageType),
			Content:   string(data),
			Sender:    objectmodel.SenderServer,
		})
		if onMessage != nil {
			onMessage()
		}
	}
}

func messageTypeFromWire(wireType int) objectmodel.MessageType {
	switch wireType {
	case websocket.TextMessage:
		return objectmodel.MessageText
	case websocket.BinaryMessage:
		return objectmodel.MessageBinary
	case websocket.PingMessage:
		return objectmodel.MessagePing
	case websocket.PongMessage:
		return objectmodel.MessagePong
	default:
		return objectmodel.MessageBinary
	}
}

func closeInfoFromError(err error) (int, string) {
	if closeErr, ok := err.(*websocket.CloseError); ok {
		return closeErr.Code, closeErr.Text
	}
	return websocket.CloseAbnormalClosure, err.Error()
}

// SendWebSocketMessage encodes text per the message type currently in
// effect and writes it to conn, appending a You-sent Message to req's log
// (spec.md §4.6 "Sending a user message ... encodes the user's text
// accordingly").
func SendWebSocketMessage(conn *websocket.Conn, req *objectmodel.Request, msgType objectmodel.MessageType, text string) error {
	wireType := websocket.TextMessage
	if msgType == objectmodel.MessageBinary {
		wireType = websocket.BinaryMessage
	}
	if err := conn.WriteMessage(wireType, []byte(text)); err != nil {
		return fmt.Errorf("%w: %v", ErrHTTP, err)
	}
	req.AppendMessage(objectmodel.Message{
		Timestamp: time.Now(),
		Type:      msgType,
		Content:   text,
		Sender:    objectmodel.SenderYou,
	})
	return nil
}

// DisconnectWebSocket sends a Normal-code Close frame then closes conn,
// matching spec.md §4.6: "Disconnect is initiated by re-sending on an
// already-connected request: send a Close frame with Normal code, then
// close the write half and drop the read half."
func DisconnectWebSocket(conn *websocket.Conn) error {
	deadline := time.Now().Add(5 * time.Second)
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, deadline)
	return conn.Close()
}
