package objectmodel

import "time"

// MessageSender distinguishes who produced a WebSocket Message.
type MessageSender string

const (
	SenderServer MessageSender = "server"
	SenderYou    MessageSender = "you"
)

// MessageType classifies a WebSocket frame (spec.md §4.6).
type MessageType string

const (
	MessageText   MessageType = "text"
	MessageBinary MessageType = "binary"
	MessagePing   MessageType = "ping"
	MessagePong   MessageType = "pong"
	MessageClose  MessageType = "close"
)

// Message is one entry in a WebSocket request's message log.
type Message struct {
	Timestamp time.Time     `json:"timestamp"`
	Type      MessageType   `json:"type"`
	Content   string        `json:"content"`
	Sender    MessageSender `json:"sender"`
	// CloseCode and CloseReason are populated only when Type is
	// MessageClose.
	CloseCode   int    `json:"close_code,omitempty"`
	CloseReason string `json:"close_reason,omitempty"`
}

// Response is the outcome of a single dispatched request, recorded onto
// Request.LastResponse by the Lifecycle Orchestrator's Responded state
// (spec.md §4.6, §4.7).
type Response struct {
	// StatusDisplay is a human-facing composed status string, e.g.
	// "200 (OK)" or "200 (gRPC 5: NotFound)" for gRPC calls.
	StatusDisplay string `json:"status_display"`
	StatusCode    int    `json:"status_code"`
	Duration      time.Duration `json:"duration"`

	// Headers holds the response's headers, one KeyValue per header value
	// received. Built from net/http's parsed http.Header (see
	// internal/transport's headersToKeyValueList), which is itself a
	// map — Go's HTTP stack does not retain wire order across distinct
	// header keys, only the order of repeated values for the same key.
	// The order across distinct keys therefore follows Go's map iteration,
	// can differ from one response to the next, and is not the wire order.
	Headers KeyValueList `json:"headers"`

	// IsImage is true when the Content-Type header matched image/*; in
	// that case RawBody holds the raw image bytes as received and Body is
	// empty. ImageFormat/ImageWidth/ImageHeight are populated when the
	// image library was able to decode the bytes; a malformed or
	// truncated image still sets IsImage and RawBody, just with these
	// three left at their zero value.
	IsImage     bool   `json:"is_image"`
	ImageFormat string `json:"image_format,omitempty"`
	ImageWidth  int    `json:"image_width,omitempty"`
	ImageHeight int    `json:"image_height,omitempty"`
	RawBody     []byte `json:"raw_body,omitempty"`
	Body        string `json:"body,omitempty"`

	// Error holds a human-readable description when the transport layer
	// could not complete the call (spec.md §7); a Response with Error set
	// still reaches the Responded state so a failed call is visible.
	Error string `json:"error,omitempty"`
}
