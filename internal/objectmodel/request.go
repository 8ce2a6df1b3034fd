package objectmodel

import (
	"context"
	"sync"
)

// ConsoleOutput holds the console.log output captured from a request's
// pre-request and post-request scripts (spec.md §4.5).
type ConsoleOutput struct {
	Pre  string `json:"pre,omitempty"`
	Post string `json:"post,omitempty"`
}

// Request is a single stored call: its persisted definition (name,
// protocol, URL, params, headers, auth, body, scripts, settings) plus
// transient runtime state that resets on every process start (spec.md §3).
//
// The persisted fields are safe to read without locking once a Request has
// been loaded; callers that mutate them must go through a collection's
// write-capability helper (internal/persistence, internal/orchestrator),
// which is responsible for serializing writes and flushing to disk. The mu
// field below only guards the transient runtime fields, which are written
// from the orchestrator's goroutines concurrently with UI/CLI reads.
type Request struct {
	Name     string        `json:"name" yaml:"name"`
	Protocol Protocol      `json:"protocol" yaml:"protocol"`
	URL      string        `json:"url" yaml:"url"`
	Params   KeyValueList  `json:"params" yaml:"params"`
	Headers  KeyValueList  `json:"headers" yaml:"headers"`
	Auth     Auth          `json:"auth" yaml:"auth"`
	Method   HTTPMethod    `json:"method,omitempty" yaml:"method,omitempty"`
	Body     Body          `json:"body" yaml:"body"`
	Scripts  ScriptsRecord `json:"scripts" yaml:"scripts"`
	Settings Settings      `json:"settings" yaml:"settings"`

	// GRPCProtoFile and GRPCServiceMethod are only meaningful when
	// Protocol is ProtocolGRPC (spec.md §4.6 item 1-2).
	GRPCProtoFile     string `json:"grpc_proto_file,omitempty" yaml:"grpc_proto_file,omitempty"`
	GRPCServiceMethod string `json:"grpc_service_method,omitempty" yaml:"grpc_service_method,omitempty"`

	mu sync.RWMutex

	// IsPending is true between the Preparing and Responded/Cancelled/
	// TimedOut transitions of the Lifecycle Orchestrator FSM.
	IsPending bool `json:"-" yaml:"-"`

	// cancel is the current cancellation token's cancel function. It is
	// replaced with a fresh one after every terminal transition so the
	// next send starts clean (spec.md §4.7).
	cancel context.CancelFunc

	// LastResponse holds the most recent dispatch outcome, or nil before
	// the first send.
	LastResponse *Response `json:"last_response,omitempty" yaml:"-"`

	// Console holds the most recent pre/post script console.log output.
	Console ConsoleOutput `json:"-" yaml:"-"`

	// WebSocket connection state, guarded separately from mu per spec.md
	// §4.6 ("behind exclusive-write/shared-read guards distinct from the
	// request guard").
	wsMu        sync.RWMutex
	wsConnected bool
	wsConn      interface{} // *websocket.Conn, typed in internal/transport to avoid an import cycle
	MessageLog  []Message   `json:"message_log,omitempty" yaml:"-"`
}

// NewRequest sanitizes name and returns a Request with default settings and
// no auth/body, or ErrEmptyName.
func NewRequest(name string, protocol Protocol) (*Request, error) {
	sanitized, err := ValidateName(name)
	if err != nil {
		return nil, err
	}
	return &Request{
		Name:     sanitized,
		Protocol: protocol,
		Method:   MethodGet,
		Auth:     NoAuth(),
		Body:     NoBody(),
		Settings: DefaultSettings(),
	}, nil
}

// Rename sanitizes newName and applies it.
func (r *Request) Rename(newName string) error {
	sanitized, err := ValidateName(newName)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.Name = sanitized
	r.mu.Unlock()
	return nil
}

// Clone returns a deep-enough copy of r suitable for "duplicate request":
// persisted fields are copied by value (slices re-sliced into fresh
// backing arrays); transient runtime state is reset, matching a freshly
// loaded request.
func (r *Request) Clone() *Request {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clone := &Request{
		Name:              r.Name,
		Protocol:          r.Protocol,
		URL:               r.URL,
		Method:            r.Method,
		Auth:              r.Auth,
		Body:              r.Body,
		Scripts:           r.Scripts,
		Settings:          r.Settings,
		GRPCProtoFile:     r.GRPCProtoFile,
		GRPCServiceMethod: r.GRPCServiceMethod,
	}
	clone.Params = append(KeyValueList(nil), r.Params...)
	clone.Headers = append(KeyValueList(nil), r.Headers...)
	if r.Auth.Digest != nil {
		digestCopy := *r.Auth.Digest
		clone.Auth.Digest = &digestCopy
	}
	if r.Auth.Jwt != nil {
		jwtCopy := *r.Auth.Jwt
		clone.Auth.Jwt = &jwtCopy
	}
	if r.Auth.Basic != nil {
		basicCopy := *r.Auth.Basic
		clone.Auth.Basic = &basicCopy
	}
	if r.Auth.Bearer != nil {
		bearerCopy := *r.Auth.Bearer
		clone.Auth.Bearer = &bearerCopy
	}
	clone.Body.Form = append(KeyValueList(nil), r.Body.Form...)
	clone.Body.Multipart = append(KeyValueList(nil), r.Body.Multipart...)
	return clone
}

// BeginPending marks the request pending and installs a fresh cancellation
// token, returning its context and the idempotent cancel function.
//
// Per spec.md §4.7 ("the cancellation handle is reset to a fresh token
// after every terminal transition"), callers must not reuse a context
// obtained from a previous BeginPending call.
func (r *Request) BeginPending(parent context.Context) (context.Context, context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctx, cancel := context.WithCancel(parent)
	r.IsPending = true
	r.cancel = cancel
	return ctx, cancel
}

// Cancel invokes the current cancellation token's cancel function, if the
// request is pending. Calling Cancel when not pending, or calling it twice,
// is a no-op (cancel functions are idempotent by contract of
// context.WithCancel).
func (r *Request) Cancel() {
	r.mu.RLock()
	cancel := r.cancel
	r.mu.RUnlock()
	if cancel != nil {
		cancel()
	}
}

// EndPending clears the pending flag and records resp as the new
// LastResponse, transitioning the request back to Idle.
func (r *Request) EndPending(resp *Response) {
	r.mu.Lock()
	r.IsPending = false
	r.LastResponse = resp
	r.cancel = nil
	r.mu.Unlock()
}

// Pending reports whether a transport call is currently in flight.
func (r *Request) Pending() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.IsPending
}

// SetWSConnected records the WebSocket connection object and marks the
// request connected.
func (r *Request) SetWSConnected(conn interface{}) {
	r.wsMu.Lock()
	r.wsConn = conn
	r.wsConnected = true
	r.wsMu.Unlock()
}

// ClearWSConnected drops the stored connection object and marks the
// request disconnected.
func (r *Request) ClearWSConnected() {
	r.wsMu.Lock()
	r.wsConn = nil
	r.wsConnected = false
	r.wsMu.Unlock()
}

// WSConnected reports whether a WebSocket connection is currently
// established.
func (r *Request) WSConnected() bool {
	r.wsMu.RLock()
	defer r.wsMu.RUnlock()
	return r.wsConnected
}

// WSConn returns the stored connection object (typically a
// *websocket.Conn), or nil if not connected. The concrete type is opaque
// here to avoid internal/objectmodel importing internal/transport.
func (r *Request) WSConn() interface{} {
	r.wsMu.RLock()
	defer r.wsMu.RUnlock()
	return r.wsConn
}

// AppendMessage appends msg to the request's WebSocket message log.
func (r *Request) AppendMessage(msg Message) {
	r.wsMu.Lock()
	r.MessageLog = append(r.MessageLog, msg)
	r.wsMu.Unlock()
}
