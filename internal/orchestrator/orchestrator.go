// Package orchestrator drives a Request through the per-request finite
// state machine of spec.md §4.7: Idle → Preparing → Dispatching →
// Responded/Cancelled/TimedOut → Idle (plus Connected for WebSocket),
// generalized from the teacher's session.SessionManager's
// RWMutex-guarded-map-of-mutable-state shape, applied here to a single
// Request's transient fields rather than a fleet of sessions.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/arayel/squrl/internal/builder"
	"github.com/arayel/squrl/internal/config"
	"github.com/arayel/squrl/internal/objectmodel"
	"github.com/arayel/squrl/internal/persistence"
	"github.com/arayel/squrl/internal/scripthost"
	"github.com/arayel/squrl/internal/transport"
	"github.com/gorilla/websocket"
)

// StatusCanceled and StatusTimedOut are the literal status strings spec.md
// §5 requires on the two non-error terminal-but-unsent outcomes.
const (
	StatusCanceled = "CANCELED"
	StatusTimedOut = "TIMEOUT"
)

// Send drives req through Idle→Preparing→Dispatching→Responded (or
// Cancelled/TimedOut) and returns the recorded Response. It also
// persists the owning collection to disk afterward when cfg requests it
// (spec.md §4.7 "Response persistence").
//
// If req is already pending, Send does not start a second transport call:
// per spec.md §4.7 "a second send on a pending HTTP request cancels", it
// cancels the in-flight call and returns immediately with a nil Response.
// For a connected WebSocket request, use Disconnect instead (spec.md's
// "on a connected WebSocket, it disconnects" is protocol-specific and
// carries its own teardown sequence, §4.6).
func Send(parent context.Context, req *objectmodel.Request, scoped, global *objectmodel.Environment, cfg *config.Config, jar http.CookieJar, coll *objectmodel.Collection) (*objectmodel.Response, error) {
	if req.Protocol == objectmodel.ProtocolWebSocket && req.WSConnected() {
		return nil, Disconnect(req)
	}
	if req.Pending() {
		req.Cancel()
		return nil, nil
	}

	ctx, cancel := req.BeginPending(parent)
	defer cancel()

	// Preparing: run the pre-request script (if any), then build.
	globalValues, scopedValues := envValuesOf(global), envValuesOf(scoped)
	mutatedReq, mutatedEnv, preConsole, err := scripthost.EvalPreRequest(req.Scripts.PreRequest, req, pickScriptEnv(req, scopedValues, globalValues))
	if err != nil {
		req.Console.Pre = preConsole
		req.EndPending(&objectmodel.Response{StatusDisplay: "error", Error: err.Error()})
		return req.LastResponse, fmt.Errorf("orchestrator: pre-request script: %w", err)
	}
	req.Console.Pre = preConsole
	applyScriptEnvMutation(req, scoped, global, mutatedEnv)

	call, err := builder.Build(mutatedReq, scoped, global, cfg)
	if err != nil {
		resp := &objectmodel.Response{StatusDisplay: "error", Error: err.Error()}
		req.EndPending(resp)
		return resp, err
	}
	// Build counted this send on the script's copy of the request; carry
	// the Digest nonce count back so the next send continues from it.
	if req.Auth.Digest != nil && mutatedReq.Auth.Digest != nil {
		req.Auth.Digest.Nc = mutatedReq.Auth.Digest.Nc
	}

	// Dispatching: send under cancellation + timeout, per protocol. A
	// WebSocket connection and its message log belong to req itself, not
	// to the script's copy of it.
	dispatchReq := mutatedReq
	if req.Protocol == objectmodel.ProtocolWebSocket {
		dispatchReq = req
	}
	resp, dispatchErr := dispatch(ctx, dispatchReq, call, jar)
	if dispatchErr != nil {
		if errors.Is(dispatchErr, context.Canceled) {
			resp = &objectmodel.Response{StatusDisplay: StatusCanceled}
		} else if errors.Is(dispatchErr, context.DeadlineExceeded) {
			resp = &objectmodel.Response{StatusDisplay: StatusTimedOut}
		} else {
			resp = &objectmodel.Response{StatusDisplay: "error", Error: dispatchErr.Error()}
		}
	}

	// A 401 carrying a Digest challenge updates the request's stored Digest
	// state (spec.md §4.4 item 8); the response itself is still surfaced as
	// a 401 to the caller, but req.Auth.Digest is mutated in place so the
	// *next* Send succeeds without the caller re-entering credentials.
	updateDigestStateFrom401(req, resp)

	// Responded: post-script, then persist.
	if resp != nil && resp.StatusDisplay != StatusCanceled && resp.StatusDisplay != StatusTimedOut {
		postResp, postEnv, postConsole, scriptErr := scripthost.EvalPostRequest(req.Scripts.PostRequest, resp, pickScriptEnv(req, scopedValues, globalValues))
		req.Console.Post = postConsole
		if scriptErr == nil {
			resp = postResp
			applyScriptEnvMutation(req, scoped, global, postEnv)
		}
	}

	req.EndPending(resp)

	if cfg != nil && cfg.SaveRequestsResponse && coll != nil {
		if saveErr := persistence.SaveCollection(coll, "", cfg); saveErr != nil {
			return resp, fmt.Errorf("orchestrator: persisting response: %w", saveErr)
		}
	}

	return resp, dispatchErr
}

// dispatch sends call over the wire protocol req.Protocol names.
func dispatch(ctx context.Context, req *objectmodel.Request, call *builder.PreparedCall, jar http.CookieJar) (*objectmodel.Response, error) {
	switch req.Protocol {
	case objectmodel.ProtocolWebSocket:
		conn, err := transport.DialWebSocket(ctx, call)
		if err != nil {
			return nil, err
		}
		req.SetWSConnected(conn)
		go transport.RunReaderTask(context.Background(), conn, req, nil)
		return &objectmodel.Response{StatusDisplay: "101 (Switching Protocols)", StatusCode: http.StatusSwitchingProtocols}, nil

	case objectmodel.ProtocolGRPC:
		return transport.SendGRPC(ctx, call, req.GRPCProtoFile, req.GRPCServiceMethod, req.Body.Text)

	default: // HTTP, GraphQL
		prettyPrint := req.Settings.PrettyPrintResponse.Resolve(true)
		return transport.SendHTTP(ctx, call, jar, prettyPrint)
	}
}

// Disconnect implements spec.md §4.6's disconnect sequence: send a Close
// frame with the Normal code, then close the write half and drop the read
// half (the reader task's own error path handles dropping the read half
// once the socket closes out from under it).
func Disconnect(req *objectmodel.Request) error {
	conn, ok := req.WSConn().(*websocket.Conn)
	if !ok || conn == nil {
		return nil
	}
	return transport.DisconnectWebSocket(conn)
}

// updateDigestStateFrom401 inspects resp for a 401 status carrying a
// WWW-Authenticate: Digest challenge and, when req's auth is Digest,
// reparses it into req.Auth.Digest's challenge fields, resetting Nc so the
// next applyDigestAuth starts the nonce count fresh. Anything short of a
// Digest-authed 401 with a parseable challenge leaves req untouched.
func updateDigestStateFrom401(req *objectmodel.Request, resp *objectmodel.Response) {
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		return
	}
	if req.Auth.Kind != objectmodel.AuthDigest || req.Auth.Digest == nil {
		return
	}
	challengeHeader := findHeader(resp.Headers, "WWW-Authenticate")
	if challengeHeader == "" {
		return
	}
	challenge, err := builder.ParseWWWAuthenticate(challengeHeader)
	if err != nil {
		return
	}

	digest := req.Auth.Digest
	digest.Realm = challenge.Realm
	digest.Nonce = challenge.Nonce
	digest.Opaque = challenge.Opaque
	digest.Qop = challenge.Qop
	digest.Algorithm = challenge.Algorithm
	digest.Stale = challenge.Stale
	if challenge.Domains != "" {
		digest.Domains = challenge.Domains
	}
	digest.Nc = 0
}

// findHeader returns the first value for key in headers, matching
// case-insensitively per RFC 7230's header-name rules.
func findHeader(headers objectmodel.KeyValueList, key string) string {
	for _, kv := range headers {
		if strings.EqualFold(kv.Key, key) {
			return kv.Value
		}
	}
	return ""
}

func envValuesOf(env *objectmodel.Environment) *objectmodel.EnvValues {
	if env == nil {
		return nil
	}
	return env.Values
}

// pickScriptEnv mirrors original_source's env-target resolution: scripts
// read/write whichever environment is currently selected for the request's
// owning collection (scoped takes precedence over global).
func pickScriptEnv(req *objectmodel.Request, scoped, global *objectmodel.EnvValues) *objectmodel.EnvValues {
	if scoped != nil {
		return scoped
	}
	return global
}

// applyScriptEnvMutation writes a script's mutated env values back into
// whichever Environment (scoped or global) the script was given. The values
// are set in memory only: nothing here saves either environment to disk.
func applyScriptEnvMutation(req *objectmodel.Request, scoped, global *objectmodel.Environment, mutated *objectmodel.EnvValues) {
	if mutated == nil {
		return
	}
	target := scoped
	if target == nil {
		target = global
	}
	if target == nil {
		return
	}
	for _, key := range mutated.Keys() {
		value, _ := mutated.Get(key)
		target.Values.Set(key, value)
	}
}
