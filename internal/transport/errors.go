package transport

import "errors"

// Sentinel errors matching spec.md §4.6's per-protocol failure taxonomy.
var (
	// ErrHTTP wraps a transport-level failure common to all three
	// protocol paths (connection refused, TLS failure, context
	// cancellation surfacing as something other than context.Canceled).
	ErrHTTP = errors.New("transport: http error")

	// ErrProtoParse is returned when a .proto file cannot be parsed into
	// a descriptor pool.
	ErrProtoParse = errors.New("transport: proto parse error")

	// ErrServiceNotFound / ErrMethodNotFound are returned when the
	// fully-qualified service or method name does not resolve against
	// the parsed descriptor pool.
	ErrServiceNotFound = errors.New("transport: grpc service not found")
	ErrMethodNotFound  = errors.New("transport: grpc method not found")

	// ErrEncode / ErrDecode wrap protobuf JSON<->wire conversion failures.
	ErrEncode = errors.New("transport: encode error")
	ErrDecode = errors.New("transport: decode error")

	// ErrGrpcFrame is returned when a gRPC length-prefixed-message frame
	// is malformed (too short, declared length exceeds the body).
	ErrGrpcFrame = errors.New("transport: grpc frame error")
)
