package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"golang.org/x/net/http2"
	"google.golang.org/grpc/codes"

	"github.com/arayel/squrl/internal/builder"
	"github.com/arayel/squrl/internal/objectmodel"
)

// ParseServiceMethod splits "package.Service/Method" into its service and
// method name parts.
func ParseServiceMethod(serviceMethod string) (service, method string, err error) {
	idx := strings.LastIndex(serviceMethod, "/")
	if idx < 0 {
		return "", "", fmt.Errorf("%w: %q is not \"service/method\"", ErrMethodNotFound, serviceMethod)
	}
	return serviceMethod[:idx], serviceMethod[idx+1:], nil
}

// resolveMethod parses protoFile (with its parent directory on the import
// path, per spec.md §4.6 item 1) and resolves serviceName/methodName against
// the resulting descriptor pool.
func resolveMethod(protoFile, serviceName, methodName string) (*desc.MethodDescriptor, error) {
	parser := protoparse.Parser{
		ImportPaths:           []string{filepath.Dir(protoFile)},
		IncludeSourceCodeInfo: false,
	}
	fds, err := parser.ParseFiles(filepath.Base(protoFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtoParse, err)
	}
	if len(fds) == 0 {
		return nil, fmt.Errorf("%w: no file descriptors produced", ErrProtoParse)
	}

	var svc *desc.ServiceDescriptor
	for _, fd := range fds {
		if s := fd.FindService(serviceName); s != nil {
			svc = s
			break
		}
		for _, s := range fd.GetServices() {
			if s.GetName() == serviceName {
				svc = s
				break
			}
		}
		if svc != nil {
			break
		}
	}
	if svc == nil {
		return nil, fmt.Errorf("%w: %q", ErrServiceNotFound, serviceName)
	}

	method := svc.FindMethodByName(methodName)
	if method == nil {
		return nil, fmt.Errorf("%w: %q", ErrMethodNotFound, methodName)
	}
	return method, nil
}

// SendGRPC implements spec.md §4.6's gRPC transport: parse → resolve →
// JSON-decode/protobuf-encode → frame → HTTP/2 prior-knowledge POST →
// unframe → protobuf-decode/JSON-encode → compose a display status.
func SendGRPC(ctx context.Context, call *builder.PreparedCall, protoFile, serviceMethod, jsonMessage string) (*objectmodel.Response, error) {
	start := time.Now()

	serviceName, methodName, err := ParseServiceMethod(serviceMethod)
	if err != nil {
		return nil, err
	}
	method, err := resolveMethod(protoFile, serviceName, methodName)
	if err != nil {
		return nil, err
	}

	inputMsg := dynamic.NewMessage(method.GetInputType())
	if err := inputMsg.UnmarshalJSON([]byte(jsonMessage)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	payload, err := inputMsg.Marshal()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}

	framed := grpcFrame(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, call.URL.String(), bytes.NewReader(framed))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHTTP, err)
	}
	call.Headers.ApplyToRequest(req)
	req.Header.Set("content-type", "application/grpc")
	req.Header.Set("te", "trailers")

	client := grpcHTTP2Client(call)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHTTP, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrHTTP, err)
	}

	respPayload, err := grpcUnframe(body)
	if err != nil {
		return nil, err
	}

	outputMsg := dynamic.NewMessage(method.GetOutputType())
	if err := outputMsg.Unmarshal(respPayload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	outJSON, err := outputMsg.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	// spec.md §4.6 item 6 requires 64-bit integer fields stay numeric
	// rather than the canonical proto3 JSON mapping's quoted strings.
	if fixed, err := keepWideIntsNumeric(outJSON, method.GetOutputType()); err == nil {
		outJSON = fixed
	}

	grpcStatus := resp.Trailer.Get("grpc-status")
	grpcMessage := resp.Trailer.Get("grpc-message")

	return &objectmodel.Response{
		StatusDisplay: grpcStatusDisplay(resp.StatusCode, grpcStatus, grpcMessage),
		StatusCode:    resp.StatusCode,
		Duration:      time.Since(start),
		Headers:       headersToKeyValueList(resp.Header),
		Body:          string(outJSON),
		RawBody:       outJSON,
	}, nil
}

// grpcHTTP2Client returns an *http.Client whose transport speaks HTTP/2
// prior-knowledge in plaintext (h2c) when call.URL is http, or standard TLS
// negotiated HTTP/2 when https — matching spec.md §4.6 item 5.
func grpcHTTP2Client(call *builder.PreparedCall) *http.Client {
	if call.URL.Scheme == "https" {
		return &http.Client{Transport: &http2.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: call.AcceptInvalidCerts},
		}}
	}
	return &http.Client{Transport: &http2.Transport{
		AllowHTTP: true,
		DialTLSContext: func(ctx context.Context, network, addr string, cfg *tls.Config) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, network, addr)
		},
	}}
}

// grpcFrame prepends the Length-Prefixed-Message header spec.md §4.6 item 4
// describes: one byte 0 (no compression), four bytes big-endian length.
func grpcFrame(payload []byte) []byte {
	out := make([]byte, 5+len(payload))
	out[0] = 0
	binary.BigEndian.PutUint32(out[1:5], uint32(len(payload)))
	copy(out[5:], payload)
	return out
}

// grpcUnframe strips the 5-byte LPM header and returns the payload, per
// spec.md §4.6 item 6 ("if >= 5 bytes, unframes").
func grpcUnframe(data []byte) ([]byte, error) {
	if len(data) < 5 {
		return nil, fmt.Errorf("%w: frame too short (%d bytes)", ErrGrpcFrame, len(data))
	}
	length := binary.BigEndian.Uint32(data[1:5])
	if int(length) > len(data)-5 {
		return nil, fmt.Errorf("%w: declared length %d exceeds payload", ErrGrpcFrame, length)
	}
	return data[5 : 5+length], nil
}

// grpcStatusDisplay composes spec.md §4.6 item 7's display string, e.g.
// "200 (OK)" or "200 (gRPC 5: NotFound)".
func grpcStatusDisplay(httpStatus int, grpcStatus, grpcMessage string) string {
	if grpcStatus == "" || grpcStatus == "0" {
		return fmt.Sprintf("%d (OK)", httpStatus)
	}
	code, err := strconv.Atoi(grpcStatus)
	if err != nil {
		return fmt.Sprintf("%d (gRPC %s)", httpStatus, grpcStatus)
	}
	name := codes.Code(code).String()
	if grpcMessage != "" {
		return fmt.Sprintf("%d (gRPC %d: %s: %s)", httpStatus, code, name, grpcMessage)
	}
	return fmt.Sprintf("%d (gRPC %d: %s)", httpStatus, code, name)
}
