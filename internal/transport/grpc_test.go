package transport

import (
	"bytes"
	"testing"
)

func TestGrpcFrame_PrependsHeader(t *testing.T) {
	payload := []byte("hello")
	framed := grpcFrame(payload)
	if len(framed) != 5+len(payload) {
		t.Fatalf("length: got %d, want %d", len(framed), 5+len(payload))
	}
	if framed[0] != 0 {
		t.Errorf("compression flag: got %d, want 0", framed[0])
	}
	if !bytes.Equal(framed[5:], payload) {
		t.Errorf("payload: got %q", framed[5:])
	}
}

func TestGrpcUnframe_RoundTrip(t *testing.T) {
	payload := []byte("some protobuf bytes")
	framed := grpcFrame(payload)

	out, err := grpcUnframe(framed)
	if err != nil {
		t.Fatalf("grpcUnframe: %v", err)
	}
	if !bytes.Equal(out, payload) {
		t.Errorf("got %q, want %q", out, payload)
	}
}

func TestGrpcUnframe_TooShortFails(t *testing.T) {
	_, err := grpcUnframe([]byte{0, 0, 0})
	if err == nil {
		t.Fatal("expected error for frame shorter than 5 bytes")
	}
}

func TestGrpcUnframe_DeclaredLengthExceedsPayloadFails(t *testing.T) {
	data := []byte{0, 0, 0, 0, 100, 1, 2, 3}
	_, err := grpcUnframe(data)
	if err == nil {
		t.Fatal("expected error when declared length exceeds payload")
	}
}

func TestParseServiceMethod(t *testing.T) {
	service, method, err := ParseServiceMethod("pkg.MyService/DoThing")
	if err != nil {
		t.Fatalf("ParseServiceMethod: %v", err)
	}
	if service != "pkg.MyService" || method != "DoThing" {
		t.Errorf("got service=%q method=%q", service, method)
	}
}

func TestParseServiceMethod_MissingSlashFails(t *testing.T) {
	_, _, err := ParseServiceMethod("not-a-valid-spec")
	if err == nil {
		t.Fatal("expected error for missing slash")
	}
}

func TestGrpcStatusDisplay_OK(t *testing.T) {
	got := grpcStatusDisplay(200, "", "")
	if got != "200 (OK)" {
		t.Errorf("got %q", got)
	}
}

func TestGrpcStatusDisplay_ErrorCode(t *testing.T) {
	got := grpcStatusDisplay(200, "5", "not found")
	if got != "200 (gRPC 5: NotFound: not found)" {
		t.Errorf("got %q", got)
	}
}

func TestGrpcStatusDisplay_ErrorCodeWithoutMessage(t *testing.T) {
	got := grpcStatusDisplay(200, "5", "")
	if got != "200 (gRPC 5: NotFound)" {
		t.Errorf("got %q", got)
	}
}
