package transport_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/arayel/squrl/internal/builder"
	"github.com/arayel/squrl/internal/cookiejar"
	"github.com/arayel/squrl/internal/transport"
)

func TestSendHTTP_SimpleGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	call := &builder.PreparedCall{Method: "GET", URL: u, Headers: &builder.OrderedHeader{}, FollowRedirects: true}
	jar, _ := cookiejar.New()

	resp, err := transport.SendHTTP(context.Background(), call, jar, false)
	if err != nil {
		t.Fatalf("SendHTTP: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("StatusCode: got %d", resp.StatusCode)
	}
	if resp.Body != `{"ok":true}` {
		t.Errorf("Body: got %q", resp.Body)
	}
}

func TestSendHTTP_PrettyPrintsJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"a":1}`))
	}))
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	call := &builder.PreparedCall{Method: "GET", URL: u, Headers: &builder.OrderedHeader{}, FollowRedirects: true}
	jar, _ := cookiejar.New()

	resp, err := transport.SendHTTP(context.Background(), call, jar, true)
	if err != nil {
		t.Fatalf("SendHTTP: %v", err)
	}
	if resp.Body == `{"a":1}` {
		t.Error("expected body to be reformatted, got compact form")
	}
}

func TestSendHTTP_ImageContentTypeSetsRawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte{0x89, 0x50, 0x4e, 0x47})
	}))
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	call := &builder.PreparedCall{Method: "GET", URL: u, Headers: &builder.OrderedHeader{}, FollowRedirects: true}
	jar, _ := cookiejar.New()

	resp, err := transport.SendHTTP(context.Background(), call, jar, false)
	if err != nil {
		t.Fatalf("SendHTTP: %v", err)
	}
	if !resp.IsImage {
		t.Error("expected IsImage true")
	}
	if len(resp.RawBody) != 4 {
		t.Errorf("RawBody: got %d bytes", len(resp.RawBody))
	}
}

func TestSendHTTP_ValidImageDecodesFormatAndDimensions(t *testing.T) {
	// A real 1x1 transparent PNG, so image.DecodeConfig has something to
	// actually decode (the other image test above sends a truncated
	// 4-byte payload, which only exercises the raw-bytes-kept-regardless
	// path).
	const onePixelPNGBase64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAAC0lEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="
	pngBytes, err := base64.StdEncoding.DecodeString(onePixelPNGBase64)
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngBytes)
	}))
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	call := &builder.PreparedCall{Method: "GET", URL: u, Headers: &builder.OrderedHeader{}, FollowRedirects: true}
	jar, _ := cookiejar.New()

	resp, err := transport.SendHTTP(context.Background(), call, jar, false)
	if err != nil {
		t.Fatalf("SendHTTP: %v", err)
	}
	if !resp.IsImage {
		t.Fatal("expected IsImage true")
	}
	if resp.ImageFormat != "png" {
		t.Errorf("ImageFormat: got %q, want png", resp.ImageFormat)
	}
	if resp.ImageWidth != 1 || resp.ImageHeight != 1 {
		t.Errorf("dimensions: got %dx%d, want 1x1", resp.ImageWidth, resp.ImageHeight)
	}
	if len(resp.RawBody) != len(pngBytes) {
		t.Errorf("RawBody: got %d bytes, want %d", len(resp.RawBody), len(pngBytes))
	}
}

func TestSendHTTP_CancellationReturnsError(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	u, _ := url.Parse(srv.URL)
	call := &builder.PreparedCall{Method: "GET", URL: u, Headers: &builder.OrderedHeader{}, FollowRedirects: true}
	jar, _ := cookiejar.New()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := transport.SendHTTP(ctx, call, jar, false)
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
}

func TestSendHTTP_TimeoutProducesTimedOutResponse(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	u, _ := url.Parse(srv.URL)
	call := &builder.PreparedCall{
		Method: "GET", URL: u, Headers: &builder.OrderedHeader{},
		FollowRedirects: true, TimeoutMillis: 20,
	}
	jar, _ := cookiejar.New()

	resp, err := transport.SendHTTP(context.Background(), call, jar, false)
	if err != nil {
		t.Fatalf("SendHTTP: %v", err)
	}
	if resp.StatusDisplay != "TIMEOUT" {
		t.Errorf("StatusDisplay: got %q", resp.StatusDisplay)
	}
}
