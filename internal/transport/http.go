package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/arayel/squrl/internal/builder"
	"github.com/arayel/squrl/internal/objectmodel"
)

// defaultTimeout is used when a PreparedCall carries no explicit timeout,
// matching the teacher's client.NewHTTPClient default of an end-to-end
// http.Client.Timeout.
const defaultTimeout = 30 * time.Second

// SendHTTP dispatches call under a select on cancellation, a timeout and the
// response (spec.md §4.6 "select!(cancellation, timeout, response)"); the
// gRPC path has no such timeout and the WebSocket dial uses a fixed one.
// It builds a one-shot *http.Client tuned from call's resolved
// settings: redirect policy, TLS laxity, proxy, and the shared cookie jar.
//
// If call.PendingFilePath is set, the file is opened here (the caller of the
// builder defers exactly this open, per spec.md §4.4 item 9 "File").
func SendHTTP(ctx context.Context, call *builder.PreparedCall, jar http.CookieJar, prettyPrintJSON bool) (*objectmodel.Response, error) {
	body, bodyCloser, err := openBody(call)
	if err != nil {
		return nil, err
	}
	if bodyCloser != nil {
		defer bodyCloser.Close()
	}

	req, err := http.NewRequestWithContext(ctx, call.Method, call.URL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHTTP, err)
	}
	call.Headers.ApplyToRequest(req)

	httpClient := buildHTTPClient(call, jar)

	type result struct {
		resp *http.Response
		err  error
	}
	done := make(chan result, 1)
	start := time.Now()
	go func() {
		resp, err := httpClient.Do(req)
		done <- result{resp: resp, err: err}
	}()

	timeout := defaultTimeout
	if call.TimeoutMillis > 0 {
		timeout = time.Duration(call.TimeoutMillis) * time.Millisecond
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return &objectmodel.Response{
			StatusDisplay: "TIMEOUT", // the literal orchestrator.StatusTimedOut holds
			Duration:      time.Since(start),
			Error:         fmt.Sprintf("request exceeded %s timeout", timeout),
		}, nil
	case r := <-done:
		if r.err != nil {
			return &objectmodel.Response{
				StatusDisplay: "error",
				Duration:      time.Since(start),
				Error:         r.err.Error(),
			}, nil
		}
		return decodeHTTPResponse(r.resp, time.Since(start), prettyPrintJSON)
	}
}

// openBody returns the request body reader: call.Body directly, or
// call.PendingFilePath opened synchronously if set. Both are nil/empty for
// a bodyless request.
func openBody(call *builder.PreparedCall) (io.Reader, io.Closer, error) {
	if call.PendingFilePath != "" {
		f, err := os.Open(call.PendingFilePath)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: opening %s: %v", ErrHTTP, call.PendingFilePath, err)
		}
		return f, f, nil
	}
	if len(call.Body) == 0 {
		return nil, nil, nil
	}
	return bytes.NewReader(call.Body), nil, nil
}

// buildHTTPClient constructs a one-shot *http.Client tuned from call,
// following the same shape as the teacher's client.NewHTTPClient but reading
// its knobs from the per-request PreparedCall rather than constructor
// arguments.
func buildHTTPClient(call *builder.PreparedCall, jar http.CookieJar) *http.Client {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: call.AcceptInvalidCerts,
		},
	}
	if call.AcceptInvalidHostnames && transport.TLSClientConfig != nil {
		transport.TLSClientConfig.InsecureSkipVerify = true
	}
	if call.ProxyURL != nil {
		transport.Proxy = http.ProxyURL(call.ProxyURL)
	}

	httpClient := &http.Client{Transport: transport}
	if call.StoreReceivedCookies {
		httpClient.Jar = jar
	}
	if !call.FollowRedirects {
		httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return httpClient
}

// decodeHTTPResponse builds a Response from resp, classifying image
// content (decoding it via the standard library's image package for
// format/dimensions — the raw bytes are always kept regardless of whether
// decoding succeeds) and pretty-printing JSON bodies when prettyPrintJSON is
// set (spec.md §4.6: "classify body as image if a Content-Type: image/*
// header is present ... decode via image library; keep raw bytes always ...
// otherwise UTF-8 decode and, if pretty_print_response_content and body is
// JSON-typed, reformat").
func decodeHTTPResponse(resp *http.Response, duration time.Duration, prettyPrintJSON bool) (*objectmodel.Response, error) {
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrHTTP, err)
	}

	headers := headersToKeyValueList(resp.Header)
	contentType := resp.Header.Get("Content-Type")

	out := &objectmodel.Response{
		StatusDisplay: fmt.Sprintf("%d (%s)", resp.StatusCode, http.StatusText(resp.StatusCode)),
		StatusCode:    resp.StatusCode,
		Duration:      duration,
		Headers:       headers,
	}

	if strings.HasPrefix(contentType, "image/") {
		out.IsImage = true
		out.RawBody = raw
		if cfg, format, err := image.DecodeConfig(bytes.NewReader(raw)); err == nil {
			out.ImageFormat = format
			out.ImageWidth = cfg.Width
			out.ImageHeight = cfg.Height
		}
		return out, nil
	}

	body := string(raw)
	if prettyPrintJSON && isJSONContentType(contentType) {
		if pretty, err := prettyPrintJSONBody(raw); err == nil {
			body = pretty
		}
	}
	out.Body = body
	out.RawBody = raw
	return out, nil
}

// headersToKeyValueList converts resp.Header into a KeyValueList. net/http
// parses headers into a map, so byte-exact wire order is already lost by the
// time a Response reaches here; the order across distinct keys is Go's map
// iteration order, which can differ between calls. Only repeated values of
// one key keep their received order.
func headersToKeyValueList(h http.Header) objectmodel.KeyValueList {
	out := make(objectmodel.KeyValueList, 0, len(h))
	for key, values := range h {
		for _, v := range values {
			out = append(out, objectmodel.KeyValue{Enabled: true, Key: key, Value: v})
		}
	}
	return out
}

func isJSONContentType(contentType string) bool {
	return strings.Contains(contentType, "application/json") || strings.Contains(contentType, "+json")
}

func prettyPrintJSONBody(raw []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}
