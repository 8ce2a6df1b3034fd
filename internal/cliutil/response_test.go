package cliutil_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/arayel/squrl/internal/cliutil"
	"github.com/arayel/squrl/internal/objectmodel"
)

func TestPrintResponse_Default(t *testing.T) {
	var buf bytes.Buffer
	resp := &objectmodel.Response{StatusDisplay: "200 (OK)", StatusCode: 200, Body: "hello"}
	cliutil.PrintResponse(&buf, "", resp, objectmodel.ConsoleOutput{}, nil, cliutil.SendOptions{})
	if got := buf.String(); !strings.Contains(got, "hello") {
		t.Errorf("expected body in output, got %q", got)
	}
}

func TestPrintResponse_HideContentSuppressesBody(t *testing.T) {
	var buf bytes.Buffer
	resp := &objectmodel.Response{StatusDisplay: "200 (OK)", Body: "hello"}
	cliutil.PrintResponse(&buf, "", resp, objectmodel.ConsoleOutput{}, nil, cliutil.SendOptions{HideContent: true, StatusCode: true})
	got := buf.String()
	if strings.Contains(got, "hello") {
		t.Errorf("body should be suppressed, got %q", got)
	}
	if !strings.Contains(got, "200 (OK)") {
		t.Errorf("expected status line, got %q", got)
	}
}

func TestPrintResponse_AllSections(t *testing.T) {
	var buf bytes.Buffer
	resp := &objectmodel.Response{
		StatusDisplay: "200 (OK)",
		Duration:      150 * time.Millisecond,
		Headers:       objectmodel.KeyValueList{{Enabled: true, Key: "content-type", Value: "text/plain"}},
		Body:          "body",
	}
	cookies := []objectmodel.Cookie{{Name: "session", Value: "abc"}}
	console := objectmodel.ConsoleOutput{Pre: "pre-log", Post: "post-log"}
	opts := cliutil.SendOptions{
		StatusCode:  true,
		Duration:    true,
		Headers:     true,
		Cookies:     true,
		Console:     true,
		RequestName: true,
		EnvName:     "staging",
	}
	cliutil.PrintResponse(&buf, "myreq", resp, console, cookies, opts)
	got := buf.String()
	for _, want := range []string{"myreq", "staging", "200 (OK)", "150ms", "content-type: text/plain", "session=abc", "pre-log", "post-log", "body"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q; full output:\n%s", want, got)
		}
	}
}

func TestPrintResponse_ErrorSuppressesBody(t *testing.T) {
	var buf bytes.Buffer
	resp := &objectmodel.Response{StatusDisplay: "error", Error: "connection refused", Body: "should not print"}
	cliutil.PrintResponse(&buf, "", resp, objectmodel.ConsoleOutput{}, nil, cliutil.SendOptions{})
	got := buf.String()
	if !strings.Contains(got, "connection refused") {
		t.Errorf("expected error text, got %q", got)
	}
	if strings.Contains(got, "should not print") {
		t.Errorf("body should not print alongside an error, got %q", got)
	}
}

func TestPrintResponse_NilResponse(t *testing.T) {
	var buf bytes.Buffer
	cliutil.PrintResponse(&buf, "", nil, objectmodel.ConsoleOutput{}, nil, cliutil.SendOptions{})
	if got := buf.String(); !strings.Contains(got, "no response") {
		t.Errorf("got %q", got)
	}
}
