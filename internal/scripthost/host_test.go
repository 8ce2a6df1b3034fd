package scripthost_test

import (
	"strings"
	"testing"
	"time"

	"github.com/arayel/squrl/internal/objectmodel"
	"github.com/arayel/squrl/internal/scripthost"
)

func TestEvalPreRequest_NoopScriptReturnsRequestUnchanged(t *testing.T) {
	req, _ := objectmodel.NewRequest("r", objectmodel.ProtocolHTTP)
	req.URL = "https://example.com"

	out, env, console, err := scripthost.EvalPreRequest("", req, nil)
	if err != nil {
		t.Fatalf("EvalPreRequest: %v", err)
	}
	if out.URL != "https://example.com" {
		t.Errorf("URL: got %q", out.URL)
	}
	if env != nil {
		t.Errorf("expected nil env, got %+v", env)
	}
	if console != "" {
		t.Errorf("expected empty console output, got %q", console)
	}
}

func TestEvalPreRequest_ScriptModifiesURL(t *testing.T) {
	req, _ := objectmodel.NewRequest("r", objectmodel.ProtocolHTTP)
	req.URL = "https://example.com"

	out, _, _, err := scripthost.EvalPreRequest(`request.url = "https://modified.com";`, req, nil)
	if err != nil {
		t.Fatalf("EvalPreRequest: %v", err)
	}
	if out.URL != "https://modified.com" {
		t.Errorf("URL: got %q", out.URL)
	}
}

func TestEvalPreRequest_CapturesConsoleLog(t *testing.T) {
	req, _ := objectmodel.NewRequest("r", objectmodel.ProtocolHTTP)
	_, _, console, err := scripthost.EvalPreRequest(`console.log("hello from script");`, req, nil)
	if err != nil {
		t.Fatalf("EvalPreRequest: %v", err)
	}
	if !strings.Contains(console, "hello from script") {
		t.Errorf("console output: %q", console)
	}
}

func TestEvalPreRequest_ReadsEnvValues(t *testing.T) {
	req, _ := objectmodel.NewRequest("r", objectmodel.ProtocolHTTP)
	env := objectmodel.NewEnvValues()
	env.Set("API_KEY", "secret123")

	_, _, console, err := scripthost.EvalPreRequest(`console.log(env.API_KEY);`, req, env)
	if err != nil {
		t.Fatalf("EvalPreRequest: %v", err)
	}
	if !strings.Contains(console, "secret123") {
		t.Errorf("console output: %q", console)
	}
}

func TestEvalPreRequest_ModifiesEnv(t *testing.T) {
	req, _ := objectmodel.NewRequest("r", objectmodel.ProtocolHTTP)
	env := objectmodel.NewEnvValues()
	env.Set("KEY", "old_value")

	_, resultEnv, _, err := scripthost.EvalPreRequest(`env.KEY = "new_value";`, req, env)
	if err != nil {
		t.Fatalf("EvalPreRequest: %v", err)
	}
	got, ok := resultEnv.Get("KEY")
	if !ok || got != "new_value" {
		t.Errorf("KEY: got (%q, %v)", got, ok)
	}
}

func TestEvalPreRequest_WithoutEnvGetsUndefined(t *testing.T) {
	req, _ := objectmodel.NewRequest("r", objectmodel.ProtocolHTTP)
	_, resultEnv, console, err := scripthost.EvalPreRequest(`console.log(typeof env);`, req, nil)
	if err != nil {
		t.Fatalf("EvalPreRequest: %v", err)
	}
	if !strings.Contains(console, "undefined") {
		t.Errorf("console output: %q", console)
	}
	if resultEnv != nil {
		t.Errorf("expected nil env, got %+v", resultEnv)
	}
}

func TestEvalPreRequest_SyntaxErrorReturnsError(t *testing.T) {
	req, _ := objectmodel.NewRequest("r", objectmodel.ProtocolHTTP)
	_, _, console, err := scripthost.EvalPreRequest(`this is not valid javascript {{{`, req, nil)
	if err == nil {
		t.Fatal("expected an error for invalid JavaScript")
	}
	if console == "" {
		t.Error("expected a non-empty error message surfaced as console output")
	}
}

func TestEvalPreRequest_PrettyPrintFormatsJSON(t *testing.T) {
	req, _ := objectmodel.NewRequest("r", objectmodel.ProtocolHTTP)
	_, _, console, err := scripthost.EvalPreRequest(`pretty_print({key: "value"});`, req, nil)
	if err != nil {
		t.Fatalf("EvalPreRequest: %v", err)
	}
	if !strings.Contains(console, `"key"`) || !strings.Contains(console, `"value"`) {
		t.Errorf("console output: %q", console)
	}
}

func TestEvalPreRequest_MultipleConsoleLogsAccumulate(t *testing.T) {
	req, _ := objectmodel.NewRequest("r", objectmodel.ProtocolHTTP)
	_, _, console, err := scripthost.EvalPreRequest(`console.log("first"); console.log("second");`, req, nil)
	if err != nil {
		t.Fatalf("EvalPreRequest: %v", err)
	}
	if !strings.Contains(console, "first") || !strings.Contains(console, "second") {
		t.Errorf("console output: %q", console)
	}
}

func TestEvalPostRequest_NoopReturnsResponseUnchanged(t *testing.T) {
	resp := &objectmodel.Response{
		StatusDisplay: "200 (OK)",
		StatusCode:    200,
		Duration:      100 * time.Millisecond,
		Body:          "hello",
	}
	out, env, console, err := scripthost.EvalPostRequest("", resp, nil)
	if err != nil {
		t.Fatalf("EvalPostRequest: %v", err)
	}
	if out.Duration != resp.Duration || out.StatusCode != resp.StatusCode {
		t.Errorf("duration/status_code: got %+v, want %+v", out, resp)
	}
	if env != nil {
		t.Errorf("expected nil env, got %+v", env)
	}
	if console != "" {
		t.Errorf("expected empty console output, got %q", console)
	}
}

func TestEvalPostRequest_PreservesDurationAndStatusCodeAfterTamper(t *testing.T) {
	resp := &objectmodel.Response{StatusCode: 404, Duration: 250 * time.Millisecond}
	script := `response.duration = "tampered"; response.status_code = 999;`

	out, _, _, err := scripthost.EvalPostRequest(script, resp, nil)
	if err != nil {
		t.Fatalf("EvalPostRequest: %v", err)
	}
	if out.Duration != 250*time.Millisecond {
		t.Errorf("duration was not restored: got %v", out.Duration)
	}
	if out.StatusCode != 404 {
		t.Errorf("status_code was not restored: got %v", out.StatusCode)
	}
}

func TestEvalPostRequest_CapturesConsoleLog(t *testing.T) {
	resp := &objectmodel.Response{}
	_, _, console, err := scripthost.EvalPostRequest(`console.log("post-script output");`, resp, nil)
	if err != nil {
		t.Fatalf("EvalPostRequest: %v", err)
	}
	if !strings.Contains(console, "post-script output") {
		t.Errorf("console output: %q", console)
	}
}

func TestEvalPostRequest_ModifiesEnvAndAddsNewKey(t *testing.T) {
	resp := &objectmodel.Response{}
	env := objectmodel.NewEnvValues()
	env.Set("EXISTING", "val")

	_, resultEnv, _, err := scripthost.EvalPostRequest(`env.NEW_KEY = "new_val";`, resp, env)
	if err != nil {
		t.Fatalf("EvalPostRequest: %v", err)
	}
	existing, _ := resultEnv.Get("EXISTING")
	newVal, _ := resultEnv.Get("NEW_KEY")
	if existing != "val" || newVal != "new_val" {
		t.Errorf("got EXISTING=%q NEW_KEY=%q", existing, newVal)
	}
}

func TestEvalPostRequest_ReadsResponseBody(t *testing.T) {
	resp := &objectmodel.Response{Body: `{"data": "test"}`}
	script := `
let body = JSON.parse(response.body);
console.log(body.data);
`
	_, _, console, err := scripthost.EvalPostRequest(script, resp, nil)
	if err != nil {
		t.Fatalf("EvalPostRequest: %v", err)
	}
	if !strings.Contains(console, "test") {
		t.Errorf("console output: %q", console)
	}
}

func TestEvalPostRequest_SyntaxErrorReturnsError(t *testing.T) {
	resp := &objectmodel.Response{}
	_, _, console, err := scripthost.EvalPostRequest(`function {broken`, resp, nil)
	if err == nil {
		t.Fatal("expected an error for invalid JavaScript")
	}
	if console == "" {
		t.Error("expected a non-empty error message")
	}
}
