// Package scripthost evaluates a request's pre-request and post-request
// JavaScript using the otto pure-Go interpreter, adapted from the
// teacher's jschallenge.OttoSolver (internal/scripthost reuses its
// one-VM-per-call, mutex-free-since-single-threaded-per-call shape) to
// implement the wrapper contract of original_source's
// app/request/scripts.rs.
package scripthost

import (
	"encoding/json"
	"fmt"

	"github.com/arayel/squrl/internal/objectmodel"
	"github.com/robertkrimen/otto"
)

// jsConsoleShim defines a console.log replacement that accumulates every
// call's argument into console_log_output, newline-joined, matching
// original_source's JS_CONSOLE constant.
const jsConsoleShim = `
let console_log_output = "";

globalThis.console = {
  log: function(msg) {
    console_log_output += msg + '\n';
    return msg;
  }
}
`

// jsUtilsShim defines pretty_print, a JSON.stringify(data, null, 2)
// wrapper piped through console.log, matching original_source's JS_UTILS
// constant.
const jsUtilsShim = `
function pretty_print(data) {
    console.log(JSON.stringify(data, null, 2));
}
`

// Result is the decoded (value, env, console) triple every script
// evaluation produces. Value holds the raw JSON of the first tuple element
// (a request or a response, depending on which Eval* function ran);
// callers unmarshal it into the concrete type they expect.
type Result struct {
	Value   json.RawMessage
	Env     *objectmodel.EnvValues
	Console string
}

// runScript wraps userScript with the fixture declarations, console/util
// shims, and a trailing JSON.stringify([value, env, console_log_output]),
// then evaluates it in a fresh otto VM. valueVarName is "request" or
// "response"; valueJSON is that fixture's JSON encoding; env may be nil.
func runScript(userScript, valueVarName, valueJSON string, env *objectmodel.EnvValues) (*Result, error) {
	envJSON := "undefined"
	if env != nil {
		encoded, err := json.Marshal(env)
		if err != nil {
			return nil, fmt.Errorf("%w: env: %v", ErrSerialize, err)
		}
		envJSON = string(encoded)
	}

	script := fmt.Sprintf(`
let %s = %s;
let env = %s;

%s
%s

/* user script */

%s

/* end user script */

JSON.stringify([%s, env, console_log_output]);
`, valueVarName, valueJSON, envJSON, jsConsoleShim, jsUtilsShim, userScript, valueVarName)

	vm := otto.New()
	result, err := vm.Run(script)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEval, err)
	}

	stringed, err := result.ToString()
	if err != nil {
		return nil, fmt.Errorf("%w: result not convertible to string: %v", ErrResultShape, err)
	}

	var tuple [3]json.RawMessage
	if err := json.Unmarshal([]byte(stringed), &tuple); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResultShape, err)
	}

	var resultEnv *objectmodel.EnvValues
	if string(tuple[1]) != "null" {
		resultEnv = objectmodel.NewEnvValues()
		if err := json.Unmarshal(tuple[1], resultEnv); err != nil {
			return nil, fmt.Errorf("%w: env: %v", ErrResultShape, err)
		}
	}

	var console string
	if err := json.Unmarshal(tuple[2], &console); err != nil {
		return nil, fmt.Errorf("%w: console output: %v", ErrResultShape, err)
	}

	return &Result{Value: tuple[0], Env: resultEnv, Console: console}, nil
}

// EvalPreRequest runs userScript against req and env, returning the
// (possibly mutated) request, the (possibly mutated) environment, and the
// script's accumulated console.log output.
//
// A script evaluation or result-shape error does not propagate as a Go
// error in the request-build sense: it is surfaced to the caller so it can
// be recorded as the request's script console output and the build aborted
// with a PreScriptError (spec.md §7), matching original_source's choice to
// return an error string rather than panic.
func EvalPreRequest(userScript string, req *objectmodel.Request, env *objectmodel.EnvValues) (*objectmodel.Request, *objectmodel.EnvValues, string, error) {
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return nil, env, "", fmt.Errorf("%w: request: %v", ErrSerialize, err)
	}

	result, err := runScript(userScript, "request", string(reqJSON), env)
	if err != nil {
		return nil, env, err.Error(), err
	}

	var outReq objectmodel.Request
	if err := json.Unmarshal(result.Value, &outReq); err != nil {
		return nil, result.Env, fmt.Sprintf("%v", err), fmt.Errorf("%w: request: %v", ErrResultShape, err)
	}

	return &outReq, result.Env, result.Console, nil
}

// EvalPostRequest runs userScript against resp and env. The returned
// response's Duration and StatusCode are unconditionally restored from the
// original resp after deserialization, so a script cannot tamper with
// those two fields — matching original_source's execute_post_request_script
// ("Avoid losing those fields since they are not serialized").
func EvalPostRequest(userScript string, resp *objectmodel.Response, env *objectmodel.EnvValues) (*objectmodel.Response, *objectmodel.EnvValues, string, error) {
	respJSON, err := json.Marshal(resp)
	if err != nil {
		return nil, env, "", fmt.Errorf("%w: response: %v", ErrSerialize, err)
	}

	result, err := runScript(userScript, "response", string(respJSON), env)
	if err != nil {
		return nil, env, err.Error(), err
	}

	// duration and status_code are dropped before decoding, so a value of
	// any type the script wrote to them cannot fail the decode; both are
	// restored from resp below.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(result.Value, &fields); err != nil {
		return nil, result.Env, fmt.Sprintf("%v", err), fmt.Errorf("%w: response: %v", ErrResultShape, err)
	}
	delete(fields, "duration")
	delete(fields, "status_code")
	stripped, err := json.Marshal(fields)
	if err != nil {
		return nil, result.Env, fmt.Sprintf("%v", err), fmt.Errorf("%w: response: %v", ErrResultShape, err)
	}

	var outResp objectmodel.Response
	if err := json.Unmarshal(stripped, &outResp); err != nil {
		return nil, result.Env, fmt.Sprintf("%v", err), fmt.Errorf("%w: response: %v", ErrResultShape, err)
	}

	outResp.Duration = resp.Duration
	outResp.StatusCode = resp.StatusCode

	return &outResp, result.Env, result.Console, nil
}
