package scripthost

import "errors"

// Sentinel errors matching the ScriptError kind of spec.md §7.
var (
	// ErrSerialize is returned when the request/response/env fixtures
	// cannot be marshalled to JSON before being handed to the VM.
	ErrSerialize = errors.New("scripthost: failed to serialize script input")

	// ErrEval is returned when the wrapped script fails to evaluate
	// (syntax error or a runtime exception thrown by the user script).
	ErrEval = errors.New("scripthost: script evaluation failed")

	// ErrResultShape is returned when the script's final expression is not
	// the JSON-encoded 3-tuple the wrapper contract produces.
	ErrResultShape = errors.New("scripthost: unexpected script result shape")
)
