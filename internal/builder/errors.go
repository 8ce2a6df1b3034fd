package builder

import "errors"

// Sentinel errors matching spec.md §7's builder error taxonomy.
var (
	// ErrInvalidURL is returned when the resolved URL cannot be parsed.
	ErrInvalidURL = errors.New("builder: invalid url")

	// ErrCannotOpenFile is returned when a multipart "!!"-prefixed file
	// value cannot be read. A File-body path is not opened by the builder
	// (it is handed on as PendingFilePath), so it never yields this error.
	ErrCannotOpenFile = errors.New("builder: cannot open file")

	// ErrJWT is returned when JWT auth signing fails (unknown algorithm,
	// malformed secret, malformed payload JSON).
	ErrJWT = errors.New("builder: jwt signing failed")

	// ErrDigest is returned when Digest auth cannot compute a response
	// hash (unsupported algorithm, or no random cnonce could be read), and
	// by ParseWWWAuthenticate for a malformed challenge. An unrecognized qop
	// is not an error.
	ErrDigest = errors.New("builder: digest auth failed")

	// ErrPreScript names the pre-request script failure kind of the
	// builder's error taxonomy. No function in this module returns it:
	// Build runs no scripts.
	ErrPreScript = errors.New("builder: pre-request script failed")

	// ErrInvalidProtocolBody is the builder's own counterpart of
	// objectmodel.ErrInvalidProtocolBody, returned by Build for an unknown
	// body kind. It is a distinct value: errors.Is does not match one
	// against the other.
	ErrInvalidProtocolBody = errors.New("builder: body variant invalid for protocol")
)
