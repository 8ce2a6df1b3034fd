package persistence

import "errors"

// Sentinel errors matching the IoError/ParseError kinds of spec.md §7.
var (
	// ErrUnsupportedFormat is returned when a collection's file extension
	// does not map to a known CollectionFormat.
	ErrUnsupportedFormat = errors.New("persistence: unsupported collection file format")

	// ErrMalformedEnvLine names a .env line that cannot be decoded. No
	// function in this package returns it.
	ErrMalformedEnvLine = errors.New("persistence: malformed environment file line")
)
