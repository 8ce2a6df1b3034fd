package objectmodel

import "errors"

// Sentinel errors matching the ValidationError kind of spec.md §7. Callers
// wrap these with fmt.Errorf("%w: ...") to attach context, mirroring the
// teacher's own "pkg: action: %w" convention (see config.LoadConfig).
var (
	// ErrEmptyName is returned when a collection or request name is empty
	// after sanitization.
	ErrEmptyName = errors.New("objectmodel: name is empty")

	// ErrDuplicateName is returned when a collection name already exists in
	// the running process, or a folder name already exists in a collection.
	ErrDuplicateName = errors.New("objectmodel: name already exists")

	// ErrEmptyURL names an empty request URL. No function in this module
	// returns it.
	ErrEmptyURL = errors.New("objectmodel: url is empty")

	// ErrNotFound is returned when a lookup (request, folder, key, cookie)
	// fails.
	ErrNotFound = errors.New("objectmodel: not found")

	// ErrKeyAlreadyExists is returned by EnvValues.Insert and
	// EnvValues.RenameKey when the key is already present. KeyValueList.Create
	// returns no error.
	ErrKeyAlreadyExists = errors.New("objectmodel: key already exists")

	// ErrInvalidProtocolBody names a body/message variant that is
	// incompatible with the request's protocol variant (§3 Request
	// invariant). No function in this module returns it.
	ErrInvalidProtocolBody = errors.New("objectmodel: body variant invalid for protocol")
)
