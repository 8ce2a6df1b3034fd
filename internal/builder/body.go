package builder

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/url"
	"os"
	"strings"

	"github.com/arayel/squrl/internal/objectmodel"
	"github.com/arayel/squrl/internal/resolver"
)

// builtBody is the result of applying a Request's Body to a resolver: the
// bytes to send (nil for BodyFile, whose bytes are read by the transport at
// send time from PendingFilePath), the Content-Type to synthesize unless the
// user already supplied one, and (for BodyFile) the path to stream from.
type builtBody struct {
	Bytes           []byte
	ContentType     string
	PendingFilePath string
}

// buildBody dispatches on body.Kind, substituting variables into text/path
// values along the way. Multipart files are opened and read synchronously
// (spec.md §4.4 item 9); a bare File body defers its read to send time via
// PendingFilePath, matching original_source's pending_file_path convention
// for large uploads.
func buildBody(body objectmodel.Body, r *resolver.Resolver) (*builtBody, error) {
	switch body.Kind {
	case objectmodel.BodyNone:
		return &builtBody{}, nil

	case objectmodel.BodyRaw:
		return &builtBody{Bytes: []byte(r.Substitute(body.Text)), ContentType: "text/plain; charset=utf-8"}, nil

	case objectmodel.BodyJSON:
		return &builtBody{Bytes: []byte(r.Substitute(body.Text)), ContentType: "application/json"}, nil

	case objectmodel.BodyXML:
		return &builtBody{Bytes: []byte(r.Substitute(body.Text)), ContentType: "application/xml"}, nil

	case objectmodel.BodyHTML:
		return &builtBody{Bytes: []byte(r.Substitute(body.Text)), ContentType: "text/html; charset=utf-8"}, nil

	case objectmodel.BodyJavascript:
		return &builtBody{Bytes: []byte(r.Substitute(body.Text)), ContentType: "application/javascript"}, nil

	case objectmodel.BodyForm:
		return buildFormBody(body.Form, r), nil

	case objectmodel.BodyMultipart:
		return buildMultipartBody(body.Multipart, r)

	case objectmodel.BodyFile:
		return &builtBody{PendingFilePath: r.Substitute(body.FilePath)}, nil

	default:
		return nil, fmt.Errorf("%w: unknown body kind %q", ErrInvalidProtocolBody, body.Kind)
	}
}

// buildFormBody urlencodes the enabled entries of form, substituting
// variables into both key and value.
func buildFormBody(form objectmodel.KeyValueList, r *resolver.Resolver) *builtBody {
	values := url.Values{}
	for _, kv := range form.Enabled() {
		values.Add(r.Substitute(kv.Key), r.Substitute(kv.Value))
	}
	return &builtBody{Bytes: []byte(values.Encode()), ContentType: "application/x-www-form-urlencoded"}
}

// buildMultipartBody writes one part per enabled entry: a "!!"-prefixed
// value names a file to open and stream in as a file part; any other value
// becomes a plain text field.
func buildMultipartBody(parts objectmodel.KeyValueList, r *resolver.Resolver) (*builtBody, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, kv := range parts.Enabled() {
		key := r.Substitute(kv.Key)
		value := r.Substitute(kv.Value)

		if path, ok := strings.CutPrefix(value, objectmodel.FileValuePrefix); ok {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrCannotOpenFile, path, err)
			}
			part, err := w.CreateFormFile(key, filepathBase(path))
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrCannotOpenFile, err)
			}
			if _, err := part.Write(data); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrCannotOpenFile, err)
			}
			continue
		}

		if err := w.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("builder: multipart field %q: %v", key, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("builder: closing multipart writer: %v", err)
	}

	return &builtBody{Bytes: buf.Bytes(), ContentType: w.FormDataContentType()}, nil
}

func filepathBase(path string) string {
	i := strings.LastIndexAny(path, `/\`)
	if i < 0 {
		return path
	}
	return path[i+1:]
}

