package persistence

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/arayel/squrl/internal/objectmodel"
)

// The .http collection dialect is a minimal, line-oriented format: each
// request is introduced by a "### <name>" marker line, followed by a
// "METHOD URL" line, zero or more "Header: value" lines, a blank line, and
// an optional raw body running until the next "###" marker or EOF.
//
// This is the storage format named by spec.md §3/§4.1 ("file format: JSON |
// YAML | .http"); it is intentionally narrow compared to the various .http
// dialects other tools read, since translating those is an import concern
// and out of scope here (spec.md Non-goals).
const httpRequestMarker = "###"

// LoadHTTPCollection parses a .http collection file into a Collection with
// a single flat list of root-level requests (the dialect has no concept of
// folders).
func LoadHTTPCollection(path string) (*objectmodel.Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("persistence: open .http collection %q: %w", path, err)
	}
	defer f.Close()

	name := collectionNameFromPath(path)
	coll, err := objectmodel.NewCollection(name, objectmodel.FormatHTTP)
	if err != nil {
		return nil, err
	}
	coll.Path = path

	var (
		current    *objectmodel.Request
		bodyLines  []string
		inBody     bool
		sawReqLine bool
	)

	flush := func() {
		if current == nil {
			return
		}
		if len(bodyLines) > 0 {
			current.Body = objectmodel.Body{Kind: objectmodel.BodyRaw, Text: strings.Join(bodyLines, "\n")}
		}
		coll.AddRequest(current)
		current = nil
		bodyLines = nil
		inBody = false
		sawReqLine = false
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, httpRequestMarker) {
			flush()
			reqName := strings.TrimSpace(strings.TrimPrefix(trimmed, httpRequestMarker))
			if reqName == "" {
				reqName = fmt.Sprintf("request %d", len(coll.Requests)+1)
			}
			req, err := objectmodel.NewRequest(reqName, objectmodel.ProtocolHTTP)
			if err != nil {
				return nil, err
			}
			current = req
			continue
		}

		if current == nil {
			continue // preamble before the first marker
		}

		if !sawReqLine {
			if trimmed == "" {
				continue
			}
			method, url, ok := parseRequestLine(trimmed)
			if !ok {
				return nil, fmt.Errorf("persistence: .http collection %q: malformed request line %q", path, line)
			}
			current.Method = method
			current.URL = url
			sawReqLine = true
			continue
		}

		if !inBody {
			if trimmed == "" {
				inBody = true
				continue
			}
			key, value, ok := strings.Cut(trimmed, ":")
			if !ok {
				return nil, fmt.Errorf("persistence: .http collection %q: malformed header line %q", path, line)
			}
			current.Headers = current.Headers.Create(strings.TrimSpace(key), strings.TrimSpace(value))
			continue
		}

		bodyLines = append(bodyLines, line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("persistence: read .http collection %q: %w", path, err)
	}
	return coll, nil
}

// saveHTTPCollectionLocked serializes coll (already holding its write
// lock) back into the .http dialect and writes it via WriteFile.
func saveHTTPCollectionLocked(coll *objectmodel.Collection) error {
	var b strings.Builder
	for _, req := range coll.Requests {
		b.WriteString(httpRequestMarker)
		b.WriteByte(' ')
		b.WriteString(req.Name)
		b.WriteByte('\n')
		b.WriteString(string(req.Method))
		b.WriteByte(' ')
		b.WriteString(req.URL)
		b.WriteByte('\n')
		for _, h := range req.Headers.Enabled() {
			b.WriteString(h.Key)
			b.WriteString(": ")
			b.WriteString(h.Value)
			b.WriteByte('\n')
		}
		if req.Body.Kind != objectmodel.BodyNone && req.Body.Text != "" {
			b.WriteByte('\n')
			b.WriteString(req.Body.Text)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	return WriteFile(coll.Path, []byte(b.String()), 0o644)
}

func parseRequestLine(line string) (objectmodel.HTTPMethod, string, bool) {
	parts := strings.SplitN(line, " ", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return objectmodel.HTTPMethod(strings.ToUpper(parts[0])), strings.TrimSpace(parts[1]), true
}

func collectionNameFromPath(path string) string {
	base := path
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		base = path[idx+1:]
	}
	return strings.TrimSuffix(base, ".http")
}
