package resolver

import (
	"net/url"
	"strings"

	"github.com/arayel/squrl/internal/objectmodel"
)

// ApplyPathParams splits params into path parameters (entries whose key is
// literally "{NAME}", single braces) and ordinary query parameters
// (spec.md §4.3 "Path templating"). Path parameters are substituted into
// rawURL first; the returned query list holds only the remaining entries,
// in their original order, ready for query-string assembly.
func ApplyPathParams(rawURL string, params objectmodel.KeyValueList) (string, objectmodel.KeyValueList) {
	query := make(objectmodel.KeyValueList, 0, len(params))
	for _, kv := range params {
		if name, ok := pathParamName(kv.Key); ok {
			rawURL = strings.ReplaceAll(rawURL, "{"+name+"}", kv.Value)
			continue
		}
		query = append(query, kv)
	}
	return rawURL, query
}

// pathParamName reports whether key has the shape "{NAME}" (single braces)
// and, if so, returns NAME.
func pathParamName(key string) (string, bool) {
	if len(key) < 3 || key[0] != '{' || key[len(key)-1] != '}' {
		return "", false
	}
	if strings.HasPrefix(key, "{{") {
		return "", false
	}
	return key[1 : len(key)-1], true
}

// BuildQueryString renders params (already substituted) as a URL query
// string, preserving KeyValueList order and skipping disabled entries.
func BuildQueryString(params objectmodel.KeyValueList) string {
	var b strings.Builder
	first := true
	for _, kv := range params.Enabled() {
		if !first {
			b.WriteByte('&')
		}
		first = false
		b.WriteString(url.QueryEscape(kv.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv.Value))
	}
	return b.String()
}
