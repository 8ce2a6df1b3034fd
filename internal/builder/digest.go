package builder

import (
	"crypto/md5"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"net/url"
	"strconv"
	"strings"

	"github.com/arayel/squrl/internal/objectmodel"
	"github.com/arayel/squrl/internal/resolver"
)

// applyDigestAuth computes an RFC 7616 Digest Authorization header from the
// challenge parameters already stored on digestAuth (a prior 401 response's
// WWW-Authenticate challenge, copied in by the caller — spec.md §4.4 item 8).
// Nc is incremented before computing the response, matching
// original_source's "digest.nc += 1" in app/request/send.rs.
//
// Digest response computation is implemented against the standard library's
// crypto/md5 and crypto/sha256 rather than a third-party digest-auth
// package: no example repo in the corpus imports one, and RFC 7616's
// response algorithm is a handful of hash concatenations — a dependency
// would only wrap the same two stdlib hash functions.
func applyDigestAuth(headers *OrderedHeader, method, requestURI string, digestAuth *objectmodel.DigestAuth, r *resolver.Resolver) error {
	username := r.Substitute(digestAuth.Username)
	password := r.Substitute(digestAuth.Password)

	digestAuth.Nc++

	h, sess, err := digestHashFor(digestAuth.Algorithm)
	if err != nil {
		return err
	}

	cnonce, err := randomCnonce()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDigest, err)
	}
	ncStr := fmt.Sprintf("%08x", digestAuth.Nc)

	ha1 := digestHash(h, fmt.Sprintf("%s:%s:%s", username, digestAuth.Realm, password))
	if sess {
		ha1 = digestHash(h, fmt.Sprintf("%s:%s:%s", ha1, digestAuth.Nonce, cnonce))
	}
	if digestAuth.UserHash {
		username = digestHash(h, fmt.Sprintf("%s:%s", username, digestAuth.Realm))
	}

	var ha2 string
	qop := digestAuth.Qop
	if qop == "auth-int" {
		// auth-int would hash the request body; the builder computes
		// auth headers before the body is finalized, so treat it as
		// plain auth rather than reading ahead.
		qop = "auth"
	}
	ha2 = digestHash(h, fmt.Sprintf("%s:%s", method, requestURI))

	var response string
	if qop == "auth" {
		response = digestHash(h, fmt.Sprintf("%s:%s:%s:%s:%s:%s", ha1, digestAuth.Nonce, ncStr, cnonce, qop, ha2))
	} else {
		response = digestHash(h, fmt.Sprintf("%s:%s:%s", ha1, digestAuth.Nonce, ha2))
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Digest username="%s", realm="%s", nonce="%s", uri="%s", response="%s"`,
		username, digestAuth.Realm, digestAuth.Nonce, requestURI, response)
	if digestAuth.Algorithm != "" {
		fmt.Fprintf(&b, `, algorithm=%s`, digestAuth.Algorithm)
	}
	if digestAuth.Opaque != "" {
		fmt.Fprintf(&b, `, opaque="%s"`, digestAuth.Opaque)
	}
	if qop != "" {
		fmt.Fprintf(&b, `, qop=%s, nc=%s, cnonce="%s"`, qop, ncStr, cnonce)
	}
	if digestAuth.UserHash {
		b.WriteString(`, userhash=true`)
	}

	headers.Add("Authorization", b.String())
	return nil
}

// ParseWWWAuthenticate parses the value of a Digest WWW-Authenticate
// response header (RFC 7616 §3.3's digest-challenge grammar) into a
// DigestAuth carrying only the challenge-derived fields: Realm, Nonce,
// Opaque, Qop, Algorithm, Stale, Domains. Username/Password/UserHash/Charset
// are left zero — the caller merges this result into the credentials it
// already holds (spec.md §4.4 item 8: "parse and update stored Digest
// state; the next send succeeds").
//
// No example repo in the corpus parses an auth challenge header; the
// grammar is a bare comma-separated list of key=value/key="value" pairs,
// so this is hand-rolled against the stdlib rather than reaching for a
// third-party quoted-parameter parser.
func ParseWWWAuthenticate(header string) (*objectmodel.DigestAuth, error) {
	header = strings.TrimSpace(header)
	const prefix = "Digest"
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return nil, fmt.Errorf("%w: not a Digest challenge: %q", ErrDigest, header)
	}
	params := parseChallengeParams(header[len(prefix):])

	challenge := &objectmodel.DigestAuth{
		Realm:     params["realm"],
		Nonce:     params["nonce"],
		Opaque:    params["opaque"],
		Algorithm: params["algorithm"],
		Domains:   params["domain"],
	}
	if qop := params["qop"]; qop != "" {
		// qop may list several space/comma-separated options ("auth,auth-int");
		// applyDigestAuth only ever sends "auth", so prefer it when offered.
		opts := strings.FieldsFunc(qop, func(r rune) bool { return r == ',' || r == ' ' })
		challenge.Qop = opts[0]
		for _, opt := range opts {
			if opt == "auth" {
				challenge.Qop = "auth"
				break
			}
		}
	}
	if stale, err := strconv.ParseBool(params["stale"]); err == nil {
		challenge.Stale = stale
	}
	if challenge.Nonce == "" {
		return nil, fmt.Errorf("%w: challenge missing nonce: %q", ErrDigest, header)
	}
	return challenge, nil
}

// parseChallengeParams splits a comma-separated key=value/key="value" list
// into a map, tolerating commas inside quoted values.
func parseChallengeParams(s string) map[string]string {
	out := make(map[string]string)
	for _, field := range splitChallengeFields(s) {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		eq := strings.IndexByte(field, '=')
		if eq < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(field[:eq]))
		value := strings.TrimSpace(field[eq+1:])
		value = strings.Trim(value, `"`)
		out[key] = value
	}
	return out
}

// splitChallengeFields splits s on top-level commas, treating any comma
// between a matching pair of double quotes as part of the value rather than
// a separator.
func splitChallengeFields(s string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
			current.WriteByte(c)
		case c == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	if current.Len() > 0 {
		fields = append(fields, current.String())
	}
	return fields
}

// digestHashFor returns the hash constructor and whether algorithm names a
// "-sess" variant, for the MD5/MD5-sess/SHA-256/SHA-256-sess set RFC 7616
// defines.
func digestHashFor(algorithm string) (func() hash.Hash, bool, error) {
	switch algorithm {
	case "", "MD5":
		return md5.New, false, nil
	case "MD5-sess":
		return md5.New, true, nil
	case "SHA-256":
		return sha256.New, false, nil
	case "SHA-256-sess":
		return sha256.New, true, nil
	default:
		return nil, false, fmt.Errorf("%w: unsupported algorithm %q", ErrDigest, algorithm)
	}
}

func digestHash(newHash func() hash.Hash, data string) string {
	h := newHash()
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

func randomCnonce() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// requestURIFromURL returns the path?query portion of a parsed URL, the
// "uri" value Digest authentication signs, per RFC 7616 §3.4.
func requestURIFromURL(u *url.URL) string {
	if u.RawQuery == "" {
		return u.EscapedPath()
	}
	return u.EscapedPath() + "?" + u.RawQuery
}
