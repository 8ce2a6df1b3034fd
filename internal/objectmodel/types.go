package objectmodel

// Protocol distinguishes the four wire protocols a Request can speak
// (spec.md §3).
type Protocol string

const (
	ProtocolHTTP      Protocol = "http"
	ProtocolWebSocket Protocol = "websocket"
	ProtocolGraphQL   Protocol = "graphql"
	ProtocolGRPC      Protocol = "grpc"
)

// HTTPMethod enumerates the methods the Request Builder understands for the
// HTTP and GraphQL protocols.
type HTTPMethod string

const (
	MethodGet     HTTPMethod = "GET"
	MethodPost    HTTPMethod = "POST"
	MethodPut     HTTPMethod = "PUT"
	MethodPatch   HTTPMethod = "PATCH"
	MethodDelete  HTTPMethod = "DELETE"
	MethodHead    HTTPMethod = "HEAD"
	MethodOptions HTTPMethod = "OPTIONS"
)

// AuthKind tags which variant an Auth value holds.
type AuthKind string

const (
	AuthNone   AuthKind = "none"
	AuthBasic  AuthKind = "basic"
	AuthBearer AuthKind = "bearer"
	AuthJWT    AuthKind = "jwt"
	AuthDigest AuthKind = "digest"
)

// BasicAuth holds HTTP Basic credentials (RFC 7617).
type BasicAuth struct {
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
}

// BearerAuth holds a static bearer token sent verbatim.
type BearerAuth struct {
	Token string `json:"token" yaml:"token"`
}

// JwtSecretType selects how JwtAuth.Secret is interpreted when signing.
type JwtSecretType string

const (
	JwtSecretPlain JwtSecretType = "plain"  // raw HMAC shared secret
	JwtSecretBase64 JwtSecretType = "base64" // base64-encoded HMAC shared secret
	JwtSecretPEM    JwtSecretType = "pem"    // PEM-encoded RSA/EC/Ed25519 private key
)

// JwtAuth signs a claims payload and sends it as a bearer token, generated
// fresh on every request (spec.md §4.4 item "JWT auth").
type JwtAuth struct {
	Algorithm  string        `json:"algorithm" yaml:"algorithm"` // e.g. "HS256", "RS256", "ES256", "PS256", "EdDSA"
	SecretType JwtSecretType `json:"secret_type" yaml:"secret_type"`
	Secret     string        `json:"secret" yaml:"secret"`
	Payload    string        `json:"payload" yaml:"payload"` // raw JSON claims object, substituted before signing
}

// DigestAuth holds the full RFC 7616 Digest authentication parameter set.
// Nc is mutated (incremented) by the builder on every request that uses
// this auth, per original_source's app/request/send.rs: "digest.nc += 1"
// before computing the response hash.
type DigestAuth struct {
	Username  string `json:"username" yaml:"username"`
	Password  string `json:"password" yaml:"password"`
	Domains   string `json:"domains" yaml:"domains"`
	Realm     string `json:"realm" yaml:"realm"`
	Nonce     string `json:"nonce" yaml:"nonce"`
	Opaque    string `json:"opaque" yaml:"opaque"`
	Stale     bool   `json:"stale" yaml:"stale"`
	Algorithm string `json:"algorithm" yaml:"algorithm"` // "MD5", "MD5-sess", "SHA-256", "SHA-256-sess"
	Qop       string `json:"qop" yaml:"qop"`             // "auth", "auth-int", or empty
	UserHash  bool   `json:"user_hash" yaml:"user_hash"`
	Charset   string `json:"charset" yaml:"charset"`
	Nc        uint32 `json:"nc" yaml:"nc"`
}

// Auth is a tagged union over the supported authentication schemes. The
// pointer field matching Kind is the one that is set; the others are nil
// (all of them are nil for AuthNone).
type Auth struct {
	Kind   AuthKind    `json:"kind" yaml:"kind"`
	Basic  *BasicAuth  `json:"basic,omitempty" yaml:"basic,omitempty"`
	Bearer *BearerAuth `json:"bearer,omitempty" yaml:"bearer,omitempty"`
	Jwt    *JwtAuth    `json:"jwt,omitempty" yaml:"jwt,omitempty"`
	Digest *DigestAuth `json:"digest,omitempty" yaml:"digest,omitempty"`
}

// NoAuth returns an Auth value carrying no credentials.
func NoAuth() Auth { return Auth{Kind: AuthNone} }

// NewBasicAuth returns an Auth value of kind basic.
func NewBasicAuth(username, password string) Auth {
	return Auth{Kind: AuthBasic, Basic: &BasicAuth{Username: username, Password: password}}
}

// NewBearerAuth returns an Auth value of kind bearer.
func NewBearerAuth(token string) Auth {
	return Auth{Kind: AuthBearer, Bearer: &BearerAuth{Token: token}}
}

// NewJwtAuth returns an Auth value of kind jwt.
func NewJwtAuth(algorithm string, secretType JwtSecretType, secret, payload string) Auth {
	return Auth{Kind: AuthJWT, Jwt: &JwtAuth{
		Algorithm:  algorithm,
		SecretType: secretType,
		Secret:     secret,
		Payload:    payload,
	}}
}

// NewDigestAuth returns an Auth value of kind digest with Nc starting at 0.
func NewDigestAuth(username, password string) Auth {
	return Auth{Kind: AuthDigest, Digest: &DigestAuth{Username: username, Password: password}}
}

// BodyKind tags which variant a Body value holds.
type BodyKind string

const (
	BodyNone       BodyKind = "none"
	BodyRaw        BodyKind = "raw"
	BodyJSON       BodyKind = "json"
	BodyXML        BodyKind = "xml"
	BodyHTML       BodyKind = "html"
	BodyJavascript BodyKind = "javascript"
	BodyForm       BodyKind = "form"
	BodyMultipart  BodyKind = "multipart"
	BodyFile       BodyKind = "file"
)

// Body is a tagged union over the HTTP request body variants spec.md §3
// names. Raw/Json/Xml/Html/Javascript all carry their content in Text, and
// differ only in the Content-Type the builder assigns them.
type Body struct {
	Kind      BodyKind     `json:"kind" yaml:"kind"`
	Text      string       `json:"text,omitempty" yaml:"text,omitempty"`
	Form      KeyValueList `json:"form,omitempty" yaml:"form,omitempty"`
	Multipart KeyValueList `json:"multipart,omitempty" yaml:"multipart,omitempty"`
	// FilePath is used by BodyFile; that file is opened at send time
	// (spec.md §4.4, the pending_file_path convention). A Multipart value
	// prefixed with "!!" instead names a file the builder reads while
	// building the request.
	FilePath string `json:"file_path,omitempty" yaml:"file_path,omitempty"`
}

// FileValuePrefix marks a Multipart entry's value as a path to a file whose
// contents the builder reads into the body while building the request,
// rather than a literal string, matching original_source's
// FILE_VALUE_PREFIX constant.
const FileValuePrefix = "!!"

// NoBody returns a Body value carrying no content.
func NoBody() Body { return Body{Kind: BodyNone} }

// ScriptsRecord holds a request's pre-request and post-request JavaScript
// source, evaluated by the Script Host (spec.md §4.5).
type ScriptsRecord struct {
	PreRequest  string `json:"pre_request" yaml:"pre_request"`
	PostRequest string `json:"post_request" yaml:"post_request"`
}

// TriState is a three-valued boolean used by per-request Settings that can
// either force a behavior on/off or inherit the process-wide default.
type TriState int

const (
	TriInherit TriState = iota
	TriTrue
	TriFalse
)

// Resolve returns the effective boolean value: def when the TriState is
// TriInherit, true/false otherwise.
func (t TriState) Resolve(def bool) bool {
	switch t {
	case TriTrue:
		return true
	case TriFalse:
		return false
	default:
		return def
	}
}

// Settings holds per-request trinary overrides of process-wide behavior
// (spec.md §3 "Settings").
type Settings struct {
	// UseSystemProxy, when resolved true, routes the request through the
	// process-wide proxy configured in squrl.toml.
	UseSystemProxy TriState `json:"use_system_proxy" yaml:"use_system_proxy"`

	// FollowRedirects controls whether the HTTP transport follows 3xx
	// Location redirects.
	FollowRedirects TriState `json:"follow_redirects" yaml:"follow_redirects"`

	// StoreReceivedCookies controls whether Set-Cookie headers on the
	// response are written into the process-wide cookie jar.
	StoreReceivedCookies TriState `json:"store_received_cookies" yaml:"store_received_cookies"`

	// PrettyPrintResponse controls whether a JSON response body is
	// reformatted before display (spec.md §9 Open Question: JSON-only).
	PrettyPrintResponse TriState `json:"pretty_print_response" yaml:"pretty_print_response"`

	// AcceptInvalidCerts disables TLS certificate verification for this
	// request.
	AcceptInvalidCerts TriState `json:"accept_invalid_certs" yaml:"accept_invalid_certs"`

	// AcceptInvalidHostnames disables TLS hostname verification for this
	// request.
	AcceptInvalidHostnames TriState `json:"accept_invalid_hostnames" yaml:"accept_invalid_hostnames"`

	// TimeoutMillis overrides the default request timeout, in
	// milliseconds; 0 means "use the process default".
	TimeoutMillis int `json:"timeout_millis" yaml:"timeout_millis"`
}

// DefaultSettings returns a Settings value with every trinary field set to
// inherit the process default.
func DefaultSettings() Settings {
	return Settings{
		UseSystemProxy:         TriInherit,
		FollowRedirects:        TriInherit,
		StoreReceivedCookies:   TriInherit,
		PrettyPrintResponse:    TriInherit,
		AcceptInvalidCerts:     TriInherit,
		AcceptInvalidHostnames: TriInherit,
		TimeoutMillis:          0,
	}
}

// Cookie mirrors a single cookie stored in the process-wide cookie jar and
// exposed for inspection/editing (spec.md §3 "Cookie", §4.8). Removable by
// the (Domain, Path, Name) triple.
type Cookie struct {
	Domain   string `json:"domain" yaml:"domain"`
	Name     string `json:"name" yaml:"name"`
	Value    string `json:"value" yaml:"value"`
	Path     string `json:"path" yaml:"path"`
	Expires  string `json:"expires,omitempty" yaml:"expires,omitempty"`
	HTTPOnly bool   `json:"http_only" yaml:"http_only"`
	Secure   bool   `json:"secure" yaml:"secure"`
	SameSite string `json:"same_site,omitempty" yaml:"same_site,omitempty"`
}
