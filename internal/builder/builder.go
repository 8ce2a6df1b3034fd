// Package builder implements spec.md §4.4's synchronous request builder: it
// turns a (already pre-script-mutated) Request plus the selected
// environments and process configuration into a PreparedCall ready to hand
// to internal/transport.
package builder

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/arayel/squrl/internal/config"
	"github.com/arayel/squrl/internal/objectmodel"
	"github.com/arayel/squrl/internal/resolver"
)

// PreparedCall is the Build algorithm's output: either ready to send, or
// (when the body is BodyFile) carrying PendingFilePath for the caller to
// open asynchronously before sending, matching spec.md §4.4's opening
// sentence.
type PreparedCall struct {
	Method  string
	URL     *url.URL
	Headers *OrderedHeader
	Body    []byte

	// PendingFilePath is set instead of Body when the request's Body is
	// BodyFile; the transport must open and stream this path at send
	// time.
	PendingFilePath string

	// FollowRedirects, StoreReceivedCookies, AcceptInvalidCerts, and
	// AcceptInvalidHostnames are the resolved (TriState.Resolve'd)
	// per-call transport knobs (spec.md §4.4 steps 2, 3, 5).
	FollowRedirects        bool
	StoreReceivedCookies   bool
	AcceptInvalidCerts     bool
	AcceptInvalidHostnames bool

	// ProxyURL is non-nil when the request's UseSystemProxy setting
	// resolved true and a matching proxy is configured for the URL's
	// scheme (spec.md §4.4 step 4).
	ProxyURL *url.URL

	// TimeoutMillis is the resolved per-call timeout; 0 means "use the
	// process default".
	TimeoutMillis int
}

// defaultSettings carries the process-wide fallback for every TriState
// setting a Request can leave on Inherit. Build fills it with fixed values:
// use the configured proxy, follow redirects, and store received cookies
// are on; accepting invalid certificates or hostnames is off.
type defaultSettings struct {
	useSystemProxy         bool
	followRedirects        bool
	storeReceivedCookies   bool
	acceptInvalidCerts     bool
	acceptInvalidHostnames bool
}

// Build runs the ten-step algorithm of spec.md §4.4 against req, producing a
// PreparedCall. scoped and global are the environments in effect (either may
// be nil); cfg supplies process-wide proxy configuration.
func Build(req *objectmodel.Request, scoped, global *objectmodel.Environment, cfg *config.Config) (*PreparedCall, error) {
	defaults := defaultSettings{
		useSystemProxy:         true,
		followRedirects:        true,
		storeReceivedCookies:   true,
		acceptInvalidCerts:     false,
		acceptInvalidHostnames: false,
	}

	r := resolver.New(scoped, global)

	call := &PreparedCall{
		FollowRedirects:        req.Settings.FollowRedirects.Resolve(defaults.followRedirects),
		StoreReceivedCookies:   req.Settings.StoreReceivedCookies.Resolve(defaults.storeReceivedCookies),
		AcceptInvalidCerts:     req.Settings.AcceptInvalidCerts.Resolve(defaults.acceptInvalidCerts),
		AcceptInvalidHostnames: req.Settings.AcceptInvalidHostnames.Resolve(defaults.acceptInvalidHostnames),
		TimeoutMillis:          req.Settings.TimeoutMillis,
	}

	// Step 4: attach the process proxy when use_config_proxy resolves true.
	if req.Settings.UseSystemProxy.Resolve(defaults.useSystemProxy) && cfg != nil {
		call.ProxyURL = proxyURLFor(req.URL, cfg)
	}

	// Step 6: resolve variables. Path params substitute first; remaining
	// params append as a query string.
	rawURL, queryParams := resolver.ApplyPathParams(req.URL, req.Params)
	rawURL = r.Substitute(rawURL)

	substitutedParams := make(objectmodel.KeyValueList, len(queryParams))
	for i, kv := range queryParams {
		substitutedParams[i] = objectmodel.KeyValue{
			Enabled: kv.Enabled,
			Key:     r.Substitute(kv.Key),
			Value:   r.Substitute(kv.Value),
		}
	}
	if qs := resolver.BuildQueryString(substitutedParams); qs != "" {
		if containsQuery(rawURL) {
			rawURL += "&" + qs
		} else {
			rawURL += "?" + qs
		}
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	call.URL = parsedURL

	// Step 7: pick the HTTP method.
	call.Method = methodFor(req.Protocol, req.Method)

	headers := &OrderedHeader{}

	// Step 8: apply auth.
	if err := applyAuth(headers, &req.Auth, call.Method, parsedURL, r); err != nil {
		return nil, err
	}

	// Step 9: apply body by content-type.
	built, err := buildBody(req.Body, r)
	if err != nil {
		return nil, err
	}
	call.Body = built.Bytes
	call.PendingFilePath = built.PendingFilePath

	// Step 10: apply enabled headers verbatim, substituting variables into
	// both key and value; disabled ones are skipped. They are collected
	// first so the synthesized Content-Type is skipped when the user
	// supplied one.
	userHeaders := &OrderedHeader{}
	for _, kv := range req.Headers.Enabled() {
		userHeaders.Add(r.Substitute(kv.Key), r.Substitute(kv.Value))
	}
	if built.ContentType != "" && !headers.Has("Content-Type") && !userHeaders.Has("Content-Type") {
		headers.Add("Content-Type", built.ContentType)
	}
	headers.entries = append(headers.entries, userHeaders.entries...)

	call.Headers = headers
	return call, nil
}

// applyAuth dispatches to the per-kind auth applier (spec.md §4.4 step 8).
func applyAuth(headers *OrderedHeader, auth *objectmodel.Auth, method string, parsedURL *url.URL, r *resolver.Resolver) error {
	switch auth.Kind {
	case objectmodel.AuthNone:
		return nil
	case objectmodel.AuthBasic:
		applyBasicAuth(headers, auth.Basic, r)
		return nil
	case objectmodel.AuthBearer:
		applyBearerAuth(headers, auth.Bearer, r)
		return nil
	case objectmodel.AuthJWT:
		return applyJwtAuth(headers, auth.Jwt, r)
	case objectmodel.AuthDigest:
		return applyDigestAuth(headers, method, requestURIFromURL(parsedURL), auth.Digest, r)
	default:
		return nil
	}
}

// methodFor picks the wire method per spec.md §4.4 step 7: HTTP uses the
// request's own method, GraphQL is always POST, gRPC is always POST (over
// HTTP/2 prior-knowledge, handled by the transport), WebSocket is GET
// targeted for upgrade.
func methodFor(protocol objectmodel.Protocol, method objectmodel.HTTPMethod) string {
	switch protocol {
	case objectmodel.ProtocolGraphQL, objectmodel.ProtocolGRPC:
		return http.MethodPost
	case objectmodel.ProtocolWebSocket:
		return http.MethodGet
	default:
		if method == "" {
			return http.MethodGet
		}
		return string(method)
	}
}

// proxyURLFor returns the configured proxy for rawURL's scheme, or nil if
// none is configured.
func proxyURLFor(rawURL string, cfg *config.Config) *url.URL {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	var proxy string
	switch u.Scheme {
	case "https":
		proxy = cfg.Proxy.HTTPSProxy
	default:
		proxy = cfg.Proxy.HTTPProxy
	}
	if proxy == "" {
		return nil
	}
	proxyURL, err := url.Parse(proxy)
	if err != nil {
		return nil
	}
	return proxyURL
}

func containsQuery(rawURL string) bool {
	for i := 0; i < len(rawURL); i++ {
		if rawURL[i] == '?' {
			return true
		}
		if rawURL[i] == '#' {
			return false
		}
	}
	return false
}
