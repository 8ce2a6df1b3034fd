// Package cookiejar provides the process-wide cookie store shared by every
// request (spec.md §4.8), wrapping the standard library's net/http/cookiejar
// the way the teacher's client.newCookieJar constructs a per-session jar —
// generalized here to a single process-wide instance plus an inspection/
// editing surface (List, Remove) for displaying and deleting cookies.
package cookiejar

import (
	"net/http"
	stdcookiejar "net/http/cookiejar"
	"net/url"
	"sync"

	"github.com/arayel/squrl/internal/objectmodel"
)

// Jar is the process-wide cookie store. It wraps a stdlib cookiejar.Jar
// (which already handles per-domain/per-path matching and expiry) with a
// mutex-guarded index so the UI/CLI can list and remove individual cookies,
// which the stdlib jar does not expose.
type Jar struct {
	mu    sync.RWMutex
	std   *stdcookiejar.Jar
	byURL map[string][]*http.Cookie // cache keyed by the URL a SetCookies call used
}

// New returns an empty Jar.
func New() (*Jar, error) {
	std, err := stdcookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Jar{std: std, byURL: make(map[string][]*http.Cookie)}, nil
}

// SetCookies implements http.CookieJar, recording cookies received for u so
// they can later be listed/removed through the Cookies/Remove helpers.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.std.SetCookies(u, cookies)

	j.mu.Lock()
	defer j.mu.Unlock()
	key := u.Scheme + "://" + u.Host
	existing := j.byURL[key]
	for _, c := range cookies {
		existing = upsertCookie(existing, c)
	}
	j.byURL[key] = existing
}

// Cookies implements http.CookieJar.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	return j.std.Cookies(u)
}

// upsertCookie replaces an existing cookie with the same name (and path, if
// set) or appends it, mirroring how a browser's cookie store treats a
// repeated Set-Cookie for the same name as an update.
func upsertCookie(existing []*http.Cookie, c *http.Cookie) []*http.Cookie {
	for i, e := range existing {
		if e.Name == c.Name && e.Path == c.Path {
			existing[i] = c
			return existing
		}
	}
	return append(existing, c)
}

// List returns every cookie currently known across every domain the jar has
// seen Set-Cookie headers for, converted to the persisted Cookie shape
// (spec.md §3 "Cookie") for CLI/UI display.
func (j *Jar) List() []objectmodel.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]objectmodel.Cookie, 0)
	for key, cookies := range j.byURL {
		domain := domainFromKey(key)
		for _, c := range cookies {
			out = append(out, objectmodel.Cookie{
				Domain:   domain,
				Name:     c.Name,
				Value:    c.Value,
				Path:     c.Path,
				HTTPOnly: c.HttpOnly,
				Secure:   c.Secure,
				SameSite: sameSiteString(c.SameSite),
			})
		}
	}
	return out
}

// Remove deletes the cookie matching (domain, path, name) from the index and
// rebuilds the underlying stdlib jar from the remaining entries, since
// net/http/cookiejar.Jar itself exposes no deletion API.
func (j *Jar) Remove(domain, path, name string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	removed := false
	for key, cookies := range j.byURL {
		if domainFromKey(key) != domain {
			continue
		}
		filtered := cookies[:0]
		for _, c := range cookies {
			if c.Name == name && c.Path == path {
				removed = true
				continue
			}
			filtered = append(filtered, c)
		}
		j.byURL[key] = filtered
	}

	if removed {
		j.rebuildLocked()
	}
	return removed
}

// rebuildLocked replaces the stdlib jar with a fresh one seeded from
// j.byURL's current contents. Called with mu held.
func (j *Jar) rebuildLocked() {
	std, err := stdcookiejar.New(nil)
	if err != nil {
		return
	}
	for key, cookies := range j.byURL {
		if u, err := url.Parse(key); err == nil {
			std.SetCookies(u, cookies)
		}
	}
	j.std = std
}

func domainFromKey(key string) string {
	if u, err := url.Parse(key); err == nil {
		return u.Host
	}
	return key
}

func sameSiteString(s http.SameSite) string {
	switch s {
	case http.SameSiteStrictMode:
		return "strict"
	case http.SameSiteLaxMode:
		return "lax"
	case http.SameSiteNoneMode:
		return "none"
	default:
		return ""
	}
}
