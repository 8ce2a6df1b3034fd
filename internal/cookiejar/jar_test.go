package cookiejar_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/arayel/squrl/internal/cookiejar"
)

func TestJar_SetAndList(t *testing.T) {
	jar, err := cookiejar.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	u, _ := url.Parse("https://example.com/")
	jar.SetCookies(u, []*http.Cookie{{Name: "session", Value: "abc", Path: "/"}})

	cookies := jar.List()
	if len(cookies) != 1 {
		t.Fatalf("List: got %d cookies, want 1", len(cookies))
	}
	if cookies[0].Name != "session" || cookies[0].Value != "abc" || cookies[0].Domain != "example.com" {
		t.Errorf("got %+v", cookies[0])
	}
}

func TestJar_SetCookiesAlsoUpdatesStdlibJarForCookies(t *testing.T) {
	jar, err := cookiejar.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	u, _ := url.Parse("https://example.com/")
	jar.SetCookies(u, []*http.Cookie{{Name: "a", Value: "1", Path: "/"}})

	got := jar.Cookies(u)
	if len(got) != 1 || got[0].Name != "a" {
		t.Errorf("Cookies: got %+v", got)
	}
}

func TestJar_RepeatedSetCookieUpdatesValue(t *testing.T) {
	jar, _ := cookiejar.New()
	u, _ := url.Parse("https://example.com/")
	jar.SetCookies(u, []*http.Cookie{{Name: "a", Value: "1", Path: "/"}})
	jar.SetCookies(u, []*http.Cookie{{Name: "a", Value: "2", Path: "/"}})

	cookies := jar.List()
	if len(cookies) != 1 || cookies[0].Value != "2" {
		t.Errorf("expected single updated cookie, got %+v", cookies)
	}
}

func TestJar_Remove(t *testing.T) {
	jar, _ := cookiejar.New()
	u, _ := url.Parse("https://example.com/")
	jar.SetCookies(u, []*http.Cookie{{Name: "a", Value: "1", Path: "/"}})

	if !jar.Remove("example.com", "/", "a") {
		t.Fatal("Remove returned false")
	}
	if len(jar.List()) != 0 {
		t.Errorf("expected no cookies left, got %+v", jar.List())
	}
}

func TestJar_Remove_NotFoundReturnsFalse(t *testing.T) {
	jar, _ := cookiejar.New()
	if jar.Remove("nowhere.com", "/", "nope") {
		t.Error("expected Remove to return false for unknown cookie")
	}
}
