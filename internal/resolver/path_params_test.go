package resolver_test

import (
	"testing"

	"github.com/arayel/squrl/internal/objectmodel"
	"github.com/arayel/squrl/internal/resolver"
)

func TestApplyPathParams_SubstitutesSingleBraceKeys(t *testing.T) {
	params := objectmodel.KeyValueList{}.Create("{id}", "42").Create("q", "search")

	url, remaining := resolver.ApplyPathParams("https://example.com/items/{id}", params)
	if url != "https://example.com/items/42" {
		t.Errorf("url: got %q", url)
	}
	if len(remaining) != 1 || remaining[0].Key != "q" {
		t.Errorf("remaining: got %+v", remaining)
	}
}

func TestApplyPathParams_DoubleBraceNotTreatedAsPathParam(t *testing.T) {
	params := objectmodel.KeyValueList{}.Create("{{id}}", "42")
	url, remaining := resolver.ApplyPathParams("https://example.com/items", params)
	if url != "https://example.com/items" {
		t.Errorf("url should be unchanged: got %q", url)
	}
	if len(remaining) != 1 {
		t.Errorf("double-brace key should remain a query param: got %+v", remaining)
	}
}

func TestBuildQueryString_SkipsDisabledPreservesOrder(t *testing.T) {
	params := objectmodel.KeyValueList{}.Create("b", "2").Create("a", "1")
	params[0].Enabled = false

	got := resolver.BuildQueryString(params)
	want := "a=1"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
