package persistence_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arayel/squrl/internal/objectmodel"
	"github.com/arayel/squrl/internal/persistence"
)

func TestLoadHTTPCollection_ParsesRequests(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "api.http")
	content := "### Get Health\nGET https://example.com/health\nAccept: application/json\n\n" +
		"### Create Thing\nPOST https://example.com/things\nContent-Type: application/json\n\n{\"name\":\"x\"}\n"
	os.WriteFile(path, []byte(content), 0o644)

	coll, err := persistence.LoadHTTPCollection(path)
	if err != nil {
		t.Fatalf("LoadHTTPCollection: %v", err)
	}
	if len(coll.Requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(coll.Requests))
	}
	if coll.Requests[0].Method != objectmodel.MethodGet || coll.Requests[0].URL != "https://example.com/health" {
		t.Errorf("request 0: %+v", coll.Requests[0])
	}
	if coll.Requests[1].Method != objectmodel.MethodPost || coll.Requests[1].Body.Text != "{\"name\":\"x\"}" {
		t.Errorf("request 1: %+v", coll.Requests[1])
	}
}

func TestHTTPCollection_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "api.http")

	coll, _ := objectmodel.NewCollection("api", objectmodel.FormatHTTP)
	coll.Path = path
	req, _ := objectmodel.NewRequest("Ping", objectmodel.ProtocolHTTP)
	req.URL = "https://example.com/ping"
	req.Headers = req.Headers.Create("Accept", "text/plain")
	coll.AddRequest(req)

	if err := persistence.SaveCollection(coll, dir, nil); err != nil {
		// SaveCollection only needs cfg when Path is empty; it is not here.
		t.Fatalf("SaveCollection: %v", err)
	}

	loaded, err := persistence.LoadHTTPCollection(path)
	if err != nil {
		t.Fatalf("LoadHTTPCollection: %v", err)
	}
	if len(loaded.Requests) != 1 || loaded.Requests[0].Name != "Ping" {
		t.Errorf("unexpected round-trip result: %+v", loaded.Requests)
	}
}
