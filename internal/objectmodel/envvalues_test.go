package objectmodel_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/arayel/squrl/internal/objectmodel"
	"gopkg.in/yaml.v3"
)

func TestEnvValues_SetPreservesInsertionOrder(t *testing.T) {
	e := objectmodel.NewEnvValues()
	e.Set("z", "1")
	e.Set("a", "2")
	e.Set("m", "3")
	e.Set("a", "22") // re-set an existing key must not move it

	want := []string{"z", "a", "m"}
	got := e.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
	v, ok := e.Get("a")
	if !ok || v != "22" {
		t.Errorf("Get(a): got (%q, %v), want (22, true)", v, ok)
	}
}

func TestEnvValues_Insert_DuplicateKeyFails(t *testing.T) {
	e := objectmodel.NewEnvValues()
	if err := e.Insert("a", "1"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := e.Insert("a", "2"); !errors.Is(err, objectmodel.ErrKeyAlreadyExists) {
		t.Errorf("expected ErrKeyAlreadyExists, got %v", err)
	}
}

func TestEnvValues_Delete_PreservesOrderOfRemaining(t *testing.T) {
	e := objectmodel.NewEnvValues()
	e.Set("a", "1")
	e.Set("b", "2")
	e.Set("c", "3")
	e.Delete("b")
	got := e.Keys()
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("unexpected keys after delete: %v", got)
	}
}

func TestEnvValues_RenameKey_PreservesPosition(t *testing.T) {
	e := objectmodel.NewEnvValues()
	e.Set("a", "1")
	e.Set("b", "2")
	e.Set("c", "3")
	if err := e.RenameKey("b", "bb"); err != nil {
		t.Fatalf("RenameKey: %v", err)
	}
	got := e.Keys()
	want := []string{"a", "bb", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
	v, ok := e.Get("bb")
	if !ok || v != "2" {
		t.Errorf("Get(bb): got (%q, %v)", v, ok)
	}
}

func TestEnvValues_JSONRoundTrip_PreservesOrder(t *testing.T) {
	e := objectmodel.NewEnvValues()
	e.Set("z", "1")
	e.Set("a", "2")
	e.Set("m", "3")

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	out := objectmodel.NewEnvValues()
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got := out.Keys(); len(got) != 3 || got[0] != "z" || got[1] != "a" || got[2] != "m" {
		t.Errorf("round-trip lost order: %v", got)
	}
}

func TestEnvValues_YAMLRoundTrip_PreservesOrder(t *testing.T) {
	e := objectmodel.NewEnvValues()
	e.Set("z", "1")
	e.Set("a", "2")
	e.Set("m", "3")

	data, err := yaml.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	out := objectmodel.NewEnvValues()
	if err := yaml.Unmarshal(data, out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got := out.Keys(); len(got) != 3 || got[0] != "z" || got[1] != "a" || got[2] != "m" {
		t.Errorf("round-trip lost order: %v", got)
	}
}
