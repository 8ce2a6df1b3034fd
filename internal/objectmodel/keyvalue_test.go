package objectmodel_test

import (
	"testing"

	"github.com/arayel/squrl/internal/objectmodel"
)

func TestKeyValueList_FindAndModify(t *testing.T) {
	l := objectmodel.KeyValueList{}.Create("a", "1").Create("b", "2")

	idx, err := l.Find("b")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if idx != 1 {
		t.Fatalf("Find: got index %d, want 1", idx)
	}

	if err := l.Modify(idx, 1, "22"); err != nil {
		t.Fatalf("Modify: %v", err)
	}
	if l[1].Value != "22" {
		t.Errorf("Modify: got %q, want 22", l[1].Value)
	}
}

func TestKeyValueList_Find_NotFound(t *testing.T) {
	l := objectmodel.KeyValueList{}.Create("a", "1")
	if _, err := l.Find("missing"); err != objectmodel.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestKeyValueList_Delete(t *testing.T) {
	l := objectmodel.KeyValueList{}.Create("a", "1").Create("b", "2").Create("c", "3")
	l, err := l.Delete(1)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(l) != 2 || l[0].Key != "a" || l[1].Key != "c" {
		t.Errorf("unexpected list after delete: %+v", l)
	}
}

func TestKeyValueList_Delete_OutOfRange(t *testing.T) {
	l := objectmodel.KeyValueList{}.Create("a", "1")
	if _, err := l.Delete(5); err == nil {
		t.Error("expected error for out-of-range delete")
	}
}

func TestKeyValueList_Toggle(t *testing.T) {
	l := objectmodel.KeyValueList{}.Create("a", "1")
	if err := l.Toggle(0, nil); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if l[0].Enabled {
		t.Error("expected Enabled to flip to false")
	}

	on := true
	if err := l.Toggle(0, &on); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !l[0].Enabled {
		t.Error("expected Enabled to be forced true")
	}
}

func TestKeyValueList_Duplicate(t *testing.T) {
	l := objectmodel.KeyValueList{}.Create("a", "1").Create("b", "2")
	l, err := l.Duplicate(0)
	if err != nil {
		t.Fatalf("Duplicate: %v", err)
	}
	if len(l) != 3 || l[0].Key != "a" || l[1].Key != "a" || l[2].Key != "b" {
		t.Errorf("unexpected list after duplicate: %+v", l)
	}
}

func TestKeyValueList_Enabled_SkipsDisabled(t *testing.T) {
	l := objectmodel.KeyValueList{}.Create("a", "1").Create("b", "2")
	l[1].Enabled = false
	enabled := l.Enabled()
	if len(enabled) != 1 || enabled[0].Key != "a" {
		t.Errorf("unexpected enabled list: %+v", enabled)
	}
}

func TestKeyValueList_DuplicateKeysAllowed(t *testing.T) {
	l := objectmodel.KeyValueList{}.Create("a", "1").Create("a", "2")
	if len(l) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(l))
	}
	idx, err := l.Find("a")
	if err != nil || idx != 0 {
		t.Errorf("Find should return first match: idx=%d err=%v", idx, err)
	}
}
