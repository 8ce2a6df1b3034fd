package objectmodel_test

import (
	"testing"

	"github.com/arayel/squrl/internal/objectmodel"
)

func TestNewFolder_SanitizesName(t *testing.T) {
	f, err := objectmodel.NewFolder(`  my/folder  `)
	if err != nil {
		t.Fatalf("NewFolder: %v", err)
	}
	if f.Name != "myfolder" {
		t.Errorf("got %q, want myfolder", f.Name)
	}
}

func TestNewFolder_EmptyName(t *testing.T) {
	if _, err := objectmodel.NewFolder(`"/"`); err != objectmodel.ErrEmptyName {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
}

func TestFolder_AddFindDeleteRequest(t *testing.T) {
	f, _ := objectmodel.NewFolder("folder")
	r1, _ := objectmodel.NewRequest("r1", objectmodel.ProtocolHTTP)
	r2, _ := objectmodel.NewRequest("r2", objectmodel.ProtocolHTTP)
	f.AddRequest(r1)
	f.AddRequest(r2)

	idx, err := f.FindRequest("r2")
	if err != nil || idx != 1 {
		t.Fatalf("FindRequest: idx=%d err=%v", idx, err)
	}

	if err := f.DeleteRequest(0); err != nil {
		t.Fatalf("DeleteRequest: %v", err)
	}
	if len(f.Requests) != 1 || f.Requests[0].Name != "r2" {
		t.Errorf("unexpected requests after delete: %+v", f.Requests)
	}
}
