package objectmodel_test

import (
	"testing"

	"github.com/arayel/squrl/internal/objectmodel"
)

func TestSanitizeName_StripsSlashesAndQuotes(t *testing.T) {
	got := objectmodel.SanitizeName(`  my/"request"  `)
	want := "myrequest"
	if got != want {
		t.Errorf("SanitizeName: got %q, want %q", got, want)
	}
}

func TestSanitizeName_Idempotent(t *testing.T) {
	inputs := []string{`a/b"c`, "   spaced   ", `"""`, "plain"}
	for _, in := range inputs {
		once := objectmodel.SanitizeName(in)
		twice := objectmodel.SanitizeName(once)
		if once != twice {
			t.Errorf("SanitizeName not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

func TestValidateName_EmptyAfterSanitization(t *testing.T) {
	_, err := objectmodel.ValidateName(`  "/"  `)
	if err != objectmodel.ErrEmptyName {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
}

func TestValidateName_Valid(t *testing.T) {
	got, err := objectmodel.ValidateName("  My Collection  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "My Collection" {
		t.Errorf("got %q, want %q", got, "My Collection")
	}
}
