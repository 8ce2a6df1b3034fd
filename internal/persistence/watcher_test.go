package persistence_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arayel/squrl/internal/persistence"
)

func TestCompanionEnvWatcher_FiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	w, err := persistence.NewCompanionEnvWatcher(dir, nil)
	if err != nil {
		t.Fatalf("NewCompanionEnvWatcher: %v", err)
	}
	defer w.Close()

	path := filepath.Join(dir, persistence.CompanionEnvFileName)
	if err := os.WriteFile(path, []byte(`{"environments":[]}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case <-w.Changed():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}
}

func TestCompanionEnvWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := persistence.NewCompanionEnvWatcher(dir, nil)
	if err != nil {
		t.Fatalf("NewCompanionEnvWatcher: %v", err)
	}
	defer w.Close()

	path := filepath.Join(dir, "unrelated.txt")
	os.WriteFile(path, []byte("hi"), 0o644)

	select {
	case <-w.Changed():
		t.Fatal("did not expect a notification for an unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}
