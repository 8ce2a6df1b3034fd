package persistence_test

import (
	"testing"

	"github.com/arayel/squrl/internal/objectmodel"
	"github.com/arayel/squrl/internal/persistence"
)

func TestCompanionEnv_MissingFileReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	envs, selected, err := persistence.LoadCompanionEnv(dir)
	if err != nil {
		t.Fatalf("LoadCompanionEnv: %v", err)
	}
	if envs != nil || selected != "" {
		t.Errorf("expected empty result for missing file, got envs=%v selected=%q", envs, selected)
	}
}

func TestCompanionEnv_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	env, _ := objectmodel.NewEnvironment("prod")
	env.Values.Set("HOST", "prod.example.com")

	if err := persistence.SaveCompanionEnv(dir, []*objectmodel.Environment{env}, "prod"); err != nil {
		t.Fatalf("SaveCompanionEnv: %v", err)
	}

	envs, selected, err := persistence.LoadCompanionEnv(dir)
	if err != nil {
		t.Fatalf("LoadCompanionEnv: %v", err)
	}
	if selected != "prod" {
		t.Errorf("selected: got %q", selected)
	}
	if len(envs) != 1 || envs[0].Name != "prod" {
		t.Fatalf("envs: got %+v", envs)
	}
	host, ok := envs[0].Values.Get("HOST")
	if !ok || host != "prod.example.com" {
		t.Errorf("HOST: got (%q, %v)", host, ok)
	}
}
