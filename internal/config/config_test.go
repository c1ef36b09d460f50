package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pluginkit/plugclone/internal/attribute"
	"github.com/pluginkit/plugclone/internal/substitute"
)

func setupHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("PLUGCLONE_HOME", dir)
	for _, k := range Keys() {
		t.Setenv("PLUGCLONE_"+strings.ToUpper(k), "")
	}
	if err := Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	return dir
}

func TestDirHonorsEnv(t *testing.T) {
	dir := setupHome(t)
	if Dir() != dir {
		t.Errorf("Dir() = %q, want %q", Dir(), dir)
	}
	if FilePath() != filepath.Join(dir, "config.yaml") {
		t.Errorf("FilePath() = %q", FilePath())
	}
}

func TestLoadMissingFile(t *testing.T) {
	setupHome(t)
	if got := Get("company"); got != "" {
		t.Errorf("Get(company) = %q, want empty", got)
	}
	if jobs := Defaults(); len(jobs) != 0 {
		t.Errorf("Defaults() = %v, want none", jobs)
	}
}

func TestSetAndReload(t *testing.T) {
	dir := setupHome(t)

	if err := Set("company", "Acme Audio"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := Set("email", "dev@acme.example"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	if err := Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := []substitute.Job{
		{Attribute: attribute.Company, Value: "Acme Audio"},
		{Attribute: attribute.Email, Value: "dev@acme.example"},
	}
	if diff := cmp.Diff(want, Defaults()); diff != "" {
		t.Errorf("Defaults() mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvOverride(t *testing.T) {
	setupHome(t)
	t.Setenv("PLUGCLONE_MFGR", "Acme")
	if err := Load(); err != nil {
		t.Fatal(err)
	}
	if got := Get("mfgr"); got != "Acme" {
		t.Errorf("Get(mfgr) = %q, want Acme", got)
	}
}

func TestOrigin(t *testing.T) {
	setupHome(t)
	if err := Set("company", "Acme Audio"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	t.Setenv("PLUGCLONE_MFGR", "Acme")
	if err := Load(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		key  string
		want string
	}{
		{"company", FilePath()},
		{"mfgr", "PLUGCLONE_MFGR"},
		{"url", ""},
	}
	for _, tt := range tests {
		if got := Origin(tt.key); got != tt.want {
			t.Errorf("Origin(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestSetUnknownKey(t *testing.T) {
	setupHome(t)
	for _, key := range []string{"name", "uida", "colour"} {
		if err := Set(key, "x"); !errors.Is(err, ErrUnknownKey) {
			t.Errorf("Set(%q) error = %v, want ErrUnknownKey", key, err)
		}
	}
}

func TestLoadBrokenFile(t *testing.T) {
	dir := setupHome(t)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("company: [oops"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Load(); err == nil {
		t.Error("expected error for malformed config")
	}
}
