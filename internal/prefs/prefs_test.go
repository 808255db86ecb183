package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	p := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
	if p.WelcomeDismissed {
		t.Fatal("WelcomeDismissed = true by default, want false")
	}
}

func TestLoad_CorruptFileDegradesToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte("theme = ["), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p := Load(path)
	if p.Theme != defaultTheme || p.WelcomeDismissed {
		t.Fatalf("Load on corrupt file = %#v, want defaults", p)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.toml")

	if err := Save(path, Prefs{Theme: "claro", WelcomeDismissed: true}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	p := Load(path)
	if p.Theme != "claro" {
		t.Fatalf("Theme = %q, want claro", p.Theme)
	}
	if !p.WelcomeDismissed {
		t.Fatal("WelcomeDismissed lost in round trip")
	}
}
