package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PollSeconds != defaultPoll || cfg.ParticipantsPollSeconds != defaultPartPoll {
		t.Fatalf("poll intervals = %d/%d, want %d/%d", cfg.PollSeconds, cfg.ParticipantsPollSeconds, defaultPoll, defaultPartPoll)
	}
	if !strings.HasPrefix(cfg.CachePath, home) {
		t.Fatalf("CachePath = %q, want it under HOME %q", cfg.CachePath, home)
	}
	if cfg.GIDs["programa"] != "0" || cfg.GIDs["preguntas"] != "5" {
		t.Fatalf("GIDs = %#v, want defaults", cfg.GIDs)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
sheet_base = "  https://docs.google.com/spreadsheets/d/e/KEY/pub  "
webhook_url = "https://script.google.com/macros/s/KEY/exec"
poll_seconds = 15

[gids]
programa = " 101 "
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.SheetBase != "https://docs.google.com/spreadsheets/d/e/KEY/pub" {
		t.Fatalf("SheetBase = %q, want trimmed URL", cfg.SheetBase)
	}
	if cfg.PollSeconds != 15 {
		t.Fatalf("PollSeconds = %d, want 15", cfg.PollSeconds)
	}
	if cfg.GIDs["programa"] != "101" {
		t.Fatalf("programa gid = %q, want 101", cfg.GIDs["programa"])
	}
	// Sources not overridden keep their defaults.
	if cfg.GIDs["novedades"] != "1" {
		t.Fatalf("novedades gid = %q, want default 1", cfg.GIDs["novedades"])
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`sheet_base = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %v, want parse error", err)
	}
}

func TestSourceURL(t *testing.T) {
	cfg := Config{
		SheetBase: "https://docs.google.com/spreadsheets/d/e/KEY/pub",
		GIDs:      map[string]string{"programa": "101"},
	}

	got, err := cfg.SourceURL("programa")
	if err != nil {
		t.Fatalf("SourceURL: %v", err)
	}
	for _, want := range []string{"gid=101", "output=csv", "single=true"} {
		if !strings.Contains(got, want) {
			t.Fatalf("SourceURL = %q, want it to contain %q", got, want)
		}
	}

	if _, err := cfg.SourceURL("inexistente"); err == nil {
		t.Fatal("SourceURL for unknown source succeeded, want error")
	}
	if _, err := (Config{}).SourceURL("programa"); err == nil {
		t.Fatal("SourceURL without sheet_base succeeded, want error")
	}
}
