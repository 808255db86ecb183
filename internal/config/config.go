// Package config loads the encuentro configuration file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures where the published sheet lives and how the client polls it.
type Config struct {
	SheetBase               string
	WebhookURL              string
	CachePath               string
	PollSeconds             int
	ParticipantsPollSeconds int
	Offline                 bool
	GIDs                    map[string]string
}

const (
	defaultConfigPath = "~/.config/encuentro/config.toml"
	defaultCachePath  = "~/.local/share/encuentro/cache.db"
	defaultPoll       = 30
	defaultPartPoll   = 60
)

// defaultGIDs maps each data source to its worksheet gid in the published
// spreadsheet.
func defaultGIDs() map[string]string {
	return map[string]string{
		"programa":      "0",
		"novedades":     "1",
		"biblioteca":    "2",
		"lugares":       "3",
		"participantes": "4",
		"preguntas":     "5",
	}
}

// Load locates and parses the config, falling back to defaults for anything
// missing. A missing file is not an error; an unparsable one is.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		CachePath:               defaultCachePath,
		PollSeconds:             defaultPoll,
		ParticipantsPollSeconds: defaultPartPoll,
		GIDs:                    defaultGIDs(),
	}

	bytes, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.CachePath = mustExpand(cfg.CachePath)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		SheetBase               string            `toml:"sheet_base"`
		WebhookURL              string            `toml:"webhook_url"`
		CachePath               string            `toml:"cache_path"`
		PollSeconds             int               `toml:"poll_seconds"`
		ParticipantsPollSeconds int               `toml:"participants_poll_seconds"`
		Offline                 bool              `toml:"offline"`
		GIDs                    map[string]string `toml:"gids"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.SheetBase = strings.TrimSpace(raw.SheetBase)
	cfg.WebhookURL = strings.TrimSpace(raw.WebhookURL)
	cfg.Offline = raw.Offline
	if v := strings.TrimSpace(raw.CachePath); v != "" {
		cfg.CachePath = v
	}
	if raw.PollSeconds > 0 {
		cfg.PollSeconds = raw.PollSeconds
	}
	if raw.ParticipantsPollSeconds > 0 {
		cfg.ParticipantsPollSeconds = raw.ParticipantsPollSeconds
	}
	for name, gid := range raw.GIDs {
		cfg.GIDs[name] = strings.TrimSpace(gid)
	}
	cfg.CachePath = mustExpand(cfg.CachePath)

	return cfg, nil
}

// SourceURL builds the CSV export URL for one data source.
func (c Config) SourceURL(source string) (string, error) {
	if c.SheetBase == "" {
		return "", fmt.Errorf("no sheet_base configured")
	}
	gid, ok := c.GIDs[source]
	if !ok {
		return "", fmt.Errorf("no gid configured for source %q", source)
	}
	u, err := url.Parse(c.SheetBase)
	if err != nil {
		return "", fmt.Errorf("parse sheet_base: %w", err)
	}
	values := u.Query()
	values.Set("gid", gid)
	values.Set("single", "true")
	values.Set("output", "csv")
	u.RawQuery = values.Encode()
	return u.String(), nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
