package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/fuzzword/pkg/complete"
	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	path := writeFile(t, "[match]\nsort_results = false\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultConfig()
	want.Match.SortResults = false
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	// max_limit has the wrong type, the other keys should still apply
	path := writeFile(t, `
[server]
max_limit = "lots"
max_query = 30

[match]
word_boundaries = "broad"

[dict]
path = "/tmp/words.txt"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.MaxLimit != DefaultConfig().Server.MaxLimit {
		t.Errorf("expected default max_limit, got %d", cfg.Server.MaxLimit)
	}
	if cfg.Server.MaxQuery != 30 {
		t.Errorf("expected max_query 30, got %d", cfg.Server.MaxQuery)
	}
	if cfg.Match.WordBoundaries != "broad" {
		t.Errorf("expected broad boundaries, got %q", cfg.Match.WordBoundaries)
	}
	if cfg.Dict.Path != "/tmp/words.txt" {
		t.Errorf("expected dict path, got %q", cfg.Dict.Path)
	}
}

func TestLoadConfigGarbage(t *testing.T) {
	path := writeFile(t, "this is [[ not toml")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("expected defaults (-want +got):\n%s", diff)
	}
}

func TestInitConfigCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := InitConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("expected defaults (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected config file to be created: %v", err)
	}

	reloaded, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(cfg, reloaded); diff != "" {
		t.Errorf("saved config differs (-want +got):\n%s", diff)
	}
}

func TestUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	limit := 10
	sortResults := false

	if err := cfg.Update(path, &limit, nil, nil, &sortResults); err != nil {
		t.Fatal(err)
	}
	reloaded, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Server.MaxLimit != 10 || reloaded.Match.SortResults {
		t.Errorf("update not persisted: %+v", reloaded)
	}
	if cfg.Server.MaxLimit != 10 || cfg.Match.SortResults {
		t.Errorf("update not applied in memory: %+v", cfg)
	}
}

func TestUpdateKeepsValuesWhenSaveFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "config.toml")
	cfg := DefaultConfig()
	limit := 10
	sortResults := false

	if err := cfg.Update(path, &limit, nil, nil, &sortResults); err == nil {
		t.Fatal("expected an error writing into a missing directory")
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("config changed despite failed save (-want +got):\n%s", diff)
	}
}

func TestUpdateRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	zero := 0

	if err := cfg.Update(path, &zero, nil, nil, nil); err == nil {
		t.Fatal("expected max_limit 0 to be rejected")
	}
	if _, err := os.Stat(path); err == nil {
		t.Error("invalid config should not be written")
	}
	if cfg.Server.MaxLimit != DefaultConfig().Server.MaxLimit {
		t.Errorf("max_limit changed to %d", cfg.Server.MaxLimit)
	}
}

func TestOverridesApply(t *testing.T) {
	sortResults := false
	narrow := complete.BoundaryNarrow.String()
	limit := 5

	cfg := DefaultConfig()
	cfg.Match.WordBoundaries = "broad"
	Overrides{SortResults: &sortResults, WordBoundaries: &narrow, DefaultLimit: &limit}.Apply(cfg)

	want := DefaultConfig()
	want.Match.SortResults = false
	want.Match.WordBoundaries = "narrow"
	want.CLI.DefaultLimit = 5
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("overrides (-want +got):\n%s", diff)
	}

	untouched := DefaultConfig()
	Overrides{}.Apply(untouched)
	if diff := cmp.Diff(DefaultConfig(), untouched); diff != "" {
		t.Errorf("empty overrides changed the config (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		mutate      func(*Config)
		description string
	}{
		{func(c *Config) { c.Server.MaxLimit = 0 }, "zero limit"},
		{func(c *Config) { c.Server.MinQuery = -1 }, "negative min query"},
		{func(c *Config) { c.Server.MinQuery = 5; c.Server.MaxQuery = 2 }, "max below min"},
		{func(c *Config) { c.Match.WordBoundaries = "wide" }, "unknown boundary"},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestCompleterOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Match.WordBoundaries = "broad"
	cfg.Match.SortResults = false

	opts, err := cfg.CompleterOptions()
	if err != nil {
		t.Fatal(err)
	}
	want := complete.Options{SortResults: false, Boundary: complete.BoundaryBroad}
	if opts != want {
		t.Errorf("expected %+v, got %+v", want, opts)
	}
}
