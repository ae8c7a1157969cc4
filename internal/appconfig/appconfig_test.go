// internal/appconfig/appconfig_test.go
package appconfig

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mwiater/abplay/internal/abtest"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoad covers a valid file, malformed JSON, schema violations and a
// missing file.
func TestLoad(t *testing.T) {
	validConfig := `{
        "alpha": 0.01,
        "alternative": "larger",
        "format": "markdown",
        "logFile": "logs/abplay.log",
        "listen": "127.0.0.1:9090",
        "readTimeout": 3
    }`
	path := writeConfig(t, validConfig)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() with valid config failed: %v", err)
	}
	if cfg.ConfigPath != path {
		t.Fatalf("expected ConfigPath %q, got %q", path, cfg.ConfigPath)
	}
	if alpha, err := cfg.SignificanceLevel(); err != nil || alpha != 0.01 {
		t.Fatalf("expected alpha 0.01, got %v (%v)", alpha, err)
	}
	alt, err := cfg.DefaultAlternative()
	if err != nil || alt != abtest.Larger {
		t.Fatalf("expected larger alternative, got %v (%v)", alt, err)
	}
	if cfg.OutputFormat() != FormatMarkdown {
		t.Fatalf("expected markdown format, got %q", cfg.OutputFormat())
	}
	if cfg.ListenAddr() != "127.0.0.1:9090" {
		t.Fatalf("unexpected listen address %q", cfg.ListenAddr())
	}
	if cfg.ReadTimeoutDuration() != 3*time.Second {
		t.Fatalf("expected 3s read timeout, got %v", cfg.ReadTimeoutDuration())
	}

	if _, err := Load(writeConfig(t, `{ "alpha": `)); err == nil {
		t.Fatal("Load() with invalid JSON should have failed")
	}

	if _, err := Load(writeConfig(t, `{ "alpha": 1.5 }`)); err == nil || !strings.Contains(err.Error(), "alpha") {
		t.Fatalf("Load() with alpha out of range should name alpha, got %v", err)
	}

	if _, err := Load(writeConfig(t, `{ "alternative": "sideways" }`)); err == nil {
		t.Fatal("Load() with unknown alternative should have failed")
	}

	if _, err := Load(writeConfig(t, `{ "hosts": [] }`)); err == nil {
		t.Fatal("Load() with unknown key should have failed")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "nonexistent.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Load() with nonexistent file should wrap os.ErrNotExist, got %v", err)
	}
}

func TestDefaults(t *testing.T) {
	var cfg Config
	alt, err := cfg.DefaultAlternative()
	if err != nil || alt != abtest.TwoSided {
		t.Fatalf("expected two-sided default, got %v (%v)", alt, err)
	}
	if cfg.OutputFormat() != FormatText {
		t.Fatalf("expected text format, got %q", cfg.OutputFormat())
	}
	if cfg.LogFilePath() != "abplay.log" {
		t.Fatalf("unexpected log path %q", cfg.LogFilePath())
	}
	if cfg.ListenAddr() != ":8080" {
		t.Fatalf("unexpected listen addr %q", cfg.ListenAddr())
	}
	if cfg.ReadTimeoutDuration() != 10*time.Second {
		t.Fatalf("unexpected read timeout %v", cfg.ReadTimeoutDuration())
	}

	cfg.JSONMode = true
	cfg.Format = FormatMarkdown
	if cfg.OutputFormat() != FormatJSON {
		t.Fatalf("jsonMode should force json, got %q", cfg.OutputFormat())
	}

	cfg.Alternative = "nope"
	if _, err := cfg.DefaultAlternative(); err == nil {
		t.Fatal("expected error for unknown alternative")
	}
}

func TestSignificanceLevelRejectsOutOfRange(t *testing.T) {
	for _, alpha := range []float64{0, 1, 2, -0.5} {
		cfg := Config{Alpha: alpha}
		if _, err := cfg.SignificanceLevel(); !errors.Is(err, abtest.ErrInvalidSignificanceLevel) {
			t.Fatalf("alpha %v: expected ErrInvalidSignificanceLevel, got %v", alpha, err)
		}
	}
}

func TestLoadFallsBackToLegacyPath(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)

	if _, err := Load(""); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist with no config files, got %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, legacyConfigPath), []byte(`{"format": "json"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() with legacy config failed: %v", err)
	}
	if cfg.ConfigPath != legacyConfigPath {
		t.Fatalf("expected ConfigPath %q, got %q", legacyConfigPath, cfg.ConfigPath)
	}
	if cfg.OutputFormat() != FormatJSON {
		t.Fatalf("expected json format from legacy config, got %q", cfg.OutputFormat())
	}

	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, DefaultConfigPath), []byte(`{"format": "markdown"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	resolved, err := ResolvePath(DefaultConfigPath)
	if err != nil || resolved != DefaultConfigPath {
		t.Fatalf("expected default path to win over legacy, got %q (%v)", resolved, err)
	}
}

// chdirForTest changes the working directory to dir for the duration of the
// test and restores it on cleanup (equivalent of testing.T.Chdir, Go 1.24+).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
