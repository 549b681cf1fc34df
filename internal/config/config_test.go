// ABOUTME: Tests for layered config loading, validation, and CLI overrides
// ABOUTME: Uses temp directories for isolated file-based tests

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	c := Defaults()
	if c.Registry.BaseURL != DefaultRegistryURL {
		t.Errorf("Registry.BaseURL = %q; want %q", c.Registry.BaseURL, DefaultRegistryURL)
	}
	if c.Downloads.ArtifactExt != ".dmg" {
		t.Errorf("Downloads.ArtifactExt = %q; want .dmg", c.Downloads.ArtifactExt)
	}
	if filepath.Base(c.Downloads.Dir) != "Downloads" {
		t.Errorf("Downloads.Dir = %q; want ~/Downloads", c.Downloads.Dir)
	}
	if c.HasBackend() {
		t.Error("HasBackend() = true by default")
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate(defaults) = %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Registry.FetchConcurrency != Defaults().Registry.FetchConcurrency {
		t.Errorf("FetchConcurrency = %d; want default", c.Registry.FetchConcurrency)
	}
}

func TestLoad_FileOverlaysDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
backend:
  command: /opt/fossintosh/backend
  args: ["--stdio"]
  env:
    RUST_LOG: info
  request_timeout: 5s
registry:
  base_url: https://mirror.example.org/repo
  cache_ttl: 1h
downloads:
  artifact_ext: pkg
ui:
  icons: false
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if c.Backend.Command != "/opt/fossintosh/backend" || len(c.Backend.Args) != 1 || c.Backend.Args[0] != "--stdio" {
		t.Errorf("Backend = %+v", c.Backend)
	}
	if c.Backend.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %s; want 5s", c.Backend.RequestTimeout)
	}
	if c.Registry.BaseURL != "https://mirror.example.org/repo" {
		t.Errorf("BaseURL = %q", c.Registry.BaseURL)
	}
	if c.Registry.CacheTTL != time.Hour {
		t.Errorf("CacheTTL = %s; want 1h", c.Registry.CacheTTL)
	}
	if c.Registry.Timeout != Defaults().Registry.Timeout {
		t.Errorf("Timeout = %s; want default kept", c.Registry.Timeout)
	}
	if c.Downloads.ArtifactExt != ".pkg" {
		t.Errorf("ArtifactExt = %q; want .pkg", c.Downloads.ArtifactExt)
	}
	if c.UI.Icons {
		t.Error("UI.Icons = true; want false from file")
	}
	if got := c.BackendEnv(); len(got) != 1 || got[0] != "RUST_LOG=info" {
		t.Errorf("BackendEnv() = %v", got)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "backend: [unclosed\n")
	if _, err := Load(path); err == nil {
		t.Error("Load err = nil; want parse error")
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "registry:\n  fetch_concurrency: 0\n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "fetch_concurrency") {
		t.Errorf("Load err = %v; want fetch_concurrency validation error", err)
	}
}

func TestLoad_UnknownKeyAction(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "ui:\n  keys:\n    teleport: [\"t\"]\n")
	if _, err := Load(path); err == nil {
		t.Error("Load err = nil; want unknown action error")
	}
}

func TestLoad_ExpandsVarsAndHome(t *testing.T) {
	t.Setenv("FOSS_TEST_MIRROR", "mirror.example.org")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	path := writeConfig(t, `
registry:
  base_url: https://${FOSS_TEST_MIRROR}/repo
downloads:
  dir: ~/Apps
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Registry.BaseURL != "https://mirror.example.org/repo" {
		t.Errorf("BaseURL = %q", c.Registry.BaseURL)
	}
	if want := filepath.Join(home, "Apps"); c.Downloads.Dir != want {
		t.Errorf("Downloads.Dir = %q; want %q", c.Downloads.Dir, want)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv(EnvBackend, "fossintosh-backend --stdio --verbose")
	t.Setenv(EnvRegistryURL, "http://localhost:9999")
	t.Setenv(EnvIcons, "false")
	t.Setenv(EnvCacheTTL, "2m")

	path := writeConfig(t, "backend:\n  command: from-file\nregistry:\n  base_url: http://file\n")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Backend.Command != "fossintosh-backend" || len(c.Backend.Args) != 2 {
		t.Errorf("Backend = %+v; want env command with two args", c.Backend)
	}
	if c.Registry.BaseURL != "http://localhost:9999" {
		t.Errorf("BaseURL = %q", c.Registry.BaseURL)
	}
	if c.UI.Icons {
		t.Error("UI.Icons = true; want false from env")
	}
	if c.Registry.CacheTTL != 2*time.Minute {
		t.Errorf("CacheTTL = %s; want 2m", c.Registry.CacheTTL)
	}
}

func TestLoad_BadEnvOverride(t *testing.T) {
	t.Setenv(EnvFetchParallel, "many")

	if _, err := Load(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("Load err = nil; want env parse error")
	}
}

func TestApply(t *testing.T) {
	t.Parallel()

	c := Defaults()
	c.Apply(Overrides{Backend: "./backend --fake", Registry: "http://r", Verbose: true})

	if c.Backend.Command != "./backend" || c.Backend.Args[0] != "--fake" {
		t.Errorf("Backend = %+v", c.Backend)
	}
	if c.Registry.BaseURL != "http://r" {
		t.Errorf("BaseURL = %q", c.Registry.BaseURL)
	}
	if c.Log.Level != "debug" {
		t.Errorf("Log.Level = %q; want debug", c.Log.Level)
	}

	c.Apply(Overrides{})
	if c.Backend.Command != "./backend" {
		t.Error("empty overrides changed the config")
	}
}
