// ABOUTME: Layered YAML configuration: defaults, file, ${VAR} expansion, env, then CLI flags
// ABOUTME: A missing file is not an error; malformed YAML or invalid values are

package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultRegistryURL hosts curated.json, index.json and apps/<id>.json.
const DefaultRegistryURL = "https://raw.githubusercontent.com/Nandanrmenon/fossintosh-repo/main"

// Config is the complete runtime configuration.
type Config struct {
	Backend   BackendConfig   `yaml:"backend"`
	Registry  RegistryConfig  `yaml:"registry"`
	Downloads DownloadsConfig `yaml:"downloads"`
	Log       LogConfig       `yaml:"log"`
	UI        UIConfig        `yaml:"ui"`
}

// BackendConfig describes how to spawn the backend process. An empty
// Command runs without a backend (read-only catalog from the registry).
type BackendConfig struct {
	Command        string            `yaml:"command"`
	Args           []string          `yaml:"args"`
	Env            map[string]string `yaml:"env"`
	RequestTimeout time.Duration     `yaml:"request_timeout"`
}

// RegistryConfig configures the remote catalog service client.
type RegistryConfig struct {
	BaseURL          string        `yaml:"base_url"`
	FetchConcurrency int           `yaml:"fetch_concurrency"`
	CacheTTL         time.Duration `yaml:"cache_ttl"`
	Timeout          time.Duration `yaml:"timeout"`
}

// DownloadsConfig locates downloaded artifacts.
type DownloadsConfig struct {
	Dir         string `yaml:"dir"`
	ArtifactExt string `yaml:"artifact_ext"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// UIConfig configures the interactive view.
type UIConfig struct {
	Icons bool                `yaml:"icons"`
	Keys  map[string][]string `yaml:"keys"`
}

// Overrides are command-line values; empty fields leave the config alone.
type Overrides struct {
	Backend  string
	Registry string
	Verbose  bool
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Backend: BackendConfig{
			RequestTimeout: 30 * time.Second,
		},
		Registry: RegistryConfig{
			BaseURL:          DefaultRegistryURL,
			FetchConcurrency: 8,
			CacheTTL:         15 * time.Minute,
			Timeout:          20 * time.Second,
		},
		Downloads: DownloadsConfig{
			Dir:         DownloadsDir(),
			ArtifactExt: ".dmg",
		},
		Log: LogConfig{
			Level: "info",
			File:  LogFile(),
		},
		UI: UIConfig{
			Icons: true,
		},
	}
}

// Load reads the config at path layered over the defaults, then applies
// ${VAR} expansion and FOSSINTOSH_* overrides. An empty path selects
// ConfigFile().
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigFile()
	}

	cfg := Defaults()
	if err := loadFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	resolveEnvVars(cfg)
	if err := applyEnvOverrides(cfg, os.LookupEnv); err != nil {
		return nil, fmt.Errorf("environment override: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile decodes the YAML file at path onto cfg. Keys absent from the
// file keep their current values.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// Apply layers command-line overrides on top of c.
func (c *Config) Apply(o Overrides) {
	if o.Backend != "" {
		c.Backend.Command, c.Backend.Args = splitCommand(o.Backend)
	}
	if o.Registry != "" {
		c.Registry.BaseURL = o.Registry
	}
	if o.Verbose {
		c.Log.Level = "debug"
	}
}

func (c *Config) normalize() {
	c.Downloads.Dir = expandHome(c.Downloads.Dir)
	c.Log.File = expandHome(c.Log.File)
	if c.Downloads.ArtifactExt != "" && c.Downloads.ArtifactExt[0] != '.' {
		c.Downloads.ArtifactExt = "." + c.Downloads.ArtifactExt
	}
}

// Validate reports the first invalid value.
func (c *Config) Validate() error {
	switch {
	case c.Registry.BaseURL == "":
		return errors.New("registry.base_url must not be empty")
	case c.Registry.FetchConcurrency < 1:
		return fmt.Errorf("registry.fetch_concurrency must be >= 1, got %d", c.Registry.FetchConcurrency)
	case c.Registry.Timeout < 0:
		return fmt.Errorf("registry.timeout must not be negative, got %s", c.Registry.Timeout)
	case c.Backend.RequestTimeout < 0:
		return fmt.Errorf("backend.request_timeout must not be negative, got %s", c.Backend.RequestTimeout)
	}
	if _, err := c.Keybindings(); err != nil {
		return err
	}
	return nil
}

// HasBackend reports whether a backend command is configured.
func (c *Config) HasBackend() bool {
	return c.Backend.Command != ""
}

// BackendEnv returns the extra backend environment as sorted KEY=value
// pairs.
func (c *Config) BackendEnv() []string {
	keys := slices.Sorted(maps.Keys(c.Backend.Env))
	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+c.Backend.Env[k])
	}
	return env
}
