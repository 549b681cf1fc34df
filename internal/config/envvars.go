// ABOUTME: ${VAR} expansion in config strings and FOSSINTOSH_* environment overrides
// ABOUTME: Unset ${VAR} references become empty; overrides only apply when the variable is set

package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var envVarPattern = regexp.MustCompile(`\$\{(\w+)\}`)

// Environment variables that override file values.
const (
	EnvBackend       = "FOSSINTOSH_BACKEND"
	EnvRegistryURL   = "FOSSINTOSH_REGISTRY_URL"
	EnvDownloadDir   = "FOSSINTOSH_DOWNLOAD_DIR"
	EnvLogLevel      = "FOSSINTOSH_LOG_LEVEL"
	EnvLogFile       = "FOSSINTOSH_LOG_FILE"
	EnvIcons         = "FOSSINTOSH_ICONS"
	EnvFetchParallel = "FOSSINTOSH_FETCH_CONCURRENCY"
	EnvCacheTTL      = "FOSSINTOSH_CACHE_TTL"
)

// resolveEnvVars expands ${VAR} patterns in string fields.
func resolveEnvVars(c *Config) {
	c.Backend.Command = expandEnv(c.Backend.Command)
	for i, a := range c.Backend.Args {
		c.Backend.Args[i] = expandEnv(a)
	}
	for k, v := range c.Backend.Env {
		c.Backend.Env[k] = expandEnv(v)
	}
	c.Registry.BaseURL = expandEnv(c.Registry.BaseURL)
	c.Downloads.Dir = expandEnv(c.Downloads.Dir)
	c.Log.File = expandEnv(c.Log.File)
}

// expandEnv replaces ${VAR} with os.Getenv(VAR). Unset vars become "".
func expandEnv(s string) string {
	if s == "" {
		return s
	}
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// applyEnvOverrides copies set FOSSINTOSH_* variables onto c.
func applyEnvOverrides(c *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvBackend); ok {
		c.Backend.Command, c.Backend.Args = splitCommand(v)
	}
	if v, ok := lookup(EnvRegistryURL); ok {
		c.Registry.BaseURL = v
	}
	if v, ok := lookup(EnvDownloadDir); ok {
		c.Downloads.Dir = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvLogFile); ok {
		c.Log.File = v
	}
	if v, ok := lookup(EnvIcons); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvIcons, err)
		}
		c.UI.Icons = b
	}
	if v, ok := lookup(EnvFetchParallel); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvFetchParallel, err)
		}
		c.Registry.FetchConcurrency = n
	}
	if v, ok := lookup(EnvCacheTTL); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCacheTTL, err)
		}
		c.Registry.CacheTTL = d
	}
	return nil
}

// splitCommand splits "cmd arg1 arg2" on whitespace. An empty string
// clears the command.
func splitCommand(s string) (string, []string) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}
