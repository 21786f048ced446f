// Package config loads host-level settings — log level, hook timeout,
// plugin search path — the way cmd/matchlock layers flags over a
// config file: qmpp.yaml supplies defaults, flags and QMPP_-prefixed
// env vars (wired in cmd/qmpp) override them.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/4lt/qmpp/internal/errx"
)

// Config holds the settings a qmpp run needs beyond the map file and
// guest path given on the command line.
type Config struct {
	LogLevel    string
	HookTimeout time.Duration
	PluginPath  string
}

// Default returns the built-in settings used when no qmpp.yaml, flag,
// or env var overrides them.
func Default() Config {
	return Config{
		LogLevel:    "info",
		HookTimeout: 5 * time.Second,
	}
}

// fileConfig mirrors qmpp.yaml's shape. HookTimeoutSeconds is plain
// seconds rather than a duration string so yaml.v2 can unmarshal it
// without a custom UnmarshalYAML method.
type fileConfig struct {
	LogLevel           string `yaml:"log_level"`
	HookTimeoutSeconds int    `yaml:"hook_timeout_seconds"`
	PluginPath         string `yaml:"plugin_path"`
}

// Load reads qmpp.yaml at path, layering it over Default. A path of ""
// or a missing file is not an error; every field keeps its default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errx.Wrap(ErrReadConfig, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return cfg, errx.Wrap(ErrParseConfig, err)
	}

	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.HookTimeoutSeconds > 0 {
		cfg.HookTimeout = time.Duration(fc.HookTimeoutSeconds) * time.Second
	}
	if fc.PluginPath != "" {
		cfg.PluginPath = fc.PluginPath
	}
	return cfg, nil
}
