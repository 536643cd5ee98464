// Package config provides configuration management for frame-master using
// Viper for flexible loading from files, environment variables, and
// command-line flags.
//
// Configuration comes from .framemaster.yml, environment variables with the
// FRAMEMASTER_ prefix, and bound cobra flags. It covers the dev server, the
// one-shot build, file watching, and plugin selection.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Build   BuildConfig   `yaml:"build"`
	Watch   WatchConfig   `yaml:"watch"`
	Plugins PluginsConfig `yaml:"plugins"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type BuildConfig struct {
	// Roots are the directories whose resources go through the pipeline.
	Roots  []string `yaml:"roots"`
	Output string   `yaml:"output"`
}

type WatchConfig struct {
	Paths      []string `yaml:"paths"`
	Ignore     []string `yaml:"ignore"`
	DebounceMS int      `yaml:"debounce_ms" mapstructure:"debounce_ms"`
}

type PluginsConfig struct {
	// Manifest points at an optional plugins.yml selecting and
	// re-prioritizing the plugin set.
	Manifest       string                            `yaml:"manifest"`
	Enabled        []string                          `yaml:"enabled"`
	Disabled       []string                          `yaml:"disabled"`
	Configurations map[string]map[string]interface{} `yaml:"configurations"`
}

// Load builds the configuration from viper's current state and applies
// defaults.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if len(config.Build.Roots) == 0 {
		config.Build.Roots = []string{"./src"}
	}
	if config.Build.Output == "" {
		config.Build.Output = "./dist"
	}
	if len(config.Watch.Paths) == 0 {
		config.Watch.Paths = config.Build.Roots
	}
	if config.Watch.DebounceMS == 0 {
		config.Watch.DebounceMS = 100
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks the configuration for values the pipeline cannot run
// with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("invalid watch debounce %dms", c.Watch.DebounceMS)
	}
	for _, name := range c.Plugins.Enabled {
		for _, disabled := range c.Plugins.Disabled {
			if name == disabled {
				return fmt.Errorf("plugin %q is both enabled and disabled", name)
			}
		}
	}
	return nil
}

// PluginAllowed reports whether the enable/disable lists admit a plugin.
// An empty enabled list admits everything not explicitly disabled.
func (c *Config) PluginAllowed(name string) bool {
	for _, disabled := range c.Plugins.Disabled {
		if name == disabled {
			return false
		}
	}
	if len(c.Plugins.Enabled) == 0 {
		return true
	}
	for _, enabled := range c.Plugins.Enabled {
		if name == enabled {
			return true
		}
	}
	return false
}
