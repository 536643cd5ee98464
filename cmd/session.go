package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/shpaw415/frame-master-sub000/internal/capture"
	"github.com/shpaw415/frame-master-sub000/internal/config"
	"github.com/shpaw415/frame-master-sub000/internal/dispatch"
	"github.com/shpaw415/frame-master-sub000/internal/host"
	"github.com/shpaw415/frame-master-sub000/internal/logging"
	"github.com/shpaw415/frame-master-sub000/internal/plugins"
	"github.com/shpaw415/frame-master-sub000/internal/registry"
)

// session owns the per-invocation pipeline wiring: configuration, the
// handler registry, the dispatch engine, and the host bundler.
type session struct {
	cfg      *config.Config
	registry *registry.Registry
	engine   *dispatch.Engine
	bundler  *host.Bundler
	plugins  []capture.Plugin
	logger   logging.Logger
}

// newSession loads configuration, selects the plugin set, captures it into
// a fresh registry, and wires the engine and bundler around it.
func newSession() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(viper.GetString("log-level")),
		Output: os.Stderr,
	})

	selected, err := selectPlugins(cfg)
	if err != nil {
		return nil, err
	}

	reg := registry.New()
	engine := dispatch.NewEngine(reg, logger)

	recorders, err := capture.CaptureAll(reg, selected)
	if err != nil {
		return nil, err
	}

	bundler, err := host.New(engine, host.FileLoader{}, logger)
	if err != nil {
		return nil, err
	}
	for _, rec := range recorders {
		if err := rec.Replay(bundler); err != nil {
			return nil, err
		}
	}

	return &session{
		cfg:      cfg,
		registry: reg,
		engine:   engine,
		bundler:  bundler,
		plugins:  selected,
		logger:   logger,
	}, nil
}

// selectPlugins applies the config enable/disable lists and the optional
// manifest to the builtin plugin set.
func selectPlugins(cfg *config.Config) ([]capture.Plugin, error) {
	available := plugins.Builtin()

	if cfg.Plugins.Manifest != "" {
		manifest, err := plugins.LoadManifest(cfg.Plugins.Manifest)
		if err != nil {
			return nil, err
		}
		available = manifest.Apply(available)
	}

	var selected []capture.Plugin
	for _, p := range available {
		if cfg.PluginAllowed(p.Name) {
			selected = append(selected, p)
		}
	}
	return selected, nil
}

// rebuild starts a new registry generation: the registry is cleared, the
// plugin set re-captured, and the bundler's dispatch entries refreshed.
// Must not run concurrently with in-flight dispatches.
func (s *session) rebuild() error {
	s.registry.Clear()
	recorders, err := capture.CaptureAll(s.registry, s.plugins)
	if err != nil {
		return err
	}
	if err := s.bundler.Refresh(); err != nil {
		return err
	}
	for _, rec := range recorders {
		if err := rec.Replay(s.bundler); err != nil {
			return err
		}
	}
	return nil
}
