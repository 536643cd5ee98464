package plugins

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shpaw415/frame-master-sub000/internal/capture"
)

// Manifest is the optional plugins.yml file controlling which plugins are
// captured and with what priority. Plugins not named keep their defaults;
// capture order follows manifest order for named plugins, then the
// remaining defaults.
type Manifest struct {
	Plugins []ManifestEntry `yaml:"plugins"`
}

// ManifestEntry selects or tunes one plugin by name.
type ManifestEntry struct {
	Name     string `yaml:"name"`
	Priority int    `yaml:"priority,omitempty"`
	Disabled bool   `yaml:"disabled,omitempty"`
}

// LoadManifest reads and parses a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plugin manifest %q: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parsing plugin manifest %q: %w", path, err)
	}
	for _, entry := range m.Plugins {
		if entry.Name == "" {
			return nil, fmt.Errorf("plugin manifest %q: entry without a name", path)
		}
	}
	return &m, nil
}

// Apply filters and reorders the available plugin set per the manifest.
// A nil manifest returns the set unchanged.
func (m *Manifest) Apply(available []capture.Plugin) []capture.Plugin {
	if m == nil {
		return available
	}

	byName := make(map[string]capture.Plugin, len(available))
	for _, p := range available {
		byName[p.Name] = p
	}

	taken := make(map[string]bool, len(m.Plugins))
	var out []capture.Plugin
	for _, entry := range m.Plugins {
		taken[entry.Name] = true
		if entry.Disabled {
			continue
		}
		p, ok := byName[entry.Name]
		if !ok {
			continue
		}
		if entry.Priority != 0 {
			p.Priority = entry.Priority
			p.HasPriority = true
		}
		out = append(out, p)
	}
	for _, p := range available {
		if !taken[p.Name] {
			out = append(out, p)
		}
	}
	return out
}
