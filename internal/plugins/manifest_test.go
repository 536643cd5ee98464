package plugins

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shpaw415/frame-master-sub000/internal/capture"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plugins.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, `
plugins:
  - name: htmlmeta
  - name: textnorm
    priority: 50
  - name: legacy
    disabled: true
`)
	m, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, m.Plugins, 3)
	assert.Equal(t, "htmlmeta", m.Plugins[0].Name)
	assert.Equal(t, 50, m.Plugins[1].Priority)
	assert.True(t, m.Plugins[2].Disabled)
}

func TestLoadManifest_Errors(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)

	_, err = LoadManifest(writeManifest(t, "plugins: [not a mapping"))
	assert.Error(t, err)

	_, err = LoadManifest(writeManifest(t, "plugins:\n  - priority: 3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without a name")
}

func TestManifestApply(t *testing.T) {
	available := []capture.Plugin{
		{Name: "alpha", Priority: 10},
		{Name: "beta", Priority: 20},
		{Name: "gamma", Priority: 30},
	}

	m := &Manifest{Plugins: []ManifestEntry{
		{Name: "gamma", Priority: 5}, // reordered first, priority overridden
		{Name: "alpha", Disabled: true},
		{Name: "unknown"}, // silently skipped
	}}

	out := m.Apply(available)
	require.Len(t, out, 2)
	assert.Equal(t, "gamma", out[0].Name)
	assert.Equal(t, 5, out[0].Priority)
	assert.True(t, out[0].HasPriority)
	assert.Equal(t, "beta", out[1].Name, "unnamed plugins keep their defaults at the end")
	assert.Equal(t, 20, out[1].Priority)
}

func TestManifestApply_NilManifestIsIdentity(t *testing.T) {
	available := []capture.Plugin{{Name: "alpha"}}
	var m *Manifest
	assert.Equal(t, available, m.Apply(available))
}

func TestBuiltinSet(t *testing.T) {
	builtins := Builtin()
	names := make([]string, 0, len(builtins))
	for _, p := range builtins {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"textnorm", "htmlmeta"}, names)
}
