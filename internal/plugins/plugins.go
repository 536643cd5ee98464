// Package plugins ships the builtin plugins and the manifest file that
// selects and re-prioritizes the plugin set for a project.
package plugins

import "github.com/shpaw415/frame-master-sub000/internal/capture"

// Builtin returns the builtin plugin set in default capture order.
func Builtin() []capture.Plugin {
	return []capture.Plugin{
		Textnorm(),
		HTMLMeta(),
	}
}
