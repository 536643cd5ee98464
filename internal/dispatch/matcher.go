package dispatch

import "github.com/shpaw415/frame-master-sub000/internal/registry"

// Matching returns the subset of the group's members whose individual
// pattern matches path, preserving the group's (priority, registration)
// order. Every member is re-tested independently: the combined pattern
// matching only proves that at least one member does, since several
// structurally different patterns can each legitimately match the same
// path.
func Matching(group *registry.NamespaceGroup, path string) []registry.HandlerRegistration {
	var matched []registry.HandlerRegistration
	for _, m := range group.Members {
		if m.Pattern.Match(path) {
			matched = append(matched, m)
		}
	}
	return matched
}
