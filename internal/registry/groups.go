package registry

import (
	"sort"

	"github.com/shpaw415/frame-master-sub000/internal/pattern"
)

// NamespaceGroup is the set of handlers dispatched together for one
// namespace: a member list sorted by (priority ascending, registration
// order), plus the combined pattern registered with the host bundler.
//
// The combined pattern is only a superset filter. It matches every path any
// member matches, and possibly more; individual member patterns are
// re-tested at dispatch time.
type NamespaceGroup struct {
	Key      string
	Members  []HandlerRegistration
	Combined pattern.Pattern
}

// Groups returns the namespace groups for the current registry snapshot,
// computing them on first use and caching the result until the registry
// mutates.
//
// Global handlers (registered without a namespace) are merged into every
// group's member list and re-sorted with the namespace-specific handlers by
// priority, so the documented priority contract holds across both. When
// global handlers exist but no explicit namespace does, the default
// namespace group is synthesized so globals are not silently dropped.
func (r *Registry) Groups() (map[string]*NamespaceGroup, error) {
	r.mu.RLock()
	if r.groupsValid {
		groups := r.groups
		r.mu.RUnlock()
		return groups, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.groupsValid {
		return r.groups, nil
	}

	groups, err := buildGroups(r.handlers)
	if err != nil {
		return nil, err
	}
	r.groups = groups
	r.groupsValid = true
	return groups, nil
}

// GroupCount returns the number of namespace groups. Introspection only.
func (r *Registry) GroupCount() int {
	groups, err := r.Groups()
	if err != nil {
		return 0
	}
	return len(groups)
}

// buildGroups partitions registrations by namespace and computes each
// group's sorted member list and combined pattern.
func buildGroups(regs []HandlerRegistration) (map[string]*NamespaceGroup, error) {
	var globals []HandlerRegistration
	byNamespace := make(map[string][]HandlerRegistration)
	for _, reg := range regs {
		if reg.Namespace == "" {
			globals = append(globals, reg)
			continue
		}
		byNamespace[reg.Namespace] = append(byNamespace[reg.Namespace], reg)
	}

	// Globals with no explicit namespace group to join still need a home.
	if len(byNamespace) == 0 && len(globals) > 0 {
		byNamespace[DefaultNamespace] = nil
	}

	groups := make(map[string]*NamespaceGroup, len(byNamespace))
	for key, members := range byNamespace {
		merged := make([]HandlerRegistration, 0, len(members)+len(globals))
		merged = append(merged, members...)
		merged = append(merged, globals...)
		sortMembers(merged)

		combined, err := combinedPattern(merged)
		if err != nil {
			return nil, err
		}
		groups[key] = &NamespaceGroup{Key: key, Members: merged, Combined: combined}
	}
	return groups, nil
}

// sortMembers orders members by priority ascending, registration order on
// ties. The sort is total, so iteration over a group is deterministic for a
// given registry snapshot.
func sortMembers(members []HandlerRegistration) {
	sort.SliceStable(members, func(i, j int) bool {
		if members[i].Priority != members[j].Priority {
			return members[i].Priority < members[j].Priority
		}
		return members[i].seq < members[j].seq
	})
}

func combinedPattern(members []HandlerRegistration) (pattern.Pattern, error) {
	patterns := make([]pattern.Pattern, len(members))
	for i, m := range members {
		patterns[i] = m.Pattern
	}
	return pattern.Or(patterns...)
}
