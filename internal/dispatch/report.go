package dispatch

// Report is the structured diagnostics view of the registry: totals, the
// namespace groups, and each group's combined pattern source with member
// triples. Used by the plugins command; not protocol-critical.
type Report struct {
	TotalHandlers   int           `json:"total_handlers"`
	TotalFinalizers int           `json:"total_finalizers"`
	GroupCount      int           `json:"group_count"`
	Groups          []GroupReport `json:"groups"`
}

// GroupReport describes one namespace group.
type GroupReport struct {
	Namespace string         `json:"namespace"`
	Combined  string         `json:"combined_pattern"`
	Members   []MemberReport `json:"members"`
}

// MemberReport describes one handler registration within a group.
type MemberReport struct {
	Owner    string `json:"owner"`
	Priority int    `json:"priority"`
	Pattern  string `json:"pattern"`
}

// Report builds the diagnostics view for the current registry snapshot.
func (e *Engine) Report() (*Report, error) {
	entries, err := e.Entries()
	if err != nil {
		return nil, err
	}
	groups, err := e.registry.Groups()
	if err != nil {
		return nil, err
	}

	report := &Report{
		TotalHandlers:   e.registry.Len(),
		TotalFinalizers: e.registry.FinalizerCount(),
		GroupCount:      len(groups),
	}
	for _, entry := range entries {
		group := groups[entry.Namespace]
		gr := GroupReport{
			Namespace: group.Key,
			Combined:  group.Combined.Source(),
		}
		for _, m := range group.Members {
			gr.Members = append(gr.Members, MemberReport{
				Owner:    m.Owner,
				Priority: m.Priority,
				Pattern:  m.Pattern.Source(),
			})
		}
		report.Groups = append(report.Groups, gr)
	}
	return report, nil
}

// WhatWouldMatch reports, for diagnostics, which handlers would run for the
// given resource, in execution order.
func (e *Engine) WhatWouldMatch(namespace, path string) ([]MemberReport, error) {
	groups, err := e.registry.Groups()
	if err != nil {
		return nil, err
	}
	group, ok := groups[namespace]
	if !ok {
		return nil, nil
	}

	var out []MemberReport
	for _, m := range Matching(group, path) {
		out = append(out, MemberReport{
			Owner:    m.Owner,
			Priority: m.Priority,
			Pattern:  m.Pattern.Source(),
		})
	}
	return out, nil
}
