package view

import "github.com/spec-kit/worker-directory/internal/domain"

// Snapshot is the serialisable state of a View.
type Snapshot struct {
	State       State                 `json:"state"`
	Records     []domain.StaffRecord  `json:"records"`
	FilteredIDs []string              `json:"filtered_ids"`
	Criteria    domain.FilterCriteria `json:"criteria"`
	Applied     domain.FilterCriteria `json:"applied"`
	LastError   string                `json:"last_error,omitempty"`
}

// Snapshot captures the current state.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	ids := make([]string, 0, len(v.filtered))
	for _, r := range v.filtered {
		ids = append(ids, r.InternalID)
	}
	return Snapshot{
		State:       v.state,
		Records:     cloneRecords(v.full),
		FilteredIDs: ids,
		Criteria:    v.criteria.Clone(),
		Applied:     v.applied.Clone(),
		LastError:   v.lastErr,
	}
}

// Restore replaces the state with s. The filtered list is rebuilt from the
// full list so it keeps the full list's order.
func (v *View) Restore(s Snapshot) {
	keep := make(map[string]struct{}, len(s.FilteredIDs))
	for _, id := range s.FilteredIDs {
		keep[id] = struct{}{}
	}
	filtered := make([]domain.StaffRecord, 0, len(s.FilteredIDs))
	for _, r := range s.Records {
		if _, ok := keep[r.InternalID]; ok {
			filtered = append(filtered, r)
		}
	}

	state := s.State
	if state == "" {
		state = StateLoading
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.state = state
	v.full = cloneRecords(s.Records)
	v.filtered = filtered
	v.criteria = s.Criteria.Clone()
	v.applied = s.Applied.Clone()
	v.lastErr = s.LastError
}
