package domain

// FilterCriteria holds the search inputs of the staff list.
type FilterCriteria struct {
	SearchTerm    string      `json:"search_term"`
	SelectedTypes []StaffType `json:"selected_types"`
}

// ToggleType adds or removes a type from the selection, mirroring a checkbox.
// Adding an already selected type is a no-op.
func (c *FilterCriteria) ToggleType(t StaffType, checked bool) {
	if checked {
		if c.HasType(t) {
			return
		}
		c.SelectedTypes = append(c.SelectedTypes, t)
		return
	}
	kept := make([]StaffType, 0, len(c.SelectedTypes))
	for _, existing := range c.SelectedTypes {
		if existing != t {
			kept = append(kept, existing)
		}
	}
	c.SelectedTypes = kept
}

// HasType reports whether t is selected.
func (c FilterCriteria) HasType(t StaffType) bool {
	for _, existing := range c.SelectedTypes {
		if existing == t {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the criteria impose no restriction.
func (c FilterCriteria) IsEmpty() bool {
	return c.SearchTerm == "" && len(c.SelectedTypes) == 0
}

// Clone returns a copy that shares no backing array with c.
func (c FilterCriteria) Clone() FilterCriteria {
	out := FilterCriteria{SearchTerm: c.SearchTerm}
	if len(c.SelectedTypes) > 0 {
		out.SelectedTypes = append([]StaffType(nil), c.SelectedTypes...)
	}
	return out
}

// Reset clears the search term and the type selection.
func (c *FilterCriteria) Reset() {
	c.SearchTerm = ""
	c.SelectedTypes = nil
}
