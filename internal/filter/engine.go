package filter

import (
	"strings"

	"github.com/spec-kit/worker-directory/internal/domain"
)

// Apply returns the records matching criteria, in input order.
// The result never aliases the input slice.
func Apply(records []domain.StaffRecord, criteria domain.FilterCriteria) []domain.StaffRecord {
	result := make([]domain.StaffRecord, 0, len(records))
	for _, record := range records {
		if Matches(record, criteria) {
			result = append(result, record)
		}
	}
	return result
}

// Matches reports whether a single record satisfies both the type and the text condition.
func Matches(record domain.StaffRecord, criteria domain.FilterCriteria) bool {
	return typeMatches(record, criteria) && textMatches(record, criteria.SearchTerm)
}

func typeMatches(record domain.StaffRecord, criteria domain.FilterCriteria) bool {
	if len(criteria.SelectedTypes) == 0 {
		return true
	}
	return criteria.HasType(record.Type)
}

// textMatches compares the username case-insensitively but the display ID verbatim.
func textMatches(record domain.StaffRecord, term string) bool {
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(record.Username), strings.ToLower(term)) {
		return true
	}
	return strings.Contains(record.DisplayID, term)
}
