package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/worker-directory/internal/domain"
	"github.com/spec-kit/worker-directory/internal/filter"
)

func fixtures() []domain.StaffRecord {
	return []domain.StaffRecord{
		{InternalID: "a1", DisplayID: "W001", Username: "Alice", Type: domain.StaffTypeSupervisor},
		{InternalID: "b2", DisplayID: "w002", Username: "bob", Type: domain.StaffTypeDriver},
		{InternalID: "c3", DisplayID: "W003", Username: "Carol", Type: domain.StaffTypeLabor},
		{InternalID: "d4", DisplayID: "W004", Username: "Dave", Type: domain.StaffTypeDriver},
		{InternalID: "e5", DisplayID: "X900", Username: "Eve", Type: "Cleaner"},
	}
}

func ids(records []domain.StaffRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.InternalID)
	}
	return out
}

func TestApply_EmptyCriteriaIsIdentity(t *testing.T) {
	records := fixtures()

	got := filter.Apply(records, domain.FilterCriteria{})

	assert.Equal(t, records, got)
}

func TestApply_EmptyInput(t *testing.T) {
	got := filter.Apply(nil, domain.FilterCriteria{SearchTerm: "x"})

	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestApply_DoesNotAliasInput(t *testing.T) {
	records := fixtures()

	got := filter.Apply(records, domain.FilterCriteria{})
	got[0].Username = "changed"

	assert.Equal(t, "Alice", records[0].Username)
}

func TestApply_TypeSelectionKeepsOrder(t *testing.T) {
	got := filter.Apply(fixtures(), domain.FilterCriteria{
		SelectedTypes: []domain.StaffType{domain.StaffTypeLabor, domain.StaffTypeDriver},
	})

	assert.Equal(t, []string{"b2", "c3", "d4"}, ids(got))
}

func TestApply_TypeMatchIsCaseSensitive(t *testing.T) {
	got := filter.Apply(fixtures(), domain.FilterCriteria{
		SelectedTypes: []domain.StaffType{"driver"},
	})

	assert.Empty(t, got)
}

func TestApply_UnknownTypeCanBeSelected(t *testing.T) {
	got := filter.Apply(fixtures(), domain.FilterCriteria{
		SelectedTypes: []domain.StaffType{"Cleaner"},
	})

	assert.Equal(t, []string{"e5"}, ids(got))
}

func TestApply_UsernameIsCaseInsensitive(t *testing.T) {
	got := filter.Apply(fixtures(), domain.FilterCriteria{SearchTerm: "ALICE"})

	assert.Equal(t, []string{"a1"}, ids(got))
}

func TestApply_DisplayIDIsCaseSensitive(t *testing.T) {
	tests := []struct {
		name string
		term string
		want []string
	}{
		{name: "exact lower", term: "w002", want: []string{"b2"}},
		{name: "upper does not hit lower id", term: "W002", want: []string{}},
		{name: "shared prefix", term: "W00", want: []string{"a1", "c3", "d4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filter.Apply(fixtures(), domain.FilterCriteria{SearchTerm: tt.term})
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApply_BothConditionsMustHold(t *testing.T) {
	got := filter.Apply(fixtures(), domain.FilterCriteria{
		SearchTerm:    "a",
		SelectedTypes: []domain.StaffType{domain.StaffTypeDriver},
	})

	// "a" hits Alice, Carol and Dave by name; only Dave is a driver.
	assert.Equal(t, []string{"d4"}, ids(got))
}

func TestMatches_SingleRecord(t *testing.T) {
	record := domain.StaffRecord{DisplayID: "W001", Username: "Alice", Type: domain.StaffTypeSupervisor}

	assert.True(t, filter.Matches(record, domain.FilterCriteria{SearchTerm: "lic"}))
	assert.True(t, filter.Matches(record, domain.FilterCriteria{SearchTerm: "001"}))
	assert.False(t, filter.Matches(record, domain.FilterCriteria{SearchTerm: "w001"}))
}
