package view

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/worker-directory/internal/domain"
	"github.com/spec-kit/worker-directory/internal/filter"
)

const (
	// DeletePrompt is the question asked before a delete is sent.
	DeletePrompt = "Are you sure you want to delete this staff member?"
	// DeletedNotice is shown after the backend acknowledged a delete.
	DeletedNotice = "Staff member deleted successfully!"
)

// State is the lifecycle stage of the list.
type State string

const (
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
)

// Dependencies bundles the collaborators of a View.
type Dependencies struct {
	Directory Directory
	Exporter  Exporter
	Notifier  Notifier
	Logger    *zap.Logger
}

// View owns the full staff list, the filter inputs and the filtered snapshot.
// Load, Delete and Export are mutually exclusive; a call made while another
// one runs returns OutcomeBusy without contacting the backend.
type View struct {
	deps Dependencies

	mu       sync.Mutex
	busy     bool
	state    State
	full     []domain.StaffRecord
	filtered []domain.StaffRecord
	criteria domain.FilterCriteria
	applied  domain.FilterCriteria
	lastErr  string
}

// New returns a view in the Loading state.
func New(deps Dependencies) *View {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &View{deps: deps, state: StateLoading}
}

// Load fetches the full list. On success the filtered view is reset to the
// full list; on failure the previous state is kept.
func (v *View) Load(ctx context.Context) Outcome {
	if !v.begin() {
		return Outcome{Kind: OutcomeBusy}
	}
	defer v.end()

	records, err := v.deps.Directory.ListAll(ctx)
	if err != nil {
		v.deps.Logger.Error("error fetching staff list", zap.Error(err))
		v.fail(ctx, "", fmt.Errorf("fetch staff list: %w", err))
		return failed(err)
	}

	v.mu.Lock()
	v.state = StateLoaded
	v.full = cloneRecords(records)
	v.filtered = cloneRecords(records)
	v.applied = domain.FilterCriteria{}
	v.lastErr = ""
	v.mu.Unlock()

	v.deps.Logger.Debug("staff list loaded", zap.Int("count", len(records)))
	return succeeded("")
}

// SetSearchTerm updates the pending search text without filtering.
func (v *View) SetSearchTerm(term string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.criteria.SearchTerm = term
}

// ToggleType updates the pending type selection without filtering.
func (v *View) ToggleType(t domain.StaffType, checked bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.criteria.ToggleType(t, checked)
}

// SetCriteria replaces the pending criteria wholesale.
func (v *View) SetCriteria(c domain.FilterCriteria) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.criteria = c.Clone()
}

// Search recomputes the filtered view from the full list and the pending criteria.
func (v *View) Search() []domain.StaffRecord {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filtered = filter.Apply(v.full, v.criteria)
	v.applied = v.criteria.Clone()
	return cloneRecords(v.filtered)
}

// Clear resets the criteria and shows the full list again.
func (v *View) Clear() []domain.StaffRecord {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.criteria.Reset()
	v.applied.Reset()
	v.filtered = cloneRecords(v.full)
	return cloneRecords(v.filtered)
}

// Delete asks for confirmation and then removes the record from the backend.
// Only an acknowledged delete touches the local lists.
func (v *View) Delete(ctx context.Context, internalID string, confirm Confirmer) Outcome {
	if !v.begin() {
		return Outcome{Kind: OutcomeBusy}
	}
	defer v.end()

	if !v.holds(internalID) {
		return failed(fmt.Errorf("%w: %s", ErrUnknownRecord, internalID))
	}

	if confirm == nil {
		return Outcome{Kind: OutcomeCancelled}
	}
	ok, err := confirm.Confirm(ctx, DeletePrompt)
	if err != nil {
		v.deps.Logger.Warn("delete confirmation failed", zap.String("id", internalID), zap.Error(err))
		return Outcome{Kind: OutcomeCancelled, Err: err}
	}
	if !ok {
		return Outcome{Kind: OutcomeCancelled}
	}

	if err := v.deps.Directory.Delete(ctx, internalID); err != nil {
		v.deps.Logger.Error("error deleting staff", zap.String("id", internalID), zap.Error(err))
		v.fail(ctx, internalID, fmt.Errorf("delete staff %s: %w", internalID, err))
		return failed(err)
	}

	v.mu.Lock()
	v.full = removeByID(v.full, internalID)
	v.filtered = removeByID(v.filtered, internalID)
	v.lastErr = ""
	v.mu.Unlock()

	v.notify(ctx, Notice{Level: NoticeSuccess, Message: DeletedNotice, RecordID: internalID})
	return succeeded(DeletedNotice)
}

// Export writes a report of the currently displayed records.
func (v *View) Export(ctx context.Context, w io.Writer) Outcome {
	if v.deps.Exporter == nil {
		return failed(fmt.Errorf("view: no exporter configured"))
	}
	if !v.begin() {
		return Outcome{Kind: OutcomeBusy}
	}
	defer v.end()

	records := v.Filtered()
	if err := v.deps.Exporter.Export(ctx, records, w); err != nil {
		v.deps.Logger.Error("error exporting report", zap.Error(err))
		return failed(err)
	}
	return succeeded("")
}

// State returns the lifecycle stage.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Records returns a copy of the full list.
func (v *View) Records() []domain.StaffRecord {
	v.mu.Lock()
	defer v.mu.Unlock()
	return cloneRecords(v.full)
}

// Filtered returns a copy of the displayed list.
func (v *View) Filtered() []domain.StaffRecord {
	v.mu.Lock()
	defer v.mu.Unlock()
	return cloneRecords(v.filtered)
}

// Criteria returns the pending filter inputs.
func (v *View) Criteria() domain.FilterCriteria {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.criteria.Clone()
}

// Applied returns the criteria of the last executed search.
func (v *View) Applied() domain.FilterCriteria {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.applied.Clone()
}

// LastError returns the message of the last failed Load or Delete, if any.
func (v *View) LastError() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastErr
}

func (v *View) begin() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.busy {
		return false
	}
	v.busy = true
	return true
}

func (v *View) end() {
	v.mu.Lock()
	v.busy = false
	v.mu.Unlock()
}

func (v *View) holds(internalID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, r := range v.full {
		if r.InternalID == internalID {
			return true
		}
	}
	return false
}

func (v *View) fail(ctx context.Context, recordID string, err error) {
	v.mu.Lock()
	v.lastErr = err.Error()
	v.mu.Unlock()
	v.notify(ctx, Notice{Level: NoticeError, Message: err.Error(), RecordID: recordID})
}

func (v *View) notify(ctx context.Context, n Notice) {
	if v.deps.Notifier != nil {
		v.deps.Notifier.Notify(ctx, n)
	}
}

func removeByID(records []domain.StaffRecord, internalID string) []domain.StaffRecord {
	out := make([]domain.StaffRecord, 0, len(records))
	for _, r := range records {
		if r.InternalID != internalID {
			out = append(out, r)
		}
	}
	return out
}

func cloneRecords(records []domain.StaffRecord) []domain.StaffRecord {
	out := make([]domain.StaffRecord, len(records))
	copy(out, records)
	return out
}
