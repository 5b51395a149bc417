package view_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/worker-directory/internal/domain"
	"github.com/spec-kit/worker-directory/internal/view"
)

// mockDirectory is a test double for view.Directory.
// Set only the method fields your test needs.
type mockDirectory struct {
	listAll func(ctx context.Context) ([]domain.StaffRecord, error)
	delete  func(ctx context.Context, id string) error

	mu      sync.Mutex
	deleted []string
}

func (m *mockDirectory) ListAll(ctx context.Context) ([]domain.StaffRecord, error) {
	return m.listAll(ctx)
}

func (m *mockDirectory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	m.deleted = append(m.deleted, id)
	m.mu.Unlock()
	if m.delete == nil {
		return nil
	}
	return m.delete(ctx, id)
}

// compile-time check: mockDirectory must satisfy view.Directory.
var _ view.Directory = (*mockDirectory)(nil)

type recordingNotifier struct {
	notices []view.Notice
}

func (n *recordingNotifier) Notify(_ context.Context, notice view.Notice) {
	n.notices = append(n.notices, notice)
}

type stubExporter struct {
	got []domain.StaffRecord
	err error
}

func (e *stubExporter) Export(_ context.Context, records []domain.StaffRecord, w io.Writer) error {
	e.got = records
	if e.err != nil {
		return e.err
	}
	_, err := w.Write([]byte("pdf"))
	return err
}

func staff() []domain.StaffRecord {
	return []domain.StaffRecord{
		{InternalID: "a1", DisplayID: "W001", Username: "Alice", Type: domain.StaffTypeSupervisor},
		{InternalID: "b2", DisplayID: "w002", Username: "bob", Type: domain.StaffTypeDriver},
		{InternalID: "c3", DisplayID: "W003", Username: "Carol", Type: domain.StaffTypeLabor},
		{InternalID: "d4", DisplayID: "W004", Username: "Dave", Type: domain.StaffTypeDriver},
	}
}

func listing(records []domain.StaffRecord) *mockDirectory {
	return &mockDirectory{
		listAll: func(context.Context) ([]domain.StaffRecord, error) { return records, nil },
	}
}

func ids(records []domain.StaffRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.InternalID)
	}
	return out
}

func loadedView(t *testing.T, dir *mockDirectory, notifier *recordingNotifier) *view.View {
	t.Helper()
	deps := view.Dependencies{Directory: dir}
	if notifier != nil {
		deps.Notifier = notifier
	}
	v := view.New(deps)
	require.True(t, v.Load(context.Background()).OK())
	return v
}

func TestNew_StartsLoading(t *testing.T) {
	v := view.New(view.Dependencies{Directory: listing(nil)})

	assert.Equal(t, view.StateLoading, v.State())
	assert.Empty(t, v.Filtered())
}

func TestLoad_FilteredEqualsFull(t *testing.T) {
	v := loadedView(t, listing(staff()), nil)

	assert.Equal(t, view.StateLoaded, v.State())
	assert.Equal(t, staff(), v.Records())
	assert.Equal(t, staff(), v.Filtered())
}

func TestLoad_FailureKeepsPriorState(t *testing.T) {
	calls := 0
	dir := &mockDirectory{listAll: func(context.Context) ([]domain.StaffRecord, error) {
		calls++
		if calls == 1 {
			return staff(), nil
		}
		return nil, errors.New("backend down")
	}}
	notifier := &recordingNotifier{}
	v := loadedView(t, dir, notifier)

	out := v.Load(context.Background())

	assert.Equal(t, view.OutcomeFailed, out.Kind)
	assert.EqualError(t, out.Error(), "backend down")
	assert.Equal(t, staff(), v.Records())
	assert.Contains(t, v.LastError(), "backend down")
	require.Len(t, notifier.notices, 1)
	assert.Equal(t, view.NoticeError, notifier.notices[0].Level)
}

func TestLoad_InitialFailureStaysLoading(t *testing.T) {
	dir := &mockDirectory{listAll: func(context.Context) ([]domain.StaffRecord, error) {
		return nil, errors.New("backend down")
	}}
	v := view.New(view.Dependencies{Directory: dir})

	out := v.Load(context.Background())

	assert.False(t, out.OK())
	assert.Equal(t, view.StateLoading, v.State())
}

func TestSearch_OnlyWhenTriggered(t *testing.T) {
	v := loadedView(t, listing(staff()), nil)

	v.SetSearchTerm("alice")
	v.ToggleType(domain.StaffTypeSupervisor, true)
	assert.Len(t, v.Filtered(), 4, "criteria changes must not filter by themselves")

	got := v.Search()

	assert.Equal(t, []string{"a1"}, ids(got))
	assert.Equal(t, []string{"a1"}, ids(v.Filtered()))
	assert.Equal(t, "alice", v.Applied().SearchTerm)
}

func TestSearch_RecomputesFromFullList(t *testing.T) {
	v := loadedView(t, listing(staff()), nil)

	v.SetSearchTerm("alice")
	v.Search()
	v.SetSearchTerm("")
	v.ToggleType(domain.StaffTypeDriver, true)
	got := v.Search()

	assert.Equal(t, []string{"b2", "d4"}, ids(got))
}

func TestClear_RestoresFullListAndResetsCriteria(t *testing.T) {
	v := loadedView(t, listing(staff()), nil)
	v.SetSearchTerm("zzz")
	v.ToggleType(domain.StaffTypeLabor, true)
	require.Empty(t, v.Search())

	got := v.Clear()

	assert.Equal(t, staff(), got)
	assert.Equal(t, staff(), v.Filtered())
	assert.True(t, v.Criteria().IsEmpty())
	assert.True(t, v.Applied().IsEmpty())
}

func TestDelete_RejectedSendsNothing(t *testing.T) {
	dir := listing(staff())
	v := loadedView(t, dir, nil)
	before := v.Snapshot()

	out := v.Delete(context.Background(), "b2", view.Answer(false))

	assert.Equal(t, view.OutcomeCancelled, out.Kind)
	assert.ErrorIs(t, out.Error(), view.ErrNotConfirmed)
	assert.Empty(t, dir.deleted)
	assert.Equal(t, before, v.Snapshot())
}

func TestDelete_NilConfirmerIsRejection(t *testing.T) {
	dir := listing(staff())
	v := loadedView(t, dir, nil)

	out := v.Delete(context.Background(), "b2", nil)

	assert.Equal(t, view.OutcomeCancelled, out.Kind)
	assert.Empty(t, dir.deleted)
}

func TestDelete_ConfirmerErrorSendsNothing(t *testing.T) {
	dir := listing(staff())
	v := loadedView(t, dir, nil)

	out := v.Delete(context.Background(), "b2", view.ConfirmFunc(func(context.Context, string) (bool, error) {
		return false, io.ErrUnexpectedEOF
	}))

	assert.Equal(t, view.OutcomeCancelled, out.Kind)
	assert.ErrorIs(t, out.Err, io.ErrUnexpectedEOF)
	assert.Empty(t, dir.deleted)
}

func TestDelete_PromptText(t *testing.T) {
	v := loadedView(t, listing(staff()), nil)
	var prompt string

	v.Delete(context.Background(), "b2", view.ConfirmFunc(func(_ context.Context, p string) (bool, error) {
		prompt = p
		return false, nil
	}))

	assert.Equal(t, "Are you sure you want to delete this staff member?", prompt)
}

func TestDelete_RemovesFromBothListsKeepingOrder(t *testing.T) {
	dir := listing(staff())
	notifier := &recordingNotifier{}
	v := loadedView(t, dir, notifier)
	v.ToggleType(domain.StaffTypeDriver, true)
	v.ToggleType(domain.StaffTypeLabor, true)
	v.Search()

	out := v.Delete(context.Background(), "c3", view.Answer(true))

	require.True(t, out.OK())
	assert.Equal(t, "Staff member deleted successfully!", out.Notice)
	assert.Equal(t, []string{"c3"}, dir.deleted)
	assert.Equal(t, []string{"a1", "b2", "d4"}, ids(v.Records()))
	assert.Equal(t, []string{"b2", "d4"}, ids(v.Filtered()))
	require.Len(t, notifier.notices, 1)
	assert.Equal(t, view.Notice{Level: view.NoticeSuccess, Message: view.DeletedNotice, RecordID: "c3"}, notifier.notices[0])
}

func TestDelete_BackendFailureLeavesListsUntouched(t *testing.T) {
	dir := listing(staff())
	dir.delete = func(context.Context, string) error { return errors.New("500") }
	v := loadedView(t, dir, nil)

	out := v.Delete(context.Background(), "a1", view.Answer(true))

	assert.Equal(t, view.OutcomeFailed, out.Kind)
	assert.Equal(t, staff(), v.Records())
	assert.Equal(t, staff(), v.Filtered())
	assert.NotEmpty(t, v.LastError())
}

func TestDelete_UnknownRecord(t *testing.T) {
	dir := listing(staff())
	v := loadedView(t, dir, nil)

	out := v.Delete(context.Background(), "nope", view.Answer(true))

	assert.ErrorIs(t, out.Error(), view.ErrUnknownRecord)
	assert.Empty(t, dir.deleted)
}

func TestInFlightGuard_SecondCallIsBusy(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	dir := listing(staff())
	dir.delete = func(context.Context, string) error {
		close(entered)
		<-release
		return nil
	}
	v := loadedView(t, dir, nil)

	done := make(chan view.Outcome)
	go func() { done <- v.Delete(context.Background(), "a1", view.Answer(true)) }()
	<-entered

	assert.Equal(t, view.OutcomeBusy, v.Delete(context.Background(), "b2", view.Answer(true)).Kind)
	assert.Equal(t, view.OutcomeBusy, v.Load(context.Background()).Kind)
	assert.ErrorIs(t, v.Load(context.Background()).Error(), view.ErrBusy)

	close(release)
	require.True(t, (<-done).OK())
	assert.Equal(t, []string{"a1"}, dir.deleted)

	dir.delete = nil
	assert.True(t, v.Delete(context.Background(), "b2", view.Answer(true)).OK())
}

func TestExport_UsesFilteredView(t *testing.T) {
	exporter := &stubExporter{}
	v := view.New(view.Dependencies{Directory: listing(staff()), Exporter: exporter})
	require.True(t, v.Load(context.Background()).OK())
	v.SetSearchTerm("bob")
	v.Search()
	var out bytes.Buffer

	res := v.Export(context.Background(), &out)

	require.True(t, res.OK())
	assert.Equal(t, []string{"b2"}, ids(exporter.got))
	assert.Equal(t, "pdf", out.String())
}

func TestExport_Failure(t *testing.T) {
	exporter := &stubExporter{err: errors.New("disk full")}
	v := view.New(view.Dependencies{Directory: listing(staff()), Exporter: exporter})

	res := v.Export(context.Background(), io.Discard)

	assert.EqualError(t, res.Error(), "disk full")
}

func TestSnapshot_RoundTrip(t *testing.T) {
	v := loadedView(t, listing(staff()), nil)
	v.SetSearchTerm("W00")
	v.ToggleType(domain.StaffTypeDriver, true)
	v.Search()
	v.SetSearchTerm("pending")

	restored := view.New(view.Dependencies{Directory: listing(nil)})
	restored.Restore(v.Snapshot())

	assert.Equal(t, v.State(), restored.State())
	assert.Equal(t, v.Records(), restored.Records())
	assert.Equal(t, []string{"d4"}, ids(restored.Filtered()))
	assert.Equal(t, "pending", restored.Criteria().SearchTerm)
	assert.Equal(t, "W00", restored.Applied().SearchTerm)
}

func TestRestore_EmptySnapshotIsLoading(t *testing.T) {
	v := view.New(view.Dependencies{Directory: listing(nil)})

	v.Restore(view.Snapshot{})

	assert.Equal(t, view.StateLoading, v.State())
}
