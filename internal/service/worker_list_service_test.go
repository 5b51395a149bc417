package service_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/worker-directory/internal/directory"
	"github.com/spec-kit/worker-directory/internal/domain"
	"github.com/spec-kit/worker-directory/internal/events"
	"github.com/spec-kit/worker-directory/internal/observability"
	"github.com/spec-kit/worker-directory/internal/service"
	"github.com/spec-kit/worker-directory/internal/session"
	"github.com/spec-kit/worker-directory/internal/view"
	apperrors "github.com/spec-kit/worker-directory/pkg/util/errorutil"
)

type mockDirectory struct {
	listAll    func(ctx context.Context) ([]domain.StaffRecord, error)
	delete     func(ctx context.Context, id string) error
	listCalls  int
	deleteCall []string
}

var _ view.Directory = (*mockDirectory)(nil) // compile-time check

func (m *mockDirectory) ListAll(ctx context.Context) ([]domain.StaffRecord, error) {
	m.listCalls++
	return m.listAll(ctx)
}

func (m *mockDirectory) Delete(ctx context.Context, id string) error {
	m.deleteCall = append(m.deleteCall, id)
	return m.delete(ctx, id)
}

type mockExporter struct {
	export func(ctx context.Context, records []domain.StaffRecord, w io.Writer) error
}

var _ view.Exporter = (*mockExporter)(nil) // compile-time check

func (m *mockExporter) Export(ctx context.Context, records []domain.StaffRecord, w io.Writer) error {
	return m.export(ctx, records, w)
}

func staff() []domain.StaffRecord {
	return []domain.StaffRecord{
		{InternalID: "a1", DisplayID: "W-01", Username: "Alice", Type: domain.StaffTypeSupervisor},
		{InternalID: "b2", DisplayID: "W-02", Username: "bob", Type: domain.StaffTypeDriver},
		{InternalID: "c3", DisplayID: "W-03", Username: "Carol", Type: domain.StaffTypeLabor},
	}
}

type fixture struct {
	svc      *service.WorkerListService
	dir      *mockDirectory
	store    *session.MemoryStore
	metrics  *observability.Metrics
	received []events.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		dir: &mockDirectory{
			listAll: func(context.Context) ([]domain.StaffRecord, error) { return staff(), nil },
			delete:  func(context.Context, string) error { return nil },
		},
		store:   session.NewMemoryStore(time.Hour),
		metrics: observability.NewMetrics(),
	}
	dispatcher := events.NewInMemoryDispatcher()
	for _, et := range []events.EventType{
		events.EventStaffListLoaded, events.EventStaffDeleted,
		events.EventStaffOperationFailed, events.EventReportExported,
	} {
		dispatcher.Subscribe(et, func(_ context.Context, e events.Event) error {
			f.received = append(f.received, e)
			return nil
		})
	}
	f.svc = service.NewWorkerListService(service.WorkerListDependencies{
		Directory: f.dir,
		Exporter: &mockExporter{export: func(_ context.Context, records []domain.StaffRecord, w io.Writer) error {
			for _, r := range records {
				_, _ = io.WriteString(w, r.InternalID+";")
			}
			return nil
		}},
		Sessions:   f.store,
		Dispatcher: dispatcher,
		Metrics:    f.metrics,
	})
	return f
}

func (f *fixture) eventTypes() []events.EventType {
	out := make([]events.EventType, 0, len(f.received))
	for _, e := range f.received {
		out = append(out, e.Type)
	}
	return out
}

func ids(records []domain.StaffRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.InternalID)
	}
	return out
}

func requireCode(t *testing.T, err error, code string, status int) {
	t.Helper()
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, code, de.Code)
	assert.Equal(t, status, de.HTTPStatus)
}

func TestCurrent_LoadsOnFirstContactOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	st, err := f.svc.Current(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, view.StateLoaded, st.State)
	assert.Equal(t, []string{"a1", "b2", "c3"}, ids(st.Records))
	assert.Equal(t, 3, st.Total)

	_, err = f.svc.Current(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, f.dir.listCalls)
	assert.Equal(t, []events.EventType{events.EventStaffListLoaded}, f.eventTypes())
}

func TestCurrent_FailedLoadStaysLoadingWithError(t *testing.T) {
	f := newFixture(t)
	f.dir.listAll = func(context.Context) ([]domain.StaffRecord, error) {
		return nil, &directory.NetworkError{Op: "list", Err: errors.New("connection refused")}
	}

	st, err := f.svc.Current(context.Background(), "s1")

	require.NoError(t, err)
	assert.Equal(t, view.StateLoading, st.State)
	assert.Empty(t, st.Records)
	assert.Contains(t, st.LastError, "connection refused")
	require.Len(t, st.Notices, 1)
	assert.Equal(t, view.NoticeError, st.Notices[0].Level)
	assert.Equal(t, []events.EventType{events.EventStaffOperationFailed}, f.eventTypes())
}

func TestReload_BackendErrorMapsToBadGateway(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Current(ctx, "s1")
	require.NoError(t, err)

	f.dir.listAll = func(context.Context) ([]domain.StaffRecord, error) {
		return nil, &directory.ServerError{Op: "list", StatusCode: http.StatusInternalServerError}
	}
	_, err = f.svc.Reload(ctx, "s1")
	requireCode(t, err, "UPSTREAM_ERROR", http.StatusBadGateway)

	// the previous list survives the failed reload
	st, err := f.svc.Current(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, view.StateLoaded, st.State)
	assert.Len(t, st.Records, 3)
	assert.NotEmpty(t, st.LastError)
}

func TestSearchAndClear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	st, err := f.svc.SetCriteria(ctx, "s1", domain.FilterCriteria{SearchTerm: "BO"})
	require.NoError(t, err)
	assert.Len(t, st.Records, 3, "setting criteria must not filter")
	assert.Equal(t, "BO", st.Criteria.SearchTerm)

	st, err = f.svc.Search(ctx, "s1", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"b2"}, ids(st.Records))
	assert.Equal(t, "BO", st.Applied.SearchTerm)

	st, err = f.svc.Search(ctx, "s1", &domain.FilterCriteria{SelectedTypes: []domain.StaffType{domain.StaffTypeLabor, domain.StaffTypeSupervisor}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "c3"}, ids(st.Records))

	st, err = f.svc.Clear(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "b2", "c3"}, ids(st.Records))
	assert.True(t, st.Criteria.IsEmpty())
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Current(ctx, "s1")
	require.NoError(t, err)

	_, err = f.svc.Delete(ctx, "s1", "b2", false)

	requireCode(t, err, "CONFIRMATION_REQUIRED", http.StatusPreconditionRequired)
	assert.Empty(t, f.dir.deleteCall)
}

func TestDelete_RemovesRecordAndKeepsFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Search(ctx, "s1", &domain.FilterCriteria{SelectedTypes: []domain.StaffType{domain.StaffTypeDriver, domain.StaffTypeLabor}})
	require.NoError(t, err)

	st, err := f.svc.Delete(ctx, "s1", "b2", true)

	require.NoError(t, err)
	assert.Equal(t, []string{"b2"}, f.dir.deleteCall)
	assert.Equal(t, []string{"c3"}, ids(st.Records))
	assert.Equal(t, 2, st.Total)
	require.Len(t, st.Notices, 1)
	assert.Equal(t, view.DeletedNotice, st.Notices[0].Message)
	assert.Contains(t, f.eventTypes(), events.EventStaffDeleted)
	assert.Equal(t, int64(1), f.metrics.Snapshot().BackendCalls["delete|ok"])
}

func TestDelete_UnknownRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Current(ctx, "s1")
	require.NoError(t, err)

	_, err = f.svc.Delete(ctx, "s1", "zz", true)

	requireCode(t, err, "NOT_FOUND", http.StatusNotFound)
	assert.Empty(t, f.dir.deleteCall)
}

func TestDelete_BackendFailureLeavesListIntact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Current(ctx, "s1")
	require.NoError(t, err)
	f.dir.delete = func(context.Context, string) error {
		return &directory.NetworkError{Op: "delete", Err: errors.New("timeout")}
	}

	_, err = f.svc.Delete(ctx, "s1", "a1", true)
	requireCode(t, err, "UPSTREAM_UNAVAILABLE", http.StatusBadGateway)

	st, err := f.svc.Current(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, st.Records, 3)
	assert.Contains(t, st.LastError, "timeout")
	assert.Contains(t, f.eventTypes(), events.EventStaffOperationFailed)
}

func TestDelete_BackendDownBeforeFirstLoad(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.dir.listAll = func(context.Context) ([]domain.StaffRecord, error) {
		return nil, &directory.NetworkError{Op: "list", Err: errors.New("connection refused")}
	}

	_, err := f.svc.Delete(ctx, "s1", "a1", true)

	requireCode(t, err, "UPSTREAM_UNAVAILABLE", http.StatusBadGateway)
	assert.Empty(t, f.dir.deleteCall)

	st, err := f.svc.Current(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, view.StateLoading, st.State)
	assert.Contains(t, st.LastError, "connection refused")
}

func TestExport_BackendDownBeforeFirstLoad(t *testing.T) {
	f := newFixture(t)
	f.dir.listAll = func(context.Context) ([]domain.StaffRecord, error) {
		return nil, &directory.ServerError{Op: "list", StatusCode: http.StatusServiceUnavailable}
	}

	var buf bytes.Buffer
	err := f.svc.Export(context.Background(), "s1", &buf)

	requireCode(t, err, "UPSTREAM_ERROR", http.StatusBadGateway)
	assert.Zero(t, buf.Len())
	assert.Zero(t, f.metrics.Snapshot().Exports)
}

func TestLockedSessionIsInFlight(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	unlock, err := f.store.Lock(ctx, "s1")
	require.NoError(t, err)
	defer unlock()

	_, err = f.svc.Reload(ctx, "s1")

	requireCode(t, err, "OPERATION_IN_FLIGHT", http.StatusConflict)
	assert.Zero(t, f.dir.listCalls)
}

func TestExport_WritesDisplayedRecords(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Search(ctx, "s1", &domain.FilterCriteria{SearchTerm: "W-0"})
	require.NoError(t, err)
	_, err = f.svc.Search(ctx, "s1", &domain.FilterCriteria{SelectedTypes: []domain.StaffType{domain.StaffTypeDriver}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.svc.Export(ctx, "s1", &buf))

	assert.Equal(t, "b2;", buf.String())
	assert.Equal(t, int64(1), f.metrics.Snapshot().Exports)
	last := f.received[len(f.received)-1]
	assert.Equal(t, events.EventReportExported, last.Type)
	assert.Equal(t, events.ReportExportedPayload{Rows: 1, FileName: "worker_list_report.pdf"}, last.Payload)
}

func TestSessionsAreIsolated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Search(ctx, "s1", &domain.FilterCriteria{SearchTerm: "alice"})
	require.NoError(t, err)

	st, err := f.svc.Current(ctx, "s2")

	require.NoError(t, err)
	assert.Len(t, st.Records, 3)
	assert.True(t, st.Criteria.IsEmpty())
}
