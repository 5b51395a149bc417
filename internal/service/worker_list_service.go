package service

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/worker-directory/internal/domain"
	"github.com/spec-kit/worker-directory/internal/events"
	"github.com/spec-kit/worker-directory/internal/observability"
	"github.com/spec-kit/worker-directory/internal/report"
	"github.com/spec-kit/worker-directory/internal/session"
	"github.com/spec-kit/worker-directory/internal/view"
)

// WorkerListService hosts one Staff List View per console session.
type WorkerListService struct {
	directory  view.Directory
	exporter   view.Exporter
	sessions   session.Store
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// WorkerListDependencies encapsulates collaborators required by the service.
type WorkerListDependencies struct {
	Directory  view.Directory
	Exporter   view.Exporter
	Sessions   session.Store
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// ViewState is what a console request sees after an operation.
type ViewState struct {
	State     view.State
	Records   []domain.StaffRecord
	Total     int
	Criteria  domain.FilterCriteria
	Applied   domain.FilterCriteria
	Notices   []view.Notice
	LastError string
}

// NewWorkerListService constructs the service.
func NewWorkerListService(deps WorkerListDependencies) *WorkerListService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkerListService{
		directory:  &meteredDirectory{inner: deps.Directory, metrics: deps.Metrics},
		exporter:   deps.Exporter,
		sessions:   deps.Sessions,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// loadPolicy says what withView does with a view that is still Loading.
type loadPolicy int

const (
	// skipLoad leaves the view as restored.
	skipLoad loadPolicy = iota
	// loadIfNeeded fetches the list and reports a failure through LastError.
	loadIfNeeded
	// requireLoaded fetches the list and fails the operation if that fails.
	requireLoaded
)

// Current returns the session's view. Every operation except Reload first
// loads the list while the view is still Loading. Current and the filter
// operations report a failed load through LastError; Delete and Export fail
// with the load error.
func (s *WorkerListService) Current(ctx context.Context, sessionID string) (*ViewState, error) {
	return s.withView(ctx, sessionID, loadIfNeeded, func(*view.View) error {
		return nil
	})
}

// Reload fetches the full list again.
func (s *WorkerListService) Reload(ctx context.Context, sessionID string) (*ViewState, error) {
	return s.withView(ctx, sessionID, skipLoad, func(v *view.View) error {
		return mapError(s.load(ctx, sessionID, v).Error(), "")
	})
}

// SetCriteria replaces the pending filter inputs without filtering.
func (s *WorkerListService) SetCriteria(ctx context.Context, sessionID string, criteria domain.FilterCriteria) (*ViewState, error) {
	return s.withView(ctx, sessionID, loadIfNeeded, func(v *view.View) error {
		v.SetCriteria(criteria)
		return nil
	})
}

// Search runs the filter. A non-nil criteria replaces the pending inputs first.
func (s *WorkerListService) Search(ctx context.Context, sessionID string, criteria *domain.FilterCriteria) (*ViewState, error) {
	return s.withView(ctx, sessionID, loadIfNeeded, func(v *view.View) error {
		if criteria != nil {
			v.SetCriteria(*criteria)
		}
		v.Search()
		return nil
	})
}

// Clear resets the filter inputs and shows the full list.
func (s *WorkerListService) Clear(ctx context.Context, sessionID string) (*ViewState, error) {
	return s.withView(ctx, sessionID, loadIfNeeded, func(v *view.View) error {
		v.Clear()
		return nil
	})
}

// Delete removes one record. confirmed carries the user's answer to the
// delete prompt; without it nothing is sent to the backend.
func (s *WorkerListService) Delete(ctx context.Context, sessionID, internalID string, confirmed bool) (*ViewState, error) {
	return s.withView(ctx, sessionID, requireLoaded, func(v *view.View) error {
		out := v.Delete(ctx, internalID, view.Answer(confirmed))
		return mapError(out.Error(), internalID)
	})
}

// Export writes the PDF report of the session's displayed records to w.
func (s *WorkerListService) Export(ctx context.Context, sessionID string, w io.Writer) error {
	started := time.Now()
	var rows int
	_, err := s.withView(ctx, sessionID, requireLoaded, func(v *view.View) error {
		rows = len(v.Filtered())
		return mapError(v.Export(ctx, w).Error(), "")
	})
	if err != nil {
		return err
	}
	s.metrics.RecordExport(time.Since(started))

	event := events.NewEvent(events.EventReportExported, sessionID)
	event.Payload = events.ReportExportedPayload{Rows: rows, FileName: report.FileName}
	s.publish(ctx, event)
	return nil
}

func (s *WorkerListService) load(ctx context.Context, sessionID string, v *view.View) view.Outcome {
	out := v.Load(ctx)
	if out.OK() {
		event := events.NewEvent(events.EventStaffListLoaded, sessionID)
		event.Payload = events.StaffListLoadedPayload{Count: len(v.Records())}
		s.publish(ctx, event)
	}
	return out
}

// withView claims the session, rebuilds its view, applies policy to a view
// still in Loading, runs fn and stores the result. The snapshot is saved even
// when the operation fails so LastError survives.
func (s *WorkerListService) withView(ctx context.Context, sessionID string, policy loadPolicy, fn func(*view.View) error) (*ViewState, error) {
	unlock, err := s.sessions.Lock(ctx, sessionID)
	if err != nil {
		return nil, mapError(err, "")
	}
	defer unlock()

	snap, err := s.sessions.Get(ctx, sessionID)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		return nil, mapError(err, "")
	}

	notices := &noticeCollector{service: s, sessionID: sessionID}
	v := view.New(view.Dependencies{
		Directory: s.directory,
		Exporter:  s.exporter,
		Notifier:  notices,
		Logger:    s.logger.With(zap.String("session_id", sessionID)),
	})
	if err == nil {
		v.Restore(snap)
	}
	var opErr error
	if policy != skipLoad && v.State() == view.StateLoading {
		out := s.load(ctx, sessionID, v)
		if policy == requireLoaded && !out.OK() {
			opErr = mapError(out.Error(), "")
		}
	}
	if opErr == nil {
		opErr = fn(v)
	}

	if err := s.sessions.Put(ctx, sessionID, v.Snapshot()); err != nil {
		s.logger.Error("failed to store session", zap.String("session_id", sessionID), zap.Error(err))
		if opErr == nil {
			return nil, mapError(err, "")
		}
	}
	if opErr != nil {
		return nil, opErr
	}
	return stateOf(v, notices.notices), nil
}

func (s *WorkerListService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func stateOf(v *view.View, notices []view.Notice) *ViewState {
	return &ViewState{
		State:     v.State(),
		Records:   v.Filtered(),
		Total:     len(v.Records()),
		Criteria:  v.Criteria(),
		Applied:   v.Applied(),
		Notices:   notices,
		LastError: v.LastError(),
	}
}

// noticeCollector keeps the notices of one request and turns them into events.
type noticeCollector struct {
	service   *WorkerListService
	sessionID string
	notices   []view.Notice
}

func (n *noticeCollector) Notify(ctx context.Context, notice view.Notice) {
	n.notices = append(n.notices, notice)

	var event events.Event
	switch notice.Level {
	case view.NoticeSuccess:
		event = events.NewEvent(events.EventStaffDeleted, n.sessionID)
	default:
		event = events.NewEvent(events.EventStaffOperationFailed, n.sessionID)
		op := "load"
		if notice.RecordID != "" {
			op = "delete"
		}
		event.Payload = events.OperationFailedPayload{Operation: op, Error: notice.Message}
	}
	event.RecordID = notice.RecordID
	event.Message = notice.Message
	n.service.publish(ctx, event)
}

// meteredDirectory counts backend calls by outcome.
type meteredDirectory struct {
	inner   view.Directory
	metrics *observability.Metrics
}

func (d *meteredDirectory) ListAll(ctx context.Context) ([]domain.StaffRecord, error) {
	records, err := d.inner.ListAll(ctx)
	d.metrics.RecordBackendCall("list", outcomeLabel(err))
	return records, err
}

func (d *meteredDirectory) Delete(ctx context.Context, internalID string) error {
	err := d.inner.Delete(ctx, internalID)
	d.metrics.RecordBackendCall("delete", outcomeLabel(err))
	return err
}

func outcomeLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
