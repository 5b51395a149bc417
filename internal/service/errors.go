package service

import (
	"errors"
	"net/http"

	"github.com/spec-kit/worker-directory/internal/directory"
	"github.com/spec-kit/worker-directory/internal/session"
	"github.com/spec-kit/worker-directory/internal/view"
	apperrors "github.com/spec-kit/worker-directory/pkg/util/errorutil"
)

// mapError turns view, session and backend failures into DomainErrors.
func mapError(err error, recordID string) error {
	if err == nil {
		return nil
	}
	var srvErr *directory.ServerError
	var netErr *directory.NetworkError
	switch {
	case errors.Is(err, view.ErrBusy), errors.Is(err, session.ErrLocked):
		return apperrors.NewConflict("OPERATION_IN_FLIGHT", "another operation is already running for this session", nil)
	case errors.Is(err, view.ErrNotConfirmed):
		return apperrors.NewConfirmationRequired("delete must be confirmed")
	case errors.Is(err, view.ErrUnknownRecord):
		return apperrors.NewNotFound("staff record", map[string]any{"id": recordID})
	case errors.As(err, &srvErr):
		if srvErr.StatusCode == http.StatusNotFound && recordID != "" {
			return apperrors.NewNotFound("staff record", map[string]any{"id": recordID})
		}
		return apperrors.NewUpstreamError("UPSTREAM_ERROR", "staff backend rejected the request", err,
			map[string]any{"status": srvErr.StatusCode})
	case errors.As(err, &netErr):
		return apperrors.NewUpstreamError("UPSTREAM_UNAVAILABLE", "staff backend unreachable", err, nil)
	default:
		return apperrors.ToDomainError(err)
	}
}
