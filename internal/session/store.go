package session

import (
	"context"
	"errors"

	"github.com/spec-kit/worker-directory/internal/view"
)

var (
	// ErrNotFound is returned for unknown or expired sessions.
	ErrNotFound = errors.New("session: not found")
	// ErrLocked is returned when another request holds the session.
	ErrLocked = errors.New("session: operation already in flight")
)

// Store keeps one view snapshot per console session.
type Store interface {
	Get(ctx context.Context, id string) (view.Snapshot, error)
	Put(ctx context.Context, id string, snap view.Snapshot) error
	// Lock claims the session for one request. The returned func releases it.
	Lock(ctx context.Context, id string) (func(), error)
}
