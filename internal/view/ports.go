package view

import (
	"context"
	"io"

	"github.com/spec-kit/worker-directory/internal/domain"
)

// Directory is the staff backend as seen by the view.
type Directory interface {
	ListAll(ctx context.Context) ([]domain.StaffRecord, error)
	Delete(ctx context.Context, internalID string) error
}

// Exporter renders the displayed records into a report.
type Exporter interface {
	Export(ctx context.Context, records []domain.StaffRecord, w io.Writer) error
}

// Confirmer asks the user a blocking yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Answer returns a Confirmer that always gives the same reply.
func Answer(yes bool) Confirmer {
	return ConfirmFunc(func(context.Context, string) (bool, error) { return yes, nil })
}

// NoticeLevel grades a user-visible notice.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a transient message for the user.
type Notice struct {
	Level   NoticeLevel
	Message string
	// RecordID is set when the notice concerns one staff record.
	RecordID string
}

// Notifier surfaces notices to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}
