package view

import "errors"

var (
	// ErrBusy is reported when a network or export operation is already running.
	ErrBusy = errors.New("view: operation already in flight")
	// ErrNotConfirmed is reported when the user declines a delete.
	ErrNotConfirmed = errors.New("view: delete not confirmed")
	// ErrUnknownRecord is reported for a delete of a record the view does not hold.
	ErrUnknownRecord = errors.New("view: unknown staff record")
)

// OutcomeKind classifies how an operation ended.
type OutcomeKind string

const (
	OutcomeSucceeded OutcomeKind = "succeeded"
	OutcomeFailed    OutcomeKind = "failed"
	OutcomeCancelled OutcomeKind = "cancelled"
	OutcomeBusy      OutcomeKind = "busy"
)

// Outcome is the result of Load, Delete and Export.
type Outcome struct {
	Kind   OutcomeKind
	Notice string
	Err    error
}

// OK reports whether the operation succeeded.
func (o Outcome) OK() bool {
	return o.Kind == OutcomeSucceeded
}

// Error folds the outcome into a plain error; nil on success.
func (o Outcome) Error() error {
	switch o.Kind {
	case OutcomeSucceeded:
		return nil
	case OutcomeBusy:
		return ErrBusy
	case OutcomeCancelled:
		return ErrNotConfirmed
	default:
		if o.Err != nil {
			return o.Err
		}
		return errors.New("view: operation failed")
	}
}

func succeeded(notice string) Outcome {
	return Outcome{Kind: OutcomeSucceeded, Notice: notice}
}

func failed(err error) Outcome {
	return Outcome{Kind: OutcomeFailed, Err: err}
}
