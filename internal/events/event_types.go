package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventStaffListLoaded      EventType = "staff_list_loaded"
	EventStaffDeleted         EventType = "staff_deleted"
	EventStaffOperationFailed EventType = "staff_operation_failed"
	EventReportExported       EventType = "report_exported"
)

// Event represents something that happened in a console session.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SessionID string      `json:"session_id,omitempty"`
	RecordID  string      `json:"record_id,omitempty"`
	Message   string      `json:"message,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// NewEvent stamps an event with a fresh ID and the current time.
func NewEvent(t EventType, sessionID string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
	}
}

// StaffListLoadedPayload payload.
type StaffListLoadedPayload struct {
	Count int `json:"count"`
}

// OperationFailedPayload payload.
type OperationFailedPayload struct {
	Operation string `json:"operation"`
	Error     string `json:"error"`
}

// ReportExportedPayload payload.
type ReportExportedPayload struct {
	Rows     int    `json:"rows"`
	FileName string `json:"file_name"`
}
