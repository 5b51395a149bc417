package domain

import "fmt"

// StaffType is the category tag of a worker.
type StaffType string

const (
	StaffTypeSupervisor StaffType = "Supervisor"
	StaffTypeDriver     StaffType = "Driver"
	StaffTypeLabor      StaffType = "Labor"
)

// KnownStaffTypes lists the categories offered as filter toggles, in display order.
var KnownStaffTypes = []StaffType{StaffTypeSupervisor, StaffTypeDriver, StaffTypeLabor}

// AddPath is the route of the worker creation flow.
const AddPath = "/Addworkers"

// StaffRecord models one worker as served by the staff backend.
// InternalID is the only key used for mutations.
type StaffRecord struct {
	InternalID string      `json:"_id"`
	DisplayID  string      `json:"id"`
	Username   string      `json:"username"`
	Type       StaffType   `json:"type"`
	Number     LooseString `json:"number"`
	Email      string      `json:"email"`
	Address    string      `json:"address"`
	JoinDate   LooseString `json:"joindate"`
	License    LooseString `json:"license"`
}

// UpdatePath returns the route of the edit flow for the record.
func UpdatePath(internalID string) string {
	return fmt.Sprintf("/Updatestaff/%s", internalID)
}
