package dto

import (
	"github.com/spec-kit/worker-directory/internal/domain"
	"github.com/spec-kit/worker-directory/internal/service"
)

// CriteriaRequest payload for PUT /workers/criteria and POST /workers/search.
type CriteriaRequest struct {
	SearchTerm    string   `json:"search_term"`
	SelectedTypes []string `json:"selected_types"`
}

// Criteria converts the payload, dropping duplicate types.
func (r CriteriaRequest) Criteria() domain.FilterCriteria {
	var c domain.FilterCriteria
	c.SearchTerm = r.SearchTerm
	for _, t := range r.SelectedTypes {
		c.ToggleType(domain.StaffType(t), true)
	}
	return c
}

// CriteriaResponse echoes filter inputs.
type CriteriaResponse struct {
	SearchTerm    string   `json:"search_term"`
	SelectedTypes []string `json:"selected_types"`
}

// WorkerResponse is one row of the list.
type WorkerResponse struct {
	InternalID string `json:"_id"`
	DisplayID  string `json:"id"`
	Username   string `json:"username"`
	Type       string `json:"type"`
	Number     string `json:"number"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	JoinDate   string `json:"joindate"`
	License    string `json:"license"`
	UpdateURL  string `json:"update_url"`
}

// NoticeResponse is a transient message for the user.
type NoticeResponse struct {
	Level    string `json:"level"`
	Message  string `json:"message"`
	RecordID string `json:"record_id,omitempty"`
}

// ViewResponse is the console's rendering of the Staff List View.
type ViewResponse struct {
	State          string           `json:"state"`
	Criteria       CriteriaResponse `json:"criteria"`
	Applied        CriteriaResponse `json:"applied"`
	Records        []WorkerResponse `json:"records"`
	DisplayedCount int              `json:"displayed_count"`
	TotalCount     int              `json:"total_count"`
	AddURL         string           `json:"add_url"`
	TypeOptions    []string         `json:"type_options"`
	Notice         *NoticeResponse  `json:"notice,omitempty"`
	LastError      string           `json:"last_error,omitempty"`
}

// NewViewResponse maps a service view state.
func NewViewResponse(st *service.ViewState) ViewResponse {
	records := make([]WorkerResponse, 0, len(st.Records))
	for _, r := range st.Records {
		records = append(records, WorkerResponse{
			InternalID: r.InternalID,
			DisplayID:  r.DisplayID,
			Username:   r.Username,
			Type:       string(r.Type),
			Number:     r.Number.String(),
			Email:      r.Email,
			Address:    r.Address,
			JoinDate:   r.JoinDate.String(),
			License:    r.License.String(),
			UpdateURL:  domain.UpdatePath(r.InternalID),
		})
	}
	options := make([]string, 0, len(domain.KnownStaffTypes))
	for _, t := range domain.KnownStaffTypes {
		options = append(options, string(t))
	}
	resp := ViewResponse{
		State:          string(st.State),
		Criteria:       criteriaResponse(st.Criteria),
		Applied:        criteriaResponse(st.Applied),
		Records:        records,
		DisplayedCount: len(records),
		TotalCount:     st.Total,
		AddURL:         domain.AddPath,
		TypeOptions:    options,
		LastError:      st.LastError,
	}
	if n := len(st.Notices); n > 0 {
		last := st.Notices[n-1]
		resp.Notice = &NoticeResponse{Level: string(last.Level), Message: last.Message, RecordID: last.RecordID}
	}
	return resp
}

func criteriaResponse(c domain.FilterCriteria) CriteriaResponse {
	types := make([]string, 0, len(c.SelectedTypes))
	for _, t := range c.SelectedTypes {
		types = append(types, string(t))
	}
	return CriteriaResponse{SearchTerm: c.SearchTerm, SelectedTypes: types}
}
