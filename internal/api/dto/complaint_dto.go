package dto

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	Text string `json:"text"`
}

// UpdateComplaintStatusRequest payload. The id travels in the body, not the
// path, matching the upstream API.
type UpdateComplaintStatusRequest struct {
	ID            string `json:"id"`
	ProcessStatus string `json:"process_status"`
}
