package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "pending"
	ComplaintStatusInProgress ComplaintStatus = "in-progress"
	ComplaintStatusResolved   ComplaintStatus = "resolved"
	ComplaintStatusRejected   ComplaintStatus = "rejected"
)

// ComplaintStatuses lists every valid status value.
func ComplaintStatuses() []ComplaintStatus {
	return []ComplaintStatus{
		ComplaintStatusPending,
		ComplaintStatusInProgress,
		ComplaintStatusResolved,
		ComplaintStatusRejected,
	}
}

// IsValid reports whether s is a member of the status enumeration.
// Any member may transition to any other member, including itself; the
// enumeration check is the only transition rule.
func (s ComplaintStatus) IsValid() bool {
	switch s {
	case ComplaintStatusPending, ComplaintStatusInProgress, ComplaintStatusResolved, ComplaintStatusRejected:
		return true
	}
	return false
}

// Complaint is a reported grievance. OwnerID records the account that
// created it and is never reassigned. JSON field names follow the stored
// record serialization and are part of the wire contract.
type Complaint struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"user_id"`
	Text      string          `json:"text"`
	Status    ComplaintStatus `json:"process_status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
