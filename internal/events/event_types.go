package events

import (
	"time"

	"github.com/spec-kit/complaint-portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered         EventType = "user_registered"
	EventPasswordReset          EventType = "password_reset"
	EventComplaintCreated       EventType = "complaint_created"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
)

// Event represents a domain event emitted by the services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	ActorEmail string      `json:"actor_email,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// PasswordResetPayload payload.
type PasswordResetPayload struct {
	Email string `json:"email"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	ComplaintID string `json:"complaint_id"`
	OwnerID     string `json:"owner_id"`
	TextPreview string `json:"text_preview"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	ComplaintID string                 `json:"complaint_id"`
	OldStatus   domain.ComplaintStatus `json:"old_status"`
	NewStatus   domain.ComplaintStatus `json:"new_status"`
}
