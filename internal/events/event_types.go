package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventStaffLoggedIn      EventType = "staff_logged_in"
	EventTechnicianLoggedIn EventType = "technician_logged_in"
	EventLoginFailed        EventType = "login_failed"
	EventUserCreated        EventType = "user_created"
	EventUserUpdated        EventType = "user_updated"
	EventUserDeleted        EventType = "user_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// StaffLoggedInPayload payload.
type StaffLoggedInPayload struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// TechnicianLoggedInPayload payload.
type TechnicianLoggedInPayload struct {
	TechnicianID int64  `json:"technician_id"`
	Username     string `json:"username"`
}

// LoginFailedPayload payload. Identifier is the submitted email or username;
// Reason is a server-side label, never surfaced to the caller.
type LoginFailedPayload struct {
	Flow       string `json:"flow"`
	Identifier string `json:"identifier"`
	Reason     string `json:"reason"`
}

// UserChangedPayload payload for user CRUD events.
type UserChangedPayload struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}
