package events

import "time"

const LeaveDecidedTopic = "leave.request.decided.v1"

// LeaveDecidedEvent is emitted when a request reaches a terminal status
// (APPROVED or REJECTED).
type LeaveDecidedEvent struct {
	EventType   string    `json:"event_type"`
	LeaveID     string    `json:"leave_id"`
	ApplicantID string    `json:"applicant_id"`
	Status      string    `json:"status"`
	DecidedBy   string    `json:"decided_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
