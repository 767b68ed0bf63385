package events

import "time"

const LeaveSubmittedTopic = "leave.request.submitted.v1"

type LeaveSubmittedEvent struct {
	EventType    string    `json:"event_type"`
	LeaveID      string    `json:"leave_id"`
	ApplicantID  string    `json:"applicant_id"`
	DepartmentID string    `json:"department_id"`
	LeaveType    string    `json:"leave_type"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	OccurredAt   time.Time `json:"occurred_at"`
}
