package notification

type NotificationResponse struct {
	ID        string  `json:"id"`
	LeaveID   string  `json:"leave_id"`
	Title     string  `json:"title"`
	Message   string  `json:"message"`
	Status    string  `json:"status"`
	ReadAt    *string `json:"read_at,omitempty"`
	CreatedAt string  `json:"created_at"`
}

type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}
