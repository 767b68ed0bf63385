package leavetype

type CreateLeaveTypeRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
	MaxDays     int    `json:"max_days" binding:"omitempty,gte=0,lte=365"`
}

type UpdateLeaveTypeRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	MaxDays     *int    `json:"max_days" binding:"omitempty,gte=0,lte=365"`
}

type LeaveTypeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MaxDays     int    `json:"max_days"`
	CreatedAt   string `json:"created_at"`
}
