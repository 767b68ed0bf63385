package department

type DepartmentResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	Description string  `json:"description"`
	HeadID      *string `json:"head_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
}
