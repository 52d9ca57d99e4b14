package dto

// MessageResponse represents a plain confirmation message
type MessageResponse struct {
	Message string `json:"message" example:"Project deleted"`
}

// HealthResponse reports process and database health
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"up"`
}
