package dto

import "github.com/dawan/studentprojects/internal/app/models"

// CreateProjectRequest represents the payload for creating a project
type CreateProjectRequest struct {
	PName string `json:"p_name" binding:"required,max=200" example:"Apollo"`
	PHead string `json:"p_head" binding:"required,max=200" example:"Dr. Kim"`
}

// UpdateProjectRequest represents a partial project update. Omitted or null
// fields are left unchanged.
type UpdateProjectRequest struct {
	PName *string `json:"p_name,omitempty" binding:"omitnil,max=200" example:"Apollo II"`
	PHead *string `json:"p_head,omitempty" binding:"omitnil,max=200"`
}

// ToPatch converts the request to a repository patch
func (r UpdateProjectRequest) ToPatch() models.ProjectPatch {
	return models.ProjectPatch{Name: r.PName, Head: r.PHead}
}

// ProjectResponse represents a project returned by the API
type ProjectResponse struct {
	PID   string `json:"p_id" example:"c4a1e9d2-7b3f-4a6e-8d1c-2f5b9e0a7c34"`
	PName string `json:"p_name" example:"Apollo"`
	PHead string `json:"p_head" example:"Dr. Kim"`
}

// ProjectListResponse is one page of projects
type ProjectListResponse struct {
	Items []ProjectResponse `json:"items"`
	Total int               `json:"total" example:"42"`
	Page  int               `json:"page" example:"1"`
	Size  int               `json:"size" example:"10"`
}

// NewProjectResponse maps a project model to its response
func NewProjectResponse(p *models.Project) ProjectResponse {
	return ProjectResponse{PID: p.ID, PName: p.Name, PHead: p.Head}
}
