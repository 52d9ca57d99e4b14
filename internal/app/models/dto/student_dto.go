package dto

import "github.com/dawan/studentprojects/internal/app/models"

// CreateStudentRequest represents the payload for creating a student
type CreateStudentRequest struct {
	SName      string  `json:"s_name" binding:"required,max=200" example:"Alice"`
	SCourse    string  `json:"s_course" binding:"required,max=200" example:"Math"`
	SBranch    string  `json:"s_branch" binding:"required,max=200" example:"A"`
	SProjectID *string `json:"s_project_id,omitempty" binding:"omitnil,max=64"` // Not checked against projects
}

// ToModel converts the request to a student model without an id
func (r CreateStudentRequest) ToModel() *models.Student {
	return &models.Student{
		Name:      r.SName,
		Course:    r.SCourse,
		Branch:    r.SBranch,
		ProjectID: r.SProjectID,
	}
}

// UpdateStudentRequest represents a partial student update. Omitted or null
// fields are left unchanged; an empty s_project_id unlinks the project.
type UpdateStudentRequest struct {
	SName      *string `json:"s_name,omitempty" binding:"omitnil,max=200"`
	SCourse    *string `json:"s_course,omitempty" binding:"omitnil,max=200" example:"CS"`
	SBranch    *string `json:"s_branch,omitempty" binding:"omitnil,max=200"`
	SProjectID *string `json:"s_project_id,omitempty" binding:"omitnil,max=64"`
}

// ToPatch converts the request to a repository patch
func (r UpdateStudentRequest) ToPatch() models.StudentPatch {
	return models.StudentPatch{
		Name:      r.SName,
		Course:    r.SCourse,
		Branch:    r.SBranch,
		ProjectID: r.SProjectID,
	}
}

// StudentResponse represents a student returned by the API
type StudentResponse struct {
	SID        string  `json:"s_id" example:"9b2d7c1e-4f3a-4e8b-a1c2-5d6e7f8a9b0c"`
	SName      string  `json:"s_name" example:"Alice"`
	SCourse    string  `json:"s_course" example:"Math"`
	SBranch    string  `json:"s_branch" example:"A"`
	SProjectID *string `json:"s_project_id"`
}

// StudentListResponse is one page of students
type StudentListResponse struct {
	Items []StudentResponse `json:"items"`
	Total int               `json:"total" example:"42"`
	Page  int               `json:"page" example:"1"`
	Size  int               `json:"size" example:"10"`
}

// NewStudentResponse maps a student model to its response
func NewStudentResponse(s *models.Student) StudentResponse {
	return StudentResponse{
		SID:        s.ID,
		SName:      s.Name,
		SCourse:    s.Course,
		SBranch:    s.Branch,
		SProjectID: s.ProjectID,
	}
}
