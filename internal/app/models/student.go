package models

// Student defines the student model based on the 'students' table
type Student struct {
	ID        string  `json:"s_id" cql:"s_id" example:"9b2d7c1e-4f3a-4e8b-a1c2-5d6e7f8a9b0c"`
	Name      string  `json:"s_name" cql:"s_name" example:"Alice"`
	Course    string  `json:"s_course" cql:"s_course" example:"Math"`
	Branch    string  `json:"s_branch" cql:"s_branch" example:"A"`
	ProjectID *string `json:"s_project_id" cql:"s_project_id"` // Opaque reference, never validated
}

// StudentPatch lists the student fields to change. Nil fields are left untouched.
type StudentPatch struct {
	Name      *string
	Course    *string
	Branch    *string
	ProjectID *string
}

// IsEmpty reports whether the patch changes nothing
func (p StudentPatch) IsEmpty() bool {
	return p.Name == nil && p.Course == nil && p.Branch == nil && p.ProjectID == nil
}
