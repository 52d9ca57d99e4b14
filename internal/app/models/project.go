package models

// Project defines the project model based on the 'projects' table
type Project struct {
	ID   string `json:"p_id" cql:"p_id" example:"c4a1e9d2-7b3f-4a6e-8d1c-2f5b9e0a7c34"`
	Name string `json:"p_name" cql:"p_name" example:"Apollo"`
	Head string `json:"p_head" cql:"p_head" example:"Dr. Kim"` // Name of the project owner
}

// ProjectPatch lists the project fields to change. Nil fields are left untouched.
type ProjectPatch struct {
	Name *string
	Head *string
}

// IsEmpty reports whether the patch changes nothing
func (p ProjectPatch) IsEmpty() bool {
	return p.Name == nil && p.Head == nil
}
