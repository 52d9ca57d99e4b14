package dto

// ListQuery holds the query parameters shared by list endpoints
type ListQuery struct {
	Page int     `form:"page,default=1" binding:"min=1" example:"1"`
	Size int     `form:"size,default=10" binding:"min=1,max=100" example:"10"`
	Q    *string `form:"q"`
}

// StudentListQuery adds the optional project filter
type StudentListQuery struct {
	ListQuery
	ProjectID string `form:"project_id"`
}
