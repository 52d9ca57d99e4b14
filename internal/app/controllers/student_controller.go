package controllers

import (
	"net/http"

	"github.com/dawan/studentprojects/internal/app/models/dto"
	"github.com/dawan/studentprojects/internal/app/services"
	"github.com/dawan/studentprojects/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// StudentController handles student endpoints
type StudentController struct {
	studentService services.StudentService
	logger         zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService, logger zerolog.Logger) *StudentController {
	return &StudentController{
		studentService: studentService,
		logger:         logger,
	}
}

// CreateStudent creates a student
// @Summary Create a student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student"
// @Success 201 {object} dto.StudentResponse
// @Failure 422 {object} dto.ErrorResponse "Validation failed"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	student, err := c.studentService.CreateStudent(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("studentID", student.SID).Msg("Student created")
	ctx.JSON(http.StatusCreated, student)
}

// ListStudents lists students
// @Summary List students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param q query string false "Id or name"
// @Param project_id query string false "Only students of this project"
// @Success 200 {object} dto.StudentListResponse
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	var query dto.StudentListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	page, err := c.studentService.ListStudents(ctx.Request.Context(), query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, page)
}

// GetStudent returns one student
// @Summary Get a student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param s_id path string true "Student ID"
// @Success 200 {object} dto.StudentResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /students/{s_id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	student, err := c.studentService.GetStudent(ctx.Request.Context(), ctx.Param("s_id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, student)
}

// UpdateStudent applies a partial update
// @Summary Update a student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param s_id path string true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} dto.StudentResponse
// @Failure 400 {object} dto.ErrorResponse "No fields provided to update"
// @Failure 404 {object} dto.ErrorResponse
// @Router /students/{s_id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	student, err := c.studentService.UpdateStudent(ctx.Request.Context(), ctx.Param("s_id"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, student)
}

// DeleteStudent deletes a student
// @Summary Delete a student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param s_id path string true "Student ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /students/{s_id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id := ctx.Param("s_id")
	if err := c.studentService.DeleteStudent(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("studentID", id).Msg("Student deleted")
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Student deleted"})
}
