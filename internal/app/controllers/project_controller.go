package controllers

import (
	"net/http"

	"github.com/dawan/studentprojects/internal/app/models/dto"
	"github.com/dawan/studentprojects/internal/app/services"
	"github.com/dawan/studentprojects/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ProjectController handles project endpoints
type ProjectController struct {
	projectService services.ProjectService
	studentService services.StudentService
	logger         zerolog.Logger
}

// NewProjectController creates a new ProjectController
func NewProjectController(projectService services.ProjectService, studentService services.StudentService, logger zerolog.Logger) *ProjectController {
	return &ProjectController{
		projectService: projectService,
		studentService: studentService,
		logger:         logger,
	}
}

// CreateProject creates a project
// @Summary Create a project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProjectRequest true "Project"
// @Success 201 {object} dto.ProjectResponse
// @Failure 422 {object} dto.ErrorResponse "Validation failed"
// @Router /projects [post]
func (c *ProjectController) CreateProject(ctx *gin.Context) {
	var req dto.CreateProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	project, err := c.projectService.CreateProject(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("projectID", project.PID).Msg("Project created")
	ctx.JSON(http.StatusCreated, project)
}

// ListProjects lists projects
// @Summary List projects
// @Description Pages through projects. q is matched as an exact id when it is a UUID, otherwise as an exact name.
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param q query string false "Id or name"
// @Success 200 {object} dto.ProjectListResponse
// @Router /projects [get]
func (c *ProjectController) ListProjects(ctx *gin.Context) {
	var query dto.ListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	page, err := c.projectService.ListProjects(ctx.Request.Context(), query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, page)
}

// GetProject returns one project
// @Summary Get a project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param p_id path string true "Project ID"
// @Success 200 {object} dto.ProjectResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /projects/{p_id} [get]
func (c *ProjectController) GetProject(ctx *gin.Context) {
	project, err := c.projectService.GetProject(ctx.Request.Context(), ctx.Param("p_id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, project)
}

// UpdateProject applies a partial update
// @Summary Update a project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param p_id path string true "Project ID"
// @Param request body dto.UpdateProjectRequest true "Fields to change"
// @Success 200 {object} dto.ProjectResponse
// @Failure 400 {object} dto.ErrorResponse "No fields provided to update"
// @Failure 404 {object} dto.ErrorResponse
// @Router /projects/{p_id} [put]
func (c *ProjectController) UpdateProject(ctx *gin.Context) {
	var req dto.UpdateProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	project, err := c.projectService.UpdateProject(ctx.Request.Context(), ctx.Param("p_id"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, project)
}

// DeleteProject deletes a project. Linked students keep their reference.
// @Summary Delete a project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param p_id path string true "Project ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /projects/{p_id} [delete]
func (c *ProjectController) DeleteProject(ctx *gin.Context) {
	id := ctx.Param("p_id")
	if err := c.projectService.DeleteProject(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("projectID", id).Msg("Project deleted")
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Project deleted"})
}

// ListProjectStudents lists the students linked to a project. The project
// itself is not looked up, so an unknown id yields an empty page.
// @Summary List students of a project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param p_id path string true "Project ID"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param q query string false "Id or name"
// @Success 200 {object} dto.StudentListResponse
// @Router /projects/{p_id}/students [get]
func (c *ProjectController) ListProjectStudents(ctx *gin.Context) {
	var query dto.StudentListQuery
	if err := ctx.ShouldBindQuery(&query.ListQuery); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	query.ProjectID = ctx.Param("p_id")

	page, err := c.studentService.ListStudents(ctx.Request.Context(), query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, page)
}
