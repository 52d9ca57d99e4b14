package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dawan/studentprojects/internal/app/models"
	"github.com/dawan/studentprojects/internal/app/models/dto"
	"github.com/dawan/studentprojects/internal/app/repositories"
	"github.com/dawan/studentprojects/internal/pkg/apperrors"
)

// ProjectService defines the interface for project-related operations
type ProjectService interface {
	CreateProject(ctx context.Context, req dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	GetProject(ctx context.Context, id string) (*dto.ProjectResponse, error)
	UpdateProject(ctx context.Context, id string, req dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	DeleteProject(ctx context.Context, id string) error
	ListProjects(ctx context.Context, query dto.ListQuery) (*dto.ProjectListResponse, error)
}

// projectServiceImpl implements the ProjectService interface
type projectServiceImpl struct {
	projectRepo *repositories.ProjectRepository
}

// NewProjectService creates a new project service instance
func NewProjectService(projectRepo *repositories.ProjectRepository) ProjectService {
	return &projectServiceImpl{projectRepo: projectRepo}
}

func projectNotFound(id string) error {
	return apperrors.NewResourceNotFoundError(fmt.Sprintf("Project with id %s not found", id))
}

// CreateProject creates a new project
func (s *projectServiceImpl) CreateProject(ctx context.Context, req dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	project := &models.Project{Name: req.PName, Head: req.PHead}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("error creating project: %w", err)
	}

	resp := dto.NewProjectResponse(project)
	return &resp, nil
}

// getProject loads a project or returns a not-found error naming the id
func (s *projectServiceImpl) getProject(ctx context.Context, id string) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, projectNotFound(id)
		}
		return nil, fmt.Errorf("error retrieving project: %w", err)
	}
	return project, nil
}

// GetProject retrieves a project by ID
func (s *projectServiceImpl) GetProject(ctx context.Context, id string) (*dto.ProjectResponse, error) {
	project, err := s.getProject(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dto.NewProjectResponse(project)
	return &resp, nil
}

// UpdateProject applies a partial update. The existence check runs first
// because the store would otherwise create the row.
func (s *projectServiceImpl) UpdateProject(ctx context.Context, id string, req dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	if _, err := s.getProject(ctx, id); err != nil {
		return nil, err
	}

	project, changed, err := s.projectRepo.Update(ctx, id, req.ToPatch())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, projectNotFound(id)
		}
		return nil, fmt.Errorf("error updating project: %w", err)
	}
	if !changed {
		return nil, apperrors.NewCustomError(apperrors.ErrNoChanges, "No fields provided to update")
	}

	resp := dto.NewProjectResponse(project)
	return &resp, nil
}

// DeleteProject deletes a project. Students keep their reference to it.
func (s *projectServiceImpl) DeleteProject(ctx context.Context, id string) error {
	if _, err := s.getProject(ctx, id); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting project: %w", err)
	}
	return nil
}

// ListProjects returns one page of projects
func (s *projectServiceImpl) ListProjects(ctx context.Context, query dto.ListQuery) (*dto.ProjectListResponse, error) {
	projects, total, err := s.projectRepo.List(ctx, query.Page, query.Size, query.Q)
	if err != nil {
		return nil, fmt.Errorf("error listing projects: %w", err)
	}

	items := make([]dto.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		items = append(items, dto.NewProjectResponse(p))
	}

	return &dto.ProjectListResponse{
		Items: items,
		Total: total,
		Page:  query.Page,
		Size:  query.Size,
	}, nil
}
