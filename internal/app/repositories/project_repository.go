package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/dawan/studentprojects/internal/app/models"
	"github.com/dawan/studentprojects/internal/db"
	"github.com/dawan/studentprojects/internal/pkg/logger"
	"github.com/google/uuid"
)

var projectColumns = []string{"p_id", "p_name", "p_head"}

// ProjectRepository handles project storage
type ProjectRepository struct {
	Searchable
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(sessions SessionSource) *ProjectRepository {
	return &ProjectRepository{
		Searchable: Searchable{
			baseRepository: newBaseRepository(sessions),
			Table:          db.TableProjects,
			Columns:        projectColumns,
			Prefix:         "p",
		},
	}
}

// Create stores a new project under a freshly generated id
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	project.ID = uuid.NewString()

	err := r.exec(ctx, "create project", r.sb.Insert(db.TableProjects).
		Columns(projectColumns...).
		Values(project.ID, project.Name, project.Head))
	if err != nil {
		return err
	}

	logger.Info().Str("projectID", project.ID).Msg("Project created")
	return nil
}

// GetByID returns ErrNotFound when no project has the id
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	rows, err := r.query(ctx, "get project", r.sb.Select(projectColumns...).
		From(db.TableProjects).
		Where(squirrel.Eq{"p_id": id}))
	if err != nil {
		return nil, err
	}

	projects, err := decodeRows[models.Project](rows)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, ErrNotFound
	}
	return projects[0], nil
}

// Update writes the non-nil fields of patch and returns the re-read project.
// An empty patch touches nothing and reports changed=false. Because an
// UPDATE creates missing rows, callers check existence first.
func (r *ProjectRepository) Update(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, bool, error) {
	if patch.IsEmpty() {
		return nil, false, nil
	}

	set := map[string]interface{}{}
	if patch.Name != nil {
		set["p_name"] = *patch.Name
	}
	if patch.Head != nil {
		set["p_head"] = *patch.Head
	}

	err := r.exec(ctx, "update project", r.sb.Update(db.TableProjects).
		SetMap(set).
		Where(squirrel.Eq{"p_id": id}))
	if err != nil {
		return nil, false, err
	}

	project, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return project, true, nil
}

// Delete removes the project. Students referencing it are left alone.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, "delete project", r.sb.Delete(db.TableProjects).
		Where(squirrel.Eq{"p_id": id}))
}

// List returns one page of projects, searching by id or name when q is set
func (r *ProjectRepository) List(ctx context.Context, page, size int, q *string) ([]*models.Project, int, error) {
	rows, total, err := r.ListWithSearch(ctx, SearchQuery{Page: page, Size: size, Q: q})
	if err != nil {
		return nil, 0, err
	}

	projects, err := decodeRows[models.Project](rows)
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}
