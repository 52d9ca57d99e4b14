package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/dawan/studentprojects/internal/app/models"
	"github.com/dawan/studentprojects/internal/db"
	"github.com/dawan/studentprojects/internal/pkg/logger"
	"github.com/google/uuid"
)

var studentColumns = []string{"s_id", "s_name", "s_course", "s_branch", "s_project_id"}

// StudentRepository handles student storage
type StudentRepository struct {
	Searchable
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(sessions SessionSource) *StudentRepository {
	return &StudentRepository{
		Searchable: Searchable{
			baseRepository: newBaseRepository(sessions),
			Table:          db.TableStudents,
			Columns:        studentColumns,
			Prefix:         "s",
		},
	}
}

func (r *StudentRepository) decode(rows []db.Row) ([]*models.Student, error) {
	students, err := decodeRows[models.Student](rows)
	if err != nil {
		return nil, err
	}
	// The driver reads a NULL text column as ""
	for _, s := range students {
		if s.ProjectID != nil && *s.ProjectID == "" {
			s.ProjectID = nil
		}
	}
	return students, nil
}

// Create stores a new student under a freshly generated id
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	student.ID = uuid.NewString()
	if student.ProjectID != nil && *student.ProjectID == "" {
		student.ProjectID = nil
	}

	err := r.exec(ctx, "create student", r.sb.Insert(db.TableStudents).
		Columns(studentColumns...).
		Values(student.ID, student.Name, student.Course, student.Branch, nullIfEmpty(student.ProjectID)))
	if err != nil {
		return err
	}

	logger.Info().Str("studentID", student.ID).Msg("Student created")
	return nil
}

// GetByID returns ErrNotFound when no student has the id
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	rows, err := r.query(ctx, "get student", r.sb.Select(studentColumns...).
		From(db.TableStudents).
		Where(squirrel.Eq{"s_id": id}))
	if err != nil {
		return nil, err
	}

	students, err := r.decode(rows)
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, ErrNotFound
	}
	return students[0], nil
}

// Update writes the non-nil fields of patch and returns the re-read student.
// An empty patch touches nothing and reports changed=false. An empty
// ProjectID clears the link.
func (r *StudentRepository) Update(ctx context.Context, id string, patch models.StudentPatch) (*models.Student, bool, error) {
	if patch.IsEmpty() {
		return nil, false, nil
	}

	set := map[string]interface{}{}
	if patch.Name != nil {
		set["s_name"] = *patch.Name
	}
	if patch.Course != nil {
		set["s_course"] = *patch.Course
	}
	if patch.Branch != nil {
		set["s_branch"] = *patch.Branch
	}
	if patch.ProjectID != nil {
		set["s_project_id"] = nullIfEmpty(patch.ProjectID)
	}

	err := r.exec(ctx, "update student", r.sb.Update(db.TableStudents).
		SetMap(set).
		Where(squirrel.Eq{"s_id": id}))
	if err != nil {
		return nil, false, err
	}

	student, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return student, true, nil
}

// Delete removes the student
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, "delete student", r.sb.Delete(db.TableStudents).
		Where(squirrel.Eq{"s_id": id}))
}

// List returns one page of students. A non-empty projectID restricts the
// list to that project and takes precedence over q.
func (r *StudentRepository) List(ctx context.Context, page, size int, q *string, projectID string) ([]*models.Student, int, error) {
	query := SearchQuery{Page: page, Size: size, Q: q}
	if projectID != "" {
		query.Filters = map[string]any{"s_project_id": projectID}
	}

	rows, total, err := r.ListWithSearch(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	students, err := r.decode(rows)
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}
