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

// StudentService defines the interface for student-related operations
type StudentService interface {
	CreateStudent(ctx context.Context, req dto.CreateStudentRequest) (*dto.StudentResponse, error)
	GetStudent(ctx context.Context, id string) (*dto.StudentResponse, error)
	UpdateStudent(ctx context.Context, id string, req dto.UpdateStudentRequest) (*dto.StudentResponse, error)
	DeleteStudent(ctx context.Context, id string) error
	ListStudents(ctx context.Context, query dto.StudentListQuery) (*dto.StudentListResponse, error)
}

// studentServiceImpl implements the StudentService interface
type studentServiceImpl struct {
	studentRepo *repositories.StudentRepository
}

// NewStudentService creates a new student service instance
func NewStudentService(studentRepo *repositories.StudentRepository) StudentService {
	return &studentServiceImpl{studentRepo: studentRepo}
}

func studentNotFound(id string) error {
	return apperrors.NewResourceNotFoundError(fmt.Sprintf("Student with id %s not found", id))
}

// CreateStudent creates a new student. The project reference is stored as given.
func (s *studentServiceImpl) CreateStudent(ctx context.Context, req dto.CreateStudentRequest) (*dto.StudentResponse, error) {
	student := req.ToModel()
	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, fmt.Errorf("error creating student: %w", err)
	}

	resp := dto.NewStudentResponse(student)
	return &resp, nil
}

func (s *studentServiceImpl) getStudent(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, studentNotFound(id)
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return student, nil
}

// GetStudent retrieves a student by ID
func (s *studentServiceImpl) GetStudent(ctx context.Context, id string) (*dto.StudentResponse, error) {
	student, err := s.getStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dto.NewStudentResponse(student)
	return &resp, nil
}

// UpdateStudent applies a partial update after checking the student exists
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, id string, req dto.UpdateStudentRequest) (*dto.StudentResponse, error) {
	if _, err := s.getStudent(ctx, id); err != nil {
		return nil, err
	}

	student, changed, err := s.studentRepo.Update(ctx, id, req.ToPatch())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, studentNotFound(id)
		}
		return nil, fmt.Errorf("error updating student: %w", err)
	}
	if !changed {
		return nil, apperrors.NewCustomError(apperrors.ErrNoChanges, "No fields provided to update")
	}

	resp := dto.NewStudentResponse(student)
	return &resp, nil
}

// DeleteStudent deletes a student
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, id string) error {
	if _, err := s.getStudent(ctx, id); err != nil {
		return err
	}

	if err := s.studentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting student: %w", err)
	}
	return nil
}

// ListStudents returns one page of students, optionally for one project
func (s *studentServiceImpl) ListStudents(ctx context.Context, query dto.StudentListQuery) (*dto.StudentListResponse, error) {
	students, total, err := s.studentRepo.List(ctx, query.Page, query.Size, query.Q, query.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}

	items := make([]dto.StudentResponse, 0, len(students))
	for _, st := range students {
		items = append(items, dto.NewStudentResponse(st))
	}

	return &dto.StudentListResponse{
		Items: items,
		Total: total,
		Page:  query.Page,
		Size:  query.Size,
	}, nil
}
