package repositories

import (
	"context"
	"testing"

	"github.com/dawan/studentprojects/internal/app/models"
	"github.com/dawan/studentprojects/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectCRUD(t *testing.T) {
	store, sessions := newTestSessions(t)
	repo := NewProjectRepository(sessions)
	ctx := context.Background()

	p := &models.Project{Name: "Apollo", Head: "Kim"}
	require.NoError(t, repo.Create(ctx, p))
	require.NotEmpty(t, p.ID)

	other := &models.Project{Name: "Gemini", Head: "Lee"}
	require.NoError(t, repo.Create(ctx, other))
	assert.NotEqual(t, p.ID, other.ID)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	updated, changed, err := repo.Update(ctx, p.ID, models.ProjectPatch{Head: strPtr("Park")})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, &models.Project{ID: p.ID, Name: "Apollo", Head: "Park"}, updated)

	_, changed, err = repo.Update(ctx, p.ID, models.ProjectPatch{})
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, store.Count(db.TableProjects))
}

func TestProjectDeleteDoesNotCascade(t *testing.T) {
	store, sessions := newTestSessions(t)
	repos := NewRepositories(sessions)
	ctx := context.Background()

	p := &models.Project{Name: "Apollo", Head: "Kim"}
	require.NoError(t, repos.ProjectRepository.Create(ctx, p))
	s := &models.Student{Name: "Alice", Course: "Math", Branch: "A", ProjectID: strPtr(p.ID)}
	require.NoError(t, repos.StudentRepository.Create(ctx, s))

	require.NoError(t, repos.ProjectRepository.Delete(ctx, p.ID))
	assert.Equal(t, 1, store.Count(db.TableStudents))

	got, err := repos.StudentRepository.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, *got.ProjectID)
}
