package repositories

import (
	"context"
	"testing"

	"github.com/dawan/studentprojects/internal/app/models"
	"github.com/dawan/studentprojects/internal/db"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentCRUD(t *testing.T) {
	_, sessions := newTestSessions(t)
	repo := NewStudentRepository(sessions)
	ctx := context.Background()

	alice := &models.Student{Name: "Alice", Course: "Math", Branch: "A"}
	require.NoError(t, repo.Create(ctx, alice))
	_, err := uuid.Parse(alice.ID)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice, got)
	assert.Nil(t, got.ProjectID)

	updated, changed, err := repo.Update(ctx, alice.ID, models.StudentPatch{Course: strPtr("CS")})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "CS", updated.Course)
	assert.Equal(t, "Alice", updated.Name)
	assert.Equal(t, "A", updated.Branch)

	require.NoError(t, repo.Delete(ctx, alice.ID))
	_, err = repo.GetByID(ctx, alice.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStudentUpdateEmptyPatchIsNoOp(t *testing.T) {
	store, sessions := newTestSessions(t)
	repo := NewStudentRepository(sessions)
	ctx := context.Background()

	s := &models.Student{Name: "Bob", Course: "Art", Branch: "B"}
	require.NoError(t, repo.Create(ctx, s))
	store.ResetStatements()

	got, changed, err := repo.Update(ctx, s.ID, models.StudentPatch{})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Nil(t, got)
	assert.Empty(t, store.Statements())

	// The sentinel does not depend on the row existing
	got, changed, err = repo.Update(ctx, uuid.NewString(), models.StudentPatch{})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Nil(t, got)
}

func TestStudentUpdateOnlyTouchesSuppliedFields(t *testing.T) {
	store, sessions := newTestSessions(t)
	repo := NewStudentRepository(sessions)
	ctx := context.Background()

	s := &models.Student{Name: "Carol", Course: "Bio", Branch: "C", ProjectID: strPtr("p-1")}
	require.NoError(t, repo.Create(ctx, s))
	store.ResetStatements()

	got, changed, err := repo.Update(ctx, s.ID, models.StudentPatch{Branch: strPtr("D"), Name: strPtr("Caroline")})
	require.NoError(t, err)
	require.True(t, changed)
	assert.Equal(t, "UPDATE students SET s_branch = ?, s_name = ? WHERE s_id = ?", store.Statements()[0])
	assert.Equal(t, &models.Student{ID: s.ID, Name: "Caroline", Course: "Bio", Branch: "D", ProjectID: strPtr("p-1")}, got)

	got, _, err = repo.Update(ctx, s.ID, models.StudentPatch{ProjectID: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, got.ProjectID)
}

func TestStudentListByProject(t *testing.T) {
	store, sessions := newTestSessions(t)
	repo := NewStudentRepository(sessions)
	ctx := context.Background()

	for i, pid := range []string{"p-1", "p-2", "p-1", ""} {
		s := &models.Student{Name: "s" + string(rune('a'+i)), Course: "X", Branch: "Y"}
		if pid != "" {
			s.ProjectID = strPtr(pid)
		}
		require.NoError(t, repo.Create(ctx, s))
	}
	store.ResetStatements()

	items, total, err := repo.List(ctx, 1, 10, strPtr("sb"), "p-1")
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, s := range items {
		require.NotNil(t, s.ProjectID)
		assert.Equal(t, "p-1", *s.ProjectID)
	}
	assert.Equal(t, []string{"SELECT s_id, s_name, s_course, s_branch, s_project_id FROM students WHERE s_project_id = ?"}, store.Statements())

	items, total, err = repo.List(ctx, 1, 10, nil, "")
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Len(t, items, 4)

	items, total, err = repo.List(ctx, 1, 10, strPtr("sb"), "")
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "sb", items[0].Name)
}

func TestStudentDecodeTreatsEmptyProjectAsNull(t *testing.T) {
	_, sessions := newTestSessions(t)
	repo := NewStudentRepository(sessions)

	students, err := repo.decode([]db.Row{{
		"s_id": "x", "s_name": "n", "s_course": "c", "s_branch": "b", "s_project_id": "",
	}})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Nil(t, students[0].ProjectID)
}
