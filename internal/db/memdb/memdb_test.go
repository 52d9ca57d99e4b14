package memdb

import (
	"context"
	"errors"
	"testing"

	"github.com/dawan/studentprojects/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T) (*Store, db.Session) {
	t.Helper()
	store := New()
	s, err := store.Connect(context.Background())
	require.NoError(t, err)
	return store, s
}

func TestBootstrapIsIdempotent(t *testing.T) {
	store, s := connect(t)
	ctx := context.Background()

	require.NoError(t, s.Exec(ctx, "INSERT INTO projects (p_id,p_name,p_head) VALUES (?,?,?)", "p1", "Apollo", "Kim"))
	require.NoError(t, db.Bootstrap(ctx, s))

	_, err := store.Connect(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, store.Count(db.TableProjects))
	assert.Equal(t, 0, store.Count(db.TableStudents))
	assert.Equal(t, 0, store.Count(db.TableUsers))
	assert.Equal(t, -1, store.Count("nope"))
}

func TestInsertSelectUpdateDelete(t *testing.T) {
	_, s := connect(t)
	ctx := context.Background()

	require.NoError(t, s.Exec(ctx, "INSERT INTO students (s_id,s_name,s_course,s_branch,s_project_id) VALUES (?,?,?,?,?)",
		"s1", "Alice", "Math", "A", nil))
	require.NoError(t, s.Exec(ctx, "INSERT INTO students (s_id,s_name,s_course,s_branch,s_project_id) VALUES (?,?,?,?,?)",
		"s2", "Bob", "Math", "B", "p1"))

	rows, err := s.Query(ctx, "SELECT s_id, s_name FROM students WHERE s_id = ?", "s1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, db.Row{"s_id": "s1", "s_name": "Alice"}, rows[0])

	require.NoError(t, s.Exec(ctx, "UPDATE students SET s_course = ? WHERE s_id = ?", "CS", "s1"))
	rows, err = s.Query(ctx, "SELECT * FROM students WHERE s_id = ?", "s1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "CS", rows[0]["s_course"])
	assert.Equal(t, "A", rows[0]["s_branch"])
	assert.Nil(t, rows[0]["s_project_id"])

	rows, err = s.Query(ctx, "SELECT s_id FROM students")
	require.NoError(t, err)
	assert.Equal(t, []db.Row{{"s_id": "s1"}, {"s_id": "s2"}}, rows)

	require.NoError(t, s.Exec(ctx, "DELETE FROM students WHERE s_id = ?", "s1"))
	rows, err = s.Query(ctx, "SELECT s_id FROM students WHERE s_id = ?", "s1")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestUpdateUpsertsMissingRow(t *testing.T) {
	store, s := connect(t)
	require.NoError(t, s.Exec(context.Background(), "UPDATE projects SET p_name = ? WHERE p_id = ?", "Ghost", "missing"))
	assert.Equal(t, 1, store.Count(db.TableProjects))
}

func TestFilteringRules(t *testing.T) {
	_, s := connect(t)
	ctx := context.Background()
	require.NoError(t, s.Exec(ctx, "INSERT INTO projects (p_id,p_name,p_head) VALUES (?,?,?)", "p1", "Apollo", "Kim"))
	require.NoError(t, s.Exec(ctx, "INSERT INTO projects (p_id,p_name,p_head) VALUES (?,?,?)", "p2", "Apollo", "Lee"))

	// Indexed column alone is fine
	rows, err := s.Query(ctx, "SELECT p_id FROM projects WHERE p_name = ?", "Apollo")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	// Unindexed column needs ALLOW FILTERING
	_, err = s.Query(ctx, "SELECT p_id FROM projects WHERE p_head = ?", "Kim")
	require.Error(t, err)

	rows, err = s.Query(ctx, "SELECT p_id FROM projects WHERE p_head = ? ALLOW FILTERING", "Kim")
	require.NoError(t, err)
	assert.Equal(t, []db.Row{{"p_id": "p1"}}, rows)

	// Several predicates need ALLOW FILTERING
	_, err = s.Query(ctx, "SELECT p_id FROM projects WHERE p_head = ? AND p_name = ?", "Lee", "Apollo")
	require.Error(t, err)

	rows, err = s.Query(ctx, "SELECT p_id FROM projects WHERE p_head = ? AND p_name = ? ALLOW FILTERING", "Lee", "Apollo")
	require.NoError(t, err)
	assert.Equal(t, []db.Row{{"p_id": "p2"}}, rows)
}

func TestErrors(t *testing.T) {
	store, s := connect(t)
	ctx := context.Background()

	_, err := s.Query(ctx, "SELECT * FROM missing")
	assert.ErrorContains(t, err, "unconfigured table")

	_, err = s.Query(ctx, "SELECT nope FROM projects")
	assert.ErrorContains(t, err, "undefined column")

	err = s.Exec(ctx, "DELETE FROM projects WHERE p_name = ?", "x")
	assert.Error(t, err)

	err = s.Exec(ctx, "TRUNCATE projects")
	assert.ErrorContains(t, err, "unsupported statement")

	boom := errors.New("boom")
	store.FailNext(boom)
	_, err = s.Query(ctx, "SELECT * FROM projects")
	assert.ErrorIs(t, err, boom)
	_, err = s.Query(ctx, "SELECT * FROM projects")
	assert.NoError(t, err)

	s.Close()
	_, err = s.Query(ctx, "SELECT * FROM projects")
	assert.ErrorIs(t, err, db.ErrSessionLost)
}

func TestStatementLog(t *testing.T) {
	store, s := connect(t)
	store.ResetStatements()

	_, err := s.Query(context.Background(), "SELECT   p_id\n FROM projects")
	require.NoError(t, err)
	assert.Equal(t, []string{"SELECT p_id FROM projects"}, store.Statements())
}

func TestProviderWithStore(t *testing.T) {
	store := New()
	p := db.NewSessionProvider(store)
	defer p.Close()

	s, err := p.GetSession(context.Background())
	require.NoError(t, err)
	_, err = s.Query(context.Background(), "SELECT * FROM users")
	require.NoError(t, err)
}
