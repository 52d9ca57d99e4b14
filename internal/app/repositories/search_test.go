package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/dawan/studentprojects/internal/app/models"
	"github.com/dawan/studentprojects/internal/db"
	"github.com/dawan/studentprojects/internal/db/memdb"
	"github.com/dawan/studentprojects/internal/pkg/apperrors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecideSearch(t *testing.T) {
	id := "3F8E2A5C-1B7D-4C2E-9A6F-0D4B8E7C1A92"

	tests := []struct {
		name    string
		filters map[string]any
		q       *string
		want    SearchPlan
	}{
		{
			name: "nothing lists all",
			want: SearchPlan{Mode: ListAll},
		},
		{
			name:    "filters win over q",
			filters: map[string]any{"s_project_id": "p1"},
			q:       strPtr(id),
			want:    SearchPlan{Mode: FilterMode, Where: map[string]any{"s_project_id": "p1"}},
		},
		{
			name:    "several filters scan",
			filters: map[string]any{"s_course": "Math", "s_branch": "A"},
			want:    SearchPlan{Mode: FilterMode, Where: map[string]any{"s_course": "Math", "s_branch": "A"}, AllowFiltering: true},
		},
		{
			name:    "nil filter values are ignored",
			filters: map[string]any{"s_project_id": nil},
			want:    SearchPlan{Mode: ListAll},
		},
		{
			name: "canonical uuid is an id lookup",
			q:    strPtr(id),
			want: SearchPlan{Mode: IDLookup, Where: map[string]any{"s_id": strings.ToLower(id)}},
		},
		{
			name: "plain name",
			q:    strPtr("Alice"),
			want: SearchPlan{Mode: NameScan, Where: map[string]any{"s_name": "Alice"}, AllowFiltering: true},
		},
		{
			name: "empty string is a name",
			q:    strPtr(""),
			want: SearchPlan{Mode: NameScan, Where: map[string]any{"s_name": ""}, AllowFiltering: true},
		},
		{
			name: "partial uuid is a name",
			q:    strPtr("3f8e2a5c-1b7d"),
			want: SearchPlan{Mode: NameScan, Where: map[string]any{"s_name": "3f8e2a5c-1b7d"}, AllowFiltering: true},
		},
		{
			name: "numeric string is a name",
			q:    strPtr("12345"),
			want: SearchPlan{Mode: NameScan, Where: map[string]any{"s_name": "12345"}, AllowFiltering: true},
		},
		{
			name: "hyphenless uuid is a name",
			q:    strPtr("3f8e2a5c1b7d4c2e9a6f0d4b8e7c1a92"),
			want: SearchPlan{Mode: NameScan, Where: map[string]any{"s_name": "3f8e2a5c1b7d4c2e9a6f0d4b8e7c1a92"}, AllowFiltering: true},
		},
		{
			name: "braced uuid is a name",
			q:    strPtr("{" + id[:34] + "}"),
			want: SearchPlan{Mode: NameScan, Where: map[string]any{"s_name": "{" + id[:34] + "}"}, AllowFiltering: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecideSearch("s", tt.filters, tt.q))
		})
	}
}

func TestSearchModeString(t *testing.T) {
	assert.Equal(t, "list_all", ListAll.String())
	assert.Equal(t, "filter", FilterMode.String())
	assert.Equal(t, "id_lookup", IDLookup.String())
	assert.Equal(t, "name_scan", NameScan.String())
}

func seedProjects(t *testing.T, repo *ProjectRepository, names ...string) []*models.Project {
	t.Helper()
	var out []*models.Project
	for i, name := range names {
		p := &models.Project{Name: name, Head: fmt.Sprintf("head-%d", i)}
		require.NoError(t, repo.Create(context.Background(), p))
		out = append(out, p)
	}
	return out
}

func TestListWithSearchPagination(t *testing.T) {
	_, sessions := newTestSessions(t)
	repo := NewProjectRepository(sessions)
	seedProjects(t, repo, "a", "b", "c", "d", "e", "f", "g")

	ctx := context.Background()
	for _, tc := range []struct{ page, size, want int }{
		{1, 3, 3}, {2, 3, 3}, {3, 3, 1}, {4, 3, 0}, {1, 100, 7},
	} {
		items, total, err := repo.List(ctx, tc.page, tc.size, nil)
		require.NoError(t, err)
		assert.Equal(t, 7, total)
		assert.Len(t, items, tc.want, "page %d size %d", tc.page, tc.size)
		assert.LessOrEqual(t, len(items), tc.size)
	}

	// Pages are disjoint and cover the table
	seen := map[string]bool{}
	for page := 1; page <= 3; page++ {
		items, _, err := repo.List(ctx, page, 3, nil)
		require.NoError(t, err)
		for _, p := range items {
			assert.False(t, seen[p.ID])
			seen[p.ID] = true
		}
	}
	assert.Len(t, seen, 7)
}

func TestListWithSearchModes(t *testing.T) {
	store, sessions := newTestSessions(t)
	repo := NewProjectRepository(sessions)
	projects := seedProjects(t, repo, "Apollo", "Gemini", "Apollo")
	ctx := context.Background()

	t.Run("id lookup", func(t *testing.T) {
		store.ResetStatements()
		items, total, err := repo.List(ctx, 1, 10, strPtr(strings.ToUpper(projects[1].ID)))
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, items, 1)
		assert.Equal(t, projects[1].ID, items[0].ID)
		assert.Equal(t, []string{"SELECT p_id, p_name, p_head FROM projects WHERE p_id = ?"}, store.Statements())
	})

	t.Run("unknown id", func(t *testing.T) {
		items, total, err := repo.List(ctx, 1, 10, strPtr(uuid.NewString()))
		require.NoError(t, err)
		assert.Equal(t, 0, total)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("name scan", func(t *testing.T) {
		store.ResetStatements()
		items, total, err := repo.List(ctx, 1, 10, strPtr("Apollo"))
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		for _, p := range items {
			assert.Equal(t, "Apollo", p.Name)
		}
		assert.Equal(t, []string{"SELECT p_id, p_name, p_head FROM projects WHERE p_name = ? ALLOW FILTERING"}, store.Statements())
	})

	t.Run("name scan is exact", func(t *testing.T) {
		_, total, err := repo.List(ctx, 1, 10, strPtr("Apol"))
		require.NoError(t, err)
		assert.Equal(t, 0, total)
	})

	t.Run("name scan paginates", func(t *testing.T) {
		items, total, err := repo.List(ctx, 2, 1, strPtr("Apollo"))
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, items, 1)
	})
}

func TestListWithSearchMissingTable(t *testing.T) {
	_, sessions := newTestSessions(t)
	s := &Searchable{baseRepository: newBaseRepository(sessions), Prefix: "p"}

	_, _, err := s.ListWithSearch(context.Background(), SearchQuery{Page: 1, Size: 10})
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
}

func TestListWithSearchPropagatesStoreErrors(t *testing.T) {
	store, sessions := newTestSessions(t)
	repo := NewProjectRepository(sessions)
	seedProjects(t, repo, "a")

	boom := errors.New("read timeout")
	store.FailNext(boom)
	_, _, err := repo.List(context.Background(), 1, 10, nil)
	assert.ErrorIs(t, err, boom)
}

func TestLostSessionIsInvalidated(t *testing.T) {
	store, sessions := newTestSessions(t)
	repo := NewProjectRepository(sessions)
	seedProjects(t, repo, "a")

	store.FailNext(fmt.Errorf("%w: no hosts available", db.ErrSessionLost))
	_, _, err := repo.List(context.Background(), 1, 10, nil)
	require.ErrorIs(t, err, db.ErrSessionLost)

	// The next call reconnects and sees the same data
	items, total, err := repo.List(context.Background(), 1, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, items, 1)
}

// gatedConnector hands out memdb sessions. Once armed, the next Query on the
// first session blocks until gate is closed.
type gatedConnector struct {
	store   *memdb.Store
	calls   atomic.Int32
	armed   atomic.Bool
	entered chan struct{}
	gate    chan struct{}
}

func (c *gatedConnector) Connect(ctx context.Context) (db.Session, error) {
	s, err := c.store.Connect(ctx)
	if err != nil {
		return nil, err
	}
	if c.calls.Add(1) == 1 {
		return &gatedSession{Session: s, conn: c}, nil
	}
	return s, nil
}

type gatedSession struct {
	db.Session
	conn *gatedConnector
}

func (g *gatedSession) Query(ctx context.Context, stmt string, args ...any) ([]db.Row, error) {
	if g.conn.armed.CompareAndSwap(true, false) {
		close(g.conn.entered)
		<-g.conn.gate
	}
	return g.Session.Query(ctx, stmt, args...)
}

func TestStaleLostSessionKeepsReconnectedSession(t *testing.T) {
	conn := &gatedConnector{
		store:   memdb.New(),
		entered: make(chan struct{}),
		gate:    make(chan struct{}),
	}
	sessions := db.NewSessionProvider(conn, db.WithMaxAttempts(1))
	t.Cleanup(sessions.Close)
	repo := NewProjectRepository(sessions)
	seedProjects(t, repo, "a")

	stale, err := sessions.GetSession(context.Background())
	require.NoError(t, err)

	conn.armed.Store(true)
	staleErr := make(chan error, 1)
	go func() {
		_, _, err := repo.List(context.Background(), 1, 10, nil)
		staleErr <- err
	}()
	<-conn.entered

	// Another request notices the loss first and reconnects
	sessions.Invalidate(stale)
	fresh, err := sessions.GetSession(context.Background())
	require.NoError(t, err)
	require.NotSame(t, stale, fresh)

	close(conn.gate)
	require.ErrorIs(t, <-staleErr, db.ErrSessionLost)

	current, err := sessions.GetSession(context.Background())
	require.NoError(t, err)
	assert.Same(t, fresh, current)
	assert.Equal(t, int32(2), conn.calls.Load())

	items, total, err := repo.List(context.Background(), 1, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, items, 1)
}

func TestUnavailableDatabase(t *testing.T) {
	sessions := db.NewSessionProvider(db.ConnectorFunc(func(context.Context) (db.Session, error) {
		return nil, errors.New("connection refused")
	}), db.WithMaxAttempts(2), db.WithRetryDelay(0))
	repo := NewProjectRepository(sessions)

	_, _, err := repo.List(context.Background(), 1, 10, nil)
	assert.ErrorIs(t, err, apperrors.ErrDatabaseUnavailable)

	_, err = repo.GetByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, apperrors.ErrDatabaseUnavailable)
}
