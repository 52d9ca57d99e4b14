// Package memdb is an in-memory stand-in for Cassandra. It understands the
// statement shapes produced by the repositories (single-table INSERT, SELECT,
// UPDATE and DELETE with equality predicates) plus the schema DDL, and it
// enforces the same ALLOW FILTERING rule as the real store.
package memdb

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/dawan/studentprojects/internal/db"
)

var (
	insertRe      = regexp.MustCompile(`^INSERT INTO (\w+) \(([^)]*)\) VALUES \(([^)]*)\)$`)
	selectRe      = regexp.MustCompile(`^SELECT (.+?) FROM (\w+)(?: WHERE (.+?))?( ALLOW FILTERING)?$`)
	updateRe      = regexp.MustCompile(`^UPDATE (\w+) SET (.+?) WHERE (.+)$`)
	deleteRe      = regexp.MustCompile(`^DELETE FROM (\w+) WHERE (.+)$`)
	createTableRe = regexp.MustCompile(`^CREATE TABLE IF NOT EXISTS (\w+) \((.*)\)$`)
	createIndexRe = regexp.MustCompile(`^CREATE INDEX IF NOT EXISTS \w+ ON (\w+) \((\w+)\)$`)
	columnDefRe   = regexp.MustCompile(`^(\w+) \w+( PRIMARY KEY)?$`)
	conditionRe   = regexp.MustCompile(`^(\w+) = \?$`)
)

type table struct {
	pk      string
	columns map[string]bool
	indexed map[string]bool
	rows    map[string]db.Row
	order   []string
}

// Store holds the tables. It is safe for concurrent use.
type Store struct {
	mu         sync.Mutex
	tables     map[string]*table
	statements []string
	failNext   error
}

// New returns an empty store
func New() *Store {
	return &Store{tables: make(map[string]*table)}
}

// Connect opens a session and runs the schema bootstrap, like the Cassandra connector.
func (s *Store) Connect(ctx context.Context) (db.Session, error) {
	sess := &session{store: s}
	if err := db.Bootstrap(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Statements returns every statement executed so far, normalised.
func (s *Store) Statements() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.statements...)
}

// ResetStatements clears the statement log.
func (s *Store) ResetStatements() {
	s.mu.Lock()
	s.statements = nil
	s.mu.Unlock()
}

// FailNext makes the next statement return err.
func (s *Store) FailNext(err error) {
	s.mu.Lock()
	s.failNext = err
	s.mu.Unlock()
}

// Count returns the number of rows in name, or -1 when the table is unknown.
func (s *Store) Count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[name]
	if !ok {
		return -1
	}
	return len(t.rows)
}

type session struct {
	store  *Store
	mu     sync.Mutex
	closed bool
}

func (c *session) Exec(ctx context.Context, stmt string, args ...any) error {
	_, err := c.run(ctx, stmt, args)
	return err
}

func (c *session) Query(ctx context.Context, stmt string, args ...any) ([]db.Row, error) {
	return c.run(ctx, stmt, args)
}

func (c *session) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *session) run(ctx context.Context, stmt string, args []any) ([]db.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil, fmt.Errorf("%w: session has been closed", db.ErrSessionLost)
	}
	return c.store.execute(normalize(stmt), args)
}

func normalize(stmt string) string {
	return strings.Join(strings.Fields(stmt), " ")
}

func (s *Store) execute(stmt string, args []any) ([]db.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.statements = append(s.statements, stmt)
	if err := s.failNext; err != nil {
		s.failNext = nil
		return nil, err
	}

	switch {
	case strings.HasPrefix(stmt, "CREATE KEYSPACE"):
		return nil, nil
	case createTableRe.MatchString(stmt):
		return nil, s.createTable(createTableRe.FindStringSubmatch(stmt))
	case createIndexRe.MatchString(stmt):
		return nil, s.createIndex(createIndexRe.FindStringSubmatch(stmt))
	case insertRe.MatchString(stmt):
		return nil, s.insert(insertRe.FindStringSubmatch(stmt), args)
	case selectRe.MatchString(stmt):
		return s.selectRows(selectRe.FindStringSubmatch(stmt), args)
	case updateRe.MatchString(stmt):
		return nil, s.update(updateRe.FindStringSubmatch(stmt), args)
	case deleteRe.MatchString(stmt):
		return nil, s.delete(deleteRe.FindStringSubmatch(stmt), args)
	}
	return nil, fmt.Errorf("memdb: unsupported statement %q", stmt)
}

func (s *Store) createTable(m []string) error {
	if _, ok := s.tables[m[1]]; ok {
		return nil
	}
	t := &table{
		columns: make(map[string]bool),
		indexed: make(map[string]bool),
		rows:    make(map[string]db.Row),
	}
	for _, def := range strings.Split(m[2], ",") {
		cm := columnDefRe.FindStringSubmatch(strings.TrimSpace(def))
		if cm == nil {
			return fmt.Errorf("memdb: unsupported column definition %q", def)
		}
		t.columns[cm[1]] = true
		if cm[2] != "" {
			t.pk = cm[1]
		}
	}
	if t.pk == "" {
		return fmt.Errorf("memdb: table %s has no primary key", m[1])
	}
	s.tables[m[1]] = t
	return nil
}

func (s *Store) createIndex(m []string) error {
	t, err := s.table(m[1])
	if err != nil {
		return err
	}
	if !t.columns[m[2]] {
		return fmt.Errorf("memdb: undefined column name %s", m[2])
	}
	t.indexed[m[2]] = true
	return nil
}

func (s *Store) table(name string) (*table, error) {
	t, ok := s.tables[name]
	if !ok {
		return nil, fmt.Errorf("memdb: unconfigured table %s", name)
	}
	return t, nil
}

func (s *Store) insert(m []string, args []any) error {
	t, err := s.table(m[1])
	if err != nil {
		return err
	}
	cols := splitList(m[2], ",")
	if len(cols) != len(args) || strings.Count(m[3], "?") != len(args) {
		return fmt.Errorf("memdb: %d columns but %d values", len(cols), len(args))
	}

	row := make(db.Row, len(cols))
	for i, col := range cols {
		if !t.columns[col] {
			return fmt.Errorf("memdb: undefined column name %s", col)
		}
		row[col] = args[i]
	}
	key, ok := row[t.pk].(string)
	if !ok || key == "" {
		return fmt.Errorf("memdb: missing primary key %s", t.pk)
	}
	t.upsert(key, row)
	return nil
}

func (t *table) upsert(key string, values db.Row) {
	row, ok := t.rows[key]
	if !ok {
		row = make(db.Row)
		t.rows[key] = row
		t.order = append(t.order, key)
	}
	for col, v := range values {
		row[col] = v
	}
}

type condition struct {
	column string
	value  any
}

// parseWhere binds one argument per "col = ?" term.
func parseWhere(t *table, clause string, args []any) ([]condition, error) {
	terms := strings.Split(clause, " AND ")
	if len(terms) != len(args) {
		return nil, fmt.Errorf("memdb: %d conditions but %d values", len(terms), len(args))
	}
	conds := make([]condition, 0, len(terms))
	for i, term := range terms {
		cm := conditionRe.FindStringSubmatch(strings.TrimSpace(term))
		if cm == nil {
			return nil, fmt.Errorf("memdb: unsupported condition %q", term)
		}
		if !t.columns[cm[1]] {
			return nil, fmt.Errorf("memdb: undefined column name %s", cm[1])
		}
		conds = append(conds, condition{column: cm[1], value: args[i]})
	}
	return conds, nil
}

// needsFiltering reports whether the real store would refuse the predicate
// without ALLOW FILTERING.
func (t *table) needsFiltering(conds []condition) bool {
	if len(conds) == 1 {
		c := conds[0].column
		return c != t.pk && !t.indexed[c]
	}
	return len(conds) > 1
}

func (t *table) keyFrom(conds []condition) (string, error) {
	if len(conds) != 1 || conds[0].column != t.pk {
		return "", fmt.Errorf("memdb: statement must restrict exactly the primary key %s", t.pk)
	}
	key, ok := conds[0].value.(string)
	if !ok {
		return "", fmt.Errorf("memdb: primary key %s must be text", t.pk)
	}
	return key, nil
}

func (s *Store) selectRows(m []string, args []any) ([]db.Row, error) {
	t, err := s.table(m[2])
	if err != nil {
		return nil, err
	}

	var conds []condition
	if m[3] != "" {
		if conds, err = parseWhere(t, m[3], args); err != nil {
			return nil, err
		}
	} else if len(args) > 0 {
		return nil, fmt.Errorf("memdb: unexpected values for unrestricted select")
	}
	if t.needsFiltering(conds) && m[4] == "" {
		return nil, fmt.Errorf("memdb: cannot execute this query as it might involve data filtering; use ALLOW FILTERING")
	}

	cols := splitList(m[1], ",")
	if len(cols) == 1 && cols[0] == "*" {
		cols = nil
	}
	for _, col := range cols {
		if !t.columns[col] {
			return nil, fmt.Errorf("memdb: undefined column name %s", col)
		}
	}

	var out []db.Row
	for _, key := range t.order {
		row, ok := t.rows[key]
		if !ok || !matches(row, conds) {
			continue
		}
		out = append(out, project(t, row, cols))
	}
	return out, nil
}

func matches(row db.Row, conds []condition) bool {
	for _, c := range conds {
		if !reflect.DeepEqual(row[c.column], c.value) {
			return false
		}
	}
	return true
}

// project copies the requested columns; unset columns read as nil.
func project(t *table, row db.Row, cols []string) db.Row {
	out := make(db.Row)
	if cols == nil {
		for col := range t.columns {
			out[col] = row[col]
		}
		return out
	}
	for _, col := range cols {
		out[col] = row[col]
	}
	return out
}

func (s *Store) update(m []string, args []any) error {
	t, err := s.table(m[1])
	if err != nil {
		return err
	}

	assignments := splitList(m[2], ",")
	if len(args) < len(assignments) {
		return fmt.Errorf("memdb: %d assignments but %d values", len(assignments), len(args))
	}
	values := make(db.Row, len(assignments))
	for i, a := range assignments {
		cm := conditionRe.FindStringSubmatch(a)
		if cm == nil {
			return fmt.Errorf("memdb: unsupported assignment %q", a)
		}
		if !t.columns[cm[1]] {
			return fmt.Errorf("memdb: undefined column name %s", cm[1])
		}
		if cm[1] == t.pk {
			return fmt.Errorf("memdb: primary key %s cannot be updated", t.pk)
		}
		values[cm[1]] = args[i]
	}

	conds, err := parseWhere(t, m[3], args[len(assignments):])
	if err != nil {
		return err
	}
	key, err := t.keyFrom(conds)
	if err != nil {
		return err
	}

	// UPDATE is an upsert, as in Cassandra
	values[t.pk] = key
	t.upsert(key, values)
	return nil
}

func (s *Store) delete(m []string, args []any) error {
	t, err := s.table(m[1])
	if err != nil {
		return err
	}
	conds, err := parseWhere(t, m[2], args)
	if err != nil {
		return err
	}
	key, err := t.keyFrom(conds)
	if err != nil {
		return err
	}

	if _, ok := t.rows[key]; !ok {
		return nil
	}
	delete(t.rows, key)
	for i, k := range t.order {
		if k == key {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

func splitList(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
