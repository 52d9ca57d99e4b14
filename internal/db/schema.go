package db

import (
	"context"
	"fmt"

	"github.com/dawan/studentprojects/internal/pkg/dberrors"
)

// Table names
const (
	TableUsers    = "users"
	TableProjects = "projects"
	TableStudents = "students"
)

// SchemaStatements creates the tables and secondary indexes. All of them are
// safe to run repeatedly.
var SchemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id text PRIMARY KEY,
		username text,
		email text,
		hashed_password text,
		is_active boolean
	)`,
	`CREATE INDEX IF NOT EXISTS users_username_idx ON users (username)`,
	`CREATE INDEX IF NOT EXISTS users_email_idx ON users (email)`,
	`CREATE TABLE IF NOT EXISTS projects (
		p_id text PRIMARY KEY,
		p_name text,
		p_head text
	)`,
	`CREATE INDEX IF NOT EXISTS projects_p_name_idx ON projects (p_name)`,
	`CREATE TABLE IF NOT EXISTS students (
		s_id text PRIMARY KEY,
		s_name text,
		s_course text,
		s_branch text,
		s_project_id text
	)`,
	`CREATE INDEX IF NOT EXISTS students_s_name_idx ON students (s_name)`,
	`CREATE INDEX IF NOT EXISTS students_s_project_id_idx ON students (s_project_id)`,
}

// KeyspaceStatement returns the CREATE KEYSPACE statement for name.
func KeyspaceStatement(name string, replicationFactor int) string {
	if replicationFactor < 1 {
		replicationFactor = 1
	}
	return fmt.Sprintf(
		"CREATE KEYSPACE IF NOT EXISTS %s WITH REPLICATION = { 'class' : 'SimpleStrategy', 'replication_factor' : %d }",
		name, replicationFactor,
	)
}

// Bootstrap runs SchemaStatements on s.
func Bootstrap(ctx context.Context, s Session) error {
	for _, stmt := range SchemaStatements {
		if err := s.Exec(ctx, stmt); err != nil {
			// Another node may have created the object between our check and create
			if dberrors.IsAlreadyExists(err) {
				continue
			}
			return fmt.Errorf("schema bootstrap failed: %w", err)
		}
	}
	return nil
}
