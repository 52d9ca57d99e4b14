package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/dawan/studentprojects/internal/db"
	"github.com/dawan/studentprojects/internal/pkg/apperrors"
	"github.com/dawan/studentprojects/internal/pkg/logger"
	"github.com/go-viper/mapstructure/v2"
)

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = apperrors.ErrResourceNotFound

// SessionSource hands out the shared store session.
// *db.SessionProvider is the production implementation.
type SessionSource interface {
	GetSession(ctx context.Context) (db.Session, error)
	Invalidate(failed db.Session)
}

// baseRepository holds what every table repository needs: the session
// source and a CQL-flavoured statement builder.
type baseRepository struct {
	sessions SessionSource
	sb       squirrel.StatementBuilderType
}

func newBaseRepository(sessions SessionSource) baseRepository {
	return baseRepository{
		sessions: sessions,
		sb:       squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

// checkLost drops s when err says its connection is gone. Only the session
// that failed is dropped, never one another request has already reconnected.
func (r *baseRepository) checkLost(s db.Session, err error) error {
	if errors.Is(err, db.ErrSessionLost) {
		r.sessions.Invalidate(s)
	}
	return err
}

// exec builds and runs a statement that returns no rows.
func (r *baseRepository) exec(ctx context.Context, op string, b squirrel.Sqlizer) error {
	stmt, args, err := b.ToSql()
	if err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error building statement")
		return fmt.Errorf("failed to build %s statement: %w", op, err)
	}

	s, err := r.sessions.GetSession(ctx)
	if err != nil {
		return err
	}

	if err := s.Exec(ctx, stmt, args...); err != nil {
		logger.Error().Err(err).Str("op", op).Str("stmt", stmt).Msg("Error executing statement")
		return fmt.Errorf("error executing %s: %w", op, r.checkLost(s, err))
	}
	return nil
}

// query builds and runs a statement and materialises every row.
func (r *baseRepository) query(ctx context.Context, op string, b squirrel.Sqlizer) ([]db.Row, error) {
	stmt, args, err := b.ToSql()
	if err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error building query")
		return nil, fmt.Errorf("failed to build %s query: %w", op, err)
	}

	s, err := r.sessions.GetSession(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.Query(ctx, stmt, args...)
	if err != nil {
		logger.Error().Err(err).Str("op", op).Str("stmt", stmt).Msg("Error executing query")
		return nil, fmt.Errorf("error querying %s: %w", op, r.checkLost(s, err))
	}
	return rows, nil
}

// decodeRows maps driver rows onto models through their `cql` tags.
func decodeRows[T any](rows []db.Row) ([]*T, error) {
	out := make([]*T, 0, len(rows))
	for _, row := range rows {
		item := new(T)
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName: "cql",
			Result:  item,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(row); err != nil {
			return nil, fmt.Errorf("error decoding row: %w", err)
		}
		out = append(out, item)
	}
	return out, nil
}

// nullIfEmpty turns an empty optional text value into NULL.
func nullIfEmpty(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}
