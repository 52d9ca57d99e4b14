package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/dawan/studentprojects/internal/db"
	"github.com/dawan/studentprojects/internal/pkg/apperrors"
	"github.com/dawan/studentprojects/internal/pkg/helpers"
	"github.com/google/uuid"
)

// SearchMode is the query strategy picked for a list call.
type SearchMode int

const (
	// ListAll returns every row of the table
	ListAll SearchMode = iota
	// FilterMode matches every filter column exactly
	FilterMode
	// IDLookup matches {prefix}_id against a well-formed UUID
	IDLookup
	// NameScan matches {prefix}_name exactly with a filtering scan
	NameScan
)

func (m SearchMode) String() string {
	switch m {
	case FilterMode:
		return "filter"
	case IDLookup:
		return "id_lookup"
	case NameScan:
		return "name_scan"
	default:
		return "list_all"
	}
}

// SearchPlan is the outcome of DecideSearch.
type SearchPlan struct {
	Mode           SearchMode
	Where          map[string]any
	AllowFiltering bool
}

// SearchQuery is a paginated list request. Page and Size are expected to be
// validated by the caller.
type SearchQuery struct {
	Page    int
	Size    int
	Q       *string
	Filters map[string]any
}

// DecideSearch picks the query strategy. Precedence: filters, then q as an
// id, then q as a name, then everything. Nil filter values are ignored.
func DecideSearch(prefix string, filters map[string]any, q *string) SearchPlan {
	where := make(map[string]any, len(filters))
	for col, v := range filters {
		if v != nil {
			where[col] = v
		}
	}
	if len(where) > 0 {
		// A single indexed column is served by its index; more need a scan
		return SearchPlan{Mode: FilterMode, Where: where, AllowFiltering: len(where) > 1}
	}

	if q == nil {
		return SearchPlan{Mode: ListAll}
	}

	if id, ok := canonicalUUID(*q); ok {
		return SearchPlan{Mode: IDLookup, Where: map[string]any{prefix + "_id": id}}
	}

	return SearchPlan{
		Mode:           NameScan,
		Where:          map[string]any{prefix + "_name": *q},
		AllowFiltering: true,
	}
}

// canonicalUUID accepts only the 36 character hyphenated form and returns it
// lower-cased. Braced, URN and hyphen-less spellings are names, not ids.
func canonicalUUID(s string) (string, bool) {
	if len(s) != 36 {
		return "", false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// Searchable lists one table with the strategy chosen by DecideSearch.
type Searchable struct {
	baseRepository
	Table   string
	Columns []string
	Prefix  string
}

// ListWithSearch runs the planned query, materialises all matching rows and
// returns the requested page. total is the size of the selected mode's
// result set, not a table count.
func (s *Searchable) ListWithSearch(ctx context.Context, q SearchQuery) ([]db.Row, int, error) {
	if s.Table == "" {
		return nil, 0, apperrors.NewConfigurationError("searchable repository has no table")
	}

	plan := DecideSearch(s.Prefix, q.Filters, q.Q)

	cols := s.Columns
	if len(cols) == 0 {
		cols = []string{"*"}
	}
	builder := s.sb.Select(cols...).From(s.Table)
	if len(plan.Where) > 0 {
		builder = builder.Where(squirrel.Eq(plan.Where))
	}
	if plan.AllowFiltering {
		builder = builder.Suffix("ALLOW FILTERING")
	}

	rows, err := s.query(ctx, fmt.Sprintf("list %s (%s)", s.Table, plan.Mode), builder)
	if err != nil {
		return nil, 0, err
	}
	if len(rows) == 0 {
		return []db.Row{}, 0, nil
	}

	return helpers.Paginate(rows, q.Page, q.Size), len(rows), nil
}
