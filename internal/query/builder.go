package query

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// Query is a note list query ready for the repository: a WHERE clause with
// $n placeholders, its arguments, an ORDER BY clause and the row window.
type Query struct {
	Where   string
	Args    []any
	OrderBy string
	Limit   int
	Offset  int
}

var sortColumns = map[SortField]string{
	SortCreatedAt: "created_at",
	SortUpdatedAt: "updated_at",
	SortTitle:     "title",
}

// Build composes the owner-scoped predicate for f. The base predicate always
// restricts to the caller's non-deleted notes; search matches title OR
// content case-insensitively; tags match notes carrying ANY requested tag.
func Build(userID string, f NoteFilter) Query {
	f = f.Normalize()

	var (
		clauses = []string{"user_id = $1", "is_deleted = FALSE"}
		args    = []any{userID}
	)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		p := next("%" + escapeLike(f.Search) + "%")
		clauses = append(clauses, fmt.Sprintf("(title ILIKE %s OR content ILIKE %s)", p, p))
	}
	if len(f.Tags) > 0 {
		clauses = append(clauses, "tags && "+next(pq.StringArray(f.Tags)))
	}
	if f.Archived != nil {
		clauses = append(clauses, "is_archived = "+next(*f.Archived))
	}
	if f.Pinned != nil {
		clauses = append(clauses, "is_pinned = "+next(*f.Pinned))
	}

	return Query{
		Where:   strings.Join(clauses, " AND "),
		Args:    args,
		OrderBy: orderBy(f),
		Limit:   f.Limit,
		Offset:  f.Offset(),
	}
}

// orderBy sorts on the requested column; ties fall back to insertion order
// (the seq column), whatever the direction.
func orderBy(f NoteFilter) string {
	dir := "DESC"
	if f.SortOrder == SortAsc {
		dir = "ASC"
	}
	return fmt.Sprintf("%s %s, seq ASC", sortColumns[f.SortBy], dir)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
