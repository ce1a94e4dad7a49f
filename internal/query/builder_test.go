package query

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestBuild_BasePredicate(t *testing.T) {
	q := Build("user-1", NoteFilter{})

	assert.Equal(t, "user_id = $1 AND is_deleted = FALSE", q.Where)
	assert.Equal(t, []any{"user-1"}, q.Args)
	assert.Equal(t, "created_at DESC, seq ASC", q.OrderBy)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, 0, q.Offset)
}

func TestBuild_SearchAndTags(t *testing.T) {
	q := Build("user-1", NoteFilter{
		Page:   2,
		Limit:  5,
		Search: "  50%_off\\ ",
		Tags:   []string{"a", "b"},
	})

	assert.Equal(t,
		"user_id = $1 AND is_deleted = FALSE AND (title ILIKE $2 OR content ILIKE $2) AND tags && $3",
		q.Where)
	assert.Equal(t, []any{"user-1", `%50\%\_off\\%`, pq.StringArray{"a", "b"}}, q.Args)
	assert.Equal(t, 5, q.Limit)
	assert.Equal(t, 5, q.Offset)
}

func TestBuild_Flags(t *testing.T) {
	archived, pinned := false, true
	q := Build("u", NoteFilter{Archived: &archived, Pinned: &pinned})

	assert.Equal(t, "user_id = $1 AND is_deleted = FALSE AND is_archived = $2 AND is_pinned = $3", q.Where)
	assert.Equal(t, []any{"u", false, true}, q.Args)
}

func TestBuild_Ordering(t *testing.T) {
	tests := []struct {
		sortBy SortField
		order  SortOrder
		want   string
	}{
		{SortCreatedAt, SortAsc, "created_at ASC, seq ASC"},
		{SortUpdatedAt, SortDesc, "updated_at DESC, seq ASC"},
		{SortTitle, SortAsc, "title ASC, seq ASC"},
		{SortField("DROP TABLE notes"), SortOrder("asc"), "created_at ASC, seq ASC"},
	}
	for _, tc := range tests {
		q := Build("u", NoteFilter{SortBy: tc.sortBy, SortOrder: tc.order})
		assert.Equal(t, tc.want, q.OrderBy)
	}
}
