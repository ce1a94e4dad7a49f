// Package query turns GET /api/notes parameters into a typed, normalised
// filter and then into the SQL predicate, ordering and window the note
// repository runs.
package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

type SortField string

const (
	SortCreatedAt SortField = "createdAt"
	SortUpdatedAt SortField = "updatedAt"
	SortTitle     SortField = "title"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps (page-1)*limit inside a Postgres INTEGER offset.
	MaxPage = math.MaxInt32 / MaxLimit
)

// NoteFilter is the normalised form of the note list parameters.
// Archived and Pinned are optional: nil means "do not filter".
type NoteFilter struct {
	Page      int
	Limit     int
	Search    string
	Tags      []string
	SortBy    SortField
	SortOrder SortOrder
	Archived  *bool
	Pinned    *bool
}

// ParseNoteFilter reads page, limit, search, tags, sortBy, sortOrder,
// archived and pinned from a query string. It never fails: malformed values
// fall back to their defaults.
func ParseNoteFilter(values url.Values) NoteFilter {
	f := NoteFilter{
		Page:      parsePositive(values.Get("page"), DefaultPage),
		Limit:     parsePositive(values.Get("limit"), DefaultLimit),
		Search:    values.Get("search"),
		Tags:      SplitTags(strings.Join(values["tags"], ",")),
		SortBy:    SortField(values.Get("sortBy")),
		SortOrder: SortOrder(strings.ToLower(values.Get("sortOrder"))),
		Archived:  parseBool(values.Get("archived")),
		Pinned:    parseBool(values.Get("pinned")),
	}
	return f.Normalize()
}

// Normalize applies defaults and bounds. It is idempotent.
func (f NoteFilter) Normalize() NoteFilter {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Page > MaxPage {
		f.Page = MaxPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	f.Search = strings.TrimSpace(f.Search)
	f.Tags = cleanTags(f.Tags)
	switch f.SortBy {
	case SortCreatedAt, SortUpdatedAt, SortTitle:
	default:
		f.SortBy = SortCreatedAt
	}
	switch f.SortOrder {
	case SortAsc, SortDesc:
	default:
		f.SortOrder = SortDesc
	}
	return f
}

// Offset is the number of rows skipped before the requested page.
func (f NoteFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// SplitTags splits a comma separated tag list, trimming entries and dropping
// empties and repeats. An input with no usable tags yields nil.
func SplitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return cleanTags(strings.Split(raw, ","))
}

func cleanTags(tags []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func parsePositive(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func parseBool(raw string) *bool {
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &b
}
