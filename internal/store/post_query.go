package store

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// ListFilter narrows a post listing. Zero values mean "no constraint";
// Featured is a pointer because false is a meaningful filter.
type ListFilter struct {
	Types    []string
	Status   string
	Featured *bool
	Category string
	Tag      string
	Search   string
	Page     int
	Limit    int
}

const defaultPageSize = 10

// Normalize clamps pagination to sane values: pages are 1-indexed and the
// limit falls back to the default size.
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultPageSize
	}
}

// Offset returns the row offset for the normalized page.
func (f *ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// whereBuilder accumulates predicate fragments with positional arguments.
// Every user-supplied value is bound, never interpolated; placeholders are
// numbered in the order fragments are added.
type whereBuilder struct {
	fragments []string
	args      []any
}

// add appends a predicate. The fragment uses %d verbs for its placeholder
// positions; one position is allocated per arg, and a fragment reusing the
// same value twice (ILIKE over title and slug) names the position twice.
func (w *whereBuilder) add(fragment string, args ...any) {
	positions := make([]any, len(args))
	for i := range args {
		positions[i] = len(w.args) + i + 1
	}
	w.fragments = append(w.fragments, fmt.Sprintf(fragment, positions...))
	w.args = append(w.args, args...)
}

// next returns the placeholder number the next added arg will take.
func (w *whereBuilder) next() int {
	return len(w.args) + 1
}

// clause renders the WHERE clause, or the empty string with no predicates.
func (w *whereBuilder) clause() string {
	if len(w.fragments) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.fragments, " AND ")
}

func buildPostsWhere(f ListFilter) *whereBuilder {
	w := &whereBuilder{}
	if len(f.Types) > 0 {
		w.add("p.type::text = ANY($%d::text[])", pq.StringArray(f.Types))
	}
	if f.Status != "" {
		w.add("p.status = $%d", f.Status)
	}
	if f.Featured != nil {
		w.add("p.featured = $%d", *f.Featured)
	}
	if f.Category != "" {
		w.add("p.category = $%d", f.Category)
	}
	if f.Tag != "" {
		w.add("p.tags @> ARRAY[$%d]::text[]", f.Tag)
	}
	if f.Search != "" {
		n := w.next()
		w.fragments = append(w.fragments,
			fmt.Sprintf("(p.title ILIKE $%d OR p.slug ILIKE $%d)", n, n))
		w.args = append(w.args, "%"+f.Search+"%")
	}
	return w
}

// buildListQuery renders the paginated wide select. created_at descending
// with the id as tie-break keeps page boundaries stable.
func buildListQuery(f ListFilter) (string, []any) {
	w := buildPostsWhere(f)
	query := "SELECT" + postColumns + postJoins + w.clause() +
		" ORDER BY p.created_at DESC, p.id"
	query += fmt.Sprintf(" LIMIT $%d", w.next())
	w.args = append(w.args, f.Limit)
	query += fmt.Sprintf(" OFFSET $%d", w.next())
	w.args = append(w.args, f.Offset())
	return query, w.args
}

// buildCountQuery shares the predicate builder with the list query so both
// always agree on what a filter matches.
func buildCountQuery(f ListFilter) (string, []any) {
	w := buildPostsWhere(f)
	return "SELECT COUNT(*) FROM posts p" + w.clause(), w.args
}

// basePatch accumulates SET fragments for the posts base table. Only fields
// present in the payload get a fragment; an empty patch means the base
// update is skipped entirely.
type basePatch struct {
	sets []string
	args []any
}

func (p *basePatch) set(column string, value any) {
	p.args = append(p.args, value)
	p.sets = append(p.sets, fmt.Sprintf("%s = $%d", column, len(p.args)))
}

// setRaw appends a fragment with no bind, for server-side expressions.
func (p *basePatch) setRaw(fragment string) {
	p.sets = append(p.sets, fragment)
}

func (p *basePatch) empty() bool {
	return len(p.sets) == 0
}

// sql renders the UPDATE with the id bound last.
func (p *basePatch) sql(id any) (string, []any) {
	args := append(p.args, id)
	query := fmt.Sprintf(
		"UPDATE posts SET %s WHERE id = $%d",
		strings.Join(p.sets, ", "), len(args),
	)
	return query, args
}
