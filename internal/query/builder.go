// Package query turns a declarative list request into a GORM query for a
// schema resource: search, per-field filters, a single sort column and
// offset pagination.
package query

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"inventory/internal/pagination"
	"inventory/internal/schema"
)

// DisplaySuffix marks the selected column carrying a relation's display value.
const DisplaySuffix = "__display"

// Spec is the decoded search/filter/sort/page request for one list call.
type Spec struct {
	Search  string
	Filters map[string]string
	Sort    string
	Order   string
	Page    pagination.PageRequest
}

type condition struct {
	sql  string
	args []any
}

// Query is a built, immutable list query. The same Query can be applied to
// any number of sessions.
type Query struct {
	Resource      *schema.Resource
	Page          pagination.PageRequest
	SortKey       string
	Order         schema.Direction
	Search        string
	ActiveFilters map[string]string

	joins []string
	where []condition
	order []string
}

// Builder builds queries. It only reads from the store, to resolve relation
// filter values.
type Builder struct {
	db              *gorm.DB
	defaultPageSize int
}

// NewBuilder creates a Builder. defaultPageSize applies when a request sets
// no page size.
func NewBuilder(db *gorm.DB, defaultPageSize int) *Builder {
	return &Builder{db: db, defaultPageSize: defaultPageSize}
}

// Build assembles the query for res. Unknown or non-filterable filter keys
// are ignored and an unsortable sort key falls back to the schema default.
func (b *Builder) Build(ctx context.Context, res *schema.Resource, spec Spec) (*Query, error) {
	q := &Query{
		Resource:      res,
		Page:          spec.Page,
		Search:        strings.TrimSpace(spec.Search),
		ActiveFilters: map[string]string{},
	}
	q.Page.Defaults(b.defaultPageSize)
	q.joins = relationJoins(res)

	if q.Search != "" {
		if c, ok := searchCondition(res, q.Search); ok {
			q.where = append(q.where, c)
		}
	}

	for _, f := range res.Fields {
		if !f.Filterable {
			continue
		}
		raw := strings.TrimSpace(spec.Filters[f.Key])
		if raw == "" {
			continue
		}
		c, err := b.filterCondition(ctx, res, f, raw)
		if err != nil {
			return nil, err
		}
		q.ActiveFilters[f.Key] = raw
		if c != nil {
			q.where = append(q.where, *c)
		}
	}

	q.SortKey, q.Order = sortKey(res, spec.Sort, spec.Order)
	q.order = orderBy(res, q.SortKey, q.Order)
	return q, nil
}

func relationJoins(res *schema.Resource) []string {
	var joins []string
	for _, f := range res.Relations() {
		alias := relationAlias(f)
		joins = append(joins, fmt.Sprintf("LEFT JOIN %s AS %s ON %s.id = %s",
			f.Relation.Table, alias, alias, column(res, f.Key)))
	}
	return joins
}

func sortKey(res *schema.Resource, key, order string) (string, schema.Direction) {
	dir := schema.ParseDirection(strings.ToLower(order), res.DefaultOrder)
	if f, ok := res.Field(key); ok && f.Sortable {
		return key, dir
	}
	fallback := res.DefaultSort
	if fallback == "" {
		fallback = "id"
	}
	return fallback, dir
}

func orderBy(res *schema.Resource, key string, dir schema.Direction) []string {
	expr := column(res, key)
	if f, ok := res.Field(key); ok {
		switch {
		case f.Kind == schema.KindRelation:
			expr = relationAlias(f) + "." + f.Relation.DisplayColumn
		case f.SortColumn != "":
			expr = column(res, f.SortColumn)
		}
	}
	out := []string{expr + " " + strings.ToUpper(string(dir))}
	if key != "id" {
		out = append(out, column(res, "id")+" ASC")
	}
	return out
}

func searchCondition(res *schema.Resource, term string) (condition, bool) {
	pattern := escapeLike(strings.ToLower(term)) + "%"
	var parts []string
	var args []any
	for _, f := range res.Fields {
		if !f.Searchable {
			continue
		}
		if f.Kind == schema.KindRelation {
			parts = append(parts, fmt.Sprintf(`LOWER(%s.%s) LIKE ? ESCAPE '\'`, relationAlias(f), f.Relation.DisplayColumn))
		} else {
			parts = append(parts, fmt.Sprintf(`LOWER(CAST(%s AS TEXT)) LIKE ? ESCAPE '\'`, column(res, f.Key)))
		}
		args = append(args, pattern)
	}
	if len(parts) == 0 {
		return condition{}, false
	}
	return condition{sql: "(" + strings.Join(parts, " OR ") + ")", args: args}, true
}

// Scope applies the table, joins and filters without ordering or paging.
func (q *Query) Scope(db *gorm.DB) *gorm.DB {
	tx := db.Table(q.Resource.Table)
	for _, j := range q.joins {
		tx = tx.Joins(j)
	}
	for _, c := range q.where {
		tx = tx.Where(c.sql, c.args...)
	}
	return tx
}

// Ordered is Scope plus the resolved sort order.
func (q *Query) Ordered(db *gorm.DB) *gorm.DB {
	tx := q.Scope(db)
	for _, o := range q.order {
		tx = tx.Order(o)
	}
	return tx
}

// Selection lists every schema column plus each relation's display column.
func (q *Query) Selection() []string {
	res := q.Resource
	out := make([]string, 0, len(res.Fields)+1)
	for _, f := range res.Fields {
		out = append(out, fmt.Sprintf("%s AS %s", column(res, f.Key), f.Key))
		if f.Kind == schema.KindRelation {
			out = append(out, fmt.Sprintf("%s.%s AS %s%s", relationAlias(f), f.Relation.DisplayColumn, f.Key, DisplaySuffix))
		}
	}
	return out
}

// Count returns the number of rows matching the filters and search.
func (q *Query) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := q.Scope(db.WithContext(ctx)).Count(&n).Error
	return n, err
}

// Rows loads matching rows in order. With paged set only the requested
// page is returned.
func (q *Query) Rows(ctx context.Context, db *gorm.DB, paged bool) ([]map[string]any, error) {
	tx := q.Ordered(db.WithContext(ctx)).Select(q.Selection())
	if paged {
		tx = tx.Scopes(pagination.Paginate(q.Page))
	}
	var rows []map[string]any
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Fetch loads rows of res matching cond, ordered by id, with relation
// display values selected. It bypasses search, filters and paging.
func Fetch(ctx context.Context, db *gorm.DB, res *schema.Resource, cond string, args ...any) ([]map[string]any, error) {
	q := &Query{Resource: res, joins: relationJoins(res), order: []string{column(res, "id") + " ASC"}}
	var rows []map[string]any
	err := q.Ordered(db.WithContext(ctx)).Select(q.Selection()).Where(cond, args...).Find(&rows).Error
	return rows, err
}

// Column returns the table-qualified column for key.
func Column(res *schema.Resource, key string) string {
	return column(res, key)
}

// RelationAlias returns the join alias used for a relation field.
func RelationAlias(f schema.Field) string {
	return relationAlias(f)
}

func column(res *schema.Resource, key string) string {
	return res.Table + "." + key
}

func relationAlias(f schema.Field) string {
	return "rel_" + f.Key
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
