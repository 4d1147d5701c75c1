package query

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// SortField orders by one view field.
type SortField struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending,omitempty"`
}

// ParseSortFields reads "Destination,-CreatedAt"; a leading "-" sorts
// descending. Blank entries are skipped.
func ParseSortFields(s string) []SortField {
	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

// predicate renders one WHERE term, taking placeholders from next.
type predicate func(next func(v any) string) string

// Builder accumulates filters and ordering for one projection. Every
// value reaches the database as a numbered parameter.
type Builder struct {
	proj     *ProjectionMap
	where    []predicate
	sort     []SortField
	fallback []SortField
}

// NewBuilder starts a query over proj. defaultSort applies when no
// explicit order is set.
func NewBuilder(proj *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{proj: proj, fallback: defaultSort}
}

func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sort = fields
	return b
}

// WhereContains matches a substring case-insensitively. Nil or empty
// values add nothing.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	col, pattern := b.proj.Column(field), "%"+*value+"%"
	b.where = append(b.where, func(next func(any) string) string {
		return col + " ILIKE " + next(pattern)
	})
	return b
}

// WhereEquals adds nothing for a nil value, including a typed nil pointer.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	col := b.proj.Column(field)
	b.where = append(b.where, func(next func(any) string) string {
		return col + " = " + next(value)
	})
	return b
}

// WhereSearch matches search against any of fields.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}
	pattern := "%" + *search + "%"
	b.where = append(b.where, func(next func(any) string) string {
		terms := make([]string, len(fields))
		for i, f := range fields {
			terms[i] = b.proj.Column(f) + " ILIKE " + next(pattern)
		}
		return "(" + strings.Join(terms, " OR ") + ")"
	})
	return b
}

func (b *Builder) BuildCount() (string, []any) {
	where, args := b.renderWhere()
	return "SELECT COUNT(*) FROM " + b.proj.From() + where, args
}

// BuildPage selects page (one-based) of pageSize rows.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	where, args := b.renderWhere()
	sql := fmt.Sprintf(
		"SELECT %s FROM %s%s%s LIMIT %d OFFSET %d",
		b.proj.Columns(), b.proj.From(), where, b.renderOrder(), pageSize, (page-1)*pageSize,
	)
	return sql, args
}

// BuildSingle selects the row whose idField equals id. Filters are not
// applied.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	sql := "SELECT " + b.proj.Columns() + " FROM " + b.proj.From() +
		" WHERE " + b.proj.Column(idField) + " = $1"
	return sql, []any{id}
}

func (b *Builder) renderWhere() (string, []any) {
	if len(b.where) == 0 {
		return "", nil
	}

	var args []any
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	terms := make([]string, len(b.where))
	for i, p := range b.where {
		terms[i] = p(next)
	}
	return " WHERE " + strings.Join(terms, " AND "), args
}

// renderOrder drops fields the projection does not know, which keeps
// client sort input out of the SQL text.
func (b *Builder) renderOrder() string {
	fields := b.sort
	if len(fields) == 0 {
		fields = b.fallback
	}

	var parts []string
	for _, f := range fields {
		col, ok := b.proj.Lookup(f.Field)
		if !ok {
			continue
		}
		if f.Descending {
			parts = append(parts, col+" DESC")
		} else {
			parts = append(parts, col+" ASC")
		}
	}

	if len(parts) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}
