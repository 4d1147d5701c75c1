// Package query builds the parameterized SELECT statements used by the
// repositories. Callers name fields by their Go view names; a
// ProjectionMap turns those into alias-qualified columns.
package query

import "strings"

// ProjectionMap is the column set of one aliased table, in SELECT order.
type ProjectionMap struct {
	from    string
	alias   string
	order   []string
	byField map[string]string
}

func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		from:    schema + "." + table + " " + alias,
		alias:   alias,
		byField: map[string]string{},
	}
}

// Project maps a view field to column, appending it to the select list.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	col := p.alias + "." + column
	p.byField[field] = col
	p.order = append(p.order, col)
	return p
}

func (p *ProjectionMap) Alias() string { return p.alias }

// From is the "schema.table alias" reference.
func (p *ProjectionMap) From() string { return p.from }

// Column returns field's column. Unknown fields are returned unchanged,
// so only pass names chosen by code, never by clients.
func (p *ProjectionMap) Column(field string) string {
	if col, ok := p.byField[field]; ok {
		return col
	}
	return field
}

// Lookup resolves a client-supplied field name case-insensitively.
func (p *ProjectionMap) Lookup(field string) (string, bool) {
	if col, ok := p.byField[field]; ok {
		return col, true
	}
	for name, col := range p.byField {
		if strings.EqualFold(name, field) {
			return col, true
		}
	}
	return "", false
}

// Columns is the comma-separated select list.
func (p *ProjectionMap) Columns() string { return strings.Join(p.order, ", ") }

func (p *ProjectionMap) ColumnList() []string { return p.order }
