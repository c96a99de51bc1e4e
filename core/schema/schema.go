// Package schema holds the declarative descriptors the form and table renderers are built from.
package schema

import (
	"fmt"

	"github.com/Mogeshaue/Happy-Fox-sub000/core/entity"
)

type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextarea FieldKind = "textarea"
	KindSelect   FieldKind = "select"
	KindDate     FieldKind = "date"
	KindEmail    FieldKind = "email"
)

type (
	Option struct {
		Value string
		Label string
	}

	// Field describes one form input. Name must be unique within a field list.
	Field struct {
		Name        string
		Kind        FieldKind
		Placeholder string
		Required    bool
		Options     []Option // select only
	}

	// Cell is what a table column displays for one entity.
	Cell struct {
		Text  string
		Class string // badge style, eg. "badge-success"
	}

	// RenderFunc must be pure and synchronous.
	RenderFunc func(e entity.Entity) Cell

	// Column describes one table column. Key must be unique within a column list.
	Column struct {
		Key    string
		Label  string
		Render RenderFunc // optional; the raw attribute at Key is displayed otherwise
	}
)

// InputType is the HTML input type for single-line kinds; unknown kinds fall back to text.
func (k FieldKind) InputType() string {
	switch k {
	case KindDate, KindEmail, KindText:
		return string(k)
	default:
		return string(KindText)
	}
}

// Value returns the cell displayed for e.
func (c Column) Value(e entity.Entity) Cell {
	if c.Render != nil {
		return c.Render(e)
	}
	return Cell{Text: e.Get(c.Key)}
}

// CheckFields reports the first duplicated field name.
func CheckFields(fields []Field) error {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, ok := seen[f.Name]; ok {
			return fmt.Errorf("duplicate field name %q", f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

// CheckColumns reports the first duplicated column key.
func CheckColumns(columns []Column) error {
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if _, ok := seen[c.Key]; ok {
			return fmt.Errorf("duplicate column key %q", c.Key)
		}
		seen[c.Key] = struct{}{}
	}
	return nil
}
