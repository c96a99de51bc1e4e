// Package table renders a listing of entities from a list of column descriptors.
package table

import (
	"context"
	"strconv"

	"github.com/pkg/errors"

	"github.com/Mogeshaue/Happy-Fox-sub000/core/entity"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/schema"
)

const (
	ActionsLabel = "Actions"
	EmptyMessage = "No data available"
)

var (
	ErrBusy    = errors.New("another operation is in progress")
	ErrNoRowID = errors.New("row has no id")
)

type DeleteFunc func(ctx context.Context, id string) error

type (
	Row struct {
		Key      string // entity id, or the row index when the id is absent
		ID       string
		Shaded   bool
		Cells    []schema.Cell
		Disabled bool // delete control
	}

	View struct {
		Empty        bool
		EmptyMessage string
		Headers      []string
		Rows         []Row
		Deletable    bool
	}

	Table struct {
		columns  []schema.Column
		data     []entity.Entity
		loading  bool
		onDelete DeleteFunc // nil renders no delete controls
	}
)

func New(columns []schema.Column, data []entity.Entity, loading bool, onDelete DeleteFunc) *Table {
	return &Table{columns: columns, data: data, loading: loading, onDelete: onDelete}
}

func (t *Table) View() View {
	if len(t.data) == 0 {
		return View{Empty: true, EmptyMessage: EmptyMessage}
	}

	v := View{
		Headers:   make([]string, 0, len(t.columns)+1),
		Rows:      make([]Row, 0, len(t.data)),
		Deletable: t.onDelete != nil,
	}
	for _, col := range t.columns {
		v.Headers = append(v.Headers, col.Label)
	}
	if v.Deletable {
		v.Headers = append(v.Headers, ActionsLabel)
	}

	for i, e := range t.data {
		row := Row{
			Key:      strconv.Itoa(i),
			Shaded:   i%2 == 1,
			Cells:    make([]schema.Cell, 0, len(t.columns)),
			Disabled: t.loading,
		}
		if id, ok := e.ID(); ok {
			row.Key = id
			row.ID = id
		} else {
			row.Disabled = true // nothing to delete by
		}
		for _, col := range t.columns {
			row.Cells = append(row.Cells, col.Value(e))
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}

// Delete invokes the delete callback for the row with the given id.
func (t *Table) Delete(ctx context.Context, id string) error {
	if t.loading {
		return ErrBusy
	}
	if id == "" {
		return ErrNoRowID
	}
	if t.onDelete == nil {
		return errors.New("table is read-only")
	}
	return t.onDelete(ctx, id)
}
