package dummydb

import (
	"time"

	"github.com/pkg/errors"

	"github.com/Mogeshaue/Happy-Fox-sub000/core/entity"
)

var (
	ErrUnknownTable = errors.New("unknown table")
	ErrNotFound     = errors.New("not found")
)

// ExistsError reports a row that would duplicate a unique attribute.
type ExistsError struct {
	Field string
}

func (e *ExistsError) Error() string {
	return "an entry with this " + e.Field + " already exists"
}

// Repository stores the entities of one type.
type Repository struct {
	table *entityTable
}

func (db *DB) Repository(t entity.Type) (*Repository, error) {
	tbl, ok := db.tables[t]
	if !ok {
		return nil, errors.Wrap(ErrUnknownTable, string(t))
	}
	return &Repository{table: tbl}, nil
}

func copyRow(row entity.Entity) entity.Entity {
	cp := make(entity.Entity, len(row))
	for k, v := range row {
		cp[k] = v
	}
	return cp
}

// List returns every row in insertion order.
func (repo *Repository) List() []entity.Entity {
	repo.table.RLock()
	defer repo.table.RUnlock()

	rows := make([]entity.Entity, 0, len(repo.table.rows))
	for _, row := range repo.table.rows {
		rows = append(rows, copyRow(row))
	}
	return rows
}

func (repo *Repository) Get(id string) (entity.Entity, error) {
	repo.table.RLock()
	defer repo.table.RUnlock()

	if i := repo.index(id); i >= 0 {
		return copyRow(repo.table.rows[i]), nil
	}
	return nil, ErrNotFound
}

// Create assigns the row an id and a creation time, then stores it.
func (repo *Repository) Create(row entity.Entity) (entity.Entity, error) {
	repo.table.Lock()
	defer repo.table.Unlock()

	if err := repo.checkUniqueness(row); err != nil {
		return nil, err
	}

	repo.table.pkCount++
	row = copyRow(row)
	row["id"] = repo.table.pkCount
	row["created_at"] = time.Now().UTC().Format(time.RFC3339)
	repo.table.rows = append(repo.table.rows, row)
	return copyRow(row), nil
}

func (repo *Repository) Delete(id string) error {
	repo.table.Lock()
	defer repo.table.Unlock()

	i := repo.index(id)
	if i < 0 {
		return ErrNotFound
	}
	repo.table.rows = append(repo.table.rows[:i], repo.table.rows[i+1:]...)
	return nil
}

func (repo *Repository) index(id string) int {
	for i, row := range repo.table.rows {
		if rowID, ok := row.ID(); ok && rowID == id {
			return i
		}
	}
	return -1
}

func (repo *Repository) checkUniqueness(row entity.Entity) error {
	for _, field := range repo.table.unique {
		val := row.Get(field)
		if val == "" {
			continue
		}
		for _, existing := range repo.table.rows {
			if existing.Get(field) == val {
				return &ExistsError{Field: field}
			}
		}
	}
	return nil
}
