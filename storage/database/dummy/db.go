package dummydb

import (
	"sync"

	"github.com/Mogeshaue/Happy-Fox-sub000/core/entity"
)

type (
	DB struct {
		tables map[entity.Type]*entityTable
	}

	entityTable struct {
		sync.RWMutex
		pkCount int
		unique  []string
		rows    []entity.Entity
	}
)

// Open creates one empty table per entity type.
// unique lists, per type, the attributes no two rows may share.
func Open(types []entity.Type, unique map[entity.Type][]string) (*DB, error) {
	db := &DB{tables: make(map[entity.Type]*entityTable, len(types))}
	for _, t := range types {
		db.tables[t] = &entityTable{unique: unique[t]}
	}
	return db, nil
}
