package store

import (
	"fmt"

	"github.com/Mogeshaue/Happy-Fox-sub000/core/entity"
)

type Op string

const (
	OpFetch  Op = "fetch"
	OpCreate Op = "create"
	OpDelete Op = "delete"
)

// OpKey identifies one operation slot, eg. courses:create.
type OpKey struct {
	Type entity.Type
	Op   Op
}

func (k OpKey) String() string { return fmt.Sprintf("%s:%s", k.Type, k.Op) }

type Status struct {
	Loading bool
	Err     string
}
