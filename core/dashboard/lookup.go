package dashboard

import (
	"github.com/Mogeshaue/Happy-Fox-sub000/core/entity"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/schema"
)

// Lookup reads the already-loaded collections; *store.Store implements it.
type Lookup interface {
	Collection(t entity.Type) []entity.Entity
	Find(t entity.Type, id string) (entity.Entity, bool)
}

// ForeignKey renders the id stored at key as the labelKey attribute of the referenced entity.
// When the referenced entity is not loaded it falls back to "{typeName} {id}", eg. "Course 42".
func ForeignKey(lk Lookup, key string, ref entity.Type, typeName, labelKey string) schema.RenderFunc {
	return func(e entity.Entity) schema.Cell {
		raw := e.Get(key)
		if target, ok := lk.Find(ref, raw); ok {
			if label := target.Get(labelKey); label != "" {
				return schema.Cell{Text: label}
			}
		}
		return schema.Cell{Text: typeName + " " + raw}
	}
}

// OptionsFrom turns the loaded collection of ref into select options.
// The collection is empty until ref has been fetched.
func OptionsFrom(lk Lookup, ref entity.Type, labelKey string) []schema.Option {
	coll := lk.Collection(ref)
	opts := make([]schema.Option, 0, len(coll))
	for _, e := range coll {
		id, ok := e.ID()
		if !ok {
			continue
		}
		label := e.Get(labelKey)
		if label == "" {
			label = id
		}
		opts = append(opts, schema.Option{Value: id, Label: label})
	}
	return opts
}

// Timestamp formats an ISO-8601 attribute with layout; unparseable values are shown as is.
func Timestamp(key, layout string) schema.RenderFunc {
	return func(e entity.Entity) schema.Cell {
		if t, ok := e.Time(key); ok {
			return schema.Cell{Text: t.Format(layout)}
		}
		return schema.Cell{Text: e.Get(key)}
	}
}

const (
	BadgeSuccess = "badge-success"
	BadgeWarning = "badge-warning"
)

// Badge renders a boolean attribute as a colored status badge.
func Badge(key, trueText, falseText string) schema.RenderFunc {
	return func(e entity.Entity) schema.Cell {
		if e.Bool(key) {
			return schema.Cell{Text: trueText, Class: BadgeSuccess}
		}
		return schema.Cell{Text: falseText, Class: BadgeWarning}
	}
}
