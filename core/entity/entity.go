package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Type is the key of a manageable record kind.
type Type string

const (
	Courses       Type = "courses"
	Cohorts       Type = "cohorts"
	Teams         Type = "teams"
	Invitations   Type = "invitations"
	Organizations Type = "organizations"
	Users         Type = "users"
)

// AllTypes lists every entity type the dashboard manages, in tab order.
var AllTypes = []Type{Courses, Cohorts, Teams, Invitations, Organizations, Users}

func (t Type) String() string { return string(t) }

// Entity is an opaque record from the backend.
// Attributes are kept as decoded JSON values (numbers as json.Number).
type Entity map[string]interface{}

// ID returns the entity's id and whether it is set.
func (e Entity) ID() (string, bool) {
	v, ok := e["id"]
	if !ok || v == nil {
		return "", false
	}
	id := format(v)
	return id, id != ""
}

// Get returns the attribute stringified for display; "" when absent.
func (e Entity) Get(key string) string {
	v, ok := e[key]
	if !ok || v == nil {
		return ""
	}
	return format(v)
}

// Bool reports whether the attribute is a JSON true.
func (e Entity) Bool(key string) bool {
	b, ok := e[key].(bool)
	return ok && b
}

// CreatedAt parses the ISO-8601 `created_at` attribute.
func (e Entity) CreatedAt() (time.Time, bool) {
	return e.Time("created_at")
}

// Time parses an ISO-8601 attribute.
func (e Entity) Time(key string) (time.Time, bool) {
	s := e.Get(key)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func format(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

// Decode turns a list response into entities.
// A payload that is not a JSON array yields an empty collection; non-object elements are skipped.
func Decode(raw json.RawMessage) []Entity {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return []Entity{}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var items []interface{}
	if err := dec.Decode(&items); err != nil {
		return []Entity{}
	}

	entities := make([]Entity, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]interface{}); ok {
			entities = append(entities, Entity(obj))
		}
	}
	return entities
}

// Index maps ids to entities; entities without an id are left out.
func Index(entities []Entity) map[string]Entity {
	idx := make(map[string]Entity, len(entities))
	for _, e := range entities {
		if id, ok := e.ID(); ok {
			idx[id] = e
		}
	}
	return idx
}
