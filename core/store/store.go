// Package store keeps one collection per entity type in sync with the backend.
//
// Collections are never patched locally: every successful create or delete re-fetches the
// affected type, so a collection always reflects the most recent successful fetch.
package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/Mogeshaue/Happy-Fox-sub000/core/entity"
)

var ErrUnknownType = errors.New("unknown entity type")

// Endpoint is the backend capability for one entity type.
type Endpoint interface {
	List(ctx context.Context) (json.RawMessage, error)
	Create(ctx context.Context, payload map[string]string) error
	Delete(ctx context.Context, id string) error
}

// OpError is the human-readable failure of a store operation.
type OpError struct {
	Key OpKey
	Err error
}

func (e *OpError) Error() string {
	return "Failed to " + string(e.Key.Op) + " " + string(e.Key.Type) + ": " + errors.Cause(e.Err).Error()
}

func (e *OpError) Unwrap() error { return e.Err }

type Option func(*Store)

func WithMetrics(m *Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

type Store struct {
	endpoints map[entity.Type]Endpoint
	types     []entity.Type
	metrics   *Metrics

	mu          sync.RWMutex
	collections map[entity.Type][]entity.Entity
	indices     map[entity.Type]map[string]entity.Entity
	status      map[OpKey]Status
	lastErrKey  *OpKey
}

func New(endpoints map[entity.Type]Endpoint, opts ...Option) *Store {
	s := &Store{
		endpoints:   endpoints,
		types:       orderTypes(endpoints),
		collections: make(map[entity.Type][]entity.Entity, len(endpoints)),
		indices:     make(map[entity.Type]map[string]entity.Entity, len(endpoints)),
		status:      make(map[OpKey]Status),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// orderTypes lists the known types first, in tab order, then any others alphabetically.
func orderTypes(endpoints map[entity.Type]Endpoint) []entity.Type {
	types := make([]entity.Type, 0, len(endpoints))
	known := make(map[entity.Type]bool, len(entity.AllTypes))
	for _, t := range entity.AllTypes {
		known[t] = true
		if _, ok := endpoints[t]; ok {
			types = append(types, t)
		}
	}
	var extra []entity.Type
	for t := range endpoints {
		if !known[t] {
			extra = append(extra, t)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(types, extra...)
}

// Types returns the supported entity types.
func (s *Store) Types() []entity.Type {
	return append([]entity.Type(nil), s.types...)
}

func (s *Store) endpoint(t entity.Type) (Endpoint, error) {
	ep, ok := s.endpoints[t]
	if !ok {
		return nil, errors.Wrap(ErrUnknownType, string(t))
	}
	return ep, nil
}

// Fetch replaces the collection of t with the backend's list.
// On failure the previous collection is kept.
func (s *Store) Fetch(ctx context.Context, t entity.Type) error {
	ep, err := s.endpoint(t)
	if err != nil {
		return err
	}

	key := OpKey{Type: t, Op: OpFetch}
	s.begin(key)
	start := time.Now()
	raw, err := ep.List(ctx)
	s.metrics.observe(key, start, err)
	if err != nil {
		return s.end(key, err)
	}

	ents := entity.Decode(raw)
	s.mu.Lock()
	s.collections[t] = ents
	s.indices[t] = entity.Index(ents)
	s.mu.Unlock()
	return s.end(key, nil)
}

// Create sends payload to the backend then re-fetches t.
// It only reports the create failure; a failed re-fetch is recorded under t:fetch.
func (s *Store) Create(ctx context.Context, t entity.Type, payload map[string]string) error {
	ep, err := s.endpoint(t)
	if err != nil {
		return err
	}

	key := OpKey{Type: t, Op: OpCreate}
	s.begin(key)
	start := time.Now()
	err = ep.Create(ctx, payload)
	s.metrics.observe(key, start, err)
	if err != nil {
		return s.end(key, err)
	}
	_ = s.Fetch(ctx, t)
	return s.end(key, nil)
}

// Delete removes the entity with the given id on the backend then re-fetches t.
func (s *Store) Delete(ctx context.Context, t entity.Type, id string) error {
	ep, err := s.endpoint(t)
	if err != nil {
		return err
	}

	key := OpKey{Type: t, Op: OpDelete}
	s.begin(key)
	start := time.Now()
	err = ep.Delete(ctx, id)
	s.metrics.observe(key, start, err)
	if err != nil {
		return s.end(key, err)
	}
	_ = s.Fetch(ctx, t)
	return s.end(key, nil)
}

// FetchAll fetches every supported type concurrently and waits for all of them.
// Each failure stays in its own status slot; the first one is returned.
func (s *Store) FetchAll(ctx context.Context) error {
	var g errgroup.Group
	for _, t := range s.types {
		t := t
		g.Go(func() error { return s.Fetch(ctx, t) })
	}
	return g.Wait()
}

func (s *Store) begin(key OpKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[key] = Status{Loading: true}
}

func (s *Store) end(key OpKey, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{}
	if err != nil {
		err = &OpError{Key: key, Err: err}
		st.Err = err.Error()
		k := key
		s.lastErrKey = &k
	}
	s.status[key] = st
	return err
}

// Collection returns a copy of the current collection of t.
func (s *Store) Collection(t entity.Type) []entity.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Entity{}, s.collections[t]...)
}

// Find looks an entity of type t up by id.
func (s *Store) Find(t entity.Type, id string) (entity.Entity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.indices[t][id]
	return e, ok
}

func (s *Store) Status(t entity.Type, op Op) Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status[OpKey{Type: t, Op: op}]
}

// Busy reports whether any operation on t is in flight.
func (s *Store) Busy(t entity.Type) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for key, st := range s.status {
		if key.Type == t && st.Loading {
			return true
		}
	}
	return false
}

// Loading reports whether any operation is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.status {
		if st.Loading {
			return true
		}
	}
	return false
}

// LastError returns the message of the most recent failure, as long as that
// operation has not since succeeded or been dismissed.
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastErrKey == nil {
		return ""
	}
	return s.status[*s.lastErrKey].Err
}

// ClearError dismisses every recorded failure.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, st := range s.status {
		st.Err = ""
		s.status[key] = st
	}
	s.lastErrKey = nil
}
