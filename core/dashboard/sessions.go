package dashboard

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/Mogeshaue/Happy-Fox-sub000/core/role"
)

// Factory builds the dashboard of a new session.
type Factory func(token string, r role.Interface) (*Dashboard, error)

// Sessions caches one dashboard per session token. Idle sessions expire after ttl.
type Sessions struct {
	mu      sync.Mutex
	cache   *cache.Cache
	factory Factory
}

func NewSessions(ttl time.Duration, factory Factory) *Sessions {
	return &Sessions{
		cache:   cache.New(ttl, 2*ttl),
		factory: factory,
	}
}

// Get returns the dashboard of the session, building it on first use, and extends its lifetime.
func (s *Sessions) Get(token string, r role.Interface) (*Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if x, found := s.cache.Get(token); found {
		d := x.(*Dashboard)
		s.cache.SetDefault(token, d)
		return d, nil
	}

	d, err := s.factory(token, r)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(token, d)
	return d, nil
}

func (s *Sessions) Drop(token string) {
	s.cache.Delete(token)
}

func (s *Sessions) Len() int {
	return s.cache.ItemCount()
}
