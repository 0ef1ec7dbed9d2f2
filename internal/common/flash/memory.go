package flash

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore keeps flashes in process. Fine for a single portal instance.
type MemoryStore struct {
	mu    sync.Mutex
	cache *gocache.Cache
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{cache: gocache.New(ttl, 2*ttl)}
}

func (s *MemoryStore) Put(_ context.Context, msg Message) (string, error) {
	id := newID()
	s.cache.SetDefault(id, msg)
	return id, nil
}

func (s *MemoryStore) Pop(_ context.Context, id string) (*Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	val, found := s.cache.Get(id)
	if !found {
		return nil, nil
	}
	s.cache.Delete(id)
	msg := val.(Message)
	return &msg, nil
}
