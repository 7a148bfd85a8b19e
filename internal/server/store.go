package server

import (
	"sync"
	"time"
)

// DefaultStoreLimit bounds the in-memory artifact store. Preview sessions
// iterate on a handful of diagrams; old artifacts only matter until the
// next edit, so the store evicts the oldest entry once full.
const DefaultStoreLimit = 256

// artifact is one rendered image held for pickup via GET /r/{id}.
type artifact struct {
	Data        []byte
	ContentType string
	Format      string
	CreatedAt   time.Time
}

// artifactStore is a bounded FIFO of rendered artifacts keyed by id.
// Entries never change after Put, so readers get stable bytes even if
// the entry is evicted concurrently.
type artifactStore struct {
	mu    sync.Mutex
	limit int
	order []string
	byID  map[string]artifact
}

func newArtifactStore(limit int) *artifactStore {
	if limit <= 0 {
		limit = DefaultStoreLimit
	}
	return &artifactStore{
		limit: limit,
		byID:  make(map[string]artifact, limit),
	}
}

// Put stores a under id, evicting the oldest entry when the store is full.
func (s *artifactStore) Put(id string, a artifact) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[id]; !exists {
		for len(s.order) >= s.limit {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.byID, oldest)
		}
		s.order = append(s.order, id)
	}
	s.byID[id] = a
}

// Get retrieves the artifact stored under id.
func (s *artifactStore) Get(id string) (artifact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	return a, ok
}

// Len reports the number of stored artifacts.
func (s *artifactStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.order)
}
