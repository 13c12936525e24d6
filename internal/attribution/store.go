package attribution

import "sync"

// Store is key-value persistence scoped to one browser session. Values set
// during the first page view survive navigations within the session and are
// gone when the session ends; the resolver never assumes anything beyond
// Get/Set/Has. Has must report presence even for keys set to "".
type Store interface {
	Get(key string) string
	Set(key, value string)
	Has(key string) bool
}

// MemoryStore is an in-memory Store for embedding hosts and tests.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore creates an empty session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get returns the stored value, or "" if the key is absent.
func (s *MemoryStore) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key]
}

// Set stores a value under the key, overwriting any previous value.
func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Has reports whether the key has been set, including to the empty string.
func (s *MemoryStore) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.values[key]
	return ok
}
