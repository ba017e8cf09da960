package cart

import "sync"

// Store keeps one cart per browsing session, in memory only
type Store struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

// NewStore returns an empty store
func NewStore() *Store {
	return &Store{carts: make(map[string]*Cart)}
}

// Get returns the session's cart, creating it on first use
func (s *Store) Get(sessionID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[sessionID]
	if !ok {
		c = New()
		s.carts[sessionID] = c
	}
	return c
}

// Track registers an issued session id with an empty cart
func (s *Store) Track(sessionID string) {
	s.Get(sessionID)
}

// Known reports whether the id was handed out and is still live
func (s *Store) Known(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.carts[sessionID]
	return ok
}

// Move hands the cart of one session id over to another, replacing whatever
// the target had. A missing source leaves the target with an empty cart.
func (s *Store) Move(from, to string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[from]
	if !ok {
		c = New()
	}
	delete(s.carts, from)
	s.carts[to] = c
}

// Discard forgets the session's cart
func (s *Store) Discard(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}

// Len is the number of live carts
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}
