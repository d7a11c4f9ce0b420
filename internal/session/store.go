// Package session keeps the last uploaded record set per browser session,
// serialized as canonical CSV.
package session

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cleared-dev/basbook/internal/ledger"
	"github.com/cleared-dev/basbook/internal/model"
)

// ErrNotFound is returned when a session has no stored transactions or has expired.
var ErrNotFound = errors.New("no transactions uploaded for this session")

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Store is an in-memory session store with TTL. Expired entries are
// removed lazily when touched or when Put runs.
type Store struct {
	mu    sync.Mutex
	items map[string]entry
	ttl   time.Duration
	now   func() time.Time
}

// NewStore creates a store whose entries live for ttl after their last Put.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		items: make(map[string]entry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// NewID returns a fresh random session ID.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an ID produced by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Put serializes set and replaces whatever the session held before.
func (s *Store) Put(id string, set model.RecordSet) error {
	var buf bytes.Buffer
	if err := ledger.WriteTransactions(&buf, set); err != nil {
		return fmt.Errorf("serializing session %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictLocked(now)
	s.items[id] = entry{
		data:      buf.Bytes(),
		expiresAt: now.Add(s.ttl),
	}
	return nil
}

// Get decodes the record set stored for id.
func (s *Store) Get(id string) (model.RecordSet, error) {
	s.mu.Lock()
	e, ok := s.items[id]
	if ok && !s.now().Before(e.expiresAt) {
		delete(s.items, id)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return model.RecordSet{}, ErrNotFound
	}

	set, err := ledger.ReadTransactions(bytes.NewReader(e.data))
	if err != nil {
		return model.RecordSet{}, fmt.Errorf("decoding session %s: %w", id, err)
	}
	return set, nil
}

// Delete removes a session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked(s.now())
	return len(s.items)
}

func (s *Store) evictLocked(now time.Time) {
	for k, e := range s.items {
		if !now.Before(e.expiresAt) {
			delete(s.items, k)
		}
	}
}
