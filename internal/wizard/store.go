package wizard

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/memoryschool/portal/internal/services"
)

var ErrDraftNotFound = errors.New("draft not found or expired")

type entry struct {
	draft    *Draft
	lastSeen time.Time
}

// Store holds registration drafts in memory for the lifetime of each wizard
// session. Each browser session owns its draft exclusively; the store only
// serializes access, it does not arbitrate between sessions.
type Store struct {
	mu  sync.Mutex
	ttl time.Duration
	m   map[string]*entry
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Store{ttl: ttl, m: make(map[string]*entry)}
}

// Create starts a new draft against a resolved catalog.
func (s *Store) Create(cat *services.Catalog) *Draft {
	d := NewDraft(uuid.NewString(), cat)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[d.ID] = &entry{draft: d, lastSeen: time.Now()}
	return d
}

// View runs fn with the draft under the store lock, read-only by convention.
func (s *Store) View(id string, fn func(*Draft)) error {
	return s.Update(id, func(d *Draft) error { fn(d); return nil })
}

// Update runs fn with the draft under the store lock and refreshes its TTL.
func (s *Store) Update(id string, fn func(*Draft) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, found := s.m[id]
	if !found || time.Since(e.lastSeen) > s.ttl {
		delete(s.m, id)
		return ErrDraftNotFound
	}
	e.lastSeen = time.Now()
	return fn(e.draft)
}

// Delete destroys a draft (completion or abandonment).
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
}

func (s *Store) purgeExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.m {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.m, id)
			n++
		}
	}
	return n
}

// StartJanitor sweeps expired drafts once a minute.
func (s *Store) StartJanitor() {
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			s.purgeExpired(time.Now())
		}
	}()
}
