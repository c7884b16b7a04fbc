package form

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dukkan-shop/dukkan-backend/pkg/logger"
)

// ErrSessionNotFound is returned for unknown or expired session IDs
var ErrSessionNotFound = errors.New("form session not found")

type storeEntry struct {
	session  *Session
	lastSeen time.Time
}

// SessionStore keeps live form sessions in memory and reaps the ones
// that have been idle past their TTL, releasing any staged media they
// still hold. Sessions are bound to a single server instance; a draft
// does not need to survive a restart.
type SessionStore struct {
	mu       sync.Mutex
	entries  map[string]*storeEntry
	ttl      time.Duration
	source   SchemaSource
	newMedia func() *MediaManager
	done     chan struct{}
	stopOnce sync.Once
}

// NewSessionStore creates a store whose sessions expire after ttl of
// inactivity. newMedia builds the media manager for each session.
func NewSessionStore(ttl time.Duration, source SchemaSource, newMedia func() *MediaManager) *SessionStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	store := &SessionStore{
		entries:  make(map[string]*storeEntry),
		ttl:      ttl,
		source:   source,
		newMedia: newMedia,
		done:     make(chan struct{}),
	}
	go store.sweep()
	return store
}

// Create starts a fresh session and returns it
func (st *SessionStore) Create() *Session {
	var media *MediaManager
	if st.newMedia != nil {
		media = st.newMedia()
	}
	session := NewSession(uuid.New().String(), st.source, media)

	st.mu.Lock()
	st.entries[session.ID] = &storeEntry{session: session, lastSeen: time.Now()}
	st.mu.Unlock()

	return session
}

// Get returns a live session and refreshes its idle timer
func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	entry, ok := st.entries[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	entry.lastSeen = time.Now()
	return entry.session, nil
}

// Delete removes a session and releases its resources
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	entry, ok := st.entries[id]
	if ok {
		delete(st.entries, id)
	}
	st.mu.Unlock()
	if ok {
		entry.session.Close()
	}
}

// Len returns the number of live sessions
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.entries)
}

// Stop ends the sweep loop and releases every remaining session
func (st *SessionStore) Stop() {
	st.stopOnce.Do(func() {
		close(st.done)
	})

	st.mu.Lock()
	remaining := make([]*Session, 0, len(st.entries))
	for id, entry := range st.entries {
		remaining = append(remaining, entry.session)
		delete(st.entries, id)
	}
	st.mu.Unlock()

	for _, session := range remaining {
		session.Close()
	}
}

func (st *SessionStore) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-st.done:
			return
		case now := <-ticker.C:
			st.reap(now)
		}
	}
}

func (st *SessionStore) reap(now time.Time) {
	st.mu.Lock()
	var expired []*Session
	for id, entry := range st.entries {
		if now.Sub(entry.lastSeen) > st.ttl {
			expired = append(expired, entry.session)
			delete(st.entries, id)
		}
	}
	st.mu.Unlock()

	for _, session := range expired {
		session.Close()
	}
	if len(expired) > 0 {
		logger.Debug("Reaped expired form sessions", map[string]interface{}{
			"count": len(expired),
		})
	}
}
