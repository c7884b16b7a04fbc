package form

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SessionStore {
	t.Helper()
	store := NewSessionStore(time.Hour, FallbackSource{}, func() *MediaManager {
		return NewMediaManager(t.TempDir(), 0)
	})
	t.Cleanup(store.Stop)
	return store
}

func TestStoreCreateAndGet(t *testing.T) {
	store := newTestStore(t)

	session := store.Create()
	require.NotEmpty(t, session.ID)
	require.NotNil(t, session.Media())

	got, err := store.Get(session.ID)
	require.NoError(t, err)
	assert.Same(t, session, got)

	_, err = store.Get("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStoreDeleteReleasesSession(t *testing.T) {
	store := newTestStore(t)
	session := store.Create()

	store.Delete(session.ID)

	_, err := store.Get(session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Zero(t, store.Len())
}

func TestStoreReapsIdleSessions(t *testing.T) {
	store := newTestStore(t)
	stale := store.Create()
	fresh := store.Create()
	require.Equal(t, 2, store.Len())

	// refresh one session, then sweep past the TTL of the other
	_, err := store.Get(fresh.ID)
	require.NoError(t, err)
	store.mu.Lock()
	store.entries[stale.ID].lastSeen = time.Now().Add(-2 * time.Hour)
	store.mu.Unlock()

	store.reap(time.Now())

	_, err = store.Get(stale.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.Get(fresh.ID)
	assert.NoError(t, err)
}
