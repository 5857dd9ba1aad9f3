package favorites

import (
	"context"
	"errors"
	"math/rand"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rajivgeraev/estatepro/internal/api"
	"github.com/rajivgeraev/estatepro/internal/models"
	"github.com/rajivgeraev/estatepro/internal/session"
	"github.com/rajivgeraev/estatepro/internal/storage"
)

// countingStore считает записи и может отказывать в них
type countingStore struct {
	*storage.MemoryStore
	writes  int
	failSet bool
}

func (s *countingStore) Set(key, value string) error {
	if s.failSet {
		return errors.New("disk full")
	}
	s.writes++
	return s.MemoryStore.Set(key, value)
}

// fakeSessions имитирует менеджер сессий
type fakeSessions struct {
	mu        sync.Mutex
	current   session.Session
	listeners []session.Listener
}

func (f *fakeSessions) Current() session.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *fakeSessions) Subscribe(fn session.Listener) func() {
	f.mu.Lock()
	f.listeners = append(f.listeners, fn)
	f.mu.Unlock()
	return func() {}
}

func (f *fakeSessions) set(s session.Session) {
	f.mu.Lock()
	f.current = s
	listeners := slices.Clone(f.listeners)
	f.mu.Unlock()
	for _, fn := range listeners {
		fn(s)
	}
}

func userSession(id int64) session.Session {
	return session.Session{Token: "tok", User: &models.User{ID: id, Role: models.RoleAgent}}
}

func TestReplayMatchesSetModel(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	m := NewManager(storage.NewMemoryStore(), zap.NewNop())
	model := map[int64]bool{}

	for i := 0; i < 500; i++ {
		id := int64(rng.Intn(20))
		if rng.Intn(2) == 0 {
			require.NoError(t, m.Add(id))
			model[id] = true
		} else {
			require.NoError(t, m.Remove(id))
			delete(model, id)
		}
	}

	assert.Equal(t, len(model), m.Count())
	for id := int64(0); id < 20; id++ {
		assert.Equal(t, model[id], m.IsFavorite(id), "id %d", id)
	}
}

func TestAddRemoveAreIdempotent(t *testing.T) {
	store := &countingStore{MemoryStore: storage.NewMemoryStore()}
	m := NewManager(store, zap.NewNop())

	require.NoError(t, m.Add(3))
	require.NoError(t, m.Add(3))
	assert.Equal(t, []int64{3}, m.List())
	assert.Equal(t, 1, store.writes)

	require.NoError(t, m.Remove(3))
	require.NoError(t, m.Remove(3))
	assert.Empty(t, m.List())
	assert.Equal(t, 2, store.writes)
}

func TestListKeepsInsertionOrder(t *testing.T) {
	m := NewManager(storage.NewMemoryStore(), zap.NewNop())
	for _, id := range []int64{9, 2, 5} {
		require.NoError(t, m.Add(id))
	}
	require.NoError(t, m.Remove(2))
	assert.Equal(t, []int64{9, 5}, m.List())
}

func TestPersistsAsJSONArray(t *testing.T) {
	store := storage.NewMemoryStore()
	m := NewManager(store, zap.NewNop())
	m.Current(models.UserOwner(7))

	require.NoError(t, m.Add(4))
	require.NoError(t, m.Add(1))

	raw, err := store.Get("favorites_user_7")
	require.NoError(t, err)
	assert.JSONEq(t, `[4,1]`, raw)

	require.NoError(t, m.Remove(4))
	require.NoError(t, m.Remove(1))
	raw, err = store.Get("favorites_user_7")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, raw)
}

func TestPersistFailureLeavesMemoryUnchanged(t *testing.T) {
	store := &countingStore{MemoryStore: storage.NewMemoryStore()}
	m := NewManager(store, zap.NewNop())
	require.NoError(t, m.Add(1))

	store.failSet = true
	assert.Error(t, m.Add(2))
	assert.Error(t, m.Remove(1))
	assert.Equal(t, []int64{1}, m.List())
}

func TestCorruptDataIsEmptyAndReset(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set("favorites_guest", "{broken"))

	m := NewManager(store, zap.NewNop())
	set := m.Current(models.GuestOwner)
	assert.Zero(t, set.Len())

	_, err := store.Get("favorites_guest")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDuplicatesInStorageAreCollapsed(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set("favorites_guest", "[1,2,1,3,2]"))

	m := NewManager(store, zap.NewNop())
	assert.Equal(t, []int64{1, 2, 3}, m.List())
}

func TestOwnerSwitchNeverMixesSets(t *testing.T) {
	store := storage.NewMemoryStore()
	sessions := &fakeSessions{}
	m := NewManager(store, zap.NewNop())
	m.Bind(sessions)

	require.NoError(t, m.Add(1))
	require.NoError(t, m.Add(2))
	assert.Equal(t, models.GuestOwner, m.Owner())

	sessions.set(userSession(7))
	assert.Equal(t, models.UserOwner(7), m.Owner())
	assert.Empty(t, m.List())
	require.NoError(t, m.Add(10))

	sessions.set(userSession(8))
	assert.Empty(t, m.List())
	require.NoError(t, m.Add(20))

	sessions.set(session.Session{})
	assert.Equal(t, []int64{1, 2}, m.List())

	sessions.set(userSession(7))
	assert.Equal(t, []int64{10}, m.List())
	assert.False(t, m.IsFavorite(1))
	assert.False(t, m.IsFavorite(20))
}

func TestBindLoadsCurrentOwner(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set("favorites_user_5", "[42]"))

	sessions := &fakeSessions{current: userSession(5)}
	m := NewManager(store, zap.NewNop())
	m.Bind(sessions)

	assert.True(t, m.IsFavorite(42))
}

func TestToggle(t *testing.T) {
	m := NewManager(storage.NewMemoryStore(), zap.NewNop())

	added, err := m.Toggle(5)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = m.Toggle(5)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Zero(t, m.Count())
}

func TestSubscribeReceivesChanges(t *testing.T) {
	m := NewManager(storage.NewMemoryStore(), zap.NewNop())
	var counts []int
	unsubscribe := m.Subscribe(func(s models.FavoriteSet) { counts = append(counts, s.Len()) })

	require.NoError(t, m.Add(1))
	require.NoError(t, m.Add(1))
	require.NoError(t, m.Add(2))
	unsubscribe()
	require.NoError(t, m.Add(3))

	assert.Equal(t, []int{1, 2}, counts)
}

type fakeGetter map[int64]*models.Property

func (f fakeGetter) GetProperty(ctx context.Context, id int64) (*models.Property, error) {
	if p, ok := f[id]; ok {
		return p, nil
	}
	return nil, api.ErrNotFound
}

func TestPropertiesDropsFailuresAndKeepsOrder(t *testing.T) {
	m := NewManager(storage.NewMemoryStore(), zap.NewNop())
	for _, id := range []int64{3, 1, 7, 2, 9, 4} {
		require.NoError(t, m.Add(id))
	}

	getter := fakeGetter{
		1: {ID: 1}, 2: {ID: 2}, 3: {ID: 3}, 4: {ID: 4},
	}
	props := m.Properties(context.Background(), getter)

	ids := make([]int64, 0, len(props))
	for _, p := range props {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int64{3, 1, 2, 4}, ids)
	assert.Equal(t, 6, m.Count())
}
