// Package favorites хранит избранные объекты текущего владельца.
// Набор переключается вместе с сессией; наборы разных владельцев никогда не смешиваются.
package favorites

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rajivgeraev/estatepro/internal/models"
	"github.com/rajivgeraev/estatepro/internal/session"
	"github.com/rajivgeraev/estatepro/internal/storage"
)

// fetchConcurrency ограничивает число параллельных запросов в Properties
const fetchConcurrency = 4

// SessionSource источник личности, к которой привязано избранное
type SessionSource interface {
	Current() session.Session
	Subscribe(fn session.Listener) func()
}

// PropertyGetter получает объект по ID
type PropertyGetter interface {
	GetProperty(ctx context.Context, id int64) (*models.Property, error)
}

// Manager единственный писатель ключей favorites_* в хранилище
type Manager struct {
	store  storage.Store
	logger *zap.Logger

	mu     sync.RWMutex
	owner  models.OwnerKey
	loaded bool
	ids    []int64
	index  map[int64]struct{}

	subsMu  sync.Mutex
	subs    map[int]func(models.FavoriteSet)
	nextSub int
}

// NewManager создаёт менеджер. Набор загружается при первом обращении или вызове Current.
func NewManager(store storage.Store, logger *zap.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: logger,
		index:  make(map[int64]struct{}),
		subs:   make(map[int]func(models.FavoriteSet)),
	}
}

// Bind привязывает набор к сессии: текущий владелец загружается сразу,
// а каждая смена владельца перезагружает набор внутри уведомления сессии.
func (m *Manager) Bind(src SessionSource) func() {
	unsubscribe := src.Subscribe(func(s session.Session) {
		m.Current(s.Owner())
	})
	m.Current(src.Current().Owner())
	return unsubscribe
}

// Current возвращает набор владельца. При смене владельца прежний набор в памяти
// отбрасывается (в хранилище он остаётся под своим ключом) и загружается новый.
func (m *Manager) Current(owner models.OwnerKey) models.FavoriteSet {
	m.mu.Lock()
	if m.loaded && m.owner == owner {
		set := m.snapshotLocked()
		m.mu.Unlock()
		return set
	}

	m.owner = owner
	m.setLocked(m.load(owner))
	m.loaded = true
	set := m.snapshotLocked()
	m.mu.Unlock()

	m.logger.Debug("favorites loaded", zap.String("owner", string(owner)), zap.Int("count", set.Len()))
	m.notify(set)
	return set
}

// Owner возвращает владельца активного набора
func (m *Manager) Owner() models.OwnerKey {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.loaded {
		return models.GuestOwner
	}
	return m.owner
}

// Add добавляет объект. Повторное добавление ничего не делает.
// Набор сохраняется в хранилище до изменения в памяти.
func (m *Manager) Add(id int64) error {
	m.mu.Lock()
	m.ensureLoadedLocked()
	if _, ok := m.index[id]; ok {
		m.mu.Unlock()
		return nil
	}

	next := append(slices.Clone(m.ids), id)
	if err := m.persistLocked(next); err != nil {
		m.mu.Unlock()
		return err
	}
	m.setLocked(next)
	set := m.snapshotLocked()
	m.mu.Unlock()

	m.notify(set)
	return nil
}

// Remove удаляет объект. Удаление отсутствующего объекта ничего не делает.
func (m *Manager) Remove(id int64) error {
	m.mu.Lock()
	m.ensureLoadedLocked()
	if _, ok := m.index[id]; !ok {
		m.mu.Unlock()
		return nil
	}

	next := slices.DeleteFunc(slices.Clone(m.ids), func(v int64) bool { return v == id })
	if err := m.persistLocked(next); err != nil {
		m.mu.Unlock()
		return err
	}
	m.setLocked(next)
	set := m.snapshotLocked()
	m.mu.Unlock()

	m.notify(set)
	return nil
}

// Toggle добавляет или удаляет объект и возвращает новое состояние
func (m *Manager) Toggle(id int64) (bool, error) {
	if m.IsFavorite(id) {
		return false, m.Remove(id)
	}
	return true, m.Add(id)
}

// IsFavorite проверяет наличие объекта в активном наборе
func (m *Manager) IsFavorite(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLoadedLocked()
	_, ok := m.index[id]
	return ok
}

// List возвращает ID в порядке добавления
func (m *Manager) List() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLoadedLocked()
	return slices.Clone(m.ids)
}

// Count возвращает размер активного набора
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLoadedLocked()
	return len(m.ids)
}

// Subscribe регистрирует слушателя изменений набора
func (m *Manager) Subscribe(fn func(models.FavoriteSet)) func() {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	m.nextSub++
	id := m.nextSub
	m.subs[id] = fn
	return func() {
		m.subsMu.Lock()
		delete(m.subs, id)
		m.subsMu.Unlock()
	}
}

// Properties загружает объекты избранного параллельно. Объекты, которые не удалось
// получить (удалённые или снятые с публикации), пропускаются. Порядок набора сохраняется.
func (m *Manager) Properties(ctx context.Context, getter PropertyGetter) []models.Property {
	ids := m.List()
	results := make([]*models.Property, len(ids))

	var g errgroup.Group
	g.SetLimit(fetchConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			p, err := getter.GetProperty(ctx, id)
			if err != nil {
				m.logger.Debug("skipping favorite", zap.Int64("property_id", id), zap.Error(err))
				return nil
			}
			results[i] = p
			return nil
		})
	}
	_ = g.Wait()

	out := make([]models.Property, 0, len(ids))
	for _, p := range results {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}

func (m *Manager) ensureLoadedLocked() {
	if m.loaded {
		return
	}
	m.owner = models.GuestOwner
	m.setLocked(m.load(m.owner))
	m.loaded = true
}

// load читает набор владельца. Повреждённые данные дают пустой набор и сбрасываются.
func (m *Manager) load(owner models.OwnerKey) []int64 {
	return dedupe(storage.ReadJSON[[]int64](m.store, owner.StorageKey(), m.logger))
}

func (m *Manager) persistLocked(ids []int64) error {
	key := m.owner.StorageKey()
	if err := storage.WriteJSON(m.store, key, nonNil(ids)); err != nil {
		m.logger.Error("failed to persist favorites", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("ошибка сохранения избранного: %w", err)
	}
	return nil
}

func (m *Manager) setLocked(ids []int64) {
	m.ids = ids
	m.index = make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		m.index[id] = struct{}{}
	}
}

func (m *Manager) snapshotLocked() models.FavoriteSet {
	return models.FavoriteSet{Owner: m.owner, IDs: nonNil(slices.Clone(m.ids))}
}

func (m *Manager) notify(set models.FavoriteSet) {
	m.subsMu.Lock()
	ids := make([]int, 0, len(m.subs))
	for id := range m.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(models.FavoriteSet), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, m.subs[id])
	}
	m.subsMu.Unlock()

	for _, fn := range fns {
		fn(set)
	}
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
