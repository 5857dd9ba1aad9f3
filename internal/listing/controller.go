// Package listing держит текущую страницу выборки объектов и гарантирует,
// что применяется только результат последнего выданного запроса.
package listing

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/rajivgeraev/estatepro/internal/api"
	"github.com/rajivgeraev/estatepro/internal/models"
)

var (
	// ErrSuperseded возвращается запросу, результат которого устарел к моменту прихода
	ErrSuperseded = errors.New("listing: query superseded by a newer one")
	// ErrInvalidPage возвращается для номера страницы меньше 1
	ErrInvalidPage = errors.New("listing: page must be >= 1")
	// ErrNoQuery возвращается из Refetch, если запросов ещё не было
	ErrNoQuery = errors.New("listing: nothing to refetch")
)

// Key ключ выборки. Страницы нумеруются с 1.
type Key interface {
	comparable
	PageNumber() int
}

// FetchFunc загружает окно [skip, skip+limit) для ключа
type FetchFunc[K Key] func(ctx context.Context, key K, skip, limit int) ([]models.Property, error)

// Status состояние контроллера
type Status int

const (
	Idle Status = iota
	Loading
	Loaded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Page одна страница выборки. HasMore равен true, если страница заполнена целиком.
type Page struct {
	Items   []models.Property
	HasMore bool
}

// State снимок состояния контроллера
type State[K Key] struct {
	Status Status
	// Key последний выданный ключ
	Key K
	// Page последняя успешно загруженная страница, PageKey её ключ
	Page    Page
	PageKey K
	HasPage bool
	Err     error
}

// Controller хранит страницу выборки для одного потребителя
type Controller[K Key] struct {
	fetch    FetchFunc[K]
	pageSize int
	logger   *zap.Logger

	mu    sync.Mutex
	seq   uint64
	state State[K]

	subsMu  sync.Mutex
	subs    []subscriber[K]
	nextSub int
}

type subscriber[K Key] struct {
	id int
	fn func(State[K])
}

// NewController создаёт контроллер с фиксированным размером страницы
func NewController[K Key](fetch FetchFunc[K], pageSize int, logger *zap.Logger) *Controller[K] {
	if pageSize < 1 {
		pageSize = 1
	}
	return &Controller[K]{fetch: fetch, pageSize: pageSize, logger: logger}
}

// PageSize возвращает размер страницы
func (c *Controller[K]) PageSize() int {
	return c.pageSize
}

// Query загружает страницу для ключа. Если пока шёл запрос был выдан более новый,
// результат и ошибка отбрасываются, а вызывающий получает ErrSuperseded.
func (c *Controller[K]) Query(ctx context.Context, key K) (Page, error) {
	page := key.PageNumber()
	if page < 1 {
		return Page{}, ErrInvalidPage
	}

	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.state.Status = Loading
	c.state.Key = key
	c.state.Err = nil
	loading := c.state
	c.mu.Unlock()
	c.notify(loading)

	items, err := c.fetch(ctx, key, (page-1)*c.pageSize, c.pageSize)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		c.logger.Debug("discarding superseded listing result", zap.Uint64("seq", seq), zap.Error(err))
		return Page{}, ErrSuperseded
	}

	if err != nil {
		if !errors.Is(err, api.ErrFetchFailed) {
			err = fmt.Errorf("%w: %w", api.ErrFetchFailed, err)
		}
		c.state.Status = Failed
		c.state.Err = err
		// Страница другого ключа больше не соответствует запросу
		if c.state.HasPage && c.state.PageKey != key {
			c.state.Page = Page{}
			c.state.HasPage = false
		}
		failed := c.state
		c.mu.Unlock()

		c.logger.Warn("listing query failed", zap.Error(err))
		c.notify(failed)
		return Page{}, err
	}

	if items == nil {
		items = []models.Property{}
	}
	result := Page{Items: items, HasMore: len(items) == c.pageSize}
	c.state.Status = Loaded
	c.state.Page = result
	c.state.PageKey = key
	c.state.HasPage = true
	loaded := c.state
	c.mu.Unlock()

	c.notify(loaded)
	return clonePage(result), nil
}

// Refetch повторяет последний выданный запрос
func (c *Controller[K]) Refetch(ctx context.Context) (Page, error) {
	c.mu.Lock()
	st := c.state
	c.mu.Unlock()

	if st.Status == Idle {
		return Page{}, ErrNoQuery
	}
	return c.Query(ctx, st.Key)
}

// Snapshot возвращает текущее состояние
func (c *Controller[K]) Snapshot() State[K] {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.state
	st.Page = clonePage(st.Page)
	return st
}

// Subscribe регистрирует слушателя изменений состояния
func (c *Controller[K]) Subscribe(fn func(State[K])) func() {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()

	c.nextSub++
	id := c.nextSub
	c.subs = append(c.subs, subscriber[K]{id: id, fn: fn})

	return func() {
		c.subsMu.Lock()
		defer c.subsMu.Unlock()
		c.subs = slices.DeleteFunc(c.subs, func(s subscriber[K]) bool { return s.id == id })
	}
}

func (c *Controller[K]) notify(st State[K]) {
	c.subsMu.Lock()
	subs := slices.Clone(c.subs)
	c.subsMu.Unlock()

	st.Page = clonePage(st.Page)
	for _, s := range subs {
		s.fn(st)
	}
}

func clonePage(p Page) Page {
	if p.Items != nil {
		p.Items = slices.Clone(p.Items)
	}
	return p
}
