package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rajivgeraev/estatepro/internal/api"
	"github.com/rajivgeraev/estatepro/internal/models"
	"github.com/rajivgeraev/estatepro/internal/storage"
	"github.com/rajivgeraev/estatepro/internal/utils"
)

// Authenticator содержит вызовы API, нужные сессии
type Authenticator interface {
	AccessToken(ctx context.Context, email, password string) (models.Token, error)
	GetMeWithToken(ctx context.Context, token string) (*models.User, error)
}

// Listener получает новую сессию после каждого изменения
type Listener func(Session)

type subscriber struct {
	id int
	fn Listener
}

// Manager единственный владелец сессии и ключа token в хранилище
type Manager struct {
	auth   Authenticator
	store  storage.Store
	logger *zap.Logger
	nav    Navigator

	minDelay     time.Duration
	loginTimeout time.Duration
	now          func() time.Time

	// writeMu упорядочивает изменения сессии вместе с записью в хранилище и уведомлениями
	writeMu sync.Mutex

	mu      sync.Mutex
	current Session
	subs    []subscriber
	nextSub int
}

// Option настраивает Manager
type Option func(*Manager)

// WithMinDelay задаёт минимальную длительность входа
func WithMinDelay(d time.Duration) Option {
	return func(m *Manager) { m.minDelay = d }
}

// WithLoginTimeout задаёт таймаут сетевой части входа
func WithLoginTimeout(d time.Duration) Option {
	return func(m *Manager) { m.loginTimeout = d }
}

// WithNavigator задаёт слой представления для перенаправления на вход
func WithNavigator(nav Navigator) Option {
	return func(m *Manager) { m.nav = nav }
}

// WithClock подменяет источник времени для проверки срока токена
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager создаёт менеджер с пустой сессией. Сохранённый токен поднимается вызовом Restore.
func NewManager(auth Authenticator, store storage.Store, logger *zap.Logger, opts ...Option) *Manager {
	m := &Manager{
		auth:         auth,
		store:        store,
		logger:       logger,
		nav:          noopNavigator{},
		minDelay:     time.Second,
		loginTimeout: 10 * time.Second,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Current возвращает текущую сессию без блокировки на сети
func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Subscribe регистрирует слушателя изменений сессии и возвращает функцию отписки.
// Слушатели вызываются синхронно, в порядке регистрации. Слушатель не должен
// вызывать Login, Logout, Restore или RefreshProfile.
func (m *Manager) Subscribe(fn Listener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextSub++
	id := m.nextSub
	m.subs = append(m.subs, subscriber{id: id, fn: fn})

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, s := range m.subs {
			if s.id == id {
				m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

// Login выполняет вход. Вызов завершается не раньше minDelay, даже если сеть ответила мгновенно.
// При ошибке сессия и хранилище не меняются.
func (m *Manager) Login(ctx context.Context, cred Credential) (Session, error) {
	var (
		token models.Token
		user  *models.User
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		nctx, cancel := context.WithTimeout(gctx, m.loginTimeout)
		defer cancel()

		t, err := m.auth.AccessToken(nctx, cred.Email, cred.Password)
		if err != nil {
			return err
		}
		u, err := m.auth.GetMeWithToken(nctx, t.AccessToken)
		if err != nil {
			return errors.Join(api.ErrUnknown, fmt.Errorf("ошибка получения профиля: %w", err))
		}
		token, user = t, u
		return nil
	})

	// Минимальная задержка, чтобы вход не выглядел мгновенным
	g.Go(func() error {
		timer := time.NewTimer(m.minDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
			return nil
		case <-gctx.Done():
			return nil
		}
	})

	if err := g.Wait(); err != nil {
		m.logger.Info("login failed", zap.String("email", cred.Email), zap.Error(err))
		return Session{}, classifyLoginError(err)
	}
	if ctx.Err() != nil {
		return Session{}, errors.Join(api.ErrUnknown, ctx.Err())
	}

	// Токен сохраняется до того, как сессия в памяти станет авторитетной
	next := Session{Token: token.AccessToken, User: user}
	if err := m.commit(next, func() error { return m.store.Set(TokenKey, token.AccessToken) }); err != nil {
		m.logger.Error("failed to persist token", zap.Error(err))
		return Session{}, errors.Join(api.ErrUnknown, err)
	}
	m.logger.Info("logged in", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	return next, nil
}

// Logout очищает токен и сессию. Никогда не завершается ошибкой.
func (m *Manager) Logout() {
	_ = m.commit(Session{}, m.deleteToken)
}

// Restore поднимает сессию из сохранённого токена. Любой сбой сбрасывает сессию
// и удаляет токен; возвращённая ошибка описывает причину.
func (m *Manager) Restore(ctx context.Context) (Session, error) {
	token, err := m.store.Get(TokenKey)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && strings.TrimSpace(token) == "") {
		return Session{}, nil
	}
	if err != nil {
		m.purge()
		return Session{}, fmt.Errorf("ошибка чтения токена: %w", err)
	}

	claims, err := utils.PeekClaims(token)
	if err != nil {
		m.purge()
		return Session{}, err
	}
	if claims.Expired(m.now()) {
		m.purge()
		return Session{}, api.ErrSessionExpired
	}

	user, err := m.auth.GetMeWithToken(ctx, token)
	if err != nil {
		m.purge()
		if api.StatusCode(err) == http.StatusUnauthorized {
			return Session{}, api.ErrSessionExpired
		}
		return Session{}, fmt.Errorf("ошибка восстановления сессии: %w", err)
	}
	if claims.Subject != "" && claims.Subject != fmt.Sprint(user.ID) {
		m.purge()
		return Session{}, fmt.Errorf("%w: token subject does not match profile", utils.ErrMalformedToken)
	}

	next := Session{Token: token, User: user}
	_ = m.commit(next, nil)
	m.logger.Debug("session restored", zap.Int64("user_id", user.ID))
	return next, nil
}

// RefreshProfile перечитывает профиль текущего пользователя, например после его изменения
func (m *Manager) RefreshProfile(ctx context.Context) (Session, error) {
	cur := m.Current()
	if !cur.IsAuthenticated() {
		return cur, nil
	}

	user, err := m.auth.GetMeWithToken(ctx, cur.Token)
	if err != nil {
		if api.StatusCode(err) == http.StatusUnauthorized {
			m.expire(cur.Token)
			return Session{}, api.ErrSessionExpired
		}
		return cur, err
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	if now := m.Current(); now.Token != cur.Token {
		// Сессия сменилась, пока шёл запрос
		return now, nil
	}
	next := Session{Token: cur.Token, User: user}
	_ = m.commitLocked(next, nil)
	return next, nil
}

// Attach подключает к клиенту API подстановку токена и обработку 401
func (m *Manager) Attach(c *api.Client) {
	c.OnRequest(m.authorize)
	c.OnResponse(m.checkAuthorization)
}

func (m *Manager) authorize(req *api.Request) {
	if req.NoAuth {
		return
	}
	if _, ok := req.Header["Authorization"]; ok {
		return
	}
	if token := m.Current().Token; token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
}

func (m *Manager) checkAuthorization(req *api.Request, resp *api.Response) error {
	if resp.StatusCode != http.StatusUnauthorized || req.NoAuth {
		return nil
	}
	attached, ok := strings.CutPrefix(req.Header["Authorization"], "Bearer ")
	if !ok || attached == "" {
		return nil
	}
	m.expire(attached)
	return api.ErrSessionExpired
}

// expire сбрасывает сессию, если отклонённый токен всё ещё текущий
func (m *Manager) expire(rejected string) {
	m.writeMu.Lock()
	if m.Current().Token != rejected {
		m.writeMu.Unlock()
		return
	}
	m.logger.Warn("token rejected by api, session expired")
	_ = m.commitLocked(Session{}, m.deleteToken)
	m.writeMu.Unlock()

	if !m.nav.OnLoginSurface() {
		m.nav.RedirectToLogin()
	}
}

func (m *Manager) purge() {
	_ = m.commit(Session{}, m.deleteToken)
}

// deleteToken удаляет токен из хранилища. Сбой удаления не мешает сбросу сессии.
func (m *Manager) deleteToken() error {
	if err := m.store.Delete(TokenKey); err != nil {
		m.logger.Warn("failed to delete persisted token", zap.Error(err))
	}
	return nil
}

func (m *Manager) commit(next Session, persist func() error) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	return m.commitLocked(next, persist)
}

// commitLocked сохраняет изменение, публикует сессию и уведомляет слушателей.
// Вызывается под writeMu.
func (m *Manager) commitLocked(next Session, persist func() error) error {
	if persist != nil {
		if err := persist(); err != nil {
			return err
		}
	}

	m.mu.Lock()
	prev := m.current
	m.current = next
	subs := slices.Clone(m.subs)
	m.mu.Unlock()

	if prev.Token == next.Token && prev.User == next.User {
		return nil
	}
	for _, s := range subs {
		s.fn(next)
	}
	return nil
}

func classifyLoginError(err error) error {
	var rl *api.RateLimitError
	switch {
	case errors.As(err, &rl), errors.Is(err, api.ErrInvalidCredentials), errors.Is(err, api.ErrUnknown):
		return err
	}
	return errors.Join(api.ErrUnknown, err)
}
