// Package app собирает клиентский слой: API, сессию, избранное, выборки и настройки.
package app

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/rajivgeraev/estatepro/internal/api"
	"github.com/rajivgeraev/estatepro/internal/config"
	"github.com/rajivgeraev/estatepro/internal/favorites"
	"github.com/rajivgeraev/estatepro/internal/listing"
	"github.com/rajivgeraev/estatepro/internal/media"
	"github.com/rajivgeraev/estatepro/internal/preferences"
	"github.com/rajivgeraev/estatepro/internal/session"
	"github.com/rajivgeraev/estatepro/internal/storage"
)

// App контейнер клиентских менеджеров
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Store     storage.Store
	API       *api.Client
	Session   *session.Manager
	Favorites *favorites.Manager
	Listings  *listing.Controller[listing.PublicKey]
	Mine      *listing.Controller[listing.MineKey]
	Themes    *preferences.Themes
	Media     media.Resolver

	unbind    func()
	ownsStore bool
}

type options struct {
	store     storage.Store
	transport api.Transport
	navigator session.Navigator
}

// Option настраивает сборку App
type Option func(*options)

// WithStore подставляет готовое хранилище вместо открытого по конфигурации
func WithStore(s storage.Store) Option {
	return func(o *options) { o.store = s }
}

// WithTransport подставляет транспорт HTTP
func WithTransport(t api.Transport) Option {
	return func(o *options) { o.transport = t }
}

// WithNavigator задаёт слой представления для перенаправления на вход
func WithNavigator(n session.Navigator) Option {
	return func(o *options) { o.navigator = n }
}

// New собирает App. Сеть не используется до вызова Start.
func New(cfg *config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{Config: cfg, Logger: logger}

	if o.store != nil {
		a.Store = o.store
	} else {
		s, err := storage.Open(cfg.StorageConfig, logger)
		if err != nil {
			return nil, err
		}
		a.Store = s
		a.ownsStore = true
	}

	transport := o.transport
	if transport == nil {
		transport = api.NewFiberTransport(cfg.APIURL, cfg.HTTPTimeout)
	}
	a.API = api.NewClient(transport, logger.Named("api"))

	sessOpts := []session.Option{
		session.WithMinDelay(cfg.LoginMinDelay),
		session.WithLoginTimeout(cfg.LoginTimeout),
	}
	if o.navigator != nil {
		sessOpts = append(sessOpts, session.WithNavigator(o.navigator))
	}
	a.Session = session.NewManager(a.API, a.Store, logger.Named("session"), sessOpts...)
	a.Session.Attach(a.API)

	a.Favorites = favorites.NewManager(a.Store, logger.Named("favorites"))
	a.Listings = listing.NewPublicController(a.API, cfg.PageSize, logger.Named("listing"))
	a.Mine = listing.NewMineController(a.API, cfg.MyPageSize, logger.Named("mine"))
	a.Themes = preferences.NewThemes(a.Store, logger.Named("preferences"))

	resolver, err := media.NewResolver(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Media = resolver

	return a, nil
}

// Start восстанавливает сессию и привязывает избранное к её владельцу.
// Ошибка восстановления не фатальна: сессия остаётся гостевой.
func (a *App) Start(ctx context.Context) session.Session {
	sess, err := a.Session.Restore(ctx)
	if err != nil {
		a.Logger.Info("session not restored", zap.Error(err))
	}
	if a.unbind == nil {
		a.unbind = a.Favorites.Bind(a.Session)
	}
	return sess
}

// Close отвязывает избранное и закрывает хранилище, если App его открыл
func (a *App) Close() error {
	if a.unbind != nil {
		a.unbind()
		a.unbind = nil
	}
	if a.ownsStore {
		return storage.Close(a.Store)
	}
	return nil
}

// RequireAdmin возвращает ошибку, если текущий пользователь не администратор
func (a *App) RequireAdmin() error {
	if !a.Session.Current().IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// RequireAuth возвращает ошибку, если пользователь не вошёл
func (a *App) RequireAuth() error {
	if !a.Session.Current().IsAuthenticated() {
		return ErrNotLoggedIn
	}
	return nil
}

var (
	// ErrNotLoggedIn возвращается командам, требующим входа
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrForbidden возвращается командам администратора
	ErrForbidden = errors.New("admin role required")
)
