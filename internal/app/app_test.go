package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rajivgeraev/estatepro/internal/api"
	"github.com/rajivgeraev/estatepro/internal/config"
	"github.com/rajivgeraev/estatepro/internal/db"
	"github.com/rajivgeraev/estatepro/internal/listing"
	"github.com/rajivgeraev/estatepro/internal/models"
	"github.com/rajivgeraev/estatepro/internal/server/servertest"
	"github.com/rajivgeraev/estatepro/internal/session"
	"github.com/rajivgeraev/estatepro/internal/storage"
)

type recordingNavigator struct {
	redirects int
}

func (n *recordingNavigator) OnLoginSurface() bool { return false }
func (n *recordingNavigator) RedirectToLogin()     { n.redirects++ }

func newTestApp(t *testing.T, store storage.Store, nav session.Navigator) (*App, *servertest.Server) {
	t.Helper()
	srv := servertest.Start(t)

	cfg := config.Default()
	cfg.APIURL = srv.BaseURL
	cfg.LoginMinDelay = 10 * time.Millisecond

	opts := []Option{WithStore(store)}
	if nav != nil {
		opts = append(opts, WithNavigator(nav))
	}
	a, err := New(cfg, zap.NewNop(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	a.Start(context.Background())
	return a, srv
}

func login(t *testing.T, a *App, email, password string) session.Session {
	t.Helper()
	sess, err := a.Session.Login(context.Background(), session.Credential{Email: email, Password: password})
	require.NoError(t, err)
	return sess
}

func TestLoginBrowseAndFavoritesFlow(t *testing.T) {
	store := storage.NewMemoryStore()
	a, _ := newTestApp(t, store, nil)
	ctx := context.Background()

	assert.False(t, a.Session.Current().IsAuthenticated())
	assert.Equal(t, models.GuestOwner, a.Favorites.Owner())

	page, err := a.Listings.Query(ctx, listing.PublicKey{Page: 1})
	require.NoError(t, err)
	require.Len(t, page.Items, a.Config.PageSize)
	assert.True(t, page.HasMore)

	guestPick := page.Items[0].ID
	require.NoError(t, a.Favorites.Add(guestPick))

	sess := login(t, a, db.SeedAgentEmail, db.SeedAgentPassword)
	assert.Equal(t, models.RoleAgent, sess.User.Role)
	assert.Equal(t, models.UserOwner(sess.User.ID), a.Favorites.Owner())
	assert.Zero(t, a.Favorites.Count())

	agentPick := page.Items[1].ID
	require.NoError(t, a.Favorites.Add(agentPick))

	props := a.Favorites.Properties(ctx, a.API)
	require.Len(t, props, 1)
	assert.Equal(t, agentPick, props[0].ID)

	a.Session.Logout()
	assert.Equal(t, []int64{guestPick}, a.Favorites.List())

	login(t, a, db.SeedAgentEmail, db.SeedAgentPassword)
	assert.Equal(t, []int64{agentPick}, a.Favorites.List())
}

func TestRestoreAcrossRestart(t *testing.T) {
	store := storage.NewMemoryStore()
	a, srv := newTestApp(t, store, nil)
	login(t, a, db.SeedAdminEmail, db.SeedAdminPassword)
	require.NoError(t, a.Favorites.Add(3))

	// Новый процесс с тем же хранилищем
	cfg := config.Default()
	cfg.APIURL = srv.BaseURL
	b, err := New(cfg, zap.NewNop(), WithStore(store))
	require.NoError(t, err)
	defer b.Close()

	sess := b.Start(context.Background())
	require.True(t, sess.IsAdmin())
	assert.True(t, b.Favorites.IsFavorite(3))
	assert.NoError(t, b.RequireAdmin())
}

func TestInvalidLoginAndRateLimit(t *testing.T) {
	a, _ := newTestApp(t, storage.NewMemoryStore(), nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := a.Session.Login(ctx, session.Credential{Email: db.SeedAgentEmail, Password: "wrong"})
		require.ErrorIs(t, err, api.ErrInvalidCredentials, "attempt %d", i+1)
	}

	_, err := a.Session.Login(ctx, session.Credential{Email: db.SeedAgentEmail, Password: db.SeedAgentPassword})
	var rl *api.RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, "Too many failed login attempts. Please try again in 1 minute.", api.Message(err))
	assert.False(t, a.Session.Current().IsAuthenticated())
}

func TestCityFilterAndSort(t *testing.T) {
	a, _ := newTestApp(t, storage.NewMemoryStore(), nil)
	ctx := context.Background()

	for _, sort := range []models.Sort{models.SortPriceAsc, models.SortPriceDesc} {
		page, err := a.Listings.Query(ctx, listing.PublicKey{City: "New York", Sort: sort, Page: 1})
		require.NoError(t, err)
		require.NotEmpty(t, page.Items)

		for i, p := range page.Items {
			assert.Equal(t, "New York", p.City)
			if i == 0 {
				continue
			}
			if sort == models.SortPriceAsc {
				assert.LessOrEqual(t, page.Items[i-1].Price, p.Price)
			} else {
				assert.GreaterOrEqual(t, page.Items[i-1].Price, p.Price)
			}
		}
	}

	cities, err := listing.ListDistinctCities(ctx, a.API)
	require.NoError(t, err)
	assert.Equal(t, []string{"Austin", "Los Angeles", "Miami", "New York"}, cities)
}

func TestPaginationEndsWithShortPage(t *testing.T) {
	a, _ := newTestApp(t, storage.NewMemoryStore(), nil)
	ctx := context.Background()

	// 12 опубликованных объектов при странице 8: вторая страница неполная
	first, err := a.Listings.Query(ctx, listing.PublicKey{Page: 1})
	require.NoError(t, err)
	assert.True(t, first.HasMore)

	second, err := a.Listings.Query(ctx, listing.PublicKey{Page: 2})
	require.NoError(t, err)
	assert.Len(t, second.Items, 4)
	assert.False(t, second.HasMore)
}

func TestExpiredTokenOnRequestRedirects(t *testing.T) {
	store := storage.NewMemoryStore()
	nav := &recordingNavigator{}
	a, srv := newTestApp(t, store, nav)
	ctx := context.Background()

	sess := login(t, a, db.SeedAgentEmail, db.SeedAgentPassword)

	// Удаление пользователя делает токен недействительным на сервере
	require.NoError(t, srv.DB.DeleteUser(sess.User.ID))

	_, err := a.API.GetMe(ctx)
	assert.ErrorIs(t, err, api.ErrSessionExpired)
	assert.False(t, a.Session.Current().IsAuthenticated())
	assert.Equal(t, models.GuestOwner, a.Favorites.Owner())
	assert.Equal(t, 1, nav.redirects)

	_, err = store.Get(session.TokenKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAgentDashboardAndProfile(t *testing.T) {
	a, _ := newTestApp(t, storage.NewMemoryStore(), nil)
	ctx := context.Background()
	login(t, a, db.SeedAgentEmail, db.SeedAgentPassword)

	drafts, err := a.Mine.Query(ctx, listing.MineKey{Status: models.StatusDraft, Page: 1})
	require.NoError(t, err)
	require.Len(t, drafts.Items, 2)

	publish := models.StatusPublished
	updated, err := a.API.UpdateProperty(ctx, drafts.Items[0].ID, models.PropertyUpdate{Status: &publish})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, updated.Status)

	name := "Renamed Agent"
	_, err = a.API.UpdateMe(ctx, models.UserUpdate{Name: &name})
	require.NoError(t, err)
	sess, err := a.Session.RefreshProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, name, sess.User.Name)

	assert.ErrorIs(t, a.RequireAdmin(), ErrForbidden)
	_, err = a.API.ListAgents(ctx)
	assert.Equal(t, 403, api.StatusCode(err))
}

func TestAdminManagesAgents(t *testing.T) {
	a, _ := newTestApp(t, storage.NewMemoryStore(), nil)
	ctx := context.Background()
	login(t, a, db.SeedAdminEmail, db.SeedAdminPassword)

	created, err := a.API.CreateAgent(ctx, models.UserCreate{Email: "new@realestate.pro", Name: "New Agent", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAgent, created.Role)

	agents, err := a.API.ListAgents(ctx)
	require.NoError(t, err)
	assert.Len(t, agents, 2)

	require.NoError(t, a.API.DeleteAgent(ctx, created.ID))
	_, err = a.API.CreateAgent(ctx, models.UserCreate{Email: db.SeedAgentEmail, Name: "Dup", Password: "secret1"})
	assert.Equal(t, 400, api.StatusCode(err))

	all, err := a.API.AllProperties(ctx, 0, 100)
	require.NoError(t, err)
	assert.Len(t, all, 14)
}

func TestAgentCreatesAndPublishesProperty(t *testing.T) {
	a, _ := newTestApp(t, storage.NewMemoryStore(), nil)
	ctx := context.Background()
	sess := login(t, a, db.SeedAgentEmail, db.SeedAgentPassword)

	bedrooms := 3
	created, err := a.API.CreateProperty(ctx, models.PropertyCreate{
		Title:        "Lake House",
		Price:        420000,
		Surface:      140,
		City:         "Austin",
		PropertyType: models.PropertyHouse,
		Bedrooms:     &bedrooms,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, created.Status)
	assert.Equal(t, sess.User.ID, created.AgentID)

	drafts, err := a.Mine.Query(ctx, listing.MineKey{Status: models.StatusDraft, Page: 1})
	require.NoError(t, err)
	assert.Len(t, drafts.Items, 3)

	// Черновик не виден в публичном каталоге
	austin, err := a.Listings.Query(ctx, listing.PublicKey{City: "Austin", Page: 1})
	require.NoError(t, err)
	assert.Len(t, austin.Items, 3)

	publish := models.StatusPublished
	_, err = a.API.UpdateProperty(ctx, created.ID, models.PropertyUpdate{Status: &publish})
	require.NoError(t, err)

	austin, err = a.Listings.Refetch(ctx)
	require.NoError(t, err)
	assert.Len(t, austin.Items, 4)

	_, err = a.API.CreateProperty(ctx, models.PropertyCreate{Title: "X", Surface: 1, City: "Austin", PropertyType: models.PropertyLand})
	assert.Equal(t, 422, api.StatusCode(err))

	require.NoError(t, a.API.DeleteProperty(ctx, created.ID))
	_, err = a.API.GetProperty(ctx, created.ID)
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestAdminUpdatesAgent(t *testing.T) {
	a, srv := newTestApp(t, storage.NewMemoryStore(), nil)
	ctx := context.Background()
	login(t, a, db.SeedAdminEmail, db.SeedAdminPassword)

	agent := srv.DB.UsersByRole(models.RoleAgent)[0]
	name := "Top Agent"
	phone := "555-0100"
	updated, err := a.API.UpdateAgent(ctx, agent.ID, models.UserUpdate{Name: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)

	page, err := a.Listings.Query(ctx, listing.PublicKey{Page: 1})
	require.NoError(t, err)
	require.NotEmpty(t, page.Items)
	assert.Equal(t, name, page.Items[0].Agent.Name)

	admin := srv.DB.UsersByRole(models.RoleAdmin)[0]
	_, err = a.API.UpdateAgent(ctx, admin.ID, models.UserUpdate{Name: &name})
	assert.Equal(t, 400, api.StatusCode(err))

	short := "x"
	_, err = a.API.UpdateAgent(ctx, agent.ID, models.UserUpdate{Name: &short})
	assert.Equal(t, 422, api.StatusCode(err))
}
