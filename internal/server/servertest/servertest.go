// Package servertest поднимает stand-in API на loopback-порту для тестов.
package servertest

import (
	"net"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/crypto/bcrypt"

	"github.com/rajivgeraev/estatepro/internal/db"
	"github.com/rajivgeraev/estatepro/internal/server"
	"github.com/rajivgeraev/estatepro/internal/services/auth"
)

// Server описывает запущенный stand-in API
type Server struct {
	// BaseURL указывает на префикс /api/v1
	BaseURL string
	DB      *db.DB
	Limiter *auth.LoginLimiter
}

// Start запускает сервер с заполненной базой и останавливает его по завершении теста
func Start(t testing.TB) *Server {
	t.Helper()

	store := db.New(bcrypt.MinCost)
	if err := store.Seed(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	limiter := auth.NewLoginLimiter(5, time.Minute)

	app := server.NewApp(server.Options{
		DB:        store,
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
		Limiter:   limiter,
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() {
		_ = app.Listener(ln, fiber.ListenConfig{DisableStartupMessage: true})
	}()
	t.Cleanup(func() {
		_ = app.Shutdown()
	})

	return &Server{
		BaseURL: "http://" + ln.Addr().String() + "/api/v1",
		DB:      store,
		Limiter: limiter,
	}
}
