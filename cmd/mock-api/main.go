package main

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/rajivgeraev/estatepro/internal/config"
	"github.com/rajivgeraev/estatepro/internal/db"
	"github.com/rajivgeraev/estatepro/internal/logger"
	"github.com/rajivgeraev/estatepro/internal/server"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Must("info", "console").Fatal("❌ Ошибка загрузки конфигурации", zap.Error(err))
	}
	log := logger.Must(cfg.LogConfig.Level, cfg.LogConfig.Encoding)
	defer log.Sync()

	// Инициализируем базу данных
	store := db.New(0)
	if err := store.Seed(); err != nil {
		log.Fatal("❌ Ошибка при заполнении базы данных", zap.Error(err))
	}

	app := server.NewApp(server.Options{
		DB:        store,
		JWTSecret: cfg.MockAPIConfig.JWTSecret,
		TokenTTL:  cfg.MockAPIConfig.TokenTTL,
		AccessLog: true,
		Logger:    log,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("⏹ остановка EstatePro API")
		if err := app.Shutdown(); err != nil {
			log.Error("ошибка при остановке сервера", zap.Error(err))
		}
	}()

	// Запускаем сервер
	addr := ":" + cfg.MockAPIConfig.Port
	log.Info("✅ EstatePro API запущен", zap.String("addr", addr),
		zap.String("admin", db.SeedAdminEmail), zap.String("agent", db.SeedAgentEmail))
	if err := app.Listen(addr); err != nil {
		log.Fatal("❌ Сервер остановлен с ошибкой", zap.Error(err))
	}
}
