package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rajivgeraev/estatepro/internal/app"
	"github.com/rajivgeraev/estatepro/internal/config"
	"github.com/rajivgeraev/estatepro/internal/logger"
)

var (
	// Global flags
	verbose bool
	timeout time.Duration

	application *app.App
	log         *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "estate",
	Short: "EstatePro client: browse properties, manage favorites and the agent back office",
	Long: `estate is a command-line client for the EstatePro property API.

Browsing and favorites work without an account; favorites are stored per user
and separately for guests. Agents and admins log in to manage their listings.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// setup загружает конфигурацию, собирает клиент и восстанавливает сессию
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	level := cfg.LogConfig.Level
	if verbose {
		level = "debug"
	} else if level == "info" {
		// Информационные логи мешают выводу команд
		level = "warn"
	}
	log, err = logger.New(level, cfg.LogConfig.Encoding)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	nav := &cliNavigator{command: cmd.Name(), out: cmd.ErrOrStderr()}
	application, err = app.New(cfg, log, app.WithNavigator(nav))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	application.Start(ctx)
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Operation timeout")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(citiesCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(favCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(mineCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(agentsCmd)
}

// commandContext возвращает контекст команды с общим таймаутом
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

// shutdown закрывает хранилище и сбрасывает логи, в том числе после ошибки команды
func shutdown() {
	if application != nil {
		_ = application.Close()
		application = nil
	}
	if log != nil {
		_ = log.Sync()
	}
}

// execute выполняет команду и всегда освобождает ресурсы
func execute() error {
	defer shutdown()
	return rootCmd.Execute()
}

func main() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}
