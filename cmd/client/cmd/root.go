package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gfit/cmd/client/cmd/output"
	"gfit/cmd/client/cmd/types"
	"gfit/internal/app/client"
	"gfit/internal/app/client/config"
	"gfit/internal/utils/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slog"
)

const shutdownTimeout = 10 * time.Second

var (
	cfgFile    string
	cfg        *config.Config
	log        *slog.Logger
	app        *client.App
	debug      bool
	jsonOutput bool
	serverURL  string
	ephemeral  bool
)

var rootCmd = &cobra.Command{
	Use:   "gfit",
	Short: "G-Fit - семейный счетчик шагов",
	Long: `G-Fit считает шаги участников семьи, синхронизирует их с сервером
и показывает прогресс семейных челленджей.

Начните с регистрации: gfit auth register`,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: shutdownApp,
	SilenceUsage:       true,
	SilenceErrors:      true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if app != nil {
			_ = shutdownApp(rootCmd, nil)
		}
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", output.Explain(err))
		stop()
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = loadConfig()
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	if serverURL != "" {
		cfg.ServerAddress = serverURL
	}

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	log = logger.WithLevel(cfg.Env, level)

	app, err = client.New(cfg, log, client.Options{Ephemeral: ephemeral})
	if err != nil {
		return fmt.Errorf("ошибка инициализации приложения: %w", err)
	}

	cmd.SetContext(context.WithValue(cmd.Context(), types.ClientAppKey, app))
	return nil
}

func shutdownApp(_ *cobra.Command, _ []string) error {
	if app == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := app.Shutdown(ctx)
	app = nil
	if errors.Is(err, client.ErrUnauthorized) {
		return err
	}
	if err != nil {
		output.Warn("Шаги не отправлены и сохранены локально, они уйдут при следующей синхронизации: %v", err)
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}

		viper.AddConfigPath(filepath.Join(home, ".gfit"))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return config.MustLoad(), nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "конфигурационный файл")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "включить отладочный режим")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "вывод в формате JSON")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "адрес сервера G-Fit")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "не сохранять данные на диск")
}
