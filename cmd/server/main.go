package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gfit/internal/app/server/api"
	"gfit/internal/app/server/config"
	"gfit/internal/domain/challenge"
	cache "gfit/internal/infrastructure/cache/redis"
	"gfit/internal/infrastructure/storage/postgres"
	"gfit/internal/utils/logger"

	"golang.org/x/exp/slog"
)

const shutdownTimeout = 10 * time.Second

func main() {
	conf := config.MustLoad()
	log := logger.WithLevel(conf.Env, conf.Logger.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := postgres.New(ctx, conf, log)
	if err != nil {
		log.Error("не удалось подключиться к базе", "error", err)
		os.Exit(1)
	}
	defer storage.Close()

	var leaderboard challenge.Cache
	if conf.CacheEnabled() {
		client := cache.NewClient(cache.Options{
			Addr:     conf.Redis.Addr,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		})
		defer client.Close()

		if err := cache.Ping(ctx, client); err != nil {
			log.Warn("redis недоступен, рейтинг без кэша", "addr", conf.Redis.Addr, "error", err)
		} else {
			leaderboard = cache.NewLeaderboardCache(client, conf.Redis.TTL)
		}
	}

	srv := &http.Server{
		Addr:              conf.Server.RunAddress,
		Handler:           api.New(storage, leaderboard, conf, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("сервер запущен", slog.String("addr", srv.Addr), slog.String("env", conf.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("сервер остановлен с ошибкой", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("ошибка остановки сервера", "error", err)
	}
	log.Info("сервер остановлен")
}
