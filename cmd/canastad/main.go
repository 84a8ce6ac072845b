// Command canastad runs the Canasta game service: HTTP API, websocket game
// transport, Postgres result persistence, and Redis snapshot cache.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jhtschultz/canasta/internal/cache"
	"github.com/jhtschultz/canasta/internal/config"
	"github.com/jhtschultz/canasta/internal/database"
	"github.com/jhtschultz/canasta/internal/server"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("database init")
	}
	if store == nil {
		log.Warn("DATABASE_URL not set; accounts and game history disabled")
	}
	defer store.Close()

	snapshots, err := cache.New(ctx, cfg.RedisURL, cfg.SnapshotTTL)
	if err != nil {
		log.WithError(err).Fatal("redis init")
	}
	if snapshots == nil {
		log.Warn("REDIS_URL not set; crash-resume snapshots disabled")
	}
	defer snapshots.Close()

	srv := server.New(cfg, log, store, snapshots)
	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.Router(),
	}

	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("canastad listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}
