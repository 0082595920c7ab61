package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sir_venger/vidstream/internal/app/resthttp"
	"github.com/sir_venger/vidstream/internal/config"
	"github.com/sir_venger/vidstream/internal/logger"
)

// main поднимает HTTP-сервис, фоновый GC и обеспечивает корректное завершение по сигналу.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "text").Error("load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.Error("vidstream stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	handler, srv, err := resthttp.NewServer(cfg, log)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("vidstream listening", "addr", cfg.ListenAddr(), "upload_dir", cfg.UploadDir, "public_dir", cfg.PublicDir)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Сценарий graceful shutdown при получении SIGTERM/SIGINT или падении соседней горутины.
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("graceful shutdown failed", "error", err)
			return server.Close()
		}
		log.Info("shutdown complete")
		return nil
	})

	// Фоновый GC временных файлов незавершённых загрузок.
	g.Go(func() error {
		srv.Disk.StartGC(gctx, cfg.GCTTL, cfg.GCInterval, func(n int, err error) {
			if err != nil {
				log.Warn("gc sweep failed", "error", err)
				return
			}
			if n > 0 {
				log.Info("gc sweep", "removed", n)
			}
		})
		return nil
	})

	return g.Wait()
}
