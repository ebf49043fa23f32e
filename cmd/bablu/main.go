// Package main boots the inventory service HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bhaskarkhanolkar1-a11y/bablu/internal/config"
	httpapi "github.com/bhaskarkhanolkar1-a11y/bablu/internal/http"
	"github.com/bhaskarkhanolkar1-a11y/bablu/internal/inventory"
	"github.com/bhaskarkhanolkar1-a11y/bablu/internal/notify"
	"github.com/bhaskarkhanolkar1-a11y/bablu/internal/obs"
	"github.com/bhaskarkhanolkar1-a11y/bablu/internal/sheet"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	obs.InitLogger()
	obs.Logger.Info("service_starting")

	if err := cfg.Validate(); err != nil {
		obs.Logger.Error("config_invalid", "error", err)
		os.Exit(1)
	}

	var vals sheet.Values
	switch cfg.SheetsBackend {
	case config.BackendMemory:
		vals = sheet.NewMemory()
	default:
		vals = sheet.NewGoogle(cfg)
	}

	notifier := notify.New(cfg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	notifier.Start(ctx)

	repo := inventory.New(vals, cfg.SheetTab, notifier)
	app := httpapi.NewApp(cfg, repo, notifier)
	mux := httpapi.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr, "backend", cfg.SheetsBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}

	// Let queued low-stock alerts go out before the process dies; anything
	// still in flight at the deadline is abandoned, not retried.
	notifier.CloseIntake()
	ctxDrain, cancelDrain := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelDrain()
	if drained := notifier.DrainUntil(ctxDrain); !drained {
		obs.Logger.Warn("shutdown_drain_timeout")
	} else {
		obs.Logger.Info("shutdown_drain_complete")
	}
	notifier.Stop()
	obs.Logger.Info("service_stopped")
}
