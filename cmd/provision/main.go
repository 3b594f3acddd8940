package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/simple-provision/pkg/account"
	"github.com/tendant/simple-provision/pkg/config"
	"github.com/tendant/simple-provision/pkg/notification"
	"github.com/tendant/simple-provision/pkg/platform"
	"github.com/tendant/simple-provision/pkg/provision"
	"github.com/tendant/simple-provision/pkg/provision/api"
)

func main() {
	var cfg config.AppConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed to read configuration", "err", err)
		os.Exit(1)
	}

	if err := account.RunMigrations(cfg.Database.ToMigrateURL()); err != nil {
		slog.Error("Failed to run migrations", "err", err)
		os.Exit(1)
	}

	pool, err := pgxpool.New(context.Background(), cfg.Database.ToDatabaseURL())
	if err != nil {
		slog.Error("Failed to create connection pool", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	accountService := account.NewAccountService(account.NewPostgresAccountRepository(pool))

	notifier, err := notification.NewEmailNotifier(cfg.Email.ToSMTPConfig())
	if err != nil {
		slog.Error("Failed to create email notifier", "err", err)
		os.Exit(1)
	}

	defaultPlatforms, err := cfg.Platforms.DefaultPlatforms()
	if err != nil {
		slog.Error("Invalid enabled platform list", "err", err)
		os.Exit(1)
	}

	timeout := cfg.Platforms.Timeout()
	provisionService := provision.NewService(
		provision.WithAccountService(accountService),
		provision.WithNotifier(notifier),
		provision.WithDefaultPlatforms(defaultPlatforms),
		provision.WithProvisioner(platform.NewLMSProvisioner(cfg.Platforms.LMSBaseURL, timeout)),
		provision.WithProvisioner(platform.NewEcommerceProvisioner(cfg.Platforms.EcommerceBaseURL, timeout)),
		provision.WithProvisioner(platform.NewDMSProvisioner(cfg.Platforms.DMSBaseURL, platform.ServiceCredential{
			Username: cfg.Platforms.DMSServiceUsername,
			Password: cfg.Platforms.DMSServicePassword,
		}, timeout)),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, http.StatusText(http.StatusOK))
	})
	r.Route("/api/provision", func(r chi.Router) {
		api.NewHandle(provisionService).RegisterRoutes(r)
	})

	server := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: r,
	}

	go func() {
		slog.Info("Starting server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown failed", "err", err)
	}
	slog.Info("Server stopped")
}
