// Quick-start entrypoint: in-memory account store and a mock notifier, no
// database or SMTP required. Useful for local demos against stub platforms.
package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/ilyakaznacheev/cleanenv"

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

	accountService := account.NewAccountService(account.NewInMemoryAccountRepository())

	defaultPlatforms, err := cfg.Platforms.DefaultPlatforms()
	if err != nil {
		slog.Error("Invalid enabled platform list", "err", err)
		os.Exit(1)
	}

	timeout := cfg.Platforms.Timeout()
	provisionService := provision.NewService(
		provision.WithAccountService(accountService),
		provision.WithNotifier(notification.NewMockNotifier()),
		provision.WithDefaultPlatforms(defaultPlatforms),
		provision.WithProvisioner(platform.NewLMSProvisioner(cfg.Platforms.LMSBaseURL, timeout)),
		provision.WithProvisioner(platform.NewEcommerceProvisioner(cfg.Platforms.EcommerceBaseURL, timeout)),
		provision.WithProvisioner(platform.NewDMSProvisioner(cfg.Platforms.DMSBaseURL, platform.ServiceCredential{
			Username: cfg.Platforms.DMSServiceUsername,
			Password: cfg.Platforms.DMSServicePassword,
		}, timeout)),
	)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, http.StatusText(http.StatusOK))
	})
	r.Route("/api/provision", func(r chi.Router) {
		api.NewHandle(provisionService).RegisterRoutes(r)
	})

	slog.Info("Starting quick server", "addr", cfg.Server.Addr())
	if err := http.ListenAndServe(cfg.Server.Addr(), r); err != nil {
		slog.Error("Server failed", "err", err)
		os.Exit(1)
	}
}
