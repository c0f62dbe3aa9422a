// Package router assembles the gateway's HTTP surface.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/ohcnetwork/care-whatsapp/internal/http/middleware"
	"github.com/ohcnetwork/care-whatsapp/internal/notify"
	"github.com/ohcnetwork/care-whatsapp/internal/whatsapp"
	"github.com/ohcnetwork/care-whatsapp/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger         *logging.Logger
	WebhookHandler *whatsapp.WebhookHandler
	NotifyHandler  *notify.HTTPHandler
	MetricsHandler http.Handler
}

// New creates a Chi router with all routes configured. The webhook
// verification gate lives inside the webhook handler itself, so it runs
// before any payload parsing on every POST.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if cfg.WebhookHandler != nil {
		r.Route("/webhooks/whatsapp", func(r chi.Router) {
			r.Get("/", cfg.WebhookHandler.HandleVerification)
			r.Post("/", cfg.WebhookHandler.HandleEvents)
		})
	}

	if cfg.NotifyHandler != nil {
		r.Route("/internal/notify", func(r chi.Router) {
			r.Post("/otp", cfg.NotifyHandler.HandleOTP)
			r.Post("/registration", cfg.NotifyHandler.HandleRegistration)
			r.Post("/appointment", cfg.NotifyHandler.HandleAppointment)
		})
	}

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}
