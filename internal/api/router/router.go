package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sathviktm/AI-Health-Assistant/internal/appointments"
	"github.com/sathviktm/AI-Health-Assistant/internal/assistant"
	httpmiddleware "github.com/sathviktm/AI-Health-Assistant/internal/http/middleware"
	"github.com/sathviktm/AI-Health-Assistant/internal/vision"
	"github.com/sathviktm/AI-Health-Assistant/internal/voice"
	"github.com/sathviktm/AI-Health-Assistant/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	AppointmentsHandler *appointments.Handler
	ChatHandler         *assistant.Handler
	VoiceHandler        *voice.Handler
	VisionHandler       *vision.Handler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string

	// Per-IP rate limit applied to the AI relay routes. Zero disables
	// limiting.
	RelayRateLimit float64
	RelayRateBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// AI relays, rate limited to protect upstream quota.
	r.Group(func(relay chi.Router) {
		if cfg.RelayRateLimit > 0 {
			relay.Use(httpmiddleware.RateLimit(cfg.RelayRateLimit, cfg.RelayRateBurst))
		}
		if cfg.ChatHandler != nil {
			relay.Post("/chat", cfg.ChatHandler.Chat)
		}
		if cfg.VoiceHandler != nil {
			relay.Post("/voice-to-text", cfg.VoiceHandler.VoiceToText)
		}
		if cfg.VisionHandler != nil {
			relay.Post("/analyze-image", cfg.VisionHandler.AnalyzeImage)
		}
	})

	// Appointment CRUD
	if cfg.AppointmentsHandler != nil {
		r.Route("/appointments", func(r chi.Router) {
			r.Post("/", cfg.AppointmentsHandler.CreateAppointment)
			r.Get("/{userID}", cfg.AppointmentsHandler.ListAppointments)
			r.Put("/{appointmentID}", cfg.AppointmentsHandler.UpdateAppointment)
			r.Delete("/{appointmentID}", cfg.AppointmentsHandler.DeleteAppointment)
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
