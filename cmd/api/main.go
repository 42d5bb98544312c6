package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/sathviktm/AI-Health-Assistant/cmd/mainconfig"
	"github.com/sathviktm/AI-Health-Assistant/internal/api/router"
	"github.com/sathviktm/AI-Health-Assistant/internal/appointments"
	"github.com/sathviktm/AI-Health-Assistant/internal/assistant"
	"github.com/sathviktm/AI-Health-Assistant/internal/compliance"
	appconfig "github.com/sathviktm/AI-Health-Assistant/internal/config"
	"github.com/sathviktm/AI-Health-Assistant/internal/dates"
	"github.com/sathviktm/AI-Health-Assistant/internal/notify"
	"github.com/sathviktm/AI-Health-Assistant/internal/observability/metrics"
	"github.com/sathviktm/AI-Health-Assistant/internal/vision"
	"github.com/sathviktm/AI-Health-Assistant/internal/voice"
	"github.com/sathviktm/AI-Health-Assistant/pkg/logging"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting health assistant API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	apiMetrics := metrics.NewAPIMetrics(registry)

	// Email transport
	emailSender := buildEmailSender(ctx, cfg, logger)
	notifier := notify.NewService(emailSender, logger)

	// Appointments
	store := appointments.NewStore()
	parser := dates.NewParser()
	apptService := appointments.NewService(store, parser, notifier, logger,
		appointments.WithNotifyTimeout(cfg.NotifyTimeout),
	)
	apptHandler := appointments.NewHandler(apptService, apiMetrics, logger)

	routerCfg := &router.Config{
		Logger:              logger,
		AppointmentsHandler: apptHandler,
		MetricsHandler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		RelayRateLimit:      5,
		RelayRateBurst:      10,
	}

	// AI relays need a Gemini key; without one the API still serves
	// appointments.
	if cfg.GeminiAPIKey != "" {
		gemini, err := assistant.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID, cfg.GeminiVisionModel)
		if err != nil {
			logger.Error("failed to create gemini client", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()

		chatService := assistant.NewService(gemini, buildHistoryStore(cfg, logger), logger)
		routerCfg.ChatHandler = assistant.NewHandler(chatService, apiMetrics, logger)

		disclaimers := compliance.NewDisclaimerService(compliance.DefaultDisclaimerConfig())
		analyzer := vision.NewAnalyzer(gemini)
		routerCfg.VisionHandler = vision.NewHandler(analyzer, chatService, disclaimers, apiMetrics, logger)

		transcriber, err := voice.NewGoogleSpeechTranscriber(ctx, cfg.SpeechLanguageCode)
		if err != nil {
			logger.Warn("speech client unavailable, voice relay disabled", "error", err)
		} else {
			defer transcriber.Close()
			routerCfg.VoiceHandler = voice.NewHandler(transcriber, chatService, apiMetrics, logger)
		}
	} else {
		logger.Warn("GEMINI_API_KEY not set, AI relays disabled")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.New(routerCfg),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildEmailSender selects the mail transport from configuration. A
// misconfigured transport falls back to the stub so appointment mutations
// keep working.
func buildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "smtp":
		sender, err := notify.NewSMTPSender(notify.SMTPConfig{
			Host:      cfg.SMTPServer,
			Port:      cfg.SMTPPort,
			FromEmail: cfg.EmailSender,
			FromName:  cfg.EmailFromName,
			Password:  cfg.SMTPPassword,
		}, logger)
		if err != nil {
			logger.Warn("SMTP sender unavailable, falling back to stub", "error", err)
			return notify.NewStubEmailSender(logger)
		}
		return sender
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailSender,
			FromName:  cfg.EmailFromName,
		}, logger)
		if sender == nil {
			logger.Warn("SendGrid sender unavailable, falling back to stub")
			return notify.NewStubEmailSender(logger)
		}
		return sender
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Warn("AWS config unavailable, falling back to stub", "error", err)
			return notify.NewStubEmailSender(logger)
		}
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.EmailSender,
			FromName:  cfg.EmailFromName,
		}, logger)
	default:
		return notify.NewStubEmailSender(logger)
	}
}

// buildHistoryStore returns a Redis-backed history store when an address is
// configured, otherwise an in-process one.
func buildHistoryStore(cfg *appconfig.Config, logger *logging.Logger) assistant.HistoryStore {
	if cfg.RedisAddr == "" {
		logger.Info("REDIS_ADDR not set, using in-memory conversation history")
		return assistant.NewMemoryHistoryStore()
	}

	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	logger.Info("using redis conversation history", "addr", cfg.RedisAddr)
	return assistant.NewRedisHistoryStore(redis.NewClient(opts), nil, cfg.HistoryTTL)
}
