package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	openai "github.com/sashabaranov/go-openai"

	"github.com/quotenest/quotenest-api/internal/api/router"
	appconfig "github.com/quotenest/quotenest-api/internal/config"
	"github.com/quotenest/quotenest-api/internal/lead"
	"github.com/quotenest/quotenest-api/internal/notify"
	"github.com/quotenest/quotenest-api/internal/observability/metrics"
	"github.com/quotenest/quotenest-api/internal/origin"
	"github.com/quotenest/quotenest-api/internal/ratelimit"
	"github.com/quotenest/quotenest-api/internal/recaptcha"
	"github.com/quotenest/quotenest-api/internal/summary"
	"github.com/quotenest/quotenest-api/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting quotenest lead API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	originGuard, err := origin.NewGuard(cfg.SiteURL, cfg.IsProduction())
	if err != nil {
		logger.Error("invalid site URL", "error", err)
		os.Exit(1)
	}

	limiter := ratelimit.New(cfg.RateLimitWindow, cfg.RateLimitMax)
	limiter.StartSweep(5 * time.Minute)

	verifier := recaptcha.New(recaptcha.Config{
		SecretKey: cfg.RecaptchaSecretKey,
		DevMode:   !cfg.IsProduction(),
		Logger:    logger,
	})

	generator := buildGenerator(cfg, logger)
	mailer := buildMailer(cfg, logger)
	leadMetrics := metrics.NewLeadMetrics(nil)

	leadHandler := lead.NewHandler(lead.HandlerConfig{
		Origin:     originGuard,
		Limiter:    limiter,
		Verifier:   verifier,
		Generator:  generator,
		Mailer:     mailer,
		Repo:       lead.NewInMemoryRepository(),
		Metrics:    leadMetrics,
		VerifyBots: cfg.IsProduction() || cfg.EnableRecaptcha,
		Logger:     logger,
	})

	r := router.New(&router.Config{
		Logger:             logger,
		LeadHandler:        leadHandler,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AdminToken:         cfg.AdminToken,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildGenerator selects the AI summary backend. Missing credentials
// disable enrichment entirely rather than failing startup.
func buildGenerator(cfg *appconfig.Config, logger *logging.Logger) lead.SummaryGenerator {
	switch cfg.SummaryProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			logger.Warn("OPENAI_API_KEY not configured, summary enrichment disabled")
			return nil
		}
		return summary.NewOpenAIGenerator(openai.NewClient(cfg.OpenAIAPIKey), cfg.OpenAIModel, logger)
	case "bedrock":
		if cfg.BedrockModelID == "" {
			logger.Warn("BEDROCK_MODEL_ID not configured, summary enrichment disabled")
			return nil
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Error("failed to load AWS config, summary enrichment disabled", "error", err)
			return nil
		}
		return summary.NewBedrockGenerator(bedrockruntime.NewFromConfig(awsCfg), cfg.BedrockModelID, logger)
	default:
		logger.Warn("unknown summary provider, enrichment disabled", "provider", cfg.SummaryProvider)
		return nil
	}
}

// buildMailer selects the notification email backend. An incomplete mail
// configuration degrades to a mailer that silently no-ops.
func buildMailer(cfg *appconfig.Config, logger *logging.Logger) *notify.LeadMailer {
	var sender notify.EmailSender
	switch cfg.EmailProvider {
	case "smtp":
		if s := notify.NewSMTPSender(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
		}, cfg.FromEmail, logger); s != nil {
			sender = s
		}
	case "sendgrid":
		if s := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.FromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); s != nil {
			sender = s
		}
	case "ses":
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Error("failed to load AWS config, email notifications disabled", "error", err)
			break
		}
		if s := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.FromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); s != nil {
			sender = s
		}
	}

	if sender == nil || cfg.LeadTargetEmail == "" {
		logger.Warn("lead notification email not fully configured, notifications disabled")
	}
	return notify.NewLeadMailer(sender, cfg.LeadTargetEmail, logger)
}
