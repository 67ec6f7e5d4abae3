package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/rs/zerolog/log"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/audit"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/auth"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/llm"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/scheduler"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/whatsapp"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/handlers"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/models"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/shared/config"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/shared/database"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/shared/utils"

	_ "github.com/coioteTI/corte-e-arte-agenda-sub002/cmd/booking-api/docs"
)

// @title Corte & Arte Booking Bot API
// @version 1.0
// @description WhatsApp booking assistant for barbershops (multi-tenant)
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load config
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.Env)
	log.Info().Str("port", cfg.Port).Msg("🚀 Starting booking-api")

	// Init database
	db := database.Open(cfg.DatabaseURL, cfg.IsProduction())
	defer db.Close()

	if database.IsSQLite(cfg.DatabaseURL) {
		// Local SQLite runs have no migration files; build the schema from the models.
		if err := db.GORM.AutoMigrate(append(models.All(), &audit.AuditLog{})...); err != nil {
			log.Fatal().Err(err).Msg("❌ Failed to migrate SQLite schema")
		}
	}

	// Init LLM service
	llmService, err := llm.NewService(&llm.ProviderConfig{
		Type:        llm.ProviderType(cfg.LLMProvider),
		OpenAIKey:   cfg.OpenAIKey,
		GroqKey:     cfg.GroqKey,
		DeepSeekKey: cfg.DeepSeekKey,
		BaseURL:     cfg.LLMBaseURL,
		Model:       cfg.LLMModel,
		MaxTokens:   cfg.LLMMaxTokens,
		Timeout:     cfg.LLMTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize LLM provider")
	}

	// Init WhatsApp service
	waService := whatsapp.NewService(whatsapp.ProviderConfig{
		BaseURL:    cfg.WhatsAppAPIBaseURL,
		APIVersion: cfg.WhatsAppAPIVersion,
		Timeout:    cfg.WhatsAppTimeout,
	})

	auditService := audit.NewService(db.GORM)

	module := booking.New(booking.Deps{
		DB:        db.GORM,
		Senders:   waService,
		Completer: llmService,
		Audit:     auditService,
		Location:  cfg.Location(),
	})

	// Scheduled jobs
	cron := scheduler.NewScheduler(10 * time.Minute)
	if cfg.SchedulerEnabled {
		if err := cron.AddJob("birthday-notifier", cfg.BirthdayCron, func(ctx context.Context) error {
			_, err := module.Birthday.Run(ctx)
			return err
		}); err != nil {
			log.Fatal().Err(err).Str("spec", cfg.BirthdayCron).Msg("❌ Invalid birthday schedule")
		}
		if err := cron.AddJob("audit-cleanup", "0 30 3 * * *", func(ctx context.Context) error {
			_, err := auditService.DeleteOldLogs(ctx, cfg.AuditRetentionDays)
			return err
		}); err != nil {
			log.Fatal().Err(err).Msg("❌ Failed to schedule audit cleanup")
		}
		cron.Start()
		if next, ok := cron.Next("birthday-notifier"); ok {
			log.Info().Time("next_run", next).Msg("🎂 Birthday notifier scheduled")
		}
	}

	// Init Fiber app
	app := fiber.New(fiber.Config{
		AppName: "Corte & Arte Booking Bot",
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New())

	// Swagger
	app.Get("/swagger/*", swagger.HandlerDefault)

	var jwtService *auth.JWTService
	if cfg.JWTSecret != "" {
		jwtService = auth.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)
	} else {
		log.Warn().Msg("⚠️ JWT_SECRET not set, operator routes are unauthenticated")
	}

	handlers.RegisterRoutes(app, module.Handlers(llmService, cfg.WebhookTimeout, jwtService))

	go func() {
		log.Info().Str("port", cfg.Port).Msg("✅ booking-api running")
		log.Info().Msgf("📄 Swagger UI: http://localhost:%s/swagger/", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("❌ Server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("🛑 Shutting down...")
	if cfg.SchedulerEnabled {
		cron.Stop()
	}
	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		log.Error().Err(err).Msg("❌ Server shutdown failed")
	}
}
