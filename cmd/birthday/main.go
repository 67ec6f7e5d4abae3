package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/whatsapp"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/shared/config"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/shared/database"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/shared/utils"
)

// birthday runs the birthday notifier once and prints the summary as JSON.
// Meant for an external cron when the API runs with SCHEDULER_ENABLED=false.
func main() {
	timeout := flag.Duration("timeout", 10*time.Minute, "Maximum duration of the run")
	flag.Parse()

	cfg := config.LoadConfig()
	utils.InitLogger(cfg.Env)

	db := database.Open(cfg.DatabaseURL, cfg.IsProduction())
	defer db.Close()

	waService := whatsapp.NewService(whatsapp.ProviderConfig{
		BaseURL:    cfg.WhatsAppAPIBaseURL,
		APIVersion: cfg.WhatsAppAPIVersion,
		Timeout:    cfg.WhatsAppTimeout,
	})

	module := booking.New(booking.Deps{
		DB:       db.GORM,
		Senders:  waService,
		Location: cfg.Location(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	summary, err := module.Birthday.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("❌ Birthday notifier failed")
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(out))
}
