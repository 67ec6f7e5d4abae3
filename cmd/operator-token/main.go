package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/auth"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/shared/config"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/shared/utils"
)

// operator-token mints a bearer token for the operator routes of booking-api.
func main() {
	var subject, tenantID, role string
	var ttl time.Duration

	flag.StringVar(&subject, "subject", "operator", "Who the token is issued to")
	flag.StringVar(&tenantID, "tenant", "", "Tenant ID (required for role operator)")
	flag.StringVar(&role, "role", auth.RoleOperator, "Role (admin, operator)")
	flag.DurationVar(&ttl, "ttl", 0, "Token lifetime (default JWT_TTL)")
	flag.Parse()

	cfg := config.LoadConfig()
	utils.InitLogger(cfg.Env)

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("❌ JWT_SECRET is not set")
	}
	if ttl == 0 {
		ttl = cfg.JWTTTL
	}

	token, expiresAt, err := auth.NewJWTService(cfg.JWTSecret, ttl).GenerateToken(auth.Claims{
		Subject:  subject,
		TenantID: tenantID,
		Role:     role,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to generate token")
	}

	log.Info().Str("role", role).Time("expires_at", expiresAt).Msg("🔑 Token generated")
	fmt.Println(token)
}
