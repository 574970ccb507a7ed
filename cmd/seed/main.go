// Command seed creates the first admin account. Running it again with the
// same email is a no-op.
package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/dentalcare-api/internal/config"
	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository/postgres"
	authService "github.com/jwalitptl/dentalcare-api/internal/service/auth"
	"github.com/jwalitptl/dentalcare-api/pkg/auth"
	apperrors "github.com/jwalitptl/dentalcare-api/pkg/errors"
	"github.com/jwalitptl/dentalcare-api/pkg/logger"
	"github.com/jwalitptl/dentalcare-api/pkg/security"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Setup(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	if cfg.Database.Driver != config.DriverPostgres {
		log.Fatal().Str("driver", cfg.Database.Driver).Msg("seeding requires the postgres driver")
	}

	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal().Msg("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD are required")
	}
	role := model.RoleAdmin
	if r := os.Getenv("SEED_ADMIN_ROLE"); r != "" {
		role = model.Role(r)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if cfg.Database.Migrate {
		if err := postgres.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	tokens, err := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Expiry())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create token manager")
	}

	// Seeding works even when public sign up is closed.
	svc := authService.NewService(
		postgres.NewAdminRepository(db),
		security.NewBcryptHasher(cfg.Auth.BcryptCost),
		tokens,
		authService.Config{AllowSignup: true, MinPasswordLength: cfg.Auth.MinPasswordLength},
		nil,
	)

	user, err := svc.SignUp(ctx, &model.SignUpRequest{Email: email, Password: password, Role: role})
	switch {
	case apperrors.Is(err, apperrors.ErrConflict):
		log.Info().Str("email", email).Msg("admin already exists")
	case err != nil:
		log.Fatal().Err(err).Msg("failed to create admin")
	default:
		log.Info().Str("admin_id", user.ID.String()).Str("email", user.Email).Str("role", string(user.Role)).Msg("admin created")
	}
}
