package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/dentalcare-api/internal/config"
	"github.com/jwalitptl/dentalcare-api/internal/email"
	appointmentHandler "github.com/jwalitptl/dentalcare-api/internal/handler/appointment"
	authHandler "github.com/jwalitptl/dentalcare-api/internal/handler/auth"
	blogHandler "github.com/jwalitptl/dentalcare-api/internal/handler/blog"
	"github.com/jwalitptl/dentalcare-api/internal/handler/health"
	settingsHandler "github.com/jwalitptl/dentalcare-api/internal/handler/settings"
	teamHandler "github.com/jwalitptl/dentalcare-api/internal/handler/team"
	"github.com/jwalitptl/dentalcare-api/internal/middleware"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
	"github.com/jwalitptl/dentalcare-api/internal/repository/memory"
	"github.com/jwalitptl/dentalcare-api/internal/repository/postgres"
	"github.com/jwalitptl/dentalcare-api/internal/router"
	appointmentService "github.com/jwalitptl/dentalcare-api/internal/service/appointment"
	authService "github.com/jwalitptl/dentalcare-api/internal/service/auth"
	blogService "github.com/jwalitptl/dentalcare-api/internal/service/blog"
	"github.com/jwalitptl/dentalcare-api/internal/service/notification"
	settingsService "github.com/jwalitptl/dentalcare-api/internal/service/settings"
	teamService "github.com/jwalitptl/dentalcare-api/internal/service/team"
	"github.com/jwalitptl/dentalcare-api/pkg/auth"
	"github.com/jwalitptl/dentalcare-api/pkg/logger"
	"github.com/jwalitptl/dentalcare-api/pkg/messaging"
	"github.com/jwalitptl/dentalcare-api/pkg/messaging/redis"
	"github.com/jwalitptl/dentalcare-api/pkg/metrics"
	"github.com/jwalitptl/dentalcare-api/pkg/security"
)

// repositories groups the storage backends selected by database.driver.
type repositories struct {
	admins       repository.AdminRepository
	settings     repository.SiteSettingsRepository
	team         repository.TeamMemberRepository
	appointments repository.AppointmentRepository
	blog         repository.BlogPostRepository
	pinger       health.Pinger
	close        func()
}

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Setup(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to initialize storage")
	}
	defer repos.close()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace)
	}

	tokens, err := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Expiry())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create token manager")
	}

	dispatcher, closeBroker := newNotifier(ctx, cfg, m)
	defer closeBroker()

	authSvc := authService.NewService(repos.admins, security.NewBcryptHasher(cfg.Auth.BcryptCost), tokens, authService.Config{
		AllowSignup:       cfg.Auth.AllowSignup,
		MinPasswordLength: cfg.Auth.MinPasswordLength,
	}, m)
	settingsSvc := settingsService.NewService(repos.settings, newCache(cfg.Cache), m)
	teamSvc := teamService.NewService(repos.team, newCache(cfg.Cache), m)
	appointmentSvc := appointmentService.NewService(repos.appointments, dispatcher, m)
	blogSvc := blogService.NewService(repos.blog, newCache(cfg.Cache), m)

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	corsConfig.AllowCredentials = cfg.CORS.AllowCredentials

	r := router.NewRouter(
		middleware.NewAuthMiddleware(authSvc),
		health.NewHandler(repos.pinger),
		router.RouterConfig{
			RateLimitEnabled: cfg.RateLimit.Enabled,
			RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:        cfg.RateLimit.Burst,
			CORSConfig:       corsConfig,
			Timeout:          cfg.Server.Timeout,
			MaxBodyBytes:     cfg.Server.MaxBodyBytes,
			CacheMaxAge:      cfg.Cache.HTTPMaxAge,
			Metrics:          m,
		},
		authHandler.NewHandler(authSvc),
		settingsHandler.NewHandler(settingsSvc),
		teamHandler.NewHandler(teamSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		blogHandler.NewHandler(blogSvc),
	)
	r.Setup()

	if limiter := r.RateLimiter(); limiter != nil {
		go limiter.Run(time.Minute, ctx.Done())
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("driver", cfg.Database.Driver).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if d, ok := dispatcher.(*notification.Dispatcher); ok {
		d.Wait()
	}

	log.Info().Msg("server exited")
}

func openRepositories(ctx context.Context, cfg config.DatabaseConfig) (*repositories, error) {
	if cfg.Driver == config.DriverMemory {
		log.Warn().Msg("using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			admins:       store.Admins(),
			settings:     store.SiteSettings(),
			team:         store.TeamMembers(),
			appointments: store.Appointments(),
			blog:         store.BlogPosts(),
			close:        func() {},
		}, nil
	}

	db, err := postgres.NewDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Migrate {
		if err := postgres.Migrate(db); err != nil {
			db.Close()
			return nil, err
		}
	}

	return &repositories{
		admins:       postgres.NewAdminRepository(db),
		settings:     postgres.NewSiteSettingsRepository(db),
		team:         postgres.NewTeamMemberRepository(db),
		appointments: postgres.NewAppointmentRepository(db),
		blog:         postgres.NewBlogPostRepository(db),
		pinger:       db,
		close:        closeDB(db),
	}, nil
}

func closeDB(db *sqlx.DB) func() {
	return func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}
}

func newCache(cfg config.CacheConfig) *cache.Cache {
	if !cfg.Enabled {
		return nil
	}
	return cache.New(cfg.TTL, cfg.CleanupInterval)
}

// newNotifier returns the appointment notifier and a func releasing its
// broker connection. Redis and SMTP are each optional.
func newNotifier(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (notification.Notifier, func()) {
	if !cfg.Notifications.Enabled {
		return notification.Noop{}, func() {}
	}

	var (
		broker messaging.Broker
		mailer email.Service
		closer = func() {}
	)

	if cfg.Redis.URL != "" {
		rb, err := redis.NewRedisBroker(ctx, redis.Config{URL: cfg.Redis.URL}, log.Logger)
		if err != nil {
			log.Error().Err(err).Msg("redis unavailable; appointment events will not be published")
		} else {
			broker = rb
			closer = func() {
				if err := rb.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close redis broker")
				}
			}
		}
	}

	if cfg.SMTP.Host != "" {
		mailer = email.NewSMTPService(email.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}

	return notification.NewDispatcher(broker, mailer, notification.Config{
		Channel:     cfg.Redis.Channel,
		ClinicInbox: cfg.SMTP.ClinicInbox,
		Timeout:     cfg.Notifications.Timeout,
	}, m), closer
}
