package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/dentalcare-api/internal/handler"
	"github.com/jwalitptl/dentalcare-api/internal/handler/health"
	"github.com/jwalitptl/dentalcare-api/internal/middleware"
	"github.com/jwalitptl/dentalcare-api/pkg/metrics"
)

// Handler is a resource handler mounted under /api.
type Handler interface {
	RegisterRoutes(r *gin.RouterGroup, g handler.Guards)
}

type RouterConfig struct {
	RateLimitEnabled bool
	RateLimit        rate.Limit
	RateBurst        int
	CORSConfig       middleware.CORSConfig
	Timeout          time.Duration
	MaxBodyBytes     int64
	CacheMaxAge      int
	Metrics          *metrics.Metrics
}

type Router struct {
	engine      *gin.Engine
	auth        *middleware.AuthMiddleware
	health      *health.Handler
	resources   []Handler
	rateLimiter *middleware.IPRateLimiter
	config      RouterConfig
}

func NewRouter(auth *middleware.AuthMiddleware, healthH *health.Handler, config RouterConfig, resources ...Handler) *Router {
	middleware.RegisterValidators()

	engine := gin.New()

	r := &Router{
		engine:    engine,
		auth:      auth,
		health:    healthH,
		resources: resources,
		config:    config,
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
	)
	if config.Metrics != nil {
		engine.Use(middleware.Metrics(config.Metrics))
	}
	engine.Use(
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
		middleware.CORS(config.CORSConfig),
		middleware.SizeLimit(config.MaxBodyBytes),
		middleware.Timeout(config.Timeout),
	)

	if config.RateLimitEnabled {
		r.rateLimiter = middleware.NewIPRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
	}

	return r
}

// Setup mounts every route. It panics without an auth middleware.
func (r *Router) Setup() {
	if r.auth == nil {
		panic("router: auth middleware is required")
	}

	if r.health != nil {
		r.health.RegisterRoutes(r.engine)
	}
	if r.config.Metrics != nil {
		r.engine.GET("/metrics", gin.WrapH(r.config.Metrics.Handler()))
	}

	api := r.engine.Group("/api", middleware.CacheControl(r.config.CacheMaxAge))

	guards := handler.Guards{
		Authenticate: r.auth.Authenticate(),
		Identify:     r.auth.Identify(),
	}
	if r.rateLimiter != nil {
		guards.RateLimit = r.rateLimiter.RateLimit()
	}

	for _, h := range r.resources {
		h.RegisterRoutes(api, guards)
	}
}

// RateLimiter returns the limiter shared by the throttled routes, or nil.
func (r *Router) RateLimiter() *middleware.IPRateLimiter {
	return r.rateLimiter
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
