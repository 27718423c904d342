package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/atlasgate/countryhub/internal/auth"
	"github.com/atlasgate/countryhub/internal/config"
	"github.com/atlasgate/countryhub/internal/countries"
	"github.com/atlasgate/countryhub/internal/domain/user"
	"github.com/atlasgate/countryhub/internal/http/handlers"
	"github.com/atlasgate/countryhub/internal/http/middlewares"
	"github.com/atlasgate/countryhub/internal/observability"
	"github.com/atlasgate/countryhub/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, rdb *redis.Client, cfg config.Config) *gin.Engine {
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// own registry so parallel routers (tests) don't collide
	promReg := prometheus.NewRegistry()
	prom := observability.NewProm(promReg)

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(pool, prom)
	logsRepo := postgres.NewAPILogsRepo(pool, prom)

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL())
	authMw := middlewares.NewAuthMiddleware(jwtManager)

	countrySvc := countries.NewService(
		countries.NewClient(cfg.CountriesBaseURL),
		cfg.CountriesCacheTTL(),
	)

	var limiterStore middlewares.CounterStore = middlewares.NewMemoryStore()

	if rdb != nil {
		limiterStore = middlewares.NewRedisStore(rdb, "login")
	}

	loginLimiter := middlewares.NewRateLimiter(limiterStore, cfg.LoginRateLimit, cfg.LoginRateWindow())

	accessLog := middlewares.NewAccessLog(logsRepo, jwtManager, log)

	// middleware; the access log goes first so it observes every route,
	// including unmatched paths and recovered panics
	r.Use(accessLog.Middleware())
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(otelgin.Middleware("countryhub"))
	r.Use(prom.GinHandleMiddleware())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	r.Use(middlewares.RequireJSON())

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	healthHandler := handlers.NewHealthHandler(ping)
	r.GET("/health", healthHandler.Health)
	r.GET("/readyz", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})))

	authHandler := handlers.NewAuthHandler(usersRepo, jwtManager)
	usersHandler := handlers.NewUsersHandler(usersRepo)
	countriesHandler := handlers.NewCountriesHandler(countrySvc)
	logsHandler := handlers.NewLogsHandler(logsRepo)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", loginLimiter.Middleware(middlewares.KeyByIP), authHandler.Login)
	}

	usersGroup := r.Group("/users", authMw.RequireAuth())
	{
		usersGroup.GET("", usersHandler.List)
		usersGroup.GET("/:id", usersHandler.Get)
		usersGroup.POST("", authMw.RequireRole(user.RoleAdmin), usersHandler.Create)
		usersGroup.PATCH("/:id", usersHandler.Update)
		usersGroup.DELETE("/:id", usersHandler.Delete)
	}

	countriesGroup := r.Group("/countries", authMw.RequireAuth())
	{
		countriesGroup.GET("", countriesHandler.List)
		countriesGroup.GET("/:code", countriesHandler.Get)
	}

	r.GET("/logs", authMw.RequireAuth(), authMw.RequireRole(user.RoleAdmin), logsHandler.List)

	r.NoRoute(func(ctx *gin.Context) {
		handlers.RespondNotFound(ctx, "Not found")
	})

	return r
}
