package bootstrap

import (
	"log/slog"
	"os"
	"time"

	"github.com/distrifone/tracking-backend/internal/health"
	"github.com/distrifone/tracking-backend/internal/tracking"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ProvideLogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
}

func ProvideRateLimiter(cfg *Config) *tracking.SessionRateLimiter {
	return tracking.NewSessionRateLimiter(
		cfg.RateLimit,
		time.Duration(cfg.RateWindowSeconds)*time.Second,
		cfg.RateCapacity,
	)
}

func ProvideIngestor(store *tracking.Store, cartFiles *tracking.CartFileStore, logger *slog.Logger) *tracking.Ingestor {
	return tracking.NewIngestor(store, cartFiles, logger.With("component", "ingestor"))
}

func ProvideMerger(
	store *tracking.Store,
	trackingFiles *tracking.TrackingFileStore,
	cartFiles *tracking.CartFileStore,
	logger *slog.Logger,
) *tracking.Merger {
	return tracking.NewMerger(store, trackingFiles, cartFiles, logger.With("component", "merger"))
}

func ProvideResolver(store *tracking.Store, cartFiles *tracking.CartFileStore, logger *slog.Logger) *tracking.Resolver {
	return tracking.NewResolver(store, cartFiles, logger.With("component", "resolver"))
}

func ProvideTrackingHandler(
	ingestor *tracking.Ingestor,
	merger *tracking.Merger,
	resolver *tracking.Resolver,
	limiter *tracking.SessionRateLimiter,
	metrics *tracking.MetricsStore,
	logger *slog.Logger,
) *tracking.Handler {
	return tracking.NewHandler(ingestor, merger, resolver, limiter, metrics, logger.With("handler", "tracking"))
}

func ProvideHealthHandler(
	db *gorm.DB,
	redisClient *redis.Client,
	trackingFiles *tracking.TrackingFileStore,
	cartFiles *tracking.CartFileStore,
	cfg *Config,
) *health.Handler {
	return health.NewHandler(db, redisClient, trackingFiles, cartFiles, cfg.Version)
}

type HandlerParams struct {
	fx.In

	TrackingHandler *tracking.Handler
	HealthHandler   *health.Handler
}

func RegisterRoutes(e *echo.Echo, params HandlerParams) {
	api := e.Group("/v1")
	params.TrackingHandler.RegisterRoutes(api)
	params.HealthHandler.RegisterRoutes(e)

	e.GET("/swagger/*", echoSwagger.EchoWrapHandler())
}

var HandlersModule = fx.Options(
	fx.Provide(
		ProvideLogger,
		ProvideRateLimiter,
		ProvideIngestor,
		ProvideMerger,
		ProvideResolver,
		ProvideTrackingHandler,
		ProvideHealthHandler,
	),
	fx.Invoke(RegisterRoutes),
)
