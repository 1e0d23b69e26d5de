package bootstrap

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/distrifone/tracking-backend/internal/tracking"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideVisitStore(db *gorm.DB) *tracking.Store {
	return tracking.NewStore(db)
}

func ProvideTrackingFileStore(cfg *Config, logger *slog.Logger) (*tracking.TrackingFileStore, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.TrackingFilePath), 0o755); err != nil {
		return nil, err
	}
	return tracking.NewTrackingFileStore(cfg.TrackingFilePath, logger.With("store", "tracking_file")), nil
}

func ProvideCartFileStore(cfg *Config, logger *slog.Logger) (*tracking.CartFileStore, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.CartFilePath), 0o755); err != nil {
		return nil, err
	}
	return tracking.NewCartFileStore(cfg.CartFilePath, logger.With("store", "cart_file")), nil
}

func ProvideMetricsStore(redisClient *redis.Client) *tracking.MetricsStore {
	return tracking.NewMetricsStore(redisClient)
}

func RunMigrations(visitStore *tracking.Store) error {
	return visitStore.Migrate()
}

var StoresModule = fx.Options(
	fx.Provide(
		ProvideVisitStore,
		ProvideTrackingFileStore,
		ProvideCartFileStore,
		ProvideMetricsStore,
	),
	fx.Invoke(RunMigrations),
)
