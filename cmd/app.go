package main

import (
	"context"
	"fmt"

	"acmeledger/internal/caching"
	"acmeledger/internal/config"
	"acmeledger/internal/reports"
	"acmeledger/internal/repositories"
	"acmeledger/internal/repositories/memory"
	"acmeledger/internal/repositories/mongostore"
	"acmeledger/internal/services"
	"acmeledger/pkg/database"

	"github.com/rs/zerolog/log"
)

// openStore connects the configured backend. The postgres schema is applied by
// the migrate command; mongo indexes are ensured on open.
func openStore(ctx context.Context, cfg *config.Config) (repositories.Store, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := database.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return repositories.Store{}, err
		}
		return repositories.NewPostgresStore(pool), nil
	case config.StoreMongo:
		s, err := mongostore.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return repositories.Store{}, err
		}
		return s.Repositories(), nil
	case config.StoreMemory:
		log.Warn().Msg("Using the in-memory store, data is lost on exit")
		return memory.New().Repositories(), nil
	default:
		return repositories.Store{}, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func newCache(cfg *config.Config) caching.CacheService {
	if cfg.RedisAddr == "" {
		log.Info().Msg("REDIS_ADDR not set, report cache disabled")
		return caching.NewNoopCacheService()
	}
	return caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
}

// newArchiver returns nil when MinIO is not configured.
func newArchiver(cfg *config.Config) (services.ReportArchiver, error) {
	if !cfg.ArchiveEnabled() {
		log.Info().Msg("MINIO_ENDPOINT not set, report archive disabled")
		return nil, nil
	}
	minio, err := services.NewMinioService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return services.NewReportArchiver(minio, cfg.ReportBucket, services.DefaultArchiveExpiry), nil
}

func newRenderer(cfg *config.Config) *reports.Renderer {
	style := reports.DefaultStyle()
	if cfg.CompanyName != "" {
		style.Brand = cfg.CompanyName
	}
	return reports.NewRenderer(style)
}
