package services

import (
	"context"

	"acmeledger/internal/caching"
	"acmeledger/internal/models"

	"github.com/rs/zerolog/log"
)

// invalidateReports drops cached reports of kind after a successful write.
// Failures are logged and never returned to the caller.
func invalidateReports(ctx context.Context, cache caching.CacheService, kind models.ReportKind) {
	if cache == nil {
		return
	}
	if err := cache.InvalidateKind(ctx, kind); err != nil {
		log.Warn().Err(err).Str("kind", string(kind)).Msg("Failed to invalidate cached reports")
	}
}
