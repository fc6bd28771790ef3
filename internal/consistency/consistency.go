// Package consistency holds the bookkeeping shared by every store+mirror
// write: cache invalidation, mirror failure accounting and the policy that
// decides when a mirror failure fails the whole operation.
package consistency

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/cache"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/metrics"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"go.uber.org/zap"
)

// Policy says what a mirror failure means for the caller.
type Policy int

const (
	// Tolerate records the failure on the result but reports success.
	// Creates use it: a missing directory only shows up on a later image
	// read.
	Tolerate Policy = iota
	// Strict turns a mirror failure into ErrMirrorInconsistency. Renames
	// and deletes use it.
	Strict
)

type Settler struct {
	cache  cache.Cache
	logger logger.ZapLogger
}

func NewSettler(c cache.Cache, log logger.ZapLogger) *Settler {
	if c == nil {
		c = cache.Nop{}
	}
	return &Settler{cache: c, logger: log}
}

// Settle finishes a write whose store half already ran. The returned error
// is non-nil only under Strict with a mirror failure; result is still
// returned to the caller alongside it.
func (s *Settler) Settle(ctx context.Context, op string, result *model.WriteResult, policy Policy) error {
	if result.StoreCommitted {
		if err := cache.InvalidateCatalog(ctx, s.cache); err != nil {
			s.logger.Warn("failed to invalidate catalog cache", zap.String("operation", op), zap.Error(err))
		}
	}

	if !result.Partial() {
		return nil
	}

	metrics.MirrorInconsistencies.WithLabelValues(op).Inc()
	mirrorErr := result.MirrorErr()
	s.logger.Warn("store committed but mirror did not follow",
		zap.String("operation", op),
		zap.String("id", result.ID),
		zap.Error(mirrorErr),
	)

	if policy == Tolerate {
		return nil
	}
	return fmt.Errorf("%w: %s %s: %w", apperror.ErrMirrorInconsistency, op, result.ID, mirrorErr)
}
