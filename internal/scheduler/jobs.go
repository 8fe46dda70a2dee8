package scheduler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"example.com/habitkick/internal/observability"
)

// Job names used for logging and metrics.
const (
	JobFinalizeCompetitions = "finalize_competitions"
	JobPruneRateLimiters    = "prune_rate_limiters"
)

// CompetitionFinalizer is satisfied by domain.CompetitionService.
type CompetitionFinalizer interface {
	FinalizeEnded(ctx context.Context, limit int, skip []string) (int, []string, error)
}

// FinalizeCompetitions finalizes ended competitions in batches of batchSize until none remain.
// Competitions that fail are skipped for the rest of the run so they cannot hold back later ones.
func FinalizeCompetitions(finalizer CompetitionFinalizer, batchSize int, logger *zap.Logger) JobFunc {
	return func(ctx context.Context) error {
		var (
			total  int
			failed []string
			errs   error
		)
		for {
			n, batchFailed, err := finalizer.FinalizeEnded(ctx, batchSize, failed)
			total += n
			failed = append(failed, batchFailed...)
			observability.RecordCompetitionsFinalized(n)
			errs = errors.Join(errs, err)
			if n+len(batchFailed) < batchSize || ctx.Err() != nil {
				break
			}
		}
		if total > 0 {
			logger.Info("competitions finalized", zap.Int("count", total))
		}
		if len(failed) > 0 {
			logger.Warn("competitions left unfinalized", zap.Strings("competition_ids", failed))
		}
		return errs
	}
}

// Pruner is satisfied by middleware.RateLimiter.
type Pruner interface {
	Prune(idle time.Duration) int
}

// PruneRateLimiters drops limiters idle for longer than idle.
func PruneRateLimiters(p Pruner, idle time.Duration, logger *zap.Logger) JobFunc {
	return func(ctx context.Context) error {
		if removed := p.Prune(idle); removed > 0 {
			logger.Debug("rate limiters pruned", zap.Int("removed", removed))
		}
		return nil
	}
}
