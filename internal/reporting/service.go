package reporting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	passmodels "gopass/internal/pass/models"
	"gopass/pkg/requestcontext"
)

// PassCounter is the slice of the pass store reporting reads.
type PassCounter interface {
	CountByStatus(ctx context.Context) (map[passmodels.Status]int, error)
}

// ValidationCounter is the slice of the audit ledger reporting reads.
type ValidationCounter interface {
	CountSince(ctx context.Context, since time.Time) (int, error)
}

// Statistics is the operator dashboard snapshot.
type Statistics struct {
	TotalPasses      int `json:"total_passes"`
	ActivePasses     int `json:"active_passes"`
	ConsumedPasses   int `json:"consumed_passes"`
	ExpiredPasses    int `json:"expired_passes"`
	CancelledPasses  int `json:"cancelled_passes"`
	TodayValidations int `json:"today_validations"`
}

const (
	statsVersionKey = "gopass:stats:version"
	statsKeyPrefix  = "gopass:stats:v"
)

// Service aggregates pass and validation counts. Snapshots are cached in
// Redis under a monotonic version counter with a bounded TTL; Invalidate
// bumps the version so writers can discard stale snapshots explicitly
// instead of relying on ambient process state. Without Redis every snapshot
// reads through to the stores.
type Service struct {
	passes      PassCounter
	validations ValidationCounter
	cache       redis.Cmdable
	cacheTTL    time.Duration
	logger      *slog.Logger
}

func New(passes PassCounter, validations ValidationCounter, cache redis.Cmdable, cacheTTL time.Duration, logger *slog.Logger) (*Service, error) {
	if passes == nil {
		return nil, errors.New("pass counter is required")
	}
	if validations == nil {
		return nil, errors.New("validation counter is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		passes:      passes,
		validations: validations,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}, nil
}

// Snapshot returns current statistics, serving from cache when fresh.
func (s *Service) Snapshot(ctx context.Context) (Statistics, error) {
	if s.cache == nil {
		return s.compute(ctx)
	}

	key, err := s.cacheKey(ctx)
	if err != nil {
		// Cache trouble degrades to a direct read, never to a failure.
		s.logger.WarnContext(ctx, "stats cache unavailable", "error", err)
		return s.compute(ctx)
	}

	if raw, err := s.cache.Get(ctx, key).Result(); err == nil {
		var stats Statistics
		if err := json.Unmarshal([]byte(raw), &stats); err == nil {
			return stats, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.logger.WarnContext(ctx, "stats cache read failed", "error", err)
	}

	stats, err := s.compute(ctx)
	if err != nil {
		return Statistics{}, err
	}

	if encoded, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(ctx, key, encoded, s.cacheTTL).Err(); err != nil {
			s.logger.WarnContext(ctx, "stats cache write failed", "error", err)
		}
	}
	return stats, nil
}

// Invalidate bumps the version counter so the next snapshot recomputes.
// Callers invoke it after issuance and administrative transitions.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Incr(ctx, statsVersionKey).Err(); err != nil {
		s.logger.WarnContext(ctx, "stats cache invalidation failed", "error", err)
	}
}

func (s *Service) cacheKey(ctx context.Context) (string, error) {
	version, err := s.cache.Get(ctx, statsVersionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("%s%d", statsKeyPrefix, version), nil
}

func (s *Service) compute(ctx context.Context) (Statistics, error) {
	var (
		counts map[passmodels.Status]int
		today  int
	)

	dayStart := startOfDay(requestcontext.Now(ctx))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.passes.CountByStatus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		today, err = s.validations.CountSince(gctx, dayStart)
		return err
	})
	if err := g.Wait(); err != nil {
		return Statistics{}, fmt.Errorf("compute statistics: %w", err)
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	return Statistics{
		TotalPasses:      total,
		ActivePasses:     counts[passmodels.StatusValid],
		ConsumedPasses:   counts[passmodels.StatusConsumed],
		ExpiredPasses:    counts[passmodels.StatusExpired],
		CancelledPasses:  counts[passmodels.StatusCancelled],
		TodayValidations: today,
	}, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
