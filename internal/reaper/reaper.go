package reaper

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/nearme-labs/nearme/internal/clock"
	"github.com/nearme-labs/nearme/internal/lock"
	"github.com/nearme-labs/nearme/internal/observability/metrics"
	"github.com/nearme-labs/nearme/internal/paymentrequest/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sweepLockKey = "nearme:reaper:sweep"

var ErrInvalidConfig = errors.New("reaper: missing dependency")

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Locker  *lock.Locker     `optional:"true"`
	Metrics *metrics.Metrics `optional:"true"`
	Config  Config           `optional:"true"`
}

// Reaper sweeps pending payment requests past their deadline into the
// expired state. Every write is conditional on the row still being
// pending, so racing a concurrent settlement is a no-op.
type Reaper struct {
	db      *gorm.DB
	log     *zap.Logger
	cfg     Config
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	locker  *lock.Locker
	metrics *metrics.Metrics
}

func New(p Params) (*Reaper, error) {
	if p.DB == nil || p.Log == nil || p.GenID == nil || p.Clock == nil || p.Repo == nil {
		return nil, ErrInvalidConfig
	}
	return &Reaper{
		db:      p.DB,
		log:     p.Log.Named("reaper"),
		cfg:     p.Config.withDefaults(),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		locker:  p.Locker,
		metrics: p.Metrics,
	}, nil
}

// RunOnce performs a single sweep. When a redis locker is configured,
// overlapping instances are serialized; without one, per-row CAS keeps
// the sweep correct anyway.
func (r *Reaper) RunOnce(ctx context.Context) error {
	if r.locker != nil {
		token, ok, err := r.locker.TryLock(ctx, sweepLockKey, r.cfg.LockTTL)
		if err != nil {
			r.log.Warn("sweep lock unavailable, proceeding unlocked", zap.Error(err))
		} else if !ok {
			r.log.Debug("sweep lock held elsewhere, skipping run")
			return nil
		} else {
			defer func() {
				if err := r.locker.Release(ctx, sweepLockKey, token); err != nil {
					r.log.Warn("sweep lock release failed", zap.Error(err))
				}
			}()
		}
	}

	runID := r.genID.Generate().String()
	started := time.Now()
	now := r.clock.Now()
	log := r.log.With(
		zap.String("job", "expire_requests"),
		zap.String("run_id", runID),
	)
	log.Info("sweep started",
		zap.Int("batch_size", r.cfg.BatchSize),
	)

	requests, err := r.repo.FetchExpired(ctx, r.db, now, r.cfg.BatchSize)
	if err != nil {
		log.Error("sweep query failed", zap.Error(err))
		return err
	}

	var expired, skipped, errCount int
	var errs error
	for _, request := range requests {
		swapped, err := r.repo.MarkExpired(ctx, r.db, request.ID, now)
		if err != nil {
			errCount++
			errs = errors.Join(errs, err)
			log.Warn("expiry write failed",
				zap.String("request_id", request.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if !swapped {
			// Settled between snapshot and write.
			skipped++
			continue
		}
		expired++
	}

	r.metrics.RequestsExpired(expired)
	log.Info("sweep finished",
		zap.Int("expired", expired),
		zap.Int("skipped", skipped),
		zap.Int("errors", errCount),
		zap.Duration("duration", time.Since(started)),
	)
	return errs
}

func (r *Reaper) RunForever(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		if err := r.RunOnce(ctx); err != nil {
			r.log.Warn("sweep run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
