package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crashph/crash-server/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	refreshLockKey = "analytics_update_lock"
	refreshLockTTL = 60 * time.Second
)

// RefreshLock is a redis-backed advisory lock with a TTL. The TTL bounds
// the damage of a crashed holder: the lock self-expires instead of
// locking out future refreshes. Correct across multiple server instances.
type RefreshLock struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// NewRefreshLock creates the named lock guarding the analytics refresh.
func NewRefreshLock(rdb *redis.Client) *RefreshLock {
	return &RefreshLock{rdb: rdb, key: refreshLockKey, ttl: refreshLockTTL}
}

// Acquire takes the lock or fails immediately with ErrRefreshInProgress
// when it is already held. It never queues or blocks.
func (l *RefreshLock) Acquire(ctx context.Context) error {
	ok, err := l.rdb.SetNX(ctx, l.key, "locked", l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire refresh lock: %w", err)
	}
	if !ok {
		return ErrRefreshInProgress
	}
	return nil
}

// Release drops the lock. Safe to call even after the TTL expired it.
// Runs on a detached context: a client disconnect mid-refresh must not
// leave the lock held until the TTL runs out.
func (l *RefreshLock) Release(ctx context.Context) {
	l.rdb.Del(context.WithoutCancel(ctx), l.key)
}

// SummaryService maintains the summary_analytics cache: denormalized
// resolved-report counts per (city, barangay, category).
type SummaryService struct {
	db     *pgxpool.Pool
	lock   *RefreshLock
	logger *zap.SugaredLogger
}

// NewSummaryService creates a new summary analytics service
func NewSummaryService(db *pgxpool.Pool, lock *RefreshLock, logger *zap.SugaredLogger) *SummaryService {
	return &SummaryService{db: db, lock: lock, logger: logger}
}

// Refresh idempotently recomputes and upserts the cached counts for every
// (city, barangay, category) triple among resolved reports. Reports whose
// city was never geocoded are skipped. The whole refresh is serialized by
// the redis lock; the lock is released on every path.
func (s *SummaryService) Refresh(ctx context.Context) error {
	if err := s.lock.Acquire(ctx); err != nil {
		return err
	}
	defer s.lock.Release(ctx)

	start := time.Now()

	query := `
		SELECT location_city, COALESCE(location_barangay, ''), category, COUNT(*)
		FROM tbl_reports
		WHERE status = $1 AND location_city IS NOT NULL
		GROUP BY location_city, COALESCE(location_barangay, ''), category
	`

	rows, err := s.db.Query(ctx, query, models.StatusResolved)
	if err != nil {
		return fmt.Errorf("aggregate resolved reports: %w", err)
	}

	var entries []models.SummaryAnalytics
	for rows.Next() {
		var e models.SummaryAnalytics
		if err := rows.Scan(&e.City, &e.Barangay, &e.Category, &e.ReportCount); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("aggregate resolved reports: %w", err)
	}

	upsert := `
		INSERT INTO tbl_summary_analytics (summary_id, location_city, location_barangay, category, report_count, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (location_city, location_barangay, category)
		DO UPDATE SET report_count = EXCLUDED.report_count, last_updated = EXCLUDED.last_updated
	`

	now := time.Now()
	for _, e := range entries {
		if _, err := s.db.Exec(ctx, upsert, uuid.New(), e.City, e.Barangay, e.Category, e.ReportCount, now); err != nil {
			return fmt.Errorf("upsert summary row (%s/%s/%s): %w", e.City, e.Barangay, e.Category, err)
		}
	}

	s.logger.Infow("Analytics summary refreshed",
		"entries", len(entries),
		"elapsed", time.Since(start),
	)
	return nil
}

// Start runs Refresh on a fixed interval until the context is canceled.
// A refresh already running elsewhere is not an error here.
func (s *SummaryService) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil && !errors.Is(err, ErrRefreshInProgress) {
				s.logger.Errorw("Background analytics refresh failed", "error", err)
			}
		}
	}
}
