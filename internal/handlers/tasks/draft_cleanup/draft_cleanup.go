package draft_cleanup

import (
	"context"
	"fmt"
	"time"

	"shipping/pkg/logger"
)

// DraftCleanup удаляет пустые черновики отправок старше maxAge.
type DraftCleanup struct {
	log      logger.Logger
	service  Service
	interval time.Duration
	maxAge   time.Duration
}

func New(log logger.Logger, service Service, interval, maxAge time.Duration) *DraftCleanup {
	return &DraftCleanup{
		log:      log,
		service:  service,
		interval: interval,
		maxAge:   maxAge,
	}
}

func (d *DraftCleanup) TTL() time.Duration {
	return d.interval
}

func (d *DraftCleanup) Do(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, d.interval)
	defer cancel()

	deleted, err := d.service.CleanupStaleDrafts(ctxWithTimeout, d.maxAge)
	if err != nil {
		return fmt.Errorf("draft cleanup: %w", err)
	}

	if deleted > 0 {
		d.log.With(
			logger.NewField("deleted_drafts", deleted),
			logger.NewField("max_age", d.maxAge),
		).Info("draft cleanup")
	}
	return nil
}

func (d *DraftCleanup) Info() string {
	return "draft cleanup"
}
