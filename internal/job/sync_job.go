package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/docindex/internal/model"
	"github.com/xxxsen/docindex/internal/service"
)

// SyncJob runs a scheduled sync pass for each configured user. One user's
// failure does not stop the rest.
type SyncJob struct {
	index    *service.IndexService
	users    []string
	strategy model.SyncStrategy
	limit    int
}

func NewSyncJob(index *service.IndexService, users []string, strategy string, limit int) *SyncJob {
	return &SyncJob{
		index:    index,
		users:    users,
		strategy: model.SyncStrategy(strategy),
		limit:    limit,
	}
}

func (j *SyncJob) Name() string {
	return "index_sync"
}

func (j *SyncJob) Run(ctx context.Context) error {
	logger := logutil.GetLogger(ctx)
	for _, userID := range j.users {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		report, err := j.index.Sync(ctx, userID, j.strategy, j.limit)
		if err != nil {
			logger.Error("scheduled sync failed", zap.String("user_id", userID), zap.Error(err))
			continue
		}
		logger.Info("scheduled sync done",
			zap.String("user_id", userID),
			zap.Bool("up_to_date", report.UpToDate),
			zap.Int("processed", report.Processed),
			zap.Int("skipped", report.Skipped),
			zap.Int("failed", report.Failed),
		)
	}
	return nil
}
