package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/reeltv/reeltv/internal/config"
	"github.com/reeltv/reeltv/internal/recommendation"
	"github.com/reeltv/reeltv/internal/scheduler"
)

// RecommendationsTaskID identifies the periodic recommendation refresh.
const RecommendationsTaskID = "recommendations-refresh"

// DefaultRecommendationsInterval is used when no interval is configured.
const DefaultRecommendationsInterval = 30 * time.Minute

// Refresher publishes a new set of recommendations.
type Refresher interface {
	Refresh(ctx context.Context) ([]recommendation.Card, error)
}

func buildIntervalCronExpr(interval time.Duration) string {
	if interval < time.Minute {
		interval = DefaultRecommendationsInterval
	}
	return fmt.Sprintf("@every %s", interval.String())
}

// RegisterRecommendationsTask registers the recommendation refresh. It runs
// once at startup and then on the configured interval.
func RegisterRecommendationsTask(sched *scheduler.Scheduler, svc Refresher, cfg *config.RecommendationsConfig) error {
	if !cfg.Enabled {
		return nil
	}

	return sched.RegisterTask(scheduler.TaskConfig{
		ID:          RecommendationsTaskID,
		Name:        "Recommendations Refresh",
		Description: "Publishes home-screen recommendation cards",
		Cron:        buildIntervalCronExpr(cfg.Interval),
		RunOnStart:  true,
		Timeout:     5 * time.Minute,
		Func: func(ctx context.Context) error {
			_, err := svc.Refresh(ctx)
			if errors.Is(err, recommendation.ErrRefreshInProgress) {
				return nil
			}
			return err
		},
	})
}
