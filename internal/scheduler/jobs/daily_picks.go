package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/dailypicks/internal/pipeline"
	"github.com/wonny/dailypicks/pkg/logger"
)

// DailyPicksJobName is the scheduler key of DailyPicksJob
const DailyPicksJobName = "daily_picks"

// Runner produces one daily picks document
type Runner interface {
	Run(ctx context.Context) (*pipeline.Result, error)
}

// DailyPicksJob regenerates daily-stocks.json on a cron schedule
// ⭐ SSOT: 일일 종목 추천 스케줄은 이 Job에서만
type DailyPicksJob struct {
	runner   Runner
	schedule string
	logger   *logger.Logger
}

// NewDailyPicksJob creates a new daily picks job
func NewDailyPicksJob(runner Runner, schedule string, log *logger.Logger) *DailyPicksJob {
	return &DailyPicksJob{
		runner:   runner,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *DailyPicksJob) Name() string {
	return DailyPicksJobName
}

// Schedule returns the cron schedule (with seconds)
func (j *DailyPicksJob) Schedule() string {
	return j.schedule
}

// Run executes one generation
func (j *DailyPicksJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled picks generation")

	result, err := j.runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("generate picks: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":      result.RunID,
		"total_picks": result.Document.TotalPicks,
		"dropped":     len(result.Dropped),
	}).Info("Daily picks generated")

	return nil
}
