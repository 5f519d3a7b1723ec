package commands

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/dailypicks/internal/pipeline"
	"github.com/wonny/dailypicks/internal/scheduler"
	"github.com/wonny/dailypicks/internal/scheduler/jobs"
	"github.com/wonny/dailypicks/pkg/config"
	"github.com/wonny/dailypicks/pkg/logger"
)

var cronExpr string

// scheduleCmd represents the schedule command
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the generator on a cron schedule",
	Long: `Runs the picks generator as a daemon.

Subcommands:
  start  - start the scheduler (Ctrl+C to stop)
  run    - run the job once now, with the scheduler's retry policy
  next   - print the next scheduled run

The schedule comes from SCHEDULE_CRON (seconds first, default "0 30 6 * * 1-5")
or --cron. Failed runs are retried SCHEDULE_RETRIES times (default 0),
SCHEDULE_RETRY_DELAY apart.

Example:
  go run ./cmd/dailypicks schedule start
  go run ./cmd/dailypicks schedule start --cron "0 0 7 * * 1-5"
  go run ./cmd/dailypicks schedule run
  go run ./cmd/dailypicks schedule next`,
}

var (
	scheduleStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler",
		RunE:  runScheduler,
	}

	scheduleRunCmd = &cobra.Command{
		Use:         "run",
		Short:       "Run the job once now",
		Annotations: generates,
		RunE:        runScheduledJob,
	}

	scheduleNextCmd = &cobra.Command{
		Use:   "next",
		Short: "Print the next scheduled run",
		RunE:  showNext,
	}
)

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.AddCommand(scheduleStartCmd)
	scheduleCmd.AddCommand(scheduleRunCmd)
	scheduleCmd.AddCommand(scheduleNextCmd)

	scheduleCmd.PersistentFlags().StringVar(&cronExpr, "cron", "", "cron expression with seconds (overrides SCHEDULE_CRON)")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, cleanup, err := pipeline.Build(ctx, cfg, log, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer cleanup()

	sched, err := initScheduler(cfg, log, p)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	sched.Start(ctx)

	PrintDoubleSeparator(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), "  Daily Picks Scheduler")
	PrintSeparator(cmd.OutOrStdout())
	for _, name := range sched.GetAllJobs() {
		next, _ := sched.Next(name)
		fmt.Fprintf(cmd.OutOrStdout(), "  %-12s next run %s\n", name, next.Format("2006-01-02 15:04:05 MST"))
	}
	PrintDoubleSeparator(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

	<-ctx.Done()

	fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down scheduler...")
	sched.Stop()
	printStats(cmd, sched)

	return nil
}

func runScheduledJob(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, cleanup, err := pipeline.Build(ctx, cfg, log, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer cleanup()

	sched, err := initScheduler(cfg, log, p)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	result, err := sched.RunJob(ctx, jobs.DailyPicksJobName)
	if err != nil {
		return err
	}
	if !result.Success {
		return errors.New(result.Error)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n✅ Job %s completed in %.2fs\n", result.JobName, result.Duration.Seconds())
	return nil
}

func showNext(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	sched, err := initScheduler(cfg, log, nil)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	for _, name := range sched.GetAllJobs() {
		next, err := sched.Next(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, next.Format("2006-01-02 15:04:05 MST"))
	}

	return nil
}

func printStats(cmd *cobra.Command, sched *scheduler.Scheduler) {
	for name, stat := range sched.GetJobStats() {
		fmt.Fprintf(cmd.OutOrStdout(), "📊 %s: %d runs, %d failed (%.1f%% success)\n",
			name, stat.TotalRuns, stat.FailureCount, stat.SuccessRate*100)
	}
}

func initScheduler(cfg *config.Config, log *logger.Logger, runner jobs.Runner) (*scheduler.Scheduler, error) {
	schedule := cfg.ScheduleCron
	if cronExpr != "" {
		schedule = cronExpr
	}

	sched := scheduler.New(log)
	if cfg.ScheduleRetries > 0 {
		sched.WithRetry(cfg.ScheduleRetries, cfg.ScheduleRetryDelay)
	}
	if err := sched.AddJob(jobs.NewDailyPicksJob(runner, schedule, log)); err != nil {
		return nil, err
	}

	return sched, nil
}
