package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/niveshquant/quantfolio/internal/scheduler"
	"github.com/niveshquant/quantfolio/internal/scheduler/jobs"
	"github.com/niveshquant/quantfolio/pkg/config"
	"github.com/niveshquant/quantfolio/pkg/logger"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage the background scheduler",
	Long: `Runs the scheduler daemon or manages its jobs.

Registered jobs:
  weekly_analysis - full pipeline run (default: Friday 18:00)

Example:
  quantfolio scheduler start
  quantfolio scheduler list
  quantfolio scheduler run weekly_analysis`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler daemon",
		RunE:  runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run one job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runSchedulerJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

// initScheduler builds the scheduler with every job registered. Jobs
// share the pipeline graph from initRunner.
func initScheduler(cfg *config.Config, log *logger.Logger) (*scheduler.Scheduler, func(), error) {
	runner, _, cleanup, err := initRunner(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	sched := scheduler.New(scheduler.DefaultConfig(), log)
	job := jobs.NewAnalysisJob(runner, cfg.Data.SnapshotCSV, cfg.Scheduler.AnalysisSchedule, log)
	if err := sched.Register(job); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("register analysis job: %w", err)
	}

	return sched, cleanup, nil
}

// schedulerSetup collapses the config/logger/scheduler boilerplate the
// three subcommands repeat.
func schedulerSetup() (*scheduler.Scheduler, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	sched, cleanup, err := initScheduler(cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("init scheduler: %w", err)
	}
	return sched, cleanup, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Quantfolio Scheduler ===")

	sched, cleanup, err := schedulerSetup()
	if err != nil {
		return err
	}
	defer cleanup()

	sched.Start()

	fmt.Println("\n✅ Scheduler running")
	printJobList(sched)
	fmt.Println("\nCtrl+C to stop")

	waitForInterrupt()

	fmt.Println("\nStopping scheduler, waiting for running jobs")
	sched.Stop()
	printJobStats(sched)
	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	sched, cleanup, err := schedulerSetup()
	if err != nil {
		return err
	}
	defer cleanup()

	printJobList(sched)
	return nil
}

func runSchedulerJob(cmd *cobra.Command, args []string) error {
	sched, cleanup, err := schedulerSetup()
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Printf("Running job: %s\n", args[0])
	if err := sched.RunNow(args[0]); err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	printJobStats(sched)
	return nil
}

func printJobList(sched *scheduler.Scheduler) {
	stats := sched.Stats()
	fmt.Println("\nRegistered jobs:")
	for _, name := range sched.Jobs() {
		fmt.Printf("  - %s (%s)\n", name, stats[name].Schedule)
	}
}

func printJobStats(sched *scheduler.Scheduler) {
	stats := sched.Stats()
	fmt.Println("\nJob statistics:")
	for _, name := range sched.Jobs() {
		stat := stats[name]
		fmt.Printf("📊 %s\n", name)
		fmt.Printf("   Schedule: %s\n", stat.Schedule)
		fmt.Printf("   Runs: %d (%d ok, %d failed)\n", stat.Runs, stat.Successes, stat.Failures)
		if stat.LastRun != nil {
			fmt.Printf("   Last Run: %s\n", stat.LastRun.Format("2006-01-02 15:04:05"))
		}
		if stat.LastError != "" {
			fmt.Printf("   Last Error: %s\n", stat.LastError)
		}
	}
}
