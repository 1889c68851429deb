package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Tonxzz/Main-Screener/internal/scheduler"
	"github.com/Tonxzz/Main-Screener/internal/scheduler/jobs"
)

// schedulerCmd groups cron commands
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Scheduled scans and regime refresh",
	Long: `Runs the configured jobs on cron schedules (seconds field included,
evaluated in the exchange time zone):

  regime_refresh  SCHEDULE_REGIME        refresh the market regime
  intraday_scan   SCHEDULE_INTRADAY      SCHEDULE_INTRADAY_KEYS strategies
  daily_scan      SCHEDULE_DAILY         SCHEDULE_DAILY_KEYS strategies

Example:
  go run ./cmd/screener scheduler start
  go run ./cmd/screener scheduler list
  go run ./cmd/screener scheduler run daily_scan`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Run jobs until interrupted",
		RunE:  runSchedulerStart,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run <job>",
		Short: "Run one job now",
		Args:  cobra.ExactArgs(1),
		RunE:  runSchedulerRun,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List jobs and their next run",
		RunE:  runSchedulerList,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd, schedulerRunCmd, schedulerListCmd)
}

// newScheduler registers the configured jobs
func newScheduler(a *app) (*scheduler.Scheduler, error) {
	sched := scheduler.New(a.location(), a.log)
	sc := a.cfg.Schedule

	universeFn := func() ([]string, error) {
		return universeFlags{}.resolve(a.cfg)
	}

	var list []scheduler.Job
	if sc.RegimeRefresh != "" {
		list = append(list, jobs.NewRegimeJob(sc.RegimeRefresh, a.regime, a.log))
	}
	if sc.IntradaySpec != "" && len(sc.IntradayKeys) > 0 {
		list = append(list, jobs.NewScanJob("intraday_scan", sc.IntradaySpec, sc.IntradayKeys, a.service, universeFn, a.log))
	}
	if sc.DailySpec != "" && len(sc.DailyKeys) > 0 {
		list = append(list, jobs.NewScanJob("daily_scan", sc.DailySpec, sc.DailyKeys, a.service, universeFn, a.log))
	}

	for _, key := range append(append([]string{}, sc.IntradayKeys...), sc.DailyKeys...) {
		if _, err := a.registry.Get(key); err != nil {
			return nil, fmt.Errorf("schedule: %w", err)
		}
	}
	for _, job := range list {
		if err := sched.AddJob(job); err != nil {
			return nil, err
		}
	}
	return sched, nil
}

func runSchedulerStart(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, appOptions{export: true, store: true})
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := newScheduler(a)
	if err != nil {
		return err
	}
	sched.Start()
	printJobs(sched)
	fmt.Println("\nPress Ctrl+C to stop")

	<-ctx.Done()
	a.log.Info("Stopping scheduler...")
	sched.Stop()
	a.log.Info("Scheduler stopped")
	return nil
}

func runSchedulerRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, appOptions{export: true, store: true})
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := newScheduler(a)
	if err != nil {
		return err
	}
	defer sched.Stop()

	// Ctrl+C cancels the job through the scheduler
	go func() {
		<-ctx.Done()
		sched.Stop()
	}()

	result, err := sched.RunJob(args[0])
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("%s failed after %d attempts: %s", result.JobName, result.Attempts, result.Error)
	}
	PrintSuccess(fmt.Sprintf("%s completed in %.2fs", result.JobName, result.Duration.Seconds()))
	return nil
}

func runSchedulerList(cmd *cobra.Command, args []string) error {
	a, err := newApp(context.Background(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := newScheduler(a)
	if err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	printJobs(sched)
	return nil
}

func printJobs(sched *scheduler.Scheduler) {
	PrintHeader("Scheduled jobs")
	stats := sched.Stats()

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Job", "Schedule", "Next Run")
	for _, name := range sched.JobNames() {
		st := stats[name]
		next := "-"
		if st.NextRun != nil {
			next = st.NextRun.Format(time.DateTime)
		}
		_ = table.Append(name, st.Schedule, next)
	}
	_ = table.Render()
	PrintDoubleSeparator()
}
