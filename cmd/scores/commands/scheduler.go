package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/argie33/algo-sub009/internal/scheduler"
	"github.com/argie33/algo-sub009/internal/scheduler/jobs"
	"github.com/argie33/algo-sub009/pkg/metrics"
)

// schedulerCmd runs the unattended daily scoring daemon.
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the daily scoring scheduler",
	Long: `Starts the scheduler daemon. The daily scoring job runs on the
BATCH_CRON schedule (default weekdays after the close); the ops listener
serves /healthz and /metrics while the daemon is up.

Stop with Ctrl+C.

Example:
  go run ./cmd/scores scheduler start`,
}

var schedulerStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the scheduler daemon",
	RunE:  startScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
}

func startScheduler(cmd *cobra.Command, args []string) error {
	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.close()

	sched := scheduler.New(a.log)
	job := jobs.NewDailyScoring(a.runner, a.cfg.Batch.CronSpec, a.log)
	if err := sched.AddJob(job); err != nil {
		return fmt.Errorf("register daily scoring job: %w", err)
	}

	var ops *metrics.Server
	if a.cfg.MetricsEnabled {
		ops = metrics.NewServer(a.cfg.MetricsPort, a.db)
		go func() {
			if err := ops.Start(); err != nil {
				a.log.WithError(err).Error("ops listener stopped")
			}
		}()
		fmt.Printf("Ops listener on :%s (/healthz, /metrics)\n", a.cfg.MetricsPort)
	}

	sched.Start()
	fmt.Printf("Scheduler started, daily scoring on %q\n", a.cfg.Batch.CronSpec)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("Shutting down")
	sched.Stop()
	if ops != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = ops.Shutdown(ctx)
	}
	return nil
}
