// cmd/worker/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	reportJob "agency-erp/internal/domains/report/job"
	reportModel "agency-erp/internal/domains/report/model"
	"agency-erp/internal/shared"
	"agency-erp/pkg/container"
	"agency-erp/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}
	logger.Init(envOr("APP_ENV", "development"))

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Agency ERP background worker",
		Long: `Worker chạy asynq server + scheduler cho report jobs
(daily alerts, weekly/monthly report) và Google Calendar sync.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(serveCmd(), runCmd())
	return cmd
}

// ========================================
// serve: asynq server + scheduler
// ========================================
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the asynq worker and cron scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := container.NewContainer()
			if err != nil {
				return fmt.Errorf("init container: %w", err)
			}
			defer c.Cleanup()

			cfg := loadConfig(c.Config)

			if err := startServices(c, cfg); err != nil {
				return fmt.Errorf("startup health check: %w", err)
			}

			handlers := initializeHandlers(c)
			srv := setupAsynqServer(cfg, handlers)
			scheduler := setupScheduler(c, cfg)

			waitForShutdown(srv, scheduler)
			return nil
		},
	}
}

// ========================================
// run: chạy tay một report job (backfill / debug)
// ========================================
func runCmd() *cobra.Command {
	var (
		date    string
		enqueue bool
	)

	cmd := &cobra.Command{
		Use:       "run <daily_alerts|weekly_report|monthly_report>",
		Short:     "Run a report job once",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(reportModel.JobDailyAlerts), string(reportModel.JobWeeklyReport), string(reportModel.JobMonthlyReport)},
		RunE: func(cmd *cobra.Command, args []string) error {
			job := reportModel.JobName(args[0])
			if !job.Valid() {
				return fmt.Errorf("unknown job %q", args[0])
			}

			c, err := container.NewContainer()
			if err != nil {
				return fmt.Errorf("init container: %w", err)
			}
			defer c.Cleanup()

			var ref *time.Time
			if date != "" {
				t, err := time.ParseInLocation("2006-01-02", date, c.Config.Report.Location())
				if err != nil {
					return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
				}
				ref = &t
			}

			if enqueue {
				return enqueueReport(cmd.Context(), c.Config.Redis.Host, job, ref)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			result, err := c.ReportService.Run(ctx, job, ref)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "reference date YYYY-MM-DD (default: job's own reference)")
	cmd.Flags().BoolVar(&enqueue, "enqueue", false, "enqueue to asynq instead of running in-process")
	return cmd
}

// enqueueReport đẩy task vào queue report, worker đang chạy sẽ xử lý
func enqueueReport(ctx context.Context, redisAddr string, job reportModel.JobName, ref *time.Time) error {
	client := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	defer client.Close()

	payload := reportJob.ReportPayload{}
	if ref != nil {
		payload.Date = *ref
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	info, err := client.EnqueueContext(ctx, asynq.NewTask(reportJob.TaskType(job), body), asynq.Queue(shared.QueueReport))
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", job, err)
	}

	log.Printf("[Enqueue] ✓ %s queued (id=%s, queue=%s)", job, info.ID, info.Queue)
	return nil
}

func waitForShutdown(srv *asynqServer, scheduler *asynqScheduler) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("[Shutdown] Gracefully stopping...")
	scheduler.Shutdown()
	srv.Shutdown()
	log.Println("[Shutdown] ✓ Stopped")
}
