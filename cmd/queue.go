package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/talktobook/talktobook/internal/config"
	"github.com/talktobook/talktobook/internal/repository/queue"
	"github.com/talktobook/talktobook/internal/repository/recording"
	"github.com/talktobook/talktobook/internal/service"
)

// queueCmd represents the queue command
var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Offline transcription queue operations",
	Long:  `Operations for the queue of transcriptions deferred while offline.`,
}

// queueListCmd lists queued transcriptions
var queueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List queued transcriptions",
	Long:  `List recordings waiting in the offline transcription queue.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		cfg, err := config.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		dbPool, err := config.NewDatabasePool(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer dbPool.Close()

		queueRepo := queue.NewRepository(dbPool)
		recordingRepo := recording.NewRepository(dbPool)
		queueService := service.NewQueueService(queueRepo, recordingRepo, nil, nil)

		entries, err := queueService.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list queue: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("The transcription queue is empty.")
			return nil
		}

		fmt.Printf("Found %d queued transcription(s):\n\n", len(entries))
		for _, entry := range entries {
			fmt.Printf("Recording ID: %s\n", entry.RecordingID)
			fmt.Printf("Attempts: %d\n", entry.Attempts)
			fmt.Printf("Next retry: %s\n", entry.NextRetryAt.Format(time.RFC3339))
			fmt.Printf("Enqueued: %s\n", entry.EnqueuedAt.Format(time.RFC3339))
			fmt.Println("---")
		}

		return nil
	},
}

// queueDrainCmd drains the queue once
var queueDrainCmd = &cobra.Command{
	Use:   "drain",
	Short: "Process all due queued transcriptions",
	Long:  `Process queued transcriptions sequentially while the network is available.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		cfg, err := config.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		dbPool, err := config.NewDatabasePool(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer dbPool.Close()

		queueRepo := queue.NewRepository(dbPool)
		recordingRepo := recording.NewRepository(dbPool)
		checker := service.NewConnectivityChecker("")
		client := newTranscriptionClient(cfg)
		queueService := service.NewQueueService(queueRepo, recordingRepo, client, checker)

		result, err := queueService.Drain(ctx)
		if err != nil {
			return fmt.Errorf("failed to drain queue: %w", err)
		}

		fmt.Printf("✅ Queue drained: %d processed, %d completed, %d requeued, %d failed\n",
			result.Processed, result.Completed, result.Requeued, result.Failed)
		return nil
	},
}

// queueWatchCmd runs the connectivity monitor until interrupted
var queueWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch connectivity and drain the queue when it returns",
	Long: `Poll network connectivity and drain the offline queue whenever the
network transitions from offline to online. Runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := config.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		dbPool, err := config.NewDatabasePool(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer dbPool.Close()

		queueRepo := queue.NewRepository(dbPool)
		recordingRepo := recording.NewRepository(dbPool)
		checker := service.NewConnectivityChecker("")
		client := newTranscriptionClient(cfg)
		queueService := service.NewQueueService(queueRepo, recordingRepo, client, checker)

		fmt.Printf("Watching connectivity every %s. Press Ctrl+C to stop.\n", interval)
		queueService.RunMonitor(ctx, interval)

		fmt.Println("Stopped.")
		return nil
	},
}

func init() {
	queueWatchCmd.Flags().Duration("interval", 15*time.Second, "Connectivity poll interval")

	queueCmd.AddCommand(queueListCmd)
	queueCmd.AddCommand(queueDrainCmd)
	queueCmd.AddCommand(queueWatchCmd)
	rootCmd.AddCommand(queueCmd)
}
