package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/talktobook/talktobook/internal/config"
	"github.com/talktobook/talktobook/internal/repository/queue"
	"github.com/talktobook/talktobook/internal/repository/recording"
	"github.com/talktobook/talktobook/internal/service"
	"github.com/talktobook/talktobook/internal/service/transcriber"
)

// newTranscriptionClient builds the layered transcription client:
// HTTP call -> retry on transient failures -> TTL result cache
func newTranscriptionClient(cfg *config.Config) transcriber.Client {
	base := transcriber.NewHTTPClient(transcriber.Options{
		Endpoint: cfg.TranscriptionURL,
		APIKey:   cfg.TranscriptionKey,
		Timeout:  120 * time.Second,
	})
	retrying := transcriber.NewRetryingClient(base, transcriber.DefaultRetryPolicy())
	return transcriber.NewCachingClient(retrying, transcriber.DefaultCacheSize, transcriber.DefaultCacheTTL)
}

// transcriptionCmd represents the transcription command
var transcriptionCmd = &cobra.Command{
	Use:   "transcription",
	Short: "Transcription operations for recordings",
	Long:  `Operations for transcribing recorded audio through the cloud speech-to-text service.`,
}

// transcriptionCreateCmd transcribes a recording
var transcriptionCreateCmd = &cobra.Command{
	Use:   "create [RECORDING_ID]",
	Short: "Transcribe a recording",
	Long: `Send a recording's audio to the speech-to-text service and store the
resulting text. When the network is unavailable the recording is queued and
processed once connectivity returns.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recordingID := args[0]

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
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

		recordingRepo := recording.NewRepository(dbPool)
		queueRepo := queue.NewRepository(dbPool)
		checker := service.NewConnectivityChecker("")
		client := newTranscriptionClient(cfg)

		transcriptionService := service.NewTranscriptionService(recordingRepo, queueRepo, client, checker)

		fmt.Printf("Transcribing recording %s...\n", recordingID)

		rec, queued, err := transcriptionService.TranscribeRecording(ctx, recordingID)
		if err != nil {
			return fmt.Errorf("failed to transcribe recording: %w", err)
		}

		if queued {
			fmt.Printf("📡 Network unavailable. Recording %s queued for transcription.\n", rec.ID)
			fmt.Println("Run 'talktobook queue drain' once connectivity returns, or 'talktobook queue watch'.")
			return nil
		}

		fmt.Printf("✅ Transcription completed!\n")
		fmt.Printf("ID: %s\n", rec.ID)
		fmt.Printf("Status: %s\n", rec.Status)
		if rec.TranscribedText != nil {
			fmt.Printf("\n--- Text ---\n%s\n", *rec.TranscribedText)
		}

		return nil
	},
}

// transcriptionGetCmd retrieves the transcription state of a recording
var transcriptionGetCmd = &cobra.Command{
	Use:   "get [RECORDING_ID]",
	Short: "Get transcription state by recording ID",
	Long:  `Retrieve a recording's transcription status and text.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recordingID := args[0]

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

		recordingRepo := recording.NewRepository(dbPool)
		queueRepo := queue.NewRepository(dbPool)

		transcriptionService := service.NewTranscriptionService(recordingRepo, queueRepo, nil, nil)

		rec, err := transcriptionService.GetTranscription(ctx, recordingID)
		if err != nil {
			return fmt.Errorf("failed to get transcription: %w", err)
		}

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "json":
			jsonData, err := json.MarshalIndent(rec, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to format JSON: %w", err)
			}
			fmt.Println(string(jsonData))

		default:
			printRecording(rec)
			if rec.TranscribedText != nil {
				fmt.Printf("\n--- Text ---\n%s\n", *rec.TranscribedText)
			}
		}

		return nil
	},
}

func init() {
	transcriptionGetCmd.Flags().String("format", "text", "Output format: text, json")

	transcriptionCmd.AddCommand(transcriptionCreateCmd)
	transcriptionCmd.AddCommand(transcriptionGetCmd)
	rootCmd.AddCommand(transcriptionCmd)
}
