package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/talktobook/talktobook/internal/config"
	"github.com/talktobook/talktobook/internal/model"
	"github.com/talktobook/talktobook/internal/repository/recording"
	"github.com/talktobook/talktobook/internal/service"
)

// recordingCmd represents the recording command
var recordingCmd = &cobra.Command{
	Use:   "recording",
	Short: "Recording operations",
	Long:  `Operations for importing and managing voice recordings.`,
}

// recordingImportCmd imports an audio file as a new recording
var recordingImportCmd = &cobra.Command{
	Use:   "import [AUDIO_FILE]",
	Short: "Import an audio file as a new recording",
	Long:  `Copy an audio file into the managed audio directory and create a pending recording.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		srcPath := args[0]

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
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
		audioStore := service.NewAudioStore(cfg.AudioDir)
		recordingService := service.NewRecordingService(recordingRepo, audioStore)

		rec, err := recordingService.ImportRecording(ctx, srcPath)
		if err != nil {
			return fmt.Errorf("failed to import recording: %w", err)
		}

		fmt.Printf("✅ Recording imported successfully!\n")
		fmt.Printf("ID: %s\n", rec.ID)
		fmt.Printf("Audio path: %s\n", rec.AudioPath)
		if rec.DurationSeconds > 0 {
			fmt.Printf("Duration: %.1fs\n", rec.DurationSeconds)
		}
		fmt.Printf("Status: %s\n", rec.Status)

		return nil
	},
}

// recordingListCmd lists all recordings
var recordingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recordings",
	Long:  `List all recordings and their transcription status.`,
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

		recordingRepo := recording.NewRepository(dbPool)
		audioStore := service.NewAudioStore(cfg.AudioDir)
		recordingService := service.NewRecordingService(recordingRepo, audioStore)

		recordings, err := recordingService.ListRecordings(ctx)
		if err != nil {
			return fmt.Errorf("failed to list recordings: %w", err)
		}

		if len(recordings) == 0 {
			fmt.Println("No recordings found.")
			return nil
		}

		fmt.Printf("Found %d recording(s):\n\n", len(recordings))
		for _, rec := range recordings {
			printRecording(rec)
			fmt.Println("---")
		}

		return nil
	},
}

// recordingGetCmd retrieves a recording by ID
var recordingGetCmd = &cobra.Command{
	Use:   "get [RECORDING_ID]",
	Short: "Get recording by ID",
	Long:  `Retrieve a recording and its transcription state by ID.`,
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
		audioStore := service.NewAudioStore(cfg.AudioDir)
		recordingService := service.NewRecordingService(recordingRepo, audioStore)

		rec, err := recordingService.GetRecording(ctx, recordingID)
		if err != nil {
			return fmt.Errorf("failed to get recording: %w", err)
		}

		printRecording(rec)
		if rec.TranscribedText != nil {
			fmt.Printf("\n--- Transcription ---\n%s\n", *rec.TranscribedText)
		}

		return nil
	},
}

// recordingDeleteCmd deletes a recording
var recordingDeleteCmd = &cobra.Command{
	Use:   "delete [RECORDING_ID]",
	Short: "Delete recording by ID",
	Long:  `Delete a recording and its audio file.`,
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
		audioStore := service.NewAudioStore(cfg.AudioDir)
		recordingService := service.NewRecordingService(recordingRepo, audioStore)

		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			fmt.Printf("Are you sure you want to delete recording %s? Use --confirm flag to proceed.\n", recordingID)
			return nil
		}

		if err := recordingService.DeleteRecording(ctx, recordingID); err != nil {
			return fmt.Errorf("failed to delete recording: %w", err)
		}

		fmt.Printf("✅ Recording %s deleted successfully!\n", recordingID)
		return nil
	},
}

// printRecording prints a recording in the default text format
func printRecording(rec *model.Recording) {
	fmt.Printf("ID: %s\n", rec.ID)
	fmt.Printf("Status: %s\n", rec.Status)
	fmt.Printf("Audio path: %s\n", rec.AudioPath)
	if rec.DurationSeconds > 0 {
		fmt.Printf("Duration: %.1fs\n", rec.DurationSeconds)
	}
	fmt.Printf("Created: %s\n", rec.CreatedAt.Format(time.RFC3339))
	if rec.ErrorMessage != nil {
		fmt.Printf("Error: %s\n", *rec.ErrorMessage)
	}
}

func init() {
	recordingDeleteCmd.Flags().Bool("confirm", false, "Confirm deletion without prompt")

	recordingCmd.AddCommand(recordingImportCmd)
	recordingCmd.AddCommand(recordingListCmd)
	recordingCmd.AddCommand(recordingGetCmd)
	recordingCmd.AddCommand(recordingDeleteCmd)
	rootCmd.AddCommand(recordingCmd)
}
