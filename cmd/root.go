package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/talktobook/talktobook/internal/logging"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "talktobook",
	Short: "Turn voice recordings into documents and chapters",
	Long: `talktobook records voice, transcribes audio through a cloud
speech-to-text service, and organizes the resulting text into documents
and chapters.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; environment variables win either way
		_ = godotenv.Load()
		return logging.Initialize()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
