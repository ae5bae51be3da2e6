package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/talktobook/talktobook/internal/config"
	"github.com/talktobook/talktobook/internal/repository/common"
	"github.com/talktobook/talktobook/internal/repository/document"
	"github.com/talktobook/talktobook/internal/repository/recording"
	"github.com/talktobook/talktobook/internal/service"
)

// newDocumentService wires the document service for a command invocation
func newDocumentService(dbPool common.Pool) service.DocumentService {
	documentRepo := document.NewRepository(dbPool)
	chapterRepo := document.NewChapterRepository(dbPool)
	recordingRepo := recording.NewRepository(dbPool)
	return service.NewDocumentService(documentRepo, chapterRepo, recordingRepo)
}

// documentCmd represents the document command
var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Document operations",
	Long:  `Operations for creating and managing documents built from transcriptions.`,
}

// documentCreateCmd creates a document
var documentCreateCmd = &cobra.Command{
	Use:   "create [TITLE]",
	Short: "Create a document",
	Long:  `Create a new document, optionally from a completed recording's transcription.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := args[0]
		fromRecording, _ := cmd.Flags().GetString("from-recording")
		content, _ := cmd.Flags().GetString("content")

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

		documentService := newDocumentService(dbPool)

		if fromRecording != "" {
			created, err := documentService.CreateFromRecording(ctx, fromRecording, title)
			if err != nil {
				return fmt.Errorf("failed to create document: %w", err)
			}
			fmt.Printf("✅ Document created from recording!\nID: %s\nTitle: %s\n", created.ID, created.Title)
			return nil
		}

		created, err := documentService.CreateDocument(ctx, title, content)
		if err != nil {
			return fmt.Errorf("failed to create document: %w", err)
		}

		fmt.Printf("✅ Document created!\nID: %s\nTitle: %s\n", created.ID, created.Title)
		return nil
	},
}

// documentListCmd lists documents
var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	Long:  `List all documents.`,
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

		documentService := newDocumentService(dbPool)

		documents, err := documentService.ListDocuments(ctx)
		if err != nil {
			return fmt.Errorf("failed to list documents: %w", err)
		}

		if len(documents) == 0 {
			fmt.Println("No documents found.")
			return nil
		}

		fmt.Printf("Found %d document(s):\n\n", len(documents))
		for _, doc := range documents {
			fmt.Printf("ID: %s\n", doc.ID)
			fmt.Printf("Title: %s\n", doc.Title)
			fmt.Printf("Created: %s\n", doc.CreatedAt.Format(time.RFC3339))
			fmt.Println("---")
		}

		return nil
	},
}

// documentGetCmd retrieves a document with its chapters
var documentGetCmd = &cobra.Command{
	Use:   "get [DOCUMENT_ID]",
	Short: "Get document by ID",
	Long:  `Retrieve a document and its chapters by ID.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		documentID := args[0]

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

		documentService := newDocumentService(dbPool)

		doc, chapters, err := documentService.GetDocument(ctx, documentID)
		if err != nil {
			return fmt.Errorf("failed to get document: %w", err)
		}

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "json":
			result := map[string]interface{}{
				"document": doc,
				"chapters": chapters,
			}
			jsonData, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to format JSON: %w", err)
			}
			fmt.Println(string(jsonData))

		default:
			fmt.Printf("ID: %s\n", doc.ID)
			fmt.Printf("Title: %s\n", doc.Title)
			fmt.Printf("Created: %s\n", doc.CreatedAt.Format(time.RFC3339))
			fmt.Printf("\n%s\n", doc.Content)

			if len(chapters) > 0 {
				fmt.Printf("\n--- Chapters (%d) ---\n", len(chapters))
				for _, chapter := range chapters {
					fmt.Printf("[%d] %s (%s)\n", chapter.OrderIndex, chapter.Title, chapter.ID)
				}
			}
		}

		return nil
	},
}

// documentDeleteCmd deletes a document
var documentDeleteCmd = &cobra.Command{
	Use:   "delete [DOCUMENT_ID]",
	Short: "Delete document by ID",
	Long:  `Delete a document and all its chapters.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		documentID := args[0]

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

		documentService := newDocumentService(dbPool)

		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			fmt.Printf("Are you sure you want to delete document %s? Use --confirm flag to proceed.\n", documentID)
			return nil
		}

		if err := documentService.DeleteDocument(ctx, documentID); err != nil {
			return fmt.Errorf("failed to delete document: %w", err)
		}

		fmt.Printf("✅ Document %s deleted successfully!\n", documentID)
		return nil
	},
}

// documentMergeCmd merges documents into a new one
var documentMergeCmd = &cobra.Command{
	Use:   "merge [DOCUMENT_ID]...",
	Short: "Merge documents into a new document",
	Long:  `Concatenate two or more documents, in the given order, into a new document.`,
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")

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

		documentService := newDocumentService(dbPool)

		doc, err := documentService.MergeDocuments(ctx, args, title)
		if err != nil {
			return fmt.Errorf("failed to merge documents: %w", err)
		}

		fmt.Printf("✅ Documents merged!\nID: %s\nTitle: %s\n", doc.ID, doc.Title)
		return nil
	},
}

func init() {
	documentCreateCmd.Flags().String("from-recording", "", "Create from a completed recording's transcription")
	documentCreateCmd.Flags().String("content", "", "Initial document content")
	documentGetCmd.Flags().String("format", "text", "Output format: text, json")
	documentDeleteCmd.Flags().Bool("confirm", false, "Confirm deletion without prompt")
	documentMergeCmd.Flags().String("title", "", "Title for the merged document")

	documentCmd.AddCommand(documentCreateCmd)
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	documentCmd.AddCommand(documentMergeCmd)
	rootCmd.AddCommand(documentCmd)
}
