package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/talktobook/talktobook/internal/config"
)

// chapterCmd represents the chapter command
var chapterCmd = &cobra.Command{
	Use:   "chapter",
	Short: "Chapter operations",
	Long:  `Operations for managing chapters within documents.`,
}

// chapterAddCmd appends a chapter to a document
var chapterAddCmd = &cobra.Command{
	Use:   "add [DOCUMENT_ID] [TITLE]",
	Short: "Add a chapter to a document",
	Long:  `Append a new chapter at the end of a document.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		documentID := args[0]
		title := args[1]
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

		chapter, err := documentService.AddChapter(ctx, documentID, title, content)
		if err != nil {
			return fmt.Errorf("failed to add chapter: %w", err)
		}

		fmt.Printf("✅ Chapter added!\nID: %s\nOrder: %d\nTitle: %s\n", chapter.ID, chapter.OrderIndex, chapter.Title)
		return nil
	},
}

// chapterListCmd lists the chapters of a document
var chapterListCmd = &cobra.Command{
	Use:   "list [DOCUMENT_ID]",
	Short: "List chapters of a document",
	Long:  `List all chapters of a document in order.`,
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

		chapters, err := documentService.ListChapters(ctx, documentID)
		if err != nil {
			return fmt.Errorf("failed to list chapters: %w", err)
		}

		if len(chapters) == 0 {
			fmt.Printf("No chapters found for document ID: %s\n", documentID)
			return nil
		}

		fmt.Printf("Found %d chapter(s):\n\n", len(chapters))
		for _, chapter := range chapters {
			fmt.Printf("[%d] %s\n", chapter.OrderIndex, chapter.Title)
			fmt.Printf("ID: %s\n", chapter.ID)
			fmt.Println("---")
		}

		return nil
	},
}

// chapterReorderCmd applies a new chapter order
var chapterReorderCmd = &cobra.Command{
	Use:   "reorder [DOCUMENT_ID] [CHAPTER_ID]...",
	Short: "Reorder the chapters of a document",
	Long:  `Set the chapter order of a document. Every chapter must be listed exactly once.`,
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		documentID := args[0]
		orderedIDs := args[1:]

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

		if err := documentService.ReorderChapters(ctx, documentID, orderedIDs); err != nil {
			return fmt.Errorf("failed to reorder chapters: %w", err)
		}

		fmt.Println("✅ Chapters reordered!")
		return nil
	},
}

// chapterDeleteCmd deletes a chapter
var chapterDeleteCmd = &cobra.Command{
	Use:   "delete [CHAPTER_ID]",
	Short: "Delete chapter by ID",
	Long:  `Delete a chapter. The remaining chapters are renumbered to stay contiguous.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chapterID := args[0]

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
			fmt.Printf("Are you sure you want to delete chapter %s? Use --confirm flag to proceed.\n", chapterID)
			return nil
		}

		if err := documentService.DeleteChapter(ctx, chapterID); err != nil {
			return fmt.Errorf("failed to delete chapter: %w", err)
		}

		fmt.Printf("✅ Chapter %s deleted successfully!\n", chapterID)
		return nil
	},
}

func init() {
	chapterAddCmd.Flags().String("content", "", "Chapter content")
	chapterDeleteCmd.Flags().Bool("confirm", false, "Confirm deletion without prompt")

	chapterCmd.AddCommand(chapterAddCmd)
	chapterCmd.AddCommand(chapterListCmd)
	chapterCmd.AddCommand(chapterReorderCmd)
	chapterCmd.AddCommand(chapterDeleteCmd)
	rootCmd.AddCommand(chapterCmd)
}
