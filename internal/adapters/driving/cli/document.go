package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/insightly-cli/internal/core/domain"
)

// now is the clock used by purge and expiry display.
var now = time.Now

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage uploaded documents",
	Long:  `List, inspect, select, or delete uploaded reports and their conversations.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentShowCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Show document details",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentShow,
}

var documentSelectCmd = &cobra.Command{
	Use:   "select [doc-id]",
	Short: "Make a document the current one",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentSelect,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document and its conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var documentPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove expired documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentPurge,
}

var documentMessagesCmd = &cobra.Command{
	Use:   "messages [doc-id]",
	Short: "Print a document's conversation",
	Long:  `Prints the conversation of the given document, or of the current document.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDocumentMessages,
}

func init() {
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentShowCmd)
	documentCmd.AddCommand(documentSelectCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	documentCmd.AddCommand(documentPurgeCmd)
	documentCmd.AddCommand(documentMessagesCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentStore == nil {
		return errors.New("document service not configured")
	}

	ctx := cmd.Context()
	docs := documentStore.List(ctx)
	if len(docs) == 0 {
		cmd.Println("No documents. Upload one with: insightly upload <file.pdf>")
		return nil
	}

	currentID := ""
	if current := documentStore.Current(ctx); current != nil {
		currentID = current.ID
	}

	cmd.Println("Documents:")
	cmd.Println()
	for i := range docs {
		marker := " "
		if docs[i].ID == currentID {
			marker = "*"
		}
		cmd.Printf("%s %s\n", marker, docs[i].ID)
		cmd.Printf("    Name:     %s\n", docs[i].Name)
		cmd.Printf("    Uploaded: %s\n", docs[i].CreatedAt.Local().Format(timeLayout))
		cmd.Printf("    Messages: %d\n", len(docs[i].Messages))
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentShow(cmd *cobra.Command, args []string) error {
	if documentStore == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentStore.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Name:      %s\n", doc.Name)
	cmd.Printf("  Size:      %s\n", formatSize(doc.SizeBytes))
	cmd.Printf("  Modified:  %s\n", doc.LastModified.Local().Format(timeLayout))
	cmd.Printf("  Uploaded:  %s\n", doc.CreatedAt.Local().Format(timeLayout))
	expiry := doc.ExpiresAt.Local().Format(timeLayout)
	if doc.Expired(now()) {
		expiry += " (expired)"
	}
	cmd.Printf("  Expires:   %s\n", expiry)
	cmd.Printf("  Text:      %d characters\n", len([]rune(doc.Text)))
	cmd.Printf("  Messages:  %d\n", len(doc.Messages))
	return nil
}

func runDocumentSelect(cmd *cobra.Command, args []string) error {
	if documentStore == nil || conversationSession == nil {
		return errors.New("document service not configured")
	}

	ctx := cmd.Context()
	doc, err := documentStore.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}
	if err := conversationSession.SelectDocument(ctx, *doc); err != nil {
		return fmt.Errorf("failed to select document: %w", err)
	}

	cmd.Printf("Current document: %s (%s)\n", doc.Name, doc.ID)
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if conversationSession == nil {
		return errors.New("document service not configured")
	}

	if err := conversationSession.DeleteDocument(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Document %s deleted.\n", args[0])
	return nil
}

func runDocumentPurge(cmd *cobra.Command, _ []string) error {
	if documentStore == nil {
		return errors.New("document service not configured")
	}

	removed, err := documentStore.PurgeExpired(cmd.Context(), now())
	if err != nil {
		return fmt.Errorf("failed to purge documents: %w", err)
	}

	cmd.Printf("Removed %d expired documents.\n", removed)
	return nil
}

func runDocumentMessages(cmd *cobra.Command, args []string) error {
	if documentStore == nil {
		return errors.New("document service not configured")
	}

	var doc *domain.Document
	if len(args) == 1 {
		found, err := documentStore.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get document: %w", err)
		}
		doc = found
	} else if doc = documentStore.Current(cmd.Context()); doc == nil {
		return domain.ErrNoDocumentSelected
	}

	cmd.Printf("Conversation about %s:\n\n", doc.Name)
	for _, msg := range doc.Messages {
		writeMessage(cmd.OutOrStdout(), msg)
		cmd.Println()
	}
	return nil
}
