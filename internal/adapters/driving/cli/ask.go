package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/insightly-cli/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask [question...]",
	Short: "Ask a question about a document",
	Long: `Asks one question about the current document, or the document given
with --document, and prints the answer. The question and answer are added
to the document's conversation.

Use --suggestion to ask one of the questions listed by: insightly suggestions`,
	Args: askArgs,
	RunE: runAsk,
}

var suggestionsCmd = &cobra.Command{
	Use:   "suggestions",
	Short: "List suggested questions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		for i, q := range domain.SuggestedQuestions() {
			cmd.Printf("%d. %s (%s)\n", i+1, q.Text, q.Category)
		}
		return nil
	},
}

// Flags for the ask command.
var (
	askDocumentID string
	askSuggestion int
)

func init() {
	askCmd.Flags().StringVarP(&askDocumentID, "document", "d", "", "Document to ask about (default: current)")
	askCmd.Flags().IntVarP(&askSuggestion, "suggestion", "s", 0, "Ask suggested question N instead of typing one")
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(suggestionsCmd)
}

// askArgs requires a typed question unless a suggestion is picked, but not both.
func askArgs(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("suggestion") {
		if len(args) > 0 {
			return errors.New("give either a question or --suggestion, not both")
		}
		return nil
	}
	return cobra.MinimumNArgs(1)(cmd, args)
}

// askQuestion returns the question to send, from the suggestion flag or the args.
func askQuestion(cmd *cobra.Command, args []string) (string, error) {
	if !cmd.Flags().Changed("suggestion") {
		return strings.Join(args, " "), nil
	}
	q, ok := domain.Suggestion(askSuggestion)
	if !ok {
		return "", fmt.Errorf("unknown suggestion %d, run: insightly suggestions", askSuggestion)
	}
	return q.Text, nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	if conversationSession == nil {
		return errors.New("conversation service not configured")
	}

	question, err := askQuestion(cmd, args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if askDocumentID != "" {
		if documentStore == nil {
			return errors.New("document service not configured")
		}
		doc, err := documentStore.Get(ctx, askDocumentID)
		if err != nil {
			return fmt.Errorf("failed to get document: %w", err)
		}
		if err := conversationSession.SelectDocument(ctx, *doc); err != nil {
			return fmt.Errorf("failed to select document: %w", err)
		}
	}

	doc := conversationSession.ActiveDocument()
	if doc == nil {
		return errors.New("no document selected, upload one or run: insightly document select <id>")
	}

	cmd.Printf("Asking about %s...\n\n", doc.Name)

	reply, err := conversationSession.Ask(ctx, question)
	if reply != nil {
		writeMessage(cmd.OutOrStdout(), *reply)
	}
	if err != nil {
		return fmt.Errorf("failed to get answer: %w", err)
	}
	return nil
}
