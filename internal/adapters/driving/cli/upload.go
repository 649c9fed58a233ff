package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/insightly-cli/internal/core/ports/driving"
)

// progressInterval is how often the upload progress line is refreshed.
var progressInterval = 200 * time.Millisecond

var uploadCmd = &cobra.Command{
	Use:   "upload [file.pdf]",
	Short: "Upload a PDF report",
	Long: `Uploads a PDF report to the analysis service. The extracted text is
stored locally and the report becomes the current document.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if uploadSession == nil {
		return errors.New("upload service not configured")
	}

	file, err := inspectFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	// A previous attempt in this process must be cleared first.
	if uploadSession.State().Phase.Terminal() {
		if err := uploadSession.Reset(); err != nil {
			return err
		}
	}

	cmd.Printf("Uploading %s (%s)...\n", file.Name, formatSize(file.SizeBytes))

	ctx := cmd.Context()
	errCh := make(chan error, 1)
	go func() {
		errCh <- uploadSession.Select(ctx, file)
	}()

	if err := uploadWithProgress(ctx, cmd, uploadSession, errCh); err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	doc := uploadSession.Document()
	if doc == nil {
		return errors.New("upload failed: no document stored")
	}
	cmd.Printf("Stored %s as document %s.\n", doc.Name, doc.ID)
	cmd.Printf("Expires: %s\n", doc.ExpiresAt.Local().Format(timeLayout))
	return nil
}

// uploadWithProgress polls the session while the upload runs.
func uploadWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	session driving.UploadSession,
	errCh <-chan error,
) error {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	last := -1.0
	for {
		select {
		case err := <-errCh:
			if last >= 0 {
				cmd.Println()
			}
			return err
		case <-ctx.Done():
			session.Cancel()
			return <-errCh
		case <-ticker.C:
			st := session.State()
			if st.IsUploading() && st.Progress > last {
				cmd.Printf("\rUploading... %3.0f%%", st.Progress)
				last = st.Progress
			}
		}
	}
}
