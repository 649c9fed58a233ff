// Package cli provides the cobra command tree for insightly.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/insightly-cli/internal/adapters/driven/localfile"
	"github.com/custodia-labs/insightly-cli/internal/core/ports/driving"
	"github.com/custodia-labs/insightly-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services are the core services the commands drive.
type Services struct {
	Documents    driving.DocumentStore
	Upload       driving.UploadSession
	Conversation driving.ConversationSession
	Settings     driving.SettingsService

	// Close releases resources held by the services. May be nil.
	Close func() error
}

// Options are the values of the persistent flags.
type Options struct {
	Verbose   bool
	ConfigDir string
	DataDir   string
}

// Bootstrap builds the services once flags are parsed.
type Bootstrap func(ctx context.Context, opts Options) (*Services, error)

var (
	documentStore       driving.DocumentStore
	uploadSession       driving.UploadSession
	conversationSession driving.ConversationSession
	settingsService     driving.SettingsService
	closeServices       func() error

	bootstrap Bootstrap
	options   Options

	// inspectFile sniffs a local file before upload.
	inspectFile = localfile.Inspect
)

var rootCmd = &cobra.Command{
	Use:   "insightly",
	Short: "Ask questions about your annual reports",
	Long: `Insightly uploads PDF reports to an analysis service and lets you hold
a conversation about them. Documents and conversations are kept locally.

Run "insightly chat" for the interactive interface.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&options.Verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&options.ConfigDir, "config-dir", "", "Config directory (default ~/.insightly)")
	rootCmd.PersistentFlags().StringVar(&options.DataDir, "data-dir", "", "Data directory (default ~/.insightly/data)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap registers the function that builds the services after flag parsing.
func SetBootstrap(fn Bootstrap) {
	bootstrap = fn
}

// SetServices installs the services used by the commands.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	documentStore = s.Documents
	uploadSession = s.Upload
	conversationSession = s.Conversation
	settingsService = s.Settings
	closeServices = s.Close
}

// Execute runs the root command and releases the services afterwards.
func Execute(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	err := rootCmd.ExecuteContext(ctx)
	if closeErr := teardown(); closeErr != nil {
		return errors.Join(err, fmt.Errorf("closing: %w", closeErr))
	}
	return err
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(options.Verbose)
	if bootstrap == nil || cmd == versionCmd || cmd == suggestionsCmd {
		return nil
	}

	services, err := bootstrap(cmd.Context(), options)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	SetServices(services)
	return nil
}

func teardown() error {
	if closeServices == nil {
		return nil
	}
	closeFn := closeServices
	closeServices = nil
	return closeFn()
}
