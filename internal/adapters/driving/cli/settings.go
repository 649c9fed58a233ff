package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/insightly-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the analysis service connection and document retention.

Settings are stored in ~/.insightly/config.toml.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Validates and stores a single setting.

Run "insightly settings keys" for the list of keys.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	RunE:  runSettingsKeys,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Service]")
	cmd.Printf("  Base URL: %s\n", settings.Service.BaseURL)
	cmd.Printf("  Ask timeout: %s\n", settings.Service.AskTimeout)
	cmd.Printf("  Max attempts: %d\n", settings.Service.MaxAttempts)
	cmd.Printf("  Backoff step: %s\n", settings.Service.BackoffStep)
	cmd.Printf("  Rate limit: %s\n", formatRate(settings.Service))
	cmd.Println()

	cmd.Println("[Documents]")
	cmd.Printf("  Retention: %d days\n", int(settings.Documents.Retention/(24*time.Hour)))
	if settings.Documents.MaxDocuments > 0 {
		cmd.Printf("  Max documents: %d\n", settings.Documents.MaxDocuments)
	} else {
		cmd.Println("  Max documents: unlimited")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("%s set to %s\n", key, value)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func formatRate(s domain.ServiceSettings) string {
	if s.RateLimit <= 0 {
		return "unlimited"
	}
	return fmt.Sprintf("%g/s (burst %d)", s.RateLimit, s.Burst)
}
