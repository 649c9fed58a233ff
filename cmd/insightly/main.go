// Command insightly uploads annual reports to an analysis service and
// holds conversations about them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/custodia-labs/insightly-cli/internal/adapters/driven/analysis/httpapi"
	"github.com/custodia-labs/insightly-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/insightly-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/insightly-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/insightly-cli/internal/core/services"
	"github.com/custodia-labs/insightly-cli/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	err := cli.Execute(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// bootstrap wires the adapters into the core services.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	dataDir := opts.DataDir
	if dataDir == "" && opts.ConfigDir != "" {
		dataDir = filepath.Join(opts.ConfigDir, "data")
	}
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	documents := services.NewDocumentStore(store,
		services.WithMaxDocuments(settings.Documents.MaxDocuments))
	client := httpapi.NewClientFromSettings(settings.Service, "insightly/"+version)
	upload := services.NewUploadSession(documents, client,
		services.WithRetention(settings.Documents.Retention))
	conversation := services.NewConversationSession(documents, client)

	if _, err := documents.PurgeExpired(ctx, time.Now()); err != nil {
		logger.Warn("Purging expired documents: %v", err)
	}
	conversation.Restore(ctx)
	logger.Debug("Analysis service at %s", client.BaseURL())

	return &cli.Services{
		Documents:    documents,
		Upload:       upload,
		Conversation: conversation,
		Settings:     settingsService,
		Close:        store.Close,
	}, nil
}
