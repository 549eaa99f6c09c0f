// Command promptdeck stores slash-command prompt snippets and expands them
// as you type.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/promptdeck/internal/adapters/driven/codec"
	"github.com/custodia-labs/promptdeck/internal/adapters/driven/config/file"
	"github.com/custodia-labs/promptdeck/internal/adapters/driven/metrics/prometheus"
	"github.com/custodia-labs/promptdeck/internal/adapters/driven/sink"
	"github.com/custodia-labs/promptdeck/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/promptdeck/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/promptdeck/internal/adapters/driving/cli"
	"github.com/custodia-labs/promptdeck/internal/adapters/driving/watcher"
	"github.com/custodia-labs/promptdeck/internal/core/domain"
	"github.com/custodia-labs/promptdeck/internal/core/ports/driven"
	"github.com/custodia-labs/promptdeck/internal/core/ports/driving"
	"github.com/custodia-labs/promptdeck/internal/core/services"
	"github.com/custodia-labs/promptdeck/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	dataDir, err := file.DefaultDir()
	if err != nil {
		return err
	}

	configStore, err := file.NewConfigStore(dataDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}

	storeDir := settings.Storage.Dir
	if storeDir == "" {
		storeDir = dataDir
	}
	store, closeStore, err := openStore(settings.Storage.Backend, storeDir)
	if err != nil {
		return err
	}
	defer closeStore() //nolint:errcheck

	recorder := prometheus.NewRecorder()
	index := services.NewCommandIndex()
	index.SetMetrics(recorder)

	promptService := services.NewPromptService(store, index)
	promptService.SetCreator(settings.Prompt.Creator)
	promptService.RegisterCodec(codec.NewJSONCodec())
	promptService.RegisterCodec(codec.NewYAMLCodec())

	submissionSink, err := sink.New(settings.Sink.Target, os.Stdout)
	if err != nil {
		return err
	}

	var promptWatcher cli.IndexWatcher
	if locator, ok := store.(driven.PromptFileLocator); ok && settings.Watch.Enabled {
		w, err := watcher.New(locator.Path(), promptService, settings.Watch.Debounce())
		if err != nil {
			return err
		}
		promptWatcher = w
	}

	logFile := settings.Log.File
	if logFile == "" {
		logFile = filepath.Join(dataDir, "logs", "promptdeck.log")
	}

	cli.SetVersion(version)
	cli.SetServices(&cli.Services{
		Prompt:   promptService,
		Settings: settingsService,
		Index:    index,
		NewEngine: func() driving.MatchEngine {
			engine := services.NewMatchEngine(index)
			engine.SetMetrics(recorder)
			return engine
		},
		Sink:    submissionSink,
		Metrics: recorder.Handler(),
		Watcher: promptWatcher,
		LogFile: logFile,
		Startup: func(ctx context.Context) error {
			report, err := promptService.Reload(ctx)
			if err != nil {
				return fmt.Errorf("loading prompts: %w", err)
			}
			for _, s := range report.Skipped {
				logger.Warn("skipped prompt %q (%s): %v", s.Title, s.Command, s.Reason)
			}
			return nil
		},
	})

	return cli.Execute()
}

// openStore opens the prompt store for backend. The returned close function
// is always non-nil.
func openStore(backend domain.StorageBackend, dir string) (driven.PromptStore, func() error, error) {
	noop := func() error { return nil }

	switch backend {
	case domain.StorageBackendSQLite:
		db, err := sqlite.NewStore(dir)
		if err != nil {
			return nil, noop, fmt.Errorf("opening sqlite store: %w", err)
		}
		return db.PromptStore(), db.Close, nil
	case domain.StorageBackendMemory:
		return memory.NewPromptStore(), noop, nil
	default:
		store, err := file.NewPromptStore(dir)
		if err != nil {
			return nil, noop, fmt.Errorf("opening prompt file: %w", err)
		}
		return store, noop, nil
	}
}
