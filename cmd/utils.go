package cmd

import (
	"fmt"

	"github.com/rubiojr/quarry/pkg/config"
	"github.com/rubiojr/quarry/pkg/search"
	"github.com/rubiojr/quarry/pkg/storage"
)

// openProvider builds the persistence backend selected by the config.
// Callers owning a SQLite provider must Close it.
func openProvider(cfg *config.Config) (storage.Provider, func() error, error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		provider, err := storage.NewSQLiteProvider(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite backend: %w", err)
		}
		return provider, provider.Close, nil
	case config.StorageDir:
		provider, err := storage.NewDirProvider(cfg.DatasetsDir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening datasets directory: %w", err)
		}
		return provider, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}

// openStore loads the config, opens the configured backend and populates a
// store from it. The returned cleanup must be called when done.
func openStore(configPath string) (*config.Config, *storage.Store, func() error, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}

	provider, cleanup, err := openProvider(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	store := storage.NewStore(provider, cfg.TargetCapacity)
	if err := store.Load(); err != nil {
		_ = cleanup()
		return nil, nil, nil, fmt.Errorf("loading datasets: %w", err)
	}

	return cfg, store, cleanup, nil
}

// openEngine is openStore plus a search engine on top of the store.
func openEngine(configPath string) (*config.Config, *storage.Store, *search.Engine, func() error, error) {
	cfg, store, cleanup, err := openStore(configPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return cfg, store, search.NewEngine(store), cleanup, nil
}
