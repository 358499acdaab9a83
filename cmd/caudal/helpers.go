package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	appconfig "github.com/caudal-io/caudal/internal/config"
	"github.com/caudal-io/caudal/internal/engine"
	"github.com/caudal-io/caudal/internal/service"
	"github.com/caudal-io/caudal/internal/storage"
)

// openStorage opens the configured SQLite database.
func openStorage() (service.Storage, error) {
	path := viper.GetString("database.path")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, ".local", "share", "caudal", "caudal.db")
	}
	path = appconfig.ExpandPath(path)

	return storage.NewSQLiteStorage(path)
}

// openEngine opens storage and builds the orchestration engine over it.
// The caller must Close the returned storage.
func openEngine() (service.Storage, *engine.Engine, error) {
	store, err := openStorage()
	if err != nil {
		return nil, nil, err
	}

	eng, err := engine.New(store, appconfig.DefaultEngine())
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return store, eng, nil
}
