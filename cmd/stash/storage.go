package main

import (
	"fmt"
	"os"

	"github.com/sagarc03/stash"
	"github.com/sagarc03/stash/config"
	"github.com/sagarc03/stash/filesystem"
)

// openService creates the storage directory if needed and builds a Service on it.
// The returned close function releases the storage root.
func openService(cfg *config.Config) (*stash.Service, func(), error) {
	if err := os.MkdirAll(cfg.Storage.Path, 0o750); err != nil {
		return nil, nil, fmt.Errorf("create storage directory: %w", err)
	}

	root, err := os.OpenRoot(cfg.Storage.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage root: %w", err)
	}

	service, err := stash.NewService(filesystem.NewFileStorage(root), stash.ServiceConfig{
		MaxUploadBytes: cfg.Server.MaxUploadSize,
	})
	if err != nil {
		_ = root.Close()
		return nil, nil, fmt.Errorf("create service: %w", err)
	}

	return service, func() { _ = root.Close() }, nil
}
