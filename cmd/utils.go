package cmd

import (
	"fmt"

	"github.com/jmontes/listry/pkg/config"
	"github.com/jmontes/listry/pkg/core"
	"github.com/jmontes/listry/pkg/filter"
	"github.com/jmontes/listry/pkg/search"
	"github.com/jmontes/listry/pkg/storage"
)

// buildRegistry creates filters from the config and registers them. A filter
// that fails to construct aborts startup; a duplicate name is logged by the
// registry and the original entry wins.
func buildRegistry(cfg *config.Config, notifier *core.Notifier) (*filter.Registry, error) {
	registry := filter.NewRegistry(notifier)

	for _, fc := range cfg.Filters {
		f, err := filter.New(fc.Definition())
		if err != nil {
			return nil, fmt.Errorf("creating filter %s: %w", fc.Name, err)
		}
		registry.Register(f)
	}

	return registry, nil
}

// newOrchestrator assembles the search orchestrator from the configured
// fields and registry.
func newOrchestrator(cfg *config.Config, registry *filter.Registry, notifier *core.Notifier) *search.Orchestrator {
	return search.NewOrchestrator(registry, cfg.FieldDefs(), notifier)
}

// openStore opens the listing database at the configured path, falling back
// to the per-user default location.
func openStore(cfg *config.Config) (*storage.Store, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		defaultPath, err := config.GetDefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolving database path: %w", err)
		}
		dbPath = defaultPath
	}

	store, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", dbPath, err)
	}
	return store, nil
}
