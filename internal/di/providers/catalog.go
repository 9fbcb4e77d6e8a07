package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/JovelRamos/myfi-server/internal/catalog"
	"github.com/JovelRamos/myfi-server/internal/config"
	"github.com/JovelRamos/myfi-server/internal/logger"
)

// ProvideCatalogImporter provides the catalog file importer.
func ProvideCatalogImporter(i do.Injector) (*catalog.Importer, error) {
	st := do.MustInvoke[*StoreHandle](i)
	index := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return catalog.NewImporter(st.Store, index.Index, log.Logger), nil
}

// CatalogHandle owns the seed import and the reload watcher lifecycle.
type CatalogHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (h *CatalogHandle) Shutdown() error {
	if h.cancel != nil {
		h.cancel()
		<-h.done
	}
	return nil
}

// ProvideCatalogReloader loads the seed catalog and, when watching is
// enabled, keeps it in sync with the data-collection pipeline's output.
func ProvideCatalogReloader(i do.Injector) (*CatalogHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	importer := do.MustInvoke[*catalog.Importer](i)

	handle := &CatalogHandle{done: make(chan struct{})}
	close(handle.done)

	if cfg.Catalog.SeedFile == "" {
		log.Info("No catalog seed file configured")
		return handle, nil
	}

	count, err := importer.ImportFile(context.Background(), cfg.Catalog.SeedFile)
	if err != nil {
		return nil, err
	}
	log.Info("Catalog seeded", "file", cfg.Catalog.SeedFile, "books", count)

	if !cfg.Catalog.Watch {
		return handle, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	handle.cancel = cancel
	handle.done = make(chan struct{})

	reloader := catalog.NewReloader(importer, cfg.Catalog.SeedFile, log.Logger)
	go func() {
		defer close(handle.done)
		if err := reloader.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("Catalog watcher stopped", "error", err)
		}
	}()

	log.Info("Catalog watcher started", "file", cfg.Catalog.SeedFile)
	return handle, nil
}
