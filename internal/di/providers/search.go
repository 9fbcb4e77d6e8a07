package providers

import (
	"github.com/samber/do/v2"

	"github.com/JovelRamos/myfi-server/internal/logger"
	"github.com/JovelRamos/myfi-server/internal/search"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the in-memory full-text index. The catalog
// pipeline fills it after import.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewIndex(log.Logger)
	if err != nil {
		return nil, err
	}

	return &SearchIndexHandle{Index: index}, nil
}
