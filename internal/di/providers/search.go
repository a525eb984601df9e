package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/inkwellapp/inkwell/internal/config"
	"github.com/inkwellapp/inkwell/internal/logger"
	"github.com/inkwellapp/inkwell/internal/render"
	"github.com/inkwellapp/inkwell/internal/search"
)

// SearchIndexHandle wraps the search index with shutdown capability.
// Index is nil when full-text search is disabled.
type SearchIndexHandle struct {
	Index   *search.SearchIndex
	Indexer *search.Indexer
}

// Enabled reports whether a full-text index is open.
func (h *SearchIndexHandle) Enabled() bool {
	return h.Index != nil
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	if h.Index == nil {
		return nil
	}
	return h.Index.Close()
}

// ProvideSearchIndex opens the Bleve index, wires it to the store and brings
// it in step with the loaded collection.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Search.Enabled {
		log.Info("Full-text search disabled by configuration")
		return &SearchIndexHandle{}, nil
	}

	storeHandle := do.MustInvoke[*StoreHandle](i)
	renderer := do.MustInvoke[*render.Renderer](i)

	index, err := search.NewSearchIndex(search.Options{
		DataPath: cfg.IndexPath(),
		Logger:   log.Component("search"),
	})
	if err != nil {
		return nil, err
	}

	indexer := search.NewIndexer(index, renderer)
	storeHandle.SetSearchIndexer(indexer)

	if rebuilt, err := indexer.Sync(context.Background(), storeHandle.All()); err != nil {
		log.Error("Initial search sync failed", "error", err)
	} else if rebuilt {
		log.Info("Search index rebuilt from store")
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{Index: index, Indexer: indexer}, nil
}
