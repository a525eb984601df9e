package providers

import (
	"context"
	"fmt"
	"os"

	"github.com/samber/do/v2"

	"github.com/inkwellapp/inkwell/internal/config"
	"github.com/inkwellapp/inkwell/internal/logger"
	"github.com/inkwellapp/inkwell/internal/store"
	"github.com/inkwellapp/inkwell/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the configured slot backend and loads the collection.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := os.MkdirAll(cfg.Data.BasePath, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	slot, err := openSlot(cfg, log)
	if err != nil {
		return nil, err
	}

	db := store.New(store.Options{
		Slot:   slot,
		Key:    cfg.Data.StorageKey,
		Logger: log.Component("store"),
	})
	db.Load(context.Background())

	log.Info("Store initialized",
		"backend", cfg.Data.Backend,
		"path", cfg.StorePath(),
		"posts", db.Len(),
	)

	return &StoreHandle{Store: db}, nil
}

func openSlot(cfg *config.Config, log *logger.Logger) (store.Slot, error) {
	switch cfg.Data.Backend {
	case config.BackendSQLite:
		return sqlite.Open(cfg.StorePath(), log.Component("sqlite"))
	default:
		return store.OpenBadger(cfg.StorePath(), log.Component("badger"))
	}
}
