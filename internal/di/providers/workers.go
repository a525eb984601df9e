package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/inkwellapp/inkwell/internal/backup"
	"github.com/inkwellapp/inkwell/internal/config"
	"github.com/inkwellapp/inkwell/internal/logger"
)

// InboxHandle runs the import inbox in the background.
type InboxHandle struct {
	*backup.Inbox
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (h *InboxHandle) Shutdown() error {
	if h.Inbox == nil {
		return nil
	}
	h.cancel()
	<-h.done
	return nil
}

// ProvideInbox starts watching the configured import directory. The handle
// is empty when no directory is configured.
func ProvideInbox(i do.Injector) (*InboxHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Import.WatchDir == "" {
		log.Info("Import inbox disabled")
		return &InboxHandle{}, nil
	}

	importer := do.MustInvoke[*backup.Importer](i)
	inbox := backup.NewInbox(cfg.Import.WatchDir, importer, log.Component("inbox"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		if err := inbox.Run(ctx); err != nil {
			log.Error("Import inbox stopped", "error", err)
		}
	}()

	log.Info("Import inbox started", "dir", inbox.Dir())

	return &InboxHandle{
		Inbox:  inbox,
		cancel: cancel,
		done:   done,
	}, nil
}
