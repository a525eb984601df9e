package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/inkwellapp/inkwell/internal/api"
	"github.com/inkwellapp/inkwell/internal/config"
	"github.com/inkwellapp/inkwell/internal/editor"
	"github.com/inkwellapp/inkwell/internal/logger"
	"github.com/inkwellapp/inkwell/internal/render"
)

// Version is reported in the OpenAPI document. Overridden at build time.
var Version = "dev"

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	handler *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.handler.Close()
	return err
}

// ProvideHTTPServer provides the HTTP server and starts it in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	searchHandle := do.MustInvoke[*SearchIndexHandle](i)

	services := &api.Services{
		Store:    storeHandle.Store,
		Session:  do.MustInvoke[*editor.Session](i),
		Renderer: do.MustInvoke[*render.Renderer](i),
		Views:    do.MustInvoke[*render.ViewCache](i),
	}
	if searchHandle.Enabled() {
		services.Search = searchHandle.Index
	}

	handler := api.NewServer(services, api.Options{
		Version:     Version,
		CORSOrigins: cfg.Server.CORSOrigins,
	}, log.Component("api"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv, handler: handler}, nil
}
