// Package di provides dependency injection configuration for Inkwell.
package di

import (
	"github.com/samber/do/v2"

	"github.com/inkwellapp/inkwell/internal/config"
	"github.com/inkwellapp/inkwell/internal/di/providers"
	"github.com/inkwellapp/inkwell/internal/editor"
	"github.com/inkwellapp/inkwell/internal/logger"
)

// NewContainer creates and configures the DI container with all providers.
// Services are built lazily, so front ends only pay for what they invoke.
func NewContainer(args []string) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ConfigProvider(args))
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)

	// Rendering and search
	do.Provide(injector, providers.ProvideRenderer)
	do.Provide(injector, providers.ProvideViewCache)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Editor
	do.Provide(injector, providers.ProvideImporter)
	do.Provide(injector, providers.ProvideSession)

	// Workers
	do.Provide(injector, providers.ProvideInbox)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes the editor core shared by every front end.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)

	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.SearchIndexHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*editor.Session](injector); err != nil {
		return err
	}
	return nil
}

// StartServer brings up the background workers and the HTTP server.
func StartServer(injector *do.RootScope) error {
	if err := Bootstrap(injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.InboxHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	return nil
}
