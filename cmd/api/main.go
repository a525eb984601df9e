// Package main provides the entry point for the Inkwell HTTP server.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/inkwellapp/inkwell/internal/di"
	"github.com/inkwellapp/inkwell/internal/logger"
)

func main() {
	// Create DI container
	injector := di.NewContainer(os.Args[1:])

	// Bootstrap the store, index, session and server
	if err := di.StartServer(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		_ = injector.Shutdown()
		os.Exit(1)
	}

	// Get logger for shutdown messages
	log := do.MustInvoke[*logger.Logger](injector)

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	// The container stops the server before closing the index and the store.
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}

	log.Info("Goodbye")
}
