// Package main provides the Inkwell terminal client.
//
// Usage:
//
//	inkwell [flags]
//
// Flags match the server's; -open "#post-<id>" opens that post on startup.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/inkwellapp/inkwell/internal/di"
	"github.com/inkwellapp/inkwell/internal/editor"
	"github.com/inkwellapp/inkwell/internal/logger"
)

func main() {
	injector := di.NewContainer(os.Args[1:])
	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		_ = injector.Shutdown()
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)
	session := do.MustInvoke[*editor.Session](injector)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	printlnFn(`Inkwell. Type "help" for commands.`)
	runREPL(ctx, session, newInputScanner(os.Stdin))

	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}
}
