// -----------------------------------------------------------------------
// batchpdf: minimal demo wiring for the batch job orchestration engine.
// This is not a CLI front-end (that is explicitly out of scope per
// spec.md §1) — it constructs the engine, registers the built-in PDF
// handlers, logs the supported operation list, then waits for SIGINT or
// SIGTERM and shuts the engine down.
// -----------------------------------------------------------------------

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/batchpdf/internal/batch"
	"github.com/ternarybob/batchpdf/internal/common"
	"github.com/ternarybob/batchpdf/internal/handlers"
	"github.com/ternarybob/batchpdf/internal/registry"
)

func main() {
	defer common.RecoverWithCrashFile()

	cfg := common.Defaults()
	common.SetupLogger(cfg)
	logger := common.GetLogger()

	common.PrintBanner(cfg, logger)

	reg := registry.New()
	handlers.Register(reg)

	manager, err := batch.New(cfg.Engine, reg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize batch manager")
	}

	logger.Info().Strs("operations", reg.Enumerate()).Msg("engine ready")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info().Msg("interrupt received")
	case <-ctx.Done():
	}

	fmt.Println("shutting down")
	start := time.Now()
	manager.Shutdown()
	logger.Info().Dur("elapsed", time.Since(start)).Msg("shutdown complete")

	common.PrintShutdownBanner(logger)
	common.Stop()
}
