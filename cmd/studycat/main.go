// Command studycat checks metadata records offline and curates a study catalog
// database from the command line.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"studycat/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.NewWithWriter(os.Stderr, envOr("LOG_LEVEL", "warn"), "text")
	root := newRootCmd(&cli{
		out:    os.Stdout,
		logger: log,
		open:   openCatalog,
	})
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
