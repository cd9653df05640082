// Command worker runs the mutation worker: it consumes post commands from the
// broker, applies them to PostgreSQL, and invalidates the Redis read cache.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/inkwell-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.RunWorker(ctx); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
