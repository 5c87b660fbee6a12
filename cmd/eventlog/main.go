// Command eventlog consumes domain events from RabbitMQ and appends one line
// per event to a log file.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/iliyamo/gig-marketplace/internal/config"
	"github.com/iliyamo/gig-marketplace/internal/queue"
)

func main() {
	_ = godotenv.Load() // optional .env

	path := os.Getenv("EVENT_LOG_PATH")
	if path == "" {
		path = "logs/events.log"
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("eventlog: writing %s", path)
	if err := queue.Consume(ctx, config.AMQPURL(), path); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("eventlog: %v", err)
	}
	log.Println("eventlog: stopped")
}
