package main // Entry point package

import (
	"context"   // Shutdown deadline
	"errors"    // Server closed sentinel
	"log"       // Logging library
	"net/http"  // http.ErrServerClosed
	"os"        // Signal types
	"os/signal" // SIGINT/SIGTERM handling
	"syscall"   // Signal numbers
	"time"      // Timeouts

	glog "github.com/labstack/gommon/log" // Echo logger levels

	"github.com/iliyamo/gig-marketplace/internal/config"   // Internal config loader
	"github.com/iliyamo/gig-marketplace/internal/database" // Store connection and migrations
	"github.com/iliyamo/gig-marketplace/internal/events"   // Domain event publisher
	"github.com/iliyamo/gig-marketplace/internal/handler"  // HTTP handlers
	"github.com/iliyamo/gig-marketplace/internal/router"   // Internal router setup
)

func main() {
	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg) // Connect and ping; the API cannot run without a store
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	if err := database.Migrate(migrateCtx, db, cfg.DBDriver); err != nil {
		cancel()
		log.Fatalf("database: %v", err)
	}
	cancel()

	var pub events.Publisher = events.Nop{} // Events are dropped unless a broker is configured
	if cfg.AMQPURL != "" {
		amqpPub := events.NewAMQP(cfg.AMQPURL)
		defer func() {
			if err := amqpPub.Close(); err != nil {
				log.Printf("events: %v", err)
			}
		}()
		pub = amqpPub
	}

	rdb := config.NewRedisClient() // nil disables cache and rate limiting
	if rdb != nil {
		defer rdb.Close()
	}

	e := router.New(handler.New(db, pub), router.Deps{
		Redis:     rdb,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
	})
	e.Logger.SetLevel(logLevel(cfg.LogLevel))
	e.Server.ReadTimeout = 5 * time.Second
	e.Server.WriteTimeout = 10 * time.Second
	e.Server.IdleTimeout = 120 * time.Second

	addr := ":" + cfg.Port // Address string with port
	go func() {
		log.Printf("listening on %s (env=%s, db=%s)", addr, cfg.Env, cfg.DBDriver) // Print startup info
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}
	log.Println("server exited gracefully")
}

func logLevel(name string) glog.Lvl {
	switch name {
	case "DEBUG":
		return glog.DEBUG
	case "WARN":
		return glog.WARN
	case "ERROR":
		return glog.ERROR
	case "OFF":
		return glog.OFF
	}
	return glog.INFO
}
