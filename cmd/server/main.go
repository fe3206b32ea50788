/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the break scheduling server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags and load the TOML config
  2. Initialize SQLite store and apply the YAML seed (if any)
  3. Create distributor and API handler
  4. Start the auto distribution scheduler (if configured)
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  TOML config file (default: workforce.toml, optional)
  -port    HTTP server port (overrides config)
  -db      SQLite database path (overrides config)
           Use ":memory:" for in-memory database
  -seed    YAML seed file (overrides config)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection

EXAMPLES:
  ./server -db=":memory:" -seed=./seed.yaml
  ./server -config=/etc/workforce.toml

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Config file format
  - config/seed.go: Seed file format
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/workforce-portal/api"
	"github.com/warp/workforce-portal/breaks"
	"github.com/warp/workforce-portal/config"
	"github.com/warp/workforce-portal/store/sqlite"
)

func main() {
	// Flags
	configPath := flag.String("config", "workforce.toml", "TOML config file")
	port := flag.Int("port", 0, "HTTP server port")
	dbPath := flag.String("db", "", "SQLite database path")
	seedPath := flag.String("seed", "", "YAML seed file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *seedPath != "" {
		cfg.Database.SeedFile = *seedPath
	}

	// Initialize store
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	if cfg.Database.SeedFile != "" {
		seed, err := config.LoadSeed(cfg.Database.SeedFile)
		if err != nil {
			log.Fatalf("Failed to load seed: %v", err)
		}
		if err := seed.Apply(context.Background(), store); err != nil {
			log.Fatalf("Failed to apply seed: %v", err)
		}
		log.Printf("🌱 Seeded from %s", cfg.Database.SeedFile)
	}

	// Initialize handler
	distributor := breaks.NewDistributor(store, breaks.WithApplyConcurrency(cfg.Distribution.ApplyConcurrency))
	handler := api.NewHandler(store, distributor)
	handler.DefaultStrategy, _ = breaks.ParseStrategyName(cfg.Distribution.DefaultStrategy)
	handler.SetPreviewTTL(time.Duration(cfg.Distribution.PreviewTTLMinutes) * time.Minute)

	scheduler := api.NewAutoDistributionScheduler(store, handler, cfg.Distribution.AutoSchedule)
	scheduler.Department = cfg.Distribution.AutoDepartment
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      api.NewRouter(handler, cfg.Server.AllowedOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", cfg.Server.Port)
		log.Printf("📊 API available at http://localhost:%d/api", cfg.Server.Port)
		log.Printf("📈 Metrics at http://localhost:%d/metrics", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
