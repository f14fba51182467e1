// Package main provides the entry point for the Draco orbital system
// generator service: an HTTP+WebSocket server that samples stars, lays out
// their orbital architecture, and streams the result to anyone watching.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/darkdragonsastro/draco-simulator/internal/api/rest"
	"github.com/darkdragonsastro/draco-simulator/internal/api/websocket"
	"github.com/darkdragonsastro/draco-simulator/internal/database"
	"github.com/darkdragonsastro/draco-simulator/internal/eventbus"
	"github.com/darkdragonsastro/draco-simulator/internal/generation"
)

// Version information (set during build).
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// Config holds server configuration.
type Config struct {
	Port               int    `json:"port"`
	Host               string `json:"host"`
	NormalTrackDataDir string `json:"normal_track_data_dir"`
	WhiteDwarfDataDir  string `json:"white_dwarf_data_dir"`
	PostgresDSN        string `json:"postgres_dsn"`
	Debug              bool   `json:"debug"`
}

// DefaultConfig returns sensible defaults, reading a handful of overrides
// from the environment so a deployment doesn't need a recompile to point
// at its own track data or database.
func DefaultConfig() Config {
	cfg := Config{
		Port:               8080,
		Host:               "0.0.0.0",
		NormalTrackDataDir: "./data/tracks",
		WhiteDwarfDataDir:  "./data/tracks/WD",
		Debug:              true,
	}
	if v := os.Getenv("DRACO_TRACK_DATA_DIR"); v != "" {
		cfg.NormalTrackDataDir = v
	}
	if v := os.Getenv("DRACO_WD_TRACK_DATA_DIR"); v != "" {
		cfg.WhiteDwarfDataDir = v
	}
	if v := os.Getenv("DRACO_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	return cfg
}

func main() {
	fmt.Printf("Draco orbital system generator %s (built %s)\n", Version, BuildTime)
	fmt.Println("==========================================")

	config := DefaultConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("received signal %v, shutting down...", sig)
		cancel()
	}()

	if err := run(ctx, config); err != nil {
		log.Fatalf("server error: %v", err)
	}

	log.Println("server stopped")
}

func run(ctx context.Context, config Config) error {
	bus := eventbus.NewInMemoryBus()

	db, err := database.Open(ctx, config.PostgresDSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	genCfg := generation.DefaultConfig()
	genCfg.NormalTrackDataDir = config.NormalTrackDataDir
	genCfg.WhiteDwarfDataDir = config.WhiteDwarfDataDir
	genService := generation.NewService(genCfg, db, bus)
	if err := genService.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize generation service: %w", err)
	}
	if err := genService.Start(ctx); err != nil {
		return fmt.Errorf("failed to start generation service: %w", err)
	}
	defer genService.Stop(ctx)

	wsHub := websocket.NewHub()
	go wsHub.Run(ctx)

	if _, err := bus.Subscribe(ctx, generation.ProgressTopic, func(e eventbus.Event) {
		data, ok := e.Data.(map[string]any)
		if !ok {
			return
		}
		systemID, _ := data["systemId"].(string)
		phase, _ := data["phase"].(string)
		wsHub.Broadcast(systemID, "generation."+phase, data)
	}); err != nil {
		return fmt.Errorf("failed to subscribe websocket hub to generation progress: %w", err)
	}

	restConfig := rest.Config{
		Address: fmt.Sprintf("%s:%d", config.Host, config.Port),
		Debug:   config.Debug,
	}
	server := rest.NewServer(restConfig, genService, wsHub)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler: server.Handler(),
	}

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	log.Printf("server is ready at http://%s:%d", config.Host, config.Port)
	log.Println("")
	log.Println("API endpoints:")
	log.Println("  GET  /api/v1/health                - health check")
	log.Println("  POST /api/v1/systems               - start generating a system")
	log.Println("  GET  /api/v1/systems/:id            - fetch a generated system")
	log.Println("  WS   /api/v1/systems/:id/ws          - watch generation progress")
	log.Println("  GET  /api/v1/tracks                 - list the track catalog")
	log.Println("")

	select {
	case <-ctx.Done():
		log.Println("shutting down gracefully...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}
