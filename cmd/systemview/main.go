// Package main provides systemview, a terminal browser for a generated
// system.StellarSystem: point it at a running server's system ID to fetch
// one over HTTP, or give it a seed to generate one locally without a
// server running at all.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/darkdragonsastro/draco-simulator/internal/generation"
	"github.com/darkdragonsastro/draco-simulator/internal/system"
	"github.com/darkdragonsastro/draco-simulator/internal/systemview"
)

func main() {
	var (
		server = flag.String("server", "", "base URL of a running draco server, e.g. http://localhost:8080")
		id     = flag.String("id", "", "system id to fetch from -server")
		seed   = flag.String("seed", "", "seed to generate a system locally instead of fetching one")
	)
	flag.Parse()

	sys, err := loadSystem(*server, *id, *seed)
	if err != nil {
		fmt.Fprintln(os.Stderr, "systemview:", err)
		os.Exit(1)
	}

	p := tea.NewProgram(systemview.New(sys), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "systemview:", err)
		os.Exit(1)
	}
}

func loadSystem(server, id, seed string) (*system.StellarSystem, error) {
	switch {
	case seed != "":
		return generateLocally(seed)
	case server != "" && id != "":
		return fetchFromServer(server, id)
	default:
		return nil, fmt.Errorf("pass either -seed to generate locally or -server and -id to fetch one")
	}
}

func generateLocally(seed string) (*system.StellarSystem, error) {
	cfg := generation.DefaultConfig()
	svc := generation.NewService(cfg, nil, nil)
	ctx := context.Background()
	if err := svc.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initializing generator: %w", err)
	}

	sys := system.New("local-system")
	if err := svc.PopulateSystem(ctx, sys, generation.Request{Seed: seed}); err != nil {
		return nil, fmt.Errorf("generating system: %w", err)
	}
	return sys, nil
}

func fetchFromServer(server, id string) (*system.StellarSystem, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(server + "/api/v1/systems/" + id)
	if err != nil {
		return nil, fmt.Errorf("fetching system %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching system %s: server returned %s", id, resp.Status)
	}

	var sys system.StellarSystem
	if err := json.NewDecoder(resp.Body).Decode(&sys); err != nil {
		return nil, fmt.Errorf("decoding system %s: %w", id, err)
	}
	return &sys, nil
}
