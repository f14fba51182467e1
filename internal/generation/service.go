// Package generation wires stellargen, orbitalgen, and the track-table
// cache together into the single service the REST and WebSocket surfaces
// are built on (spec.md §5/§6, SPEC_FULL.md §9): it owns the process-wide
// trackasset caches, drives one full system generation per request, and
// narrates phase progress onto the event bus so a WebSocket subscriber can
// watch a system come together in real time.
package generation

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/darkdragonsastro/draco-simulator/internal/common/service"
	"github.com/darkdragonsastro/draco-simulator/internal/database"
	"github.com/darkdragonsastro/draco-simulator/internal/eventbus"
	"github.com/darkdragonsastro/draco-simulator/internal/genlog"
	"github.com/darkdragonsastro/draco-simulator/internal/orbitalgen"
	"github.com/darkdragonsastro/draco-simulator/internal/randgen"
	"github.com/darkdragonsastro/draco-simulator/internal/stellargen"
	"github.com/darkdragonsastro/draco-simulator/internal/system"
	"github.com/darkdragonsastro/draco-simulator/internal/trackasset"
)

var log = genlog.New("generation", genlog.Info)

// ProgressTopic is the single event-bus topic every system's generation
// progress is published on; each event's payload carries its own systemId
// field so a single subscriber (the WebSocket hub) can fan events back out
// to whichever client is watching that particular system.
const ProgressTopic = "generation.progress"

// Phase names carried on progress events' Data["phase"] field.
const (
	PhaseStars    = "stars"
	PhaseOrbitals = "orbitals"
	PhaseComplete = "complete"
	PhaseFailed   = "failed"
)

// Request is the caller-supplied shape of POST /api/v1/systems
// (SPEC_FULL.md §9): the seed picks the deterministic starting point,
// the rest override stellargen/orbitalgen defaults where non-zero.
type Request struct {
	Seed        string  `json:"seed" binding:"required"`
	UniverseAge float64 `json:"universeAge"`
	MassRange   [2]float64 `json:"massRange"`
	FeHRange    [2]float64 `json:"feHRange"`
	EnableAsiFilter *bool `json:"enableAsiFilter"`
}

// TrackDirectory summarizes one metallicity bin of the track catalog for
// GET /api/v1/tracks.
type TrackDirectory struct {
	FeH    float64   `json:"feH"`
	Masses []float64 `json:"masses"`
}

// Config configures a Service's track-data location and generation
// defaults.
type Config struct {
	NormalTrackDataDir string
	WhiteDwarfDataDir  string
	Stellar            stellargen.Config
	Orbital            orbitalgen.Config
}

// DefaultConfig returns the published stellargen/orbitalgen defaults with
// no track data directory configured; callers must set the directories
// before Initialize.
func DefaultConfig() Config {
	return Config{
		Stellar: stellargen.DefaultConfig(),
		Orbital: orbitalgen.DefaultConfig(),
	}
}

// Service is the generation subsystem's Service-interface implementation
// (internal/common/service), following the same BaseService-embedding
// pattern the rest of this module's services use.
type Service struct {
	*service.BaseService

	cfg Config
	db  database.Database
	bus eventbus.EventBus

	normalCache *trackasset.Cache
	wdCache     *trackasset.Cache
	hrTable     []trackasset.HRRow

	generating atomic.Int64
}

// NewService builds a Service. Initialize must be called before
// StartGeneration to load the H-R diagram lookup table.
func NewService(cfg Config, db database.Database, bus eventbus.EventBus) *Service {
	normalSource := trackasset.NewDirSource(cfg.NormalTrackDataDir)
	wdSource := trackasset.NewDirSource(cfg.WhiteDwarfDataDir)
	return &Service{
		BaseService: service.NewBaseService("generation"),
		cfg:         cfg,
		db:          db,
		bus:         bus,
		normalCache: trackasset.NewCache(normalSource),
		wdCache:     trackasset.NewCache(wdSource),
	}
}

// Initialize loads the H-R diagram lookup table, the one piece of track
// data every generation needs up front regardless of metallicity or mass.
func (s *Service) Initialize(ctx context.Context) error {
	hrTable, err := s.normalCache.HRDiagram(ctx)
	if err != nil {
		s.SetUnhealthy(fmt.Sprintf("failed to load H-R diagram: %v", err))
		return fmt.Errorf("generation: loading H-R diagram: %w", err)
	}
	s.hrTable = hrTable
	s.SetHealthy("H-R diagram loaded")
	log.Infof("loaded H-R diagram with %d rows", len(hrTable))
	return nil
}

// ListTracks enumerates the available metallicity bins and, for each, the
// initial masses tabulated within it (GET /api/v1/tracks).
func (s *Service) ListTracks(ctx context.Context) ([]TrackDirectory, error) {
	bins, err := s.normalCache.Metallicities(ctx)
	if err != nil {
		return nil, fmt.Errorf("generation: listing metallicity bins: %w", err)
	}
	dirs := make([]TrackDirectory, 0, len(bins))
	for _, feH := range bins {
		masses, err := s.normalCache.MassesForBin(ctx, feH)
		if err != nil {
			return nil, fmt.Errorf("generation: listing masses for Fe/H=%v: %w", feH, err)
		}
		dirs = append(dirs, TrackDirectory{FeH: feH, Masses: masses})
	}
	return dirs, nil
}

// NewPendingSystem allocates a fresh, empty system and returns it
// immediately so a caller (the REST handler) can hand the ID back to the
// client before generation has actually run.
func (s *Service) NewPendingSystem() *system.StellarSystem {
	return system.New("generated-system")
}

// StartGeneration runs PopulateSystem on sys in a new goroutine, narrating
// progress onto ProgressTopic (each event tagged with sys.ID) as it goes and persisting the finished
// system. It returns immediately.
func (s *Service) StartGeneration(sys *system.StellarSystem, req Request) {
	s.generating.Add(1)
	go func() {
		defer s.generating.Add(-1)
		ctx := context.Background()
		if err := s.PopulateSystem(ctx, sys, req); err != nil {
			log.Errorf("system %s failed to generate: %v", sys.ID, err)
			s.publishProgress(ctx, sys.ID, PhaseFailed, map[string]any{"error": err.Error()})
			return
		}
		if err := s.db.SetJSON(ctx, systemKey(sys.ID), sys); err != nil {
			log.Errorf("system %s failed to persist: %v", sys.ID, err)
			s.publishProgress(ctx, sys.ID, PhaseFailed, map[string]any{"error": err.Error()})
			return
		}
		s.publishProgress(ctx, sys.ID, PhaseComplete, nil)
	}()
}

// publishProgress publishes one progress event onto ProgressTopic, tagging
// it with systemID and phase so the WebSocket hub's single subscriber can
// route it back to the right connected clients.
func (s *Service) publishProgress(ctx context.Context, systemID, phase string, extra map[string]any) {
	if s.bus == nil {
		return
	}
	data := map[string]any{"systemId": systemID, "phase": phase}
	for k, v := range extra {
		data[k] = v
	}
	if err := s.bus.Publish(ctx, ProgressTopic, data); err != nil {
		log.Warnf("failed to publish progress for system %s: %v", systemID, err)
	}
}

// PopulateSystem runs the full stellar-then-orbital generation pipeline
// against sys, which must already carry its identity (spec.md §4.6/§6): it
// samples the host star (and, with probability set by stellargen's binary
// fraction, a companion), then lays out the orbital architecture around
// whichever stars were generated.
func (s *Service) PopulateSystem(ctx context.Context, sys *system.StellarSystem, req Request) error {
	rng := randgen.NewEngineFromString(req.Seed)

	stellarCfg := s.cfg.Stellar
	if req.UniverseAge != 0 {
		stellarCfg.UniverseAge = req.UniverseAge
		stellarCfg.AgeUpperLimit = req.UniverseAge
	}
	if req.MassRange != [2]float64{} {
		stellarCfg.MassLowerLimit, stellarCfg.MassUpperLimit = req.MassRange[0], req.MassRange[1]
	}
	if req.FeHRange != [2]float64{} {
		stellarCfg.FeHLowerLimit, stellarCfg.FeHUpperLimit = req.FeHRange[0], req.FeHRange[1]
	}

	primaryProps := stellargen.GenerateBasicProperties(rng, stellarCfg, 0, 0, stellargen.OptionNormal)
	primary, err := stellargen.GenerateStar(ctx, rng, s.normalCache, s.wdCache, s.hrTable, stellarCfg, primaryProps, stellargen.OptionNormal)
	if err != nil {
		return fmt.Errorf("generation: generating primary star: %w", err)
	}
	sys.AddStar(*primary)

	if !primaryProps.IsSingleStar {
		secondaryProps := stellargen.GenerateBasicProperties(rng, stellarCfg, primaryProps.Age, primaryProps.FeH, stellargen.OptionBinarySecondStar)
		secondary, err := stellargen.GenerateStar(ctx, rng, s.normalCache, s.wdCache, s.hrTable, stellarCfg, secondaryProps, stellargen.OptionBinarySecondStar)
		if err != nil {
			return fmt.Errorf("generation: generating companion star: %w", err)
		}
		sys.AddStar(*secondary)
	}

	s.publishProgress(ctx, sys.ID, PhaseStars, map[string]any{"starCount": len(sys.Stars)})

	orbitalCfg := s.cfg.Orbital
	if req.EnableAsiFilter != nil {
		orbitalCfg.EnableAsiFilter = *req.EnableAsiFilter
	}
	generator := orbitalgen.NewGenerator(orbitalCfg)
	if err := generator.GenerateOrbitals(rng, sys); err != nil {
		return fmt.Errorf("generation: generating orbitals: %w", err)
	}

	s.publishProgress(ctx, sys.ID, PhaseOrbitals, map[string]any{"planetCount": len(sys.Planets)})
	return nil
}

// GetSystem loads a previously generated system from the database
// (GET /api/v1/systems/:id).
func (s *Service) GetSystem(ctx context.Context, id string) (*system.StellarSystem, error) {
	var sys system.StellarSystem
	if err := s.db.GetJSON(ctx, systemKey(id), &sys); err != nil {
		return nil, err
	}
	return &sys, nil
}

func systemKey(id string) string {
	return "system:" + id
}
