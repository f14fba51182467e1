package trackasset

import (
	"context"
	"fmt"
	"sync"
)

// trackKey identifies one loaded normal track file.
type trackKey struct {
	feH  float64
	mass float64
}

// wdKey identifies one loaded white-dwarf track file.
type wdKey struct {
	series WDCoolingSeries
	mass   float64
}

// PhaseChange is one row of a phase-change sub-table: the evolutionary
// state at the moment the star's discrete Phase index changed (or its
// EvolutionProgress jumped to the terminal sentinel 10.0).
type PhaseChange struct {
	Age               float64
	Phase             float64
	EvolutionProgress float64
}

// Cache is the process-wide, reader-writer-synchronized track-table cache
// spec.md §4.2/§5 requires: every loaded table is cached once and shared by
// every generator; the first consumer of an unloaded file escalates to an
// exclusive lock, parses it, inserts the entry, then releases it, exactly as
// internal/trackasset's teacher analogue (the Hipparcos catalog loader)
// caches its parsed star list behind a sync.RWMutex.
type Cache struct {
	source Source

	mu            sync.RWMutex
	normalTracks  map[trackKey][]NormalRow
	wdTracks      map[wdKey][]WDRow
	phaseChanges  map[trackKey][]PhaseChange
	metallicities []float64
	massesByBin   map[float64][]float64
	wdMasses      map[WDCoolingSeries][]float64
	hrDiagram     []HRRow
	hrLoaded      bool
}

// NewCache builds a Cache reading through to source.
func NewCache(source Source) *Cache {
	return &Cache{
		source:       source,
		normalTracks: make(map[trackKey][]NormalRow),
		wdTracks:     make(map[wdKey][]WDRow),
		phaseChanges: make(map[trackKey][]PhaseChange),
		massesByBin:  make(map[float64][]float64),
		wdMasses:     make(map[WDCoolingSeries][]float64),
	}
}

// Metallicities returns the cached list of available metallicity bins,
// loading it on first use.
func (c *Cache) Metallicities(ctx context.Context) ([]float64, error) {
	c.mu.RLock()
	if c.metallicities != nil {
		defer c.mu.RUnlock()
		return c.metallicities, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.metallicities != nil {
		return c.metallicities, nil
	}
	bins, err := c.source.MetallicityBins(ctx)
	if err != nil {
		return nil, err
	}
	c.metallicities = bins
	return bins, nil
}

// MassesForBin returns the cached sorted mass list for feH, loading it on
// first use.
func (c *Cache) MassesForBin(ctx context.Context, feH float64) ([]float64, error) {
	c.mu.RLock()
	if masses, ok := c.massesByBin[feH]; ok {
		defer c.mu.RUnlock()
		return masses, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if masses, ok := c.massesByBin[feH]; ok {
		return masses, nil
	}
	masses, err := c.source.MassesForBin(ctx, feH)
	if err != nil {
		return nil, err
	}
	c.massesByBin[feH] = masses
	return masses, nil
}

// NormalTrack returns the cached rows for (feH, mass), loading them on first
// use.
func (c *Cache) NormalTrack(ctx context.Context, feH, mass float64) ([]NormalRow, error) {
	key := trackKey{feH: feH, mass: mass}

	c.mu.RLock()
	if rows, ok := c.normalTracks[key]; ok {
		defer c.mu.RUnlock()
		return rows, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if rows, ok := c.normalTracks[key]; ok {
		return rows, nil
	}
	rows, err := c.source.NormalTrack(ctx, feH, mass)
	if err != nil {
		return nil, err
	}
	c.normalTracks[key] = rows
	return rows, nil
}

// WDMasses returns the cached sorted white-dwarf mass list for series.
func (c *Cache) WDMasses(ctx context.Context, series WDCoolingSeries) ([]float64, error) {
	c.mu.RLock()
	if masses, ok := c.wdMasses[series]; ok {
		defer c.mu.RUnlock()
		return masses, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if masses, ok := c.wdMasses[series]; ok {
		return masses, nil
	}
	masses, err := c.source.WDMasses(ctx, series)
	if err != nil {
		return nil, err
	}
	c.wdMasses[series] = masses
	return masses, nil
}

// WDTrack returns the cached rows for (series, mass).
func (c *Cache) WDTrack(ctx context.Context, series WDCoolingSeries, mass float64) ([]WDRow, error) {
	key := wdKey{series: series, mass: mass}

	c.mu.RLock()
	if rows, ok := c.wdTracks[key]; ok {
		defer c.mu.RUnlock()
		return rows, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if rows, ok := c.wdTracks[key]; ok {
		return rows, nil
	}
	rows, err := c.source.WDTrack(ctx, series, mass)
	if err != nil {
		return nil, err
	}
	c.wdTracks[key] = rows
	return rows, nil
}

// HRDiagram returns the cached H-R diagram table.
func (c *Cache) HRDiagram(ctx context.Context) ([]HRRow, error) {
	c.mu.RLock()
	if c.hrLoaded {
		defer c.mu.RUnlock()
		return c.hrDiagram, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hrLoaded {
		return c.hrDiagram, nil
	}
	rows, err := c.source.HRDiagram(ctx)
	if err != nil {
		return nil, err
	}
	c.hrDiagram = rows
	c.hrLoaded = true
	return rows, nil
}

// PhaseChanges returns the phase-change sub-table for (feH, mass), computing
// it from the full track on first request and caching the result (spec.md
// §4.2: "lazily computed on first request"). Duplicate concurrent
// computations are tolerated: the first result stored is kept and returned
// to every later caller, matching the "ignore duplicates" discipline of
// spec.md §5.
func (c *Cache) PhaseChanges(ctx context.Context, feH, mass float64) ([]PhaseChange, error) {
	key := trackKey{feH: feH, mass: mass}

	c.mu.RLock()
	if pc, ok := c.phaseChanges[key]; ok {
		defer c.mu.RUnlock()
		return pc, nil
	}
	c.mu.RUnlock()

	rows, err := c.NormalTrack(ctx, feH, mass)
	if err != nil {
		return nil, err
	}
	pc := computePhaseChanges(rows)

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.phaseChanges[key]; ok {
		return existing, nil
	}
	c.phaseChanges[key] = pc
	return pc, nil
}

func computePhaseChanges(rows []NormalRow) []PhaseChange {
	var out []PhaseChange
	if len(rows) == 0 {
		return out
	}
	lastPhase := rows[0].Phase
	out = append(out, PhaseChange{Age: rows[0].StarAge, Phase: rows[0].Phase, EvolutionProgress: rows[0].EvolutionProgress})
	for _, r := range rows[1:] {
		if r.Phase != lastPhase || r.EvolutionProgress >= 10.0 {
			out = append(out, PhaseChange{Age: r.StarAge, Phase: r.Phase, EvolutionProgress: r.EvolutionProgress})
			lastPhase = r.Phase
		}
	}
	return out
}

func (k trackKey) String() string {
	return fmt.Sprintf("FeH=%.2f/M=%.2f", k.feH, k.mass)
}
