// Package orbitalfilter implements C11, the orbital-filter pipeline
// (spec.md §4.11): a strictly-ordered sequence of culls and reclassifications
// applied to a host star's freshly-seeded and -classified planets — binary
// stability, giant migration, stellar engulfment, Chthonian promotion,
// white-dwarf gravitational scattering, hot-giant promotion, oceanic-to-ice
// conversion, and thermal death.
package orbitalfilter

import (
	"math"

	"github.com/darkdragonsastro/draco-simulator/internal/planetclass"
	"github.com/darkdragonsastro/draco-simulator/internal/randgen"
	"github.com/darkdragonsastro/draco-simulator/internal/system"
)

const (
	solarRadiusM = 6.957e8
	earthMassKg  = 5.9722e24
	earthRadiusM = 6.3710084e6

	migrationProbability  = 0.1
	walkInProbability     = 0.8
	scatteringProbability = 0.15

	hotGiantIrradianceThreshold = 10000.0
	asteroidIrradianceThreshold = 1e6
	thermalDeathTemperatureK    = 2700.0
)

// Entry is one planet and the orbit it currently occupies, threaded through
// the filter pipeline. OriginalCoreMassKg is the pre-frost-line-boost core
// mass C10 computed, kept around because Chthonian promotion recomputes a
// radius from it rather than from the (possibly ice-boosted) current core.
// NewCoreMassKg is C10's frost-line-boosted mass, carried alongside it for
// C12's mass partitioning, which runs after this pipeline.
type Entry struct {
	Planet             system.Planet
	Orbit              system.Orbit
	OriginalCoreMassKg float64
	NewCoreMassKg      float64
}

// HostStar is the subset of a star's properties the filter needs.
type HostStar struct {
	MassKg         float64
	InitialMassSol float64
	RadiusM        float64
	LuminosityW    float64
	AgeS           float64
	Phase          system.EvolutionPhase
}

// IsWhiteDwarf reports whether the host has settled into any white-dwarf
// phase.
func (h HostStar) IsWhiteDwarf() bool {
	switch h.Phase {
	case system.PhaseHeliumWD, system.PhaseCOWD, system.PhaseONeMgWD:
		return true
	}
	return false
}

// isPostMainSequence reports whether the host has left the main sequence
// (spec.md §4.11 step 3's branch condition).
func (h HostStar) isPostMainSequence() bool {
	return h.Phase > system.PhaseMainSequence
}

// Companion is the other star of a binary host, needed for the stability
// boundary and the two-star irradiance sum.
type Companion struct {
	LuminosityW  float64
	MassFraction float64 // the companion's mass / total system mass (mu)
}

// Config carries the system-wide parameters the filter needs beyond the
// host star and its planet list.
type Config struct {
	BinarySemiMajorAxisM float64
	BinaryEccentricity   float64
	Companion            *Companion // nil for single stars

	DiskInnerRadiusAU   float64 // protoplanetary disk's inner edge, for migration
	OuterHabitableZoneM float64
}

// Apply runs filter steps 1-7 (spec.md §4.11): binary stability, giant
// migration, stellar engulfment, Chthonian promotion, white-dwarf
// gravitational scattering, hot-giant promotion, and oceanic-to-ice
// conversion. Step 8 (thermal death) is ThermalDeath, run separately once
// C12 has computed each survivor's balance temperature.
func Apply(rng *randgen.Engine, host HostStar, cfg Config, entries []Entry) []Entry {
	entries = binaryStability(host, cfg, entries)
	entries = giantMigration(rng, host, cfg, entries)
	entries = stellarEngulfment(host, entries)
	entries = chthonianPromotion(host, entries)
	entries = whiteDwarfScattering(rng, host, entries)
	entries = hotGiantPromotion(host, cfg, entries)
	entries = oceanicToIce(cfg, entries)
	return entries
}

// binaryStability drops cores beyond the Holman-Wiegert stable boundary
// (spec.md §4.11 step 1).
func binaryStability(host HostStar, cfg Config, entries []Entry) []Entry {
	if cfg.Companion == nil {
		return entries
	}
	mu := cfg.Companion.MassFraction
	e := cfg.BinaryEccentricity
	boundary := cfg.BinarySemiMajorAxisM * (0.464 - 0.38*mu - 0.361*e + 0.586*mu*e +
		0.15*e*e - 0.198*mu*e*e)

	kept := entries[:0:0]
	for _, entry := range entries {
		if entry.Orbit.SemiMajorAxis <= boundary {
			kept = append(kept, entry)
		}
	}
	return kept
}

// giantMigration relocates at most one ice/gas giant inward, deleting any
// planets it passes on the way (spec.md §4.11 step 2).
func giantMigration(rng *randgen.Engine, host HostStar, cfg Config, entries []Entry) []Entry {
	for i := 1; i < len(entries); i++ {
		t := entries[i].Planet.Type
		if t != system.PlanetIceGiant && t != system.PlanetGasGiant {
			continue
		}
		if !rng.Bernoulli(migrationProbability) {
			return entries
		}

		migrationIndex := 0
		if rng.Bernoulli(walkInProbability) {
			if i > 1 {
				migrationIndex = rng.UniformInt(0, i-2)
			}
		} else {
			var coefficient float64
			switch {
			case host.InitialMassSol < 0.6:
				coefficient = 2.0
			case host.InitialMassSol < 1.2:
				coefficient = 10.0
			default:
				coefficient = 7.0
			}
			lower := math.Log10(cfg.DiskInnerRadiusAU / coefficient)
			upper := math.Log10(cfg.DiskInnerRadiusAU * 0.67)
			exponent := lower + rng.Uniform01()*(upper-lower)
			entries[0].Orbit.SemiMajorAxis = math.Pow(10, exponent) * auMeters
		}

		migrated := entries[i]
		migrated.Planet.Migrated = true
		migrated.Planet.OriginalSemiMajorAxis = entries[i].Orbit.SemiMajorAxis
		migrated.Orbit = entries[migrationIndex].Orbit

		out := make([]Entry, 0, len(entries)-(i-migrationIndex))
		out = append(out, entries[:migrationIndex]...)
		out = append(out, migrated)
		out = append(out, entries[i+1:]...)
		return out
	}
	return entries
}

const auMeters = 1.495978707e11

// stellarRadiusMaxSol is the maximal envelope radius (solar radii) a
// post-main-sequence host reaches, used by both engulfment and Chthonian
// promotion (spec.md §4.11 steps 3-4).
func stellarRadiusMaxSol(initialMassSol float64) float64 {
	if initialMassSol < 0.75 {
		return 104*math.Pow(2*initialMassSol, 3) + 0.1
	}
	return 400 * math.Pow(initialMassSol-0.75, 1.0/3.0)
}

// stellarEngulfment drops planets inside the host's (possibly evolved)
// radius (spec.md §4.11 step 3).
func stellarEngulfment(host HostStar, entries []Entry) []Entry {
	limit := host.RadiusM
	if host.isPostMainSequence() {
		limit = stellarRadiusMaxSol(host.InitialMassSol) * solarRadiusM
	}

	kept := entries[:0:0]
	for _, entry := range entries {
		if entry.Orbit.SemiMajorAxis >= limit {
			kept = append(kept, entry)
		}
	}
	return kept
}

// chthonianPromotion reassigns stripped giants around white-dwarf hosts to
// Chthonian, recomputing radius from the pre-boost core mass (spec.md
// §4.11 step 4).
func chthonianPromotion(host HostStar, entries []Entry) []Entry {
	if !host.IsWhiteDwarf() {
		return entries
	}
	limit := 2 * stellarRadiusMaxSol(host.InitialMassSol) * solarRadiusM

	for i := range entries {
		t := entries[i].Planet.Type
		if (t != system.PlanetGasGiant && t != system.PlanetIceGiant) || entries[i].Orbit.SemiMajorAxis >= limit {
			continue
		}
		entries[i].Planet.Type = system.PlanetChthonian
		massEarth := entries[i].OriginalCoreMassKg / earthMassKg
		entries[i].Planet.Radius = planetclass.Radius(massEarth, system.PlanetChthonian) * earthRadiusM
	}
	return entries
}

// whiteDwarfScattering repositions at most one rocky planet around an
// old white dwarf to a random post-Roche orbit (spec.md §4.11 step 5).
func whiteDwarfScattering(rng *randgen.Engine, host HostStar, entries []Entry) []Entry {
	if !host.IsWhiteDwarf() || host.AgeS <= 1e6 {
		return entries
	}
	for i := range entries {
		if entries[i].Planet.Type != system.PlanetRocky {
			continue
		}
		if rng.Bernoulli(scatteringProbability) {
			entries[i].Orbit.SemiMajorAxis = rng.Uniform(4, 20) * solarRadiusM
		}
		break
	}
	return entries
}

// irradiance is the summed Poynting flux (W/m^2) a planet receives from its
// host and, if present, the host's companion.
func irradiance(host HostStar, cfg Config, semiMajorAxisM float64) float64 {
	s := host.LuminosityW / (4 * math.Pi * semiMajorAxisM * semiMajorAxisM)
	if cfg.Companion != nil {
		s += cfg.Companion.LuminosityW / (4 * math.Pi * cfg.BinarySemiMajorAxisM * cfg.BinarySemiMajorAxisM)
	}
	return s
}

// hotGiantPromotion reclasses irradiated giants to their Hot variants and
// inflates their radius (spec.md §4.11 step 6).
func hotGiantPromotion(host HostStar, cfg Config, entries []Entry) []Entry {
	for i := range entries {
		s := irradiance(host, cfg, entries[i].Orbit.SemiMajorAxis)
		if s < hotGiantIrradianceThreshold {
			continue
		}
		switch entries[i].Planet.Type {
		case system.PlanetGasGiant:
			entries[i].Planet.Type = system.PlanetHotGasGiant
		case system.PlanetIceGiant:
			entries[i].Planet.Type = system.PlanetHotIceGiant
		case system.PlanetSubIceGiant:
			entries[i].Planet.Type = system.PlanetHotSubIceGiant
		default:
			continue
		}
		entries[i].Planet.Radius *= math.Pow(s/hotGiantIrradianceThreshold, 0.094)
	}
	return entries
}

// oceanicToIce converts oceanic planets beyond the outer habitable-zone
// boundary to ice planets (spec.md §4.11 step 7).
func oceanicToIce(cfg Config, entries []Entry) []Entry {
	for i := range entries {
		if entries[i].Planet.Type == system.PlanetOceanic && entries[i].Orbit.SemiMajorAxis >= cfg.OuterHabitableZoneM {
			entries[i].Planet.Type = system.PlanetIcePlanet
		}
	}
	return entries
}

// ThermalDeath implements step 8 (spec.md §4.11): it is run separately from
// Apply because the balance-temperature values it checks are computed by
// C12, which runs after the rest of this pipeline.
func ThermalDeath(host HostStar, cfg Config, entries []Entry) []Entry {
	kept := entries[:0:0]
	for _, entry := range entries {
		if entry.Planet.Type.IsAsteroidType() {
			if irradiance(host, cfg, entry.Orbit.SemiMajorAxis) > asteroidIrradianceThreshold {
				continue
			}
		} else if entry.Planet.BalanceTemperature >= thermalDeathTemperatureK {
			continue
		}
		kept = append(kept, entry)
	}
	return kept
}

