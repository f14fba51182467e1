// Package civilization is the black-box collaborator spec.md §1 names as
// out of scope: a single entry point, GenerateCivilization, that the
// orbital generator calls once per candidate habitable planet. It never
// simulates a society — it returns a coarse presence/tier verdict so the
// call site spec.md describes is exercised without pulling in a full
// civilization simulator.
package civilization

import "github.com/darkdragonsastro/draco-simulator/internal/randgen"

// Tier is how far a generated civilization's technology has progressed.
type Tier int

const (
	TierNone Tier = iota
	TierPrimitive
	TierIndustrial
	TierAsi
)

// Config carries the constructor-time parameters the original passes to its
// civilization generator (spec.md §6's OrbitalGenerator caller contract).
type Config struct {
	// LifeOccurrenceProbability is the per-eligible-planet Bernoulli chance
	// that life takes hold at all.
	LifeOccurrenceProbability float64
	// EnableAsiFilter lets a TierIndustrial roll escalate to TierAsi.
	EnableAsiFilter bool
}

// DefaultConfig mirrors the original's defaults.
func DefaultConfig() Config {
	return Config{LifeOccurrenceProbability: 0.0114514, EnableAsiFilter: true}
}

// Star is the subset of a host star's state GenerateCivilization needs.
type Star struct {
	AgeS float64
}

// Planet is the subset of a candidate planet's state GenerateCivilization
// needs; it is also the shape of the verdict written back.
type Planet struct {
	HasLife bool
	Tier    Tier
}

// minimumHostAgeS is the lower bound (5e8, compared against the host age as
// passed in, with no unit conversion here or at the caller) below which no civilization is
// considered, mirroring the original GenerateCivilization's age gate.
const minimumHostAgeS = 5e8

// GenerateCivilization implements the named collaborator entry point
// (spec.md §1, §6): given a host star, the irradiance a candidate planet
// receives, and the planet itself, it decides whether life arises and, if
// so, how far it has progressed. Callers are expected to have already
// confirmed the planet sits within the star's habitable zone (and, when
// containUvHabitableZone is set, that the host's mass falls in the
// ultraviolet-habitable band) before calling this function — those gates
// live in the orbital generator, not here, since they depend on system-wide
// state this collaborator is never given.
func GenerateCivilization(rng *randgen.Engine, cfg Config, star Star, irradianceWm2 float64, planet Planet) Planet {
	if star.AgeS <= minimumHostAgeS {
		return Planet{}
	}
	if !rng.Bernoulli(cfg.LifeOccurrenceProbability) {
		return Planet{}
	}

	result := Planet{HasLife: true, Tier: TierPrimitive}
	if rng.Bernoulli(0.5) {
		result.Tier = TierIndustrial
	}
	if result.Tier == TierIndustrial && cfg.EnableAsiFilter && rng.Bernoulli(0.1) {
		result.Tier = TierAsi
	}
	return result
}
