// Package coreseed implements C9, the core-mass and initial-orbit seeder
// (spec.md §4.9): it lays out a host's planetary cores in log-spaced disk
// bands with randomized log-uniform core-mass weights, and seeds each
// core's initial orbit elements and three-way volatile/energetic-nuclide/Z
// composition split.
package coreseed

import (
	"math"

	"github.com/darkdragonsastro/draco-simulator/internal/randgen"
	"github.com/darkdragonsastro/draco-simulator/internal/system"
)

const (
	solarMassKg = 1.98892e30
	degToRad    = math.Pi / 180
)

// Core is one freshly-seeded planetary core plus its initial orbit.
type Core struct {
	Mass  system.ComplexMass
	Orbit system.Orbit
}

// HostBand selects the planet-count distribution for a normal (non-remnant)
// host, keyed by its initial mass in solar masses.
type HostBand int

const (
	BandUnder0p6 HostBand = iota
	BandUnder0p9
	BandUnder3
	Band3AndAbove
)

// BandForInitialMass classifies a normal host's initial mass into one of
// the four planet-count bands of spec.md §4.9.
func BandForInitialMass(initialMassSol float64) HostBand {
	switch {
	case initialMassSol < 0.6:
		return BandUnder0p6
	case initialMassSol < 0.9:
		return BandUnder0p9
	case initialMassSol < 3.0:
		return BandUnder3
	default:
		return Band3AndAbove
	}
}

// PlanetCount draws the number of planetary cores for a normal host from
// its mass band's U[lo,hi] range (spec.md §4.9).
func PlanetCount(rng *randgen.Engine, band HostBand) int {
	switch band {
	case BandUnder0p6:
		return int(4.0 + rng.Uniform01()*4.0)
	case BandUnder0p9:
		return int(5.0 + rng.Uniform01()*5.0)
	case BandUnder3:
		return int(6.0 + rng.Uniform01()*6.0)
	default:
		return int(4.0 + rng.Uniform01()*4.0)
	}
}

// PlanetCountWhiteDwarfMerger draws the planet count for a white-dwarf
// merger remnant's disk (spec.md §4.9).
func PlanetCountWhiteDwarfMerger(rng *randgen.Engine) int {
	return int(2.0 + rng.Uniform01()*2.0)
}

// Seed lays out count cores between innerRadiusM and outerRadiusM, drawn
// from a protoplanetary disk carrying dustMassKg of solid material, and
// returns each core's mass split and initial orbit (spec.md §4.9).
func Seed(rng *randgen.Engine, count int, dustMassKg, innerRadiusM, outerRadiusM float64) []Core {
	if count <= 0 {
		return nil
	}

	weights := make([]float64, count)
	weightSum := 0.0
	for i := range weights {
		weights[i] = rng.Uniform(0, 3)
		weightSum += math.Pow(10, weights[i])
	}

	coreMassesKg := make([]float64, count)
	for i := range coreMassesKg {
		coreMassesKg[i] = dustMassKg * math.Pow(10, weights[i]) / weightSum
	}

	tenthRootSum := 0.0
	for _, m := range coreMassesKg {
		tenthRootSum += math.Pow(m/solarMassKg, 0.1)
	}

	boundaries := make([]float64, count+1)
	boundaries[0] = innerRadiusM
	partialSum := 0.0
	ratio := outerRadiusM / innerRadiusM
	for i := 0; i < count; i++ {
		partialSum += math.Pow(coreMassesKg[i]/solarMassKg, 0.1)
		boundaries[i+1] = innerRadiusM * math.Pow(ratio, partialSum/tenthRootSum)
	}

	cores := make([]Core, count)
	for i := 0; i < count; i++ {
		cores[i] = Core{
			Mass:  splitComposition(rng, coreMassesKg[i]),
			Orbit: seedOrbit(rng, (boundaries[i]+boundaries[i+1])/2),
		}
	}
	return cores
}

// splitComposition implements the three-way volatiles/energetic-nuclide/Z
// split of spec.md §4.9.
func splitComposition(rng *randgen.Engine, massKg float64) system.ComplexMass {
	volatilesRate := rng.Uniform(9000, 11000)
	energeticRate := rng.Uniform(4.5e6, 5.5e6)

	volatiles := massKg / volatilesRate
	energeticNuclide := massKg / energeticRate
	z := massKg - volatiles - energeticNuclide

	return system.NewComplexMass(z, volatiles, energeticNuclide)
}

// seedOrbit draws the remaining orbit elements around the given
// semi-major axis (spec.md §4.9): eccentricity, inclination, and the
// angular elements.
func seedOrbit(rng *randgen.Engine, semiMajorAxisM float64) system.Orbit {
	return system.Orbit{
		SemiMajorAxis:          semiMajorAxisM,
		Eccentricity:           rng.Uniform(0, 0.05),
		Inclination:            rng.Uniform(-2, 2) * degToRad,
		LongitudeAscendingNode: rng.Uniform(0, 2*math.Pi),
		ArgumentOfPeriapsis:    rng.Uniform(0, 2*math.Pi),
		TrueAnomaly:            rng.Uniform(0, 2*math.Pi),
	}
}
