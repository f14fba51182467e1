package garnish

import (
	"math"

	"github.com/darkdragonsastro/draco-simulator/internal/randgen"
	"github.com/darkdragonsastro/draco-simulator/internal/system"
)

// RingHost is the parent planet a ring system may be generated around
// (spec.md §4.13's "Rings" paragraph).
type RingHost struct {
	Type             system.PlanetType
	MassKg           float64
	RadiusM          float64
	SemiMajorAxisM   float64
	HostStarMassKg   float64
	HostPreMainSeq   bool
	FrostLineAU      float64
}

// ringProbability is 50% for gas/ice giants, 20% for everything else, once
// the Roche/Hill-sphere eligibility gate passes.
func ringProbability(t system.PlanetType) float64 {
	if t == system.PlanetGasGiant || t == system.PlanetIceGiant {
		return 0.5
	}
	return 0.2
}

// GenerateRings implements GenerateRings (spec.md §4.13): eligible planets
// (Roche radius inside a third of the Hill sphere and outside the planet's
// own radius) roll for a ring system sized off the Roche radius and split
// rocky-ice beyond the frost line around a pre-main-sequence host.
func GenerateRings(rng *randgen.Engine, host RingHost) (system.Orbit, system.AsteroidCluster, bool) {
	roche := liquidRocheRadius(host.MassKg)
	hill := hillSphereRadius(host.SemiMajorAxisM, host.MassKg, host.HostStarMassKg)

	if !(roche < hill/3 && roche > host.RadiusM) {
		return system.Orbit{}, system.AsteroidCluster{}, false
	}
	if !rng.Bernoulli(ringProbability(host.Type)) {
		return system.Orbit{}, system.AsteroidCluster{}, false
	}

	massKg := math.Pow(10, rng.Uniform(-4, 0)) * 1e20 * math.Pow(roche/1e8, 2)
	beyondFrostLine := host.SemiMajorAxisM/auMeters >= host.FrostLineAU
	mass, rockyIce := frostLineSplit(massKg, beyondFrostLine, host.HostPreMainSeq)

	clusterType := system.AsteroidRocky
	if rockyIce {
		clusterType = system.AsteroidRockyIce
	}

	sma := 0.6 * roche * (1 + rng.Uniform(-0.1, 0.1))
	orbit := randomOrbitElements(rng, sma)
	return orbit, system.AsteroidCluster{Type: clusterType, Mass: mass}, true
}
