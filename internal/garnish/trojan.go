package garnish

import (
	"math"
	"math/big"

	"github.com/darkdragonsastro/draco-simulator/internal/randgen"
	"github.com/darkdragonsastro/draco-simulator/internal/system"
)

// TrojanHost is the parent planet a Trojan belt rides alongside (spec.md
// §4.13's "Trojan belt" paragraph).
type TrojanHost struct {
	MassKg         float64
	SemiMajorAxisM float64
	HostStarMassKg float64
	HostPreMainSeq bool
	FrostLineAU    float64

	// Rings is the planet's own ring system, if it has one: the Trojan belt
	// inherits ring composition rather than re-deriving it from the
	// frost-line rule when rings are present.
	Rings    *system.AsteroidCluster
	RingType system.AsteroidClusterType
}

// GenerateTrojan implements GenerateTrojan (spec.md §4.13): a mass scaled
// off the Hill-sphere radius (discarded below 1e14 kg), composed either by
// inheriting the planet's own rings' composition ratio or, absent rings, by
// the same frost-line rocky/rocky-ice rule every other garnish body uses.
func GenerateTrojan(rng *randgen.Engine, host TrojanHost) (system.AsteroidCluster, bool) {
	massEarth := host.MassKg / earthMassKg
	hill := hillSphereRadius(host.SemiMajorAxisM, host.MassKg, host.HostStarMassKg)

	random := 1 + rng.Uniform01()
	term1 := 1e-9 * massEarth * (hill / 3.11e9)
	term2 := massEarth * 1e-3 / 2.0
	massKg := random * math.Max(term1, term2) * earthMassKg

	if massKg < 1e14 {
		return system.AsteroidCluster{}, false
	}

	if host.Rings != nil {
		total := host.Rings.Mass.TotalKg()
		if total <= 0 {
			return system.AsteroidCluster{Type: host.RingType}, true
		}
		ratio := massKg / total
		mass := system.NewComplexMass(
			bigToFloat(host.Rings.Mass.Z)*ratio,
			bigToFloat(host.Rings.Mass.Volatiles)*ratio,
			bigToFloat(host.Rings.Mass.EnergeticNuclide)*ratio,
		)
		return system.AsteroidCluster{Type: host.RingType, Mass: mass}, true
	}

	beyondFrostLine := host.SemiMajorAxisM/auMeters >= host.FrostLineAU
	mass, rockyIce := frostLineSplit(massKg, beyondFrostLine, host.HostPreMainSeq)
	clusterType := system.AsteroidRocky
	if rockyIce {
		clusterType = system.AsteroidRockyIce
	}
	return system.AsteroidCluster{Type: clusterType, Mass: mass}, true
}

func bigToFloat(i *big.Int) float64 {
	f := new(big.Float).SetInt(i)
	v, _ := f.Float64()
	return v
}
