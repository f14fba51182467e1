// Package composition implements C12, body-composition and structure
// (spec.md §4.12): per-planet-type mass partitioning across core, ocean and
// atmosphere, Terra conversion, crust mass, secondary atmosphere, spin and
// tidal locking, oblateness, and equilibrium temperature.
package composition

import (
	"math"

	"github.com/darkdragonsastro/draco-simulator/internal/randgen"
	"github.com/darkdragonsastro/draco-simulator/internal/system"
)

const (
	earthMassKg         = 5.9722e24
	gravityConstant     = 6.6743e-11
	stefanBoltzmann     = 5.670374e-8
	pascalPerAtm        = 101325.0
	energeticNuclideRate = 5e-5
)

// DiskGeometry is the protoplanetary disk's inner/outer radii (AU), needed
// by the ice- and gas-giant atmosphere-mass formulas.
type DiskGeometry struct {
	InnerRadiusAU float64
	OuterRadiusAU float64
}

// MassResult is the outcome of partitioning one planet's mass across its
// core, ocean, and atmosphere (spec.md §4.12). Type is normally the input
// type unchanged, except IceGiant may be downgraded to SubIceGiant once its
// final mass is known.
type MassResult struct {
	Type        system.PlanetType
	Core        system.ComplexMass
	Ocean       system.ComplexMass
	Atmosphere  system.ComplexMass
	TotalMassKg float64
}

// coreSplit is the shared ±10% core volatiles/energetic-nuclide/Z split
// every partitioned planet type applies to its own core (spec.md §4.12's
// "Energetic-nuclide tracking" paragraph).
func coreSplit(rng *randgen.Engine, coreMassKg float64) system.ComplexMass {
	r2 := rng.Uniform(0.9, 1.1)
	r3 := rng.Uniform(0.9, 1.1)
	volatiles := coreMassKg * 1e-4 * r2
	energeticNuclide := coreMassKg * 5e-6 * r3
	z := coreMassKg - volatiles - energeticNuclide
	return system.NewComplexMass(z, volatiles, energeticNuclide)
}

// PartitionMass implements the per-type mass-partitioning formulas of
// spec.md §4.12 for the six types that gain an ocean or atmosphere beyond
// their bare core: ice planet, oceanic, ice giant, gas giant, and the two
// asteroid-cluster types. Rocky/Terra/Chthonian planets keep their
// coreseed-assigned core mass unpartitioned and are not passed here.
func PartitionMass(rng *randgen.Engine, t system.PlanetType, coreMassKg, newCoreMassKg, semiMajorAxisAU float64, disk DiskGeometry, hostPreMainSeq bool, feH float64) MassResult {
	switch t {
	case system.PlanetIcePlanet:
		return partitionIcePlanet(rng, coreMassKg, hostPreMainSeq)
	case system.PlanetOceanic:
		return partitionOceanic(rng, coreMassKg, hostPreMainSeq)
	case system.PlanetIceGiant:
		return partitionIceGiant(rng, coreMassKg, newCoreMassKg, semiMajorAxisAU, disk)
	case system.PlanetGasGiant:
		return partitionGasGiant(rng, coreMassKg, newCoreMassKg, semiMajorAxisAU, disk, feH)
	case system.PlanetRockyAsteroidCluster:
		return partitionRockyAsteroid(rng, coreMassKg, false)
	case system.PlanetRockyIceAsteroidCluster:
		return partitionRockyAsteroid(rng, coreMassKg, true)
	default:
		core := coreSplit(rng, coreMassKg)
		return MassResult{Type: t, Core: core, TotalMassKg: core.TotalKg()}
	}
}

func partitionIcePlanet(rng *randgen.Engine, coreMassKg float64, hostPreMainSeq bool) MassResult {
	t := system.PlanetIcePlanet
	ocean := system.ZeroMass()
	if hostPreMainSeq {
		oceanVolatiles := coreMassKg * 0.15
		oceanEnergeticNuclide := 0.15 * energeticNuclideRate * coreMassKg
		oceanZ := coreMassKg*1.35 - oceanVolatiles - oceanEnergeticNuclide
		ocean = system.NewComplexMass(oceanZ, oceanVolatiles, oceanEnergeticNuclide)
	} else {
		t = system.PlanetRocky
	}
	core := coreSplit(rng, coreMassKg)
	return MassResult{Type: t, Core: core, Ocean: ocean, TotalMassKg: core.Add(ocean).TotalKg()}
}

func partitionOceanic(rng *randgen.Engine, coreMassKg float64, hostPreMainSeq bool) MassResult {
	t := system.PlanetOceanic
	ocean := system.ZeroMass()
	if hostPreMainSeq {
		r1 := rng.Uniform(0, 1.35)
		oceanVolatiles := (coreMassKg * r1) / 9.0
		oceanEnergeticNuclide := energeticNuclideRate * oceanVolatiles
		oceanZ := coreMassKg*r1 - oceanVolatiles - oceanEnergeticNuclide
		ocean = system.NewComplexMass(oceanZ, oceanVolatiles, oceanEnergeticNuclide)
	} else {
		t = system.PlanetRocky
	}
	core := coreSplit(rng, coreMassKg)
	return MassResult{Type: t, Core: core, Ocean: ocean, TotalMassKg: core.Add(ocean).TotalKg()}
}

func partitionIceGiant(rng *randgen.Engine, coreMassKg, newCoreMassKg, semiMajorAxisAU float64, disk DiskGeometry) MassResult {
	r1 := rng.Uniform(2, math.Log10(20))
	common := (0.5 + 0.5*(semiMajorAxisAU-disk.InnerRadiusAU)/(disk.OuterRadiusAU-disk.InnerRadiusAU)) * r1

	atmosphereVolatiles := (newCoreMassKg-coreMassKg)/9.0 + coreMassKg*common/6.0
	atmosphereEnergeticNuclide := energeticNuclideRate * atmosphereVolatiles
	atmosphereZ := coreMassKg*common + (newCoreMassKg - coreMassKg) - atmosphereVolatiles - atmosphereEnergeticNuclide
	atmosphere := system.NewComplexMass(atmosphereZ, atmosphereVolatiles, atmosphereEnergeticNuclide)

	core := coreSplit(rng, coreMassKg)
	total := core.Add(atmosphere)

	t := system.PlanetIceGiant
	if total.TotalKg()/earthMassKg < 10.0 {
		t = system.PlanetSubIceGiant
	}
	return MassResult{Type: t, Core: core, Atmosphere: atmosphere, TotalMassKg: total.TotalKg()}
}

func partitionGasGiant(rng *randgen.Engine, coreMassKg, newCoreMassKg, semiMajorAxisAU float64, disk DiskGeometry, feH float64) MassResult {
	maxR1 := math.Min(50, (1.0/0.0142)*math.Pow(10, feH))
	r1 := rng.Uniform(7, maxR1)
	common := (0.5 + 0.5*(semiMajorAxisAU-disk.InnerRadiusAU)/(disk.OuterRadiusAU-disk.InnerRadiusAU)) * r1

	metalFraction := 0.0142 * math.Pow(10, feH)
	atmosphereZ := metalFraction*coreMassKg*common + (1.0-(1.0+energeticNuclideRate)/9.0)*(newCoreMassKg-coreMassKg)
	atmosphereEnergeticNuclide := energeticNuclideRate * (coreMassKg*common + (newCoreMassKg-coreMassKg)/9.0)
	atmosphereVolatiles := coreMassKg*common + (newCoreMassKg - coreMassKg) - atmosphereZ - atmosphereEnergeticNuclide
	atmosphere := system.NewComplexMass(atmosphereZ, atmosphereVolatiles, atmosphereEnergeticNuclide)

	core := coreSplit(rng, coreMassKg)
	return MassResult{Type: system.PlanetGasGiant, Core: core, Atmosphere: atmosphere, TotalMassKg: core.Add(atmosphere).TotalKg()}
}

func partitionRockyAsteroid(rng *randgen.Engine, coreMassKg float64, rockyIce bool) MassResult {
	core := coreSplit(rng, coreMassKg)
	t := system.PlanetRockyAsteroidCluster

	if !rockyIce {
		return MassResult{Type: t, Core: core, TotalMassKg: core.TotalKg()}
	}
	t = system.PlanetRockyIceAsteroidCluster

	oceanVolatiles := coreMassKg * 0.15
	oceanEnergeticNuclide := 0.15 * energeticNuclideRate * coreMassKg
	oceanZ := coreMassKg*1.35 - oceanVolatiles - oceanEnergeticNuclide
	ocean := system.NewComplexMass(oceanZ, oceanVolatiles, oceanEnergeticNuclide)

	merged := core.Add(ocean)
	return MassResult{Type: t, Core: merged, TotalMassKg: merged.TotalKg()}
}
