// Package planetclass implements C10, the "JudgeLargePlanets" planet-class
// classifier (spec.md §4.10): it applies the frost-line core-mass boost,
// compares core surface density against pre-main-sequence-temperature
// thresholds to pick a planet type, and demotes or deletes cores too small
// to hold together as a planet.
package planetclass

import (
	"math"

	"github.com/darkdragonsastro/draco-simulator/internal/randgen"
	"github.com/darkdragonsastro/draco-simulator/internal/system"
)

const (
	earthMassKg             = 5.9722e24
	jupiterMassKg           = 1.89813e27
	frostLineBoost          = 2.35
	balanceTempCoefficient  = 4.638759e16
	asteroidBeltProbability = 0.4
)

// AsteroidBeltProbability is the per-core chance (spec.md §4.10) that a
// sub-0.1-Earth-mass core is demoted to an asteroid cluster rather than kept
// as a small planet.
const AsteroidBeltProbability = asteroidBeltProbability

// Input is everything JudgeLargePlanets needs about one core and its host
// to classify it (spec.md §4.10).
type Input struct {
	CoreMassKg     float64
	SemiMajorAxisM float64

	FrostLineM          float64
	InnerHabitableZoneM float64

	// PreMainSequenceBalanceTemperatureK is the planet's equilibrium
	// temperature computed against the host's (or, for binaries, both
	// hosts') pre-main-sequence luminosity (spec.md §4.10).
	PreMainSequenceBalanceTemperatureK float64

	HostIsRemnant  bool // neutron star or black hole host
	HostPreMainSeq bool // host evolution phase < 1 (still forming)

	AsteroidUpperLimitKg float64 // default 1e21
}

// Result is the outcome of classifying one core.
type Result struct {
	Type          system.PlanetType
	CoreMassKg    float64 // possibly asteroid-belt-discounted
	NewCoreMassKg float64 // frost-line-boosted, used for giant thresholds
	RadiusM       float64
	Deleted       bool // core fell below the absolute minimum and is gone
}

// PreMainSequenceLuminosity is the piecewise power-law pre-main-sequence
// luminosity (W) a star of the given initial mass (solar masses) radiated
// before settling onto the main sequence (spec.md §4.10).
func PreMainSequenceLuminosity(initialMassSol float64) float64 {
	const solarLuminosityW = 3.828e26
	common := (math.Pow(10, 2.0-initialMassSol) + 1.0) * solarLuminosityW

	switch {
	case initialMassSol >= 0.075 && initialMassSol < 0.43:
		return common * (0.23 * math.Pow(initialMassSol, 2.3))
	case initialMassSol >= 0.43 && initialMassSol < 2.0:
		return common * math.Pow(initialMassSol, 4)
	case initialMassSol >= 2.0 && initialMassSol <= 12.0:
		return common * (1.5 * math.Pow(initialMassSol, 3.5))
	default:
		return 0
	}
}

// Radius is the mass-radius fit used for rocky/terra/chthonian,
// ice/oceanic, and giant-class planets (spec.md §4.12, shared with C10's
// core-only radius estimate).
func Radius(massEarth float64, t system.PlanetType) float64 {
	switch t {
	case system.PlanetRocky, system.PlanetTerra, system.PlanetChthonian:
		if massEarth < 1.0 {
			return 1.94935 * math.Pow(10, math.Log10(massEarth)/3-0.0804*math.Pow(massEarth, 0.394)-0.20949)
		}
		return math.Pow(massEarth, 1.0/3.7)
	case system.PlanetIcePlanet, system.PlanetOceanic:
		if massEarth < 1.0 {
			return 2.53536 * math.Pow(10, math.Log10(massEarth)/3-0.0807*math.Pow(massEarth, 0.375)-0.209396)
		}
		return 1.3 * math.Pow(massEarth, 1.0/3.905)
	case system.PlanetIceGiant, system.PlanetSubIceGiant, system.PlanetGasGiant,
		system.PlanetHotIceGiant, system.PlanetHotSubIceGiant, system.PlanetHotGasGiant:
		switch {
		case massEarth < 6.2:
			return 1.41 * math.Pow(massEarth, 1.0/3.905)
		case massEarth < 15.0:
			return 0.6 * math.Pow(massEarth, 0.72)
		default:
			x := massEarth / (jupiterMassKg / earthMassKg)
			return 11.0 * (0.96 + 0.21*math.Log10(x) - 0.2*math.Pow(math.Log10(x), 2) + 0.1*math.Pow(x, 0.215))
		}
	default:
		return 0
	}
}

// massEarthUnits converts a kg mass to the Earth-mass units Radius expects.
func massEarthUnits(massKg float64) float64 {
	return massKg / earthMassKg
}

// Classify implements JudgeLargePlanets for a single core (spec.md §4.10).
func Classify(rng *randgen.Engine, in Input) Result {
	beyondFrostLine := in.SemiMajorAxisM > in.FrostLineM
	newCoreMassKg := in.CoreMassKg
	if beyondFrostLine {
		newCoreMassKg = in.CoreMassKg * frostLineBoost
	}

	asteroidUpperLimit := in.AsteroidUpperLimitKg
	if asteroidUpperLimit <= 0 {
		asteroidUpperLimit = 1e21
	}

	if newCoreMassKg < asteroidUpperLimit {
		if newCoreMassKg < 1e19 {
			return Result{Deleted: true}
		}
		t := system.PlanetRockyAsteroidCluster
		if in.HostPreMainSeq && beyondFrostLine {
			t = system.PlanetRockyIceAsteroidCluster
		}
		return Result{Type: t, CoreMassKg: in.CoreMassKg, NewCoreMassKg: newCoreMassKg}
	}

	if massEarthUnits(in.CoreMassKg) < 0.1 && rng.Bernoulli(asteroidBeltProbability) {
		t := system.PlanetRockyAsteroidCluster
		if in.HostPreMainSeq && beyondFrostLine {
			t = system.PlanetRockyIceAsteroidCluster
		}
		discount := math.Pow(10, rng.Uniform(-3, 0))
		return Result{Type: t, CoreMassKg: in.CoreMassKg * discount, NewCoreMassKg: newCoreMassKg}
	}

	provisional := system.PlanetRocky
	if beyondFrostLine {
		provisional = system.PlanetIcePlanet
	}
	radiusM := Radius(massEarthUnits(newCoreMassKg), provisional) * earthRadiusM

	if in.HostIsRemnant {
		return Result{Type: provisional, CoreMassKg: in.CoreMassKg, NewCoreMassKg: newCoreMassKg, RadiusM: radiusM}
	}

	common := in.PreMainSequenceBalanceTemperatureK * balanceTempCoefficient
	density := newCoreMassKg / radiusM

	var t system.PlanetType
	switch {
	case density > common/4:
		t = system.PlanetGasGiant
	case density > common/8:
		t = system.PlanetIceGiant
	case (in.CoreMassKg/radiusM) > common/18 &&
		in.SemiMajorAxisM > in.InnerHabitableZoneM &&
		in.SemiMajorAxisM < in.FrostLineM &&
		in.HostPreMainSeq:
		t = system.PlanetOceanic
	default:
		t = provisional
	}

	return Result{Type: t, CoreMassKg: in.CoreMassKg, NewCoreMassKg: newCoreMassKg, RadiusM: radiusM}
}

const earthRadiusM = 6.3710084e6
