package garnish

import (
	"math"

	"github.com/darkdragonsastro/draco-simulator/internal/composition"
	"github.com/darkdragonsastro/draco-simulator/internal/planetclass"
	"github.com/darkdragonsastro/draco-simulator/internal/randgen"
	"github.com/darkdragonsastro/draco-simulator/internal/system"
)

// MoonHost is the parent planet a moon system is generated around (spec.md
// §4.13's "Moons" paragraph).
type MoonHost struct {
	MassKg           float64
	RadiusM          float64
	Normal           system.Angles
	SemiMajorAxisM   float64 // the planet's own orbit, for the Hill sphere
	HostStarMassKg   float64
	HostPreMainSeq   bool
	AsteroidUpperLimitKg float64
	CoreMassZKg      float64 // the planet's heavy-element core mass, bounds moon core sampling
	FrostLineAU      float64

	// HostAgeS is the tidal-lock clock a moon is checked against. The
	// original generator reads the host planet's own age here, but this
	// module never tracks a planet's age independently of its star's (a
	// planet is coeval with its star), so the star's age stands in, the
	// same substitution garnishOnePlanet already makes for the planet's
	// own GenerateSpin call.
	HostAgeS         float64
	IrradianceWm2    float64 // stellar irradiance at the planet's distance; a moon sits too close to its planet for this to change materially
	UniverseAgeYears float64
}

// MoonResult is one generated moon: its orbit and the planet-shaped body
// riding it.
type MoonResult struct {
	Orbit  system.Orbit
	Planet system.Planet
}

// moonCount implements the moon-count decision of spec.md §4.13: up to
// two moons around a sufficiently massive, sufficiently gapped giant, or
// a single-moon coin flip around a smaller but still Hill-sphere-roomy
// planet. Zero elsewhere, including whenever the host star has already
// left the pre-main-sequence.
func moonCount(rng *randgen.Engine, host MoonHost) int {
	if !host.HostPreMainSeq {
		return 0
	}
	roche := liquidRocheRadius(host.MassKg)
	hill := hillSphereRadius(host.SemiMajorAxisM, host.MassKg, host.HostStarMassKg)
	gap := hill/3 - 2*roche

	if host.MassKg > 10*earthMassKg && gap > 1e9 {
		return int(rng.Uniform01() * 3.0)
	}
	if host.MassKg > 100*host.AsteroidUpperLimitKg && gap > 3e8 {
		p := math.Min(0.5, 0.1*gap/3e8)
		if rng.Bernoulli(p) {
			return 1
		}
	}
	return 0
}

// GenerateMoons implements GenerateMoons (spec.md §4.13): it decides how
// many moons the planet gets, places their orbits (with 3:1/5:1 resonance
// options for a second moon), log-samples each moon's core mass between
// 1/600 and 1/30 of the parent's heavy-element core mass, classifies each
// moon as ice or rocky by the frost-line rule, and runs it through the
// shared radius/spin/temperature steps.
func GenerateMoons(rng *randgen.Engine, host MoonHost) []MoonResult {
	count := moonCount(rng, host)
	if count == 0 {
		return nil
	}

	roche := liquidRocheRadius(host.MassKg)
	hill := hillSphereRadius(host.SemiMajorAxisM, host.MassKg, host.HostStarMassKg)

	orbits := make([]system.Orbit, count)
	switch count {
	case 1:
		upper := math.Min(1e9, hill/3-1e8)
		sma := 2*roche + rng.Uniform01()*(upper-2*roche)
		orbits[0] = randomOrbitElements(rng, sma)
		orbits[0].Normal = offsetNormal(rng, host.Normal)
	case 2:
		sma1 := 2*roche + rng.Uniform01()*(7e8-2*roche)
		orbits[0] = randomOrbitElements(rng, sma1)

		p := rng.Uniform01()
		var sma2 float64
		switch {
		case p < 0.1:
			sma2 = 1.587401 * sma1
		case p < 0.2:
			sma2 = 2.080084 * sma1
		default:
			upper := math.Min(2e9, hill/3-1e8)
			sma2 = sma1 + 2e8 + rng.Uniform01()*(upper-(sma1+2e8))
		}
		orbits[1] = randomOrbitElements(rng, sma2)

		orbits[0].Normal = offsetNormal(rng, host.Normal)
		orbits[1].Normal = offsetNormal(rng, host.Normal)
	}

	logLower := math.Log10(math.Max(host.AsteroidUpperLimitKg, host.CoreMassZKg/600))
	logUpper := math.Log10(host.CoreMassZKg / 30.0)

	results := make([]MoonResult, count)
	for i := 0; i < count; i++ {
		coreMassKg := math.Pow(10, logLower+rng.Uniform01()*(logUpper-logLower))

		volatilesRate := rng.Uniform(9000, 11000)
		energeticRate := rng.Uniform(4.5e6, 5.5e6)
		volatiles := coreMassKg / volatilesRate
		energeticNuclide := coreMassKg / energeticRate
		z := coreMassKg - volatiles - energeticNuclide
		core := system.NewComplexMass(z, volatiles, energeticNuclide)

		moon := system.Planet{Core: core}

		if orbits[i].SemiMajorAxis > 5*roche && host.SemiMajorAxisM/auMeters > host.FrostLineAU {
			partitioned := composition.PartitionMass(rng, system.PlanetIcePlanet, coreMassKg, coreMassKg, 0, composition.DiskGeometry{}, host.HostPreMainSeq, 0)
			moon.Type = partitioned.Type
			moon.Core = partitioned.Core
			moon.Ocean = partitioned.Ocean
		} else {
			moon.Type = system.PlanetRocky
		}

		massEarth := moon.Core.Add(moon.Ocean).TotalKg() / earthMassKg
		moon.Radius = planetclass.Radius(massEarth, moon.Type) * earthRadiusM

		moon.Spin = composition.GenerateSpin(rng, composition.SpinInput{
			Type:           moon.Type,
			MassKg:         moon.Mass(),
			RadiusM:        moon.Radius,
			SemiMajorAxisM: orbits[i].SemiMajorAxis,
			OrbitalPeriodS: keplerPeriodS(orbits[i].SemiMajorAxis, host.MassKg),
			AgeS:           host.HostAgeS,
			HostMassKg:     host.MassKg,
			HostAgeS:       host.HostAgeS,
		}).Spin

		moon.BalanceTemperature = composition.CalculateTemperature(rng, composition.TemperatureInput{
			Type:             moon.Type,
			MassKg:           moon.Mass(),
			RadiusM:          moon.Radius,
			AtmosphereMassKg: moon.Atmosphere.TotalKg(),
			IrradianceWm2:    host.IrradianceWm2,
			Spin:             moon.Spin,
			OrbitsStar:       false,
			UniverseAgeYears: host.UniverseAgeYears,
		})

		results[i] = MoonResult{Orbit: orbits[i], Planet: moon}
	}

	return results
}

const earthRadiusM = 6.3710084e6

// keplerPeriodS is Kepler's third law, shared with the planet-level spin
// calculation (internal/orbitalgen's own keplerPeriodS) but kept local here
// since moons orbit their planet, not the star.
func keplerPeriodS(semiMajorAxisM, parentMassKg float64) float64 {
	return 2 * math.Pi * math.Sqrt(math.Pow(semiMajorAxisM, 3)/(system.GravitationalConstant*parentMassKg))
}
