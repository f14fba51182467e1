// Package garnish implements C13, the subsystem-garnish generator (spec.md
// §4.13): moons, rings, a Trojan belt, and a Kuiper belt layered onto the
// surviving planets of an already-filtered and -composed system.
package garnish

import (
	"math"

	"github.com/darkdragonsastro/draco-simulator/internal/randgen"
	"github.com/darkdragonsastro/draco-simulator/internal/system"
)

const (
	earthMassKg         = 5.9722e24
	solarMassKg         = 1.98892e30
	liquidRocheCoefficient = 2.02373e7
	auMeters            = 1.495978707e11
	degToRad            = math.Pi / 180
)

// randomOrbitElements fills in the non-semi-major-axis Keplerian elements of
// an orbit the same way every other generator in this module does (spec.md
// §4.9's "seedOrbit" shape, shared here as GenerateOrbitElements is in the
// original): eccentricity U(0,0.05), inclination U(-2,2) degrees, and the
// three remaining angles uniform across a full turn.
func randomOrbitElements(rng *randgen.Engine, semiMajorAxisM float64) system.Orbit {
	return system.Orbit{
		SemiMajorAxis:          semiMajorAxisM,
		Eccentricity:           rng.Uniform(0, 0.05),
		Inclination:            rng.Uniform(-2, 2) * degToRad,
		LongitudeAscendingNode: rng.Uniform(0, 2*math.Pi),
		ArgumentOfPeriapsis:    rng.Uniform(0, 2*math.Pi),
		TrueAnomaly:            rng.Uniform(0, 2*math.Pi),
	}
}

// liquidRocheRadius is the Roche radius for a fluid secondary orbiting the
// given planet mass, shared by moons, rings and the Trojan belt.
func liquidRocheRadius(planetMassKg float64) float64 {
	return liquidRocheCoefficient * math.Cbrt(planetMassKg/earthMassKg)
}

// hillSphereRadius is the gravitational-dominance radius of a planet at the
// given semi-major axis around a host of the given mass.
func hillSphereRadius(semiMajorAxisM, planetMassKg, hostMassKg float64) float64 {
	return semiMajorAxisM * math.Cbrt(3*planetMassKg/hostMassKg)
}

// wrapAngle normalizes theta into [0, 2*pi) and phi into [0, pi), matching
// the original's wraparound for a moon's inclination offset from its
// parent's normal.
func wrapAngle(theta, phi float64) system.Angles {
	for theta > 2*math.Pi {
		theta -= 2 * math.Pi
	}
	for theta < 0 {
		theta += 2 * math.Pi
	}
	for phi > math.Pi {
		phi -= math.Pi
	}
	for phi < 0 {
		phi += math.Pi
	}
	return system.Angles{Theta: theta, Phi: phi}
}

func offsetNormal(rng *randgen.Engine, base system.Angles) system.Angles {
	return wrapAngle(base.Theta+rng.Uniform(-0.09, 0.09), base.Phi+rng.Uniform(-0.09, 0.09))
}

// frostLineSplit implements the ±ice composition rule every garnish body
// (rings, Trojan belt, Kuiper belt) shares: rocky-ice beyond the frost line
// around a pre-main-sequence host, plain rocky otherwise.
func frostLineSplit(massKg float64, beyondFrostLine, hostPreMainSeq bool) (mass system.ComplexMass, rockyIce bool) {
	if beyondFrostLine && hostPreMainSeq {
		volatiles := massKg * 0.064
		energeticNuclide := volatiles * 5e-6
		z := massKg - volatiles - energeticNuclide
		return system.NewComplexMass(z, volatiles, energeticNuclide), true
	}
	energeticNuclide := massKg * 5e-6
	z := massKg - energeticNuclide
	return system.NewComplexMass(z, 0, energeticNuclide), false
}
