// Package binaryorbit implements C7, the binary-orbit builder (spec.md
// §4.7): given two stars, samples an orbital period, derives the mutual
// semi-major axis and its split between the components, eccentricity, and
// each star's perturbed orbital geometry.
package binaryorbit

import (
	"math"

	"github.com/darkdragonsastro/draco-simulator/internal/randgen"
	"github.com/darkdragonsastro/draco-simulator/internal/system"
)

const (
	gravityConstant = 6.6743e-11
	solarMassKg     = 1.98892e30
	daySeconds      = 86400.0
	auMeters        = 1.495978707e11
	stefanBoltzmann = 5.670374e-8
)

// Result is the computed binary geometry for a pair of stars.
type Result struct {
	SemiMajorAxis float64 // m, mutual orbit
	Period        float64 // s
	Eccentricity  float64

	PrimaryNormal   system.Angles
	SecondaryNormal system.Angles

	PrimaryArgPeriapsis    float64
	SecondaryArgPeriapsis  float64
	PrimaryTrueAnomaly     float64
	SecondaryTrueAnomaly   float64

	PrimarySemiMajorAxis   float64 // m, about the barycenter
	SecondarySemiMajorAxis float64

	// NearStarInnerLimit is each star's "coil" inner-limit orbital radius
	// (spec.md §4.7's near-star inner-limit orbit), indexed [primary, secondary].
	NearStarInnerLimit [2]float64
}

// Build implements C7 (spec.md §4.7). coilTemp is the Dyson-coil
// temperature limit (K) used by the near-star inner-limit formula.
func Build(rng *randgen.Engine, primaryMassKg, secondaryMassKg float64, primaryLuminosityW, secondaryLuminosityW float64, coilTemp float64) Result {
	m1 := primaryMassKg / solarMassKg
	m2 := secondaryMassKg / solarMassKg
	totalMassSol := m1 + m2

	logPLo := math.Log10(50 * 365 * math.Pow(totalMassSol, 0.3))
	logPHi := math.Log10(2500 * 365 * math.Pow(totalMassSol, 0.3))

	var logPDays float64
	for tries := 0; tries < 10000; tries++ {
		logPDays = rng.Normal(5.03, 2.28)
		if logPDays >= logPLo && logPDays <= logPHi {
			break
		}
	}

	periodDays := math.Pow(10, logPDays)
	period := periodDays * daySeconds

	a := math.Cbrt((gravityConstant * solarMassKg * totalMassSol * period * period) / (4 * math.Pi * math.Pi))

	aPrimary := a * m2 / totalMassSol
	aSecondary := a * m1 / totalMassSol

	var ecc float64
	u := rng.Uniform01() * 1.2
	switch {
	case periodDays < 10:
		ecc = u * 0.01
	case periodDays < 1e6:
		ecc = u * (0.1975*math.Log10(periodDays) - 0.385)
	default:
		ecc = u * 0.8
	}
	if ecc < 0 {
		ecc = 0
	}

	baseTheta := rng.Uniform(0, 2*math.Pi)
	basePhi := rng.Uniform(0, math.Pi)

	primaryNormal := perturbAngles(rng, baseTheta, basePhi)
	secondaryNormal := perturbAngles(rng, baseTheta, basePhi)

	argPeriapsis1 := rng.Uniform(0, 2*math.Pi)
	argPeriapsis2 := wrapAngle(argPeriapsis1 + math.Pi)

	trueAnomaly1 := rng.Uniform(0, 2*math.Pi)
	trueAnomaly2 := wrapAngle(trueAnomaly1 + math.Pi)

	res := Result{
		SemiMajorAxis:          a,
		Period:                 period,
		Eccentricity:           ecc,
		PrimaryNormal:          primaryNormal,
		SecondaryNormal:        secondaryNormal,
		PrimaryArgPeriapsis:    argPeriapsis1,
		SecondaryArgPeriapsis:  argPeriapsis2,
		PrimaryTrueAnomaly:     trueAnomaly1,
		SecondaryTrueAnomaly:   trueAnomaly2,
		PrimarySemiMajorAxis:   aPrimary,
		SecondarySemiMajorAxis: aSecondary,
	}

	res.NearStarInnerLimit[0] = nearStarInnerLimit(primaryLuminosityW, secondaryLuminosityW, a, coilTemp)
	res.NearStarInnerLimit[1] = nearStarInnerLimit(secondaryLuminosityW, primaryLuminosityW, a, coilTemp)

	return res
}

// perturbAngles wraps ±0.09 rad around a shared base orientation
// (spec.md §4.7).
func perturbAngles(rng *randgen.Engine, theta, phi float64) system.Angles {
	return system.Angles{
		Theta: wrapAngle(theta + rng.Uniform(-0.09, 0.09)),
		Phi:   wrapAngle(phi + rng.Uniform(-0.09, 0.09)),
	}
}

func wrapAngle(a float64) float64 {
	const twoPi = 2 * math.Pi
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	return a
}

// nearStarInnerLimit solves 4π·(σ·T_coil⁴ − L_companion/(4π·a_binary²)) =
// L_self/a_near² for a_near (spec.md §4.7).
func nearStarInnerLimit(selfLuminosity, companionLuminosity, aBinary, coilTemp float64) float64 {
	companionFlux := companionLuminosity / (4 * math.Pi * aBinary * aBinary)
	denom := 4 * math.Pi * (stefanBoltzmann*math.Pow(coilTemp, 4) - companionFlux)
	if denom <= 0 {
		return math.Inf(1)
	}
	return math.Sqrt(selfLuminosity / denom)
}
