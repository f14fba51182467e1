package composition

import (
	"math"

	"github.com/darkdragonsastro/draco-simulator/internal/randgen"
	"github.com/darkdragonsastro/draco-simulator/internal/system"
)

// SpinInput carries the orbital and structural quantities GenerateSpin needs
// (spec.md §4.12's "Spin and tidal locking" paragraph).
type SpinInput struct {
	Type              system.PlanetType
	MassKg            float64
	RadiusM           float64
	SemiMajorAxisM    float64
	OrbitalPeriodS    float64
	AgeS              float64
	HostMassKg        float64
	HostAgeS          float64
}

// SpinResult is the planet's final spin period and oblateness. Spin is the
// -1 sentinel when the planet is tidally locked (system.Planet.Spin docs
// this convention).
type SpinResult struct {
	Spin       float64
	Oblateness float64
}

func viscosity(t system.PlanetType) float64 {
	switch t {
	case system.PlanetIcePlanet, system.PlanetOceanic:
		return 4e9
	case system.PlanetRocky, system.PlanetTerra, system.PlanetChthonian:
		return 3e10
	default:
		return 1e12
	}
}

// GenerateSpin implements GenerateSpin (spec.md §4.12): it computes the
// viscoelastic tidal-lock timescale for the planet's type, compares it
// against the host's age, and either returns the tidal-lock sentinel or an
// initial-spin-evolved-toward-lock present spin with its corresponding
// oblateness.
func GenerateSpin(rng *randgen.Engine, in SpinInput) SpinResult {
	eta := viscosity(in.Type)
	a := in.SemiMajorAxisM
	r := in.RadiusM
	m := in.MassKg

	term1 := 0.61435 * m * math.Pow(a, 6)
	term2 := 1 + 5.963361e11*eta*math.Pow(r, 4)/(m*m)
	term3 := in.HostMassKg * in.HostMassKg * math.Pow(r, 3)
	lockTimeS := term1 * term2 / term3

	if lockTimeS < in.HostAgeS {
		return SpinResult{Spin: -1}
	}

	var initialSpin float64
	if in.Type == system.PlanetGasGiant || in.Type == system.PlanetHotGasGiant {
		initialSpin = rng.Uniform(21600, 43200)
	} else {
		initialSpin = rng.Uniform(28800, 86400)
	}

	presentSpin := initialSpin + (in.OrbitalPeriodS-initialSpin)*math.Pow(in.AgeS/lockTimeS, 2.35)
	oblateness := 4 * math.Pi * math.Pi * math.Pow(r, 3) / (presentSpin * presentSpin * gravityConstant * m)
	return SpinResult{Spin: presentSpin, Oblateness: oblateness}
}
