package composition

import (
	"math"

	"github.com/darkdragonsastro/draco-simulator/internal/randgen"
	"github.com/darkdragonsastro/draco-simulator/internal/system"
)

// TemperatureInput carries what CalculateTemperature needs to derive a
// planet's equilibrium balance temperature (spec.md §4.12's "Equilibrium
// temperature" paragraph).
type TemperatureInput struct {
	Type              system.PlanetType
	MassKg            float64
	RadiusM           float64
	AtmosphereMassKg  float64
	IrradianceWm2     float64
	Spin              float64
	OrbitsStar        bool
	UniverseAgeYears  float64
}

// CalculateTemperature implements CalculateTemperature (spec.md §4.12): an
// 8-breakpoint piecewise-linear albedo for giants, atmospheric-pressure-fit
// albedo/emissivity for atmosphered terrestrials (with a tidal-lock
// coefficient that doubles the effective pressure term when the planet is
// locked to a star, not a planet host), fixed constants for bare
// rocky/chthonian and ice planets, and a Stefan-Boltzmann balance
// temperature floored at the cosmic microwave background for the given
// universe age.
func CalculateTemperature(rng *randgen.Engine, in TemperatureInput) float64 {
	var albedo, emissivity float64
	s := in.IrradianceWm2

	switch {
	case in.Type.IsGiant():
		albedo, emissivity = giantAlbedo(s), 0.98
	case in.AtmosphereMassKg != 0:
		albedo, emissivity = atmosphericAlbedo(rng, in)
	default:
		albedo, emissivity = bareAlbedo(rng, in.Type)
	}

	balance := math.Pow((s*(1-albedo))/(4*stefanBoltzmann*emissivity), 0.25)
	cmb := 3.76119e10 / in.UniverseAgeYears
	if balance < cmb {
		balance = cmb
	}
	return balance
}

func giantAlbedo(s float64) float64 {
	switch {
	case s <= 170:
		return 0.34
	case s <= 200:
		return 0.0156667*s - 2.32333
	case s <= 3470:
		return 0.75
	case s <= 3790:
		return 7.58156 - 0.00196875*s
	case s <= 103500:
		return 0.12
	case s <= 150000:
		return 0.320323 - 1.93548e-6*s
	case s <= 654000:
		return 0.03
	case s <= 1897000:
		return 4.18343e-7*s - 0.243596
	default:
		return 0.55
	}
}

func atmosphericAlbedo(rng *randgen.Engine, in TemperatureInput) (albedo, emissivity float64) {
	pressureAtm := (gravityConstant * in.MassKg * in.AtmosphereMassKg) / (4 * math.Pi * math.Pow(in.RadiusM, 4)) / pascalPerAtm
	random := rng.Uniform(0.9, 1.1)

	tidalLockCoefficient := 1.0
	if in.OrbitsStar && in.Spin == -1 {
		tidalLockCoefficient = 2.0
	}

	switch in.Type {
	case system.PlanetRocky, system.PlanetChthonian:
		albedo = random * math.Min(0.7, 0.12+0.2*math.Sqrt(tidalLockCoefficient*pressureAtm))
		emissivity = math.Max(0.012, 0.95-0.35*math.Pow(pressureAtm, 0.25))
	case system.PlanetOceanic, system.PlanetTerra:
		albedo = random * math.Min(0.7, 0.07+0.2*math.Sqrt(tidalLockCoefficient*pressureAtm))
		emissivity = math.Max(0.1, 0.98-0.35*math.Pow(pressureAtm, 0.25))
	case system.PlanetIcePlanet:
		albedo = random * math.Max(0.2, 0.4-0.1*math.Sqrt(pressureAtm))
		emissivity = math.Max(0.1, 0.98-0.35*math.Pow(pressureAtm, 0.25))
	}
	return albedo, emissivity
}

func bareAlbedo(rng *randgen.Engine, t system.PlanetType) (albedo, emissivity float64) {
	switch t {
	case system.PlanetRocky, system.PlanetChthonian:
		return 0.12 * rng.Uniform(0.9, 1.1), 0.95
	case system.PlanetIcePlanet:
		return rng.Uniform(0.4, 0.98), 0.98
	default:
		return 0, 0
	}
}
