package composition

import (
	"math"

	"github.com/darkdragonsastro/draco-simulator/internal/randgen"
	"github.com/darkdragonsastro/draco-simulator/internal/system"
)

// TerraInput carries everything the Rocky-to-Terra conversion and the
// crust/secondary-atmosphere steps that ride alongside it need (spec.md
// §4.12's "Terra conversion" and "Crust" and "Secondary atmosphere"
// paragraphs). It is applied once per planet, for any surviving type, around
// any host star that has not yet left the pre-main-sequence phase.
type TerraInput struct {
	Type                system.PlanetType
	CoreMassKg          float64
	RadiusM             float64
	SemiMajorAxisM      float64
	InnerHabitableZoneM float64
	OuterHabitableZoneM float64
	HostLuminosityW     float64
	HostPreMainSeq      bool
	IrradianceWm2       float64
}

// TerraResult is the accumulated effect of the conversion/crust/atmosphere
// pass: a possibly-changed type, an added ocean (Terra conversion only), a
// crust mineral mass, a possible new secondary atmosphere, and any mass the
// atmosphere step dumped back into the core instead of forming one.
type TerraResult struct {
	Type              system.PlanetType
	Ocean             system.ComplexMass
	CrustMineralMassKg float64
	Atmosphere        system.ComplexMass
	CoreTopUp         system.ComplexMass
}

// escapeCoefficient is the shared Jeans-escape proxy used to gate both Terra
// conversion and secondary-atmosphere sizing: 10^(1-max(1, Term1/Term2)),
// where Term1 is a luminosity/distance-scaled thermal-velocity term and
// Term2 is the planet's mass-to-radius ratio (its surface gravity proxy).
func escapeCoefficient(massKg, radiusM, semiMajorAxisM, luminosityW float64) float64 {
	term1 := 1.6567e15 * math.Pow(luminosityW/(4*math.Pi*stefanBoltzmann*semiMajorAxisM*semiMajorAxisM), 0.25)
	term2 := massKg / radiusM
	return math.Pow(10, 1-math.Max(1, term1/term2))
}

// ApplyTerra implements GenerateTerra (spec.md §4.12): it promotes a Rocky
// planet within the habitable zone to Terra when escape coefficient and host
// phase allow it, assigns crust mineral mass to any Rocky/Terra survivor,
// and generates a secondary atmosphere for Rocky/Terra/Oceanic/IcePlanet
// bodies. Call this only for planets orbiting a normal (non-remnant) star.
func ApplyTerra(rng *randgen.Engine, massKg float64, in TerraInput) TerraResult {
	result := TerraResult{Type: in.Type}
	ec := escapeCoefficient(massKg, in.RadiusM, in.SemiMajorAxisM, in.HostLuminosityW)

	insideHabitableZone := in.SemiMajorAxisM >= in.InnerHabitableZoneM && in.SemiMajorAxisM <= in.OuterHabitableZoneM
	if in.Type == system.PlanetRocky && insideHabitableZone && ec > 0.1 && in.HostPreMainSeq {
		result.Type = system.PlanetTerra
		oceanMassKg := in.CoreMassKg * math.Pow(10, rng.Uniform(-0.5, 1)) * 1e-4
		oceanVolatiles := oceanMassKg / 9.0
		oceanEnergeticNuclide := 5e-5 * oceanMassKg / 9.0
		oceanZ := oceanMassKg - oceanVolatiles - oceanEnergeticNuclide
		result.Ocean = system.NewComplexMass(oceanZ, oceanVolatiles, oceanEnergeticNuclide)
	}

	result.CrustMineralMassKg = crustMineralMass(rng, result.Type, massKg)

	if in.HostPreMainSeq {
		if atmosphere, topUp, ok := secondaryAtmosphere(rng, result.Type, massKg, in.RadiusM, ec, in.IrradianceWm2); ok {
			result.Atmosphere = atmosphere
		} else {
			result.CoreTopUp = topUp
		}
	}

	return result
}

// crustMineralMass implements the crust-mass formula (spec.md §4.12): zero
// for any type other than Rocky or Terra.
func crustMineralMass(rng *randgen.Engine, t system.PlanetType, massKg float64) float64 {
	ratio := massKg / earthMassKg
	switch t {
	case system.PlanetRocky:
		return rng.Uniform(0.1, 1.0) * 1e-9 * ratio * ratio * earthMassKg
	case system.PlanetTerra:
		return rng.Uniform(1, 10) * 1e-9 * ratio * ratio * earthMassKg
	default:
		return 0
	}
}

// secondaryAtmosphere implements the secondary-atmosphere step (spec.md
// §4.12): only Rocky, Terra, Oceanic and IcePlanet bodies are eligible. When
// the target mass clears 1e16 kg it forms a standalone atmosphere (1%
// volatiles, 99% Z, no energetic nuclide); otherwise the mass is folded back
// into the core as extra volatiles and energetic nuclides and no atmosphere
// is created. IcePlanet atmospheres are suppressed below 8 W/m^2 of
// irradiance, since nitrogen would not stay gaseous.
func secondaryAtmosphere(rng *randgen.Engine, t system.PlanetType, massKg, radiusM, escapeCoeff, irradianceWm2 float64) (atmosphere, coreTopUp system.ComplexMass, formed bool) {
	var targetKg float64
	switch t {
	case system.PlanetRocky:
		random := math.Pow(10, rng.Uniform(0, 1))
		targetKg = escapeCoeff * massKg * random * 1e-5
	case system.PlanetTerra:
		random := math.Pow(10, rng.Uniform(0, 1))
		targetKg = escapeCoeff * massKg * random * 1e-5 * 0.035
	case system.PlanetOceanic:
		random := math.Pow(10, rng.Uniform(0, 1))
		targetKg = escapeCoeff * massKg * random * 1e-5
	case system.PlanetIcePlanet:
		random := math.Pow(10, rng.Uniform(0, 1))
		if irradianceWm2 > 8 { // otherwise nitrogen would not stay gaseous
			targetKg = escapeCoeff * escapeCoeff * massKg * random * 1e-5
		}
	default:
		return system.ZeroMass(), system.ZeroMass(), false
	}

	if targetKg > 1e16 {
		z := targetKg * 0.99
		volatiles := targetKg * 0.01
		return system.NewComplexMass(z, volatiles, 0), system.ZeroMass(), true
	}

	topUp := system.NewComplexMass(0, 33.1*radiusM*radiusM, 3.31e-4*radiusM*radiusM)
	return system.ZeroMass(), topUp, false
}

const earthRadiusM = 6.3710084e6
