package orbitalgen

import (
	"math"
	"testing"

	"github.com/darkdragonsastro/draco-simulator/internal/randgen"
	"github.com/darkdragonsastro/draco-simulator/internal/system"
)

const solarRadiusM = 6.957e8

func sunLikeStar() system.Star {
	return system.Star{
		Age:         4.6e9 * 365.25 * 86400,
		InitialMass: solarMassKg,
		Mass:        solarMassKg,
		FeH:         0,
		Radius:      solarRadiusM,
		Luminosity:  3.828e26,
		Phase:       system.PhaseMainSequence,
		IsSingle:    true,
	}
}

func TestGenerateSingleStarBuildsRootOrbitWithSubOrbits(t *testing.T) {
	rng := randgen.NewEngineFromString("single-star-seed")
	sys := system.New("test-system")
	starHandle := sys.AddStar(sunLikeStar())

	cfg := DefaultConfig()
	if err := GenerateSingleStar(rng, cfg, sys, starHandle); err != nil {
		t.Fatalf("GenerateSingleStar returned error: %v", err)
	}

	if len(sys.Orbits) == 0 {
		t.Fatal("expected at least the root orbit to be added")
	}
	root := sys.Orbits[0]
	if !root.Parent.IsNil() {
		t.Fatalf("expected root orbit's parent to be the nil barycenter handle, got %+v", root.Parent)
	}
	if len(root.Details) != 1 || root.Details[0].Object != starHandle {
		t.Fatalf("expected root orbit to carry exactly the star's own detail, got %+v", root.Details)
	}

	if err := sys.Validate(); err != nil {
		t.Fatalf("generated system failed validation: %v", err)
	}
}

func TestGenerateSingleStarRejectsNonStarHandle(t *testing.T) {
	rng := randgen.NewEngineFromString("bad-handle-seed")
	sys := system.New("test-system")
	sys.AddStar(sunLikeStar())
	planetHandle := sys.AddPlanet(system.Planet{})

	if err := GenerateSingleStar(rng, DefaultConfig(), sys, planetHandle); err != ErrNotAStar {
		t.Fatalf("expected ErrNotAStar, got %v", err)
	}
}

func TestGenerateBinaryBuildsTwoRootOrbits(t *testing.T) {
	rng := randgen.NewEngineFromString("binary-seed")
	sys := system.New("binary-system")
	primary := sys.AddStar(sunLikeStar())

	companion := sunLikeStar()
	companion.Mass = 0.8 * solarMassKg
	companion.InitialMass = 0.8 * solarMassKg
	companion.Luminosity = 0.3 * 3.828e26
	secondary := sys.AddStar(companion)

	if err := GenerateBinary(rng, DefaultConfig(), sys, primary, secondary); err != nil {
		t.Fatalf("GenerateBinary returned error: %v", err)
	}

	if len(sys.Orbits) < 2 {
		t.Fatalf("expected at least two root orbits (one per star), got %d", len(sys.Orbits))
	}

	var sawPrimary, sawSecondary bool
	for _, o := range sys.Orbits {
		if !o.Parent.IsNil() {
			continue
		}
		for _, d := range o.Details {
			if d.Object == primary {
				sawPrimary = true
			}
			if d.Object == secondary {
				sawSecondary = true
			}
		}
	}
	if !sawPrimary || !sawSecondary {
		t.Fatalf("expected both stars to own a root orbit, sawPrimary=%v sawSecondary=%v", sawPrimary, sawSecondary)
	}

	if err := sys.Validate(); err != nil {
		t.Fatalf("generated binary system failed validation: %v", err)
	}
}

func TestHabitableZoneAUSingleStarMatchesFormula(t *testing.T) {
	lum := 3.828e26
	innerAU, outerAU := habitableZoneAU(lum, nil)

	wantInner := math.Sqrt(lum/(4*math.Pi*innerHabitableFluxWm2)) / auMeters
	wantOuter := math.Sqrt(lum/(4*math.Pi*outerHabitableFluxWm2)) / auMeters

	if math.Abs(innerAU-wantInner) > 1e-9*wantInner {
		t.Errorf("inner HZ = %v, want %v", innerAU, wantInner)
	}
	if math.Abs(outerAU-wantOuter) > 1e-9*wantOuter {
		t.Errorf("outer HZ = %v, want %v", outerAU, wantOuter)
	}
}

func TestHabitableZoneAUBinaryNarrowsBounds(t *testing.T) {
	lum := 3.828e26
	comp := &companionInfo{LuminosityW: 1e26, SeparationM: 10 * auMeters}

	singleInner, singleOuter := habitableZoneAU(lum, nil)
	binaryInner, binaryOuter := habitableZoneAU(lum, comp)

	if binaryInner <= singleInner {
		t.Errorf("companion flux should push the inner boundary outward: single=%v binary=%v", singleInner, binaryInner)
	}
	if binaryOuter <= singleOuter {
		t.Errorf("companion flux should push the outer boundary outward: single=%v binary=%v", singleOuter, binaryOuter)
	}
}

func TestFrostLineAUUsesPreMainSequenceLuminosity(t *testing.T) {
	preMS := 1e27
	got := frostLineAU(preMS, nil)

	denom := 4 * math.Pi * stefanBoltzmann * math.Pow(frostLineTemperatureK, 4)
	want := math.Sqrt(preMS/denom) / auMeters

	if math.Abs(got-want) > 1e-9*want {
		t.Errorf("frostLineAU = %v, want %v", got, want)
	}
}

func TestPreMainSequenceBalanceTemperatureKSumsBinaryFlux(t *testing.T) {
	selfLum := 1e27
	a := 1 * auMeters
	comp := &companionInfo{PreMainSequenceLuminosityW: 5e26, SeparationM: 10 * auMeters}

	single := preMainSequenceBalanceTemperatureK(selfLum, a, nil)
	binary := preMainSequenceBalanceTemperatureK(selfLum, a, comp)

	if binary <= single {
		t.Errorf("companion flux should raise the balance temperature: single=%v binary=%v", single, binary)
	}
}

func TestExoticHostSkipsTerraAndKuiperBelt(t *testing.T) {
	rng := randgen.NewEngineFromString("neutron-star-seed")
	sys := system.New("exotic-system")

	star := sunLikeStar()
	star.Phase = system.PhaseNeutronStar
	star.Mass = 1.4 * solarMassKg
	star.InitialMass = 8 * solarMassKg
	star.Radius = 1.2e4
	star.Luminosity = 1e20
	starHandle := sys.AddStar(star)

	if err := GenerateSingleStar(rng, DefaultConfig(), sys, starHandle); err != nil {
		t.Fatalf("GenerateSingleStar returned error: %v", err)
	}

	for _, p := range sys.Planets {
		if p.Type == system.PlanetTerra {
			t.Errorf("no planet around a neutron-star host should be promoted to Terra")
		}
	}
}

func TestGeneratorGenerateOrbitalsDispatchesOnStarCount(t *testing.T) {
	rng := randgen.NewEngineFromString("generator-single-seed")
	sys := system.New("generator-single")
	sys.AddStar(sunLikeStar())

	gen := NewGenerator(DefaultConfig())
	if err := gen.GenerateOrbitals(rng, sys); err != nil {
		t.Fatalf("GenerateOrbitals (single star) returned error: %v", err)
	}
	if err := sys.Validate(); err != nil {
		t.Fatalf("single-star system failed validation: %v", err)
	}

	rng2 := randgen.NewEngineFromString("generator-binary-seed")
	binSys := system.New("generator-binary")
	binSys.AddStar(sunLikeStar())
	companion := sunLikeStar()
	companion.Mass = 0.8 * solarMassKg
	companion.InitialMass = 0.8 * solarMassKg
	companion.Luminosity = 0.3 * 3.828e26
	binSys.AddStar(companion)

	if err := gen.GenerateOrbitals(rng2, binSys); err != nil {
		t.Fatalf("GenerateOrbitals (binary) returned error: %v", err)
	}
	if err := binSys.Validate(); err != nil {
		t.Fatalf("binary system failed validation: %v", err)
	}
}

func TestGeneratorGenerateOrbitalsRejectsUnsupportedStarCount(t *testing.T) {
	rng := randgen.NewEngineFromString("generator-empty-seed")
	sys := system.New("generator-empty")

	gen := NewGenerator(DefaultConfig())
	if err := gen.GenerateOrbitals(rng, sys); err != ErrUnsupportedStarCount {
		t.Fatalf("expected ErrUnsupportedStarCount, got %v", err)
	}
}

func TestZComponentKgHandlesNilZ(t *testing.T) {
	if got := zComponentKg(system.ComplexMass{}); got != 0 {
		t.Errorf("zComponentKg of a zero-value ComplexMass = %v, want 0", got)
	}
	m := system.NewComplexMass(10, 20, 30)
	if got := zComponentKg(m); got != 10 {
		t.Errorf("zComponentKg = %v, want 10", got)
	}
}
