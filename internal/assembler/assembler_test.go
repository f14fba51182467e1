package assembler

import (
	"math"
	"testing"

	"github.com/darkdragonsastro/draco-simulator/internal/system"
)

const (
	solarMassKg = 1.98892e30
	auMeters    = 1.495978707e11
)

func TestAssembleRewritesPeriodFromKepler(t *testing.T) {
	bodies := []Body{
		{Orbit: system.Orbit{SemiMajorAxis: 1 * auMeters}},
	}
	kept, _ := Assemble(solarMassKg, bodies)
	want := 2 * math.Pi * math.Sqrt(math.Pow(1*auMeters, 3)/(gravityConstant*solarMassKg))
	if math.Abs(kept[0].Orbit.Period-want) > 1e-3 {
		t.Fatalf("expected a ~1 year period, got %v s (want %v s)", kept[0].Orbit.Period, want)
	}
}

func TestAssembleCapturesRotationForUnsetSpin(t *testing.T) {
	bodies := []Body{
		{Planet: system.Planet{Spin: 0}, Orbit: system.Orbit{SemiMajorAxis: 1 * auMeters}},
	}
	kept, _ := Assemble(solarMassKg, bodies)
	if kept[0].Planet.Spin != kept[0].Orbit.Period {
		t.Fatalf("expected captured rotation to set spin equal to the orbital period")
	}
}

func TestAssembleResolvesTidalLockSentinelToOrbitalPeriod(t *testing.T) {
	bodies := []Body{
		{Planet: system.Planet{Spin: -1}, Orbit: system.Orbit{SemiMajorAxis: 0.02 * auMeters}},
	}
	kept, _ := Assemble(solarMassKg, bodies)
	if kept[0].Planet.Spin != kept[0].Orbit.Period {
		t.Fatalf("expected the tidal-lock sentinel to resolve to the orbital period, got spin %v vs period %v",
			kept[0].Planet.Spin, kept[0].Orbit.Period)
	}
}

func TestAssembleKeepsFreeRotatorSpinUntouched(t *testing.T) {
	bodies := []Body{
		{Planet: system.Planet{Spin: 3600}, Orbit: system.Orbit{SemiMajorAxis: 5 * auMeters}},
	}
	kept, _ := Assemble(solarMassKg, bodies)
	if kept[0].Planet.Spin != 3600 {
		t.Fatalf("expected a resolved positive spin to survive untouched, got %v", kept[0].Planet.Spin)
	}
}

func TestAssembleRecursesIntoMoons(t *testing.T) {
	planetMassKg := 300 * earthMassKg
	bodies := []Body{
		{
			Planet: system.Planet{
				Spin: 3600,
				Core: system.NewComplexMass(planetMassKg, 0, 0),
				Moons: []system.Moon{
					{Planet: system.Planet{Spin: 0}, Orbit: system.Orbit{SemiMajorAxis: 4e8}},
					{Planet: system.Planet{Spin: -1}, Orbit: system.Orbit{SemiMajorAxis: 8e8}},
				},
			},
			Orbit: system.Orbit{SemiMajorAxis: 5 * auMeters},
		},
	}

	kept, _ := Assemble(solarMassKg, bodies)
	moons := kept[0].Planet.Moons

	wantPeriod0 := keplerPeriod(moons[0].Orbit.SemiMajorAxis, kept[0].Planet.Mass())
	if moons[0].Orbit.Period != wantPeriod0 {
		t.Fatalf("expected the first moon's orbit to be rewritten from Kepler's law around the planet, got %v want %v",
			moons[0].Orbit.Period, wantPeriod0)
	}
	if moons[0].Planet.Spin != moons[0].Orbit.Period {
		t.Fatalf("expected the unset-spin moon to capture rotation to its own orbital period")
	}

	wantPeriod1 := keplerPeriod(moons[1].Orbit.SemiMajorAxis, kept[0].Planet.Mass())
	if moons[1].Planet.Spin != wantPeriod1 {
		t.Fatalf("expected the tidal-locked moon's sentinel to resolve to its own orbital period, got %v want %v",
			moons[1].Planet.Spin, wantPeriod1)
	}
}

const earthMassKg = 5.9722e24

func TestAssembleDemotesAsteroidClusterPlanetType(t *testing.T) {
	bodies := []Body{
		{Planet: system.Planet{Type: system.PlanetRockyIceAsteroidCluster, Core: system.NewComplexMass(1e20, 1e19, 1e14)},
			Orbit: system.Orbit{SemiMajorAxis: 3 * auMeters}},
		{Planet: system.Planet{Type: system.PlanetRocky}, Orbit: system.Orbit{SemiMajorAxis: 1 * auMeters}},
	}
	kept, demoted := Assemble(solarMassKg, bodies)
	if len(kept) != 1 || kept[0].Planet.Type != system.PlanetRocky {
		t.Fatalf("expected only the rocky planet to remain a planet, got %+v", kept)
	}
	if len(demoted) != 1 || demoted[0].Cluster.Type != system.AsteroidRockyIce {
		t.Fatalf("expected the rocky-ice asteroid cluster planet to demote to a rocky-ice cluster, got %+v", demoted)
	}
	if demoted[0].Cluster.Mass.TotalKg() <= 0 {
		t.Fatalf("expected the demoted cluster to carry over the planet's core mass")
	}
}
