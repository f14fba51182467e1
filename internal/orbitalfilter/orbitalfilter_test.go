package orbitalfilter

import (
	"testing"

	"github.com/darkdragonsastro/draco-simulator/internal/randgen"
	"github.com/darkdragonsastro/draco-simulator/internal/system"
)

func mainSequenceHost() HostStar {
	return HostStar{
		MassKg:         1.98892e30,
		InitialMassSol: 1.0,
		RadiusM:        6.957e8,
		LuminosityW:    3.828e26,
		AgeS:           1e9,
		Phase:          system.PhaseMainSequence,
	}
}

func TestBinaryStabilityDropsBeyondBoundary(t *testing.T) {
	host := mainSequenceHost()
	cfg := Config{
		BinarySemiMajorAxisM: 10 * auMeters,
		BinaryEccentricity:   0,
		Companion:            &Companion{LuminosityW: 1e26, MassFraction: 0.5},
	}
	entries := []Entry{
		{Orbit: system.Orbit{SemiMajorAxis: 1 * auMeters}},
		{Orbit: system.Orbit{SemiMajorAxis: 8 * auMeters}},
	}
	out := binaryStability(host, cfg, entries)
	if len(out) != 1 {
		t.Fatalf("expected 1 surviving core within the stable boundary, got %d", len(out))
	}
}

func TestStellarEngulfmentDropsInsideRadius(t *testing.T) {
	host := mainSequenceHost()
	entries := []Entry{
		{Orbit: system.Orbit{SemiMajorAxis: 0.5 * host.RadiusM}},
		{Orbit: system.Orbit{SemiMajorAxis: 2 * auMeters}},
	}
	out := stellarEngulfment(host, entries)
	if len(out) != 1 {
		t.Fatalf("expected the planet inside the stellar radius to be engulfed, got %d survivors", len(out))
	}
}

func TestChthonianPromotionOnlyForWhiteDwarf(t *testing.T) {
	host := HostStar{InitialMassSol: 1.0, Phase: system.PhaseCOWD}
	limit := 2 * stellarRadiusMaxSol(host.InitialMassSol) * solarRadiusM
	entries := []Entry{
		{
			Planet:             system.Planet{Type: system.PlanetGasGiant},
			Orbit:              system.Orbit{SemiMajorAxis: limit / 2},
			OriginalCoreMassKg: 50 * earthMassKg,
		},
	}
	out := chthonianPromotion(host, entries)
	if out[0].Planet.Type != system.PlanetChthonian {
		t.Fatalf("expected gas giant within 2*Rmax of a white dwarf to become Chthonian, got %v", out[0].Planet.Type)
	}
	if out[0].Planet.Radius <= 0 {
		t.Fatalf("expected a recomputed positive radius")
	}
}

func TestWhiteDwarfScatteringRepositionsRockyPlanet(t *testing.T) {
	host := HostStar{Phase: system.PhaseCOWD, AgeS: 2e6}
	entries := []Entry{
		{Planet: system.Planet{Type: system.PlanetRocky}, Orbit: system.Orbit{SemiMajorAxis: 1 * auMeters}},
	}
	rng := randgen.NewEngineFromString("orbitalfilter-scatter-always-hit")
	var out []Entry
	for i := 0; i < 200; i++ {
		out = whiteDwarfScattering(rng, host, append([]Entry(nil), entries...))
		if out[0].Orbit.SemiMajorAxis != entries[0].Orbit.SemiMajorAxis {
			return
		}
	}
	t.Fatalf("expected at least one scattering event across 200 trials at p=0.15")
}

func TestHotGiantPromotionInflatesRadius(t *testing.T) {
	host := HostStar{LuminosityW: 3.828e30} // deliberately luminous to guarantee >10000 W/m^2
	cfg := Config{}
	entries := []Entry{
		{Planet: system.Planet{Type: system.PlanetGasGiant, Radius: 7e7}, Orbit: system.Orbit{SemiMajorAxis: 1 * auMeters}},
	}
	out := hotGiantPromotion(host, cfg, entries)
	if out[0].Planet.Type != system.PlanetHotGasGiant {
		t.Fatalf("expected promotion to hot gas giant, got %v", out[0].Planet.Type)
	}
	if out[0].Planet.Radius <= 7e7 {
		t.Fatalf("expected inflated radius, got %v", out[0].Planet.Radius)
	}
}

func TestOceanicToIceBeyondOuterHabitableZone(t *testing.T) {
	cfg := Config{OuterHabitableZoneM: 1.5 * auMeters}
	entries := []Entry{
		{Planet: system.Planet{Type: system.PlanetOceanic}, Orbit: system.Orbit{SemiMajorAxis: 2 * auMeters}},
	}
	out := oceanicToIce(cfg, entries)
	if out[0].Planet.Type != system.PlanetIcePlanet {
		t.Fatalf("expected conversion to ice planet beyond the outer habitable boundary, got %v", out[0].Planet.Type)
	}
}

func TestThermalDeathDropsOverheatedPlanet(t *testing.T) {
	host := HostStar{}
	cfg := Config{}
	entries := []Entry{
		{Planet: system.Planet{Type: system.PlanetRocky, BalanceTemperature: 3000}},
		{Planet: system.Planet{Type: system.PlanetRocky, BalanceTemperature: 300}},
	}
	out := ThermalDeath(host, cfg, entries)
	if len(out) != 1 || out[0].Planet.BalanceTemperature != 300 {
		t.Fatalf("expected only the cool planet to survive, got %+v", out)
	}
}

func TestGiantMigrationMigratesAtMostOne(t *testing.T) {
	host := mainSequenceHost()
	cfg := Config{DiskInnerRadiusAU: 0.1}
	entries := []Entry{
		{Planet: system.Planet{Type: system.PlanetRocky}, Orbit: system.Orbit{SemiMajorAxis: 1 * auMeters}},
		{Planet: system.Planet{Type: system.PlanetGasGiant}, Orbit: system.Orbit{SemiMajorAxis: 2 * auMeters}},
		{Planet: system.Planet{Type: system.PlanetGasGiant}, Orbit: system.Orbit{SemiMajorAxis: 3 * auMeters}},
	}

	anyMigrated := false
	for trial := 0; trial < 50; trial++ {
		rng := randgen.NewEngineFromString("orbitalfilter-migrate" + string(rune('a'+trial)))
		out := giantMigration(rng, host, cfg, append([]Entry(nil), entries...))

		migratedCount := 0
		for _, e := range out {
			if e.Planet.Migrated {
				migratedCount++
			}
		}
		if migratedCount > 1 {
			t.Fatalf("expected at most one migrated planet per run, got %d", migratedCount)
		}
		if migratedCount == 1 {
			anyMigrated = true
		}
	}
	if !anyMigrated {
		t.Fatalf("expected at least one migration across 50 differently-seeded trials")
	}
}
