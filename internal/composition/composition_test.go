package composition

import (
	"testing"

	"github.com/darkdragonsastro/draco-simulator/internal/randgen"
	"github.com/darkdragonsastro/draco-simulator/internal/system"
)

func TestPartitionGasGiantAddsAtmosphere(t *testing.T) {
	rng := randgen.NewEngineFromString("composition-gas-giant")
	res := PartitionMass(rng, system.PlanetGasGiant, 10*earthMassKg, 300*earthMassKg, 5.0, DiskGeometry{InnerRadiusAU: 0.1, OuterRadiusAU: 30}, true, 0.0)
	if res.Type != system.PlanetGasGiant {
		t.Fatalf("expected type to stay gas giant, got %v", res.Type)
	}
	if res.Atmosphere.TotalKg() <= 0 {
		t.Fatalf("expected a positive atmosphere mass")
	}
	if res.TotalMassKg <= res.Core.TotalKg() {
		t.Fatalf("expected total mass to exceed bare core mass once atmosphere is added")
	}
}

func TestPartitionIceGiantDowngradesToSubIceGiant(t *testing.T) {
	rng := randgen.NewEngineFromString("composition-subice")
	res := PartitionMass(rng, system.PlanetIceGiant, 1*earthMassKg, 2*earthMassKg, 5.0, DiskGeometry{InnerRadiusAU: 0.1, OuterRadiusAU: 30}, true, 0.0)
	if res.Type != system.PlanetSubIceGiant {
		t.Fatalf("expected a sub-10-Earth-mass ice giant to downgrade to sub ice giant, got %v", res.Type)
	}
}

func TestPartitionIcePlanetFallsBackToRockyWithoutPreMainSequenceHost(t *testing.T) {
	rng := randgen.NewEngineFromString("composition-ice-fallback")
	res := PartitionMass(rng, system.PlanetIcePlanet, earthMassKg, earthMassKg, 5.0, DiskGeometry{}, false, 0.0)
	if res.Type != system.PlanetRocky {
		t.Fatalf("expected an ice planet around a non-pre-main-sequence host to fall back to rocky, got %v", res.Type)
	}
	if res.Ocean.TotalKg() != 0 {
		t.Fatalf("expected no ocean mass without a pre-main-sequence host")
	}
}

func TestPartitionRockyIceAsteroidAddsOcean(t *testing.T) {
	rng := randgen.NewEngineFromString("composition-asteroid")
	plain := partitionRockyAsteroid(rng, 1e20, false)
	withIce := partitionRockyAsteroid(rng, 1e20, true)
	if withIce.TotalMassKg <= plain.TotalMassKg {
		t.Fatalf("expected the rocky-ice variant to carry more mass than the plain rocky cluster")
	}
}

func TestApplyTerraPromotesRockyWithinHabitableZone(t *testing.T) {
	rng := randgen.NewEngineFromString("composition-terra")
	massKg := earthMassKg
	radiusM := 6.371e6
	res := ApplyTerra(rng, massKg, TerraInput{
		Type:                system.PlanetRocky,
		CoreMassKg:          massKg,
		RadiusM:             radiusM,
		SemiMajorAxisM:      1 * auMeters,
		InnerHabitableZoneM: 0.5 * auMeters,
		OuterHabitableZoneM: 1.5 * auMeters,
		HostLuminosityW:     3.828e26,
		HostPreMainSeq:      true,
		IrradianceWm2:       1360,
	})
	if res.Type != system.PlanetTerra {
		t.Fatalf("expected a close-in, low-gravity rocky planet to promote to terra, got %v", res.Type)
	}
	if res.Ocean.TotalKg() <= 0 {
		t.Fatalf("expected terra conversion to assign ocean mass")
	}
}

func TestApplyTerraSkipsOutsideHabitableZone(t *testing.T) {
	rng := randgen.NewEngineFromString("composition-terra-outside")
	massKg := 5 * earthMassKg
	radiusM := 8e6
	res := ApplyTerra(rng, massKg, TerraInput{
		Type:                system.PlanetRocky,
		CoreMassKg:          massKg,
		RadiusM:             radiusM,
		SemiMajorAxisM:      10 * auMeters,
		InnerHabitableZoneM: 0.5 * auMeters,
		OuterHabitableZoneM: 1.5 * auMeters,
		HostLuminosityW:     3.828e26,
		HostPreMainSeq:      true,
		IrradianceWm2:       10,
	})
	if res.Type != system.PlanetRocky {
		t.Fatalf("expected a planet beyond the habitable zone to remain rocky, got %v", res.Type)
	}
}

func TestCrustMineralMassZeroForNonRockyTerra(t *testing.T) {
	rng := randgen.NewEngineFromString("composition-crust")
	if m := crustMineralMass(rng, system.PlanetOceanic, earthMassKg); m != 0 {
		t.Fatalf("expected zero crust mass for an oceanic planet, got %v", m)
	}
	if m := crustMineralMass(rng, system.PlanetRocky, earthMassKg); m <= 0 {
		t.Fatalf("expected positive crust mass for a rocky planet")
	}
}

func TestSecondaryAtmosphereSuppressedForColdIcePlanet(t *testing.T) {
	rng := randgen.NewEngineFromString("composition-ice-atmosphere")
	atmosphere, topUp, formed := secondaryAtmosphere(rng, system.PlanetIcePlanet, earthMassKg, 6.371e6, 0.5, 2.0)
	if formed {
		t.Fatalf("did not expect a standalone atmosphere to form below the nitrogen-liquefaction irradiance guard")
	}
	if atmosphere.TotalKg() != 0 {
		t.Fatalf("expected no atmosphere mass")
	}
	if topUp.TotalKg() <= 0 {
		t.Fatalf("expected the foregone atmosphere mass to still top up the core")
	}
}

func TestGenerateSpinLocksWhenLockTimeBelowHostAge(t *testing.T) {
	res := GenerateSpin(nil, SpinInput{
		Type:           system.PlanetRocky,
		MassKg:         earthMassKg,
		RadiusM:        6.371e6,
		SemiMajorAxisM: 0.02 * auMeters,
		OrbitalPeriodS: 1e6,
		AgeS:           1e9,
		HostMassKg:     1.98892e30,
		HostAgeS:       1e9,
	})
	if res.Spin != -1 {
		t.Fatalf("expected a very close-in rocky planet to tidally lock, got spin %v", res.Spin)
	}
	if res.Oblateness != 0 {
		t.Fatalf("expected zero oblateness for a tidally locked planet")
	}
}

func TestGenerateSpinFreeRotatorHasPositiveOblateness(t *testing.T) {
	rng := randgen.NewEngineFromString("composition-spin-free")
	res := GenerateSpin(rng, SpinInput{
		Type:           system.PlanetGasGiant,
		MassKg:         300 * earthMassKg,
		RadiusM:        7e7,
		SemiMajorAxisM: 5 * auMeters,
		OrbitalPeriodS: 3.7e8,
		AgeS:           1e9,
		HostMassKg:     1.98892e30,
		HostAgeS:       1e9,
	})
	if res.Spin <= 0 {
		t.Fatalf("expected a free-rotating giant to keep a positive spin period, got %v", res.Spin)
	}
	if res.Oblateness <= 0 {
		t.Fatalf("expected positive oblateness for a free rotator, got %v", res.Oblateness)
	}
}

func TestCalculateTemperatureGiantUsesAlbedoTable(t *testing.T) {
	rng := randgen.NewEngineFromString("composition-temp-giant")
	temp := CalculateTemperature(rng, TemperatureInput{
		Type:             system.PlanetGasGiant,
		IrradianceWm2:    50000,
		UniverseAgeYears: 1.38e10,
	})
	if temp <= 0 {
		t.Fatalf("expected a positive balance temperature, got %v", temp)
	}
}

func TestCalculateTemperatureFloorsAtCosmicMicrowaveBackground(t *testing.T) {
	rng := randgen.NewEngineFromString("composition-temp-cmb")
	temp := CalculateTemperature(rng, TemperatureInput{
		Type:             system.PlanetIcePlanet,
		IrradianceWm2:    1e-6,
		UniverseAgeYears: 1.38e10,
	})
	cmb := 3.76119e10 / 1.38e10
	if temp < cmb-1e-6 {
		t.Fatalf("expected the floor to apply, got %v below cmb %v", temp, cmb)
	}
}

const auMeters = 1.495978707e11
