package planetclass

import (
	"testing"

	"github.com/darkdragonsastro/draco-simulator/internal/randgen"
	"github.com/darkdragonsastro/draco-simulator/internal/system"
)

func TestClassifyDeletesTinyCore(t *testing.T) {
	rng := randgen.NewEngineFromString("planetclass-delete")
	res := Classify(rng, Input{
		CoreMassKg:     1e18,
		SemiMajorAxisM: 1 * auMeters,
		FrostLineM:     3 * auMeters,
	})
	if !res.Deleted {
		t.Fatalf("expected a sub-1e19 kg core to be deleted, got %+v", res)
	}
}

func TestClassifyDemotesSmallCoreToAsteroidCluster(t *testing.T) {
	rng := randgen.NewEngineFromString("planetclass-asteroid")
	res := Classify(rng, Input{
		CoreMassKg:     1e20,
		SemiMajorAxisM: 1 * auMeters,
		FrostLineM:     3 * auMeters,
	})
	if res.Deleted {
		t.Fatalf("did not expect deletion for a 1e20 kg core")
	}
	if res.Type != system.PlanetRockyAsteroidCluster && res.Type != system.PlanetRockyIceAsteroidCluster {
		t.Fatalf("expected an asteroid-cluster type below the asteroid upper limit, got %v", res.Type)
	}
}

func TestClassifyGasGiantAboveDensityThreshold(t *testing.T) {
	rng := randgen.NewEngineFromString("planetclass-giant")
	massEarth := 300.0
	coreMassKg := massEarth * earthMassKg
	res := Classify(rng, Input{
		CoreMassKg:                          coreMassKg,
		SemiMajorAxisM:                      1 * auMeters,
		FrostLineM:                          3 * auMeters,
		PreMainSequenceBalanceTemperatureK:  0.01,
		HostPreMainSeq:                      true,
	})
	if res.Type != system.PlanetGasGiant {
		t.Fatalf("expected a massive dense core to classify as a gas giant, got %v", res.Type)
	}
}

func TestClassifyOceanicWithinHabitableZone(t *testing.T) {
	rng := randgen.NewEngineFromString("planetclass-oceanic")
	massEarth := 1.0
	res := Classify(rng, Input{
		CoreMassKg:                         massEarth * earthMassKg,
		SemiMajorAxisM:                     1 * auMeters,
		FrostLineM:                         3 * auMeters,
		InnerHabitableZoneM:                0.5 * auMeters,
		PreMainSequenceBalanceTemperatureK: 280,
		HostPreMainSeq:                     true,
	})
	if res.Type != system.PlanetOceanic {
		t.Fatalf("expected an Earth-mass core in the habitable band to classify as oceanic, got %v", res.Type)
	}
	if res.RadiusM <= 0 {
		t.Fatalf("expected a positive radius")
	}
}

func TestClassifyRockyInsideHabitableZoneInnerEdge(t *testing.T) {
	rng := randgen.NewEngineFromString("planetclass-rocky")
	massEarth := 1.0
	res := Classify(rng, Input{
		CoreMassKg:                         massEarth * earthMassKg,
		SemiMajorAxisM:                     0.3 * auMeters,
		FrostLineM:                         3 * auMeters,
		InnerHabitableZoneM:                0.5 * auMeters,
		PreMainSequenceBalanceTemperatureK: 280,
		HostPreMainSeq:                     true,
	})
	if res.Type != system.PlanetRocky {
		t.Fatalf("expected a core inside the habitable zone's inner edge to classify as rocky, got %v", res.Type)
	}
}

func TestClassifyIceBeyondFrostLine(t *testing.T) {
	rng := randgen.NewEngineFromString("planetclass-ice")
	massEarth := 1.0
	res := Classify(rng, Input{
		CoreMassKg:                         massEarth * earthMassKg,
		SemiMajorAxisM:                     5 * auMeters,
		FrostLineM:                         3 * auMeters,
		PreMainSequenceBalanceTemperatureK: 300,
		HostPreMainSeq:                     true,
	})
	if res.Type != system.PlanetIcePlanet {
		t.Fatalf("expected an Earth-mass core beyond the frost line to classify as an ice planet, got %v", res.Type)
	}
}

func TestClassifyRemnantHostSkipsThresholds(t *testing.T) {
	rng := randgen.NewEngineFromString("planetclass-remnant")
	res := Classify(rng, Input{
		CoreMassKg:     50 * earthMassKg,
		SemiMajorAxisM: 1 * auMeters,
		FrostLineM:     3 * auMeters,
		HostIsRemnant:  true,
	})
	if res.Type != system.PlanetRocky {
		t.Fatalf("expected remnant-host core inside frost line to stay rocky, got %v", res.Type)
	}
}

func TestRadiusMonotonicAcrossMassBands(t *testing.T) {
	lo := Radius(0.5, system.PlanetRocky)
	hi := Radius(2.0, system.PlanetRocky)
	if lo <= 0 || hi <= 0 {
		t.Fatalf("expected positive radii, got %v %v", lo, hi)
	}
}

func TestPreMainSequenceLuminosityPositiveWithinBands(t *testing.T) {
	for _, m := range []float64{0.2, 1.0, 5.0} {
		if l := PreMainSequenceLuminosity(m); l <= 0 {
			t.Fatalf("expected positive PMS luminosity for mass %v, got %v", m, l)
		}
	}
	if l := PreMainSequenceLuminosity(50.0); l != 0 {
		t.Fatalf("expected zero PMS luminosity above the table's domain, got %v", l)
	}
}

const auMeters = 1.495978707e11
