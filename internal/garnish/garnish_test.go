package garnish

import (
	"testing"

	"github.com/darkdragonsastro/draco-simulator/internal/randgen"
	"github.com/darkdragonsastro/draco-simulator/internal/system"
)

func TestGenerateMoonsNoneAroundEvolvedHost(t *testing.T) {
	rng := randgen.NewEngineFromString("garnish-moons-evolved")
	host := MoonHost{
		MassKg:         300 * earthMassKg,
		SemiMajorAxisM: 5 * auMeters,
		HostStarMassKg: solarMassKg,
		HostPreMainSeq: false,
	}
	if moons := GenerateMoons(rng, host); moons != nil {
		t.Fatalf("expected no moons around a post-pre-main-sequence host, got %d", len(moons))
	}
}

func TestGenerateMoonsProducesMassiveGiantMoons(t *testing.T) {
	host := MoonHost{
		MassKg:               300 * earthMassKg,
		RadiusM:              7e7,
		SemiMajorAxisM:       5 * auMeters,
		HostStarMassKg:       solarMassKg,
		HostPreMainSeq:       true,
		AsteroidUpperLimitKg: 1e21,
		CoreMassZKg:          30 * earthMassKg,
		FrostLineAU:          3.0,
		HostAgeS:             1e9 * 365.25 * 86400,
		IrradianceWm2:        50,
		UniverseAgeYears:     1.38e10,
	}

	found := false
	for trial := 0; trial < 30; trial++ {
		rng := randgen.NewEngineFromString("garnish-moons-giant-trial" + string(rune('a'+trial)))
		moons := GenerateMoons(rng, host)
		if len(moons) > 0 {
			found = true
			for _, m := range moons {
				if m.Planet.Core.TotalKg() <= 0 {
					t.Fatalf("expected positive moon core mass")
				}
				if m.Planet.Radius <= 0 {
					t.Fatalf("expected positive moon radius")
				}
				if m.Planet.Spin == 0 {
					t.Fatalf("expected moon spin to resolve to either the -1 tidal-lock sentinel or a positive period, got 0")
				}
				if m.Planet.BalanceTemperature <= 0 {
					t.Fatalf("expected a positive moon balance temperature, got %v", m.Planet.BalanceTemperature)
				}
			}
			break
		}
	}
	if !found {
		t.Fatalf("expected at least one trial to produce moons around a roomy giant")
	}
}

func TestGenerateRingsRespectsEligibilityGate(t *testing.T) {
	rng := randgen.NewEngineFromString("garnish-rings-ineligible")
	host := RingHost{
		Type:           system.PlanetGasGiant,
		MassKg:         300 * earthMassKg,
		RadiusM:        1e10, // deliberately huge, larger than the Roche radius
		SemiMajorAxisM: 5 * auMeters,
		HostStarMassKg: solarMassKg,
		HostPreMainSeq: true,
		FrostLineAU:    3.0,
	}
	if _, _, ok := GenerateRings(rng, host); ok {
		t.Fatalf("expected no rings when the Roche radius is inside the planet's own radius")
	}
}

func TestGenerateRingsEligibleGiantCanProduceRings(t *testing.T) {
	host := RingHost{
		Type:           system.PlanetGasGiant,
		MassKg:         300 * earthMassKg,
		RadiusM:        7e7,
		SemiMajorAxisM: 5 * auMeters,
		HostStarMassKg: solarMassKg,
		HostPreMainSeq: true,
		FrostLineAU:    3.0,
	}

	found := false
	for trial := 0; trial < 30; trial++ {
		rng := randgen.NewEngineFromString("garnish-rings-trial" + string(rune('a'+trial)))
		if _, cluster, ok := GenerateRings(rng, host); ok {
			found = true
			if cluster.Mass.TotalKg() <= 0 {
				t.Fatalf("expected positive ring mass")
			}
			break
		}
	}
	if !found {
		t.Fatalf("expected at least one trial (p=0.5) to produce rings for an eligible gas giant")
	}
}

func TestGenerateTrojanDiscardsBelowThreshold(t *testing.T) {
	rng := randgen.NewEngineFromString("garnish-trojan-tiny")
	host := TrojanHost{
		MassKg:         1e15, // tiny body, Hill-sphere-scaled mass falls below 1e14 kg
		SemiMajorAxisM: 1 * auMeters,
		HostStarMassKg: solarMassKg,
		HostPreMainSeq: true,
		FrostLineAU:    3.0,
	}
	if _, ok := GenerateTrojan(rng, host); ok {
		t.Fatalf("expected no Trojan belt below the 1e14 kg threshold")
	}
}

func TestGenerateTrojanInheritsRingComposition(t *testing.T) {
	rng := randgen.NewEngineFromString("garnish-trojan-rings")
	rings := system.AsteroidCluster{
		Type: system.AsteroidRockyIce,
		Mass: system.NewComplexMass(9e19, 6e18, 1e14),
	}
	host := TrojanHost{
		MassKg:         300 * earthMassKg,
		SemiMajorAxisM: 5 * auMeters,
		HostStarMassKg: solarMassKg,
		HostPreMainSeq: true,
		FrostLineAU:    3.0,
		Rings:          &rings,
		RingType:       system.AsteroidRockyIce,
	}
	cluster, ok := GenerateTrojan(rng, host)
	if !ok {
		t.Fatalf("expected a Trojan belt for a massive giant")
	}
	if cluster.Type != system.AsteroidRockyIce {
		t.Fatalf("expected the Trojan belt to inherit the ring's rocky-ice type, got %v", cluster.Type)
	}
}

func TestGenerateKuiperBeltSitsBeyondDiskEdge(t *testing.T) {
	rng := randgen.NewEngineFromString("garnish-kuiper")
	host := KuiperHost{
		DustMassSolarMasses: 0.01,
		OuterRadiusAU:       30,
		FrostLineAU:         3.0,
		HostPreMainSeq:      true,
	}
	result := GenerateKuiperBelt(rng, host)
	if result.Orbit.SemiMajorAxis <= 30*auMeters {
		t.Fatalf("expected the Kuiper belt to sit beyond the disk's outer edge, got %v AU", result.Orbit.SemiMajorAxis/auMeters)
	}
	if result.Cluster.Type != system.AsteroidRockyIce {
		t.Fatalf("expected a rocky-ice Kuiper belt beyond the frost line, got %v", result.Cluster.Type)
	}
}
