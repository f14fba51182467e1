package deathstar

import (
	"context"
	"math"
	"testing"

	"github.com/darkdragonsastro/draco-simulator/internal/randgen"
	"github.com/darkdragonsastro/draco-simulator/internal/system"
)

func noNearDeath(ctx context.Context, initialMassSol, feH, age float64) (float64, error) {
	return initialMassSol * kgPerSolarMass, nil
}

func TestProcessPairInstability(t *testing.T) {
	rng := randgen.NewEngineFromString("deathstar-pi")
	res, err := Process(context.Background(), rng, nil, noNearDeath, Input{
		InitialMassSol: 200,
		FeH:            -2.5,
		Lifetime:       1e6,
		Age:            1e6,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsNull {
		t.Fatalf("expected pair-instability null placeholder, got %+v", res)
	}
	if res.Origin != system.OriginPairInstabilitySupernova {
		t.Fatalf("unexpected origin: %v", res.Origin)
	}
}

func TestProcessDirectCollapseBlackHole(t *testing.T) {
	rng := randgen.NewEngineFromString("deathstar-dcbh")
	res, err := Process(context.Background(), rng, nil, noNearDeath, Input{
		InitialMassSol: 300,
		FeH:            -2.5,
		Lifetime:       1e6,
		Age:            1e6,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsBlackHole {
		t.Fatalf("expected black hole, got %+v", res)
	}
	if res.DimensionlessSpin < 0.001 || res.DimensionlessSpin > 0.998 {
		t.Fatalf("spin out of range: %v", res.DimensionlessSpin)
	}
	if !math.IsNaN(res.Teff) {
		t.Fatalf("expected NaN Teff for black hole, got %v", res.Teff)
	}
}

func TestClassifyByMassNeutronStarBand(t *testing.T) {
	massSol, phase, origin := classifyByMass(15.0)
	if phase != system.PhaseNeutronStar {
		t.Fatalf("expected neutron star phase for 15 Msun progenitor, got %v", phase)
	}
	if origin != system.OriginIronCoreCollapseSupernova {
		t.Fatalf("expected iron core-collapse origin, got %v", origin)
	}
	if massSol <= 0 {
		t.Fatalf("expected positive remnant mass, got %v", massSol)
	}
}

func TestClassifyByMassHeliumWD(t *testing.T) {
	massSol, phase, origin := classifyByMass(0.3)
	if phase != system.PhaseHeliumWD || origin != system.OriginSlowCoolingDown {
		t.Fatalf("expected helium WD / slow cooling, got phase=%v origin=%v", phase, origin)
	}
	want := (0.9795 - 0.393*0.3) * 0.3
	if math.Abs(massSol-want) > 1e-9 {
		t.Fatalf("got remnant mass %v, want %v", massSol, want)
	}
}

func TestProcessNeutronStarMerger(t *testing.T) {
	rng := randgen.NewEngineFromString("deathstar-merge")
	res, err := Process(context.Background(), rng, nil, noNearDeath, Input{
		InitialMassSol: 15,
		FeH:            0,
		Lifetime:       1e6,
		Age:            1e6,
		IsSingleStar:   true,
		Option:         OptionMergeStar,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Origin != system.OriginWhiteDwarfMerge {
		t.Fatalf("expected merger origin, got %v", res.Origin)
	}
	if !res.IsNeutronStar && !res.IsBlackHole {
		t.Fatalf("expected merger remnant to be NS or BH, got %+v", res)
	}
}
