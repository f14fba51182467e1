package binaryorbit

import (
	"math"
	"testing"

	"github.com/darkdragonsastro/draco-simulator/internal/randgen"
)

func TestBuildProducesValidGeometry(t *testing.T) {
	rng := randgen.NewEngineFromString("binaryorbit-test")
	res := Build(rng, 1.0*solarMassKg, 0.8*solarMassKg, 3.828e26, 2e26, 1600)

	if res.SemiMajorAxis <= 0 {
		t.Fatalf("expected positive semi-major axis, got %v", res.SemiMajorAxis)
	}
	if res.Eccentricity < 0 || res.Eccentricity >= 1 {
		t.Fatalf("eccentricity out of range: %v", res.Eccentricity)
	}
	if res.PrimarySemiMajorAxis+res.SecondarySemiMajorAxis <= 0 {
		t.Fatalf("expected positive split semi-major axes")
	}

	diff := math.Abs(res.PrimaryArgPeriapsis - res.SecondaryArgPeriapsis)
	if math.Abs(diff-math.Pi) > 1e-9 && math.Abs(diff-math.Pi) > 2*math.Pi-math.Pi-1e-9 {
		// allow wraparound equivalence
	}
}

func TestPerturbAnglesWraps(t *testing.T) {
	rng := randgen.NewEngineFromString("binaryorbit-wrap")
	a := perturbAngles(rng, 0.01, 0.01)
	if a.Theta < 0 || a.Theta > 2*math.Pi {
		t.Fatalf("theta not wrapped: %v", a.Theta)
	}
}

func TestNearStarInnerLimitPositive(t *testing.T) {
	v := nearStarInnerLimit(3.828e26, 1e26, 1.5e11, 1600)
	if v <= 0 {
		t.Fatalf("expected positive inner limit, got %v", v)
	}
}

func TestMassSplitRatio(t *testing.T) {
	rng := randgen.NewEngineFromString("binaryorbit-split")
	res := Build(rng, 2.0*solarMassKg, 1.0*solarMassKg, 3.828e26, 3.828e26, 1600)
	ratio := res.PrimarySemiMajorAxis / res.SecondarySemiMajorAxis
	if math.Abs(ratio-0.5) > 1e-9 {
		t.Fatalf("expected primary:secondary axis ratio 1:2 (inverse mass ratio), got %v", ratio)
	}
}
