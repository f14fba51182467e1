package coreseed

import (
	"testing"

	"github.com/darkdragonsastro/draco-simulator/internal/randgen"
)

func TestBandForInitialMass(t *testing.T) {
	cases := []struct {
		mass float64
		want HostBand
	}{
		{0.3, BandUnder0p6},
		{0.7, BandUnder0p9},
		{2.0, BandUnder3},
		{5.0, Band3AndAbove},
	}
	for _, c := range cases {
		if got := BandForInitialMass(c.mass); got != c.want {
			t.Errorf("BandForInitialMass(%v) = %v, want %v", c.mass, got, c.want)
		}
	}
}

func TestPlanetCountWithinBandRanges(t *testing.T) {
	rng := randgen.NewEngineFromString("coreseed-count")
	ranges := map[HostBand][2]int{
		BandUnder0p6: {4, 8},
		BandUnder0p9: {5, 10},
		BandUnder3:   {6, 12},
		Band3AndAbove: {4, 8},
	}
	for band, r := range ranges {
		for i := 0; i < 50; i++ {
			n := PlanetCount(rng, band)
			if n < r[0] || n > r[1] {
				t.Fatalf("band %v: PlanetCount() = %d, want in [%d,%d]", band, n, r[0], r[1])
			}
		}
	}
}

func TestPlanetCountWhiteDwarfMergerRange(t *testing.T) {
	rng := randgen.NewEngineFromString("coreseed-wd-count")
	for i := 0; i < 50; i++ {
		n := PlanetCountWhiteDwarfMerger(rng)
		if n < 2 || n > 4 {
			t.Fatalf("PlanetCountWhiteDwarfMerger() = %d, want in [2,4]", n)
		}
	}
}

func TestSeedProducesOrderedBoundaries(t *testing.T) {
	rng := randgen.NewEngineFromString("coreseed-seed")
	const dustMassKg = 1e25
	const innerM = 1e10
	const outerM = 1e13

	cores := Seed(rng, 6, dustMassKg, innerM, outerM)
	if len(cores) != 6 {
		t.Fatalf("expected 6 cores, got %d", len(cores))
	}

	prev := 0.0
	totalMass := 0.0
	for i, c := range cores {
		if c.Orbit.SemiMajorAxis <= prev {
			t.Fatalf("core %d: semi-major axis %v not increasing from %v", i, c.Orbit.SemiMajorAxis, prev)
		}
		if c.Orbit.SemiMajorAxis < innerM || c.Orbit.SemiMajorAxis > outerM {
			t.Fatalf("core %d: semi-major axis %v out of disk bounds [%v,%v]", i, c.Orbit.SemiMajorAxis, innerM, outerM)
		}
		if c.Orbit.Eccentricity < 0 || c.Orbit.Eccentricity > 0.05 {
			t.Fatalf("core %d: eccentricity %v out of range", i, c.Orbit.Eccentricity)
		}
		prev = c.Orbit.SemiMajorAxis
		totalMass += c.Mass.TotalKg()
	}

	if totalMass <= 0 || totalMass > dustMassKg*1.01 {
		t.Fatalf("expected total core mass close to dust mass budget, got %v vs %v", totalMass, dustMassKg)
	}
}

func TestSeedZeroCount(t *testing.T) {
	rng := randgen.NewEngineFromString("coreseed-zero")
	if cores := Seed(rng, 0, 1e25, 1e10, 1e13); cores != nil {
		t.Fatalf("expected nil for zero count, got %v", cores)
	}
}

func TestSplitCompositionConservesMass(t *testing.T) {
	rng := randgen.NewEngineFromString("coreseed-split")
	const massKg = 5.972e24
	m := splitComposition(rng, massKg)
	total := m.TotalKg()
	if total <= 0 || total > massKg*1.001 {
		t.Fatalf("expected split total close to %v, got %v", massKg, total)
	}
}
