package diskmodel

import (
	"testing"

	"github.com/darkdragonsastro/draco-simulator/internal/randgen"
)

func TestBuildForNormalHost(t *testing.T) {
	rng := randgen.NewEngineFromString("diskmodel-normal")
	d := BuildForNormalHost(rng, 1.0, 0.0)
	if !d.HasDisk {
		t.Fatalf("expected a disk for a normal host")
	}
	if d.DiskMassKg <= 0 || d.DustMassKg <= 0 {
		t.Fatalf("expected positive masses, got disk=%v dust=%v", d.DiskMassKg, d.DustMassKg)
	}
	if d.InnerRadiusM <= 0 || d.OuterRadiusM <= d.InnerRadiusM {
		t.Fatalf("expected outer radius beyond inner, got inner=%v outer=%v", d.InnerRadiusM, d.OuterRadiusM)
	}
}

func TestBuildForWhiteDwarfMergerHost(t *testing.T) {
	rng := randgen.NewEngineFromString("diskmodel-wd")
	d := BuildForWhiteDwarfMergerHost(rng)
	if d.InnerRadiusM != 0.02*auMeters {
		t.Fatalf("expected fixed 0.02 AU inner radius, got %v", d.InnerRadiusM)
	}
	if d.OuterRadiusM != 1.0*auMeters {
		t.Fatalf("expected fixed 1 AU outer radius, got %v", d.OuterRadiusM)
	}
	if d.DiskMassKg != d.DustMassKg {
		t.Fatalf("expected disk mass == dust mass for WD-merger disks")
	}
}

func TestInnerRadiusAUMonotonicBands(t *testing.T) {
	lo := innerRadiusAU(0.2)
	mid := innerRadiusAU(1.0)
	hi := innerRadiusAU(5.0)
	if lo <= 0 || mid <= 0 || hi <= 0 {
		t.Fatalf("expected positive inner radii across bands: %v %v %v", lo, mid, hi)
	}
}
