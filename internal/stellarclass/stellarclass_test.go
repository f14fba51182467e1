package stellarclass

import (
	"testing"

	"github.com/darkdragonsastro/draco-simulator/internal/randgen"
	"github.com/darkdragonsastro/draco-simulator/internal/trackasset"
)

func TestRoundTripString(t *testing.T) {
	cases := []StellarClass{
		{StarType: NormalStar, HSpectralClass: SpectralG, Subclass: 2, LuminosityClass: LuminosityV},
		{StarType: NormalStar, HSpectralClass: SpectralM, Subclass: 3.5, LuminosityClass: LuminosityIII},
		{StarType: NormalStar, HSpectralClass: SpectralF, Subclass: 5, LuminosityClass: LuminosityIaPlus},
		{StarType: WhiteDwarf, HSpectralClass: SpectralDA, Subclass: 5.5},
		{StarType: NormalStar, HSpectralClass: SpectralWN, Subclass: 5, SpecialMark: MarkHEnriched},
		{StarType: NeutronStar},
		{StarType: BlackHole},
		{StarType: DeathPlaceholder, HSpectralClass: SpectralUnknown},
	}

	for _, c := range cases {
		s := c.String()
		parsed, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", s, err)
		}
		if parsed.String() != s {
			t.Fatalf("round-trip mismatch: %q -> %+v -> %q", s, parsed, parsed.String())
		}
	}
}

func TestUint64RoundTrip(t *testing.T) {
	c := StellarClass{
		StarType:        NormalStar,
		HSpectralClass:  SpectralK,
		Subclass:        7.5,
		LuminosityClass: LuminosityII,
		SpecialMark:     MarkPeculiar | MarkEmission,
	}
	packed := c.Uint64()
	unpacked := FromUint64(packed)
	if unpacked != c {
		t.Fatalf("unpack(pack(c)) mismatch: got %+v, want %+v", unpacked, c)
	}
}

func TestClassifyWhiteDwarf(t *testing.T) {
	rng := randgen.NewEngineFromString("classify-wd")
	c := Classify(rng, nil, StarState{
		IsWhiteDwarf: true,
		Teff:         15000,
		Mass:         0.6 * 1.98892e30,
	})
	if c.StarType != WhiteDwarf || c.HSpectralClass != SpectralDA {
		t.Fatalf("expected DA white dwarf, got %+v", c)
	}
}

func TestClassifyBlackHoleAndNeutronStar(t *testing.T) {
	rng := randgen.NewEngineFromString("classify-remnants")
	if c := Classify(rng, nil, StarState{IsBlackHole: true}); c.StarType != BlackHole {
		t.Fatalf("expected black hole class, got %+v", c)
	}
	if c := Classify(rng, nil, StarState{IsNeutronStar: true}); c.StarType != NeutronStar {
		t.Fatalf("expected neutron star class, got %+v", c)
	}
}

func TestClassifyWolfRayetHotClamp(t *testing.T) {
	rng := randgen.NewEngineFromString("classify-wr")
	c := Classify(rng, nil, StarState{
		Teff:      250000,
		SurfaceH1: 0.01,
		FeH:       0,
	})
	if c.HSpectralClass != SpectralWO || c.Subclass != 2 {
		t.Fatalf("expected unconditional WO2 above 200kK, got %+v", c)
	}
}

func TestClassifyLuminosityFallback(t *testing.T) {
	rng := randgen.NewEngineFromString("classify-lum")
	c := Classify(rng, nil, StarState{
		Teff:       5800,
		SurfaceH1:  0.7,
		Mass:       1.98892e30,
		Luminosity: 1 * solarLuminosityW,
		Phase:      PhaseMainSequence,
	})
	if c.LuminosityClass != LuminosityV {
		t.Fatalf("expected class V for a solar-luminosity star with no HR table, got %v", c.LuminosityClass)
	}
}

func TestLookupHRRowEmptyTable(t *testing.T) {
	// Smoke-test that a nil HR table never panics the lookup path.
	_, ok := lookupHRRow(nil, 5800)
	if ok {
		t.Fatalf("expected no match against an empty HR table")
	}
	_ = trackasset.HRRow{}
}
