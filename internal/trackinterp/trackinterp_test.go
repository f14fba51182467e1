package trackinterp

import (
	"context"
	"math"
	"testing"

	"github.com/darkdragonsastro/draco-simulator/internal/trackasset"
)

// fakeSource is an in-memory trackasset.Source for tests, avoiding any
// filesystem dependency.
type fakeSource struct {
	bins      []float64
	masses    map[float64][]float64
	normal    map[[2]float64][]trackasset.NormalRow
	wdMasses  map[trackasset.WDCoolingSeries][]float64
	wd        map[string][]trackasset.WDRow
}

func (f *fakeSource) MetallicityBins(ctx context.Context) ([]float64, error) { return f.bins, nil }
func (f *fakeSource) MassesForBin(ctx context.Context, feH float64) ([]float64, error) {
	return f.masses[feH], nil
}
func (f *fakeSource) NormalTrack(ctx context.Context, feH, mass float64) ([]trackasset.NormalRow, error) {
	return f.normal[[2]float64{feH, mass}], nil
}
func (f *fakeSource) WDMasses(ctx context.Context, series trackasset.WDCoolingSeries) ([]float64, error) {
	return f.wdMasses[series], nil
}
func (f *fakeSource) WDTrack(ctx context.Context, series trackasset.WDCoolingSeries, mass float64) ([]trackasset.WDRow, error) {
	return f.wd[string(series)], nil
}
func (f *fakeSource) HRDiagram(ctx context.Context) ([]trackasset.HRRow, error) { return nil, nil }

func simpleTrack(lifetime float64, startTeff, endTeff float64) []trackasset.NormalRow {
	return []trackasset.NormalRow{
		{StarAge: 0, StarMass: 1.0, LogTeff: math.Log10(startTeff), LogR: 0, Phase: 0, EvolutionProgress: 0},
		{StarAge: lifetime * 0.5, StarMass: 1.0, LogTeff: math.Log10((startTeff + endTeff) / 2), LogR: 0, Phase: 1, EvolutionProgress: 1.0},
		{StarAge: lifetime, StarMass: 0.9, LogTeff: math.Log10(endTeff), LogR: 0.1, Phase: 9, EvolutionProgress: 9.0},
	}
}

func newFakeCache() *trackasset.Cache {
	src := &fakeSource{
		bins:   []float64{0.0},
		masses: map[float64][]float64{0.0: {1.0}},
		normal: map[[2]float64][]trackasset.NormalRow{
			{0.0, 1.0}: simpleTrack(1e10, 5800, 4000),
		},
	}
	return trackasset.NewCache(src)
}

func TestGetFullMistData_NormalStar(t *testing.T) {
	cache := newFakeCache()
	out, err := GetFullMistData(context.Background(), cache, Input{
		TargetAge:         5e9,
		TargetFeH:         0.0,
		TargetInitialMass: 1.0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.IsDeath() {
		t.Fatalf("expected a result, got death signal")
	}
	if out.Result.Row.StarAge != 5e9 {
		t.Fatalf("expected StarAge echoed back, got %v", out.Result.Row.StarAge)
	}
}

func TestGetFullMistData_DeathSignal(t *testing.T) {
	cache := newFakeCache()
	out, err := GetFullMistData(context.Background(), cache, Input{
		TargetAge:         2e10,
		TargetFeH:         0.0,
		TargetInitialMass: 1.0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.IsDeath() {
		t.Fatalf("expected death signal for age past lifetime")
	}
	if out.Death.Lifetime <= 0 {
		t.Fatalf("expected positive lifetime in death signal, got %v", out.Death.Lifetime)
	}
}

func TestGetFullMistData_NearDeathSentinel(t *testing.T) {
	cache := newFakeCache()
	out, err := GetFullMistData(context.Background(), cache, Input{
		TargetAge:         NearDeathAgeSentinel,
		TargetFeH:         0.0,
		TargetInitialMass: 1.0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.IsDeath() {
		t.Fatalf("near-death sentinel should resolve to a result just before death")
	}
	if out.Result.Row.StarAge >= out.Result.Lifetime {
		t.Fatalf("near-death age should be before lifetime: age=%v lifetime=%v", out.Result.Row.StarAge, out.Result.Lifetime)
	}
}

func TestBlendRowsMidpoint(t *testing.T) {
	a := trackasset.NormalRow{StarMass: 1.0, LogTeff: 1.0}
	b := trackasset.NormalRow{StarMass: 2.0, LogTeff: 2.0}
	mid := blendRows(a, b, 0.5)
	if mid.StarMass != 1.5 || mid.LogTeff != 1.5 {
		t.Fatalf("unexpected blend: %+v", mid)
	}
}
