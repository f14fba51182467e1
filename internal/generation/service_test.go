package generation

import (
	"context"
	"testing"

	"github.com/darkdragonsastro/draco-simulator/internal/database"
	"github.com/darkdragonsastro/draco-simulator/internal/eventbus"
	"github.com/darkdragonsastro/draco-simulator/internal/trackasset"
)

// stubSource serves a single-bin, single-mass track catalog entirely from
// memory so these tests never touch the filesystem.
type stubSource struct {
	normalTrack []trackasset.NormalRow
	hrTable     []trackasset.HRRow
}

func (s *stubSource) MetallicityBins(ctx context.Context) ([]float64, error) { return []float64{0}, nil }
func (s *stubSource) MassesForBin(ctx context.Context, feH float64) ([]float64, error) {
	return []float64{1.0}, nil
}
func (s *stubSource) NormalTrack(ctx context.Context, feH, mass float64) ([]trackasset.NormalRow, error) {
	return s.normalTrack, nil
}
func (s *stubSource) WDMasses(ctx context.Context, series trackasset.WDCoolingSeries) ([]float64, error) {
	return nil, nil
}
func (s *stubSource) WDTrack(ctx context.Context, series trackasset.WDCoolingSeries, mass float64) ([]trackasset.WDRow, error) {
	return nil, nil
}
func (s *stubSource) HRDiagram(ctx context.Context) ([]trackasset.HRRow, error) { return s.hrTable, nil }

func TestServiceListTracks(t *testing.T) {
	cfg := DefaultConfig()
	svc := NewService(cfg, database.NewInMemoryDB(), eventbus.NewInMemoryBus())
	svc.normalCache = trackasset.NewCache(&stubSource{hrTable: []trackasset.HRRow{{}}})

	if err := svc.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}

	dirs, err := svc.ListTracks(context.Background())
	if err != nil {
		t.Fatalf("ListTracks returned error: %v", err)
	}
	if len(dirs) != 1 || len(dirs[0].Masses) != 1 || dirs[0].Masses[0] != 1.0 {
		t.Fatalf("unexpected track directory listing: %+v", dirs)
	}
}

func TestGetSystemNotFound(t *testing.T) {
	cfg := DefaultConfig()
	svc := NewService(cfg, database.NewInMemoryDB(), eventbus.NewInMemoryBus())

	_, err := svc.GetSystem(context.Background(), "does-not-exist")
	if err != database.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
