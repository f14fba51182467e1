// Package trackasset is the read-only tabular asset interface for
// evolutionary track tables (spec.md §4.2). It deliberately does not
// implement CSV parsing as a first-class concern of this module: parsing is
// delegated to a caller-supplied Source, the same way the rest of the
// system treats the renderer, windowing layer, and asset manager as external
// collaborators (spec.md §1). A default filesystem-backed Source is
// provided for standalone use.
package trackasset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// Sentinel errors, in the same declare-a-var-block-of-sentinels style as
// internal/database's ErrNotFound.
var (
	// ErrAssetMissing is returned when a track/H-R CSV is not present or its
	// header does not match the expected column set (spec.md §7: AssetMissing).
	ErrAssetMissing = errors.New("trackasset: required asset missing or malformed")

	// ErrMassOutOfRange names a requested initial mass outside the track
	// grid for normal stars (spec.md §7: OutOfRange). No function in this
	// module returns it: BracketMass clamps such a mass to the nearest grid
	// edge instead.
	ErrMassOutOfRange = errors.New("trackasset: initial mass outside track grid")
)

// NormalRow is one sampled evolutionary state from a normal-star MIST-format
// track (spec.md §4.2).
type NormalRow struct {
	StarAge           float64
	StarMass          float64
	StarMdot          float64
	LogTeff           float64
	LogR              float64
	LogSurfaceZ       float64
	SurfaceH1         float64
	SurfaceHe3        float64
	LogCenterT        float64
	LogCenterRho      float64
	Phase             float64
	EvolutionProgress float64
}

// WDRow is one sampled cooling state from a white-dwarf track.
type WDRow struct {
	StarAge      float64
	LogR         float64
	LogTeff      float64
	LogCenterT   float64
	LogCenterRho float64
}

// HRRow is one row of the H-R diagram luminosity-class lookup table
// (spec.md §6): B-V color index mapped to luminosity-class membership,
// unmapped classes carrying Has*=false (empty/-1 in the source CSV).
type HRRow struct {
	BV                                        float64
	Ia, Ib, II, III, IV, V                    float64
	HasIa, HasIb, HasII, HasIII, HasIV, HasV bool
}

// MetallicityBins are the fixed, published normal-star metallicity
// directories (spec.md §4.2).
var MetallicityBins = []float64{-4.0, -3.0, -2.0, -1.5, -1.0, -0.5, 0.0, 0.5}

// WDCoolingSeries distinguishes the two published white-dwarf cooling-track
// families.
type WDCoolingSeries string

const (
	WDThin  WDCoolingSeries = "Thin"
	WDThick WDCoolingSeries = "Thick"
)

// Source is the read-only tabular asset interface the track interpolator
// requires. Implementations need not be backed by files on disk; tests use
// an in-memory Source.
type Source interface {
	// MetallicityBins enumerates the available metallicity-bin directories
	// for normal-star tracks.
	MetallicityBins(ctx context.Context) ([]float64, error)

	// MassesForBin returns the sorted list of initial masses (in solar
	// masses) available under the given metallicity bin.
	MassesForBin(ctx context.Context, feH float64) ([]float64, error)

	// NormalTrack returns every row of the normal track for (feH, mass).
	NormalTrack(ctx context.Context, feH, mass float64) ([]NormalRow, error)

	// WDMasses returns the sorted list of white-dwarf masses available for
	// the given cooling series.
	WDMasses(ctx context.Context, series WDCoolingSeries) ([]float64, error)

	// WDTrack returns every row of the white-dwarf cooling track for
	// (series, mass).
	WDTrack(ctx context.Context, series WDCoolingSeries, mass float64) ([]WDRow, error)

	// HRDiagram returns the H-R diagram luminosity-class lookup table.
	HRDiagram(ctx context.Context) ([]HRRow, error)
}

// DirSource is a Source backed by a directory tree following the file-name
// convention of spec.md §6:
//
//	[Fe_H]={sign}{value:.1f}/{mass:06.2f}0Ms_track.csv
//	WD/Thin/{mass:06.2f}0Ms_track.csv, WD/Thick/...
//	hr_diagram.csv
type DirSource struct {
	Root string
}

// NewDirSource builds a DirSource rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{Root: dir}
}

func feHDirName(feH float64) string {
	sign := "+"
	if feH < 0 {
		sign = "-"
	}
	return fmt.Sprintf("[Fe_H]=%s%.1f", sign, absf(feH))
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func trackFileName(mass float64) string {
	return fmt.Sprintf("%06.2f0Ms_track.csv", mass)
}

func (d *DirSource) MetallicityBins(ctx context.Context) ([]float64, error) {
	var out []float64
	for _, bin := range MetallicityBins {
		dir := filepath.Join(d.Root, feHDirName(bin))
		if _, err := os.Stat(dir); err == nil {
			out = append(out, bin)
		}
	}
	if len(out) == 0 {
		return nil, ErrAssetMissing
	}
	return out, nil
}

func (d *DirSource) MassesForBin(ctx context.Context, feH float64) ([]float64, error) {
	dir := filepath.Join(d.Root, feHDirName(feH))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetMissing, err)
	}
	var masses []float64
	for _, e := range entries {
		var m float64
		if _, err := fmt.Sscanf(e.Name(), "%f0Ms_track.csv", &m); err == nil {
			masses = append(masses, m)
		}
	}
	sort.Float64s(masses)
	if len(masses) == 0 {
		return nil, ErrAssetMissing
	}
	return masses, nil
}

func (d *DirSource) NormalTrack(ctx context.Context, feH, mass float64) ([]NormalRow, error) {
	path := filepath.Join(d.Root, feHDirName(feH), trackFileName(mass))
	records, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	idx, err := columnIndex(header, []string{
		"star_age", "star_mass", "star_mdot", "log_Teff", "log_R",
		"log_surf_z", "surface_h1", "surface_he3", "log_center_T",
		"log_center_Rho", "phase", "x",
	})
	if err != nil {
		return nil, err
	}

	rows := make([]NormalRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, NormalRow{
			StarAge:           f(rec, idx["star_age"]),
			StarMass:          f(rec, idx["star_mass"]),
			StarMdot:          f(rec, idx["star_mdot"]),
			LogTeff:           f(rec, idx["log_Teff"]),
			LogR:              f(rec, idx["log_R"]),
			LogSurfaceZ:       f(rec, idx["log_surf_z"]),
			SurfaceH1:         f(rec, idx["surface_h1"]),
			SurfaceHe3:        f(rec, idx["surface_he3"]),
			LogCenterT:        f(rec, idx["log_center_T"]),
			LogCenterRho:      f(rec, idx["log_center_Rho"]),
			Phase:             f(rec, idx["phase"]),
			EvolutionProgress: f(rec, idx["x"]),
		})
	}
	return rows, nil
}

func (d *DirSource) WDMasses(ctx context.Context, series WDCoolingSeries) ([]float64, error) {
	dir := filepath.Join(d.Root, "WD", string(series))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetMissing, err)
	}
	var masses []float64
	for _, e := range entries {
		var m float64
		if _, err := fmt.Sscanf(e.Name(), "%f0Ms_track.csv", &m); err == nil {
			masses = append(masses, m)
		}
	}
	sort.Float64s(masses)
	if len(masses) == 0 {
		return nil, ErrAssetMissing
	}
	return masses, nil
}

func (d *DirSource) WDTrack(ctx context.Context, series WDCoolingSeries, mass float64) ([]WDRow, error) {
	path := filepath.Join(d.Root, "WD", string(series), trackFileName(mass))
	records, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	idx, err := columnIndex(header, []string{"star_age", "log_R", "log_Teff", "log_center_T", "log_center_Rho"})
	if err != nil {
		return nil, err
	}
	rows := make([]WDRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, WDRow{
			StarAge:      f(rec, idx["star_age"]),
			LogR:         f(rec, idx["log_R"]),
			LogTeff:      f(rec, idx["log_Teff"]),
			LogCenterT:   f(rec, idx["log_center_T"]),
			LogCenterRho: f(rec, idx["log_center_Rho"]),
		})
	}
	return rows, nil
}

func (d *DirSource) HRDiagram(ctx context.Context) ([]HRRow, error) {
	path := filepath.Join(d.Root, "hr_diagram.csv")
	records, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	idx, err := columnIndex(header, []string{"B-V", "Ia", "Ib", "II", "III", "IV", "V"})
	if err != nil {
		return nil, err
	}
	rows := make([]HRRow, 0, len(records))
	for _, rec := range records {
		row := HRRow{BV: f(rec, idx["B-V"])}
		row.Ia, row.HasIa = fOk(rec, idx["Ia"])
		row.Ib, row.HasIb = fOk(rec, idx["Ib"])
		row.II, row.HasII = fOk(rec, idx["II"])
		row.III, row.HasIII = fOk(rec, idx["III"])
		row.IV, row.HasIV = fOk(rec, idx["IV"])
		row.V, row.HasV = fOk(rec, idx["V"])
		rows = append(rows, row)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, []string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrAssetMissing, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrAssetMissing, err)
	}

	var records [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrAssetMissing, err)
		}
		records = append(records, rec)
	}
	return records, header, nil
}

func columnIndex(header []string, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}
	for _, r := range required {
		if _, ok := idx[r]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrAssetMissing, r)
		}
	}
	return idx, nil
}

func f(rec []string, col int) float64 {
	if col < 0 || col >= len(rec) {
		return 0
	}
	v, _ := strconv.ParseFloat(rec[col], 64)
	return v
}

func fOk(rec []string, col int) (float64, bool) {
	if col < 0 || col >= len(rec) {
		return 0, false
	}
	s := rec[col]
	if s == "" || s == "-1" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
