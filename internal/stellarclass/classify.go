package stellarclass

import (
	"math"

	"github.com/darkdragonsastro/draco-simulator/internal/randgen"
	"github.com/darkdragonsastro/draco-simulator/internal/trackasset"
)

// WolfRayetH1Threshold is the metallicity-dependent surface-H1 mass
// fraction below which a hot, evolved star is reclassified Wolf-Rayet
// (spec.md §4.4). It tightens at lower metallicity: low-Z winds are weaker
// so the star must strip further before it reveals a WR spectrum.
func WolfRayetH1Threshold(feH float64) float64 {
	if feH < -0.5 {
		return 0.15
	}
	return 0.30
}

// StarState is the finalized observable state the classifier needs. It
// mirrors the fields of system.Star the classifier reads, decoupling this
// package from system's import.
type StarState struct {
	Teff         float64 // K
	SurfaceH1    float64
	Mass         float64 // kg
	Luminosity   float64 // W
	MassLossRate float64 // kg/s, negative
	Phase        int     // mirrors system.EvolutionPhase values
	FeH          float64
	IsWhiteDwarf bool
	IsNeutronStar bool
	IsBlackHole   bool
	IsNull        bool
}

// Evolution phase constants mirrored from system.EvolutionPhase so this
// package has no import-cycle-forcing dependency on system.
const (
	PhaseMainSequence    = 1
	PhaseSupernovaOrPast = 6
)

const solarLuminosityW = 3.828e26

// Classify assigns a StellarClass to a finalized star's state (spec.md
// §4.4), drawing on rng for the B/A peculiar-star Bernoulli and hrTable for
// the H-R-diagram luminosity-class lookup.
func Classify(rng *randgen.Engine, hrTable []trackasset.HRRow, s StarState) StellarClass {
	if s.IsNull {
		return StellarClass{StarType: DeathPlaceholder}
	}
	if s.IsBlackHole {
		return StellarClass{StarType: BlackHole}
	}
	if s.IsNeutronStar {
		return StellarClass{StarType: NeutronStar}
	}
	if s.IsWhiteDwarf {
		return classifyWhiteDwarf(s)
	}

	if s.SurfaceH1 < WolfRayetH1Threshold(s.FeH) && s.Teff >= 25000 {
		return classifyWolfRayet(s)
	}

	hClass, subclass := classifyTemperature(s.Teff)

	c := StellarClass{
		StarType:       NormalStar,
		HSpectralClass: hClass,
		Subclass:       subclass,
	}

	if (hClass == SpectralB || hClass == SpectralA) && s.Phase == PhaseMainSequence {
		if rng.Bernoulli(0.15) {
			c.SpecialMark |= MarkPeculiar
		}
	}

	c.LuminosityClass = classifyLuminosity(hrTable, s)
	return c
}

// temperatureTable is the temperature-keyed spectral lookup of spec.md §4.4,
// in descending Teff order. Each entry's hotEdge-coldEdge span gives the width in K over
// which the whole decade of subclasses (0-9) is interpolated.
type temperatureBand struct {
	class    SpectralClass
	hotEdge  float64
	coldEdge float64
}

var temperatureTable = []temperatureBand{
	{SpectralO, 500000, 30000},
	{SpectralB, 30000, 10000},
	{SpectralA, 10000, 7500},
	{SpectralF, 7500, 6000},
	{SpectralG, 6000, 5200},
	{SpectralK, 5200, 3700},
	{SpectralM, 3700, 2400},
	{SpectralL, 2400, 1300},
	{SpectralT, 1300, 500},
	{SpectralY, 500, 0},
}

func classifyTemperature(teff float64) (SpectralClass, float64) {
	for _, band := range temperatureTable {
		if teff <= band.hotEdge && teff >= band.coldEdge {
			span := band.hotEdge - band.coldEdge
			if span <= 0 {
				return band.class, 0
			}
			frac := (band.hotEdge - teff) / span
			subclass := math.Round(frac*10*10) / 10
			if subclass > 9.9 {
				subclass = 9.9
			}
			return band.class, subclass
		}
	}
	if teff > temperatureTable[0].hotEdge {
		return SpectralO, 0
	}
	return SpectralY, 9.9
}

// classifyWolfRayet implements spec.md §4.4's surface-H1-banded WR branch
// with its hard subclass clamps.
func classifyWolfRayet(s StarState) StellarClass {
	c := StellarClass{StarType: NormalStar}

	if s.Teff >= 200000 {
		c.HSpectralClass = SpectralWO
		c.Subclass = 2
		return c
	}

	switch {
	case s.SurfaceH1 >= 0.20:
		c.HSpectralClass = SpectralWNh
	case s.SurfaceH1 >= 0.05:
		c.HSpectralClass = SpectralWN
	case s.SurfaceH1 >= 0.01:
		c.HSpectralClass = SpectralWC
	default:
		c.HSpectralClass = SpectralWO
	}

	// Temperature-keyed subclass digit: hotter within the WR temperature
	// range maps to a lower digit (W*2 hottest, W*9 coolest).
	const wrHot, wrCold = 200000.0, 25000.0
	frac := (s.Teff - wrCold) / (wrHot - wrCold)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	digit := math.Round(9 - frac*7)

	switch c.HSpectralClass {
	case SpectralWO:
		if digit > 4 {
			digit = 4
		}
	case SpectralWNh:
		if digit < 5 {
			digit = 5
		}
	}
	c.Subclass = digit
	return c
}

func classifyWhiteDwarf(s StarState) StellarClass {
	subclass := math.Round(50400.0/s.Teff*2) / 2
	if subclass > 9.5 {
		subclass = 9.5
	}
	if subclass < 0 {
		subclass = 0
	}

	const solarMass = 1.98892e30
	massMsun := s.Mass / solarMass

	var class SpectralClass
	switch {
	case s.Teff >= 12000 && massMsun < 1.05:
		class = SpectralDA
	case s.Teff >= 12000:
		class = SpectralDB
	case s.Teff >= 45000:
		class = SpectralDO
	default:
		class = SpectralDC
	}

	return StellarClass{
		StarType:       WhiteDwarf,
		HSpectralClass: class,
		Subclass:       subclass,
	}
}

// classifyLuminosity implements spec.md §4.4's H-R-diagram lookup with its
// luminosity-only fallback thresholds.
func classifyLuminosity(hrTable []trackasset.HRRow, s StarState) LuminosityClass {
	lsun := s.Luminosity / solarLuminosityW
	massMsun := s.Mass / 1.98892e30
	massiveMdotLimit := 1e-4 * 1.98892e30 / 3.15576e7 // M_sun/yr in kg/s

	if row, ok := lookupHRRow(hrTable, s.Teff); ok {
		if lc, ok := nearestTabulatedClass(row, lsun); ok {
			return lc
		}
	}

	switch {
	case lsun > 650000 || (massMsun > 15 && -s.MassLossRate > massiveMdotLimit):
		return LuminosityIaPlus
	case lsun > 100000:
		return LuminosityIa
	case lsun > 50000:
		return LuminosityIab
	case lsun > 10000:
		return LuminosityIb
	case lsun > 1000:
		return LuminosityII
	case lsun > 100:
		return LuminosityIII
	case lsun > 10:
		return LuminosityIV
	case lsun > 0.05:
		return LuminosityV
	default:
		return LuminosityVI
	}
}

// lookupHRRow finds the HR-diagram row whose B-V color, derived from the
// same piecewise Teff polynomial used to build the table, is nearest teff.
// The table itself is already keyed by B-V; we invert via the standard
// Ballesteros approximation to land in the same color space as the rows.
func lookupHRRow(hrTable []trackasset.HRRow, teff float64) (trackasset.HRRow, bool) {
	if len(hrTable) == 0 {
		return trackasset.HRRow{}, false
	}
	bv := teffToBV(teff)

	best := hrTable[0]
	bestDist := math.Abs(best.BV - bv)
	for _, row := range hrTable[1:] {
		d := math.Abs(row.BV - bv)
		if d < bestDist {
			best = row
			bestDist = d
		}
	}
	// Outside the table's domain (more than one full color-index unit from
	// the nearest row) falls back to luminosity-only thresholds.
	if bestDist > 1.0 {
		return trackasset.HRRow{}, false
	}
	return best, true
}

// teffToBV approximates B-V color index from Teff by bisecting Ballesteros'
// (2012) forward relation T = 4600*(1/(0.92*BV+1.7) + 1/(0.92*BV+0.62)),
// which has no closed-form inverse.
func teffToBV(teff float64) float64 {
	forward := func(bv float64) float64 {
		return 4600.0 * (1/(0.92*bv+1.7) + 1/(0.92*bv+0.62))
	}
	lo, hi := -0.4, 2.0
	for i := 0; i < 40; i++ {
		mid := (lo + hi) / 2
		if forward(mid) > teff {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

func nearestTabulatedClass(row trackasset.HRRow, lsun float64) (LuminosityClass, bool) {
	type candidate struct {
		lc   LuminosityClass
		has  bool
		logL float64
	}
	candidates := []candidate{
		{LuminosityIa, row.HasIa, row.Ia},
		{LuminosityIb, row.HasIb, row.Ib},
		{LuminosityII, row.HasII, row.II},
		{LuminosityIII, row.HasIII, row.III},
		{LuminosityIV, row.HasIV, row.IV},
		{LuminosityV, row.HasV, row.V},
	}

	logL := math.Log10(math.Max(lsun, 1e-6))
	found := false
	var best candidate
	bestDist := math.MaxFloat64
	for _, c := range candidates {
		if !c.has {
			continue
		}
		d := math.Abs(c.logL - logL)
		if d < bestDist {
			bestDist = d
			best = c
			found = true
		}
	}
	return best.lc, found
}
