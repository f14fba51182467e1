// Package trackinterp implements GetFullMistData (spec.md §4.3): given a
// target age, metallicity, and initial mass, it locates the two bracketing
// evolutionary-track files, aligns their phase-change timelines, and
// bilinearly interpolates the full observable state vector. When the
// requested age exceeds the track's lifetime it returns a structured death
// signal instead of an error — per spec.md §9's design note, this is a
// "Result"-shaped sum, not an exception: the caller (internal/stellargen)
// branches on it explicitly.
package trackinterp

import (
	"context"
	"math"

	"github.com/darkdragonsastro/draco-simulator/internal/genlog"
	"github.com/darkdragonsastro/draco-simulator/internal/trackasset"
)

var log = genlog.New("trackinterp", genlog.Info)

// SolarMdotYearsToSI converts a star_mdot column sampled in solar
// masses/year to kg/s. The track CSVs store mass-loss in the published
// MIST convention (solar masses per year, typically negative).
const SolarMdotYearsToSI = 1.98892e30 / (365.25 * 24 * 3600)

// KgPerSolarMass is the kilogram value of one solar mass.
const KgPerSolarMass = 1.98892e30

// NearDeathAgeSentinel is the magic input value (spec.md §4.3) that asks for
// a state very near the end of the star's life (used by the "Giant" sampling
// option).
const NearDeathAgeSentinel = -1

// nearDeathOffset is how far before the blended lifetime the sentinel lands.
const nearDeathOffset = 500000 // seconds

// Input is the request shape of GetFullMistData.
type Input struct {
	TargetAge         float64 // s, or NearDeathAgeSentinel
	TargetFeH         float64 // dex
	TargetInitialMass float64 // solar masses
	IsWhiteDwarf      bool
	IsSingleWhiteDwarf bool
}

// Result is a blended state vector plus the bookkeeping the caller needs to
// continue (blended lifetime, and for normal stars the snapped metallicity
// actually used).
type Result struct {
	Row            trackasset.NormalRow
	WDRow          trackasset.WDRow
	Lifetime       float64
	SnappedFeH     float64
}

// DeathSignal carries a progenitor's blended lifetime from the interpolator
// to the stellar generator, so GenerateStar can branch into the death-star
// processor (spec.md §7: DeathSignal).
type DeathSignal struct {
	Lifetime float64
}

// Outcome is the sum type GetFullMistData returns: exactly one of Result or
// Death is non-nil.
type Outcome struct {
	Result *Result
	Death  *DeathSignal
}

// IsDeath reports whether this outcome is a death signal.
func (o Outcome) IsDeath() bool { return o.Death != nil }

// GetFullMistData is C3's single entry point (spec.md §4.3).
func GetFullMistData(ctx context.Context, cache *trackasset.Cache, in Input) (Outcome, error) {
	if in.IsWhiteDwarf {
		return getWhiteDwarfData(ctx, cache, in)
	}
	return getNormalData(ctx, cache, in)
}

func getWhiteDwarfData(ctx context.Context, cache *trackasset.Cache, in Input) (Outcome, error) {
	series := trackasset.WDThick
	if in.IsSingleWhiteDwarf {
		series = trackasset.WDThin
	}

	masses, err := cache.WDMasses(ctx, series)
	if err != nil {
		return Outcome{}, err
	}

	lo, hi, alpha := trackasset.BracketMass(masses, in.TargetInitialMass)

	loRows, err := cache.WDTrack(ctx, series, lo)
	if err != nil {
		return Outcome{}, err
	}
	hiRows := loRows
	if hi != lo {
		hiRows, err = cache.WDTrack(ctx, series, hi)
		if err != nil {
			return Outcome{}, err
		}
	}

	loRow, loEndAge := wdRowAtAge(loRows, in.TargetAge)
	hiRow, hiEndAge := wdRowAtAge(hiRows, in.TargetAge)

	row := trackasset.WDRow{
		StarAge:      in.TargetAge,
		LogR:         lerp(loRow.LogR, hiRow.LogR, alpha),
		LogTeff:      lerp(loRow.LogTeff, hiRow.LogTeff, alpha),
		LogCenterT:   lerp(loRow.LogCenterT, hiRow.LogCenterT, alpha),
		LogCenterRho: lerp(loRow.LogCenterRho, hiRow.LogCenterRho, alpha),
	}

	massSol := lerp(lo, hi, alpha)
	if massSol < 0.2 || massSol > 1.3 {
		row.LogR = math.Log10(0.0323 - 0.021384*massSol)
		row.LogCenterT = math.NaN()
		row.LogCenterRho = math.NaN()
	}

	endAge := lerp(loEndAge, hiEndAge, alpha)
	if in.TargetAge > endAge && endAge > 0 {
		teff := math.Pow(10, row.LogTeff)
		teff *= math.Pow((20*endAge)/(in.TargetAge+19*endAge), 1.75)
		row.LogTeff = math.Log10(teff)
	}

	return Outcome{Result: &Result{WDRow: row, Lifetime: endAge}}, nil
}

// wdRowAtAge linearly interpolates a white-dwarf track by StarAge, reusing
// the last row once age exceeds the file's final sample (spec.md §4.3).
func wdRowAtAge(rows []trackasset.WDRow, age float64) (trackasset.WDRow, float64) {
	if len(rows) == 0 {
		return trackasset.WDRow{}, 0
	}
	endAge := rows[len(rows)-1].StarAge
	if age >= endAge {
		return rows[len(rows)-1], endAge
	}

	ages := make([]float64, len(rows))
	for i, r := range rows {
		ages[i] = r.StarAge
	}
	i := trackasset.BinarySearchInterval(ages, age)
	a, b := rows[i], rows[i+1]
	t := 0.0
	if b.StarAge != a.StarAge {
		t = (age - a.StarAge) / (b.StarAge - a.StarAge)
	}
	return trackasset.WDRow{
		StarAge:      age,
		LogR:         lerp(a.LogR, b.LogR, t),
		LogTeff:      lerp(a.LogTeff, b.LogTeff, t),
		LogCenterT:   lerp(a.LogCenterT, b.LogCenterT, t),
		LogCenterRho: lerp(a.LogCenterRho, b.LogCenterRho, t),
	}, endAge
}

func getNormalData(ctx context.Context, cache *trackasset.Cache, in Input) (Outcome, error) {
	bins, err := cache.Metallicities(ctx)
	if err != nil {
		return Outcome{}, err
	}
	snappedFeH := trackasset.NearestMetallicityBin(bins, in.TargetFeH)

	masses, err := cache.MassesForBin(ctx, snappedFeH)
	if err != nil {
		return Outcome{}, err
	}

	// Sub-0.1 solar mass extrapolation: only one file is available.
	if len(masses) == 1 && masses[0] <= 0.1+1e-9 && in.TargetInitialMass < masses[0] {
		return extrapolateSubMinimum(ctx, cache, snappedFeH, masses[0], in)
	}

	lo, hi, alpha := trackasset.BracketMass(masses, in.TargetInitialMass)

	loRows, err := cache.NormalTrack(ctx, snappedFeH, lo)
	if err != nil {
		return Outcome{}, err
	}
	hiRows := loRows
	loPC, err := cache.PhaseChanges(ctx, snappedFeH, lo)
	if err != nil {
		return Outcome{}, err
	}
	hiPC := loPC
	if hi != lo {
		hiRows, err = cache.NormalTrack(ctx, snappedFeH, hi)
		if err != nil {
			return Outcome{}, err
		}
		hiPC, err = cache.PhaseChanges(ctx, snappedFeH, hi)
		if err != nil {
			return Outcome{}, err
		}
	}

	loLifetime := lastAge(loRows)
	hiLifetime := lastAge(hiRows)
	blendedLifetime := lerp(loLifetime, hiLifetime, alpha)

	targetAge := in.TargetAge
	if targetAge == NearDeathAgeSentinel {
		targetAge = blendedLifetime - nearDeathOffset
	}

	loAligned, hiAligned := alignTimelines(loPC, hiPC)

	blendedTimeline := make([]trackasset.PhaseChange, len(loAligned))
	for i := range blendedTimeline {
		blendedTimeline[i] = trackasset.PhaseChange{
			Age:               lerp(loAligned[i].Age, hiAligned[i].Age, alpha),
			Phase:             loAligned[i].Phase,
			EvolutionProgress: lerp(loAligned[i].EvolutionProgress, hiAligned[i].EvolutionProgress, alpha),
		}
	}

	if len(blendedTimeline) == 0 {
		return Outcome{}, trackasset.ErrAssetMissing
	}
	if targetAge > blendedTimeline[len(blendedTimeline)-1].Age {
		return Outcome{Death: &DeathSignal{Lifetime: blendedLifetime}}, nil
	}

	evoProgress := progressAtAge(blendedTimeline, targetAge)

	bothEndAtNine := loAligned[len(loAligned)-1].Phase >= 9 && hiAligned[len(hiAligned)-1].Phase >= 9
	if bothEndAtNine && evoProgress > 9.0+1e-6 {
		log.Warnf("blended evolution progress %.4f exceeds phase 9, clamping", evoProgress)
		evoProgress = 9.0
	}

	loRow := rowAtProgress(loRows, evoProgress)
	hiRow := rowAtProgress(hiRows, evoProgress)

	row := blendRows(loRow, hiRow, alpha)
	row.StarAge = targetAge

	return Outcome{Result: &Result{Row: row, Lifetime: blendedLifetime, SnappedFeH: snappedFeH}}, nil
}

func lastAge(rows []trackasset.NormalRow) float64 {
	if len(rows) == 0 {
		return 0
	}
	return rows[len(rows)-1].StarAge
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// alignTimelines reconciles two phase-change timelines that may disagree on
// phase-change count (spec.md §4.3, "Track alignment"). See DESIGN.md for
// the interpretation chosen for its ambiguous phrasing.
func alignTimelines(lo, hi []trackasset.PhaseChange) ([]trackasset.PhaseChange, []trackasset.PhaseChange) {
	if len(lo) == 0 || len(hi) == 0 {
		return lo, hi
	}

	loTerm9 := lo[len(lo)-1].Phase >= 9
	hiTerm9 := hi[len(hi)-1].Phase >= 9

	var loOut, hiOut []trackasset.PhaseChange

	switch {
	case loTerm9 && hiTerm9:
		target := min(len(lo), len(hi))
		loOut = tailPreserveLastTwo(lo, target)
		hiOut = tailPreserveLastTwo(hi, target)

	case loTerm9 && len(lo) == len(hi)+1:
		loOut = dropLastAndRestamp(lo, hi)
		hiOut = hi

	case hiTerm9 && len(hi) == len(lo)+1:
		hiOut = dropLastAndRestamp(hi, lo)
		loOut = lo

	default:
		target := min(len(lo), len(hi))
		loOut = truncatePreservingFinal(lo, target)
		hiOut = truncatePreservingFinal(hi, target)
		finalPhase := math.Max(loOut[len(loOut)-1].Phase, hiOut[len(hiOut)-1].Phase)
		finalProgress := math.Max(loOut[len(loOut)-1].EvolutionProgress, hiOut[len(hiOut)-1].EvolutionProgress)
		loOut[len(loOut)-1].Phase = finalPhase
		hiOut[len(hiOut)-1].Phase = finalPhase
		loOut[len(loOut)-1].EvolutionProgress = finalProgress
		hiOut[len(hiOut)-1].EvolutionProgress = finalProgress
	}

	compensateLastCommonPhase(loOut, hiOut)

	return loOut, hiOut
}

func tailPreserveLastTwo(pc []trackasset.PhaseChange, target int) []trackasset.PhaseChange {
	if target < 2 {
		target = min(len(pc), 2)
	}
	if target > len(pc) {
		target = len(pc)
	}
	return append([]trackasset.PhaseChange(nil), pc[len(pc)-target:]...)
}

func truncatePreservingFinal(pc []trackasset.PhaseChange, target int) []trackasset.PhaseChange {
	if target > len(pc) {
		target = len(pc)
	}
	if target < 1 {
		target = 1
	}
	out := append([]trackasset.PhaseChange(nil), pc[:target-1]...)
	out = append(out, pc[len(pc)-1])
	return out
}

func dropLastAndRestamp(longer, shorter []trackasset.PhaseChange) []trackasset.PhaseChange {
	out := append([]trackasset.PhaseChange(nil), longer[:len(longer)-1]...)
	if len(out) > 0 && len(shorter) > 0 {
		out[len(out)-1].Phase = shorter[len(shorter)-1].Phase
		out[len(out)-1].EvolutionProgress = shorter[len(shorter)-1].EvolutionProgress
	}
	return out
}

// compensateLastCommonPhase shifts the penultimate and final ages of the
// longer-lived timeline backward by the gap observed at first divergence,
// so the two timelines' final phase transitions land at comparable ages
// before being blended (spec.md §4.3).
func compensateLastCommonPhase(lo, hi []trackasset.PhaseChange) {
	n := min(len(lo), len(hi))
	divergeAt := -1
	for i := 0; i < n; i++ {
		if lo[i].Phase != hi[i].Phase {
			divergeAt = i
			break
		}
	}
	if divergeAt <= 0 {
		return
	}

	gap := hi[divergeAt].Age - lo[divergeAt].Age
	if gap == 0 {
		return
	}

	shiftTail := lo
	if gap < 0 {
		shiftTail = hi
		gap = -gap
	}
	last := len(shiftTail) - 1
	if last >= 1 {
		shiftTail[last].Age -= gap
		shiftTail[last-1].Age -= gap
	}
}

// progressAtAge locates the phase-change interval containing age and
// linearly interpolates phaseIndex+fractionalPosition within it.
func progressAtAge(timeline []trackasset.PhaseChange, age float64) float64 {
	ages := make([]float64, len(timeline))
	for i, t := range timeline {
		ages[i] = t.Age
	}
	i := trackasset.BinarySearchInterval(ages, age)
	a, b := timeline[i], timeline[i+1]
	t := 0.0
	if b.Age != a.Age {
		t = (age - a.Age) / (b.Age - a.Age)
	}
	return lerp(a.EvolutionProgress, b.EvolutionProgress, t)
}

// rowAtProgress binary-searches a track's EvolutionProgress column and
// linearly interpolates the surrounding two rows; the phase index is
// piecewise-constant, taken from the lower row (spec.md §4.3).
func rowAtProgress(rows []trackasset.NormalRow, progress float64) trackasset.NormalRow {
	if len(rows) == 0 {
		return trackasset.NormalRow{}
	}
	progresses := make([]float64, len(rows))
	for i, r := range rows {
		progresses[i] = r.EvolutionProgress
	}
	i := trackasset.BinarySearchInterval(progresses, progress)
	a, b := rows[i], rows[i+1]
	t := 0.0
	if b.EvolutionProgress != a.EvolutionProgress {
		t = (progress - a.EvolutionProgress) / (b.EvolutionProgress - a.EvolutionProgress)
	}
	blended := blendRows(a, b, t)
	blended.Phase = a.Phase
	return blended
}

func blendRows(a, b trackasset.NormalRow, t float64) trackasset.NormalRow {
	return trackasset.NormalRow{
		StarAge:           lerp(a.StarAge, b.StarAge, t),
		StarMass:          lerp(a.StarMass, b.StarMass, t),
		StarMdot:          lerp(a.StarMdot, b.StarMdot, t),
		LogTeff:           lerp(a.LogTeff, b.LogTeff, t),
		LogR:              lerp(a.LogR, b.LogR, t),
		LogSurfaceZ:       lerp(a.LogSurfaceZ, b.LogSurfaceZ, t),
		SurfaceH1:         lerp(a.SurfaceH1, b.SurfaceH1, t),
		SurfaceHe3:        lerp(a.SurfaceHe3, b.SurfaceHe3, t),
		LogCenterT:        lerp(a.LogCenterT, b.LogCenterT, t),
		LogCenterRho:      lerp(a.LogCenterRho, b.LogCenterRho, t),
		Phase:             math.Max(a.Phase, b.Phase),
		EvolutionProgress: lerp(a.EvolutionProgress, b.EvolutionProgress, t),
	}
}

// extrapolateSubMinimum handles targets below the lowest tabulated mass
// (0.1 solar masses is the lightest file published) by rescaling the single
// available file's phase-change points and state vector (spec.md §4.3).
func extrapolateSubMinimum(ctx context.Context, cache *trackasset.Cache, feH, fileMass float64, in Input) (Outcome, error) {
	rows, err := cache.NormalTrack(ctx, feH, fileMass)
	if err != nil {
		return Outcome{}, err
	}
	pc, err := cache.PhaseChanges(ctx, feH, fileMass)
	if err != nil {
		return Outcome{}, err
	}

	ratio := in.TargetInitialMass / fileMass
	shift := math.Pow(ratio, -1.3)
	scale := math.Pow(ratio, 2.3)

	shiftedPC := make([]trackasset.PhaseChange, len(pc))
	for i, p := range pc {
		shiftedPC[i] = trackasset.PhaseChange{Age: p.Age * shift, Phase: p.Phase, EvolutionProgress: p.EvolutionProgress}
	}

	lifetime := shiftedPC[len(shiftedPC)-1].Age

	targetAge := in.TargetAge
	if targetAge == NearDeathAgeSentinel {
		targetAge = lifetime - nearDeathOffset
	}
	if targetAge > lifetime {
		return Outcome{Death: &DeathSignal{Lifetime: lifetime}}, nil
	}

	evoProgress := progressAtAge(shiftedPC, targetAge)
	row := rowAtProgress(rows, evoProgress)

	row.StarMass *= scale
	row.StarMdot *= scale
	origTeff := math.Pow(10, row.LogTeff)
	r := math.Pow(10, row.LogR) * scale
	row.LogR = math.Log10(r)

	// Recompute Teff from the new radius, holding luminosity at its
	// pre-rescale value (L = R^2*Teff^4): newTeff = origTeff / sqrt(scale),
	// per spec.md §4.3 ("rescale ... before recomputing Teff from the new
	// radius and luminosity").
	row.LogTeff = math.Log10(origTeff / math.Sqrt(scale))
	row.StarAge = targetAge

	return Outcome{Result: &Result{Row: row, Lifetime: lifetime, SnappedFeH: feH}}, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
