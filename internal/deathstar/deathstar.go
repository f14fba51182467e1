// Package deathstar implements C5, the death-star processor (spec.md
// §4.5): given a progenitor's sampled (initialMass, FeH, lifetime), it
// branches into a white dwarf, neutron star, black hole, or pair-instability
// placeholder and computes that remnant's observable state.
package deathstar

import (
	"context"
	"math"

	"github.com/darkdragonsastro/draco-simulator/internal/randgen"
	"github.com/darkdragonsastro/draco-simulator/internal/system"
	"github.com/darkdragonsastro/draco-simulator/internal/trackasset"
	"github.com/darkdragonsastro/draco-simulator/internal/trackinterp"
)

const (
	kgPerSolarMass  = 1.98892e30
	metersPerSolarR = 6.957e8
)

// NearDeathMassFunc recursively invokes the stellar generator (package
// stellargen) with option Normal at age lifetime-100s to obtain a
// progenitor's near-death mass. It is injected rather than imported
// directly: stellargen calls into deathstar for its DeathStar/MergeStar
// branch, so a direct import the other way would cycle.
type NearDeathMassFunc func(ctx context.Context, initialMassSol, feH, age float64) (massKg float64, err error)

// Option mirrors stellargen's TypeOption values this package cares about.
type Option int

const (
	OptionDeathStar Option = iota
	OptionMergeStar
)

// Input is a progenitor shell ready for death processing.
type Input struct {
	InitialMassSol float64
	FeH            float64
	Lifetime       float64 // s
	Age            float64 // s; the age at which the remnant is observed
	IsSingleStar   bool
	Option         Option
}

// Result is the remnant's computed observable state, in the units
// system.Star expects.
type Result struct {
	IsNull          bool
	Phase           system.EvolutionPhase
	Origin          system.StarOrigin
	IsWhiteDwarf    bool
	IsNeutronStar   bool
	IsBlackHole     bool
	MassSol         float64
	Mass            float64 // kg
	Radius          float64 // m
	Teff            float64 // K
	CoreTemperature float64 // K
	CoreDensity     float64 // kg/m^3
	SurfaceZ        float64
	SurfaceEnergeticNuclide float64
	SurfaceVolatiles        float64
	DimensionlessSpin       float64 // black holes only, [0.001, 0.998]
}

// Process is C5's single entry point.
func Process(ctx context.Context, rng *randgen.Engine, wdCache *trackasset.Cache, nearDeath NearDeathMassFunc, in Input) (Result, error) {
	deathAge := in.Age - in.Lifetime
	massSol := in.InitialMassSol

	var (
		phase  system.EvolutionPhase
		origin system.StarOrigin
	)

	switch {
	case in.FeH <= -2.0 && in.InitialMassSol >= 140 && in.InitialMassSol < 250:
		return Result{IsNull: true, Phase: system.PhaseNull, Origin: system.OriginPairInstabilitySupernova}, nil

	case in.FeH <= -2.0 && in.InitialMassSol >= 250:
		bhMass, err := blackHoleMassFromNearDeath(ctx, nearDeath, in)
		if err != nil {
			return Result{}, err
		}
		return finalizeBlackHole(rng, system.OriginPhotodisintegration, bhMass), nil

	default:
		massSol, phase, origin = classifyByMass(in.InitialMassSol)
		if phase == system.PhaseStellarBlackHole && origin == system.OriginRelativisticJetHypernova {
			bhMass, err := blackHoleMassFromNearDeath(ctx, nearDeath, in)
			if err != nil {
				return Result{}, err
			}
			massSol = bhMass
		}
	}

	// Neutron-star merger reclassification (spec.md §4.5).
	if in.Option == OptionMergeStar || phase == system.PhaseNeutronStar {
		mergeProb := 0.0
		if in.IsSingleStar {
			mergeProb = 0.1
		}
		if in.Option == OptionMergeStar || rng.Bernoulli(mergeProb) {
			origin = system.OriginWhiteDwarfMerge
			if rng.Bernoulli(0.1145) {
				massSol = rng.Uniform(2.6, 2.76)
				phase = system.PhaseStellarBlackHole
			} else {
				massSol = rng.Uniform(1.38, 2.18072)
				phase = system.PhaseNeutronStar
			}
		}
	}

	switch phase {
	case system.PhaseStellarBlackHole:
		return finalizeBlackHole(rng, origin, massSol), nil

	case system.PhaseNeutronStar:
		return finalizeNeutronStar(origin, massSol, deathAge), nil

	default: // white dwarf phases
		return finalizeWhiteDwarf(ctx, wdCache, phase, origin, massSol, deathAge, in.Age)
	}
}

func blackHoleMassFromNearDeath(ctx context.Context, nearDeath NearDeathMassFunc, in Input) (float64, error) {
	massKg, err := nearDeath(ctx, in.InitialMassSol, in.FeH, in.Lifetime-100)
	if err != nil {
		return 0, err
	}
	return massKg / kgPerSolarMass * 0.8, nil
}

// classifyByMass implements the mass-relation table of spec.md §4.5 for the
// non-pair-instability branch. The returned phase/origin select which
// finalize* path Process takes; for the two branches whose mass relation is
// "0.8 times near-death mass" the caller fills massSol in afterward.
func classifyByMass(massSol float64) (float64, system.EvolutionPhase, system.StarOrigin) {
	var remnantSol float64

	switch {
	case massSol > -0.75 && massSol < 0.8:
		remnantSol = (0.9795 - 0.393*massSol) * massSol
	case massSol >= 0.8 && massSol < 7.9:
		remnantSol = -0.00012336*pow(massSol, 6) + 0.003160*pow(massSol, 5) - 0.02960*pow(massSol, 4) +
			0.12350*pow(massSol, 3) - 0.21550*pow(massSol, 2) + 0.19022*massSol + 0.46575
	case massSol >= 7.9 && massSol < 10.0:
		remnantSol = 1.301 + 0.008095*massSol
	case massSol >= 10.0 && massSol < 21.0:
		remnantSol = 1.246 + 0.0136*massSol
	case massSol >= 21.0 && massSol < 23.3537:
		remnantSol = math.Pow(10, 1.334-0.009987*massSol)
	case massSol >= 23.3537 && massSol < 33.75:
		remnantSol = 12.1 - 0.763*massSol + 0.0137*pow(massSol, 2)
	default:
		remnantSol = 0 // filled in by blackHoleMassFromNearDeath
	}

	var phase system.EvolutionPhase
	var origin system.StarOrigin

	switch {
	case massSol >= 0.075 && massSol < 0.5:
		phase, origin = system.PhaseHeliumWD, system.OriginSlowCoolingDown
	case massSol >= 0.5 && massSol < 8.0:
		phase, origin = system.PhaseCOWD, system.OriginEnvelopeDisperse
	case massSol >= 8.0 && massSol < 9.759:
		phase, origin = system.PhaseONeMgWD, system.OriginEnvelopeDisperse
	case massSol >= 9.759 && massSol < 21.0:
		if massSol < 10.0 {
			origin = system.OriginElectronCaptureSupernova
		} else {
			origin = system.OriginIronCoreCollapseSupernova
		}
		phase = system.PhaseNeutronStar
	case massSol >= 21.0 && massSol < 23.3537:
		phase, origin = system.PhaseStellarBlackHole, system.OriginIronCoreCollapseSupernova
	case massSol >= 23.3537 && massSol < 33.75:
		phase, origin = system.PhaseNeutronStar, system.OriginIronCoreCollapseSupernova
	default:
		phase, origin = system.PhaseStellarBlackHole, system.OriginRelativisticJetHypernova
	}

	return remnantSol, phase, origin
}

func pow(x float64, n int) float64 { return math.Pow(x, float64(n)) }

func finalizeWhiteDwarf(ctx context.Context, cache *trackasset.Cache, phase system.EvolutionPhase, origin system.StarOrigin, massSol, deathAge, totalAge float64) (Result, error) {
	out, err := trackinterp.GetFullMistData(ctx, cache, trackinterp.Input{
		TargetAge:          deathAge,
		TargetInitialMass:  massSol,
		IsWhiteDwarf:       true,
		IsSingleWhiteDwarf: true,
	})
	if err != nil {
		return Result{}, err
	}

	row := out.Result.WDRow
	logR, logTeff := row.LogR, row.LogTeff
	logCenterT, logCenterRho := row.LogCenterT, row.LogCenterRho

	if massSol < 0.2 || massSol > 1.3 {
		logR = math.Log10(0.0323 - 0.021384*massSol)
		logCenterT = math.SmallestNonzeroFloat64
		logCenterRho = math.SmallestNonzeroFloat64
	}

	endAge := out.Result.Lifetime
	if deathAge > endAge && endAge > 0 {
		teff := math.Pow(10, logTeff)
		teff *= math.Pow((20*endAge)/(deathAge+19*endAge), 1.75)
		logTeff = math.Log10(teff)
		logCenterT = math.SmallestNonzeroFloat64
	}

	return Result{
		Phase:                   phase,
		Origin:                  origin,
		IsWhiteDwarf:            true,
		MassSol:                 massSol,
		Mass:                    massSol * kgPerSolarMass,
		Radius:                  math.Pow(10, logR) * metersPerSolarR,
		Teff:                    math.Pow(10, logTeff),
		CoreTemperature:         math.Pow(10, logCenterT),
		CoreDensity:             math.Pow(10, logCenterRho),
		SurfaceZ:                0,
		SurfaceEnergeticNuclide: 0,
		SurfaceVolatiles:        1,
	}, nil
}

func finalizeNeutronStar(origin system.StarOrigin, massSol, deathAge float64) Result {
	if deathAge < 1e5 {
		deathAge += 1e5
	}

	var radiusKm float64
	switch {
	case massSol <= 0.77711:
		radiusKm = -4.783 + 2.565/massSol + 42.0*massSol - 55.4*pow(massSol, 2) + 34.93*pow(massSol, 3) - 8.4*pow(massSol, 4)
	case massSol <= 2.0181:
		radiusKm = 11.302 - 0.35184*massSol
	default:
		radiusKm = -31951.1 + 63121.8*massSol - 46717.8*pow(massSol, 2) + 15358.4*pow(massSol, 3) - 1892.365*pow(massSol, 4)
	}

	teff := math.Pow(10, math.Log10(1.5e8*math.Pow((deathAge-1e5)+22000, -0.5)))

	return Result{
		Phase:         system.PhaseNeutronStar,
		Origin:        origin,
		IsNeutronStar: true,
		MassSol:       massSol,
		Mass:          massSol * kgPerSolarMass,
		Radius:        radiusKm * 1000,
		Teff:          teff,
	}
}

func finalizeBlackHole(rng *randgen.Engine, origin system.StarOrigin, massSol float64) Result {
	return Result{
		Phase:             system.PhaseStellarBlackHole,
		Origin:            origin,
		IsBlackHole:       true,
		MassSol:           massSol,
		Mass:              massSol * kgPerSolarMass,
		Radius:            math.NaN(),
		Teff:              math.NaN(),
		DimensionlessSpin: rng.Uniform(0.001, 0.998),
	}
}
