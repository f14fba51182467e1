// Package stellargen implements C6, the stellar generator (spec.md §4.6):
// a thin orchestrator over the random layer, track interpolator, stellar
// classifier, and death-star processor that yields one finished
// system.Star.
package stellargen

import (
	"context"
	"math"

	"github.com/darkdragonsastro/draco-simulator/internal/deathstar"
	"github.com/darkdragonsastro/draco-simulator/internal/genlog"
	"github.com/darkdragonsastro/draco-simulator/internal/randgen"
	"github.com/darkdragonsastro/draco-simulator/internal/stellarclass"
	"github.com/darkdragonsastro/draco-simulator/internal/system"
	"github.com/darkdragonsastro/draco-simulator/internal/trackasset"
	"github.com/darkdragonsastro/draco-simulator/internal/trackinterp"
)

var log = genlog.New("stellargen", genlog.Info)

const (
	kgPerSolarMass    = 1.98892e30
	metersPerSolarR   = 6.957e8
	wattsPerSolarL    = 3.828e26
	gravityConstant   = 6.6743e-11
	yearToSeconds     = 365.25 * 24 * 3600
)

// AgeDistribution selects how GenerateBasicProperties samples age.
type AgeDistribution int

const (
	AgeFromPDF AgeDistribution = iota
	AgeUniform
	AgeUniformByExponent
)

// MassDistribution selects how GenerateBasicProperties samples initial mass.
type MassDistribution int

const (
	MassFromPDF MassDistribution = iota
	MassUniform
)

// TypeOption dispatches GenerateStar's branch (spec.md §4.6).
type TypeOption int

const (
	OptionNormal TypeOption = iota
	OptionGiant
	OptionDeathStar
	OptionMergeStar
	OptionBinarySecondStar
)

// Config is the sampling configuration a StellarGenerator is built from —
// the injected distribution shapes and limits of spec.md §4.6.
type Config struct {
	AgeLowerLimit, AgeUpperLimit float64
	AgeDistribution              AgeDistribution
	AgePDF                       func(age float64) float64
	AgeMaxPDF                    [2]float64 // {x: age at peak, y: pdf value at peak}
	UniverseAge                  float64

	FeHLowerLimit, FeHUpperLimit float64

	MassLowerLimit, MassUpperLimit float64
	MassDistribution               MassDistribution
	// MassPDFs[0] is for single/non-binary stars, [1] for binary primaries.
	MassPDFs    [2]func(logMass float64) float64
	MassMaxPDFs [2][2]float64 // {x: logMass at peak, y: pdf value at peak}

	CoilTemperatureLimit float64
	DEpDM                float64
}

// DefaultConfig returns the published defaults (spec.md §4.6 samples from
// "prescribed distributions"; these are the Milky-Way-disk-like defaults
// the original stellar generator ships with).
func DefaultConfig() Config {
	return Config{
		AgeLowerLimit:    0,
		AgeUpperLimit:    1.38e10,
		AgeDistribution:  AgeUniform,
		UniverseAge:      1.38e10,
		FeHLowerLimit:    -4.0,
		FeHUpperLimit:    0.5,
		MassLowerLimit:   0.075,
		MassUpperLimit:   300,
		MassDistribution: MassUniform,
	}
}

// BasicProperties is GenerateBasicProperties' output (spec.md §4.6).
type BasicProperties struct {
	Age            float64 // s
	FeH            float64 // dex
	InitialMassSol float64
	IsSingleStar   bool
	IsBinaryPrimary bool

	// Lifetime is only meaningful for DeathStar/MergeStar options: the
	// progenitor's blended main-sequence lifetime, typically obtained from
	// an earlier Normal-option call that returned a death signal.
	Lifetime float64
}

// feHDistribution is one of the four age-keyed metallicity samplers
// (spec.md §4.6; constants grounded on the original stellar generator).
type feHDistribution struct {
	sample func(rng *randgen.Engine) float64
	negate bool
}

var feHDistributions = []feHDistribution{
	{sample: func(rng *randgen.Engine) float64 { return rng.LogNormal(-0.3, 0.5) }, negate: true},
	{sample: func(rng *randgen.Engine) float64 { return rng.Normal(-0.3, 0.15) }},
	{sample: func(rng *randgen.Engine) float64 { return rng.Normal(-0.08, 0.12) }},
	{sample: func(rng *randgen.Engine) float64 { return rng.Normal(0.05, 0.16) }},
}

// GenerateBasicProperties samples age, metallicity, binary status, and
// initial mass (spec.md §4.6). A non-zero ageOverride/feHOverride pins that
// field instead of sampling it, matching the original recursive-invocation
// pattern used by the death-star near-death-mass callback.
func GenerateBasicProperties(rng *randgen.Engine, cfg Config, ageOverride, feHOverride float64, option TypeOption) BasicProperties {
	var props BasicProperties

	if ageOverride != 0 {
		props.Age = ageOverride
	} else {
		props.Age = sampleAge(rng, cfg)
	}

	if feHOverride != 0 {
		props.FeH = feHOverride
	} else {
		props.FeH = sampleFeH(rng, cfg, props.Age)
	}

	props.IsSingleStar = true
	if option != OptionBinarySecondStar {
		if rng.Bernoulli(0.45 - 0.07*math.Pow(10, props.FeH)) {
			props.IsSingleStar = false
			props.IsBinaryPrimary = true
		}
	} else {
		props.IsSingleStar = false
	}

	if cfg.MassLowerLimit == 0 && cfg.MassUpperLimit == 0 {
		props.InitialMassSol = 0
	} else {
		props.InitialMassSol = sampleMass(rng, cfg, props, option)
	}

	return props
}

func sampleAge(rng *randgen.Engine, cfg Config) float64 {
	switch cfg.AgeDistribution {
	case AgeFromPDF:
		maxPDFY := cfg.AgeMaxPDF[1]
		peak := cfg.AgeMaxPDF[0]
		if !(cfg.AgeLowerLimit < peak && cfg.AgeUpperLimit > peak) {
			if cfg.AgeLowerLimit > peak {
				maxPDFY = cfg.AgePDF(cfg.AgeLowerLimit)
			} else if cfg.AgeUpperLimit < peak {
				maxPDFY = cfg.AgePDF(cfg.AgeUpperLimit)
			}
		}
		return rng.RejectionSample(cfg.AgeLowerLimit, cfg.AgeUpperLimit, maxPDFY, cfg.AgePDF, 10000)
	case AgeUniformByExponent:
		logLo, logHi := math.Log10(cfg.AgeLowerLimit), math.Log10(cfg.AgeUpperLimit)
		return math.Pow(10, rng.Uniform(logLo, logHi))
	default:
		return rng.Uniform(cfg.AgeLowerLimit, cfg.AgeUpperLimit)
	}
}

func sampleFeH(rng *randgen.Engine, cfg Config, age float64) float64 {
	universeAge := cfg.UniverseAge
	if universeAge == 0 {
		universeAge = 1.38e10
	}

	lo, hi := cfg.FeHLowerLimit, cfg.FeHUpperLimit
	var dist feHDistribution

	switch {
	case age > universeAge-1.38e10+8e9:
		dist = feHDistributions[0]
		lo, hi = -cfg.FeHUpperLimit, -cfg.FeHLowerLimit
	case age > universeAge-1.38e10+6e9:
		dist = feHDistributions[1]
	case age > universeAge-1.38e10+4e9:
		dist = feHDistributions[2]
	default:
		dist = feHDistributions[3]
	}

	var feH float64
	for tries := 0; tries < 10000; tries++ {
		feH = dist.sample(rng)
		if feH >= lo && feH <= hi {
			break
		}
	}

	if dist.negate {
		feH *= -1.0
	}
	return feH
}

func sampleMass(rng *randgen.Engine, cfg Config, props BasicProperties, option TypeOption) float64 {
	switch cfg.MassDistribution {
	case MassFromPDF:
		pdfIndex := 0
		if props.IsBinaryPrimary || option == OptionBinarySecondStar {
			pdfIndex = 1
		}
		pdf := cfg.MassPDFs[pdfIndex]
		if pdf == nil {
			return rng.Uniform(cfg.MassLowerLimit, cfg.MassUpperLimit)
		}

		logLo, logHi := math.Log10(cfg.MassLowerLimit), math.Log10(cfg.MassUpperLimit)
		peak := cfg.MassMaxPDFs[pdfIndex][0]
		maxPDFY := cfg.MassMaxPDFs[pdfIndex][1]
		if !(logLo < peak && logHi > peak) {
			if logLo > peak {
				maxPDFY = pdf(logLo)
			} else if logHi < peak {
				maxPDFY = pdf(logHi)
			}
		}
		logMass := rng.RejectionSample(logLo, logHi, maxPDFY, pdf, 10000)
		return math.Pow(10, logMass)
	default:
		return rng.Uniform(cfg.MassLowerLimit, cfg.MassUpperLimit)
	}
}

// GenerateStar dispatches on option (spec.md §4.6): Normal and Giant go
// through the track interpolator then the classifier; DeathStar and
// MergeStar go straight to the death-star processor. On a death signal
// during Normal generation, it halves initialMass and retries; a Null
// death-star placeholder likewise triggers a halved retry.
func GenerateStar(ctx context.Context, rng *randgen.Engine, cache *trackasset.Cache, wdCache *trackasset.Cache, hrTable []trackasset.HRRow, cfg Config, props BasicProperties, option TypeOption) (*system.Star, error) {
	switch option {
	case OptionNormal, OptionGiant:
		return generateNormalOrGiant(ctx, rng, cache, wdCache, hrTable, cfg, props, option)
	default:
		return generateFromDeathStar(ctx, rng, cache, wdCache, hrTable, cfg, props, option)
	}
}

func generateNormalOrGiant(ctx context.Context, rng *randgen.Engine, cache, wdCache *trackasset.Cache, hrTable []trackasset.HRRow, cfg Config, props BasicProperties, option TypeOption) (*system.Star, error) {
	targetAge := props.Age
	if option == OptionGiant {
		targetAge = trackinterp.NearDeathAgeSentinel
	}

	out, err := trackinterp.GetFullMistData(ctx, cache, trackinterp.Input{
		TargetAge:         targetAge,
		TargetFeH:         props.FeH,
		TargetInitialMass: props.InitialMassSol,
	})
	if err != nil {
		return nil, err
	}

	if out.IsDeath() {
		if props.InitialMassSol < 0.01 {
			log.Warnf("initial mass collapsed below retry floor at FeH=%v, age=%v", props.FeH, props.Age)
			return nil, trackasset.ErrAssetMissing
		}
		halved := props
		halved.InitialMassSol /= 2
		return generateNormalOrGiant(ctx, rng, cache, wdCache, hrTable, cfg, halved, option)
	}

	star := buildNormalStar(rng, props, out.Result)

	classState := stellarclass.StarState{
		Teff:         star.Teff,
		SurfaceH1:    star.SurfaceH1,
		Mass:         star.Mass,
		Luminosity:   star.Luminosity,
		MassLossRate: star.MassLossRate,
		Phase:        int(star.Phase),
		FeH:          props.FeH,
	}
	class := stellarclass.Classify(rng, hrTable, classState)
	star.Class = class.Uint64()

	applyMagneticAndSpin(rng, star, class)
	applyMinCoilMass(cfg, star)

	return star, nil
}

func buildNormalStar(rng *randgen.Engine, props BasicProperties, res *trackinterp.Result) *system.Star {
	row := res.Row
	theta := rng.Uniform(0, 2*math.Pi)
	phi := rng.Uniform(0, math.Pi)

	massSol := row.StarMass
	radiusSol := math.Pow(10, row.LogR)
	teff := math.Pow(10, row.LogTeff)
	luminositySol := radiusSol * radiusSol * math.Pow(teff/5772.0, 4)

	phase := system.EvolutionPhase(int(row.Phase))

	return &system.Star{
		Age:              row.StarAge,
		InitialMass:       props.InitialMassSol * kgPerSolarMass,
		Mass:             massSol * kgPerSolarMass,
		FeH:              res.SnappedFeH,
		Lifetime:         res.Lifetime,
		Radius:           radiusSol * metersPerSolarR,
		Luminosity:       luminositySol * wattsPerSolarL,
		Teff:             teff,
		EscapeVelocity:   math.Sqrt(2 * gravityConstant * massSol * kgPerSolarMass / (radiusSol * metersPerSolarR)),
		SurfaceH1:        row.SurfaceH1,
		SurfaceZ:         math.Pow(10, row.LogSurfaceZ),
		CoreTemperature:  math.Pow(10, row.LogCenterT),
		CoreDensity:      math.Pow(10, row.LogCenterRho) * 1000,
		MassLossRate:     -(row.StarMdot * kgPerSolarMass / yearToSeconds),
		EvolutionProgress: row.EvolutionProgress,
		Phase:            phase,
		Origin:           system.OriginNormal,
		HasPlanets:       false,
		IsSingle:         props.IsSingleStar,
		Normal:           system.Angles{Theta: theta, Phi: phi},
	}
}

func generateFromDeathStar(ctx context.Context, rng *randgen.Engine, cache, wdCache *trackasset.Cache, hrTable []trackasset.HRRow, cfg Config, props BasicProperties, option TypeOption) (*system.Star, error) {
	nearDeath := func(ctx context.Context, initialMassSol, feH, age float64) (float64, error) {
		giantProps := BasicProperties{Age: age, FeH: feH, InitialMassSol: initialMassSol, IsSingleStar: true}
		giant, err := GenerateStar(ctx, rng, cache, wdCache, hrTable, cfg, giantProps, OptionNormal)
		if err != nil {
			return 0, err
		}
		return giant.Mass, nil
	}

	dsOption := deathstar.OptionDeathStar
	if option == OptionMergeStar {
		dsOption = deathstar.OptionMergeStar
	}

	res, err := deathstar.Process(ctx, rng, wdCache, nearDeath, deathstar.Input{
		InitialMassSol: props.InitialMassSol,
		FeH:            props.FeH,
		Lifetime:       props.Lifetime,
		Age:            props.Age,
		IsSingleStar:   props.IsSingleStar,
		Option:         dsOption,
	})
	if err != nil {
		return nil, err
	}

	if res.IsNull {
		if props.InitialMassSol < 0.01 {
			return nil, trackasset.ErrAssetMissing
		}
		halved := props
		halved.InitialMassSol /= 2
		return generateFromDeathStar(ctx, rng, cache, wdCache, hrTable, cfg, halved, option)
	}

	theta := rng.Uniform(0, 2*math.Pi)
	phi := rng.Uniform(0, math.Pi)

	star := &system.Star{
		Age:                     props.Age,
		InitialMass:              props.InitialMassSol * kgPerSolarMass,
		Mass:                    res.Mass,
		FeH:                     props.FeH,
		Lifetime:                -1,
		Radius:                  res.Radius,
		Teff:                    res.Teff,
		CoreTemperature:         res.CoreTemperature,
		CoreDensity:             res.CoreDensity,
		SurfaceZ:                res.SurfaceZ,
		SurfaceEnergeticNuclide: res.SurfaceEnergeticNuclide,
		SurfaceVolatiles:        res.SurfaceVolatiles,
		Phase:                   res.Phase,
		Origin:                  res.Origin,
		IsSingle:                props.IsSingleStar,
		Normal:                  system.Angles{Theta: theta, Phi: phi},
		DimensionlessSpin:       res.DimensionlessSpin,
	}
	if !res.IsBlackHole && res.Radius > 0 {
		star.Luminosity = 4 * math.Pi * res.Radius * res.Radius * 5.670374e-8 * math.Pow(res.Teff, 4)
	}

	var starType stellarclass.StarType
	switch {
	case res.IsWhiteDwarf:
		starType = stellarclass.WhiteDwarf
	case res.IsNeutronStar:
		starType = stellarclass.NeutronStar
	case res.IsBlackHole:
		starType = stellarclass.BlackHole
	}

	class := stellarclass.Classify(rng, nil, stellarclass.StarState{
		Teff:          star.Teff,
		Mass:          star.Mass,
		IsWhiteDwarf:  starType == stellarclass.WhiteDwarf,
		IsNeutronStar: starType == stellarclass.NeutronStar,
		IsBlackHole:   starType == stellarclass.BlackHole,
	})
	star.Class = class.Uint64()

	applyMagneticAndSpin(rng, star, class)
	applyMinCoilMass(cfg, star)

	return star, nil
}

// applyMagneticAndSpin implements spec.md §4.5's magnetic-field and spin
// generation, shared by every star type regardless of which path produced
// it (constants grounded on the original stellar generator's magnetic and
// spin distribution tables).
func applyMagneticAndSpin(rng *randgen.Engine, star *system.Star, class stellarclass.StellarClass) {
	massSol := star.Mass / kgPerSolarMass

	switch class.StarType {
	case stellarclass.NormalStar:
		var logB float64
		switch {
		case massSol >= 0.075 && massSol < 0.33:
			logB = rng.Uniform(math.Log10(500), math.Log10(3000))
		case massSol >= 0.33 && massSol < 0.6:
			logB = rng.Uniform(1.0, 3.0)
		case massSol >= 0.6 && massSol < 1.5:
			logB = rng.Uniform(0.0, 1.0)
		case massSol >= 1.5 && massSol < 20.0:
			if class.SpecialMark&stellarclass.MarkPeculiar != 0 {
				logB = rng.Uniform(3.0, 4.0)
			} else {
				logB = rng.Uniform(-1.0, 0.0)
			}
		default:
			logB = rng.Uniform(2.0, 3.0)
		}
		star.MagneticField = math.Pow(10, logB) / 10000

	case stellarclass.WhiteDwarf:
		logB := rng.Uniform(0.5, 4.5)
		star.MagneticField = math.Pow(10, logB)

	case stellarclass.NeutronStar:
		b0 := rng.Uniform(1e9, 1e11)
		star.MagneticField = b0 / (math.Pow(0.034*star.Age/1e4, 1.17) + 0.84)

	default: // black hole, death placeholder
		star.MagneticField = 0
	}

	var spin float64
	switch class.StarType {
	case stellarclass.NormalStar:
		base := 1.0 + rng.Uniform01()
		if class.SpecialMark&stellarclass.MarkPeculiar != 0 {
			base *= 10
		}
		radiusSol := star.Radius / metersPerSolarR
		lgMass := math.Log10(massSol)
		term3 := math.Pow(2, math.Sqrt(base*(star.Age+1e6)/1e9))

		var term1, term2 float64
		if massSol <= 1.4 {
			term1 = math.Pow(10, 30.893-25.34303*math.Exp(lgMass)+21.7577*lgMass+7.34205*math.Pow(lgMass, 2)+0.12951*math.Pow(lgMass, 3))
			term2 = math.Pow(radiusSol/math.Pow(massSol, 0.9), 2.5)
		} else {
			term1 = math.Pow(10, 28.0784-22.15753*math.Exp(lgMass)+12.55134*lgMass+30.9045*math.Pow(lgMass, 2)-10.1479*math.Pow(lgMass, 3)+4.6894*math.Pow(lgMass, 4))
			term2 = math.Pow(radiusSol/(1.1062*math.Pow(massSol, 0.6)), 2.5)
		}
		spin = term1 * term2 * term3

	case stellarclass.WhiteDwarf:
		spin = math.Pow(10, rng.Uniform(3.0, 5.0))

	case stellarclass.NeutronStar:
		spin = star.Age*3*1e-9 + 1e-3

	case stellarclass.BlackHole:
		spin = star.DimensionlessSpin

	default:
		return
	}

	star.Spin = spin

	if class.StarType != stellarclass.BlackHole {
		star.Oblateness = 4 * math.Pi * math.Pi * math.Pow(star.Radius, 3) / (spin * spin * gravityConstant * star.Mass)
	}
}

// applyMinCoilMass implements the minimum-mass-budget-for-a-Dyson-swarm
// "coil" floor (spec.md §4.5's paragraph on magnetic field, carried
// through from the original stellar generator's post-classification step).
func applyMinCoilMass(cfg Config, star *system.Star) {
	if cfg.CoilTemperatureLimit == 0 || cfg.DEpDM == 0 {
		return
	}
	a := 6.6156e14 * math.Pow(star.MagneticField, 2) * math.Pow(star.Luminosity, 1.5) * math.Pow(cfg.CoilTemperatureLimit, -6) * math.Pow(cfg.DEpDM, -1)
	b := 2.34865e29 * math.Pow(star.MagneticField, 2) * math.Pow(star.Luminosity, 2) * math.Pow(cfg.CoilTemperatureLimit, -8) * math.Pow(star.Mass, -1)
	star.MinCoilMass = math.Max(a, b)
}
