// Package orbitalgen implements the top-level orbital generator (spec.md
// §6): given one or two already-generated stars, it lays out their
// protoplanetary disks, seeds and classifies their planetary cores, runs
// the orbital-filter pipeline, composes each survivor's structure, garnishes
// the result with moons/rings/trojan/Kuiper belts, rolls for a civilization
// on any resulting Terra world, and hands everything to the final assembly
// pass. It is the single entry point every earlier component (C1-C14) and
// the civilization collaborator are wired together behind.
package orbitalgen

import (
	"fmt"
	"math"
	"math/big"

	"github.com/darkdragonsastro/draco-simulator/internal/assembler"
	"github.com/darkdragonsastro/draco-simulator/internal/binaryorbit"
	"github.com/darkdragonsastro/draco-simulator/internal/civilization"
	"github.com/darkdragonsastro/draco-simulator/internal/composition"
	"github.com/darkdragonsastro/draco-simulator/internal/coreseed"
	"github.com/darkdragonsastro/draco-simulator/internal/diskmodel"
	"github.com/darkdragonsastro/draco-simulator/internal/garnish"
	"github.com/darkdragonsastro/draco-simulator/internal/orbitalfilter"
	"github.com/darkdragonsastro/draco-simulator/internal/planetclass"
	"github.com/darkdragonsastro/draco-simulator/internal/randgen"
	"github.com/darkdragonsastro/draco-simulator/internal/system"
)

const (
	solarMassKg            = 1.98892e30
	auMeters               = 1.495978707e11
	earthMassKg            = 5.9722e24
	gravityConstant        = 6.6743e-11
	stefanBoltzmann        = 5.670374e-8
	civilizationMinAgeS    = 5e8
	uvHabitableMinMassSol  = 0.75
	uvHabitableMaxMassSol  = 1.5
	innerHabitableFluxWm2  = 3000.0
	outerHabitableFluxWm2  = 600.0
	frostLineTemperatureK  = 270.0
)

// Config carries the tunable parameters spec.md §6's OrbitalGenerator
// constructor exposes, apart from the binary log-period mean and sigma:
// binaryorbit.Build already hardcodes those two as fixed constants rather
// than accepting them as parameters (see DESIGN.md), so there is nothing
// here for a caller to plumb through.
type Config struct {
	UniverseAgeYears                float64
	CoilTemperatureLimitK           float64
	AsteroidUpperLimitKg            float64
	RingsParentLowerLimitKg         float64
	LifeOccurrenceProbability       float64
	ContainUltravioletHabitableZone bool
	EnableAsiFilter                 bool
}

// DefaultConfig mirrors the constructor defaults of spec.md §6.
func DefaultConfig() Config {
	return Config{
		UniverseAgeYears:                1.38e10,
		CoilTemperatureLimitK:           1514.114,
		AsteroidUpperLimitKg:            1e21,
		RingsParentLowerLimitKg:         1e23,
		LifeOccurrenceProbability:       0.0114514,
		ContainUltravioletHabitableZone: false,
		EnableAsiFilter:                 true,
	}
}

// ErrNotAStar is returned when a handle passed to this package does not
// resolve to a star within the given system.
var ErrNotAStar = fmt.Errorf("orbitalgen: handle does not resolve to a star")

// ErrUnsupportedStarCount is returned by GenerateOrbitals when the system
// carries neither one nor two stars: the original generator only ever
// dispatches to the single-star or binary path (spec.md §6).
var ErrUnsupportedStarCount = fmt.Errorf("orbitalgen: system must have exactly one or two stars")

// Generator is the caller-facing handle spec.md §6 describes: built once
// from a Config, it exposes a single GenerateOrbitals entry point that
// dispatches internally to GenerateSingleStar or GenerateBinary depending on
// how many stars the given system already carries.
type Generator struct {
	cfg Config
}

// NewGenerator builds a Generator from cfg.
func NewGenerator(cfg Config) *Generator {
	return &Generator{cfg: cfg}
}

// GenerateOrbitals lays out the orbital architecture of sys, which must
// already carry either one or two generated stars (spec.md §6). It is the
// single entry point OrbitalGenerator exposes to its caller.
func (g *Generator) GenerateOrbitals(rng *randgen.Engine, sys *system.StellarSystem) error {
	switch len(sys.Stars) {
	case 1:
		return GenerateSingleStar(rng, g.cfg, sys, system.Handle{Type: system.BodyStar, Index: 0})
	case 2:
		return GenerateBinary(rng, g.cfg, sys,
			system.Handle{Type: system.BodyStar, Index: 0},
			system.Handle{Type: system.BodyStar, Index: 1})
	default:
		return ErrUnsupportedStarCount
	}
}

// GenerateSingleStar implements GenerateOrbitals for a single-star system
// (spec.md §6): it builds the host's planetary system and attaches it to
// the barycenter with a zero-length root orbit.
func GenerateSingleStar(rng *randgen.Engine, cfg Config, sys *system.StellarSystem, star system.Handle) error {
	if star.Type != system.BodyStar || star.Index < 0 || star.Index >= len(sys.Stars) {
		return ErrNotAStar
	}

	subOrbits := processHost(rng, cfg, sys, star, nil, 0, 0)

	sys.AddOrbit(system.Orbit{
		Parent:  system.NilHandle,
		Details: []system.OrbitDetail{{Object: star, SubOrbits: subOrbits}},
	})
	return nil
}

// GenerateBinary implements GenerateOrbitals for a binary system (spec.md
// §6 and §4.7): it builds the mutual orbit with binaryorbit, then builds
// each component's own planetary system around it, threading the
// companion's luminosity into the habitable-zone, frost-line, and
// irradiance formulas both hosts share.
func GenerateBinary(rng *randgen.Engine, cfg Config, sys *system.StellarSystem, primary, secondary system.Handle) error {
	if primary.Type != system.BodyStar || primary.Index < 0 || primary.Index >= len(sys.Stars) {
		return ErrNotAStar
	}
	if secondary.Type != system.BodyStar || secondary.Index < 0 || secondary.Index >= len(sys.Stars) {
		return ErrNotAStar
	}

	p := sys.Stars[primary.Index]
	s := sys.Stars[secondary.Index]
	totalMassKg := p.Mass + s.Mass

	binary := binaryorbit.Build(rng, p.Mass, s.Mass, p.Luminosity, s.Luminosity, cfg.CoilTemperatureLimitK)

	preMSLumP := planetclass.PreMainSequenceLuminosity(p.InitialMass / solarMassKg)
	preMSLumS := planetclass.PreMainSequenceLuminosity(s.InitialMass / solarMassKg)

	companionForPrimary := &companionInfo{
		LuminosityW:                s.Luminosity,
		PreMainSequenceLuminosityW: preMSLumS,
		MassFraction:               s.Mass / totalMassKg,
		SeparationM:                binary.SemiMajorAxis,
	}
	companionForSecondary := &companionInfo{
		LuminosityW:                p.Luminosity,
		PreMainSequenceLuminosityW: preMSLumP,
		MassFraction:               p.Mass / totalMassKg,
		SeparationM:                binary.SemiMajorAxis,
	}

	primarySub := processHost(rng, cfg, sys, primary, companionForPrimary, binary.SemiMajorAxis, binary.Eccentricity)
	secondarySub := processHost(rng, cfg, sys, secondary, companionForSecondary, binary.SemiMajorAxis, binary.Eccentricity)

	sys.AddOrbit(system.Orbit{
		Parent:              system.NilHandle,
		SemiMajorAxis:       binary.PrimarySemiMajorAxis,
		Period:              binary.Period,
		Eccentricity:        binary.Eccentricity,
		ArgumentOfPeriapsis: binary.PrimaryArgPeriapsis,
		TrueAnomaly:         binary.PrimaryTrueAnomaly,
		Normal:              binary.PrimaryNormal,
		Details: []system.OrbitDetail{{
			Object:             primary,
			InitialTrueAnomaly: binary.PrimaryTrueAnomaly,
			SubOrbits:          primarySub,
		}},
	})
	sys.AddOrbit(system.Orbit{
		Parent:              system.NilHandle,
		SemiMajorAxis:       binary.SecondarySemiMajorAxis,
		Period:              binary.Period,
		Eccentricity:        binary.Eccentricity,
		ArgumentOfPeriapsis: binary.SecondaryArgPeriapsis,
		TrueAnomaly:         binary.SecondaryTrueAnomaly,
		Normal:              binary.SecondaryNormal,
		Details: []system.OrbitDetail{{
			Object:             secondary,
			InitialTrueAnomaly: binary.SecondaryTrueAnomaly,
			SubOrbits:          secondarySub,
		}},
	})
	return nil
}

// companionInfo is the subset of a binary companion's state the
// habitable-zone, frost-line, and irradiance formulas need.
type companionInfo struct {
	LuminosityW                float64
	PreMainSequenceLuminosityW float64
	MassFraction               float64
	SeparationM                float64
}

// habitableZoneAU solves spec.md §6's single-star and binary habitable-zone
// formulas against the host's current luminosity.
func habitableZoneAU(selfLuminosityW float64, comp *companionInfo) (innerAU, outerAU float64) {
	innerDenom := 4 * math.Pi * innerHabitableFluxWm2
	outerDenom := 4 * math.Pi * outerHabitableFluxWm2
	if comp != nil {
		companionFlux := comp.LuminosityW / (4 * math.Pi * comp.SeparationM * comp.SeparationM)
		innerDenom = 4 * math.Pi * (innerHabitableFluxWm2 - companionFlux)
		outerDenom = 4 * math.Pi * (outerHabitableFluxWm2 - companionFlux)
	}
	innerAU = habitableBoundary(selfLuminosityW, innerDenom)
	outerAU = habitableBoundary(selfLuminosityW, outerDenom)
	return innerAU, outerAU
}

func habitableBoundary(luminosityW, denom float64) float64 {
	if denom <= 0 {
		return math.Inf(1)
	}
	return math.Sqrt(luminosityW/denom) / auMeters
}

// frostLineAU implements spec.md §6's frost-line formula: the distance at
// which a body would sit at frostLineTemperatureK, evaluated against the
// host's (and, for binaries, both hosts') pre-main-sequence luminosity.
func frostLineAU(selfPreMSLuminosityW float64, comp *companionInfo) float64 {
	denom := 4 * math.Pi * stefanBoltzmann * math.Pow(frostLineTemperatureK, 4)
	if comp != nil {
		denom -= comp.PreMainSequenceLuminosityW / (4 * math.Pi * comp.SeparationM * comp.SeparationM)
	}
	if denom <= 0 {
		return math.Inf(1)
	}
	return math.Sqrt(selfPreMSLuminosityW/denom) / auMeters
}

// preMainSequenceBalanceTemperatureK is the equilibrium temperature a core
// at the given semi-major axis would have if its host(s) still radiated at
// their pre-main-sequence luminosity (spec.md §4.10's classifier input).
func preMainSequenceBalanceTemperatureK(selfPreMSLuminosityW, semiMajorAxisM float64, comp *companionInfo) float64 {
	flux := selfPreMSLuminosityW / (4 * math.Pi * semiMajorAxisM * semiMajorAxisM)
	if comp != nil {
		flux += comp.PreMainSequenceLuminosityW / (4 * math.Pi * comp.SeparationM * comp.SeparationM)
	}
	return math.Pow(flux/stefanBoltzmann, 0.25)
}

// totalIrradiance is the summed Poynting flux a body receives from its host
// and, for a binary, the companion across the mutual separation.
func totalIrradiance(selfLuminosityW, semiMajorAxisM float64, comp *companionInfo) float64 {
	s := selfLuminosityW / (4 * math.Pi * semiMajorAxisM * semiMajorAxisM)
	if comp != nil {
		s += comp.LuminosityW / (4 * math.Pi * comp.SeparationM * comp.SeparationM)
	}
	return s
}

func keplerPeriodS(semiMajorAxisM, parentMassKg float64) float64 {
	return 2 * math.Pi * math.Sqrt(math.Pow(semiMajorAxisM, 3)/(gravityConstant*parentMassKg))
}

func zComponentKg(m system.ComplexMass) float64 {
	if m.Z == nil {
		return 0
	}
	f := new(big.Float).SetInt(m.Z)
	v, _ := f.Float64()
	return v
}

// processHost runs C8 through C14 for a single star and returns the orbit
// indices (into sys.Orbits) that should be listed as that star's
// OrbitDetail.SubOrbits. comp is nil for a single star; binarySemiMajorAxisM
// and binaryEccentricity are the mutual orbit's elements, used by the
// orbital-filter's binary-stability step and ignored when comp is nil.
func processHost(rng *randgen.Engine, cfg Config, sys *system.StellarSystem, starHandle system.Handle, comp *companionInfo, binarySemiMajorAxisM, binaryEccentricity float64) []int {
	star := sys.Stars[starHandle.Index]
	initialMassSol := star.InitialMass / solarMassKg
	phase := star.Phase

	// The original treats neutron-star and black-hole hosts with a reduced
	// pipeline (infinite habitable-zone/frost-line bounds, no migration,
	// engulfment, Chthonian promotion, white-dwarf scattering, hot-giant
	// promotion, oceanic-to-ice conversion, Terra conversion, or Kuiper
	// belt). This implementation runs the unified orbital-filter pipeline
	// for every host kind instead of a separate code path: a remnant this
	// exotic has negligible radius and luminosity, so engulfment and
	// hot-giant promotion are vacuously no-ops there, and a giant migrating
	// inward around one (the only behavior that could still diverge) is an
	// accepted simplification, documented in DESIGN.md.
	isExotic := phase == system.PhaseNeutronStar || phase == system.PhaseStellarBlackHole
	isWhiteDwarf := phase == system.PhaseHeliumWD || phase == system.PhaseCOWD || phase == system.PhaseONeMgWD
	hostPreMainSeq := phase == system.PhasePreMainSequence

	var disk diskmodel.Disk
	if star.Origin == system.OriginWhiteDwarfMerge {
		disk = diskmodel.BuildForWhiteDwarfMergerHost(rng)
	} else {
		disk = diskmodel.BuildForNormalHost(rng, initialMassSol, star.FeH)
	}
	if !disk.HasDisk {
		return nil
	}

	var count int
	if star.Origin == system.OriginWhiteDwarfMerge {
		count = coreseed.PlanetCountWhiteDwarfMerger(rng)
	} else {
		count = coreseed.PlanetCount(rng, coreseed.BandForInitialMass(initialMassSol))
	}
	cores := coreseed.Seed(rng, count, disk.DustMassKg, disk.InnerRadiusM, disk.OuterRadiusM)
	if len(cores) == 0 {
		return nil
	}

	preMSLum := planetclass.PreMainSequenceLuminosity(initialMassSol)

	var innerHZM, outerHZM, frostLineM float64
	if isExotic {
		innerHZM, outerHZM, frostLineM = math.Inf(1), math.Inf(1), math.Inf(1)
	} else {
		innerAU, outerAU := habitableZoneAU(star.Luminosity, comp)
		innerHZM, outerHZM = innerAU*auMeters, outerAU*auMeters
		frostLineM = frostLineAU(preMSLum, comp) * auMeters
	}

	entries := make([]orbitalfilter.Entry, 0, len(cores))
	for _, core := range cores {
		var balanceT float64
		if !isExotic {
			balanceT = preMainSequenceBalanceTemperatureK(preMSLum, core.Orbit.SemiMajorAxis, comp)
		}
		result := planetclass.Classify(rng, planetclass.Input{
			CoreMassKg:                         core.Mass.TotalKg(),
			SemiMajorAxisM:                     core.Orbit.SemiMajorAxis,
			FrostLineM:                         frostLineM,
			InnerHabitableZoneM:                innerHZM,
			PreMainSequenceBalanceTemperatureK: balanceT,
			HostIsRemnant:                      isExotic,
			HostPreMainSeq:                     hostPreMainSeq,
			AsteroidUpperLimitKg:                cfg.AsteroidUpperLimitKg,
		})
		if result.Deleted {
			continue
		}
		entries = append(entries, orbitalfilter.Entry{
			Planet:             system.Planet{Type: result.Type, Radius: result.RadiusM, Core: core.Mass},
			Orbit:              core.Orbit,
			OriginalCoreMassKg: result.CoreMassKg,
			NewCoreMassKg:      result.NewCoreMassKg,
		})
	}
	if len(entries) == 0 {
		return nil
	}

	var filterCompanion *orbitalfilter.Companion
	if comp != nil {
		filterCompanion = &orbitalfilter.Companion{LuminosityW: comp.LuminosityW, MassFraction: comp.MassFraction}
	}
	filterCfg := orbitalfilter.Config{
		BinarySemiMajorAxisM: binarySemiMajorAxisM,
		BinaryEccentricity:   binaryEccentricity,
		Companion:            filterCompanion,
		DiskInnerRadiusAU:    disk.InnerRadiusM / auMeters,
		OuterHabitableZoneM:  outerHZM,
	}
	hostStar := orbitalfilter.HostStar{
		MassKg:         star.Mass,
		InitialMassSol: initialMassSol,
		RadiusM:        star.Radius,
		LuminosityW:    star.Luminosity,
		AgeS:           star.Age,
		Phase:          phase,
	}
	entries = orbitalfilter.Apply(rng, hostStar, filterCfg, entries)

	diskGeom := composition.DiskGeometry{InnerRadiusAU: disk.InnerRadiusM / auMeters, OuterRadiusAU: disk.OuterRadiusM / auMeters}

	for i := range entries {
		composeOnePlanet(rng, cfg, &entries[i], star, comp, diskGeom, hostPreMainSeq, isWhiteDwarf, isExotic, innerHZM, outerHZM)
	}

	entries = orbitalfilter.ThermalDeath(hostStar, filterCfg, entries)

	civCfg := civilization.Config{LifeOccurrenceProbability: cfg.LifeOccurrenceProbability, EnableAsiFilter: cfg.EnableAsiFilter}
	civStar := civilization.Star{AgeS: star.Age}

	bodies := make([]assembler.Body, 0, len(entries))
	for _, e := range entries {
		garnishOnePlanet(rng, cfg, &e, star, hostPreMainSeq, frostLineM, civCfg, civStar, initialMassSol, innerHZM, outerHZM)
		bodies = append(bodies, assembler.Body{Planet: e.Planet, Orbit: e.Orbit})
	}

	kept, demoted := assembler.Assemble(star.Mass, bodies)

	var subOrbits []int
	for _, b := range kept {
		planetHandle := sys.AddPlanet(b.Planet)
		orbit := b.Orbit
		orbit.Parent = starHandle
		orbit.Details = []system.OrbitDetail{{Object: planetHandle}}
		subOrbits = append(subOrbits, sys.AddOrbit(orbit))
	}
	for _, d := range demoted {
		clusterHandle := sys.AddAsteroidCluster(d.Cluster)
		orbit := d.Orbit
		orbit.Parent = starHandle
		orbit.Details = []system.OrbitDetail{{Object: clusterHandle}}
		subOrbits = append(subOrbits, sys.AddOrbit(orbit))
	}

	if !isExotic {
		kuiper := garnish.GenerateKuiperBelt(rng, garnish.KuiperHost{
			DustMassSolarMasses: disk.DustMassKg / solarMassKg,
			OuterRadiusAU:       disk.OuterRadiusM / auMeters,
			FrostLineAU:         frostLineM / auMeters,
			HostPreMainSeq:      hostPreMainSeq,
		})
		clusterHandle := sys.AddAsteroidCluster(kuiper.Cluster)
		orbit := kuiper.Orbit
		orbit.Parent = starHandle
		orbit.Details = []system.OrbitDetail{{Object: clusterHandle}}
		subOrbits = append(subOrbits, sys.AddOrbit(orbit))
	}

	sys.Stars[starHandle.Index].HasPlanets = len(subOrbits) > 0
	return subOrbits
}

// composeOnePlanet implements the body of the per-planet loop spec.md §4.12
// describes between the orbital filter and thermal death: mass partition,
// current-position irradiance, spin, Terra conversion (normal hosts only),
// and balance temperature.
func composeOnePlanet(rng *randgen.Engine, cfg Config, e *orbitalfilter.Entry, star system.Star, comp *companionInfo, diskGeom composition.DiskGeometry, hostPreMainSeq, isWhiteDwarf, isExotic bool, innerHZM, outerHZM float64) {
	aAU := e.Orbit.SemiMajorAxis / auMeters

	massResult := composition.PartitionMass(rng, e.Planet.Type, e.OriginalCoreMassKg, e.NewCoreMassKg, aAU, diskGeom, hostPreMainSeq, star.FeH)
	e.Planet.Type = massResult.Type
	e.Planet.Core = massResult.Core
	e.Planet.Ocean = massResult.Ocean
	e.Planet.Atmosphere = massResult.Atmosphere
	if e.Planet.Type != system.PlanetRocky && e.Planet.Type != system.PlanetTerra && e.Planet.Type != system.PlanetChthonian {
		e.Planet.Radius = planetclass.Radius(massResult.TotalMassKg/earthMassKg, e.Planet.Type) * earthRadiusM
	}

	irr := totalIrradiance(star.Luminosity, e.Orbit.SemiMajorAxis, comp)

	e.Planet.Spin = composition.GenerateSpin(rng, composition.SpinInput{
		Type:           e.Planet.Type,
		MassKg:         e.Planet.Mass(),
		RadiusM:        e.Planet.Radius,
		SemiMajorAxisM: e.Orbit.SemiMajorAxis,
		OrbitalPeriodS: keplerPeriodS(e.Orbit.SemiMajorAxis, star.Mass),
		AgeS:           star.Age,
		HostMassKg:     star.Mass,
		HostAgeS:       star.Age,
	}).Spin

	if !isWhiteDwarf && !isExotic {
		terra := composition.ApplyTerra(rng, e.Planet.Mass(), composition.TerraInput{
			Type:                e.Planet.Type,
			CoreMassKg:          e.Planet.Core.TotalKg(),
			RadiusM:             e.Planet.Radius,
			SemiMajorAxisM:      e.Orbit.SemiMajorAxis,
			InnerHabitableZoneM: innerHZM,
			OuterHabitableZoneM: outerHZM,
			HostLuminosityW:     star.Luminosity,
			HostPreMainSeq:      hostPreMainSeq,
			IrradianceWm2:       irr,
		})
		e.Planet.Type = terra.Type
		if terra.Type == system.PlanetTerra {
			e.Planet.Ocean = e.Planet.Ocean.Add(terra.Ocean)
		}
		e.Planet.CrustMineralMass = terra.CrustMineralMassKg
		e.Planet.Atmosphere = e.Planet.Atmosphere.Add(terra.Atmosphere)
		e.Planet.Core = e.Planet.Core.Add(terra.CoreTopUp)
	}

	e.Planet.BalanceTemperature = composition.CalculateTemperature(rng, composition.TemperatureInput{
		Type:             e.Planet.Type,
		MassKg:           e.Planet.Mass(),
		RadiusM:          e.Planet.Radius,
		AtmosphereMassKg: e.Planet.Atmosphere.TotalKg(),
		IrradianceWm2:    irr,
		Spin:             e.Planet.Spin,
		OrbitsStar:       true,
		UniverseAgeYears: cfg.UniverseAgeYears,
	})
}

const earthRadiusM = 6.3710084e6

// garnishOnePlanet implements the tail of the per-planet loop (spec.md
// §4.13): moons, rings, a civilization roll for any Terra world sitting in
// the habitable zone, and a Trojan belt.
func garnishOnePlanet(rng *randgen.Engine, cfg Config, e *orbitalfilter.Entry, star system.Star, hostPreMainSeq bool, frostLineM float64, civCfg civilization.Config, civStar civilization.Star, initialMassSol, innerHZM, outerHZM float64) {
	planet := &e.Planet
	orbit := e.Orbit
	frostLineAUVal := frostLineM / auMeters

	moons := garnish.GenerateMoons(rng, garnish.MoonHost{
		MassKg:               planet.Mass(),
		RadiusM:              planet.Radius,
		Normal:               star.Normal,
		SemiMajorAxisM:       orbit.SemiMajorAxis,
		HostStarMassKg:       star.Mass,
		HostPreMainSeq:       hostPreMainSeq,
		AsteroidUpperLimitKg: cfg.AsteroidUpperLimitKg,
		CoreMassZKg:          zComponentKg(planet.Core),
		FrostLineAU:          frostLineAUVal,
		HostAgeS:             star.Age,
		IrradianceWm2:        totalIrradiance(star.Luminosity, orbit.SemiMajorAxis, nil),
		UniverseAgeYears:     cfg.UniverseAgeYears,
	})
	for _, m := range moons {
		planet.Moons = append(planet.Moons, system.Moon{Orbit: m.Orbit, Planet: m.Planet})
	}

	var ringCluster *system.AsteroidCluster
	if !planet.Type.IsAsteroidType() && planet.Mass() > cfg.RingsParentLowerLimitKg {
		if ringOrbit, cluster, ok := garnish.GenerateRings(rng, garnish.RingHost{
			Type:           planet.Type,
			MassKg:         planet.Mass(),
			RadiusM:        planet.Radius,
			SemiMajorAxisM: orbit.SemiMajorAxis,
			HostStarMassKg: star.Mass,
			HostPreMainSeq: hostPreMainSeq,
			FrostLineAU:    frostLineAUVal,
		}); ok {
			planet.Rings = append(planet.Rings, system.Ring{
				SemiMajorAxis: ringOrbit.SemiMajorAxis,
				Mass:          cluster.Mass,
				RockyIce:      cluster.Type == system.AsteroidRockyIce,
			})
			ringCluster = &cluster
		}
	}

	if planet.Type == system.PlanetTerra {
		withinHabitableZone := orbit.SemiMajorAxis > innerHZM && orbit.SemiMajorAxis < outerHZM
		uvEligible := !cfg.ContainUltravioletHabitableZone ||
			(initialMassSol > uvHabitableMinMassSol && initialMassSol < uvHabitableMaxMassSol)
		if star.Age > civilizationMinAgeS && withinHabitableZone && uvEligible {
			irr := totalIrradiance(star.Luminosity, orbit.SemiMajorAxis, nil)
			verdict := civilization.GenerateCivilization(rng, civCfg, civStar, irr, civilization.Planet{})
			if verdict.HasLife {
				planet.Civilization = &system.Civilization{Tier: int(verdict.Tier)}
			}
		}
	}

	var ringType system.AsteroidClusterType
	if ringCluster != nil {
		ringType = ringCluster.Type
	}
	if trojan, ok := garnish.GenerateTrojan(rng, garnish.TrojanHost{
		MassKg:         planet.Mass(),
		SemiMajorAxisM: orbit.SemiMajorAxis,
		HostStarMassKg: star.Mass,
		HostPreMainSeq: hostPreMainSeq,
		FrostLineAU:    frostLineAUVal,
		Rings:          ringCluster,
		RingType:       ringType,
	}); ok {
		planet.Trojans = &trojan
	}
}
