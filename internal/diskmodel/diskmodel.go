// Package diskmodel implements C8, the protoplanetary-disk model (spec.md
// §4.8): derives disk/dust mass and inner/outer radii from a host star's
// initial mass and metallicity.
package diskmodel

import (
	"math"

	"github.com/darkdragonsastro/draco-simulator/internal/randgen"
)

const (
	solarMassKg     = 1.98892e30
	solarLuminosityW = 3.828e26
	auMeters        = 1.495978707e11
	stefanBoltzmann = 5.670374e-8
)

// Disk is the computed protoplanetary-disk geometry and mass budget.
type Disk struct {
	DiskMassKg   float64
	DustMassKg   float64
	InnerRadiusM float64
	OuterRadiusM float64
	HasDisk      bool
}

// BuildForNormalHost implements the non-remnant branch of spec.md §4.8.
func BuildForNormalHost(rng *randgen.Engine, initialMassSol, feH float64) Disk {
	diskBase := rng.Uniform(1, 2)
	m := initialMassSol

	exponent := -2.05 + 0.1214*m - 0.02669*m*m - 0.2274*math.Log(m)
	diskMassSol := diskBase * m * math.Pow(10, exponent)
	diskMassKg := diskMassSol * solarMassKg

	dustMassKg := 0.00568 * diskMassKg * math.Pow(10, feH)

	var outerAU float64
	if m >= 1 {
		outerAU = 45 * m
	} else {
		outerAU = 45 * m * m
	}

	innerAU := innerRadiusAU(m)

	return Disk{
		DiskMassKg:   diskMassKg,
		DustMassKg:   dustMassKg,
		InnerRadiusM: innerAU * auMeters,
		OuterRadiusM: outerAU * auMeters,
		HasDisk:      true,
	}
}

// BuildForWhiteDwarfMergerHost implements the remnant branch of spec.md §4.8.
func BuildForWhiteDwarfMergerHost(rng *randgen.Engine) Disk {
	diskBase := rng.Uniform(0.1, 1)
	massKg := diskBase * 1e-5 * solarMassKg
	return Disk{
		DiskMassKg:   massKg,
		DustMassKg:   massKg,
		InnerRadiusM: 0.02 * auMeters,
		OuterRadiusM: 1.0 * auMeters,
		HasDisk:      true,
	}
}

// innerRadiusAU implements the disk-coefficient temperature-threshold
// formula (spec.md §4.8), with the exact common-coefficient and
// mass-banded exponents grounded on the original disk generator.
func innerRadiusAU(massSol float64) float64 {
	var coeff float64
	switch {
	case massSol < 0.6:
		coeff = 2100
	case massSol < 1.5:
		coeff = 1400
	default:
		coeff = 1700
	}

	common := (math.Pow(10, 2.0-massSol) + 1.0) * (solarLuminosityW / (4 * math.Pi * stefanBoltzmann * math.Pow(coeff, 4)))

	var innerSquared float64
	switch {
	case massSol >= 0.075 && massSol < 0.43:
		innerSquared = common * (0.23 * math.Pow(massSol, 2.3))
	case massSol >= 0.43 && massSol < 2.0:
		innerSquared = common * math.Pow(massSol, 4)
	case massSol >= 2.0 && massSol <= 12.0:
		innerSquared = common * (1.5 * math.Pow(massSol, 3.5))
	default:
		innerSquared = common * math.Pow(massSol, 4)
	}

	return math.Sqrt(innerSquared) / auMeters
}
