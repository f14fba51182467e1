// Package system holds the StellarSystem aggregate and the body types it owns:
// Star, Planet, AsteroidCluster, BaryCenter, and the Orbit graph connecting them.
package system

import "math/big"

// ComplexMass is a triple of non-negative masses in kilograms, split across
// heavy elements (Z), volatiles, and energetic nuclides. Totals are tracked
// as arbitrary-precision integers because stellar-core-scale magnitudes
// (around 2e30 kg) lose precision once several components are summed as
// 64-bit floats.
type ComplexMass struct {
	Z                *big.Int
	Volatiles        *big.Int
	EnergeticNuclide *big.Int
}

// NewComplexMass builds a ComplexMass from kilogram-valued floats, rounding
// each component to the nearest integer kilogram.
func NewComplexMass(z, volatiles, energeticNuclide float64) ComplexMass {
	return ComplexMass{
		Z:                roundToInt(z),
		Volatiles:        roundToInt(volatiles),
		EnergeticNuclide: roundToInt(energeticNuclide),
	}
}

// ZeroMass returns a ComplexMass with all components at zero.
func ZeroMass() ComplexMass {
	return ComplexMass{Z: big.NewInt(0), Volatiles: big.NewInt(0), EnergeticNuclide: big.NewInt(0)}
}

func roundToInt(v float64) *big.Int {
	if v < 0 {
		v = 0
	}
	f := new(big.Float).SetFloat64(v)
	f.Add(f, big.NewFloat(0.5))
	i, _ := f.Int(nil)
	return i
}

// Total returns Z + Volatiles + EnergeticNuclide. The zero-value ComplexMass
// (as produced by a bare system.ComplexMass{} literal) totals to zero rather
// than panicking, so callers that build one up field by field don't need to
// route through ZeroMass first.
func (m ComplexMass) Total() *big.Int {
	total := new(big.Int).Add(orZero(m.Z), orZero(m.Volatiles))
	total.Add(total, orZero(m.EnergeticNuclide))
	return total
}

func orZero(i *big.Int) *big.Int {
	if i == nil {
		return big.NewInt(0)
	}
	return i
}

// TotalKg returns the total mass as a float64, for use in formulas that do
// not need arbitrary precision (everything past the point of construction).
func (m ComplexMass) TotalKg() float64 {
	f := new(big.Float).SetInt(m.Total())
	v, _ := f.Float64()
	return v
}

// Add returns the component-wise sum of two ComplexMass values.
func (m ComplexMass) Add(other ComplexMass) ComplexMass {
	return ComplexMass{
		Z:                new(big.Int).Add(orZero(m.Z), orZero(other.Z)),
		Volatiles:        new(big.Int).Add(orZero(m.Volatiles), orZero(other.Volatiles)),
		EnergeticNuclide: new(big.Int).Add(orZero(m.EnergeticNuclide), orZero(other.EnergeticNuclide)),
	}
}
