package system

// OrbitDetail references one object placed on an Orbit, plus the sub-orbits
// that object itself parents. SubOrbits are weak (non-owning) back-references
// by index into StellarSystem.Orbits; StellarSystem is the sole owner.
type OrbitDetail struct {
	Object           Handle
	InitialTrueAnomaly float64
	SubOrbits        []int // indices into StellarSystem.Orbits
}

// Orbit describes the Keplerian geometry of one orbit plus the ordered list
// of objects riding on it.
type Orbit struct {
	Parent Handle

	SemiMajorAxis        float64 // m
	Period               float64 // s
	Eccentricity         float64
	Inclination          float64 // rad
	LongitudeAscendingNode float64 // rad
	ArgumentOfPeriapsis  float64 // rad
	TrueAnomaly          float64 // rad
	Normal               Angles

	Details []OrbitDetail
}
