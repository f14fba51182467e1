package system

// EvolutionPhase is the discrete stellar-evolution stage (spec.md glossary:
// Phase index). Null marks a pair-instability annihilation placeholder.
type EvolutionPhase int

const (
	PhasePreMainSequence EvolutionPhase = iota
	PhaseMainSequence
	PhaseRedGiant
	PhaseCoreHeBurning
	PhaseAGB
	PhaseWolfRayet
	PhaseSupernova
	PhaseHeliumWD
	PhaseCOWD
	PhaseONeMgWD
	PhaseNeutronStar
	PhaseStellarBlackHole
	PhaseNull
)

// StarOrigin records how a star came to be in its present state.
type StarOrigin int

const (
	OriginNormal StarOrigin = iota
	OriginWhiteDwarfMerge
	OriginPairInstabilitySupernova
	OriginPhotodisintegration
	OriginElectronCaptureSupernova
	OriginIronCoreCollapseSupernova
	OriginRelativisticJetHypernova
	OriginSlowCoolingDown
	OriginEnvelopeDisperse
)

// Angles is a direction expressed as polar/azimuthal angles in radians.
type Angles struct {
	Theta float64
	Phi   float64
}

// Star is a generated star: its sampled basic properties, its present-day
// observables interpolated from an evolutionary track, and its derived spin
// and magnetic-field state.
type Star struct {
	ID string

	Age              float64 // s
	InitialMass      float64 // kg
	Mass             float64 // kg
	FeH              float64 // dex
	Lifetime         float64 // s; negative sentinel marks a remnant past its main lifetime
	Radius           float64 // m
	Luminosity       float64 // W
	Teff             float64 // K
	EscapeVelocity   float64 // m/s

	SurfaceH1               float64
	SurfaceZ                float64
	SurfaceEnergeticNuclide  float64
	SurfaceVolatiles         float64

	CoreTemperature float64 // K
	CoreDensity     float64 // kg/m^3

	StellarWindSpeed float64 // m/s
	MassLossRate     float64 // kg/s, stored negative

	EvolutionProgress float64 // fractional phase index, 0-9
	Phase             EvolutionPhase
	Origin            StarOrigin

	HasPlanets bool
	IsSingle   bool

	Normal Angles

	MagneticField float64 // T
	Spin          float64 // s; sentinel -1.0 = tidally locked
	Oblateness    float64
	MinCoilMass   float64 // kg

	// Class is set by the stellar classifier (package stellarclass); it is
	// a packed spectral-class token, opaque to this package.
	Class uint64

	// Spin of the dimensionless kind carried only by black holes ([0.001, 0.998]).
	DimensionlessSpin float64
}

// IsRemnant reports whether the star has left its main track (any phase at
// or past HeliumWD).
func (s *Star) IsRemnant() bool {
	return s.Phase >= PhaseHeliumWD
}
