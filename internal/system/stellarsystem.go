package system

import (
	"errors"
	"math"

	"github.com/google/uuid"
)

// Sentinel errors for StellarSystem consistency checks, following the same
// declare-a-package-of-sentinels style as internal/database and
// internal/trackasset.
var (
	// ErrDanglingHandle is returned when an orbit or orbit-detail references
	// a body that is not an element of the system.
	ErrDanglingHandle = errors.New("system: handle does not resolve within this system")

	// ErrNoRootOrbit is returned when no orbit is parented by the BaryCenter.
	ErrNoRootOrbit = errors.New("system: no root orbit parented by the barycenter")

	// ErrKeplerViolation is returned when an orbit's period and semi-major
	// axis disagree with Kepler's third law beyond tolerance.
	ErrKeplerViolation = errors.New("system: orbit violates Kepler's third law")
)

// GravitationalConstant is G in SI units.
const GravitationalConstant = 6.674e-11

// keplerTolerance is the relative tolerance spec.md §3/§8 requires between
// an orbit's semi-major axis and its period.
const keplerTolerance = 1e-3

// StellarSystem owns every body and orbit in a generated system. It is the
// sole owner of all heterogeneous bodies, which live in four parallel
// arenas; orbits and orbit-details reference bodies only by Handle, so the
// whole aggregate is acyclic and can be moved or serialized as a unit.
type StellarSystem struct {
	ID string

	BaryCenter BaryCenter

	Stars            []Star
	Planets          []Planet
	AsteroidClusters []AsteroidCluster
	Orbits           []Orbit
}

// New creates an empty StellarSystem with a fresh identity.
func New(name string) *StellarSystem {
	return &StellarSystem{
		ID:         uuid.NewString(),
		BaryCenter: BaryCenter{ID: uuid.NewString(), Name: name},
	}
}

// AddStar appends a star to the system's star arena and returns its handle.
func (s *StellarSystem) AddStar(star Star) Handle {
	if star.ID == "" {
		star.ID = uuid.NewString()
	}
	s.Stars = append(s.Stars, star)
	return Handle{Type: BodyStar, Index: len(s.Stars) - 1}
}

// AddPlanet appends a planet to the system's planet arena and returns its handle.
func (s *StellarSystem) AddPlanet(p Planet) Handle {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.Planets = append(s.Planets, p)
	return Handle{Type: BodyPlanet, Index: len(s.Planets) - 1}
}

// AddAsteroidCluster appends an asteroid cluster and returns its handle.
func (s *StellarSystem) AddAsteroidCluster(a AsteroidCluster) Handle {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	s.AsteroidClusters = append(s.AsteroidClusters, a)
	return Handle{Type: BodyAsteroidCluster, Index: len(s.AsteroidClusters) - 1}
}

// AddOrbit appends an orbit and returns its index within s.Orbits.
func (s *StellarSystem) AddOrbit(o Orbit) int {
	s.Orbits = append(s.Orbits, o)
	return len(s.Orbits) - 1
}

// Resolve dereferences a Handle into the body's generic form. It returns
// (nil, false) if the handle is out of range.
func (s *StellarSystem) Resolve(h Handle) (any, bool) {
	switch h.Type {
	case BodyBaryCenter:
		return &s.BaryCenter, true
	case BodyStar:
		if h.Index < 0 || h.Index >= len(s.Stars) {
			return nil, false
		}
		return &s.Stars[h.Index], true
	case BodyPlanet:
		if h.Index < 0 || h.Index >= len(s.Planets) {
			return nil, false
		}
		return &s.Planets[h.Index], true
	case BodyAsteroidCluster:
		if h.Index < 0 || h.Index >= len(s.AsteroidClusters) {
			return nil, false
		}
		return &s.AsteroidClusters[h.Index], true
	default:
		return nil, false
	}
}

// MassOf returns the mass in kg of the body a handle resolves to, used to
// check Kepler's third law. BaryCenter and AsteroidCluster contribute no
// orbit-anchoring mass in this model and return 0.
func (s *StellarSystem) MassOf(h Handle) float64 {
	switch h.Type {
	case BodyStar:
		if h.Index >= 0 && h.Index < len(s.Stars) {
			return s.Stars[h.Index].Mass
		}
	case BodyPlanet:
		if h.Index >= 0 && h.Index < len(s.Planets) {
			return s.Planets[h.Index].Mass()
		}
	}
	return 0
}

// Validate checks the invariants spec.md §3 and §8 require of a finished
// StellarSystem: every handle resolves, a root orbit exists, and every
// orbit satisfies Kepler's third law against its parent's mass.
func (s *StellarSystem) Validate() error {
	hasRoot := false
	for _, o := range s.Orbits {
		if o.Parent.Type == BodyBaryCenter {
			hasRoot = true
		} else if _, ok := s.Resolve(o.Parent); !ok {
			return ErrDanglingHandle
		}

		for _, d := range o.Details {
			if _, ok := s.Resolve(d.Object); !ok {
				return ErrDanglingHandle
			}
		}

		if m := s.MassOf(o.Parent); m > 0 && o.SemiMajorAxis > 0 {
			expectedPeriod := 2 * math.Pi * math.Sqrt(math.Pow(o.SemiMajorAxis, 3)/(GravitationalConstant*m))
			if o.Period > 0 {
				rel := math.Abs(o.Period-expectedPeriod) / o.Period
				if rel > keplerTolerance {
					return ErrKeplerViolation
				}
			}
		}
	}

	if !hasRoot {
		return ErrNoRootOrbit
	}

	return nil
}
