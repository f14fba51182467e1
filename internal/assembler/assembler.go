// Package assembler implements C14, the system assembler (spec.md §4.14):
// the final pass over a generated system's bodies, run once every planet has
// its mass, spin, and temperature. It rewrites orbital periods from Kepler's
// third law, assigns captured rotation to any planet whose spin never
// resolved to a positive value, and demotes any surviving asteroid-cluster
// planet type to a real AsteroidCluster entry.
package assembler

import (
	"math"

	"github.com/darkdragonsastro/draco-simulator/internal/system"
)

const gravityConstant = 6.6743e-11

// Body is one planet and the orbit it occupies, threaded through the final
// assembly pass.
type Body struct {
	Planet system.Planet
	Orbit  system.Orbit
}

// Assemble implements C14 (spec.md §4.14) against every body orbiting a
// parent of the given mass: it rewrites each orbit's period from Kepler's
// third law, then assigns captured (synchronous) rotation — spin equal to
// the freshly computed orbital period — to any planet whose spin is unset,
// which includes both a planet composition never got around to spinning up
// and the -1 tidal-lock sentinel itself (tidal lock IS synchronous
// rotation; the sentinel only marks that the lock happened before the
// final orbital period was known). The same two steps are applied
// recursively to every surviving planet's moons, orbiting the planet
// itself rather than the top-level parent. Finally it demotes any
// remaining rocky/rocky-ice asteroid-cluster planet type to a real
// AsteroidCluster.
func Assemble(parentMassKg float64, bodies []Body) ([]Body, []DemotedCluster) {
	var demoted []DemotedCluster
	kept := bodies[:0:0]

	for _, body := range bodies {
		body.Orbit.Period = keplerPeriod(body.Orbit.SemiMajorAxis, parentMassKg)

		if body.Planet.Spin <= 0 {
			body.Planet.Spin = body.Orbit.Period
		}

		if body.Planet.Type.IsAsteroidType() {
			demoted = append(demoted, DemotedCluster{
				Orbit: body.Orbit,
				Cluster: system.AsteroidCluster{
					Type: asteroidClusterType(body.Planet.Type),
					Mass: body.Planet.Core,
				},
			})
			continue
		}

		assembleMoons(&body.Planet)
		kept = append(kept, body)
	}

	return kept, demoted
}

// assembleMoons applies Assemble's own Kepler-period and captured-rotation
// steps to planet's moons, each orbiting planet rather than whatever planet
// itself orbits.
func assembleMoons(planet *system.Planet) {
	for i := range planet.Moons {
		moon := &planet.Moons[i]
		moon.Orbit.Period = keplerPeriod(moon.Orbit.SemiMajorAxis, planet.Mass())
		if moon.Planet.Spin <= 0 {
			moon.Planet.Spin = moon.Orbit.Period
		}
	}
}

// DemotedCluster is a planet-typed asteroid cluster retagged into its real
// AsteroidCluster form, paired with the orbit it keeps occupying.
type DemotedCluster struct {
	Orbit   system.Orbit
	Cluster system.AsteroidCluster
}

// keplerPeriod implements Kepler's third law: P = sqrt(4*pi^2*a^3/(G*M)).
func keplerPeriod(semiMajorAxisM, parentMassKg float64) float64 {
	return math.Sqrt(4 * math.Pi * math.Pi * math.Pow(semiMajorAxisM, 3) / (gravityConstant * parentMassKg))
}

func asteroidClusterType(t system.PlanetType) system.AsteroidClusterType {
	if t == system.PlanetRockyIceAsteroidCluster {
		return system.AsteroidRockyIce
	}
	return system.AsteroidRocky
}
