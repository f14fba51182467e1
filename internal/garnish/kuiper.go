package garnish

import (
	"math"

	"github.com/darkdragonsastro/draco-simulator/internal/randgen"
	"github.com/darkdragonsastro/draco-simulator/internal/system"
)

// KuiperHost carries the protoplanetary-disk parameters the Kuiper-belt
// generator needs (spec.md §4.13's "Kuiper belt" paragraph).
type KuiperHost struct {
	DustMassSolarMasses float64
	OuterRadiusAU       float64
	FrostLineAU         float64
	HostPreMainSeq      bool
}

// KuiperResult is the generated belt's orbit and composition.
type KuiperResult struct {
	Orbit   system.Orbit
	Cluster system.AsteroidCluster
}

// GenerateKuiperBelt implements the Kuiper-belt generation step that runs
// once per normal-host system after every planet's Trojan belt (spec.md
// §4.13): its mass is a log-uniform fraction of the disk's dust mass, its
// semi-major axis sits just beyond the disk's own outer edge, and its
// composition follows the frost-line rule against the belt's own position.
func GenerateKuiperBelt(rng *randgen.Engine, host KuiperHost) KuiperResult {
	massKg := host.DustMassSolarMasses * math.Pow(10, rng.Uniform(1, 2)) * 1e-4 * solarMassKg
	radiusAU := host.OuterRadiusAU * (1 + rng.Uniform01()*0.5)

	beyondFrostLine := radiusAU > host.FrostLineAU
	mass, rockyIce := frostLineSplit(massKg, beyondFrostLine, host.HostPreMainSeq)
	clusterType := system.AsteroidRocky
	if rockyIce {
		clusterType = system.AsteroidRockyIce
	}

	orbit := randomOrbitElements(rng, radiusAU*auMeters)
	return KuiperResult{Orbit: orbit, Cluster: system.AsteroidCluster{Type: clusterType, Mass: mass}}
}
