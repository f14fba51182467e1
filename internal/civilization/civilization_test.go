package civilization

import (
	"testing"

	"github.com/darkdragonsastro/draco-simulator/internal/randgen"
)

func TestGenerateCivilizationRejectsYoungHosts(t *testing.T) {
	rng := randgen.NewEngineFromString("civ-young")
	cfg := Config{LifeOccurrenceProbability: 1.0, EnableAsiFilter: true}
	result := GenerateCivilization(rng, cfg, Star{AgeS: 1e6}, 1360, Planet{})
	if result.HasLife {
		t.Fatalf("expected no life around a host younger than the minimum age")
	}
}

func TestGenerateCivilizationCanProduceLifeWithCertainProbability(t *testing.T) {
	rng := randgen.NewEngineFromString("civ-certain")
	cfg := Config{LifeOccurrenceProbability: 1.0, EnableAsiFilter: false}
	result := GenerateCivilization(rng, cfg, Star{AgeS: 1e10}, 1360, Planet{})
	if !result.HasLife {
		t.Fatalf("expected life with a 100%% occurrence probability and an old host")
	}
	if result.Tier == TierAsi {
		t.Fatalf("expected no ASI tier when the filter is disabled")
	}
}

func TestGenerateCivilizationRespectsZeroProbability(t *testing.T) {
	rng := randgen.NewEngineFromString("civ-zero")
	cfg := Config{LifeOccurrenceProbability: 0.0, EnableAsiFilter: true}
	result := GenerateCivilization(rng, cfg, Star{AgeS: 1e10}, 1360, Planet{})
	if result.HasLife {
		t.Fatalf("expected no life with a zero occurrence probability")
	}
}
