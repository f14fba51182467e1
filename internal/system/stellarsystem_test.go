package system

import (
	"math"
	"testing"
)

func TestComplexMassTotal(t *testing.T) {
	m := NewComplexMass(1e20, 2e20, 3e19)
	total := m.TotalKg()
	want := 1e20 + 2e20 + 3e19
	if math.Abs(total-want)/want > 1e-9 {
		t.Fatalf("total = %v, want ~%v", total, want)
	}
}

func TestStellarSystemValidate_NoRootOrbit(t *testing.T) {
	sys := New("test")
	sys.AddStar(Star{Mass: 2e30})
	if err := sys.Validate(); err != ErrNoRootOrbit {
		t.Fatalf("expected ErrNoRootOrbit, got %v", err)
	}
}

func TestStellarSystemValidate_Kepler(t *testing.T) {
	sys := New("test")
	starHandle := sys.AddStar(Star{Mass: 1.989e30})

	a := 1.496e11 // 1 AU
	period := 2 * math.Pi * math.Sqrt(math.Pow(a, 3)/(GravitationalConstant*1.989e30))

	sys.AddOrbit(Orbit{
		Parent:        Handle{Type: BodyBaryCenter, Index: -1},
		SemiMajorAxis: a,
		Period:        period,
		Details: []OrbitDetail{
			{Object: starHandle},
		},
	})

	if err := sys.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStellarSystemValidate_DanglingHandle(t *testing.T) {
	sys := New("test")
	sys.AddOrbit(Orbit{
		Parent: Handle{Type: BodyBaryCenter, Index: -1},
		Details: []OrbitDetail{
			{Object: Handle{Type: BodyPlanet, Index: 5}},
		},
	})
	if err := sys.Validate(); err != ErrDanglingHandle {
		t.Fatalf("expected ErrDanglingHandle, got %v", err)
	}
}
