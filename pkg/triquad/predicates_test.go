package triquad

import (
	"math"
	"testing"

	"github.com/chazu/inset/pkg/geom"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestAngle(t *testing.T) {
	tests := []struct {
		a, b, c int
		want    float64
	}{
		{0, 1, 3, 90},
		{3, 1, 0, 90},
		{0, 2, 1, 126.86989764584402},
		{0, 0, 1, 0},
	}
	for _, tt := range tests {
		if got := Angle(tt.a, tt.b, tt.c, vs1); !scalar.EqualWithinAbs(got, tt.want, 1e-9) {
			t.Errorf("Angle(%d, %d, %d) = %v, want %v", tt.a, tt.b, tt.c, got, tt.want)
		}
	}
}

func TestSegsIntersect(t *testing.T) {
	square := newPoints(0, 0, 1, 1, 1, 0, 0, 1)
	touch := newPoints(0, 0, 1, 0, -0.5, -0.5, 0.5, 0.5, 0.5, 0.1)
	slant := newPoints(0, 0, 1, 0.5, 0.25, 0.25, 0.75, -1)

	tests := []struct {
		name       string
		pts        *geom.Points
		a, b, c, d int
		want       bool
	}{
		{"diagonals", square, 0, 1, 2, 3, true},
		{"diagonals reversed", square, 0, 1, 3, 2, true},
		{"opposite sides", square, 0, 2, 1, 3, false},
		{"opposite sides reversed", square, 2, 0, 3, 1, false},
		{"degenerate segment", square, 0, 0, 0, 1, false},
		{"shared endpoint", square, 0, 1, 1, 1, false},
		{"through an endpoint", touch, 0, 1, 2, 3, false},
		{"proper crossing", touch, 0, 1, 2, 4, true},
		{"slanted crossing", slant, 0, 1, 2, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SegsIntersect(tt.a, tt.b, tt.c, tt.d, tt.pts); got != tt.want {
				t.Errorf("SegsIntersect(%d, %d, %d, %d) = %v, want %v", tt.a, tt.b, tt.c, tt.d, got, tt.want)
			}
		})
	}
}

func TestCcw(t *testing.T) {
	pts := newPoints(0, 0, 5, 1, 2, 3, 2, -3, 8, 4, 10, 2)
	tests := []struct {
		a, b, c int
		want    bool
	}{
		{0, 1, 2, true},
		{2, 0, 1, true},
		{1, 2, 0, true},
		{0, 1, 3, false},
		{0, 1, 4, true},
		{0, 1, 1, false},
		{0, 1, 5, false},
	}
	for _, tt := range tests {
		if got := Ccw(tt.a, tt.b, tt.c, pts); got != tt.want {
			t.Errorf("Ccw(%d, %d, %d) = %v, want %v", tt.a, tt.b, tt.c, got, tt.want)
		}
	}
}

func TestInCircle(t *testing.T) {
	pts := newPoints(
		math.Cos(0.1), math.Sin(0.1),
		math.Cos(1.1), math.Sin(1.1),
		math.Cos(5.0), math.Sin(5.0),
		1.1*math.Cos(2.0), 1.1*math.Sin(2.0),
		0.9*math.Cos(6.0), 0.9*math.Sin(6.0),
		math.Cos(6.1), math.Sin(6.1),
	)
	tests := []struct {
		a, b, c, d int
		want       bool
	}{
		{0, 1, 2, 4, true},
		{0, 1, 2, 3, false},
		{0, 1, 2, 5, false},
		{0, 2, 1, 4, false},
		{0, 2, 1, 3, true},
		{0, 2, 1, 5, false},
	}
	for _, tt := range tests {
		if got := InCircle(tt.a, tt.b, tt.c, tt.d, pts); got != tt.want {
			t.Errorf("InCircle(%d, %d, %d, %d) = %v, want %v", tt.a, tt.b, tt.c, tt.d, got, tt.want)
		}
	}

	near := newPoints(0.923879, -0.382684, 0.382683, 0.92388, 2.67949e-08, 1.0, 0.707107, 0.707107)
	if !InCircle(0, 1, 2, 3, near) {
		t.Errorf("InCircle(nearly cocircular) = false, want true")
	}
}

func TestClassify(t *testing.T) {
	pts := newPoints(0, 0, 1, 0.5, 2, 0, 1, 1, 0, 1, -1, 1)
	tests := []struct {
		a, b, c int
		want    AngleKind
	}{
		{0, 1, 2, Reflex},
		{1, 2, 3, Convex},
		{3, 4, 5, Tangential},
		{0, 1, 0, Ang0},
	}
	for _, tt := range tests {
		if got := Classify(tt.a, tt.b, tt.c, pts); got != tt.want {
			t.Errorf("Classify(%d, %d, %d) = %v, want %v", tt.a, tt.b, tt.c, got, tt.want)
		}
	}
}

func TestInCone(t *testing.T) {
	pts := newPoints(0, 0, 1, 0, 1, 1, 2, 0, 2, 2, 0, 2)
	if !inCone(5, 0, 1, 2, Convex, pts) {
		t.Errorf("inCone(5, 0, 1, 2, convex) = false, want true")
	}
	if !inCone(5, 1, 2, 3, Reflex, pts) {
		t.Errorf("inCone(5, 1, 2, 3, reflex) = false, want true")
	}
}
