package triquad

import (
	"github.com/chazu/inset/pkg/geom"
	"gonum.org/v1/gonum/spatial/r2"
)

func newPoints(xy ...float64) *geom.Points {
	pts := geom.NewPoints()
	for i := 0; i+1 < len(xy); i += 2 {
		pts.AddPoint(r2.Vec{X: xy[i], Y: xy[i+1]})
	}
	return pts
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// unit square with a point pushed in from the bottom edge
var vs1 = newPoints(0, 0, 1, 0, 0.5, 0.25, 1, 1, 0, 1)

// an outline with two square holes
var (
	vs2 = newPoints(
		0, 1, 1.75, 1, 0.25, 0.75, 0.5, 0.75, 1.25, 0.75, 1.5, 0.75,
		0.75, 0.5, 1, 0.5, 0.25, 0.25, 0.5, 0.25, 1.25, 0.25, 1.5, 0.25,
		0, 0, 0.75, 0, 1, 0, 1.75, 0,
	)
	f2outer = []int{0, 12, 13, 6, 7, 14, 15, 1}
	f2hole1 = []int{2, 3, 9, 8}
	f2hole2 = []int{5, 11, 10, 4}
)

// 16-gon approximating the unit circle
var vs3 = newPoints(
	1, 0, 0.923880, 0.382683, 0.707107, 0.707107, 0.382683, 0.923880,
	2.67949e-8, 1, -0.382683, 0.923880, -0.707107, 0.707107, -0.923880, 0.382683,
	-1, 5.35898e-8, -0.923880, -0.382683, -0.707107, -0.707107, -0.382684, -0.923880,
	-8.03847e-8, -1, 0.382683, -0.923880, 0.707107, -0.707107, 0.923879, -0.382684,
)

// lower case "m"
var (
	vsm = newPoints(
		0.131836, 0, 0.307617, 0, 0.307617, 0.538086, 0.335938, 0.754883,
		0.427246, 0.869141, 0.564453, 0.908203, 0.705078, 0.849609, 0.748047, 0.673828,
		0.748047, 0, 0.923828, 0, 0.923828, 0.602539, 0.996094, 0.835449,
		1.17773, 0.908203, 1.28320, 0.879883, 1.34521, 0.805176, 1.36230, 0.653320,
		1.36230, 0, 1.53711, 0, 1.53711, 0.711914, 1.45410, 0.975098,
		1.21680, 1.06055, 0.896484, 0.878906, 0.792480, 1.01270, 0.603516, 1.06055,
		0.418945, 1.01416, 0.289063, 0.891602, 0.289063, 1.03711, 0.131836, 1.03711,
	)
	fsm = seq(28)
)
