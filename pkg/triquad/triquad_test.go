package triquad

import (
	"errors"
	"slices"
	"testing"

	"github.com/chazu/inset/pkg/geom"
	"gonum.org/v1/gonum/floats/scalar"
)

func totalArea(faces [][]int, pts *geom.Points) float64 {
	sum := 0.0
	for _, f := range faces {
		sum += geom.SignedArea(f, pts)
	}
	return sum
}

func TestCDT(t *testing.T) {
	pts := newPoints(0, 0, 1, 0, 0.2, 1, 1.2, 1, 1.5, 0)
	tris := []Tri{{0, 1, 3}, {0, 3, 2}, {1, 4, 3}}
	bord := borderEdges([]int{0, 1, 4, 3, 2})

	re := reversedEdges(tris, triDict(tris), bord, pts)
	if len(re) != 1 || re[0] != (edge{0, 3}) {
		t.Errorf("reversedEdges() = %v, want [{0 3}]", re)
	}

	got := cdt(tris, bord, pts)
	want := []Tri{{1, 4, 3}, {2, 0, 1}, {2, 1, 3}}
	if !slices.Equal(got, want) {
		t.Errorf("cdt() = %v, want %v", got, want)
	}
}

func TestIsEar(t *testing.T) {
	x := geom.NewSegmentIndex(vsm, fsm)
	if !isEar(fsm, 0, classifyRing(fsm, vsm), 0, x, vsm) {
		t.Errorf("isEar(m, 0) = false, want true")
	}

	f := fsm[1:]
	x = geom.NewSegmentIndex(vsm, f)
	if isEar(f, 26, classifyRing(f, vsm), 0, x, vsm) {
		t.Errorf("isEar(m without 0, 26) = true, want false")
	}
}

func TestSortFace(t *testing.T) {
	if got := sortFace(seq(16), vs3); got[0] != 8 || len(got) != 16 {
		t.Errorf("sortFace(circle) starts at %d, want 8", got[0])
	}
	tests := []struct {
		face, want []int
	}{
		{f2hole1, []int{8, 2, 3, 9}},
		{f2hole2, []int{10, 4, 5, 11}},
	}
	for _, tt := range tests {
		if got := sortFace(tt.face, vs2); !slices.Equal(got, tt.want) {
			t.Errorf("sortFace(%v) = %v, want %v", tt.face, got, tt.want)
		}
	}
}

func TestJoinIslands(t *testing.T) {
	got, err := joinIslands(f2outer, [][]int{f2hole1, f2hole2}, vs2)
	if err != nil {
		t.Fatalf("joinIslands() error: %v", err)
	}
	want := []int{0, 12, 8, 2, 3, 9, 8, 12, 13, 6, 7, 10, 4, 5, 11, 10, 7, 14, 15, 1}
	if !slices.Equal(got, want) {
		t.Errorf("joinIslands() = %v, want %v", got, want)
	}
}

func TestJoinIslandsNoDiagonal(t *testing.T) {
	// a hole outside the boundary is in no vertex cone
	pts := newPoints(0, 0, 1, 0, 1, 1, 0, 1, -3, 0.4, -2, 0.4, -2, 0.6, -3, 0.6)
	_, err := joinIslands([]int{0, 1, 2, 3}, [][]int{{7, 6, 5, 4}}, pts)
	if !errors.Is(err, ErrNoDiagonal) {
		t.Errorf("joinIslands() error = %v, want ErrNoDiagonal", err)
	}
}

func TestTriangulateFace(t *testing.T) {
	tests := []struct {
		name string
		face []int
		pts  *geom.Points
		want int
	}{
		{"triangle", []int{0, 1, 2}, vs1, 1},
		{"square", []int{0, 1, 3, 4}, vs1, 2},
		{"circle", seq(16), vs3, 14},
		{"m", fsm, vsm, 26},
		{"concave", []int{0, 2, 1, 3, 4}, vs1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tris := TriangulateFace(tt.face, tt.pts)
			if len(tris) != tt.want {
				t.Fatalf("TriangulateFace() returned %d triangles, want %d", len(tris), tt.want)
			}
			fs := faces(tris)
			for _, f := range fs {
				if a := geom.SignedArea(f, tt.pts); a <= 0 {
					t.Errorf("triangle %v has area %v, want positive", f, a)
				}
			}
			want := geom.SignedArea(tt.face, tt.pts)
			if got := totalArea(fs, tt.pts); !scalar.EqualWithinAbs(got, want, 1e-9) {
				t.Errorf("total area = %v, want %v", got, want)
			}
		})
	}

	got := TriangulateFace([]int{0, 2, 1, 3, 4}, vs1)
	want := []Tri{{2, 1, 3}, {2, 3, 4}, {4, 0, 2}}
	if !slices.Equal(got, want) {
		t.Errorf("TriangulateFace(concave) = %v, want %v", got, want)
	}
	if got := TriangulateFace([]int{0, 1}, vs1); got != nil {
		t.Errorf("TriangulateFace(two vertices) = %v, want nil", got)
	}
}

func TestTriangulateConvex(t *testing.T) {
	for n := 3; n <= 16; n++ {
		// any run of circle vertices is convex
		face := make([]int, 0, n)
		for i := 0; i < 16 && len(face) < n; i++ {
			face = append(face, i)
		}
		tris := TriangulateFace(face, vs3)
		if len(tris) != n-2 {
			t.Errorf("TriangulateFace(%d-gon) returned %d triangles, want %d", n, len(tris), n-2)
		}
	}
}

func TestTriangulateFaceWithHoles(t *testing.T) {
	holes := [][]int{f2hole1, f2hole2}
	tris, err := TriangulateFaceWithHoles(f2outer, holes, vs2)
	if err != nil {
		t.Fatalf("TriangulateFaceWithHoles() error: %v", err)
	}
	if len(tris) != 18 {
		t.Errorf("TriangulateFaceWithHoles() returned %d triangles, want 18", len(tris))
	}
	for _, tri := range tris {
		if a := geom.SignedArea(tri[:], vs2); a <= 0 {
			t.Errorf("triangle %v has area %v, want positive", tri, a)
		}
	}
	pa := geom.NewPolyArea(vs2, f2outer, holes...)
	if got := totalArea(faces(tris), vs2); !scalar.EqualWithinAbs(got, pa.Area(), 1e-9) {
		t.Errorf("total area = %v, want %v", got, pa.Area())
	}
	if !scalar.EqualWithinAbs(pa.Area(), 1.375, 1e-12) {
		t.Errorf("PolyArea.Area() = %v, want 1.375", pa.Area())
	}

	quads, err := Quadrangulate(pa)
	if err != nil {
		t.Fatalf("Quadrangulate() error: %v", err)
	}
	if len(quads) != 10 {
		t.Errorf("Quadrangulate() returned %d faces, want 10", len(quads))
	}
	if got := totalArea(quads, vs2); !scalar.EqualWithinAbs(got, 1.375, 1e-9) {
		t.Errorf("quad area = %v, want 1.375", got)
	}
}

func TestQuadrangulateFace(t *testing.T) {
	tests := []struct {
		name    string
		face    []int
		pts     *geom.Points
		atLeast int
		atMost  int
	}{
		{"triangle", []int{0, 1, 2}, vs1, 1, 1},
		{"square", []int{0, 1, 3, 4}, vs1, 1, 1},
		{"circle", seq(16), vs3, 9, 9},
		{"m", fsm, vsm, 13, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QuadrangulateFace(tt.face, tt.pts)
			if len(got) < tt.atLeast || len(got) > tt.atMost {
				t.Errorf("QuadrangulateFace() returned %d faces, want [%d, %d]", len(got), tt.atLeast, tt.atMost)
			}
			want := geom.SignedArea(tt.face, tt.pts)
			if a := totalArea(got, tt.pts); !scalar.EqualWithinAbs(a, want, 1e-9) {
				t.Errorf("total area = %v, want %v", a, want)
			}
		})
	}

	got := QuadrangulateFace(seq(16), vs3)
	want := [][]int{
		{8, 12, 15, 4}, {0, 2, 4, 15}, {10, 11, 12, 8}, {6, 7, 8, 4}, {13, 14, 15, 12},
		{0, 1, 2}, {2, 3, 4}, {4, 5, 6}, {8, 9, 10},
	}
	if !slices.EqualFunc(got, want, slices.Equal[[]int]) {
		t.Errorf("QuadrangulateFace(circle) = %v, want %v", got, want)
	}
}

// Splitting each quad along either diagonal gives back the area of the
// triangulation it came from.
func TestQuadRoundTrip(t *testing.T) {
	tris := TriangulateFace(fsm, vsm)
	want := totalArea(faces(tris), vsm)
	for _, diag := range []int{0, 1} {
		var split [][]int
		for _, f := range QuadrangulateFace(fsm, vsm) {
			if len(f) == 3 {
				split = append(split, f)
				continue
			}
			split = append(split,
				[]int{f[diag], f[diag+1], f[diag+2]},
				[]int{f[diag], f[diag+2], f[(diag+3)%4]})
		}
		if got := totalArea(split, vsm); !scalar.EqualWithinAbs(got, want, 1e-9) {
			t.Errorf("diagonal %d: area = %v, want %v", diag, got, want)
		}
	}
}

func TestMaxMatch(t *testing.T) {
	a, b, c, d := Tri{0, 1, 2}, Tri{1, 3, 2}, Tri{3, 4, 2}, Tri{4, 5, 2}
	er := []merge{
		{score: 1.5, e: edge{1, 2}, tl: a, tr: b},
		{score: 1.9, e: edge{2, 3}, tl: b, tr: c},
		{score: 1.5, e: edge{2, 4}, tl: c, tr: d},
	}
	got := maxMatch(er)
	if len(got) != 1 || got[0].e != (edge{2, 3}) {
		t.Errorf("maxMatch() = %v, want the single best merge", got)
	}

	er[1].score = 1.0
	got = maxMatch(er)
	if len(got) != 2 || got[0].e != (edge{1, 2}) || got[1].e != (edge{2, 4}) {
		t.Errorf("maxMatch() = %v, want merges on {1 2} and {2 4}", got)
	}
}
