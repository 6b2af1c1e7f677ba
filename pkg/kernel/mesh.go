package kernel

import (
	"bufio"
	"fmt"
	"io"
)

// Mesh is an indexed triangle mesh in flat arrays, three components
// per vertex and three indices per triangle. It marshals to the JSON a
// web viewer consumes.
type Mesh struct {
	Vertices []float32 `json:"vertices"`         // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`          // [nx0,ny0,nz0, ...]
	Colors   []float32 `json:"colors,omitempty"` // [r0,g0,b0, ...] when present
	Indices  []uint32  `json:"indices"`          // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"`         // which scene graph node this came from
}

func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty reports whether m has no vertices.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Append adds the geometry of o to m, renumbering o's indices. Colors
// are kept only when both meshes carry them.
func (m *Mesh) Append(o *Mesh) {
	base := uint32(m.VertexCount())
	hadColors := len(m.Colors) > 0 || m.IsEmpty()
	m.Vertices = append(m.Vertices, o.Vertices...)
	m.Normals = append(m.Normals, o.Normals...)
	if hadColors && len(o.Colors) > 0 {
		m.Colors = append(m.Colors, o.Colors...)
	} else {
		m.Colors = nil
	}
	for _, i := range o.Indices {
		m.Indices = append(m.Indices, base+i)
	}
}

// Translate moves every vertex by (x, y, z).
func (m *Mesh) Translate(x, y, z float32) {
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		m.Vertices[i] += x
		m.Vertices[i+1] += y
		m.Vertices[i+2] += z
	}
}

// WriteOBJ writes meshes as one Wavefront OBJ object each, named after
// PartName. Face indices are 1-based and continue across objects.
func WriteOBJ(w io.Writer, meshes []*Mesh) error {
	bw := bufio.NewWriter(w)
	base := 1
	for i, m := range meshes {
		name := m.PartName
		if name == "" {
			name = fmt.Sprintf("part%d", i)
		}
		fmt.Fprintf(bw, "o %s\n", name)
		for j := 0; j+2 < len(m.Vertices); j += 3 {
			fmt.Fprintf(bw, "v %f %f %f\n", m.Vertices[j], m.Vertices[j+1], m.Vertices[j+2])
		}
		for j := 0; j+2 < len(m.Indices); j += 3 {
			fmt.Fprintf(bw, "f %d %d %d\n", base+int(m.Indices[j]), base+int(m.Indices[j+1]), base+int(m.Indices[j+2]))
		}
		base += m.VertexCount()
	}
	return bw.Flush()
}
