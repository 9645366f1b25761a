package mesh

import (
	"bufio"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
)

// Position returns the position of vertex i.
func (m *Mesh) Position(i int) mgl32.Vec3 {
	v := m.vertices[i*Stride+PositionOffset:]
	return mgl32.Vec3{v[0], v[1], v[2]}
}

// Normal returns the normal of vertex i.
func (m *Mesh) Normal(i int) mgl32.Vec3 {
	v := m.vertices[i*Stride+NormalOffset:]
	return mgl32.Vec3{v[0], v[1], v[2]}
}

// TexCoord returns the texture coordinate of vertex i.
func (m *Mesh) TexCoord(i int) mgl32.Vec2 {
	v := m.vertices[i*Stride+TexCoordOffset:]
	return mgl32.Vec2{v[0], v[1]}
}

// Bounds returns the axis-aligned extents of the vertex positions.
// ok is false for a mesh without vertices.
func (m *Mesh) Bounds() (lo, hi mgl32.Vec3, ok bool) {
	n := m.VertexCount()
	if n == 0 {
		return lo, hi, false
	}
	lo = m.Position(0)
	hi = lo
	for i := 1; i < n; i++ {
		p := m.Position(i)
		for k := range 3 {
			lo[k] = min(lo[k], p[k])
			hi[k] = max(hi[k], p[k])
		}
	}
	return lo, hi, true
}

// WriteInfo writes the vertex and triangle counts and the extents of the
// mesh to w.
func (m *Mesh) WriteInfo(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "mesh information:\n")
	fmt.Fprintf(bw, "vertices : %d\n", m.VertexCount())
	fmt.Fprintf(bw, "triangles: %d\n", m.TriangleCount())
	if lo, hi, ok := m.Bounds(); ok {
		for k, axis := range []string{"x", "y", "z"} {
			fmt.Fprintf(bw, "%smin: %8.2f\n", axis, lo[k])
			fmt.Fprintf(bw, "%smax: %8.2f\n", axis, hi[k])
		}
	}
	return bw.Flush()
}

// WriteData writes every vertex position and every triangle's indices to w,
// one per line.
func (m *Mesh) WriteData(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "vertex data:\n\n")
	for i := range m.VertexCount() {
		p := m.Position(i)
		fmt.Fprintf(bw, "%d: %8.2f %8.2f %8.2f\n", i, p[0], p[1], p[2])
	}
	fmt.Fprintf(bw, "\nface index data:\n\n")
	for i := range m.TriangleCount() {
		fmt.Fprintf(bw, "%d: %d %d %d\n", i, m.indices[3*i], m.indices[3*i+1], m.indices[3*i+2])
	}
	return bw.Flush()
}
