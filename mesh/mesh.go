// Package mesh builds triangle meshes for the primer scaffold.
//
// A Mesh stores its vertices in one interleaved float32 slice with eight
// floats per vertex (position xyz, normal xyz, texture coordinate st) and its
// triangles as a flat uint32 index slice, three indices per triangle. This is
// the layout the GPU upload in package gpu copies verbatim.
//
// Every generator (CreateTriangle, CreateBox, CreateSphere, ReadOBJ,
// DecodeOBJ) replaces the previous contents of the mesh. A failed import
// leaves the mesh empty, so callers can always check IsEmpty.
package mesh

import (
	"errors"
	"fmt"

	"github.com/gogpu/primer"
)

// Stride is the number of float32 values stored per vertex.
const Stride = 8

// Float offsets of the vertex attributes inside one vertex.
const (
	PositionOffset = 0
	NormalOffset   = 3
	TexCoordOffset = 6
)

// Common errors for mesh operations.
var (
	// ErrMalformedRecord is returned when an OBJ line has the wrong number
	// or type of fields, or references an element that does not exist.
	ErrMalformedRecord = errors.New("mesh: malformed record")

	// ErrUnsupportedFace is returned for OBJ faces that are not triangles
	// or do not use the vertex/texcoord/normal index form.
	ErrUnsupportedFace = errors.New("mesh: unsupported face")

	// ErrInvalidMesh is returned by Validate when the vertex and index
	// data disagree.
	ErrInvalidMesh = errors.New("mesh: invalid mesh")
)

// Resources is a bundle of GPU objects created from a mesh.
// The mesh releases it when its contents are replaced or cleared.
type Resources interface {
	Release()
}

// Mesh is an indexed triangle mesh with interleaved vertex attributes.
//
// The zero value is an empty mesh ready for use. Mesh is not safe for
// concurrent use.
type Mesh struct {
	vertices []float32
	indices  []uint32

	// res holds GPU resources built from the current contents.
	res Resources
}

// New returns an empty mesh.
func New() *Mesh {
	return &Mesh{}
}

// Clear discards all vertex and index data and releases any attached GPU
// resources, returning the mesh to its empty initial state.
// Calling Clear on an empty mesh is a no-op.
func (m *Mesh) Clear() {
	if m.res != nil {
		m.res.Release()
		m.res = nil
	}
	m.vertices = nil
	m.indices = nil
}

// Attach hands ownership of GPU resources built from the current contents
// to the mesh. Previously attached resources are released first.
func (m *Mesh) Attach(r Resources) {
	if m.res != nil && m.res != r {
		m.res.Release()
	}
	m.res = r
}

// Resources returns the attached GPU resources, or nil.
func (m *Mesh) Resources() Resources {
	return m.res
}

// Vertices returns the interleaved vertex data (Stride floats per vertex).
// The returned slice aliases the mesh storage.
func (m *Mesh) Vertices() []float32 {
	return m.vertices
}

// Indices returns the triangle index data (3 indices per triangle).
// The returned slice aliases the mesh storage.
func (m *Mesh) Indices() []uint32 {
	return m.indices
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.vertices) / Stride
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.indices) / 3
}

// IsEmpty reports whether the mesh has no triangles.
func (m *Mesh) IsEmpty() bool {
	return len(m.indices) == 0
}

// Validate checks the structural invariants of the mesh: whole vertices,
// whole triangles, and every index inside the vertex range.
func (m *Mesh) Validate() error {
	if len(m.vertices)%Stride != 0 {
		return fmt.Errorf("%w: %d floats is not a multiple of %d", ErrInvalidMesh, len(m.vertices), Stride)
	}
	if len(m.indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a multiple of 3", ErrInvalidMesh, len(m.indices))
	}
	n := uint32(m.VertexCount()) //nolint:gosec // vertex count is bounded by slice length
	for i, idx := range m.indices {
		if idx >= n {
			return fmt.Errorf("%w: index %d at position %d exceeds vertex count %d", ErrInvalidMesh, idx, i, n)
		}
	}
	return nil
}

// reset replaces the mesh contents with freshly allocated storage for
// nverts vertices and ntris triangles.
func (m *Mesh) reset(nverts, ntris int) {
	m.Clear()
	m.vertices = make([]float32, nverts*Stride)
	m.indices = make([]uint32, ntris*3)
	primer.Logger().Debug("mesh: allocated",
		"vertices", nverts,
		"triangles", ntris)
}

// setVertex writes one interleaved vertex at index i.
func (m *Mesh) setVertex(i int, px, py, pz, nx, ny, nz, s, t float32) {
	v := m.vertices[i*Stride : (i+1)*Stride : (i+1)*Stride]
	v[0], v[1], v[2] = px, py, pz
	v[3], v[4], v[5] = nx, ny, nz
	v[6], v[7] = s, t
}

// setTriangle writes the three indices of triangle i.
func (m *Mesh) setTriangle(i int, a, b, c uint32) {
	m.indices[3*i] = a
	m.indices[3*i+1] = b
	m.indices[3*i+2] = c
}
