package mesh

import "math"

// triangleVertices is the single demo triangle: three corners in the z=0
// plane facing +z.
var triangleVertices = [3 * Stride]float32{
	-1, -1, 0, 0, 0, 1, 0, 0,
	1, -1, 0, 0, 0, 1, 1, 0,
	0, 1, 0, 0, 0, 1, 0.5, 1,
}

// boxIndices triangulates the eight box corners, two triangles per face.
// The corners are shared between faces, so the box has one normal per
// corner rather than one per face.
var boxIndices = [36]uint32{
	0, 3, 1, 0, 2, 3,
	1, 4, 0, 1, 5, 4,
	4, 2, 0, 4, 6, 2,
	1, 3, 7, 1, 7, 5,
	7, 2, 6, 7, 3, 2,
	4, 5, 7, 4, 7, 6,
}

// CreateTriangle replaces the mesh with a single triangle.
func (m *Mesh) CreateTriangle() {
	m.reset(3, 1)
	copy(m.vertices, triangleVertices[:])
	m.setTriangle(0, 0, 1, 2)
}

// CreateBox replaces the mesh with an axis-aligned box centered on the
// origin. x, y and z are the half-extents along each axis.
//
// The box has 8 vertices and 12 triangles. Every vertex carries the normal
// (0, 0, 1) and texture coordinate (0, 0); splitting the corners into 24
// per-face vertices would be needed for correct shading.
func (m *Mesh) CreateBox(x, y, z float32) {
	m.reset(8, 12)
	for i := range 8 {
		px, py, pz := -x, -y, -z
		if i&1 != 0 {
			px = x
		}
		if i&2 != 0 {
			py = y
		}
		if i&4 != 0 {
			pz = z
		}
		m.setVertex(i, px, py, pz, 0, 0, 1, 0, 0)
	}
	copy(m.indices, boxIndices[:])
}

// SphereCounts returns the vertex and triangle counts CreateSphere produces
// for the given number of segments.
func SphereCounts(segments int) (vertices, triangles int) {
	vsegs := max(segments, 2)
	hsegs := 2 * vsegs
	vertices = 1 + (vsegs-1)*(hsegs+1) + 1        // top + rings + bottom
	triangles = hsegs + (vsegs-2)*hsegs*2 + hsegs // top + middle + bottom
	return vertices, triangles
}

// CreateSphere replaces the mesh with a UV sphere of the given radius
// centered on the origin, with +z as the polar axis.
//
// segments is the number of latitude bands and is clamped to at least 2;
// there are twice as many longitude segments. Each latitude ring repeats
// its first vertex at longitude 2π so the texture seam gets s=1.
func (m *Mesh) CreateSphere(radius float32, segments int) {
	vsegs := max(segments, 2)
	hsegs := 2 * vsegs
	nverts, ntris := SphereCounts(segments)
	m.reset(nverts, ntris)

	m.setVertex(0, 0, 0, radius, 0, 0, 1, 0.5, 1)
	m.setVertex(nverts-1, 0, 0, -radius, 0, 0, -1, 0.5, 0)

	for j := range vsegs - 1 {
		theta := float64(j+1) / float64(vsegs) * math.Pi
		z := float32(math.Cos(theta))
		r := float32(math.Sin(theta))
		t := 1 - float32(j+1)/float32(vsegs)

		for i := 0; i <= hsegs; i++ {
			phi := float64(i) / float64(hsegs) * 2 * math.Pi
			x := r * float32(math.Cos(phi))
			y := r * float32(math.Sin(phi))
			s := float32(i) / float32(hsegs)
			m.setVertex(1+j*(hsegs+1)+i, radius*x, radius*y, radius*z, x, y, z, s, t)
		}
	}

	hs := uint32(hsegs) //nolint:gosec // segment counts are small

	// Top cap fans out from the north pole.
	for i := range hs {
		m.setTriangle(int(i), 0, 1+i, 2+i)
	}

	// Middle bands, two triangles per quad. Empty when vsegs is 2.
	for j := range vsegs - 2 {
		for i := range hsegs {
			tri := hsegs + 2*(j*hsegs+i)
			i0 := uint32(1 + j*(hsegs+1) + i) //nolint:gosec // bounded by vertex count
			m.setTriangle(tri, i0, i0+hs+1, i0+1)
			m.setTriangle(tri+1, i0+1, i0+hs+1, i0+hs+2)
		}
	}

	// Bottom cap fans out from the south pole.
	last := uint32(nverts - 1) //nolint:gosec // bounded by vertex count
	base := hsegs + 2*(vsegs-2)*hsegs
	for i := range hs {
		m.setTriangle(base+int(i), last, last-1-i, last-2-i)
	}
}
