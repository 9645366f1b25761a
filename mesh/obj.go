package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gogpu/primer"
)

// objCounts holds the number of elements of each kind in an OBJ file.
type objCounts struct {
	positions int
	normals   int
	texcoords int
	faces     int
}

// objParser accumulates OBJ elements during the second pass.
type objParser struct {
	positions []float32 // 3 per element
	normals   []float32 // 3 per element
	texcoords []float32 // 2 per element
	faces     int
}

// ReadOBJ replaces the mesh with the triangles of a Wavefront OBJ file.
//
// Only positions (v), normals (vn), texture coordinates (vt) and triangular
// faces in v/t/n form (f) are read; every other line is ignored. Each face
// becomes three unshared vertices. Quads and larger polygons are rejected.
//
// On any failure the mesh is left empty, the failure is logged, and the
// returned error names the file and line.
func (m *Mesh) ReadOBJ(path string) error {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		m.Clear()
		err = fmt.Errorf("mesh: open %s: %w", path, err)
		primer.Logger().Error("mesh: model file not found", "file", path, "error", err)
		return err
	}
	defer func() { _ = f.Close() }()

	return m.DecodeOBJ(f, path)
}

// DecodeOBJ is like ReadOBJ but reads from r. name is only used in errors
// and log messages. r is read twice: once to count elements, once to parse
// them into pre-sized storage.
func (m *Mesh) DecodeOBJ(r io.ReadSeeker, name string) error {
	m.Clear()

	counts, err := countOBJ(r)
	if err != nil {
		return m.objFailure(name, 0, err)
	}
	primer.Logger().Info("mesh: loading OBJ",
		"file", name,
		"vertices", counts.positions,
		"normals", counts.normals,
		"texcoords", counts.texcoords,
		"faces", counts.faces)

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return m.objFailure(name, 0, fmt.Errorf("rewind: %w", err))
	}

	p := &objParser{
		positions: make([]float32, 0, 3*counts.positions),
		normals:   make([]float32, 0, 3*counts.normals),
		texcoords: make([]float32, 0, 2*counts.texcoords),
	}
	m.vertices = make([]float32, 3*Stride*counts.faces)
	m.indices = make([]uint32, 3*counts.faces)

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if err := m.parseOBJLine(p, fields, counts.faces); err != nil {
			return m.objFailure(name, line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return m.objFailure(name, line, err)
	}
	if p.faces != counts.faces {
		return m.objFailure(name, line, fmt.Errorf("%w: counted %d faces, read %d", ErrMalformedRecord, counts.faces, p.faces))
	}
	return nil
}

// objFailure clears the partially built mesh, logs the failure and returns
// it wrapped with its location.
func (m *Mesh) objFailure(name string, line int, err error) error {
	m.Clear()
	primer.Logger().Error("mesh: OBJ read error, no mesh data generated",
		"file", name,
		"line", line,
		"error", err)
	if line > 0 {
		return fmt.Errorf("mesh: %s:%d: %w", name, line, err)
	}
	return fmt.Errorf("mesh: %s: %w", name, err)
}

// countOBJ scans r and counts the lines of each recognized tag.
func countOBJ(r io.Reader) (objCounts, error) {
	var c objCounts
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			c.positions++
		case "vn":
			c.normals++
		case "vt":
			c.texcoords++
		case "f":
			c.faces++
		}
	}
	return c, sc.Err()
}

// parseOBJLine parses one tokenized line into p, writing face vertices
// straight into the mesh.
func (m *Mesh) parseOBJLine(p *objParser, fields []string, maxFaces int) error {
	switch fields[0] {
	case "v":
		vals, err := parseFloats(fields, 3)
		if err != nil {
			return fmt.Errorf("vertex %d: %w", len(p.positions)/3+1, err)
		}
		p.positions = append(p.positions, vals...)
	case "vn":
		vals, err := parseFloats(fields, 3)
		if err != nil {
			return fmt.Errorf("normal %d: %w", len(p.normals)/3+1, err)
		}
		p.normals = append(p.normals, vals...)
	case "vt":
		vals, err := parseFloats(fields, 2)
		if err != nil {
			return fmt.Errorf("texcoord %d: %w", len(p.texcoords)/2+1, err)
		}
		p.texcoords = append(p.texcoords, vals...)
	case "f":
		if p.faces >= maxFaces {
			return fmt.Errorf("%w: more faces than counted", ErrMalformedRecord)
		}
		if err := m.parseFace(p, fields[1:]); err != nil {
			return fmt.Errorf("face %d: %w", p.faces+1, err)
		}
		p.faces++
	}
	return nil
}

// parseFloats parses the first n values after the tag. Extra trailing
// values (such as the optional w of a position) are ignored.
func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields)-1 < n {
		return nil, fmt.Errorf("%w: want %d values, got %d", ErrMalformedRecord, n, len(fields)-1)
	}
	out := make([]float32, n)
	for i := range n {
		f, err := strconv.ParseFloat(fields[i+1], 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrMalformedRecord, fields[i+1])
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseFace resolves the three v/t/n corners of a face and writes them as
// three new vertices and one triangle.
func (m *Mesh) parseFace(p *objParser, corners []string) error {
	switch {
	case len(corners) > 3:
		return fmt.Errorf("%w: %d corners, only triangles are supported", ErrUnsupportedFace, len(corners))
	case len(corners) < 3:
		return fmt.Errorf("%w: want 3 corners, got %d", ErrMalformedRecord, len(corners))
	}

	nv, nt, nn := len(p.positions)/3, len(p.texcoords)/2, len(p.normals)/3
	base := 3 * p.faces
	for k, corner := range corners {
		parts := strings.Split(corner, "/")
		if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
			return fmt.Errorf("%w: corner %q is not in v/t/n form", ErrUnsupportedFace, corner)
		}
		vi, err := objIndex(parts[0], nv)
		if err != nil {
			return fmt.Errorf("corner %d vertex: %w", k+1, err)
		}
		ti, err := objIndex(parts[1], nt)
		if err != nil {
			return fmt.Errorf("corner %d texcoord: %w", k+1, err)
		}
		ni, err := objIndex(parts[2], nn)
		if err != nil {
			return fmt.Errorf("corner %d normal: %w", k+1, err)
		}

		pos := p.positions[3*vi : 3*vi+3]
		nrm := p.normals[3*ni : 3*ni+3]
		tex := p.texcoords[2*ti : 2*ti+2]
		m.setVertex(base+k, pos[0], pos[1], pos[2], nrm[0], nrm[1], nrm[2], tex[0], tex[1])
	}

	b := uint32(base) //nolint:gosec // bounded by the counted face total
	m.setTriangle(p.faces, b, b+1, b+2)
	return nil
}

// objIndex converts a 1-based OBJ reference into a 0-based index into a list
// that currently holds n elements.
func objIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an index", ErrMalformedRecord, s)
	}
	if i < 1 || i > n {
		return 0, fmt.Errorf("%w: index %d out of range 1..%d", ErrMalformedRecord, i, n)
	}
	return i - 1, nil
}
