package mesh

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestBounds(t *testing.T) {
	var m Mesh
	if _, _, ok := m.Bounds(); ok {
		t.Error("Bounds() on empty mesh reported ok")
	}

	m.CreateBox(1, 2, 3)
	lo, hi, ok := m.Bounds()
	if !ok {
		t.Fatal("Bounds() not ok for box")
	}
	if lo[0] != -1 || lo[1] != -2 || lo[2] != -3 {
		t.Errorf("min = %v, want (-1, -2, -3)", lo)
	}
	if hi[0] != 1 || hi[1] != 2 || hi[2] != 3 {
		t.Errorf("max = %v, want (1, 2, 3)", hi)
	}
}

func TestWriteInfo(t *testing.T) {
	var m Mesh
	m.CreateTriangle()

	var buf bytes.Buffer
	if err := m.WriteInfo(&buf); err != nil {
		t.Fatalf("WriteInfo() = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"vertices : 3", "triangles: 1", "xmin:    -1.00", "ymax:     1.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("WriteInfo output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteInfoEmpty(t *testing.T) {
	var m Mesh
	var buf bytes.Buffer
	if err := m.WriteInfo(&buf); err != nil {
		t.Fatalf("WriteInfo() = %v", err)
	}
	if strings.Contains(buf.String(), "xmin") {
		t.Errorf("empty mesh should not report extents:\n%s", buf.String())
	}
}

func TestWriteData(t *testing.T) {
	var m Mesh
	m.CreateTriangle()

	var buf bytes.Buffer
	if err := m.WriteData(&buf); err != nil {
		t.Fatalf("WriteData() = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "2:     0.00     1.00     0.00") {
		t.Errorf("WriteData output missing vertex 2:\n%s", out)
	}
	if !strings.Contains(out, "0: 0 1 2") {
		t.Errorf("WriteData output missing triangle 0:\n%s", out)
	}
}

func TestVertexLayout(t *testing.T) {
	l := VertexLayout()
	if l.ArrayStride != 32 {
		t.Errorf("ArrayStride = %d, want 32", l.ArrayStride)
	}
	if l.StepMode != gputypes.VertexStepModeVertex {
		t.Errorf("StepMode = %v, want vertex", l.StepMode)
	}
	want := []struct {
		format   gputypes.VertexFormat
		offset   uint64
		location uint32
	}{
		{gputypes.VertexFormatFloat32x3, 0, 0},
		{gputypes.VertexFormatFloat32x3, 12, 1},
		{gputypes.VertexFormatFloat32x2, 24, 2},
	}
	if len(l.Attributes) != len(want) {
		t.Fatalf("len(Attributes) = %d, want %d", len(l.Attributes), len(want))
	}
	for i, w := range want {
		a := l.Attributes[i]
		if a.Format != w.format || a.Offset != w.offset || a.ShaderLocation != w.location {
			t.Errorf("attribute %d = %+v, want %+v", i, a, w)
		}
	}
}
