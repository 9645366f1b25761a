//go:build !nogpu

package gpu

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/primer/mesh"
	"github.com/gogpu/primer/texture"
	"github.com/gogpu/primer/tga"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice creates a Device owning a noop HAL device.
func createNoopDevice(t *testing.T) *Device {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	d, err := openInstance(instance)
	if err != nil {
		t.Fatalf("openInstance failed: %v", err)
	}
	t.Cleanup(d.Close)
	return d
}

// halProvider is a gpucontext.DeviceProvider that also exposes HAL types.
type halProvider struct {
	device hal.Device
	queue  hal.Queue
}

func (p *halProvider) Device() gpucontext.Device             { return nil }
func (p *halProvider) Queue() gpucontext.Queue               { return nil }
func (p *halProvider) Adapter() gpucontext.Adapter           { return nil }
func (p *halProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }
func (p *halProvider) AdapterInfo() gpucontext.AdapterInfo   { return gpucontext.AdapterInfo{} }
func (p *halProvider) HalDevice() any                        { return p.device }
func (p *halProvider) HalQueue() any                         { return p.queue }

// plainProvider is a gpucontext.DeviceProvider without HAL access.
type plainProvider struct{}

func (plainProvider) Device() gpucontext.Device             { return nil }
func (plainProvider) Queue() gpucontext.Queue               { return nil }
func (plainProvider) Adapter() gpucontext.Adapter           { return nil }
func (plainProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatUndefined }
func (plainProvider) AdapterInfo() gpucontext.AdapterInfo   { return gpucontext.AdapterInfo{} }

func TestNewDevice(t *testing.T) {
	owner := createNoopDevice(t)

	d, err := NewDevice(owner.HalDevice(), owner.HalQueue())
	if err != nil {
		t.Fatalf("NewDevice() = %v", err)
	}
	d.Close()
	if owner.HalDevice() == nil {
		t.Fatal("closing a borrowed device closed the owner")
	}

	if _, err := NewDevice(nil, nil); !errors.Is(err, ErrNoDevice) {
		t.Errorf("NewDevice(nil, nil) = %v, want ErrNoDevice", err)
	}
}

func TestFromProvider(t *testing.T) {
	owner := createNoopDevice(t)

	d, err := FromProvider(&halProvider{device: owner.HalDevice(), queue: owner.HalQueue()})
	if err != nil {
		t.Fatalf("FromProvider() = %v", err)
	}
	if d.HalDevice() != owner.HalDevice() {
		t.Error("FromProvider() did not use the provider's device")
	}
	if d.AdapterName() != "" {
		t.Errorf("AdapterName() = %q for a shared device", d.AdapterName())
	}

	if _, err := FromProvider(plainProvider{}); !errors.Is(err, ErrNoDevice) {
		t.Errorf("FromProvider(plain) = %v, want ErrNoDevice", err)
	}
	if _, err := FromProvider(&halProvider{}); !errors.Is(err, ErrNoDevice) {
		t.Errorf("FromProvider(nil HAL) = %v, want ErrNoDevice", err)
	}
}

func TestCloseIdempotent(t *testing.T) {
	d := createNoopDevice(t)
	d.Close()
	d.Close()
	if _, err := d.CreateIndexBuffer([]uint32{0, 1, 2}); !errors.Is(err, ErrClosed) {
		t.Errorf("CreateIndexBuffer() after Close = %v, want ErrClosed", err)
	}
}

func TestCreateVertexBuffer(t *testing.T) {
	d := createNoopDevice(t)

	b, err := d.CreateVertexBuffer(2, 2, []float32{0, 0, 1, 0, 0.5, 1})
	if err != nil {
		t.Fatalf("CreateVertexBuffer() = %v", err)
	}
	if b.Buffer() == nil || b.Count() != 3 {
		t.Errorf("buffer = %v with %d vertices, want 3", b.Buffer(), b.Count())
	}
	l := b.Layout()
	if l.ArrayStride != 8 || len(l.Attributes) != 1 {
		t.Fatalf("Layout() = %+v", l)
	}
	if a := l.Attributes[0]; a.Format != gputypes.VertexFormatFloat32x2 || a.ShaderLocation != 2 {
		t.Errorf("attribute = %+v, want Float32x2 at location 2", a)
	}
	b.Release()
	b.Release()
	if b.Buffer() != nil {
		t.Error("Buffer() not nil after Release")
	}
}

func TestCreateVertexBufferErrors(t *testing.T) {
	d := createNoopDevice(t)

	tests := []struct {
		name       string
		components int
		data       []float32
		wantErr    error
	}{
		{"zero components", 0, []float32{1}, ErrInvalidComponents},
		{"five components", 5, make([]float32, 5), ErrInvalidComponents},
		{"empty", 3, nil, ErrEmptyData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := d.CreateVertexBuffer(0, tt.components, tt.data); !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateVertexBuffer() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := d.CreateVertexBuffer(0, 3, make([]float32, 4)); err == nil {
		t.Error("CreateVertexBuffer() accepted a partial vertex")
	}
}

func TestCreateIndexBuffer(t *testing.T) {
	d := createNoopDevice(t)

	b, err := d.CreateIndexBuffer([]uint32{0, 1, 2, 2, 1, 3})
	if err != nil {
		t.Fatalf("CreateIndexBuffer() = %v", err)
	}
	if b.Count() != 6 {
		t.Errorf("Count() = %d, want 6", b.Count())
	}
	b.Release()

	if _, err := d.CreateIndexBuffer(nil); !errors.Is(err, ErrEmptyData) {
		t.Errorf("CreateIndexBuffer(nil) = %v, want ErrEmptyData", err)
	}
}

func TestUploadMesh(t *testing.T) {
	d := createNoopDevice(t)

	var m mesh.Mesh
	m.CreateSphere(1, 8)
	mb, err := d.UploadMesh(&m)
	if err != nil {
		t.Fatalf("UploadMesh() = %v", err)
	}
	if m.Resources() != mb {
		t.Error("UploadMesh() did not attach the buffers to the mesh")
	}
	if mb.IndexCount() != 3*m.TriangleCount() {
		t.Errorf("IndexCount() = %d, want %d", mb.IndexCount(), 3*m.TriangleCount())
	}
	if mb.Layout().ArrayStride != mesh.VertexSize {
		t.Errorf("Layout().ArrayStride = %d, want %d", mb.Layout().ArrayStride, mesh.VertexSize)
	}

	// Regenerating the mesh releases the uploaded buffers.
	m.CreateBox(1, 1, 1)
	if mb.VertexBuffer() != nil || mb.IndexBuffer().Buffer() != nil {
		t.Error("regeneration did not release the GPU buffers")
	}
	mb.Release()
}

func TestUploadMeshEmpty(t *testing.T) {
	d := createNoopDevice(t)

	var m mesh.Mesh
	if _, err := d.UploadMesh(&m); !errors.Is(err, ErrEmptyData) {
		t.Errorf("UploadMesh(empty) = %v, want ErrEmptyData", err)
	}
}

func TestUploadTexture(t *testing.T) {
	d := createNoopDevice(t)

	img := &tga.Image{Width: 8, Height: 4, Channels: 3, Pix: make([]byte, 8*4*3)}
	tex, err := texture.FromImage(img)
	if err != nil {
		t.Fatal(err)
	}

	gt, err := d.UploadTexture(tex)
	if err != nil {
		t.Fatalf("UploadTexture() = %v", err)
	}
	if gt.HalTexture() == nil || gt.View() == nil || gt.Sampler() == nil {
		t.Fatal("UploadTexture() left texture, view or sampler nil")
	}
	if gt.Descriptor().MipLevelCount != 4 {
		t.Errorf("MipLevelCount = %d, want 4", gt.Descriptor().MipLevelCount)
	}
	if tex.HasPixels() {
		t.Error("CPU pixels still held after upload")
	}

	if _, err := d.UploadTexture(tex); !errors.Is(err, ErrEmptyData) {
		t.Errorf("second UploadTexture() = %v, want ErrEmptyData", err)
	}

	gt.Release()
	gt.Release()
	if gt.HalTexture() != nil || gt.View() != nil || gt.Sampler() != nil {
		t.Error("resources still held after Release")
	}
}

func TestUploadTextureLevelsShrink(t *testing.T) {
	img := &tga.Image{Width: 5, Height: 3, Channels: 4, Pix: make([]byte, 5*3*4)}
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	tex, err := texture.FromImage(img)
	if err != nil {
		t.Fatal(err)
	}
	want := [][2]int{{5, 3}, {2, 1}, {1, 1}}
	if tex.MipLevelCount() != len(want) {
		t.Fatalf("MipLevelCount() = %d, want %d", tex.MipLevelCount(), len(want))
	}
	for i, w := range want {
		b := tex.Level(i).Bounds()
		if b.Dx() != w[0] || b.Dy() != w[1] {
			t.Errorf("level %d = %dx%d, want %dx%d", i, b.Dx(), b.Dy(), w[0], w[1])
		}
		if a := tex.Level(i).NRGBAAt(0, 0).A; a < 0x7e || a > 0x82 {
			t.Errorf("level %d alpha = %#x, want about 0x80", i, a)
		}
	}

	d := createNoopDevice(t)
	gt, err := d.UploadTexture(tex)
	if err != nil {
		t.Fatalf("UploadTexture() = %v", err)
	}
	gt.Release()
}

func TestUniformBuffer(t *testing.T) {
	d := createNoopDevice(t)

	u, err := d.CreateUniformBuffer(mgl32.Ident4())
	if err != nil {
		t.Fatalf("CreateUniformBuffer() = %v", err)
	}
	u.Update(mgl32.HomogRotate3DY(1))
	u.Release()
	u.Release()
	u.Update(mgl32.Ident4())
	if u.Buffer() != nil {
		t.Error("Buffer() not nil after Release")
	}
}

func TestFloat32Bytes(t *testing.T) {
	got := float32Bytes([]float32{1, -2})
	want := []byte{0x00, 0x00, 0x80, 0x3f, 0x00, 0x00, 0x00, 0xc0}
	if string(got) != string(want) {
		t.Errorf("float32Bytes() = % x, want % x", got, want)
	}
}

// compileOrSkip compiles src and skips the test on known compiler gaps.
func compileOrSkip(t *testing.T, src string) []uint32 {
	t.Helper()
	code, err := CompileSPIRV(src)
	if err != nil {
		if strings.Contains(err.Error(), "not yet implemented") || strings.Contains(err.Error(), "not supported") {
			t.Skipf("Skipping: naga feature not yet implemented: %v", err)
		}
		t.Fatalf("CompileSPIRV() = %v", err)
	}
	return code
}

func TestDefaultShaderCompiles(t *testing.T) {
	src := DefaultShaderSource()
	for _, entry := range []string{"fn vs_main", "fn fs_main", "@location(2) tex_coord"} {
		if !strings.Contains(src, entry) {
			t.Errorf("default shader missing %q", entry)
		}
	}

	code := compileOrSkip(t, src)
	if len(code) == 0 || code[0] != 0x07230203 {
		t.Fatalf("SPIR-V does not start with the magic number: %v", code[:min(1, len(code))])
	}

	d := createNoopDevice(t)
	s, err := d.CompileShader("mesh", src)
	if err != nil {
		t.Fatalf("CompileShader() = %v", err)
	}
	p, err := d.NewMeshPipeline(s, gputypes.TextureFormatBGRA8Unorm)
	if err != nil {
		t.Fatalf("NewMeshPipeline() = %v", err)
	}
	if p.Pipeline() == nil || p.BindGroupLayout() == nil {
		t.Error("pipeline or bind group layout is nil")
	}
	if p.ColorFormat() != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("ColorFormat() = %v", p.ColorFormat())
	}
	p.Release()
	p.Release()
	s.Release()
	s.Release()
}

func TestCompileShaderError(t *testing.T) {
	d := createNoopDevice(t)
	if _, err := d.CompileShader("broken", "fn vs_main( {"); !errors.Is(err, ErrShaderCompile) {
		t.Errorf("CompileShader() = %v, want ErrShaderCompile", err)
	}
}

func TestLoadShader(t *testing.T) {
	d := createNoopDevice(t)
	compileOrSkip(t, DefaultShaderSource())

	path := filepath.Join(t.TempDir(), "mesh.wgsl")
	if err := os.WriteFile(path, []byte(DefaultShaderSource()), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := d.LoadShader(path)
	if err != nil {
		t.Fatalf("LoadShader() = %v", err)
	}
	if s.Label() != "mesh.wgsl" {
		t.Errorf("Label() = %q, want mesh.wgsl", s.Label())
	}
	s.Release()

	if _, err := d.LoadShader(filepath.Join(t.TempDir(), "missing.wgsl")); err == nil {
		t.Error("LoadShader() of a missing file succeeded")
	}
}

func TestNewMeshPipelineNilShader(t *testing.T) {
	d := createNoopDevice(t)
	if _, err := d.NewMeshPipeline(nil, gputypes.TextureFormatBGRA8Unorm); err == nil {
		t.Error("NewMeshPipeline(nil) succeeded")
	}
}
