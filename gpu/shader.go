//go:build !nogpu

package gpu

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gogpu/naga"
	"github.com/gogpu/primer"
	"github.com/gogpu/wgpu/hal"
)

// ErrShaderCompile is returned when WGSL source fails to compile.
var ErrShaderCompile = errors.New("gpu: shader compilation failed")

//go:embed shaders/mesh.wgsl
var meshShaderSource string

// DefaultShaderSource returns the built-in WGSL shader for meshes. Its
// vertex inputs match mesh.VertexLayout and its bind group matches
// NewMeshPipeline.
func DefaultShaderSource() string {
	return meshShaderSource
}

// CompileSPIRV compiles WGSL source to SPIR-V words.
func CompileSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShaderCompile, err)
	}

	// SPIR-V is a stream of little-endian 32-bit words.
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, nil
}

// Shader is a compiled shader module with vs_main and fs_main entry points.
type Shader struct {
	dev    *Device
	module hal.ShaderModule
	label  string
}

// CompileShader compiles WGSL source and creates a shader module from it.
// Compile errors are logged with label.
func (d *Device) CompileShader(label, wgsl string) (*Shader, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	code, err := CompileSPIRV(wgsl)
	if err != nil {
		primer.Logger().Error("gpu: shader compile failed", "shader", label, "error", err)
		return nil, fmt.Errorf("gpu: %s: %w", label, err)
	}
	module, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: label,
		Source: hal.ShaderSource{
			SPIRV: code,
		},
	})
	if err != nil {
		primer.Logger().Error("gpu: shader module creation failed", "shader", label, "error", err)
		return nil, fmt.Errorf("gpu: create shader module %s: %w", label, err)
	}
	primer.Logger().Debug("gpu: shader compiled", "shader", label, "words", len(code))
	return &Shader{dev: d, module: module, label: label}, nil
}

// LoadShader reads a WGSL file and compiles it.
func (d *Device) LoadShader(path string) (*Shader, error) {
	src, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		primer.Logger().Error("gpu: cannot open shader", "file", path, "error", err)
		return nil, fmt.Errorf("gpu: open shader: %w", err)
	}
	return d.CompileShader(filepath.Base(path), string(src))
}

// Module returns the HAL shader module, or nil after Release.
func (s *Shader) Module() hal.ShaderModule { return s.module }

// Label returns the label the shader was compiled with.
func (s *Shader) Label() string { return s.label }

// Release destroys the shader module. Release is idempotent.
func (s *Shader) Release() {
	if s.module == nil {
		return
	}
	if s.dev.device != nil {
		s.dev.device.DestroyShaderModule(s.module)
	}
	s.module = nil
}
