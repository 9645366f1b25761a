//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/primer/mesh"
	"github.com/gogpu/wgpu/hal"
)

// UniformSize is the size of the transform uniform: one column-major 4x4
// float matrix.
const UniformSize = 64

// UniformBuffer holds the model-view-projection matrix read by the mesh
// shader.
type UniformBuffer struct {
	dev *Device
	buf hal.Buffer
}

// CreateUniformBuffer creates a uniform buffer initialized with m.
func (d *Device) CreateUniformBuffer(m mgl32.Mat4) (*UniformBuffer, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	buf, err := d.createAndUploadBuffer("transform", float32Bytes(m[:]),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	return &UniformBuffer{dev: d, buf: buf}, nil
}

// Update writes a new matrix to the buffer.
func (u *UniformBuffer) Update(m mgl32.Mat4) {
	if u.buf == nil || u.dev.queue == nil {
		return
	}
	u.dev.queue.WriteBuffer(u.buf, 0, float32Bytes(m[:]))
}

// Buffer returns the HAL buffer, or nil after Release.
func (u *UniformBuffer) Buffer() hal.Buffer { return u.buf }

// Release destroys the buffer. Release is idempotent.
func (u *UniformBuffer) Release() {
	u.buf = u.dev.destroyBuffer(u.buf)
}

// MeshPipeline is the render pipeline drawing interleaved meshes with the
// layout of mesh.VertexLayout.
//
// Bind group 0:
//   - binding 0: transform uniform (vertex)
//   - binding 1: texture (fragment)
//   - binding 2: sampler (fragment)
type MeshPipeline struct {
	dev         *Device
	bindLayout  hal.BindGroupLayout
	pipeLayout  hal.PipelineLayout
	pipeline    hal.RenderPipeline
	colorFormat gputypes.TextureFormat
}

// NewMeshPipeline creates a triangle-list pipeline for shader rendering
// into targets of the given color format.
func (d *Device) NewMeshPipeline(shader *Shader, format gputypes.TextureFormat) (*MeshPipeline, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	if shader == nil || shader.module == nil {
		return nil, fmt.Errorf("gpu: mesh pipeline: shader not compiled")
	}
	p := &MeshPipeline{dev: d, colorFormat: format}

	bindLayout, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "mesh_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create mesh bind layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "mesh_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("gpu: create mesh pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	pipeline, err := d.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "mesh_pipeline",
		Layout: pipeLayout,
		Vertex: hal.VertexState{
			Module:     shader.module,
			EntryPoint: "vs_main",
			Buffers:    []gputypes.VertexBufferLayout{mesh.VertexLayout()},
		},
		Fragment: &hal.FragmentState{
			Module:     shader.module,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("gpu: create mesh pipeline: %w", err)
	}
	p.pipeline = pipeline
	return p, nil
}

// Pipeline returns the HAL render pipeline, or nil after Release.
func (p *MeshPipeline) Pipeline() hal.RenderPipeline { return p.pipeline }

// BindGroupLayout returns the layout of bind group 0.
func (p *MeshPipeline) BindGroupLayout() hal.BindGroupLayout { return p.bindLayout }

// ColorFormat returns the color target format of the pipeline.
func (p *MeshPipeline) ColorFormat() gputypes.TextureFormat { return p.colorFormat }

// Release destroys the pipeline and its layouts. Release is idempotent.
func (p *MeshPipeline) Release() {
	dev := p.dev.device
	if dev == nil {
		p.pipeline, p.pipeLayout, p.bindLayout = nil, nil, nil
		return
	}
	if p.pipeline != nil {
		dev.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		dev.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		dev.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
}
