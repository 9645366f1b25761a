//go:build !nogpu

package main

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/primer/gpu"
	"github.com/gogpu/primer/mesh"
	"github.com/gogpu/primer/texture"

	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// gpuRenderer owns the device and every resource uploaded to it.
type gpuRenderer struct {
	dev      *gpu.Device
	mesh     *mesh.Mesh
	tex      *gpu.Texture
	shader   *gpu.Shader
	pipeline *gpu.MeshPipeline
	uniform  *gpu.UniformBuffer
}

func newRenderer(useGPU bool, m *mesh.Mesh, tex *texture.Texture) (renderer, error) {
	if !useGPU {
		return nopRenderer{}, nil
	}
	dev, err := gpu.Open(gputypes.BackendVulkan)
	if err != nil {
		return nil, err
	}
	r := &gpuRenderer{dev: dev, mesh: m}
	if err := r.init(tex); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

func (r *gpuRenderer) init(tex *texture.Texture) error {
	if _, err := r.dev.UploadMesh(r.mesh); err != nil {
		return err
	}
	if tex != nil {
		gt, err := r.dev.UploadTexture(tex)
		if err != nil {
			return err
		}
		r.tex = gt
	}

	shader, err := r.dev.CompileShader("mesh", gpu.DefaultShaderSource())
	if err != nil {
		return err
	}
	r.shader = shader

	pipeline, err := r.dev.NewMeshPipeline(shader, gputypes.TextureFormatBGRA8Unorm)
	if err != nil {
		return err
	}
	r.pipeline = pipeline

	uniform, err := r.dev.CreateUniformBuffer(mgl32.Ident4())
	if err != nil {
		return err
	}
	r.uniform = uniform
	return nil
}

func (r *gpuRenderer) SetTransform(m mgl32.Mat4) {
	r.uniform.Update(m)
}

func (r *gpuRenderer) Close() {
	// Clearing the mesh releases its attached buffers.
	r.mesh.Clear()
	if r.uniform != nil {
		r.uniform.Release()
	}
	if r.pipeline != nil {
		r.pipeline.Release()
	}
	if r.shader != nil {
		r.shader.Release()
	}
	if r.tex != nil {
		r.tex.Release()
	}
	r.dev.Close()
}
