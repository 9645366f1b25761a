// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/primer"
	"github.com/gogpu/primer/mesh"
	"github.com/gogpu/wgpu/hal"
)

var float32Formats = [...]gputypes.VertexFormat{
	1: gputypes.VertexFormatFloat32,
	2: gputypes.VertexFormatFloat32x2,
	3: gputypes.VertexFormatFloat32x3,
	4: gputypes.VertexFormatFloat32x4,
}

// AttributeBuffer is a vertex buffer holding one tightly packed float
// attribute.
type AttributeBuffer struct {
	dev        *Device
	buf        hal.Buffer
	slot       int
	components int
	count      int
}

// CreateVertexBuffer uploads data as a single vertex attribute with the
// given shader location and components floats per vertex.
func (d *Device) CreateVertexBuffer(slot, components int, data []float32) (*AttributeBuffer, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	if components < 1 || components > 4 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidComponents, components)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: vertex attribute %d", ErrEmptyData, slot)
	}
	if len(data)%components != 0 {
		return nil, fmt.Errorf("gpu: %d floats is not a multiple of %d components", len(data), components)
	}

	buf, err := d.createAndUploadBuffer(fmt.Sprintf("attribute_%d", slot), float32Bytes(data),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	return &AttributeBuffer{
		dev:        d,
		buf:        buf,
		slot:       slot,
		components: components,
		count:      len(data) / components,
	}, nil
}

// Buffer returns the HAL buffer, or nil after Release.
func (b *AttributeBuffer) Buffer() hal.Buffer { return b.buf }

// Count returns the number of vertices in the buffer.
func (b *AttributeBuffer) Count() int { return b.count }

// Layout returns the vertex buffer layout binding the buffer to its shader
// location.
func (b *AttributeBuffer) Layout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: uint64(b.components * 4), //nolint:gosec // components is 1..4
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{
				Format:         float32Formats[b.components],
				Offset:         0,
				ShaderLocation: uint32(b.slot), //nolint:gosec // shader locations are small
			},
		},
	}
}

// Release destroys the buffer. Release is idempotent.
func (b *AttributeBuffer) Release() {
	b.buf = b.dev.destroyBuffer(b.buf)
}

// IndexBuffer is a buffer of 32-bit triangle indices.
type IndexBuffer struct {
	dev   *Device
	buf   hal.Buffer
	count int
}

// CreateIndexBuffer uploads a flat list of triangle indices.
func (d *Device) CreateIndexBuffer(indices []uint32) (*IndexBuffer, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("%w: index buffer", ErrEmptyData)
	}

	data := make([]byte, 4*len(indices))
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(data[4*i:], idx)
	}
	buf, err := d.createAndUploadBuffer("indices", data,
		gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	return &IndexBuffer{dev: d, buf: buf, count: len(indices)}, nil
}

// Buffer returns the HAL buffer, or nil after Release.
func (b *IndexBuffer) Buffer() hal.Buffer { return b.buf }

// Count returns the number of indices.
func (b *IndexBuffer) Count() int { return b.count }

// Release destroys the buffer. Release is idempotent.
func (b *IndexBuffer) Release() {
	b.buf = b.dev.destroyBuffer(b.buf)
}

// MeshBuffers holds the GPU copy of a mesh: one interleaved vertex buffer
// and one index buffer.
type MeshBuffers struct {
	dev      *Device
	vertices hal.Buffer
	indices  *IndexBuffer
}

// UploadMesh uploads the vertex and index data of m and attaches the
// buffers to it, so they are released when m is cleared or regenerated.
func (d *Device) UploadMesh(m *mesh.Mesh) (*MeshBuffers, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	if m.IsEmpty() {
		return nil, fmt.Errorf("%w: mesh has no triangles", ErrEmptyData)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	vbuf, err := d.createAndUploadBuffer("mesh_vertices", float32Bytes(m.Vertices()),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	ibuf, err := d.CreateIndexBuffer(m.Indices())
	if err != nil {
		d.device.DestroyBuffer(vbuf)
		return nil, err
	}

	mb := &MeshBuffers{dev: d, vertices: vbuf, indices: ibuf}
	m.Attach(mb)
	primer.Logger().Debug("gpu: mesh uploaded",
		"vertices", m.VertexCount(),
		"triangles", m.TriangleCount())
	return mb, nil
}

// VertexBuffer returns the interleaved vertex buffer, or nil after Release.
func (mb *MeshBuffers) VertexBuffer() hal.Buffer { return mb.vertices }

// IndexBuffer returns the index buffer.
func (mb *MeshBuffers) IndexBuffer() *IndexBuffer { return mb.indices }

// IndexCount returns the number of indices to draw.
func (mb *MeshBuffers) IndexCount() int { return mb.indices.count }

// Layout returns the vertex buffer layout of the interleaved vertices.
func (mb *MeshBuffers) Layout() gputypes.VertexBufferLayout { return mesh.VertexLayout() }

// Release destroys both buffers. Release is idempotent.
func (mb *MeshBuffers) Release() {
	mb.vertices = mb.dev.destroyBuffer(mb.vertices)
	mb.indices.Release()
}

// createAndUploadBuffer creates a GPU buffer and uploads data.
func (d *Device) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create %s: %w", label, err)
	}
	d.queue.WriteBuffer(buf, 0, data)
	primer.Logger().Debug("gpu: buffer uploaded", "label", label, "bytes", len(data))
	return buf, nil
}

// destroyBuffer destroys buf if it is still live and returns nil so callers
// can clear their handle in one step.
func (d *Device) destroyBuffer(buf hal.Buffer) hal.Buffer {
	if buf == nil {
		return nil
	}
	if d.device == nil {
		primer.Logger().Warn("gpu: buffer released after device close")
		return nil
	}
	d.device.DestroyBuffer(buf)
	return nil
}

func float32Bytes(v []float32) []byte {
	data := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(data[4*i:], math.Float32bits(f))
	}
	return data
}
