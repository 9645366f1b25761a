package mesh

import "github.com/gogpu/gputypes"

// Shader locations of the vertex attributes.
const (
	PositionLocation = 0
	NormalLocation   = 1
	TexCoordLocation = 2
)

// VertexSize is the size of one interleaved vertex in bytes.
const VertexSize = Stride * 4

// VertexLayout describes the interleaved vertex format for pipeline
// creation: position, normal and texture coordinate at shader locations
// 0, 1 and 2.
func VertexLayout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: VertexSize,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{
				Format:         gputypes.VertexFormatFloat32x3,
				Offset:         PositionOffset * 4,
				ShaderLocation: PositionLocation,
			},
			{
				Format:         gputypes.VertexFormatFloat32x3,
				Offset:         NormalOffset * 4,
				ShaderLocation: NormalLocation,
			},
			{
				Format:         gputypes.VertexFormatFloat32x2,
				Offset:         TexCoordOffset * 4,
				ShaderLocation: TexCoordLocation,
			},
		},
	}
}
