// Package primer is a small rendering scaffold for an introductory
// computer graphics course.
//
// # Overview
//
// primer produces the CPU-side data a first OpenGL/WebGPU program needs and
// the thin glue that moves it to the GPU:
//
//   - mesh: procedural meshes (triangle, box, UV sphere) and OBJ import,
//     stored as interleaved position/normal/texcoord vertices plus a
//     triangle index list
//   - tga: a decoder for uncompressed 24/32-bit TGA images
//   - texture: RGBA8 texture levels with a full mipmap chain
//   - gpu: vertex/index buffers, textures and WGSL shader modules on a
//     gogpu/wgpu HAL device
//   - rotator, fps: view rotation from keyboard/mouse input and a frame
//     time readout for the window title
//
// # Quick Start
//
//	var m mesh.Mesh
//	m.CreateSphere(1.0, 16)
//
//	if err := m.ReadOBJ("trex.obj"); err != nil {
//	    // m is empty; the error names the file and line
//	}
//
//	img, err := tga.Load("trex.tga")
//
// # Failure Model
//
// Loaders never return partially built results. A failed import leaves the
// mesh empty, a failed decode returns a nil image, and both return an error
// wrapping a package sentinel. When a logger is configured with SetLogger,
// the same failure is also logged with the file name.
package primer

// Version is the current version of the library.
const Version = "0.1.0"
