//go:build nogpu

package main

import (
	"errors"

	"github.com/gogpu/primer/mesh"
	"github.com/gogpu/primer/texture"
)

func newRenderer(useGPU bool, _ *mesh.Mesh, _ *texture.Texture) (renderer, error) {
	if useGPU {
		return nil, errors.New("built without GPU support (nogpu tag)")
	}
	return nopRenderer{}, nil
}
