// Package texture prepares decoded images for upload to the GPU.
//
// A Texture holds an RGBA8 base level expanded from a 24 or 32 bits per
// pixel image and a complete mipmap chain down to 1x1. It also describes the
// GPU texture and sampler it should be uploaded as; package gpu performs the
// upload.
package texture

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/primer"
	"github.com/gogpu/primer/tga"
)

// ErrEmptyImage is returned when a texture is built from an image without
// pixel data.
var ErrEmptyImage = errors.New("texture: empty image")

// Format is the GPU pixel format of every texture level.
const Format = gputypes.TextureFormatRGBA8Unorm

// Usage is the GPU usage of uploaded textures.
const Usage = gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst

// Descriptor describes the GPU texture a Texture uploads to.
type Descriptor struct {
	Width         uint32
	Height        uint32
	MipLevelCount uint32
	Format        gputypes.TextureFormat
	Usage         gputypes.TextureUsage
}

// SamplerState describes how a texture is sampled.
type SamplerState struct {
	AddressModeU gputypes.AddressMode
	AddressModeV gputypes.AddressMode
	MagFilter    gputypes.FilterMode
	MinFilter    gputypes.FilterMode
	MipmapFilter gputypes.FilterMode
}

// Texture is a CPU-side texture with its mipmap chain.
type Texture struct {
	width, height int
	channels      int
	mipLevels     int
	levels        []*image.NRGBA // nil after ReleaseCPU
}

// FromImage builds a texture from a decoded image.
func FromImage(img *tga.Image) (*Texture, error) {
	if img.Empty() {
		return nil, ErrEmptyImage
	}
	levels := generateMipmaps(img.NRGBA())
	t := &Texture{
		width:     img.Width,
		height:    img.Height,
		channels:  img.Channels,
		mipLevels: len(levels),
		levels:    levels,
	}
	primer.Logger().Debug("texture: mipmaps generated",
		"width", t.width,
		"height", t.height,
		"levels", t.mipLevels)
	return t, nil
}

// Load decodes the TGA file at path and builds a texture from it.
func Load(path string) (*Texture, error) {
	img, err := tga.Load(path)
	if err != nil {
		return nil, err
	}
	t, err := FromImage(img)
	if err != nil {
		return nil, fmt.Errorf("texture: %s: %w", path, err)
	}
	primer.Logger().Info("texture: loaded",
		"file", path,
		"type", t.typeName(),
		"levels", t.mipLevels)
	return t, nil
}

func (t *Texture) typeName() string {
	if t.channels == 4 {
		return "RGBA"
	}
	return "RGB"
}

// Width returns the width of level 0 in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the height of level 0 in pixels.
func (t *Texture) Height() int { return t.height }

// Channels returns the channel count of the source image, 3 or 4.
func (t *Texture) Channels() int { return t.channels }

// MipLevelCount returns the number of levels in the mipmap chain.
func (t *Texture) MipLevelCount() int { return t.mipLevels }

// Level returns mipmap level n, or nil if n is out of range or the CPU
// data has been released.
func (t *Texture) Level(n int) *image.NRGBA {
	if n < 0 || n >= len(t.levels) {
		return nil
	}
	return t.levels[n]
}

// HasPixels reports whether the CPU-side pixel data is still held.
func (t *Texture) HasPixels() bool {
	return len(t.levels) > 0
}

// ReleaseCPU drops the CPU-side pixel data. Dimensions and descriptors
// remain valid.
func (t *Texture) ReleaseCPU() {
	t.levels = nil
}

// Descriptor returns the GPU texture description for the full mipmap chain.
func (t *Texture) Descriptor() Descriptor {
	return Descriptor{
		Width:         uint32(t.width),     //nolint:gosec // TGA dimensions fit in uint16
		Height:        uint32(t.height),    //nolint:gosec // TGA dimensions fit in uint16
		MipLevelCount: uint32(t.mipLevels), //nolint:gosec // at most 17 levels
		Format:        Format,
		Usage:         Usage,
	}
}

// Sampler returns the sampling state for the texture: repeat wrapping in
// both directions with linear filtering between texels and mip levels.
func (t *Texture) Sampler() SamplerState {
	return SamplerState{
		AddressModeU: gputypes.AddressModeRepeat,
		AddressModeV: gputypes.AddressModeRepeat,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	}
}
