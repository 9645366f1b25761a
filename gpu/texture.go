//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/primer"
	"github.com/gogpu/primer/texture"
	"github.com/gogpu/wgpu/hal"
)

// Texture is an uploaded texture with its view and sampler.
type Texture struct {
	dev     *Device
	tex     hal.Texture
	view    hal.TextureView
	sampler hal.Sampler
	desc    texture.Descriptor
}

// UploadTexture creates a GPU texture with the full mipmap chain of t,
// writes every level, and creates a view and a sampler for it. The CPU
// copy of t is released on success.
func (d *Device) UploadTexture(t *texture.Texture) (*Texture, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	if !t.HasPixels() {
		return nil, fmt.Errorf("%w: texture has no pixel data", ErrEmptyData)
	}

	desc := t.Descriptor()
	gt := &Texture{dev: d, desc: desc}

	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "primer_texture",
		Size:          hal.Extent3D{Width: desc.Width, Height: desc.Height, DepthOrArrayLayers: 1},
		MipLevelCount: desc.MipLevelCount,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         desc.Usage,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create texture: %w", err)
	}
	gt.tex = tex

	for level := range t.MipLevelCount() {
		img := t.Level(level)
		b := img.Bounds()
		w := uint32(b.Dx()) //nolint:gosec // texture dimensions fit uint32
		h := uint32(b.Dy()) //nolint:gosec // texture dimensions fit uint32
		d.queue.WriteTexture(
			&hal.ImageCopyTexture{
				Texture:  tex,
				MipLevel: uint32(level), //nolint:gosec // at most 17 levels
			},
			img.Pix,
			&hal.ImageDataLayout{
				Offset:       0,
				BytesPerRow:  uint32(img.Stride), //nolint:gosec // stride fits uint32
				RowsPerImage: h,
			},
			&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		)
	}

	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "primer_texture_view",
		Format:        desc.Format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: desc.MipLevelCount,
	})
	if err != nil {
		gt.Release()
		return nil, fmt.Errorf("gpu: create texture view: %w", err)
	}
	gt.view = view

	s := t.Sampler()
	sampler, err := d.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "primer_sampler",
		AddressModeU: s.AddressModeU,
		AddressModeV: s.AddressModeV,
		AddressModeW: s.AddressModeV,
		MagFilter:    s.MagFilter,
		MinFilter:    s.MinFilter,
		MipmapFilter: s.MipmapFilter,
	})
	if err != nil {
		gt.Release()
		return nil, fmt.Errorf("gpu: create sampler: %w", err)
	}
	gt.sampler = sampler

	t.ReleaseCPU()
	primer.Logger().Debug("gpu: texture uploaded",
		"width", desc.Width,
		"height", desc.Height,
		"levels", desc.MipLevelCount)
	return gt, nil
}

// Descriptor returns the description the texture was created with.
func (t *Texture) Descriptor() texture.Descriptor { return t.desc }

// HalTexture returns the HAL texture, or nil after Release.
func (t *Texture) HalTexture() hal.Texture { return t.tex }

// View returns the texture view covering all mip levels, or nil after
// Release.
func (t *Texture) View() hal.TextureView { return t.view }

// Sampler returns the sampler, or nil after Release.
func (t *Texture) Sampler() hal.Sampler { return t.sampler }

// Release destroys the sampler, view and texture. Release is idempotent.
func (t *Texture) Release() {
	dev := t.dev.device
	if dev == nil {
		if t.tex != nil {
			primer.Logger().Warn("gpu: texture released after device close")
		}
		t.sampler, t.view, t.tex = nil, nil, nil
		return
	}
	if t.sampler != nil {
		dev.DestroySampler(t.sampler)
		t.sampler = nil
	}
	if t.view != nil {
		dev.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		dev.DestroyTexture(t.tex)
		t.tex = nil
	}
}
