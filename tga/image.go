package tga

import "image"

// Image is a decoded true-color picture.
//
// Pix holds Width*Height*Channels bytes in RGB or RGBA order, row-major,
// rows in the order they appear in the file.
type Image struct {
	Width    int
	Height   int
	Channels int // 3 or 4
	Pix      []byte
}

// Empty reports whether the image holds no usable pixel data.
// A nil image is empty.
func (m *Image) Empty() bool {
	return m == nil || m.Width <= 0 || m.Height <= 0 ||
		(m.Channels != 3 && m.Channels != 4) ||
		len(m.Pix) != m.Width*m.Height*m.Channels
}

// HasAlpha reports whether the image carries an alpha channel.
func (m *Image) HasAlpha() bool {
	return m != nil && m.Channels == 4
}

// Stride returns the number of bytes per pixel row.
func (m *Image) Stride() int {
	return m.Width * m.Channels
}

// NRGBA converts the image to a standard library image. Three-channel
// images get an opaque alpha channel. Returns nil for an empty image.
func (m *Image) NRGBA() *image.NRGBA {
	if m.Empty() {
		return nil
	}
	dst := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	if m.Channels == 4 {
		copy(dst.Pix, m.Pix)
		return dst
	}
	for i, j := 0, 0; i < len(m.Pix); i, j = i+3, j+4 {
		dst.Pix[j] = m.Pix[i]
		dst.Pix[j+1] = m.Pix[i+1]
		dst.Pix[j+2] = m.Pix[i+2]
		dst.Pix[j+3] = 0xff
	}
	return dst
}
