package texture

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// MipLevelCount returns the number of levels in a full mipmap chain for a
// width x height image: one for the base level plus one per halving of the
// larger dimension until it reaches 1 pixel.
func MipLevelCount(width, height int) int {
	maxDim := max(width, height)
	if maxDim <= 0 {
		return 0
	}
	return 1 + int(math.Floor(math.Log2(float64(maxDim))))
}

// generateMipmaps builds the mipmap chain for base. base becomes level 0 and
// is not copied. Each following level is half the size of the previous one
// (rounded down, at least 1 pixel) and is filtered from it bilinearly.
func generateMipmaps(base *image.NRGBA) []*image.NRGBA {
	b := base.Bounds()
	n := MipLevelCount(b.Dx(), b.Dy())
	levels := make([]*image.NRGBA, n)
	levels[0] = base
	for i := 1; i < n; i++ {
		levels[i] = downsample(levels[i-1])
	}
	return levels
}

// downsample returns a half-size copy of src.
func downsample(src *image.NRGBA) *image.NRGBA {
	sb := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, max(1, sb.Dx()/2), max(1, sb.Dy()/2)))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, sb, xdraw.Src, nil)
	return dst
}
