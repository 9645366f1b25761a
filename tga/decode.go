// Package tga decodes uncompressed true-color TGA images.
//
// Only the 24 and 32 bits per pixel uncompressed variant is supported. The
// decoder converts the on-disk BGR(A) channel order to RGB(A) and keeps the
// row order of the file. Importing the package registers the format with the
// standard image package, so image.Decode recognizes TGA files.
package tga

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/gogpu/primer"
)

// Decoding errors.
var (
	// ErrMalformedHeader is returned when the header cannot be read in full.
	ErrMalformedHeader = errors.New("tga: malformed header")

	// ErrUnsupportedFormat is returned for headers that are not an
	// uncompressed or run-length encoded true-color image.
	ErrUnsupportedFormat = errors.New("tga: unsupported format")

	// ErrCompressed is returned for run-length encoded images.
	ErrCompressed = errors.New("tga: compressed images are not supported")

	// ErrInvalidDimensions is returned when width or height is zero.
	ErrInvalidDimensions = errors.New("tga: invalid dimensions")

	// ErrUnsupportedDepth is returned for bit depths other than 24 and 32.
	ErrUnsupportedDepth = errors.New("tga: unsupported bit depth")

	// ErrTruncated is returned when the pixel data ends early.
	ErrTruncated = errors.New("tga: truncated pixel data")
)

const (
	signatureSize  = 12
	descriptorSize = 6
)

var (
	uncompressedSignature = [signatureSize]byte{0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	compressedSignature   = [signatureSize]byte{0, 0, 10, 0, 0, 0, 0, 0, 0, 0, 0, 0}
)

func init() {
	image.RegisterFormat("tga", string(uncompressedSignature[:]), decodeImage, DecodeConfig)
}

// header is the parsed image descriptor.
type header struct {
	width, height int
	bpp           int
}

func (h header) channels() int { return h.bpp / 8 }

func (h header) size() int { return h.width * h.height * h.channels() }

func readHeader(r io.Reader) (header, error) {
	var sig [signatureSize]byte
	if _, err := io.ReadFull(r, sig[:]); err != nil {
		return header{}, fmt.Errorf("%w: signature: %w", ErrMalformedHeader, err)
	}
	switch sig {
	case uncompressedSignature:
	case compressedSignature:
		return header{}, ErrCompressed
	default:
		return header{}, fmt.Errorf("%w: image type %d", ErrUnsupportedFormat, sig[2])
	}

	var desc [descriptorSize]byte
	if _, err := io.ReadFull(r, desc[:]); err != nil {
		return header{}, fmt.Errorf("%w: descriptor: %w", ErrMalformedHeader, err)
	}
	h := header{
		width:  int(binary.LittleEndian.Uint16(desc[0:2])),
		height: int(binary.LittleEndian.Uint16(desc[2:4])),
		bpp:    int(desc[4]),
	}
	if h.width == 0 || h.height == 0 {
		return header{}, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, h.width, h.height)
	}
	if h.bpp != 24 && h.bpp != 32 {
		return header{}, fmt.Errorf("%w: %d", ErrUnsupportedDepth, h.bpp)
	}
	return h, nil
}

// Decode reads an uncompressed 24 or 32 bits per pixel TGA image from r.
// On failure the returned image is nil.
func Decode(r io.Reader) (*Image, error) {
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	// Read through a limited reader so a truncated file with a large
	// header does not allocate the full declared size up front.
	size := h.size()
	pix, err := io.ReadAll(io.LimitReader(r, int64(size)))
	if err != nil {
		return nil, fmt.Errorf("tga: read pixels: %w", err)
	}
	if len(pix) != size {
		return nil, fmt.Errorf("%w: got %d of %d bytes", ErrTruncated, len(pix), size)
	}

	bgrToRGB(pix, h.channels())
	return &Image{
		Width:    h.width,
		Height:   h.height,
		Channels: h.channels(),
		Pix:      pix,
	}, nil
}

// DecodeConfig returns the dimensions and color model of a TGA image
// without reading the pixel data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	h, err := readHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      h.width,
		Height:     h.height,
	}, nil
}

func decodeImage(r io.Reader) (image.Image, error) {
	img, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return img.NRGBA(), nil
}

// Load reads and decodes the TGA file at path. Failures are logged with
// the file name.
func Load(path string) (*Image, error) {
	log := primer.Logger()

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		log.Error("tga: cannot open file", "file", path, "error", err)
		return nil, fmt.Errorf("tga: open %s: %w", path, err)
	}

	img, err := Decode(bytes.NewReader(data))
	if err != nil {
		log.Error("tga: decode failed", "file", path, "error", err)
		return nil, fmt.Errorf("tga: %s: %w", path, err)
	}

	log.Info("tga: loaded",
		"file", path,
		"width", img.Width,
		"height", img.Height,
		"channels", img.Channels)
	return img, nil
}

// bgrToRGB swaps the first and third byte of every pixel in place.
func bgrToRGB(pix []byte, channels int) {
	for i := 0; i+2 < len(pix); i += channels {
		pix[i], pix[i+2] = pix[i+2], pix[i]
	}
}
