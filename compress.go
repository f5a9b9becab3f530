package ogimage

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/disintegration/imaging"
)

// Compressor re-encodes a raw screenshot into the final artifact.
type Compressor interface {
	Compress(raw []byte) ([]byte, error)
}

// PNGCompressor re-encodes PNG data at a fixed zlib level, keeping the
// input when re-encoding does not make it smaller.
//
// When MaxSize is set and the lossless result is still above it, the image
// is reduced to a palette of Colors entries with Floyd-Steinberg dithering.
type PNGCompressor struct {
	Level   png.CompressionLevel
	MaxSize int
	Colors  int
}

var _ Compressor = PNGCompressor{}

// DefaultCompressor uses the best PNG compression and falls back to a
// 256-color palette for artifacts GitHub would refuse.
var DefaultCompressor = PNGCompressor{
	Level:   png.BestCompression,
	MaxSize: MaxOutputSize,
	Colors:  defaultPaletteColors,
}

const defaultPaletteColors = 256

// Compress decodes raw and re-encodes it.
func (c PNGCompressor) Compress(raw []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding screenshot: %v", ErrCompression, err)
	}

	out, err := c.encode(img)
	if err != nil {
		return nil, err
	}
	if len(out) >= len(raw) {
		out = raw
	}
	if c.MaxSize <= 0 || len(out) <= c.MaxSize {
		return out, nil
	}

	quantized, err := c.encode(c.quantize(img))
	if err != nil {
		return nil, err
	}
	if len(quantized) < len(out) {
		return quantized, nil
	}
	return out, nil
}

func (c PNGCompressor) encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(c.Level)); err != nil {
		return nil, fmt.Errorf("%w: encoding png: %v", ErrCompression, err)
	}
	return buf.Bytes(), nil
}

// quantize maps img onto a palette built from its own pixels.
func (c PNGCompressor) quantize(img image.Image) *image.Paletted {
	n := c.Colors
	if n <= 0 || n > defaultPaletteColors {
		n = defaultPaletteColors
	}
	b := img.Bounds()
	dst := image.NewPaletted(b, medianCut(img, n))
	draw.FloydSteinberg.Draw(dst, b, img, b.Min)
	return dst
}
