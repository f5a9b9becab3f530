package ogimage

import (
	"image"
	"image/color"
	"sort"
)

// maxQuantizeSamples bounds the pixels read when building a palette.
const maxQuantizeSamples = 1 << 16

type pixel [4]uint8

// medianCut builds a palette of at most n colors by repeatedly splitting
// the sample box with the widest channel at its median.
func medianCut(img image.Image, n int) color.Palette {
	b := img.Bounds()
	step := 1
	for (b.Dx()/step)*(b.Dy()/step) > maxQuantizeSamples {
		step++
	}

	samples := make([]pixel, 0, min(b.Dx()*b.Dy(), maxQuantizeSamples))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			samples = append(samples, pixel{c.R, c.G, c.B, c.A})
		}
	}
	if len(samples) == 0 {
		return color.Palette{color.Transparent}
	}

	boxes := [][]pixel{samples}
	for len(boxes) < n {
		idx, channel, width := -1, 0, 0
		for i, box := range boxes {
			if len(box) < 2 {
				continue
			}
			if ch, w := widestChannel(box); w > width {
				idx, channel, width = i, ch, w
			}
		}
		if idx < 0 {
			break
		}

		box := boxes[idx]
		sort.Slice(box, func(i, j int) bool { return box[i][channel] < box[j][channel] })
		mid := len(box) / 2
		boxes[idx] = box[:mid]
		boxes = append(boxes, box[mid:])
	}

	palette := make(color.Palette, 0, len(boxes))
	for _, box := range boxes {
		palette = append(palette, average(box))
	}
	return palette
}

func widestChannel(box []pixel) (channel, width int) {
	lo := box[0]
	hi := box[0]
	for _, p := range box[1:] {
		for k := range p {
			lo[k] = min(lo[k], p[k])
			hi[k] = max(hi[k], p[k])
		}
	}
	for k := range lo {
		if w := int(hi[k]) - int(lo[k]); w > width {
			channel, width = k, w
		}
	}
	return channel, width
}

func average(box []pixel) color.NRGBA {
	var sum [4]int
	for _, p := range box {
		for k := range p {
			sum[k] += int(p[k])
		}
	}
	n := len(box)
	return color.NRGBA{
		R: uint8(sum[0] / n),
		G: uint8(sum[1] / n),
		B: uint8(sum[2] / n),
		A: uint8(sum[3] / n),
	}
}
