package svgraster

import (
	"image"
	"math"
)

// Quality is a number in [MinQuality, MaxQuality].
//
// PNG is lossless, so quality is implemented as a lossy pre-quantization
// step: every channel (alpha included) of the non-premultiplied pixels
// is posterized before encoding. MaxQuality leaves the pixels untouched.
//
// Quality is snapped down to one of qualitySteps. Since PNG filtering and
// deflate do not shrink the output evenly with the number of levels,
// the encoder keeps the smallest output among the snapped step and all
// the steps above it. The encoded size is thus never smaller for a
// higher quality.
type Quality float64

const (
	MinQuality Quality = 0.1
	MaxQuality Quality = 1.0
)

// ClampQuality maps `q` into the valid range. NaN is mapped to MaxQuality.
func ClampQuality(q float64) Quality {
	switch {
	case math.IsNaN(q):
		return MaxQuality
	case q < float64(MinQuality):
		return MinQuality
	case q > float64(MaxQuality):
		return MaxQuality
	}
	return Quality(q)
}

// Levels returns the number of values kept per channel, from 2 to 256.
func (q Quality) Levels() int {
	q = ClampQuality(float64(q))
	t := float64(q-MinQuality) / float64(MaxQuality-MinQuality)
	return 2 + int(math.Round(t*254))
}

// qualitySteps are the quantizations tried by the encoder, in increasing order.
var qualitySteps = [...]Quality{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}

// stepIndex returns the index of the highest step not above `q`.
func stepIndex(q Quality) int {
	q = ClampQuality(float64(q))
	i := int(math.Floor(float64(q)*10+1e-9)) - 1
	if i < 0 {
		return 0
	}
	if i >= len(qualitySteps) {
		return len(qualitySteps) - 1
	}
	return i
}

// posterizeTable maps each 8 bit value to the nearest of `levels`
// evenly spaced values.
func posterizeTable(levels int) (table [256]uint8) {
	step := 255 / float64(levels-1)
	for v := range table {
		idx := math.Round(float64(v) / step)
		table[v] = uint8(math.Round(idx * step))
	}
	return table
}

// posterizeInto writes the quantized pixels of src into dst,
// which must have the same bounds (dst may be src).
// 256 levels or more copy the pixels unchanged.
func posterizeInto(dst, src *image.NRGBA, levels int) {
	if levels >= 256 {
		copy(dst.Pix, src.Pix)
		return
	}
	table := posterizeTable(levels)
	for i, v := range src.Pix {
		dst.Pix[i] = table[v]
	}
}
