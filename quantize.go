package isp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Quantize rescales f from [0, maxval] to [0, newmaxval], for example from
// 16-bit to 10-bit range.
//
// Scaled samples are rounded half-up to integers, so the result can be
// converted with Frame.Uint16. When maxval equals newmaxval, f is returned
// as is. Samples are not clamped: input above maxval yields output above
// newmaxval, and clipping beforehand is up to the caller.
func Quantize(f *Frame, maxval, newmaxval float64) (*Frame, error) {
	if f == nil {
		return nil, ErrEmptyFrame
	}
	if err := checkMaxval("maxval", maxval); err != nil {
		return nil, err
	}
	if err := checkMaxval("newmaxval", newmaxval); err != nil {
		return nil, err
	}
	if maxval == newmaxval {
		return f, nil
	}
	if err := checkFinite(f.Pix); err != nil {
		return nil, err
	}

	scale := newmaxval / maxval
	out := f.withPix(make([]float64, len(f.Pix)))
	parallelFor(len(f.Pix), func(start, end int) {
		dst := out.Pix[start:end]
		floats.ScaleTo(dst, scale, f.Pix[start:end])
		roundHalfUp(dst)
	})
	return out, nil
}

// BitDepthMax returns the largest sample value of the given bit depth,
// e.g. 1023 for 10 bits.
func BitDepthMax(bits int) (float64, error) {
	if bits < 1 || bits > maxBitDepth {
		return 0, fmt.Errorf("%w: bit depth %d (want 1..%d)", ErrInvalidRange, bits, maxBitDepth)
	}
	return float64(uint32(1)<<bits - 1), nil
}

// roundHalfUp rounds non-negative samples to the nearest integer, halves up.
func roundHalfUp(pix []float64) {
	floats.AddConst(0.5, pix)
	for i, v := range pix {
		pix[i] = math.Floor(v)
	}
}
