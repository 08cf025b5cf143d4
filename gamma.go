package isp

import "fmt"

// ApplyGamma encodes linear samples in [0, maxval] with the given transfer
// curve, boosting especially the near-zero values. The result is scaled back
// to [0, maxval] and returned as a new frame.
//
// TransferNone returns f unchanged. Modes outside the supported set fail with
// ErrInvalidMode. Negative samples take the linear segment of the curve; the
// base of the power segment is clamped at zero, so no sample produces NaN.
func ApplyGamma(f *Frame, maxval float64, mode TransferMode) (*Frame, error) {
	return applyTransfer(f, maxval, mode, false, false)
}

// ApplyDegamma decodes gamma-encoded samples in [0, maxval] back to linear
// values. It is the inverse of ApplyGamma for the same maxval and mode.
func ApplyDegamma(f *Frame, maxval float64, mode TransferMode) (*Frame, error) {
	return applyTransfer(f, maxval, mode, true, false)
}

// ApplyGammaInPlace is ApplyGamma that overwrites f.Pix.
func ApplyGammaInPlace(f *Frame, maxval float64, mode TransferMode) error {
	_, err := applyTransfer(f, maxval, mode, false, true)
	return err
}

// ApplyDegammaInPlace is ApplyDegamma that overwrites f.Pix.
func ApplyDegammaInPlace(f *Frame, maxval float64, mode TransferMode) error {
	_, err := applyTransfer(f, maxval, mode, true, true)
	return err
}

func curveFor(mode TransferMode, inverse bool) (curve, error) {
	switch mode {
	case TransferSRGB:
		if inverse {
			return srgbDecode, nil
		}
		return srgbEncode, nil
	case TransferRec709:
		if inverse {
			return rec709Decode, nil
		}
		return rec709Encode, nil
	default:
		return curve{}, fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}
}

func applyTransfer(f *Frame, maxval float64, mode TransferMode, inverse, inPlace bool) (*Frame, error) {
	if f == nil {
		return nil, ErrEmptyFrame
	}
	if !mode.valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}
	if mode == TransferNone {
		return f, nil
	}
	if err := checkMaxval("maxval", maxval); err != nil {
		return nil, err
	}
	if err := checkFinite(f.Pix); err != nil {
		return nil, err
	}
	c, err := curveFor(mode, inverse)
	if err != nil {
		return nil, err
	}

	out := f
	if !inPlace {
		out = f.withPix(make([]float64, len(f.Pix)))
	}
	parallelFor(len(f.Pix), func(start, end int) {
		c.apply(out.Pix[start:end], f.Pix[start:end], maxval)
	})
	return out, nil
}
