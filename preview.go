package isp

import (
	"fmt"
	"image"

	"github.com/nfnt/resize"
)

// Downscale resamples a 2-D frame to width x height for level statistics on
// large frames. A zero width or height preserves the aspect ratio.
//
// Resampling works on 16-bit words: samples are rounded and clamped to
// [0, 65535] first, which is exact for raw sensor data.
func Downscale(f *Frame, width, height uint, interp Interpolation) (*Frame, error) {
	if f == nil {
		return nil, ErrEmptyFrame
	}
	if width == 0 && height == 0 {
		return nil, fmt.Errorf("%w: target dimensions are both zero", ErrInvalidRange)
	}
	h, w, err := f.Dims()
	if err != nil {
		return nil, err
	}
	if err := checkFinite(f.Pix); err != nil {
		return nil, err
	}

	src := image.NewGray16(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < w; x++ {
			v := clampToUint16(f.Pix[y*w+x])
			row[2*x] = uint8(v >> 8)
			row[2*x+1] = uint8(v)
		}
	}

	out := resize.Resize(width, height, src, interpolationFunction(interp))
	gray, ok := out.(*image.Gray16)
	if !ok {
		return nil, fmt.Errorf("unexpected resize result %T", out)
	}
	return FrameFromGray16(gray), nil
}

func interpolationFunction(interp Interpolation) resize.InterpolationFunction {
	switch interp {
	case InterpolationBilinear:
		return resize.Bilinear
	case InterpolationBicubic:
		return resize.Bicubic
	case InterpolationMitchellNetravali:
		return resize.MitchellNetravali
	case InterpolationLanczos2:
		return resize.Lanczos2
	case InterpolationLanczos3:
		return resize.Lanczos3
	default:
		return resize.NearestNeighbor
	}
}

func clampToUint16(v float64) uint16 {
	if v <= 0 {
		return 0
	}
	if v >= maxUint16Value {
		return 0xffff
	}
	return uint16(v + 0.5)
}
