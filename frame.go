package isp

import (
	"fmt"
	"image"
	"math"
)

// Frame is an N-dimensional array of pixel samples stored in row-major order.
// For a 2-D frame Shape is {height, width}.
type Frame struct {
	Shape []int
	Pix   []float64
}

// NewFrame wraps pix into a Frame without copying.
// When no shape is given the frame is one-dimensional.
func NewFrame(pix []float64, shape ...int) (*Frame, error) {
	if len(shape) == 0 {
		shape = []int{len(pix)}
	}
	n := 1
	for _, d := range shape {
		if d <= 0 {
			return nil, fmt.Errorf("%w: dimension %d in %v", ErrShapeMismatch, d, shape)
		}
		n *= d
	}
	if n != len(pix) {
		return nil, fmt.Errorf("%w: shape %v needs %d samples, got %d", ErrShapeMismatch, shape, n, len(pix))
	}
	return &Frame{Shape: append([]int(nil), shape...), Pix: pix}, nil
}

// FrameFromUint16 converts unpacked integer sensor samples to a Frame.
func FrameFromUint16(pix []uint16, shape ...int) (*Frame, error) {
	data := make([]float64, len(pix))
	for i, v := range pix {
		data[i] = float64(v)
	}
	return NewFrame(data, shape...)
}

// FrameFromGray16 copies a 16-bit grayscale image into a 2-D frame.
func FrameFromGray16(img *image.Gray16) *Frame {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]float64, w*h)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*2]
		for x := 0; x < w; x++ {
			pix[y*w+x] = float64(uint16(row[2*x])<<8 | uint16(row[2*x+1]))
		}
	}
	return &Frame{Shape: []int{h, w}, Pix: pix}
}

// Size returns the number of samples.
func (f *Frame) Size() int {
	return len(f.Pix)
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	return &Frame{
		Shape: append([]int(nil), f.Shape...),
		Pix:   append([]float64(nil), f.Pix...),
	}
}

// Dims returns height and width of a 2-D frame.
func (f *Frame) Dims() (height, width int, err error) {
	if len(f.Shape) != 2 {
		return 0, 0, fmt.Errorf("%w: shape %v", ErrNot2D, f.Shape)
	}
	return f.Shape[0], f.Shape[1], nil
}

func (f *Frame) withPix(pix []float64) *Frame {
	return &Frame{Shape: append([]int(nil), f.Shape...), Pix: pix}
}

// Uint16 converts an integer-valued frame, such as the output of Quantize,
// to 16-bit words. Samples that are fractional or outside [0, 65535] are
// reported with ErrSampleOverflow instead of being wrapped or clamped.
func (f *Frame) Uint16() ([]uint16, error) {
	out := make([]uint16, len(f.Pix))
	for i, v := range f.Pix {
		if v < 0 || v > maxUint16Value || v != math.Trunc(v) {
			return nil, fmt.Errorf("%w: sample %d is %v", ErrSampleOverflow, i, v)
		}
		out[i] = uint16(v)
	}
	return out, nil
}

// Gray16 converts a 2-D integer-valued frame to a 16-bit grayscale image.
func (f *Frame) Gray16() (*image.Gray16, error) {
	h, w, err := f.Dims()
	if err != nil {
		return nil, err
	}
	words, err := f.Uint16()
	if err != nil {
		return nil, err
	}
	img := image.NewGray16(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			v := words[y*w+x]
			row[2*x] = uint8(v >> 8)
			row[2*x+1] = uint8(v)
		}
	}
	return img, nil
}

func checkFinite(pix []float64) error {
	for i, v := range pix {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: sample %d is %v", ErrDomain, i, v)
		}
	}
	return nil
}

func checkMaxval(name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be positive and finite, got %v", ErrInvalidRange, name, v)
	}
	return nil
}
