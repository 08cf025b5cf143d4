package isp

import (
	"fmt"
	"strings"
)

// TransferMode identifies a perceptual transfer curve.
type TransferMode int

const (
	// TransferNone leaves samples untouched.
	TransferNone TransferMode = iota
	// TransferSRGB is the IEC 61966-2-1 sRGB curve.
	TransferSRGB
	// TransferRec709 is the ITU-R BT.709 curve.
	TransferRec709
)

// String returns the mode name as accepted by ParseTransferMode.
func (m TransferMode) String() string {
	switch m {
	case TransferNone:
		return ""
	case TransferSRGB:
		return "sRGB"
	case TransferRec709:
		return "rec709"
	default:
		return fmt.Sprintf("TransferMode(%d)", int(m))
	}
}

func (m TransferMode) valid() bool {
	return m == TransferNone || m == TransferSRGB || m == TransferRec709
}

// ParseTransferMode converts a mode name to TransferMode.
// Empty string and "none" select TransferNone.
func ParseTransferMode(s string) (TransferMode, error) {
	switch s {
	case "", "none", "None":
		return TransferNone, nil
	case "sRGB", "srgb":
		return TransferSRGB, nil
	case "rec709", "Rec709", "REC709":
		return TransferRec709, nil
	default:
		return TransferNone, fmt.Errorf("%w: %q (want sRGB, rec709 or none)", ErrInvalidMode, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m TransferMode) MarshalText() ([]byte, error) {
	if !m.valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *TransferMode) UnmarshalText(text []byte) error {
	v, err := ParseTransferMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Interpolation selects the resampling filter used for statistics previews.
type Interpolation int

const (
	// InterpolationNearest is nearest-neighbor sampling.
	InterpolationNearest Interpolation = iota
	// InterpolationBilinear is linear sampling.
	InterpolationBilinear
	// InterpolationBicubic is cubic sampling.
	InterpolationBicubic
	// InterpolationMitchellNetravali is Mitchell-Netravali sampling.
	InterpolationMitchellNetravali
	// InterpolationLanczos2 is Lanczos sampling with a=2.
	InterpolationLanczos2
	// InterpolationLanczos3 is Lanczos sampling with a=3.
	InterpolationLanczos3
)

var interpolationNames = map[string]Interpolation{
	"nearest":  InterpolationNearest,
	"bilinear": InterpolationBilinear,
	"bicubic":  InterpolationBicubic,
	"mitchell": InterpolationMitchellNetravali,
	"lanczos2": InterpolationLanczos2,
	"lanczos3": InterpolationLanczos3,
}

// ParseInterpolation converts a filter name (nearest, bilinear, bicubic,
// mitchell, lanczos2, lanczos3) to Interpolation.
func ParseInterpolation(s string) (Interpolation, error) {
	if s == "" {
		return InterpolationNearest, nil
	}
	interp, ok := interpolationNames[strings.ToLower(s)]
	if !ok {
		return InterpolationNearest, fmt.Errorf("%w: %q (want nearest, bilinear, bicubic, mitchell, lanczos2 or lanczos3)", ErrInvalidInterpolation, s)
	}
	return interp, nil
}
