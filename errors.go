package isp

import "errors"

var (
	// ErrEmptyFrame is returned for frames without samples.
	ErrEmptyFrame = errors.New("empty frame")
	// ErrShapeMismatch is returned when a shape does not describe the sample count.
	ErrShapeMismatch = errors.New("shape does not match sample count")
	// ErrNot2D is returned by operations defined only for two-dimensional frames.
	ErrNot2D = errors.New("frame is not two-dimensional")
	// ErrOutlierRange is returned when the outlier count is outside [0, frame size).
	ErrOutlierRange = errors.New("outlier count out of range")
	// ErrPercentileRange is returned for percentiles outside [0, 100].
	ErrPercentileRange = errors.New("percentile out of range")
	// ErrInvalidMode is returned for transfer modes outside the supported set.
	ErrInvalidMode = errors.New("invalid transfer mode")
	// ErrInvalidRange is returned for non-positive or non-finite maxval bounds.
	ErrInvalidRange = errors.New("invalid value range")
	// ErrInvalidInterpolation is returned for unknown resampling filter names.
	ErrInvalidInterpolation = errors.New("invalid interpolation")
	// ErrDomain is returned for NaN or infinite samples.
	ErrDomain = errors.New("sample outside numeric domain")
	// ErrSampleOverflow is returned when a sample does not fit the target integer width.
	ErrSampleOverflow = errors.New("sample overflows target width")
)
