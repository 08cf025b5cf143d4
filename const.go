package isp

// DefaultMaxOutliers is the number of extreme samples disregarded by default
// when estimating black and white levels.
const DefaultMaxOutliers = 100

const (
	srgbEncodeThreshold = 0.0031308
	srgbDecodeThreshold = 0.04045
	srgbSlope           = 12.92
	srgbScale           = 1.055
	srgbOffset          = 0.055
	srgbExponent        = 2.4

	rec709EncodeThreshold = 0.018
	rec709DecodeThreshold = 0.081
	rec709Slope           = 4.5
	rec709Scale           = 1.099
	rec709Offset          = 0.099
	rec709Exponent        = 0.45
)

const (
	maxUint16Value = 65535.0
	maxBitDepth    = 16
)

// Frames smaller than this are transformed on the calling goroutine.
const parallelThreshold = 1 << 16
