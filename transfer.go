package isp

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// curve is a piecewise transfer function on normalized samples:
// lo(x) = x*loSlope for x <= threshold,
// hi(x) = hiScale*pow(max(x*inScale+inOffset, 0), exponent) + hiOffset otherwise.
type curve struct {
	threshold float64
	loSlope   float64
	inScale   float64
	inOffset  float64
	exponent  float64
	hiScale   float64
	hiOffset  float64
}

var (
	srgbEncode = curve{
		threshold: srgbEncodeThreshold,
		loSlope:   srgbSlope,
		inScale:   1,
		exponent:  1 / srgbExponent,
		hiScale:   srgbScale,
		hiOffset:  -srgbOffset,
	}
	srgbDecode = curve{
		threshold: srgbDecodeThreshold,
		loSlope:   1 / srgbSlope,
		inScale:   1 / srgbScale,
		inOffset:  srgbOffset / srgbScale,
		exponent:  srgbExponent,
		hiScale:   1,
	}
	rec709Encode = curve{
		threshold: rec709EncodeThreshold,
		loSlope:   rec709Slope,
		inScale:   1,
		exponent:  rec709Exponent,
		hiScale:   rec709Scale,
		hiOffset:  -rec709Offset,
	}
	rec709Decode = curve{
		threshold: rec709DecodeThreshold,
		loSlope:   1 / rec709Slope,
		inScale:   1 / rec709Scale,
		inOffset:  rec709Offset / rec709Scale,
		exponent:  1 / rec709Exponent,
		hiScale:   1,
	}
)

func (c curve) lo(x float64) float64 {
	return x * c.loSlope
}

func (c curve) hi(x float64) float64 {
	return c.hiScale*math.Pow(math.Max(x*c.inScale+c.inOffset, 0), c.exponent) + c.hiOffset
}

// apply evaluates the curve on src scaled by 1/maxval and writes the result
// scaled back by maxval to dst. Both branches are computed over the whole
// range and merged with a threshold mask. dst may alias src.
func (c curve) apply(dst, src []float64, maxval float64) {
	x := getFloat64(len(src))
	lo := getFloat64(len(src))
	hi := getFloat64(len(src))
	mask := getBool(len(src))
	defer func() {
		putFloat64(x)
		putFloat64(lo)
		putFloat64(hi)
		putBool(mask)
	}()

	floats.ScaleTo(x, 1/maxval, src)
	floats.ScaleTo(lo, c.loSlope, x)

	floats.ScaleTo(hi, c.inScale, x)
	floats.AddConst(c.inOffset, hi)
	zeroIfNegative(hi)
	powTo(hi, hi, c.exponent)
	floats.Scale(c.hiScale, hi)
	floats.AddConst(c.hiOffset, hi)

	greaterThan(mask, x, c.threshold)
	ifThenElse(dst, mask, hi, lo)
	floats.Scale(maxval, dst)
}

// greaterThan sets mask[i] = x[i] > threshold.
func greaterThan(mask []bool, x []float64, threshold float64) {
	for i, v := range x {
		mask[i] = v > threshold
	}
}

// ifThenElse sets dst[i] = a[i] where mask[i] is set and b[i] elsewhere.
func ifThenElse(dst []float64, mask []bool, a, b []float64) {
	for i, m := range mask {
		if m {
			dst[i] = a[i]
		} else {
			dst[i] = b[i]
		}
	}
}

func zeroIfNegative(x []float64) {
	for i, v := range x {
		x[i] = math.Max(v, 0)
	}
}

func powTo(dst, x []float64, exp float64) {
	for i, v := range x {
		dst[i] = math.Pow(v, exp)
	}
}
