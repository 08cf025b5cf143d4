package isp

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// BlackLevel returns the practical lower bound of sample values in f.
//
// A straight minimum yields zero as soon as the sensor has a single dead
// pixel, so up to maxOutliers of the lowest samples are disregarded: the
// result is the (maxOutliers/size*100)-th percentile of f.
// maxOutliers must be in [0, f.Size()).
//
// Percentiles interpolate linearly between neighboring ranks, so the skipped
// samples still pull the estimate a little: a 100x100 frame of 100s with one
// dead pixel gives 99.99 for maxOutliers=1 and exactly 100 from 2 on.
func BlackLevel(f *Frame, maxOutliers int) (float64, error) {
	p, err := outlierPercentile(f, maxOutliers)
	if err != nil {
		return 0, err
	}
	if maxOutliers == 0 {
		return floats.Min(f.Pix), nil
	}
	return Percentile(f, p)
}

// WhiteLevel returns the practical upper bound of sample values in f,
// disregarding up to maxOutliers stuck pixels at the top of the range.
// maxOutliers must be in [0, f.Size()).
func WhiteLevel(f *Frame, maxOutliers int) (float64, error) {
	p, err := outlierPercentile(f, maxOutliers)
	if err != nil {
		return 0, err
	}
	if maxOutliers == 0 {
		return floats.Max(f.Pix), nil
	}
	return Percentile(f, 100-p)
}

// Levels returns both BlackLevel and WhiteLevel of f using a single sort.
func Levels(f *Frame, maxOutliers int) (black, white float64, err error) {
	p, err := outlierPercentile(f, maxOutliers)
	if err != nil {
		return 0, 0, err
	}
	sorted := sortedSamples(f.Pix)
	return percentileSorted(sorted, p), percentileSorted(sorted, 100-p), nil
}

// Percentile returns the p-th percentile of all samples of f, p in [0, 100].
// Between order statistics the value is linearly interpolated, with rank
// p/100*(size-1).
func Percentile(f *Frame, p float64) (float64, error) {
	if err := checkSamples(f); err != nil {
		return 0, err
	}
	if !(p >= 0 && p <= 100) {
		return 0, fmt.Errorf("%w: %v", ErrPercentileRange, p)
	}
	return percentileSorted(sortedSamples(f.Pix), p), nil
}

func outlierPercentile(f *Frame, maxOutliers int) (float64, error) {
	if err := checkSamples(f); err != nil {
		return 0, err
	}
	if maxOutliers < 0 || maxOutliers >= len(f.Pix) {
		return 0, fmt.Errorf("%w: %d outliers for %d samples", ErrOutlierRange, maxOutliers, len(f.Pix))
	}
	return float64(maxOutliers) / float64(len(f.Pix)) * 100, nil
}

func checkSamples(f *Frame) error {
	if f == nil || len(f.Pix) == 0 {
		return ErrEmptyFrame
	}
	for i, v := range f.Pix {
		if math.IsNaN(v) {
			return fmt.Errorf("%w: sample %d is NaN", ErrDomain, i)
		}
	}
	return nil
}

func sortedSamples(pix []float64) []float64 {
	sorted := append([]float64(nil), pix...)
	sort.Float64s(sorted)
	return sorted
}

func percentileSorted(sorted []float64, p float64) float64 {
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		lo = 0
	}
	if hi > len(sorted)-1 {
		hi = len(sorted) - 1
	}
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
