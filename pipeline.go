package isp

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// Pipeline chains the level, transfer and quantization stages:
// degamma, level estimation, level stretch, gamma, quantize.
type Pipeline struct {
	black, white LevelSpec
	maxOutliers  int
	inMax        float64
	outMax       float64
	degamma      TransferMode
	gamma        TransferMode
	statsW       uint
	statsH       uint
	statsInterp  Interpolation
}

// Result is the output of Pipeline.Process.
type Result struct {
	Frame *Frame
	// Levels applied by the stretch stage, in linear input units.
	BlackLevel float64
	WhiteLevel float64
}

// NewPipeline validates cfg and builds a Pipeline. A nil cfg uses DefaultConfig.
func NewPipeline(cfg *Config) (*Pipeline, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	inMax, err := cfg.GetInputMaxval()
	if err != nil {
		return nil, err
	}
	outMax, err := cfg.GetOutputMaxval()
	if err != nil {
		return nil, err
	}
	interp, err := ParseInterpolation(cfg.GetStatsInterpolation())
	if err != nil {
		return nil, err
	}
	statsW, statsH := cfg.GetStatsSize()

	return &Pipeline{
		black:       cfg.GetBlackLevel(),
		white:       cfg.GetWhiteLevel(),
		maxOutliers: cfg.GetMaxOutliers(),
		inMax:       inMax,
		outMax:      outMax,
		degamma:     cfg.GetDegamma(),
		gamma:       cfg.GetGamma(),
		statsW:      statsW,
		statsH:      statsH,
		statsInterp: interp,
	}, nil
}

// Process runs all stages on f. The input frame is not modified.
func (p *Pipeline) Process(ctx context.Context, f *Frame) (*Result, error) {
	if f == nil || f.Size() == 0 {
		return nil, ErrEmptyFrame
	}

	linear, err := ApplyDegamma(f, p.inMax, p.degamma)
	if err != nil {
		return nil, fmt.Errorf("degamma: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	black, white, err := p.levels(linear)
	if err != nil {
		return nil, fmt.Errorf("levels: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stretched, err := stretchLevels(linear, black, white, p.inMax)
	if err != nil {
		return nil, fmt.Errorf("stretch: %w", err)
	}

	// stretched is owned here, so the gamma stage can reuse its buffer.
	if err := ApplyGammaInPlace(stretched, p.inMax, p.gamma); err != nil {
		return nil, fmt.Errorf("gamma: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := Quantize(stretched, p.inMax, p.outMax)
	if err != nil {
		return nil, fmt.Errorf("quantize: %w", err)
	}
	if p.inMax == p.outMax {
		// Identity quantization skips rounding, but Result frames are integral.
		roundHalfUp(out.Pix)
	}

	return &Result{Frame: out, BlackLevel: black, WhiteLevel: white}, nil
}

// ProcessBatch runs Process on independent frames concurrently and returns
// results in input order. The first error cancels the remaining frames.
func (p *Pipeline) ProcessBatch(ctx context.Context, frames []*Frame) ([]*Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]*Result, len(frames))
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	for i, f := range frames {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(i int, f *Frame) {
			defer wg.Done()
			defer func() { <-sem }()
			res, err := p.Process(ctx, f)
			if err != nil {
				errOnce.Do(func() {
					firstErr = fmt.Errorf("frame %d: %w", i, err)
					cancel()
				})
				return
			}
			results[i] = res
		}(i, f)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Pipeline) levels(f *Frame) (black, white float64, err error) {
	black, white = p.black.Value, p.white.Value
	if !p.black.Auto && !p.white.Auto {
		return black, white, nil
	}
	if p.maxOutliers >= f.Size() {
		return 0, 0, fmt.Errorf("%w: %d outliers for %d samples", ErrOutlierRange, p.maxOutliers, f.Size())
	}

	stats := f
	k := p.maxOutliers
	if p.statsW > 0 || p.statsH > 0 {
		stats, err = p.statsPreview(f)
		if err != nil {
			return 0, 0, fmt.Errorf("stats preview: %w", err)
		}
		// Outlier counts refer to the full frame. Scaled down they stay
		// below the preview size since k < f.Size().
		k = k * stats.Size() / f.Size()
	}

	estBlack, estWhite, err := Levels(stats, k)
	if err != nil {
		return 0, 0, err
	}
	if p.black.Auto {
		black = estBlack
	}
	if p.white.Auto {
		white = estWhite
	}
	return black, white, nil
}

// statsPreview downscales f in 16-bit word space. Samples are mapped from
// [0, inMax] onto [0, 65535] and back, so the preview keeps the input scale
// for any maxval. Samples outside [0, inMax] are clipped.
func (p *Pipeline) statsPreview(f *Frame) (*Frame, error) {
	toWords := maxUint16Value / p.inMax
	words := f.withPix(make([]float64, f.Size()))
	floats.ScaleTo(words.Pix, toWords, f.Pix)

	small, err := Downscale(words, p.statsW, p.statsH, p.statsInterp)
	if err != nil {
		return nil, err
	}
	floats.Scale(1/toWords, small.Pix)
	return small, nil
}

// stretchLevels maps [black, white] linearly onto [0, maxval] and clips.
func stretchLevels(f *Frame, black, white, maxval float64) (*Frame, error) {
	if !(white > black) {
		return nil, fmt.Errorf("%w: white level %v is not above black level %v", ErrInvalidRange, white, black)
	}
	scale := maxval / (white - black)
	out := f.withPix(make([]float64, f.Size()))
	parallelFor(f.Size(), func(start, end int) {
		dst := out.Pix[start:end]
		copy(dst, f.Pix[start:end])
		floats.AddConst(-black, dst)
		floats.Scale(scale, dst)
		for i, v := range dst {
			if v < 0 {
				dst[i] = 0
			} else if v > maxval {
				dst[i] = maxval
			}
		}
	})
	return out, nil
}
