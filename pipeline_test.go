package isp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tenBitConfig() *Config {
	return &Config{
		InputBits:  ptrInt(10),
		OutputBits: ptrInt(10),
	}
}

func splitFrame(t testing.TB, lo, hi float64, h, w int) *Frame {
	t.Helper()
	pix := make([]float64, h*w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := lo
			if x >= w/2 {
				v = hi
			}
			pix[y*w+x] = v
		}
	}
	return mustFrame(t, pix, h, w)
}

func TestPipeline_FixedLevels(t *testing.T) {
	t.Parallel()
	cfg := tenBitConfig()
	cfg.BlackLevel = ptrLevel(FixedLevel(23))
	cfg.WhiteLevel = ptrLevel(FixedLevel(1023))
	cfg.OutputBits = ptrInt(8)

	p, err := NewPipeline(cfg)
	require.NoError(t, err)

	f := mustFrame(t, []float64{0, 23, 623, 1023, 2000}, 1, 5)
	res, err := p.Process(context.Background(), f)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0, 153, 255, 255}, res.Frame.Pix)
	assert.Equal(t, 23.0, res.BlackLevel)
	assert.Equal(t, 1023.0, res.WhiteLevel)
	assert.Equal(t, []float64{0, 23, 623, 1023, 2000}, f.Pix)

	words, err := res.Frame.Uint16()
	require.NoError(t, err)
	assert.Equal(t, []uint16{0, 0, 153, 255, 255}, words)
}

func TestPipeline_AutoLevelsIgnoreDefectivePixels(t *testing.T) {
	t.Parallel()
	cfg := tenBitConfig()
	cfg.MaxOutliers = ptrInt(10)

	p, err := NewPipeline(cfg)
	require.NoError(t, err)

	f := splitFrame(t, 200, 800, 100, 100)
	f.Pix[0] = 0     // dead
	f.Pix[99] = 1023 // stuck

	res, err := p.Process(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, 200.0, res.BlackLevel)
	assert.Equal(t, 800.0, res.WhiteLevel)

	for i, v := range res.Frame.Pix {
		want := 0.0
		if i%100 >= 50 {
			want = 1023
		}
		require.Equal(t, want, v, "sample %d", i)
	}
}

func TestPipeline_StatsPreview(t *testing.T) {
	t.Parallel()
	cfg := tenBitConfig()
	cfg.StatsWidth = ptrUint(16)
	cfg.StatsHeight = ptrUint(16)

	p, err := NewPipeline(cfg)
	require.NoError(t, err)

	res, err := p.Process(context.Background(), splitFrame(t, 200, 800, 64, 64))
	require.NoError(t, err)
	assert.InDelta(t, 200, res.BlackLevel, 0.01)
	assert.InDelta(t, 800, res.WhiteLevel, 0.01)
}

func TestPipeline_StatsPreviewKeepsInputScale(t *testing.T) {
	t.Parallel()

	for _, inMax := range []float64{1, 1e6} {
		cfg := &Config{
			InputMaxval: &inMax,
			OutputBits:  ptrInt(8),
			MaxOutliers: ptrInt(0),
		}
		full, err := NewPipeline(cfg)
		require.NoError(t, err)

		cfg.StatsWidth = ptrUint(16)
		cfg.StatsHeight = ptrUint(16)
		preview, err := NewPipeline(cfg)
		require.NoError(t, err)

		f := splitFrame(t, 0.2*inMax, 0.8*inMax, 64, 64)
		want, err := full.Process(context.Background(), f)
		require.NoError(t, err)
		got, err := preview.Process(context.Background(), f)
		require.NoError(t, err)

		assert.InDelta(t, 0.2*inMax, got.BlackLevel, 1e-4*inMax, "maxval %v", inMax)
		assert.InDelta(t, 0.8*inMax, got.WhiteLevel, 1e-4*inMax, "maxval %v", inMax)
		assert.Equal(t, want.Frame.Pix, got.Frame.Pix, "maxval %v", inMax)
	}
}

func TestPipeline_Gamma(t *testing.T) {
	t.Parallel()
	f := rampFrame(t, 1023)

	for _, mode := range []TransferMode{TransferSRGB, TransferRec709} {
		cfg := tenBitConfig()
		cfg.BlackLevel = ptrLevel(FixedLevel(0))
		cfg.WhiteLevel = ptrLevel(FixedLevel(1023))
		cfg.Gamma = ptrTransfer(mode)

		p, err := NewPipeline(cfg)
		require.NoError(t, err)
		res, err := p.Process(context.Background(), f)
		require.NoError(t, err)

		want, err := ApplyGamma(f, 1023, mode)
		require.NoError(t, err)
		roundHalfUp(want.Pix)
		assert.Equal(t, want.Pix, res.Frame.Pix, mode.String())
	}
}

func TestPipeline_Degamma(t *testing.T) {
	t.Parallel()
	cfg := tenBitConfig()
	cfg.BlackLevel = ptrLevel(FixedLevel(0))
	cfg.WhiteLevel = ptrLevel(FixedLevel(1023))
	cfg.Degamma = ptrTransfer(TransferSRGB)
	cfg.OutputBits = ptrInt(16)

	p, err := NewPipeline(cfg)
	require.NoError(t, err)

	f := rampFrame(t, 1023)
	res, err := p.Process(context.Background(), f)
	require.NoError(t, err)

	linear, err := ApplyDegamma(f, 1023, TransferSRGB)
	require.NoError(t, err)
	want, err := Quantize(linear, 1023, 65535)
	require.NoError(t, err)
	assert.Equal(t, want.Pix, res.Frame.Pix)
}

func TestPipeline_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewPipeline(&Config{Gamma: ptrTransfer(TransferMode(5))})
	assert.ErrorIs(t, err, ErrInvalidMode)

	p, err := NewPipeline(tenBitConfig())
	require.NoError(t, err)

	_, err = p.Process(context.Background(), constFrame(t, 300, 20, 20))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = p.Process(context.Background(), &Frame{})
	assert.ErrorIs(t, err, ErrEmptyFrame)

	// 50 samples cannot shed the default 100 outliers.
	_, err = p.Process(context.Background(), splitFrame(t, 100, 900, 5, 10))
	require.ErrorIs(t, err, ErrOutlierRange)
	assert.Contains(t, err.Error(), "100 outliers for 50 samples")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Process(ctx, splitFrame(t, 1, 2, 20, 20))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_ProcessBatch(t *testing.T) {
	t.Parallel()
	cfg := tenBitConfig()
	cfg.MaxOutliers = ptrInt(0)
	cfg.Gamma = ptrTransfer(TransferRec709)

	p, err := NewPipeline(cfg)
	require.NoError(t, err)

	frames := []*Frame{
		splitFrame(t, 0, 1023, 8, 8),
		splitFrame(t, 100, 900, 16, 4),
		rampFrame(t, 511),
	}
	results, err := p.ProcessBatch(context.Background(), frames)
	require.NoError(t, err)
	require.Len(t, results, len(frames))

	for i, f := range frames {
		single, err := p.Process(context.Background(), f)
		require.NoError(t, err)
		assert.Equal(t, single, results[i], "frame %d", i)
	}

	_, err = p.ProcessBatch(context.Background(), []*Frame{frames[0], {}, frames[1]})
	require.ErrorIs(t, err, ErrEmptyFrame)
	assert.Contains(t, err.Error(), "frame 1")
}
