package isp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LevelAuto is the level specification that requests estimation from the frame.
const LevelAuto = "AUTO"

// LevelSpec is either a fixed sample value or a request to estimate the
// level from the frame. In JSON it is a number or the string "AUTO".
type LevelSpec struct {
	Auto  bool
	Value float64
}

// AutoLevel returns a LevelSpec that estimates the level from the frame.
func AutoLevel() LevelSpec { return LevelSpec{Auto: true} }

// FixedLevel returns a LevelSpec with a fixed sample value.
func FixedLevel(v float64) LevelSpec { return LevelSpec{Value: v} }

// ParseLevelSpec parses "AUTO" or a decimal number.
func ParseLevelSpec(s string) (LevelSpec, error) {
	if strings.EqualFold(s, LevelAuto) {
		return AutoLevel(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return LevelSpec{}, fmt.Errorf("level must be %s or a number, got %q", LevelAuto, s)
	}
	return FixedLevel(v), nil
}

// String implements fmt.Stringer.
func (l LevelSpec) String() string {
	if l.Auto {
		return LevelAuto
	}
	return strconv.FormatFloat(l.Value, 'g', -1, 64)
}

// MarshalJSON implements json.Marshaler.
func (l LevelSpec) MarshalJSON() ([]byte, error) {
	if l.Auto {
		return json.Marshal(LevelAuto)
	}
	return json.Marshal(l.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *LevelSpec) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := ParseLevelSpec(s)
		if err != nil {
			return err
		}
		*l = v
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("level must be %q or a number: %w", LevelAuto, err)
	}
	*l = FixedLevel(v)
	return nil
}

// Config holds pipeline parameters.
// Omitted fields fall back to the defaults of the Get* accessors, so partial
// configs are safe.
type Config struct {
	// Level params
	BlackLevel  *LevelSpec `json:"black_level,omitempty"`
	WhiteLevel  *LevelSpec `json:"white_level,omitempty"`
	MaxOutliers *int       `json:"max_outliers,omitempty"`

	// Range params, maxval takes precedence over bits
	InputBits    *int     `json:"input_bits,omitempty"`
	InputMaxval  *float64 `json:"input_maxval,omitempty"`
	OutputBits   *int     `json:"output_bits,omitempty"`
	OutputMaxval *float64 `json:"output_maxval,omitempty"`

	// Transfer params
	Degamma *TransferMode `json:"degamma,omitempty"`
	Gamma   *TransferMode `json:"gamma,omitempty"`

	// Statistics preview params (optional)
	StatsWidth         *uint   `json:"stats_width,omitempty"`
	StatsHeight        *uint   `json:"stats_height,omitempty"`
	StatsInterpolation *string `json:"stats_interpolation,omitempty"`
}

// Helper functions to create pointers
func ptrInt(v int) *int                        { return &v }
func ptrUint(v uint) *uint                     { return &v }
func ptrString(v string) *string               { return &v }
func ptrLevel(v LevelSpec) *LevelSpec          { return &v }
func ptrTransfer(v TransferMode) *TransferMode { return &v }

// DefaultConfig returns a Config with every field set to its default:
// estimated levels with 100 outliers, 16-bit input, 10-bit output, no gamma.
func DefaultConfig() *Config {
	return &Config{
		BlackLevel:         ptrLevel(AutoLevel()),
		WhiteLevel:         ptrLevel(AutoLevel()),
		MaxOutliers:        ptrInt(DefaultMaxOutliers),
		InputBits:          ptrInt(16),
		OutputBits:         ptrInt(10),
		Degamma:            ptrTransfer(TransferNone),
		Gamma:              ptrTransfer(TransferNone),
		StatsWidth:         ptrUint(0),
		StatsHeight:        ptrUint(0),
		StatsInterpolation: ptrString("nearest"),
	}
}

// maxConfigSize bounds the files LoadConfig reads.
const maxConfigSize = 1 << 20

// LoadConfig reads a JSON Config from path and validates it.
// Only .json files up to 1MiB are accepted, and unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	if filepath.Ext(path) != ".json" {
		return nil, fmt.Errorf("config %s: not a .json file", path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	// One byte past the limit tells an oversized file from one that fits exactly.
	data, err := io.ReadAll(io.LimitReader(file, maxConfigSize+1))
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if len(data) > maxConfigSize {
		return nil, fmt.Errorf("config %s exceeds %d bytes", path, maxConfigSize)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	cfg := &Config{}
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *Config) Validate() error {
	if c.MaxOutliers != nil && *c.MaxOutliers < 0 {
		return fmt.Errorf("%w: max_outliers must be non-negative, got %d", ErrOutlierRange, *c.MaxOutliers)
	}

	if _, err := c.GetInputMaxval(); err != nil {
		return fmt.Errorf("input range: %w", err)
	}
	if _, err := c.GetOutputMaxval(); err != nil {
		return fmt.Errorf("output range: %w", err)
	}

	if c.Degamma != nil && !c.Degamma.valid() {
		return fmt.Errorf("degamma: %w: %d", ErrInvalidMode, int(*c.Degamma))
	}
	if c.Gamma != nil && !c.Gamma.valid() {
		return fmt.Errorf("gamma: %w: %d", ErrInvalidMode, int(*c.Gamma))
	}

	black, white := c.GetBlackLevel(), c.GetWhiteLevel()
	if !black.Auto && !white.Auto && black.Value >= white.Value {
		return fmt.Errorf("black_level %v must be below white_level %v", black.Value, white.Value)
	}

	if _, err := ParseInterpolation(c.GetStatsInterpolation()); err != nil {
		return err
	}

	return nil
}

// GetBlackLevel returns the black level spec or AUTO if not set.
func (c *Config) GetBlackLevel() LevelSpec {
	if c.BlackLevel == nil {
		return AutoLevel()
	}
	return *c.BlackLevel
}

// GetWhiteLevel returns the white level spec or AUTO if not set.
func (c *Config) GetWhiteLevel() LevelSpec {
	if c.WhiteLevel == nil {
		return AutoLevel()
	}
	return *c.WhiteLevel
}

// GetMaxOutliers returns max_outliers or DefaultMaxOutliers if not set.
func (c *Config) GetMaxOutliers() int {
	if c.MaxOutliers == nil {
		return DefaultMaxOutliers
	}
	return *c.MaxOutliers
}

// GetInputMaxval returns input_maxval, or the maximum of input_bits
// (16 if not set).
func (c *Config) GetInputMaxval() (float64, error) {
	return rangeMaxval(c.InputMaxval, c.InputBits, 16)
}

// GetOutputMaxval returns output_maxval, or the maximum of output_bits
// (10 if not set).
func (c *Config) GetOutputMaxval() (float64, error) {
	return rangeMaxval(c.OutputMaxval, c.OutputBits, 10)
}

// GetDegamma returns the input transfer mode or TransferNone if not set.
func (c *Config) GetDegamma() TransferMode {
	if c.Degamma == nil {
		return TransferNone
	}
	return *c.Degamma
}

// GetGamma returns the output transfer mode or TransferNone if not set.
func (c *Config) GetGamma() TransferMode {
	if c.Gamma == nil {
		return TransferNone
	}
	return *c.Gamma
}

// GetStatsSize returns the statistics preview dimensions, zero if not set.
func (c *Config) GetStatsSize() (width, height uint) {
	if c.StatsWidth != nil {
		width = *c.StatsWidth
	}
	if c.StatsHeight != nil {
		height = *c.StatsHeight
	}
	return width, height
}

// GetStatsInterpolation returns stats_interpolation or "nearest" if not set.
func (c *Config) GetStatsInterpolation() string {
	if c.StatsInterpolation == nil {
		return "nearest"
	}
	return *c.StatsInterpolation
}

func rangeMaxval(maxval *float64, bits *int, defaultBits int) (float64, error) {
	if maxval != nil {
		if err := checkMaxval("maxval", *maxval); err != nil {
			return 0, err
		}
		return *maxval, nil
	}
	b := defaultBits
	if bits != nil {
		b = *bits
	}
	return BitDepthMax(b)
}
