package params

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sentinel tokens recognized in file reference fields.
const (
	SentinelNone   = "None"
	SentinelConfig = "config"
	SentinelCRDS   = "crds"
)

// RefFile is a file reference field. Besides a literal or
// environment-variable-prefixed path it may carry one of the sentinels:
// None (feature disabled), config (packaged default), crds (resolve through
// the calibration reference data system).
type RefFile string

// IsNone reports whether the reference disables its feature. An empty
// entry is equivalent to None.
func (r RefFile) IsNone() bool {
	s := strings.TrimSpace(string(r))
	return s == "" || strings.EqualFold(s, SentinelNone)
}

// IsConfig reports whether the reference points at the packaged default.
func (r RefFile) IsConfig() bool {
	return strings.EqualFold(strings.TrimSpace(string(r)), SentinelConfig)
}

// IsCRDS reports whether the reference should be resolved through CRDS.
func (r RefFile) IsCRDS() bool {
	return strings.EqualFold(strings.TrimSpace(string(r)), SentinelCRDS)
}

// IsPath reports whether the reference holds a literal or variable-prefixed
// path rather than a sentinel.
func (r RefFile) IsPath() bool {
	return !r.IsNone() && !r.IsConfig() && !r.IsCRDS()
}

func (r RefFile) String() string {
	if r.IsNone() {
		return SentinelNone
	}
	return string(r)
}

// PixelPair is an "x, y" pixel coordinate pair, written as a single scalar
// in the document.
type PixelPair struct {
	X int
	Y int
}

// UnmarshalYAML accepts either the scalar form "x, y" or a two-element
// sequence.
func (p *PixelPair) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		parts := strings.Split(value.Value, ",")
		if len(parts) != 2 {
			return fmt.Errorf("pixel pair must be \"x, y\", got %q", value.Value)
		}
		x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return fmt.Errorf("invalid pixel pair x value %q", parts[0])
		}
		y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return fmt.Errorf("invalid pixel pair y value %q", parts[1])
		}
		p.X, p.Y = x, y
		return nil
	case yaml.SequenceNode:
		var pair []int
		if err := value.Decode(&pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("pixel pair must have two elements, got %d", len(pair))
		}
		p.X, p.Y = pair[0], pair[1]
		return nil
	default:
		return fmt.Errorf("pixel pair must be a scalar or sequence")
	}
}

// MarshalYAML writes the scalar form.
func (p PixelPair) MarshalYAML() (interface{}, error) {
	return fmt.Sprintf("%d, %d", p.X, p.Y), nil
}

func (p PixelPair) String() string {
	return fmt.Sprintf("%d, %d", p.X, p.Y)
}

// Background rate levels understood by the exposure time calculator.
var backgroundLevels = []string{"low", "medium", "high"}

// BackgroundRate is either a constant count rate (ADU/sec/pixel) or one of
// the named levels low, medium, high.
type BackgroundRate struct {
	Level string
	Rate  float64
}

// IsLevel reports whether the rate is one of the named levels.
func (b BackgroundRate) IsLevel() bool {
	return b.Level != ""
}

// UnmarshalYAML accepts a numeric rate or a level name.
func (b *BackgroundRate) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("background rate must be a scalar")
	}

	lower := strings.ToLower(strings.TrimSpace(value.Value))
	for _, level := range backgroundLevels {
		if lower == level {
			b.Level = level
			b.Rate = 0
			return nil
		}
	}

	rate, err := strconv.ParseFloat(strings.TrimSpace(value.Value), 64)
	if err != nil {
		return fmt.Errorf("background rate must be numeric or one of low, medium, high, got %q", value.Value)
	}
	b.Level = ""
	b.Rate = rate
	return nil
}

// MarshalYAML writes the level name when set, the numeric rate otherwise.
func (b BackgroundRate) MarshalYAML() (interface{}, error) {
	if b.IsLevel() {
		return b.Level, nil
	}
	return b.Rate, nil
}

func (b BackgroundRate) String() string {
	if b.IsLevel() {
		return b.Level
	}
	return strconv.FormatFloat(b.Rate, 'g', -1, 64)
}
