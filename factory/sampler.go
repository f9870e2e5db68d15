package factory

import (
	"fmt"
	"math"
	"math/rand"
)

// Sampler draws values from a configured distribution. Samples always fall
// inside the distribution's configured bounds, and repeated draws from the
// same seeded stream reproduce bit-for-bit.
type Sampler interface {
	Sample(rng *rand.Rand) float64
}

// DistSpec parameterizes a distribution in configuration files. The unit of
// the parameters is the caller's business: seconds for step durations,
// degrees Celsius for oven temperature.
type DistSpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// UniformSampler draws uniformly from [min, max).
type UniformSampler struct {
	min, max float64
}

func (s *UniformSampler) Sample(rng *rand.Rand) float64 {
	if s.min == s.max {
		return s.min
	}
	return s.min + rng.Float64()*(s.max-s.min)
}

// TriangularSampler draws from a triangular distribution on [min, max] with
// the given mode, via the inverse CDF.
type TriangularSampler struct {
	min, mode, max float64
}

func (s *TriangularSampler) Sample(rng *rand.Rand) float64 {
	if s.min == s.max {
		return s.min
	}
	u := rng.Float64()
	span := s.max - s.min
	cut := (s.mode - s.min) / span
	if u < cut {
		return s.min + math.Sqrt(u*span*(s.mode-s.min))
	}
	return s.max - math.Sqrt((1-u)*span*(s.max-s.mode))
}

// ConstantSampler always returns the same fixed value.
type ConstantSampler struct {
	value float64
}

func (s *ConstantSampler) Sample(_ *rand.Rand) float64 {
	return s.value
}

// requireParams checks that all required keys exist in a spec's params map.
func requireParams(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return fmt.Errorf("distribution requires parameter %q", k)
		}
	}
	return nil
}

// NewSampler compiles a DistSpec into a Sampler, validating parameters.
func NewSampler(spec DistSpec) (Sampler, error) {
	switch spec.Type {
	case "uniform":
		if err := requireParams(spec.Params, "min", "max"); err != nil {
			return nil, err
		}
		lo, hi := spec.Params["min"], spec.Params["max"]
		if hi < lo {
			return nil, fmt.Errorf("uniform distribution has max %v < min %v", hi, lo)
		}
		return &UniformSampler{min: lo, max: hi}, nil

	case "triangular":
		if err := requireParams(spec.Params, "min", "mode", "max"); err != nil {
			return nil, err
		}
		lo, mode, hi := spec.Params["min"], spec.Params["mode"], spec.Params["max"]
		if lo > mode || mode > hi {
			return nil, fmt.Errorf("triangular distribution needs min <= mode <= max, got %v/%v/%v", lo, mode, hi)
		}
		return &TriangularSampler{min: lo, mode: mode, max: hi}, nil

	case "constant":
		if err := requireParams(spec.Params, "value"); err != nil {
			return nil, err
		}
		return &ConstantSampler{value: spec.Params["value"]}, nil

	default:
		return nil, fmt.Errorf("unknown distribution type %q", spec.Type)
	}
}

// DurationSampler wraps a Sampler whose parameters are seconds and yields
// simulated ticks.
type DurationSampler struct {
	sampler Sampler
}

// NewDurationSampler compiles a seconds-based DistSpec. Negative values are
// rejected up front rather than surfacing as a scheduler panic mid-run.
func NewDurationSampler(spec DistSpec) (*DurationSampler, error) {
	s, err := NewSampler(spec)
	if err != nil {
		return nil, err
	}
	for k, v := range spec.Params {
		if v < 0 {
			return nil, fmt.Errorf("duration parameter %q is negative (%v seconds)", k, v)
		}
	}
	return &DurationSampler{sampler: s}, nil
}

// SampleTicks draws one duration. The result is never negative.
func (d *DurationSampler) SampleTicks(rng *rand.Rand) int64 {
	seconds := d.sampler.Sample(rng)
	ticks := int64(math.Round(seconds * float64(TicksPerSecond)))
	if ticks < 0 {
		return 0
	}
	return ticks
}
