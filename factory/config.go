package factory

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ScenarioSpec is the top-level run configuration. Loaded from YAML via
// LoadScenario(path); every field has a production default, so a scenario
// file only states what it changes.
type ScenarioSpec struct {
	Seed         int64      `yaml:"seed"`
	ShiftMinutes int64      `yaml:"shift_minutes"` // 0 runs until the order backlog drains
	Ovens        int        `yaml:"ovens"`
	VariantSet   VariantSet `yaml:"variant_set"`

	// Steps overrides per-step building-duration distributions, keyed by
	// step name. Parameters are seconds.
	Steps map[string]DistSpec `yaml:"steps,omitempty"`

	// OvenTemperature gives the per-segment reading distributions, keyed
	// "heal" and "soft". Parameters are degrees Celsius.
	OvenTemperature map[string]DistSpec `yaml:"oven_temperature,omitempty"`

	Catalog CatalogSpec `yaml:"catalog,omitempty"`
}

// CatalogSpec carries the open-ended code lookup tables. Size values must
// be one of the three catalog size classes.
type CatalogSpec struct {
	Brands map[string]string `yaml:"brands,omitempty"`
	Treads map[string]string `yaml:"treads,omitempty"`
	Sizes  map[string]string `yaml:"sizes,omitempty"`
}

// DefaultScenario returns the production defaults: a 480-minute shift, 12
// ovens, the three-variant catalog, documented station timing ranges and
// in-band constant oven temperatures.
func DefaultScenario() *ScenarioSpec {
	return &ScenarioSpec{
		Seed:         42,
		ShiftMinutes: 480,
		Ovens:        12,
		VariantSet:   VariantSetThree,
		Steps: map[string]DistSpec{
			string(StepWrapInnerHeal):     {Type: "uniform", Params: map[string]float64{"min": 40, "max": 50}},
			string(StepApplyBead):         {Type: "uniform", Params: map[string]float64{"min": 45, "max": 55}},
			string(StepWrapHeal):          {Type: "uniform", Params: map[string]float64{"min": 45, "max": 55}},
			string(StepWrapResilientBond): {Type: "uniform", Params: map[string]float64{"min": 45, "max": 55}},
			string(StepWrapPressOnBond):   {Type: "uniform", Params: map[string]float64{"min": 45, "max": 55}},
			string(StepWrapSoft):          {Type: "uniform", Params: map[string]float64{"min": 45, "max": 55}},
			string(StepWrapTread):         {Type: "uniform", Params: map[string]float64{"min": 45, "max": 55}},
			string(StepPress):             {Type: "uniform", Params: map[string]float64{"min": 120, "max": 300}},
		},
		OvenTemperature: map[string]DistSpec{
			string(SegmentHeal): {Type: "constant", Params: map[string]float64{"value": 95}},
			string(SegmentSoft): {Type: "constant", Params: map[string]float64{"value": 105}},
		},
		Catalog: CatalogSpec{
			Brands: map[string]string{
				"201": "Duratrac",
				"202": "Roadgrip",
				"203": "Apex",
			},
			Treads: map[string]string{
				"301": "Smooth",
				"302": "Ribbed",
				"303": "Lug",
			},
			Sizes: map[string]string{
				"401": string(SizeSmall),
				"402": string(SizeMedium),
				"403": string(SizeLarge),
			},
		},
	}
}

// LoadScenario reads a YAML scenario over the defaults. Map-valued sections
// merge per key, so overriding one step's distribution leaves the others at
// their documented ranges. Unknown fields are an error.
func LoadScenario(path string) (*ScenarioSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	spec := DefaultScenario()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(spec); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// Validate checks that all fields in the spec are valid.
func (s *ScenarioSpec) Validate() error {
	if s.ShiftMinutes < 0 {
		return fmt.Errorf("shift_minutes must be >= 0, got %d", s.ShiftMinutes)
	}
	if s.Ovens < 1 {
		return fmt.Errorf("ovens must be >= 1, got %d", s.Ovens)
	}
	if s.VariantSet != VariantSetTwo && s.VariantSet != VariantSetThree {
		return fmt.Errorf("unknown variant_set %q; valid: two, three", s.VariantSet)
	}
	for _, step := range AllBuildSteps() {
		if _, ok := s.Steps[string(step)]; !ok {
			return fmt.Errorf("steps: missing distribution for %s", step)
		}
	}
	for name := range s.Steps {
		if !isKnownStep(name) {
			return fmt.Errorf("steps: unknown step %q", name)
		}
	}
	for _, seg := range []Segment{SegmentHeal, SegmentSoft} {
		if _, ok := s.OvenTemperature[string(seg)]; !ok {
			return fmt.Errorf("oven_temperature: missing distribution for segment %s", seg)
		}
	}
	for name := range s.OvenTemperature {
		if name != string(SegmentHeal) && name != string(SegmentSoft) {
			return fmt.Errorf("oven_temperature: unknown segment %q", name)
		}
	}
	for code, class := range s.Catalog.Sizes {
		switch SizeClass(class) {
		case SizeSmall, SizeMedium, SizeLarge:
		default:
			return fmt.Errorf("catalog.sizes[%s]: unknown size class %q", code, class)
		}
	}
	return nil
}

func isKnownStep(name string) bool {
	for _, step := range AllBuildSteps() {
		if name == string(step) {
			return true
		}
	}
	return false
}

// BuildCatalog converts the spec's lookup tables into a resolved catalog
// for the configured variant set.
func (s *ScenarioSpec) BuildCatalog() *Catalog {
	sizes := make(map[string]SizeClass, len(s.Catalog.Sizes))
	for code, class := range s.Catalog.Sizes {
		sizes[code] = SizeClass(class)
	}
	return NewCatalog(s.VariantSet, s.Catalog.Brands, s.Catalog.Treads, sizes)
}
