package factory

// tempBandTable holds the inclusive Celsius boundaries of the three curing
// bands for one oven segment. Bands are contiguous: minimum runs up to the
// acceptable floor, acceptable up to the optimal floor.
type tempBandTable struct {
	minFloor int
	accFloor int
	optFloor int
	optCeil  int
}

var segmentBands = map[Segment]tempBandTable{
	SegmentHeal: {minFloor: 70, accFloor: 80, optFloor: 90, optCeil: 100},
	SegmentSoft: {minFloor: 80, accFloor: 90, optFloor: 100, optCeil: 110},
}

// ClassifyTemperature maps a segment temperature reading onto its curing
// band. Readings outside the segment's full envelope are a unit-fatal
// TemperatureOutOfRangeError.
func ClassifyTemperature(seg Segment, celsius int) (Band, error) {
	table, ok := segmentBands[seg]
	if !ok {
		return "", &TemperatureOutOfRangeError{Segment: seg, Celsius: celsius}
	}
	switch {
	case celsius >= table.optFloor && celsius <= table.optCeil:
		return BandOptimal, nil
	case celsius >= table.accFloor:
		return BandAcceptable, nil
	case celsius >= table.minFloor:
		return BandMinimum, nil
	default:
		return "", &TemperatureOutOfRangeError{
			Segment: seg,
			Celsius: celsius,
			Min:     table.minFloor,
			Max:     table.optCeil,
		}
	}
}

// bandSeverity orders bands from best to worst cure quality.
var bandSeverity = map[Band]int{
	BandOptimal:    0,
	BandAcceptable: 1,
	BandMinimum:    2,
}

// WorseBand returns whichever band cures slower. A dual-segment tyre is
// priced at its weakest segment.
func WorseBand(a, b Band) Band {
	if bandSeverity[b] > bandSeverity[a] {
		return b
	}
	return a
}

// CuringSegments lists the oven segments a variant's compound touches.
// Soft-bond tyres cure across both segments and take the worse band.
func CuringSegments(v TyreVariant) []Segment {
	switch v {
	case ResilientSoftBond:
		return []Segment{SegmentHeal, SegmentSoft}
	case ResilientBasic:
		return []Segment{SegmentHeal}
	case PressOn:
		return []Segment{SegmentSoft}
	default:
		return nil
	}
}

// CuringPolicy computes oven occupancy from variant, size and the band the
// segment temperatures land in. All components are whole minutes.
type CuringPolicy struct {
	baseMinutes map[TyreVariant]int64
	bandMinutes map[Band]int64
	sizeMinutes map[SizeClass]int64
}

// DefaultCuringPolicy returns the production duration table.
func DefaultCuringPolicy() *CuringPolicy {
	return &CuringPolicy{
		baseMinutes: map[TyreVariant]int64{
			ResilientSoftBond: 120,
			ResilientBasic:    100,
			PressOn:           90,
		},
		bandMinutes: map[Band]int64{
			BandOptimal:    0,
			BandAcceptable: 20,
			BandMinimum:    40,
		},
		sizeMinutes: map[SizeClass]int64{
			SizeSmall:  0,
			SizeMedium: 15,
			SizeLarge:  30,
		},
	}
}

// Duration classifies every segment the variant touches against the given
// readings, folds multi-segment variants to the worse band, and returns the
// total curing time in ticks along with the effective band. Out-of-range
// readings propagate as TemperatureOutOfRangeError; the caller fails the
// unit, never the run.
func (p *CuringPolicy) Duration(variant TyreVariant, size SizeClass, temps map[Segment]int) (int64, Band, error) {
	segments := CuringSegments(variant)
	if len(segments) == 0 {
		return 0, "", &UnroutableVariantError{Variant: variant}
	}

	var effective Band
	for i, seg := range segments {
		band, err := ClassifyTemperature(seg, temps[seg])
		if err != nil {
			return 0, "", err
		}
		if i == 0 {
			effective = band
		} else {
			effective = WorseBand(effective, band)
		}
	}

	minutes := p.baseMinutes[variant] + p.bandMinutes[effective] + p.sizeMinutes[size]
	return minutes * TicksPerMinute, effective, nil
}
