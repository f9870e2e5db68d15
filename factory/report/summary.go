package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// CuringWaitKey names the oven queue in per-station wait statistics,
// alongside the build-step station names.
const CuringWaitKey = "curing"

// OverallStats aggregates whole-run production numbers. Times are minutes.
type OverallStats struct {
	Produced int
	Failed   int
	CutOff   int
	AvgTime  float64
	MinTime  float64
	MaxTime  float64
	P50Time  float64
	P95Time  float64
	SimTime  float64
}

// TypeStats aggregates production times for one tyre variant. Times are
// minutes.
type TypeStats struct {
	Count   int
	AvgTime float64
	MinTime float64
	MaxTime float64
}

// StationStats aggregates queueing delay in front of one resource. Times
// are minutes.
type StationStats struct {
	Samples   int
	AvgWait   float64
	MaxWait   float64
	P95Wait   float64
	TotalWait float64
}

// Summary is the rendered insight set of one run: overall throughput,
// per-variant production times and per-station waits. Only completed units
// contribute to timing statistics; failed and cut-off units appear in the
// counts alone.
type Summary struct {
	Overall  OverallStats
	ByType   map[string]*TypeStats
	Stations map[string]*StationStats

	typeOrder    []string
	stationOrder []string
}

// Summarize computes aggregate statistics from the record stream. Safe for
// an empty stream: all sections come back zero-valued.
func Summarize(records []*Record, clock int64) *Summary {
	s := &Summary{
		ByType:   make(map[string]*TypeStats),
		Stations: make(map[string]*StationStats),
	}
	s.Overall.SimTime = Minutes(clock)

	var totals []float64
	typeTimes := make(map[string][]float64)
	stationWaits := make(map[string][]float64)

	for _, r := range records {
		switch r.State {
		case "done":
		case "failed":
			s.Overall.Failed++
			continue
		default:
			s.Overall.CutOff++
			continue
		}

		s.Overall.Produced++
		total := Minutes(r.TotalTicks())
		totals = append(totals, total)

		if _, ok := typeTimes[r.Variant]; !ok {
			s.typeOrder = append(s.typeOrder, r.Variant)
		}
		typeTimes[r.Variant] = append(typeTimes[r.Variant], total)

		for _, step := range r.Steps {
			if _, ok := stationWaits[step.Step]; !ok {
				s.stationOrder = append(s.stationOrder, step.Step)
			}
			stationWaits[step.Step] = append(stationWaits[step.Step], Minutes(step.WaitTicks()))
		}
		if _, ok := stationWaits[CuringWaitKey]; !ok {
			s.stationOrder = append(s.stationOrder, CuringWaitKey)
		}
		stationWaits[CuringWaitKey] = append(stationWaits[CuringWaitKey], Minutes(r.OvenWaitTicks()))
	}

	if len(totals) > 0 {
		sorted := append([]float64(nil), totals...)
		sort.Float64s(sorted)
		s.Overall.AvgTime = stat.Mean(sorted, nil)
		s.Overall.MinTime = sorted[0]
		s.Overall.MaxTime = sorted[len(sorted)-1]
		s.Overall.P50Time = stat.Quantile(0.50, stat.Empirical, sorted, nil)
		s.Overall.P95Time = stat.Quantile(0.95, stat.Empirical, sorted, nil)
	}

	for variant, times := range typeTimes {
		sorted := append([]float64(nil), times...)
		sort.Float64s(sorted)
		s.ByType[variant] = &TypeStats{
			Count:   len(sorted),
			AvgTime: stat.Mean(sorted, nil),
			MinTime: sorted[0],
			MaxTime: sorted[len(sorted)-1],
		}
	}

	for station, waits := range stationWaits {
		sorted := append([]float64(nil), waits...)
		sort.Float64s(sorted)
		var total float64
		for _, w := range sorted {
			total += w
		}
		s.Stations[station] = &StationStats{
			Samples:   len(sorted),
			AvgWait:   stat.Mean(sorted, nil),
			MaxWait:   sorted[len(sorted)-1],
			P95Wait:   stat.Quantile(0.95, stat.Empirical, sorted, nil),
			TotalWait: total,
		}
	}

	return s
}

// Render writes the summary in the shift-report layout.
func (s *Summary) Render(w io.Writer) {
	fmt.Fprintf(w, "=== SIMULATION INSIGHTS ===\n\n")

	fmt.Fprintf(w, "OVERALL STATISTICS:\n")
	fmt.Fprintf(w, "Total tyres produced : %d\n", s.Overall.Produced)
	if s.Overall.Failed > 0 {
		fmt.Fprintf(w, "Failed units         : %d\n", s.Overall.Failed)
	}
	if s.Overall.CutOff > 0 {
		fmt.Fprintf(w, "Cut off at shift end : %d\n", s.Overall.CutOff)
	}
	if s.Overall.Produced > 0 {
		fmt.Fprintf(w, "Average production   : %.2f minutes\n", s.Overall.AvgTime)
		fmt.Fprintf(w, "Fastest production   : %.2f minutes\n", s.Overall.MinTime)
		fmt.Fprintf(w, "Slowest production   : %.2f minutes\n", s.Overall.MaxTime)
		fmt.Fprintf(w, "Median production    : %.2f minutes\n", s.Overall.P50Time)
		fmt.Fprintf(w, "p95 production       : %.2f minutes\n", s.Overall.P95Time)
	}
	fmt.Fprintf(w, "Total simulation time: %.2f minutes\n", s.Overall.SimTime)

	if len(s.typeOrder) > 0 {
		fmt.Fprintf(w, "\nPRODUCTION BY TYRE TYPE:\n")
		for _, variant := range s.typeOrder {
			t := s.ByType[variant]
			fmt.Fprintf(w, "\n%s:\n", variant)
			fmt.Fprintf(w, "  Quantity produced: %d\n", t.Count)
			fmt.Fprintf(w, "  Average time: %.2f minutes\n", t.AvgTime)
			fmt.Fprintf(w, "  Range: %.2f - %.2f minutes\n", t.MinTime, t.MaxTime)
		}
	}

	if len(s.stationOrder) > 0 {
		fmt.Fprintf(w, "\nSTATION STATISTICS:\n")
		for _, station := range s.stationOrder {
			st := s.Stations[station]
			fmt.Fprintf(w, "\n%s:\n", titleWords(station))
			fmt.Fprintf(w, "  Average wait: %.2f minutes\n", st.AvgWait)
			fmt.Fprintf(w, "  Maximum wait: %.2f minutes\n", st.MaxWait)
			fmt.Fprintf(w, "  p95 wait: %.2f minutes\n", st.P95Wait)
			fmt.Fprintf(w, "  Total wait time: %.2f minutes\n", st.TotalWait)
		}
	}
}

// titleWords turns a snake_case resource name into a display heading.
func titleWords(name string) string {
	words := strings.Split(name, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
