package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// WriteCSV exports the record stream for downstream analysis: one row per
// unit with its identity, lifecycle timestamps in minutes, and one wait
// column per station the stream touched (first-seen order), oven queue
// included.
func WriteCSV(records []*Record, path string) error {
	var stations []string
	seen := make(map[string]bool)
	for _, r := range records {
		for _, step := range r.Steps {
			if !seen[step.Step] {
				seen[step.Step] = true
				stations = append(stations, step.Step)
			}
		}
	}
	if len(records) > 0 && !seen[CuringWaitKey] {
		stations = append(stations, CuringWaitKey)
	}

	header := []string{
		"serial", "pid", "variant", "brand", "tread", "size", "state",
		"build_start_min", "cure_start_min", "cure_end_min", "total_min", "cure_band", "failure",
	}
	for _, station := range stations {
		header = append(header, station+"_wait_min")
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating records file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing records header: %w", err)
	}

	for _, r := range records {
		cureStart, cureEnd, total := "", "", ""
		if r.State == "curing" || r.Done() {
			cureStart = minutes(r.CureStartedAt)
		}
		if r.Done() {
			cureEnd = minutes(r.CureEndedAt)
			total = minutes(r.TotalTicks())
		}
		row := []string{
			r.Serial,
			r.PID,
			r.Variant,
			r.Brand,
			r.Tread,
			r.Size,
			r.State,
			minutes(r.BuildStartedAt),
			cureStart,
			cureEnd,
			total,
			r.CureBand,
			r.Failure,
		}
		waits := make(map[string]string, len(r.Steps)+1)
		for _, step := range r.Steps {
			if step.StartedAt >= step.ArrivedAt && step.EndedAt > 0 {
				waits[step.Step] = minutes(step.WaitTicks())
			}
		}
		if r.Done() {
			waits[CuringWaitKey] = minutes(r.OvenWaitTicks())
		}
		for _, station := range stations {
			row = append(row, waits[station])
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing record for %s: %w", r.Serial, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing records file: %w", err)
	}
	return nil
}

func minutes(ticks int64) string {
	return strconv.FormatFloat(Minutes(ticks), 'f', 2, 64)
}
