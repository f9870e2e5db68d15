// Package report holds the production record stream and its summary
// statistics. It has no dependency on the engine; records are plain values,
// so the package stays usable from analysis tooling.
package report

// Ticks are milliseconds of simulated time; reports display minutes.
const ticksPerMinute = 60_000

// StepRecord is one station visit. EndedAt stays zero when the shift ended
// with the unit still on the station.
type StepRecord struct {
	Step      string
	ArrivedAt int64
	StartedAt int64
	EndedAt   int64
}

// WaitTicks is the queueing delay in front of the station.
func (s StepRecord) WaitTicks() int64 {
	return s.StartedAt - s.ArrivedAt
}

// Record is the full production trace of one tyre unit, completed or not.
type Record struct {
	Serial  string
	PID     string
	Variant string
	Brand   string
	Tread   string
	Size    string
	State   string
	Failure string

	BuildStartedAt int64
	OvenArrivedAt  int64
	CureStartedAt  int64
	CureEndedAt    int64
	CureBand       string

	Steps []StepRecord
}

// Done reports whether the unit completed curing.
func (r *Record) Done() bool {
	return r.State == "done"
}

// TotalTicks is wall-to-wall production time for a completed unit.
func (r *Record) TotalTicks() int64 {
	return r.CureEndedAt - r.BuildStartedAt
}

// OvenWaitTicks is the queueing delay in front of the oven pool.
func (r *Record) OvenWaitTicks() int64 {
	return r.CureStartedAt - r.OvenArrivedAt
}

// Minutes converts ticks to display minutes.
func Minutes(ticks int64) float64 {
	return float64(ticks) / float64(ticksPerMinute)
}
