package factory

// Metrics accumulates run-level counters while the simulation executes.
// Per-unit timings live on the units themselves; this only tracks totals
// and resource occupancy.
type Metrics struct {
	UnitsCreated    int
	UnitsDispatched int
	UnitsCompleted  int
	UnitsFailed     int
	EventsExecuted  int

	// BusyTicks sums slot occupancy per resource name. Utilization is
	// busy time over capacity times elapsed clock.
	BusyTicks map[string]int64
}

func NewMetrics() *Metrics {
	return &Metrics{BusyTicks: make(map[string]int64)}
}

// AddBusy charges ticks of slot occupancy to a resource.
func (m *Metrics) AddBusy(resource string, ticks int64) {
	m.BusyTicks[resource] += ticks
}

// Utilization returns the fraction of a resource's total slot time spent
// occupied, in [0, 1] for a well-formed run.
func (m *Metrics) Utilization(resource string, capacity int, clock int64) float64 {
	if capacity <= 0 || clock <= 0 {
		return 0
	}
	return float64(m.BusyTicks[resource]) / (float64(capacity) * float64(clock))
}

// InProgress is the number of units dispatched but not yet terminal, which
// after a horizon-bounded run means units cut off mid-line.
func (m *Metrics) InProgress() int {
	return m.UnitsDispatched - m.UnitsCompleted - m.UnitsFailed
}
