package factory

import "fmt"

// InvalidOrderError rejects an order record at ingestion: a PID that does not
// resolve against the catalog, a malformed code, or a non-positive quantity.
// Orders carrying it never reach the engine.
type InvalidOrderError struct {
	PID    string
	Field  string // offending field or PID segment
	Reason string
}

func (e *InvalidOrderError) Error() string {
	return fmt.Sprintf("invalid order %s: %s: %s", e.PID, e.Field, e.Reason)
}

// TemperatureOutOfRangeError aborts a single unit when a segment reading
// falls outside the segment's full band table. Readings are never clamped.
type TemperatureOutOfRangeError struct {
	Segment Segment
	Celsius int
	Min     int
	Max     int
}

func (e *TemperatureOutOfRangeError) Error() string {
	return fmt.Sprintf("%s segment reading %d°C outside usable range %d-%d°C",
		e.Segment, e.Celsius, e.Min, e.Max)
}

// UnroutableVariantError is fatal to the run: the engine met a variant with
// no build route, which means the configured variant set and the router
// disagree. This is a configuration defect, not a data-quality problem.
type UnroutableVariantError struct {
	Variant TyreVariant
}

func (e *UnroutableVariantError) Error() string {
	return fmt.Sprintf("no build route for variant %q", e.Variant)
}

// DeadlockError is fatal to the run: an acquire/release imbalance was
// detected on a resource, violating the core contract that every holder
// releases exactly once on every exit path.
type DeadlockError struct {
	Resource string
	Detail   string
}

func (e *DeadlockError) Error() string {
	return fmt.Sprintf("resource %s: %s", e.Resource, e.Detail)
}

// RunError wraps a run-fatal failure with the unit and clock position that
// triggered it, so operators can trace the abort back to a serial and tick.
type RunError struct {
	Serial string
	PID    string
	Tick   int64
	Err    error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("simulation aborted at tick %d (serial=%s pid=%s): %v",
		e.Tick, e.Serial, e.PID, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }
