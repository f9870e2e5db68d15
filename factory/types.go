// Package factory implements the discrete-event production engine for the
// solid tyre plant: a single simulated clock, finite-capacity building
// stations, a pooled set of curing ovens, and one lifecycle process per tyre.
package factory

// Ticks are int64 milliseconds of simulated time.
const (
	TicksPerSecond int64 = 1_000
	TicksPerMinute int64 = 60_000
)

// TyreVariant identifies one of the three product families. The set is
// closed: every switch over it must be exhaustive and fail loudly on
// anything else.
type TyreVariant string

const (
	ResilientSoftBond TyreVariant = "Resilient-SoftBond"
	ResilientBasic    TyreVariant = "Resilient-Basic"
	PressOn           TyreVariant = "Press-On"
)

// SizeClass buckets tyres into the three catalog size categories.
type SizeClass string

const (
	SizeSmall  SizeClass = "Small"
	SizeMedium SizeClass = "Medium"
	SizeLarge  SizeClass = "Large"
)

// BuildStep names one manual-labor operation in the building phase.
type BuildStep string

const (
	StepWrapInnerHeal     BuildStep = "wrap_inner_heal"
	StepApplyBead         BuildStep = "apply_bead"
	StepWrapHeal          BuildStep = "wrap_heal"
	StepWrapResilientBond BuildStep = "wrap_resilient_bond"
	StepWrapPressOnBond   BuildStep = "wrap_press_on_bond"
	StepWrapSoft          BuildStep = "wrap_soft"
	StepWrapTread         BuildStep = "wrap_tread"
	StepPress             BuildStep = "press"
)

// Segment identifies a rubber compound layer with its own curing band table.
type Segment string

const (
	SegmentHeal Segment = "heal"
	SegmentSoft Segment = "soft"
)

// Band is the classification of a segment temperature reading.
type Band string

const (
	BandOptimal    Band = "optimal"
	BandAcceptable Band = "acceptable"
	BandMinimum    Band = "minimum"
)

// UnitState is the lifecycle state of a tyre unit. Transitions are strictly
// forward: Queued -> Building -> Curing -> Done, with Failed as the only
// terminal alternative.
type UnitState string

const (
	UnitQueued   UnitState = "queued"
	UnitBuilding UnitState = "building"
	UnitCuring   UnitState = "curing"
	UnitDone     UnitState = "done"
	UnitFailed   UnitState = "failed"
)

// EventType tags simulation events for deterministic same-instant ordering.
type EventType string

const (
	EventTypeDispatch     EventType = "Dispatch"
	EventTypeStepFinished EventType = "StepFinished"
	EventTypeCureFinished EventType = "CureFinished"
)

// eventTypePriority orders events that share a timestamp. Lower runs first:
// new units join station queues before releases hand slots onward, so a
// freshly dispatched unit can never overtake a waiter that queued at the
// same instant.
var eventTypePriority = map[EventType]int{
	EventTypeDispatch:     1,
	EventTypeStepFinished: 2,
	EventTypeCureFinished: 3,
}
