package factory

import (
	"fmt"

	"github.com/google/uuid"
)

// StepTiming records one station visit: when the unit arrived at the
// station's queue, when it was granted the station, and when the work ended.
type StepTiming struct {
	Step      BuildStep
	ArrivedAt int64
	StartedAt int64
	EndedAt   int64
}

// Wait is the queueing delay in front of the station.
func (t StepTiming) Wait() int64 {
	return t.StartedAt - t.ArrivedAt
}

// unitStateRank orders lifecycle states. Transitions only ever move to a
// higher rank; Failed is terminal and reachable from any live state.
var unitStateRank = map[UnitState]int{
	UnitQueued:   0,
	UnitBuilding: 1,
	UnitCuring:   2,
	UnitDone:     3,
	UnitFailed:   4,
}

// TyreUnit is one physical tyre moving through the line. The lifecycle
// engine is the sole writer of its mutable state; everything else reads.
type TyreUnit struct {
	Index  int
	Order  *TyreOrder
	Serial string
	State  UnitState

	Route   []BuildStep
	stepIdx int

	BuildStartedAt int64
	Steps          []StepTiming

	OvenArrivedAt int64
	CureStartedAt int64
	CureEndedAt   int64
	CureBand      Band
	Temps         map[Segment]int

	FailedAt int64
	Failure  error
}

// NewTyreUnit creates a unit in state Queued. Index is the global creation
// position used for deterministic tie-breaks; the serial is assigned later,
// when building begins.
func NewTyreUnit(order *TyreOrder, index int) *TyreUnit {
	return &TyreUnit{
		Index: index,
		Order: order,
		State: UnitQueued,
	}
}

func (u *TyreUnit) transition(to UnitState) {
	if u.State == UnitDone || u.State == UnitFailed {
		panic(fmt.Sprintf("unit %d: transition from terminal state %s to %s", u.Index, u.State, to))
	}
	if unitStateRank[to] < unitStateRank[u.State] {
		panic(fmt.Sprintf("unit %d: backwards transition %s -> %s", u.Index, u.State, to))
	}
	u.State = to
}

// BeginBuilding moves the unit onto the line: the serial identifier is
// assigned here, exactly once, and the build-start timestamp recorded.
func (u *TyreUnit) BeginBuilding(now int64, route []BuildStep) {
	if u.Serial != "" {
		panic(fmt.Sprintf("unit %d: serial already assigned (%s)", u.Index, u.Serial))
	}
	u.Serial = uuid.NewString()
	u.Route = route
	u.BuildStartedAt = now
	u.transition(UnitBuilding)
}

// CurrentStep returns the step the unit is on, or false once the route is
// exhausted.
func (u *TyreUnit) CurrentStep() (BuildStep, bool) {
	if u.stepIdx >= len(u.Route) {
		return "", false
	}
	return u.Route[u.stepIdx], true
}

// ArriveAtStep records the unit joining the current step's station queue.
func (u *TyreUnit) ArriveAtStep(now int64) {
	step, ok := u.CurrentStep()
	if !ok {
		panic(fmt.Sprintf("unit %d: arrived past end of route", u.Index))
	}
	u.Steps = append(u.Steps, StepTiming{Step: step, ArrivedAt: now})
}

// StartStep records the station grant for the current step.
func (u *TyreUnit) StartStep(now int64) {
	u.Steps[len(u.Steps)-1].StartedAt = now
}

// FinishStep closes the current step's timing and advances the route.
func (u *TyreUnit) FinishStep(now int64) {
	u.Steps[len(u.Steps)-1].EndedAt = now
	u.stepIdx++
}

// ArriveAtOven records the unit joining the curing queue.
func (u *TyreUnit) ArriveAtOven(now int64) {
	u.OvenArrivedAt = now
}

// BeginCuring records the oven grant along with the temperature readings
// and the band they classified into.
func (u *TyreUnit) BeginCuring(now int64, band Band, temps map[Segment]int) {
	u.CureStartedAt = now
	u.CureBand = band
	u.Temps = temps
	u.transition(UnitCuring)
}

// FinishCuring completes the unit.
func (u *TyreUnit) FinishCuring(now int64) {
	u.CureEndedAt = now
	u.transition(UnitDone)
}

// Fail marks the unit terminally failed, recording when and why. Other
// units are unaffected.
func (u *TyreUnit) Fail(now int64, err error) {
	u.FailedAt = now
	u.Failure = err
	u.transition(UnitFailed)
}

// OvenWait is the queueing delay in front of the oven pool.
func (u *TyreUnit) OvenWait() int64 {
	return u.CureStartedAt - u.OvenArrivedAt
}

// TotalTicks is the full wall-to-wall production time, waits included.
func (u *TyreUnit) TotalTicks() int64 {
	return u.CureEndedAt - u.BuildStartedAt
}
