package factory

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Simulator drives every tyre unit through building and curing on a single
// simulated clock. All mutation happens inside event handlers; the run loop
// is strictly single-threaded.
type Simulator struct {
	Pool       *ResourcePool
	EventQueue *EventHeap
	Clock      int64
	Horizon    int64 // ticks; 0 means run until the queue drains

	Units   []*TyreUnit
	Metrics *Metrics

	RNG          *PartitionedRNG
	stepSamplers map[BuildStep]*DurationSampler
	tempSamplers map[Segment]Sampler
	curing       *CuringPolicy

	fatal error
}

// NewSimulator compiles a scenario into a ready-to-run simulator: resource
// pool sized from the scenario, duration and temperature samplers built
// from its distributions, and one dispatch event per unit scheduled at tick
// zero in order-arrival sequence.
func NewSimulator(scn *ScenarioSpec, orders []*TyreOrder) (*Simulator, error) {
	if err := scn.Validate(); err != nil {
		return nil, err
	}

	stepSamplers := make(map[BuildStep]*DurationSampler, len(AllBuildSteps()))
	for _, step := range AllBuildSteps() {
		spec, ok := scn.Steps[string(step)]
		if !ok {
			return nil, fmt.Errorf("scenario has no duration distribution for step %s", step)
		}
		sampler, err := NewDurationSampler(spec)
		if err != nil {
			return nil, fmt.Errorf("step %s: %w", step, err)
		}
		stepSamplers[step] = sampler
	}

	tempSamplers := make(map[Segment]Sampler, 2)
	for _, seg := range []Segment{SegmentHeal, SegmentSoft} {
		spec, ok := scn.OvenTemperature[string(seg)]
		if !ok {
			return nil, fmt.Errorf("scenario has no temperature distribution for segment %s", seg)
		}
		sampler, err := NewSampler(spec)
		if err != nil {
			return nil, fmt.Errorf("segment %s temperature: %w", seg, err)
		}
		tempSamplers[seg] = sampler
	}

	s := &Simulator{
		Pool:         NewResourcePool(scn.Ovens),
		EventQueue:   NewEventHeap(),
		Horizon:      scn.ShiftMinutes * TicksPerMinute,
		Metrics:      NewMetrics(),
		RNG:          NewPartitionedRNG(scn.Seed),
		stepSamplers: stepSamplers,
		tempSamplers: tempSamplers,
		curing:       DefaultCuringPolicy(),
	}

	s.Units = ExpandOrders(orders)
	s.Metrics.UnitsCreated = len(s.Units)
	for _, unit := range s.Units {
		s.ScheduleEvent(NewDispatchEvent(0, unit))
	}
	return s, nil
}

// ScheduleEvent adds an event to the event queue.
func (s *Simulator) ScheduleEvent(e Event) {
	s.EventQueue.Schedule(e)
}

// Result is the terminal state of one run.
type Result struct {
	Clock   int64
	Units   []*TyreUnit
	Metrics *Metrics
}

// Run executes events until the horizon passes, the queue drains, or a
// run-fatal error surfaces. Per-unit failures are recorded on the unit and
// never stop the run.
func (s *Simulator) Run() (*Result, error) {
	logrus.Infof("starting run: %d units, %d ovens, horizon %d ticks",
		len(s.Units), s.Pool.Ovens().Capacity(), s.Horizon)

	for s.EventQueue.Len() > 0 {
		event := s.EventQueue.PopNext()

		if s.Horizon > 0 && event.Timestamp() > s.Horizon {
			break
		}

		if event.Timestamp() < s.Clock {
			panic(fmt.Sprintf("clock went backwards: %d < %d", event.Timestamp(), s.Clock))
		}
		s.Clock = event.Timestamp()

		logrus.Debugf("[tick %07d] executing %T", s.Clock, event)
		event.Execute(s)
		s.Metrics.EventsExecuted++

		if s.fatal != nil {
			logrus.Errorf("[tick %07d] run aborted: %v", s.Clock, s.fatal)
			return nil, s.fatal
		}
	}

	if s.Horizon > 0 && s.Clock < s.Horizon {
		// The shift runs to its end even if the line empties early.
		s.Clock = s.Horizon
	}

	if s.Horizon == 0 {
		if err := s.checkDrained(); err != nil {
			return nil, err
		}
	}

	logrus.Infof("[tick %07d] simulation ended: %d done, %d failed, %d cut off",
		s.Clock, s.Metrics.UnitsCompleted, s.Metrics.UnitsFailed, s.Metrics.InProgress())

	return &Result{Clock: s.Clock, Units: s.Units, Metrics: s.Metrics}, nil
}

// checkDrained verifies that an unbounded run left no unit mid-line. A unit
// stranded with an empty event queue means an acquire without a matching
// release, which is a core contract violation.
func (s *Simulator) checkDrained() error {
	for _, unit := range s.Units {
		if unit.State != UnitDone && unit.State != UnitFailed {
			stuck := s.Pool.Stuck()
			return &RunError{
				Serial: unit.Serial,
				PID:    unit.Order.PID,
				Tick:   s.Clock,
				Err: &DeadlockError{
					Resource: fmt.Sprintf("%v", stuck),
					Detail:   fmt.Sprintf("event queue drained with unit in state %s", unit.State),
				},
			}
		}
	}
	return nil
}

// Event handlers

func (s *Simulator) handleDispatch(e *DispatchEvent) {
	unit := e.Unit
	route, err := RouteFor(unit.Order.Variant)
	if err != nil {
		s.abort(unit, err)
		return
	}
	unit.BeginBuilding(e.Timestamp(), route)
	s.Metrics.UnitsDispatched++
	logrus.Debugf("[tick %07d] dispatched %s (%s)", e.Timestamp(), unit.Serial, unit.Order.Variant)
	s.enterStep(unit, e.Timestamp())
}

func (s *Simulator) handleStepFinished(e *StepFinishedEvent) {
	unit := e.Unit
	now := e.Timestamp()
	unit.FinishStep(now)

	station := s.Pool.Station(e.Step)
	next, err := station.Release()
	if err != nil {
		s.abort(unit, err)
		return
	}
	if next != nil {
		s.startWork(next, now)
	}

	if _, more := unit.CurrentStep(); more {
		s.enterStep(unit, now)
		return
	}

	unit.ArriveAtOven(now)
	if s.Pool.Ovens().Request(unit) {
		s.startCuring(unit, now)
	}
}

func (s *Simulator) handleCureFinished(e *CureFinishedEvent) {
	unit := e.Unit
	now := e.Timestamp()
	unit.FinishCuring(now)
	s.Metrics.UnitsCompleted++
	logrus.Debugf("[tick %07d] completed %s after %d ticks", now, unit.Serial, unit.TotalTicks())

	s.releaseOven(unit, now)
}

// enterStep queues the unit at its current step's station and starts work
// immediately when a slot is free.
func (s *Simulator) enterStep(unit *TyreUnit, now int64) {
	step, ok := unit.CurrentStep()
	if !ok {
		panic(fmt.Sprintf("unit %d entered a step past its route", unit.Index))
	}
	unit.ArriveAtStep(now)
	if s.Pool.Station(step).Request(unit) {
		s.startWork(unit, now)
	}
}

// startWork begins a granted unit's station time and schedules its finish.
// Called both on an immediate grant and when a release hands the slot over.
func (s *Simulator) startWork(unit *TyreUnit, now int64) {
	step, ok := unit.CurrentStep()
	if !ok {
		panic(fmt.Sprintf("unit %d granted a station past its route", unit.Index))
	}
	unit.StartStep(now)
	name := StationName(step)
	ticks := s.stepSamplers[step].SampleTicks(s.RNG.ForSubsystem(name))
	s.Metrics.AddBusy(name, s.busyWithinHorizon(now, ticks))
	s.ScheduleEvent(NewStepFinishedEvent(now+ticks, unit, step))
}

// startCuring begins a granted unit's oven time: temperatures are sampled
// here, classified, and the computed duration scheduled. An out-of-range
// reading fails only this unit and frees the slot for the next waiter.
func (s *Simulator) startCuring(unit *TyreUnit, now int64) {
	variant := unit.Order.Variant
	temps := make(map[Segment]int, 2)
	for _, seg := range CuringSegments(variant) {
		v := s.tempSamplers[seg].Sample(s.RNG.ForSubsystem(SubsystemOven))
		temps[seg] = int(math.Round(v))
	}

	ticks, band, err := s.curing.Duration(variant, unit.Order.Size, temps)
	if err != nil {
		var tempErr *TemperatureOutOfRangeError
		if errors.As(err, &tempErr) {
			s.failUnit(unit, now, err)
			s.releaseOven(unit, now)
			return
		}
		s.abort(unit, err)
		return
	}

	unit.BeginCuring(now, band, temps)
	s.Metrics.AddBusy(OvenResourceName, s.busyWithinHorizon(now, ticks))
	s.ScheduleEvent(NewCureFinishedEvent(now+ticks, unit))
}

// busyWithinHorizon truncates an occupancy charge at the shift end, so
// utilization stays an in-shift fraction even for work cut off mid-flight.
func (s *Simulator) busyWithinHorizon(now, ticks int64) int64 {
	if s.Horizon > 0 && now+ticks > s.Horizon {
		return s.Horizon - now
	}
	return ticks
}

// releaseOven frees one oven slot and, if someone is waiting, starts their
// cure at the same instant.
func (s *Simulator) releaseOven(unit *TyreUnit, now int64) {
	next, err := s.Pool.Ovens().Release()
	if err != nil {
		s.abort(unit, err)
		return
	}
	if next != nil {
		s.startCuring(next, now)
	}
}

// failUnit terminates one unit without touching the rest of the line.
func (s *Simulator) failUnit(unit *TyreUnit, now int64, err error) {
	unit.Fail(now, err)
	s.Metrics.UnitsFailed++
	logrus.Warnf("[tick %07d] unit %s (pid %s) failed: %v", now, unit.Serial, unit.Order.PID, err)
}

// abort flags a run-fatal error. The run loop stops after the current
// event; the error carries the triggering unit and clock position.
func (s *Simulator) abort(unit *TyreUnit, err error) {
	s.fatal = &RunError{
		Serial: unit.Serial,
		PID:    unit.Order.PID,
		Tick:   s.Clock,
		Err:    err,
	}
}
