package factory

import "sync/atomic"

// Global event ID counter for deterministic tie-breaking. IDs only ever
// compare against other IDs in the same heap, so creation order is what
// matters, not absolute values.
var globalEventID uint64

// Event is one scheduled occurrence on the simulation clock.
type Event interface {
	Timestamp() int64
	EventID() uint64
	Type() EventType
	Execute(sim *Simulator)
}

// BaseEvent provides common event fields.
type BaseEvent struct {
	timestamp int64
	eventID   uint64
	eventType EventType
}

func newBaseEvent(timestamp int64, eventType EventType) BaseEvent {
	return BaseEvent{
		timestamp: timestamp,
		eventID:   atomic.AddUint64(&globalEventID, 1),
		eventType: eventType,
	}
}

func (e *BaseEvent) Timestamp() int64 {
	return e.timestamp
}

func (e *BaseEvent) EventID() uint64 {
	return e.eventID
}

func (e *BaseEvent) Type() EventType {
	return e.eventType
}

// DispatchEvent releases a queued unit onto the line: serial assignment,
// route resolution and the first station request all happen here.
type DispatchEvent struct {
	BaseEvent
	Unit *TyreUnit
}

func NewDispatchEvent(timestamp int64, unit *TyreUnit) *DispatchEvent {
	return &DispatchEvent{
		BaseEvent: newBaseEvent(timestamp, EventTypeDispatch),
		Unit:      unit,
	}
}

func (e *DispatchEvent) Execute(sim *Simulator) {
	sim.handleDispatch(e)
}

// StepFinishedEvent fires when a unit's sampled work time on a station
// elapses. Executing it releases the station and moves the unit onward.
type StepFinishedEvent struct {
	BaseEvent
	Unit *TyreUnit
	Step BuildStep
}

func NewStepFinishedEvent(timestamp int64, unit *TyreUnit, step BuildStep) *StepFinishedEvent {
	return &StepFinishedEvent{
		BaseEvent: newBaseEvent(timestamp, EventTypeStepFinished),
		Unit:      unit,
		Step:      step,
	}
}

func (e *StepFinishedEvent) Execute(sim *Simulator) {
	sim.handleStepFinished(e)
}

// CureFinishedEvent fires when a unit's computed oven time elapses.
// Executing it releases the oven slot and completes the unit.
type CureFinishedEvent struct {
	BaseEvent
	Unit *TyreUnit
}

func NewCureFinishedEvent(timestamp int64, unit *TyreUnit) *CureFinishedEvent {
	return &CureFinishedEvent{
		BaseEvent: newBaseEvent(timestamp, EventTypeCureFinished),
		Unit:      unit,
	}
}

func (e *CureFinishedEvent) Execute(sim *Simulator) {
	sim.handleCureFinished(e)
}
