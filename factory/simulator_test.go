package factory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constantScenario pins every sampled quantity so timelines are exact:
// one minute per wrap step, two minutes on the press, optimal temperatures.
func constantScenario() *ScenarioSpec {
	scn := DefaultScenario()
	for name := range scn.Steps {
		scn.Steps[name] = DistSpec{Type: "constant", Params: map[string]float64{"value": 60}}
	}
	scn.Steps[string(StepPress)] = DistSpec{Type: "constant", Params: map[string]float64{"value": 120}}
	return scn
}

func mustOrder(t *testing.T, scn *ScenarioSpec, pid string, qty int) *TyreOrder {
	t.Helper()
	order, err := NewTyreOrder(scn.BuildCatalog(), pid, qty)
	require.NoError(t, err)
	return order
}

func TestSimulator_SingleUnitTimeline(t *testing.T) {
	scn := constantScenario()
	order := mustOrder(t, scn, "103.201.301.402", 1) // basic, medium

	sim, err := NewSimulator(scn, []*TyreOrder{order})
	require.NoError(t, err)
	result, err := sim.Run()
	require.NoError(t, err)

	require.Len(t, result.Units, 1)
	unit := result.Units[0]

	require.Equal(t, UnitDone, unit.State)
	require.Len(t, unit.Steps, 5)

	// Five uncontended steps: 60+60+60+60+120 seconds of building.
	wantStart := int64(0)
	for i, dur := range []int64{60, 60, 60, 60, 120} {
		timing := unit.Steps[i]
		assert.Equal(t, wantStart, timing.ArrivedAt)
		assert.Equal(t, wantStart, timing.StartedAt, "step %d should not wait", i)
		assert.Equal(t, wantStart+dur*TicksPerSecond, timing.EndedAt)
		wantStart = timing.EndedAt
	}

	// Curing: base 100 + optimal 0 + medium 15 minutes, no oven queue.
	assert.Equal(t, int64(360)*TicksPerSecond, unit.OvenArrivedAt)
	assert.Equal(t, int64(0), unit.OvenWait())
	assert.Equal(t, BandOptimal, unit.CureBand)
	assert.Equal(t, 95, unit.Temps[SegmentHeal])
	assert.Equal(t, unit.CureStartedAt+115*TicksPerMinute, unit.CureEndedAt)
	assert.Equal(t, 121*TicksPerMinute, unit.TotalTicks())

	// The shift runs to its end even though the line emptied early.
	assert.Equal(t, scn.ShiftMinutes*TicksPerMinute, result.Clock)
	assert.Equal(t, 1, result.Metrics.UnitsCompleted)
	assert.Equal(t, 7, result.Metrics.EventsExecuted) // dispatch + 5 steps + cure
	assert.Nil(t, sim.Pool.Stuck())
}

func TestSimulator_StationQueueingIsFIFO(t *testing.T) {
	scn := constantScenario()
	order := mustOrder(t, scn, "103.201.301.402", 2)

	sim, err := NewSimulator(scn, []*TyreOrder{order})
	require.NoError(t, err)
	result, err := sim.Run()
	require.NoError(t, err)

	require.Len(t, result.Units, 2)
	first, second := result.Units[0], result.Units[1]
	require.Equal(t, UnitDone, first.State)
	require.Equal(t, UnitDone, second.State)

	// The second unit queues behind the first only where the line is
	// actually busy: the entry station and the slower press.
	assert.Equal(t, int64(0), sumWaits(first))
	assert.Equal(t, 60*TicksPerSecond, second.Steps[0].Wait())
	assert.Equal(t, 60*TicksPerSecond, second.Steps[4].Wait())
	assert.Equal(t, int64(0), second.Steps[1].Wait())
	assert.Equal(t, int64(0), second.Steps[2].Wait())
	assert.Equal(t, int64(0), second.Steps[3].Wait())

	// Earlier arrival cures first.
	assert.Less(t, first.CureStartedAt, second.CureStartedAt)
	assert.Equal(t, 121*TicksPerMinute, first.TotalTicks())
	assert.Equal(t, 123*TicksPerMinute, second.TotalTicks())
	assert.Nil(t, sim.Pool.Stuck())
}

func TestSimulator_OvenContentionServedInCompletionOrder(t *testing.T) {
	scn := constantScenario()
	scn.Ovens = 1
	for name := range scn.Steps {
		scn.Steps[name] = DistSpec{Type: "constant", Params: map[string]float64{"value": 0}}
	}
	order := mustOrder(t, scn, "103.201.301.402", 2)

	sim, err := NewSimulator(scn, []*TyreOrder{order})
	require.NoError(t, err)
	result, err := sim.Run()
	require.NoError(t, err)

	first, second := result.Units[0], result.Units[1]
	require.Equal(t, UnitDone, first.State)
	require.Equal(t, UnitDone, second.State)

	// Both finish building at the same instant; the unit that completed
	// first takes the single oven, the other waits out the full cure.
	assert.Equal(t, first.Steps[4].EndedAt, second.Steps[4].EndedAt)
	assert.Equal(t, int64(0), first.OvenWait())
	assert.Equal(t, 115*TicksPerMinute, second.OvenWait())
	assert.Less(t, first.CureStartedAt, second.CureStartedAt)
	assert.Equal(t, 230*TicksPerMinute, second.CureEndedAt)
}

func TestSimulator_HorizonCutsOffMidCure(t *testing.T) {
	scn := constantScenario()
	scn.ShiftMinutes = 100
	order := mustOrder(t, scn, "103.201.301.402", 1)

	sim, err := NewSimulator(scn, []*TyreOrder{order})
	require.NoError(t, err)
	result, err := sim.Run()
	require.NoError(t, err)

	unit := result.Units[0]
	assert.Equal(t, UnitCuring, unit.State)
	assert.Equal(t, 0, result.Metrics.UnitsCompleted)
	assert.Equal(t, 1, result.Metrics.InProgress())
	assert.Equal(t, 100*TicksPerMinute, result.Clock)
}

func TestSimulator_TemperatureFailureIsolatesUnit(t *testing.T) {
	scn := constantScenario()
	// Heal segment reads far below its minimum band; soft stays optimal.
	scn.OvenTemperature[string(SegmentHeal)] = DistSpec{Type: "constant", Params: map[string]float64{"value": 60}}

	basic := mustOrder(t, scn, "103.201.301.402", 1)
	pressOn := mustOrder(t, scn, "102.202.302.401", 1)

	sim, err := NewSimulator(scn, []*TyreOrder{basic, pressOn})
	require.NoError(t, err)
	result, err := sim.Run()
	require.NoError(t, err, "a unit failure must not abort the run")

	basicUnit, pressUnit := result.Units[0], result.Units[1]

	require.Equal(t, UnitFailed, basicUnit.State)
	var tempErr *TemperatureOutOfRangeError
	require.True(t, errors.As(basicUnit.Failure, &tempErr))
	assert.Equal(t, SegmentHeal, tempErr.Segment)
	assert.Equal(t, 60, tempErr.Celsius)
	assert.Equal(t, basicUnit.OvenArrivedAt, basicUnit.FailedAt)

	// The press-on unit only cures its soft segment and sails through.
	assert.Equal(t, UnitDone, pressUnit.State)
	assert.Equal(t, 1, result.Metrics.UnitsFailed)
	assert.Equal(t, 1, result.Metrics.UnitsCompleted)

	// The failed unit's oven slot came back.
	assert.Equal(t, 0, sim.Pool.Ovens().InUse())
}

func TestSimulator_DeterministicReplay(t *testing.T) {
	runOnce := func() *Result {
		scn := DefaultScenario()
		orderList := []*TyreOrder{
			mustOrder(t, scn, "101.201.301.403", 2),
			mustOrder(t, scn, "102.202.302.401", 2),
			mustOrder(t, scn, "103.203.303.402", 3),
		}
		sim, err := NewSimulator(scn, orderList)
		require.NoError(t, err)
		result, err := sim.Run()
		require.NoError(t, err)
		return result
	}

	a := runOnce()
	b := runOnce()

	require.Equal(t, len(a.Units), len(b.Units))
	assert.Equal(t, a.Clock, b.Clock)
	for i := range a.Units {
		ua, ub := a.Units[i], b.Units[i]
		assert.Equal(t, ua.State, ub.State, "unit %d state", i)
		assert.Equal(t, ua.BuildStartedAt, ub.BuildStartedAt, "unit %d build start", i)
		assert.Equal(t, ua.Steps, ub.Steps, "unit %d step timings", i)
		assert.Equal(t, ua.CureStartedAt, ub.CureStartedAt, "unit %d cure start", i)
		assert.Equal(t, ua.CureEndedAt, ub.CureEndedAt, "unit %d cure end", i)
		assert.Equal(t, ua.CureBand, ub.CureBand, "unit %d band", i)
		assert.Equal(t, ua.Temps, ub.Temps, "unit %d temps", i)
	}
}

func TestSimulator_SerialsUniqueAcrossRuns(t *testing.T) {
	seen := make(map[string]bool)
	for _, seed := range []int64{1, 2} {
		scn := constantScenario()
		scn.Seed = seed
		order := mustOrder(t, scn, "103.201.301.402", 3)
		sim, err := NewSimulator(scn, []*TyreOrder{order})
		require.NoError(t, err)
		result, err := sim.Run()
		require.NoError(t, err)

		for _, unit := range result.Units {
			require.NotEmpty(t, unit.Serial)
			require.False(t, seen[unit.Serial], "serial %s repeated", unit.Serial)
			seen[unit.Serial] = true
		}
	}
}

func TestSimulator_UnroutableVariantAbortsRun(t *testing.T) {
	scn := constantScenario()
	bogus := &TyreOrder{
		PID:      "101.201.301.403",
		Variant:  TyreVariant("Radial"),
		Brand:    "Duratrac",
		Tread:    "Smooth",
		Size:     SizeLarge,
		Quantity: 1,
	}

	sim, err := NewSimulator(scn, []*TyreOrder{bogus})
	require.NoError(t, err)

	_, err = sim.Run()
	require.Error(t, err)

	var runErr *RunError
	require.True(t, errors.As(err, &runErr))
	var routeErr *UnroutableVariantError
	assert.True(t, errors.As(err, &routeErr))
	assert.Equal(t, "101.201.301.403", runErr.PID)
}

func TestSimulator_UnboundedRunDrainsBacklog(t *testing.T) {
	scn := constantScenario()
	scn.ShiftMinutes = 0
	order := mustOrder(t, scn, "103.201.301.402", 2)

	sim, err := NewSimulator(scn, []*TyreOrder{order})
	require.NoError(t, err)
	result, err := sim.Run()
	require.NoError(t, err)

	for _, unit := range result.Units {
		assert.Equal(t, UnitDone, unit.State)
	}
	assert.Equal(t, 123*TicksPerMinute, result.Clock)
}

func TestNewSimulator_RejectsBadScenario(t *testing.T) {
	scn := constantScenario()
	scn.Ovens = 0
	_, err := NewSimulator(scn, nil)
	assert.Error(t, err)
}

func sumWaits(u *TyreUnit) int64 {
	var total int64
	for _, step := range u.Steps {
		total += step.Wait()
	}
	return total
}
