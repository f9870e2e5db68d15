package factory

import (
	"errors"
	"testing"
)

func TestResource_ImmediateGrantWithinCapacity(t *testing.T) {
	r := NewResource("press", 2)
	u1 := &TyreUnit{Index: 1}
	u2 := &TyreUnit{Index: 2}

	if !r.Request(u1) {
		t.Fatal("first request not granted")
	}
	if !r.Request(u2) {
		t.Fatal("second request not granted within capacity")
	}
	if r.InUse() != 2 {
		t.Errorf("InUse = %d, want 2", r.InUse())
	}
}

func TestResource_FIFOHandover(t *testing.T) {
	r := NewResource("wrap_heal", 1)
	u1 := &TyreUnit{Index: 1}
	u2 := &TyreUnit{Index: 2}
	u3 := &TyreUnit{Index: 3}

	if !r.Request(u1) {
		t.Fatal("first request not granted")
	}
	if r.Request(u2) {
		t.Fatal("request beyond capacity granted")
	}
	if r.Request(u3) {
		t.Fatal("request beyond capacity granted")
	}
	if r.Waiting() != 2 {
		t.Fatalf("Waiting = %d, want 2", r.Waiting())
	}

	// The slot passes to the longest-waiting unit, never back to idle
	next, err := r.Release()
	if err != nil {
		t.Fatal(err)
	}
	if next != u2 {
		t.Errorf("released slot went to unit %d, want 2", next.Index)
	}
	if r.InUse() != 1 {
		t.Errorf("InUse = %d after handover, want 1", r.InUse())
	}

	next, err = r.Release()
	if err != nil {
		t.Fatal(err)
	}
	if next != u3 {
		t.Errorf("released slot went to unit %d, want 3", next.Index)
	}

	next, err = r.Release()
	if err != nil {
		t.Fatal(err)
	}
	if next != nil {
		t.Error("release with empty queue handed the slot to someone")
	}
	if r.InUse() != 0 {
		t.Errorf("InUse = %d after final release, want 0", r.InUse())
	}
}

func TestResource_UnbalancedReleaseIsDeadlock(t *testing.T) {
	r := NewResource("apply_bead", 1)

	_, err := r.Release()
	var deadlock *DeadlockError
	if !errors.As(err, &deadlock) {
		t.Fatalf("expected DeadlockError, got %v", err)
	}
	if deadlock.Resource != "apply_bead" {
		t.Errorf("deadlock names resource %q, want apply_bead", deadlock.Resource)
	}
}

func TestResource_CapacityNeverExceeded(t *testing.T) {
	r := NewResource(OvenResourceName, 3)
	units := make([]*TyreUnit, 10)
	for i := range units {
		units[i] = &TyreUnit{Index: i}
		r.Request(units[i])
		if r.InUse() > r.Capacity() {
			t.Fatalf("InUse %d exceeds capacity %d", r.InUse(), r.Capacity())
		}
	}
	for i := 0; i < 10; i++ {
		if _, err := r.Release(); err != nil {
			t.Fatal(err)
		}
		if r.InUse() > r.Capacity() {
			t.Fatalf("InUse %d exceeds capacity %d", r.InUse(), r.Capacity())
		}
	}
}

func TestResourcePool_Layout(t *testing.T) {
	p := NewResourcePool(12)

	for _, step := range AllBuildSteps() {
		station := p.Station(step)
		if station.Capacity() != 1 {
			t.Errorf("station %s capacity = %d, want 1", step, station.Capacity())
		}
	}
	if p.Ovens().Capacity() != 12 {
		t.Errorf("oven capacity = %d, want 12", p.Ovens().Capacity())
	}
	if got := len(p.Names()); got != len(AllBuildSteps())+1 {
		t.Errorf("pool has %d resources, want %d", got, len(AllBuildSteps())+1)
	}
	if stuck := p.Stuck(); stuck != nil {
		t.Errorf("fresh pool reports stuck resources: %v", stuck)
	}
}

func TestResourcePool_StuckDetection(t *testing.T) {
	p := NewResourcePool(1)
	u := &TyreUnit{Index: 0}

	p.Station(StepPress).Request(u)
	stuck := p.Stuck()
	if len(stuck) != 1 || stuck[0] != string(StepPress) {
		t.Errorf("Stuck = %v, want [press]", stuck)
	}
}
