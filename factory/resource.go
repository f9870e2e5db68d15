package factory

import "fmt"

// OvenResourceName keys the shared curing-oven pool in the resource map and
// in per-resource wait statistics.
const OvenResourceName = "curing"

// Resource is one finite-capacity station or pool. Grants go to waiters in
// arrival order; arrival order is itself deterministic because the event
// loop executes same-instant events in a fixed order.
type Resource struct {
	name     string
	capacity int
	inUse    int
	waiters  []*TyreUnit
}

// NewResource creates a resource with the given capacity. Capacity must be
// at least 1; configuration validates this before construction.
func NewResource(name string, capacity int) *Resource {
	return &Resource{name: name, capacity: capacity}
}

func (r *Resource) Name() string  { return r.name }
func (r *Resource) Capacity() int { return r.capacity }
func (r *Resource) InUse() int    { return r.inUse }
func (r *Resource) Waiting() int  { return len(r.waiters) }

// Request asks for one slot on behalf of a unit. If a slot is free it is
// taken immediately and Request reports true; otherwise the unit joins the
// FIFO queue and will be handed the slot by a later Release.
func (r *Resource) Request(u *TyreUnit) bool {
	if r.inUse < r.capacity {
		r.inUse++
		return true
	}
	r.waiters = append(r.waiters, u)
	return false
}

// Release returns one slot. If anyone is waiting, the slot passes directly
// to the longest-waiting unit, which Release returns so the caller can
// resume its journey; otherwise the slot goes idle and Release returns nil.
// Releasing a slot nobody holds is a balance violation and run-fatal.
func (r *Resource) Release() (*TyreUnit, error) {
	if r.inUse <= 0 {
		return nil, &DeadlockError{
			Resource: r.name,
			Detail:   "release without matching acquire",
		}
	}
	if len(r.waiters) == 0 {
		r.inUse--
		return nil, nil
	}
	next := r.waiters[0]
	r.waiters[0] = nil // keep the backing array from pinning units
	r.waiters = r.waiters[1:]
	return next, nil
}

// ResourcePool owns every station plus the oven pool. Stations are fixed at
// capacity 1; the oven capacity is a configuration parameter.
type ResourcePool struct {
	resources map[string]*Resource
	names     []string
}

// NewResourcePool builds the full resource set for a run.
func NewResourcePool(ovenCapacity int) *ResourcePool {
	p := &ResourcePool{resources: make(map[string]*Resource)}
	for _, step := range AllBuildSteps() {
		p.add(NewResource(StationName(step), 1))
	}
	p.add(NewResource(OvenResourceName, ovenCapacity))
	return p
}

func (p *ResourcePool) add(r *Resource) {
	p.resources[r.name] = r
	p.names = append(p.names, r.name)
}

// Station returns the resource backing a build step.
func (p *ResourcePool) Station(step BuildStep) *Resource {
	r, ok := p.resources[StationName(step)]
	if !ok {
		panic(fmt.Sprintf("no station for step %s", step))
	}
	return r
}

// Ovens returns the shared curing-oven pool.
func (p *ResourcePool) Ovens() *Resource {
	return p.resources[OvenResourceName]
}

// Names lists every resource in construction order.
func (p *ResourcePool) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Stuck lists resources that still hold units or have waiters queued. An
// exhausted event queue with stuck resources means the acquire/release
// contract was broken somewhere.
func (p *ResourcePool) Stuck() []string {
	var stuck []string
	for _, name := range p.names {
		r := p.resources[name]
		if r.inUse > 0 || len(r.waiters) > 0 {
			stuck = append(stuck, name)
		}
	}
	return stuck
}
