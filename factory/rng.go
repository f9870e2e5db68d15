package factory

import (
	"hash/fnv"
	"math/rand"
)

// PartitionedRNG hands out deterministic, isolated RNG streams per subsystem.
// Each named stream is lazily seeded with masterSeed XOR fnv1a64(name), so
// adding a new consumer never perturbs the draws an existing one sees under
// the same master seed.
//
// Not safe for concurrent use; the engine is single-threaded by design.
type PartitionedRNG struct {
	masterSeed int64
	streams    map[string]*rand.Rand
}

// Subsystem name for oven temperature sampling. Building-duration streams are
// named after their station, see Resource.Name.
const SubsystemOven = "oven"

// NewPartitionedRNG creates a partitioned RNG from the run's master seed.
func NewPartitionedRNG(masterSeed int64) *PartitionedRNG {
	return &PartitionedRNG{
		masterSeed: masterSeed,
		streams:    make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns the RNG stream for the named subsystem, creating it on
// first use. Repeated calls with the same name return the same stream.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.streams[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(p.masterSeed ^ fnv1a64(name)))
	p.streams[name] = rng
	return rng
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
