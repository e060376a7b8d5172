// Package randstream provides lazy, deterministic sequences of
// floating-point samples, grounded on the teacher's per-subsystem RNG
// isolation (sim/rng.go's PartitionedRNG), generalized from a single
// master seed into a general stream abstraction per spec.md §4.6.
package randstream

import "math/rand"

// Stream yields a lazy, potentially infinite sequence of doubles. The
// contract (spec.md §4.6, §8): cloning a stream and advancing the clone
// by k samples yields the same next value as advancing the original by
// k, given identical consumption order.
type Stream interface {
	// Next returns the next sample and advances the stream.
	Next() float64
	// Clone returns an independent copy sharing no mutable state with
	// the receiver; consuming one does not affect the other.
	Clone() Stream
}

// DblConst cycles a fixed vector of values indefinitely. Empty vectors
// are invalid; NewDblConst panics rather than returning a stream that
// would divide by zero on first use.
type DblConst struct {
	values []float64
	pos    int
}

// NewDblConst creates a constant stream cycling values.
func NewDblConst(values []float64) *DblConst {
	if len(values) == 0 {
		panic("randstream: DblConst requires at least one value")
	}
	cp := make([]float64, len(values))
	copy(cp, values)
	return &DblConst{values: cp}
}

// Next returns values[pos], then advances pos modulo len(values).
func (d *DblConst) Next() float64 {
	v := d.values[d.pos]
	d.pos = (d.pos + 1) % len(d.values)
	return v
}

// Clone returns an independent DblConst at the same cursor position.
func (d *DblConst) Clone() Stream {
	cp := make([]float64, len(d.values))
	copy(cp, d.values)
	return &DblConst{values: cp, pos: d.pos}
}

// Pos returns the current cursor position, for tests asserting on
// cycling behavior without consuming further samples.
func (d *DblConst) Pos() int { return d.pos }

// seededStream draws from a seeded generator and is exactly reproducible:
// two seededStreams built with the same seed and sampling function, or
// one cloned from the other, produce identical sequences given
// identical consumption order.
//
// Clone cannot shallow-copy *rand.Rand: its Source is an interface
// holding a pointer to shared mutable state, so a field-by-field copy
// would leave the clone and the original advancing the same generator.
// Instead the stream remembers its seed and how many samples it has
// produced, and Clone rebuilds a fresh generator from the seed and
// fast-forwards it by replaying that many samples — more bytes
// consumed at clone time, but byte-for-byte reproducible thereafter,
// matching the contract in spec.md §8 ("Cloning a clone...").
type seededStream struct {
	seed    int64
	drawn   int64
	rng     *rand.Rand
	sample  func(r *rand.Rand) float64
}

func newSeededStream(seed int64, sample func(r *rand.Rand) float64) *seededStream {
	return &seededStream{
		seed:   seed,
		rng:    rand.New(rand.NewSource(seed)),
		sample: sample,
	}
}

// NewExponential returns a stream of exponentially-distributed samples
// with the given rate (mean = 1/rate), seeded deterministically.
func NewExponential(seed int64, rate float64) Stream {
	return newSeededStream(seed, func(r *rand.Rand) float64 { return r.ExpFloat64() / rate })
}

// NewUniform returns a stream of samples uniform in [lo, hi), seeded
// deterministically.
func NewUniform(seed int64, lo, hi float64) Stream {
	return newSeededStream(seed, func(r *rand.Rand) float64 { return lo + r.Float64()*(hi-lo) })
}

// NewNormal returns a stream of normally-distributed samples with the
// given mean and standard deviation, seeded deterministically. Negative
// samples are not clamped — callers needing strictly positive
// processing times should wrap with a distribution whose support
// guarantees it (e.g. NewExponential) or clamp at the call site.
func NewNormal(seed int64, mean, stddev float64) Stream {
	return newSeededStream(seed, func(r *rand.Rand) float64 { return mean + r.NormFloat64()*stddev })
}

func (s *seededStream) Next() float64 {
	s.drawn++
	return s.sample(s.rng)
}

// Clone rebuilds a generator from the original seed and fast-forwards
// it to the current cursor, then returns an independent stream that
// continues from there.
func (s *seededStream) Clone() Stream {
	clone := &seededStream{seed: s.seed, rng: rand.New(rand.NewSource(s.seed)), sample: s.sample}
	for i := int64(0); i < s.drawn; i++ {
		clone.sample(clone.rng)
	}
	clone.drawn = s.drawn
	return clone
}
