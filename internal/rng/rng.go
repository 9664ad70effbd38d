// Package rng provides deterministic random streams for the simulator.
// Substreams are derived from a master seed plus string labels, so every
// employee (and every pipeline stage) gets an independent generator that is
// reproducible regardless of worker count or scheduling order.
package rng

import (
	"encoding/binary"
	"math"
	"math/rand/v2"

	"golang.org/x/crypto/sha3"
)

// Rand wraps math/rand/v2 with the distribution samplers the activity
// generators need.
type Rand struct {
	*rand.Rand
}

// NewStream derives an independent substream from the master seed and the
// given labels using SHAKE128.
func NewStream(masterSeed int64, labels ...string) *Rand {
	h := sha3.NewShake128()

	var seedBuf [8]byte
	binary.LittleEndian.PutUint64(seedBuf[:], uint64(masterSeed))
	h.Write(seedBuf[:])
	for _, l := range labels {
		h.Write([]byte(l))
		h.Write([]byte{0})
	}

	var out [16]byte
	h.Read(out[:])
	s1 := binary.LittleEndian.Uint64(out[:8])
	s2 := binary.LittleEndian.Uint64(out[8:])
	return &Rand{rand.New(rand.NewPCG(s1, s2))}
}

// Bernoulli returns true with probability p.
func (r *Rand) Bernoulli(p float64) bool {
	return r.Float64() < p
}

// Uniform returns a value drawn uniformly from [lo, hi).
func (r *Rand) Uniform(lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// Normal returns a value drawn from N(mean, std).
func (r *Rand) Normal(mean, std float64) float64 {
	return mean + r.NormFloat64()*std
}

// LogNormal returns a value whose logarithm is N(mu, sigma).
func (r *Rand) LogNormal(mu, sigma float64) float64 {
	return math.Exp(r.Normal(mu, sigma))
}

// Poisson returns a draw from Poisson(lambda) using Knuth's method.
// The rates used here are small (well under 50), so the multiplicative
// form does not underflow.
func (r *Rand) Poisson(lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	l := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= r.Float64()
		if p <= l {
			return k
		}
		k++
	}
}

// Gamma returns a draw from Gamma(shape, scale) using the Marsaglia-Tsang
// method, with the standard boost for shape < 1.
func (r *Rand) Gamma(shape, scale float64) float64 {
	if shape <= 0 || scale <= 0 {
		return 0
	}
	if shape < 1 {
		u := r.Float64()
		return r.Gamma(shape+1, scale) * math.Pow(u, 1/shape)
	}

	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9.0*d)
	for {
		x := r.NormFloat64()
		v := 1.0 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := r.Float64()
		if u < 1.0-0.0331*x*x*x*x {
			return d * v * scale
		}
		if math.Log(u) < 0.5*x*x+d*(1.0-v+math.Log(v)) {
			return d * v * scale
		}
	}
}

// IntBetween returns a uniform integer in [lo, hi] inclusive.
func (r *Rand) IntBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

// WeightedIndex returns an index drawn according to the given weights.
// Weights need not sum to one; negative weights are treated as zero.
func (r *Rand) WeightedIndex(weights []float64) int {
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return 0
	}
	target := r.Float64() * total
	var acc float64
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		if target < acc {
			return i
		}
	}
	return len(weights) - 1
}

// Shuffled returns a shuffled copy of the given string slice.
func (r *Rand) Shuffled(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	r.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
