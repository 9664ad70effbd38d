package rng

import (
	"math"
	"testing"
)

func TestNewStreamDeterminism(t *testing.T) {
	a := NewStream(42, "employee", "EMP-00001")
	b := NewStream(42, "employee", "EMP-00001")

	for i := 0; i < 100; i++ {
		if av, bv := a.Float64(), b.Float64(); av != bv {
			t.Fatalf("draw %d differs: %v vs %v", i, av, bv)
		}
	}
}

func TestNewStreamIndependence(t *testing.T) {
	a := NewStream(42, "employee", "EMP-00001")
	b := NewStream(42, "employee", "EMP-00002")
	c := NewStream(43, "employee", "EMP-00001")

	same := 0
	for i := 0; i < 100; i++ {
		av, bv, cv := a.Float64(), b.Float64(), c.Float64()
		if av == bv || av == cv {
			same++
		}
	}
	if same > 0 {
		t.Errorf("streams with different labels or seeds collided %d times", same)
	}
}

func TestPoisson(t *testing.T) {
	r := NewStream(1, "poisson")

	if got := r.Poisson(0); got != 0 {
		t.Errorf("Poisson(0) = %d, want 0", got)
	}

	const n = 20000
	lambda := 4.0
	var sum float64
	for i := 0; i < n; i++ {
		k := r.Poisson(lambda)
		if k < 0 {
			t.Fatalf("negative draw %d", k)
		}
		sum += float64(k)
	}
	mean := sum / n
	if math.Abs(mean-lambda) > 0.1 {
		t.Errorf("Poisson mean = %.3f, want ~%.1f", mean, lambda)
	}
}

func TestGamma(t *testing.T) {
	r := NewStream(2, "gamma")

	const n = 20000
	shape, scale := 1.2, 10.0
	var sum float64
	for i := 0; i < n; i++ {
		v := r.Gamma(shape, scale)
		if v < 0 {
			t.Fatalf("negative draw %v", v)
		}
		sum += v
	}
	mean := sum / n
	want := shape * scale
	if math.Abs(mean-want) > want*0.05 {
		t.Errorf("Gamma mean = %.3f, want ~%.1f", mean, want)
	}
}

func TestGammaSmallShape(t *testing.T) {
	r := NewStream(3, "gamma-small")
	for i := 0; i < 1000; i++ {
		if v := r.Gamma(0.5, 2.0); v < 0 {
			t.Fatalf("negative draw %v", v)
		}
	}
}

func TestIntBetween(t *testing.T) {
	r := NewStream(4, "ints")

	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		v := r.IntBetween(1, 14)
		if v < 1 || v > 14 {
			t.Fatalf("IntBetween(1, 14) = %d", v)
		}
		seen[v] = true
	}
	if len(seen) != 14 {
		t.Errorf("expected all 14 values, saw %d", len(seen))
	}

	if v := r.IntBetween(5, 5); v != 5 {
		t.Errorf("IntBetween(5, 5) = %d", v)
	}
}

func TestWeightedIndex(t *testing.T) {
	r := NewStream(5, "weights")

	counts := make([]int, 3)
	weights := []float64{0.8, 0.15, 0.05}
	const n = 10000
	for i := 0; i < n; i++ {
		idx := r.WeightedIndex(weights)
		if idx < 0 || idx >= len(weights) {
			t.Fatalf("index out of range: %d", idx)
		}
		counts[idx]++
	}

	for i, w := range weights {
		got := float64(counts[i]) / n
		if math.Abs(got-w) > 0.02 {
			t.Errorf("index %d frequency = %.3f, want ~%.2f", i, got, w)
		}
	}

	if idx := r.WeightedIndex([]float64{0, 0}); idx != 0 {
		t.Errorf("all-zero weights: got %d, want 0", idx)
	}
}

func TestBernoulli(t *testing.T) {
	r := NewStream(6, "bernoulli")

	hits := 0
	const n = 10000
	for i := 0; i < n; i++ {
		if r.Bernoulli(0.3) {
			hits++
		}
	}
	got := float64(hits) / n
	if math.Abs(got-0.3) > 0.02 {
		t.Errorf("Bernoulli(0.3) frequency = %.3f", got)
	}
}

func TestShuffledPreservesElements(t *testing.T) {
	r := NewStream(7, "shuffle")
	in := []string{"a", "b", "c", "d", "e"}
	out := r.Shuffled(in)

	if len(out) != len(in) {
		t.Fatalf("length changed: %d", len(out))
	}
	seen := make(map[string]bool)
	for _, s := range out {
		seen[s] = true
	}
	for _, s := range in {
		if !seen[s] {
			t.Errorf("element %q lost", s)
		}
	}
}
