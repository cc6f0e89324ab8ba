package dist

import (
	"math"
	"math/rand"
	"testing"
)

func TestPoissonLogPMF(tst *testing.T) {
	// reference values: log(lambda^k exp(-lambda) / k!)
	cases := []struct {
		k      int
		lambda float64
		want   float64
	}{
		{0, 1, -1},
		{1, 1, -1},
		{2, 1, -1 - math.Log(2)},
		{3, 2.5, 3*math.Log(2.5) - 2.5 - math.Log(6)},
		{0, 0, 0},
	}
	for _, c := range cases {
		got := PoissonLogPMF(c.k, c.lambda)
		if math.Abs(got-c.want) > 1e-12 {
			tst.Errorf("PoissonLogPMF(%d, %v): got %v, want %v", c.k, c.lambda, got, c.want)
		}
	}
	if got := PoissonLogPMF(-1, 1); !math.IsInf(got, -1) {
		tst.Errorf("PoissonLogPMF(-1, 1): got %v, want -Inf", got)
	}
	if got := PoissonLogPMF(1, 0); !math.IsInf(got, -1) {
		tst.Errorf("PoissonLogPMF(1, 0): got %v, want -Inf", got)
	}
}

func TestPoissonCDF(tst *testing.T) {
	// the CDF must match the summed PMF
	for _, lambda := range []float64{0.5, 2, 10} {
		sum := 0.0
		for k := 0; k <= 30; k++ {
			sum += math.Exp(PoissonLogPMF(k, lambda))
			got := PoissonCDF(k, lambda)
			if math.Abs(got-sum) > 1e-10 {
				tst.Errorf("PoissonCDF(%d, %v): got %v, want %v", k, lambda, got, sum)
			}
		}
	}
	if got := PoissonCDF(-1, 1); got != 0 {
		tst.Errorf("PoissonCDF(-1, 1): got %v, want 0", got)
	}
	if got := PoissonCDF(3, 0); got != 1 {
		tst.Errorf("PoissonCDF(3, 0): got %v, want 1", got)
	}
}

// TestPoissonProcessConstant checks the homogeneous case: the number
// of events on [0, T) should be Poisson distributed with mean
// rate*T.
func TestPoissonProcessConstant(tst *testing.T) {
	const (
		rate = 2.0
		T    = 50.0
		reps = 200
	)
	rng := rand.New(rand.NewSource(1))
	total := 0
	for r := 0; r < reps; r++ {
		events := PoissonProcess(func(t float64) float64 { return rate }, rate, 0, T, rng)
		total += len(events)
		for i, t := range events {
			if t < 0 || t >= T {
				tst.Fatalf("Event time %v outside of [0, %v)", t, T)
			}
			if i > 0 && t <= events[i-1] {
				tst.Fatal("Event times should be increasing")
			}
		}
	}
	mean := float64(total) / reps
	// mean count is rate*T = 100, standard error sqrt(100/reps)
	if math.Abs(mean-rate*T) > 6*math.Sqrt(rate*T/reps) {
		tst.Errorf("Mean event count %v too far from %v", mean, rate*T)
	}
}

// TestPoissonProcessThinning checks that a linearly increasing rate
// puts more events in the later part of the interval.
func TestPoissonProcessThinning(tst *testing.T) {
	rng := rand.New(rand.NewSource(2))
	rate := func(t float64) float64 { return t }
	first, second := 0, 0
	for r := 0; r < 100; r++ {
		for _, t := range PoissonProcess(rate, 10, 0, 10, rng) {
			if t < 5 {
				first++
			} else {
				second++
			}
		}
	}
	// expected counts: 12.5 vs 37.5 per repetition
	if first >= second {
		tst.Errorf("Expected more events in the second half, got %d vs %d", first, second)
	}
}
