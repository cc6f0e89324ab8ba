package mcmc

import (
	"math"
	"math/rand"
	"testing"

	"bitbucket.org/Davydov/gomcmc/stats"
)

func flatVector(x []float64) float64 {
	return 0
}

func TestEnsembleInsufficientWalkers(tst *testing.T) {
	e := NewEnsembleSampler(flatVector, flatVector, rand.New(rand.NewSource(1)))
	for _, n := range []int{0, 1} {
		initial := make(Ensemble, n)
		for i := range initial {
			initial[i] = []float64{0}
		}
		seq, err := e.Sample(initial)
		if err == nil {
			tst.Errorf("Expected an error for %d walkers", n)
		}
		if seq != nil {
			tst.Errorf("Expected nil sequence for %d walkers", n)
		}
	}
}

func TestEnsembleDimensionMismatch(tst *testing.T) {
	e := NewEnsembleSampler(flatVector, flatVector, rand.New(rand.NewSource(1)))
	_, err := e.Sample(Ensemble{{0, 0}, {0, 0}, {0}})
	if err == nil {
		tst.Error("Expected an error for walkers of different dimension")
	}
}

// TestEnsembleMinimal checks that the minimal population of two
// walkers splits into two singleton halves and advances without
// errors.
func TestEnsembleMinimal(tst *testing.T) {
	rng := rand.New(rand.NewSource(2))
	e := NewEnsembleSampler(
		func(x []float64) float64 { return -square(x[0]) / 2 },
		flatVector, rng)
	seq, err := e.Sample(Ensemble{{-1}, {1}})
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	for _, ens := range Take(seq, 10) {
		if len(ens) != 2 {
			tst.Fatalf("Expected 2 walkers, got %d", len(ens))
		}
		for _, w := range ens {
			if len(w) != 1 {
				tst.Fatalf("Expected dimension 1, got %d", len(w))
			}
		}
	}
}

func TestEnsembleReproducibleSeeds(tst *testing.T) {
	run := func() []Ensemble {
		rng := rand.New(rand.NewSource(13))
		initial := make(Ensemble, 10)
		for i := range initial {
			initial[i] = []float64{rng.NormFloat64(), rng.NormFloat64()}
		}
		e := NewEnsembleSampler(
			func(x []float64) float64 { return -(square(x[0]) + square(x[1])) / 2 },
			flatVector, rng)
		seq, err := e.Sample(initial)
		if err != nil {
			tst.Fatal("Error: ", err)
		}
		return Take(seq, 20)
	}
	a := run()
	b := run()
	for i := range a {
		for j := range a[i] {
			for d := range a[i][j] {
				if a[i][j][d] != b[i][j][d] {
					tst.Fatalf("Snapshot %d walker %d differs between identically seeded runs", i, j)
				}
			}
		}
	}
}

// TestEnsembleGaussian checks that the population converges to a
// two-dimensional Gaussian target and that the aggregated moments
// match.
func TestEnsembleGaussian(tst *testing.T) {
	if testing.Short() {
		tst.Skip("skipping statistical test in short mode")
	}
	const (
		nwalkers = 40
		iter     = 1500
		burn     = 250
	)
	mu := []float64{1, -2}

	rng := rand.New(rand.NewSource(4))
	logL := func(x []float64) float64 {
		return -(square(x[0]-mu[0]) + square(x[1]-mu[1])) / 2
	}

	initial := make(Ensemble, nwalkers)
	for i := range initial {
		initial[i] = []float64{rng.Float64()*6 - 3, rng.Float64()*6 - 3}
	}

	e := NewEnsembleSampler(logL, flatVector, rng)
	seq, err := e.Sample(initial)
	if err != nil {
		tst.Fatal("Error: ", err)
	}

	var xs, ys []float64
	i := 0
	for ens := range seq {
		if i >= burn {
			for _, w := range ens {
				xs = append(xs, w[0])
				ys = append(ys, w[1])
			}
		}
		i++
		if i == iter {
			break
		}
	}

	if math.Abs(stats.Mean(xs)-mu[0]) > 0.06 {
		tst.Errorf("Population mean %v too far from %v", stats.Mean(xs), mu[0])
	}
	if math.Abs(stats.Mean(ys)-mu[1]) > 0.06 {
		tst.Errorf("Population mean %v too far from %v", stats.Mean(ys), mu[1])
	}
	if math.Abs(stats.Std(xs)-1) > 0.1 {
		tst.Errorf("Population sd %v too far from 1", stats.Std(xs))
	}
}

// TestEnsembleSnapshots checks that every emitted snapshot is a
// fresh collection and that the initial ensemble is not emitted.
func TestEnsembleSnapshots(tst *testing.T) {
	rng := rand.New(rand.NewSource(6))
	initial := Ensemble{{-1}, {-0.5}, {0.5}, {1}}
	e := NewEnsembleSampler(
		func(x []float64) float64 { return -square(x[0]) / 2 },
		flatVector, rng)
	seq, err := e.Sample(initial)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	snaps := Take(seq, 5)
	if &snaps[0][0] == &initial[0] {
		tst.Error("Snapshot aliases the initial ensemble")
	}
	moved := false
	for _, ens := range snaps {
		for i, w := range ens {
			if w[0] != initial[i][0] {
				moved = true
			}
		}
	}
	if !moved {
		tst.Error("No walker moved in 5 iterations")
	}
}
