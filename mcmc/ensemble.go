package mcmc

import (
	"fmt"
	"iter"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
)

// Ensemble is an ordered population of walkers. Every walker is a
// point in the same fixed-dimension parameter space.
type Ensemble [][]float64

// EnsembleSampler is an affine-invariant ensemble sampler (Goodman &
// Weare stretch moves). The population is split into two halves;
// every walker of one half proposes a move by stretching towards a
// random walker of the other half. The halves are updated in
// sequence, each half in parallel.
type EnsembleSampler struct {
	logL     func([]float64) float64
	logPrior func([]float64) float64
	rng      *rand.Rand
	// AccPeriod, if positive, reports the acceptance rate every
	// AccPeriod iterations.
	AccPeriod int
}

// NewEnsembleSampler creates a new ensemble sampler. The likelihood
// and prior functions are called concurrently during the half
// updates and must be safe for concurrent use. A nil rng creates a
// time-seeded generator.
func NewEnsembleSampler(logL, logPrior func([]float64) float64, rng *rand.Rand) *EnsembleSampler {
	if rng == nil {
		rng = newRand()
	}
	return &EnsembleSampler{
		logL:     logL,
		logPrior: logPrior,
		rng:      rng,
	}
}

// Sample returns an infinite sequence of ensemble snapshots. The
// first element is the population after the first update; the
// initial ensemble itself is not emitted. Every snapshot is a fresh
// slice of walkers; a rejected walker keeps its previous position
// vector.
//
// Each walker receives its own random generator, seeded here from
// the sampler's master generator, so the per-walker updates can run
// in parallel without sharing state.
func (e *EnsembleSampler) Sample(initial Ensemble) (iter.Seq[Ensemble], error) {
	n := len(initial)
	if n < 2 {
		return nil, fmt.Errorf("insufficient walkers: have %d, need at least 2", n)
	}
	dim := len(initial[0])
	for i, w := range initial {
		if len(w) != dim {
			return nil, fmt.Errorf("walker %d has dimension %d, want %d", i, len(w), dim)
		}
	}
	rngs := make([]*rand.Rand, n)
	for i := range rngs {
		rngs[i] = rand.New(rand.NewSource(e.rng.Int63()))
	}

	half := n / 2
	seq := func(yield func(Ensemble) bool) {
		cur := make(Ensemble, n)
		copy(cur, initial)
		ll := make([]float64, n)
		lp := make([]float64, n)
		for i, w := range cur {
			ll[i] = e.logL(w)
			lp[i] = e.logPrior(w)
		}
		var accepted int64
		for it := 0; ; it++ {
			next := make(Ensemble, n)
			e.updateHalf(next, cur, 0, half, cur[half:], ll, lp, rngs, dim, &accepted)
			// The second half stretches towards the
			// already updated first half; the ordering is
			// required for detailed balance.
			e.updateHalf(next, cur, half, n, next[:half], ll, lp, rngs, dim, &accepted)
			cur = next
			if e.AccPeriod > 0 && (it+1)%e.AccPeriod == 0 {
				total := float64(e.AccPeriod) * float64(n)
				log.Infof("Acceptance rate %.2f%%", 100*float64(accepted)/total)
				accepted = 0
			}
			if !yield(cur) {
				return
			}
		}
	}
	return seq, nil
}

// updateHalf updates walkers [lo, hi) of cur, drawing complementary
// walkers from comp, and stores the results in next. Every walker is
// processed by its own goroutine using its own generator; the cached
// log-likelihoods and log-priors are updated in place.
func (e *EnsembleSampler) updateHalf(next, cur Ensemble, lo, hi int, comp Ensemble,
	ll, lp []float64, rngs []*rand.Rand, dim int, accepted *int64) {
	var wg sync.WaitGroup
	for i := lo; i < hi; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rng := rngs[i]
			u := rng.Float64()
			z := 0.5 * (1 + 2*u + u*u)
			c := comp[rng.Intn(len(comp))]
			w := cur[i]
			prop := make([]float64, dim)
			for d := 0; d < dim; d++ {
				prop[d] = c[d] + z*(w[d]-c[d])
			}
			pll := e.logL(prop)
			plp := e.logPrior(prop)
			r := (pll + plp) - (ll[i] + lp[i]) + float64(dim-1)*math.Log(z)
			if math.Log(rng.Float64()) < r {
				next[i] = prop
				ll[i] = pll
				lp[i] = plp
				atomic.AddInt64(accepted, 1)
			} else {
				next[i] = w
			}
		}(i)
	}
	wg.Wait()
}
