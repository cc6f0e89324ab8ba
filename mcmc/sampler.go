package mcmc

import (
	"iter"
	"math"
	"math/rand"
)

// Proposal generates a new candidate state from the current one. All
// randomness comes from the generator captured by the closure; a
// proposal keeps no other state between calls.
type Proposal[S any] func(S) S

// ProposalDensity returns the log-density of proposing to from from
// (forward) and from from to (backward). It must describe the
// Proposal at the same position of the kernel rotation.
type ProposalDensity[S any] func(from, to S) (fwd, bwd float64)

// Sampler is a single-chain Metropolis-Hastings sampler. The state
// type is opaque to the sampler; the likelihood, prior and proposal
// functions only have to agree on it.
type Sampler[S any] struct {
	logL      func(S) float64
	logPrior  func(S) float64
	kernels   []Proposal[S]
	densities []ProposalDensity[S]
	rng       *rand.Rand
	// AccPeriod, if positive, reports the acceptance rate every
	// AccPeriod steps.
	AccPeriod int
}

// NewSampler creates a new single-chain sampler. kernels and
// densities are parallel slices; the sampler cycles through them one
// pair per step, restarting after the last. A chain with a single
// proposal kernel uses one-element slices. A nil rng creates a
// time-seeded generator.
func NewSampler[S any](logL, logPrior func(S) float64,
	kernels []Proposal[S], densities []ProposalDensity[S],
	rng *rand.Rand) *Sampler[S] {
	if len(kernels) == 0 {
		panic("at least one proposal kernel is required")
	}
	if len(kernels) != len(densities) {
		panic("number of proposal kernels and density functions should match")
	}
	if rng == nil {
		rng = newRand()
	}
	return &Sampler[S]{
		logL:      logL,
		logPrior:  logPrior,
		kernels:   kernels,
		densities: densities,
		rng:       rng,
	}
}

// Sample returns an infinite sequence of chain states. The first
// element is the initial state itself; element i is the state after i
// accept/reject steps. The log-likelihood and log-prior of the
// current state are cached, so they are evaluated once per proposed
// state only.
//
// The sampler's generator is shared between all sequences it
// produced and is never reset: calling Sample twice with the same
// initial state does not reproduce the same sequence. A chain is
// strictly sequential; consume one sequence at a time.
func (s *Sampler[S]) Sample(initial S) iter.Seq[S] {
	return func(yield func(S) bool) {
		cur := initial
		ll := s.logL(cur)
		lp := s.logPrior(cur)
		if !yield(cur) {
			return
		}
		accepted := 0
		for i := 0; ; i++ {
			k := i % len(s.kernels)
			prop := s.kernels[k](cur)
			pll := s.logL(prop)
			plp := s.logPrior(prop)
			fwd, bwd := s.densities[k](cur, prop)
			r := (pll + plp + bwd) - (ll + lp + fwd)
			// r > 0 means the acceptance probability
			// exceeds one, no draw is needed.
			if r > 0 || math.Log(s.rng.Float64()) < r {
				cur, ll, lp = prop, pll, plp
				accepted++
			}
			if s.AccPeriod > 0 && (i+1)%s.AccPeriod == 0 {
				log.Infof("Acceptance rate %.2f%%", 100*float64(accepted)/float64(s.AccPeriod))
				accepted = 0
			}
			if !yield(cur) {
				return
			}
		}
	}
}
