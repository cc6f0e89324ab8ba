package mcmc

import (
	"math/rand"
)

// symRand returns a random value in the range [0, 1], including 1.
func symRand(rng *rand.Rand) float64 {
	// 1.0 is not included and we would like to be symmetric
	r := float64(1)
	for r > 0.999 {
		r = rng.Float64()
	}
	return r / 0.999
}

// UniformProposal returns a proposal kernel adding uniform noise
// from [-width/2, width/2] to the current value.
func UniformProposal(width float64, rng *rand.Rand) Proposal[float64] {
	if width <= 0 {
		panic("width should be non-negative")
	}
	if rng == nil {
		rng = newRand()
	}
	return func(x float64) float64 {
		return x + symRand(rng)*width - width/2
	}
}

// UniformGlobalProposal returns a proposal kernel drawing a fresh
// value from [min, max] regardless of the current one.
func UniformGlobalProposal(min, max float64, rng *rand.Rand) Proposal[float64] {
	if max <= min {
		panic("max <= min")
	}
	if rng == nil {
		rng = newRand()
	}
	return func(x float64) float64 {
		return min + symRand(rng)*(max-min)
	}
}

// NormalProposal returns a proposal kernel adding normal noise to
// the current value.
func NormalProposal(sd float64, rng *rand.Rand) Proposal[float64] {
	if sd <= 0 {
		panic("sd should be >= 0")
	}
	if rng == nil {
		rng = newRand()
	}
	return func(x float64) float64 {
		return x + rng.NormFloat64()*sd
	}
}

// NormalVectorProposal returns a proposal kernel adding independent
// normal noise to every coordinate of a vector state.
func NormalVectorProposal(sd float64, rng *rand.Rand) Proposal[[]float64] {
	if sd <= 0 {
		panic("sd should be >= 0")
	}
	if rng == nil {
		rng = newRand()
	}
	return func(x []float64) []float64 {
		prop := make([]float64, len(x))
		for i, v := range x {
			prop[i] = v + rng.NormFloat64()*sd
		}
		return prop
	}
}

// SymmetricDensity is the proposal density of any symmetric kernel.
// The forward and backward log-densities are equal, so they cancel
// in the acceptance ratio and the sampler reduces to the plain
// Metropolis rule.
func SymmetricDensity[S any]() ProposalDensity[S] {
	return func(from, to S) (fwd, bwd float64) {
		return 0, 0
	}
}
