// Package dist implements probability distribution helpers used for
// diagnostics and testing of the samplers.
package dist

import (
	"math"

	"github.com/gonum/mathext"
)

// PoissonLogPMF returns the log-probability of observing k events
// under a Poisson distribution with the given rate.
func PoissonLogPMF(k int, lambda float64) float64 {
	if lambda < 0 {
		panic("lambda should be >= 0")
	}
	if k < 0 {
		return math.Inf(-1)
	}
	if lambda == 0 {
		if k == 0 {
			return 0
		}
		return math.Inf(-1)
	}
	g, _ := math.Lgamma(float64(k) + 1)
	return float64(k)*math.Log(lambda) - lambda - g
}

// PoissonCDF returns P(X <= k) for a Poisson distribution with the
// given rate, via the regularized incomplete gamma function.
func PoissonCDF(k int, lambda float64) float64 {
	if lambda < 0 {
		panic("lambda should be >= 0")
	}
	if k < 0 {
		return 0
	}
	if lambda == 0 {
		return 1
	}
	return 1 - mathext.GammaInc(float64(k)+1, lambda)
}
