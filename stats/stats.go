// Package stats implements descriptive statistics for finite
// collections of samples, e.g. materialized MCMC output.
package stats

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// Mean returns the arithmetic mean of a sample.
func Mean(xs []float64) (mean float64) {
	if len(xs) == 0 {
		panic("mean of an empty sample")
	}
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	return
}

// Variance returns the unbiased sample variance.
func Variance(xs []float64) (v float64) {
	if len(xs) < 2 {
		panic("variance needs at least two values")
	}
	mean := Mean(xs)
	for _, x := range xs {
		v += (x - mean) * (x - mean)
	}
	v /= float64(len(xs) - 1)
	return
}

// Std returns the sample standard deviation.
func Std(xs []float64) float64 {
	return math.Sqrt(Variance(xs))
}

// Percentile returns the p-th percentile (p in [0, 1]) of a sample
// using selection instead of a full sort. The sample itself is not
// modified.
func Percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		panic("percentile of an empty sample")
	}
	if p < 0 || p > 1 {
		panic("percentile should be in [0, 1]")
	}
	work := make([]float64, len(xs))
	copy(work, xs)
	k := int(math.Round(p * float64(len(xs)-1)))
	return quickselect(work, k)
}

// quickselect returns the k-th smallest element of xs (0-based),
// partially reordering xs in place. Median-of-three pivots keep the
// expected running time linear.
func quickselect(xs []float64, k int) float64 {
	lo, hi := 0, len(xs)-1
	for lo < hi {
		p := partition(xs, lo, hi)
		switch {
		case k < p:
			hi = p - 1
		case k > p:
			lo = p + 1
		default:
			return xs[k]
		}
	}
	return xs[k]
}

func partition(xs []float64, lo, hi int) int {
	mid := lo + (hi-lo)/2
	if xs[mid] < xs[lo] {
		xs[mid], xs[lo] = xs[lo], xs[mid]
	}
	if xs[hi] < xs[lo] {
		xs[hi], xs[lo] = xs[lo], xs[hi]
	}
	if xs[hi] < xs[mid] {
		xs[hi], xs[mid] = xs[mid], xs[hi]
	}
	xs[mid], xs[hi-1] = xs[hi-1], xs[mid]
	pivot := xs[hi-1]
	i := lo
	for j := lo; j < hi-1; j++ {
		if xs[j] < pivot {
			xs[i], xs[j] = xs[j], xs[i]
			i++
		}
	}
	xs[i], xs[hi-1] = xs[hi-1], xs[i]
	return i
}

// Covariance returns the unbiased sample covariance matrix of a
// collection of equal-dimension vectors (e.g. an ensemble of
// walkers).
func Covariance(samples [][]float64) *mat64.Dense {
	n := len(samples)
	if n < 2 {
		panic("covariance needs at least two samples")
	}
	dim := len(samples[0])
	mean := make([]float64, dim)
	for _, s := range samples {
		if len(s) != dim {
			panic("samples should have the same dimension")
		}
		for d, x := range s {
			mean[d] += x
		}
	}
	for d := range mean {
		mean[d] /= float64(n)
	}
	centered := make([]float64, n*dim)
	for i, s := range samples {
		for d, x := range s {
			centered[i*dim+d] = x - mean[d]
		}
	}
	x := mat64.NewDense(n, dim, centered)
	var cov mat64.Dense
	cov.Mul(x.T(), x)
	cov.Scale(1/float64(n-1), &cov)
	return &cov
}
