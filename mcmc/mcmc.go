/*

Package mcmc implements Markov chain Monte Carlo samplers for
Bayesian inference. Two samplers are provided: a single-chain
Metropolis-Hastings sampler (Sampler) supporting a cyclic rotation of
proposal kernels with possibly asymmetric proposal densities, and an
affine-invariant ensemble sampler (EnsembleSampler) evolving a
population of walkers with stretch moves.

Both samplers produce infinite lazy sequences (iter.Seq); a step is
only computed when the next element is requested. Use ordinary
range-over-func iteration (or Take) to consume them.

*/
package mcmc

import (
	"iter"
	"math/rand"
	"time"

	"github.com/op/go-logging"
)

// log is the package logging variable.
var log = logging.MustGetLogger("mcmc")

// newRand creates a time-seeded random number generator. It is used
// whenever the caller did not supply one.
func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Take materializes the first n elements of a sequence.
func Take[S any](seq iter.Seq[S], n int) []S {
	if n <= 0 {
		return nil
	}
	res := make([]S, 0, n)
	for s := range seq {
		res = append(res, s)
		if len(res) == n {
			break
		}
	}
	return res
}
