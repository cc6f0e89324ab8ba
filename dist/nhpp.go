package dist

import (
	"math/rand"
	"time"
)

// PoissonProcess samples event times of a non-homogeneous Poisson
// process with intensity rate on the interval [t0, t1) using the
// thinning method. rateMax must dominate rate on the whole interval;
// candidate events of a homogeneous process with intensity rateMax
// are kept with probability rate(t)/rateMax. A nil rng creates a
// time-seeded generator.
func PoissonProcess(rate func(float64) float64, rateMax, t0, t1 float64, rng *rand.Rand) []float64 {
	if rateMax <= 0 {
		panic("rateMax should be > 0")
	}
	if t1 <= t0 {
		panic("t1 should be > t0")
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	var events []float64
	for t := t0; ; {
		t += rng.ExpFloat64() / rateMax
		if t >= t1 {
			break
		}
		if rng.Float64()*rateMax < rate(t) {
			events = append(events, t)
		}
	}
	return events
}
